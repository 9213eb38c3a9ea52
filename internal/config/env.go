package config

import (
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
)

// envConfig is the environment-variable fallback tier. The variable names
// match the remote bundle's field names one for one.
type envConfig struct {
	ServerURL  string `env:"MEDIA_SERVER_URL"`
	APIKey     string `env:"MEDIA_SERVER_API_KEY"`
	APISecret  string `env:"MEDIA_SERVER_API_SECRET"`
	SecretKeys string `env:"SECRET_KEYS"`
}

// fromEnv reads the four configuration fields from the process environment.
// Unlike the remote tier the result is not validated: missing variables
// simply leave fields empty, and the issuer rejects requests against such a
// config with a misconfiguration error.
func fromEnv(log *logger.Logger) *RuntimeConfig {
	log.Info().Msg("falling back to environment variables")

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		log.Error().Err(err).Msg("failed to parse environment variables")
		return &RuntimeConfig{}
	}

	cfg := &RuntimeConfig{
		ServerURL: ec.ServerURL,
		APIKey:    ec.APIKey,
		APISecret: ec.APISecret,
	}
	if ec.SecretKeys != "" {
		cfg.ValidKeys = strings.Split(ec.SecretKeys, ",")
	}
	return cfg
}
