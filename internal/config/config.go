// Package config resolves the runtime configuration of the token service.
//
// Resolution is two-tiered: the primary source is a named bundle in the
// remote secret store; when that fails for any reason the four fields are
// read from process environment variables instead. The fallback is attempted
// exactly once and its result is accepted as-is, so a degraded environment
// yields a config with empty fields rather than a startup failure. Detecting
// an unusable config is deferred to the token issuer at request time.
package config

import (
	"context"
	"errors"
	"strings"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
	"github.com/ivylabs/mediatoken_backend/internal/secrets"
)

// Bundle fields required from the remote secret store. The environment
// fallback reads variables of the same names.
const (
	fieldServerURL = "MEDIA_SERVER_URL"
	fieldAPIKey    = "MEDIA_SERVER_API_KEY"
	fieldAPISecret = "MEDIA_SERVER_API_SECRET"
	fieldKeyList   = "SECRET_KEYS"
)

// RuntimeConfig holds everything the token issuer needs. It is built once at
// startup and never mutated afterwards, so it is safe to share across
// concurrent requests without locking.
type RuntimeConfig struct {
	// ServerURL is the media server endpoint handed out alongside tokens.
	ServerURL string

	// APIKey and APISecret are the media server signing credentials.
	APIKey    string
	APISecret string

	// ValidKeys is the ordered list of caller API keys. A caller's ordinal
	// is its 1-based position in this list.
	ValidKeys []string
}

// CallerOrdinal returns the 1-based position of key in ValidKeys. The first
// match wins when the list contains duplicates.
func (c *RuntimeConfig) CallerOrdinal(key string) (int, bool) {
	for i, k := range c.ValidKeys {
		if k == key {
			return i + 1, true
		}
	}
	return 0, false
}

// HasCredentials reports whether the media server endpoint and signing
// credentials are all present. A config that fails this check came from a
// degraded bootstrap and cannot issue tokens.
func (c *RuntimeConfig) HasCredentials() bool {
	return c.ServerURL != "" && c.APIKey != "" && c.APISecret != ""
}

// Options names the secret bundle to resolve and the region it lives in.
type Options struct {
	SecretName string
	Region     string
}

// Resolve loads the runtime configuration, preferring the remote secret
// store and falling back to environment variables on any failure. It never
// returns an error: both tiers degraded still produces a usable (empty)
// RuntimeConfig, and the issuer reports the misconfiguration at request
// time. A nil store skips straight to the environment tier.
func Resolve(ctx context.Context, store secrets.Client, opts Options, log *logger.Logger) *RuntimeConfig {
	if store == nil {
		log.Warn().Str("secret", opts.SecretName).Msg("no secret store client available")
		return fromEnv(log)
	}

	log.Info().
		Str("secret", opts.SecretName).
		Str("region", opts.Region).
		Msg("loading configuration from secret store")

	bundle, err := store.FetchBundle(ctx, opts.SecretName)
	if err != nil {
		var fetchErr *secrets.FetchError
		if errors.As(err, &fetchErr) {
			log.Error().
				Str("category", string(fetchErr.Category)).
				Err(err).
				Msg("failed to load configuration from secret store")
		} else {
			log.Error().Err(err).Msg("failed to load configuration from secret store")
		}
		return fromEnv(log)
	}

	if err := validateBundle(opts.SecretName, bundle); err != nil {
		log.Error().Err(err).Msg("secret bundle failed validation")
		return fromEnv(log)
	}

	log.Info().Str("secret", opts.SecretName).Msg("configuration loaded from secret store")

	return &RuntimeConfig{
		ServerURL: bundle[fieldServerURL],
		APIKey:    bundle[fieldAPIKey],
		APISecret: bundle[fieldAPISecret],
		ValidKeys: strings.Split(bundle[fieldKeyList], ","),
	}
}
