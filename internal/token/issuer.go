// Package token implements the issuance core: caller-key validation and
// construction of room-scoped, time-bounded media access tokens carrying
// agent dispatch metadata.
package token

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ivylabs/mediatoken_backend/internal/accesstoken"
	"github.com/ivylabs/mediatoken_backend/internal/config"
	"github.com/ivylabs/mediatoken_backend/internal/logger"
)

const (
	// identityPrefix and roomPrefix tag the generated identifiers.
	identityPrefix = "identity-"
	roomPrefix     = "web-call-"

	// defaultAgentName applies when the request does not name an agent.
	defaultAgentName = "ivy"

	// dispatchAgentName is the fixed dispatch target declared in every
	// issued token's room configuration.
	dispatchAgentName = "k-a"

	// tokenValidity is the validity window of every issued token.
	tokenValidity = 24 * time.Hour
)

// CustomerInfo identifies the end customer a token is issued for.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Request carries the caller-supplied issuance parameters.
type Request struct {
	Customer  *CustomerInfo
	AgentName string
}

// IssuedToken is the result of a successful issuance. Nothing here is
// stored: room and identity are fresh random values generated per call.
type IssuedToken struct {
	Token               string
	RoomName            string
	ParticipantIdentity string
	AgentName           string
}

// Metadata is serialized into the issued token's room configuration and
// consumed by the dispatched media agent.
type Metadata struct {
	Agent    string        `json:"agent"`
	UserID   int           `json:"user_id"`
	Customer *CustomerInfo `json:"customer,omitempty"`
}

// Issuer validates caller keys and issues room access tokens against an
// immutable runtime configuration.
type Issuer struct {
	cfg *config.RuntimeConfig
	log *logger.Logger
}

// NewIssuer creates an Issuer bound to the given configuration.
func NewIssuer(cfg *config.RuntimeConfig, log *logger.Logger) *Issuer {
	return &Issuer{
		cfg: cfg,
		log: log,
	}
}

// Issue validates callerKey and, when the configuration is usable, returns a
// fresh token scoped to joining a newly named room. The key check runs on
// every call and is never bypassed; a degraded configuration surfaces here as
// ErrServiceMisconfigured rather than at startup.
func (i *Issuer) Issue(callerKey string, req Request) (*IssuedToken, error) {
	ordinal, err := i.validateKey(callerKey)
	if err != nil {
		return nil, err
	}

	if !i.cfg.HasCredentials() {
		i.log.Error().Msg("missing media server credentials")
		return nil, ErrServiceMisconfigured
	}

	identitySuffix, err := randomHex()
	if err != nil {
		i.log.Error().Err(err).Msg("failed to generate participant identity")
		return nil, &IssuanceError{Err: err}
	}
	identity := identityPrefix + identitySuffix[:6]

	roomSuffix, err := randomHex()
	if err != nil {
		i.log.Error().Err(err).Msg("failed to generate room name")
		return nil, &IssuanceError{Err: err}
	}
	roomName := roomPrefix + roomSuffix

	agentName := req.AgentName
	if agentName == "" {
		agentName = defaultAgentName
	}

	metadata, err := json.Marshal(Metadata{
		Agent:    agentName,
		UserID:   ordinal,
		Customer: req.Customer,
	})
	if err != nil {
		i.log.Error().Err(err).Msg("failed to serialize dispatch metadata")
		return nil, &IssuanceError{Err: err}
	}

	signed, err := accesstoken.New(i.cfg.APIKey, i.cfg.APISecret).
		SetIdentity(identity).
		SetVideoGrant(&accesstoken.VideoGrant{RoomJoin: true, Room: roomName}).
		SetValidFor(tokenValidity).
		SetRoomConfig(&accesstoken.RoomConfiguration{
			Agents: []*accesstoken.RoomAgentDispatch{
				{AgentName: dispatchAgentName, Metadata: string(metadata)},
			},
		}).
		ToJWT()
	if err != nil {
		i.log.Error().Err(err).Msg("error generating token")
		return nil, &IssuanceError{Err: err}
	}

	i.log.Info().
		Str("room", roomName).
		Str("participant", identity).
		Str("agent", agentName).
		Int("caller", ordinal).
		Msg("token issued")

	return &IssuedToken{
		Token:               signed,
		RoomName:            roomName,
		ParticipantIdentity: identity,
		AgentName:           agentName,
	}, nil
}

// validateKey checks callerKey against the configured key list and returns
// the caller ordinal, the 1-based position of the first match.
func (i *Issuer) validateKey(callerKey string) (int, error) {
	if callerKey == "" {
		i.log.Warn().Msg("API key missing in request")
		return 0, ErrAPIKeyMissing
	}

	ordinal, ok := i.cfg.CallerOrdinal(callerKey)
	if !ok {
		i.log.Warn().Msg("invalid API key provided")
		return 0, ErrAPIKeyInvalid
	}

	return ordinal, nil
}

// randomHex returns 32 hex characters of fresh randomness, safe for
// concurrent use.
func randomHex() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}
