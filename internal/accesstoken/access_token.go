// Package accesstoken builds the signed JWTs that grant access to rooms on
// the media server. The format matches what the server verifies: an HS256
// token whose issuer is the API key, whose subject is the participant
// identity, and whose custom claims carry the video grant and the room
// configuration.
package accesstoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultValidity applies when SetValidFor was not called.
const defaultValidity = 6 * time.Hour

// ErrMissingCredentials is returned by ToJWT when the API key or secret is
// empty.
var ErrMissingCredentials = errors.New("missing API key or secret")

// Claims is the JWT payload of an access token.
type Claims struct {
	Video      *VideoGrant        `json:"video,omitempty"`
	RoomConfig *RoomConfiguration `json:"roomConfig,omitempty"`
	jwt.RegisteredClaims
}

// AccessToken accumulates the parts of a token and signs them with ToJWT.
// Setters return the receiver so calls can be chained.
type AccessToken struct {
	apiKey     string
	apiSecret  string
	identity   string
	grant      *VideoGrant
	roomConfig *RoomConfiguration
	validFor   time.Duration
}

// New creates an AccessToken signed by the given API key pair.
func New(apiKey, apiSecret string) *AccessToken {
	return &AccessToken{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// SetIdentity sets the participant identity the token is issued to.
func (t *AccessToken) SetIdentity(identity string) *AccessToken {
	t.identity = identity
	return t
}

// SetVideoGrant sets the token's video grant.
func (t *AccessToken) SetVideoGrant(grant *VideoGrant) *AccessToken {
	t.grant = grant
	return t
}

// SetRoomConfig sets the room configuration applied when the room is created.
func (t *AccessToken) SetRoomConfig(config *RoomConfiguration) *AccessToken {
	t.roomConfig = config
	return t
}

// SetValidFor sets how long the token stays valid after issuance.
func (t *AccessToken) SetValidFor(d time.Duration) *AccessToken {
	t.validFor = d
	return t
}

// ToJWT signs the accumulated token with the API secret.
func (t *AccessToken) ToJWT() (string, error) {
	if t.apiKey == "" || t.apiSecret == "" {
		return "", ErrMissingCredentials
	}

	validFor := t.validFor
	if validFor <= 0 {
		validFor = defaultValidity
	}

	now := time.Now()
	claims := &Claims{
		Video:      t.grant,
		RoomConfig: t.roomConfig,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.apiKey,
			Subject:   t.identity,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validFor)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(t.apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}

// Verify parses tokenString and checks that it was signed by the given API
// key pair.
func Verify(tokenString, apiKey, apiSecret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(apiSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %v", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("failed to extract claims")
	}

	if claims.Issuer != apiKey {
		return nil, errors.New("token was issued by a different API key")
	}

	return claims, nil
}
