package token

import (
	"errors"
	"fmt"
)

var (
	// ErrAPIKeyMissing means the request carried no API key at all.
	ErrAPIKeyMissing = errors.New("api key is missing in the request header")

	// ErrAPIKeyInvalid means the presented API key matched none of the
	// configured caller keys.
	ErrAPIKeyInvalid = errors.New("invalid api key")

	// ErrServiceMisconfigured means the media server credentials were still
	// incomplete after bootstrap. An operations problem, not a caller one.
	ErrServiceMisconfigured = errors.New("missing media server credentials")
)

// IssuanceError wraps an unexpected failure during token construction. The
// message carries diagnostic text only, never credential material.
type IssuanceError struct {
	Err error
}

func (e *IssuanceError) Error() string {
	return fmt.Sprintf("error generating token: %v", e.Err)
}

func (e *IssuanceError) Unwrap() error {
	return e.Err
}
