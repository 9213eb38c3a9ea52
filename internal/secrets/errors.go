package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// Category classifies a secret-store failure. The bootstrap layer treats
// every category the same way (log and fall back); categories exist so the
// log line says what actually went wrong.
type Category string

const (
	CategoryDecryption       Category = "decryption"
	CategoryNotFound         Category = "not_found"
	CategoryInvalidParameter Category = "invalid_parameter"
	CategoryInvalidRequest   Category = "invalid_request"
	CategoryInternal         Category = "internal"
	CategoryCredentials      Category = "credentials"
	CategoryMalformedPayload Category = "malformed_payload"
)

// FetchError is returned by Client implementations when a bundle cannot be
// retrieved or decoded.
type FetchError struct {
	Secret   string
	Category Category
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch secret %q (%s): %v", e.Secret, e.Category, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// categorize maps an AWS SDK error onto the failure taxonomy. Typed service
// exceptions come first; credential-resolution failures have no exported type
// in the v2 SDK, so they are recognized by the message the SDK produces.
func categorize(err error) Category {
	var (
		decryptionFailure *types.DecryptionFailure
		internalError     *types.InternalServiceError
		invalidParameter  *types.InvalidParameterException
		invalidRequest    *types.InvalidRequestException
		notFound          *types.ResourceNotFoundException
	)

	switch {
	case errors.As(err, &decryptionFailure):
		return CategoryDecryption
	case errors.As(err, &internalError):
		return CategoryInternal
	case errors.As(err, &invalidParameter):
		return CategoryInvalidParameter
	case errors.As(err, &invalidRequest):
		return CategoryInvalidRequest
	case errors.As(err, &notFound):
		return CategoryNotFound
	}

	if strings.Contains(err.Error(), "retrieve credentials") {
		return CategoryCredentials
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return CategoryInternal
	}

	return CategoryInternal
}
