// Package secrets fetches named key-value configuration bundles from AWS
// Secrets Manager. A bundle is a secret whose payload is a flat JSON object
// of string fields, e.g.
//
//	{
//	  "MEDIA_SERVER_URL": "wss://media.example.com",
//	  "MEDIA_SERVER_API_KEY": "...",
//	  "MEDIA_SERVER_API_SECRET": "...",
//	  "SECRET_KEYS": "key1,key2,key3"
//	}
//
// Retry and authentication behavior belong to the SDK; failures surface as
// *FetchError so callers can log the category and move on.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
)

// Client retrieves a named secret bundle as a flat string mapping.
type Client interface {
	FetchBundle(ctx context.Context, name string) (map[string]string, error)
}

// secretValueAPI is the slice of the Secrets Manager client that
// ManagerClient uses. Narrowing to one method keeps the client testable
// without network access.
type secretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// ManagerClient implements Client on top of AWS Secrets Manager.
type ManagerClient struct {
	api secretValueAPI
	log *logger.Logger
}

// Ensure ManagerClient implements Client.
var _ Client = (*ManagerClient)(nil)

// NewManagerClient builds a ManagerClient bound to the given region using the
// default AWS credential chain.
func NewManagerClient(ctx context.Context, region string, log *logger.Logger) (*ManagerClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for region %q: %w", region, err)
	}

	return &ManagerClient{
		api: secretsmanager.NewFromConfig(cfg),
		log: log,
	}, nil
}

// FetchBundle retrieves the named secret and decodes its string payload as a
// flat JSON object. Every failure comes back as a *FetchError carrying the
// category used for logging detail.
func (c *ManagerClient) FetchBundle(ctx context.Context, name string) (map[string]string, error) {
	c.log.Debug().Str("secret", name).Msg("retrieving secret bundle")

	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, &FetchError{Secret: name, Category: categorize(err), Err: err}
	}

	if out.SecretString == nil {
		return nil, &FetchError{
			Secret:   name,
			Category: CategoryMalformedPayload,
			Err:      errors.New("secret has no string payload"),
		}
	}

	bundle, err := decodeBundle(*out.SecretString)
	if err != nil {
		return nil, &FetchError{Secret: name, Category: CategoryMalformedPayload, Err: err}
	}

	c.log.Debug().Str("secret", name).Int("fields", len(bundle)).Msg("retrieved secret bundle")
	return bundle, nil
}

// decodeBundle parses a secret payload as a flat JSON object of strings.
func decodeBundle(raw string) (map[string]string, error) {
	var bundle map[string]string
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return nil, fmt.Errorf("secret payload is not a flat JSON string map: %w", err)
	}
	return bundle, nil
}
