package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
	"github.com/ivylabs/mediatoken_backend/internal/secrets"
)

// fakeStore is a hand-written secrets.Client for bootstrap tests.
type fakeStore struct {
	bundle map[string]string
	err    error
}

var _ secrets.Client = (*fakeStore)(nil)

func (f *fakeStore) FetchBundle(ctx context.Context, name string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

// clearMediaEnv pins all fallback variables to empty so ambient environment
// cannot leak into a test.
func clearMediaEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MEDIA_SERVER_URL", "")
	t.Setenv("MEDIA_SERVER_API_KEY", "")
	t.Setenv("MEDIA_SERVER_API_SECRET", "")
	t.Setenv("SECRET_KEYS", "")
}

func fullBundle() map[string]string {
	return map[string]string{
		"MEDIA_SERVER_URL":        "wss://media.example.com",
		"MEDIA_SERVER_API_KEY":    "remote-key",
		"MEDIA_SERVER_API_SECRET": "remote-secret",
		"SECRET_KEYS":             "caller-a,caller-b,caller-c",
	}
}

func TestCallerOrdinal(t *testing.T) {
	testCases := []struct {
		name            string
		keys            []string
		key             string
		expectedOrdinal int
		expectedFound   bool
	}{
		{
			name:            "first key",
			keys:            []string{"a", "b", "c"},
			key:             "a",
			expectedOrdinal: 1,
			expectedFound:   true,
		},
		{
			name:            "last key",
			keys:            []string{"a", "b", "c"},
			key:             "c",
			expectedOrdinal: 3,
			expectedFound:   true,
		},
		{
			name:          "unknown key",
			keys:          []string{"a", "b", "c"},
			key:           "d",
			expectedFound: false,
		},
		{
			name:            "duplicate key resolves to first match",
			keys:            []string{"a", "b", "a"},
			key:             "a",
			expectedOrdinal: 1,
			expectedFound:   true,
		},
		{
			name:          "empty key list",
			keys:          nil,
			key:           "a",
			expectedFound: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &RuntimeConfig{ValidKeys: tc.keys}
			ordinal, found := cfg.CallerOrdinal(tc.key)
			assert.Equal(t, tc.expectedFound, found)
			if tc.expectedFound {
				assert.Equal(t, tc.expectedOrdinal, ordinal)
			}
		})
	}
}

func TestHasCredentials(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      RuntimeConfig
		expected bool
	}{
		{
			name:     "all present",
			cfg:      RuntimeConfig{ServerURL: "wss://x", APIKey: "k", APISecret: "s"},
			expected: true,
		},
		{
			name:     "missing server URL",
			cfg:      RuntimeConfig{APIKey: "k", APISecret: "s"},
			expected: false,
		},
		{
			name:     "missing API key",
			cfg:      RuntimeConfig{ServerURL: "wss://x", APISecret: "s"},
			expected: false,
		},
		{
			name:     "missing API secret",
			cfg:      RuntimeConfig{ServerURL: "wss://x", APIKey: "k"},
			expected: false,
		},
		{
			name:     "empty config",
			cfg:      RuntimeConfig{},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.cfg.HasCredentials())
		})
	}
}

func TestResolveRemoteSuccess(t *testing.T) {
	clearMediaEnv(t)
	store := &fakeStore{bundle: fullBundle()}

	cfg := Resolve(context.Background(), store, Options{SecretName: "media-server-config", Region: "ap-southeast-1"}, logger.Nop())

	require.NotNil(t, cfg)
	assert.Equal(t, "wss://media.example.com", cfg.ServerURL)
	assert.Equal(t, "remote-key", cfg.APIKey)
	assert.Equal(t, "remote-secret", cfg.APISecret)
	assert.Equal(t, []string{"caller-a", "caller-b", "caller-c"}, cfg.ValidKeys)
	assert.True(t, cfg.HasCredentials())
}

func TestResolveRemoteMissingFieldFallsBack(t *testing.T) {
	clearMediaEnv(t)
	t.Setenv("MEDIA_SERVER_URL", "wss://env.example.com")
	t.Setenv("MEDIA_SERVER_API_KEY", "env-key")
	t.Setenv("MEDIA_SERVER_API_SECRET", "env-secret")
	t.Setenv("SECRET_KEYS", "env-caller")

	bundle := fullBundle()
	delete(bundle, "MEDIA_SERVER_API_SECRET")
	store := &fakeStore{bundle: bundle}

	cfg := Resolve(context.Background(), store, Options{SecretName: "media-server-config"}, logger.Nop())

	require.NotNil(t, cfg)
	assert.Equal(t, "wss://env.example.com", cfg.ServerURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-secret", cfg.APISecret)
	assert.Equal(t, []string{"env-caller"}, cfg.ValidKeys)
}

func TestResolveFetchErrorFallsBack(t *testing.T) {
	clearMediaEnv(t)
	t.Setenv("MEDIA_SERVER_URL", "wss://env.example.com")
	t.Setenv("MEDIA_SERVER_API_KEY", "env-key")
	t.Setenv("MEDIA_SERVER_API_SECRET", "env-secret")
	t.Setenv("SECRET_KEYS", "alpha,beta")

	store := &fakeStore{err: &secrets.FetchError{
		Secret:   "media-server-config",
		Category: secrets.CategoryNotFound,
		Err:      errors.New("no such secret"),
	}}

	cfg := Resolve(context.Background(), store, Options{SecretName: "media-server-config"}, logger.Nop())

	require.NotNil(t, cfg)
	assert.Equal(t, "wss://env.example.com", cfg.ServerURL)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.ValidKeys)
}

func TestResolveBothTiersDegraded(t *testing.T) {
	clearMediaEnv(t)
	store := &fakeStore{err: errors.New("remote store unreachable")}

	cfg := Resolve(context.Background(), store, Options{SecretName: "media-server-config"}, logger.Nop())

	require.NotNil(t, cfg)
	assert.False(t, cfg.HasCredentials())
	assert.Empty(t, cfg.ValidKeys)
}

func TestResolveNilStoreUsesEnv(t *testing.T) {
	clearMediaEnv(t)
	t.Setenv("MEDIA_SERVER_URL", "wss://env.example.com")
	t.Setenv("MEDIA_SERVER_API_KEY", "env-key")
	t.Setenv("MEDIA_SERVER_API_SECRET", "env-secret")

	cfg := Resolve(context.Background(), nil, Options{SecretName: "media-server-config"}, logger.Nop())

	require.NotNil(t, cfg)
	assert.True(t, cfg.HasCredentials())
	assert.Empty(t, cfg.ValidKeys)
}

func TestResolveEnvKeyListSplitting(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected []string
	}{
		{
			name:     "multiple keys keep order",
			value:    "alpha,beta,gamma",
			expected: []string{"alpha", "beta", "gamma"},
		},
		{
			name:     "single key",
			value:    "alpha",
			expected: []string{"alpha"},
		},
		{
			name:     "unset yields no keys",
			value:    "",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearMediaEnv(t)
			t.Setenv("SECRET_KEYS", tc.value)

			cfg := Resolve(context.Background(), nil, Options{}, logger.Nop())

			require.NotNil(t, cfg)
			assert.Equal(t, tc.expected, cfg.ValidKeys)
		})
	}
}

func TestValidateBundle(t *testing.T) {
	t.Run("complete bundle passes", func(t *testing.T) {
		assert.NoError(t, validateBundle("media-server-config", fullBundle()))
	})

	t.Run("missing fields are named", func(t *testing.T) {
		bundle := fullBundle()
		delete(bundle, "MEDIA_SERVER_API_SECRET")
		delete(bundle, "SECRET_KEYS")

		err := validateBundle("media-server-config", bundle)
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "media-server-config", vErr.Secret)
		assert.Equal(t, []string{"MEDIA_SERVER_API_SECRET", "SECRET_KEYS"}, vErr.Missing)
		assert.Contains(t, err.Error(), "MEDIA_SERVER_API_SECRET")
	})

	t.Run("empty values still pass presence check", func(t *testing.T) {
		bundle := fullBundle()
		bundle["MEDIA_SERVER_API_SECRET"] = ""
		assert.NoError(t, validateBundle("media-server-config", bundle))
	})
}
