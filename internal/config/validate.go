package config

import (
	"fmt"
	"strings"
)

// requiredFields must all be present in a remote bundle for it to be
// accepted. Presence is the only check: empty values are allowed here and
// caught at issuance time.
var requiredFields = []string{fieldServerURL, fieldAPIKey, fieldAPISecret, fieldKeyList}

// ValidationError reports a remote bundle that is missing required fields.
// It never escapes the bootstrapper; it only drives the fallback decision
// and the log line.
type ValidationError struct {
	Secret  string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("secret %q is missing required keys: %s", e.Secret, strings.Join(e.Missing, ", "))
}

// validateBundle checks that every required field is present in the bundle.
func validateBundle(secretName string, bundle map[string]string) error {
	var missing []string
	for _, field := range requiredFields {
		if _, ok := bundle[field]; !ok {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Secret: secretName, Missing: missing}
	}
	return nil
}
