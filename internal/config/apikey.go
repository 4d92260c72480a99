package config

import (
	"strings"
)

// apiKeyPrefix is the prefix shared by service keys.
const apiKeyPrefix = "sk-"

// CheckAPIKey applies a shape heuristic to key. It only reports problems;
// callers log the result and continue, leaving the service to reject a bad
// key on the first call.
func CheckAPIKey(key string) error {
	switch {
	case key == "":
		return ErrMissingAPIKey
	case strings.TrimSpace(key) != key:
		return ErrMalformedAPIKey
	case !strings.HasPrefix(key, apiKeyPrefix):
		return ErrMalformedAPIKey
	case len(key) <= 10:
		return ErrMalformedAPIKey
	default:
		return nil
	}
}
