package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoModel is returned when the model identifier is empty.
	ErrNoModel = errors.New("no model specified")

	// ErrNoBaseURL is returned when the service base URL is empty.
	ErrNoBaseURL = errors.New("no service base URL specified")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNoOutputFile is returned when the brochure output path is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrInvalidMaxLinks is returned when the link cap is negative.
	ErrInvalidMaxLinks = errors.New("invalid max links: must be non-negative")

	// ErrInvalidMaxPageChars is returned when the page text cap is negative.
	ErrInvalidMaxPageChars = errors.New("invalid max page chars: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrMissingAPIKey is returned by CheckAPIKey when no key is set.
	ErrMissingAPIKey = errors.New("no API key was found: set " + EnvAPIKey)

	// ErrMalformedAPIKey is returned by CheckAPIKey when the key does not
	// look like a service key.
	ErrMalformedAPIKey = errors.New("an API key was found, but it does not look like a valid key")
)
