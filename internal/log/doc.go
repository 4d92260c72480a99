// Package log provides secure logging built on the standard slog package.
//
// The SecureHandler masks credentials before they reach any output:
//   - values under sensitive keys (Authorization, Cookie, api_key, ...)
//   - service API keys (sk-...) and bearer tokens embedded in any string,
//     error value, or log message
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("request failed", "error", err) // "Bearer sk-..." is masked
//
// For long-running servers, NewFileLogger writes JSON logs to a rotating
// file.
package log
