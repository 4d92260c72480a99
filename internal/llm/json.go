package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotObject is returned when a response does not contain a JSON object.
var ErrNotObject = errors.New("response is not a JSON object")

var (
	fencePattern         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractJSON returns the JSON object embedded in model output.
// Invisible characters are removed, a ```json fence is unwrapped, and
// otherwise the text from the first '{' to the last '}' is taken. When that
// text is not valid JSON, trailing commas before a closing bracket are
// dropped.
func ExtractJSON(input string) string {
	input = strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '\uFEFF', '\u200B', '\u200C', '\u200D':
			return -1
		}
		return r
	}, input))

	if match := fencePattern.FindStringSubmatch(input); len(match) > 1 {
		input = strings.TrimSpace(match[1])
	}

	if start, end := strings.Index(input, "{"), strings.LastIndex(input, "}"); start >= 0 && end > start {
		input = input[start : end+1]
	}

	if json.Valid([]byte(input)) {
		return input
	}
	return trailingCommaPattern.ReplaceAllString(input, "$1")
}

// DecodeObject extracts and decodes the JSON object in raw.
// It returns the cleaned text alongside the decoded fields.
func DecodeObject(raw string) (string, map[string]json.RawMessage, error) {
	cleaned := ExtractJSON(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return cleaned, nil, fmt.Errorf("%w: %w", ErrNotObject, err)
	}
	if fields == nil {
		// The literal null decodes without error.
		return cleaned, nil, ErrNotObject
	}
	return cleaned, fields, nil
}
