package model

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure by the stage that produced it.
type Kind int

const (
	// KindUnknown is reported for errors outside the taxonomy.
	KindUnknown Kind = iota
	// KindFetch is a network or HTTP failure while retrieving a page.
	KindFetch
	// KindSelection is a link selection failure, usually an unparseable
	// structured response.
	KindSelection
	// KindSummarization is a page summarization failure, usually an
	// unparseable structured response.
	KindSummarization
	// KindComposition is a failed brochure composition call.
	KindComposition
	// KindConfig is a missing or malformed credential or setting.
	KindConfig
	// KindPersist is a failure writing the brochure to disk.
	KindPersist
)

// Sentinel errors, one per Kind. Every *Error matches its sentinel with
// errors.Is.
var (
	ErrFetch         = errors.New("fetch failed")
	ErrSelection     = errors.New("link selection failed")
	ErrSummarization = errors.New("summarization failed")
	ErrComposition   = errors.New("brochure composition failed")
	ErrConfig        = errors.New("configuration problem")
	ErrPersist       = errors.New("writing brochure failed")
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindSelection:
		return "selection"
	case KindSummarization:
		return "summarization"
	case KindComposition:
		return "composition"
	case KindConfig:
		return "config"
	case KindPersist:
		return "persist"
	default:
		return "unknown"
	}
}

// sentinel returns the package-level error matching the kind.
func (k Kind) sentinel() error {
	switch k {
	case KindFetch:
		return ErrFetch
	case KindSelection:
		return ErrSelection
	case KindSummarization:
		return ErrSummarization
	case KindComposition:
		return ErrComposition
	case KindConfig:
		return ErrConfig
	case KindPersist:
		return ErrPersist
	default:
		return nil
	}
}

// Error is a pipeline failure tagged with its Kind.
type Error struct {
	// Kind is the stage that failed.
	Kind Kind

	// URL is the page or endpoint involved, if any.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.sentinel()
	if msg == nil {
		msg = errors.New("pipeline failed")
	}
	switch {
	case e.URL != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", msg, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case e.URL != "":
		return fmt.Sprintf("%s: %s", msg, e.URL)
	default:
		return msg.Error()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewFetchError wraps a page retrieval failure.
func NewFetchError(url string, err error) error {
	return &Error{Kind: KindFetch, URL: url, Err: err}
}

// NewSelectionError wraps a link selection failure.
func NewSelectionError(url string, err error) error {
	return &Error{Kind: KindSelection, URL: url, Err: err}
}

// NewSummarizationError wraps a page summarization failure.
func NewSummarizationError(url string, err error) error {
	return &Error{Kind: KindSummarization, URL: url, Err: err}
}

// NewCompositionError wraps a brochure composition failure.
func NewCompositionError(url string, err error) error {
	return &Error{Kind: KindComposition, URL: url, Err: err}
}

// NewConfigError wraps a configuration problem.
func NewConfigError(err error) error {
	return &Error{Kind: KindConfig, Err: err}
}

// NewPersistError wraps a failure writing the brochure to path.
func NewPersistError(path string, err error) error {
	return &Error{Kind: KindPersist, URL: path, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage renders err as a message suitable for the UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return "Brochure generation failed: " + err.Error()
	}

	switch e.Kind {
	case KindFetch:
		return "Could not retrieve the website: " + e.Error()
	case KindSelection:
		return "The text-generation service did not return a usable list of links: " + e.Error()
	case KindSummarization:
		return "The text-generation service did not return a usable page summary: " + e.Error()
	case KindComposition:
		return "The text-generation service could not write the brochure: " + e.Error()
	case KindConfig:
		return "Configuration problem: " + e.Error()
	case KindPersist:
		return "The brochure could not be saved: " + e.Error()
	default:
		return "Brochure generation failed: " + e.Error()
	}
}
