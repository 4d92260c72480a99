package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultModel is the text-generation model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultBaseURL is the OpenAI-compatible API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout bounds each website request.
	DefaultTimeout = 30 * time.Second

	// DefaultLLMTimeout bounds each text-generation request. Composition of a
	// full brochure can take well over a minute on slower models.
	DefaultLLMTimeout = 3 * time.Minute

	// DefaultConcurrency is the number of sub-pages fetched and summarized
	// in parallel. A value of 1 processes links sequentially.
	DefaultConcurrency = 4

	// DefaultOutputFile is where the brochure is written.
	DefaultOutputFile = "brochure.md"

	// DefaultListenAddr is the address of the web UI.
	DefaultListenAddr = ":7860"

	// AppName is the application name used for XDG directory paths.
	AppName = "brochure"

	// DefaultUserAgent identifies the generator in HTTP requests.
	DefaultUserAgent = "brochure/1.0 (+https://github.com/nao1215/brochure)"

	// DefaultMaxBodySize limits the response body read from a website.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// EnvAPIKey holds the text-generation service credential.
	EnvAPIKey = "OPENAI_API_KEY"

	// EnvBaseURL overrides the service base URL.
	EnvBaseURL = "OPENAI_BASE_URL"

	// EnvModel overrides the model identifier.
	EnvModel = "BROCHURE_MODEL"
)

// Config holds all configuration options for brochure generation.
// It is populated from defaults, the YAML file, the environment and CLI flags,
// in that order, and then passed down explicitly.
type Config struct {
	// APIKey is the bearer credential of the text-generation service.
	APIKey string

	// BaseURL is the root of the OpenAI-compatible API.
	BaseURL string

	// Model is the text-generation model identifier. Fixed for the lifetime
	// of the process.
	Model string

	// Timeout is the per-request timeout for website fetches.
	Timeout time.Duration

	// LLMTimeout is the per-request timeout for text-generation calls.
	LLMTimeout time.Duration

	// OutputFile is where the brochure Markdown is written. The file is
	// overwritten on every run.
	OutputFile string

	// PDFFile, when set, also renders the brochure to PDF at this path.
	PDFFile string

	// ReportFile, when set, writes a run report to this path.
	ReportFile string

	// JSONReport selects the JSON report format instead of Markdown.
	JSONReport bool

	// Concurrency is the number of selected links processed in parallel.
	Concurrency int

	// FirstLinkOnly summarizes only the first selected link.
	FirstLinkOnly bool

	// MaxLinks caps the number of selected links. Zero means no cap.
	MaxLinks int

	// MaxPageChars truncates page text sent for summarization.
	// Zero means no truncation.
	MaxPageChars int

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent to websites.
	UserAgent string

	// RespectRobots drops selected links disallowed by robots.txt.
	RespectRobots bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit configuration file, if any.
	ConfigFilePath string

	// EnvFile is the dotenv file loaded before reading the environment.
	EnvFile string

	// ListenAddr is the address the web UI binds to.
	ListenAddr string

	// LogFile, when set, sends JSON logs to a rotating file.
	LogFile string

	// Sites holds per-site settings loaded from the configuration file.
	Sites *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Timeout:     DefaultTimeout,
		LLMTimeout:  DefaultLLMTimeout,
		OutputFile:  DefaultOutputFile,
		Concurrency: DefaultConcurrency,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
		ListenAddr:  DefaultListenAddr,
	}
}

// SiteConfig returns the merged site settings for host.
func (c *Config) SiteConfig(host string) SiteConfig {
	if c.Sites == nil {
		return SiteConfig{}
	}
	return c.Sites.GetSiteConfig(host)
}

// XDGConfigDir returns the XDG config directory for brochure.
// On Linux: ~/.config/brochure
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGStateDir returns the XDG state directory, used for log files.
// On Linux: ~/.local/state/brochure
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Model == "" {
		return ErrNoModel
	}

	if c.BaseURL == "" {
		return ErrNoBaseURL
	}

	if c.Timeout <= 0 || c.LLMTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.OutputFile == "" {
		return ErrNoOutputFile
	}

	if c.MaxLinks < 0 {
		return ErrInvalidMaxLinks
	}

	if c.MaxPageChars < 0 {
		return ErrInvalidMaxPageChars
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
