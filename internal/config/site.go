package config

// SiteConfig holds settings applied when fetching pages of one website.
type SiteConfig struct {
	// Cookie is sent with every request to the site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent to the site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// IgnorePatterns are glob patterns; selected links whose path matches
	// one of them are not summarized.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// MaxLinks overrides the global link cap for the site.
	MaxLinks int `yaml:"maxLinks,omitempty"`
}

// File represents the structure of the .brochure.yaml configuration file.
type File struct {
	// Model overrides the default model identifier.
	Model string `yaml:"model,omitempty"`

	// BaseURL overrides the default service base URL.
	BaseURL string `yaml:"base_url,omitempty"`

	// Output overrides the default brochure output path.
	Output string `yaml:"output,omitempty"`

	// Concurrency overrides the default link fan-out.
	Concurrency int `yaml:"concurrency,omitempty"`

	// FirstLinkOnly summarizes only the first selected link.
	FirstLinkOnly bool `yaml:"first_link_only,omitempty"`

	// MaxLinks caps the number of selected links.
	MaxLinks int `yaml:"max_links,omitempty"`

	// MaxPageChars truncates page text sent for summarization.
	MaxPageChars int `yaml:"max_page_chars,omitempty"`

	// RespectRobots enables the robots.txt filter.
	RespectRobots bool `yaml:"respect_robots,omitempty"`

	// UserAgent overrides the default User-Agent.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Sites maps host names (e.g., "example.com") to site settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host merged over Defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if cf.Defaults.Headers != nil {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.MaxLinks != 0 {
		result.MaxLinks = siteConfig.MaxLinks
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}

	return result
}
