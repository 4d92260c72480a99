package model

// PageSummary is the structured summary of one selected page.
type PageSummary struct {
	// Link is the candidate the summary was produced for.
	Link LinkCandidate `json:"link"`

	// Title is the section title suggested by the service.
	Title string `json:"title"`

	// Summary is the short textual summary of the page.
	Summary string `json:"summary"`

	// Raw is the structured response text exactly as returned by the
	// service. Raw values are concatenated, without re-parsing, to build
	// the composer input.
	Raw string `json:"raw"`
}
