package model

// LinkCandidate is one element of a link selection: a hyperlink the
// text-generation service classified as relevant for the brochure.
//
// URL is expected to be absolute, but the service is not forced to comply.
// The pipeline normalizes candidates before fetching them.
type LinkCandidate struct {
	// Type is a free-form label such as "About page" or "Careers page".
	Type string `json:"type"`

	// URL is the address of the linked page.
	URL string `json:"url"`
}

// LinkSelection is the structured response of the link selection request.
type LinkSelection struct {
	Links []LinkCandidate `json:"links"`
}
