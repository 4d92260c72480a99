// Package selector picks the brochure-relevant links of a landing page with
// the help of a text-generation service.
package selector
