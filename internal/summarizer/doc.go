// Package summarizer condenses a web page into a section title and a short
// summary using a text-generation service.
package summarizer
