// Package web serves the single-page brochure UI: a URL field, a submit
// button and the rendered brochure or a failure message.
package web
