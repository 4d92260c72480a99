// Package main provides the entry point for the brochure CLI.
//
// brochure turns a company website into a marketing brochure: it reads the
// landing page, lets a language model pick the pages worth describing,
// summarizes them and writes a Markdown brochure.
//
// Usage:
//
//	brochure generate <url>
//	brochure serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
