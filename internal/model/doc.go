// Package model defines the data structures shared by every stage of the
// brochure pipeline.
//
// This package contains the following main types:
//   - Page: a fetched web page with its title, visible text and raw links
//   - LinkCandidate: a link the text-generation service judged brochure-relevant
//   - PageSummary: the structured summary of one selected page
//   - Brochure: the final Markdown document
//   - Run: the record of one pipeline invocation
//   - Error: the failure taxonomy (fetch, selection, summarization, ...)
//
// The models carry JSON tags so a Run can be written as a machine-readable
// report.
package model
