// Package pipeline drives one brochure run from a website URL to the
// written document.
//
// A run is a fixed sequence of steps sharing a model.Run record:
// fetch the landing page, select the relevant links, summarize each
// selected page, compose the brochure, and persist it. Each step is a Step
// so the sequence can be assembled and tested piece by piece. Execution
// stops at the first failing step and the error is recorded on the Run.
//
// Summaries are produced concurrently by BatchProcessor with a bounded
// number of in-flight links. Results are kept in selector order.
//
// Generator is the entry point. It builds a fresh pipeline for every call.
package pipeline
