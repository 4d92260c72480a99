// Package llm is a small client for OpenAI-compatible chat completion
// services, plus helpers to pull JSON objects out of model output.
package llm
