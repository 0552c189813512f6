// Package llm hosts the semantic extraction engines and the routing logic
// between them. The primary engine is an Ollama server; the fallback is an
// in-process ONNX model that is only loaded into memory when the primary is
// unreachable or failing.
package llm

import "context"

// Provider is a text-generation engine capable of answering an extraction
// prompt with JSON.
type Provider interface {
	// Name identifies the engine in results and cache metadata.
	Name() string
	// Available cheaply reports whether the engine can serve a request
	// right now. It must not trigger expensive initialization.
	Available(ctx context.Context) bool
	// Extract runs the prompt and returns raw model output. The output is
	// not guaranteed to be valid JSON; callers validate it.
	Extract(ctx context.Context, prompt string) (string, error)
}
