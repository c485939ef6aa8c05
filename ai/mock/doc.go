// Package mock provides a test double implementation of the ai.Embedder
// interface. It allows tests to run without external AI service dependencies
// and enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
// By default the mock returns deterministic vectors derived from a hash of
// the input text, so identical text always embeds identically.
package mock
