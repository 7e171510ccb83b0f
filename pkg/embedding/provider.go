package embedding

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding
}

type EmbeddingResponseEmbedding struct {
	Values []float64
}

// SafeEmbed wraps a provider call so embedding failures never propagate.
// Returns nil for empty input, provider errors, or empty results; callers
// treat nil as "no embedding available".
func SafeEmbed(p EmbeddingProvider, text string, taskType string) []float64 {
	if p == nil {
		return nil
	}
	res, err := p.Generate(text, taskType)
	if err != nil || res == nil || len(res.Embedding.Values) == 0 {
		return nil
	}
	return res.Embedding.Values
}
