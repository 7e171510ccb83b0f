package embedding

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// Truncation tiers applied before encoding to keep latency bounded on very
// large documents. Texts over HugeTextThreshold are reduced to a head+tail
// sample; over LongTextThreshold the head is kept; over ShortTextThreshold
// the text is cut to that fixed length.
type TruncationConfig struct {
	HugeTextThreshold  int
	LongTextThreshold  int
	ShortTextThreshold int
}

func DefaultTruncationConfig() TruncationConfig {
	return TruncationConfig{
		HugeTextThreshold:  100000,
		LongTextThreshold:  50000,
		ShortTextThreshold: 10000,
	}
}

// LocalProvider implements EmbeddingProvider with a deterministic feature
// hashing vectorizer: tokens are hashed into a fixed number of buckets and
// the resulting vector is L2 normalized. No network calls, no vocabulary
// preparation, same text always yields the same vector.
type LocalProvider struct {
	dimension    int
	truncation   TruncationConfig
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

var _ EmbeddingProvider = (*LocalProvider)(nil)

const DefaultDimension = 256

func NewLocalProvider() *LocalProvider {
	return NewLocalProviderWithConfig(DefaultDimension, DefaultTruncationConfig())
}

func NewLocalProviderWithConfig(dimension int, truncation TruncationConfig) *LocalProvider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &LocalProvider{
		dimension:    dimension,
		truncation:   truncation,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

func (p *LocalProvider) Dimension() int { return p.dimension }

// Generate embeds text into a fixed-length vector. Empty or whitespace-only
// input yields a nil response with no error so callers can fail soft.
// TaskType is accepted for interface compatibility and ignored.
func (p *LocalProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sample := p.truncate(text)

	vec := make([]float64, p.dimension)
	tokens := p.tokenize(sample)
	if len(tokens) == 0 {
		return nil, nil
	}

	for _, tok := range tokens {
		bucket, sign := p.hashToken(tok)
		vec[bucket] += sign
	}

	normalized := normalizeVector(vec)

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalized,
		},
	}, nil
}

func (p *LocalProvider) truncate(text string) string {
	t := p.truncation
	n := len(text)
	switch {
	case t.HugeTextThreshold > 0 && n > t.HugeTextThreshold:
		half := t.HugeTextThreshold / 2
		return text[:half] + text[n-half:]
	case t.LongTextThreshold > 0 && n > t.LongTextThreshold:
		return text[:t.LongTextThreshold]
	case t.ShortTextThreshold > 0 && n > t.ShortTextThreshold:
		return text[:t.ShortTextThreshold]
	default:
		return text
	}
}

func (p *LocalProvider) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := p.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := p.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// hashToken maps a token onto a bucket index plus a +-1 sign. The sign bit
// keeps the expected value of colliding buckets near zero.
func (p *LocalProvider) hashToken(token string) (int, float64) {
	h := fnv.New64a()
	h.Write([]byte(token))
	sum := h.Sum64()

	bucket := int(sum % uint64(p.dimension))
	sign := 1.0
	if (sum>>63)&1 == 1 {
		sign = -1.0
	}
	return bucket, sign
}

// normalizeVector normalizes a vector to unit length (magnitude = 1)
func normalizeVector(vec []float64) []float64 {
	var magnitude float64
	for _, v := range vec {
		magnitude += v * v
	}
	magnitude = math.Sqrt(magnitude)

	// Avoid division by zero
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float64, len(vec))
	for i, v := range vec {
		normalized[i] = v / magnitude
	}
	return normalized
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
