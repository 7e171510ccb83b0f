package embedding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	p := NewLocalProvider()

	first, err := p.Generate("the quick brown fox jumps over the lazy dog", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := p.Generate("the quick brown fox jumps over the lazy dog", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, first.Embedding.Values, second.Embedding.Values)
	assert.Len(t, first.Embedding.Values, DefaultDimension)
}

func TestGenerateEmptyInputFailsSoft(t *testing.T) {
	p := NewLocalProvider()

	for _, input := range []string{"", "   ", "\n\t  "} {
		res, err := p.Generate(input, "")
		assert.NoError(t, err)
		assert.Nil(t, res)
	}
}

func TestGenerateStopwordsOnlyFailsSoft(t *testing.T) {
	p := NewLocalProvider()

	res, err := p.Generate("the and or but", "")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestGenerateUnitNorm(t *testing.T) {
	p := NewLocalProvider()

	res, err := p.Generate("writing tools should stay fast under load", "")
	require.NoError(t, err)
	require.NotNil(t, res)

	var norm float64
	for _, v := range res.Embedding.Values {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestTruncationTiers(t *testing.T) {
	cfg := TruncationConfig{
		HugeTextThreshold:  100,
		LongTextThreshold:  50,
		ShortTextThreshold: 10,
	}
	p := NewLocalProviderWithConfig(16, cfg)

	head := strings.Repeat("a", 80)
	tail := strings.Repeat("b", 80)

	huge := p.truncate(head + tail)
	assert.Len(t, huge, 100)
	assert.True(t, strings.HasPrefix(huge, "a"))
	assert.True(t, strings.HasSuffix(huge, "b"))

	long := p.truncate(strings.Repeat("c", 70))
	assert.Len(t, long, 50)

	short := p.truncate(strings.Repeat("d", 20))
	assert.Len(t, short, 10)

	untouched := p.truncate("short")
	assert.Equal(t, "short", untouched)
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	p := NewLocalProvider()

	a, err := p.Generate("grocery list for the week", "")
	require.NoError(t, err)
	b, err := p.Generate("weekly groceries to buy", "")
	require.NoError(t, err)

	ab := CosineSimilarity(a.Embedding.Values, b.Embedding.Values)
	ba := CosineSimilarity(b.Embedding.Values, a.Embedding.Values)

	assert.Equal(t, ab, ba)
	assert.GreaterOrEqual(t, ab, -1.0)
	assert.LessOrEqual(t, ab, 1.0)
}

func TestCosineSimilarityAbsentVectors(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity(nil, []float64{1, 0}))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 0}))
}

func TestCosineSimilarityIdentical(t *testing.T) {
	p := NewLocalProvider()

	res, err := p.Generate("identical text scores one against itself", "")
	require.NoError(t, err)

	score := CosineSimilarity(res.Embedding.Values, res.Embedding.Values)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSafeEmbed(t *testing.T) {
	p := NewLocalProvider()

	assert.Nil(t, SafeEmbed(nil, "anything", ""))
	assert.Nil(t, SafeEmbed(p, "", ""))
	assert.NotNil(t, SafeEmbed(p, "real content here", ""))
}
