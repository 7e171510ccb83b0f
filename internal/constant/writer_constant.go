package constant

import "time"

const (
	// DefaultDocumentName is the placeholder assigned to new documents until
	// the auto-namer picks a real one.
	DefaultDocumentName = "Untitled"

	// EmbeddingDeltaThreshold is the content-length change (in characters)
	// below which an existing content embedding is kept as-is.
	EmbeddingDeltaThreshold = 100

	// SimilarityThreshold is the minimum score considered "relevant" for
	// embeddings search. The search path currently returns every scored
	// document regardless; the constant is kept for the settings surface.
	SimilarityThreshold = 0.35

	// WriteDelay is the quiet period the flusher waits after the last
	// mutation before writing the cache back to disk.
	WriteDelay = 1 * time.Second
)

// Search modes accepted by the document search endpoint.
const (
	SearchModeEmbeddings = "embeddings"
	SearchModeKeyword    = "keyword"

	// SearchTypeNone annotates results of an empty query, which returns the
	// unfiltered listing.
	SearchTypeNone = "none"
)

// Embedding task types, mirroring the retrieval-style hints used by hosted
// embedding APIs.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)
