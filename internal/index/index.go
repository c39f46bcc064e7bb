// Package index implements exhaustive nearest-neighbor search over FAQ
// question embeddings. The index is built offline, persisted as three
// artifacts (vector matrix, index manifest, metadata table), and is
// read-only while serving, so it may be shared across sessions without
// locking. A rebuild produces a new Index value that the caller swaps in
// whole; an existing index is never mutated in place.
package index

import (
	"container/heap"
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/supportbot/internal/embeddings"
	"github.com/ziadkadry99/supportbot/internal/faq"
)

// ErrNotFound indicates one or more index artifacts are missing on disk.
// Callers recover by rebuilding from the corpus.
var ErrNotFound = errors.New("index artifacts not found")

// overFetchFactor is how many raw neighbors are retrieved per requested
// result, leaving room for intent post-filtering to drop candidates.
const overFetchFactor = 2

// Result is a single search hit.
type Result struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   string  `json:"category"`
	Intent     string  `json:"intent"`
	Similarity float64 `json:"similarity"`
	Confidence string  `json:"confidence"`
}

// Index holds the FAQ corpus embeddings and metadata in parallel arrays.
// vectors[i] is the embedding of entries[i]; this positional alignment is
// the join between the vector index and the metadata table and is
// validated on every load.
type Index struct {
	entries  []faq.Entry
	vectors  [][]float32
	dim      int
	embedder embeddings.Embedder
}

// embedBatchSize is how many questions are embedded per provider call
// during a build.
const embedBatchSize = 64

// Build embeds every corpus question and constructs a flat index over the
// normalized vectors. progress, if non-nil, is called after each embedded
// batch with the running and total counts.
func Build(ctx context.Context, e embeddings.Embedder, corpus []faq.Entry, progress func(done, total int)) (*Index, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("building index: corpus is empty")
	}

	vectors := make([][]float32, 0, len(corpus))
	for start := 0; start < len(corpus); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(corpus) {
			end = len(corpus)
		}

		texts := make([]string, 0, end-start)
		for _, entry := range corpus[start:end] {
			texts = append(texts, entry.Question)
		}

		batch, err := e.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding questions %d-%d: %w", start, end-1, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d questions", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)

		if progress != nil {
			progress(end, len(corpus))
		}
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding %d has dimension %d, want %d", i, len(v), dim)
		}
		embeddings.Normalize(v)
		// The distance-to-similarity transform assumes unit vectors;
		// a zero embedding cannot be normalized and would silently
		// break it.
		if !embeddings.IsNormalized(v) {
			return nil, fmt.Errorf("embedding %d for %q is not unit-normalizable", i, corpus[i].Question)
		}
	}

	return &Index{
		entries:  append([]faq.Entry(nil), corpus...),
		vectors:  vectors,
		dim:      dim,
		embedder: e,
	}, nil
}

// Search embeds the query and returns up to topK nearest FAQ entries in
// similarity-descending order. When intentFilter is non-empty, candidates
// whose intent disagrees are dropped; filtering never reorders, it only
// skips, so the survivors keep their original ranking.
func (ix *Index) Search(ctx context.Context, query string, topK int, intentFilter string) ([]Result, error) {
	if topK <= 0 {
		topK = 3
	}

	vec, err := embeddings.EmbedOne(ctx, ix.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	embeddings.Normalize(vec)

	raw := ix.nearest(vec, topK*overFetchFactor)

	results := make([]Result, 0, topK)
	for _, c := range raw {
		entry := ix.entries[c.position]
		if intentFilter != "" && entry.Intent != intentFilter {
			continue
		}
		results = append(results, Result{
			Question:   entry.Question,
			Answer:     entry.Answer,
			Category:   entry.Category,
			Intent:     entry.Intent,
			Similarity: similarityFromDistance(c.distance),
			Confidence: ConfidenceLabel(similarityFromDistance(c.distance)),
		})
		if len(results) >= topK {
			break
		}
	}

	return results, nil
}

// candidate pairs a corpus position with its raw squared L2 distance.
type candidate struct {
	position int
	distance float64
}

// nearest scans every vector and returns the k nearest candidates in
// distance-ascending order.
func (ix *Index) nearest(query []float32, k int) []candidate {
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	if k <= 0 {
		return nil
	}

	// Max-heap on distance: evict the farthest candidate when a closer
	// one is found.
	h := make(candidateHeap, 0, k)
	heap.Init(&h)

	for i, v := range ix.vectors {
		d := squaredDistance(query, v)
		if h.Len() < k {
			heap.Push(&h, candidate{position: i, distance: d})
		} else if d < h[0].distance {
			heap.Pop(&h)
			heap.Push(&h, candidate{position: i, distance: d})
		}
	}

	out := make([]candidate, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(candidate)
	}
	return out
}

// squaredDistance computes the squared L2 distance between two unit
// vectors via their dot product: ||a-b||^2 = 2 - 2(a.b), in [0, 4].
func squaredDistance(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	d := 2 - 2*dot
	if d < 0 {
		d = 0
	}
	if d > 4 {
		d = 4
	}
	return d
}

// similarityFromDistance maps a squared L2 distance between unit vectors
// to a [0,1] similarity: distance 0 (identical) -> 1, distance 4
// (opposite) -> 0. Monotonic decreasing, so the distance-ascending raw
// order is the similarity-descending result order.
func similarityFromDistance(d float64) float64 {
	return 1 - d/4
}

// ConfidenceLabel buckets a similarity score.
func ConfidenceLabel(similarity float64) string {
	switch {
	case similarity > 0.7:
		return "high"
	case similarity > 0.5:
		return "medium"
	default:
		return "low"
	}
}

// Size returns the number of indexed FAQ entries.
func (ix *Index) Size() int { return len(ix.entries) }

// Dimension returns the embedding dimensionality.
func (ix *Index) Dimension() int { return ix.dim }

// Stats summarizes the indexed corpus.
type Stats struct {
	TotalFAQs  int            `json:"total_faqs"`
	Categories map[string]int `json:"categories"`
	Intents    map[string]int `json:"intents"`
	Dimension  int            `json:"embedding_dimension"`
}

// Statistics returns counters over the indexed corpus.
func (ix *Index) Statistics() Stats {
	s := Stats{
		TotalFAQs:  len(ix.entries),
		Categories: map[string]int{},
		Intents:    map[string]int{},
		Dimension:  ix.dim,
	}
	for _, e := range ix.entries {
		s.Categories[e.Category]++
		s.Intents[e.Intent]++
	}
	return s
}

type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].distance > h[j].distance }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
