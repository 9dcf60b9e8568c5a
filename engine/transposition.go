package engine

import "github.com/rs/zerolog"

// Bound classifies how a stored score relates to the true score.
type Bound int8

const (
	// BoundExact: the search resolved the node inside its window.
	BoundExact Bound = iota
	// BoundLower: the node failed high; true score >= stored score.
	BoundLower
	// BoundUpper: the node failed low; true score <= stored score.
	BoundUpper
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lowerbound"
	case BoundUpper:
		return "upperbound"
	}
	return "unknown"
}

type TTEntry struct {
	Hash  uint64
	Depth int8
	Score int32
	Bound Bound
}

// TransTable chains every stored entry in bucket hash % size; nothing is
// overwritten, so a probe scans the chain. The total entry count is bounded
// by maxEntries and the table is emptied when a store would exceed it.
type TransTable struct {
	buckets    [][]TTEntry
	entries    int
	maxEntries int

	stores, probes, hits, resets uint64
}

func NewTransTable(size, maxEntries int) *TransTable {
	size = Max(size, 1)
	return &TransTable{
		buckets:    make([][]TTEntry, size),
		maxEntries: Max(maxEntries, size),
	}
}

func (tt *TransTable) index(hash uint64) uint64 {
	return hash % uint64(len(tt.buckets))
}

// Store appends an entry to the hash's bucket.
func (tt *TransTable) Store(hash uint64, depth int8, score int32, bound Bound) {
	if tt.entries >= tt.maxEntries {
		tt.Clear()
		tt.resets++
	}
	idx := tt.index(hash)
	tt.buckets[idx] = append(tt.buckets[idx], TTEntry{
		Hash:  hash,
		Depth: depth,
		Score: score,
		Bound: bound,
	})
	tt.entries++
	tt.stores++
}

// Probe returns the first chained entry for hash searched at least as deep
// as depth. Shallower entries are a miss.
func (tt *TransTable) Probe(hash uint64, depth int8) (TTEntry, bool) {
	tt.probes++
	for _, e := range tt.buckets[tt.index(hash)] {
		if e.Hash == hash && e.Depth >= depth {
			tt.hits++
			return e, true
		}
	}
	return TTEntry{}, false
}

// Clear drops every entry but keeps the bucket array.
func (tt *TransTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = nil
	}
	tt.entries = 0
}

func (tt *TransTable) Len() int {
	return tt.entries
}

func (tt *TransTable) MarshalZerologObject(e *zerolog.Event) {
	e.Int("entries", tt.entries).
		Uint64("stores", tt.stores).
		Uint64("probes", tt.probes).
		Uint64("hits", tt.hits).
		Uint64("resets", tt.resets)
}

// useEntry applies a probed entry to the node's window. It reports a score
// when the entry settles the node outright.
func useEntry(e TTEntry, alpha, beta int32) (newAlpha, newBeta int32, score int32, cutoff bool) {
	switch e.Bound {
	case BoundExact:
		return alpha, beta, e.Score, true
	case BoundLower:
		alpha = Max(alpha, e.Score)
	case BoundUpper:
		beta = Min(beta, e.Score)
	}
	if alpha >= beta {
		return alpha, beta, e.Score, true
	}
	return alpha, beta, 0, false
}
