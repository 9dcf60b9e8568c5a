package engine

import "testing"

func TestExactEntryRoundTrip(t *testing.T) {
	tt := NewTransTable(1024, 4096)
	tt.Store(0xdeadbeef, 5, 123, BoundExact)

	for depth := int8(0); depth <= 5; depth++ {
		e, ok := tt.Probe(0xdeadbeef, depth)
		if !ok {
			t.Fatalf("probe at depth %d missed", depth)
		}
		if e.Score != 123 || e.Bound != BoundExact || e.Depth != 5 {
			t.Fatalf("probe at depth %d returned %+v", depth, e)
		}
	}
}

func TestShallowEntryIsAMiss(t *testing.T) {
	tt := NewTransTable(1024, 4096)
	tt.Store(42, 2, 50, BoundExact)
	if _, ok := tt.Probe(42, 3); ok {
		t.Fatalf("an entry searched to depth 2 must not answer a depth 3 probe")
	}
}

func TestCollisionChainScansForDepth(t *testing.T) {
	tt := NewTransTable(8, 64)
	// Same bucket, different positions.
	tt.Store(3, 4, 10, BoundExact)
	tt.Store(11, 4, 20, BoundExact)
	// Same position stored twice; the shallow entry comes first in the chain.
	tt.Store(19, 1, 30, BoundExact)
	tt.Store(19, 6, 40, BoundLower)

	if e, ok := tt.Probe(11, 4); !ok || e.Score != 20 {
		t.Fatalf("expected score 20 for hash 11, got %+v ok=%v", e, ok)
	}
	if e, ok := tt.Probe(19, 1); !ok || e.Score != 30 {
		t.Fatalf("expected first qualifying entry (30), got %+v ok=%v", e, ok)
	}
	if e, ok := tt.Probe(19, 5); !ok || e.Score != 40 || e.Bound != BoundLower {
		t.Fatalf("expected deeper chained entry (40, lower), got %+v ok=%v", e, ok)
	}
	if _, ok := tt.Probe(27, 0); ok {
		t.Fatalf("unknown hash in a populated bucket must miss")
	}
	if tt.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", tt.Len())
	}
}

func TestTableIsBounded(t *testing.T) {
	tt := NewTransTable(4, 8)
	for i := uint64(0); i < 8; i++ {
		tt.Store(i, 1, int32(i), BoundExact)
	}
	if tt.Len() != 8 {
		t.Fatalf("expected 8 entries, got %d", tt.Len())
	}
	tt.Store(100, 1, 100, BoundExact)
	if tt.Len() != 1 {
		t.Fatalf("expected table reset to 1 entry, got %d", tt.Len())
	}
	if _, ok := tt.Probe(0, 0); ok {
		t.Fatalf("entries before the reset should be gone")
	}
	if e, ok := tt.Probe(100, 1); !ok || e.Score != 100 {
		t.Fatalf("entry stored after the reset should be present")
	}
}

func TestUseEntryBounds(t *testing.T) {
	cases := []struct {
		name        string
		entry       TTEntry
		alpha, beta int32
		wantAlpha   int32
		wantBeta    int32
		wantScore   int32
		wantCutoff  bool
	}{
		{"exact", TTEntry{Score: 15, Bound: BoundExact}, -100, 100, -100, 100, 15, true},
		{"lower raises alpha", TTEntry{Score: 15, Bound: BoundLower}, -100, 100, 15, 100, 0, false},
		{"lower below alpha", TTEntry{Score: -150, Bound: BoundLower}, -100, 100, -100, 100, 0, false},
		{"lower fails high", TTEntry{Score: 120, Bound: BoundLower}, -100, 100, 120, 100, 120, true},
		{"upper lowers beta", TTEntry{Score: 15, Bound: BoundUpper}, -100, 100, -100, 15, 0, false},
		{"upper fails low", TTEntry{Score: -120, Bound: BoundUpper}, -100, 100, -100, -120, -120, true},
	}
	for _, tc := range cases {
		alpha, beta, score, cutoff := useEntry(tc.entry, tc.alpha, tc.beta)
		if alpha != tc.wantAlpha || beta != tc.wantBeta || cutoff != tc.wantCutoff || (cutoff && score != tc.wantScore) {
			t.Errorf("%s: got alpha=%d beta=%d score=%d cutoff=%v", tc.name, alpha, beta, score, cutoff)
		}
	}
}
