package rules

import "testing"

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerftInitialPosition(t *testing.T) {
	p := StartPosition()
	if got := Perft(p, 1); got != 20 {
		t.Fatalf("perft depth1: got %d want %d", got, 20)
	}
	if got := Perft(p, 2); got != 400 {
		t.Fatalf("perft depth2: got %d want %d", got, 400)
	}
	if got := Perft(p, 3); got != 8902 {
		t.Fatalf("perft depth3: got %d want %d", got, 8902)
	}
}

func TestPerftKiwipete(t *testing.T) {
	p := mustPosition(t, kiwipete)
	if got := Perft(p, 1); got != 48 {
		t.Fatalf("perft depth1: got %d want %d", got, 48)
	}
	if got := Perft(p, 2); got != 2039 {
		t.Fatalf("perft depth2: got %d want %d", got, 2039)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	p := mustPosition(t, kiwipete)
	var sum uint64
	for _, n := range PerftDivide(p, 2) {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sum: got %d want %d", sum, 2039)
	}
}

func benchPerft(b *testing.B, fen string, depth int) {
	p, err := NewPosition(fen)
	if err != nil {
		b.Fatalf("NewPosition: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Perft(p, depth)
	}
}

func BenchmarkPerft_Initial_D4(b *testing.B) {
	benchPerft(b, StartFEN, 4)
}

func BenchmarkPerft_Kiwipete_D3(b *testing.B) {
	benchPerft(b, kiwipete, 3)
}
