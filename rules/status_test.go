package rules

import (
	"testing"

	"github.com/notnil/chess"
)

func TestCheckmateFoolsMate(t *testing.T) {
	p := mustPosition(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !p.InCheck() {
		t.Fatalf("expected white to be in check")
	}
	if p.HasLegalMoves() {
		t.Fatalf("expected no legal moves in mate")
	}
	if !p.IsCheckmate() {
		t.Fatalf("expected checkmate")
	}
	if p.IsStalemate() || p.IsDraw() {
		t.Fatalf("mate is not a draw")
	}
}

func TestStalemate(t *testing.T) {
	p := mustPosition(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if p.InCheck() {
		t.Fatalf("expected black not in check")
	}
	if !p.IsStalemate() {
		t.Fatalf("expected stalemate")
	}
	if !p.IsDraw() {
		t.Fatalf("stalemate is a draw")
	}
}

func TestThreefoldRepetitionKnightShuffle(t *testing.T) {
	p := StartPosition()
	cycle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	for _, mv := range cycle {
		if err := p.Push(mv); err != nil {
			t.Fatal(err)
		}
	}
	if p.CanClaimDraw() {
		t.Fatalf("should not be threefold after one cycle (repetitions=%d)", p.Repetitions())
	}

	for _, mv := range cycle {
		if err := p.Push(mv); err != nil {
			t.Fatal(err)
		}
	}
	if !p.CanClaimDraw() {
		t.Fatalf("expected threefold repetition after two cycles (repetitions=%d)", p.Repetitions())
	}
}

func TestFiftyMoveRule(t *testing.T) {
	p := mustPosition(t, "7k/8/8/8/8/8/8/K5R1 w - - 98 80")
	if p.CanClaimDraw() {
		t.Fatalf("98 half moves is not yet a draw")
	}
	if err := p.Push("g1g2"); err != nil {
		t.Fatal(err)
	}
	if err := p.Push("h8h7"); err != nil {
		t.Fatal(err)
	}
	if !p.CanClaimDraw() {
		t.Fatalf("expected fifty-move draw, halfmove clock=%d", p.HalfmoveClock())
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"7k/8/8/8/8/8/8/K7 w - - 0 1", true},
		{"7k/8/8/8/8/8/8/KN6 w - - 0 1", true},
		{"7k/8/8/8/8/8/8/KB6 b - - 0 1", true},
		{"5b1k/8/8/8/8/8/8/K1B5 w - - 0 1", true}, // both bishops on dark squares
		{"6bk/8/8/8/8/8/8/K1B5 w - - 0 1", false}, // opposite colours
		{"7k/8/8/8/8/8/8/KNN5 w - - 0 1", false},
		{"7k/8/8/8/8/8/P7/K7 w - - 0 1", false},
		{"7k/8/8/8/8/8/8/KR6 w - - 0 1", false},
	}
	for _, tc := range cases {
		p := mustPosition(t, tc.fen)
		if got := p.IsInsufficientMaterial(); got != tc.want {
			t.Errorf("%s: IsInsufficientMaterial=%v want %v", tc.fen, got, tc.want)
		}
	}
}

// The notnil/chess implementation serves as an independent oracle for
// legal move counts and game status.
func TestAgreesWithReferenceMoveGenerator(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	}
	for _, fen := range fens {
		p := mustPosition(t, fen)
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("reference FEN parse %q: %v", fen, err)
		}
		game := chess.NewGame(opt)

		if got, want := len(p.LegalMoves()), len(game.ValidMoves()); got != want {
			t.Errorf("%s: %d legal moves, reference has %d", fen, got, want)
		}
		method := game.Position().Status()
		if p.IsCheckmate() != (method == chess.Checkmate) {
			t.Errorf("%s: checkmate=%v, reference status %v", fen, p.IsCheckmate(), method)
		}
		if p.IsStalemate() != (method == chess.Stalemate) {
			t.Errorf("%s: stalemate=%v, reference status %v", fen, p.IsStalemate(), method)
		}
	}
}
