package engine

import (
	"testing"

	"chess-search/rules"
)

func findMove(t *testing.T, p *rules.Position, uci string) rules.Move {
	t.Helper()
	m, err := p.ParseMove(uci)
	if err != nil {
		t.Fatalf("ParseMove(%s): %v", uci, err)
	}
	return m
}

func TestOrderingPrefersCheapAttackerOnDearVictim(t *testing.T) {
	p := mustPosition(t, "4k3/8/8/3q4/4P3/8/8/3QK3 w - - 0 1")
	ordered := OrderMoves(p, p.LegalMoves())
	if ordered[0].String() != "e4d5" {
		t.Fatalf("expected pawn takes queen first, got %s", ordered[0].String())
	}

	pawnTakes := scoreMove(p, findMove(t, p, "e4d5"))
	queenTakes := scoreMove(p, findMove(t, p, "d1d5"))
	if pawnTakes != 1025-87 {
		t.Fatalf("pawn takes queen: got %d want %d", pawnTakes, 1025-87)
	}
	if queenTakes != 0 {
		t.Fatalf("queen takes queen: got %d want 0", queenTakes)
	}
}

func TestOrderingBonuses(t *testing.T) {
	p := mustPosition(t, "r3k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")

	if got := scoreMove(p, findMove(t, p, "e1g1")); got != castleBonus {
		t.Fatalf("castling: got %d want %d", got, castleBonus)
	}
	if got := scoreMove(p, findMove(t, p, "h1h8")); got != checkBonus {
		t.Fatalf("check: got %d want %d", got, checkBonus)
	}
	if got := scoreMove(p, findMove(t, p, "a1a8")); got != 0 {
		t.Fatalf("rook trade: got %d want 0", got)
	}
	if got := scoreMove(p, findMove(t, p, "h1h2")); got != 0 {
		t.Fatalf("quiet move: got %d want 0", got)
	}

	scored := ScoreMoves(p, p.LegalMoves(), 0)
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Fatalf("scores not descending at %d: %d > %d", i, scored[i].Score, scored[i-1].Score)
		}
	}
	if !p.IsCastling(scored[0].Move) || !p.IsCastling(scored[1].Move) {
		t.Fatalf("expected both castling moves first, got %s %s", scored[0].Move.String(), scored[1].Move.String())
	}
}

func TestOrderingIsStable(t *testing.T) {
	p := rules.StartPosition()
	moves := p.LegalMoves()
	ordered := OrderMoves(p, moves)
	for i := range moves {
		if moves[i] != ordered[i] {
			t.Fatalf("quiet opening moves should keep generation order: index %d got %s want %s", i, ordered[i].String(), moves[i].String())
		}
	}
}

func TestOrderingPromotesPVMove(t *testing.T) {
	p := rules.StartPosition()
	moves := p.LegalMoves()
	pv := moves[len(moves)-1]
	ordered := orderWithPV(p, moves, pv)
	if ordered[0] != pv {
		t.Fatalf("expected pv move %s first, got %s", pv.String(), ordered[0].String())
	}
	if len(ordered) != len(moves) {
		t.Fatalf("ordering dropped moves: %d vs %d", len(ordered), len(moves))
	}
}

func TestOrderCapturesFiltersQuietMoves(t *testing.T) {
	p := mustPosition(t, "4k3/8/8/3q4/4P3/8/8/3QK3 w - - 0 1")
	captures := OrderCaptures(p, p.LegalMoves())
	if len(captures) != 2 {
		t.Fatalf("expected 2 captures, got %d", len(captures))
	}
	for _, m := range captures {
		if !p.IsCapture(m) {
			t.Fatalf("%s is not a capture", m.String())
		}
	}
	if captures[0].String() != "e4d5" {
		t.Fatalf("expected e4d5 first, got %s", captures[0].String())
	}
}
