package rules

import "math/bits"

const (
	lightSquares uint64 = 0x55aa55aa55aa55aa
	darkSquares  uint64 = ^lightSquares
)

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.board.OurKingInCheck()
}

func (p *Position) HasLegalMoves() bool {
	return len(p.board.GenerateLegalMoves()) > 0
}

func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// CanClaimDraw is true under the fifty-move rule or when the current
// position has occurred three times.
func (p *Position) CanClaimDraw() bool {
	if p.HalfmoveClock() >= fiftyMoveLimit {
		return true
	}
	return p.Repetitions() >= 3
}

// Repetitions counts occurrences of the current position, itself included,
// since the last irreversible move.
func (p *Position) Repetitions() int {
	if len(p.history) == 0 {
		return 0
	}
	curr := p.history[len(p.history)-1]
	start := len(p.history) - 1 - p.HalfmoveClock()
	if start < 0 {
		start = 0
	}
	count := 0
	for i := len(p.history) - 1; i >= start; i -= 2 {
		if p.history[i] == curr {
			count++
		}
	}
	return count
}

// IsInsufficientMaterial covers bare kings, a single minor piece, and
// bishops that all stand on one square colour.
func (p *Position) IsInsufficientMaterial() bool {
	w, b := &p.board.White, &p.board.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	knights := bits.OnesCount64(w.Knights | b.Knights)
	bishops := w.Bishops | b.Bishops
	minors := knights + bits.OnesCount64(bishops)
	if minors <= 1 {
		return true
	}
	if knights == 0 {
		return bishops&lightSquares == 0 || bishops&darkSquares == 0
	}
	return false
}

// IsDraw combines every drawn terminal state the search scores with contempt.
func (p *Position) IsDraw() bool {
	return p.CanClaimDraw() || p.IsStalemate() || p.IsInsufficientMaterial()
}

// IsCapture reports an occupied destination or a pawn changing file, which
// covers en passant. An empty en passant square is stored as a1, so the
// board's own capture test misreads pawn pushes onto a1.
func (p *Position) IsCapture(m Move) bool {
	if _, _, occupied := p.PieceAt(m.To()); occupied {
		return true
	}
	piece, _, _ := p.PieceAt(m.From())
	return piece == Pawn && m.From()%8 != m.To()%8
}

// IsCastling detects the king's two-file step.
func (p *Position) IsCastling(m Move) bool {
	piece, _, _ := p.PieceAt(m.From())
	if piece != King {
		return false
	}
	from, to := int(m.From()), int(m.To())
	return from-to == 2 || to-from == 2
}

// GivesCheck plays m, tests the opponent's king and takes m back.
func (p *Position) GivesCheck(m Move) bool {
	unapply := p.board.Apply(m)
	defer unapply()
	return p.board.OurKingInCheck()
}
