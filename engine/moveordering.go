package engine

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"chess-search/rules"
)

// Ordering bonuses for quiet tactical motifs. A winning capture always
// outranks them; an even trade ties at zero with a quiet move.
const (
	castleBonus = 20
	checkBonus  = 10
	// Promotes the previous iteration's best root move above everything else.
	pvBonus = 1 << 20
)

// Capture ordering uses middlegame material; the king is priced so that a
// king capture always ranks as the least attractive trade.
var orderValue = [7]int{
	rules.Pawn: 87, rules.Knight: 337, rules.Bishop: 365, rules.Rook: 477, rules.Queen: 1025, rules.King: 10000,
}

// MoveScore pairs a legal move with its heuristic rank. It never leaves the
// ordering step.
type MoveScore struct {
	Move  rules.Move
	Score int
}

func scoreMove(p *rules.Position, m rules.Move) int {
	if p.IsCapture(m) {
		attacker, _, _ := p.PieceAt(m.From())
		victim, _, occupied := p.PieceAt(m.To())
		if !occupied {
			victim = rules.Pawn // en passant
		}
		return orderValue[victim] - orderValue[attacker]
	}
	if p.IsCastling(m) {
		return castleBonus
	}
	if p.GivesCheck(m) {
		return checkBonus
	}
	return 0
}

// ScoreMoves ranks moves, best first. Equal scores keep generation order.
func ScoreMoves(p *rules.Position, moves []rules.Move, pvMove rules.Move) []MoveScore {
	scored := make([]MoveScore, len(moves))
	for i, m := range moves {
		scored[i] = MoveScore{Move: m, Score: scoreMove(p, m)}
		if pvMove != 0 && m == pvMove {
			scored[i].Score += pvBonus
		}
	}
	slices.SortStableFunc(scored, func(a, b MoveScore) int {
		return b.Score - a.Score
	})
	return scored
}

// OrderMoves returns the moves most promising first.
func OrderMoves(p *rules.Position, moves []rules.Move) []rules.Move {
	return orderWithPV(p, moves, 0)
}

func orderWithPV(p *rules.Position, moves []rules.Move, pvMove rules.Move) []rules.Move {
	return lo.Map(ScoreMoves(p, moves, pvMove), func(ms MoveScore, _ int) rules.Move {
		return ms.Move
	})
}

// OrderCaptures keeps only the captures, ranked for quiescence.
func OrderCaptures(p *rules.Position, moves []rules.Move) []rules.Move {
	captures := lo.Filter(moves, func(m rules.Move, _ int) bool {
		return p.IsCapture(m)
	})
	return OrderMoves(p, captures)
}
