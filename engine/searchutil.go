package engine

import (
	"fmt"

	"github.com/samber/lo"

	"chess-search/rules"
)

// isMateScore reports whether score encodes a forced mate within MaxPly.
func isMateScore(score int32) bool {
	return abs(score) > MateScore-MaxPly
}

// mateIn turns a mate score into moves to mate, negative when the side to
// move is the one getting mated.
func mateIn(score int32) (int, bool) {
	if !isMateScore(score) {
		return 0, false
	}
	pliesToMate := int(MateScore - abs(score))
	mateInN := (pliesToMate + 1) / 2
	if score < 0 {
		return -mateInN, true
	}
	return mateInN, true
}

// FormatScore renders a score the way a human reads it.
func FormatScore(score int32) string {
	if n, ok := mateIn(score); ok {
		return fmt.Sprintf("mate %d", n)
	}
	return fmt.Sprintf("cp %d", score)
}

// DescribeOrdering lists the root moves in search order with their
// ordering scores.
func DescribeOrdering(pos *rules.Position) []string {
	return lo.Map(ScoreMoves(pos, pos.LegalMoves(), 0), func(ms MoveScore, idx int) string {
		return fmt.Sprintf("#%d %s score=%d", idx+1, ms.Move.String(), ms.Score)
	})
}
