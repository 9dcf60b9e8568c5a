package engine

import (
	"fmt"
	"strings"
	"time"

	"chess-search/rules"
)

// Info is one progress record. Records from one search arrive in
// non-decreasing depth order; Nodes and Time are the search's running
// totals. Move is set only on records from the root.
type Info struct {
	Depth int
	// Score is from the root side to move's view.
	Score int32
	Bound Bound
	Nodes uint64
	NPS   uint64
	Time  time.Duration
	Move  rules.Move
}

// String renders the record as a UCI info line.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d score cp %d %s nodes %d nps %d time %d",
		i.Depth, i.Score, i.Bound, i.Nodes, i.NPS, i.Time.Milliseconds())
	if i.Move != 0 {
		sb.WriteString(" pv ")
		sb.WriteString(i.Move.String())
	}
	return sb.String()
}

// nodeInfo converts a score seen at ply into the root's point of view.
// Flipping the sign also swaps which side of the window failed.
func nodeInfo(depth, ply int, score int32, bound Bound) Info {
	if ply%2 == 1 {
		score = -score
		switch bound {
		case BoundLower:
			bound = BoundUpper
		case BoundUpper:
			bound = BoundLower
		}
	}
	return Info{Depth: depth, Score: score, Bound: bound}
}
