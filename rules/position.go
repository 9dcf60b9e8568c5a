// Package rules adapts the dragontoothmg move generator to the interface the
// search consumes: legal moves, scoped make/unmake, game-status predicates and
// a repetition-aware position history.
package rules

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

// Move is the rules engine's packed move.
type Move = dragontoothmg.Move

// Piece types, indexed the same way dragontoothmg indexes them.
const (
	NoPiece = dragontoothmg.Nothing
	Pawn    = dragontoothmg.Pawn
	Knight  = dragontoothmg.Knight
	Bishop  = dragontoothmg.Bishop
	Rook    = dragontoothmg.Rook
	Queen   = dragontoothmg.Queen
	King    = dragontoothmg.King
)

const StartFEN = dragontoothmg.Startpos

const fiftyMoveLimit = 100

var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrIllegalMove = errors.New("illegal move")
)

// Position is a board plus the hash history needed for repetition claims.
// It is mutated in place by Apply; every Apply must be paired with its undo.
type Position struct {
	board   dragontoothmg.Board
	history []uint64
}

// NewPosition parses and validates a FEN string. Four-field FENs get default
// move counters.
func NewPosition(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) == 4 {
		fields = append(fields, "0", "1")
	}
	normalized := strings.Join(fields, " ")

	if _, err := chess.FEN(normalized); err != nil {
		return nil, fmt.Errorf("rules: %w %q: %v", ErrInvalidFEN, fen, err)
	}

	board := dragontoothmg.ParseFen(normalized)
	if bits.OnesCount64(board.White.Kings) != 1 || bits.OnesCount64(board.Black.Kings) != 1 {
		return nil, fmt.Errorf("rules: %w %q: each side needs exactly one king", ErrInvalidFEN, fen)
	}

	p := &Position{board: board}
	p.history = append(p.history, p.board.Hash())
	return p, nil
}

// StartPosition returns the standard initial position.
func StartPosition() *Position {
	p, err := NewPosition(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Apply makes m on the board and returns the function that takes it back.
func (p *Position) Apply(m Move) (undo func()) {
	unapply := p.board.Apply(m)
	p.history = append(p.history, p.board.Hash())
	return func() {
		unapply()
		p.history = p.history[:len(p.history)-1]
	}
}

// Push finds the legal move matching the UCI string and plays it permanently.
func (p *Position) Push(uci string) error {
	m, err := p.ParseMove(uci)
	if err != nil {
		return err
	}
	p.Apply(m)
	return nil
}

// ParseMove resolves a UCI move string against the current legal moves.
func (p *Position) ParseMove(uci string) (Move, error) {
	parsed, err := dragontoothmg.ParseMove(strings.ToLower(uci))
	if err != nil {
		return 0, fmt.Errorf("rules: %w %q: %v", ErrIllegalMove, uci, err)
	}
	for _, m := range p.LegalMoves() {
		if m.From() == parsed.From() && m.To() == parsed.To() && m.Promote() == parsed.Promote() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("rules: %w %q in %s", ErrIllegalMove, uci, p.FEN())
}

func (p *Position) LegalMoves() []Move {
	return p.board.GenerateLegalMoves()
}

func (p *Position) WhiteToMove() bool {
	return p.board.Wtomove
}

func (p *Position) Hash() uint64 {
	return p.board.Hash()
}

func (p *Position) FEN() string {
	return p.board.ToFen()
}

func (p *Position) HalfmoveClock() int {
	return int(p.board.Halfmoveclock)
}

// Ply is the number of half moves played since the start of the game.
func (p *Position) Ply() int {
	ply := (int(p.board.Fullmoveno) - 1) * 2
	if !p.board.Wtomove {
		ply++
	}
	return ply
}

// Bitboards returns the piece sets of one side.
func (p *Position) Bitboards(white bool) dragontoothmg.Bitboards {
	if white {
		return p.board.White
	}
	return p.board.Black
}

// PieceAt reports the piece type and colour on sq.
func (p *Position) PieceAt(sq uint8) (piece dragontoothmg.Piece, white bool, ok bool) {
	mask := uint64(1) << sq
	if p.board.White.All&mask != 0 {
		return pieceTypeAt(mask, &p.board.White), true, true
	}
	if p.board.Black.All&mask != 0 {
		return pieceTypeAt(mask, &p.board.Black), false, true
	}
	return NoPiece, false, false
}

func pieceTypeAt(mask uint64, bb *dragontoothmg.Bitboards) dragontoothmg.Piece {
	switch {
	case bb.Pawns&mask != 0:
		return Pawn
	case bb.Knights&mask != 0:
		return Knight
	case bb.Bishops&mask != 0:
		return Bishop
	case bb.Rooks&mask != 0:
		return Rook
	case bb.Queens&mask != 0:
		return Queen
	case bb.Kings&mask != 0:
		return King
	}
	return NoPiece
}

// Clone returns an independent copy, history included.
func (p *Position) Clone() *Position {
	c := &Position{board: p.board}
	c.history = append([]uint64(nil), p.history...)
	return c
}
