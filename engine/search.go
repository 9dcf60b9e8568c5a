package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chess-search/rules"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	// MateScore is the score of delivering mate at the root; a mate found
	// at ply p scores MateScore - p.
	MateScore int32 = 30000
	Infinity  int32 = MateScore + 1

	// MaxPly bounds recursion; depths are stored as int8 in the table.
	MaxPly = 100
)

// Result is what one search call hands back to the driver.
type Result struct {
	BestMove rules.Move
	// Score is in centipawns from the side to move's point of view.
	Score int32
	Nodes uint64
	// Depth of the deepest completed iteration, 0 if none completed.
	Depth int
}

func (r Result) HasMove() bool {
	return r.BestMove != 0
}

// Engine owns everything one search needs: the table, the stop flag and
// the options. A single Engine must not run two searches at once.
type Engine struct {
	opts     Options
	tt       *TransTable
	timer    TimeHandler
	log      zerolog.Logger
	reporter func(Info)
}

// New builds an engine. Invalid options are logged and replaced by the
// defaults.
func New(opts Options, logger zerolog.Logger) *Engine {
	if err := opts.Validate(); err != nil {
		logger.Warn().Err(err).Msg("falling back to default engine options")
		opts = DefaultOptions()
	}
	return &Engine{
		opts: opts,
		tt:   NewTransTable(opts.TableSize, opts.MaxEntries),
		log:  logger,
	}
}

func (e *Engine) Options() Options {
	return e.opts
}

// SetOptions replaces the options between searches. The table is rebuilt
// only when its dimensions change.
func (e *Engine) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.TableSize != e.opts.TableSize || opts.MaxEntries != e.opts.MaxEntries {
		e.tt = NewTransTable(opts.TableSize, opts.MaxEntries)
	}
	e.opts = opts
	return nil
}

// SetReporter installs the progress callback. It runs on the search
// goroutine and must not block for long.
func (e *Engine) SetReporter(fn func(Info)) {
	e.reporter = fn
}

// Stop asks a running search to finish. Safe from any goroutine.
func (e *Engine) Stop() {
	e.timer.RequestStop()
}

// NewGame forgets everything learned in earlier searches. Search also
// starts from an empty table, so this only frees memory between games.
func (e *Engine) NewGame() {
	e.tt.Clear()
}

// SearchDepth searches to a fixed depth with no time limit.
func (e *Engine) SearchDepth(pos *rules.Position, depth int) Result {
	return e.Search(context.Background(), pos, Limits{MaxDepth: depth})
}

// Search runs iterative deepening on pos until a limit is hit, ctx is
// cancelled or Stop is called. pos is mutated during the search and is
// restored before Search returns. Each call starts from an empty table:
// mate scores are stored relative to the root they were found under.
func (e *Engine) Search(ctx context.Context, pos *rules.Position, limits Limits) Result {
	e.tt.Clear()
	e.timer.StartTime(limits.Budget)
	if ctx.Err() != nil {
		e.timer.RequestStop()
	}
	release := e.timer.Watch(ctx)
	defer release()

	maxDepth := limits.MaxDepth
	if maxDepth <= 0 {
		maxDepth = e.opts.MaxDepth
	}
	maxDepth = Clamp(maxDepth, 1, MaxPly)

	sc := &searchContext{
		id:     uuid.New(),
		timer:  &e.timer,
		report: e.reporter,
	}
	log := e.log.With().Str("search_id", sc.id.String()).Logger()
	log.Debug().
		Str("fen", pos.FEN()).
		Int("max_depth", maxDepth).
		Dur("budget", limits.Budget).
		Msg("search started")

	res := e.rootsearch(sc, pos, maxDepth, log)

	log.Info().
		Str("bestmove", res.BestMove.String()).
		Int32("score", res.Score).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", e.timer.Elapsed()).
		Object("cuts", sc.stats).
		Object("tt", e.tt).
		Msg("search finished")
	return res
}

// searchContext is the state of one Search call.
type searchContext struct {
	id         uuid.UUID
	nodes      uint64
	extensions int
	rootDepth  int
	timer      *TimeHandler
	stats      CutStatistics
	report     func(Info)
}

func (sc *searchContext) emit(info Info) {
	if sc.report == nil {
		return
	}
	elapsed := sc.timer.Elapsed()
	info.Nodes = sc.nodes
	info.Time = elapsed
	info.NPS = nodesPerSecond(sc.nodes, elapsed)
	sc.report(info)
}

func (e *Engine) rootsearch(sc *searchContext, pos *rules.Position, maxDepth int, log zerolog.Logger) Result {
	color := int32(1)
	if !pos.WhiteToMove() {
		color = -1
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return Result{Score: -MateScore}
		}
		return Result{Score: -e.opts.Contempt}
	}

	ordered := OrderMoves(pos, moves)
	// Emergency fallback: never return an empty move
	res := Result{BestMove: ordered[0], Score: EvaluateRelative(pos)}
	if len(ordered) == 1 {
		log.Debug().Str("move", ordered[0].String()).Msg("single legal move")
		return res
	}

	var pvMove rules.Move
	for depth := 1; depth <= maxDepth; depth++ {
		sc.rootDepth = depth
		ordered = orderWithPV(pos, moves, pvMove)

		alpha, beta := -Infinity, Infinity
		bestScore := -Infinity
		var bestMove rules.Move
		completed := true

		for _, move := range ordered {
			if sc.timer.TimeStatus() {
				completed = false
				break
			}

			extend := e.opts.MaxExtensions > 0 && pos.IsCapture(move)
			undo := pos.Apply(move)
			sc.nodes++

			if pos.IsCheckmate() {
				undo()
				res = Result{BestMove: move, Score: MateScore - 1, Nodes: sc.nodes, Depth: depth}
				sc.emit(Info{Depth: depth, Score: res.Score, Bound: BoundExact, Move: move})
				log.Debug().Str("move", move.String()).Msg("mating move at root")
				return res
			}

			childDepth := depth - 1
			if extend || (e.opts.MaxExtensions > 0 && pos.InCheck()) {
				childDepth = depth
			}
			score := -e.negamax(sc, pos, childDepth, 1, -beta, -alpha, -color)
			undo()

			if sc.timer.Stopped() {
				completed = false
				break
			}

			if score > bestScore {
				bestScore = score
				bestMove = move
			}
			alpha = Max(alpha, bestScore)
			sc.emit(Info{Depth: depth, Score: bestScore, Bound: BoundExact, Move: bestMove})
		}

		if !completed {
			log.Debug().Int("depth", depth).Msg("iteration abandoned")
			break
		}

		res = Result{BestMove: bestMove, Score: bestScore, Nodes: sc.nodes, Depth: depth}
		pvMove = bestMove

		elapsed := sc.timer.Elapsed()
		ev := log.Debug().
			Int("depth", depth).
			Int32("score", bestScore).
			Str("pv", bestMove.String()).
			Uint64("nodes", sc.nodes).
			Uint64("nps", nodesPerSecond(sc.nodes, elapsed))
		if n, ok := mateIn(bestScore); ok {
			ev = ev.Int("mate", n)
		}
		ev.Msg("iteration complete")
	}

	res.Nodes = sc.nodes
	return res
}

// negamax scores pos from the side to move's view. color is +1 when White
// is to move. A result produced after the stop flag was raised is garbage
// and every caller discards it.
func (e *Engine) negamax(sc *searchContext, pos *rules.Position, depth, ply int, alpha, beta, color int32) int32 {
	hash := pos.Hash()
	alphaOrig, betaOrig := alpha, beta

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	if e.opts.Transposition {
		if entry, ok := e.tt.Probe(hash, int8(depth)); ok {
			var score int32
			var cutoff bool
			alpha, beta, score, cutoff = useEntry(entry, alpha, beta)
			if cutoff {
				sc.stats.TTCutoffs++
				return score
			}
		}
	}

	moves, result, over := e.terminal(pos, ply)
	if over {
		return result
	}

	if depth <= 0 || ply >= MaxPly {
		if e.opts.Quiescence {
			return e.quiescence(sc, pos, moves, ply, alpha, beta, color)
		}
		return color * Evaluation(pos)
	}

	bestScore := -Infinity
	for _, move := range OrderMoves(pos, moves) {
		if sc.timer.TimeStatus() {
			return alpha
		}

		isCapture := pos.IsCapture(move)
		undo := pos.Apply(move)
		sc.nodes++

		// Check/capture extension, bounded per search call
		nextDepth := depth - 1
		if sc.extensions < e.opts.MaxExtensions && (isCapture || pos.InCheck()) {
			sc.extensions++
			sc.stats.Extensions++
			nextDepth = depth
		}

		score := -e.negamax(sc, pos, nextDepth, ply+1, -beta, -alpha, -color)
		undo()

		if sc.timer.Stopped() {
			return alpha
		}

		if score > bestScore {
			bestScore = score
		}
		alpha = Max(alpha, bestScore)

		if depth >= sc.rootDepth {
			sc.emit(nodeInfo(depth, ply, bestScore, classify(bestScore, alphaOrig, betaOrig)))
		}

		if alpha >= beta {
			sc.stats.BetaCutoffs++
			break
		}
	}

	if e.opts.Transposition {
		e.tt.Store(hash, int8(depth), bestScore, classify(bestScore, alphaOrig, betaOrig))
	}
	return bestScore
}

// terminal scores drawn and mated positions. Otherwise it hands back the
// legal moves so the caller does not generate them again.
func (e *Engine) terminal(pos *rules.Position, ply int) (moves []rules.Move, score int32, over bool) {
	if pos.CanClaimDraw() || pos.IsInsufficientMaterial() {
		return nil, -e.opts.Contempt, true
	}
	moves = pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return nil, -(MateScore - int32(ply)), true
		}
		return nil, -e.opts.Contempt, true
	}
	return moves, 0, false
}

// quiescence resolves captures until the position is quiet. moves are the
// legal moves of a position terminal has already ruled out. It never polls
// the clock.
func (e *Engine) quiescence(sc *searchContext, pos *rules.Position, moves []rules.Move, ply int, alpha, beta, color int32) int32 {
	standpat := color * Evaluation(pos)
	if ply >= MaxPly {
		return standpat
	}
	if standpat >= beta {
		sc.stats.QStandPatCutoffs++
		return beta
	}
	alpha = Max(alpha, standpat)

	for _, move := range OrderCaptures(pos, moves) {
		undo := pos.Apply(move)
		sc.nodes++
		next, score, over := e.terminal(pos, ply+1)
		if !over {
			score = e.quiescence(sc, pos, next, ply+1, -beta, -alpha, -color)
		}
		score = -score
		undo()

		if score >= beta {
			sc.stats.QBetaCutoffs++
			return beta
		}
		alpha = Max(alpha, score)
	}
	return alpha
}

// classify labels best against the window the node was entered with,
// before a table entry narrowed it.
func classify(best, alpha, beta int32) Bound {
	switch {
	case best >= beta:
		return BoundLower
	case best <= alpha:
		return BoundUpper
	}
	return BoundExact
}

func nodesPerSecond(nodes uint64, elapsed time.Duration) uint64 {
	secs := Max(elapsed.Seconds(), 0.01)
	return uint64(float64(nodes) / secs)
}
