package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chess-search/engine"
	"chess-search/rules"
)

const (
	engineName   = "ChessSearch"
	engineAuthor = "chess-search authors"

	// Clock assumed for a bare "go" with no limits at all.
	defaultClockMs = 1000000
	// Hash is given in units of this many buckets.
	hashUnit = 1024
)

func main() {
	verbose := flag.Bool("v", false, "log search details to stderr")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	if err := newDriver(os.Stdout, logger).uciLoop(os.Stdin); err != nil {
		logger.Fatal().Err(err).Msg("uci loop failed")
	}
}

// driver is the UCI front end. The search runs on its own goroutine so the
// loop can keep reading "stop" and "isready".
type driver struct {
	outMu sync.Mutex
	out   io.Writer
	log   zerolog.Logger

	eng *engine.Engine
	pos *rules.Position

	search   *errgroup.Group
	cancel   context.CancelFunc
	infinite bool
}

func newDriver(out io.Writer, logger zerolog.Logger) *driver {
	d := &driver{
		out: out,
		log: logger,
		eng: engine.New(engine.DefaultOptions(), logger),
		pos: rules.StartPosition(),
	}
	d.eng.SetReporter(func(info engine.Info) {
		d.println(info.String())
	})
	return d
}

func (d *driver) println(a ...any) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintln(d.out, a...)
}

func (d *driver) uciLoop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	// At end of input let the last search report its move.
	defer d.waitSearch()

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			d.println("id name", engineName)
			d.println("id author", engineAuthor)
			d.printOptions()
			d.println("uciok")
		case "isready":
			d.println("readyok")
		case "ucinewgame":
			d.waitSearch()
			d.eng.NewGame()
			d.pos = rules.StartPosition()
		case "position":
			d.waitSearch()
			pos, err := parsePosition(tokens[1:])
			if err != nil {
				d.log.Warn().Err(err).Msg("position rejected")
				d.println("info string", err)
				continue
			}
			d.pos = pos
		case "go":
			params, err := parseGo(tokens[1:], d.log)
			if err != nil {
				d.log.Warn().Err(err).Msg("malformed go command")
				d.println("info string", err)
				continue
			}
			d.startSearch(params)
		case "stop":
			d.stopSearch()
		case "setoption":
			d.waitSearch()
			if err := d.setOption(tokens[1:]); err != nil {
				d.log.Warn().Err(err).Msg("option rejected")
				d.println("info string", err)
			}
		case "quit":
			d.stopSearch()
			return nil
		default:
			d.println("info string Unknown command:", line)
		}
	}
	return scanner.Err()
}

func (d *driver) startSearch(params goParams) {
	d.waitSearch()

	limits := params.limits(d.pos.WhiteToMove())
	pos := d.pos.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	d.search, d.cancel, d.infinite = g, cancel, params.infinite

	g.Go(func() error {
		res := d.eng.Search(ctx, pos, limits)
		if params.infinite {
			// bestmove may only follow "stop" or "quit".
			<-ctx.Done()
		}
		move := "0000"
		if res.HasMove() {
			move = res.BestMove.String()
		}
		d.println("bestmove", move)
		return nil
	})
}

// waitSearch lets a running search finish on its own. An infinite search
// never does, so it is stopped instead.
func (d *driver) waitSearch() {
	if d.search == nil {
		return
	}
	if d.infinite {
		d.cancel()
		d.eng.Stop()
	}
	if err := d.search.Wait(); err != nil {
		d.log.Error().Err(err).Msg("search failed")
	}
	d.cancel()
	d.search, d.cancel, d.infinite = nil, nil, false
}

func (d *driver) stopSearch() {
	if d.search == nil {
		return
	}
	d.cancel()
	d.eng.Stop()
	d.waitSearch()
}

func (d *driver) printOptions() {
	def := engine.DefaultOptions()
	d.println(fmt.Sprintf("option name Contempt type spin default %d min %d max %d", def.Contempt, engine.MinContempt, engine.MaxContempt))
	d.println(fmt.Sprintf("option name MaxDepth type spin default %d min 1 max %d", def.MaxDepth, engine.MaxPly))
	d.println(fmt.Sprintf("option name Hash type spin default %d min 1 max 65536", def.TableSize/hashUnit))
	d.println(fmt.Sprintf("option name Quiescence type check default %t", def.Quiescence))
	d.println(fmt.Sprintf("option name MaxExtensions type spin default %d min 0 max %d", def.MaxExtensions, engine.MaxPly))
}

var errUnknownOption = errors.New("unknown option")

// setOption handles "name <id> value <x>".
func (d *driver) setOption(tokens []string) error {
	var name, value []string
	target := &name
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, tok)
		}
	}
	key := strings.ToLower(strings.Join(name, ""))
	val := strings.Join(value, " ")

	opts := d.eng.Options()
	switch key {
	case "contempt":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("contempt: %w", err)
		}
		opts.Contempt = int32(n)
	case "maxdepth":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("maxdepth: %w", err)
		}
		opts.MaxDepth = n
	case "hash":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("hash: %w", err)
		}
		opts.TableSize = n * hashUnit
		opts.MaxEntries = 4 * opts.TableSize
	case "quiescence":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("quiescence: %w", err)
		}
		opts.Quiescence = b
	case "maxextensions":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("maxextensions: %w", err)
		}
		opts.MaxExtensions = n
	default:
		return fmt.Errorf("%w %q", errUnknownOption, strings.Join(name, " "))
	}
	if err := d.eng.SetOptions(opts); err != nil {
		return err
	}
	d.log.Debug().Str("name", key).Str("value", val).Msg("option set")
	return nil
}

// parsePosition handles "startpos|fen <fen> [moves m1 m2 ...]".
func parsePosition(tokens []string) (*rules.Position, error) {
	if len(tokens) == 0 {
		return nil, errors.New("malformed position command")
	}
	var fen []string
	rest := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		fen = []string{rules.StartFEN}
	case "fen":
		for len(rest) > 0 && strings.ToLower(rest[0]) != "moves" {
			fen = append(fen, rest[0])
			rest = rest[1:]
		}
		if len(fen) == 0 {
			return nil, errors.New("position fen without a FEN")
		}
	default:
		return nil, fmt.Errorf("invalid position subcommand %q", tokens[0])
	}

	pos, err := rules.NewPosition(strings.Join(fen, " "))
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return pos, nil
	}
	if strings.ToLower(rest[0]) != "moves" {
		return nil, fmt.Errorf("unexpected %q after position", rest[0])
	}
	for _, mv := range rest[1:] {
		if err := pos.Push(mv); err != nil {
			return nil, err
		}
	}
	return pos, nil
}

type goParams struct {
	wtime, btime int
	winc, binc   int
	movetime     int
	depth        int
	infinite     bool
}

// Go subcommands the search has no use for. The ones that carry a single
// value have it skipped too; searchmoves runs to the next keyword.
var ignoredGoArgs = map[string]int{
	"movestogo":   1,
	"nodes":       1,
	"mate":        1,
	"ponder":      0,
	"searchmoves": -1,
}

func parseGo(tokens []string, log zerolog.Logger) (goParams, error) {
	var p goParams
	ints := map[string]*int{
		"wtime":    &p.wtime,
		"btime":    &p.btime,
		"winc":     &p.winc,
		"binc":     &p.binc,
		"movetime": &p.movetime,
		"depth":    &p.depth,
	}
	isKeyword := func(tok string) bool {
		_, known := ints[tok]
		_, ignored := ignoredGoArgs[tok]
		return known || ignored || tok == "infinite"
	}
	for i := 0; i < len(tokens); i++ {
		tok := strings.ToLower(tokens[i])
		if tok == "infinite" {
			p.infinite = true
			continue
		}
		dst, ok := ints[tok]
		if !ok {
			n, known := ignoredGoArgs[tok]
			if n < 0 {
				n = 0
				for i+n+1 < len(tokens) && !isKeyword(strings.ToLower(tokens[i+n+1])) {
					n++
				}
			}
			end := engine.Min(i+n+1, len(tokens))
			log.Debug().Bool("known", known).Strs("args", tokens[i:end]).Msg("go subcommand ignored")
			i = end - 1
			continue
		}
		if i+1 >= len(tokens) {
			return p, fmt.Errorf("go %s: missing value", tok)
		}
		n, err := strconv.Atoi(tokens[i+1])
		if err != nil {
			return p, fmt.Errorf("go %s: %w", tok, err)
		}
		*dst = n
		i++
	}
	return p, nil
}

// limits turns the go parameters into search limits. Increments are
// ignored; a bare "go" assumes a long clock.
func (p goParams) limits(whiteToMove bool) engine.Limits {
	wtime, btime := p.wtime, p.btime
	if !p.infinite && p.depth == 0 && p.movetime == 0 {
		if wtime <= 0 {
			wtime = defaultClockMs
		}
		if btime <= 0 {
			btime = defaultClockMs
		}
	}
	return engine.Limits{
		Budget:   engine.ClockBudget(wtime, btime, p.movetime, p.infinite, whiteToMove),
		MaxDepth: p.depth,
	}
}
