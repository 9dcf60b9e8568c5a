package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chess-search/engine"
	"chess-search/rules"
)

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 6, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	jobsFlag := flag.Int("jobs", 1, "independent engines searching at the same time")
	fenFlag := flag.String("fen", rules.StartFEN, "FEN to search")
	orderingFlag := flag.Bool("ordering", false, "print the root move ordering and exit")
	verbose := flag.Bool("v", false, "debug logging on stderr")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 || *depthFlag > engine.MaxPly {
		log.Fatalf("depth must be in [1, %d], got %d", engine.MaxPly, *depthFlag)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if _, err := rules.NewPosition(*fenFlag); err != nil {
		log.Fatal(err)
	}

	if *orderingFlag {
		pos, _ := rules.NewPosition(*fenFlag)
		for _, line := range engine.DescribeOrdering(pos) {
			fmt.Println(line)
		}
		return
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d jobs=%d\n", *fenFlag, *depthFlag, *repeatFlag, *jobsFlag)

	// Each job owns its engine; nothing is shared between searches.
	var outMu sync.Mutex
	var g errgroup.Group
	startAll := time.Now()
	for job := 0; job < *jobsFlag; job++ {
		job := job
		g.Go(func() error {
			eng := engine.New(engine.DefaultOptions(), logger.With().Int("job", job).Logger())
			for i := 0; i < *repeatFlag; i++ {
				pos, err := rules.NewPosition(*fenFlag)
				if err != nil {
					return err
				}
				eng.NewGame()

				iterStart := time.Now()
				res := eng.SearchDepth(pos, *depthFlag)
				iterElapsed := time.Since(iterStart)

				outMu.Lock()
				fmt.Printf("job %d iteration %d: bestmove %s score %s nodes %d time=%v\n",
					job, i+1, res.BestMove.String(), engine.FormatScore(res.Score), res.Nodes, iterElapsed)
				outMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("total time: %v\n", time.Since(startAll))

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
