// cribengine - builds the Cribbage discard strategy database and the
// pegging game-tree matrix that CFR training runs against.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/cribengine/internal/cards"
	"github.com/yourusername/cribengine/pkg/peg"
	"github.com/yourusername/cribengine/pkg/strategy"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		cmdBuild(args)
	case "stats":
		cmdStats(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cribengine - Cribbage strategy database builder

Usage: cribengine <command> [options]

Commands:
  build     Build the strategy table and pegging matrix, write a snapshot
  stats     Build the strategy table and report its dimensions

Use "cribengine <command> -h" for command-specific help.`)
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	snapDir := fs.String("snapshots", "snapshots", "Snapshot output directory")
	workers := fs.Int("workers", 0, "Parallel solvers for the matrix sweep (0 = all cores)")
	fs.Parse(args)

	start := time.Now()
	db, err := strategy.Build(cards.NewDeck())
	if err != nil {
		log.Fatal().Err(err).Msg("building strategy table")
	}
	log.Info().
		Int("hands", db.NumHands()).
		Int("rows", len(db.Rows)).
		Int("playHands", db.NumPlayHands()).
		Dur("elapsed", time.Since(start)).
		Msg("strategy table built")

	start = time.Now()
	m := peg.BuildMatrix(db.PlayHands, peg.MatrixOptions{Workers: *workers})
	log.Info().
		Int("cells", m.Cells()).
		Dur("elapsed", time.Since(start)).
		Msg("pegging matrix built")

	n, err := db.WriteSnapshot(*snapDir)
	if err != nil {
		log.Fatal().Err(err).Msg("writing snapshot")
	}
	log.Info().Int("snapshot", n).Str("dir", *snapDir).Msg("initial snapshot written")
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(args)

	db, err := strategy.Build(cards.NewDeck())
	if err != nil {
		log.Fatal().Err(err).Msg("building strategy table")
	}

	cov := db.DealCoverage()
	fmt.Printf("Hand classes:      %d\n", db.NumHands())
	fmt.Printf("Strategy rows:     %d\n", len(db.Rows))
	fmt.Printf("Play-hand classes: %d\n", db.NumPlayHands())
	fmt.Printf("Dealer coverage:   %.4f (%d deals)\n", cov.DealerCoverage, cov.DealerDeals)
	fmt.Printf("Pone coverage:     %.4f (%d deals)\n", cov.PoneCoverage, cov.PoneDeals)
}
