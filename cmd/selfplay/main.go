// Command selfplay lets the search engine play both sides from the initial board
// and prints every position. Perfect play must end in a draw, so any other result
// exits with status 1.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/render"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

func main() {
	os.Exit(run())
}

func run() int {
	noCache := flag.Bool("no-cache", false, "search without the transposition table")
	cacheSize := flag.Int("cache-size", 0, "maximum transposition table entries, 0 means unbounded")
	profileMode := flag.String("profile", "", "write a cpu or mem profile of the search to -profile-dir")
	profileDir := flag.String("profile-dir", ".", "directory for profile output")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(*profileDir), profile.Quiet).Stop()
	default:
		logger.Error("unknown profile mode", "profile", *profileMode)
		return 2
	}

	var opts []minimax.Option
	if !*noCache {
		opts = append(opts, minimax.WithCache(*cacheSize))
	}

	outcome, err := play(minimax.New(opts...), render.New(os.Stdout), logger)
	if err != nil {
		logger.Error("self play failed", "error", err)
		return 1
	}

	if outcome != tictactoe.Draw {
		logger.Error("perfect play did not draw", "outcome", outcome.String())
		return 1
	}

	return 0
}

type engine interface {
	OptimalMove(board tictactoe.Board) (tictactoe.Move, bool)
	Stats() minimax.Stats
}

func play(engine engine, renderer *render.Renderer, logger *slog.Logger) (tictactoe.Outcome, error) {
	board := tictactoe.Initial()
	start := time.Now()

	if err := renderer.Print(board, nil); err != nil {
		return board.Outcome(), fmt.Errorf("failed to print board: %w", err)
	}

	for !board.IsTerminal() {
		move, ok := engine.OptimalMove(board)
		if !ok {
			return board.Outcome(), fmt.Errorf("no move on a live board:\n%s", board)
		}

		next, err := board.Apply(move)
		if err != nil {
			return board.Outcome(), fmt.Errorf("engine chose %s: %w", move, err)
		}
		board = next

		if err = renderer.Print(board, &move); err != nil {
			return board.Outcome(), fmt.Errorf("failed to print board: %w", err)
		}
	}

	stats := engine.Stats()
	logger.Info("game over",
		"outcome", board.Outcome().String(),
		"nodes", stats.Nodes,
		"cacheHits", stats.CacheHits,
		"elapsed", time.Since(start),
	)

	return board.Outcome(), nil
}
