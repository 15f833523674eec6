package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/integrii/flaggy"

	"github.com/sheikhrachel/go-gol-torus/ui"
)

type cliFlags struct {
	config      string
	width       uint32
	height      uint32
	generations int
	interval    time.Duration
	workers     int
	seed        string
	pool        bool
	interactive bool
	noRender    bool
}

func parseFlags() cliFlags {
	f := cliFlags{config: "config.json"}

	flaggy.SetName("go-gol-torus")
	flaggy.SetDescription("Conway's Game of Life on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	flaggy.String(&f.config, "c", "config", "Path to a JSON config file")
	flaggy.UInt32(&f.width, "x", "width", "Width of the universe")
	flaggy.UInt32(&f.height, "y", "height", "Height of the universe")
	flaggy.Int(&f.generations, "g", "generations", "Stop after this many generations (0 keeps the config value)")
	flaggy.Duration(&f.interval, "i", "interval", "Interval between generations, for example 150ms (0 keeps the config value)")
	flaggy.Int(&f.workers, "w", "workers", "Row band workers per tick, 1 = sequential (0 keeps the config value)")
	flaggy.String(&f.seed, "s", "seed", "Seed pattern [modulo|blinker|glider|empty]")
	flaggy.Bool(&f.pool, "p", "pool", "Recycle generation buffers (enable only; disable in the config file)")
	flaggy.Bool(&f.interactive, "n", "interactive", "Start the interactive terminal UI (enable only; disable in the config file)")
	flaggy.Bool(&f.noRender, "q", "quiet", "Headless mode prints status lines only")

	flaggy.Parse()
	return f
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func run(f cliFlags) error {
	config, err := loadConfig(f.config)
	if err != nil {
		return err
	}
	if config, err = applyFlags(config, f); err != nil {
		return err
	}

	universe, renderer, stats, err := initializeGame(config)
	if err != nil {
		return err
	}

	if config.Interactive {
		console, err := ui.NewConsoleUI(universe, config)
		if err != nil {
			return err
		}
		return console.Start()
	}

	displayGameInfo(config, universe)

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var (
		stagnantCount = 0
		lastFrameTime = time.Now()
		ticker        = time.NewTicker(max(config.FrameRate, time.Millisecond))
	)
	defer ticker.Stop()

	for {
		frameStart := time.Now()
		status, isStagnant := updateGameState(universe, lastFrameTime, stats)
		lastFrameTime = frameStart

		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		if !f.noRender {
			renderer.Clear()
			if err := renderer.Display(universe); err != nil {
				return err
			}
		}
		displayGameStatus(status, stats)

		if stop, reason := checkStopConditions(stats.LivingCells, stagnantCount, universe.Generation(), config); stop {
			fmt.Printf("🏁 Stopped: %s\n", reason)
			return nil
		}

		select {
		case <-sigChan:
			fmt.Println("\n🛑 Shutting down gracefully...")
			fmt.Printf("Final stats: %d generations in %.1f seconds\n",
				universe.Generation(), stats.Runtime().Seconds())
			fmt.Printf("Average: %.1f gen/sec, %.1f avg population\n",
				stats.GenerationsPerSecond, stats.AveragePopulation)
			return nil
		case <-ticker.C:
		}

		universe.Tick()
	}
}
