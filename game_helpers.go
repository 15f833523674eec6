package main

import (
	"fmt"
	"os"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-torus/model"
	"github.com/sheikhrachel/go-gol-torus/utils"
)

// loadConfig reads the config file, falling back to defaults when it does not exist
func loadConfig(path string) (utils.Config, error) {
	if path == "" {
		return utils.DefaultConfig(), nil
	}
	config, err := utils.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			fmt.Printf("Using default configuration (%s not found)\n", path)
			return utils.DefaultConfig(), nil
		}
		return config, err
	}
	return config, nil
}

// applyFlags overrides config values with flags that were set
func applyFlags(config utils.Config, f cliFlags) (utils.Config, error) {
	if f.width != 0 {
		config.Width = f.width
	}
	if f.height != 0 {
		config.Height = f.height
	}
	if f.generations != 0 {
		config.MaxGenerations = f.generations
	}
	if f.interval != 0 {
		config.FrameRate = f.interval
	}
	if f.workers != 0 {
		config.Workers = f.workers
	}
	if f.seed != "" {
		config.Seed = f.seed
	}
	if f.pool {
		config.UseMemoryPool = true
	}
	if f.interactive {
		config.Interactive = true
	}

	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "[applyFlags] invalid flags")
	}
	return config, nil
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config) (
	*model.Universe,
	*model.TerminalRenderer,
	*utils.Stats,
	error,
) {
	universe, err := model.NewUniverse(config)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "[initializeGame] failed to create universe")
	}

	return universe, model.NewTerminalRenderer(), utils.NewStats(), nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, universe *model.Universe) {
	fmt.Printf("Features: Workers: %d, Memory Pool: %v, Seed: %s\n",
		config.Workers, config.UseMemoryPool, config.Seed)
	fmt.Printf("Universe: %dx%d torus | Initial living cells: %d\n",
		universe.Width(), universe.Height(), universe.LivingCells())
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
}

// updateGameState records stats and stagnation history for the current generation
func updateGameState(
	universe *model.Universe,
	lastFrameTime time.Time,
	stats *utils.Stats,
) (string, bool) {
	livingCells := universe.LivingCells()
	stats.Update(universe.Generation(), livingCells, universe.Cells().Len(), time.Since(lastFrameTime))

	// compare against earlier generations before recording this one
	isStagnant := universe.IsStagnant()
	universe.UpdateHistory()

	status := aurora.Cyan("Active").String()
	if isStagnant {
		status = aurora.Yellow("Stagnant").String()
	}
	if livingCells == 0 {
		status = aurora.Red("Extinct").String()
	}

	return status, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(status string, stats *utils.Stats) {
	fmt.Printf("Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		stats.TotalGenerations, stats.LivingCells, stats.Density, status)
	fmt.Printf("Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())
	fmt.Println()
}

// checkStopConditions determines if the headless loop should end
func checkStopConditions(livingCells, stagnantCount int, generation uint64, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if config.MaxGenerations > 0 && generation >= uint64(config.MaxGenerations) {
		return true, fmt.Sprintf("maximum generations limit (%d)", config.MaxGenerations)
	}
	return false, ""
}
