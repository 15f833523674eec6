package utils

import "time"

// Stats for performance monitoring of the host loop
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     uint64
	StartTime            time.Time
	LivingCells          int
	Density              float64
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update records one frame. totalCells is width*height of the grid.
func (s *Stats) Update(generation uint64, population, totalCells int, duration time.Duration) {
	s.TotalGenerations = generation
	s.LivingCells = population
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}
	if totalCells > 0 {
		s.Density = float64(population) / float64(totalCells) * 100
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Runtime returns the time elapsed since the stats were created
func (s *Stats) Runtime() time.Duration {
	return time.Since(s.StartTime)
}
