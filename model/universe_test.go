package model

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/sheikhrachel/go-gol-torus/utils"
)

func newTestUniverse(t testing.TB, width, height uint32) *Universe {
	t.Helper()
	config := utils.DefaultConfig()
	config.Width = width
	config.Height = height
	config.Seed = utils.SeedEmpty
	u, err := NewUniverse(config)
	if err != nil {
		t.Fatalf("NewUniverse(%dx%d): %v", width, height, err)
	}
	return u
}

func randomize(u *Universe, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for i := range u.cells {
		u.cells[i] = Cell(r.Intn(2))
	}
	u.version++
}

func liveSet(u *Universe) [][2]uint32 {
	var out [][2]uint32
	for row := range u.height {
		for column := range u.width {
			if u.Get(row, column).IsAlive() {
				out = append(out, [2]uint32{row, column})
			}
		}
	}
	return out
}

func TestNew(t *testing.T) {
	u := New()

	if u.Width() != utils.DefaultWidth || u.Height() != utils.DefaultHeight {
		t.Fatalf("dimensions = %dx%d, want %dx%d", u.Width(), u.Height(), utils.DefaultWidth, utils.DefaultHeight)
	}
	cells := u.Cells().Cells()
	if len(cells) != int(u.Width()*u.Height()) {
		t.Fatalf("len(cells) = %d, want %d", len(cells), u.Width()*u.Height())
	}
	for i, c := range cells {
		want := Dead
		if i%2 == 0 || i%7 == 0 {
			want = Alive
		}
		if c != want {
			t.Fatalf("cells[%d] = %v, want %v", i, c, want)
		}
	}
	if u.Generation() != 0 {
		t.Errorf("Generation() = %d, want 0", u.Generation())
	}
}

func TestNewUniverse_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*utils.Config)
	}{
		{"zero width", func(c *utils.Config) { c.Width = 0 }},
		{"zero height", func(c *utils.Config) { c.Height = 0 }},
		{"unknown seed", func(c *utils.Config) { c.Seed = "acorn" }},
		{"negative workers", func(c *utils.Config) { c.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := utils.DefaultConfig()
			tt.mutate(&config)
			if _, err := NewUniverse(config); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestIndexOf_Bijection(t *testing.T) {
	u := newTestUniverse(t, 7, 5)
	seen := make([]bool, len(u.cells))

	for row := range u.height {
		for column := range u.width {
			idx := u.indexOf(row, column)
			if want := int(row*u.width + column); idx != want {
				t.Fatalf("indexOf(%d, %d) = %d, want %d", row, column, idx, want)
			}
			if seen[idx] {
				t.Fatalf("index %d produced twice", idx)
			}
			seen[idx] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d never produced", i)
		}
	}
}

func TestLiveNeighborCount_Wraparound(t *testing.T) {
	u := newTestUniverse(t, 5, 4)
	// corners are mutual neighbours on a torus
	u.Set(0, 0, Alive)
	u.Set(0, 4, Alive)
	u.Set(3, 0, Alive)
	u.Set(3, 4, Alive)

	for _, pos := range [][2]uint32{{0, 0}, {0, 4}, {3, 0}, {3, 4}} {
		if got := u.liveNeighborCount(pos[0], pos[1]); got != 3 {
			t.Errorf("liveNeighborCount(%d, %d) = %d, want 3", pos[0], pos[1], got)
		}
	}
	if got := u.liveNeighborCount(1, 2); got != 0 {
		t.Errorf("liveNeighborCount(1, 2) = %d, want 0", got)
	}
}

func TestLiveNeighborCount_FullGrid(t *testing.T) {
	u := newTestUniverse(t, 4, 4)
	for i := range u.cells {
		u.cells[i] = Alive
	}
	for row := range u.height {
		for column := range u.width {
			if got := u.liveNeighborCount(row, column); got != 8 {
				t.Fatalf("liveNeighborCount(%d, %d) = %d, want 8", row, column, got)
			}
		}
	}
}

func TestLiveNeighborCount_StrategiesAgree(t *testing.T) {
	sizes := [][2]uint32{{3, 3}, {8, 6}, {1, 1}, {1, 5}, {2, 2}, {17, 13}}

	for _, size := range sizes {
		u := newTestUniverse(t, size[0], size[1])
		randomize(u, int64(size[0]*31+size[1]))

		for row := range u.height {
			for column := range u.width {
				explicit := u.liveNeighborCount(row, column)
				modulo := u.liveNeighborCountModulo(row, column)
				if explicit != modulo {
					t.Fatalf("%dx%d (%d, %d): explicit %d != modulo %d",
						size[0], size[1], row, column, explicit, modulo)
				}
				if explicit > 8 {
					t.Fatalf("%dx%d (%d, %d): count %d out of range", size[0], size[1], row, column, explicit)
				}
			}
		}
	}
}

func TestLiveNeighborCount_TranslationInvariant(t *testing.T) {
	const width, height = 9, 7
	src := newTestUniverse(t, width, height)
	randomize(src, 42)

	shifts := [][2]uint32{{0, 1}, {1, 0}, {3, 5}, {6, 8}}
	for _, shift := range shifts {
		dst := newTestUniverse(t, width, height)
		for row := range src.height {
			for column := range src.width {
				dst.Set((row+shift[0])%height, (column+shift[1])%width, src.Get(row, column))
			}
		}

		for row := range src.height {
			for column := range src.width {
				want := src.liveNeighborCount(row, column)
				got := dst.liveNeighborCount((row+shift[0])%height, (column+shift[1])%width)
				if got != want {
					t.Fatalf("shift %v at (%d, %d): got %d, want %d", shift, row, column, got, want)
				}
			}
		}
	}
}

func TestTick_EmptyStaysEmpty(t *testing.T) {
	u := newTestUniverse(t, 3, 3)
	u.Tick()

	if n := u.LivingCells(); n != 0 {
		t.Fatalf("LivingCells() = %d after tick on empty grid, want 0", n)
	}
	if u.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", u.Generation())
	}
}

func TestTick_IsolatedCellDies(t *testing.T) {
	u := newTestUniverse(t, 5, 5)
	u.Set(2, 2, Alive)
	u.Tick()

	if n := u.LivingCells(); n != 0 {
		t.Fatalf("LivingCells() = %d, want 0", n)
	}
}

func TestTick_Blinker(t *testing.T) {
	u := newTestUniverse(t, 6, 6)
	u.Place(2, 1, Blinker)

	horizontal := [][2]uint32{{2, 1}, {2, 2}, {2, 3}}
	vertical := [][2]uint32{{1, 2}, {2, 2}, {3, 2}}

	for gen := 1; gen <= 4; gen++ {
		u.Tick()
		want := vertical
		if gen%2 == 0 {
			want = horizontal
		}
		if got := liveSet(u); !slices.Equal(got, want) {
			t.Fatalf("generation %d: live cells %v, want %v", gen, got, want)
		}
	}
}

func TestTick_GliderWrapsTorus(t *testing.T) {
	u := newTestUniverse(t, 8, 8)
	u.Place(0, 0, Glider)
	start := liveSet(u)

	// a glider moves one cell diagonally every 4 generations; 32 brings it home
	for range 32 {
		u.Tick()
	}
	if got := liveSet(u); !slices.Equal(got, start) {
		t.Fatalf("after 32 ticks live cells %v, want %v", got, start)
	}
}

func TestTick_BirthAndDeathIndependentOfState(t *testing.T) {
	u := newTestUniverse(t, 6, 6)
	// (2,2) has exactly 3 neighbours; both a dead and live centre end up alive
	u.Place(1, 1, Pattern{{0, 0}, {0, 1}, {0, 2}})

	for _, centre := range []Cell{Dead, Alive} {
		v := newTestUniverse(t, 6, 6)
		copy(v.cells, u.cells)
		v.Set(2, 2, centre)
		v.Tick()
		if !v.Get(2, 2).IsAlive() {
			t.Errorf("centre %v with 3 neighbours: want Alive", centre)
		}
	}
}

func TestTick_Deterministic(t *testing.T) {
	a := newTestUniverse(t, 16, 12)
	b := newTestUniverse(t, 16, 12)
	randomize(a, 7)
	copy(b.cells, a.cells)

	for range 10 {
		a.Tick()
		b.Tick()
	}
	if !slices.Equal(a.Cells().Cells(), b.Cells().Cells()) {
		t.Fatal("identical universes diverged")
	}
}

func TestTick_ParallelAndPoolMatchSequential(t *testing.T) {
	configs := map[string]func(*utils.Config){
		"workers 3":        func(c *utils.Config) { c.Workers = 3 },
		"workers > height": func(c *utils.Config) { c.Workers = 64 },
		"workers 1<<32":    func(c *utils.Config) { c.Workers = 1 << 32 },
		"pool":             func(c *utils.Config) { c.UseMemoryPool = true },
		"pool and workers": func(c *utils.Config) {
			c.UseMemoryPool = true
			c.Workers = 4
		},
	}

	seq := newTestUniverse(t, 23, 17)
	randomize(seq, 99)

	for name, mutate := range configs {
		t.Run(name, func(t *testing.T) {
			config := utils.DefaultConfig()
			config.Width, config.Height, config.Seed = 23, 17, utils.SeedEmpty
			mutate(&config)
			u, err := NewUniverse(config)
			if err != nil {
				t.Fatal(err)
			}
			ref := newTestUniverse(t, 23, 17)
			copy(ref.cells, seq.cells)
			copy(u.cells, seq.cells)

			for gen := range 20 {
				ref.Tick()
				u.Tick()
				if !slices.Equal(ref.Cells().Cells(), u.Cells().Cells()) {
					t.Fatalf("generation %d differs from sequential tick", gen+1)
				}
			}
		})
	}
}

func TestToggleCell(t *testing.T) {
	u := New()
	before := slices.Clone(u.Cells().Cells())

	u.ToggleCell(3, 5)
	idx := u.indexOf(3, 5)
	if u.cells[idx] == before[idx] {
		t.Fatal("ToggleCell did not flip the cell")
	}
	for i := range u.cells {
		if i != idx && u.cells[i] != before[i] {
			t.Fatalf("ToggleCell changed unrelated cell %d", i)
		}
	}

	u.ToggleCell(3, 5)
	if !slices.Equal(u.Cells().Cells(), before) {
		t.Fatal("toggling twice did not restore the grid")
	}
}

func TestToggleCell_OutOfRangePanics(t *testing.T) {
	u := newTestUniverse(t, 4, 3)
	for _, pos := range [][2]uint32{{3, 0}, {0, 4}, {10, 10}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("ToggleCell(%d, %d) did not panic", pos[0], pos[1])
				}
			}()
			u.ToggleCell(pos[0], pos[1])
		}()
	}
}

func TestStagnation_Blinker(t *testing.T) {
	u := newTestUniverse(t, 6, 6)
	u.Place(2, 1, Blinker)

	stagnant := false
	for range 4 {
		u.Tick()
		stagnant = u.IsStagnant()
		u.UpdateHistory()
	}
	if !stagnant {
		t.Fatal("blinker not reported stagnant")
	}

	g := newTestUniverse(t, 20, 20)
	g.Place(0, 0, Glider)
	for range 4 {
		g.Tick()
		if g.IsStagnant() {
			t.Fatal("glider reported stagnant")
		}
		g.UpdateHistory()
	}
}

func TestReseed(t *testing.T) {
	u := newTestUniverse(t, 10, 10)
	if err := u.Reseed(utils.SeedBlinker); err != nil {
		t.Fatal(err)
	}
	if got, want := liveSet(u), [][2]uint32{{5, 4}, {5, 5}, {5, 6}}; !slices.Equal(got, want) {
		t.Fatalf("blinker seed %v, want %v", got, want)
	}

	u.Tick()
	if err := u.Reseed(utils.SeedEmpty); err != nil {
		t.Fatal(err)
	}
	if u.LivingCells() != 0 || u.Generation() != 0 {
		t.Fatalf("after empty reseed: living %d, generation %d", u.LivingCells(), u.Generation())
	}

	if err := u.Reseed("nope"); err == nil {
		t.Fatal("expected error for unknown seed")
	}
}

func TestString(t *testing.T) {
	u := newTestUniverse(t, 3, 2)
	u.Set(0, 1, Alive)
	u.Set(1, 2, Alive)

	want := strings.Join([]string{
		deadSymbol + liveSymbol + deadSymbol,
		deadSymbol + deadSymbol + liveSymbol,
	}, "\n") + "\n"
	if got := u.String(); got != want {
		t.Fatalf("String() =\n%s\nwant\n%s", got, want)
	}
}

func BenchmarkTick(b *testing.B) {
	for _, size := range []uint32{64, 256, 400} {
		for _, workers := range []int{1, 4} {
			b.Run(fmt.Sprintf("%dx%d-%d", size, size, workers), func(b *testing.B) {
				config := utils.DefaultConfig()
				config.Width, config.Height, config.Workers = size, size, workers
				config.UseMemoryPool = true
				u, err := NewUniverse(config)
				if err != nil {
					b.Fatal(err)
				}
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					u.Tick()
				}
			})
		}
	}
}
