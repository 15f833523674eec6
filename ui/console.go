package ui

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-torus/model"
	"github.com/sheikhrachel/go-gol-torus/utils"
)

const (
	viewHeader        = "header"
	viewConfiguration = "configuration"
	viewStatus        = "status"
	viewField         = "field"
	viewHelp          = "help"

	leftColumnWidth = 28
	minWindowHeight = 20
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// ConsoleUI is an interactive terminal host for a Universe. Keys step and
// run the simulation; a mouse click toggles the cell under the pointer.
type ConsoleUI struct {
	mu       sync.Mutex // serializes every call into u
	u        *model.Universe
	config   utils.Config
	stats    *utils.Stats
	lastTick time.Duration
	running  bool
	closed   bool // gui closed or closing; no more redraws
	stopCh   chan struct{}
	done     chan struct{} // closed when the run loop goroutine exits

	g *gocui.Gui
	k []keyBinding

	liveFiller string
	deadFiller string
}

// NewConsoleUI creates the gui and binds keys; call Start to enter the main loop
func NewConsoleUI(u *model.Universe, config utils.Config) (*ConsoleUI, error) {
	t := &ConsoleUI{
		u:          u,
		config:     config,
		stats:      utils.NewStats(),
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "[NewConsoleUI] failed to init terminal")
	}
	t.g = g
	t.g.Mouse = true

	t.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'q', "Q", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next generation", t.cmdStep, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Reseed", t.cmdReseed, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle cell", t.cmdMouseClick, viewField},
	}
	t.g.SetManagerFunc(t.layout)

	for _, kb := range t.k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return h(v) }); err != nil {
			t.g.Close()
			return nil, errors.Wrapf(err, "[NewConsoleUI] failed to bind %s", kb.name)
		}
	}

	return t, nil
}

// Start runs the gui main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	defer t.shutdown()

	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "[ConsoleUI.Start] main loop failed")
	}
	return nil
}

// step advances one generation under the lock and returns the new generation
func (t *ConsoleUI) step() uint64 {
	t.mu.Lock()
	start := time.Now()
	t.u.Tick()
	t.lastTick = time.Since(start)
	generation := t.u.Generation()
	t.stats.Update(generation, t.u.LivingCells(), t.u.Cells().Len(), t.lastTick)
	t.mu.Unlock()
	t.refresh()
	return generation
}

func (t *ConsoleUI) run() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	stopCh, done := t.stopCh, t.done
	t.mu.Unlock()

	interval := t.config.FrameRate
	if interval <= 0 {
		interval = time.Millisecond
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				generation := t.step()
				if t.config.MaxGenerations > 0 && generation >= uint64(t.config.MaxGenerations) {
					t.stop()
					return
				}
			}
		}
	}()
	t.refresh()
}

func (t *ConsoleUI) stop() {
	t.halt()
	t.refresh()
}

// halt signals the run loop to end without scheduling a redraw. The returned
// channel is closed once the loop goroutine has exited; nil if it never ran.
func (t *ConsoleUI) halt() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		close(t.stopCh)
		t.running = false
	}
	return t.done
}

// shutdown stops redraws and waits for the run loop so nothing touches the
// gui after it is closed
func (t *ConsoleUI) shutdown() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	if done := t.halt(); done != nil {
		<-done
	}
}

// refresh schedules a redraw; safe to call from any goroutine
func (t *ConsoleUI) refresh() {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}

	t.g.Update(func(g *gocui.Gui) error {
		t.renderField(g)
		t.renderConfiguration(g)
		t.renderStatus(g)
		return nil
	})
}

func (t *ConsoleUI) renderField(g *gocui.Gui) {
	v, err := g.View(viewField)
	if err != nil {
		return
	}
	v.Clear()
	maxW, maxH := v.Size()

	t.mu.Lock()
	field := renderCells(t.u.Cells(), t.u.Width(), t.u.Height(), maxW, maxH, t.liveFiller, t.deadFiller)
	t.mu.Unlock()

	_, _ = fmt.Fprint(v, field)
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui) {
	v, err := g.View(viewStatus)
	if err != nil {
		return
	}
	t.mu.Lock()
	mode := aurora.Colorize("waiting", aurora.BlueFg).String()
	if t.running {
		mode = aurora.Colorize("running", aurora.CyanFg).String()
	}
	generation, living, tickTime := t.u.Generation(), t.stats.LivingCells, t.lastTick
	if generation == 0 {
		living = t.u.LivingCells()
	}
	t.mu.Unlock()

	v.Clear()
	_, _ = fmt.Fprintln(v, renderProp("Generation", "%v", generation))
	_, _ = fmt.Fprintln(v, renderProp("Live Cells", "%v", living))
	_, _ = fmt.Fprintln(v, renderProp("Tick time", "%v", tickTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, renderProp("Mode", "%v", mode))
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	v, err := g.View(viewConfiguration)
	if err != nil {
		return
	}
	c := t.config
	v.Clear()
	_, _ = fmt.Fprintln(v, renderProp("Dimension", "%v x %v", c.Width, c.Height))
	_, _ = fmt.Fprintln(v, renderProp("Seed", "%v", c.Seed))
	_, _ = fmt.Fprintln(v, renderProp("Interval", "%v", c.FrameRate))
	_, _ = fmt.Fprintln(v, renderProp("Workers", "%v", c.Workers))
	_, _ = fmt.Fprintln(v, renderProp("Max generations", "%v", c.MaxGenerations))
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if maxY < minWindowHeight {
		if err := headerLayout(g, maxY, "Terminal height too small"); err != nil {
			return err
		}
		_ = g.DeleteView(viewConfiguration)
		_ = g.DeleteView(viewStatus)
		_ = g.DeleteView(viewField)
		return nil
	}
	if err := headerLayout(g, 3, "Game of Life on a torus"); err != nil {
		return err
	}

	if v, err := g.SetView(viewConfiguration, 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Configuration"
		t.renderConfiguration(g)
	}

	if v, err := g.SetView(viewStatus, 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
		t.renderStatus(g)
	}

	if v, err := g.SetView(viewField, leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Universe"
	}
	t.renderField(g)

	if v, err := g.SetView(viewHelp, -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, t.helpLine())
	}

	return nil
}

func (t *ConsoleUI) helpLine() string {
	var b bytes.Buffer
	b.WriteString("KEYBINDINGS: ")
	for i, k := range t.k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(aurora.Green(k.name).String())
		b.WriteString(": ")
		b.WriteString(k.descr)
	}
	return b.String()
}

func headerLayout(g *gocui.Gui, height int, text string) error {
	maxX, _ := g.Size()
	v, err := g.SetView(viewHeader, -1, -1, maxX+1, height)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorCyan
		v.FgColor = gocui.ColorBlack
	}
	v.Clear()
	pad := 0
	if maxX > len(text) {
		pad = (maxX - len(text)) / 2
	}
	_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", pad)+text)
	return nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdStep(_ *gocui.View) error {
	t.step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.mu.Lock()
	t.u.Clear()
	t.mu.Unlock()
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdReseed(_ *gocui.View) error {
	t.mu.Lock()
	err := t.u.Reseed(t.config.Seed)
	t.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, "[ConsoleUI] reseed failed")
	}
	t.refresh()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	maxW, maxH := v.Size()

	t.mu.Lock()
	row, column, ok := cellAt(cx+ox, cy+oy, t.u.Width(), t.u.Height(), maxW, maxH)
	if ok {
		t.u.ToggleCell(row, column)
	}
	t.mu.Unlock()

	if ok {
		t.refresh()
	}
	return nil
}
