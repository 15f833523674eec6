package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/logrusorgru/aurora"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out    io.Writer
	Colors bool
}

// NewTerminalRenderer renders to stdout with colours enabled
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{Out: os.Stdout, Colors: true}
}

// Display renders the current generation to the renderer's writer
func (r *TerminalRenderer) Display(u *Universe) error {
	var (
		view  = u.Cells()
		cells = view.Bytes()
		w     = bufio.NewWriter(r.out())
		block = gridPosBlock
	)
	if r.Colors {
		block = aurora.Green(gridPosBlock).String()
	}

	for row := range u.Height() {
		line := cells[int(row)*int(u.Width()) : int(row+1)*int(u.Width())]
		for _, c := range line {
			if Cell(c).IsAlive() {
				w.WriteString(block)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.out()
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(r.out(), "Error clearing terminal:", err)
	}
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}
