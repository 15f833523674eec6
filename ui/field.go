package ui

import (
	"bytes"
	"fmt"

	"github.com/logrusorgru/aurora"

	"github.com/sheikhrachel/go-gol-torus/model"
)

const cropNotice = "The universe is larger than the viewing area"

// renderCells draws one character per cell, cropped to maxW x maxH. When the
// universe does not fit, the last visible line carries a notice instead.
func renderCells(view model.CellsView, width, height uint32, maxW, maxH int, live, dead string) string {
	var (
		b     bytes.Buffer
		cells = view.Bytes()
		crop  = isCropped(width, height, maxW, maxH)
	)

	for row := range int(height) {
		if row >= maxH {
			break
		}
		if row != 0 {
			b.WriteByte('\n')
		}
		if crop && row == maxH-1 {
			b.WriteString(aurora.Red(cropNotice).BgBlack().String())
			break
		}
		line := cells[row*int(width) : (row+1)*int(width)]
		for column, c := range line {
			if column >= maxW {
				break
			}
			if model.Cell(c).IsAlive() {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}

// cellAt translates a field position into grid coordinates for a maxW x maxH
// field; ok is false when the pointer is outside the universe or on the crop
// notice line.
func cellAt(x, y int, width, height uint32, maxW, maxH int) (row, column uint32, ok bool) {
	if x < 0 || y < 0 || x >= int(width) || y >= int(height) {
		return 0, 0, false
	}
	if isCropped(width, height, maxW, maxH) && y >= maxH-1 {
		return 0, 0, false
	}
	return uint32(y), uint32(x), true
}

func isCropped(width, height uint32, maxW, maxH int) bool {
	return int(width) > maxW || int(height) > maxH
}

func renderProp(name string, valueFormat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueFormat, values...)
}
