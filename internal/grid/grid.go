// Package grid draws a filter's bit vector as a square grid of numbered
// cells, one cell per bit position.
package grid

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// BitView is read-only access to a bit vector.
type BitView interface {
	Size() uint32
	Bit(i uint32) bool
}

// SideFor returns the smallest side length whose square holds n cells.
func SideFor(n uint32) int {
	if n == 0 {
		return 0
	}
	side := int(math.Sqrt(float64(n)))
	for side*side < int(n) {
		side++
	}
	return side
}

// Render writes a side×side grid to w. Cell i = row*side+col shows its
// index wrapped in brackets when bit i is set and in spaces otherwise;
// cells past the end of the vector render blank.
//
//	[ 0]  1   2 [ 3]
func Render(w io.Writer, view BitView, side int) error {
	if side <= 0 {
		return nil
	}

	width := len(strconv.Itoa(side*side - 1))
	bw := bufio.NewWriter(w)
	size := view.Size()

	for row := range side {
		cells := make([]string, side)
		for col := range side {
			i := row*side + col
			cells[col] = cell(view, i, size, width)
		}
		if _, err := fmt.Fprintln(bw, strings.TrimRight(strings.Join(cells, ""), " ")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func cell(view BitView, i int, size uint32, width int) string {
	if uint64(i) >= uint64(size) {
		return strings.Repeat(" ", width+2)
	}
	label := fmt.Sprintf("%*d", width, i)
	if view.Bit(uint32(i)) {
		return "[" + label + "]"
	}
	return " " + label + " "
}

// Legend summarizes how many cells are set.
func Legend(view BitView) string {
	var set uint32
	for i := range view.Size() {
		if view.Bit(i) {
			set++
		}
	}
	return fmt.Sprintf("%d/%d bits set ([n] = set)", set, view.Size())
}
