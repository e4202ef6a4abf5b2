// Package viz renders spin configurations in the terminal and drives
// the live view of a running simulation.
package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/spinmc/internal/ising"
	"github.com/san-kum/spinmc/internal/lattice"
)

// ErrNot2D indicates a lattice that cannot be drawn as a plane.
var ErrNot2D = errors.New("viz: live rendering needs a 2-dimensional lattice")

var (
	styleUp = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffaa00"))
	styleDown = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0088ff"))
	styleStatus = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))
)

// RenderLattice draws a 2D configuration, one styled block pair per
// spin, rows following the first lattice dimension.
func RenderLattice(cfg *ising.Configuration, lat *lattice.Lattice) (string, error) {
	if lat.NDim() != 2 {
		return "", ErrNot2D
	}
	if cfg.Size() != lat.Size() {
		return "", fmt.Errorf("viz: configuration size %d does not match lattice size %d",
			cfg.Size(), lat.Size())
	}

	shape := lat.Shape()
	rows, cols := shape[0], shape[1]
	up := styleUp.Render("██")
	down := styleDown.Render("░░")

	var b strings.Builder
	for r := lattice.Index(0); r < rows; r++ {
		for c := lattice.Index(0); c < cols; c++ {
			if cfg.At(r.Mul(cols).Add(c)) == ising.Up {
				b.WriteString(up)
			} else {
				b.WriteString(down)
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
