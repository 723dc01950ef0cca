package viz

import (
	"strings"
	"testing"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Set(0, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 lit, got %x", c.Grid[0][0])
	}
}

func TestCanvasSetOutOfBounds(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(100, 0)
	c.Set(0, 100)

	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("out-of-bounds set lit a dot")
			}
		}
	}
}

func TestCanvasSubPixelPacking(t *testing.T) {
	c := NewCanvas(4, 4)

	// All eight sub-pixels of one cell.
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			c.Set(x, y)
		}
	}

	if c.Grid[0][0] != 0x28FF {
		t.Errorf("expected full braille cell 0x28FF, got %x", c.Grid[0][0])
	}
}

func TestCanvasUnset(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Set(0, 0)
	c.Set(1, 0)
	c.Unset(0, 0)

	if c.Grid[0][0] != 0x2808 {
		t.Errorf("expected only dot 4 lit after unset, got %x", c.Grid[0][0])
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Set(1, 1)
	c.Clear()

	if c.Grid[0][0] != 0x2800 {
		t.Error("clear did not reset the grid")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 0)

	// Endpoints of a horizontal line must both be lit.
	if c.Grid[0][0] == 0x2800 || c.Grid[0][9] == 0x2800 {
		t.Error("line endpoints not drawn")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	s := c.String()

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 rows, got %d", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 3 {
			t.Errorf("expected 3 runes per row, got %d", len([]rune(line)))
		}
	}
}

func TestFitBounds(t *testing.T) {
	points := []hmc.State{{-1, -2}, {3, 4}}
	b := FitBounds(points)

	if b.XMin >= -1 || b.XMax <= 3 {
		t.Errorf("x bounds do not cover points with margin: %+v", b)
	}
	if b.YMin >= -2 || b.YMax <= 4 {
		t.Errorf("y bounds do not cover points with margin: %+v", b)
	}
}

func TestFitBoundsDegenerate(t *testing.T) {
	b := FitBounds([]hmc.State{{2, 3}})
	if b.XMax-b.XMin <= 0 || b.YMax-b.YMin <= 0 {
		t.Errorf("degenerate bounds should widen: %+v", b)
	}

	empty := FitBounds(nil)
	if empty.XMin != -1 || empty.XMax != 1 {
		t.Errorf("empty input should default: %+v", empty)
	}
}

func TestPlotSamples(t *testing.T) {
	c := NewCanvas(20, 10)
	samples := []hmc.State{{0, 0}, {1, 1}, {-1, -1}}
	b := FitBounds(samples)

	PlotSamples(c, b, samples)

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no dots plotted")
	}
}

func TestPlotTrajectory(t *testing.T) {
	c := NewCanvas(20, 10)
	traj := hmc.Trajectory{
		{Position: hmc.State{-1, -1}},
		{Position: hmc.State{0, 0}},
		{Position: hmc.State{1, 1}},
	}
	b := Bounds{XMin: -2, XMax: 2, YMin: -2, YMax: 2}

	PlotTrajectory(c, b, traj)

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit++
			}
		}
	}
	// A polyline across the canvas lights many more cells than its 3 vertices.
	if lit < 3 {
		t.Errorf("trajectory polyline barely drawn: %d cells", lit)
	}
}
