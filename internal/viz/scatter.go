package viz

import "github.com/chemketoo/gentleHMC/internal/hmc"

// Bounds is a fixed data window mapped onto the canvas.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// FitBounds computes a window covering all points, with a small margin so
// edge points don't sit on the frame. Degenerate ranges widen to 1.
func FitBounds(points []hmc.State) Bounds {
	if len(points) == 0 {
		return Bounds{XMin: -1, XMax: 1, YMin: -1, YMax: 1}
	}
	b := Bounds{
		XMin: points[0][0], XMax: points[0][0],
		YMin: points[0][1], YMax: points[0][1],
	}
	for _, p := range points {
		if len(p) < 2 {
			continue
		}
		if p[0] < b.XMin {
			b.XMin = p[0]
		}
		if p[0] > b.XMax {
			b.XMax = p[0]
		}
		if p[1] < b.YMin {
			b.YMin = p[1]
		}
		if p[1] > b.YMax {
			b.YMax = p[1]
		}
	}
	xPad := (b.XMax - b.XMin) * 0.05
	yPad := (b.YMax - b.YMin) * 0.05
	if xPad == 0 {
		xPad = 0.5
	}
	if yPad == 0 {
		yPad = 0.5
	}
	b.XMin -= xPad
	b.XMax += xPad
	b.YMin -= yPad
	b.YMax += yPad
	return b
}

func (b Bounds) project(c *Canvas, p hmc.State) (int, int, bool) {
	if len(p) < 2 {
		return 0, 0, false
	}
	w := c.Width * 2
	h := c.Height * 4
	px := int(float64(w-1) * (p[0] - b.XMin) / (b.XMax - b.XMin))
	py := int(float64(h-1) * (p[1] - b.YMin) / (b.YMax - b.YMin))
	py = h - 1 - py
	if px < 0 || px >= w || py < 0 || py >= h {
		return 0, 0, false
	}
	return px, py, true
}

// PlotSamples marks every sample as a single dot.
func PlotSamples(c *Canvas, b Bounds, samples []hmc.State) {
	for _, s := range samples {
		if px, py, ok := b.project(c, s); ok {
			c.Set(px, py)
		}
	}
}

// PlotTrajectory draws the leapfrog path of one proposal as a polyline.
func PlotTrajectory(c *Canvas, b Bounds, traj hmc.Trajectory) {
	prevX, prevY := 0, 0
	havePrev := false
	for _, ps := range traj {
		px, py, ok := b.project(c, ps.Position)
		if !ok {
			havePrev = false
			continue
		}
		if havePrev {
			c.DrawLine(prevX, prevY, px, py)
		}
		prevX, prevY = px, py
		havePrev = true
	}
}
