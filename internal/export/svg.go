package export

import (
	"fmt"
	"strings"

	"github.com/chemketoo/gentleHMC/internal/hmc"
	"github.com/chemketoo/gentleHMC/internal/viz"
)

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ScatterSVG renders a chain (dots) with an optional trajectory overlay
// (polyline) directly in data coordinates.
func ScatterSVG(samples []hmc.State, traj hmc.Trajectory, width, height int) string {
	if len(samples) == 0 {
		return ""
	}

	b := viz.FitBounds(samples)
	w := float64(width)
	h := float64(height)

	sx := func(x float64) float64 { return w * (x - b.XMin) / (b.XMax - b.XMin) }
	sy := func(y float64) float64 { return h - h*(y-b.YMin)/(b.YMax-b.YMin) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00" fill-opacity="0.6">
`, width, height, width, height))

	for _, s := range samples {
		if len(s) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="1.5"/>
`, sx(s[0]), sy(s[1])))
	}
	sb.WriteString("</g>\n")

	if len(traj) > 1 {
		sb.WriteString(`<polyline fill="none" stroke="#ff5f87" stroke-width="1" points="`)
		for i, ps := range traj {
			if len(ps.Position) < 2 {
				continue
			}
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", sx(ps.Position[0]), sy(ps.Position[1])))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
