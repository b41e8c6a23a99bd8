// Package export renders stored runs to SVG for sharing outside the
// terminal.
package export

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ctrlkit/pid/internal/loop"
)

type trace struct {
	label  string
	color  string
	values []float64
}

// ResultToSVG renders a run's setpoint, output and control series as a
// single SVG time plot with a small legend.
func ResultToSVG(result *loop.Result, width, height int) (string, error) {
	if result == nil || len(result.Times) < 2 {
		return "", errors.New("need at least two samples to plot")
	}

	traces := []trace{
		{label: "setpoint", color: "#888888", values: result.Setpoints},
		{label: "output", color: "#00ff00", values: result.Outputs},
		{label: "control", color: "#00bfff", values: result.Controls},
	}

	minY, maxY := traces[0].values[0], traces[0].values[0]
	for _, tr := range traces {
		for _, v := range tr.values {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	minT := result.Times[0]
	rangeT := result.Times[len(result.Times)-1] - minT
	if rangeT == 0 {
		rangeT = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, tr := range traces {
		if len(tr.values) != len(result.Times) {
			return "", errors.Errorf("%s series length %d does not match %d times",
				tr.label, len(tr.values), len(result.Times))
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, tr.color))
		for i, v := range tr.values {
			x := (result.Times[i] - minT) / rangeT * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	for i, tr := range traces {
		y := 16 + i*16
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, y, tr.color, tr.label))
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}
