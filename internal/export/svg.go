package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/bemsim/internal/geometry"
)

// PlanformSVG draws the blade outline seen from the front, chord centred
// on the pitch axis, with a tick at every station.
func PlanformSVG(stations []geometry.Station, width, height int, strokeColor string) string {
	if len(stations) < 2 {
		return ""
	}

	minR, maxR := stations[0].R, stations[len(stations)-1].R
	maxChord := 0.0
	for _, s := range stations {
		maxChord = math.Max(maxChord, s.Chord)
	}

	pad := 0.05 * (maxR - minR)
	rangeR := maxR - minR + 2*pad
	rangeC := 1.2 * maxChord
	toX := func(r float64) float64 { return (r - minR + pad) / rangeR * float64(width) }
	toY := func(c float64) float64 { return float64(height)/2 - c/rangeC*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, strokeColor))

	for i, s := range stations {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f ", cmd, toX(s.R), toY(s.Chord/2)))
	}
	for i := len(stations) - 1; i >= 0; i-- {
		s := stations[i]
		sb.WriteString(fmt.Sprintf("L%.1f,%.1f ", toX(s.R), toY(-s.Chord/2)))
	}
	sb.WriteString("Z\"/>\n")

	for _, s := range stations {
		x := toX(s.R)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466" stroke-width="1"/>
`, x, toY(s.Chord/2), x, toY(-s.Chord/2)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
