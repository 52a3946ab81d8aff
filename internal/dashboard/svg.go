package dashboard

import (
	"fmt"
	"math"
)

const (
	chartWidth  = 420.0
	chartHeight = 300.0
	chartMargin = 40.0
	pieRadius   = 110.0
)

var pieColors = []string{"#4c72b0", "#dd8452", "#55a868", "#c44e52", "#8172b3", "#937860"}

type svgBar struct {
	X, Y, W, H float64
	Label      string
	Count      int
}

type svgSlice struct {
	Path           string
	Full           bool
	Fill           string
	LabelX, LabelY float64
	Label          string
	Rating         int
}

type svgCharts struct {
	Width, Height float64
	Histogram     []svgBar
	Ratings       []svgSlice
	Availability  []svgBar
	PieCX, PieCY  float64
	PieRadius     float64
	BaseY         float64
}

func layoutCharts(c Charts) svgCharts {
	out := svgCharts{
		Width:     chartWidth,
		Height:    chartHeight,
		PieCX:     chartWidth / 2,
		PieCY:     chartHeight / 2,
		PieRadius: pieRadius,
		BaseY:     chartHeight - chartMargin,
	}

	counts := make([]int, len(c.Histogram))
	labels := make([]string, len(c.Histogram))
	for i, bin := range c.Histogram {
		counts[i] = bin.Count
		labels[i] = fmt.Sprintf("%g", bin.Lower)
	}
	out.Histogram = layoutBars(counts, labels, 0.85)

	counts = counts[:0]
	labels = labels[:0]
	for _, bar := range c.Availability {
		counts = append(counts, bar.Count)
		labels = append(labels, bar.Label)
	}
	out.Availability = layoutBars(counts, labels, 0.6)

	out.Ratings = layoutPie(c.Ratings, out.PieCX, out.PieCY, pieRadius)
	return out
}

// layoutBars spreads bars evenly over the plot width; rwidth is the bar share of each slot
func layoutBars(counts []int, labels []string, rwidth float64) []svgBar {
	if len(counts) == 0 {
		return nil
	}

	top := 1
	for _, c := range counts {
		if c > top {
			top = c
		}
	}

	plotW := chartWidth - 2*chartMargin
	plotH := chartHeight - 2*chartMargin
	slot := plotW / float64(len(counts))

	bars := make([]svgBar, len(counts))
	for i, c := range counts {
		h := plotH * float64(c) / float64(top)
		w := slot * rwidth
		bars[i] = svgBar{
			X:     chartMargin + float64(i)*slot + (slot-w)/2,
			Y:     chartHeight - chartMargin - h,
			W:     w,
			H:     h,
			Label: labels[i],
			Count: c,
		}
	}
	return bars
}

// layoutPie starts at twelve o'clock and runs clockwise
func layoutPie(ratings []RatingSlice, cx, cy, r float64) []svgSlice {
	slices := make([]svgSlice, 0, len(ratings))
	angle := math.Pi / 2

	for i, rs := range ratings {
		sweep := 2 * math.Pi * rs.Percent / 100
		end := angle - sweep
		mid := angle - sweep/2

		s := svgSlice{
			Fill:   pieColors[i%len(pieColors)],
			LabelX: cx + 0.6*r*math.Cos(mid),
			LabelY: cy - 0.6*r*math.Sin(mid),
			Label:  rs.Label(),
			Rating: rs.Rating,
		}
		if len(ratings) == 1 {
			s.Full = true
		} else {
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			s.Path = fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
				cx, cy,
				cx+r*math.Cos(angle), cy-r*math.Sin(angle),
				r, r, large,
				cx+r*math.Cos(end), cy-r*math.Sin(end))
		}
		slices = append(slices, s)
		angle = end
	}
	return slices
}
