package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named sequence of values drawn left to right.
type Series struct {
	Name   string
	Values []float64
}

// Chart describes a braille line chart. All series share one value scale:
// the data range, or Min..Max when Fixed is set.
type Chart struct {
	Title  string
	Series []Series
	Width  int
	Height int
	Fixed  bool
	Min    float64
	Max    float64
	Color  bool
}

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	fallbackTermWidth  = 80
	axisGap            = " ┤"
	colorReset         = "\x1b[0m"
)

var seriesColors = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m"}

// RenderChart writes c to w. Colour is used when forced by c.Color or when
// w is a terminal, unless NO_COLOR is set.
func RenderChart(w io.Writer, c Chart) error {
	series := make([]Series, 0, len(c.Series))
	for _, s := range c.Series {
		if len(s.Values) > 0 {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return nil
	}
	height := c.Height
	if height <= 0 {
		height = defaultChartHeight
	}
	width := c.Width
	if width <= 0 {
		width = ChartWidthFor(terminalWidth())
	}
	width = max(width, minChartWidth)

	lo, hi := c.Min, c.Max
	if !c.Fixed {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, s := range series {
			slo, shi := valueRange(s.Values)
			lo, hi = math.Min(lo, slo), math.Max(hi, shi)
		}
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}

	cv := newCanvas(width, height)
	for si, s := range series {
		prevX, prevY := -1, -1
		for i, v := range s.Values {
			x := 0
			if len(s.Values) > 1 {
				x = i * (cv.dotsX() - 1) / (len(s.Values) - 1)
			}
			y := int(math.Round((hi - v) / (hi - lo) * float64(cv.dotsY()-1)))
			if prevX < 0 {
				cv.dot(x, y, si)
			} else {
				cv.line(prevX, prevY, x, y, si)
			}
			prevX, prevY = x, y
		}
	}

	useColor := shouldUseColor(w, c.Color)
	top, bottom := formatAxis(hi), formatAxis(lo)
	labelWidth := max(runewidth.StringWidth(top), runewidth.StringWidth(bottom))

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(c.Title)
		b.WriteByte('\n')
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		b.WriteString(runewidth.FillLeft(label, labelWidth))
		b.WriteString(axisGap)
		b.WriteString(cv.row(y, useColor))
		b.WriteByte('\n')
	}
	b.WriteString(legend(series, useColor))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ChartWidthFor returns the plot area width that fits a total width.
func ChartWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minChartWidth
	}
	return max(totalWidth-runewidth.StringWidth("100"+axisGap), minChartWidth)
}

func formatAxis(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "⣿ " + s.Name
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// canvas is a grid of braille cells, each holding 2x4 dots.
type canvas struct {
	width, height int
	masks         [][]uint8
	owner         [][]int
}

func newCanvas(width, height int) *canvas {
	cv := &canvas{width: width, height: height}
	cv.masks = make([][]uint8, height)
	cv.owner = make([][]int, height)
	for y := range cv.masks {
		cv.masks[y] = make([]uint8, width)
		cv.owner[y] = make([]int, width)
		for x := range cv.owner[y] {
			cv.owner[y][x] = -1
		}
	}
	return cv
}

func (cv *canvas) dotsX() int { return cv.width * 2 }
func (cv *canvas) dotsY() int { return cv.height * 4 }

// brailleBits maps a dot position inside a cell to its bit, indexed [y][x].
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func (cv *canvas) dot(x, y, series int) {
	if x < 0 || y < 0 || x >= cv.dotsX() || y >= cv.dotsY() {
		return
	}
	cx, cy := x/2, y/4
	cv.masks[cy][cx] |= brailleBits[y%4][x%2]
	if cv.owner[cy][cx] < 0 {
		cv.owner[cy][cx] = series
	}
}

// line draws with Bresenham's algorithm.
func (cv *canvas) line(x0, y0, x1, y1, series int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		cv.dot(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (cv *canvas) row(y int, useColor bool) string {
	var b strings.Builder
	for x := 0; x < cv.width; x++ {
		ch := rune(0x2800 + int(cv.masks[y][x]))
		if owner := cv.owner[y][x]; useColor && owner >= 0 {
			b.WriteString(seriesColors[owner%len(seriesColors)])
			b.WriteRune(ch)
			b.WriteString(colorReset)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
