package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth  = 30
	minHeight = 8
	// title, x axis, x labels and legend.
	chrome = 4

	monthLayout = "2006-01"
)

// Options sizes the rendered chart in terminal cells.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions fits a standard 80x24 terminal with room for help text.
func DefaultOptions() Options {
	return Options{Width: 80, Height: 20}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#D3D3D3"))
	lineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#008080"))
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	legendStyle = lipgloss.NewStyle().Faint(true)
)

// Title is the chart heading for symbol.
func Title(symbol string) string {
	return "Closing Prices Over Time for " + strings.ToUpper(symbol)
}

// Render draws the close prices of s as a line chart exactly opts.Height
// lines tall. The y axis is labelled with the high, middle and low close and
// the x axis with YYYY-MM dates.
func Render(s *Series, opts Options) string {
	width := max(opts.Width, minWidth)
	height := max(opts.Height, minHeight)

	var b strings.Builder

	b.WriteString(titleStyle.Render(Title(s.Symbol)))
	b.WriteString("\n")

	if len(s.Points) == 0 {
		b.WriteString("No data to plot")

		return b.String()
	}

	low, high := s.Range()
	labels := yLabels(low, high)
	labelWidth := 0

	for _, l := range labels {
		labelWidth = max(labelWidth, len(l))
	}

	plotWidth := width - labelWidth - 2
	plotHeight := height - chrome
	grid := plot(s, plotWidth, plotHeight, low, high)

	for r, row := range grid {
		label := ""

		switch r {
		case 0:
			label = labels[0]
		case plotHeight / 2:
			label = labels[1]
		case plotHeight - 1:
			label = labels[2]
		}

		b.WriteString(fmt.Sprintf("%*s ", labelWidth, label))
		b.WriteString(axisStyle.Render("│"))
		b.WriteString(lineStyle.Render(string(row)))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", labelWidth+1))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", plotWidth)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", labelWidth+2))
	b.WriteString(xLabels(s, plotWidth))
	b.WriteString("\n")
	b.WriteString(legendStyle.Render(fmt.Sprintf("%s Close Price   x: Date   y: Close Price (%d points)", lineStyle.Render("──"), len(s.Points))))

	return b.String()
}

func yLabels(low, high float64) []string {
	return []string{
		fmt.Sprintf("%.2f", high),
		fmt.Sprintf("%.2f", (high+low)/2),
		fmt.Sprintf("%.2f", low),
	}
}

// plot samples one point per column and joins consecutive samples with
// vertical strokes.
func plot(s *Series, width, height int, low, high float64) [][]rune {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	n := len(s.Points)
	prev := -1

	for x := range width {
		idx := 0
		if n > 1 && width > 1 {
			idx = int(math.Round(float64(x) * float64(n-1) / float64(width-1)))
		}

		r := rowFor(s.Points[idx].Close, low, high, height)

		if prev >= 0 && prev != r {
			from, to := min(prev, r), max(prev, r)
			for y := from + 1; y < to; y++ {
				grid[y][x] = '│'
			}
		}

		grid[r][x] = '•'
		prev = r
	}

	return grid
}

func rowFor(value, low, high float64, height int) int {
	if high == low {
		return height / 2
	}

	return int(math.Round((high - value) / (high - low) * float64(height-1)))
}

// xLabels places the first, middle and last month under the plot when they fit.
func xLabels(s *Series, width int) string {
	line := []rune(strings.Repeat(" ", width))
	put := func(pos int, label string) {
		pos = max(0, min(pos, width-len(label)))
		for i, r := range label {
			if pos+i < width {
				line[pos+i] = r
			}
		}
	}

	first := s.Points[0].Date.Format(monthLayout)
	last := s.Points[len(s.Points)-1].Date.Format(monthLayout)

	put(0, first)

	if width >= 3*len(monthLayout)+4 {
		mid := s.Points[len(s.Points)/2].Date.Format(monthLayout)
		put(width/2-len(mid)/2, mid)
	}

	if width >= 2*len(monthLayout)+2 {
		put(width-len(last), last)
	}

	return string(line)
}
