package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// gutter is the width of the y label column, including the axis line.
const gutter = 8

const minPlotWidth = 4

var (
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B8D"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4B4D0")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B8D")).Italic(true)
	panelOrder  = []Axis{AxisTemp, AxisHum}
	timeLayout  = "02.01. 15:04"
	emptyMarker = "No series plotted"
)

// View renders the last redrawn frame width columns wide: one panel per axis
// in use, a time axis and a legend.
func (t *Terminal) View(width int) string {
	t.mu.Lock()
	frame := append([]*series(nil), t.frame...)
	height := t.height
	loc := t.loc
	t.mu.Unlock()

	if len(frame) == 0 {
		return mutedStyle.Render(emptyMarker)
	}

	plotWidth := width - gutter
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}

	tmin, tmax, ok := timeBounds(frame)
	var parts []string
	if ok {
		for _, axis := range panelOrder {
			var members []int
			for i, s := range frame {
				if s.cfg.Axis == axis || (axis == AxisTemp && s.cfg.Axis != AxisHum) {
					members = append(members, i)
				}
			}
			if len(members) == 0 {
				continue
			}
			parts = append(parts, renderPanel(axis, frame, members, plotWidth, height, tmin, tmax))
		}
		parts = append(parts, renderTimeAxis(plotWidth, tmin, tmax, loc))
	} else {
		parts = append(parts, mutedStyle.Render("No data in range"))
	}
	parts = append(parts, renderLegend(frame))

	return strings.Join(parts, "\n")
}

func renderPanel(axis Axis, frame []*series, members []int, plotWidth, height int, tmin, tmax int64) string {
	lo, hi := valueBounds(frame, members)
	c := newCanvas(plotWidth, height)

	for _, idx := range members {
		prevX, prevY := -1, -1
		for _, p := range frame[idx].cfg.Points {
			if p.Value == nil || math.IsNaN(*p.Value) {
				prevX = -1
				continue
			}
			x := scaleTime(p.Timestamp, tmin, tmax, c.dotWidth())
			y := clampInt(int(math.Round(normalizeValue(*p.Value, lo, hi)*float64(c.dotHeight()-1))), c.dotHeight()-1)
			if prevX >= 0 {
				c.line(prevX, prevY, x, y, idx)
			} else {
				c.set(x, y, idx)
			}
			prevX, prevY = x, y
		}
	}

	unit := frame[members[0]].cfg.Unit
	title := string(axis)
	if unit != "" {
		title += " (" + unit + ")"
	}

	lines := []string{strings.Repeat(" ", gutter) + titleStyle.Render(title)}
	for r := 0; r < c.rows; r++ {
		label := ""
		switch r {
		case 0:
			label = formatTick(hi)
		case c.rows - 1:
			label = formatTick(lo)
		}

		var b strings.Builder
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s ┤", gutter-2, label)))
		for col := 0; col < c.cols; col++ {
			cell := string(c.cells[r][col])
			if owner := c.owner[r][col]; owner >= 0 {
				cell = lipgloss.NewStyle().Foreground(frame[owner].color).Render(cell)
			}
			b.WriteString(cell)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func renderTimeAxis(plotWidth int, tmin, tmax int64, loc *time.Location) string {
	start := time.UnixMilli(tmin).In(loc).Format(timeLayout)
	end := time.UnixMilli(tmax).In(loc).Format(timeLayout)

	line := strings.Repeat(" ", gutter-1) + "└" + strings.Repeat("─", plotWidth)
	labels := start
	if gap := plotWidth - len(start) - len(end); gap > 0 && tmax != tmin {
		labels = start + strings.Repeat(" ", gap) + end
	}
	return axisStyle.Render(line) + "\n" + strings.Repeat(" ", gutter) + axisStyle.Render(labels)
}

func renderLegend(frame []*series) string {
	items := make([]string, 0, len(frame))
	for _, s := range frame {
		name := s.cfg.Label
		if name == "" {
			name = s.cfg.Name
		}
		item := lipgloss.NewStyle().Foreground(s.color).Render("━━") + " " + name
		if last, ok := lastValue(s); ok {
			item += " " + formatTick(last)
			if s.cfg.Unit != "" {
				item += " " + s.cfg.Unit
			}
		}
		items = append(items, item)
	}
	return strings.Repeat(" ", gutter) + strings.Join(items, "   ")
}

// timeBounds returns the time span of every non-gap point in frame.
func timeBounds(frame []*series) (tmin, tmax int64, ok bool) {
	for _, s := range frame {
		for _, p := range s.cfg.Points {
			if p.Value == nil {
				continue
			}
			if !ok || p.Timestamp < tmin {
				tmin = p.Timestamp
			}
			if !ok || p.Timestamp > tmax {
				tmax = p.Timestamp
			}
			ok = true
		}
	}
	return tmin, tmax, ok
}

// valueBounds returns the value range of the member series, padded when flat.
func valueBounds(frame []*series, members []int) (lo, hi float64) {
	first := true
	for _, idx := range members {
		for _, p := range frame[idx].cfg.Points {
			if p.Value == nil || math.IsNaN(*p.Value) {
				continue
			}
			v := *p.Value
			if first || v < lo {
				lo = v
			}
			if first || v > hi {
				hi = v
			}
			first = false
		}
	}
	if first {
		return 0, 1
	}
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

// scaleTime maps ts onto [0, dots). A zero-length span lands on the right edge.
func scaleTime(ts, tmin, tmax int64, dots int) int {
	if tmax <= tmin {
		return dots - 1
	}
	frac := float64(ts-tmin) / float64(tmax-tmin)
	return clampInt(int(math.Round(frac*float64(dots-1))), dots-1)
}

func lastValue(s *series) (float64, bool) {
	for i := len(s.cfg.Points) - 1; i >= 0; i-- {
		if v := s.cfg.Points[i].Value; v != nil {
			return *v, true
		}
	}
	return 0, false
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
