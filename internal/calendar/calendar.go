// Package calendar computes the "life in weeks" grid model: which week cells
// are in the past, which one is current, and the summary stats shown under
// the grid.
package calendar

import (
	"fmt"
	"time"
)

// WeeksPerRow is the number of week cells per grid row (one row per year).
const WeeksPerRow = 52

// Life is the computed state of a life calendar at a point in time.
type Life struct {
	Birthday      time.Time
	LifespanYears int

	// WeeksLived is floor(days since birthday / 7), never negative.
	WeeksLived int
	// CurrentWeek is the index of the week being lived right now.
	// It equals WeeksLived and may lie outside the grid when the lifespan
	// has been exceeded.
	CurrentWeek int
	// TotalWeeks is LifespanYears * WeeksPerRow.
	TotalWeeks int
}

// At computes the life state as of the given date.
func At(birthday time.Time, lifespanYears int, now time.Time) (Life, error) {
	if lifespanYears < 1 {
		return Life{}, fmt.Errorf("lifespan must be >= 1 year, got %d", lifespanYears)
	}

	days := daysBetween(birthday, now)
	lived := days / 7
	if lived < 0 {
		lived = 0
	}

	return Life{
		Birthday:      birthday,
		LifespanYears: lifespanYears,
		WeeksLived:    lived,
		CurrentWeek:   lived,
		TotalWeeks:    lifespanYears * WeeksPerRow,
	}, nil
}

// daysBetween counts whole calendar days from a to b, ignoring the time of
// day so DST shifts cannot skew the week count.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}

// Rows returns the number of grid rows (one per year of lifespan).
func (l Life) Rows() int { return l.LifespanYears }

// Remaining returns the number of week cells not yet lived, clamped to >= 0.
func (l Life) Remaining() int {
	r := l.TotalWeeks - l.WeeksLived
	if r < 0 {
		return 0
	}
	return r
}

// Percent returns the share of the lifespan already lived, in percent.
// It can exceed 100 when the lifespan has been outlived.
func (l Life) Percent() float64 {
	if l.TotalWeeks == 0 {
		return 0
	}
	return float64(l.WeeksLived) / float64(l.TotalWeeks) * 100
}

// CellState classifies a single week cell.
type CellState int

const (
	CellFuture CellState = iota
	CellPast
	CellCurrent
)

// Cell returns the state of the week cell at the given grid index
// (row-major, row*WeeksPerRow+col).
func (l Life) Cell(idx int) CellState {
	switch {
	case idx < l.WeeksLived:
		return CellPast
	case idx == l.CurrentWeek:
		return CellCurrent
	default:
		return CellFuture
	}
}

// Stats renders the one-line summary shown under the grid, e.g.
// "1,113 weeks lived  ·  3,567 remaining  ·  23.8% of a 90-year life".
func (l Life) Stats() string {
	return fmt.Sprintf("%s weeks lived  ·  %s remaining  ·  %.1f%% of a %d-year life",
		groupThousands(l.WeeksLived), groupThousands(l.Remaining()), l.Percent(), l.LifespanYears)
}

// groupThousands formats n with comma thousands separators.
func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	pre := len(s) % 3
	if pre > 0 {
		out = append(out, s[:pre]...)
	}
	for i := pre; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
