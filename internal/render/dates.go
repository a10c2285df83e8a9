package render

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultWindowDays is the trailing window events are spread across.
const DefaultWindowDays = 7

// DateVars builds the substitution variables for the calendar date offset
// days before today.
func DateVars(today time.Time, offset int) map[string]string {
	d := today.AddDate(0, 0, -offset)
	return map[string]string{
		"date":        d.Format("2006-01-02"),
		"date_us":     d.Format("01/02/2006"),
		"date_eu":     d.Format("02/01/2006"),
		"date_short":  d.Format("20060102"),
		"syslog_date": syslogDate(d),
		"day_offset":  strconv.Itoa(offset),
	}
}

// syslogDate renders BSD syslog style "Mon  D": single-digit days are
// space-padded ("Jan  6"), not zero-padded ("Jan 06").
func syslogDate(d time.Time) string {
	return fmt.Sprintf("%s %2d", d.Format("Jan"), d.Day())
}

// Distribute assigns each of n event indices a day offset inside a trailing
// window of up to window days. Offsets are non-decreasing with index, so the
// first templates land on today (offset 0) and later ones on older days.
// When n does not divide evenly the oldest offsets take the extra events:
// 15 events over 7 days gives bucket sizes 2,2,2,2,2,2,3. For n <= window
// every event gets its own offset 0..n-1.
func Distribute(n, window int) []int {
	if n <= 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultWindowDays
	}
	w := window
	if n < w {
		w = n
	}
	base, rem := n/w, n%w
	offsets := make([]int, 0, n)
	for d := 0; d < w; d++ {
		size := base
		if d >= w-rem {
			size++
		}
		for j := 0; j < size; j++ {
			offsets = append(offsets, d)
		}
	}
	return offsets
}
