package billing

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a display string to a number. Thousands
// separators (ASCII and full-width comma) are stripped first. The
// second return distinguishes "absent" from an explicit zero: empty or
// non-numeric text is absent and must not be coerced to 0 by callers
// that care about the difference.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "，", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// round2 rounds to two decimal places, the precision every monetary
// result is reported at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
