package billing

import (
	"fmt"
	"regexp"
	"strings"
)

// Billing-cycle cells come in two shapes, tried in order:
//
//	[20240701]2024-07-01:2024-07-31  -> dashed date wins, "2024-07"
//	[20240805]                       -> bracketed digits, "2024-08"
var (
	dashedDatePattern  = regexp.MustCompile(`(\d{4}-\d{2})-\d{2}`)
	bracketDatePattern = regexp.MustCompile(`\[(\d{4})(\d{2})\d{2}\]`)
)

// ExtractMonth pulls a YYYY-MM month key out of a billing-cycle cell.
// The second return is false when neither pattern matches; such rows
// are excluded from monthly grouping by the caller.
func ExtractMonth(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", false
	}
	if m := dashedDatePattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := bracketDatePattern.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s", m[1], m[2]), true
	}
	return "", false
}
