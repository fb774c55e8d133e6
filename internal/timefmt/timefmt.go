package timefmt

import (
	"strings"
	"time"
)

// DefaultPattern is used when the configured time format is empty.
const DefaultPattern = "YYYY-MM-DD HH:mm:ss"

// tokens maps Moment-style format tokens to Go reference-layout fragments.
/// Order matters: longer tokens must be matched before their prefixes
// (YYYY before YY, MM before M), so lookup walks this slice, not a map.
var tokens = []struct {
	moment string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"DD", "02"},
	{"D", "2"},
	{"HH", "15"},
	// Go has no unpadded 24-hour verb, so H renders padded like HH.
	{"H", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"SSS", "000"},
	{"A", "PM"},
	{"a", "pm"},
	{"ZZ", "-0700"},
	{"Z", "-07:00"},
}

// Layout converts a Moment-style pattern to a Go time layout.
// An empty pattern converts to the layout for DefaultPattern.
// Text wrapped in square brackets is emitted literally.
// Characters that match no token pass through unchanged.
func Layout(pattern string) string {
	if pattern == "" {
		pattern = DefaultPattern
	}

	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			end := strings.IndexByte(pattern[i:], ']')
			if end < 0 {
				b.WriteString(pattern[i+1:])
				break
			}
			b.WriteString(pattern[i+1 : i+end])
			i += end + 1
			continue
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(pattern[i:], tok.moment) {
				b.WriteString(tok.layout)
				i += len(tok.moment)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

// Format renders t using a Moment-style pattern.
func Format(t time.Time, pattern string) string {
	return t.Format(Layout(pattern))
}
