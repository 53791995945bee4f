package sequencer

import "strings"

// ParsePattern splits a pattern string into bars of symbolic tokens.
// Bars are separated by '|', tokens within a bar by runs of
// whitespace. A segment with no tokens becomes an empty Bar so that
// bar positions stay aligned with other data indexed by bar number.
// Token content is not validated here; meaning is assigned by the
// consumer per instrument kind.
func ParsePattern(pattern string) []Bar {
	segments := strings.Split(pattern, "|")
	bars := make([]Bar, 0, len(segments))
	for _, seg := range segments {
		tokens := strings.Fields(strings.TrimSpace(seg))
		if len(tokens) == 0 {
			bars = append(bars, nil)
			continue
		}
		bars = append(bars, Bar(tokens))
	}
	return bars
}
