package render

import (
	"regexp"
	"strings"
	"time"
)

// placeholderRe matches {{ name }} markers, tolerant of whitespace inside
// the braces.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Materializer turns template objects into rendered events with dates spread
// across a trailing calendar window. "Today" is taken in UTC; Now is
// injectable for deterministic tests.
type Materializer struct {
	WindowDays int
	Now        func() time.Time
}

// NewMaterializer creates a materializer over a window of windowDays.
func NewMaterializer(windowDays int) *Materializer {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Materializer{WindowDays: windowDays, Now: time.Now}
}

// Render materializes the whole collection in template order. Each rendered
// event has the same shape as its template; only string leaves containing
// recognized placeholders change.
func (m *Materializer) Render(templates []map[string]any) []map[string]any {
	if len(templates) == 0 {
		return nil
	}
	now := m.Now
	if now == nil {
		now = time.Now
	}
	today := now().UTC()
	offsets := Distribute(len(templates), m.WindowDays)
	out := make([]map[string]any, len(templates))
	for i, tpl := range templates {
		vars := DateVars(today, offsets[i])
		out[i] = Substitute(tpl, vars).(map[string]any)
	}
	return out
}

// Substitute walks a decoded JSON value and replaces {{ name }} markers in
// string leaves with their values from vars. Maps and slices keep their
// structure exactly; non-string scalars pass through unchanged; markers with
// unknown names stay literal.
func Substitute(v any, vars map[string]string) any {
	switch t := v.(type) {
	case string:
		return substituteString(t, vars)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Substitute(val, vars)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Substitute(val, vars)
		}
		return out
	default:
		return v
	}
}

func substituteString(s string, vars map[string]string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(marker string) string {
		name := placeholderRe.FindStringSubmatch(marker)[1]
		if val, ok := vars[name]; ok {
			return val
		}
		return marker
	})
}
