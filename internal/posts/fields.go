package posts

import (
	"fmt"
	"strings"
	"time"
)

// Front matter keys accepted for each Post field, in priority order.
var (
	dateKeys         = []string{"date", "pubDate", "publishDate", "published_at"}
	dateModifiedKeys = []string{"dateModified", "date_modified", "lastmod", "updated", "updatedDate", "modified"}
	excerptKeys      = []string{"excerpt", "description", "summary"}
	imageKeys        = []string{"image", "cover", "heroImage"}
	takeawayKeys     = []string{"keyTakeaways", "key_takeaways"}
	howtoKeys        = []string{"howto", "howTo"}
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// first returns the value of the first key present in m.
func first(m map[string]any, keys []string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case fmt.Stringer:
		return strings.TrimSpace(s.String()), true
	case int, int64, float64, bool:
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}

// parseDate accepts time.Time values and the common textual layouts.
// Values without a zone are interpreted as UTC.
func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// stringList accepts a sequence of scalars or a comma-separated string.
// Blank entries are dropped; order is preserved and duplicates removed.
func stringList(v any) ([]string, error) {
	var raw []string
	switch vv := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		raw = strings.Split(vv, ",")
	case []string:
		raw = vv
	case []any:
		for i, item := range vv {
			s, ok := asString(item)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected a string, got %T", i, item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// stringMap normalizes a decoded mapping to map[string]any.
func stringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func stringField(m map[string]any, keys ...string) string {
	if v, _, ok := first(m, keys); ok {
		if s, ok := asString(v); ok {
			return s
		}
	}
	return ""
}

func parseAuthor(v any) (string, error) {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	if m, ok := stringMap(v); ok {
		return stringField(m, "name"), nil
	}
	return "", fmt.Errorf("author: expected a string or a mapping with a name, got %T", v)
}

func parseFAQ(v any) ([]FAQ, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("faq: expected a list, got %T", v)
	}
	out := make([]FAQ, 0, len(items))
	for i, item := range items {
		m, ok := stringMap(item)
		if !ok {
			return nil, fmt.Errorf("faq[%d]: expected a mapping, got %T", i, item)
		}
		q := stringField(m, "question", "q")
		a := stringField(m, "answer", "a")
		if q == "" || a == "" {
			return nil, fmt.Errorf("faq[%d]: question and answer are required", i)
		}
		out = append(out, FAQ{Question: q, Answer: a})
	}
	return out, nil
}

func parseHowTo(v any) (*HowTo, error) {
	m, ok := stringMap(v)
	if !ok {
		return nil, fmt.Errorf("howto: expected a mapping, got %T", v)
	}
	h := &HowTo{
		Name:        stringField(m, "name"),
		Description: stringField(m, "description"),
		TotalTime:   stringField(m, "totalTime", "total_time"),
		Steps:       []HowToStep{},
	}
	rawSteps, _ := m["steps"].([]any)
	for i, item := range rawSteps {
		if s, ok := item.(string); ok {
			h.Steps = append(h.Steps, HowToStep{Text: strings.TrimSpace(s)})
			continue
		}
		sm, ok := stringMap(item)
		if !ok {
			return nil, fmt.Errorf("howto.steps[%d]: expected a string or mapping, got %T", i, item)
		}
		step := HowToStep{
			Name: stringField(sm, "name"),
			Text: stringField(sm, "text"),
			URL:  stringField(sm, "url"),
		}
		if step.Text == "" {
			step.Text = step.Name
		}
		if step.Text == "" {
			return nil, fmt.Errorf("howto.steps[%d]: text is required", i)
		}
		h.Steps = append(h.Steps, step)
	}
	if len(h.Steps) == 0 {
		return nil, fmt.Errorf("howto: at least one step is required")
	}
	return h, nil
}
