package frontmatter

import (
	"github.com/pelletier/go-toml/v2"
)

// ParseTOML parses raw TOML front matter (without +++ fences) into a map.
//
// Local dates and times are converted to their RFC 3339 text so that TOML and
// YAML documents expose the same value shapes.
func ParseTOML(frontmatter []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(frontmatter) == 0 {
		return fields, nil
	}
	if err := toml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		fields[k] = normalizeTOML(v)
	}
	return fields, nil
}

func normalizeTOML(v any) any {
	switch vv := v.(type) {
	case toml.LocalDate:
		return vv.String()
	case toml.LocalDateTime:
		return vv.String()
	case toml.LocalTime:
		return vv.String()
	case map[string]any:
		for k, item := range vv {
			vv[k] = normalizeTOML(item)
		}
		return vv
	case []any:
		for i, item := range vv {
			vv[i] = normalizeTOML(item)
		}
		return vv
	default:
		return v
	}
}
