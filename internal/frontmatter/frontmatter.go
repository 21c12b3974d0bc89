package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format identifies the front matter dialect of a document.
type Format int

const (
	// FormatNone means the document has no front matter block.
	FormatNone Format = iota
	// FormatYAML is a `---` fenced YAML block.
	FormatYAML
	// FormatTOML is a `+++` fenced TOML block.
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "none"
	}
}

// Delimiter returns the fence line for the format, or "" for FormatNone.
func (f Format) Delimiter() string {
	switch f {
	case FormatYAML:
		return "---"
	case FormatTOML:
		return "+++"
	default:
		return ""
	}
}

// Style captures formatting details needed for stable rewriting.
//
// It focuses on the fence dialect and newline shape and does not attempt to
// preserve original key formatting.
type Style struct {
	Format             Format
	Newline            string
	HasTrailingNewline bool
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrMissingClosingDelimiter indicates the document started with a front
// matter fence but did not contain a closing fence.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// ErrInvalidFrontMatter wraps decoder errors for a fenced block.
var ErrInvalidFrontMatter = errors.New("invalid front matter")

// Split separates front matter (`---` YAML or `+++` TOML) from the body.
//
// If the document does not start with a fence, had is false and body is the
// full input (minus a UTF-8 byte order mark). A closing fence may be the last
// line of the document without a trailing newline.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	style = detectStyle(content)
	nl := style.Newline

	for _, f := range []Format{FormatYAML, FormatTOML} {
		fence := f.Delimiter()
		open := []byte(fence + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		style.Format = f

		rest := content[len(open):]
		if bytes.HasPrefix(rest, open) {
			return []byte{}, rest[len(open):], true, style, nil
		}
		if bytes.Equal(rest, []byte(fence)) {
			return []byte{}, []byte{}, true, style, nil
		}

		closeSeq := []byte(nl + fence + nl)
		if idx := bytes.Index(rest, closeSeq); idx >= 0 {
			return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, style, nil
		}
		tail := []byte(nl + fence)
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(fence)], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}
	return nil, content, false, style, nil
}

// ParseYAML parses raw YAML front matter (without fences) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Document is a parsed content document.
type Document struct {
	Metadata map[string]any
	Body     []byte
	Style    Style
}

// Parse splits content and decodes its front matter. A document without a
// fenced block yields empty metadata and the full text as body.
func Parse(content []byte) (*Document, error) {
	fm, body, had, style, err := Split(content)
	if err != nil {
		return nil, err
	}
	if !had {
		return &Document{Metadata: map[string]any{}, Body: body, Style: style}, nil
	}

	var fields map[string]any
	switch style.Format {
	case FormatTOML:
		fields, err = ParseTOML(fm)
	default:
		fields, err = ParseYAML(fm)
	}
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrInvalidFrontMatter, style.Format, err)
	}
	return &Document{Metadata: fields, Body: body, Style: style}, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
