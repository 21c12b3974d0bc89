package ogimage

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"text/template"
)

var svgTemplate = template.Must(template.New("card").Funcs(template.FuncMap{
	"hex": hexColor,
	"esc": escapeXML,
	"px":  func(f float64) string { return fmt.Sprintf("%g", f) },
	"weight": func(bold bool) string {
		if bold {
			return "700"
		}
		return "400"
	},
}).Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
  <rect width="{{.Width}}" height="{{.Height}}" fill="{{hex .Background}}"/>
{{- range .Rects}}
  <rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" fill="{{hex .Color}}"/>
{{- end}}
{{- range .Texts}}
  <text x="{{.X}}" y="{{.Y}}" font-family="Go, Helvetica, Arial, sans-serif" font-size="{{px .Size}}" font-weight="{{weight .Bold}}" fill="{{hex .Color}}">{{esc .Value}}</text>
{{- end}}
</svg>
`))

// WriteSVG renders the layout as an SVG document.
func WriteSVG(w io.Writer, l Layout) error {
	return svgTemplate.Execute(w, l)
}

// SVG renders the layout as an SVG document.
func SVG(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escapeXML(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
