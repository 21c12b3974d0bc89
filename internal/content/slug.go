package content

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var urlSafeSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsURLSafe reports whether slug is lowercase ASCII words joined by single hyphens.
func IsURLSafe(slug string) bool {
	return urlSafeSlug.MatchString(slug)
}

// Slugify folds accents to ASCII and applies the HeadingID rules:
//
//	Slugify("Café Crème") == "cafe-creme"
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return HeadingID(folded)
}

// indexNames mark bundle documents whose slug comes from their directory.
var indexNames = map[string]bool{"index": true, "_index": true}

// SlugFromPath derives a slug from a slash-separated path relative to the
// content root. "hello-world.md" and "hello-world/index.md" both yield
// "hello-world".
func SlugFromPath(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	base := path.Base(rel)
	name := strings.TrimSuffix(base, path.Ext(base))
	if indexNames[strings.ToLower(name)] {
		dir := path.Dir(rel)
		if dir == "." || dir == "/" {
			return Slugify(name)
		}
		name = path.Base(dir)
	}
	return Slugify(name)
}
