package content

import (
	"strconv"
	"strings"
)

// HeadingID lowercases text, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
//
//	HeadingID("Hello, World! 2.0") == "hello-world-2-0"
func HeadingID(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	pendingDash := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteByte(c)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// IDRegistry hands out unique anchor ids within one document. The first
// heading keeps its id; later collisions get -2, -3, ... in document order.
type IDRegistry struct {
	seen map[string]int
}

// NewIDRegistry returns an empty registry.
func NewIDRegistry() *IDRegistry {
	return &IDRegistry{seen: make(map[string]int)}
}

// Assign returns a unique id for heading text.
func (r *IDRegistry) Assign(text string) string {
	base := HeadingID(text)
	if base == "" {
		base = "section"
	}
	if _, taken := r.seen[base]; !taken {
		r.seen[base] = 1
		return base
	}
	for n := r.seen[base] + 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := r.seen[candidate]; taken {
			continue
		}
		r.seen[base] = n
		r.seen[candidate] = 1
		return candidate
	}
}
