package posts

import (
	"errors"
	"strings"

	"git.home.luguber.info/inful/folio/internal/frontmatter"
	"github.com/inful/mdfp"
)

// ComputeFingerprint hashes the canonical front matter and the body of a
// document. The fingerprint field itself is excluded; YAML and TOML documents
// with equal metadata fingerprint identically.
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		forHash[k] = v
	}

	canonical := ""
	if len(forHash) > 0 {
		serialized, err := frontmatter.SerializeYAML(forHash, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		canonical = strings.TrimSuffix(string(serialized), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(canonical, string(body)), nil
}
