package collection

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/collectionbuilder/internal/frontmatter"
)

// Fingerprint hashes canonical front-matter (sorted keys, LF newlines, no
// trailing newline, fingerprint key excluded) together with the raw body.
func Fingerprint(fields map[string]any, body string) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		forHash[k] = v
	}

	fm := ""
	if len(forHash) > 0 {
		serialized, err := frontmatter.SerializeYAML(forHash)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, body), nil
}
