// Package objectkey builds collision-free storage keys for uploaded media.
//
// A key has the form folder/<unix-nano>-<random-suffix>-<sanitized-name>.
// The timestamp plus random suffix guarantees that two uploads of the same
// filename never collide, so an upload can never overwrite an existing asset.
package objectkey

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns a unique storage key for filename under folder
func New(folder, filename string) string {
	suffix := uuid.New().String()[:8]
	return path.Join(folder, fmt.Sprintf("%d-%s-%s", time.Now().UnixNano(), suffix, Sanitize(filename)))
}

// Sanitize strips path separators and shell-hostile characters from a
// client-supplied filename, keeping the extension intact. An empty or fully
// stripped name becomes "file".
func Sanitize(filename string) string {
	// Drop any client-side directory components
	filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "file"
	}
	return out
}
