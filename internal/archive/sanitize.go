package archive

import (
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
)

const (
	placeholder = '_'

	// maxNameBytes leaves room for a suffix inside a 255-byte path segment.
	maxNameBytes = 200

	reservedChars = `\/:*?"<>|`
)

// Sanitize turns a user-supplied title or name into a single, safe path
// segment. Path separators, Windows-reserved punctuation and control
// characters each become '_'; letters of any script and everything else pass
// through. The result is never empty.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isReserved(r) {
			b.WriteRune(placeholder)
			continue
		}
		b.WriteRune(r)
	}

	out := truncate(b.String(), maxNameBytes)
	if out == "" {
		return string(placeholder)
	}
	return out
}

// DocumentFileName is the archive file name for a document called raw.
func DocumentFileName(raw string) string {
	return Sanitize(raw) + common.DocumentExt
}

// StoredUploadName prefixes the sanitized base name of an uploaded file with
// the upload time in Unix milliseconds.
func StoredUploadName(now time.Time, original string) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + Sanitize(base)
}

func isReserved(r rune) bool {
	return strings.ContainsRune(reservedChars, r) || unicode.IsControl(r)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
