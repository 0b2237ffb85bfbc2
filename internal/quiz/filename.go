package quiz

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"quizgen/internal/extract"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces an uploaded file name to a flat ASCII name that is
// safe to join onto a directory: accents are decomposed and dropped, path
// separators and whitespace become underscores, anything outside
// [A-Za-z0-9_.-] is removed and leading or trailing dots and underscores are trimmed.
// The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// uploadExt returns the lowercased extension of the name the client sent.
func uploadExt(name string) string {
	return extract.NormalizeExt(filepath.Ext(name))
}

// storedName returns the sanitized name an upload is saved under, keeping ext
// even when sanitizing removed it, and the stem artifacts are named after.
func storedName(raw, ext string) (name, stem string) {
	name = SecureFilename(raw)
	if name == "" {
		name = "upload"
	}
	if uploadExt(name) != ext {
		name += "." + ext
	}
	return name, strings.TrimSuffix(name, filepath.Ext(name))
}
