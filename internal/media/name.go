package media

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// File describes one classified camera file.
type File struct {
	// Key is the integer frame identifier parsed from the digit field.
	Key int
	// Digits is the literal digit field from the basename, leading zeros
	// preserved. The encoder derives its zero-pad width from this.
	Digits string
	// Prefix is the single role character ahead of the digits, e.g. "G".
	Prefix string
	// Extension is the uppercased extension without the separator.
	Extension string
	// Path is the absolute source path.
	Path string
	// ModTime is the file modification time, used by the mtime grouping
	// strategy.
	ModTime time.Time
}

// PadWidth returns the zero-pad width of the digit field.
func (f File) PadWidth() int {
	return len(f.Digits)
}

// ParseBasename splits a camera basename of the form
// <1-char-prefix><digits>.<extension> into its parts. It reports false for
// hidden files and for names whose digit field does not parse, so foreign
// files mixed into a source tree are tolerated rather than fatal.
func ParseBasename(name string) (File, bool) {
	if name == "" || strings.HasPrefix(name, ".") {
		return File{}, false
	}

	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return File{}, false
	}
	stem, ext := name[:dot], name[dot+1:]

	if len(stem) < 2 {
		return File{}, false
	}
	prefix, digits := stem[:1], stem[1:]

	key, ok := parseKey(digits)
	if !ok {
		return File{}, false
	}

	return File{
		Key:       key,
		Digits:    digits,
		Prefix:    prefix,
		Extension: NormalizeExtension(ext),
	}, true
}

// NormalizeExtension uppercases an extension and strips a leading separator.
func NormalizeExtension(ext string) string {
	return upper.String(strings.TrimPrefix(ext, "."))
}

// parseKey parses a decimal digit field as a non-negative integer. Leading
// zeros are stripped from the value but remain visible in File.Digits.
func parseKey(digits string) (int, bool) {
	if digits == "" {
		return 0, false
	}
	key := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		key = key*10 + int(c-'0')
	}
	return key, true
}
