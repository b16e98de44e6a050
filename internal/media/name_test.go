package media_test

import (
	"testing"

	"seqsort/internal/media"
)

func TestParseBasename(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		ok     bool
		key    int
		digits string
		prefix string
		ext    string
	}{
		{"gopro jpg", "G0000123.JPG", true, 123, "0000123", "G", "JPG"},
		{"gopro raw lowercase", "g0000123.gpr", true, 123, "0000123", "g", "GPR"},
		{"no leading zeros", "P42.jpg", true, 42, "42", "P", "JPG"},
		{"foreign but parseable", "X00012.TXT", true, 12, "00012", "X", "TXT"},
		{"zero frame", "G0.JPG", true, 0, "0", "G", "JPG"},
		{"hidden file", ".DS_Store", false, 0, "", "", ""},
		{"hidden pair", ".G0000123.JPG", false, 0, "", "", ""},
		{"non-numeric stem", "README.md", false, 0, "", "", ""},
		{"mixed digits", "G00a12.JPG", false, 0, "", "", ""},
		{"no extension", "G0000123", false, 0, "", "", ""},
		{"trailing dot", "G0000123.", false, 0, "", "", ""},
		{"prefix only", "G.JPG", false, 0, "", "", ""},
		{"empty", "", false, 0, "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file, ok := media.ParseBasename(tc.in)
			if ok != tc.ok {
				t.Fatalf("ParseBasename(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if !ok {
				return
			}
			if file.Key != tc.key {
				t.Errorf("key = %d, want %d", file.Key, tc.key)
			}
			if file.Digits != tc.digits {
				t.Errorf("digits = %q, want %q", file.Digits, tc.digits)
			}
			if file.Prefix != tc.prefix {
				t.Errorf("prefix = %q, want %q", file.Prefix, tc.prefix)
			}
			if file.Extension != tc.ext {
				t.Errorf("extension = %q, want %q", file.Extension, tc.ext)
			}
		})
	}
}

func TestPadWidthFollowsLiteralDigits(t *testing.T) {
	file, ok := media.ParseBasename("G0000005.JPG")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if file.PadWidth() != 7 {
		t.Fatalf("pad width = %d, want 7", file.PadWidth())
	}
}

func TestNormalizeExtension(t *testing.T) {
	if got := media.NormalizeExtension(".jpg"); got != "JPG" {
		t.Fatalf("NormalizeExtension(.jpg) = %q", got)
	}
	if got := media.NormalizeExtension("gpr"); got != "GPR" {
		t.Fatalf("NormalizeExtension(gpr) = %q", got)
	}
}
