package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"seqsort/internal/logging"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "indexer")
	logger.Info("indexed source", logging.Int("files", 12), logging.String("root", "/media/card"))

	line := buf.String()
	if !strings.Contains(line, "INFO indexer: indexed source") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "files=12") || !strings.Contains(line, "root=/media/card") {
		t.Fatalf("missing attrs in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("duplicate frame", logging.String("path", "/a dir/G0000001.JPG"))
	if !strings.Contains(buf.String(), `path="/a dir/G0000001.JPG"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info line leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello", logging.Int("n", 1))
	out := buf.String()
	for _, want := range []string{`"msg":"hello"`, `"level":"info"`, `"n":1`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %q", want, out)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
