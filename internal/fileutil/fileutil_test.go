package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"seqsort/internal/fileutil"
)

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "G0000001.JPG")
	dst := filepath.Join(dir, "moved", "G0000001.JPG")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.EnsureDir(filepath.Dir(dst)); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if fileutil.Exists(src) {
		t.Fatal("source still present after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Fatalf("destination content = %q, err %v", data, err)
	}
}

func TestMoveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := fileutil.MoveFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "SEQ001", "JPG")
	if err := fileutil.EnsureDir(dir); err != nil {
		t.Fatalf("first EnsureDir: %v", err)
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		t.Fatalf("second EnsureDir: %v", err)
	}
	if !fileutil.DirExists(dir) {
		t.Fatal("directory missing")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in")
	dst := filepath.Join(dir, "out")
	if err := os.WriteFile(src, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "abc" {
		t.Fatalf("copy content = %q, err %v", data, err)
	}
}
