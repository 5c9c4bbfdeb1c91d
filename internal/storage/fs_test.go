package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempContent(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempContent(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("articles/hello.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("articles/hello.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestList_FiltersByExtension(t *testing.T) {
	s := tempContent(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("sub/b.md", []byte("b"))
	_ = s.Write("data/daily_poker.json", []byte("{}"))

	items, err := s.List("", ".md")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}

	items, err = s.List("data", ".json")
	if err != nil {
		t.Fatalf("List json: %v", err)
	}
	if len(items) != 1 || items[0].Path != "data/daily_poker.json" {
		t.Errorf("json items = %v", items)
	}
}

func TestList_ChecksumChangesWithContent(t *testing.T) {
	s := tempContent(t)
	_ = s.Write("a.md", []byte("one"))
	before, _ := s.List("", ".md")
	_ = s.Write("a.md", []byte("two"))
	after, _ := s.List("", ".md")
	if before[0].Checksum == after[0].Checksum {
		t.Error("checksum did not change with content")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempContent(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempContent(t)
	_ = s.Write("data/ai-news.json", []byte(`[]`))
	if err := s.Write("data/ai-news.json", []byte(`[{"title":"x"}]`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("data/ai-news.json")
	if string(got) != `[{"title":"x"}]` {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, "data", ".raido-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/raido-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "raido-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
