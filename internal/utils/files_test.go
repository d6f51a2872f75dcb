package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Jumlah Peserta", "jumlah_peserta"},
		{"  Tahun ", "tahun"},
		{"rasio a/b", "rasio_ab"},
		{"", "column"},
	}
	for _, c := range cases {
		if got := FileSlug(c.in); got != c.want {
			t.Errorf("FileSlug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSafeWriteFileCreatesParent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "nested", "out.txt")
	if err := SafeWriteFile(p, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("unexpected content: %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	if !FileExists(p) || FileExists(dir) {
		t.Fatalf("FileExists mismatch")
	}
}
