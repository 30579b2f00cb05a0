package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIllustrationLookup(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "horse.png"), []byte("png"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	svc := NewIllustrationService(dir)

	path, ok := svc.Lookup("Horse")
	if !ok {
		t.Fatal("lookup should find horse.png case-insensitively")
	}
	if filepath.Base(path) != "horse.png" {
		t.Errorf("path = %s", path)
	}

	if _, ok := svc.Lookup("zebra"); ok {
		t.Error("lookup should miss for a word with no image")
	}
	if _, ok := svc.Lookup("  "); ok {
		t.Error("lookup should miss for blank input")
	}
}

func TestIllustrationFilename(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"horse", "horse.png"},
		{"Ice Cream", "ice_cream.png"},
		{"  cat  ", "cat.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := illustrationFilename(tt.word); got != tt.want {
			t.Errorf("illustrationFilename(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}
