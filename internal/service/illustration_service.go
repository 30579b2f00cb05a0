package service

import (
	"os"
	"path/filepath"
	"strings"
)

// IllustrationService probes the static image directory for a picture of a
// word. Purely best effort: a missing image is normal and never an error.
type IllustrationService struct {
	imagesDir string
}

// NewIllustrationService creates an illustration lookup over a directory
func NewIllustrationService(imagesDir string) *IllustrationService {
	return &IllustrationService{imagesDir: imagesDir}
}

// Lookup returns the image path for a word when one exists
func (s *IllustrationService) Lookup(word string) (string, bool) {
	name := illustrationFilename(word)
	if name == "" {
		return "", false
	}
	path := filepath.Join(s.imagesDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

func illustrationFilename(word string) string {
	clean := strings.ToLower(strings.TrimSpace(word))
	if clean == "" {
		return ""
	}
	clean = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, clean)
	return clean + ".png"
}
