// Package audio fetches spoken word prompts from the Google Translate TTS
// endpoint and caches them on disk. Fetches are cancellable per player so a
// skipped word abandons its in-flight download.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const ttsEndpoint = "https://translate.google.com/translate_tts"

// fetchHandle identifies one in-flight download. The map stores handles
// rather than bare cancel funcs so a finished fetch only cleans up its own
// registration, never the one that replaced it.
type fetchHandle struct {
	cancel context.CancelFunc
}

// Service downloads and caches TTS audio for words
type Service struct {
	cacheDir string
	client   *http.Client
	endpoint string

	mu       sync.Mutex
	inFlight map[string]*fetchHandle // keyed by player ID
}

// NewService creates the audio service, ensuring the cache directory exists
func NewService(cacheDir string) (*Service, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio cache dir: %w", err)
	}
	return &Service{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: ttsEndpoint,
		inFlight: make(map[string]*fetchHandle),
	}, nil
}

// Filename returns the cache filename for a word
func Filename(word string) string {
	clean := strings.ToLower(strings.TrimSpace(word))
	clean = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, clean)
	return clean + ".mp3"
}

// Fetch downloads the spoken form of word for a player, returning the cached
// file path. A second fetch for the same player cancels the first.
func (s *Service) Fetch(ctx context.Context, playerID, word string) (string, error) {
	path := filepath.Join(s.cacheDir, Filename(word))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	handle := &fetchHandle{cancel: cancel}
	s.mu.Lock()
	if prev, ok := s.inFlight[playerID]; ok {
		prev.cancel()
	}
	s.inFlight[playerID] = handle
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		// A replaced fetch must not deregister its replacement
		if s.inFlight[playerID] == handle {
			delete(s.inFlight, playerID)
		}
		s.mu.Unlock()
		cancel()
	}()

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", "en")
	query.Set("q", word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tts returned status %d", resp.StatusCode)
	}

	// Write through a temp file so a cancelled download never leaves a
	// truncated entry in the cache
	tmp, err := os.CreateTemp(s.cacheDir, "tts-*.part")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download tts audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}

// CancelFor abandons any in-flight fetch for a player
func (s *Service) CancelFor(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.inFlight[playerID]; ok {
		handle.cancel()
		delete(s.inFlight, playerID)
	}
}
