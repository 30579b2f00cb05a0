package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"spellsprint/internal/models"
)

// DictionaryService queries a public dictionary API for word existence and
// enrichment. It implements the misspelling generator's word checker. All
// lookups are best effort: gameplay never blocks on dictionary failures.
type DictionaryService struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	cache map[string]*lookupResult
}

type lookupResult struct {
	exists bool
	meta   models.WordMeta
}

// dictionaryEntry mirrors the response shape of dictionaryapi.dev
type dictionaryEntry struct {
	Word     string `json:"word"`
	Origin   string `json:"origin"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// NewDictionaryService creates a dictionary client
func NewDictionaryService(baseURL string) *DictionaryService {
	return &DictionaryService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   make(map[string]*lookupResult),
	}
}

// Exists reports whether word is a real dictionary word. Lookup failures
// report false: a candidate misspelling is only rejected on a confirmed hit.
func (s *DictionaryService) Exists(word string) bool {
	res, err := s.lookup(context.Background(), word)
	if err != nil {
		return false
	}
	return res.exists
}

// Lookup returns enrichment metadata for a word. When the dictionary has no
// example sentence a neutral placeholder is filled in.
func (s *DictionaryService) Lookup(ctx context.Context, word string) models.WordMeta {
	res, err := s.lookup(ctx, word)
	if err != nil || !res.exists {
		return models.WordMeta{Example: fallbackSentence(word)}
	}

	meta := res.meta
	if meta.Example == "" {
		meta.Example = fallbackSentence(word)
	}
	return meta
}

func (s *DictionaryService) lookup(ctx context.Context, word string) (*lookupResult, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return &lookupResult{}, nil
	}

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary request failed: %w", err)
	}
	defer resp.Body.Close()

	res := &lookupResult{}
	switch resp.StatusCode {
	case http.StatusOK:
		var entries []dictionaryEntry
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to decode dictionary response: %w", err)
		}
		res.exists = len(entries) > 0
		if res.exists {
			res.meta = metaFromEntry(entries[0])
		}
	case http.StatusNotFound:
		// exists stays false
	default:
		return nil, fmt.Errorf("dictionary returned status %d", resp.StatusCode)
	}

	s.mu.Lock()
	s.cache[key] = res
	s.mu.Unlock()
	return res, nil
}

func metaFromEntry(entry dictionaryEntry) models.WordMeta {
	meta := models.WordMeta{Origin: entry.Origin}
	for _, meaning := range entry.Meanings {
		if meta.PartOfSpeech == "" {
			meta.PartOfSpeech = meaning.PartOfSpeech
		}
		for _, def := range meaning.Definitions {
			if meta.Definition == "" {
				meta.Definition = def.Definition
			}
			if meta.Example == "" {
				meta.Example = def.Example
			}
		}
	}
	return meta
}

func fallbackSentence(word string) string {
	return fmt.Sprintf("I saw a %s today.", strings.ToLower(strings.TrimSpace(word)))
}
