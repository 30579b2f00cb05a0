package models

import "time"

// WordList represents a list of words to practice
type WordList struct {
	ID          int64
	Name        string
	Description string
	IsPublic    bool
	CreatedAt   time.Time
}

// Word represents a word in a spelling list. Immutable once fetched for a
// session; WordText is the authoritative correct spelling.
type Word struct {
	ID              int64
	WordListID      int64
	WordText        string
	Difficulty      int // 1-5 scale, 0 when unknown
	SentenceExample string
	WordOrigin      string
	PartOfSpeech    string
	AudioFilename   string
	Position        int
	CreatedAt       time.Time
}

// WordMeta holds best-effort dictionary enrichment for a word. Any field may
// be empty; gameplay never depends on it.
type WordMeta struct {
	Definition   string
	Example      string
	PartOfSpeech string
	Origin       string
}
