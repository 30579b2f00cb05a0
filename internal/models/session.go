package models

import "time"

// GameSession represents one persisted game run. Created when a game starts
// (never for virtual word lists), updated incrementally while the player
// advances, and finalized when the pass completes. A 2nd Chance pass
// re-finalizes the same row with merged totals.
type GameSession struct {
	ID             int64
	PublicID       string // uuid
	PlayerID       string
	WordListID     *int64 // nil for virtual lists (row never created today, kept nullable for safety)
	Mode           string
	TotalWords     int
	CorrectWords   int
	BestStreak     int
	Score          int
	IncorrectWords []string
	IsComplete     bool
	StarsEarned    int
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// Accuracy returns the session accuracy as a rounded percentage.
func (s *GameSession) Accuracy() int {
	if s.TotalWords == 0 {
		return 0
	}
	return int(float64(s.CorrectWords)/float64(s.TotalWords)*100 + 0.5)
}

// GameProgress is the crash-recovery snapshot of an in-flight pass,
// persisted per player and deleted on finalize.
type GameProgress struct {
	PlayerID       string
	SessionID      int64
	Mode           string
	CurrentIndex   int
	CorrectCount   int
	Score          int
	Streak         int
	BestStreak     int
	IncorrectWords []string
	WordOrder      string // comma-separated word texts in play order
	UpdatedAt      time.Time
}
