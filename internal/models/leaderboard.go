package models

import "time"

// LeaderboardEntry records a finalized non-practice session score
type LeaderboardEntry struct {
	ID         int64
	PlayerID   string
	PlayerName string
	Mode       string
	Score      int
	Accuracy   int
	RecordedAt time.Time
}

// Achievement records a star earned on a finalized session
type Achievement struct {
	ID        int64
	PlayerID  string
	SessionID int64
	Code      string
	EarnedAt  time.Time
}

// Achievement codes
const (
	AchievementPerfectPass = "perfect_pass"
	AchievementTimedStar   = "timed_star"
)

// InventoryItem holds a player's count of one consumable
type InventoryItem struct {
	PlayerID string
	ItemID   string
	Quantity int
}
