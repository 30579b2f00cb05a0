package repository

import (
	"time"

	"spellsprint/internal/database"
	"spellsprint/internal/models"
)

// LeaderboardRepository handles leaderboard and achievement database operations
type LeaderboardRepository struct {
	db *database.DB
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(db *database.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// RecordScore appends a finalized session's score to the leaderboard and
// returns the new entry's id
func (r *LeaderboardRepository) RecordScore(playerID, playerName, mode string, score, accuracy int) (int64, error) {
	query := `
		INSERT INTO leaderboard (player_id, player_name, mode, score, accuracy, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return r.db.InsertReturningID(query, playerID, playerName, mode, score, accuracy, time.Now())
}

// UpdateScore replaces an existing entry's totals. Used when a 2nd Chance
// retry re-finalizes the game that wrote the entry.
func (r *LeaderboardRepository) UpdateScore(id int64, score, accuracy int) error {
	query := "UPDATE leaderboard SET score = ?, accuracy = ?, recorded_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, score, accuracy, time.Now(), id)
	return err
}

// GetTopScores returns the highest scores for a mode, or across all modes
// when mode is empty
func (r *LeaderboardRepository) GetTopScores(mode string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT id, player_id, player_name, mode, score, accuracy, recorded_at
		FROM leaderboard
	`
	args := []interface{}{}
	if mode != "" {
		query += " WHERE mode = ?"
		args = append(args, mode)
	}
	query += " ORDER BY score DESC, accuracy DESC, recorded_at ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.PlayerName,
			&entry.Mode,
			&entry.Score,
			&entry.Accuracy,
			&entry.RecordedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// RecordAchievement stores an earned achievement
func (r *LeaderboardRepository) RecordAchievement(playerID string, sessionID int64, code string) error {
	query := `
		INSERT INTO achievements (player_id, session_id, code, earned_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, playerID, sessionID, code, time.Now())
	return err
}

// GetPlayerAchievements returns a player's achievements, newest first
func (r *LeaderboardRepository) GetPlayerAchievements(playerID string) ([]models.Achievement, error) {
	query := `
		SELECT id, player_id, session_id, code, earned_at
		FROM achievements
		WHERE player_id = ?
		ORDER BY earned_at DESC
	`

	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.SessionID, &a.Code, &a.EarnedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// CountPlayerStars returns how many starred sessions a player has finished
func (r *LeaderboardRepository) CountPlayerStars(playerID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COALESCE(SUM(stars_earned), 0) FROM game_sessions WHERE player_id = ? AND is_complete = ?",
		playerID, true,
	).Scan(&count)
	return count, err
}
