package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"spellsprint/internal/database"
	"spellsprint/internal/models"
)

// SessionRepository handles game session database operations
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a new in-progress session and returns it
func (r *SessionRepository) CreateSession(publicID, playerID string, listID *int64, mode string, totalWords int) (*models.GameSession, error) {
	query := `
		INSERT INTO game_sessions (public_id, player_id, word_list_id, mode, total_words)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.InsertReturningID(query, publicID, playerID, listID, mode, totalWords)
	if err != nil {
		return nil, err
	}

	return r.GetSessionByID(id)
}

// GetSessionByID retrieves a session by its row ID
func (r *SessionRepository) GetSessionByID(sessionID int64) (*models.GameSession, error) {
	query := `
		SELECT id, public_id, player_id, word_list_id, mode, total_words,
		       correct_words, best_streak, score, incorrect_words,
		       is_complete, stars_earned, started_at, completed_at
		FROM game_sessions
		WHERE id = ?
	`
	return r.scanSession(r.db.QueryRow(query, sessionID))
}

func (r *SessionRepository) scanSession(row *sql.Row) (*models.GameSession, error) {
	session := &models.GameSession{}
	var listID sql.NullInt64
	var incorrectJSON string
	var completedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.PublicID,
		&session.PlayerID,
		&listID,
		&session.Mode,
		&session.TotalWords,
		&session.CorrectWords,
		&session.BestStreak,
		&session.Score,
		&incorrectJSON,
		&session.IsComplete,
		&session.StarsEarned,
		&session.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if listID.Valid {
		session.WordListID = &listID.Int64
	}
	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}
	if incorrectJSON != "" {
		if err := json.Unmarshal([]byte(incorrectJSON), &session.IncorrectWords); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// UpdateProgress records partial totals for an in-flight or abandoned pass
func (r *SessionRepository) UpdateProgress(sessionID int64, totalWords, correctWords, bestStreak, score int, incorrectWords []string, isComplete bool) error {
	incorrectJSON, err := json.Marshal(incorrectWords)
	if err != nil {
		return err
	}

	query := `
		UPDATE game_sessions
		SET total_words = ?, correct_words = ?, best_streak = ?, score = ?,
		    incorrect_words = ?, is_complete = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query, totalWords, correctWords, bestStreak, score, string(incorrectJSON), isComplete, sessionID)
	return err
}

// FinalizeSession marks a session complete with its final totals. A 2nd
// Chance pass finalizes the same row again with merged totals.
func (r *SessionRepository) FinalizeSession(sessionID int64, totalWords, correctWords, bestStreak, score, starsEarned int, incorrectWords []string) error {
	incorrectJSON, err := json.Marshal(incorrectWords)
	if err != nil {
		return err
	}

	query := `
		UPDATE game_sessions
		SET total_words = ?, correct_words = ?, best_streak = ?, score = ?,
		    incorrect_words = ?, stars_earned = ?, is_complete = ?, completed_at = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query, totalWords, correctWords, bestStreak, score,
		string(incorrectJSON), starsEarned, true, time.Now(), sessionID)
	return err
}

// GetPlayerSessions retrieves recent sessions for a player
func (r *SessionRepository) GetPlayerSessions(playerID string, limit int) ([]models.GameSession, error) {
	query := `
		SELECT id, public_id, player_id, word_list_id, mode, total_words,
		       correct_words, best_streak, score, incorrect_words,
		       is_complete, stars_earned, started_at, completed_at
		FROM game_sessions
		WHERE player_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.GameSession
	for rows.Next() {
		var session models.GameSession
		var listID sql.NullInt64
		var incorrectJSON string
		var completedAt sql.NullTime

		err := rows.Scan(
			&session.ID,
			&session.PublicID,
			&session.PlayerID,
			&listID,
			&session.Mode,
			&session.TotalWords,
			&session.CorrectWords,
			&session.BestStreak,
			&session.Score,
			&incorrectJSON,
			&session.IsComplete,
			&session.StarsEarned,
			&session.StartedAt,
			&completedAt,
		)
		if err != nil {
			return nil, err
		}

		if listID.Valid {
			session.WordListID = &listID.Int64
		}
		if completedAt.Valid {
			session.CompletedAt = &completedAt.Time
		}
		if incorrectJSON != "" {
			if err := json.Unmarshal([]byte(incorrectJSON), &session.IncorrectWords); err != nil {
				return nil, err
			}
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// SaveProgressSnapshot persists the crash-recovery snapshot for a player
func (r *SessionRepository) SaveProgressSnapshot(p *models.GameProgress) error {
	incorrectJSON, err := json.Marshal(p.IncorrectWords)
	if err != nil {
		return err
	}

	if err := r.DeleteProgressSnapshot(p.PlayerID); err != nil {
		return err
	}

	query := `
		INSERT INTO game_progress
		(player_id, session_id, mode, current_index, correct_count, score,
		 streak, best_streak, incorrect_words, word_order, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, p.PlayerID, p.SessionID, p.Mode, p.CurrentIndex,
		p.CorrectCount, p.Score, p.Streak, p.BestStreak, string(incorrectJSON),
		p.WordOrder, time.Now())
	return err
}

// GetProgressSnapshot retrieves the crash-recovery snapshot, nil when absent
func (r *SessionRepository) GetProgressSnapshot(playerID string) (*models.GameProgress, error) {
	query := `
		SELECT player_id, session_id, mode, current_index, correct_count, score,
		       streak, best_streak, incorrect_words, word_order, updated_at
		FROM game_progress
		WHERE player_id = ?
	`

	p := &models.GameProgress{}
	var incorrectJSON string
	err := r.db.QueryRow(query, playerID).Scan(
		&p.PlayerID,
		&p.SessionID,
		&p.Mode,
		&p.CurrentIndex,
		&p.CorrectCount,
		&p.Score,
		&p.Streak,
		&p.BestStreak,
		&incorrectJSON,
		&p.WordOrder,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if incorrectJSON != "" {
		if err := json.Unmarshal([]byte(incorrectJSON), &p.IncorrectWords); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// DeleteProgressSnapshot removes the crash-recovery snapshot for a player
func (r *SessionRepository) DeleteProgressSnapshot(playerID string) error {
	_, err := r.db.Exec("DELETE FROM game_progress WHERE player_id = ?", playerID)
	return err
}
