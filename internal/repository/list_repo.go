package repository

import (
	"database/sql"
	"fmt"

	"spellsprint/internal/database"
	"spellsprint/internal/models"
)

// ListRepository handles word list database operations
type ListRepository struct {
	db *database.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *database.DB) *ListRepository {
	return &ListRepository{db: db}
}

// GetListByID retrieves a word list by ID
func (r *ListRepository) GetListByID(listID int64) (*models.WordList, error) {
	query := `
		SELECT id, name, description, is_public, created_at
		FROM word_lists
		WHERE id = ?
	`

	list := &models.WordList{}
	err := r.db.QueryRow(query, listID).Scan(
		&list.ID,
		&list.Name,
		&list.Description,
		&list.IsPublic,
		&list.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetPublicLists retrieves all public word lists
func (r *ListRepository) GetPublicLists() ([]models.WordList, error) {
	query := `
		SELECT id, name, description, is_public, created_at
		FROM word_lists
		WHERE is_public = ?
		ORDER BY name
	`

	rows, err := r.db.Query(query, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.WordList
	for rows.Next() {
		var list models.WordList
		if err := rows.Scan(&list.ID, &list.Name, &list.Description, &list.IsPublic, &list.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// GetListWords retrieves the words of a list in position order
func (r *ListRepository) GetListWords(listID int64) ([]models.Word, error) {
	query := `
		SELECT id, word_list_id, word_text, difficulty, sentence_example,
		       word_origin, part_of_speech, audio_filename, position, created_at
		FROM words
		WHERE word_list_id = ?
		ORDER BY position, id
	`

	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var word models.Word
		err := rows.Scan(
			&word.ID,
			&word.WordListID,
			&word.WordText,
			&word.Difficulty,
			&word.SentenceExample,
			&word.WordOrigin,
			&word.PartOfSpeech,
			&word.AudioFilename,
			&word.Position,
			&word.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

// CreateList inserts a word list with its words in one transaction
func (r *ListRepository) CreateList(name, description string, isPublic bool, words []string) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	listID, err := tx.InsertReturningID(
		"INSERT INTO word_lists (name, description, is_public) VALUES (?, ?, ?)",
		name, description, isPublic,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert list: %w", err)
	}

	for i, word := range words {
		_, err := tx.Exec(
			"INSERT INTO words (word_list_id, word_text, position) VALUES (?, ?, ?)",
			listID, word, i,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert word %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return listID, nil
}

// CountLists returns the number of word lists
func (r *ListRepository) CountLists() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM word_lists").Scan(&count)
	return count, err
}

// UpdateWordAudio records the generated audio filename for a word
func (r *ListRepository) UpdateWordAudio(wordID int64, filename string) error {
	_, err := r.db.Exec("UPDATE words SET audio_filename = ? WHERE id = ?", filename, wordID)
	return err
}

// UpdateWordMeta stores dictionary enrichment on a word
func (r *ListRepository) UpdateWordMeta(wordID int64, meta models.WordMeta) error {
	query := `
		UPDATE words
		SET sentence_example = ?, word_origin = ?, part_of_speech = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, meta.Example, meta.Origin, meta.PartOfSpeech, wordID)
	return err
}
