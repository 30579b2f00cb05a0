package service

import (
	"fmt"
	"log"

	"spellsprint/internal/models"
	"spellsprint/internal/repository"
)

// ListService handles word list operations
type ListService struct {
	repo *repository.ListRepository
}

// NewListService creates a new list service
func NewListService(repo *repository.ListRepository) *ListService {
	return &ListService{repo: repo}
}

// GetPublicLists returns all public word lists
func (s *ListService) GetPublicLists() ([]models.WordList, error) {
	return s.repo.GetPublicLists()
}

// GetList returns a word list by ID, nil when missing
func (s *ListService) GetList(listID int64) (*models.WordList, error) {
	return s.repo.GetListByID(listID)
}

// GetListWords returns the words of a list in position order
func (s *ListService) GetListWords(listID int64) ([]models.Word, error) {
	words, err := s.repo.GetListWords(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load words for list %d: %w", listID, err)
	}
	return words, nil
}

// CreateList creates a word list with its words
func (s *ListService) CreateList(name, description string, isPublic bool, words []string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("list name is required")
	}
	if len(words) == 0 {
		return 0, fmt.Errorf("list requires at least one word")
	}
	return s.repo.CreateList(name, description, isPublic, words)
}

// EnrichWord stores dictionary metadata on a word
func (s *ListService) EnrichWord(wordID int64, meta models.WordMeta) error {
	return s.repo.UpdateWordMeta(wordID, meta)
}

// RecordWordAudio stores the cached audio filename on a word
func (s *ListService) RecordWordAudio(wordID int64, filename string) error {
	return s.repo.UpdateWordAudio(wordID, filename)
}

// SeedDefaultLists inserts the built-in starter lists on an empty database
func (s *ListService) SeedDefaultLists() error {
	count, err := s.repo.CountLists()
	if err != nil {
		return fmt.Errorf("failed to count lists: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name        string
		description string
		words       []string
	}{
		{
			name:        "Everyday Words",
			description: "Common words for warming up",
			words:       []string{"house", "water", "friend", "school", "happy", "animal", "garden", "window"},
		},
		{
			name:        "Tricky Spellings",
			description: "Words that trip everyone up",
			words:       []string{"necessary", "rhythm", "separate", "definitely", "receive", "believe", "island", "answer"},
		},
		{
			name:        "Double Letters",
			description: "One consonant or two?",
			words:       []string{"tomorrow", "address", "balloon", "committee", "parallel", "occasion", "success", "different"},
		},
	}

	for _, d := range defaults {
		if _, err := s.repo.CreateList(d.name, d.description, true, d.words); err != nil {
			return fmt.Errorf("failed to seed list %q: %w", d.name, err)
		}
		log.Printf("Seeded default word list: %s", d.name)
	}
	return nil
}
