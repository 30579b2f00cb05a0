package service

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"spellsprint/internal/repository"
)

// BackupService exports and imports word list content as JSON
type BackupService struct {
	lists *repository.ListRepository
}

// NewBackupService creates a backup service
func NewBackupService(lists *repository.ListRepository) *BackupService {
	return &BackupService{lists: lists}
}

// ListBackup is one exported word list
type ListBackup struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    bool     `json:"is_public"`
	Words       []string `json:"words"`
}

// BackupFile is the on-disk export format
type BackupFile struct {
	ExportedAt time.Time    `json:"exported_at"`
	Lists      []ListBackup `json:"lists"`
}

// Export writes all word lists to a JSON file
func (s *BackupService) Export(path string) (int, error) {
	lists, err := s.lists.GetPublicLists()
	if err != nil {
		return 0, fmt.Errorf("failed to load lists: %w", err)
	}

	backup := BackupFile{ExportedAt: time.Now()}
	for _, list := range lists {
		words, err := s.lists.GetListWords(list.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to load words for list %q: %w", list.Name, err)
		}
		entry := ListBackup{
			Name:        list.Name,
			Description: list.Description,
			IsPublic:    list.IsPublic,
		}
		for _, w := range words {
			entry.Words = append(entry.Words, w.WordText)
		}
		backup.Lists = append(backup.Lists, entry)
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write backup file: %w", err)
	}
	return len(backup.Lists), nil
}

// Import reads a backup file and creates its word lists. Lists with no
// words are skipped.
func (s *BackupService) Import(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup BackupFile
	if err := json.Unmarshal(data, &backup); err != nil {
		return 0, fmt.Errorf("failed to decode backup: %w", err)
	}

	imported := 0
	for _, entry := range backup.Lists {
		if len(entry.Words) == 0 {
			continue
		}
		if _, err := s.lists.CreateList(entry.Name, entry.Description, entry.IsPublic, entry.Words); err != nil {
			return imported, fmt.Errorf("failed to import list %q: %w", entry.Name, err)
		}
		imported++
	}
	return imported, nil
}
