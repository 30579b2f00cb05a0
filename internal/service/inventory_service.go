package service

import (
	"fmt"
	"log"

	"spellsprint/internal/config"
	"spellsprint/internal/game"
	"spellsprint/internal/models"
	"spellsprint/internal/repository"
)

// InventoryService owns the consumable item store
type InventoryService struct {
	repo *repository.InventoryRepository
	cfg  *config.Config
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repo *repository.InventoryRepository, cfg *config.Config) *InventoryService {
	return &InventoryService{repo: repo, cfg: cfg}
}

// EnsurePlayer grants the starting consumables to a player seen for the
// first time
func (s *InventoryService) EnsurePlayer(playerID string) error {
	has, err := s.repo.HasAnyItems(playerID)
	if err != nil {
		return fmt.Errorf("failed to check inventory: %w", err)
	}
	if has {
		return nil
	}

	if err := s.repo.GrantItem(playerID, game.ItemDoOver, s.cfg.StartingDoOvers); err != nil {
		return fmt.Errorf("failed to grant starting do-overs: %w", err)
	}
	if err := s.repo.GrantItem(playerID, game.ItemSecondChance, s.cfg.StartingSecondChances); err != nil {
		return fmt.Errorf("failed to grant starting second chances: %w", err)
	}
	return nil
}

// GetInventory returns all items a player holds
func (s *InventoryService) GetInventory(playerID string) ([]models.InventoryItem, error) {
	return s.repo.GetPlayerInventory(playerID)
}

// GrantItem adds items to a player's inventory
func (s *InventoryService) GrantItem(playerID, itemID string, quantity int) error {
	return s.repo.GrantItem(playerID, itemID, quantity)
}

// ForPlayer returns the game-engine inventory view scoped to one player
func (s *InventoryService) ForPlayer(playerID string) game.Inventory {
	return &playerInventory{svc: s, playerID: playerID}
}

// playerInventory adapts the store to the engine's read/consume boundary
type playerInventory struct {
	svc      *InventoryService
	playerID string
}

// Count returns the player's quantity of one item. Read errors report zero
// so the engine simply withholds the offer.
func (p *playerInventory) Count(itemID string) int {
	qty, err := p.svc.repo.GetQuantity(p.playerID, itemID)
	if err != nil {
		log.Printf("Failed to read inventory for player %s: %v", p.playerID, err)
		return 0
	}
	return qty
}

// Use consumes items from the player's inventory
func (p *playerInventory) Use(itemID string, qty int) error {
	if err := p.svc.repo.ConsumeItem(p.playerID, itemID, qty); err != nil {
		log.Printf("Failed to consume %s for player %s: %v", itemID, p.playerID, err)
		return err
	}
	return nil
}
