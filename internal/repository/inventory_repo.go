package repository

import (
	"database/sql"
	"errors"

	"spellsprint/internal/database"
	"spellsprint/internal/models"
)

// ErrInsufficientQuantity is returned when a consume would go negative
var ErrInsufficientQuantity = errors.New("insufficient item quantity")

// InventoryRepository handles consumable item database operations
type InventoryRepository struct {
	db *database.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetQuantity returns a player's count of one item, zero when absent
func (r *InventoryRepository) GetQuantity(playerID, itemID string) (int, error) {
	var qty int
	err := r.db.QueryRow(
		"SELECT quantity FROM inventory WHERE player_id = ? AND item_id = ?",
		playerID, itemID,
	).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// GetPlayerInventory returns all items a player holds
func (r *InventoryRepository) GetPlayerInventory(playerID string) ([]models.InventoryItem, error) {
	rows, err := r.db.Query(
		"SELECT player_id, item_id, quantity FROM inventory WHERE player_id = ? ORDER BY item_id",
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.PlayerID, &item.ItemID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GrantItem adds quantity to a player's count, creating the row if needed
func (r *InventoryRepository) GrantItem(playerID, itemID string, quantity int) error {
	result, err := r.db.Exec(
		"UPDATE inventory SET quantity = quantity + ? WHERE player_id = ? AND item_id = ?",
		quantity, playerID, itemID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		_, err = r.db.Exec(
			"INSERT INTO inventory (player_id, item_id, quantity) VALUES (?, ?, ?)",
			playerID, itemID, quantity,
		)
	}
	return err
}

// ConsumeItem decrements a player's count. The WHERE guard keeps the
// quantity from going negative under concurrent use.
func (r *InventoryRepository) ConsumeItem(playerID, itemID string, quantity int) error {
	result, err := r.db.Exec(
		"UPDATE inventory SET quantity = quantity - ? WHERE player_id = ? AND item_id = ? AND quantity >= ?",
		quantity, playerID, itemID, quantity,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientQuantity
	}
	return nil
}

// HasAnyItems reports whether the player has an inventory at all, used to
// decide whether starting grants are due.
func (r *InventoryRepository) HasAnyItems(playerID string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM inventory WHERE player_id = ?", playerID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
