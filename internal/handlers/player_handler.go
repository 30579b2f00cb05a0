package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"spellsprint/internal/security"
	"spellsprint/internal/service"
)

const maxPlayerNameLength = 30

// PlayerHandler handles player identity requests
type PlayerHandler struct {
	tokens    *security.TokenIssuer
	inventory *service.InventoryService
	games     *service.GameService
	secure    bool
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(tokens *security.TokenIssuer, inventory *service.InventoryService, games *service.GameService, secure bool) *PlayerHandler {
	return &PlayerHandler{tokens: tokens, inventory: inventory, games: games, secure: secure}
}

type enterRequest struct {
	Name string `json:"name"`
}

// Enter handles POST /player/enter: it mints a fresh player identity,
// grants the starting consumables and sets the identity cookie
func (h *PlayerHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req enterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len([]rune(name)) > maxPlayerNameLength {
		respondWithError(w, http.StatusBadRequest, "name is too long")
		return
	}

	playerID := uuid.NewString()
	if err := h.inventory.EnsurePlayer(playerID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to set up player")
		return
	}

	token, err := h.tokens.Issue(playerID, name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusCreated, map[string]string{
		"player_id": playerID,
		"name":      name,
	})
}

// Inventory handles GET /player/inventory
func (h *PlayerHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.GetInventory(PlayerID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}

	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item.ItemID] = item.Quantity
	}
	respondWithJSON(w, http.StatusOK, counts)
}

// Recover handles GET /player/recover, reporting any progress snapshot left
// by a crashed session
func (h *PlayerHandler) Recover(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.games.RecoverSnapshot(PlayerID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	if snapshot == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"found": false})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"found":         true,
		"mode":          snapshot.Mode,
		"current_index": snapshot.CurrentIndex,
		"correct_count": snapshot.CorrectCount,
		"score":         snapshot.Score,
		"updated_at":    snapshot.UpdatedAt,
	})
}
