package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"spellsprint/internal/repository"
	"spellsprint/internal/service"
)

// ListHandler handles word list requests
type ListHandler struct {
	lists       *service.ListService
	leaderboard *repository.LeaderboardRepository
}

// NewListHandler creates a new list handler
func NewListHandler(lists *service.ListService, leaderboard *repository.LeaderboardRepository) *ListHandler {
	return &ListHandler{lists: lists, leaderboard: leaderboard}
}

// GetLists handles GET /lists
func (h *ListHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.GetPublicLists()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load lists")
		return
	}

	type listView struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	views := make([]listView, 0, len(lists))
	for _, list := range lists {
		views = append(views, listView{ID: list.ID, Name: list.Name, Description: list.Description})
	}
	respondWithJSON(w, http.StatusOK, views)
}

type createListRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Words       []string `json:"words"`
}

// CreateList handles POST /lists
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listID, err := h.lists.CreateList(req.Name, req.Description, true, req.Words)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": listID})
}

// GetLeaderboard handles GET /leaderboard
func (h *ListHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.leaderboard.GetTopScores(mode, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	type entryView struct {
		PlayerName string `json:"player_name"`
		Mode       string `json:"mode"`
		Score      int    `json:"score"`
		Accuracy   int    `json:"accuracy"`
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{
			PlayerName: e.PlayerName,
			Mode:       e.Mode,
			Score:      e.Score,
			Accuracy:   e.Accuracy,
		})
	}
	respondWithJSON(w, http.StatusOK, views)
}

// GetAchievements handles GET /player/achievements
func (h *ListHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.leaderboard.GetPlayerAchievements(PlayerID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load achievements")
		return
	}

	type achievementView struct {
		Code     string `json:"code"`
		EarnedAt string `json:"earned_at"`
	}
	views := make([]achievementView, 0, len(achievements))
	for _, a := range achievements {
		views = append(views, achievementView{
			Code:     a.Code,
			EarnedAt: a.EarnedAt.Format("2006-01-02"),
		})
	}
	respondWithJSON(w, http.StatusOK, views)
}
