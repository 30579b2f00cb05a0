package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"spellsprint/internal/audio"
	"spellsprint/internal/game"
	"spellsprint/internal/models"
	"spellsprint/internal/service"
)

// PlayHandler handles gameplay HTTP requests
type PlayHandler struct {
	games         *service.GameService
	audio         *audio.Service
	illustrations *service.IllustrationService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(games *service.GameService, audioSvc *audio.Service, illustrations *service.IllustrationService) *PlayHandler {
	return &PlayHandler{games: games, audio: audioSvc, illustrations: illustrations}
}

type startRequest struct {
	Mode string `json:"mode"`
}

// Start handles POST /play/start/{listId}
func (h *PlayHandler) Start(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.ParseInt(r.PathValue("listId"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid list id")
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ag, err := h.games.Start(PlayerID(r), PlayerName(r), listID, req.Mode)
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, buildGameView(ag))
}

type startVirtualRequest struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
	Mode  string   `json:"mode"`
}

// StartVirtual handles POST /play/virtual, starting a game over an ad-hoc
// word set with no stored list
func (h *PlayHandler) StartVirtual(w http.ResponseWriter, r *http.Request) {
	var req startVirtualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		req.Name = "custom"
	}

	ag, err := h.games.StartVirtual(PlayerID(r), PlayerName(r), req.Name, req.Words, req.Mode)
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, buildGameView(ag))
}

// Get handles GET /play, returning the current game state
func (h *PlayHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, func(ag *service.ActiveGame) error { return nil })
}

type submitRequest struct {
	Answer string     `json:"answer,omitempty"`
	Choice *int       `json:"choice,omitempty"`
	Fills  []gridFill `json:"fills,omitempty"`
}

type gridFill struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Submit handles POST /play/submit, routing the answer by game mode
func (h *PlayHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respondWithView(w, r, func(ag *service.ActiveGame) error {
		engine := ag.Engine
		switch engine.Mode() {
		case game.ModePractice, game.ModeTimed, game.ModeQuiz:
			_, err := engine.SubmitAnswer(req.Answer)
			return err
		case game.ModeFindMistake:
			if req.Choice == nil {
				return game.ErrEmptyInput
			}
			_, err := engine.SubmitChoice(*req.Choice)
			return err
		case game.ModeScramble:
			_, err := engine.SubmitScramble()
			return err
		case game.ModeCrossword:
			for _, fill := range req.Fills {
				engine.Grid().FillEntry(fill.Index, fill.Text)
			}
			_, err := engine.SubmitGrid()
			return err
		}
		return game.ErrWrongMode
	})
}

type doOverRequest struct {
	Accept bool `json:"accept"`
}

// DoOver handles POST /play/doover, settling an open Do Over offer
func (h *PlayHandler) DoOver(w http.ResponseWriter, r *http.Request) {
	var req doOverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respondWithView(w, r, func(ag *service.ActiveGame) error {
		return ag.Engine.ResolveDoOver(req.Accept)
	})
}

// Advance handles POST /play/advance, leaving the feedback phase
func (h *PlayHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, func(ag *service.ActiveGame) error {
		return ag.Engine.Advance()
	})
}

// Skip handles POST /play/skip. Any in-flight audio fetch for the skipped
// word is abandoned.
func (h *PlayHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.audio.CancelFor(PlayerID(r))
	h.respondWithView(w, r, func(ag *service.ActiveGame) error {
		return ag.Engine.Skip()
	})
}

type placeRequest struct {
	TrayIndex int `json:"tray_index"`
	Slot      int `json:"slot"`
}

// ScramblePlace handles POST /play/scramble/place
func (h *PlayHandler) ScramblePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respondWithView(w, r, func(ag *service.ActiveGame) error {
		board := ag.Engine.Scramble()
		if board == nil {
			return game.ErrWrongMode
		}
		if !board.Place(req.TrayIndex, req.Slot) {
			return game.ErrEmptyInput
		}
		return nil
	})
}

type removeRequest struct {
	Slot int `json:"slot"`
}

// ScrambleRemove handles POST /play/scramble/remove
func (h *PlayHandler) ScrambleRemove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.respondWithView(w, r, func(ag *service.ActiveGame) error {
		board := ag.Engine.Scramble()
		if board == nil {
			return game.ErrWrongMode
		}
		board.Remove(req.Slot)
		return nil
	})
}

// ScrambleClear handles POST /play/scramble/clear
func (h *PlayHandler) ScrambleClear(w http.ResponseWriter, r *http.Request) {
	h.respondWithView(w, r, func(ag *service.ActiveGame) error {
		board := ag.Engine.Scramble()
		if board == nil {
			return game.ErrWrongMode
		}
		board.ClearAll()
		return nil
	})
}

// SecondChance handles POST /play/secondchance
func (h *PlayHandler) SecondChance(w http.ResponseWriter, r *http.Request) {
	if err := h.games.StartSecondChance(PlayerID(r)); err != nil {
		respondWithGameError(w, err)
		return
	}
	h.Get(w, r)
}

// Results handles GET /play/results
func (h *PlayHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.games.Results(PlayerID(r))
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, buildResultsPayload(results))
}

// Exit handles POST /play/exit, closing out the game
func (h *PlayHandler) Exit(w http.ResponseWriter, r *http.Request) {
	h.audio.CancelFor(PlayerID(r))

	metrics, err := h.games.Exit(PlayerID(r))
	if err != nil {
		respondWithGameError(w, err)
		return
	}

	incorrect := metrics.IncorrectWords
	if incorrect == nil {
		incorrect = []string{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"total_words":     metrics.TotalWords,
		"correct_words":   metrics.CorrectCount,
		"best_streak":     metrics.BestStreak,
		"score":           metrics.Score,
		"accuracy":        metrics.Accuracy(),
		"incorrect_words": incorrect,
	})
}

// Audio handles GET /play/audio, serving the spoken prompt for the word
// being presented without revealing its spelling in the URL
func (h *PlayHandler) Audio(w http.ResponseWriter, r *http.Request) {
	var current models.Word
	err := h.games.WithActive(PlayerID(r), func(ag *service.ActiveGame) error {
		word, ok := ag.Engine.CurrentWord()
		if !ok {
			return game.ErrWrongPhase
		}
		current = word
		return nil
	})
	if err != nil {
		respondWithGameError(w, err)
		return
	}

	path, err := h.audio.Fetch(r.Context(), PlayerID(r), current.WordText)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "audio is unavailable")
		return
	}

	// Remember the cached file on stored words so list exports carry it
	if current.ID != 0 && current.AudioFilename == "" {
		if err := h.games.RecordWordAudio(current.ID, audio.Filename(current.WordText)); err != nil {
			log.Printf("Failed to record audio filename for word %d: %v", current.ID, err)
		}
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

// Illustration handles GET /play/illustration, serving a picture of the
// word being presented when one exists in the image directory
func (h *PlayHandler) Illustration(w http.ResponseWriter, r *http.Request) {
	var current models.Word
	err := h.games.WithActive(PlayerID(r), func(ag *service.ActiveGame) error {
		word, ok := ag.Engine.CurrentWord()
		if !ok {
			return game.ErrWrongPhase
		}
		current = word
		return nil
	})
	if err != nil {
		respondWithGameError(w, err)
		return
	}

	path, ok := h.illustrations.Lookup(current.WordText)
	if !ok {
		respondWithError(w, http.StatusNotFound, "no illustration for this word")
		return
	}
	http.ServeFile(w, r, path)
}

// respondWithView runs a game action and responds with the refreshed state
func (h *PlayHandler) respondWithView(w http.ResponseWriter, r *http.Request, fn func(*service.ActiveGame) error) {
	var view *GameView
	err := h.games.WithActive(PlayerID(r), func(ag *service.ActiveGame) error {
		if err := fn(ag); err != nil {
			return err
		}
		view = buildGameView(ag)
		return nil
	})
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}
