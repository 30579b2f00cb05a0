package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"spellsprint/internal/game"
	"spellsprint/internal/service"
)

// respondWithJSON writes a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithGameError maps engine and service errors onto HTTP statuses
func respondWithGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveGame):
		respondWithError(w, http.StatusNotFound, "no active game")
	case errors.Is(err, service.ErrGameNotComplete):
		respondWithError(w, http.StatusConflict, "game is not complete")
	case errors.Is(err, service.ErrListNotFound):
		respondWithError(w, http.StatusNotFound, "word list not found")
	case errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrWrongMode),
		errors.Is(err, game.ErrNoSecondChance):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrEmptyInput),
		errors.Is(err, game.ErrScrambleIncomplete):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Unhandled game error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "something went wrong")
	}
}
