// Package game implements the gameplay session engine: the per-mode turn
// state machine, scoring and streak accounting, the Do Over and 2nd Chance
// recovery mechanics, the procedural misspelling generator and the letter
// scramble board.
package game

import "fmt"

// Mode identifies one of the six game modes
type Mode string

const (
	ModePractice    Mode = "practice"
	ModeTimed       Mode = "timed"
	ModeQuiz        Mode = "quiz"
	ModeScramble    Mode = "scramble"
	ModeFindMistake Mode = "find_mistake"
	ModeCrossword   Mode = "crossword"
)

// ParseMode validates a mode string from the outside world
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePractice, ModeTimed, ModeQuiz, ModeScramble, ModeFindMistake, ModeCrossword:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown game mode: %q", s)
}

// basePoints is the per-mode score for one correct answer. Practice is the
// easy tier; everything else pays the standard rate.
var basePoints = map[Mode]int{
	ModePractice:    10,
	ModeTimed:       20,
	ModeQuiz:        20,
	ModeScramble:    20,
	ModeFindMistake: 20,
	ModeCrossword:   20,
}

// Points returns the base points for one correct answer in the given mode
func Points(mode Mode) int {
	return basePoints[mode]
}

// hasLiveFeedback reports whether a mode shows per-word feedback and waits
// for the player to advance. Timed and quiz advance immediately.
func (m Mode) hasLiveFeedback() bool {
	switch m {
	case ModePractice, ModeScramble, ModeFindMistake:
		return true
	}
	return false
}

// supportsDoOver reports whether the Do Over mechanic can be offered.
// Practice is consequence-free already and crossword commits whole grids.
func (m Mode) supportsDoOver() bool {
	return m != ModePractice && m != ModeCrossword
}

// Phase is the turn controller's state. Evaluation happens synchronously
// inside a submit, so it never rests in a visible phase of its own.
type Phase string

const (
	// PhasePresenting: a word (or grid) is in front of the player
	PhasePresenting Phase = "presenting"
	// PhaseFeedback: the last answer's result is visible, player advances
	PhaseFeedback Phase = "feedback"
	// PhaseDoOverOffer: an incorrect answer is held uncommitted while the
	// player decides whether to spend a Do Over
	PhaseDoOverOffer Phase = "do_over_offer"
	// PhaseComplete: the pass is finished
	PhaseComplete Phase = "complete"
)

// Consumable item identifiers, owned by the shop/inventory subsystem
const (
	ItemDoOver       = "do_over"
	ItemSecondChance = "second_chance"
)

// Inventory is the boundary to the externally owned consumable store. The
// engine only reads counts and requests consumption; it never persists
// inventory state itself.
type Inventory interface {
	Count(itemID string) int
	Use(itemID string, qty int) error
}
