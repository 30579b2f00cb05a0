package game

import (
	"math/rand"
	"strings"
)

// mistakeChoiceCount is the number of candidate words shown per turn
const mistakeChoiceCount = 4

// MistakeRound is one find-the-mistake turn: a set of candidate words of
// which exactly one is misspelled. Rounds are cached per word so a Do Over
// or 2nd Chance retry of the same word sees the identical misspelling.
type MistakeRound struct {
	Choices      []string
	MistakeIndex int
}

// newMistakeRound builds the choice set for one word. Distractors are drawn
// from the active list without repeats within the turn; the turn's own word
// is replaced by a generated misspelling.
func newMistakeRound(word string, pool []string, misspeller *Misspeller, rng *rand.Rand) *MistakeRound {
	distractors := make([]string, 0, mistakeChoiceCount-1)
	for _, i := range rng.Perm(len(pool)) {
		if len(distractors) == mistakeChoiceCount-1 {
			break
		}
		if strings.EqualFold(pool[i], word) {
			continue
		}
		distractors = append(distractors, pool[i])
	}

	misspelled := misspeller.Generate(word, distractors)

	choices := append([]string{misspelled}, distractors...)
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	mistakeIndex := 0
	for i, c := range choices {
		if c == misspelled {
			mistakeIndex = i
			break
		}
	}

	return &MistakeRound{Choices: choices, MistakeIndex: mistakeIndex}
}
