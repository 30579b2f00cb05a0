package game

import "strings"

// Direction of a crossword entry
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// GridEntry is one word placed in a crossword grid. The engine treats
// entries as opaque correctness units; layout comes from the grid builder.
type GridEntry struct {
	Word      string
	Clue      string
	Row       int
	Col       int
	Direction Direction

	// Fill is the player's current answer for this entry
	Fill string
	// Correct is derived on submission, never reset by a retry pass
	Correct bool
}

// Grid is a built crossword puzzle, produced by an external grid builder.
type Grid struct {
	Entries []GridEntry
	Rows    int
	Cols    int

	// Highlighted marks the entries a 2nd Chance pass is limited to;
	// empty outside a retry pass
	Highlighted []int
}

// GridBuilder constructs a crossword grid from words and clues. The grid
// construction algorithm itself lives outside the engine.
type GridBuilder interface {
	BuildGrid(words []string, clues []string) (*Grid, error)
}

// FillEntry records the player's answer for one entry
func (g *Grid) FillEntry(index int, text string) bool {
	if index < 0 || index >= len(g.Entries) {
		return false
	}
	g.Entries[index].Fill = text
	return true
}

// Evaluate recomputes correctness for every entry and returns the number
// correct. Already-correct entries stay correct when their fill is untouched,
// so re-submitting after a retry never resets prior answers.
func (g *Grid) Evaluate() int {
	correct := 0
	for i := range g.Entries {
		e := &g.Entries[i]
		e.Correct = strings.EqualFold(strings.TrimSpace(e.Fill), e.Word)
		if e.Correct {
			correct++
		}
	}
	return correct
}

// IncorrectEntries returns the indices of entries currently wrong
func (g *Grid) IncorrectEntries() []int {
	var wrong []int
	for i := range g.Entries {
		if !g.Entries[i].Correct {
			wrong = append(wrong, i)
		}
	}
	return wrong
}

// IncorrectWords returns the target words of entries currently wrong
func (g *Grid) IncorrectWords() []string {
	var words []string
	for i := range g.Entries {
		if !g.Entries[i].Correct {
			words = append(words, g.Entries[i].Word)
		}
	}
	return words
}
