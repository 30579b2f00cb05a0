// Package crossword provides the grid-building collaborator consumed by the
// game engine. The engine only cares about the Grid contract; this builder
// is a deliberately simple layout that stacks entries row by row.
package crossword

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"spellsprint/internal/game"
)

// Builder constructs crossword grids from word lists
type Builder struct {
	// MaxEntries caps the grid size; zero means no cap
	MaxEntries int
}

// NewBuilder creates a grid builder
func NewBuilder() *Builder {
	return &Builder{MaxEntries: 8}
}

// BuildGrid lays words out as stacked across entries, longest first. Clues
// are matched to words by position; missing clues fall back to a letter
// count hint.
func (b *Builder) BuildGrid(words []string, clues []string) (*game.Grid, error) {
	if len(words) == 0 {
		return nil, errors.New("crossword requires at least one word")
	}

	type indexed struct {
		word string
		clue string
	}
	items := make([]indexed, 0, len(words))
	for i, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		clue := ""
		if i < len(clues) {
			clue = clues[i]
		}
		if clue == "" {
			clue = letterCountClue(w)
		}
		items = append(items, indexed{word: w, clue: clue})
	}
	if len(items) == 0 {
		return nil, errors.New("crossword requires at least one non-empty word")
	}

	sort.SliceStable(items, func(i, j int) bool {
		return len(items[i].word) > len(items[j].word)
	})
	if b.MaxEntries > 0 && len(items) > b.MaxEntries {
		items = items[:b.MaxEntries]
	}

	grid := &game.Grid{Rows: len(items)}
	for row, item := range items {
		grid.Entries = append(grid.Entries, game.GridEntry{
			Word:      item.word,
			Clue:      item.clue,
			Row:       row,
			Col:       0,
			Direction: game.Across,
		})
		if len(item.word) > grid.Cols {
			grid.Cols = len(item.word)
		}
	}
	return grid, nil
}

func letterCountClue(word string) string {
	n := len([]rune(word))
	if n == 1 {
		return "1 letter"
	}
	return fmt.Sprintf("%d letters", n)
}
