package game

import (
	"math/rand"
	"strings"
)

// maxReshuffles bounds the retries used to avoid dealing an already-solved tray
const maxReshuffles = 10

// Tile is one letter in a scramble tray. Tiles are identified by their
// origin tray index, never by letter value, so repeated letters are never
// confused with each other.
type Tile struct {
	Letter    rune
	TrayIndex int
}

// ScrambleBoard maps a shuffled letter tray onto a row of answer slots, one
// per letter of the target word. A tile displaced from a slot always returns
// to its own origin tray position, which keeps every sequence of placements
// reversible.
type ScrambleBoard struct {
	target string
	tray   []*Tile // nil where the tile is currently placed in a slot
	slots  []*Tile // nil where empty
}

// NewScrambleBoard shuffles the target word's letters into a tray.
// If the shuffle deals the letters back in original order it is re-dealt,
// up to a bounded number of retries.
func NewScrambleBoard(target string, rng *rand.Rand) *ScrambleBoard {
	letters := []rune(strings.ToLower(target))

	shuffled := append([]rune(nil), letters...)
	for attempt := 0; attempt < maxReshuffles; attempt++ {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if string(shuffled) != string(letters) {
			break
		}
	}

	b := &ScrambleBoard{
		target: target,
		tray:   make([]*Tile, len(shuffled)),
		slots:  make([]*Tile, len(letters)),
	}
	for i, r := range shuffled {
		b.tray[i] = &Tile{Letter: r, TrayIndex: i}
	}
	return b
}

// Place moves the tile at trayIndex into slotIndex. A tile already occupying
// the slot is returned to its own origin tray position.
func (b *ScrambleBoard) Place(trayIndex, slotIndex int) bool {
	if trayIndex < 0 || trayIndex >= len(b.tray) || slotIndex < 0 || slotIndex >= len(b.slots) {
		return false
	}
	tile := b.tray[trayIndex]
	if tile == nil {
		return false
	}
	if displaced := b.slots[slotIndex]; displaced != nil {
		b.tray[displaced.TrayIndex] = displaced
	}
	b.tray[trayIndex] = nil
	b.slots[slotIndex] = tile
	return true
}

// Remove sends the tile at slotIndex back to its origin tray position
func (b *ScrambleBoard) Remove(slotIndex int) bool {
	if slotIndex < 0 || slotIndex >= len(b.slots) {
		return false
	}
	tile := b.slots[slotIndex]
	if tile == nil {
		return false
	}
	b.slots[slotIndex] = nil
	b.tray[tile.TrayIndex] = tile
	return true
}

// ClearAll returns every placed tile to its original tray position
func (b *ScrambleBoard) ClearAll() {
	for i, tile := range b.slots {
		if tile != nil {
			b.tray[tile.TrayIndex] = tile
			b.slots[i] = nil
		}
	}
}

// Filled reports whether every slot holds a tile
func (b *ScrambleBoard) Filled() bool {
	for _, tile := range b.slots {
		if tile == nil {
			return false
		}
	}
	return true
}

// Attempt returns the word currently spelled by the slots
func (b *ScrambleBoard) Attempt() string {
	var sb strings.Builder
	for _, tile := range b.slots {
		if tile != nil {
			sb.WriteRune(tile.Letter)
		}
	}
	return sb.String()
}

// Solved compares the filled slots against the target word. It is only
// meaningful once Filled() is true; submission is gated on that.
func (b *ScrambleBoard) Solved() bool {
	return strings.EqualFold(b.Attempt(), b.target)
}

// TrayLetters returns the tray as displayed, with zero runes for gaps
func (b *ScrambleBoard) TrayLetters() []rune {
	letters := make([]rune, len(b.tray))
	for i, tile := range b.tray {
		if tile != nil {
			letters[i] = tile.Letter
		}
	}
	return letters
}

// SlotLetters returns the slots as displayed, with zero runes for gaps
func (b *ScrambleBoard) SlotLetters() []rune {
	letters := make([]rune, len(b.slots))
	for i, tile := range b.slots {
		if tile != nil {
			letters[i] = tile.Letter
		}
	}
	return letters
}
