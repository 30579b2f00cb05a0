package game

import (
	"math/rand"
	"strings"
	"unicode"
)

// WordChecker reports whether a candidate spelling is itself a real word.
// Implementations are expected to be network-backed and fallible; on failure
// they must answer false ("does not exist") so generation never stalls a turn.
type WordChecker interface {
	Exists(word string) bool
}

// Misspeller produces plausible incorrect spellings of English words.
// Output is intentionally randomized; the guarantees are that the result
// never equals the original or a sibling (case-insensitively), never
// contains a run of three identical letters, and never resolves to a real
// dictionary word when the checker can tell us so.
type Misspeller struct {
	checker WordChecker
	rng     *rand.Rand
}

// NewMisspeller creates a misspelling generator
func NewMisspeller(checker WordChecker, rng *rand.Rand) *Misspeller {
	return &Misspeller{checker: checker, rng: rng}
}

// mutation rewrites a lowercase word into a candidate misspelling.
// It returns false when it does not apply to the word at all.
type mutation func(word string, rng *rand.Rand) (string, bool)

// primaryMutations are realistic English spelling mistakes
var primaryMutations = []mutation{
	swapIEPair,
	dropSilentE,
	toggleDoubleConsonant,
	substituteVowel,
	confuseSuffix,
	softenC,
	phoneticF,
}

// secondaryMutations are generic phonetic substitutions, tried only when
// every primary mutation fails to produce an acceptable candidate
var secondaryMutations = []mutation{
	zForS,
	kForC,
	iForY,
	dropOneLetter,
}

// Generate returns a misspelling of correct that collides with neither the
// original nor any of the sibling words.
func (m *Misspeller) Generate(correct string, siblings []string) string {
	lower := strings.ToLower(correct)

	taken := make(map[string]bool, len(siblings)+1)
	taken[lower] = true
	for _, s := range siblings {
		taken[strings.ToLower(s)] = true
	}

	for _, pool := range [][]mutation{primaryMutations, secondaryMutations} {
		order := m.rng.Perm(len(pool))
		for _, i := range order {
			candidate, ok := pool[i](lower, m.rng)
			if !ok {
				continue
			}
			if m.acceptable(candidate, taken) {
				return matchCase(correct, candidate)
			}
		}
	}

	return matchCase(correct, fallbackMisspelling(lower, taken))
}

// acceptable applies the acceptance rules shared by every strategy
func (m *Misspeller) acceptable(candidate string, taken map[string]bool) bool {
	if candidate == "" || taken[candidate] {
		return false
	}
	if hasTripleRun(candidate) {
		return false
	}
	// Conservative: a checker failure reads as "not a real word"
	if m.checker != nil && m.checker.Exists(candidate) {
		return false
	}
	return true
}

// fallbackMisspelling always yields something distinct from the input and
// every entry in taken: swap the first two letters of longer words, otherwise
// double a consonant, otherwise extend the word. The taken set is finite, so
// the extension loop always terminates.
func fallbackMisspelling(word string, taken map[string]bool) string {
	blocked := func(candidate string) bool {
		return taken[candidate] || hasTripleRun(candidate)
	}

	runes := []rune(word)
	if len(runes) > 4 && runes[0] != runes[1] {
		swapped := append([]rune(nil), runes...)
		swapped[0], swapped[1] = swapped[1], swapped[0]
		if !blocked(string(swapped)) {
			return string(swapped)
		}
	}
	for i := len(runes) - 1; i >= 0; i-- {
		if isVowel(runes[i]) {
			continue
		}
		// Skip letters that are already doubled so we never mint a triple run
		if (i > 0 && runes[i-1] == runes[i]) || (i < len(runes)-1 && runes[i+1] == runes[i]) {
			continue
		}
		doubled := make([]rune, 0, len(runes)+1)
		doubled = append(doubled, runes[:i+1]...)
		doubled = append(doubled, runes[i])
		doubled = append(doubled, runes[i+1:]...)
		if !blocked(string(doubled)) {
			return string(doubled)
		}
	}
	candidate := word
	for {
		r := []rune(candidate)
		last := r[len(r)-1]
		switch {
		case len(r) > 1 && r[len(r)-2] == last && last == 'e':
			candidate += "a"
		case len(r) > 1 && r[len(r)-2] == last:
			candidate += "e"
		default:
			candidate += string(last)
		}
		if !blocked(candidate) {
			return candidate
		}
	}
}

func swapIEPair(word string, _ *rand.Rand) (string, bool) {
	if i := strings.Index(word, "ie"); i >= 0 {
		return word[:i] + "ei" + word[i+2:], true
	}
	if i := strings.Index(word, "ei"); i >= 0 {
		return word[:i] + "ie" + word[i+2:], true
	}
	return "", false
}

func dropSilentE(word string, _ *rand.Rand) (string, bool) {
	if len(word) > 3 && strings.HasSuffix(word, "e") && !isVowel(rune(word[len(word)-2])) {
		return word[:len(word)-1], true
	}
	return "", false
}

// toggleDoubleConsonant removes an existing double consonant, or doubles a
// single consonant that sits between two vowels
func toggleDoubleConsonant(word string, rng *rand.Rand) (string, bool) {
	runes := []rune(word)
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] == runes[i+1] && !isVowel(runes[i]) {
			return string(runes[:i]) + string(runes[i+1:]), true
		}
	}
	var spots []int
	for i := 1; i < len(runes)-1; i++ {
		if !isVowel(runes[i]) && isVowel(runes[i-1]) && isVowel(runes[i+1]) {
			spots = append(spots, i)
		}
	}
	if len(spots) == 0 {
		return "", false
	}
	i := spots[rng.Intn(len(spots))]
	return string(runes[:i+1]) + string(runes[i]) + string(runes[i+1:]), true
}

// substituteVowel swaps one vowel for a commonly confused one
func substituteVowel(word string, rng *rand.Rand) (string, bool) {
	confusions := map[rune][]rune{
		'a': {'e', 'o'},
		'e': {'a', 'i'},
		'i': {'e', 'y'},
		'o': {'u', 'a'},
		'u': {'o', 'e'},
	}
	runes := []rune(word)
	var spots []int
	for i, r := range runes {
		if _, ok := confusions[r]; ok {
			spots = append(spots, i)
		}
	}
	if len(spots) == 0 {
		return "", false
	}
	i := spots[rng.Intn(len(spots))]
	options := confusions[runes[i]]
	runes[i] = options[rng.Intn(len(options))]
	return string(runes), true
}

// confuseSuffix applies common suffix mix-ups like -able/-ible
func confuseSuffix(word string, _ *rand.Rand) (string, bool) {
	pairs := [][2]string{
		{"able", "ible"}, {"ible", "able"},
		{"ance", "ence"}, {"ence", "ance"},
		{"ant", "ent"}, {"ent", "ant"},
		{"ary", "ery"}, {"ery", "ary"},
		{"ous", "us"},
	}
	for _, p := range pairs {
		if strings.HasSuffix(word, p[0]) && len(word) > len(p[0])+1 {
			return word[:len(word)-len(p[0])] + p[1], true
		}
	}
	return "", false
}

// softenC replaces a soft c with s (receive -> reseive)
func softenC(word string, _ *rand.Rand) (string, bool) {
	for i := 0; i < len(word)-1; i++ {
		if word[i] == 'c' && (word[i+1] == 'e' || word[i+1] == 'i') {
			return word[:i] + "s" + word[i+1:], true
		}
	}
	return "", false
}

// phoneticF swaps ph and f spellings
func phoneticF(word string, _ *rand.Rand) (string, bool) {
	if i := strings.Index(word, "ph"); i >= 0 {
		return word[:i] + "f" + word[i+2:], true
	}
	return "", false
}

func zForS(word string, _ *rand.Rand) (string, bool) {
	if i := strings.LastIndex(word, "s"); i > 0 {
		return word[:i] + "z" + word[i+1:], true
	}
	return "", false
}

func kForC(word string, _ *rand.Rand) (string, bool) {
	if i := strings.Index(word, "c"); i >= 0 {
		return word[:i] + "k" + word[i+1:], true
	}
	return "", false
}

func iForY(word string, _ *rand.Rand) (string, bool) {
	if i := strings.LastIndex(word, "y"); i >= 0 {
		return word[:i] + "i" + word[i+1:], true
	}
	return "", false
}

func dropOneLetter(word string, rng *rand.Rand) (string, bool) {
	if len(word) < 4 {
		return "", false
	}
	// Never drop the first letter; mid-word drops look like real slips
	i := 1 + rng.Intn(len(word)-2)
	return word[:i] + word[i+1:], true
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// hasTripleRun reports whether the word contains 3+ identical letters in a row
func hasTripleRun(word string) bool {
	runes := []rune(word)
	for i := 2; i < len(runes); i++ {
		if runes[i] == runes[i-1] && runes[i] == runes[i-2] {
			return true
		}
	}
	return false
}

// matchCase transfers the original word's capitalization style (all-caps,
// initial-cap or lowercase) onto the candidate
func matchCase(original, candidate string) string {
	if original == strings.ToUpper(original) && strings.ToLower(original) != original {
		return strings.ToUpper(candidate)
	}
	if len(original) > 0 && unicode.IsUpper([]rune(original)[0]) {
		runes := []rune(candidate)
		if len(runes) == 0 {
			return candidate
		}
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}
	return candidate
}
