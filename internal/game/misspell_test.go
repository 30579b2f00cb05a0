package game

import (
	"math/rand"
	"strings"
	"testing"
)

// fakeChecker answers Exists from a fixed dictionary
type fakeChecker struct {
	words map[string]bool
}

func (c *fakeChecker) Exists(word string) bool {
	return c.words[word]
}

func newTestMisspeller(seed int64, dictionary ...string) *Misspeller {
	words := make(map[string]bool, len(dictionary))
	for _, w := range dictionary {
		words[strings.ToLower(w)] = true
	}
	return NewMisspeller(&fakeChecker{words: words}, rand.New(rand.NewSource(seed)))
}

func TestGenerateNeverReproducesWord(t *testing.T) {
	words := []string{
		"necessary", "receive", "rhythm", "beautiful", "definitely",
		"separate", "believe", "weird", "accommodate", "occurrence",
		"cat", "dog", "a", "zz", "buzz", "LLAMA", "Science",
	}

	for _, word := range words {
		t.Run(word, func(t *testing.T) {
			m := newTestMisspeller(42, words...)
			siblings := make([]string, 0, len(words)-1)
			for _, w := range words {
				if w != word {
					siblings = append(siblings, w)
				}
			}

			for i := 0; i < 50; i++ {
				got := m.Generate(word, siblings)
				lower := strings.ToLower(got)

				if lower == strings.ToLower(word) {
					t.Fatalf("Generate(%q) reproduced the original", word)
				}
				for _, s := range siblings {
					if lower == strings.ToLower(s) {
						t.Fatalf("Generate(%q) = %q collides with sibling %q", word, got, s)
					}
				}
				if hasTripleRun(lower) {
					t.Fatalf("Generate(%q) = %q contains a 3+ letter run", word, got)
				}
			}
		})
	}
}

func TestGenerateAvoidsRealWords(t *testing.T) {
	// "recieve" would be the obvious ie/ei swap; a dictionary that claims it
	// is a real word forces the generator onto another strategy
	m := newTestMisspeller(7, "receive", "recieve")

	for i := 0; i < 30; i++ {
		got := strings.ToLower(m.Generate("receive", nil))
		if got == "recieve" || got == "receive" {
			t.Fatalf("Generate picked a known dictionary word: %q", got)
		}
	}
}

func TestGeneratePreservesCapitalization(t *testing.T) {
	tests := []struct {
		name  string
		word  string
		check func(string) bool
	}{
		{"all caps stays all caps", "RHYTHM", func(s string) bool {
			return s == strings.ToUpper(s)
		}},
		{"initial cap stays initial cap", "Science", func(s string) bool {
			return s[:1] == strings.ToUpper(s[:1]) && s[1:] == strings.ToLower(s[1:])
		}},
		{"lowercase stays lowercase", "believe", func(s string) bool {
			return s == strings.ToLower(s)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMisspeller(11)
			for i := 0; i < 20; i++ {
				got := m.Generate(tt.word, nil)
				if !tt.check(got) {
					t.Fatalf("Generate(%q) = %q broke capitalization style", tt.word, got)
				}
			}
		})
	}
}

func TestFallbackMisspelling(t *testing.T) {
	tests := []struct {
		word     string
		expected string
	}{
		{"necessary", "encessary"}, // swap first two letters
		{"cat", "catt"},            // double last consonant
		{"buzz", "bbuzz"},          // never double into a triple run
		{"a", "aa"},                // all vowels: duplicate final letter
		{"llama", "llamma"},        // identical leading pair: fall through to doubling
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := fallbackMisspelling(tt.word, nil)
			if got != tt.expected {
				t.Errorf("fallbackMisspelling(%q) = %q, want %q", tt.word, got, tt.expected)
			}
			if hasTripleRun(got) {
				t.Errorf("fallbackMisspelling(%q) = %q contains a triple run", tt.word, got)
			}
		})
	}
}

func TestFallbackAvoidsTakenWords(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		taken    []string
		expected string
	}{
		{"doubled form taken", "cat", []string{"cat", "catt"}, "ccat"},
		{"swap taken", "necessary", []string{"necessary", "encessary"}, "necessaryy"},
		{"every doubling taken", "cat", []string{"cat", "catt", "ccat"}, "catte"},
		{"extension chain", "a", []string{"a", "aa"}, "aae"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken := make(map[string]bool, len(tt.taken))
			for _, w := range tt.taken {
				taken[w] = true
			}
			got := fallbackMisspelling(tt.word, taken)
			if got != tt.expected {
				t.Errorf("fallbackMisspelling(%q) = %q, want %q", tt.word, got, tt.expected)
			}
			if taken[got] {
				t.Errorf("fallbackMisspelling(%q) = %q collides with a taken word", tt.word, got)
			}
		})
	}
}

func TestGenerateFallbackNeverCollidesWithSiblings(t *testing.T) {
	// A dictionary that claims every mutation output is a real word forces
	// Generate onto the fallback path; siblings seeded with the fallback's
	// first choices must still never be returned
	m := NewMisspeller(allWordsChecker{}, rand.New(rand.NewSource(3)))

	siblings := []string{"catt", "ccat", "catte"}
	for i := 0; i < 20; i++ {
		got := strings.ToLower(m.Generate("cat", siblings))
		if got == "cat" {
			t.Fatal("Generate reproduced the original")
		}
		for _, s := range siblings {
			if got == s {
				t.Fatalf("Generate fallback returned sibling %q", s)
			}
		}
	}
}

// allWordsChecker claims every spelling is a real word
type allWordsChecker struct{}

func (allWordsChecker) Exists(string) bool { return true }

func TestHasTripleRun(t *testing.T) {
	tests := []struct {
		word     string
		expected bool
	}{
		{"bookkeeper", false},
		{"committee", false},
		{"buzzz", true},
		{"aaa", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := hasTripleRun(tt.word); got != tt.expected {
			t.Errorf("hasTripleRun(%q) = %v, want %v", tt.word, got, tt.expected)
		}
	}
}
