package game

import (
	"math/rand"
	"testing"

	"spellsprint/internal/models"
)

// fakeInventory is an in-memory consumable store
type fakeInventory struct {
	counts map[string]int
	used   []string
}

func newFakeInventory(doOvers, secondChances int) *fakeInventory {
	return &fakeInventory{counts: map[string]int{
		ItemDoOver:       doOvers,
		ItemSecondChance: secondChances,
	}}
}

func (f *fakeInventory) Count(itemID string) int { return f.counts[itemID] }

func (f *fakeInventory) Use(itemID string, qty int) error {
	f.counts[itemID] -= qty
	f.used = append(f.used, itemID)
	return nil
}

func testWords(texts ...string) []models.Word {
	words := make([]models.Word, len(texts))
	for i, t := range texts {
		words[i] = models.Word{ID: int64(i + 1), WordText: t, Position: i}
	}
	return words
}

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(1))
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func TestPracticeFlow(t *testing.T) {
	e := mustEngine(t, Config{
		Mode:      ModePractice,
		Words:     testWords("cat", "dog", "bird"),
		Inventory: newFakeInventory(5, 0),
	})

	// Correct answer enters feedback and waits for an explicit advance
	res, err := e.SubmitAnswer("Cat")
	if err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	if !res.Correct || res.PointsEarned != 10 {
		t.Errorf("result = %+v, want correct with 10 points", res)
	}
	if e.Phase() != PhaseFeedback {
		t.Fatalf("phase = %v, want feedback", e.Phase())
	}
	if _, err := e.SubmitAnswer("dog"); err != ErrWrongPhase {
		t.Errorf("submit during feedback should fail with ErrWrongPhase, got %v", err)
	}
	if err := e.Advance(); err != nil {
		t.Fatalf("Advance() error: %v", err)
	}

	// Practice never offers a Do Over, even with inventory
	res, err = e.SubmitAnswer("dogg")
	if err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	if res.Correct || res.DoOverOffered {
		t.Errorf("result = %+v, want plain incorrect commit", res)
	}
	if e.Ledger().Streak != 0 {
		t.Error("streak should reset on incorrect answer")
	}
	if err := e.Advance(); err != nil {
		t.Fatalf("Advance() error: %v", err)
	}

	if _, err := e.SubmitAnswer("   "); err != ErrEmptyInput {
		t.Errorf("blank submit should fail with ErrEmptyInput, got %v", err)
	}

	if _, err := e.SubmitAnswer("bird"); err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	if err := e.Advance(); err != nil {
		t.Fatalf("Advance() error: %v", err)
	}

	if e.Phase() != PhaseComplete {
		t.Fatalf("phase = %v, want complete", e.Phase())
	}
	results := e.Results()
	if results.TotalWords != 3 || results.CorrectCount != 2 {
		t.Errorf("results = %+v, want 2/3", results)
	}
	if len(results.IncorrectWords) != 1 || results.IncorrectWords[0] != "dog" {
		t.Errorf("incorrect = %v, want [dog]", results.IncorrectWords)
	}
}

func TestPracticeSkip(t *testing.T) {
	e := mustEngine(t, Config{Mode: ModePractice, Words: testWords("cat", "dog")})

	if err := e.Skip(); err != nil {
		t.Fatalf("Skip() error: %v", err)
	}
	word, _ := e.CurrentWord()
	if word.WordText != "dog" {
		t.Errorf("current word = %q, want dog", word.WordText)
	}

	results := e.AbandonTotals()
	if results.CorrectCount != 0 || len(results.IncorrectWords) != 0 {
		t.Errorf("skip must not record results, got %+v", results)
	}
}

func TestDoOverAcceptAndDecline(t *testing.T) {
	t.Run("accept discards the miss entirely", func(t *testing.T) {
		inv := newFakeInventory(1, 0)
		e := mustEngine(t, Config{
			Mode:      ModeTimed,
			Words:     testWords("cat", "dog"),
			TimeLimit: 60,
			Inventory: inv,
		})

		// Build a streak first
		if _, err := e.SubmitAnswer("cat"); err != nil {
			t.Fatalf("SubmitAnswer() error: %v", err)
		}
		streakBefore := e.Ledger().Streak

		res, err := e.SubmitAnswer("dgo")
		if err != nil {
			t.Fatalf("SubmitAnswer() error: %v", err)
		}
		if !res.DoOverOffered {
			t.Fatal("incorrect answer with inventory should offer a Do Over")
		}
		if e.Phase() != PhaseDoOverOffer {
			t.Fatalf("phase = %v, want do_over_offer", e.Phase())
		}

		if err := e.ResolveDoOver(true); err != nil {
			t.Fatalf("ResolveDoOver() error: %v", err)
		}
		if e.Phase() != PhasePresenting {
			t.Errorf("phase = %v, want presenting (same word again)", e.Phase())
		}
		word, _ := e.CurrentWord()
		if word.WordText != "dog" {
			t.Errorf("current word = %q, want dog re-presented", word.WordText)
		}
		if e.Ledger().Streak != streakBefore {
			t.Error("accepted Do Over must not break the streak")
		}
		if len(e.Results().IncorrectWords) != 0 {
			t.Error("accepted Do Over must not record the word as incorrect")
		}
		if inv.Count(ItemDoOver) != 0 {
			t.Error("accepting should consume one do_over")
		}

		// Inventory exhausted: the next miss commits directly
		res, err = e.SubmitAnswer("dgo")
		if err != nil {
			t.Fatalf("SubmitAnswer() error: %v", err)
		}
		if res.DoOverOffered {
			t.Error("no Do Over should be offered with empty inventory")
		}
	})

	t.Run("decline commits the miss normally", func(t *testing.T) {
		inv := newFakeInventory(1, 0)
		e := mustEngine(t, Config{
			Mode:      ModeTimed,
			Words:     testWords("cat", "dog"),
			TimeLimit: 60,
			Inventory: inv,
		})

		if _, err := e.SubmitAnswer("cta"); err != nil {
			t.Fatalf("SubmitAnswer() error: %v", err)
		}
		if err := e.ResolveDoOver(false); err != nil {
			t.Fatalf("ResolveDoOver() error: %v", err)
		}

		if e.Ledger().Streak != 0 {
			t.Error("declined Do Over must reset the streak")
		}
		incorrect := e.AbandonTotals().IncorrectWords
		if len(incorrect) != 1 || incorrect[0] != "cat" {
			t.Errorf("incorrect = %v, want [cat]", incorrect)
		}
		if inv.Count(ItemDoOver) != 1 {
			t.Error("declining must not consume inventory")
		}
	})
}

func TestQuizScenario(t *testing.T) {
	// 10 words, 8 correct at 20 points each: score 160, transcript 10
	words := testWords("one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten")
	e := mustEngine(t, Config{Mode: ModeQuiz, Words: words})

	for i, w := range words {
		answer := w.WordText
		if i >= 8 {
			answer = w.WordText + "x"
		}
		if _, err := e.SubmitAnswer(answer); err != nil {
			t.Fatalf("SubmitAnswer(%d) error: %v", i, err)
		}
	}

	if e.Phase() != PhaseComplete {
		t.Fatalf("phase = %v, want complete (quiz advances without feedback)", e.Phase())
	}
	if got := len(e.Transcript()); got != 10 {
		t.Errorf("transcript length = %d, want 10", got)
	}
	results := e.Results()
	if results.Score != 160 {
		t.Errorf("score = %d, want 160 (correctCount * pointsPerWord at completion)", results.Score)
	}
	if results.Accuracy() != 80 {
		t.Errorf("accuracy = %d, want 80", results.Accuracy())
	}
}

func TestTimedExpiryCountsPresentedWord(t *testing.T) {
	words := testWords("w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9", "w10")
	e := mustEngine(t, Config{Mode: ModeTimed, Words: words, TimeLimit: 3})

	// Check five words; the sixth (index 5) is left on screen
	for i := 0; i < 5; i++ {
		if _, err := e.SubmitAnswer(words[i].WordText); err != nil {
			t.Fatalf("SubmitAnswer(%d) error: %v", i, err)
		}
	}
	if e.Index() != 5 {
		t.Fatalf("index = %d, want 5", e.Index())
	}

	e.Tick()
	e.Tick()
	if e.Phase() == PhaseComplete {
		t.Fatal("pass should not complete before the timer hits zero")
	}
	e.Tick()

	if e.Phase() != PhaseComplete {
		t.Fatal("pass should complete when the timer expires")
	}
	if got := e.Results().TotalWords; got != 6 {
		t.Errorf("totalWords = %d, want 6 (presented word counts as checked)", got)
	}
}

func TestTimedNeverEntersFeedback(t *testing.T) {
	e := mustEngine(t, Config{Mode: ModeTimed, Words: testWords("cat", "dog"), TimeLimit: 60})
	if _, err := e.SubmitAnswer("cat"); err != nil {
		t.Fatalf("SubmitAnswer() error: %v", err)
	}
	if e.Phase() != PhasePresenting {
		t.Errorf("phase = %v, timed mode must advance straight to the next word", e.Phase())
	}
}

func TestScrambleMode(t *testing.T) {
	e := mustEngine(t, Config{Mode: ModeScramble, Words: testWords("cat")})

	if _, err := e.SubmitScramble(); err != ErrScrambleIncomplete {
		t.Fatalf("submit with empty slots should fail, got %v", err)
	}

	board := e.Scramble()
	target := "cat"
	for slot := 0; slot < len(target); slot++ {
		for trayIdx, letter := range board.TrayLetters() {
			if letter == rune(target[slot]) && board.tray[trayIdx] != nil {
				board.Place(trayIdx, slot)
				break
			}
		}
	}

	res, err := e.SubmitScramble()
	if err != nil {
		t.Fatalf("SubmitScramble() error: %v", err)
	}
	if !res.Correct {
		t.Errorf("result = %+v, want correct", res)
	}
	if e.Phase() != PhaseFeedback {
		t.Errorf("phase = %v, scramble shows feedback", e.Phase())
	}
}

func TestFindMistakeRoundCaching(t *testing.T) {
	words := testWords("necessary", "receive", "rhythm", "believe", "weird")
	inv := newFakeInventory(1, 0)
	e := mustEngine(t, Config{
		Mode:       ModeFindMistake,
		Words:      words,
		Inventory:  inv,
		Misspeller: newTestMisspeller(9),
	})

	round := e.CurrentMistakeRound()
	if len(round.Choices) != 4 {
		t.Fatalf("choices = %d, want 4", len(round.Choices))
	}
	seen := map[string]bool{}
	for _, c := range round.Choices {
		if seen[c] {
			t.Errorf("duplicate choice %q within one turn", c)
		}
		seen[c] = true
	}

	// Miss deliberately, spend the Do Over, and demand the identical round
	wrongChoice := (round.MistakeIndex + 1) % len(round.Choices)
	res, err := e.SubmitChoice(wrongChoice)
	if err != nil {
		t.Fatalf("SubmitChoice() error: %v", err)
	}
	if res.Correct || !res.DoOverOffered {
		t.Fatalf("result = %+v, want incorrect with Do Over offer", res)
	}
	if err := e.ResolveDoOver(true); err != nil {
		t.Fatalf("ResolveDoOver() error: %v", err)
	}

	retry := e.CurrentMistakeRound()
	if retry != round {
		t.Error("retried word must see the cached round, not a regenerated one")
	}

	res, err = e.SubmitChoice(retry.MistakeIndex)
	if err != nil {
		t.Fatalf("SubmitChoice() error: %v", err)
	}
	if !res.Correct {
		t.Error("selecting the misspelled slot should be correct")
	}
}

func TestSecondChanceMergeLaw(t *testing.T) {
	// Original pass: 10 words, 7 correct, incorrect [a, b, c].
	// Retry fixes a and b: merged 9/10 with [c] remaining, accuracy 90.
	words := testWords("w1", "w2", "w3", "w4", "w5", "w6", "w7", "a", "b", "c")
	inv := newFakeInventory(0, 1)
	e := mustEngine(t, Config{Mode: ModeQuiz, Words: words, Inventory: inv})

	for i, w := range words {
		answer := w.WordText
		if i >= 7 {
			answer = w.WordText + "x"
		}
		if _, err := e.SubmitAnswer(answer); err != nil {
			t.Fatalf("SubmitAnswer(%d) error: %v", i, err)
		}
	}

	if !e.SecondChanceAvailable() {
		t.Fatal("2nd Chance should be available after a completed pass with misses")
	}
	if err := e.StartSecondChance(); err != nil {
		t.Fatalf("StartSecondChance() error: %v", err)
	}
	if inv.Count(ItemSecondChance) != 0 {
		t.Error("starting should consume one second_chance")
	}
	if !e.IsRetryPass() {
		t.Error("engine should be in a retry pass")
	}
	if got := len(e.Words()); got != 3 {
		t.Fatalf("retry list length = %d, want 3", got)
	}

	answers := map[string]string{"a": "a", "b": "b", "c": "cx"}
	for range e.Words() {
		word, _ := e.CurrentWord()
		if _, err := e.SubmitAnswer(answers[word.WordText]); err != nil {
			t.Fatalf("retry SubmitAnswer(%s) error: %v", word.WordText, err)
		}
	}

	if e.Phase() != PhaseComplete {
		t.Fatal("retry pass should be complete")
	}
	if e.SecondChanceAvailable() {
		t.Error("a retry pass must never offer another 2nd Chance")
	}

	merged := e.FinalMetrics()
	if merged.TotalWords != 10 {
		t.Errorf("merged total = %d, want 10 (the game was never more words)", merged.TotalWords)
	}
	if merged.CorrectCount != 9 {
		t.Errorf("merged correct = %d, want 9", merged.CorrectCount)
	}
	if len(merged.IncorrectWords) != 1 || merged.IncorrectWords[0] != "c" {
		t.Errorf("merged incorrect = %v, want [c]", merged.IncorrectWords)
	}
	if merged.Accuracy() != 90 {
		t.Errorf("merged accuracy = %d, want 90", merged.Accuracy())
	}
}

func TestSecondChanceUnattemptedWordsStayWrong(t *testing.T) {
	words := testWords("w1", "a", "b")
	inv := newFakeInventory(0, 1)
	e := mustEngine(t, Config{Mode: ModeTimed, Words: words, TimeLimit: 2, Inventory: inv})

	if _, err := e.SubmitAnswer("w1"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SubmitAnswer("ax"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SubmitAnswer("bx"); err != nil {
		t.Fatal(err)
	}
	if e.Phase() != PhaseComplete {
		t.Fatal("pass should complete by exhaustion")
	}

	if err := e.StartSecondChance(); err != nil {
		t.Fatalf("StartSecondChance() error: %v", err)
	}

	// Fix only "a"; let the fresh timer die before "b" is attempted
	if _, err := e.SubmitAnswer("a"); err != nil {
		t.Fatal(err)
	}
	e.Tick()
	e.Tick()

	if e.Phase() != PhaseComplete {
		t.Fatal("retry pass should complete on timer expiry")
	}
	merged := e.FinalMetrics()
	if merged.TotalWords != 3 {
		t.Errorf("merged total = %d, want the frozen original 3", merged.TotalWords)
	}
	if merged.CorrectCount != 2 {
		t.Errorf("merged correct = %d, want 2", merged.CorrectCount)
	}
	if len(merged.IncorrectWords) != 1 || merged.IncorrectWords[0] != "b" {
		t.Errorf("merged incorrect = %v, want [b] (never retried stays wrong)", merged.IncorrectWords)
	}
}

func TestCrosswordFlow(t *testing.T) {
	grid := &Grid{
		Rows: 5, Cols: 7,
		Entries: []GridEntry{
			{Word: "cat", Row: 0, Col: 0, Direction: Across},
			{Word: "dog", Row: 1, Col: 0, Direction: Across},
			{Word: "bird", Row: 2, Col: 0, Direction: Across},
			{Word: "fish", Row: 3, Col: 0, Direction: Across},
			{Word: "horse", Row: 4, Col: 0, Direction: Across},
		},
	}
	inv := newFakeInventory(3, 1)
	e := mustEngine(t, Config{Mode: ModeCrossword, Grid: grid, Inventory: inv})

	// 3 correct, 2 incorrect
	grid.FillEntry(0, "cat")
	grid.FillEntry(1, "dog")
	grid.FillEntry(2, "bird")
	grid.FillEntry(3, "fsh")
	grid.FillEntry(4, "hors")

	results, err := e.SubmitGrid()
	if err != nil {
		t.Fatalf("SubmitGrid() error: %v", err)
	}
	if results.TotalWords != 5 || results.CorrectCount != 3 {
		t.Errorf("results = %+v, want 3/5", results)
	}

	if err := e.StartSecondChance(); err != nil {
		t.Fatalf("StartSecondChance() error: %v", err)
	}
	if got := len(grid.Highlighted); got != 2 {
		t.Fatalf("highlighted entries = %d, want 2 (grid stays intact)", got)
	}
	for _, i := range grid.Highlighted {
		if i != 3 && i != 4 {
			t.Errorf("highlighted index %d, want only the mistaken entries", i)
		}
	}

	// Fix one of the two; already-correct entries are untouched
	grid.FillEntry(3, "fish")
	if _, err := e.SubmitGrid(); err != nil {
		t.Fatalf("retry SubmitGrid() error: %v", err)
	}

	merged := e.FinalMetrics()
	if merged.TotalWords != 5 || merged.CorrectCount != 4 {
		t.Errorf("merged = %+v, want 4/5", merged)
	}
	if len(merged.IncorrectWords) != 1 || merged.IncorrectWords[0] != "horse" {
		t.Errorf("merged incorrect = %v, want [horse]", merged.IncorrectWords)
	}
}

func TestCrosswordCompletionBonus(t *testing.T) {
	grid := &Grid{
		Entries: []GridEntry{
			{Word: "cat"}, {Word: "dog"},
		},
	}
	e := mustEngine(t, Config{Mode: ModeCrossword, Grid: grid})

	grid.FillEntry(0, "CAT")
	grid.FillEntry(1, "dog")

	results, err := e.SubmitGrid()
	if err != nil {
		t.Fatalf("SubmitGrid() error: %v", err)
	}
	// Entry scores 20 then 25 with the streak bonus, plus the 40 point
	// completion bonus for a fully correct grid
	if results.Score != 85 {
		t.Errorf("score = %d, want 85", results.Score)
	}
	if results.CorrectCount != 2 || len(results.IncorrectWords) != 0 {
		t.Errorf("results = %+v, want a perfect 2/2", results)
	}
}
