package game

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/samber/lo"

	"spellsprint/internal/models"
)

var (
	// ErrWrongPhase signals a turn action attempted outside its valid phase
	ErrWrongPhase = errors.New("action not valid in current phase")
	// ErrWrongMode signals a submit path that does not match the engine's mode
	ErrWrongMode = errors.New("action not valid for this game mode")
	// ErrScrambleIncomplete rejects a scramble submit before all slots are filled
	ErrScrambleIncomplete = errors.New("scramble slots are not all filled")
	// ErrEmptyInput rejects a blank spelling attempt
	ErrEmptyInput = errors.New("answer must not be empty")
	// ErrNoSecondChance signals an unavailable 2nd Chance request
	ErrNoSecondChance = errors.New("2nd chance is not available")
)

// TurnResult is the outcome of one evaluated turn
type TurnResult struct {
	WordText      string
	Input         string
	Correct       bool
	PointsEarned  int
	DoOverOffered bool
}

// Answer is one entry in the quiz transcript
type Answer struct {
	WordText string
	Input    string
	Correct  bool
}

// PassMetrics are the totals of one pass through an active word list
type PassMetrics struct {
	TotalWords     int
	CorrectCount   int
	BestStreak     int
	Score          int
	IncorrectWords []string
}

// Accuracy returns the pass accuracy as a rounded percentage
func (m PassMetrics) Accuracy() int {
	if m.TotalWords == 0 {
		return 0
	}
	return int(float64(m.CorrectCount)/float64(m.TotalWords)*100 + 0.5)
}

// Config assembles an engine for one game
type Config struct {
	Mode  Mode
	Words []models.Word // already shuffled by the caller
	Grid  *Grid         // crossword only, built by the external grid builder

	TimeLimit int // seconds, timed mode only

	Inventory  Inventory
	Misspeller *Misspeller // find-the-mistake only
	Rng        *rand.Rand
}

// Engine drives one gameplay session through its turns. It is not safe for
// concurrent use; callers serialize access per player.
type Engine struct {
	mode  Mode
	words []models.Word
	index int
	phase Phase

	ledger     Ledger
	incorrect  []string // word texts in commit order, may repeat across passes
	corrected  []string // word texts committed correct, used by the retry merge
	transcript []Answer // quiz only

	lastResult *TurnResult
	pending    *TurnResult // held while a Do Over offer is open

	timeLimit  int
	timeLeft   int
	totalWords int // effective total, set when the pass completes

	scramble *ScrambleBoard
	mistakes map[string]*MistakeRound
	grid     *Grid

	retryPass bool
	original  *PassMetrics // snapshot taken when a 2nd Chance begins

	inventory  Inventory
	misspeller *Misspeller
	rng        *rand.Rand
}

// New validates the config and prepares the first turn
func New(cfg Config) (*Engine, error) {
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeCrossword {
		if cfg.Grid == nil || len(cfg.Grid.Entries) == 0 {
			return nil, errors.New("crossword mode requires a built grid")
		}
	} else if len(cfg.Words) == 0 {
		return nil, errors.New("game requires at least one word")
	}
	if cfg.Mode == ModeFindMistake && cfg.Misspeller == nil {
		return nil, errors.New("find-the-mistake mode requires a misspeller")
	}

	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		mode:       cfg.Mode,
		words:      cfg.Words,
		phase:      PhasePresenting,
		timeLimit:  cfg.TimeLimit,
		timeLeft:   cfg.TimeLimit,
		grid:       cfg.Grid,
		mistakes:   make(map[string]*MistakeRound),
		inventory:  cfg.Inventory,
		misspeller: cfg.Misspeller,
		rng:        rng,
	}
	e.prepareTurn()
	return e, nil
}

// Mode returns the engine's game mode
func (e *Engine) Mode() Mode { return e.mode }

// Phase returns the current turn phase
func (e *Engine) Phase() Phase { return e.phase }

// IsRetryPass reports whether a 2nd Chance pass is running
func (e *Engine) IsRetryPass() bool { return e.retryPass }

// TimeLeft returns the remaining seconds in timed mode
func (e *Engine) TimeLeft() int { return e.timeLeft }

// Index returns the zero-based position in the active word list
func (e *Engine) Index() int { return e.index }

// WordCount returns the length of the active word list
func (e *Engine) WordCount() int {
	if e.mode == ModeCrossword {
		return len(e.grid.Entries)
	}
	return len(e.words)
}

// CurrentWord returns the word being presented
func (e *Engine) CurrentWord() (models.Word, bool) {
	if e.mode == ModeCrossword || e.index >= len(e.words) {
		return models.Word{}, false
	}
	return e.words[e.index], true
}

// Words returns the active word list
func (e *Engine) Words() []models.Word { return e.words }

// Scramble returns the current scramble board, nil outside scramble mode
func (e *Engine) Scramble() *ScrambleBoard { return e.scramble }

// Grid returns the crossword grid, nil outside crossword mode
func (e *Engine) Grid() *Grid { return e.grid }

// Transcript returns the quiz answer transcript
func (e *Engine) Transcript() []Answer { return e.transcript }

// LastResult returns the most recent evaluated result, nil right after a
// turn begins or a Do Over is accepted
func (e *Engine) LastResult() *TurnResult { return e.lastResult }

// Ledger exposes the running scoring state
func (e *Engine) Ledger() Ledger { return e.ledger }

// CurrentMistakeRound returns the cached choice set for the word being
// presented, generating it on first sight
func (e *Engine) CurrentMistakeRound() *MistakeRound {
	if e.mode != ModeFindMistake {
		return nil
	}
	word, ok := e.CurrentWord()
	if !ok {
		return nil
	}
	return e.mistakeRoundFor(word.WordText)
}

func (e *Engine) mistakeRoundFor(word string) *MistakeRound {
	key := strings.ToLower(word)
	if round, ok := e.mistakes[key]; ok {
		return round
	}
	pool := lo.Map(e.words, func(w models.Word, _ int) string { return w.WordText })
	round := newMistakeRound(word, pool, e.misspeller, e.rng)
	e.mistakes[key] = round
	return round
}

// prepareTurn sets up mode-specific state for the word being presented
func (e *Engine) prepareTurn() {
	switch e.mode {
	case ModeScramble:
		if word, ok := e.CurrentWord(); ok {
			e.scramble = NewScrambleBoard(word.WordText, e.rng)
		}
	case ModeFindMistake:
		if word, ok := e.CurrentWord(); ok {
			e.mistakeRoundFor(word.WordText)
		}
	}
}

// SubmitAnswer evaluates a typed spelling attempt (practice, timed, quiz)
func (e *Engine) SubmitAnswer(input string) (*TurnResult, error) {
	switch e.mode {
	case ModePractice, ModeTimed, ModeQuiz:
	default:
		return nil, ErrWrongMode
	}
	if e.phase != PhasePresenting {
		return nil, ErrWrongPhase
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	word, _ := e.CurrentWord()
	correct := strings.EqualFold(trimmed, strings.TrimSpace(word.WordText))
	return e.resolve(TurnResult{WordText: word.WordText, Input: trimmed, Correct: correct}), nil
}

// SubmitScramble evaluates the scramble board. Only reachable once every
// slot is filled.
func (e *Engine) SubmitScramble() (*TurnResult, error) {
	if e.mode != ModeScramble {
		return nil, ErrWrongMode
	}
	if e.phase != PhasePresenting {
		return nil, ErrWrongPhase
	}
	if !e.scramble.Filled() {
		return nil, ErrScrambleIncomplete
	}

	word, _ := e.CurrentWord()
	return e.resolve(TurnResult{
		WordText: word.WordText,
		Input:    e.scramble.Attempt(),
		Correct:  e.scramble.Solved(),
	}), nil
}

// SubmitChoice evaluates a find-the-mistake selection
func (e *Engine) SubmitChoice(choiceIndex int) (*TurnResult, error) {
	if e.mode != ModeFindMistake {
		return nil, ErrWrongMode
	}
	if e.phase != PhasePresenting {
		return nil, ErrWrongPhase
	}
	round := e.CurrentMistakeRound()
	if round == nil || choiceIndex < 0 || choiceIndex >= len(round.Choices) {
		return nil, errors.New("invalid choice index")
	}

	word, _ := e.CurrentWord()
	return e.resolve(TurnResult{
		WordText: word.WordText,
		Input:    round.Choices[choiceIndex],
		Correct:  choiceIndex == round.MistakeIndex,
	}), nil
}

// SubmitGrid evaluates every crossword entry and completes the pass
func (e *Engine) SubmitGrid() (PassMetrics, error) {
	if e.mode != ModeCrossword {
		return PassMetrics{}, ErrWrongMode
	}
	if e.phase != PhasePresenting {
		return PassMetrics{}, ErrWrongPhase
	}

	highlighted := e.grid.Highlighted
	e.grid.Evaluate()

	if !e.retryPass {
		for i := range e.grid.Entries {
			if e.grid.Entries[i].Correct {
				e.ledger.RecordCorrect(Points(ModeCrossword))
			} else {
				e.ledger.RecordIncorrect()
			}
		}
	} else {
		// Retry scoring covers only the entries the pass reopened
		for _, i := range highlighted {
			if e.grid.Entries[i].Correct {
				e.ledger.RecordCorrect(Points(ModeCrossword))
			} else {
				e.ledger.RecordIncorrect()
			}
		}
	}

	if len(e.grid.IncorrectEntries()) == 0 {
		e.ledger.AddBonus(Points(ModeCrossword) * 2)
	}

	e.incorrect = e.grid.IncorrectWords()
	e.complete(len(e.grid.Entries))
	return e.Results(), nil
}

// resolve routes an evaluated result through the Do Over interception point
func (e *Engine) resolve(res TurnResult) *TurnResult {
	if !res.Correct && e.doOverAvailable() {
		res.DoOverOffered = true
		e.pending = &res
		e.lastResult = &res
		e.phase = PhaseDoOverOffer
		return &res
	}
	e.commit(res)
	return e.lastResult
}

func (e *Engine) doOverAvailable() bool {
	return e.mode.supportsDoOver() && e.inventory != nil && e.inventory.Count(ItemDoOver) > 0
}

// commit records a result in the ledger and moves the state machine on
func (e *Engine) commit(res TurnResult) {
	if res.Correct {
		if e.mode == ModeQuiz {
			// Quiz scoring is deferred to Complete; counts still accrue
			e.ledger.CorrectCount++
			e.ledger.Streak++
			if e.ledger.Streak > e.ledger.BestStreak {
				e.ledger.BestStreak = e.ledger.Streak
			}
		} else {
			res.PointsEarned = e.ledger.RecordCorrect(Points(e.mode))
		}
		e.corrected = append(e.corrected, res.WordText)
	} else {
		e.ledger.RecordIncorrect()
		e.incorrect = append(e.incorrect, res.WordText)
	}

	if e.mode == ModeQuiz {
		e.transcript = append(e.transcript, Answer{
			WordText: res.WordText,
			Input:    res.Input,
			Correct:  res.Correct,
		})
	}

	e.lastResult = &res
	e.pending = nil

	if e.mode.hasLiveFeedback() {
		e.phase = PhaseFeedback
	} else {
		e.advanceTurn()
	}
}

// Advance leaves the feedback phase for the next word
func (e *Engine) Advance() error {
	if e.phase != PhaseFeedback {
		return ErrWrongPhase
	}
	e.advanceTurn()
	return nil
}

// Skip moves past the current word without recording a result. Practice
// mode only: skipping never affects score or the incorrect list.
func (e *Engine) Skip() error {
	if e.mode != ModePractice {
		return ErrWrongMode
	}
	if e.phase != PhasePresenting {
		return ErrWrongPhase
	}
	e.advanceTurn()
	return nil
}

func (e *Engine) advanceTurn() {
	e.index++
	if e.index >= len(e.words) {
		e.complete(len(e.words))
		return
	}
	e.phase = PhasePresenting
	e.lastResult = nil
	e.prepareTurn()
}

// Tick advances the timed-mode countdown by one second. At zero the pass
// completes and the word being presented counts as checked.
func (e *Engine) Tick() {
	if e.mode != ModeTimed || e.phase == PhaseComplete {
		return
	}
	if e.timeLeft > 0 {
		e.timeLeft--
	}
	if e.timeLeft > 0 {
		return
	}

	// An open Do Over offer dies with the timer; the miss it was holding
	// is committed as incorrect
	if e.pending != nil {
		e.ledger.RecordIncorrect()
		e.incorrect = append(e.incorrect, e.pending.WordText)
		e.pending = nil
	}

	total := e.index + 1
	if total > len(e.words) {
		total = len(e.words)
	}
	e.complete(total)
}

// complete finishes the pass exactly once
func (e *Engine) complete(total int) {
	if e.phase == PhaseComplete {
		return
	}
	e.phase = PhaseComplete
	e.totalWords = total
	if e.mode == ModeQuiz {
		e.ledger.Score = e.ledger.CorrectCount * Points(ModeQuiz)
	}
}

// ResolveDoOver settles an open Do Over offer. Accepting consumes one
// do_over, discards the held miss entirely and re-presents the same word;
// declining commits it normally.
func (e *Engine) ResolveDoOver(accept bool) error {
	if e.phase != PhaseDoOverOffer || e.pending == nil {
		return ErrWrongPhase
	}
	if !accept {
		e.commit(*e.pending)
		return nil
	}

	// Consumed optimistically; the inventory service reconciles failures
	_ = e.inventory.Use(ItemDoOver, 1)

	e.pending = nil
	e.lastResult = nil
	e.phase = PhasePresenting
	e.prepareTurn()
	return nil
}

// distinctIncorrect preserves first-seen order
func (e *Engine) distinctIncorrect() []string {
	return lo.Uniq(e.incorrect)
}

// Results returns the totals of the current pass. Valid once Complete.
func (e *Engine) Results() PassMetrics {
	return PassMetrics{
		TotalWords:     e.totalWords,
		CorrectCount:   e.ledger.CorrectCount,
		BestStreak:     e.ledger.BestStreak,
		Score:          e.ledger.Score,
		IncorrectWords: e.distinctIncorrect(),
	}
}

// AbandonTotals computes the best-effort partial totals recorded when a
// player exits before Complete.
func (e *Engine) AbandonTotals() PassMetrics {
	attempted := e.index
	if e.phase == PhaseFeedback || e.phase == PhaseDoOverOffer {
		attempted++
	}
	committed := e.ledger.CorrectCount + len(e.distinctIncorrect())
	total := attempted
	if committed > total {
		total = committed
	}
	return PassMetrics{
		TotalWords:     total,
		CorrectCount:   e.ledger.CorrectCount,
		BestStreak:     e.ledger.BestStreak,
		Score:          e.ledger.Score,
		IncorrectWords: e.distinctIncorrect(),
	}
}

// SecondChanceAvailable reports whether a 2nd Chance can be offered: the
// pass is complete with at least one miss, this is not already a retry
// pass, and the player owns the consumable.
func (e *Engine) SecondChanceAvailable() bool {
	return e.phase == PhaseComplete &&
		!e.retryPass &&
		len(e.distinctIncorrect()) > 0 &&
		e.inventory != nil &&
		e.inventory.Count(ItemSecondChance) > 0
}

// StartSecondChance consumes one second_chance, snapshots the original
// pass's totals and restarts the engine over only the missed items. For
// crossword the same grid is reopened with the mistaken entries
// highlighted instead of building a reduced list.
func (e *Engine) StartSecondChance() error {
	if !e.SecondChanceAvailable() {
		return ErrNoSecondChance
	}

	// Consumed optimistically; the inventory service reconciles failures
	_ = e.inventory.Use(ItemSecondChance, 1)

	snapshot := e.Results()
	e.original = &snapshot

	if e.mode == ModeCrossword {
		e.grid.Highlighted = e.grid.IncorrectEntries()
	} else {
		missed := make(map[string]bool, len(snapshot.IncorrectWords))
		for _, w := range snapshot.IncorrectWords {
			missed[strings.ToLower(w)] = true
		}
		e.words = lo.Filter(e.words, func(w models.Word, _ int) bool {
			return missed[strings.ToLower(w.WordText)]
		})
	}

	e.index = 0
	e.ledger.Reset()
	e.incorrect = nil
	e.corrected = nil
	e.transcript = nil
	e.lastResult = nil
	e.pending = nil
	e.timeLeft = e.timeLimit
	e.totalWords = 0
	e.retryPass = true
	e.phase = PhasePresenting
	e.prepareTurn()
	return nil
}

// OriginalMetrics returns the snapshot taken when the 2nd Chance began
func (e *Engine) OriginalMetrics() *PassMetrics { return e.original }

// FinalMetrics returns the totals to persist for the pass that just
// completed. For a retry pass the original snapshot is merged in: the total
// never grows, the retry's corrections add on, and only words still wrong
// after the retry remain incorrect.
func (e *Engine) FinalMetrics() PassMetrics {
	if !e.retryPass || e.original == nil {
		return e.Results()
	}

	if e.mode == ModeCrossword {
		// The grid re-evaluates every entry on submit, so its counts are
		// already merged totals
		correct := 0
		for i := range e.grid.Entries {
			if e.grid.Entries[i].Correct {
				correct++
			}
		}
		return PassMetrics{
			TotalWords:     len(e.grid.Entries),
			CorrectCount:   correct,
			BestStreak:     maxInt(e.original.BestStreak, e.ledger.BestStreak),
			Score:          e.original.Score + e.ledger.Score,
			IncorrectWords: e.grid.IncorrectWords(),
		}
	}

	retry := e.Results()

	// A word stays incorrect unless the retry actually fixed it; retry
	// words never reached (timer expiry, skip) remain wrong
	fixed := make(map[string]bool, len(e.corrected))
	for _, w := range e.corrected {
		fixed[strings.ToLower(w)] = true
	}
	stillWrong := make([]string, 0, len(e.words))
	for _, w := range e.words {
		if !fixed[strings.ToLower(w.WordText)] {
			stillWrong = append(stillWrong, w.WordText)
		}
	}

	return PassMetrics{
		TotalWords:     e.original.TotalWords,
		CorrectCount:   e.original.CorrectCount + retry.CorrectCount,
		BestStreak:     maxInt(e.original.BestStreak, retry.BestStreak),
		Score:          e.original.Score + retry.Score,
		IncorrectWords: stillWrong,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
