package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"spellsprint/internal/config"
	"spellsprint/internal/game"
	"spellsprint/internal/models"
	"spellsprint/internal/repository"
)

var (
	// ErrNoActiveGame signals a play request without a running game
	ErrNoActiveGame = errors.New("no active game")
	// ErrGameNotComplete signals a results request before the pass finished
	ErrGameNotComplete = errors.New("game is not complete")
	// ErrListNotFound signals a start request against a missing word list
	ErrListNotFound = errors.New("word list not found")
)

// timedStarTarget is the correct-word floor for a star in timed mode
const timedStarTarget = 10

// ActiveGame binds a running engine to its player and persisted session
type ActiveGame struct {
	Engine     *game.Engine
	Session    *models.GameSession // nil for virtual lists
	PlayerID   string
	PlayerName string
	ListName   string
	Virtual    bool
	WordMeta   map[string]models.WordMeta // dictionary enrichment, lowercase-keyed

	done          chan struct{} // stops the current pass's timed-mode ticker
	finalized     bool          // the current pass's totals are durably recorded
	leaderboardID int64         // leaderboard row written by the first finalize
}

// ResultsView is the results-screen payload for a completed pass
type ResultsView struct {
	Mode                  string
	Metrics               game.PassMetrics
	Original              *game.PassMetrics
	IsRetryPass           bool
	SecondChanceAvailable bool
	StarEarned            bool
}

// GameService bridges the gameplay engine to persistence. It owns the
// per-player active game table; engine access is serialized through its lock.
type GameService struct {
	cfg         *config.Config
	sessions    *repository.SessionRepository
	lists       *ListService
	inventory   *InventoryService
	leaderboard *repository.LeaderboardRepository
	dictionary  *DictionaryService
	email       *EmailService
	grids       game.GridBuilder

	mu     sync.Mutex
	active map[string]*ActiveGame
}

// NewGameService creates the game lifecycle service
func NewGameService(
	cfg *config.Config,
	sessions *repository.SessionRepository,
	lists *ListService,
	inventory *InventoryService,
	leaderboard *repository.LeaderboardRepository,
	dictionary *DictionaryService,
	email *EmailService,
	grids game.GridBuilder,
) *GameService {
	return &GameService{
		cfg:         cfg,
		sessions:    sessions,
		lists:       lists,
		inventory:   inventory,
		leaderboard: leaderboard,
		dictionary:  dictionary,
		email:       email,
		grids:       grids,
		active:      make(map[string]*ActiveGame),
	}
}

// Start begins a game over a stored word list. An already running game for
// the player is closed out first, recording its partial totals.
func (s *GameService) Start(playerID, playerName string, listID int64, modeStr string) (*ActiveGame, error) {
	mode, err := game.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.GetList(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}

	words, err := s.lists.GetListWords(listID)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %q is empty", list.Name)
	}

	return s.begin(playerID, playerName, list.Name, &listID, words, mode)
}

// StartVirtual begins a game over an ad-hoc word set that has no stored
// list. No session row is created and nothing reaches the leaderboard.
func (s *GameService) StartVirtual(playerID, playerName, listName string, wordTexts []string, modeStr string) (*ActiveGame, error) {
	mode, err := game.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	wordTexts = lo.Filter(wordTexts, func(w string, _ int) bool {
		return strings.TrimSpace(w) != ""
	})
	if len(wordTexts) == 0 {
		return nil, errors.New("virtual list requires at least one word")
	}

	words := lo.Map(wordTexts, func(w string, i int) models.Word {
		return models.Word{WordText: strings.TrimSpace(w), Position: i}
	})
	return s.begin(playerID, playerName, "virtual:"+listName, nil, words, mode)
}

func (s *GameService) begin(playerID, playerName, listName string, listID *int64, words []models.Word, mode game.Mode) (*ActiveGame, error) {
	// Close out a game left running; its partial totals are recorded
	if _, err := s.Exit(playerID); err != nil && !errors.Is(err, ErrNoActiveGame) {
		log.Printf("Failed to close previous game for player %s: %v", playerID, err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	shuffled := make([]models.Word, len(words))
	copy(shuffled, words)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	meta := s.enrichWords(shuffled)

	engineCfg := game.Config{
		Mode:      mode,
		Words:     shuffled,
		Inventory: s.inventory.ForPlayer(playerID),
		Rng:       rng,
	}

	switch mode {
	case game.ModeTimed:
		engineCfg.TimeLimit = s.cfg.TimedModeSeconds
	case game.ModeFindMistake:
		engineCfg.Misspeller = game.NewMisspeller(s.dictionary, rng)
	case game.ModeCrossword:
		grid, err := s.buildGrid(shuffled)
		if err != nil {
			return nil, err
		}
		engineCfg.Grid = grid
	}

	engine, err := game.New(engineCfg)
	if err != nil {
		return nil, err
	}

	ag := &ActiveGame{
		Engine:     engine,
		PlayerID:   playerID,
		PlayerName: playerName,
		ListName:   listName,
		Virtual:    listID == nil,
		WordMeta:   meta,
		done:       make(chan struct{}),
	}

	if listID != nil {
		session, err := s.sessions.CreateSession(uuid.NewString(), playerID, listID, string(mode), engine.WordCount())
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		ag.Session = session
	}

	s.mu.Lock()
	s.active[playerID] = ag
	s.mu.Unlock()

	if mode == game.ModeTimed {
		go s.runTimer(playerID, ag, ag.done)
	}
	return ag, nil
}

// enrichWords attaches dictionary metadata to the pass's words, best effort.
// Stored words missing an example sentence pick one up in memory for this
// pass; a confirmed dictionary hit is also written back so the next game
// starts enriched.
func (s *GameService) enrichWords(words []models.Word) map[string]models.WordMeta {
	metas := make(map[string]models.WordMeta, len(words))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := range words {
		w := &words[i]
		meta := s.dictionary.Lookup(ctx, w.WordText)
		metas[strings.ToLower(w.WordText)] = meta

		hadSentence := w.SentenceExample != ""
		if !hadSentence {
			w.SentenceExample = meta.Example
		}
		if w.PartOfSpeech == "" {
			w.PartOfSpeech = meta.PartOfSpeech
		}

		// Only a real dictionary answer is persisted; lookup failures leave
		// the row untouched so a later game can try again
		if w.ID != 0 && !hadSentence && meta.Definition != "" {
			if err := s.lists.EnrichWord(w.ID, meta); err != nil {
				log.Printf("Failed to store word metadata for %q: %v", w.WordText, err)
			}
		}
	}
	return metas
}

// RecordWordAudio stores the cached audio filename on a stored word
func (s *GameService) RecordWordAudio(wordID int64, filename string) error {
	return s.lists.RecordWordAudio(wordID, filename)
}

// buildGrid assembles the crossword grid, using dictionary definitions as
// clues where available
func (s *GameService) buildGrid(words []models.Word) (*game.Grid, error) {
	texts := make([]string, len(words))
	clues := make([]string, len(words))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i, w := range words {
		texts[i] = w.WordText
		meta := s.dictionary.Lookup(ctx, w.WordText)
		clues[i] = meta.Definition
	}

	grid, err := s.grids.BuildGrid(texts, clues)
	if err != nil {
		return nil, fmt.Errorf("failed to build crossword grid: %w", err)
	}
	return grid, nil
}

// runTimer drives one timed pass's countdown. Each pass gets its own done
// channel, so a 2nd Chance retry can retire the previous ticker before its
// replacement starts; without that a stale ticker would drain the retry
// clock at double speed.
func (s *GameService) runTimer(playerID string, ag *ActiveGame, done chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			select {
			case <-done:
				// Retired while waiting for the lock
				s.mu.Unlock()
				return
			default:
			}
			if s.active[playerID] != ag {
				s.mu.Unlock()
				return
			}
			ag.Engine.Tick()
			complete := ag.Engine.Phase() == game.PhaseComplete
			if complete {
				s.maybeFinalizeLocked(ag)
			}
			s.mu.Unlock()
			if complete {
				return
			}
		}
	}
}

// WithActive runs fn against the player's active game under the service
// lock. A pass that just completed finalizes immediately; otherwise the
// crash-recovery snapshot is saved best effort.
func (s *GameService) WithActive(playerID string, fn func(*ActiveGame) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ag, ok := s.active[playerID]
	if !ok {
		return ErrNoActiveGame
	}
	if err := fn(ag); err != nil {
		return err
	}
	if ag.Engine.Phase() == game.PhaseComplete {
		s.maybeFinalizeLocked(ag)
	} else {
		s.saveProgressLocked(ag)
	}
	return nil
}

// maybeFinalizeLocked durably records a completed pass exactly once. The
// finalized flag resets when a 2nd Chance opens a new pass, so the retry's
// merged totals finalize again over the same rows.
func (s *GameService) maybeFinalizeLocked(ag *ActiveGame) {
	if ag.finalized || ag.Engine.Phase() != game.PhaseComplete {
		return
	}
	s.finalize(ag, ag.Engine.FinalMetrics())
	ag.finalized = true
}

// saveProgressLocked persists the crash-recovery snapshot. Failures log and
// continue: gameplay never blocks on the snapshot.
func (s *GameService) saveProgressLocked(ag *ActiveGame) {
	if ag.Session == nil {
		return
	}

	engine := ag.Engine
	ledger := engine.Ledger()
	partial := engine.AbandonTotals()
	order := lo.Map(engine.Words(), func(w models.Word, _ int) string { return w.WordText })

	snapshot := &models.GameProgress{
		PlayerID:       ag.PlayerID,
		SessionID:      ag.Session.ID,
		Mode:           string(engine.Mode()),
		CurrentIndex:   engine.Index(),
		CorrectCount:   ledger.CorrectCount,
		Score:          ledger.Score,
		Streak:         ledger.Streak,
		BestStreak:     ledger.BestStreak,
		IncorrectWords: partial.IncorrectWords,
		WordOrder:      strings.Join(order, ","),
	}
	if err := s.sessions.SaveProgressSnapshot(snapshot); err != nil {
		log.Printf("Failed to save progress snapshot for player %s: %v", ag.PlayerID, err)
	}
}

// StartSecondChance restarts the player's completed game over its missed
// words
func (s *GameService) StartSecondChance(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ag, ok := s.active[playerID]
	if !ok {
		return ErrNoActiveGame
	}

	// The original pass's totals go durable before the retry can touch them
	s.maybeFinalizeLocked(ag)

	if err := ag.Engine.StartSecondChance(); err != nil {
		return err
	}
	ag.finalized = false

	if ag.Engine.Mode() == game.ModeTimed {
		close(ag.done)
		ag.done = make(chan struct{})
		go s.runTimer(playerID, ag, ag.done)
	}
	s.saveProgressLocked(ag)
	return nil
}

// Results returns the results-screen view for a completed pass
func (s *GameService) Results(playerID string) (*ResultsView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ag, ok := s.active[playerID]
	if !ok {
		return nil, ErrNoActiveGame
	}
	engine := ag.Engine
	if engine.Phase() != game.PhaseComplete {
		return nil, ErrGameNotComplete
	}

	metrics := engine.FinalMetrics()
	return &ResultsView{
		Mode:                  string(engine.Mode()),
		Metrics:               metrics,
		Original:              engine.OriginalMetrics(),
		IsRetryPass:           engine.IsRetryPass(),
		SecondChanceAvailable: engine.SecondChanceAvailable(),
		StarEarned:            s.starEarned(engine.Mode(), metrics),
	}, nil
}

// Exit closes out the player's game. A completed pass finalizes with its
// merged totals; an unfinished first pass records partial totals as
// abandoned. Walking out of a 2nd Chance retry leaves the already-finalized
// original result standing.
func (s *GameService) Exit(playerID string) (game.PassMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ag, ok := s.active[playerID]
	if !ok {
		return game.PassMetrics{}, ErrNoActiveGame
	}

	delete(s.active, playerID)
	close(ag.done)

	engine := ag.Engine
	if engine.Phase() == game.PhaseComplete {
		metrics := engine.FinalMetrics()
		s.maybeFinalizeLocked(ag)
		return metrics, nil
	}

	if engine.IsRetryPass() {
		if ag.Session != nil {
			s.deleteSnapshot(playerID)
		}
		if original := engine.OriginalMetrics(); original != nil {
			return *original, nil
		}
		return engine.AbandonTotals(), nil
	}

	metrics := engine.AbandonTotals()
	if ag.Session != nil {
		err := s.sessions.UpdateProgress(ag.Session.ID, metrics.TotalWords,
			metrics.CorrectCount, metrics.BestStreak, metrics.Score,
			metrics.IncorrectWords, false)
		if err != nil {
			log.Printf("Failed to record abandoned game for player %s: %v", playerID, err)
		}
		s.deleteSnapshot(playerID)
	}
	return metrics, nil
}

// finalize persists a completed pass: the session row first, then the
// leaderboard and achievements that hang off it
func (s *GameService) finalize(ag *ActiveGame, metrics game.PassMetrics) {
	mode := ag.Engine.Mode()
	star := s.starEarned(mode, metrics)
	stars := 0
	if star {
		stars = 1
	}

	if ag.Session != nil {
		err := s.sessions.FinalizeSession(ag.Session.ID, metrics.TotalWords,
			metrics.CorrectCount, metrics.BestStreak, metrics.Score, stars,
			metrics.IncorrectWords)
		if err != nil {
			log.Printf("Failed to finalize session %d: %v", ag.Session.ID, err)
			return
		}
		s.deleteSnapshot(ag.PlayerID)
	}

	// Practice is a sandbox and virtual lists have no session identity;
	// neither reaches the leaderboard
	if ag.Virtual || mode == game.ModePractice {
		return
	}

	// A retry pass re-finalizes the same game; its merged totals replace the
	// row the original pass wrote instead of appending a second entry
	if ag.leaderboardID != 0 {
		err := s.leaderboard.UpdateScore(ag.leaderboardID, metrics.Score, metrics.Accuracy())
		if err != nil {
			log.Printf("Failed to update leaderboard score for player %s: %v", ag.PlayerID, err)
		}
	} else {
		id, err := s.leaderboard.RecordScore(ag.PlayerID, ag.PlayerName, string(mode),
			metrics.Score, metrics.Accuracy())
		if err != nil {
			log.Printf("Failed to record leaderboard score for player %s: %v", ag.PlayerID, err)
		} else {
			ag.leaderboardID = id
		}
	}

	if star && ag.Session != nil {
		code := models.AchievementPerfectPass
		if mode == game.ModeTimed {
			code = models.AchievementTimedStar
		}
		if err := s.leaderboard.RecordAchievement(ag.PlayerID, ag.Session.ID, code); err != nil {
			log.Printf("Failed to record achievement for player %s: %v", ag.PlayerID, err)
		}

		go func(name, mode string, score int) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.email.SendStarNotification(ctx, name, mode, score); err != nil {
				log.Printf("Failed to send star notification: %v", err)
			}
		}(ag.PlayerName, string(mode), metrics.Score)
	}
}

// starEarned applies the star rules: a perfect pass earns a star, and timed
// mode additionally requires a minimum word count so a one-word sprint
// cannot star. Practice is a sandbox and never stars.
func (s *GameService) starEarned(mode game.Mode, metrics game.PassMetrics) bool {
	if mode == game.ModePractice {
		return false
	}
	if metrics.CorrectCount == 0 || metrics.Accuracy() != 100 {
		return false
	}
	if mode == game.ModeTimed {
		target := timedStarTarget
		if metrics.TotalWords < target {
			target = metrics.TotalWords
		}
		return metrics.CorrectCount >= target
	}
	return true
}

func (s *GameService) deleteSnapshot(playerID string) {
	if err := s.sessions.DeleteProgressSnapshot(playerID); err != nil {
		log.Printf("Failed to delete progress snapshot for player %s: %v", playerID, err)
	}
}

// RecoverSnapshot reports any crash-recovery snapshot left from a previous
// run, so the client can tell the player what was lost
func (s *GameService) RecoverSnapshot(playerID string) (*models.GameProgress, error) {
	return s.sessions.GetProgressSnapshot(playerID)
}
