package handlers

import (
	"strings"

	"spellsprint/internal/game"
	"spellsprint/internal/service"
)

// GameView is the full play-screen payload. The word being spelled is never
// included while it is still being answered; the prompt carries its length,
// sentence and audio route instead.
type GameView struct {
	Mode        string `json:"mode"`
	Phase       string `json:"phase"`
	Index       int    `json:"index"`
	WordCount   int    `json:"word_count"`
	TimeLeft    int    `json:"time_left,omitempty"`
	Score       int    `json:"score"`
	Streak      int    `json:"streak"`
	BestStreak  int    `json:"best_streak"`
	Correct     int    `json:"correct"`
	IsRetryPass bool   `json:"is_retry_pass"`

	Prompt     *PromptView   `json:"prompt,omitempty"`
	Scramble   *ScrambleView `json:"scramble,omitempty"`
	Choices    []string      `json:"choices,omitempty"`
	Grid       *GridView     `json:"grid,omitempty"`
	LastResult *ResultView   `json:"last_result,omitempty"`
}

// PromptView describes the word being presented without revealing it
type PromptView struct {
	Length       int    `json:"length"`
	Sentence     string `json:"sentence,omitempty"`
	Definition   string `json:"definition,omitempty"`
	PartOfSpeech string `json:"part_of_speech,omitempty"`
	AudioURL     string `json:"audio_url"`
}

// ScrambleView is the letter board as displayed
type ScrambleView struct {
	Tray   []string `json:"tray"`
	Slots  []string `json:"slots"`
	Filled bool     `json:"filled"`
}

// GridView is the crossword as displayed, answers omitted
type GridView struct {
	Rows    int             `json:"rows"`
	Cols    int             `json:"cols"`
	Entries []GridEntryView `json:"entries"`
}

// GridEntryView is one crossword entry as displayed
type GridEntryView struct {
	Index       int    `json:"index"`
	Clue        string `json:"clue"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Direction   string `json:"direction"`
	Length      int    `json:"length"`
	Fill        string `json:"fill"`
	Highlighted bool   `json:"highlighted"`
}

// ResultView is the outcome of the last evaluated turn. The correct spelling
// is only revealed here, after the answer is in.
type ResultView struct {
	WordText      string `json:"word_text"`
	Input         string `json:"input"`
	Correct       bool   `json:"correct"`
	PointsEarned  int    `json:"points_earned"`
	DoOverOffered bool   `json:"do_over_offered"`
}

// ResultsPayload is the results-screen response
type ResultsPayload struct {
	Mode                  string        `json:"mode"`
	TotalWords            int           `json:"total_words"`
	CorrectWords          int           `json:"correct_words"`
	BestStreak            int           `json:"best_streak"`
	Score                 int           `json:"score"`
	Accuracy              int           `json:"accuracy"`
	IncorrectWords        []string      `json:"incorrect_words"`
	IsRetryPass           bool          `json:"is_retry_pass"`
	SecondChanceAvailable bool          `json:"second_chance_available"`
	StarEarned            bool          `json:"star_earned"`
	Original              *PassSnapshot `json:"original,omitempty"`
}

// PassSnapshot is the pre-retry totals shown alongside merged results
type PassSnapshot struct {
	TotalWords   int `json:"total_words"`
	CorrectWords int `json:"correct_words"`
	Score        int `json:"score"`
	Accuracy     int `json:"accuracy"`
}

func buildGameView(ag *service.ActiveGame) *GameView {
	engine := ag.Engine
	ledger := engine.Ledger()

	view := &GameView{
		Mode:        string(engine.Mode()),
		Phase:       string(engine.Phase()),
		Index:       engine.Index(),
		WordCount:   engine.WordCount(),
		Score:       ledger.Score,
		Streak:      ledger.Streak,
		BestStreak:  ledger.BestStreak,
		Correct:     ledger.CorrectCount,
		IsRetryPass: engine.IsRetryPass(),
	}
	if engine.Mode() == game.ModeTimed {
		view.TimeLeft = engine.TimeLeft()
	}

	if word, ok := engine.CurrentWord(); ok && engine.Phase() == game.PhasePresenting {
		prompt := &PromptView{
			Length:       len([]rune(word.WordText)),
			Sentence:     word.SentenceExample,
			PartOfSpeech: word.PartOfSpeech,
			AudioURL:     "/play/audio",
		}
		if meta, ok := ag.WordMeta[strings.ToLower(word.WordText)]; ok {
			prompt.Definition = meta.Definition
			if prompt.Sentence == "" {
				prompt.Sentence = meta.Example
			}
			if prompt.PartOfSpeech == "" {
				prompt.PartOfSpeech = meta.PartOfSpeech
			}
		}
		view.Prompt = prompt
	}

	switch engine.Mode() {
	case game.ModeScramble:
		if board := engine.Scramble(); board != nil {
			view.Scramble = &ScrambleView{
				Tray:   runesToStrings(board.TrayLetters()),
				Slots:  runesToStrings(board.SlotLetters()),
				Filled: board.Filled(),
			}
		}
	case game.ModeFindMistake:
		if round := engine.CurrentMistakeRound(); round != nil {
			view.Choices = round.Choices
		}
	case game.ModeCrossword:
		view.Grid = buildGridView(engine.Grid())
		view.Prompt = nil
	}

	if res := engine.LastResult(); res != nil {
		view.LastResult = &ResultView{
			WordText:      res.WordText,
			Input:         res.Input,
			Correct:       res.Correct,
			PointsEarned:  res.PointsEarned,
			DoOverOffered: res.DoOverOffered,
		}
	}
	return view
}

func buildGridView(grid *game.Grid) *GridView {
	if grid == nil {
		return nil
	}

	highlighted := make(map[int]bool, len(grid.Highlighted))
	for _, i := range grid.Highlighted {
		highlighted[i] = true
	}

	view := &GridView{Rows: grid.Rows, Cols: grid.Cols}
	for i, entry := range grid.Entries {
		view.Entries = append(view.Entries, GridEntryView{
			Index:       i,
			Clue:        entry.Clue,
			Row:         entry.Row,
			Col:         entry.Col,
			Direction:   string(entry.Direction),
			Length:      len([]rune(entry.Word)),
			Fill:        entry.Fill,
			Highlighted: highlighted[i],
		})
	}
	return view
}

func buildResultsPayload(results *service.ResultsView) *ResultsPayload {
	payload := &ResultsPayload{
		Mode:                  results.Mode,
		TotalWords:            results.Metrics.TotalWords,
		CorrectWords:          results.Metrics.CorrectCount,
		BestStreak:            results.Metrics.BestStreak,
		Score:                 results.Metrics.Score,
		Accuracy:              results.Metrics.Accuracy(),
		IncorrectWords:        results.Metrics.IncorrectWords,
		IsRetryPass:           results.IsRetryPass,
		SecondChanceAvailable: results.SecondChanceAvailable,
		StarEarned:            results.StarEarned,
	}
	if payload.IncorrectWords == nil {
		payload.IncorrectWords = []string{}
	}
	if results.Original != nil {
		payload.Original = &PassSnapshot{
			TotalWords:   results.Original.TotalWords,
			CorrectWords: results.Original.CorrectCount,
			Score:        results.Original.Score,
			Accuracy:     results.Original.Accuracy(),
		}
	}
	return payload
}

func runesToStrings(letters []rune) []string {
	out := make([]string, len(letters))
	for i, r := range letters {
		if r != 0 {
			out[i] = string(r)
		}
	}
	return out
}
