package game

// Ledger tracks score, correct count and streaks for one pass.
//
// The streak bonus for a correct answer uses the streak value accumulated
// before that answer, so the first correct answer after a miss earns base
// points only. BestStreak is monotonic non-decreasing within a pass.
type Ledger struct {
	Score        int
	CorrectCount int
	Streak       int
	BestStreak   int
}

// RecordCorrect commits a correct answer and returns the points earned
func (l *Ledger) RecordCorrect(points int) int {
	earned := points + l.Streak*5
	l.Score += earned
	l.CorrectCount++
	l.Streak++
	if l.Streak > l.BestStreak {
		l.BestStreak = l.Streak
	}
	return earned
}

// RecordIncorrect commits an incorrect answer, breaking the streak
func (l *Ledger) RecordIncorrect() {
	l.Streak = 0
}

// AddBonus adds flat points without touching counts or streaks
func (l *Ledger) AddBonus(points int) {
	l.Score += points
}

// Reset returns the ledger to its initial state for a fresh pass
func (l *Ledger) Reset() {
	*l = Ledger{}
}
