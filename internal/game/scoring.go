// internal/game/scoring.go
//
// Final score for a won game. A lost game always scores 0 (the session
// never calls Score on a loss).

package game

import "time"

const (
	baseScore      = 1000
	guessBonusStep = 100 // per unused guess
	timeBonusMax   = 500
	timeBonusDecay = 10 // lost per full second elapsed
)

// Score computes the score for a won game from the guess count and the
// elapsed play time:
//
//	base(1000) + (maxGuesses - guessesUsed) * 100 + max(0, 500 - seconds*10)
//
// The time bonus floors at 0; there is no upper clamp beyond the formula.
func Score(maxGuesses, guessesUsed int, elapsed time.Duration) int {
	guessBonus := (maxGuesses - guessesUsed) * guessBonusStep
	timeBonus := timeBonusMax - int(elapsed/time.Second)*timeBonusDecay
	if timeBonus < 0 {
		timeBonus = 0
	}
	return baseScore + guessBonus + timeBonus
}
