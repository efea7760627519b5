// internal/game/errors.go
//
// Sentinel errors for guess processing. Each maps to a stable caller-visible
// error kind; the HTTP layer translates them to status codes. All are
// recoverable request-level failures, never fatal to the process.

package game

import "errors"

var (
	// ErrSessionFinished is returned for a guess against a won or lost session.
	ErrSessionFinished = errors.New("game is already finished")

	// ErrGuessLimit is returned when the guess count has reached MaxGuesses.
	ErrGuessLimit = errors.New("maximum guesses reached")

	// ErrLengthMismatch is returned when the guess length differs from the
	// target word length.
	ErrLengthMismatch = errors.New("guess length does not match word length")
)
