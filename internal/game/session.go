// internal/game/session.go
//
// State machine for a single guessing session.
// Responsibilities:
//   - Create new sessions in the active state with an opaque unique ID.
//   - Validate and apply guesses (state, limit, length).
//   - Score the session on win via the scoring formula.
//   - Track state transitions: active → won/lost, monotonic and terminal.
//
// Mutation discipline: guesses are append-only, the status only moves
// forward, and a failed guess leaves the session untouched.

package game

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wurdsmyth/go-server/internal/words"
)

// DefaultMaxGuesses is the guess budget for a fresh session.
const DefaultMaxGuesses = 6

// New constructs an active session around a catalog word.
// maxGuesses <= 0 selects DefaultMaxGuesses.
func New(targetWord string, difficulty words.Difficulty, mode Mode, maxGuesses int) *Session {
	if maxGuesses <= 0 {
		maxGuesses = DefaultMaxGuesses
	}
	return &Session{
		ID:         uuid.NewString(),
		TargetWord: strings.ToUpper(strings.TrimSpace(targetWord)),
		Difficulty: difficulty,
		Mode:       mode,
		Guesses:    []GuessResult{},
		MaxGuesses: maxGuesses,
		Status:     StatusActive,
		StartedAt:  time.Now().UTC(),
	}
}

// ProcessGuess validates and scores one guess, mutating the session.
//
// Failure order: ErrSessionFinished if the session is terminal,
// ErrGuessLimit if the budget is spent, ErrLengthMismatch if the guess
// length differs from the target. On failure nothing is appended.
//
// On success the guess is uppercased, compared against the target, and
// recorded. Matching the target transitions to won and fixes the score;
// exhausting the budget transitions to lost with score 0.
func (s *Session) ProcessGuess(guess string) (GuessResult, error) {
	if s.Status != StatusActive {
		return GuessResult{}, ErrSessionFinished
	}
	if s.CurrentGuessIndex >= s.MaxGuesses {
		return GuessResult{}, ErrGuessLimit
	}
	guess = strings.ToUpper(strings.TrimSpace(guess))
	if len(guess) != len(s.TargetWord) {
		return GuessResult{}, ErrLengthMismatch
	}

	result := GuessResult{
		Word:        guess,
		Feedback:    Compare(guess, s.TargetWord),
		GuessNumber: s.CurrentGuessIndex + 1,
	}
	s.Guesses = append(s.Guesses, result)
	s.CurrentGuessIndex++

	if allCorrect(result.Feedback) {
		now := time.Now().UTC()
		s.Status = StatusWon
		s.EndedAt = &now
		s.Score = Score(s.MaxGuesses, s.CurrentGuessIndex, now.Sub(s.StartedAt))
	} else if s.CurrentGuessIndex >= s.MaxGuesses {
		now := time.Now().UTC()
		s.Status = StatusLost
		s.EndedAt = &now
	}
	return result, nil
}

// Elapsed returns the play duration: StartedAt to EndedAt once terminal,
// StartedAt to now while active.
func (s *Session) Elapsed() time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}

// PublicView projects the session for clients. The target word is omitted
// while the session is active so the client cannot cheat by inspection.
func (s *Session) PublicView() PublicView {
	v := PublicView{
		SessionID:         s.ID,
		Difficulty:        s.Difficulty,
		Mode:              s.Mode,
		Guesses:           s.Guesses,
		MaxGuesses:        s.MaxGuesses,
		CurrentGuessIndex: s.CurrentGuessIndex,
		Status:            s.Status,
		Score:             s.Score,
		WordLength:        len(s.TargetWord),
		StartedAt:         s.StartedAt,
		EndedAt:           s.EndedAt,
	}
	if s.Status != StatusActive {
		v.TargetWord = s.TargetWord
	}
	return v
}
