// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Tag: per-letter result of a guess (correct/present/absent).
//   - Mode: how the word is presented to the player.
//   - GuessResult: one scored guess, immutable once created.
//   - Status/Session: state for a single in-progress or finished game.

package game

import (
	"fmt"
	"time"

	"github.com/wurdsmyth/go-server/internal/words"
)

// Tag represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the target and in the correct position.
//   - "present": letter exists in the target but in a different position.
//   - "absent":  letter does not exist in the (remaining) target letters.
type Tag string

const (
	TagCorrect Tag = "correct"
	TagPresent Tag = "present"
	TagAbsent  Tag = "absent"
)

// Mode selects how much of the word's metadata the client is shown.
type Mode string

const (
	ModeClassic        Mode = "classic"         // blind guessing
	ModeFillBlank      Mode = "fill_blank"      // definition + sentence shown
	ModeMultipleChoice Mode = "multiple_choice" // definition + sentence + 4 options
)

// Modes lists all playable modes.
var Modes = []Mode{ModeClassic, ModeFillBlank, ModeMultipleChoice}

// ParseMode validates a client-supplied mode string.
// An empty string defaults to classic.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClassic, ModeFillBlank, ModeMultipleChoice:
		return Mode(s), nil
	case "":
		return ModeClassic, nil
	}
	return "", fmt.Errorf("invalid game mode %q", s)
}

// GuessResult is one scored guess. Feedback has the same length as Word.
type GuessResult struct {
	Word        string `json:"word"`
	Feedback    []Tag  `json:"feedback"`
	GuessNumber int    `json:"guessNumber"` // 1-based
}

// Status is the session lifecycle state. Transitions are monotonic:
// active → won | lost, never back.
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Session holds the full state of one guessing session, including the
// target word. Never send a Session to a client directly; use PublicView.
type Session struct {
	ID                string           `json:"sessionId"`
	TargetWord        string           `json:"targetWord"` // uppercase, fixed at creation
	Difficulty        words.Difficulty `json:"difficulty"`
	Mode              Mode             `json:"gameMode"`
	Guesses           []GuessResult    `json:"guesses"` // append-only
	MaxGuesses        int              `json:"maxGuesses"`
	CurrentGuessIndex int              `json:"currentGuessIndex"`
	Status            Status           `json:"status"`
	Score             int              `json:"score"` // 0 until won, then fixed
	StartedAt         time.Time        `json:"startedAt"`
	EndedAt           *time.Time       `json:"endedAt,omitempty"` // set once, on leaving active
}

// PublicView is the client-safe projection of a Session.
// TargetWord is withheld while the session is active.
type PublicView struct {
	SessionID         string           `json:"sessionId"`
	Difficulty        words.Difficulty `json:"difficulty"`
	Mode              Mode             `json:"gameMode"`
	Guesses           []GuessResult    `json:"guesses"`
	MaxGuesses        int              `json:"maxGuesses"`
	CurrentGuessIndex int              `json:"currentGuessIndex"`
	Status            Status           `json:"status"`
	Score             int              `json:"score"`
	WordLength        int              `json:"wordLength"`
	TargetWord        string           `json:"targetWord,omitempty"` // revealed once terminal
	StartedAt         time.Time        `json:"startedAt"`
	EndedAt           *time.Time       `json:"endedAt,omitempty"`
}
