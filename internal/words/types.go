// internal/words/types.go
//
// Difficulty tiers for the vocabulary catalog.
// Each tier selects a separate word pool and drives the XP multiplier
// applied by the progression engine.

package words

import "fmt"

// Difficulty selects a word pool. Ordered easiest to hardest.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Difficulties lists all tiers in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// ParseDifficulty validates a client-supplied difficulty string.
// An empty string defaults to medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return Difficulty(s), nil
	case "":
		return DifficultyMedium, nil
	}
	return "", fmt.Errorf("invalid difficulty level %q", s)
}
