// internal/words/catalog.go
//
// Vocabulary catalog for the game engine.
//
// Responsibilities:
//   - Load tiered word entries (word, definition, example sentence, choices)
//     from an environment-provided JSON file or fall back to the embedded catalog.
//   - Maintain a word → entry index for quick membership/detail lookups.
//   - Supply utility functions like Random, Lookup, ByDifficulty, IsValid, Stats.
//
// Environment variables:
//   WORDS_FILE=/path/to/catalog.json
//
// Constraints:
//   • Words are normalized to uppercase A–Z.
//   • Every entry must carry exactly 4 multiple-choice options including its word.
//   • Initialization runs once (sync.Once).

package words

import (
	"crypto/rand"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"
)

//go:embed catalog.json
var embeddedCatalog []byte

// Entry is one catalog word with the metadata the non-classic modes show.
// Static once loaded, never mutated.
type Entry struct {
	Word       string   `json:"word"`
	Definition string   `json:"definition"`
	Sentence   string   `json:"sentence"` // example sentence with a ____ blank
	Choices    []string `json:"choices"`  // 4 options, includes Word
}

var (
	initOnce   sync.Once
	byTier     map[Difficulty][]Entry
	index      map[string]*Entry // uppercase word → entry
	initialErr error
)

// Init loads the catalog exactly once.
// Returns an error if any tier ends up empty or an entry is malformed.
func Init() error {
	initOnce.Do(func() {
		raw := embeddedCatalog
		if path := os.Getenv("WORDS_FILE"); path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("words: read %s: %w", path, err)
				return
			}
			raw = b
		}

		var tiers map[Difficulty][]Entry
		if err := json.Unmarshal(raw, &tiers); err != nil {
			initialErr = fmt.Errorf("words: parse catalog: %w", err)
			return
		}

		byTier = make(map[Difficulty][]Entry, len(Difficulties))
		index = make(map[string]*Entry)
		for _, d := range Difficulties {
			entries := tiers[d]
			if len(entries) == 0 {
				initialErr = fmt.Errorf("words: tier %q is empty", d)
				return
			}
			for i := range entries {
				if err := normalizeEntry(&entries[i]); err != nil {
					initialErr = fmt.Errorf("words: tier %q entry %d: %w", d, i, err)
					return
				}
			}
			byTier[d] = entries
			for i := range entries {
				index[entries[i].Word] = &entries[i]
			}
		}
	})
	return initialErr
}

// normalizeEntry uppercases the word and choices and checks shape.
func normalizeEntry(e *Entry) error {
	e.Word = strings.ToUpper(strings.TrimSpace(e.Word))
	if e.Word == "" || !isUpperAlpha(e.Word) {
		return errors.New("word must be alphabetic")
	}
	if len(e.Choices) != 4 {
		return fmt.Errorf("word %s: want 4 choices, got %d", e.Word, len(e.Choices))
	}
	found := false
	for i, c := range e.Choices {
		e.Choices[i] = strings.ToUpper(strings.TrimSpace(c))
		if e.Choices[i] == e.Word {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("word %s: choices do not include the word", e.Word)
	}
	return nil
}

// isUpperAlpha reports whether s is all uppercase ASCII letters.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Random returns a cryptographically random entry from the given tier.
func Random(d Difficulty) (Entry, error) {
	entries, ok := byTier[d]
	if !ok || len(entries) == 0 {
		return Entry{}, fmt.Errorf("words: no entries for difficulty %q", d)
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(entries))))
	if err != nil {
		return Entry{}, err
	}
	return entries[nBig.Int64()], nil
}

// Lookup returns the catalog entry for a word (any tier), or false.
func Lookup(word string) (Entry, bool) {
	e, ok := index[strings.ToUpper(strings.TrimSpace(word))]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// IsValid reports whether the word exists anywhere in the catalog.
func IsValid(word string) bool {
	_, ok := Lookup(word)
	return ok
}

// ByDifficulty returns the entries of one tier (nil for unknown tiers).
func ByDifficulty(d Difficulty) []Entry {
	return byTier[d]
}

// Stats returns per-tier entry counts plus the total.
func Stats() (perTier map[Difficulty]int, total int) {
	perTier = make(map[Difficulty]int, len(byTier))
	for d, entries := range byTier {
		perTier[d] = len(entries)
		total += len(entries)
	}
	return perTier, total
}
