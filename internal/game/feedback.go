// internal/game/feedback.go
//
// Per-letter guess evaluation using the standard two-pass algorithm.
// The two passes are what make repeated letters come out right: a naive
// single pass double-counts duplicates.

package game

// Compare scores guess against target, position by position.
//
// Precondition: len(guess) == len(target), both uppercase A–Z. The session
// validates this before calling; violation is a caller bug, not a game state.
//
// Pass 1:
//   - Tag exact matches as correct and consume those target letters.
//   - Count the remaining (non-matched) target letters by letter.
//
// Pass 2:
//   - For each non-correct guess letter: if unconsumed occurrences of that
//     letter remain in the target, tag present and consume one; otherwise
//     tag absent.
//
// Result ordering matches input position order.
func Compare(guess, target string) []Tag {
	n := len(guess)
	res := make([]Tag, n)

	// Letter frequency for the non-matched target positions (A–Z).
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			res[i] = TagCorrect
		} else {
			counts[idx(target[i])]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == TagCorrect {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = TagPresent
			counts[j]--
		} else {
			res[i] = TagAbsent
		}
	}
	return res
}

// idx maps an uppercase ASCII letter to 0..25.
func idx(b byte) int { return int(b - 'A') }

// allCorrect returns true if every tag is TagCorrect.
func allCorrect(tags []Tag) bool {
	for _, t := range tags {
		if t != TagCorrect {
			return false
		}
	}
	return true
}
