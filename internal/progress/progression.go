// internal/progress/progression.go
//
// Player progression: cumulative statistics, XP, levels, and the rules that
// turn a stream of game outcomes into all of the above. Apply is a pure
// function from (snapshot, outcome) to the next snapshot; persistence and
// per-user serialization live in repo.go.

package progress

import (
	"math"
	"time"

	"github.com/wurdsmyth/go-server/internal/game"
	"github.com/wurdsmyth/go-server/internal/words"
)

const (
	// speedWinThreshold is the elapsed-time bound for a "speed win".
	speedWinThreshold = 30 * time.Second

	// maxHistory bounds GameHistory; oldest entries are evicted.
	maxHistory = 50

	xpLoss         = 25  // participation XP for a lost game
	xpWinBase      = 100 // scaled by the difficulty multiplier
	xpPerfectBonus = 200 // won in exactly 1 guess
	xpFastBonus    = 50  // won in at most 3 guesses (and more than 1)
)

// DifficultyStats counts games per tier.
type DifficultyStats struct {
	Played int `json:"played"`
	Won    int `json:"won"`
}

// HistoryEntry is one recorded outcome, newest first in GameHistory.
type HistoryEntry struct {
	Won         bool             `json:"won"`
	Difficulty  words.Difficulty `json:"difficulty"`
	Mode        game.Mode        `json:"gameMode"`
	Score       int              `json:"score"`
	GuessesUsed int              `json:"guesses"`
	ElapsedMs   int64            `json:"timeElapsed"`
	XPGained    int              `json:"xpGained"`
	Timestamp   time.Time        `json:"timestamp"`
}

// Progression is the cumulative record for one player. Counters are
// monotonic except CurrentStreak/WinStreak, which reset on loss.
type Progression struct {
	UserID        string                               `json:"userId"`
	Level         int                                  `json:"level"`
	XP            int                                  `json:"xp"`
	TotalScore    int                                  `json:"totalScore"`
	GamesPlayed   int                                  `json:"gamesPlayed"`
	GamesWon      int                                  `json:"gamesWon"`
	GamesLost     int                                  `json:"gamesLost"`
	CurrentStreak int                                  `json:"currentStreak"`
	BestStreak    int                                  `json:"bestStreak"`
	WinStreak     int                                  `json:"winStreak"`
	PerfectGames  int                                  `json:"perfectGames"`
	SpeedWins     int                                  `json:"speedWins"`
	ExpertWins    int                                  `json:"expertWins"`
	ModesPlayed   []game.Mode                          `json:"modesPlayed"` // distinct, first-use order
	Badges        []string                             `json:"badges"`      // unlocked badge IDs, grows only
	Statistics    map[words.Difficulty]DifficultyStats `json:"statistics"`
	GameHistory   []HistoryEntry                       `json:"gameHistory"`
}

// Outcome is the result of one finished game, fed in by the caller.
type Outcome struct {
	Won         bool             `json:"won"`
	Difficulty  words.Difficulty `json:"difficulty"`
	Mode        game.Mode        `json:"gameMode"`
	Score       int              `json:"score"`
	GuessesUsed int              `json:"guesses"`
	Elapsed     time.Duration    `json:"-"`
}

// Result is what Apply produces alongside the next snapshot.
type Result struct {
	Progression Progression `json:"progress"`
	NewBadges   []Badge     `json:"newBadges"`
	LeveledUp   bool        `json:"leveledUp"`
	XPGained    int         `json:"xpGained"`
}

// NewProgression returns the zero record for a fresh player (level 1,
// all tiers present in Statistics).
func NewProgression(userID string) Progression {
	stats := make(map[words.Difficulty]DifficultyStats, len(words.Difficulties))
	for _, d := range words.Difficulties {
		stats[d] = DifficultyStats{}
	}
	return Progression{
		UserID:      userID,
		Level:       1,
		ModesPlayed: []game.Mode{},
		Badges:      []string{},
		Statistics:  stats,
		GameHistory: []HistoryEntry{},
	}
}

// Apply folds one outcome into a progression snapshot and returns the next
// snapshot plus newly unlocked badges, the level-up flag, and the XP gained.
// Pure: the input snapshot is not mutated, and the same inputs always
// produce the same result (now stamps the history entry only).
//
// Update order: counters and streaks, per-difficulty statistics, mode set,
// XP and level, history, then badge evaluation against the updated record.
func Apply(p Progression, out Outcome, now time.Time) Result {
	p = clone(p)

	p.GamesPlayed++
	p.TotalScore += out.Score

	if out.Won {
		p.GamesWon++
		p.CurrentStreak++
		p.WinStreak++
		if p.CurrentStreak > p.BestStreak {
			p.BestStreak = p.CurrentStreak
		}
		if out.GuessesUsed == 1 {
			p.PerfectGames++
		}
		if out.Elapsed < speedWinThreshold {
			p.SpeedWins++
		}
		if out.Difficulty == words.DifficultyExpert {
			p.ExpertWins++
		}
	} else {
		p.GamesLost++
		p.CurrentStreak = 0
		p.WinStreak = 0
	}

	ds := p.Statistics[out.Difficulty]
	ds.Played++
	if out.Won {
		ds.Won++
	}
	p.Statistics[out.Difficulty] = ds

	if !containsMode(p.ModesPlayed, out.Mode) {
		p.ModesPlayed = append(p.ModesPlayed, out.Mode)
	}

	xpGained := ComputeXP(out)
	p.XP += xpGained

	newLevel := LevelForXP(p.XP)
	leveledUp := newLevel > p.Level
	p.Level = newLevel

	p.GameHistory = append([]HistoryEntry{{
		Won:         out.Won,
		Difficulty:  out.Difficulty,
		Mode:        out.Mode,
		Score:       out.Score,
		GuessesUsed: out.GuessesUsed,
		ElapsedMs:   out.Elapsed.Milliseconds(),
		XPGained:    xpGained,
		Timestamp:   now,
	}}, p.GameHistory...)
	if len(p.GameHistory) > maxHistory {
		p.GameHistory = p.GameHistory[:maxHistory]
	}

	newBadges := unlockBadges(&p)

	return Result{
		Progression: p,
		NewBadges:   newBadges,
		LeveledUp:   leveledUp,
		XPGained:    xpGained,
	}
}

// ComputeXP converts one outcome into XP.
// Losses earn a flat participation amount. Wins earn a difficulty-scaled
// base, a bonus for winning in few guesses, and score/10 — floored.
func ComputeXP(out Outcome) int {
	if !out.Won {
		return xpLoss
	}
	xp := xpWinBase * difficultyMultiplier(out.Difficulty)
	if out.GuessesUsed == 1 {
		xp += xpPerfectBonus
	} else if out.GuessesUsed <= 3 {
		xp += xpFastBonus
	}
	xp += math.Floor(float64(out.Score) / 10)
	return int(math.Floor(xp))
}

func difficultyMultiplier(d words.Difficulty) float64 {
	switch d {
	case words.DifficultyEasy:
		return 1
	case words.DifficultyMedium:
		return 1.5
	case words.DifficultyHard:
		return 2
	case words.DifficultyExpert:
		return 3
	}
	return 1
}

// LevelForXP maps cumulative XP to a level: floor(sqrt(xp/100)) + 1.
// 0 XP is level 1; 900 XP is level 4.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

func containsMode(modes []game.Mode, m game.Mode) bool {
	for _, x := range modes {
		if x == m {
			return true
		}
	}
	return false
}

// clone deep-copies the mutable parts so Apply never aliases its input.
func clone(p Progression) Progression {
	p.ModesPlayed = append([]game.Mode{}, p.ModesPlayed...)
	p.Badges = append([]string{}, p.Badges...)
	p.GameHistory = append([]HistoryEntry{}, p.GameHistory...)
	stats := make(map[words.Difficulty]DifficultyStats, len(p.Statistics))
	for d, s := range p.Statistics {
		stats[d] = s
	}
	if len(stats) == 0 {
		for _, d := range words.Difficulties {
			stats[d] = DifficultyStats{}
		}
	}
	p.Statistics = stats
	return p
}
