// internal/progress/badges.go
//
// Badge catalog and unlock evaluation. Criteria are typed metric/threshold
// pairs over a closed set of progression metrics, evaluated against the
// post-update record: a badge unlocks when every criterion meets or exceeds
// its threshold. Unlocks are one-time; a held badge is never re-reported.

package progress

// Metric names one progression counter a badge criterion can reference.
type Metric string

const (
	MetricGamesPlayed  Metric = "gamesPlayed"
	MetricGamesWon     Metric = "gamesWon"
	MetricWinStreak    Metric = "winStreak"
	MetricPerfectGames Metric = "perfectGames"
	MetricSpeedWins    Metric = "speedWins"
	MetricExpertWins   Metric = "expertWins"
	MetricModesPlayed  Metric = "modesPlayed" // count of distinct modes ever used
	MetricLevel        Metric = "level"
)

// Criterion is one minimum-threshold requirement.
type Criterion struct {
	Metric    Metric
	Threshold int
}

// Badge is a one-time unlockable achievement.
type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Criteria    []Criterion `json:"-"`
}

// Catalog is the static badge table. Order is evaluation and display order.
var Catalog = []Badge{
	{ID: "first_game", Name: "First Steps", Description: "Played your first game", Icon: "🎮",
		Criteria: []Criterion{{MetricGamesPlayed, 1}}},
	{ID: "first_win", Name: "Victory", Description: "Won your first game", Icon: "🏆",
		Criteria: []Criterion{{MetricGamesWon, 1}}},
	{ID: "streak_3", Name: "Hot Streak", Description: "Win 3 games in a row", Icon: "🔥",
		Criteria: []Criterion{{MetricWinStreak, 3}}},
	{ID: "streak_5", Name: "Unstoppable", Description: "Win 5 games in a row", Icon: "⚡",
		Criteria: []Criterion{{MetricWinStreak, 5}}},
	{ID: "games_10", Name: "Dedicated", Description: "Played 10 games", Icon: "🎯",
		Criteria: []Criterion{{MetricGamesPlayed, 10}}},
	{ID: "games_50", Name: "Enthusiast", Description: "Played 50 games", Icon: "🌟",
		Criteria: []Criterion{{MetricGamesPlayed, 50}}},
	{ID: "wins_10", Name: "Champion", Description: "Won 10 games", Icon: "👑",
		Criteria: []Criterion{{MetricGamesWon, 10}}},
	{ID: "perfect_game", Name: "Perfect!", Description: "Won in 1 guess", Icon: "💎",
		Criteria: []Criterion{{MetricPerfectGames, 1}}},
	{ID: "vocab_master", Name: "Vocabulary Master", Description: "Beat Expert level", Icon: "📚",
		Criteria: []Criterion{{MetricExpertWins, 1}}},
	{ID: "speed_demon", Name: "Speed Demon", Description: "Won in under 30 seconds", Icon: "⏱️",
		Criteria: []Criterion{{MetricSpeedWins, 1}}},
	{ID: "explorer", Name: "Explorer", Description: "Tried all game modes", Icon: "🗺️",
		Criteria: []Criterion{{MetricModesPlayed, 3}}},
	{ID: "word_wizard", Name: "Word Wizard", Description: "Reached level 10", Icon: "🧙",
		Criteria: []Criterion{{MetricLevel, 10}}},
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// metricValue reads one metric off a progression record.
func metricValue(p *Progression, m Metric) int {
	switch m {
	case MetricGamesPlayed:
		return p.GamesPlayed
	case MetricGamesWon:
		return p.GamesWon
	case MetricWinStreak:
		return p.WinStreak
	case MetricPerfectGames:
		return p.PerfectGames
	case MetricSpeedWins:
		return p.SpeedWins
	case MetricExpertWins:
		return p.ExpertWins
	case MetricModesPlayed:
		return len(p.ModesPlayed)
	case MetricLevel:
		return p.Level
	}
	return 0
}

// unlockBadges appends every newly earned badge ID to p.Badges and returns
// the earned badge definitions. Already-held badges are skipped.
func unlockBadges(p *Progression) []Badge {
	held := make(map[string]struct{}, len(p.Badges))
	for _, id := range p.Badges {
		held[id] = struct{}{}
	}

	var earned []Badge
	for _, b := range Catalog {
		if _, ok := held[b.ID]; ok {
			continue
		}
		met := true
		for _, c := range b.Criteria {
			if metricValue(p, c.Metric) < c.Threshold {
				met = false
				break
			}
		}
		if met {
			p.Badges = append(p.Badges, b.ID)
			earned = append(earned, b)
		}
	}
	return earned
}
