// internal/progress/repo.go
//
// SQLite persistence for progression records.
// Responsibilities:
//   - Get-or-initialize a player's progression row.
//   - ApplyOutcome: serialized read-modify-write per user, so two games
//     finishing at once cannot drop counter updates or badge unlocks.
//   - Leaderboard query over total score.
//
// Set/map/history fields are stored as JSON text columns; the engine types
// never see storage naming.

package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Repo stores progression rows in the user_progress table.
type Repo struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-user write serialization
}

// NewRepo wraps an open database handle.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, locks: make(map[string]*sync.Mutex)}
}

// userLock returns the mutex serializing writes for one user.
func (r *Repo) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

// Init inserts the zero progression row for a new user. Idempotent.
func (r *Repo) Init(ctx context.Context, userID string) error {
	p := NewProgression(userID)
	modes, badges, stats, history, err := marshalJSONFields(&p)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_progress (
			user_id, level, xp, total_score,
			games_played, games_won, games_lost,
			current_streak, best_streak, win_streak,
			perfect_games, speed_wins, expert_wins,
			modes_played, badges, statistics, game_history,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.UserID, p.Level, p.XP, p.TotalScore,
		p.GamesPlayed, p.GamesWon, p.GamesLost,
		p.CurrentStreak, p.BestStreak, p.WinStreak,
		p.PerfectGames, p.SpeedWins, p.ExpertWins,
		modes, badges, stats, history,
		now, now,
	)
	return err
}

// Get loads a user's progression, initializing it if absent.
func (r *Repo) Get(ctx context.Context, userID string) (Progression, error) {
	p, err := r.scanOne(ctx, userID)
	if err == sql.ErrNoRows {
		if err := r.Init(ctx, userID); err != nil {
			return Progression{}, err
		}
		p, err = r.scanOne(ctx, userID)
	}
	return p, err
}

func (r *Repo) scanOne(ctx context.Context, userID string) (Progression, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, level, xp, total_score,
		       games_played, games_won, games_lost,
		       current_streak, best_streak, win_streak,
		       perfect_games, speed_wins, expert_wins,
		       modes_played, badges, statistics, game_history
		FROM user_progress WHERE user_id=?`, userID)

	var p Progression
	var modes, badges, stats, history string
	err := row.Scan(
		&p.UserID, &p.Level, &p.XP, &p.TotalScore,
		&p.GamesPlayed, &p.GamesWon, &p.GamesLost,
		&p.CurrentStreak, &p.BestStreak, &p.WinStreak,
		&p.PerfectGames, &p.SpeedWins, &p.ExpertWins,
		&modes, &badges, &stats, &history,
	)
	if err != nil {
		return Progression{}, err
	}
	if err := unmarshalJSONFields(&p, modes, badges, stats, history); err != nil {
		return Progression{}, fmt.Errorf("progress: decode row for %s: %w", userID, err)
	}
	return p, nil
}

// ApplyOutcome folds one game outcome into the user's persisted record.
// The read-modify-write is serialized per user to avoid lost updates when
// games for the same player complete concurrently.
func (r *Repo) ApplyOutcome(ctx context.Context, userID string, out Outcome) (Result, error) {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	p, err := r.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	res := Apply(p, out, time.Now().UTC())

	if err := r.update(ctx, &res.Progression); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (r *Repo) update(ctx context.Context, p *Progression) error {
	modes, badges, stats, history, err := marshalJSONFields(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE user_progress SET
			level=?, xp=?, total_score=?,
			games_played=?, games_won=?, games_lost=?,
			current_streak=?, best_streak=?, win_streak=?,
			perfect_games=?, speed_wins=?, expert_wins=?,
			modes_played=?, badges=?, statistics=?, game_history=?,
			updated_at=?
		WHERE user_id=?`,
		p.Level, p.XP, p.TotalScore,
		p.GamesPlayed, p.GamesWon, p.GamesLost,
		p.CurrentStreak, p.BestStreak, p.WinStreak,
		p.PerfectGames, p.SpeedWins, p.ExpertWins,
		modes, badges, stats, history,
		time.Now().UTC().Format(time.RFC3339),
		p.UserID,
	)
	return err
}

// LeaderboardRow is one ranked entry, projected for display.
type LeaderboardRow struct {
	Username   string `json:"username"`
	Level      int    `json:"level"`
	TotalScore int    `json:"totalScore"`
	GamesWon   int    `json:"gamesWon"`
	BadgeCount int    `json:"badges"`
}

// Leaderboard returns the top players by total score, descending.
// Ties break by account creation time ascending, which is stable.
func (r *Repo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.username, p.level, p.total_score, p.games_won, p.badges
		FROM user_progress p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.total_score DESC, p.created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var row LeaderboardRow
		var badges string
		if err := rows.Scan(&row.Username, &row.Level, &row.TotalScore, &row.GamesWon, &badges); err != nil {
			return nil, err
		}
		var ids []string
		if err := json.Unmarshal([]byte(badges), &ids); err == nil {
			row.BadgeCount = len(ids)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func marshalJSONFields(p *Progression) (modes, badges, stats, history string, err error) {
	m, err := json.Marshal(p.ModesPlayed)
	if err != nil {
		return "", "", "", "", err
	}
	b, err := json.Marshal(p.Badges)
	if err != nil {
		return "", "", "", "", err
	}
	s, err := json.Marshal(p.Statistics)
	if err != nil {
		return "", "", "", "", err
	}
	h, err := json.Marshal(p.GameHistory)
	if err != nil {
		return "", "", "", "", err
	}
	return string(m), string(b), string(s), string(h), nil
}

func unmarshalJSONFields(p *Progression, modes, badges, stats, history string) error {
	if err := json.Unmarshal([]byte(modes), &p.ModesPlayed); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(badges), &p.Badges); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stats), &p.Statistics); err != nil {
		return err
	}
	return json.Unmarshal([]byte(history), &p.GameHistory)
}
