package progress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wurdsmyth/go-server/internal/game"
	"github.com/wurdsmyth/go-server/internal/words"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "sql", "001_init.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func insertUser(t *testing.T, db *sql.DB, id, username string, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, "x", createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
}

func TestRepoInitIdempotent(t *testing.T) {
	db := newTestDB(t)
	r := NewRepo(db)
	ctx := context.Background()
	insertUser(t, db, "u1", "alice", time.Now())

	if err := r.Init(ctx, "u1"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := r.Init(ctx, "u1"); err != nil {
		t.Fatalf("second Init: %v", err)
	}

	p, err := r.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.UserID != "u1" || p.Level != 1 || p.GamesPlayed != 0 {
		t.Fatalf("fresh row: %+v", p)
	}
	if len(p.Statistics) != len(words.Difficulties) {
		t.Fatalf("statistics tiers = %d", len(p.Statistics))
	}
}

func TestRepoGetInitializesMissingRow(t *testing.T) {
	db := newTestDB(t)
	r := NewRepo(db)
	insertUser(t, db, "u2", "bob", time.Now())

	p, err := r.Get(context.Background(), "u2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.UserID != "u2" || p.Level != 1 {
		t.Fatalf("initialized row: %+v", p)
	}
}

func TestRepoApplyOutcomeRoundTrip(t *testing.T) {
	db := newTestDB(t)
	r := NewRepo(db)
	ctx := context.Background()
	insertUser(t, db, "u1", "alice", time.Now())

	out := Outcome{
		Won: true, Difficulty: words.DifficultyHard, Mode: game.ModeFillBlank,
		Score: 1700, GuessesUsed: 2, Elapsed: 12 * time.Second,
	}
	res, err := r.ApplyOutcome(ctx, "u1", out)
	if err != nil {
		t.Fatalf("ApplyOutcome: %v", err)
	}
	if res.XPGained == 0 || len(res.NewBadges) == 0 {
		t.Fatalf("result: %+v", res)
	}

	p, err := r.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.GamesWon != 1 || p.TotalScore != 1700 || p.SpeedWins != 1 {
		t.Fatalf("persisted record: %+v", p)
	}
	if ds := p.Statistics[words.DifficultyHard]; ds.Played != 1 || ds.Won != 1 {
		t.Fatalf("hard stats: %+v", ds)
	}
	if len(p.ModesPlayed) != 1 || p.ModesPlayed[0] != game.ModeFillBlank {
		t.Fatalf("modes: %v", p.ModesPlayed)
	}
	if len(p.GameHistory) != 1 || p.GameHistory[0].Score != 1700 {
		t.Fatalf("history: %+v", p.GameHistory)
	}
	if len(p.Badges) != len(res.Progression.Badges) {
		t.Fatalf("badges not persisted: %v vs %v", p.Badges, res.Progression.Badges)
	}
}

func TestRepoApplyOutcomeConcurrent(t *testing.T) {
	db := newTestDB(t)
	r := NewRepo(db)
	ctx := context.Background()
	insertUser(t, db, "u1", "alice", time.Now())

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := Outcome{Won: true, Difficulty: words.DifficultyEasy,
				Mode: game.ModeClassic, Score: 1000, GuessesUsed: 3, Elapsed: time.Minute}
			if _, err := r.ApplyOutcome(ctx, "u1", out); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent ApplyOutcome: %v", err)
	}

	p, err := r.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.GamesPlayed != n || p.GamesWon != n {
		t.Fatalf("lost updates: played=%d won=%d", p.GamesPlayed, p.GamesWon)
	}
	if p.TotalScore != n*1000 {
		t.Fatalf("totalScore = %d", p.TotalScore)
	}
}

func TestLeaderboardOrderAndTieBreak(t *testing.T) {
	db := newTestDB(t)
	r := NewRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	players := []struct {
		id, name string
		score    int
		created  time.Time
	}{
		{"u1", "alice", 3000, base},
		{"u2", "bob", 5000, base.Add(time.Hour)},
		{"u3", "carol", 3000, base.Add(2 * time.Hour)}, // ties with alice, joined later
		{"u4", "dave", 1000, base.Add(3 * time.Hour)},
	}
	for _, pl := range players {
		insertUser(t, db, pl.id, pl.name, pl.created)
		if err := r.Init(ctx, pl.id); err != nil {
			t.Fatalf("Init %s: %v", pl.id, err)
		}
		_, err := db.Exec(`UPDATE user_progress SET total_score=?, created_at=? WHERE user_id=?`,
			pl.score, pl.created.Format(time.RFC3339), pl.id)
		if err != nil {
			t.Fatalf("seed score: %v", err)
		}
	}

	rows, err := r.Leaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	wantOrder := []string{"bob", "alice", "carol"}
	for i, want := range wantOrder {
		if rows[i].Username != want {
			t.Fatalf("rank %d = %s, want %s (%v)", i+1, rows[i].Username, want, rows)
		}
	}
}

func TestLeaderboardDefaultLimit(t *testing.T) {
	db := newTestDB(t)
	r := NewRepo(db)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("u%d", i)
		insertUser(t, db, id, fmt.Sprintf("player%d", i), time.Now())
		if err := r.Init(ctx, id); err != nil {
			t.Fatalf("Init: %v", err)
		}
	}

	rows, err := r.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("default limit returned %d rows", len(rows))
	}
}
