package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wurdsmyth/go-server/internal/config"
	"github.com/wurdsmyth/go-server/internal/game"
	"github.com/wurdsmyth/go-server/internal/progress"
	"github.com/wurdsmyth/go-server/internal/registry"
	"github.com/wurdsmyth/go-server/internal/words"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	if err := words.Init(); err != nil {
		t.Fatalf("words.Init: %v", err)
	}

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000")
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

	sessions := registry.NewMemory(0)
	t.Cleanup(func() { sessions.Close() })

	cfg := &config.Config{
		JWTSecret:    "test_secret",
		JWTExpiresIn: time.Hour,
		CookieName:   "wurdsmyth_token",
		ClientOrigin: "http://localhost:5173",
	}
	return New(cfg, sessions, db, progress.NewRepo(db))
}

// do issues a request against the router and returns the recorder.
func do(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]bool
	decode(t, rec, &body)
	if !body["ok"] {
		t.Fatalf("body = %v", body)
	}
}

func TestGameLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/game/start",
		map[string]string{"difficulty": "medium", "gameMode": "classic"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	var view game.PublicView
	decode(t, rec, &view)
	if view.SessionID == "" || view.Status != game.StatusActive {
		t.Fatalf("start view: %+v", view)
	}
	if view.TargetWord != "" {
		t.Fatalf("start leaked target %q", view.TargetWord)
	}
	if view.MaxGuesses != game.DefaultMaxGuesses || view.WordLength == 0 {
		t.Fatalf("start view: %+v", view)
	}

	// Peek at the registry to learn the answer, then win.
	sess, err := s.sessions.Get(context.Background(), view.SessionID)
	if err != nil {
		t.Fatalf("session missing from registry: %v", err)
	}

	rec = do(t, s, http.MethodPost, "/game/guess",
		map[string]string{"sessionId": view.SessionID, "guess": sess.TargetWord}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("guess status = %d: %s", rec.Code, rec.Body.String())
	}
	var gr struct {
		GuessResult game.GuessResult `json:"guessResult"`
		GameState   game.PublicView  `json:"gameState"`
	}
	decode(t, rec, &gr)
	for i, tag := range gr.GuessResult.Feedback {
		if tag != game.TagCorrect {
			t.Fatalf("feedback[%d] = %q", i, tag)
		}
	}
	if gr.GameState.Status != game.StatusWon || gr.GameState.Score <= 0 {
		t.Fatalf("game state: %+v", gr.GameState)
	}
	if gr.GameState.TargetWord != sess.TargetWord {
		t.Fatalf("terminal state hides target: %+v", gr.GameState)
	}

	// A finished session rejects further guesses.
	rec = do(t, s, http.MethodPost, "/game/guess",
		map[string]string{"sessionId": view.SessionID, "guess": sess.TargetWord}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("guess after win = %d", rec.Code)
	}

	// Ending is idempotent and the session is gone afterwards.
	if rec := do(t, s, http.MethodDelete, "/game/"+view.SessionID, nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("end status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/game/"+view.SessionID, nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("second end status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/game/"+view.SessionID, nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after end = %d", rec.Code)
	}
}

func TestStartGameModeMetadata(t *testing.T) {
	s := newTestServer(t)

	type res struct {
		game.PublicView
		WordData *struct {
			Definition string   `json:"definition"`
			Sentence   string   `json:"sentence"`
			Choices    []string `json:"choices"`
		} `json:"wordData"`
	}

	var classic res
	decode(t, do(t, s, http.MethodPost, "/game/start",
		map[string]string{"difficulty": "easy", "gameMode": "classic"}, ""), &classic)
	if classic.WordData != nil {
		t.Fatalf("classic mode leaked word data: %+v", classic.WordData)
	}

	var fill res
	decode(t, do(t, s, http.MethodPost, "/game/start",
		map[string]string{"difficulty": "easy", "gameMode": "fill_blank"}, ""), &fill)
	if fill.WordData == nil || fill.WordData.Definition == "" || fill.WordData.Sentence == "" {
		t.Fatalf("fill_blank missing metadata: %+v", fill.WordData)
	}
	if len(fill.WordData.Choices) != 0 {
		t.Fatalf("fill_blank leaked choices: %v", fill.WordData.Choices)
	}

	var mc res
	decode(t, do(t, s, http.MethodPost, "/game/start",
		map[string]string{"difficulty": "easy", "gameMode": "multiple_choice"}, ""), &mc)
	if mc.WordData == nil || len(mc.WordData.Choices) != 4 {
		t.Fatalf("multiple_choice choices: %+v", mc.WordData)
	}
}

func TestStartGameBadInputs(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/game/start", map[string]string{"difficulty": "nightmare"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad difficulty = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/game/start", map[string]string{"gameMode": "speedrun"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad mode = %d", rec.Code)
	}
}

func TestGuessValidation(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/game/guess", map[string]string{"guess": "HAPPY"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing session = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/game/guess",
		map[string]string{"sessionId": "x", "guess": "ZZZZZ"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown word = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["error"] != "word not in dictionary" {
		t.Fatalf("error = %q", body["error"])
	}

	rec = do(t, s, http.MethodPost, "/game/guess",
		map[string]string{"sessionId": "no-such-session", "guess": "HAPPY"}, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session = %d", rec.Code)
	}
}

func TestValidateWord(t *testing.T) {
	s := newTestServer(t)

	var body map[string]any
	decode(t, do(t, s, http.MethodPost, "/game/validate", map[string]string{"word": "happy"}, ""), &body)
	if body["valid"] != true || body["word"] != "HAPPY" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["details"]; !ok {
		t.Fatal("missing details for a known word")
	}

	decode(t, do(t, s, http.MethodPost, "/game/validate", map[string]string{"word": "zzzzz"}, ""), &body)
	if body["valid"] != false {
		t.Fatalf("body = %v", body)
	}
}

func TestWordsByLevel(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/game/words/hard", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Level string `json:"level"`
		Count int    `json:"count"`
		Words []struct {
			Word       string `json:"word"`
			Definition string `json:"definition"`
		} `json:"words"`
	}
	decode(t, rec, &body)
	if body.Level != "hard" || body.Count == 0 || len(body.Words) != body.Count {
		t.Fatalf("body: %+v", body)
	}
	if body.Words[0].Definition == "" {
		t.Fatal("missing definitions")
	}

	if rec := do(t, s, http.MethodGet, "/game/words/bogus", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("bogus level = %d", rec.Code)
	}
}

func TestGameStats(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/game/start", map[string]string{"difficulty": "easy"}, "")
	do(t, s, http.MethodPost, "/game/start", map[string]string{"difficulty": "hard"}, "")

	var body map[string]any
	decode(t, do(t, s, http.MethodGet, "/game/stats", nil, ""), &body)
	if body["activeGames"] != float64(2) {
		t.Fatalf("activeGames = %v", body["activeGames"])
	}
}

func signup(t *testing.T, s *Server, username, password string) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/auth/signup",
		map[string]string{"username": username, "password": password}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup = %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatalf("signup body missing token: %v", body)
	}
	return tok
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	tok := signup(t, s, "alice", "password123")

	// Duplicate username, case-insensitive.
	rec := do(t, s, http.MethodPost, "/auth/signup",
		map[string]string{"username": "ALICE", "password": "password123"}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/auth/login",
		map[string]string{"username": "alice", "password": "wrongwrong"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/auth/login",
		map[string]string{"username": "alice", "password": "password123"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, s, http.MethodGet, "/auth/me", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without token = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/auth/me", nil, tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("me = %d: %s", rec.Code, rec.Body.String())
	}
	var me struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Progress progress.Progression `json:"progress"`
	}
	decode(t, rec, &me)
	if me.User.Username != "alice" || me.Progress.Level != 1 {
		t.Fatalf("me body: %+v", me)
	}
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "password123"},
		{"bad characters", "al ice", "password123"},
		{"short password", "alice", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/auth/signup",
				map[string]string{"username": tt.username, "password": tt.password}, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}
}

func TestProgressEndpoints(t *testing.T) {
	s := newTestServer(t)
	tok := signup(t, s, "bob", "password123")

	outcome := map[string]any{
		"won": true, "difficulty": "hard", "gameMode": "classic",
		"score": 1700, "guesses": 1, "timeElapsed": 12000,
	}
	rec := do(t, s, http.MethodPost, "/auth/progress", outcome, tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("apply outcome = %d: %s", rec.Code, rec.Body.String())
	}
	var res progress.Result
	decode(t, rec, &res)
	if res.XPGained == 0 || len(res.NewBadges) == 0 {
		t.Fatalf("result: %+v", res)
	}

	rec = do(t, s, http.MethodGet, "/auth/progress", nil, tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("get progress = %d", rec.Code)
	}
	var p progress.Progression
	decode(t, rec, &p)
	if p.GamesWon != 1 || p.TotalScore != 1700 || p.PerfectGames != 1 {
		t.Fatalf("progress: %+v", p)
	}

	// Negative numbers are rejected.
	bad := map[string]any{"won": true, "difficulty": "easy", "score": -5}
	if rec := do(t, s, http.MethodPost, "/auth/progress", bad, tok); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative score = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/auth/badges", nil, tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("badges = %d", rec.Code)
	}
	var badges struct {
		Earned []progress.Badge `json:"earnedBadges"`
		All    []progress.Badge `json:"allBadges"`
	}
	decode(t, rec, &badges)
	if len(badges.Earned) == 0 || len(badges.All) != len(progress.Catalog) {
		t.Fatalf("badges: earned=%d all=%d", len(badges.Earned), len(badges.All))
	}

	rec = do(t, s, http.MethodGet, "/auth/leaderboard", nil, tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard = %d", rec.Code)
	}
	var lb struct {
		Leaderboard []progress.LeaderboardRow `json:"leaderboard"`
	}
	decode(t, rec, &lb)
	if len(lb.Leaderboard) != 1 || lb.Leaderboard[0].Username != "bob" {
		t.Fatalf("leaderboard: %+v", lb.Leaderboard)
	}
	if lb.Leaderboard[0].TotalScore != 1700 {
		t.Fatalf("leaderboard score = %d", lb.Leaderboard[0].TotalScore)
	}
}
