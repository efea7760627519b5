// internal/httpserver/routes_auth.go
//
// Auth + progression endpoints.
//   - POST /auth/signup, /auth/login, /auth/logout
// Gated (valid JWT required):
//   - GET  /auth/me          → user + progression snapshot
//   - GET  /auth/progress    → progression snapshot
//   - POST /auth/progress    → apply a finished game's outcome
//   - GET  /auth/badges      → earned + full badge catalog
//   - GET  /auth/leaderboard → top players by total score

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wurdsmyth/go-server/internal/game"
	"github.com/wurdsmyth/go-server/internal/progress"
	"github.com/wurdsmyth/go-server/internal/words"
)

// mountAuth registers the /auth routes.
func (s *Server) mountAuth() {
	s.r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth())
			r.Get("/me", s.handleMe)
			r.Get("/progress", s.handleGetProgress)
			r.Post("/progress", s.handleApplyOutcome)
			r.Get("/badges", s.handleBadges)
			r.Get("/leaderboard", s.handleLeaderboard)
		})
	})
}

// Request payloads for signup/login.
type signupReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleSignup creates a user, initializes their progression row, signs a
// JWT, and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := s.createUser(body.Username, body.Password)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			writeErr(w, http.StatusConflict, "Username taken")
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.progress.Init(r.Context(), u.ID); err != nil {
		log.Error().Err(err).Str("user", u.ID).Msg("init progression")
		writeErr(w, http.StatusInternalServerError, "failed to initialize progress")
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": u.CreatedAt,
		"token":     tok,
	})
}

// handleLogin authenticates the user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := s.findUserByUsername(normalizeUsername(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeErr(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "token": tok})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMe returns the current user and their progression.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p, err := s.progress.Get(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load progression")
		writeErr(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": me, "progress": p})
}

// handleGetProgress returns the progression snapshot alone.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p, err := s.progress.Get(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load progression")
		writeErr(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// outcomeReq is the finished-game report the client posts.
type outcomeReq struct {
	Won         bool   `json:"won"`
	Difficulty  string `json:"difficulty"`
	Mode        string `json:"gameMode"`
	Score       int    `json:"score"`
	GuessesUsed int    `json:"guesses"`
	ElapsedMs   int64  `json:"timeElapsed"`
}

// handleApplyOutcome folds one outcome into the player's progression and
// reports XP, level-up, and any freshly unlocked badges.
func (s *Server) handleApplyOutcome(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)

	var body outcomeReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	difficulty, err := words.ParseDifficulty(body.Difficulty)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := game.ParseMode(body.Mode)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Score < 0 || body.GuessesUsed < 0 || body.ElapsedMs < 0 {
		writeErr(w, http.StatusBadRequest, "score, guesses, and timeElapsed must be non-negative")
		return
	}

	res, err := s.progress.ApplyOutcome(r.Context(), me.ID, progress.Outcome{
		Won:         body.Won,
		Difficulty:  difficulty,
		Mode:        mode,
		Score:       body.Score,
		GuessesUsed: body.GuessesUsed,
		Elapsed:     time.Duration(body.ElapsedMs) * time.Millisecond,
	})
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("apply outcome")
		writeErr(w, http.StatusInternalServerError, "failed to update progress")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleBadges returns the earned badges (with metadata) and the catalog.
func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p, err := s.progress.Get(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load progression")
		writeErr(w, http.StatusInternalServerError, "failed to load badges")
		return
	}
	earned := make([]progress.Badge, 0, len(p.Badges))
	for _, id := range p.Badges {
		if b, ok := progress.BadgeByID(id); ok {
			earned = append(earned, b)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"earnedBadges": earned,
		"allBadges":    progress.Catalog,
	})
}

// handleLeaderboard returns the top players by total score.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	rows, err := s.progress.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		writeErr(w, http.StatusInternalServerError, "failed to fetch leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}
