// internal/httpserver/routes_game.go
//
// Game endpoints. Guests can play; a valid token only matters later when
// the client reports the outcome to the progression routes.
//   - POST   /game/start            → create a session for a difficulty+mode
//   - POST   /game/guess            → submit a guess
//   - GET    /game/{sessionID}      → fetch the public session view
//   - DELETE /game/{sessionID}      → end a session (idempotent)
//   - POST   /game/validate         → dictionary lookup for a word
//   - GET    /game/words/{level}    → study list for one difficulty
//   - GET    /game/stats            → live session count

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wurdsmyth/go-server/internal/game"
	"github.com/wurdsmyth/go-server/internal/registry"
	"github.com/wurdsmyth/go-server/internal/words"
)

// mountGame registers the /game routes.
func (s *Server) mountGame() {
	s.r.Route("/game", func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/start", s.handleStartGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/validate", s.handleValidateWord)
		r.Get("/stats", s.handleGameStats)
		r.Get("/words/{level}", s.handleWordsByLevel)
		r.Get("/{sessionID}", s.handleGetGame)
		r.Delete("/{sessionID}", s.handleEndGame)
	})
}

// startGameReq/Res payloads for POST /game/start.
type startGameReq struct {
	Difficulty string `json:"difficulty"`
	Mode       string `json:"gameMode"`
}

// wordData is the mode-dependent hint material from the catalog.
type wordData struct {
	Definition string   `json:"definition"`
	Sentence   string   `json:"sentence"`
	Choices    []string `json:"choices,omitempty"`
}

type startGameRes struct {
	game.PublicView
	WordData *wordData `json:"wordData,omitempty"`
}

// handleStartGame draws a target word for the requested tier, creates a
// session, and registers it. Non-classic modes get the word's metadata;
// choices only for multiple choice.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	difficulty, err := words.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := words.Random(difficulty)
	if err != nil {
		log.Error().Err(err).Str("difficulty", string(difficulty)).Msg("draw word")
		writeErr(w, http.StatusInternalServerError, "failed to start game")
		return
	}

	sess := game.New(entry.Word, difficulty, mode, game.DefaultMaxGuesses)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeErr(w, http.StatusInternalServerError, "failed to start game")
		return
	}

	res := startGameRes{PublicView: sess.PublicView()}
	if mode != game.ModeClassic {
		res.WordData = &wordData{Definition: entry.Definition, Sentence: entry.Sentence}
		if mode == game.ModeMultipleChoice {
			res.WordData.Choices = entry.Choices
		}
	}
	writeJSON(w, http.StatusCreated, res)
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	SessionID string `json:"sessionId"`
	Guess     string `json:"guess"`
}
type guessRes struct {
	GuessResult game.GuessResult `json:"guessResult"`
	GameState   game.PublicView  `json:"gameState"`
}

// handleGuess applies a guess to a registered session and persists the
// updated state. Failed guesses leave the session untouched.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" || req.Guess == "" {
		writeErr(w, http.StatusBadRequest, "session ID and guess are required")
		return
	}
	if !words.IsValid(req.Guess) {
		writeErr(w, http.StatusBadRequest, "word not in dictionary")
		return
	}

	sess, err := s.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		writeErr(w, http.StatusNotFound, "game session not found")
		return
	}

	result, err := sess.ProcessGuess(req.Guess)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrSessionFinished), errors.Is(err, game.ErrGuessLimit):
			writeErr(w, http.StatusConflict, err.Error())
		default:
			writeErr(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("sessionId", sess.ID).Msg("save session")
		writeErr(w, http.StatusInternalServerError, "failed to save game")
		return
	}

	writeJSON(w, http.StatusOK, guessRes{GuessResult: result, GameState: sess.PublicView()})
}

// handleGetGame returns the public view of one session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "game session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess.PublicView())
}

// handleEndGame deletes a session. Deleting twice is fine.
func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		log.Warn().Err(err).Msg("delete session")
		writeErr(w, http.StatusInternalServerError, "failed to end game")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "game session ended"})
}

// validateReq/Res payloads for POST /game/validate.
type validateReq struct {
	Word string `json:"word"`
}

// handleValidateWord reports dictionary membership plus catalog details.
func (s *Server) handleValidateWord(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Word == "" {
		writeErr(w, http.StatusBadRequest, "word is required")
		return
	}
	entry, ok := words.Lookup(req.Word)
	res := map[string]any{"valid": ok, "word": entry.Word}
	if ok {
		res["details"] = entry
	}
	writeJSON(w, http.StatusOK, res)
}

// handleWordsByLevel lists a tier's words with definitions (study aid).
func (s *Server) handleWordsByLevel(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")
	difficulty, err := words.ParseDifficulty(level)
	if err != nil {
		writeErr(w, http.StatusNotFound, "invalid difficulty level")
		return
	}
	entries := words.ByDifficulty(difficulty)

	type item struct {
		Word       string `json:"word"`
		Definition string `json:"definition"`
	}
	out := make([]item, 0, len(entries))
	for _, e := range entries {
		out = append(out, item{Word: e.Word, Definition: e.Definition})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"level": difficulty,
		"count": len(out),
		"words": out,
	})
}

// handleGameStats reports the live session count.
func (s *Server) handleGameStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.sessions.Count(r.Context())
	if err != nil && !errors.Is(err, registry.ErrNotFound) {
		log.Warn().Err(err).Msg("count sessions")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"activeGames": n,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
