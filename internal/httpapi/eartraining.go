package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"muselift/internal/eartraining"
)

// sessionStore keeps one ear-training engine per active session. Engines
// are not safe for concurrent use, so every access runs under the store
// lock.
type sessionStore struct {
	mu      sync.Mutex
	engines map[string]*eartraining.Engine
}

func newSessionStore() *sessionStore {
	return &sessionStore{engines: make(map[string]*eartraining.Engine)}
}

func (s *sessionStore) create(engine *eartraining.Engine) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.engines[id] = engine
	s.mu.Unlock()
	return id
}

// with runs fn against the session's engine under the store lock. The first
// return is false when the session does not exist.
func (s *sessionStore) with(id string, fn func(*eartraining.Engine) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	engine, ok := s.engines[id]
	if !ok {
		return false, nil
	}
	return true, fn(engine)
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.engines[id]; !ok {
		return false
	}
	delete(s.engines, id)
	return true
}

// sessionResponse is the full game-state snapshot returned by every
// ear-training endpoint. Target is included so a client can trigger audio
// for the prompted note itself.
type sessionResponse struct {
	SessionID  string `json:"session_id"`
	Difficulty string `json:"difficulty"`
	State      string `json:"state"`
	Score      int    `json:"score"`
	Streak     int    `json:"streak"`
	Feedback   string `json:"feedback"`
	Target     string `json:"target,omitempty"`
}

func snapshot(id string, e *eartraining.Engine) sessionResponse {
	return sessionResponse{
		SessionID:  id,
		Difficulty: string(e.Difficulty()),
		State:      string(e.State()),
		Score:      e.Score(),
		Streak:     e.Streak(),
		Feedback:   string(e.Feedback()),
		Target:     string(e.Target()),
	}
}

// handleCreateSession starts a new game at the requested difficulty.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	difficulty, ok := eartraining.ParseDifficulty(req.Difficulty)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid difficulty. Must be 'beginner', 'intermediate' or 'advanced'")
		return
	}

	engine := eartraining.NewEngine()
	if err := engine.Start(difficulty); err != nil {
		s.log.Error().Err(err).Msg("start ear-training session failed")
		writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	id := s.sessions.create(engine)
	writeJSON(w, http.StatusCreated, snapshot(id, engine))
}

// handleGetSession returns the current snapshot of a session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var resp sessionResponse
	found, _ := s.sessions.with(id, func(e *eartraining.Engine) error {
		resp = snapshot(id, e)
		return nil
	})
	if !found {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGuess evaluates a note guess against the session's pending target.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, ok := eartraining.ParseNote(req.Note)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid note")
		return
	}

	var resp sessionResponse
	found, err := s.sessions.with(id, func(e *eartraining.Engine) error {
		if err := e.Guess(note); err != nil {
			return err
		}
		resp = snapshot(id, e)
		return nil
	})
	if !found {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSkip discards the pending target and prompts a new one.
func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var resp sessionResponse
	found, err := s.sessions.with(id, func(e *eartraining.Engine) error {
		if err := e.Skip(); err != nil {
			return err
		}
		resp = snapshot(id, e)
		return nil
	})
	if !found {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteSession ends a session and frees its state.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.sessions.delete(id) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
