// Package server exposes scenario sessions over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/curbz/rt-trainer/internal/config"
	"github.com/curbz/rt-trainer/internal/scenario"
	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/store"
	"github.com/curbz/rt-trainer/pkg/util"
)

const maxBodyBytes = 1 << 20

type Server struct {
	cfg      config.ServerConfig
	session  *scenario.Session
	sessions *registry
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

// New builds a server. Sessions evicted from the in-memory cache of
// cacheSize entries are checkpointed to st.
func New(cfg config.ServerConfig, session *scenario.Session, st store.Store, cacheSize int, log logrus.FieldLogger) (*Server, error) {
	reg, err := newRegistry(cacheSize, st, log)
	if err != nil {
		return nil, fmt.Errorf("session registry: %w", err)
	}
	return &Server{
		cfg:      cfg,
		session:  session,
		sessions: reg,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/scenarios", s.createScenario)
	mux.HandleFunc("GET /api/v1/scenarios/{id}", s.getScenario)
	mux.HandleFunc("POST /api/v1/scenarios/{id}/transmissions", s.transmit)
	mux.HandleFunc("POST /api/v1/step", s.step)
	mux.HandleFunc("GET /ws/v1/scenarios/{id}", s.wsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// Run serves until ctx is cancelled, then shuts down and checkpoints every
// live session.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("addr", ln.Addr().String()).Info("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		return errors.Join(err, s.sessions.flush())
	})
	return g.Wait()
}

type scenarioResponse struct {
	ID    string      `json:"id"`
	Seed  uint32      `json:"seed"`
	State state.State `json:"state"`
}

type transmissionRequest struct {
	Message string `json:"message"`
}

type stepRequest struct {
	Data    scenario.StatusData `json:"data"`
	Message string              `json:"message"`
}

type errorResponse struct {
	Error    string                `json:"error"`
	Problems []scenario.FieldError `json:"problems,omitempty"`
}

func (s *Server) createScenario(w http.ResponseWriter, r *http.Request) {
	var p scenario.Params
	if !decodeBody(w, r, &p) {
		return
	}
	data, err := s.session.StartData(p)
	if err != nil {
		var ve *scenario.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Problems: ve.Problems})
			return
		}
		s.log.WithError(err).Error("failed to start scenario")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	id := s.sessions.create(data)
	s.log.WithFields(logrus.Fields{"session": id, "seed": data.Seed}).Info("scenario started")
	writeJSON(w, http.StatusCreated, scenarioResponse{ID: id, Seed: data.Seed, State: data.CurrentState})
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request) {
	e, ok := s.acquire(w, r.PathValue("id"))
	if !ok {
		return
	}
	resp := scenarioResponse{ID: e.id, Seed: e.data.Seed, State: e.data.CurrentState}
	e.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) transmit(w http.ResponseWriter, r *http.Request) {
	var req transmissionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	e, ok := s.acquire(w, r.PathValue("id"))
	if !ok {
		return
	}
	turn, err := s.turn(e, req.Message)
	e.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	turn, err := s.session.Step(req.Data, req.Message)
	if err != nil {
		s.log.WithError(err).Error("stateless step failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, ok := s.acquire(w, id)
	if !ok {
		return
	}
	e.mu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade error")
		return
	}
	defer conn.Close()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).WithField("session", id).Debug("websocket read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		e, err := s.sessions.acquire(id)
		if err != nil {
			_ = util.SendJSON(conn, errorResponse{Error: err.Error()})
			return
		}
		turn, err := s.turn(e, string(msg))
		e.mu.Unlock()
		if err != nil {
			_ = util.SendJSON(conn, errorResponse{Error: err.Error()})
			return
		}
		if err := util.SendJSON(conn, turn); err != nil {
			s.log.WithError(err).WithField("session", id).Warn("websocket write error")
			return
		}
	}
}

// turn runs one transmission against a locked session and stores the result.
func (s *Server) turn(e *entry, msg string) (scenario.Turn, error) {
	before := e.data.CurrentState.Key()
	turn, err := s.session.Step(e.data, msg)
	if err != nil {
		s.log.WithError(err).WithField("session", e.id).Error("step failed")
		return scenario.Turn{}, err
	}
	e.data.CurrentState = turn.State

	fields := logrus.Fields{
		"session": e.id,
		"phase":   before.Phase.String(),
		"stage":   before.String(),
	}
	if turn.Error != nil {
		fields["error_kind"] = turn.Error.Kind.String()
	}
	s.log.WithFields(fields).Info("transmission")
	return turn, nil
}

func (s *Server) acquire(w http.ResponseWriter, id string) (*entry, bool) {
	e, err := s.sessions.acquire(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", id))
		return nil, false
	case err != nil:
		s.log.WithError(err).WithField("session", id).Error("failed to load session")
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return e, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
