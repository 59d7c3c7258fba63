package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"idea-dashboard/pkg/logger"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
	"io"
	"net/http"
	"time"
)

// Dashboard is the state the mirror exposes.
type Dashboard interface {
	Roster() models.Roster
	Snapshot() (models.PollerState, error)
	Status() (models.Status, error)
	Submit(idea string) error
	Refresh() error
	Subscribe() (<-chan messages.Event, func())
}

type agentLog struct {
	models.Agent
	Text string `json:"text"`
}

type snapshotResponse struct {
	Agents  []agentLog `json:"agents"`
	Loading bool       `json:"loading"`
	Cycle   uint64     `json:"cycle"`
}

type streamEvent struct {
	Type string         `json:"type"`
	Data messages.Event `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server mirrors the dashboard over HTTP: JSON reads, idea submission and a
// websocket stream of commits and status changes.
type Server struct {
	dash   Dashboard
	server *http.Server
	conns  *connections
}

func New(dash Dashboard, addr string) *Server {
	s := &Server{
		dash:  dash,
		conns: newConnections(),
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(logger.HTTPMiddleware())

	r.Get("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		st, err := s.dash.Snapshot()
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("unable to get snapshot")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: "unable to get snapshot"})
			return
		}
		render.JSON(w, r, buildSnapshot(s.dash.Roster(), st))
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		st, err := s.dash.Status()
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("unable to get status")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: "unable to get status"})
			return
		}
		render.JSON(w, r, st)
	})

	r.Post("/api/orchestrate", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: "unable to read body"})
			return
		}
		if err := s.dash.Submit(string(body)); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, models.ErrEmptyIdea) {
				code = http.StatusBadRequest
			}
			render.Status(r, code)
			render.JSON(w, r, errorResponse{Error: err.Error()})
			return
		}
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, struct {
			Status string `json:"status"`
		}{"accepted"})
	})

	r.Post("/api/refresh", func(w http.ResponseWriter, r *http.Request) {
		if err := s.dash.Refresh(); err != nil {
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse{Error: err.Error()})
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	r.Get("/api/ws", s.stream)
	return r
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("mirror server listening")
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.conns.closeAll()
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	l := hlog.FromRequest(r)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	id := uuid.New()
	s.conns.add(id, conn)
	defer func() {
		s.conns.remove(id)
		_ = conn.Close()
	}()

	events, unsubscribe := s.dash.Subscribe()
	defer unsubscribe()

	// The client never sends anything we act on; reading only detects close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(streamEvent{Type: ev.EventType(), Data: ev}); err != nil {
				l.Debug().Err(err).Str("stream", id.String()).Msg("websocket write failed")
				return
			}
		}
	}
}

func buildSnapshot(roster models.Roster, st models.PollerState) snapshotResponse {
	res := snapshotResponse{
		Agents:  make([]agentLog, 0, len(roster)),
		Loading: st.Loading,
		Cycle:   st.Cycle,
	}
	for _, a := range roster {
		res.Agents = append(res.Agents, agentLog{Agent: a, Text: st.Snapshot.Display(a.ID, st.Loading)})
	}
	return res
}
