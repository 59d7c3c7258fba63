package api

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"sync"
)

// connections tracks open websocket streams so they can be closed on
// shutdown.
type connections struct {
	mu    sync.Mutex
	conns map[uuid.UUID]*websocket.Conn
}

func newConnections() *connections {
	return &connections{
		conns: map[uuid.UUID]*websocket.Conn{},
	}
}

func (s *connections) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, id)
}

func (s *connections) add(id uuid.UUID, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[id] = conn
}

func (s *connections) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *connections) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.conns {
		_ = c.Close()
		delete(s.conns, id)
	}
}
