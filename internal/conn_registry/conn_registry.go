// Package conn_registry tracks the live connections of a running
// server so shutdown can close them all.
package conn_registry

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

type Registry struct {
	mu    sync.Mutex
	conns map[string]net.Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]net.Conn)}
}

// Add registers a connection and returns its registry ID.
func (r *Registry) Add(conn net.Conn) string {
	id := uuid.New().String()
	r.mu.Lock()
	r.conns[id] = conn
	r.mu.Unlock()
	return id
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.conns, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// CloseAll closes every registered connection. Handling goroutines
// blocked on a read then fail their next decode and exit.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range r.conns {
		conn.Close()
		delete(r.conns, id)
	}
}
