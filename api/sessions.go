/*
sessions.go - In-process registry of open review sessions

PURPOSE:
  Review sessions are in-memory objects addressed by an opaque token. The
  registry maps tokens to live sessions and evicts them once closed. A
  restart drops open sessions; the operator re-imports the file. Nothing is
  committed until approval, so an evicted session loses no persisted data.
*/
package api

import (
	"sync"

	"github.com/warp/attendance-reconciler/reconcile"
)

// Registry holds open review sessions by token.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *reconcile.Session
	fileName string
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*sessionEntry)}
}

// Put registers a freshly loaded session.
func (r *Registry) Put(session *reconcile.Session, fileName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token()] = &sessionEntry{session: session, fileName: fileName}
}

// Get returns the session for a token, or nil when unknown.
func (r *Registry) Get(token string) (*reconcile.Session, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[token]
	if !ok {
		return nil, ""
	}
	return entry.session, entry.fileName
}

// Evict drops a session from the registry.
func (r *Registry) Evict(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

// Sweep evicts every closed session and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for token, entry := range r.sessions {
		if entry.session.Closed() {
			delete(r.sessions, token)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
