package session

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/navigator"
)

// Registry owns every live selection session, keyed by an explicit session
// id. Single-flight per request stream: a new request arriving while that
// stream's session is still browsing reuses the live session (and its
// pending result) instead of racing a second one.
type Registry struct {
	nav       *navigator.Navigator
	moduleExt string
	startPath string

	mu       sync.Mutex
	byID     map[string]*Session
	byStream map[string]*Session
}

// NewRegistry creates a session registry. New sessions start browsing at
// startPath (normally the navigator's source root).
func NewRegistry(nav *navigator.Navigator, moduleExt, startPath string) *Registry {
	return &Registry{
		nav:       nav,
		moduleExt: moduleExt,
		startPath: navigator.Normalize(startPath),
		byID:      make(map[string]*Session),
		byStream:  make(map[string]*Session),
	}
}

// Begin returns the stream's live session, creating one when none is
// browsing. Reuse updates the module name so the live session serves the
// latest request. A concluded predecessor on the stream is pruned here.
func (r *Registry) Begin(streamKey, moduleName string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if live, ok := r.byStream[streamKey]; ok {
		if live.active() {
			live.setModuleName(moduleName)
			log.Printf("[registry] stream %q reusing session %s", streamKey, live.ID())
			return live
		}
		delete(r.byID, live.ID())
	}

	s := newSession(uuid.New().String(), moduleName, r.moduleExt, r.nav, r.startPath)
	r.byID[s.ID()] = s
	r.byStream[streamKey] = s
	log.Printf("[registry] stream %q opened session %s for module %q", streamKey, s.ID(), moduleName)
	return s
}

// Get looks a session up by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	return s, ok
}

// Remove cancels and forgets a session. Unknown ids are a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.byID[id]
	if ok {
		delete(r.byID, id)
		for key, live := range r.byStream {
			if live == s {
				delete(r.byStream, key)
			}
		}
	}
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Close disposes every session, resolving their pending results.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.byID))
	for _, s := range r.byID {
		sessions = append(sessions, s)
	}
	r.byID = make(map[string]*Session)
	r.byStream = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
