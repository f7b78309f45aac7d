package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/navigator"
)

// State is the target selection state machine. Browsing is the only
// non-terminal state.
type State string

const (
	StateBrowsing  State = "browsing"
	StateConfirmed State = "confirmed"
	StateCancelled State = "cancelled"
)

// Result is the final outcome of one target selection. Selected is false for
// the cancellation branch; cancellation is not an error.
type Result struct {
	// Path is the workspace-relative module file path, e.g.
	// "src/services/billing.rs". Empty when Selected is false.
	Path     string `json:"path,omitempty"`
	Selected bool   `json:"selected"`
}

// ErrSessionClosed is returned for navigation on a concluded session.
var ErrSessionClosed = errors.New("selection session already concluded")

// ErrNavigationSuperseded means a newer navigation arrived while this one
// was listing; the stale result was discarded.
var ErrNavigationSuperseded = errors.New("navigation superseded by a newer request")

// Session is one interactive, cancellable target selection. It owns its
// NavigationState exclusively: currentPath and selectedPath are mutated only
// by its own Navigate/Select/Confirm/Cancel calls and die with the session.
//
// The pending result is delivered at most once. Confirm or Cancel after
// resolution is a no-op, and disposal resolves "no selection" so callers
// never await forever.
type Session struct {
	id        string
	moduleExt string
	nav       *navigator.Navigator

	// navMu serializes in-flight listings: no two ListDirectory calls for
	// one session ever run concurrently.
	navMu sync.Mutex

	mu           sync.Mutex
	moduleName   string
	state        State
	currentPath  string
	selectedPath string
	listing      *navigator.Listing
	navSeq       uint64
	resolved     bool
	resultCh     chan Result
}

func newSession(id, moduleName, moduleExt string, nav *navigator.Navigator, startPath string) *Session {
	return &Session{
		id:          id,
		moduleName:  moduleName,
		moduleExt:   moduleExt,
		nav:         nav,
		state:       StateBrowsing,
		currentPath: navigator.Normalize(startPath),
		resultCh:    make(chan Result, 1),
	}
}

// ID returns the session's registry id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentPath returns the path the session is browsing.
func (s *Session) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPath
}

// SelectedPath returns the recorded selection, empty when none.
func (s *Session) SelectedPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPath
}

// ModuleName returns the module name this session is placing.
func (s *Session) ModuleName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moduleName
}

// Result is the session's pending final selection. It yields exactly one
// value; receives after resolution observe the zero Result.
func (s *Session) Result() <-chan Result {
	return s.resultCh
}

// Navigate moves the session to path, clears any prior selection, and
// re-lists. Listings for one session run strictly one at a time; a
// navigation superseded by a newer one has its result discarded rather
// than overwriting newer state.
//
// A directory read fault is recovered locally: the user gets an empty
// listing with an explanatory notice, never a crash.
func (s *Session) Navigate(ctx context.Context, path string) (*navigator.Listing, error) {
	s.mu.Lock()
	if s.state != StateBrowsing {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.selectedPath = ""
	s.navSeq++
	seq := s.navSeq
	target := navigator.Normalize(path)
	moduleName := s.moduleName
	s.mu.Unlock()

	s.navMu.Lock()
	defer s.navMu.Unlock()

	// A newer navigation may have arrived while this one waited its turn;
	// its listing would be stale, so skip it entirely.
	s.mu.Lock()
	stale := seq != s.navSeq
	s.mu.Unlock()
	if stale {
		return nil, ErrNavigationSuperseded
	}

	listing, err := s.nav.ListDirectory(ctx, target, moduleName)
	if err != nil {
		var unreadable *navigator.DirectoryUnreadableError
		if !errors.As(err, &unreadable) {
			return nil, err
		}
		log.Printf("[session %s] %v", s.id, err)
		listing = &navigator.Listing{
			Path:        target,
			Directories: []navigator.DirectoryEntry{},
			ModuleFiles: []navigator.DirectoryEntry{},
			Suggestions: []navigator.DirectoryEntry{},
			Breadcrumb:  navigator.Breadcrumb(target),
			ParentPath:  navigator.Parent(target),
			Notice:      fmt.Sprintf("directory %q could not be read", target),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.navSeq || s.state != StateBrowsing {
		return nil, ErrNavigationSuperseded
	}
	s.currentPath = target
	s.listing = listing
	return listing, nil
}

// Select records entryPath as the chosen target without changing state.
// Directories, suggestions, the current directory itself ("create here"),
// and convertible module files are selectable; a convertible file records
// its post-conversion folder form so the final path lands inside it.
func (s *Session) Select(entryPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBrowsing {
		return ErrSessionClosed
	}

	target := navigator.Normalize(entryPath)
	if target == s.currentPath {
		s.selectedPath = target
		return nil
	}

	if s.listing != nil {
		for _, entry := range s.listing.Directories {
			if entry.Path == target {
				s.selectedPath = target
				return nil
			}
		}
		for _, entry := range s.listing.Suggestions {
			if entry.Path == target {
				s.selectedPath = target
				return nil
			}
		}
		for _, entry := range s.listing.ModuleFiles {
			if entry.Path == target {
				s.selectedPath = folderForm(target, s.moduleExt)
				return nil
			}
		}
	}

	return fmt.Errorf("entry %q is not a selectable target of %q", entryPath, s.currentPath)
}

// Confirm concludes the session with the recorded selection. With no
// selection recorded it is a no-op and the session keeps browsing. The final
// module file path is selectedPath + "/" + moduleName + "." + extension.
func (s *Session) Confirm() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBrowsing || s.selectedPath == "" {
		return "", false
	}

	final := navigator.Join(s.selectedPath, s.moduleName+"."+s.moduleExt)
	s.state = StateConfirmed
	s.resolveLocked(Result{Path: final, Selected: true})
	return final, true
}

// Cancel concludes the session with no selection. Idempotent: once the
// result is resolved, further Cancel calls do nothing.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved {
		return
	}
	s.state = StateCancelled
	s.resolveLocked(Result{})
}

// Close disposes the session, resolving any unresolved result with
// "no selection".
func (s *Session) Close() {
	s.Cancel()
}

// setModuleName updates the module name when a new request reuses the live
// session.
func (s *Session) setModuleName(moduleName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moduleName = moduleName
}

func (s *Session) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateBrowsing
}

// resolveLocked delivers the result exactly once. The channel is buffered
// and closed after the single send, so a consumer already waiting gets the
// value and later receives observe the zero Result.
func (s *Session) resolveLocked(res Result) {
	if s.resolved {
		return
	}
	s.resolved = true
	s.resultCh <- res
	close(s.resultCh)
}

// folderForm maps a module file path to the directory it becomes after
// conversion: "src/payment.rs" selects into "src/payment".
func folderForm(filePath, ext string) string {
	suffix := "." + ext
	if len(filePath) > len(suffix) && filePath[len(filePath)-len(suffix):] == suffix {
		return filePath[:len(filePath)-len(suffix)]
	}
	return filePath
}
