package session

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/convert"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/navigator"
)

// Test Plan for Session:
// - Navigate lists the target directory and moves the session there
// - Navigate on a concluded session fails with ErrSessionClosed
// - Navigate clears any prior selection
// - A slow navigation overtaken by a newer one is discarded
// - Listings for one session are serialized, never overlapping
// - An unreadable directory degrades to an empty listing with a notice
// - Directories, suggestions, and the current directory are selectable
// - Selecting a convertible module file records its folder form
// - Entries not in the current listing are not selectable
// - Confirm without a selection is a no-op; the session keeps browsing
// - Confirm with a selection concludes the session and delivers the result
// - Cancel delivers "no selection" exactly once and is idempotent
// - Receives after resolution observe the zero Result

type stubLister struct {
	mu   sync.Mutex
	dirs map[string][]navigator.Child
	errs map[string]error

	// gate, when set for a path, blocks ListChildren until closed.
	gate map[string]chan struct{}

	inFlight    int
	maxInFlight int
}

func (s *stubLister) ListChildren(path string) ([]navigator.Child, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	gate := s.gate[path]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	children, ok := s.dirs[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return children, nil
}

func newTestRegistry(t *testing.T, lister navigator.Lister) *Registry {
	t.Helper()

	checker := convert.NewMockChecker()
	checker.Default = convert.Info{NeedsConversion: true}

	nav, err := navigator.New(lister, checker, navigator.Options{
		SourceRoot:      "src",
		ModuleExtension: "rs",
		ConventionMode:  true,
	})
	require.NoError(t, err)
	return NewRegistry(nav, "rs", "src")
}

func workspaceLister() *stubLister {
	return &stubLister{dirs: map[string][]navigator.Child{
		"src": {
			{Name: "models", IsDir: true},
			{Name: "services", IsDir: true},
			{Name: "payment.rs", IsDir: false},
		},
		"src/services": {},
	}}
}

func TestSession_NavigateAndSelectDirectory(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")

	listing, err := s.Navigate(context.Background(), "src")
	require.NoError(t, err)
	assert.Equal(t, "src", s.CurrentPath())
	require.Len(t, listing.Directories, 2)

	require.NoError(t, s.Select("src/services"))
	assert.Equal(t, "src/services", s.SelectedPath())

	final, ok := s.Confirm()
	require.True(t, ok)
	assert.Equal(t, "src/services/billing.rs", final)
	assert.Equal(t, StateConfirmed, s.State())

	res := <-s.Result()
	assert.True(t, res.Selected)
	assert.Equal(t, "src/services/billing.rs", res.Path)
}

func TestSession_SelectCurrentDirectory(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")

	_, err := s.Navigate(context.Background(), "src/services")
	require.NoError(t, err)

	// "Create here": the current directory is always selectable.
	require.NoError(t, s.Select("src/services"))

	final, ok := s.Confirm()
	require.True(t, ok)
	assert.Equal(t, "src/services/billing.rs", final)
}

func TestSession_SelectSuggestion(t *testing.T) {
	t.Parallel()

	// Empty source root: the listing offers convention suggestions.
	reg := newTestRegistry(t, &stubLister{dirs: map[string][]navigator.Child{"src": {}}})
	s := reg.Begin("stream-1", "billing")

	listing, err := s.Navigate(context.Background(), "src")
	require.NoError(t, err)
	require.NotEmpty(t, listing.Suggestions)

	require.NoError(t, s.Select("src/services"))

	final, ok := s.Confirm()
	require.True(t, ok)
	assert.Equal(t, "src/services/billing.rs", final)
}

// Test: selecting payment.rs lands the module inside src/payment
func TestSession_SelectConvertibleModuleFile(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")

	listing, err := s.Navigate(context.Background(), "src")
	require.NoError(t, err)
	require.Len(t, listing.ModuleFiles, 1)
	assert.Equal(t, "src/payment.rs", listing.ModuleFiles[0].Path)

	require.NoError(t, s.Select("src/payment.rs"))
	assert.Equal(t, "src/payment", s.SelectedPath())

	final, ok := s.Confirm()
	require.True(t, ok)
	assert.Equal(t, "src/payment/billing.rs", final)
}

func TestSession_SelectRejectsUnknownEntry(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")

	_, err := s.Navigate(context.Background(), "src")
	require.NoError(t, err)

	assert.Error(t, s.Select("src/widgets"))
	assert.Error(t, s.Select("etc/passwd"))
	assert.Empty(t, s.SelectedPath())
}

func TestSession_NavigateClearsSelection(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")

	_, err := s.Navigate(context.Background(), "src")
	require.NoError(t, err)
	require.NoError(t, s.Select("src/services"))

	_, err = s.Navigate(context.Background(), "src/services")
	require.NoError(t, err)
	assert.Empty(t, s.SelectedPath())

	// Confirm without a selection does nothing; still browsing.
	_, ok := s.Confirm()
	assert.False(t, ok)
	assert.Equal(t, StateBrowsing, s.State())
}

func TestSession_SupersededNavigationDiscarded(t *testing.T) {
	t.Parallel()

	lister := workspaceLister()
	gate := make(chan struct{})
	lister.gate = map[string]chan struct{}{"src/models": gate}

	reg := newTestRegistry(t, lister)
	s := reg.Begin("stream-1", "billing")

	slowErr := make(chan error, 1)
	go func() {
		_, err := s.Navigate(context.Background(), "src/models")
		slowErr <- err
	}()

	// Let the slow navigation claim its sequence number before overtaking it.
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.navSeq == 1
	}, time.Second, time.Millisecond)

	// The newer navigation queues behind the in-flight listing; run it
	// concurrently and release the gate once it holds the newer sequence.
	fastErr := make(chan error, 1)
	go func() {
		_, err := s.Navigate(context.Background(), "src/services")
		fastErr <- err
	}()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.navSeq == 2
	}, time.Second, time.Millisecond)

	close(gate)
	require.ErrorIs(t, <-slowErr, ErrNavigationSuperseded)
	require.NoError(t, <-fastErr)
	assert.Equal(t, "src/services", s.CurrentPath(), "stale navigation must not overwrite newer state")

	lister.mu.Lock()
	maxInFlight := lister.maxInFlight
	lister.mu.Unlock()
	assert.Equal(t, 1, maxInFlight, "listings for one session never overlap")
}

func TestSession_UnreadableDirectoryDegrades(t *testing.T) {
	t.Parallel()

	lister := workspaceLister()
	lister.errs = map[string]error{"src/secret": errors.New("permission denied")}

	reg := newTestRegistry(t, lister)
	s := reg.Begin("stream-1", "billing")

	listing, err := s.Navigate(context.Background(), "src/secret")
	require.NoError(t, err)
	assert.NotEmpty(t, listing.Notice)
	assert.Empty(t, listing.Directories)
	assert.Equal(t, StateBrowsing, s.State())
}

func TestSession_CancelDeliversNoSelectionOnce(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")

	s.Cancel()
	assert.Equal(t, StateCancelled, s.State())

	res := <-s.Result()
	assert.False(t, res.Selected)
	assert.Empty(t, res.Path)

	// Idempotent: a second cancel neither panics nor re-delivers.
	s.Cancel()
	res, ok := <-s.Result()
	assert.False(t, ok, "channel is closed after the single delivery")
	assert.Equal(t, Result{}, res)
}

func TestSession_ConcludedSessionRefusesWork(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")
	s.Cancel()

	_, err := s.Navigate(context.Background(), "src")
	require.ErrorIs(t, err, ErrSessionClosed)
	require.ErrorIs(t, s.Select("src/models"), ErrSessionClosed)

	_, ok := s.Confirm()
	assert.False(t, ok)
}

func TestSession_ConfirmThenCancelKeepsResult(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t, workspaceLister())
	s := reg.Begin("stream-1", "billing")

	_, err := s.Navigate(context.Background(), "src")
	require.NoError(t, err)
	require.NoError(t, s.Select("src/models"))

	_, ok := s.Confirm()
	require.True(t, ok)

	// A late cancel cannot replace the confirmed result.
	s.Cancel()
	assert.Equal(t, StateConfirmed, s.State())

	res := <-s.Result()
	assert.True(t, res.Selected)
	assert.Equal(t, "src/models/billing.rs", res.Path)
}
