package convert

import (
	"context"
	"sync"
)

// MockChecker is a scriptable Checker for tests. Verdicts and errors are
// keyed by candidate path; unknown paths fall back to Default.
type MockChecker struct {
	Verdicts map[string]Info
	Errs     map[string]error
	Default  Info
	Err      error
	Absent   bool

	mu    sync.Mutex
	calls []string
}

// NewMockChecker creates an available mock with no scripted verdicts.
func NewMockChecker() *MockChecker {
	return &MockChecker{
		Verdicts: map[string]Info{},
		Errs:     map[string]error{},
	}
}

func (m *MockChecker) Available() bool {
	return !m.Absent
}

func (m *MockChecker) Check(_ context.Context, _, candidatePath, _ string) (Info, error) {
	m.mu.Lock()
	m.calls = append(m.calls, candidatePath)
	m.mu.Unlock()

	if m.Absent {
		return Info{}, ErrUnavailable
	}
	if m.Err != nil {
		return Info{}, m.Err
	}
	if err, ok := m.Errs[candidatePath]; ok {
		return Info{}, err
	}
	if info, ok := m.Verdicts[candidatePath]; ok {
		return info, nil
	}
	return m.Default, nil
}

// Calls returns the candidate paths checked so far, in call order.
func (m *MockChecker) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
