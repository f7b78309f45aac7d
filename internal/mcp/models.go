package mcp

import (
	"github.com/RustyRoad/rusty-refactor-sub001/internal/region"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/session"
)

// ResolveRegionResponse is the resolve_region tool payload. Method inside
// the region tells the host whether the symbol or the line range won.
type ResolveRegionResponse struct {
	Region region.Region `json:"region"`
}

// SessionResponse describes a selection session after a tool call.
type SessionResponse struct {
	SessionID    string        `json:"session_id"`
	State        session.State `json:"state"`
	CurrentPath  string        `json:"current_path"`
	SelectedPath string        `json:"selected_path,omitempty"`

	// FinalPath is set once the session confirms.
	FinalPath string `json:"final_path,omitempty"`
}

func sessionResponse(s *session.Session) *SessionResponse {
	return &SessionResponse{
		SessionID:    s.ID(),
		State:        s.State(),
		CurrentPath:  s.CurrentPath(),
		SelectedPath: s.SelectedPath(),
	}
}
