package coachdto

import "github.com/park285/chess-coach-go/internal/analysis"

// SessionStatus is the public view of an analysis run for progress polling.
type SessionStatus struct {
	RunID           string `json:"run_id,omitempty"`
	Tier            string `json:"tier,omitempty"`
	Status          string `json:"status"`
	ProgressPercent int    `json:"progress_percent"`
}

func FromSession(s analysis.Session) SessionStatus {
	return SessionStatus{
		RunID:           s.RunID,
		Tier:            string(s.Tier),
		Status:          string(s.Status),
		ProgressPercent: s.ProgressPercent,
	}
}
