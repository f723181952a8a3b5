package domain

import "time"

// Session is one finished `be in` or `be activate` subshell.
type Session struct {
	Item                 string        `json:"item"`
	Shell                string        `json:"shell"`
	DevelopmentDirectory string        `json:"development_directory,omitempty"`
	Entered              bool          `json:"entered"`
	StartedAt            time.Time     `json:"started_at"`
	Duration             time.Duration `json:"duration"`
	ExitCode             int           `json:"exit_code"`
}
