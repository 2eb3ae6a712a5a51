package domain

import "time"

// Certificate is an immutable denormalized snapshot of completed
// participation, created once per signup after hours are published.
type Certificate struct {
	ID             string    `json:"id"`
	SignupID       uint      `json:"signup_id"`
	ProjectID      uint      `json:"project_id"`
	ProjectTitle   string    `json:"project_title"`
	Organization   string    `json:"organization,omitempty"`
	VolunteerName  string    `json:"volunteer_name"`
	VolunteerEmail string    `json:"volunteer_email"`
	ScheduleID     string    `json:"schedule_id"`
	SessionStart   time.Time `json:"session_start"`
	SessionEnd     time.Time `json:"session_end"`
	Hours          float64   `json:"hours"`
	IsCertified    bool      `json:"is_certified"`
	IssuedAt       time.Time `json:"issued_at"`
}
