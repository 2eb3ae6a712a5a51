package domain

import "time"

type VerificationMethod string

const (
	VerificationQRCode     VerificationMethod = "qr-code"
	VerificationManual     VerificationMethod = "manual"
	VerificationAuto       VerificationMethod = "auto"
	VerificationSignupOnly VerificationMethod = "signup-only"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCancelled ProjectStatus = "cancelled"
	ProjectCompleted ProjectStatus = "completed"
)

type Project struct {
	ID                 uint               `json:"id"`
	Title              string             `json:"title"`
	Location           string             `json:"location"`
	Description        string             `json:"description"`
	EventType          EventType          `json:"event_type"`
	Schedule           Schedule           `json:"schedule"`
	VerificationMethod VerificationMethod `json:"verification_method"`
	RequireLogin       bool               `json:"require_login"`
	Published          map[string]bool    `json:"published"`
	Status             ProjectStatus      `json:"status"`
	CreatorID          uint               `json:"creator_id"`
	Organization       string             `json:"organization,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// HoursPublished reports the one-way publication gate for a schedule slot.
func (p Project) HoursPublished(scheduleID string) bool {
	return p.Published[scheduleID]
}
