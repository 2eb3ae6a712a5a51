package domain

import "time"

// RenderState classifies a dashboard signup card. States are mutually
// exclusive and evaluated in a fixed priority order, publication first.
type RenderState string

const (
	StateHoursPublished RenderState = "hoursPublished"
	StatePostEventHours RenderState = "postEventHours"
	StateCheckedIn      RenderState = "checkedIn"
	StateMissedEvent    RenderState = "missedEvent"
	StateCheckInOpen    RenderState = "checkInOpen"
	StateReminder       RenderState = "reminder"
	StateNone           RenderState = "none"
)

// DashboardCard is the read-side projection of one signup for rendering.
type DashboardCard struct {
	Signup             ProjectSignup      `json:"signup"`
	ProjectID          uint               `json:"project_id"`
	ProjectTitle       string             `json:"project_title"`
	Location           string             `json:"location"`
	VerificationMethod VerificationMethod `json:"verification_method"`
	SessionStart       time.Time          `json:"session_start"`
	SessionEnd         time.Time          `json:"session_end"`
	State              RenderState        `json:"state"`
	// Progress is the attended-session completion ratio in [0, 1],
	// only meaningful for the checkedIn state.
	Progress float64 `json:"progress,omitempty"`
	// HoursUntilPublication counts down the post-event processing
	// window, only meaningful for the postEventHours state.
	HoursUntilPublication float64 `json:"hours_until_publication,omitempty"`
}
