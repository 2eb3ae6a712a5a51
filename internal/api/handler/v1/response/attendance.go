package response

import "time"

// CheckInResponse is the result shape shared by every check-in entry point.
type CheckInResponse struct {
	Success          bool       `json:"success"`
	SignupID         uint       `json:"signup_id,omitempty"`
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	AnonSignupID     string     `json:"anon_signup_id,omitempty"`
	AlreadyCheckedIn bool       `json:"already_checked_in,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// ConfirmationResponse renders the terminal state of a confirmation link.
type ConfirmationResponse struct {
	State   string `json:"state"` // "success", "already_confirmed", "invalid", or "error"
	Message string `json:"message"`
}

// CheckInTokenResponse carries a signed token for rendering as a QR code.
type CheckInTokenResponse struct {
	Token string `json:"token"`
}
