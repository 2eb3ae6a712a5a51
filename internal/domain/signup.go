package domain

import "time"

type SignupStatus string

const (
	SignupPending  SignupStatus = "pending"
	SignupApproved SignupStatus = "approved"
	SignupAttended SignupStatus = "attended"
	SignupRejected SignupStatus = "rejected"
)

// ProjectSignup ties one participant to one schedule slot of a project.
// Exactly one of UserID and AnonymousID is set.
type ProjectSignup struct {
	ID          uint         `json:"id"`
	ProjectID   uint         `json:"project_id"`
	ScheduleID  string       `json:"schedule_id"`
	UserID      *uint        `json:"user_id,omitempty"`
	AnonymousID *string      `json:"anonymous_id,omitempty"`
	Status      SignupStatus `json:"status"`
	CheckInTime *time.Time   `json:"check_in_time,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsRegistered reports whether the signup belongs to an authenticated user.
func (s ProjectSignup) IsRegistered() bool {
	return s.UserID != nil
}

// CheckedIn reports whether attendance has already been recorded.
func (s ProjectSignup) CheckedIn() bool {
	return s.CheckInTime != nil
}

// AnonymousSignup is a volunteer registration not tied to an account,
// identified by email and a confirmation token.
type AnonymousSignup struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	ProjectID   uint       `json:"project_id"`
	SignupID    uint       `json:"signup_id"`
	Token       string     `json:"-"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (a AnonymousSignup) Confirmed() bool {
	return a.ConfirmedAt != nil
}

// LookupResult is the outcome of resolving an email against a project's
// signups, covering both registered and anonymous participants.
type LookupResult struct {
	Success      bool    `json:"success"`
	Found        bool    `json:"found"`
	IsRegistered bool    `json:"is_registered"`
	SignupID     *uint   `json:"signup_id,omitempty"`
	AnonSignupID *string `json:"anon_signup_id,omitempty"`
	Message      string  `json:"message,omitempty"`
	Error        string  `json:"error,omitempty"`
}
