package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/lets-assist/api/internal/domain"
)

type CreateProjectRequest struct {
	Title              string          `json:"title" binding:"required"`
	Location           string          `json:"location" binding:"required"`
	Description        string          `json:"description"`
	EventType          string          `json:"event_type" binding:"required"`
	Schedule           domain.Schedule `json:"schedule"`
	VerificationMethod string          `json:"verification_method" binding:"required"`
	RequireLogin       bool            `json:"require_login"`
	Organization       string          `json:"organization"`
}

func (req *CreateProjectRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.EventType, validation.Required,
			validation.In("oneTime", "multiDay", "sameDayMultiArea")),
		validation.Field(&req.VerificationMethod, validation.Required,
			validation.In("qr-code", "manual", "auto", "signup-only")),
		validation.Field(&req.Organization, validation.Length(0, 100)),
	)
	if err != nil {
		return err
	}

	return req.validateSchedule()
}

// validateSchedule checks that the schedule payload matches the event type.
// Resolvability of the slots themselves is checked by the service.
func (req *CreateProjectRequest) validateSchedule() error {
	switch domain.EventType(req.EventType) {
	case domain.EventTypeOneTime:
		if req.Schedule.OneTime == nil {
			return errors.New("one-time events require a one_time schedule")
		}
	case domain.EventTypeMultiDay:
		if len(req.Schedule.MultiDay) == 0 {
			return errors.New("multi-day events require at least one multi_day entry")
		}
		for _, day := range req.Schedule.MultiDay {
			if len(day.Slots) == 0 {
				return errors.New("every multi-day entry requires at least one slot")
			}
		}
	case domain.EventTypeSameDayMultiArea:
		if req.Schedule.MultiArea == nil || len(req.Schedule.MultiArea.Roles) == 0 {
			return errors.New("same-day multi-area events require at least one role")
		}
	}

	return nil
}
