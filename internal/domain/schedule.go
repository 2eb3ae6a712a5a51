package domain

import (
	"errors"
	"fmt"
	"time"
)

type EventType string

const (
	EventTypeOneTime          EventType = "oneTime"
	EventTypeMultiDay         EventType = "multiDay"
	EventTypeSameDayMultiArea EventType = "sameDayMultiArea"
)

var ErrSessionNotFound = errors.New("no session matches the schedule slot")

// Session is one checkable unit of a project resolved to concrete times:
// the whole event for one-time events, a day+slot for multi-day events,
// a role for same-day multi-area events.
type Session struct {
	ScheduleID string    `json:"schedule_id"`
	Name       string    `json:"name,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Capacity   int       `json:"capacity"`
}

// Schedule is a tagged union keyed by the project's event type.
// Exactly one of the payload fields is set.
type Schedule struct {
	OneTime   *OneTimeSchedule   `json:"one_time,omitempty"`
	MultiDay  []ScheduleDay      `json:"multi_day,omitempty"`
	MultiArea *MultiAreaSchedule `json:"multi_area,omitempty"`
}

type OneTimeSchedule struct {
	Date       string `json:"date"` // YYYY-MM-DD
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"` // HH:MM
	Volunteers int    `json:"volunteers"`
}

type ScheduleDay struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

type TimeSlot struct {
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Volunteers int    `json:"volunteers"`
}

type MultiAreaSchedule struct {
	Date  string     `json:"date"`
	Roles []RoleSlot `json:"roles"`
}

type RoleSlot struct {
	Name       string `json:"name"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Volunteers int    `json:"volunteers"`
}

// OneTimeScheduleID is the slot identifier of a one-time event's single session.
const OneTimeScheduleID = "oneTime"

// Session resolves a schedule slot identifier against the schedule payload
// matching the given event type. Slot identifiers are "oneTime" for one-time
// events, "<date>-<slot index>" for multi-day events and the role name for
// same-day multi-area events.
func (s Schedule) Session(eventType EventType, scheduleID string) (Session, error) {
	switch eventType {
	case EventTypeOneTime:
		if s.OneTime == nil || scheduleID != OneTimeScheduleID {
			return Session{}, ErrSessionNotFound
		}
		return sessionFromWindow(scheduleID, "", s.OneTime.Date, s.OneTime.StartTime, s.OneTime.EndTime, s.OneTime.Volunteers)

	case EventTypeMultiDay:
		for _, day := range s.MultiDay {
			for i, slot := range day.Slots {
				if scheduleID == fmt.Sprintf("%v-%v", day.Date, i) {
					return sessionFromWindow(scheduleID, "", day.Date, slot.StartTime, slot.EndTime, slot.Volunteers)
				}
			}
		}
		return Session{}, ErrSessionNotFound

	case EventTypeSameDayMultiArea:
		if s.MultiArea == nil {
			return Session{}, ErrSessionNotFound
		}
		for _, role := range s.MultiArea.Roles {
			if role.Name == scheduleID {
				return sessionFromWindow(scheduleID, role.Name, s.MultiArea.Date, role.StartTime, role.EndTime, role.Volunteers)
			}
		}
		return Session{}, ErrSessionNotFound

	default:
		return Session{}, fmt.Errorf("unknown event type %q", eventType)
	}
}

// Sessions expands the schedule into every resolvable session.
func (s Schedule) Sessions(eventType EventType) []Session {
	var sessions []Session

	switch eventType {
	case EventTypeOneTime:
		if s.OneTime != nil {
			if sess, err := s.Session(eventType, OneTimeScheduleID); err == nil {
				sessions = append(sessions, sess)
			}
		}
	case EventTypeMultiDay:
		for _, day := range s.MultiDay {
			for i := range day.Slots {
				id := fmt.Sprintf("%v-%v", day.Date, i)
				if sess, err := s.Session(eventType, id); err == nil {
					sessions = append(sessions, sess)
				}
			}
		}
	case EventTypeSameDayMultiArea:
		if s.MultiArea != nil {
			for _, role := range s.MultiArea.Roles {
				if sess, err := s.Session(eventType, role.Name); err == nil {
					sessions = append(sessions, sess)
				}
			}
		}
	}

	return sessions
}

func sessionFromWindow(scheduleID, name, date, start, end string, capacity int) (Session, error) {
	startTime, err := parseSessionTime(date, start)
	if err != nil {
		return Session{}, err
	}

	endTime, err := parseSessionTime(date, end)
	if err != nil {
		return Session{}, err
	}

	// Slots crossing midnight end on the following day.
	if !endTime.After(startTime) {
		endTime = endTime.AddDate(0, 0, 1)
	}

	return Session{
		ScheduleID: scheduleID,
		Name:       name,
		StartTime:  startTime,
		EndTime:    endTime,
		Capacity:   capacity,
	}, nil
}

func parseSessionTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("time.ParseInLocation -> %w", err)
	}

	return t, nil
}
