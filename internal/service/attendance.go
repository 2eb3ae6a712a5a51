package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lets-assist/api/internal/repository"
)

// CheckInResult reports a completed (or replayed) check-in.
type CheckInResult struct {
	SignupID     uint      `json:"signup_id"`
	CheckInTime  time.Time `json:"check_in_time"`
	AnonSignupID string    `json:"anon_signup_id,omitempty"`
	// AlreadyCheckedIn marks an idempotent replay: the returned
	// timestamp is the original stamp, not a new one.
	AlreadyCheckedIn bool `json:"already_checked_in"`
}

// AttendanceService transitions signups to attended. A signup acquires a
// check_in_time exactly once, no matter how often a check-in is retried.
type AttendanceService struct {
	repo SignupRepository
	now  func() time.Time
}

func NewAttendanceService(repo SignupRepository) *AttendanceService {
	return &AttendanceService{
		repo: repo,
		now:  time.Now,
	}
}

// CheckInUser checks in a signup that has already been resolved to an id,
// registered or anonymous. Idempotent: a second call returns the original
// timestamp and no error.
func (s *AttendanceService) CheckInUser(ctx context.Context, signupID uint) (CheckInResult, error) {
	signup, err := s.repo.FindByID(ctx, signupID)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			return CheckInResult{}, ErrSignupNotFound
		}

		return CheckInResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if signup.CheckedIn() {
		return CheckInResult{
			SignupID:         signup.ID,
			CheckInTime:      *signup.CheckInTime,
			AlreadyCheckedIn: true,
		}, nil
	}

	return s.stamp(ctx, signup.ID)
}

// CheckInAnonymous is the self-service path with no pre-resolved signup id.
// A participant signed up for a different slot of the same project is
// migrated to the slot they actually attend instead of being rejected.
func (s *AttendanceService) CheckInAnonymous(ctx context.Context, projectID uint, scheduleID, email string) (CheckInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	anon, err := s.repo.FindAnonymousByEmail(ctx, email, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrAnonymousNotFound) {
			return CheckInResult{}, ErrAnonymousNotFound
		}

		return CheckInResult{}, fmt.Errorf("s.repo.FindAnonymousByEmail -> %w", err)
	}

	signup, err := s.repo.FindByAnonymousSlot(ctx, projectID, scheduleID, anon.ID)
	if err == nil {
		if signup.CheckedIn() {
			return CheckInResult{
				SignupID:         signup.ID,
				CheckInTime:      *signup.CheckInTime,
				AnonSignupID:     anon.ID,
				AlreadyCheckedIn: true,
			}, nil
		}

		result, err := s.stamp(ctx, signup.ID)
		result.AnonSignupID = anon.ID
		return result, err
	}
	if !errors.Is(err, repository.ErrSignupNotFound) {
		return CheckInResult{}, fmt.Errorf("s.repo.FindByAnonymousSlot -> %w", err)
	}

	// Walk-in fallback: the participant signed up for another slot of this
	// project. Re-target that signup to the attended slot and stamp it.
	other, err := s.repo.FindAnyByAnonymous(ctx, projectID, anon.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			return CheckInResult{}, ErrSignupNotFound
		}

		return CheckInResult{}, fmt.Errorf("s.repo.FindAnyByAnonymous -> %w", err)
	}

	if other.CheckedIn() {
		return CheckInResult{
			SignupID:         other.ID,
			CheckInTime:      *other.CheckInTime,
			AnonSignupID:     anon.ID,
			AlreadyCheckedIn: true,
		}, nil
	}

	zap.L().Info("re-targeting walk-in signup to attended slot",
		zap.Uint("signup_id", other.ID),
		zap.String("from_schedule", other.ScheduleID),
		zap.String("to_schedule", scheduleID),
	)

	if err = s.repo.RetargetAndCheckIn(ctx, other.ID, scheduleID, s.now()); err != nil {
		return CheckInResult{}, fmt.Errorf("s.repo.RetargetAndCheckIn -> %w", err)
	}

	stamped, err := s.repo.FindByID(ctx, other.ID)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return CheckInResult{
		SignupID:     stamped.ID,
		CheckInTime:  *stamped.CheckInTime,
		AnonSignupID: anon.ID,
	}, nil
}

// stamp performs the conditional write. If a concurrent call got there
// first, the surviving timestamp is read back and returned as a replay.
func (s *AttendanceService) stamp(ctx context.Context, signupID uint) (CheckInResult, error) {
	stamped, err := s.repo.CheckIn(ctx, signupID, s.now())
	if err != nil {
		return CheckInResult{}, fmt.Errorf("s.repo.CheckIn -> %w", err)
	}

	signup, err := s.repo.FindByID(ctx, signupID)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if signup.CheckInTime == nil {
		return CheckInResult{}, fmt.Errorf("signup %v has no check-in time after stamping", signupID)
	}

	return CheckInResult{
		SignupID:         signup.ID,
		CheckInTime:      *signup.CheckInTime,
		AlreadyCheckedIn: !stamped,
	}, nil
}
