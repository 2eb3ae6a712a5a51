package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository"
)

// LookupService resolves an email against a project's signups for the
// self-service attendance page. Read-only; it never mutates anything.
type LookupService struct {
	userRepo   UserRepository
	signupRepo SignupRepository
}

func NewLookupService(userRepo UserRepository, signupRepo SignupRepository) *LookupService {
	return &LookupService{
		userRepo:   userRepo,
		signupRepo: signupRepo,
	}
}

// LookupEmailStatus determines whether the email belongs to a registered or
// anonymous participant of the given schedule slot and what state their
// signup is in. Database failures yield Success=false; data inconsistencies
// yield a warning message, never an error.
func (s *LookupService) LookupEmailStatus(ctx context.Context, projectID uint, scheduleID, email string) domain.LookupResult {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return s.lookupRegistered(ctx, projectID, scheduleID, user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return lookupFailure(err)
	}

	return s.lookupAnonymous(ctx, projectID, scheduleID, email)
}

func (s *LookupService) lookupRegistered(ctx context.Context, projectID uint, scheduleID string, user domain.User) domain.LookupResult {
	signup, err := s.signupRepo.FindByUserSlot(ctx, projectID, scheduleID, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			return domain.LookupResult{
				Success:      true,
				Found:        true,
				IsRegistered: true,
				Message:      "This email belongs to an account, but it has no signup for this session. Please log in and sign up first.",
			}
		}

		return lookupFailure(err)
	}

	return domain.LookupResult{
		Success:      true,
		Found:        true,
		IsRegistered: true,
		SignupID:     &signup.ID,
		Message:      fmt.Sprintf("This email belongs to an account with a %v signup. Please log in to check in.", signup.Status),
	}
}

func (s *LookupService) lookupAnonymous(ctx context.Context, projectID uint, scheduleID, email string) domain.LookupResult {
	anon, err := s.signupRepo.FindAnonymousByEmail(ctx, email, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrAnonymousNotFound) {
			return domain.LookupResult{
				Success: true,
				Found:   false,
			}
		}

		return lookupFailure(err)
	}

	signup, err := s.signupRepo.FindByID(ctx, anon.SignupID)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			// Anonymous record without its linked signup. Surface a
			// warning instead of failing the lookup.
			zap.L().Warn("anonymous signup has no linked project signup",
				zap.String("anonymous_id", anon.ID),
				zap.Uint("signup_id", anon.SignupID),
			)
			return domain.LookupResult{
				Success: true,
				Found:   false,
				Message: "We found your registration but its signup record is missing. Please contact the organizer.",
			}
		}

		return lookupFailure(err)
	}

	if signup.ScheduleID != scheduleID {
		return domain.LookupResult{
			Success:      true,
			Found:        true,
			IsRegistered: false,
			AnonSignupID: &anon.ID,
			Message:      "Your signup is for a different session of this project.",
		}
	}

	message := fmt.Sprintf("Your signup status is %v.", signup.Status)
	if signup.Status == domain.SignupApproved {
		message = "Your signup is approved. You can check in below."
	}

	return domain.LookupResult{
		Success:      true,
		Found:        true,
		IsRegistered: false,
		SignupID:     &signup.ID,
		AnonSignupID: &anon.ID,
		Message:      message,
	}
}

func lookupFailure(err error) domain.LookupResult {
	zap.L().Error("email lookup failed", zap.Error(err))

	return domain.LookupResult{
		Success: false,
		Error:   "Something went wrong while looking up this email. Please try again.",
	}
}
