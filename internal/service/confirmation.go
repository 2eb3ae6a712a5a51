package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository"
)

// ConfirmationState is the terminal outcome of confirming an anonymous
// signup link.
type ConfirmationState string

const (
	ConfirmationSuccess          ConfirmationState = "success"
	ConfirmationAlreadyConfirmed ConfirmationState = "already_confirmed"
	ConfirmationInvalid          ConfirmationState = "invalid"
	ConfirmationError            ConfirmationState = "error"
)

// ConfirmationService validates anonymous confirmation links and promotes
// the linked signup from pending to approved.
type ConfirmationService struct {
	repo SignupRepository
	now  func() time.Time
}

func NewConfirmationService(repo SignupRepository) *ConfirmationService {
	return &ConfirmationService{
		repo: repo,
		now:  time.Now,
	}
}

// Confirm runs the confirmation state machine for (anonymousSignupID, token).
// Revisiting an already-used link is harmless and reports already_confirmed.
// The confirmed_at stamp and the pending→approved promotion happen in one
// transaction, so a failed promotion leaves nothing half-confirmed.
func (s *ConfirmationService) Confirm(ctx context.Context, anonymousID, token string) (ConfirmationState, domain.AnonymousSignup) {
	anon, err := s.repo.FindAnonymousByToken(ctx, anonymousID, token)
	if err != nil {
		if errors.Is(err, repository.ErrAnonymousNotFound) {
			return ConfirmationInvalid, domain.AnonymousSignup{}
		}

		zap.L().Error("confirmation lookup failed", zap.Error(err))
		return ConfirmationError, domain.AnonymousSignup{}
	}

	if anon.Confirmed() {
		return ConfirmationAlreadyConfirmed, anon
	}

	if err = s.repo.Confirm(ctx, anon.ID, s.now()); err != nil {
		if errors.Is(err, repository.ErrAlreadyConfirmed) {
			// Lost a race against another confirmation of the same link.
			return ConfirmationAlreadyConfirmed, anon
		}
		if errors.Is(err, repository.ErrSignupNotFound) {
			// No pending signup to promote: the signup was already
			// processed or the link between the rows is broken.
			zap.L().Error("confirmed anonymous signup has no pending project signup",
				zap.String("anonymous_id", anon.ID),
				zap.Uint("signup_id", anon.SignupID),
			)
			return ConfirmationError, anon
		}

		zap.L().Error(fmt.Sprintf("confirmation failed for anonymous signup %v", anon.ID), zap.Error(err))
		return ConfirmationError, anon
	}

	return ConfirmationSuccess, anon
}
