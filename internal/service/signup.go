package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository"
)

var (
	ErrSignupNotFound    = repository.ErrSignupNotFound
	ErrAnonymousNotFound = repository.ErrAnonymousNotFound
	ErrDuplicateSignup   = repository.ErrDuplicateSignup
	ErrProjectNotFound   = repository.ErrProjectNotFound
	ErrLoginRequired     = errors.New("this project requires an account to sign up")
	ErrProjectNotActive  = errors.New("project is not open for signups")
	ErrSlotFull          = errors.New("no places left on this schedule slot")
	ErrNotPending        = errors.New("signup is not pending")
)

type SignupRepository interface {
	Create(ctx context.Context, signup domain.ProjectSignup) (domain.ProjectSignup, error)
	CreateWithAnonymous(ctx context.Context, signup domain.ProjectSignup, anon domain.AnonymousSignup) (domain.ProjectSignup, domain.AnonymousSignup, error)
	FindByID(ctx context.Context, id uint) (domain.ProjectSignup, error)
	FindByUserSlot(ctx context.Context, projectID uint, scheduleID string, userID uint) (domain.ProjectSignup, error)
	FindByAnonymousSlot(ctx context.Context, projectID uint, scheduleID, anonymousID string) (domain.ProjectSignup, error)
	FindAnyByAnonymous(ctx context.Context, projectID uint, anonymousID string) (domain.ProjectSignup, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.ProjectSignup, error)
	FindBySchedule(ctx context.Context, projectID uint, scheduleID string) ([]domain.ProjectSignup, error)
	CountActive(ctx context.Context, projectID uint, scheduleID string) (int64, error)
	UpdateStatus(ctx context.Context, id uint, status domain.SignupStatus) error
	CheckIn(ctx context.Context, id uint, at time.Time) (bool, error)
	RetargetAndCheckIn(ctx context.Context, id uint, scheduleID string, at time.Time) error
	FindAnonymousByID(ctx context.Context, id string) (domain.AnonymousSignup, error)
	FindAnonymousByEmail(ctx context.Context, email string, projectID uint) (domain.AnonymousSignup, error)
	FindAnonymousByToken(ctx context.Context, id, token string) (domain.AnonymousSignup, error)
	Confirm(ctx context.Context, anonymousID string, at time.Time) error
}

// Mailer delivers the confirmation link for anonymous signups.
type Mailer interface {
	SendConfirmation(ctx context.Context, anon domain.AnonymousSignup, projectTitle string) error
}

type SignupService struct {
	repo        SignupRepository
	projectRepo ProjectRepository
	mailer      Mailer
	now         func() time.Time
}

func NewSignupService(repo SignupRepository, projectRepo ProjectRepository, mailer Mailer) *SignupService {
	return &SignupService{
		repo:        repo,
		projectRepo: projectRepo,
		mailer:      mailer,
		now:         time.Now,
	}
}

// SignupRegistered creates a pending signup for an authenticated user.
func (s *SignupService) SignupRegistered(ctx context.Context, projectID uint, scheduleID string, userID uint) (domain.ProjectSignup, error) {
	if _, err := s.loadOpenSlot(ctx, projectID, scheduleID); err != nil {
		return domain.ProjectSignup{}, err
	}

	// Registered signups need no email confirmation, so they start approved.
	created, err := s.repo.Create(ctx, domain.ProjectSignup{
		ProjectID:  projectID,
		ScheduleID: scheduleID,
		UserID:     &userID,
		Status:     domain.SignupApproved,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSignup) {
			return domain.ProjectSignup{}, ErrDuplicateSignup
		}

		return domain.ProjectSignup{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// SignupAnonymous creates a pending signup plus its anonymous record and
// sends a confirmation email. Rejected when the project requires login.
func (s *SignupService) SignupAnonymous(ctx context.Context, projectID uint, scheduleID, email, name, phone string) (domain.AnonymousSignup, error) {
	project, err := s.loadOpenSlot(ctx, projectID, scheduleID)
	if err != nil {
		return domain.AnonymousSignup{}, err
	}

	if project.RequireLogin {
		return domain.AnonymousSignup{}, ErrLoginRequired
	}

	anonymousID := uuid.NewString()
	signup := domain.ProjectSignup{
		ProjectID:   projectID,
		ScheduleID:  scheduleID,
		AnonymousID: &anonymousID,
		Status:      domain.SignupPending,
	}
	anon := domain.AnonymousSignup{
		ID:          anonymousID,
		Email:       strings.ToLower(email),
		Name:        name,
		PhoneNumber: phone,
		ProjectID:   projectID,
		Token:       uuid.NewString(),
	}

	_, createdAnon, err := s.repo.CreateWithAnonymous(ctx, signup, anon)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSignup) {
			return domain.AnonymousSignup{}, ErrDuplicateSignup
		}

		return domain.AnonymousSignup{}, fmt.Errorf("s.repo.CreateWithAnonymous -> %w", err)
	}

	// The signup stays pending until the email is confirmed; a failed send
	// is logged but does not roll the signup back, as the link can be resent.
	if err = s.mailer.SendConfirmation(ctx, createdAnon, project.Title); err != nil {
		zap.L().Error("failed to send confirmation email",
			zap.String("anonymous_id", createdAnon.ID),
			zap.Error(err),
		)
	}

	return createdAnon, nil
}

// Approve promotes a pending signup. Organizer-only at the handler.
func (s *SignupService) Approve(ctx context.Context, signupID uint) error {
	signup, err := s.repo.FindByID(ctx, signupID)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			return ErrSignupNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if signup.Status != domain.SignupPending {
		return ErrNotPending
	}

	if err = s.repo.UpdateStatus(ctx, signupID, domain.SignupApproved); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

func (s *SignupService) Reject(ctx context.Context, signupID uint) error {
	signup, err := s.repo.FindByID(ctx, signupID)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			return ErrSignupNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if signup.Status == domain.SignupAttended {
		return errors.New("cannot reject a signup that already attended")
	}

	if err = s.repo.UpdateStatus(ctx, signupID, domain.SignupRejected); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

func (s *SignupService) GetSignup(ctx context.Context, signupID uint) (domain.ProjectSignup, error) {
	signup, err := s.repo.FindByID(ctx, signupID)
	if err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			return domain.ProjectSignup{}, ErrSignupNotFound
		}

		return domain.ProjectSignup{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return signup, nil
}

func (s *SignupService) GetSignupsBySchedule(ctx context.Context, projectID uint, scheduleID string) ([]domain.ProjectSignup, error) {
	signups, err := s.repo.FindBySchedule(ctx, projectID, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBySchedule -> %w", err)
	}

	return signups, nil
}

func (s *SignupService) loadOpenSlot(ctx context.Context, projectID uint, scheduleID string) (domain.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}

		return domain.Project{}, fmt.Errorf("s.projectRepo.FindByID -> %w", err)
	}

	if project.Status != domain.ProjectActive {
		return domain.Project{}, ErrProjectNotActive
	}

	session, err := project.Schedule.Session(project.EventType, scheduleID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("project.Schedule.Session -> %w", err)
	}

	count, err := s.repo.CountActive(ctx, projectID, scheduleID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("s.repo.CountActive -> %w", err)
	}
	if session.Capacity > 0 && count >= int64(session.Capacity) {
		return domain.Project{}, ErrSlotFull
	}

	return project, nil
}
