package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository"
)

var (
	ErrNotProjectCreator = errors.New("only the project creator can do this")
	ErrProjectStarted    = errors.New("project can no longer be edited")
)

type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) (domain.Project, error)
	FindByID(ctx context.Context, id uint) (domain.Project, error)
	FindByStatus(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error)
	FindByCreator(ctx context.Context, creatorID uint) ([]domain.Project, error)
	UpdateStatus(ctx context.Context, id uint, status domain.ProjectStatus) error
	UpdatePublished(ctx context.Context, id uint, published map[string]bool) error
}

type CertificateRepository interface {
	Create(ctx context.Context, cert domain.Certificate) (domain.Certificate, error)
	FindByID(ctx context.Context, id string) (domain.Certificate, error)
	FindBySignupID(ctx context.Context, signupID uint) (domain.Certificate, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Certificate, error)
}

type ProjectService struct {
	repo       ProjectRepository
	signupRepo SignupRepository
	userRepo   UserRepository
	certRepo   CertificateRepository
	now        func() time.Time
}

func NewProjectService(repo ProjectRepository, signupRepo SignupRepository, userRepo UserRepository, certRepo CertificateRepository) *ProjectService {
	return &ProjectService{
		repo:       repo,
		signupRepo: signupRepo,
		userRepo:   userRepo,
		certRepo:   certRepo,
		now:        time.Now,
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	project.Status = domain.ProjectActive
	project.Published = map[string]bool{}

	if len(project.Schedule.Sessions(project.EventType)) == 0 {
		return domain.Project{}, errors.New("schedule resolves to no sessions")
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		return domain.Project{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uint) (domain.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}

		return domain.Project{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return project, nil
}

func (s *ProjectService) GetActiveProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.repo.FindByStatus(ctx, domain.ProjectActive)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return projects, nil
}

func (s *ProjectService) GetProjectsByCreator(ctx context.Context, creatorID uint) ([]domain.Project, error) {
	projects, err := s.repo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCreator -> %w", err)
	}

	return projects, nil
}

// CancelProject withdraws an active project. Cancellation is only possible
// until the first session starts; after that the project runs its course.
func (s *ProjectService) CancelProject(ctx context.Context, projectID, callerID uint) error {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	if project.CreatorID != callerID {
		return ErrNotProjectCreator
	}

	now := s.now()
	for _, session := range project.Schedule.Sessions(project.EventType) {
		if !now.Before(session.StartTime) {
			return ErrProjectStarted
		}
	}

	if err = s.repo.UpdateStatus(ctx, projectID, domain.ProjectCancelled); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

// PublishHours flips the one-way publication gate for a schedule slot and
// issues a certificate for every attended signup of that slot. Re-publishing
// an already published slot is a harmless no-op; certificate issuance is
// idempotent via the per-signup uniqueness.
func (s *ProjectService) PublishHours(ctx context.Context, projectID uint, scheduleID string, callerID uint) error {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	if project.CreatorID != callerID {
		return ErrNotProjectCreator
	}

	session, err := project.Schedule.Session(project.EventType, scheduleID)
	if err != nil {
		return fmt.Errorf("project.Schedule.Session -> %w", err)
	}

	if !project.HoursPublished(scheduleID) {
		published := project.Published
		if published == nil {
			published = map[string]bool{}
		}
		published[scheduleID] = true

		if err = s.repo.UpdatePublished(ctx, projectID, published); err != nil {
			return fmt.Errorf("s.repo.UpdatePublished -> %w", err)
		}
	}

	return s.issueCertificates(ctx, project, session)
}

func (s *ProjectService) issueCertificates(ctx context.Context, project domain.Project, session domain.Session) error {
	signups, err := s.signupRepo.FindBySchedule(ctx, project.ID, session.ScheduleID)
	if err != nil {
		return fmt.Errorf("s.signupRepo.FindBySchedule -> %w", err)
	}

	for _, signup := range signups {
		if signup.Status != domain.SignupAttended || signup.CheckInTime == nil {
			continue
		}

		name, email, err := s.participantIdentity(ctx, signup)
		if err != nil {
			zap.L().Error("skipping certificate for unresolvable participant",
				zap.Uint("signup_id", signup.ID),
				zap.Error(err),
			)
			continue
		}

		hours := session.EndTime.Sub(*signup.CheckInTime).Hours()
		if hours < 0 {
			hours = 0
		}

		_, err = s.certRepo.Create(ctx, domain.Certificate{
			ID:             uuid.NewString(),
			SignupID:       signup.ID,
			ProjectID:      project.ID,
			ProjectTitle:   project.Title,
			Organization:   project.Organization,
			VolunteerName:  name,
			VolunteerEmail: email,
			ScheduleID:     session.ScheduleID,
			SessionStart:   session.StartTime,
			SessionEnd:     session.EndTime,
			Hours:          hours,
			IsCertified:    project.Organization != "",
			IssuedAt:       s.now(),
		})
		if err != nil {
			if errors.Is(err, repository.ErrCertificateExists) {
				continue
			}

			return fmt.Errorf("s.certRepo.Create -> %w", err)
		}
	}

	return nil
}

func (s *ProjectService) participantIdentity(ctx context.Context, signup domain.ProjectSignup) (name, email string, err error) {
	if signup.UserID != nil {
		user, err := s.userRepo.FindByID(ctx, *signup.UserID)
		if err != nil {
			return "", "", fmt.Errorf("s.userRepo.FindByID -> %w", err)
		}

		return user.Name, user.Email, nil
	}

	if signup.AnonymousID == nil {
		return "", "", fmt.Errorf("signup %v has neither user nor anonymous identity", signup.ID)
	}

	anon, err := s.signupRepo.FindAnonymousByID(ctx, *signup.AnonymousID)
	if err != nil {
		return "", "", fmt.Errorf("s.signupRepo.FindAnonymousByID -> %w", err)
	}

	return anon.Name, anon.Email, nil
}
