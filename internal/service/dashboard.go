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

const (
	// checkInOpenWindow is how long before session start check-in opens.
	checkInOpenWindow = 2 * time.Hour
	// reminderWindow is how long before session start a countdown shows.
	reminderWindow = 24 * time.Hour
	// publicationWindow is the post-event period during which hours are
	// "processing" before the organizer publishes them.
	publicationWindow = 48 * time.Hour
)

// Classify maps one signup to its dashboard render state at the given time.
// Pure function; callers re-evaluate it on each render tick. States are
// checked in priority order because several can hold at once: publication
// always wins, then the attended states, then the approved states.
func Classify(signup domain.ProjectSignup, project domain.Project, session domain.Session, now time.Time) domain.DashboardCard {
	card := domain.DashboardCard{
		Signup:             signup,
		ProjectID:          project.ID,
		ProjectTitle:       project.Title,
		Location:           project.Location,
		VerificationMethod: project.VerificationMethod,
		SessionStart:       session.StartTime,
		SessionEnd:         session.EndTime,
		State:              domain.StateNone,
	}

	if project.HoursPublished(signup.ScheduleID) {
		card.State = domain.StateHoursPublished
		return card
	}

	switch signup.Status {
	case domain.SignupAttended:
		if now.Before(session.EndTime) {
			card.State = domain.StateCheckedIn
			card.Progress = checkInProgress(signup, session, now)
			return card
		}

		sinceEnd := now.Sub(session.EndTime)
		if sinceEnd <= publicationWindow {
			card.State = domain.StatePostEventHours
			card.HoursUntilPublication = (publicationWindow - sinceEnd).Hours()
			return card
		}

		// Past the publication window with hours still unpublished.
		card.State = domain.StateCheckedIn
		card.Progress = checkInProgress(signup, session, now)
		return card

	case domain.SignupApproved:
		if !now.Before(session.EndTime) {
			card.State = domain.StateMissedEvent
			return card
		}

		untilStart := session.StartTime.Sub(now)
		if untilStart <= checkInOpenWindow {
			card.State = domain.StateCheckInOpen
			return card
		}
		if untilStart <= reminderWindow {
			card.State = domain.StateReminder
			return card
		}
	}

	return card
}

// checkInProgress is the attended-session completion ratio, clamped to [0, 1].
func checkInProgress(signup domain.ProjectSignup, session domain.Session, now time.Time) float64 {
	if signup.CheckInTime == nil {
		return 0
	}

	total := session.EndTime.Sub(*signup.CheckInTime)
	if total <= 0 {
		return 1
	}

	progress := float64(now.Sub(*signup.CheckInTime)) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}

	return progress
}

type ProjectReader interface {
	FindByID(ctx context.Context, id uint) (domain.Project, error)
}

// DashboardService builds the read-side projection of a user's signups.
// Stateless: every call re-derives all cards from the current time.
type DashboardService struct {
	signupRepo  SignupRepository
	projectRepo ProjectReader
	now         func() time.Time
}

func NewDashboardService(signupRepo SignupRepository, projectRepo ProjectReader) *DashboardService {
	return &DashboardService{
		signupRepo:  signupRepo,
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// GetDashboard classifies each of the user's signups, dropping the ones
// that fall outside every actionable window.
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint) ([]domain.DashboardCard, error) {
	signups, err := s.signupRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.signupRepo.FindByUser -> %w", err)
	}

	now := s.now()
	cards := make([]domain.DashboardCard, 0, len(signups))
	for _, signup := range signups {
		project, err := s.projectRepo.FindByID(ctx, signup.ProjectID)
		if err != nil {
			if errors.Is(err, repository.ErrProjectNotFound) {
				zap.L().Warn("signup references a missing project",
					zap.Uint("signup_id", signup.ID),
					zap.Uint("project_id", signup.ProjectID),
				)
				continue
			}

			return nil, fmt.Errorf("s.projectRepo.FindByID -> %w", err)
		}

		session, err := project.Schedule.Session(project.EventType, signup.ScheduleID)
		if err != nil {
			zap.L().Warn("signup references an unresolvable schedule slot",
				zap.Uint("signup_id", signup.ID),
				zap.String("schedule_id", signup.ScheduleID),
			)
			continue
		}

		card := Classify(signup, project, session, now)
		if card.State == domain.StateNone {
			continue
		}

		cards = append(cards, card)
	}

	return cards, nil
}
