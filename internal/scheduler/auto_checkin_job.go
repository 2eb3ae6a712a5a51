package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/service"
)

// AutoCheckInJob stamps attendance for approved signups of projects using
// automatic verification once their session has started. Check-ins are
// idempotent, so overlapping runs are harmless.
type AutoCheckInJob struct {
	projectRepo   service.ProjectRepository
	signupRepo    service.SignupRepository
	attendanceSvc *service.AttendanceService
	now           func() time.Time
}

func NewAutoCheckInJob(projectRepo service.ProjectRepository, signupRepo service.SignupRepository, attendanceSvc *service.AttendanceService) *AutoCheckInJob {
	return &AutoCheckInJob{
		projectRepo:   projectRepo,
		signupRepo:    signupRepo,
		attendanceSvc: attendanceSvc,
		now:           time.Now,
	}
}

func (j *AutoCheckInJob) Run() {
	ctx := context.Background()

	projects, err := j.projectRepo.FindByStatus(ctx, domain.ProjectActive)
	if err != nil {
		zap.L().Error("auto check-in job: listing active projects failed", zap.Error(err))
		return
	}

	now := j.now()
	for _, project := range projects {
		if project.VerificationMethod != domain.VerificationAuto {
			continue
		}

		for _, session := range project.Schedule.Sessions(project.EventType) {
			if now.Before(session.StartTime) || !now.Before(session.EndTime) {
				continue
			}

			j.checkInSession(ctx, project, session)
		}
	}
}

func (j *AutoCheckInJob) checkInSession(ctx context.Context, project domain.Project, session domain.Session) {
	signups, err := j.signupRepo.FindBySchedule(ctx, project.ID, session.ScheduleID)
	if err != nil {
		zap.L().Error("auto check-in job: listing signups failed",
			zap.Uint("project_id", project.ID),
			zap.String("schedule_id", session.ScheduleID),
			zap.Error(err),
		)
		return
	}

	for _, signup := range signups {
		if signup.Status != domain.SignupApproved {
			continue
		}

		if _, err = j.attendanceSvc.CheckInUser(ctx, signup.ID); err != nil {
			zap.L().Error("auto check-in job: check-in failed",
				zap.Uint("signup_id", signup.ID),
				zap.Error(err),
			)
		}
	}
}
