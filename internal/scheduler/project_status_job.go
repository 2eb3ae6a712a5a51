package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/service"
)

// ProjectStatusJob marks active projects completed once all of their
// sessions have ended.
type ProjectStatusJob struct {
	repo service.ProjectRepository
	now  func() time.Time
}

func NewProjectStatusJob(repo service.ProjectRepository) *ProjectStatusJob {
	return &ProjectStatusJob{
		repo: repo,
		now:  time.Now,
	}
}

func (j *ProjectStatusJob) Run() {
	ctx := context.Background()

	projects, err := j.repo.FindByStatus(ctx, domain.ProjectActive)
	if err != nil {
		zap.L().Error("project status job: listing active projects failed", zap.Error(err))
		return
	}

	now := j.now()
	for _, project := range projects {
		if !allSessionsEnded(project, now) {
			continue
		}

		if err = j.repo.UpdateStatus(ctx, project.ID, domain.ProjectCompleted); err != nil {
			zap.L().Error("project status job: completing project failed",
				zap.Uint("project_id", project.ID),
				zap.Error(err),
			)
			continue
		}

		zap.L().Info("project completed", zap.Uint("project_id", project.ID))
	}
}

func allSessionsEnded(project domain.Project, now time.Time) bool {
	sessions := project.Schedule.Sessions(project.EventType)
	if len(sessions) == 0 {
		return false
	}

	for _, session := range sessions {
		if now.Before(session.EndTime) {
			return false
		}
	}

	return true
}
