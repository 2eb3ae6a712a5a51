package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lets-assist/api/internal/repository"
	"github.com/lets-assist/api/internal/repository/dao"
	"github.com/lets-assist/api/internal/service"
)

const (
	projectStatusInterval = 10 * time.Minute
	autoCheckInInterval   = 5 * time.Minute
)

type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
}

// Start wires the background jobs and starts the scheduler.
func Start(db *gorm.DB) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	m := &Manager{
		scheduler: s,
		db:        db,
	}

	if err = m.registerJobs(); err != nil {
		return fmt.Errorf("m.registerJobs -> %w", err)
	}

	m.scheduler.Start()
	zap.L().Info("scheduler started")

	return nil
}

func (m *Manager) registerJobs() error {
	projectRepo := repository.NewProjectRepository(dao.NewProjectDAO(m.db))
	signupRepo := repository.NewSignupRepository(dao.NewSignupDAO(m.db))
	attendanceSvc := service.NewAttendanceService(signupRepo)

	statusJob := NewProjectStatusJob(projectRepo)
	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(projectStatusInterval),
		gocron.NewTask(statusJob.Run),
	); err != nil {
		return fmt.Errorf("m.scheduler.NewJob project status -> %w", err)
	}

	autoJob := NewAutoCheckInJob(projectRepo, signupRepo, attendanceSvc)
	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(autoCheckInInterval),
		gocron.NewTask(autoJob.Run),
	); err != nil {
		return fmt.Errorf("m.scheduler.NewJob auto check-in -> %w", err)
	}

	return nil
}
