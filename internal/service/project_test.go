package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lets-assist/api/internal/domain"
)

func newProjectService(projectRepo *fakeProjectRepo, signupRepo *fakeSignupRepo, userRepo *fakeUserRepo, certRepo *fakeCertificateRepo) *ProjectService {
	return NewProjectService(projectRepo, signupRepo, userRepo, certRepo)
}

func TestProjectService_CreateProject(t *testing.T) {
	svc := newProjectService(newFakeProjectRepo(), newFakeSignupRepo(), newFakeUserRepo(), newFakeCertificateRepo())

	created, err := svc.CreateProject(context.Background(), domain.Project{
		Title:     "Beach Cleanup",
		EventType: domain.EventTypeOneTime,
		Status:    domain.ProjectCompleted, // caller-supplied status is ignored
		CreatorID: 1,
		Schedule: domain.Schedule{
			OneTime: &domain.OneTimeSchedule{Date: "2026-03-14", StartTime: "09:00", EndTime: "17:00", Volunteers: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, created.Status)
	assert.NotNil(t, created.Published)
}

func TestProjectService_CreateProject_EmptySchedule(t *testing.T) {
	svc := newProjectService(newFakeProjectRepo(), newFakeSignupRepo(), newFakeUserRepo(), newFakeCertificateRepo())

	_, err := svc.CreateProject(context.Background(), domain.Project{
		Title:     "No Sessions",
		EventType: domain.EventTypeMultiDay,
		CreatorID: 1,
	})
	assert.Error(t, err)
}

func TestProjectService_CancelProject_CreatorOnly(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	project := projectRepo.addProject(domain.Project{
		Title:     "Beach Cleanup",
		Status:    domain.ProjectActive,
		CreatorID: 1,
	})

	svc := newProjectService(projectRepo, newFakeSignupRepo(), newFakeUserRepo(), newFakeCertificateRepo())
	ctx := context.Background()

	assert.ErrorIs(t, svc.CancelProject(ctx, project.ID, 2), ErrNotProjectCreator)

	require.NoError(t, svc.CancelProject(ctx, project.ID, 1))
	stored, err := projectRepo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCancelled, stored.Status)
}

func TestProjectService_CancelProject_AfterStart(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	project := projectRepo.addProject(domain.Project{
		Title:     "Beach Cleanup",
		EventType: domain.EventTypeOneTime,
		Status:    domain.ProjectActive,
		CreatorID: 1,
		Schedule: domain.Schedule{
			OneTime: &domain.OneTimeSchedule{Date: "2026-03-14", StartTime: "09:00", EndTime: "17:00", Volunteers: 5},
		},
	})

	svc := newProjectService(projectRepo, newFakeSignupRepo(), newFakeUserRepo(), newFakeCertificateRepo())
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	assert.ErrorIs(t, svc.CancelProject(ctx, project.ID, 1), ErrProjectStarted)

	// The project is untouched.
	stored, err := projectRepo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, stored.Status)
}

func publishableProject(projectRepo *fakeProjectRepo, organization string) domain.Project {
	return projectRepo.addProject(domain.Project{
		Title:        "Beach Cleanup",
		EventType:    domain.EventTypeOneTime,
		Status:       domain.ProjectActive,
		CreatorID:    1,
		Organization: organization,
		Published:    map[string]bool{},
		Schedule: domain.Schedule{
			OneTime: &domain.OneTimeSchedule{Date: "2026-03-14", StartTime: "09:00", EndTime: "17:00", Volunteers: 10},
		},
	})
}

func TestProjectService_PublishHours(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	signupRepo := newFakeSignupRepo()
	userRepo := newFakeUserRepo()
	certRepo := newFakeCertificateRepo()

	project := publishableProject(projectRepo, "Shoreline Trust")
	user := userRepo.addUser(domain.User{Email: "casey@example.com", Name: "Casey"})

	checkIn := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) // session ends 17:00
	attended := signupRepo.addSignup(domain.ProjectSignup{
		ProjectID:   project.ID,
		ScheduleID:  domain.OneTimeScheduleID,
		UserID:      &user.ID,
		Status:      domain.SignupAttended,
		CheckInTime: &checkIn,
	})
	// Approved but never checked in; earns no certificate.
	noShowID := uint(99)
	signupRepo.addSignup(domain.ProjectSignup{
		ProjectID:  project.ID,
		ScheduleID: domain.OneTimeScheduleID,
		UserID:     &noShowID,
		Status:     domain.SignupApproved,
	})

	svc := newProjectService(projectRepo, signupRepo, userRepo, certRepo)
	ctx := context.Background()

	require.NoError(t, svc.PublishHours(ctx, project.ID, domain.OneTimeScheduleID, 1))

	stored, err := projectRepo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.HoursPublished(domain.OneTimeScheduleID))

	cert, err := certRepo.FindBySignupID(ctx, attended.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casey", cert.VolunteerName)
	assert.Equal(t, "casey@example.com", cert.VolunteerEmail)
	assert.InDelta(t, 7, cert.Hours, 0.001)
	assert.True(t, cert.IsCertified)
	assert.Len(t, certRepo.certs, 1)
}

func TestProjectService_PublishHours_Idempotent(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	signupRepo := newFakeSignupRepo()
	userRepo := newFakeUserRepo()
	certRepo := newFakeCertificateRepo()

	project := publishableProject(projectRepo, "")
	user := userRepo.addUser(domain.User{Email: "casey@example.com", Name: "Casey"})

	checkIn := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	signupRepo.addSignup(domain.ProjectSignup{
		ProjectID:   project.ID,
		ScheduleID:  domain.OneTimeScheduleID,
		UserID:      &user.ID,
		Status:      domain.SignupAttended,
		CheckInTime: &checkIn,
	})

	svc := newProjectService(projectRepo, signupRepo, userRepo, certRepo)
	ctx := context.Background()

	require.NoError(t, svc.PublishHours(ctx, project.ID, domain.OneTimeScheduleID, 1))
	require.NoError(t, svc.PublishHours(ctx, project.ID, domain.OneTimeScheduleID, 1))

	// No second certificate for the same signup.
	assert.Len(t, certRepo.certs, 1)

	// No organization backing, so the certificate is uncertified.
	for _, cert := range certRepo.certs {
		assert.False(t, cert.IsCertified)
	}
}

func TestProjectService_PublishHours_CreatorOnly(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	project := publishableProject(projectRepo, "")

	svc := newProjectService(projectRepo, newFakeSignupRepo(), newFakeUserRepo(), newFakeCertificateRepo())

	err := svc.PublishHours(context.Background(), project.ID, domain.OneTimeScheduleID, 2)
	assert.ErrorIs(t, err, ErrNotProjectCreator)
}

func TestProjectService_PublishHours_AnonymousParticipant(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	signupRepo := newFakeSignupRepo()
	certRepo := newFakeCertificateRepo()

	project := publishableProject(projectRepo, "Shoreline Trust")

	anonymousID := "anon-1"
	checkIn := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)
	attended := signupRepo.addSignup(domain.ProjectSignup{
		ProjectID:   project.ID,
		ScheduleID:  domain.OneTimeScheduleID,
		AnonymousID: &anonymousID,
		Status:      domain.SignupAttended,
		CheckInTime: &checkIn,
	})
	signupRepo.addAnonymous(domain.AnonymousSignup{
		ID:        anonymousID,
		Email:     "jamie@example.com",
		Name:      "Jamie",
		ProjectID: project.ID,
		SignupID:  attended.ID,
	})

	svc := newProjectService(projectRepo, signupRepo, newFakeUserRepo(), certRepo)
	ctx := context.Background()

	require.NoError(t, svc.PublishHours(ctx, project.ID, domain.OneTimeScheduleID, 1))

	cert, err := certRepo.FindBySignupID(ctx, attended.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jamie", cert.VolunteerName)
	assert.Equal(t, "jamie@example.com", cert.VolunteerEmail)
	assert.InDelta(t, 4, cert.Hours, 0.001)
}
