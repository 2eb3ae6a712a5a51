package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lets-assist/api/internal/domain"
)

func activeProject(projectRepo *fakeProjectRepo) domain.Project {
	return projectRepo.addProject(domain.Project{
		Title:     "Beach Cleanup",
		EventType: domain.EventTypeOneTime,
		Status:    domain.ProjectActive,
		Schedule: domain.Schedule{
			OneTime: &domain.OneTimeSchedule{
				Date:       "2026-03-14",
				StartTime:  "09:00",
				EndTime:    "17:00",
				Volunteers: 2,
			},
		},
	})
}

func TestSignupService_SignupRegistered(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo)

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})

	signup, err := svc.SignupRegistered(context.Background(), project.ID, domain.OneTimeScheduleID, 7)
	require.NoError(t, err)

	// No email confirmation step, so the signup starts approved.
	assert.Equal(t, domain.SignupApproved, signup.Status)
	require.NotNil(t, signup.UserID)
	assert.Equal(t, uint(7), *signup.UserID)
	assert.True(t, signup.IsRegistered())
}

func TestSignupService_SignupRegistered_Duplicate(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo)

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})
	ctx := context.Background()

	_, err := svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, 7)
	require.NoError(t, err)

	_, err = svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, 7)
	assert.ErrorIs(t, err, ErrDuplicateSignup)
}

func TestSignupService_SignupRegistered_SlotFull(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo) // capacity 2

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})
	ctx := context.Background()

	for userID := uint(1); userID <= 2; userID++ {
		_, err := svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, userID)
		require.NoError(t, err)
	}

	_, err := svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, 3)
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestSignupService_SignupRegistered_RejectedReleasesPlace(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo) // capacity 2

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})
	ctx := context.Background()

	first, err := svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, 1)
	require.NoError(t, err)
	_, err = svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, first.ID))

	_, err = svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, 3)
	assert.NoError(t, err)
}

func TestSignupService_SignupRegistered_ProjectNotActive(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := projectRepo.addProject(domain.Project{
		Title:     "Cancelled Drive",
		EventType: domain.EventTypeOneTime,
		Status:    domain.ProjectCancelled,
		Schedule: domain.Schedule{
			OneTime: &domain.OneTimeSchedule{Date: "2026-03-14", StartTime: "09:00", EndTime: "17:00", Volunteers: 5},
		},
	})

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})

	_, err := svc.SignupRegistered(context.Background(), project.ID, domain.OneTimeScheduleID, 7)
	assert.ErrorIs(t, err, ErrProjectNotActive)
}

func TestSignupService_SignupRegistered_UnknownSlot(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo)

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})

	_, err := svc.SignupRegistered(context.Background(), project.ID, "bogus", 7)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSignupService_SignupAnonymous(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo)
	mailer := &fakeMailer{}

	svc := NewSignupService(signupRepo, projectRepo, mailer)
	ctx := context.Background()

	anon, err := svc.SignupAnonymous(ctx, project.ID, domain.OneTimeScheduleID, "Jamie@Example.com", "Jamie", "555-0101")
	require.NoError(t, err)

	assert.NotEmpty(t, anon.ID)
	assert.NotEmpty(t, anon.Token)
	assert.Equal(t, "jamie@example.com", anon.Email)
	assert.False(t, anon.Confirmed())

	// The linked signup stays pending until the email is confirmed.
	signup, err := signupRepo.FindByID(ctx, anon.SignupID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupPending, signup.Status)
	require.NotNil(t, signup.AnonymousID)
	assert.Equal(t, anon.ID, *signup.AnonymousID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, anon.ID, mailer.sent[0].ID)
}

func TestSignupService_SignupAnonymous_MailFailureKeepsSignup(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo)
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}

	svc := NewSignupService(signupRepo, projectRepo, mailer)
	ctx := context.Background()

	anon, err := svc.SignupAnonymous(ctx, project.ID, domain.OneTimeScheduleID, "jamie@example.com", "Jamie", "")
	require.NoError(t, err)

	_, err = signupRepo.FindByID(ctx, anon.SignupID)
	assert.NoError(t, err)
}

func TestSignupService_SignupAnonymous_LoginRequired(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := projectRepo.addProject(domain.Project{
		Title:        "Members Only",
		EventType:    domain.EventTypeOneTime,
		Status:       domain.ProjectActive,
		RequireLogin: true,
		Schedule: domain.Schedule{
			OneTime: &domain.OneTimeSchedule{Date: "2026-03-14", StartTime: "09:00", EndTime: "17:00", Volunteers: 5},
		},
	})

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})

	_, err := svc.SignupAnonymous(context.Background(), project.ID, domain.OneTimeScheduleID, "jamie@example.com", "Jamie", "")
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestSignupService_ExclusiveIdentity(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	projectRepo := newFakeProjectRepo()
	project := activeProject(projectRepo)

	svc := NewSignupService(signupRepo, projectRepo, &fakeMailer{})
	ctx := context.Background()

	// Each creation path sets exactly one of the two identities.
	registered, err := svc.SignupRegistered(ctx, project.ID, domain.OneTimeScheduleID, 7)
	require.NoError(t, err)
	require.NotNil(t, registered.UserID)
	assert.Nil(t, registered.AnonymousID)

	anon, err := svc.SignupAnonymous(ctx, project.ID, domain.OneTimeScheduleID, "jamie@example.com", "Jamie", "")
	require.NoError(t, err)
	anonymous, err := signupRepo.FindByID(ctx, anon.SignupID)
	require.NoError(t, err)
	require.NotNil(t, anonymous.AnonymousID)
	assert.Nil(t, anonymous.UserID)
}

func TestSignupService_Approve(t *testing.T) {
	signupRepo := newFakeSignupRepo()
	signup := signupRepo.addSignup(domain.ProjectSignup{
		ProjectID:  1,
		ScheduleID: domain.OneTimeScheduleID,
		Status:     domain.SignupPending,
	})

	svc := NewSignupService(signupRepo, newFakeProjectRepo(), &fakeMailer{})
	ctx := context.Background()

	require.NoError(t, svc.Approve(ctx, signup.ID))

	stored, err := signupRepo.FindByID(ctx, signup.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupApproved, stored.Status)

	// Only pending signups can be approved.
	assert.ErrorIs(t, svc.Approve(ctx, signup.ID), ErrNotPending)
}

func TestSignupService_Reject_AttendedIsFinal(t *testing.T) {
	now := time.Now()
	signupRepo := newFakeSignupRepo()
	signup := signupRepo.addSignup(domain.ProjectSignup{
		ProjectID:   1,
		ScheduleID:  domain.OneTimeScheduleID,
		Status:      domain.SignupAttended,
		CheckInTime: &now,
	})

	svc := NewSignupService(signupRepo, newFakeProjectRepo(), &fakeMailer{})

	assert.Error(t, svc.Reject(context.Background(), signup.ID))
}
