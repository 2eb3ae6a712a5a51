package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lets-assist/api/internal/domain"
)

func seedPendingAnonymous(repo *fakeSignupRepo) domain.AnonymousSignup {
	anonymousID := "anon-1"
	signup := repo.addSignup(domain.ProjectSignup{
		ProjectID:   1,
		ScheduleID:  domain.OneTimeScheduleID,
		AnonymousID: &anonymousID,
		Status:      domain.SignupPending,
	})

	return repo.addAnonymous(domain.AnonymousSignup{
		ID:        anonymousID,
		Email:     "jamie@example.com",
		Name:      "Jamie",
		ProjectID: 1,
		SignupID:  signup.ID,
		Token:     "secret-token",
	})
}

func TestConfirmationService_Confirm(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	repo := newFakeSignupRepo()
	anon := seedPendingAnonymous(repo)

	svc := NewConfirmationService(repo)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	state, confirmed := svc.Confirm(ctx, anon.ID, anon.Token)
	assert.Equal(t, ConfirmationSuccess, state)
	assert.Equal(t, anon.ID, confirmed.ID)

	// Confirming promotes the pending signup.
	signup, err := repo.FindByID(ctx, anon.SignupID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupApproved, signup.Status)

	stored, err := repo.FindAnonymousByID(ctx, anon.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ConfirmedAt)
	assert.Equal(t, now, *stored.ConfirmedAt)
}

func TestConfirmationService_Confirm_Revisit(t *testing.T) {
	repo := newFakeSignupRepo()
	anon := seedPendingAnonymous(repo)

	svc := NewConfirmationService(repo)
	ctx := context.Background()

	state, _ := svc.Confirm(ctx, anon.ID, anon.Token)
	require.Equal(t, ConfirmationSuccess, state)

	// Reopening the link reports already_confirmed and changes nothing.
	state, _ = svc.Confirm(ctx, anon.ID, anon.Token)
	assert.Equal(t, ConfirmationAlreadyConfirmed, state)

	signup, err := repo.FindByID(ctx, anon.SignupID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupApproved, signup.Status)
}

func TestConfirmationService_Confirm_WrongToken(t *testing.T) {
	repo := newFakeSignupRepo()
	anon := seedPendingAnonymous(repo)

	svc := NewConfirmationService(repo)

	state, _ := svc.Confirm(context.Background(), anon.ID, "forged")
	assert.Equal(t, ConfirmationInvalid, state)
}

func TestConfirmationService_Confirm_UnknownID(t *testing.T) {
	svc := NewConfirmationService(newFakeSignupRepo())

	state, _ := svc.Confirm(context.Background(), "missing", "token")
	assert.Equal(t, ConfirmationInvalid, state)
}

func TestConfirmationService_Confirm_NoPendingSignup(t *testing.T) {
	repo := newFakeSignupRepo()
	anon := repo.addAnonymous(domain.AnonymousSignup{
		ID:        "anon-orphan",
		Email:     "jamie@example.com",
		ProjectID: 1,
		SignupID:  99,
		Token:     "secret-token",
	})

	svc := NewConfirmationService(repo)

	state, _ := svc.Confirm(context.Background(), anon.ID, anon.Token)
	assert.Equal(t, ConfirmationError, state)
}
