package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository/dao"
)

var (
	ErrSignupNotFound    = dao.ErrSignupNotFound
	ErrAnonymousNotFound = dao.ErrAnonymousNotFound
	ErrDuplicateSignup   = dao.ErrDuplicateSignup
	ErrAlreadyConfirmed  = dao.ErrAlreadyConfirmed
)

type SignupDAO interface {
	Insert(ctx context.Context, signup dao.ProjectSignup) (dao.ProjectSignup, error)
	InsertWithAnonymous(ctx context.Context, signup dao.ProjectSignup, anon dao.AnonymousSignup) (dao.ProjectSignup, dao.AnonymousSignup, error)
	FindByID(ctx context.Context, id uint) (dao.ProjectSignup, error)
	FindByUserSlot(ctx context.Context, projectID uint, scheduleID string, userID uint) (dao.ProjectSignup, error)
	FindByAnonymousSlot(ctx context.Context, projectID uint, scheduleID, anonymousID string) (dao.ProjectSignup, error)
	FindAnyByAnonymous(ctx context.Context, projectID uint, anonymousID string) (dao.ProjectSignup, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.ProjectSignup, error)
	FindBySchedule(ctx context.Context, projectID uint, scheduleID string) ([]dao.ProjectSignup, error)
	CountActive(ctx context.Context, projectID uint, scheduleID string) (int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	CheckIn(ctx context.Context, id uint, at time.Time) (int64, error)
	RetargetAndCheckIn(ctx context.Context, id uint, scheduleID string, at time.Time) error
	InsertAnonymous(ctx context.Context, anon dao.AnonymousSignup) (dao.AnonymousSignup, error)
	FindAnonymousByID(ctx context.Context, id string) (dao.AnonymousSignup, error)
	FindAnonymousByEmail(ctx context.Context, email string, projectID uint) (dao.AnonymousSignup, error)
	FindAnonymousByToken(ctx context.Context, id, token string) (dao.AnonymousSignup, error)
	Confirm(ctx context.Context, anonymousID string, at time.Time) error
}

type SignupRepository struct {
	dao SignupDAO
}

func NewSignupRepository(dao SignupDAO) *SignupRepository {
	return &SignupRepository{
		dao: dao,
	}
}

func (r *SignupRepository) Create(ctx context.Context, signup domain.ProjectSignup) (domain.ProjectSignup, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(signup))
	if err != nil {
		return domain.ProjectSignup{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SignupRepository) CreateWithAnonymous(ctx context.Context, signup domain.ProjectSignup, anon domain.AnonymousSignup) (domain.ProjectSignup, domain.AnonymousSignup, error) {
	createdSignup, createdAnon, err := r.dao.InsertWithAnonymous(ctx, r.domainToDao(signup), r.anonymousDomainToDao(anon))
	if err != nil {
		return domain.ProjectSignup{}, domain.AnonymousSignup{}, fmt.Errorf("r.dao.InsertWithAnonymous -> %w", err)
	}

	return r.daoToDomain(createdSignup), r.anonymousDaoToDomain(createdAnon), nil
}

func (r *SignupRepository) FindByID(ctx context.Context, id uint) (domain.ProjectSignup, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.ProjectSignup{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SignupRepository) FindByUserSlot(ctx context.Context, projectID uint, scheduleID string, userID uint) (domain.ProjectSignup, error) {
	found, err := r.dao.FindByUserSlot(ctx, projectID, scheduleID, userID)
	if err != nil {
		return domain.ProjectSignup{}, fmt.Errorf("r.dao.FindByUserSlot -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SignupRepository) FindByAnonymousSlot(ctx context.Context, projectID uint, scheduleID, anonymousID string) (domain.ProjectSignup, error) {
	found, err := r.dao.FindByAnonymousSlot(ctx, projectID, scheduleID, anonymousID)
	if err != nil {
		return domain.ProjectSignup{}, fmt.Errorf("r.dao.FindByAnonymousSlot -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SignupRepository) FindAnyByAnonymous(ctx context.Context, projectID uint, anonymousID string) (domain.ProjectSignup, error) {
	found, err := r.dao.FindAnyByAnonymous(ctx, projectID, anonymousID)
	if err != nil {
		return domain.ProjectSignup{}, fmt.Errorf("r.dao.FindAnyByAnonymous -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SignupRepository) FindByUser(ctx context.Context, userID uint) ([]domain.ProjectSignup, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SignupRepository) FindBySchedule(ctx context.Context, projectID uint, scheduleID string) ([]domain.ProjectSignup, error) {
	found, err := r.dao.FindBySchedule(ctx, projectID, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBySchedule -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SignupRepository) CountActive(ctx context.Context, projectID uint, scheduleID string) (int64, error) {
	count, err := r.dao.CountActive(ctx, projectID, scheduleID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountActive -> %w", err)
	}

	return count, nil
}

func (r *SignupRepository) UpdateStatus(ctx context.Context, id uint, status domain.SignupStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

// CheckIn conditionally stamps attendance. Returns true when this call
// performed the stamp, false when the signup was already checked in.
func (r *SignupRepository) CheckIn(ctx context.Context, id uint, at time.Time) (bool, error) {
	affected, err := r.dao.CheckIn(ctx, id, at)
	if err != nil {
		return false, fmt.Errorf("r.dao.CheckIn -> %w", err)
	}

	return affected > 0, nil
}

func (r *SignupRepository) RetargetAndCheckIn(ctx context.Context, id uint, scheduleID string, at time.Time) error {
	if err := r.dao.RetargetAndCheckIn(ctx, id, scheduleID, at); err != nil {
		return fmt.Errorf("r.dao.RetargetAndCheckIn -> %w", err)
	}

	return nil
}

func (r *SignupRepository) FindAnonymousByID(ctx context.Context, id string) (domain.AnonymousSignup, error) {
	found, err := r.dao.FindAnonymousByID(ctx, id)
	if err != nil {
		return domain.AnonymousSignup{}, fmt.Errorf("r.dao.FindAnonymousByID -> %w", err)
	}

	return r.anonymousDaoToDomain(found), nil
}

func (r *SignupRepository) FindAnonymousByEmail(ctx context.Context, email string, projectID uint) (domain.AnonymousSignup, error) {
	found, err := r.dao.FindAnonymousByEmail(ctx, email, projectID)
	if err != nil {
		return domain.AnonymousSignup{}, fmt.Errorf("r.dao.FindAnonymousByEmail -> %w", err)
	}

	return r.anonymousDaoToDomain(found), nil
}

func (r *SignupRepository) FindAnonymousByToken(ctx context.Context, id, token string) (domain.AnonymousSignup, error) {
	found, err := r.dao.FindAnonymousByToken(ctx, id, token)
	if err != nil {
		return domain.AnonymousSignup{}, fmt.Errorf("r.dao.FindAnonymousByToken -> %w", err)
	}

	return r.anonymousDaoToDomain(found), nil
}

func (r *SignupRepository) Confirm(ctx context.Context, anonymousID string, at time.Time) error {
	if err := r.dao.Confirm(ctx, anonymousID, at); err != nil {
		return fmt.Errorf("r.dao.Confirm -> %w", err)
	}

	return nil
}

func (r *SignupRepository) domainToDao(s domain.ProjectSignup) dao.ProjectSignup {
	return dao.ProjectSignup{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		ScheduleID:  s.ScheduleID,
		UserID:      s.UserID,
		AnonymousID: s.AnonymousID,
		Status:      string(s.Status),
		CheckInTime: s.CheckInTime,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *SignupRepository) daoToDomain(s dao.ProjectSignup) domain.ProjectSignup {
	return domain.ProjectSignup{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		ScheduleID:  s.ScheduleID,
		UserID:      s.UserID,
		AnonymousID: s.AnonymousID,
		Status:      domain.SignupStatus(s.Status),
		CheckInTime: s.CheckInTime,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *SignupRepository) daosToDomain(daoSignups []dao.ProjectSignup) []domain.ProjectSignup {
	signups := make([]domain.ProjectSignup, len(daoSignups))
	for i, s := range daoSignups {
		signups[i] = r.daoToDomain(s)
	}

	return signups
}

func (r *SignupRepository) anonymousDomainToDao(a domain.AnonymousSignup) dao.AnonymousSignup {
	return dao.AnonymousSignup{
		ID:          a.ID,
		Email:       a.Email,
		ProjectID:   a.ProjectID,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		SignupID:    a.SignupID,
		Token:       a.Token,
		ConfirmedAt: a.ConfirmedAt,
		CreatedAt:   a.CreatedAt,
	}
}

func (r *SignupRepository) anonymousDaoToDomain(a dao.AnonymousSignup) domain.AnonymousSignup {
	return domain.AnonymousSignup{
		ID:          a.ID,
		Email:       a.Email,
		ProjectID:   a.ProjectID,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		SignupID:    a.SignupID,
		Token:       a.Token,
		ConfirmedAt: a.ConfirmedAt,
		CreatedAt:   a.CreatedAt,
	}
}
