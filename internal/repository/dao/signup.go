package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrSignupNotFound    = errors.New("signup not found")
	ErrAnonymousNotFound = errors.New("anonymous signup not found")
	ErrDuplicateSignup   = errors.New("signup already exists for this schedule slot")
	ErrAlreadyConfirmed  = errors.New("anonymous signup already confirmed")
)

type ProjectSignup struct {
	ID uint `gorm:"primaryKey"`

	ProjectID  uint   `gorm:"not null;uniqueIndex:uni_signups_user_slot;index"`
	ScheduleID string `gorm:"not null;uniqueIndex:uni_signups_user_slot"`

	// Exactly one of UserID and AnonymousID is set, enforced by the
	// chk_signups_identity constraint.
	UserID      *uint   `gorm:"uniqueIndex:uni_signups_user_slot;index;check:chk_signups_identity,(user_id IS NULL) <> (anonymous_id IS NULL)"`
	AnonymousID *string `gorm:"index"`

	Status      string `gorm:"not null;default:'pending'"` // "pending", "approved", "attended", or "rejected"
	CheckInTime *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AnonymousSignup struct {
	ID string `gorm:"primaryKey"` // uuid

	Email     string `gorm:"not null;uniqueIndex:uni_anonymous_email_project"`
	ProjectID uint   `gorm:"not null;uniqueIndex:uni_anonymous_email_project"`

	Name        string `gorm:"not null"`
	PhoneNumber string

	SignupID    uint   `gorm:"not null"`
	Token       string `gorm:"not null"`
	ConfirmedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
}

type SignupDAO struct {
	db *gorm.DB
}

func NewSignupDAO(db *gorm.DB) *SignupDAO {
	return &SignupDAO{
		db: db,
	}
}

func (d *SignupDAO) Insert(ctx context.Context, signup ProjectSignup) (ProjectSignup, error) {
	result := d.db.WithContext(ctx).Create(&signup)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return ProjectSignup{}, ErrDuplicateSignup
		}

		return ProjectSignup{}, result.Error
	}

	return signup, nil
}

// InsertWithAnonymous creates the signup and its anonymous record in one
// transaction so the bidirectional link is never half-written. The caller
// pre-generates anon.ID and sets signup.AnonymousID to it.
func (d *SignupDAO) InsertWithAnonymous(ctx context.Context, signup ProjectSignup, anon AnonymousSignup) (ProjectSignup, AnonymousSignup, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&signup).Error; err != nil {
			return err
		}

		anon.SignupID = signup.ID
		if err := tx.Create(&anon).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ProjectSignup{}, AnonymousSignup{}, ErrDuplicateSignup
		}

		return ProjectSignup{}, AnonymousSignup{}, err
	}

	return signup, anon, nil
}

func (d *SignupDAO) FindByID(ctx context.Context, id uint) (ProjectSignup, error) {
	var signup ProjectSignup

	result := d.db.WithContext(ctx).First(&signup, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ProjectSignup{}, ErrSignupNotFound
		}

		return ProjectSignup{}, result.Error
	}

	return signup, nil
}

func (d *SignupDAO) FindByUserSlot(ctx context.Context, projectID uint, scheduleID string, userID uint) (ProjectSignup, error) {
	var signup ProjectSignup

	result := d.db.WithContext(ctx).
		First(&signup, "project_id = ? AND schedule_id = ? AND user_id = ?", projectID, scheduleID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ProjectSignup{}, ErrSignupNotFound
		}

		return ProjectSignup{}, result.Error
	}

	return signup, nil
}

func (d *SignupDAO) FindByAnonymousSlot(ctx context.Context, projectID uint, scheduleID, anonymousID string) (ProjectSignup, error) {
	var signup ProjectSignup

	result := d.db.WithContext(ctx).
		First(&signup, "project_id = ? AND schedule_id = ? AND anonymous_id = ?", projectID, scheduleID, anonymousID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ProjectSignup{}, ErrSignupNotFound
		}

		return ProjectSignup{}, result.Error
	}

	return signup, nil
}

// FindAnyByAnonymous returns an anonymous participant's signup for a project
// regardless of its schedule slot. Used for the walk-in check-in fallback.
func (d *SignupDAO) FindAnyByAnonymous(ctx context.Context, projectID uint, anonymousID string) (ProjectSignup, error) {
	var signup ProjectSignup

	result := d.db.WithContext(ctx).
		Order("created_at ASC").
		First(&signup, "project_id = ? AND anonymous_id = ?", projectID, anonymousID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ProjectSignup{}, ErrSignupNotFound
		}

		return ProjectSignup{}, result.Error
	}

	return signup, nil
}

func (d *SignupDAO) FindByUser(ctx context.Context, userID uint) ([]ProjectSignup, error) {
	var signups []ProjectSignup

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&signups)
	if result.Error != nil {
		return nil, result.Error
	}

	return signups, nil
}

func (d *SignupDAO) FindBySchedule(ctx context.Context, projectID uint, scheduleID string) ([]ProjectSignup, error) {
	var signups []ProjectSignup

	result := d.db.WithContext(ctx).
		Where("project_id = ? AND schedule_id = ?", projectID, scheduleID).
		Find(&signups)
	if result.Error != nil {
		return nil, result.Error
	}

	return signups, nil
}

// CountActive counts signups holding a place on a slot. Rejected signups
// release their place.
func (d *SignupDAO) CountActive(ctx context.Context, projectID uint, scheduleID string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&ProjectSignup{}).
		Where("project_id = ? AND schedule_id = ? AND status IN ?",
			projectID, scheduleID, []string{"pending", "approved", "attended"}).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *SignupDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&ProjectSignup{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSignupNotFound
	}

	return nil
}

// CheckIn stamps attendance with a conditional update so a concurrent or
// retried call can never double-stamp. Returns the number of rows updated;
// zero means the signup was either absent or already checked in.
func (d *SignupDAO) CheckIn(ctx context.Context, id uint, at time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Model(&ProjectSignup{}).
		Where("id = ? AND check_in_time IS NULL", id).
		Updates(map[string]interface{}{
			"check_in_time": at,
			"status":        "attended",
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// RetargetAndCheckIn moves a signup to the slot the participant actually
// attends and stamps attendance, in one transaction.
func (d *SignupDAO) RetargetAndCheckIn(ctx context.Context, id uint, scheduleID string, at time.Time) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ProjectSignup{}).
			Where("id = ?", id).
			Update("schedule_id", scheduleID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSignupNotFound
		}

		result = tx.Model(&ProjectSignup{}).
			Where("id = ? AND check_in_time IS NULL", id).
			Updates(map[string]interface{}{
				"check_in_time": at,
				"status":        "attended",
			})

		return result.Error
	})
}

func (d *SignupDAO) InsertAnonymous(ctx context.Context, anon AnonymousSignup) (AnonymousSignup, error) {
	result := d.db.WithContext(ctx).Create(&anon)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return AnonymousSignup{}, ErrDuplicateSignup
		}

		return AnonymousSignup{}, result.Error
	}

	return anon, nil
}

func (d *SignupDAO) FindAnonymousByID(ctx context.Context, id string) (AnonymousSignup, error) {
	var anon AnonymousSignup

	result := d.db.WithContext(ctx).First(&anon, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AnonymousSignup{}, ErrAnonymousNotFound
		}

		return AnonymousSignup{}, result.Error
	}

	return anon, nil
}

func (d *SignupDAO) FindAnonymousByEmail(ctx context.Context, email string, projectID uint) (AnonymousSignup, error) {
	var anon AnonymousSignup

	result := d.db.WithContext(ctx).
		First(&anon, "email = ? AND project_id = ?", email, projectID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AnonymousSignup{}, ErrAnonymousNotFound
		}

		return AnonymousSignup{}, result.Error
	}

	return anon, nil
}

func (d *SignupDAO) FindAnonymousByToken(ctx context.Context, id, token string) (AnonymousSignup, error) {
	var anon AnonymousSignup

	result := d.db.WithContext(ctx).First(&anon, "id = ? AND token = ?", id, token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AnonymousSignup{}, ErrAnonymousNotFound
		}

		return AnonymousSignup{}, result.Error
	}

	return anon, nil
}

// Confirm stamps confirmed_at on the anonymous signup and promotes its
// pending project signup to approved in one transaction, so the two rows
// can never diverge on partial failure.
func (d *SignupDAO) Confirm(ctx context.Context, anonymousID string, at time.Time) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&AnonymousSignup{}).
			Where("id = ? AND confirmed_at IS NULL", anonymousID).
			Update("confirmed_at", at)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyConfirmed
		}

		result = tx.Model(&ProjectSignup{}).
			Where("anonymous_id = ? AND status = ?", anonymousID, "pending").
			Update("status", "approved")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Confirmed without a pending signup to promote. Roll the
			// confirmation back and let the caller surface it.
			return ErrSignupNotFound
		}

		return nil
	})
}
