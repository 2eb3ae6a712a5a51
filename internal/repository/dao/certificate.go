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
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateExists   = errors.New("certificate already issued for this signup")
)

type Certificate struct {
	ID string `gorm:"primaryKey"` // uuid

	SignupID  uint `gorm:"not null;uniqueIndex"`
	ProjectID uint `gorm:"not null;index"`

	ProjectTitle   string `gorm:"not null"`
	Organization   string
	VolunteerName  string `gorm:"not null"`
	VolunteerEmail string `gorm:"not null;index"`

	ScheduleID   string    `gorm:"not null"`
	SessionStart time.Time `gorm:"not null"`
	SessionEnd   time.Time `gorm:"not null"`
	Hours        float64   `gorm:"not null"`

	IsCertified bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type CertificateDAO struct {
	db *gorm.DB
}

func NewCertificateDAO(db *gorm.DB) *CertificateDAO {
	return &CertificateDAO{
		db: db,
	}
}

func (d *CertificateDAO) Insert(ctx context.Context, cert Certificate) (Certificate, error) {
	result := d.db.WithContext(ctx).Create(&cert)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Certificate{}, ErrCertificateExists
		}

		return Certificate{}, result.Error
	}

	return cert, nil
}

func (d *CertificateDAO) FindByID(ctx context.Context, id string) (Certificate, error) {
	var cert Certificate

	result := d.db.WithContext(ctx).First(&cert, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Certificate{}, ErrCertificateNotFound
		}

		return Certificate{}, result.Error
	}

	return cert, nil
}

func (d *CertificateDAO) FindBySignupID(ctx context.Context, signupID uint) (Certificate, error) {
	var cert Certificate

	result := d.db.WithContext(ctx).First(&cert, "signup_id = ?", signupID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Certificate{}, ErrCertificateNotFound
		}

		return Certificate{}, result.Error
	}

	return cert, nil
}

func (d *CertificateDAO) FindByEmail(ctx context.Context, email string) ([]Certificate, error) {
	var certs []Certificate

	result := d.db.WithContext(ctx).
		Where("volunteer_email = ?", email).
		Order("created_at DESC").
		Find(&certs)
	if result.Error != nil {
		return nil, result.Error
	}

	return certs, nil
}
