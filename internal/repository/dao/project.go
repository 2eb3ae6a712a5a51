package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type Project struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null"`
	Location    string `gorm:"not null"`
	Description string

	EventType          string `gorm:"not null"` // "oneTime", "multiDay", or "sameDayMultiArea"
	Schedule           string `gorm:"type:jsonb;not null"`
	VerificationMethod string `gorm:"not null"` // "qr-code", "manual", "auto", or "signup-only"
	RequireLogin       bool   `gorm:"not null"`
	Published          string `gorm:"type:jsonb;default:'{}'"`
	Status             string `gorm:"not null;default:'active'"`

	CreatorID    uint `gorm:"not null;index"`
	Organization string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ProjectDAO struct {
	db *gorm.DB
}

func NewProjectDAO(db *gorm.DB) *ProjectDAO {
	return &ProjectDAO{
		db: db,
	}
}

func (d *ProjectDAO) Insert(ctx context.Context, project Project) (Project, error) {
	result := d.db.WithContext(ctx).Create(&project)
	if result.Error != nil {
		return Project{}, result.Error
	}

	return project, nil
}

func (d *ProjectDAO) FindByID(ctx context.Context, id uint) (Project, error) {
	var project Project

	result := d.db.WithContext(ctx).First(&project, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Project{}, ErrProjectNotFound
		}

		return Project{}, result.Error
	}

	return project, nil
}

func (d *ProjectDAO) FindByStatus(ctx context.Context, status string) ([]Project, error) {
	var projects []Project

	result := d.db.WithContext(ctx).Where("status = ?", status).Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}

	return projects, nil
}

func (d *ProjectDAO) FindByCreator(ctx context.Context, creatorID uint) ([]Project, error) {
	var projects []Project

	result := d.db.WithContext(ctx).Where("creator_id = ?", creatorID).Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}

	return projects, nil
}

func (d *ProjectDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Project{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}

func (d *ProjectDAO) UpdatePublished(ctx context.Context, id uint, published string) error {
	result := d.db.WithContext(ctx).
		Model(&Project{}).
		Where("id = ?", id).
		Update("published", published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}

	return nil
}
