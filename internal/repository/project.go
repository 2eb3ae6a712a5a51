package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository/dao"
)

var ErrProjectNotFound = dao.ErrProjectNotFound

type ProjectDAO interface {
	Insert(ctx context.Context, project dao.Project) (dao.Project, error)
	FindByID(ctx context.Context, id uint) (dao.Project, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Project, error)
	FindByCreator(ctx context.Context, creatorID uint) ([]dao.Project, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdatePublished(ctx context.Context, id uint, published string) error
}

type ProjectRepository struct {
	dao ProjectDAO
}

func NewProjectRepository(dao ProjectDAO) *ProjectRepository {
	return &ProjectRepository{
		dao: dao,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) (domain.Project, error) {
	daoProject, err := r.domainToDao(project)
	if err != nil {
		return domain.Project{}, fmt.Errorf("r.domainToDao -> %w", err)
	}

	created, err := r.dao.Insert(ctx, daoProject)
	if err != nil {
		return domain.Project{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created)
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (domain.Project, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Project{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found)
}

func (r *ProjectRepository) FindByStatus(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error) {
	found, err := r.dao.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	return r.daosToDomain(found)
}

func (r *ProjectRepository) FindByCreator(ctx context.Context, creatorID uint) ([]domain.Project, error) {
	found, err := r.dao.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCreator -> %w", err)
	}

	return r.daosToDomain(found)
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uint, status domain.ProjectStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *ProjectRepository) UpdatePublished(ctx context.Context, id uint, published map[string]bool) error {
	data, err := json.Marshal(published)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = r.dao.UpdatePublished(ctx, id, string(data)); err != nil {
		return fmt.Errorf("r.dao.UpdatePublished -> %w", err)
	}

	return nil
}

func (r *ProjectRepository) domainToDao(p domain.Project) (dao.Project, error) {
	schedule, err := json.Marshal(p.Schedule)
	if err != nil {
		return dao.Project{}, fmt.Errorf("json.Marshal schedule -> %w", err)
	}

	published := p.Published
	if published == nil {
		published = map[string]bool{}
	}
	publishedJSON, err := json.Marshal(published)
	if err != nil {
		return dao.Project{}, fmt.Errorf("json.Marshal published -> %w", err)
	}

	return dao.Project{
		ID:                 p.ID,
		Title:              p.Title,
		Location:           p.Location,
		Description:        p.Description,
		EventType:          string(p.EventType),
		Schedule:           string(schedule),
		VerificationMethod: string(p.VerificationMethod),
		RequireLogin:       p.RequireLogin,
		Published:          string(publishedJSON),
		Status:             string(p.Status),
		CreatorID:          p.CreatorID,
		Organization:       p.Organization,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}, nil
}

func (r *ProjectRepository) daoToDomain(p dao.Project) (domain.Project, error) {
	var schedule domain.Schedule
	if err := json.Unmarshal([]byte(p.Schedule), &schedule); err != nil {
		return domain.Project{}, fmt.Errorf("json.Unmarshal schedule -> %w", err)
	}

	published := map[string]bool{}
	if p.Published != "" {
		if err := json.Unmarshal([]byte(p.Published), &published); err != nil {
			return domain.Project{}, fmt.Errorf("json.Unmarshal published -> %w", err)
		}
	}

	return domain.Project{
		ID:                 p.ID,
		Title:              p.Title,
		Location:           p.Location,
		Description:        p.Description,
		EventType:          domain.EventType(p.EventType),
		Schedule:           schedule,
		VerificationMethod: domain.VerificationMethod(p.VerificationMethod),
		RequireLogin:       p.RequireLogin,
		Published:          published,
		Status:             domain.ProjectStatus(p.Status),
		CreatorID:          p.CreatorID,
		Organization:       p.Organization,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}, nil
}

func (r *ProjectRepository) daosToDomain(daoProjects []dao.Project) ([]domain.Project, error) {
	projects := make([]domain.Project, len(daoProjects))
	for i, p := range daoProjects {
		project, err := r.daoToDomain(p)
		if err != nil {
			return nil, err
		}
		projects[i] = project
	}

	return projects, nil
}
