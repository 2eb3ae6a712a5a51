package repository

import (
	"context"
	"fmt"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository/dao"
)

var (
	ErrCertificateNotFound = dao.ErrCertificateNotFound
	ErrCertificateExists   = dao.ErrCertificateExists
)

type CertificateDAO interface {
	Insert(ctx context.Context, cert dao.Certificate) (dao.Certificate, error)
	FindByID(ctx context.Context, id string) (dao.Certificate, error)
	FindBySignupID(ctx context.Context, signupID uint) (dao.Certificate, error)
	FindByEmail(ctx context.Context, email string) ([]dao.Certificate, error)
}

type CertificateRepository struct {
	dao CertificateDAO
}

func NewCertificateRepository(dao CertificateDAO) *CertificateRepository {
	return &CertificateRepository{
		dao: dao,
	}
}

func (r *CertificateRepository) Create(ctx context.Context, cert domain.Certificate) (domain.Certificate, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(cert))
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CertificateRepository) FindByID(ctx context.Context, id string) (domain.Certificate, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CertificateRepository) FindBySignupID(ctx context.Context, signupID uint) (domain.Certificate, error) {
	found, err := r.dao.FindBySignupID(ctx, signupID)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.FindBySignupID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CertificateRepository) FindByEmail(ctx context.Context, email string) ([]domain.Certificate, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	certs := make([]domain.Certificate, len(found))
	for i, c := range found {
		certs[i] = r.daoToDomain(c)
	}

	return certs, nil
}

func (r *CertificateRepository) domainToDao(c domain.Certificate) dao.Certificate {
	return dao.Certificate{
		ID:             c.ID,
		SignupID:       c.SignupID,
		ProjectID:      c.ProjectID,
		ProjectTitle:   c.ProjectTitle,
		Organization:   c.Organization,
		VolunteerName:  c.VolunteerName,
		VolunteerEmail: c.VolunteerEmail,
		ScheduleID:     c.ScheduleID,
		SessionStart:   c.SessionStart,
		SessionEnd:     c.SessionEnd,
		Hours:          c.Hours,
		IsCertified:    c.IsCertified,
		CreatedAt:      c.IssuedAt,
	}
}

func (r *CertificateRepository) daoToDomain(c dao.Certificate) domain.Certificate {
	return domain.Certificate{
		ID:             c.ID,
		SignupID:       c.SignupID,
		ProjectID:      c.ProjectID,
		ProjectTitle:   c.ProjectTitle,
		Organization:   c.Organization,
		VolunteerName:  c.VolunteerName,
		VolunteerEmail: c.VolunteerEmail,
		ScheduleID:     c.ScheduleID,
		SessionStart:   c.SessionStart,
		SessionEnd:     c.SessionEnd,
		Hours:          c.Hours,
		IsCertified:    c.IsCertified,
		IssuedAt:       c.CreatedAt,
	}
}
