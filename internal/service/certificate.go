package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lets-assist/api/internal/domain"
	"github.com/lets-assist/api/internal/repository"
)

var ErrCertificateNotFound = repository.ErrCertificateNotFound

type CertificateService struct {
	repo CertificateRepository
}

func NewCertificateService(repo CertificateRepository) *CertificateService {
	return &CertificateService{
		repo: repo,
	}
}

func (s *CertificateService) GetCertificate(ctx context.Context, id string) (domain.Certificate, error) {
	cert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCertificateNotFound) {
			return domain.Certificate{}, ErrCertificateNotFound
		}

		return domain.Certificate{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return cert, nil
}

func (s *CertificateService) GetCertificatesByEmail(ctx context.Context, email string) ([]domain.Certificate, error) {
	certs, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	return certs, nil
}
