package services

import (
	"context"
	"fmt"

	"github.com/payalife/lms-backend/internal/models"
	"github.com/payalife/lms-backend/internal/pdf"
	repo "github.com/payalife/lms-backend/internal/repository"
)

// CertificateService reads and renders issued certificates.
type CertificateService struct {
	certificates repo.Certificates
	renderer     *pdf.CertificateRenderer
}

func NewCertificateService(certificates repo.Certificates, renderer *pdf.CertificateRenderer) *CertificateService {
	return &CertificateService{certificates: certificates, renderer: renderer}
}

// GetForUser returns the certificate when the viewer owns it or is an admin.
func (s *CertificateService) GetForUser(ctx context.Context, id string, viewer models.User) (models.Certificate, error) {
	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return models.Certificate{}, err
	}
	if cert.UserID != viewer.ID && viewer.Role != models.RoleAdmin {
		return models.Certificate{}, ErrForbidden
	}
	return cert, nil
}

// Verify looks up a certificate by ID with no ownership check. This backs
// the public QR-code verification page.
func (s *CertificateService) Verify(ctx context.Context, id string) (models.Certificate, error) {
	return s.certificates.GetByID(ctx, id)
}

// Render produces the certificate PDF for download.
func (s *CertificateService) Render(ctx context.Context, id string, viewer models.User) ([]byte, error) {
	cert, err := s.GetForUser(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	out, err := s.renderer.Render(cert)
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return out, nil
}

// ListByUser returns the user's certificates, newest first.
func (s *CertificateService) ListByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	return s.certificates.ListByUser(ctx, userID)
}
