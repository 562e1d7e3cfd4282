package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/certificate"
	"github.com/infrabondx/backend/internal/models"
)

// CertUserStore resolves the investor named on the certificate.
type CertUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CertProjectStore resolves the project named on the certificate.
type CertProjectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// CertTransactionStore resolves the investor's most recent transaction for the
// project, which carries the amount and token count printed on the certificate.
type CertTransactionStore interface {
	LatestByUserProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Transaction, error)
}

// CertificateService assembles certificate records from the ledger. It backs
// both the pre-render worker and the on-demand download endpoint.
type CertificateService struct {
	Users        CertUserStore
	Projects     CertProjectStore
	Transactions CertTransactionStore
}

func NewCertificateService(users CertUserStore, projects CertProjectStore, transactions CertTransactionStore) *CertificateService {
	return &CertificateService{Users: users, Projects: projects, Transactions: transactions}
}

// BuildCertificate returns the certificate record for a user's position in a
// project, or ErrNotFound when the user never transacted on it.
func (s *CertificateService) BuildCertificate(ctx context.Context, userID, projectID uuid.UUID) (*certificate.Data, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	p, err := s.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, notFound(err)
	}
	t, err := s.Transactions.LatestByUserProject(ctx, userID, projectID)
	if err != nil {
		return nil, notFound(err)
	}

	return &certificate.Data{
		InvestorName:   u.Name,
		ProjectTitle:   p.Title,
		AmountInvested: t.Amount,
		TokensIssued:   t.TokenCount,
		TokenPrice:     p.TokenPrice,
		ROIPercent:     p.ROIPercent,
		TenureMonths:   p.TenureMonths,
		TxHash:         t.TxHash,
		IssuedAt:       t.CreatedAt,
	}, nil
}
