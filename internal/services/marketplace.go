package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/infrabondx/backend/internal/metrics"
	"github.com/infrabondx/backend/internal/models"
)

// ListingStore is the marketplace listing access the trade flow needs.
type ListingStore interface {
	Create(ctx context.Context, l *models.MarketplaceListing) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.MarketplaceListing, error)
	MarkSoldTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	ListActiveViews(ctx context.Context) ([]*models.ListingView, error)
}

// MarketProjectStore resolves and locks the listing's project.
type MarketProjectStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Project, error)
}

// BuyResult is returned to the buyer after a fulfilled listing.
type BuyResult struct {
	TxHash string
}

// MarketplaceService implements peer-to-peer token listing and atomic listing
// fulfillment.
type MarketplaceService struct {
	Pool         TxBeginner
	Listings     ListingStore
	Projects     MarketProjectStore
	Holdings     HoldingStore
	Transactions TransactionStore
	Log          *slog.Logger
}

func NewMarketplaceService(pool TxBeginner, listings ListingStore, projects MarketProjectStore, holdings HoldingStore, transactions TransactionStore, log *slog.Logger) *MarketplaceService {
	if log == nil {
		log = slog.Default()
	}
	return &MarketplaceService{
		Pool:         pool,
		Listings:     listings,
		Projects:     projects,
		Holdings:     holdings,
		Transactions: transactions,
		Log:          log,
	}
}

// CreateListing puts tokens up for sale. The seller's balance is checked here
// but NOT decremented: nothing is reserved at listing time, and a seller can
// list the same tokens twice. The balance is enforced again at buy time, which
// is the point that actually settles who wins.
func (s *MarketplaceService) CreateListing(ctx context.Context, sellerID, projectID uuid.UUID, tokenCount, pricePerToken int64) (*models.MarketplaceListing, error) {
	if tokenCount <= 0 || pricePerToken <= 0 {
		return nil, ErrValidation
	}
	h, err := s.Holdings.GetByUserProject(ctx, sellerID, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsufficientTokens
		}
		return nil, err
	}
	if h.TokenCount < tokenCount {
		return nil, ErrInsufficientTokens
	}

	l := &models.MarketplaceListing{
		ID:            uuid.New(),
		SellerID:      sellerID,
		ProjectID:     projectID,
		TokenCount:    tokenCount,
		PricePerToken: pricePerToken,
		Status:        models.ListingStatusActive,
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListActive returns ACTIVE listings on ACTIVE projects.
func (s *MarketplaceService) ListActive(ctx context.Context) ([]*models.ListingView, error) {
	return s.Listings.ListActiveViews(ctx)
}

// Buy fulfills a listing: seller holding down, buyer holding up, listing SOLD,
// TRANSFER record appended, all in one transaction. The listing row is locked
// first, so of two racing buyers exactly one sees ACTIVE.
//
// The buyer's avg_buy_price is overwritten with the listing price, not folded
// in as a weighted average. Asymmetric with the mint path on purpose.
func (s *MarketplaceService) Buy(ctx context.Context, buyerID, listingID uuid.UUID) (*BuyResult, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	l, err := s.Listings.GetByIDForUpdate(ctx, tx, listingID)
	if err != nil {
		return nil, notFound(err)
	}
	if l.Status != models.ListingStatusActive {
		return nil, ErrListingNotActive
	}
	if buyerID == l.SellerID {
		return nil, ErrSelfTrade
	}

	p, err := s.Projects.GetByIDForUpdate(ctx, tx, l.ProjectID)
	if err != nil {
		return nil, notFound(err)
	}
	if p.Status != models.ProjectStatusActive {
		return nil, ErrProjectNotActive
	}

	sellerH, err := s.Holdings.GetByUserProjectForUpdateTx(ctx, tx, l.SellerID, p.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.IncrementTransfer("rejected")
			return nil, ErrInsufficientTokens
		}
		return nil, err
	}
	if sellerH.TokenCount < l.TokenCount {
		metrics.IncrementTransfer("rejected")
		return nil, ErrInsufficientTokens
	}

	if err := s.Holdings.UpdateTx(ctx, tx, sellerH.ID, sellerH.TokenCount-l.TokenCount, sellerH.AvgBuyPrice); err != nil {
		return nil, err
	}

	buyerH, err := s.Holdings.GetByUserProjectForUpdateTx(ctx, tx, buyerID, p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = s.Holdings.CreateTx(ctx, tx, &models.TokenHolding{
			ID:          uuid.New(),
			UserID:      buyerID,
			ProjectID:   p.ID,
			TokenCount:  l.TokenCount,
			AvgBuyPrice: float64(l.PricePerToken),
		})
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		if err := s.Holdings.UpdateTx(ctx, tx, buyerH.ID, buyerH.TokenCount+l.TokenCount, float64(l.PricePerToken)); err != nil {
			return nil, err
		}
	}

	if err := s.Listings.MarkSoldTx(ctx, tx, l.ID); err != nil {
		return nil, err
	}

	txHash := NewTxHash()
	record := &models.Transaction{
		ID:         uuid.New(),
		TxHash:     txHash,
		UserID:     buyerID,
		ProjectID:  &p.ID,
		TxType:     models.TxTypeTransfer,
		Amount:     l.TokenCount * l.PricePerToken,
		TokenCount: l.TokenCount,
		Status:     models.TxStatusSuccess,
	}
	if err := s.Transactions.CreateTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncrementTransfer("success")
	s.Log.Info("listing fulfilled", "listing_id", l.ID, "buyer_id", buyerID, "seller_id", l.SellerID, "tokens", l.TokenCount)
	return &BuyResult{TxHash: txHash}, nil
}
