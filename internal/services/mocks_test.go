package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/infrabondx/backend/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory mocks. These let us test the real service logic without a
// database; row locking is irrelevant single-threaded, so the ForUpdate
// variants just read.
// ---------------------------------------------------------------------------

// --- noopTx satisfies pgx.Tx; only Commit/Rollback are called. ---

type noopTx struct{}

func (noopTx) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }
func (noopTx) Commit(context.Context) error          { return nil }
func (noopTx) Rollback(context.Context) error        { return nil }
func (noopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (noopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (noopTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (noopTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (noopTx) Conn() *pgx.Conn { return nil }

type mockPool struct{}

func (mockPool) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }

// --- projects ---

type mockProjects struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
}

func newMockProjects(ps ...*models.Project) *mockProjects {
	m := &mockProjects{projects: make(map[uuid.UUID]*models.Project)}
	for _, p := range ps {
		cp := *p
		m.projects[p.ID] = &cp
	}
	return m
}

func (m *mockProjects) get(id uuid.UUID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockProjects) Create(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *mockProjects) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	return m.get(id)
}

func (m *mockProjects) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.Project, error) {
	return m.get(id)
}

func (m *mockProjects) List(_ context.Context) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Project
	for _, p := range m.projects {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockProjects) ListByStatus(_ context.Context, status string) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Project
	for _, p := range m.projects {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockProjects) ListByIssuer(_ context.Context, issuerID uuid.UUID) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Project
	for _, p := range m.projects {
		if p.IssuerID == issuerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockProjects) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	return nil
}

func (m *mockProjects) AddFundingRaisedTx(_ context.Context, _ pgx.Tx, id uuid.UUID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.FundingRaised += amount
	return nil
}

func (m *mockProjects) setTokenPrice(id uuid.UUID, price int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[id].TokenPrice = price
}

func (m *mockProjects) raised(id uuid.UUID) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projects[id].FundingRaised
}

func (m *mockProjects) status(id uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projects[id].Status
}

// --- escrows ---

type mockEscrows struct {
	mu     sync.Mutex
	byProj map[uuid.UUID]*models.Escrow
}

func newMockEscrows(es ...*models.Escrow) *mockEscrows {
	m := &mockEscrows{byProj: make(map[uuid.UUID]*models.Escrow)}
	for _, e := range es {
		cp := *e
		m.byProj[e.ProjectID] = &cp
	}
	return m
}

func (m *mockEscrows) Create(_ context.Context, e *models.Escrow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.byProj[e.ProjectID] = &cp
	return nil
}

func (m *mockEscrows) GetByProject(_ context.Context, projectID uuid.UUID) (*models.Escrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byProj[projectID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

// GetByProjectForUpdateTx mirrors the real repo: a missing row is created with
// zero balances.
func (m *mockEscrows) GetByProjectForUpdateTx(_ context.Context, _ pgx.Tx, projectID uuid.UUID) (*models.Escrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byProj[projectID]
	if !ok {
		e = &models.Escrow{ID: uuid.New(), ProjectID: projectID}
		m.byProj[projectID] = e
	}
	cp := *e
	return &cp, nil
}

func (m *mockEscrows) UpdateTotalsTx(_ context.Context, _ pgx.Tx, id uuid.UUID, totalLocked, totalReleased int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byProj {
		if e.ID == id {
			e.TotalLocked = totalLocked
			e.TotalReleased = totalReleased
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockEscrows) totals(projectID uuid.UUID) (int64, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byProj[projectID]
	if !ok {
		return 0, 0
	}
	return e.TotalLocked, e.TotalReleased
}

// --- holdings ---

type holdingKey struct {
	user, project uuid.UUID
}

type mockHoldings struct {
	mu       sync.Mutex
	holdings map[holdingKey]*models.TokenHolding
}

func newMockHoldings(hs ...*models.TokenHolding) *mockHoldings {
	m := &mockHoldings{holdings: make(map[holdingKey]*models.TokenHolding)}
	for _, h := range hs {
		cp := *h
		m.holdings[holdingKey{h.UserID, h.ProjectID}] = &cp
	}
	return m
}

func (m *mockHoldings) get(userID, projectID uuid.UUID) (*models.TokenHolding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holdings[holdingKey{userID, projectID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *h
	return &cp, nil
}

func (m *mockHoldings) GetByUserProject(_ context.Context, userID, projectID uuid.UUID) (*models.TokenHolding, error) {
	return m.get(userID, projectID)
}

func (m *mockHoldings) GetByUserProjectForUpdateTx(_ context.Context, _ pgx.Tx, userID, projectID uuid.UUID) (*models.TokenHolding, error) {
	return m.get(userID, projectID)
}

func (m *mockHoldings) CreateTx(_ context.Context, _ pgx.Tx, h *models.TokenHolding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *h
	m.holdings[holdingKey{h.UserID, h.ProjectID}] = &cp
	return nil
}

func (m *mockHoldings) UpdateTx(_ context.Context, _ pgx.Tx, id uuid.UUID, tokenCount int64, avgBuyPrice float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.holdings {
		if h.ID == id {
			h.TokenCount = tokenCount
			h.AvgBuyPrice = avgBuyPrice
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockHoldings) snapshot(userID, projectID uuid.UUID) (int64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holdings[holdingKey{userID, projectID}]
	if !ok {
		return 0, 0
	}
	return h.TokenCount, h.AvgBuyPrice
}

// --- transactions ---

type mockTransactions struct {
	mu      sync.Mutex
	records []*models.Transaction
}

func (m *mockTransactions) CreateTx(_ context.Context, _ pgx.Tx, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockTransactions) all() []*models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Transaction, len(m.records))
	copy(out, m.records)
	return out
}

// --- milestones ---

type mockMilestones struct {
	mu         sync.Mutex
	milestones map[uuid.UUID]*models.Milestone
}

func newMockMilestones(list ...*models.Milestone) *mockMilestones {
	m := &mockMilestones{milestones: make(map[uuid.UUID]*models.Milestone)}
	for _, ms := range list {
		cp := *ms
		m.milestones[ms.ID] = &cp
	}
	return m
}

func (m *mockMilestones) Create(_ context.Context, ms *models.Milestone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ms
	m.milestones[ms.ID] = &cp
	return nil
}

func (m *mockMilestones) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.milestones[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ms
	return &cp, nil
}

func (m *mockMilestones) ListByProject(_ context.Context, projectID uuid.UUID) ([]*models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Milestone
	for _, ms := range m.milestones {
		if ms.ProjectID == projectID {
			cp := *ms
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockMilestones) CompleteTx(_ context.Context, _ pgx.Tx, id uuid.UUID, proofURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.milestones[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ms.Status = models.MilestoneStatusCompleted
	ms.ProofURL = proofURL
	return nil
}

func (m *mockMilestones) status(id uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.milestones[id].Status
}

// --- listings ---

type mockListings struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*models.MarketplaceListing
}

func newMockListings(ls ...*models.MarketplaceListing) *mockListings {
	m := &mockListings{listings: make(map[uuid.UUID]*models.MarketplaceListing)}
	for _, l := range ls {
		cp := *l
		m.listings[l.ID] = &cp
	}
	return m
}

func (m *mockListings) Create(_ context.Context, l *models.MarketplaceListing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *mockListings) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.MarketplaceListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *l
	return &cp, nil
}

func (m *mockListings) MarkSoldTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	l.Status = models.ListingStatusSold
	return nil
}

func (m *mockListings) ListActiveViews(_ context.Context) ([]*models.ListingView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ListingView
	for _, l := range m.listings {
		if l.Status == models.ListingStatusActive {
			out = append(out, &models.ListingView{
				ID:            l.ID,
				ProjectID:     l.ProjectID,
				TokenCount:    l.TokenCount,
				PricePerToken: l.PricePerToken,
				Status:        l.Status,
			})
		}
	}
	return out, nil
}

func (m *mockListings) status(id uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listings[id].Status
}
