package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/infrabondx/backend/internal/models"
)

func TestEscrowLockAccumulates(t *testing.T) {
	project := uuid.New()
	escrows := newMockEscrows(&models.Escrow{ID: uuid.New(), ProjectID: project})
	svc := NewEscrowService(escrows)
	ctx := context.Background()

	if err := svc.LockTx(ctx, noopTx{}, project, 1000); err != nil {
		t.Fatalf("LockTx: %v", err)
	}
	if err := svc.LockTx(ctx, noopTx{}, project, 500); err != nil {
		t.Fatalf("LockTx: %v", err)
	}

	locked, released := escrows.totals(project)
	if locked != 1500 || released != 0 {
		t.Fatalf("got locked=%d released=%d, want 1500/0", locked, released)
	}
}

func TestEscrowLockCreatesMissingRow(t *testing.T) {
	project := uuid.New()
	escrows := newMockEscrows()
	svc := NewEscrowService(escrows)

	if err := svc.LockTx(context.Background(), noopTx{}, project, 700); err != nil {
		t.Fatalf("LockTx: %v", err)
	}
	locked, _ := escrows.totals(project)
	if locked != 700 {
		t.Fatalf("locked = %d, want 700", locked)
	}
}

func TestEscrowReleasePercentOfCurrentLocked(t *testing.T) {
	project := uuid.New()
	escrows := newMockEscrows(&models.Escrow{ID: uuid.New(), ProjectID: project, TotalLocked: 1000})
	svc := NewEscrowService(escrows)
	ctx := context.Background()

	released, err := svc.ReleaseTx(ctx, noopTx{}, project, 20)
	if err != nil {
		t.Fatalf("ReleaseTx: %v", err)
	}
	if released != 200 {
		t.Fatalf("first release = %d, want 200", released)
	}

	// The base shrinks: the second 20% applies to the remaining 800.
	released, err = svc.ReleaseTx(ctx, noopTx{}, project, 20)
	if err != nil {
		t.Fatalf("ReleaseTx: %v", err)
	}
	if released != 160 {
		t.Fatalf("second release = %d, want 160", released)
	}

	locked, totalReleased := escrows.totals(project)
	if locked != 640 || totalReleased != 360 {
		t.Fatalf("got locked=%d released=%d, want 640/360", locked, totalReleased)
	}
}

func TestEscrowReleaseFloorsFractions(t *testing.T) {
	project := uuid.New()
	escrows := newMockEscrows(&models.Escrow{ID: uuid.New(), ProjectID: project, TotalLocked: 99})
	svc := NewEscrowService(escrows)

	released, err := svc.ReleaseTx(context.Background(), noopTx{}, project, 20)
	if err != nil {
		t.Fatalf("ReleaseTx: %v", err)
	}
	if released != 19 {
		t.Fatalf("released = %d, want floor(99*20/100)=19", released)
	}
}

func TestEscrowReleaseFullPercent(t *testing.T) {
	project := uuid.New()
	escrows := newMockEscrows(&models.Escrow{ID: uuid.New(), ProjectID: project, TotalLocked: 500})
	svc := NewEscrowService(escrows)

	released, err := svc.ReleaseTx(context.Background(), noopTx{}, project, 100)
	if err != nil {
		t.Fatalf("ReleaseTx: %v", err)
	}
	if released != 500 {
		t.Fatalf("released = %d, want 500", released)
	}
	locked, _ := escrows.totals(project)
	if locked != 0 {
		t.Fatalf("locked = %d, want 0", locked)
	}
}

func TestEscrowReleaseOnEmptyEscrow(t *testing.T) {
	project := uuid.New()
	escrows := newMockEscrows(&models.Escrow{ID: uuid.New(), ProjectID: project})
	svc := NewEscrowService(escrows)

	released, err := svc.ReleaseTx(context.Background(), noopTx{}, project, 20)
	if err != nil {
		t.Fatalf("ReleaseTx: %v", err)
	}
	if released != 0 {
		t.Fatalf("released = %d, want 0", released)
	}
}

func TestEscrowSummaryMissingRowReadsZero(t *testing.T) {
	svc := NewEscrowService(newMockEscrows())
	project := uuid.New()

	e, err := svc.Summary(context.Background(), project)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if e.ProjectID != project || e.TotalLocked != 0 || e.TotalReleased != 0 {
		t.Fatalf("unexpected summary: %+v", e)
	}
}
