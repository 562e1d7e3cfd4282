package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/infrabondx/backend/internal/certificate"
	"github.com/infrabondx/backend/internal/metrics"
)

// RenderCertificateJobArgs asks the worker to pre-render the investor's
// certificate for a project after a mint commits. Enqueued transactionally
// with the investment, so a job only ever exists for a committed mint.
type RenderCertificateJobArgs struct {
	UserID    uuid.UUID `json:"user_id"`
	ProjectID uuid.UUID `json:"project_id"`
	TxHash    string    `json:"tx_hash"`
}

func (RenderCertificateJobArgs) Kind() string { return "render_certificate" }

// CertificateData defines the contract the worker needs to assemble a
// certificate record from the ledger.
type CertificateData interface {
	BuildCertificate(ctx context.Context, userID, projectID uuid.UUID) (*certificate.Data, error)
}

type RenderCertificateWorker struct {
	river.WorkerDefaults[RenderCertificateJobArgs]
	data     CertificateData
	renderer certificate.Renderer
	outDir   string
	log      *slog.Logger
}

func NewRenderCertificateWorker(data CertificateData, renderer certificate.Renderer, outDir string, log *slog.Logger) *RenderCertificateWorker {
	if log == nil {
		log = slog.Default()
	}
	return &RenderCertificateWorker{data: data, renderer: renderer, outDir: outDir, log: log}
}

func (w *RenderCertificateWorker) Work(ctx context.Context, job *river.Job[RenderCertificateJobArgs]) error {
	args := job.Args

	data, err := w.data.BuildCertificate(ctx, args.UserID, args.ProjectID)
	if err != nil {
		return fmt.Errorf("build certificate record: %w", err)
	}
	if data.TxHash == "" {
		data.TxHash = args.TxHash
	}

	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create certificate dir: %w", err)
	}
	path := CertificatePath(w.outDir, args.UserID, args.ProjectID)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create certificate file: %w", err)
	}
	defer f.Close()

	if err := w.renderer.Render(*data, f); err != nil {
		return fmt.Errorf("render certificate: %w", err)
	}

	metrics.CertificatesRendered.Inc()
	w.log.Info("certificate rendered", "user_id", args.UserID, "project_id", args.ProjectID, "path", path)
	return nil
}

// CertificatePath is the on-disk location for a user/project certificate.
func CertificatePath(dir string, userID, projectID uuid.UUID) string {
	return filepath.Join(dir, fmt.Sprintf("certificate_%s_%s.pdf", userID, projectID))
}
