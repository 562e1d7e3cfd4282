package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/infrabondx/backend/internal/storage"
)

// maxUploadBytes caps milestone proof uploads at 16 MiB.
const maxUploadBytes = 16 << 20

// UploadHandler accepts milestone proof files and serves them back.
type UploadHandler struct {
	Store storage.Store
	Log   *slog.Logger
}

func NewUploadHandler(store storage.Store, log *slog.Logger) *UploadHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UploadHandler{Store: store, Log: log}
}

type uploadResponse struct {
	Message string `json:"message"`
	FileURL string `json:"file_url"`
}

// Upload handles POST /api/upload — multipart form with a "file" part. The
// returned file_url is what issuers pass as proof_url on milestone submission.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part missing or too large")
		return
	}
	defer f.Close()

	ref, err := h.Store.Save(header.Filename, f)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFilename) {
			writeError(w, http.StatusBadRequest, "invalid filename")
			return
		}
		h.Log.Error("save upload", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Message: "File uploaded", FileURL: ref})
}

// Serve handles GET /uploads/{name}.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	f, err := h.Store.Open(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	defer f.Close()

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, f); err != nil {
		h.Log.Error("serve upload", "name", name, "error", err)
	}
}
