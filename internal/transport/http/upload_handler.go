package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"billscan/internal/config"
	apierrors "billscan/internal/errors"
	"billscan/internal/infrastructure"
	"billscan/internal/services"
)

// allowedExtensions is the upload whitelist. .xls covers both legacy
// BIFF files (rejected later with a clear message) and SpreadsheetML
// files mislabeled by the billing portal.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".xml":  true,
	".csv":  true,
}

// UploadHandler handles package-report uploads and runs the block
// analysis on them.
type UploadHandler struct {
	service      *services.AnalysisService
	upload       config.UploadConfig
	metrics      *infrastructure.Metrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates the package-report upload handler.
func NewUploadHandler(service *services.AnalysisService, upload config.UploadConfig, metrics *infrastructure.Metrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:      service,
		upload:       upload,
		metrics:      metrics,
		logger:       logger.With(slog.String("handler", "upload")),
		errorHandler: errorHandler,
	}
}

// uploadResponse is the JSON body for POST /api/upload.
type uploadResponse struct {
	FileName string                   `json:"fileName"`
	Sheets   []services.SheetAnalysis `json:"sheets"`
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	saved, err := saveUpload(w, r, h.upload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer saved.cleanup()

	start := time.Now()
	sheets, err := h.service.AnalyzeWorkbook(r.Context(), saved.path)
	if err != nil {
		h.metrics.ParseFailures.Inc()
		h.errorHandler.HandleError(w, r, apierrors.UnprocessableFile(err))
		return
	}
	h.metrics.UploadsTotal.WithLabelValues("package").Inc()
	h.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	h.logger.InfoContext(r.Context(), "package report analyzed",
		slog.String("file", saved.name),
		slog.Int("sheets", len(sheets)),
	)
	render.JSON(w, r, uploadResponse{FileName: saved.name, Sheets: sheets})
}

// savedUpload is a multipart upload persisted to the upload directory.
type savedUpload struct {
	name    string
	path    string
	cleanup func()
}

// saveUpload validates the multipart request and writes the "file"
// field to the upload directory under a random name. The returned
// cleanup removes the file unless the configuration keeps uploads.
func saveUpload(w http.ResponseWriter, r *http.Request, cfg config.UploadConfig) (*savedUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBytes)
	if err := r.ParseMultipartForm(cfg.MaxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apierrors.ErrPayloadTooLarge
		}
		return nil, apierrors.ErrInvalidRequest
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apierrors.ErrMissingFile
	}
	defer file.Close()

	name := strings.TrimSpace(filepath.Base(header.Filename))
	if name == "" || name == "." {
		return nil, apierrors.ErrEmptyFilename
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return nil, apierrors.ErrUnsupportedFile
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(cfg.Dir, uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	cleanup := func() {
		if !cfg.Keep {
			os.Remove(path)
		}
	}
	return &savedUpload{name: name, path: path, cleanup: cleanup}, nil
}
