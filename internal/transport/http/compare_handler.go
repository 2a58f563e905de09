package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"billscan/internal/billing"
	"billscan/internal/config"
	apierrors "billscan/internal/errors"
	"billscan/internal/exporter"
	"billscan/internal/infrastructure"
	"billscan/internal/services"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// datasetStore keeps uploaded month tables in memory between the
// upload call and the compare calls that reference them. Entries live
// for the process lifetime; the dataset is tiny compared to the source
// spreadsheet.
type datasetStore struct {
	mu     sync.RWMutex
	tables map[string]billing.MonthTable
}

func newDatasetStore() *datasetStore {
	return &datasetStore{tables: make(map[string]billing.MonthTable)}
}

func (s *datasetStore) put(table billing.MonthTable) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.tables[id] = table
	s.mu.Unlock()
	return id
}

func (s *datasetStore) get(id string) (billing.MonthTable, bool) {
	s.mu.RLock()
	table, ok := s.tables[id]
	s.mu.RUnlock()
	return table, ok
}

// CompareHandler handles monthly dataset uploads and month-to-month
// comparisons over them.
type CompareHandler struct {
	service      *services.CompareService
	store        *datasetStore
	upload       config.UploadConfig
	validate     *validator.Validate
	metrics      *infrastructure.Metrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCompareHandler creates the monthly upload and compare handler.
func NewCompareHandler(service *services.CompareService, upload config.UploadConfig, metrics *infrastructure.Metrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CompareHandler {
	v := validator.New()
	v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return monthPattern.MatchString(fl.Field().String())
	})
	return &CompareHandler{
		service:      service,
		store:        newDatasetStore(),
		upload:       upload,
		validate:     v,
		metrics:      metrics,
		logger:       logger.With(slog.String("handler", "compare")),
		errorHandler: errorHandler,
	}
}

// monthlyUploadResponse is the JSON body for POST /api/upload/monthly.
type monthlyUploadResponse struct {
	DatasetID string   `json:"datasetId"`
	FileName  string   `json:"fileName"`
	Months    []string `json:"months"`
}

// UploadMonthly handles POST /api/upload/monthly.
func (h *CompareHandler) UploadMonthly(w http.ResponseWriter, r *http.Request) {
	saved, err := saveUpload(w, r, h.upload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer saved.cleanup()

	table, err := h.service.LoadMonthTable(r.Context(), saved.path)
	if err != nil {
		h.metrics.ParseFailures.Inc()
		h.errorHandler.HandleError(w, r, apierrors.UnprocessableFile(err))
		return
	}
	h.metrics.UploadsTotal.WithLabelValues("monthly").Inc()

	id := h.store.put(table)
	h.logger.InfoContext(r.Context(), "monthly dataset stored",
		slog.String("dataset_id", id),
		slog.String("file", saved.name),
		slog.Int("months", len(table)),
	)
	render.JSON(w, r, monthlyUploadResponse{
		DatasetID: id,
		FileName:  saved.name,
		Months:    table.Months(),
	})
}

// compareRequest is the JSON body of POST /api/compare. Format selects
// the response encoding; csv streams a BOM-prefixed file download.
type compareRequest struct {
	DatasetID string `json:"datasetId" validate:"required,uuid"`
	MonthA    string `json:"monthA" validate:"required,month"`
	MonthB    string `json:"monthB" validate:"required,month"`
	Format    string `json:"format" validate:"omitempty,oneof=json csv"`
}

// compareResponse is the JSON body for POST /api/compare.
type compareResponse struct {
	MonthA  string               `json:"monthA"`
	MonthB  string               `json:"monthB"`
	Entries []billing.DiffEntry  `json:"entries"`
	Summary services.DiffSummary `json:"summary"`
}

// Compare handles POST /api/compare.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r,
			apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
				"Request validation failed", err.Error()))
		return
	}

	table, ok := h.store.get(req.DatasetID)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("dataset"))
		return
	}

	entries, summary, err := h.service.Compare(r.Context(), table, req.MonthA, req.MonthB)
	if err != nil {
		var empty *services.ErrMonthEmpty
		if errors.As(err, &empty) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound, "MONTH_NOT_FOUND",
				"Requested month not present in dataset", empty.Month))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.metrics.ComparisonsTotal.Inc()

	if req.Format == "csv" {
		h.writeCSV(w, r, req, entries)
		return
	}
	render.JSON(w, r, compareResponse{
		MonthA:  req.MonthA,
		MonthB:  req.MonthB,
		Entries: entries,
		Summary: summary,
	})
}

func (h *CompareHandler) writeCSV(w http.ResponseWriter, r *http.Request, req compareRequest, entries []billing.DiffEntry) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=compare_%s_%s.csv", req.MonthA, req.MonthB))
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return
	}
	if err := exporter.WriteDiff(w, entries); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()))
	}
}
