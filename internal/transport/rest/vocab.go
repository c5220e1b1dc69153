package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/service/review"
)

const defaultProgressDays = 30

// reviewService defines the minimal interface needed by VocabHandler.
// Every method reads the user from the request context.
type reviewService interface {
	AddToVocab(ctx context.Context, unitID uuid.UUID) (bool, error)
	SubmitReview(ctx context.Context, input review.SubmitReviewInput) (*domain.UserVocab, error)
	DueCount(ctx context.Context) (int, error)
	DueItems(ctx context.Context, input review.DueItemsInput) ([]domain.DueItem, error)
	Summary(ctx context.Context) (domain.VocabSummary, error)
	RecordDailyProgress(ctx context.Context) (domain.ProgressRecord, error)
	RecentProgress(ctx context.Context, input review.RecentProgressInput) ([]domain.ProgressRecord, error)
}

// VocabHandler serves the user's vocabulary and review endpoints.
type VocabHandler struct {
	svc reviewService
	log *slog.Logger
}

// NewVocabHandler creates a VocabHandler.
func NewVocabHandler(svc reviewService, logger *slog.Logger) *VocabHandler {
	return &VocabHandler{svc: svc, log: logger.With("handler", "vocab")}
}

// Add handles POST /api/vocab. Adding a unit twice answers 200 instead of 201.
func (h *VocabHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addVocabRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	added, err := h.svc.AddToVocab(r.Context(), req.UnitID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, addVocabResponse{UnitID: req.UnitID.String(), Added: added})
}

// Review handles POST /api/vocab/{unitId}/reviews.
func (h *VocabHandler) Review(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(r.PathValue("unitId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid unit id")
		return
	}

	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Remembered == nil {
		handleError(h.log, w, r, domain.NewValidationError("remembered", "required"))
		return
	}

	v, err := h.svc.SubmitReview(r.Context(), review.SubmitReviewInput{
		UnitID:     unitID,
		Remembered: *req.Remembered,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toVocabResponse(*v))
}

// Due handles GET /api/vocab/due?limit=.
func (h *VocabHandler) Due(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	items, err := h.svc.DueItems(r.Context(), review.DueItemsInput{Limit: limit})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]dueItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, dueItemResponse{vocabResponse: toVocabResponse(it.Vocab), Label: it.Label})
	}
	writeJSON(w, http.StatusOK, resp)
}

// DueCount handles GET /api/vocab/due/count.
func (h *VocabHandler) DueCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DueCount(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// Summary handles GET /api/vocab/summary.
func (h *VocabHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Total:             s.Total,
		AveragePercentage: s.AveragePercentage,
		DueCount:          s.DueCount,
	})
}

// RecordProgress handles POST /api/vocab/progress.
func (h *VocabHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.RecordDailyProgress(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(rec))
}

// Progress handles GET /api/vocab/progress?days=.
func (h *VocabHandler) Progress(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultProgressDays)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	records, err := h.svc.RecentProgress(r.Context(), review.RecentProgressInput{Days: days})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]progressResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toProgressResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}
