package report

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"sorubank/internal/app/apiresp"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc reportService
}

type reportService interface {
	SummaryByTopic(ctx context.Context, topicID int64) (*TopicSummary, error)
	Overview(ctx context.Context) ([]TopicSummary, error)
}

func NewHandler(svc reportService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) TopicSummary(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || topicID <= 0 {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid topic id")
		return
	}

	summary, err := h.svc.SummaryByTopic(r.Context(), topicID)
	if err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
			return
		}
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	apiresp.WriteOK(w, r, http.StatusOK, summary)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Overview(r.Context())
	if err != nil {
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, items)
}
