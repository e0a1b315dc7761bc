package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sorubank/internal/app/apiresp"
)

type Handler struct {
	svc questionService
}

type questionService interface {
	Create(ctx context.Context, in CreateInput) (*Record, error)
	Get(ctx context.Context, id int64) (*Record, error)
	ListByTopic(ctx context.Context, topicID int64, activeOnly bool) ([]Record, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Record, error)
	Delete(ctx context.Context, id int64) error
	PreviewImport(text string) *ImportPreview
	Import(ctx context.Context, topicID int64, text, source string) (*ImportReport, error)
	ExportTopicExcel(ctx context.Context, topicID int64) ([]byte, error)
}

type apiResponse struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type questionRequest struct {
	TopicID            int64    `json:"topic_id"`
	ContextText        string   `json:"context_text"`
	PremiseItems       []string `json:"premise_items"`
	QuestionStem       string   `json:"question_stem"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation"`
	Source             string   `json:"source"`
}

type importPreviewRequest struct {
	Text string `json:"text"`
}

type importRequest struct {
	TopicID int64  `json:"topic_id"`
	Text    string `json:"text"`
	Source  string `json:"source"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	rec, err := h.svc.Create(r.Context(), CreateInput{
		TopicID:            req.TopicID,
		ContextText:        req.ContextText,
		PremiseItems:       req.PremiseItems,
		QuestionStem:       req.QuestionStem,
		Options:            req.Options,
		CorrectOptionIndex: req.CorrectOptionIndex,
		Explanation:        req.Explanation,
		Source:             req.Source,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: err.Error()})
		case errors.Is(err, ErrTopicNotFound):
			writeJSON(w, r, http.StatusNotFound, apiResponse{OK: false, Error: "topic not found"})
		default:
			writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
		}
		return
	}

	writeJSON(w, r, http.StatusCreated, apiResponse{OK: true, Data: rec})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid id"})
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			writeJSON(w, r, http.StatusNotFound, apiResponse{OK: false, Error: "question not found"})
			return
		}
		writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
		return
	}

	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: rec})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	topicIDRaw := strings.TrimSpace(r.URL.Query().Get("topic_id"))
	topicID, err := strconv.ParseInt(topicIDRaw, 10, 64)
	if err != nil || topicID <= 0 {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "topic_id is required and must be positive"})
		return
	}
	activeOnly := r.URL.Query().Get("all") != "1"

	items, err := h.svc.ListByTopic(r.Context(), topicID, activeOnly)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: err.Error()})
			return
		}
		writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
		return
	}

	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: items})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid id"})
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	rec, err := h.svc.Update(r.Context(), id, UpdateInput{
		ContextText:        req.ContextText,
		PremiseItems:       req.PremiseItems,
		QuestionStem:       req.QuestionStem,
		Options:            req.Options,
		CorrectOptionIndex: req.CorrectOptionIndex,
		Explanation:        req.Explanation,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: err.Error()})
		case errors.Is(err, ErrQuestionNotFound):
			writeJSON(w, r, http.StatusNotFound, apiResponse{OK: false, Error: "question not found"})
		default:
			writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
		}
		return
	}

	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: rec})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid id"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			writeJSON(w, r, http.StatusNotFound, apiResponse{OK: false, Error: "question not found"})
			return
		}
		writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
		return
	}

	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: map[string]any{"deleted": id}})
}

func (h *Handler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	var req importPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "text is required"})
		return
	}

	preview := h.svc.PreviewImport(req.Text)
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: preview})
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	report, err := h.svc.Import(r.Context(), req.TopicID, req.Text, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: err.Error()})
		case errors.Is(err, ErrTopicNotFound):
			writeJSON(w, r, http.StatusNotFound, apiResponse{OK: false, Error: "topic not found"})
		default:
			writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
		}
		return
	}

	writeJSON(w, r, http.StatusCreated, apiResponse{OK: true, Data: report})
}

func (h *Handler) ExportTopicExcel(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || topicID <= 0 {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid topic id"})
		return
	}

	data, err := h.svc.ExportTopicExcel(r.Context(), topicID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid topic id"})
			return
		}
		writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sorular-%d.xlsx"`, topicID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, payload apiResponse) {
	apiresp.WriteLegacy(w, r, code, payload.OK, payload.Data, payload.Error)
}
