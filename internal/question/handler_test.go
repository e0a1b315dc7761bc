package question

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type mockQuestionService struct {
	createFn      func(ctx context.Context, in CreateInput) (*Record, error)
	getFn         func(ctx context.Context, id int64) (*Record, error)
	listFn        func(ctx context.Context, topicID int64, activeOnly bool) ([]Record, error)
	updateFn      func(ctx context.Context, id int64, in UpdateInput) (*Record, error)
	deleteFn      func(ctx context.Context, id int64) error
	previewFn     func(text string) *ImportPreview
	importFn      func(ctx context.Context, topicID int64, text, source string) (*ImportReport, error)
	exportExcelFn func(ctx context.Context, topicID int64) ([]byte, error)
}

func (m *mockQuestionService) Create(ctx context.Context, in CreateInput) (*Record, error) {
	if m.createFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.createFn(ctx, in)
}

func (m *mockQuestionService) Get(ctx context.Context, id int64) (*Record, error) {
	if m.getFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.getFn(ctx, id)
}

func (m *mockQuestionService) ListByTopic(ctx context.Context, topicID int64, activeOnly bool) ([]Record, error) {
	if m.listFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.listFn(ctx, topicID, activeOnly)
}

func (m *mockQuestionService) Update(ctx context.Context, id int64, in UpdateInput) (*Record, error) {
	if m.updateFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.updateFn(ctx, id, in)
}

func (m *mockQuestionService) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return errors.New("not implemented")
	}
	return m.deleteFn(ctx, id)
}

func (m *mockQuestionService) PreviewImport(text string) *ImportPreview {
	if m.previewFn == nil {
		return &ImportPreview{}
	}
	return m.previewFn(text)
}

func (m *mockQuestionService) Import(ctx context.Context, topicID int64, text, source string) (*ImportReport, error) {
	if m.importFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.importFn(ctx, topicID, text, source)
}

func (m *mockQuestionService) ExportTopicExcel(ctx context.Context, topicID int64) ([]byte, error) {
	if m.exportExcelFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.exportExcelFn(ctx, topicID)
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateQuestionOK(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		createFn: func(ctx context.Context, in CreateInput) (*Record, error) {
			if in.TopicID != 3 || in.QuestionStem != "Soru?" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &Record{ID: 11, TopicID: in.TopicID, QuestionStem: in.QuestionStem, Options: in.Options, IsActive: true}, nil
		},
	}}

	payload := []byte(`{"topic_id":3,"question_stem":"Soru?","options":["Bir","Iki"],"correct_option_index":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	body := decodeMap(t, w)
	if body["ok"] != true {
		t.Fatalf("expected ok=true")
	}
}

func TestCreateQuestionTopicNotFound(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		createFn: func(ctx context.Context, in CreateInput) (*Record, error) {
			return nil, ErrTopicNotFound
		},
	}}

	payload := []byte(`{"topic_id":99,"question_stem":"Soru?","options":["Bir","Iki"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListQuestionsRequiresTopicID(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListQuestionsPassesActiveFlag(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		listFn: func(ctx context.Context, topicID int64, activeOnly bool) ([]Record, error) {
			if topicID != 5 {
				t.Fatalf("unexpected topic id: %d", topicID)
			}
			if activeOnly {
				t.Fatalf("expected activeOnly=false when all=1")
			}
			return []Record{{ID: 1, TopicID: 5}}, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions?topic_id=5&all=1", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestDeleteQuestionNotFound(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		deleteFn: func(ctx context.Context, id int64) error {
			return ErrQuestionNotFound
		},
	}}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/questions/7", nil)
	req = withParam(req, "id", "7")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPreviewImportOK(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		previewFn: func(text string) *ImportPreview {
			return &ImportPreview{BatchID: "b-1"}
		},
	}}

	payload := []byte(`{"text":"1. Soru?\nA) Bir\nB) Iki"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions/import/preview", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.PreviewImport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPreviewImportRequiresText(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{}}

	payload := []byte(`{"text":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions/import/preview", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.PreviewImport(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestImportTopicNotFound(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		importFn: func(ctx context.Context, topicID int64, text, source string) (*ImportReport, error) {
			return nil, ErrTopicNotFound
		},
	}}

	payload := []byte(`{"topic_id":99,"text":"1. Soru?\nA) Bir\nB) Iki"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions/import", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.Import(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestImportOK(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		importFn: func(ctx context.Context, topicID int64, text, source string) (*ImportReport, error) {
			if topicID != 4 || source != "2024 denemesi" {
				t.Fatalf("unexpected input: topic=%d source=%q", topicID, source)
			}
			return &ImportReport{BatchID: "b-2", TopicID: topicID, SavedRows: 2}, nil
		},
	}}

	payload := []byte(`{"topic_id":4,"text":"1. Soru?\nA) Bir\nB) Iki","source":"2024 denemesi"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions/import", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.Import(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
}

func TestExportTopicExcelHeaders(t *testing.T) {
	h := &Handler{svc: &mockQuestionService{
		exportExcelFn: func(ctx context.Context, topicID int64) ([]byte, error) {
			return []byte("PK"), nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics/5/questions/export", nil)
	req = withParam(req, "id", "5")
	w := httptest.NewRecorder()

	h.ExportTopicExcel(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Fatalf("expected content disposition header")
	}
}
