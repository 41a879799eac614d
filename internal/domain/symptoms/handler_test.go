package symptoms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubPredictor struct {
	condition string
	err       error
	gotVector []int
}

func (s *stubPredictor) Predict(ctx context.Context, vector []int) (string, error) {
	s.gotVector = vector
	return s.condition, s.err
}

func predictRequestContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/symptoms/predict", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_ListSymptoms(t *testing.T) {
	h := NewHandler(NewVectorizer(DefaultSymptoms()), nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/symptoms", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListSymptoms(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		Symptoms []string `json:"symptoms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Symptoms) != 30 {
		t.Errorf("expected 30 symptoms, got %d", len(got.Symptoms))
	}
}

func TestHandler_Predict(t *testing.T) {
	p := &stubPredictor{condition: "Common Cold"}
	h := NewHandler(NewVectorizer(DefaultSymptoms()), p)

	c, rec := predictRequestContext(`{"symptoms":["continuous_sneezing","chills","cough"]}`)
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["condition"] != "Common Cold" {
		t.Errorf("expected condition 'Common Cold', got %q", got["condition"])
	}
	if len(p.gotVector) != 30 {
		t.Errorf("expected model vector length 30, got %d", len(p.gotVector))
	}
}

func TestHandler_Predict_NoModelConfigured(t *testing.T) {
	h := NewHandler(NewVectorizer(DefaultSymptoms()), nil)

	c, rec := predictRequestContext(`{"symptoms":["cough"]}`)
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", rec.Code)
	}
}

func TestHandler_Predict_UnknownSymptom(t *testing.T) {
	h := NewHandler(NewVectorizer(DefaultSymptoms()), &stubPredictor{condition: "x"})

	c, rec := predictRequestContext(`{"symptoms":["not_a_symptom"]}`)
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Predict_ModelError(t *testing.T) {
	h := NewHandler(NewVectorizer(DefaultSymptoms()), &stubPredictor{err: errors.New("model offline")})

	c, rec := predictRequestContext(`{"symptoms":["cough"]}`)
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}
