package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	discounts "erj-server/internal/discounts/domain"
	"erj-server/internal/discounts/infrastructure/memory"
)

func newTestDiscountHandler(t *testing.T) *DiscountHandler {
	t.Helper()
	handler, err := NewDiscountHandler(memory.NewStore(), nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func TestDiscountListReturnsSeed(t *testing.T) {
	handler := newTestDiscountHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/discounts", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var entries []discounts.Discount
	if err := json.Unmarshal(resp.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 5 || entries[0].Code != "U50" {
		t.Fatalf("unexpected registry: %+v", entries)
	}
}

func TestDiscountUpsertAndGet(t *testing.T) {
	handler := newTestDiscountHandler(t)
	body := strings.NewReader(`{"code":"SEN","name":"Seniorzy","kind":"percent","value":"30"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("upsert: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/discounts/SEN", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}
	var entry discounts.Discount
	if err := json.Unmarshal(resp.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Value != "30" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestDiscountUpsertInvalidKindIs400(t *testing.T) {
	handler := newTestDiscountHandler(t)
	body := strings.NewReader(`{"code":"X","kind":"half"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDiscountGetUnknownIs404(t *testing.T) {
	handler := newTestDiscountHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/discounts/NOPE", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDiscountResetAfterReplace(t *testing.T) {
	handler := newTestDiscountHandler(t)
	body := strings.NewReader(`[{"code":"ONLY","kind":"fixed","value":"x"}]`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/discounts", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("replace: expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/discounts/reset", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", resp.Code)
	}
	var entries []discounts.Discount
	if err := json.Unmarshal(resp.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("seed not restored: %d entries", len(entries))
	}
}
