package interfaces

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"erj-server/internal/manifest/application"
	manifest "erj-server/internal/manifest/domain"
	"erj-server/internal/manifest/infrastructure/memory"
)

type stubClock struct {
	now time.Time
}

func (c stubClock) Now() time.Time { return c.now }

func newTestHandler(t *testing.T) *ReportHandler {
	t.Helper()
	repo := memory.NewRepository()
	clock := stubClock{now: time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)}
	svc, err := application.NewReportService(repo, clock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := NewReportHandler(svc, clock, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func createReport(t *testing.T, handler *ReportHandler) manifest.Report {
	t.Helper()
	body := strings.NewReader(`{"name":"Jan Kowalski","id":"MK-104"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var report manifest.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return report
}

func TestReportCreateAndGet(t *testing.T) {
	handler := newTestHandler(t)
	report := createReport(t, handler)
	if report.Number != "001/07/03/25" {
		t.Fatalf("unexpected number: %q", report.Number)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+report.ID(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}
	var loaded manifest.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if loaded.CreatedBy.Name != "Jan Kowalski" {
		t.Fatalf("crew lost: %+v", loaded.CreatedBy)
	}
}

func TestReportGetUnknownIs404(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/missing", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestReportAddAndRemoveEntry(t *testing.T) {
	handler := newTestHandler(t)
	report := createReport(t, handler)

	body := strings.NewReader(`{"kind":"wagon","identifier":"61 51 20-70 200-9","length":"24,5","empty_mass":"38"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/"+report.ID()+"/entries", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("add entry: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var updated manifest.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(updated.Entries) != 1 || updated.Entries[0].LengthMeters != 24.5 {
		t.Fatalf("entry not coerced: %+v", updated.Entries)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/reports/"+report.ID()+"/entries/0", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("remove entry: expected 200, got %d", resp.Code)
	}

	// index now out of range
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/reports/"+report.ID()+"/entries/0", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range index, got %d", resp.Code)
	}
}

func TestReportAddEntryUnknownKindIs400(t *testing.T) {
	handler := newTestHandler(t)
	report := createReport(t, handler)
	body := strings.NewReader(`{"kind":"tender"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/"+report.ID()+"/entries", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestReportTakeoverRoute(t *testing.T) {
	handler := newTestHandler(t)
	report := createReport(t, handler)

	body := strings.NewReader(`{"metadata":{},"section_a":{"train_number":"16102"}}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reports/"+report.ID()+"/meta", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("set metadata: expected 200, got %d", resp.Code)
	}

	body = strings.NewReader(`{"train_number":"16102","name":"Anna Nowak","id":"MK-221"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/reports/takeover", body)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("takeover: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var taken manifest.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &taken); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if taken.TakenBy == nil || taken.TakenBy.ID != "MK-221" {
		t.Fatalf("takeover not stamped: %+v", taken.TakenBy)
	}
}

func TestReportExportPDFHeaders(t *testing.T) {
	handler := newTestHandler(t)
	report := createReport(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+report.ID()+"/export.pdf", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content type: %q", got)
	}
	want := `attachment; filename="` + report.ID() + `.pdf"`
	if got := resp.Header().Get("Content-Disposition"); got != want {
		t.Fatalf("content disposition: got %q, want %q", got, want)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("response is not a PDF")
	}
}

func TestReportExportHTMLEscapes(t *testing.T) {
	handler := newTestHandler(t)
	report := createReport(t, handler)

	body := strings.NewReader(`{"kind":"wagon","identifier":"<script>alert(1)</script>"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/"+report.ID()+"/entries", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("add entry: %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+report.ID()+"/export.html", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("export html: %d", resp.Code)
	}
	html := resp.Body.String()
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("raw markup leaked into html export")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatal("identifier not escaped into html export")
	}
}
