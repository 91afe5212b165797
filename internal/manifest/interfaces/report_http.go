package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"erj-server/internal/audit"
	"erj-server/internal/auth"
	"erj-server/internal/manifest/application"
	manifest "erj-server/internal/manifest/domain"
	"erj-server/internal/observability/metrics"
	"erj-server/internal/render"
)

// ReportHandler handles train-composition report APIs.
type ReportHandler struct {
	service     *application.ReportService
	clock       application.Clock
	auditLogger audit.Logger
}

// NewReportHandler constructs a handler.
func NewReportHandler(service *application.ReportService, clock application.Clock, auditLogger audit.Logger) (*ReportHandler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	if clock == nil {
		return nil, errors.New("report handler: nil clock")
	}
	return &ReportHandler{service: service, clock: clock, auditLogger: auditLogger}, nil
}

// ServeHTTP handles report routes under /api/v1/reports.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/reports" {
		switch r.Method {
		case http.MethodPost:
			h.handleCreate(w, r)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if path == "/api/v1/reports/takeover" && r.Method == http.MethodPost {
		h.handleTakeover(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/reports/") {
		rest := strings.TrimPrefix(path, "/api/v1/reports/")
		h.handleByID(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *ReportHandler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGet(w, r, id)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "entries":
			if r.Method == http.MethodPost {
				h.handleAddEntry(w, r, id)
				return
			}
		case "analyze":
			if r.Method == http.MethodPost {
				h.handleAnalyze(w, r, id)
				return
			}
		case "meta":
			if r.Method == http.MethodPut {
				h.handleSetMetadata(w, r, id)
				return
			}
		case "export.pdf":
			if r.Method == http.MethodGet {
				h.handleExportPDF(w, r, id)
				return
			}
		case "export.xlsx":
			if r.Method == http.MethodGet {
				h.handleExportXLSX(w, r, id)
				return
			}
		case "export.html":
			if r.Method == http.MethodGet {
				h.handleExportHTML(w, r, id)
				return
			}
		}
	}
	if len(parts) == 3 && parts[1] == "entries" {
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			http.Error(w, "invalid entry index", http.StatusBadRequest)
			return
		}
		if r.Method == http.MethodDelete {
			h.handleRemoveEntry(w, r, id, index)
			return
		}
	}
	if len(parts) == 4 && parts[1] == "entries" && parts[3] == "notes" && r.Method == http.MethodPatch {
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			http.Error(w, "invalid entry index", http.StatusBadRequest)
			return
		}
		h.handleUpdateNotes(w, r, id, index)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *ReportHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	crew := h.crewFromRequest(r, req.Name, req.ID)
	report, err := h.service.Create(r.Context(), crew)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(report)
	h.logAudit(r, report.ID(), "report.create", map[string]any{"number": report.Number})
}

func (h *ReportHandler) handleList(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reports)
}

func (h *ReportHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	report, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (h *ReportHandler) handleAddEntry(w http.ResponseWriter, r *http.Request, id string) {
	var input application.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	report, err := h.service.AddEntry(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
	h.logAudit(r, report.ID(), "report.entry.add", map[string]any{
		"kind":       input.Kind,
		"identifier": input.Identifier,
	})
}

func (h *ReportHandler) handleRemoveEntry(w http.ResponseWriter, r *http.Request, id string, index int) {
	report, err := h.service.RemoveEntry(r.Context(), id, index)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
	h.logAudit(r, report.ID(), "report.entry.remove", map[string]any{"index": index})
}

func (h *ReportHandler) handleUpdateNotes(w http.ResponseWriter, r *http.Request, id string, index int) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	report, err := h.service.UpdateEntryNotes(r.Context(), id, index, req.Notes)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func (h *ReportHandler) handleAnalyze(w http.ResponseWriter, r *http.Request, id string) {
	analysis, err := h.service.Analyze(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(analysis)
}

func (h *ReportHandler) handleSetMetadata(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Metadata manifest.ManifestMetadata `json:"metadata"`
		SectionA manifest.SectionA         `json:"section_a"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	report, err := h.service.SetMetadata(r.Context(), id, req.Metadata, req.SectionA)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
	h.logAudit(r, report.ID(), "report.metadata.set", map[string]any{
		"train_number": report.SectionA.TrainNumber,
	})
}

func (h *ReportHandler) handleTakeover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrainNumber string `json:"train_number"`
		Date        string `json:"date"`
		Name        string `json:"name"`
		ID          string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	crew := h.crewFromRequest(r, req.Name, req.ID)
	report, err := h.service.TakeOver(r.Context(), req.TrainNumber, req.Date, crew)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
	h.logAudit(r, report.ID(), "report.takeover", map[string]any{
		"train_number": req.TrainNumber,
		"date":         req.Date,
	})
}

func (h *ReportHandler) handleExportPDF(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("pdf", result, time.Since(start))
	}()

	report, err := h.service.Get(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	doc := BuildR7Document(report, h.clock.Now())
	data, err := render.BuildPDF(doc)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.ID()+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, report.ID(), "report.export", map[string]any{"format": "pdf"})
}

func (h *ReportHandler) handleExportXLSX(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("xlsx", result, time.Since(start))
	}()

	report, err := h.service.Get(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	doc := BuildR7Document(report, h.clock.Now())
	data, err := render.BuildXLSX(doc)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export xlsx error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.ID()+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, report.ID(), "report.export", map[string]any{"format": "xlsx"})
}

func (h *ReportHandler) handleExportHTML(w http.ResponseWriter, r *http.Request, id string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport("html", result, time.Since(start))
	}()

	report, err := h.service.Get(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	doc := BuildR7Document(report, h.clock.Now())
	page := render.WriteHTML(doc)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
	h.logAudit(r, report.ID(), "report.export", map[string]any{"format": "html"})
}

// crewFromRequest prefers an explicit crew from the request body and falls
// back to the authenticated identity.
func (h *ReportHandler) crewFromRequest(r *http.Request, name, id string) manifest.Crew {
	crew := manifest.Crew{Name: strings.TrimSpace(name), ID: strings.TrimSpace(id)}
	if crew.Name == "" {
		crew.Name = auth.NameFromContext(r.Context())
	}
	if crew.ID == "" {
		crew.ID = auth.SubjectFromContext(r.Context())
	}
	return crew
}

func (h *ReportHandler) logAudit(r *http.Request, reportID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: audit.ResourceReport,
		ResourceID:   reportID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, manifest.ErrReportNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, manifest.ErrInvalidIndex),
		errors.Is(err, manifest.ErrInvalidVehicleKind),
		errors.Is(err, manifest.ErrEmptyReportID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
