package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"erj-server/internal/audit"
	"erj-server/internal/auth"
	discounts "erj-server/internal/discounts/domain"
)

// DiscountHandler handles the fare-discount registry APIs.
type DiscountHandler struct {
	store       discounts.Store
	auditLogger audit.Logger
}

// NewDiscountHandler constructs a handler.
func NewDiscountHandler(store discounts.Store, auditLogger audit.Logger) (*DiscountHandler, error) {
	if store == nil {
		return nil, errors.New("discount handler: nil store")
	}
	return &DiscountHandler{store: store, auditLogger: auditLogger}, nil
}

// ServeHTTP handles registry routes under /api/v1/discounts.
func (h *DiscountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/discounts" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleUpsert(w, r)
		case http.MethodPut:
			h.handleReplace(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if path == "/api/v1/discounts/reset" && r.Method == http.MethodPost {
		h.handleReset(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/discounts/") && r.Method == http.MethodGet {
		h.handleGet(w, r, strings.TrimPrefix(path, "/api/v1/discounts/"))
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *DiscountHandler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

func (h *DiscountHandler) handleGet(w http.ResponseWriter, r *http.Request, code string) {
	entry, err := h.store.Get(r.Context(), code)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entry)
}

func (h *DiscountHandler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var entry discounts.Discount
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.store.Upsert(r.Context(), entry); err != nil {
		respondStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entry)
	h.logAudit(r, entry.Code, "discount.upsert", map[string]any{"kind": string(entry.Kind)})
}

func (h *DiscountHandler) handleReplace(w http.ResponseWriter, r *http.Request) {
	var entries []discounts.Discount
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.store.Replace(r.Context(), entries); err != nil {
		respondStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
	h.logAudit(r, "", "discount.replace", map[string]any{"count": len(entries)})
}

func (h *DiscountHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Reset(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
	h.logAudit(r, "", "discount.reset", nil)
}

func (h *DiscountHandler) logAudit(r *http.Request, code, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: audit.ResourceDiscount,
		ResourceID:   code,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondStoreError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, discounts.ErrDiscountNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, discounts.ErrEmptyCode), errors.Is(err, discounts.ErrInvalidKind):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
