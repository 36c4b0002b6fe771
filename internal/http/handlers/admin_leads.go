package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/citimaster/booking-platform/internal/leads"
	"github.com/citimaster/booking-platform/pkg/logging"
)

const defaultLeadsLimit = 20

// AdminLeadsHandler serves lead listings for the operations dashboard.
type AdminLeadsHandler struct {
	leads  leads.Repository
	logger *logging.Logger
}

// NewAdminLeadsHandler creates a new admin leads handler.
func NewAdminLeadsHandler(leadRepo leads.Repository, logger *logging.Logger) *AdminLeadsHandler {
	if leadRepo == nil {
		panic("handlers: lead repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLeadsHandler{leads: leadRepo, logger: logger}
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID          string `json:"id"`
	Phone       string `json:"phone"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Street      string `json:"street"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Slot        string `json:"slot,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// LeadsListResponse wraps a lead listing.
type LeadsListResponse struct {
	Leads []LeadResponse `json:"leads"`
	Count int            `json:"count"`
}

// List handles GET /admin/leads?limit=N.
func (h *AdminLeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeadsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	items, err := h.leads.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("admin leads: list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	resp := LeadsListResponse{Leads: make([]LeadResponse, 0, len(items)), Count: len(items)}
	for i := range items {
		resp.Leads = append(resp.Leads, toLeadResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /admin/leads/{leadID}.
func (h *AdminLeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	lead, err := h.leads.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, leads.ErrLeadNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		h.logger.Error("admin leads: get", "lead_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load lead")
		return
	}
	writeJSON(w, http.StatusOK, toLeadResponse(lead))
}

// UpdateStatusRequest carries a lead status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/leads/{leadID}/status.
func (h *AdminLeadsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validLeadStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.leads.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, leads.ErrLeadNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		h.logger.Error("admin leads: update status", "lead_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update lead")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func validLeadStatus(status string) bool {
	switch status {
	case leads.StatusPending, leads.StatusAssigned, leads.StatusAccepted,
		leads.StatusCompleted, leads.StatusCancelled:
		return true
	}
	return false
}

func toLeadResponse(l *leads.Lead) LeadResponse {
	return LeadResponse{
		ID:          l.ID,
		Phone:       l.Phone,
		Category:    l.Category,
		Subcategory: l.Subcategory,
		Street:      l.Address.Street,
		City:        l.Address.City,
		PostalCode:  l.Address.PostalCode,
		Slot:        l.Slot,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
