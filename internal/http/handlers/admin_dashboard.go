package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/citimaster/booking-platform/internal/leads"
	"github.com/citimaster/booking-platform/internal/vendors"
	"github.com/citimaster/booking-platform/pkg/logging"
)

// MessageCounter reports how many WhatsApp messages have been logged.
// Satisfied by messaging.Store.
type MessageCounter interface {
	CountTotal(ctx context.Context) (int, error)
}

// AdminDashboardHandler serves the operations dashboard overview.
type AdminDashboardHandler struct {
	leads    leads.Repository
	vendors  vendors.Repository
	messages MessageCounter
	logger   *logging.Logger
	now      func() time.Time
}

// NewAdminDashboardHandler creates a new admin dashboard handler.
func NewAdminDashboardHandler(leadRepo leads.Repository, vendorRepo vendors.Repository, messages MessageCounter, logger *logging.Logger) *AdminDashboardHandler {
	if leadRepo == nil {
		panic("handlers: lead repository required")
	}
	if vendorRepo == nil {
		panic("handlers: vendor repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminDashboardHandler{
		leads:    leadRepo,
		vendors:  vendorRepo,
		messages: messages,
		logger:   logger,
		now:      time.Now,
	}
}

// DashboardOverviewResponse contains the headline dashboard counters.
type DashboardOverviewResponse struct {
	TotalMessages  int    `json:"total_messages"`
	ActiveLeads    int    `json:"active_leads"`
	CompletedToday int    `json:"completed_today"`
	ActiveVendors  int    `json:"active_vendors"`
	GeneratedAt    string `json:"generated_at"`
}

// Overview handles GET /admin/dashboard.
func (h *AdminDashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.now().UTC()

	resp := DashboardOverviewResponse{GeneratedAt: now.Format(time.RFC3339)}

	activeLeads, err := h.leads.CountActive(ctx)
	if err != nil {
		h.logger.Error("dashboard: count active leads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	resp.ActiveLeads = activeLeads

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	completed, err := h.leads.CountCompletedSince(ctx, midnight)
	if err != nil {
		h.logger.Error("dashboard: count completed leads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	resp.CompletedToday = completed

	activeVendors, err := h.vendors.CountActive(ctx)
	if err != nil {
		h.logger.Error("dashboard: count active vendors", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	resp.ActiveVendors = activeVendors

	// Message volume is informational; a failure here should not blank
	// the whole dashboard.
	if h.messages != nil {
		total, err := h.messages.CountTotal(ctx)
		if err != nil {
			h.logger.Warn("dashboard: count messages", "error", err)
		} else {
			resp.TotalMessages = total
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
