package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/citimaster/booking-platform/internal/support"
	"github.com/citimaster/booking-platform/pkg/logging"
)

const defaultCallbacksLimit = 20

// AdminCallbacksHandler serves the human-callback queue for support
// agents.
type AdminCallbacksHandler struct {
	callbacks support.Repository
	logger    *logging.Logger
}

// NewAdminCallbacksHandler creates a new admin callbacks handler.
func NewAdminCallbacksHandler(callbacks support.Repository, logger *logging.Logger) *AdminCallbacksHandler {
	if callbacks == nil {
		panic("handlers: callback repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminCallbacksHandler{callbacks: callbacks, logger: logger}
}

// CallbackResponse represents a callback request in API responses.
type CallbackResponse struct {
	ID        string              `json:"id"`
	Phone     string              `json:"phone"`
	Email     string              `json:"email,omitempty"`
	Message   string              `json:"message,omitempty"`
	History   []support.ChatEntry `json:"history,omitempty"`
	Status    string              `json:"status"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

// CallbacksListResponse wraps a callback-request listing.
type CallbacksListResponse struct {
	Callbacks []CallbackResponse `json:"callbacks"`
	Count     int                `json:"count"`
}

// List handles GET /admin/callbacks?limit=N.
func (h *AdminCallbacksHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultCallbacksLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	items, err := h.callbacks.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("admin callbacks: list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list callback requests")
		return
	}

	resp := CallbacksListResponse{Callbacks: make([]CallbackResponse, 0, len(items)), Count: len(items)}
	for i := range items {
		resp.Callbacks = append(resp.Callbacks, toCallbackResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /admin/callbacks/{callbackID}/status.
func (h *AdminCallbacksHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "callbackID")
	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.callbacks.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, support.ErrCallbackNotFound):
			writeError(w, http.StatusNotFound, "callback request not found")
		case errors.Is(err, support.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "invalid status")
		default:
			h.logger.Error("admin callbacks: update status", "callback_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update callback request")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func toCallbackResponse(c *support.CallbackRequest) CallbackResponse {
	return CallbackResponse{
		ID:        c.ID,
		Phone:     c.Phone,
		Email:     c.Email,
		Message:   c.Message,
		History:   c.History,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
