package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/citimaster/booking-platform/internal/http/handlers"
	httpmiddleware "github.com/citimaster/booking-platform/internal/http/middleware"
	"github.com/citimaster/booking-platform/internal/messaging"
	"github.com/citimaster/booking-platform/pkg/logging"
)

// Webhook traffic is bursty but bounded; WhatsApp retries on 429.
const (
	defaultWebhookRate  = 20.0
	defaultWebhookBurst = 40
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	Webhook         *messaging.WebhookHandler
	AdminDashboard  *handlers.AdminDashboardHandler
	AdminLeads      *handlers.AdminLeadsHandler
	AdminCallbacks  *handlers.AdminCallbacksHandler
	AdminAuthSecret string
	MetricsHandler  http.Handler

	CORSAllowedOrigins []string

	// Zero values fall back to the defaults above.
	WebhookRate  float64
	WebhookBurst int
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	rate := cfg.WebhookRate
	if rate <= 0 {
		rate = defaultWebhookRate
	}
	burst := cfg.WebhookBurst
	if burst <= 0 {
		burst = defaultWebhookBurst
	}

	r.Get("/health", healthCheck)

	if cfg.Webhook != nil {
		r.Get("/webhook", cfg.Webhook.Verify)
		r.With(httpmiddleware.RateLimit(rate, burst)).Post("/webhook", cfg.Webhook.Receive)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.AdminDashboard != nil {
				admin.Get("/dashboard", cfg.AdminDashboard.Overview)
			}
			if cfg.AdminLeads != nil {
				admin.Get("/leads", cfg.AdminLeads.List)
				admin.Get("/leads/{leadID}", cfg.AdminLeads.Get)
				admin.Patch("/leads/{leadID}/status", cfg.AdminLeads.UpdateStatus)
			}
			if cfg.AdminCallbacks != nil {
				admin.Get("/callbacks", cfg.AdminCallbacks.List)
				admin.Patch("/callbacks/{callbackID}/status", cfg.AdminCallbacks.UpdateStatus)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
