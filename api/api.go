// Package api exposes the record store, the importer and the analytics
// engine over HTTP. Responses use a {success, ...} JSON envelope.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/events"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/store"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	store     *store.Store
	engine    *engine.Engine
	events    *events.Logger
	logger    *slog.Logger
	maxUpload int64
}

// New creates a Server. A nil logger falls back to slog.Default.
func New(st *store.Store, eng *engine.Engine, ev *events.Logger, cfg *Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Server{
		store:     st,
		engine:    eng,
		events:    ev,
		logger:    logger,
		maxUpload: cfg.MaxUploadBytes(),
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.handleListCustomers)
			r.Post("/", s.handleAddCustomer)
			r.Put("/{id}", s.handleUpdateCustomer)
			r.Delete("/{id}", s.handleDeleteCustomer)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", s.handleListPurchases)
			r.Post("/", s.handleAddPurchase)
		})

		r.Get("/predictions/{customerID}", s.handlePredictions)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/peak-times", s.handlePeakTimes)
			r.Get("/top-customers", s.handleTopCustomers)
			r.Get("/recent-activity", s.handleRecentActivity)
			r.Get("/overview", s.handleOverview)
		})

		r.Route("/import", func(r chi.Router) {
			r.Post("/excel", s.handleImportExcel)
			r.Post("/database", s.handleImportDatabase)
			r.Post("/test-connection", s.handleTestConnection)
			r.Get("/sample-format", s.handleSampleFormat)
		})
	})

	return r
}

// jsonOK writes a success envelope merged with the given fields.
func jsonOK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func jsonErr(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// queryLimit reads a positive ?limit= parameter, falling back to def.
func queryLimit(r *http.Request, def int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return def
}

// pathID parses a numeric URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
