package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ac-advisor/internal/analytics"
	"ac-advisor/internal/storage"
)

const dateLayout = "2006-01-02"

// Counter reports a current size, e.g. catalog models or open sessions.
type Counter interface {
	Len() int
}

// Service is the read-only operational API of the bot process.
type Service struct {
	catalog  Counter
	sessions Counter
	stats    storage.Loader
	now      func() time.Time
}

// NewService builds the API. stats may be nil, then /stats answers 503.
func NewService(catalog, sessions Counter, stats storage.Loader) *Service {
	return &Service{catalog: catalog, sessions: sessions, stats: stats, now: time.Now}
}

// RegisterRoutes wires the HTTP routes.
func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)
}

// Router returns a new router with all routes registered.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	s.RegisterRoutes(r)
	return r
}

type healthResponse struct {
	Status         string `json:"status"`
	CatalogModels  int    `json:"catalog_models"`
	ActiveSessions int    `json:"active_sessions"`
}

func (s *Service) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.catalog != nil {
		resp.CatalogModels = s.catalog.Len()
	}
	if s.sessions != nil {
		resp.ActiveSessions = s.sessions.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) statsHandler(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		http.Error(w, "calculation log is not configured", http.StatusServiceUnavailable)
		return
	}
	day := s.now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	calcs, err := s.stats.LoadCalculations(ctx)
	if err != nil {
		log.Printf("stats: failed to load calculations: %v", err)
		http.Error(w, "failed to load calculations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, analytics.AnalyzeDaily(calcs, day))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
