package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"horaire/internal/config"
	"horaire/internal/ics"
	appLog "horaire/internal/log"
)

// RefreshFunc produces a fresh calendar: the serialized ICS text, the
// download file name and the number of events it contains.
type RefreshFunc func(ctx context.Context) (calendar []byte, fileName string, events int, err error)

// Server serves the most recently scraped calendar over HTTP.
type Server struct {
	cfg     *config.Config
	refresh RefreshFunc
	mux     *http.ServeMux

	mu        sync.RWMutex
	calendar  []byte
	fileName  string
	events    int
	updatedAt time.Time
}

// NewServer constructs a Server. refresh is invoked at startup and on
// every cron tick.
func NewServer(cfg *config.Config, refresh RefreshFunc) *Server {
	s := &Server{
		cfg:     cfg,
		refresh: refresh,
		mux:     http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/schedule.ics", s.handleCalendar)
	s.mux.HandleFunc("/api/status", s.handleStatus)
}

// Handler returns the http.Handler, wrapped with basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Treat empty username or password as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware protects every route except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="horaire", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Refresh runs the scrape pipeline once and swaps in the result. On
// failure the last good calendar stays served.
func (s *Server) Refresh(ctx context.Context) error {
	calendar, fileName, events, err := s.refresh(ctx)
	if err != nil {
		appLog.Error("refresh failed, keeping last calendar", err)
		return err
	}

	s.mu.Lock()
	s.calendar = calendar
	s.fileName = fileName
	s.events = events
	s.updatedAt = time.Now()
	s.mu.Unlock()

	appLog.Info("calendar refreshed", "events", events, "file_name", fileName)
	return nil
}

// StartCron schedules periodic refreshes per cfg.RefreshCron and stops
// them when ctx is canceled.
func (s *Server) StartCron(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(s.cfg.RefreshCron, func() {
		if err := s.Refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	calendar, fileName := s.calendar, s.fileName
	s.mu.RUnlock()

	if len(calendar) == 0 {
		http.Error(w, "no calendar scraped yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", ics.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(calendar)
}

type statusResponse struct {
	Events    int        `json:"events"`
	FileName  string     `json:"file_name"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	resp := statusResponse{Events: s.events, FileName: s.fileName}
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		resp.UpdatedAt = &t
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
