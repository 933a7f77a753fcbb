// Package api provides the HTTP API server for ReadyDay.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readyday/readyday/internal/briefing"
	"github.com/readyday/readyday/internal/calendar"
	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/logging"
	"github.com/readyday/readyday/internal/storage"
	"github.com/readyday/readyday/internal/whoop"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	hub        *Hub
	logger     *logging.Logger

	briefings *briefing.Service
	windows   *briefing.WindowFinder
	whoopRepo *whoop.Repository
	calSource *calendar.Source
	users     *storage.UserStore

	whoopOAuth  *whoop.OAuthClient
	googleOAuth *calendar.OAuthClient
}

// Config for the server
type Config struct {
	Host string
	Port int

	BriefingService *briefing.Service
	WindowFinder    *briefing.WindowFinder
	WhoopRepo       *whoop.Repository
	CalendarSource  *calendar.Source
	UserStore       *storage.UserStore
	WhoopOAuth      *whoop.OAuthClient
	GoogleOAuth     *calendar.OAuthClient
}

// New creates a new API server
func New(cfg Config) *Server {
	s := &Server{
		hub:         NewHub(),
		logger:      logging.WithField("component", "api"),
		briefings:   cfg.BriefingService,
		windows:     cfg.WindowFinder,
		whoopRepo:   cfg.WhoopRepo,
		calSource:   cfg.CalendarSource,
		users:       cfg.UserStore,
		whoopOAuth:  cfg.WhoopOAuth,
		googleOAuth: cfg.GoogleOAuth,
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: s.router,
	}

	return s
}

// Hub returns the websocket hub for briefing-ready pushes.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.hub.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/briefing", s.handleGetBriefing)
		r.Post("/sync", s.handleSync)
		r.Post("/events/classify", s.handleClassify)
		r.Get("/windows", s.handleGetWindows)
		r.Get("/trends/recovery", s.handleRecoveryTrend)
		r.Get("/trends/sleep", s.handleSleepTrend)
		r.Get("/status", s.handleStatus)

		r.Route("/oauth", func(r chi.Router) {
			r.Get("/whoop/url", s.handleWhoopAuthURL)
			r.Get("/whoop/callback", s.handleWhoopCallback)
			r.Get("/google/url", s.handleGoogleAuthURL)
			r.Get("/google/callback", s.handleGoogleCallback)
		})
	})

	s.router = r
}

// Start runs the server. Blocks until shutdown.
func (s *Server) Start() error {
	go s.hub.Run()

	s.logger.WithField("addr", s.httpServer.Addr).Info("API server starting")
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

func (s *Server) handleGetBriefing(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	b, err := s.briefings.Load(r.Context(), date)
	if err != nil {
		s.respondError(w, briefingStatus(err), err.Error())
		return
	}

	s.hub.Broadcast("briefing.ready", map[string]interface{}{
		"date":          b.Date.Format("2006-01-02"),
		"recovery_zone": b.RecoveryZone,
	})

	s.respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		s.respondError(w, http.StatusNotFound, "no user configured, run readyday init")
		return
	}

	result, err := s.whoopRepo.Sync(r.Context(), userID)
	if err != nil {
		s.respondError(w, briefingStatus(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var events []core.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	classified := briefing.ClassifyAll(events)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": classified,
		"load":   briefing.CalculateLoad(classified),
	})
}

func (s *Server) handleGetWindows(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	zone := core.RecoveryZone(r.URL.Query().Get("zone"))
	switch zone {
	case core.ZoneGreen, core.ZoneYellow, core.ZoneRed, core.ZoneUnknown:
	case "":
		zone = core.ZoneUnknown
	default:
		s.respondError(w, http.StatusBadRequest, "invalid zone")
		return
	}

	windows, err := s.windows.FindWindows(r.Context(), date, zone)
	if err != nil {
		s.respondError(w, briefingStatus(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"zone":    zone,
		"windows": windows,
	})
}

func (s *Server) handleRecoveryTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		s.respondError(w, http.StatusNotFound, "no user configured")
		return
	}

	days := queryDays(r, 7)
	trend, err := s.whoopRepo.RecoveryTrend(userID, days)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":    days,
		"records": trend,
	})
}

func (s *Server) handleSleepTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.users.CurrentUserID()
	if !ok {
		s.respondError(w, http.StatusNotFound, "no user configured")
		return
	}

	days := queryDays(r, 7)
	trend, err := s.whoopRepo.SleepTrend(userID, days)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":    days,
		"records": trend,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get()
	name := ""
	if err == nil {
		name = user.Name
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":               name,
		"whoop_connected":    s.whoopRepo.Connected(),
		"calendar_connected": s.calSource.Connected(),
		"ws_clients":         s.hub.ClientCount(),
	})
}

func queryDays(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 90 {
		return fallback
	}
	return days
}

// briefingStatus maps engine errors to HTTP status codes.
func briefingStatus(err error) int {
	switch {
	case isAny(err, core.ErrNoRecoveryData, core.ErrNoSleepData, core.ErrUserNotFound, core.ErrNoCredentials):
		return http.StatusNotFound
	case isAny(err, core.ErrTokenExpired, core.ErrTokenRefreshFailed, core.ErrCalendarAccessDenied):
		return http.StatusUnauthorized
	case isAny(err, core.ErrCalendarAccessRestricted):
		return http.StatusForbidden
	case isAny(err, core.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
