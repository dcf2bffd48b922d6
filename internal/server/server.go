package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatherly/gatherly/internal/handler"
	"github.com/gatherly/gatherly/internal/lifecycle"
	"github.com/gatherly/gatherly/internal/middleware"
	"github.com/gatherly/gatherly/internal/rsvp"
	"github.com/gatherly/gatherly/internal/store"
	ws "github.com/gatherly/gatherly/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	eventH       *handler.EventHandler
	guestH       *handler.GuestHandler
	rsvpH        *handler.RSVPHandler
	estimateH    *handler.EstimateHandler
	sessionStore *store.SessionStore
	lifecycleMgr *lifecycle.Manager
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	eventStore := store.NewEventStore(db)
	rsvpStore := store.NewRSVPStore(db)
	guestStore := store.NewGuestStore(db)
	predictionStore := store.NewPredictionStore(db)

	rsvpSvc := rsvp.NewService(eventStore, rsvpStore, logger.With("component", "rsvp"))
	lifecycleMgr := lifecycle.NewManager(eventStore, hub, logger.With("component", "lifecycle"))

	eventH := handler.NewEventHandler(eventStore, hub, logger.With("component", "event"))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		eventH:       eventH,
		guestH:       handler.NewGuestHandler(guestStore, eventH, logger.With("component", "guest")),
		rsvpH:        handler.NewRSVPHandler(rsvpSvc, eventStore, eventH, hub, logger.With("component", "rsvp_handler")),
		estimateH:    handler.NewEstimateHandler(rsvpSvc, eventStore, predictionStore, eventH, hub, logger.With("component", "estimate")),
		sessionStore: sessionStore,
		lifecycleMgr: lifecycleMgr,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// LifecycleManager returns the cutoff sweep manager.
func (s *Server) LifecycleManager() *lifecycle.Manager {
	return s.lifecycleMgr
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimited(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimited(s.authH.Login))
	outerMux.HandleFunc("GET /api/invites/{id}", s.rsvpH.Card)
	outerMux.HandleFunc("POST /api/invites/{id}/rsvp", s.rateLimited(s.rsvpH.Submit))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	limited := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)(h)
	return limited.ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Event API routes
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Lifecycle transitions — verbs, not a writable status field
	mux.HandleFunc("POST /api/events/{id}/publish", s.eventH.Publish)
	mux.HandleFunc("POST /api/events/{id}/close-survey", s.eventH.CloseSurvey)
	mux.HandleFunc("POST /api/events/{id}/complete", s.eventH.Complete)
	mux.HandleFunc("POST /api/events/{id}/override-status", s.eventH.OverrideStatus)
	mux.HandleFunc("PUT /api/events/{id}/report-paid", s.eventH.ReportPaid)

	// Menu routes
	mux.HandleFunc("POST /api/events/{id}/food-items", s.eventH.CreateFoodItem)
	mux.HandleFunc("PUT /api/events/{id}/food-items/{item_id}", s.eventH.UpdateFoodItem)
	mux.HandleFunc("DELETE /api/events/{id}/food-items/{item_id}", s.eventH.DeleteFoodItem)

	// Schedule routes
	mux.HandleFunc("POST /api/events/{id}/schedule-items", s.eventH.CreateScheduleItem)
	mux.HandleFunc("PUT /api/events/{id}/schedule-items/{item_id}", s.eventH.UpdateScheduleItem)
	mux.HandleFunc("DELETE /api/events/{id}/schedule-items/{item_id}", s.eventH.DeleteScheduleItem)

	// Guest roster routes
	mux.HandleFunc("POST /api/events/{id}/guests", s.guestH.Create)
	mux.HandleFunc("GET /api/events/{id}/guests", s.guestH.List)
	mux.HandleFunc("PUT /api/events/{id}/guests/{guest_id}", s.guestH.Update)
	mux.HandleFunc("DELETE /api/events/{id}/guests/{guest_id}", s.guestH.Delete)

	// Summary, responses, estimates
	mux.HandleFunc("GET /api/events/{id}/summary", s.rsvpH.Summary)
	mux.HandleFunc("GET /api/events/{id}/responses", s.rsvpH.Responses)
	mux.HandleFunc("GET /api/events/{id}/estimate", s.estimateH.Live)
	mux.HandleFunc("POST /api/events/{id}/predictions", s.estimateH.CreatePrediction)
	mux.HandleFunc("GET /api/events/{id}/predictions", s.estimateH.ListPredictions)

	// Manual cutoff sweep; same pass the scheduler runs
	mux.HandleFunc("POST /api/sweep-cutoffs", s.sweepHandler)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}

func (s *Server) sweepHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.lifecycleMgr.AdvanceCutoffEvents(time.Now())
	if err != nil {
		s.logger.Error("manual sweep", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
