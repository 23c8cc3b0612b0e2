package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/config"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/handler"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/media"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/middleware"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/push"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/storage"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/store"
	ws "github.com/aipeeri/all-in-one-planner-frchtg/internal/websocket"
)

type Server struct {
	hub           *ws.Hub
	authH         *handler.AuthHandler
	folderH       *handler.FolderHandler
	noteH         *handler.NoteHandler
	mediaH        *handler.MediaHandler
	appointmentH  *handler.AppointmentHandler
	dietH         *handler.DietHandler
	dietPlanH     *handler.DietPlanHandler
	calendarH     *handler.CalendarHandler
	pushH         *handler.PushHandler
	sessionStore  *store.SessionStore
	rateLimiter   *middleware.RateLimiter
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

// New wires stores, services and handlers. blobs may be nil, in which case
// the media routes are not registered. Push routes and the reminder
// scheduler exist only when VAPID keys are configured.
func New(db *sql.DB, cfg *config.Config, blobs storage.Blob, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger)

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	folderStore := store.NewFolderStore(db)
	noteStore := store.NewNoteStore(db)
	mediaStore := store.NewMediaStore(db)
	appointmentStore := store.NewAppointmentStore(db)
	dietStore := store.NewDietEntryStore(db)
	planStore := store.NewDietPlanStore(db)

	var mediaSvc *media.Service
	var mediaH *handler.MediaHandler
	var purger handler.MediaPurger
	if blobs != nil {
		mediaSvc = media.NewService(noteStore, mediaStore, blobs, cfg.MediaURLTTL, logger)
		mediaH = handler.NewMediaHandler(mediaSvc, hub, logger.With("component", "media_handler"))
		purger = mediaSvc
	}

	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.VAPID.Enabled() {
		pushSt := store.NewPushStore(db)
		pushSvc := push.NewService(cfg.VAPID.PublicKey, cfg.VAPID.PrivateKey, cfg.VAPID.Subject)
		pushSched = push.NewScheduler(pushSvc, pushSt, appointmentStore, logger)
		pushH = handler.NewPushHandler(pushSt, pushSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, sessionStore, cfg.SessionTTL, logger.With("component", "auth")),
		folderH:       handler.NewFolderHandler(folderStore, mediaStore, purger, hub, logger.With("component", "folder")),
		noteH:         handler.NewNoteHandler(noteStore, mediaStore, purger, hub, logger.With("component", "note")),
		mediaH:        mediaH,
		appointmentH:  handler.NewAppointmentHandler(appointmentStore, hub, logger.With("component", "appointment")),
		dietH:         handler.NewDietHandler(dietStore, hub, logger.With("component", "diet")),
		dietPlanH:     handler.NewDietPlanHandler(planStore, hub, logger.With("component", "diet_plan")),
		calendarH:     handler.NewCalendarHandler(calendar.NewService(appointmentStore, dietStore), logger.With("component", "calendar")),
		pushH:         pushH,
		sessionStore:  sessionStore,
		rateLimiter:   middleware.NewRateLimiter(),
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// PushScheduler returns the reminder scheduler, or nil when push is off.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	authLimit := s.rateLimiter.Limit(middleware.AuthPolicy)
	outerMux.Handle("POST /api/auth/register", authLimit(http.HandlerFunc(s.authH.Register)))
	outerMux.Handle("POST /api/auth/login", authLimit(http.HandlerFunc(s.authH.Login)))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
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

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	mux.Handle("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Folders
	mux.HandleFunc("GET /api/folders", s.folderH.List)
	mux.HandleFunc("POST /api/folders", s.folderH.Create)
	mux.HandleFunc("GET /api/folders/{id}", s.folderH.Get)
	mux.HandleFunc("PUT /api/folders/{id}", s.folderH.Update)
	mux.HandleFunc("DELETE /api/folders/{id}", s.folderH.Delete)

	// Notes
	mux.HandleFunc("GET /api/notes", s.noteH.List)
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("GET /api/notes/{id}", s.noteH.Get)
	mux.HandleFunc("PUT /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)

	// Note media
	if s.mediaH != nil {
		uploadLimit := s.rateLimiter.Limit(middleware.UploadPolicy)
		mux.Handle("POST /api/notes/{noteId}/media", uploadLimit(http.HandlerFunc(s.mediaH.Upload)))
		mux.HandleFunc("GET /api/notes/{noteId}/media", s.mediaH.List)
		mux.HandleFunc("DELETE /api/media/{mediaId}", s.mediaH.Delete)
	}

	// Appointments
	mux.HandleFunc("GET /api/appointments", s.appointmentH.List)
	mux.HandleFunc("POST /api/appointments", s.appointmentH.Create)
	mux.HandleFunc("GET /api/appointments/{id}", s.appointmentH.Get)
	mux.HandleFunc("PUT /api/appointments/{id}", s.appointmentH.Update)
	mux.HandleFunc("DELETE /api/appointments/{id}", s.appointmentH.Delete)

	// Diet entries
	mux.HandleFunc("GET /api/diet", s.dietH.List)
	mux.HandleFunc("POST /api/diet", s.dietH.Create)
	mux.HandleFunc("GET /api/diet/{id}", s.dietH.Get)
	mux.HandleFunc("PUT /api/diet/{id}", s.dietH.Update)
	mux.HandleFunc("DELETE /api/diet/{id}", s.dietH.Delete)

	// Diet plans
	mux.HandleFunc("GET /api/diet-plans", s.dietPlanH.List)
	mux.HandleFunc("POST /api/diet-plans", s.dietPlanH.Create)
	mux.HandleFunc("GET /api/diet-plans/active", s.dietPlanH.Active)
	mux.HandleFunc("GET /api/diet-plans/{id}", s.dietPlanH.Get)
	mux.HandleFunc("PUT /api/diet-plans/{id}", s.dietPlanH.Update)
	mux.HandleFunc("DELETE /api/diet-plans/{id}", s.dietPlanH.Delete)

	// Calendar
	mux.HandleFunc("GET /api/calendar/events", s.calendarH.Events)
	mux.HandleFunc("GET /api/calendar/day/{date}", s.calendarH.Day)
	mux.HandleFunc("GET /api/calendar/month/{yearMonth}", s.calendarH.Month)

	// Push notification API routes
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	}
}
