package http

import (
	"net/http"
	"time"

	"patient-monitoring-service/internal/delivery/http/handler"
	"patient-monitoring-service/internal/delivery/http/middleware"
	"patient-monitoring-service/pkg/metrics"
	"patient-monitoring-service/pkg/response"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
)

type RateLimit struct {
	Requests int
	Window   time.Duration
}

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	healthMetricHandler *handler.HealthMetricHandler
	appointmentHandler  *handler.AppointmentHandler
	messageHandler      *handler.MessageHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	metricsMiddleware   *middleware.MetricsMiddleware
	collector           *metrics.Collector
	rateLimit           RateLimit
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	healthMetricHandler *handler.HealthMetricHandler,
	appointmentHandler *handler.AppointmentHandler,
	messageHandler *handler.MessageHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	collector *metrics.Collector,
	rateLimit RateLimit,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		userHandler:         userHandler,
		healthMetricHandler: healthMetricHandler,
		appointmentHandler:  appointmentHandler,
		messageHandler:      messageHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		metricsMiddleware:   middleware.NewMetricsMiddleware(collector),
		collector:           collector,
		rateLimit:           rateLimit,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered before route matching.
func (r *Router) Setup() http.Handler {
	r.router.Use(r.metricsMiddleware.Handle)

	if r.collector != nil {
		r.router.Handle("/metrics", r.collector.Handler()).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()
	if r.rateLimit.Requests > 0 {
		api.Use(httprate.LimitByIP(r.rateLimit.Requests, r.rateLimit.Window))
	}

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Everything below requires a bearer token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Users: static paths before /users/{id}
	protected.HandleFunc("/users/me", r.userHandler.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", r.userHandler.UpdateProfile).Methods(http.MethodPatch)
	protected.HandleFunc("/users/sync", r.userHandler.Sync).Methods(http.MethodPost)
	protected.HandleFunc("/users/professionals", r.userHandler.ListProfessionals).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", r.userHandler.GetUser).Methods(http.MethodGet)

	// Health metrics
	protected.HandleFunc("/health-metrics", r.healthMetricHandler.Record).Methods(http.MethodPost)
	protected.HandleFunc("/users/{id}/health-metrics", r.healthMetricHandler.ListByUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}/health-metrics/recent", r.healthMetricHandler.ListRecentByType).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}/health-metrics/abnormal", r.healthMetricHandler.ListAbnormal).Methods(http.MethodGet)

	// Appointments
	protected.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{id}/appointments", r.appointmentHandler.ListByPatient).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{id}/appointments", r.appointmentHandler.ListByProfessional).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}/reminder-sent", r.appointmentHandler.MarkReminderSent).Methods(http.MethodPost)

	// Messages
	protected.HandleFunc("/messages", r.messageHandler.Send).Methods(http.MethodPost)
	protected.HandleFunc("/messages/conversations", r.messageHandler.ListConversations).Methods(http.MethodGet)
	protected.HandleFunc("/messages/conversations/{userId1}/{userId2}", r.messageHandler.GetConversation).Methods(http.MethodGet)
	protected.HandleFunc("/messages/read", r.messageHandler.MarkRead).Methods(http.MethodPost)
	protected.HandleFunc("/messages/attachments", r.messageHandler.UploadAttachment).Methods(http.MethodPost)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}
