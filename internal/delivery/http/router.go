package http

import (
	"net/http"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http/handler"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http/middleware"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	patientHandler     *handler.PatientHandler
	dentistHandler     *handler.DentistHandler
	treatmentHandler   *handler.TreatmentHandler
	auditLogHandler    *handler.AuditLogHandler
	healthHandler      *handler.HealthHandler
	metrics            *service.MetricsService
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	metricsMiddleware  *middleware.MetricsMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	patientHandler *handler.PatientHandler,
	dentistHandler *handler.DentistHandler,
	treatmentHandler *handler.TreatmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	healthHandler *handler.HealthHandler,
	metrics *service.MetricsService,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		patientHandler:     patientHandler,
		dentistHandler:     dentistHandler,
		treatmentHandler:   treatmentHandler,
		auditLogHandler:    auditLogHandler,
		healthHandler:      healthHandler,
		metrics:            metrics,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		metricsMiddleware:  metricsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)
	api.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Scheduling (any staff)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(middleware.RequireStaff)
	appointments.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/check-conflict", r.appointmentHandler.CheckConflict).Methods(http.MethodPost)
	appointments.HandleFunc("/availability", r.appointmentHandler.GetAvailability).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)

	// Patient records (admin, receptionist)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireFrontDesk)
	patients.HandleFunc("", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	patients.HandleFunc("", r.patientHandler.GetAllPatients).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)

	// Catalog reads (any staff)
	staff := api.NewRoute().Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)
	staff.HandleFunc("/dentists", r.dentistHandler.GetAllDentists).Methods(http.MethodGet)
	staff.HandleFunc("/dentists/{id}", r.dentistHandler.GetDentist).Methods(http.MethodGet)
	staff.HandleFunc("/treatments", r.treatmentHandler.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/treatments/{id}", r.treatmentHandler.GetByID).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/staff", r.authHandler.CreateStaff).Methods(http.MethodPost)
	admin.HandleFunc("/dentists/{id}", r.dentistHandler.UpdateDentist).Methods(http.MethodPut)
	admin.HandleFunc("/treatments", r.treatmentHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/treatments/{id}", r.treatmentHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/treatments/{id}", r.treatmentHandler.Deactivate).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.metricsMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}
