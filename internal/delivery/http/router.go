package http

import (
	"net/http"
	"time"

	"hospital-booking/internal/delivery/http/handler"
	"hospital-booking/internal/delivery/http/middleware"
	"hospital-booking/pkg/metrics"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	appointmentHandler  *handler.AppointmentHandler
	doctorHandler       *handler.DoctorHandler
	paymentHandler      *handler.PaymentHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	accessLogMiddleware *middleware.AccessLogMiddleware
	metrics             *metrics.Collector
	requestTimeout      time.Duration
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	paymentHandler *handler.PaymentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	accessLogMiddleware *middleware.AccessLogMiddleware,
	metrics *metrics.Collector,
	requestTimeout time.Duration,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		appointmentHandler:  appointmentHandler,
		doctorHandler:       doctorHandler,
		paymentHandler:      paymentHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		accessLogMiddleware: accessLogMiddleware,
		metrics:             metrics,
		requestTimeout:      requestTimeout,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(middleware.RequestID)
	r.router.Use(r.accessLogMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)
	if r.requestTimeout > 0 {
		r.router.Use(middleware.Timeout(r.requestTimeout))
	}

	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctor directory (public). Static paths go before /{id}.
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.HandleFunc("", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/search", r.doctorHandler.SearchDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/specialties", r.doctorHandler.GetSpecialties).Methods(http.MethodGet)
	doctors.HandleFunc("/top", r.doctorHandler.GetTopRatedDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/specialty/{specialty}", r.doctorHandler.GetDoctorsBySpecialty).Methods(http.MethodGet)
	doctors.HandleFunc("/{id:[0-9]+}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	doctors.HandleFunc("/{id:[0-9]+}/available-slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Rating needs an identity but any role may rate
	rating := api.PathPrefix("/doctors").Subrouter()
	rating.Use(r.authMiddleware.Authenticate)
	rating.HandleFunc("/{id:[0-9]+}/rate", r.doctorHandler.RateDoctor).Methods(http.MethodPost)

	// Patient routes (protected - patient only)
	patient := api.NewRoute().Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)

	patient.HandleFunc("/appointments/timeslots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/upcoming", r.appointmentHandler.GetUpcomingAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	patient.HandleFunc("/appointments", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPut)
	patient.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPut)

	patient.HandleFunc("/payments", r.paymentHandler.GetMyPayments).Methods(http.MethodGet)
	patient.HandleFunc("/payments/appointment/{id}", r.paymentHandler.GetPaymentByAppointment).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
