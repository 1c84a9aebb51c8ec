package http

import (
	"net/http"

	"neuropharm-backend/internal/delivery/http/handler"
	"neuropharm-backend/internal/delivery/http/middleware"
	"neuropharm-backend/internal/domain/entity"

	"github.com/gorilla/mux"
)

const uuidPattern = "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}"

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	adminHandler      *handler.AdminHandler
	auditLogHandler   *handler.AuditLogHandler
	geneticsHandler   *handler.GeneticsHandler
	aiHandler         *handler.AIHandler
	reportHandler     *handler.ReportHandler
	chatHandler       *handler.ChatHandler
	authMiddleware    *middleware.AuthMiddleware
	roleMiddleware    *middleware.RoleMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	chatRateLimiter   *middleware.RateLimiter
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	adminHandler *handler.AdminHandler,
	auditLogHandler *handler.AuditLogHandler,
	geneticsHandler *handler.GeneticsHandler,
	aiHandler *handler.AIHandler,
	reportHandler *handler.ReportHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	chatRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		userHandler:       userHandler,
		adminHandler:      adminHandler,
		auditLogHandler:   auditLogHandler,
		geneticsHandler:   geneticsHandler,
		aiHandler:         aiHandler,
		reportHandler:     reportHandler,
		chatHandler:       chatHandler,
		authMiddleware:    authMiddleware,
		roleMiddleware:    roleMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		chatRateLimiter:   chatRateLimiter,
	}
}

// protected returns a subrouter under prefix that requires a valid access
// token and, when roles are given, one of those roles.
func (r *Router) protected(prefix string, roles ...entity.Role) *mux.Router {
	sub := r.router.PathPrefix(prefix).Subrouter()
	sub.Use(r.authMiddleware.Authenticate)
	if len(roles) > 0 {
		sub.Use(r.roleMiddleware.RequireRole(roles...))
	}
	return sub
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	// Preflight requests are answered by the CORS middleware
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	// Health check
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// User routes (public)
	users := r.router.PathPrefix("/users").Subrouter()
	users.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	users.HandleFunc("/refresh", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// User routes by role
	usersDoctor := r.protected("/users", entity.RoleDoctor)
	usersDoctor.HandleFunc("/mis_pacientes", r.userHandler.GetMyPatients).Methods(http.MethodGet)
	usersDoctor.HandleFunc("/all", r.userHandler.GetAllPatients).Methods(http.MethodGet)

	usersPatient := r.protected("/users", entity.RolePatient)
	usersPatient.HandleFunc("/mis_medicos", r.userHandler.GetMyDoctors).Methods(http.MethodGet)

	usersAdmin := r.protected("/users", entity.RoleAdmin)
	usersAdmin.HandleFunc("/create_medico", r.userHandler.CreateDoctor).Methods(http.MethodPost)
	usersAdmin.HandleFunc("/search", r.userHandler.SearchUsers).Methods(http.MethodGet)

	// User routes (any authenticated user)
	usersAuth := r.protected("/users")
	usersAuth.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	usersAuth.HandleFunc("/me", r.userHandler.GetCurrentUser).Methods(http.MethodGet)
	usersAuth.HandleFunc("/me", r.userHandler.UpdateCurrentUser).Methods(http.MethodPatch)
	usersAuth.HandleFunc("/change_password", r.authHandler.ChangePassword).Methods(http.MethodPatch)
	usersAuth.HandleFunc("/{id:"+uuidPattern+"}", r.userHandler.GetUser).Methods(http.MethodGet)
	usersAuth.HandleFunc("/{id:"+uuidPattern+"}/update", r.userHandler.UpdateUser).Methods(http.MethodPatch)

	// Admin routes
	admin := r.protected("/admin", entity.RoleAdmin)
	admin.HandleFunc("/assign_patient", r.adminHandler.AssignPatient).Methods(http.MethodPost)
	admin.HandleFunc("/audit_logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit_logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Genetics routes
	geneticsDoctor := r.protected("/genetics", entity.RoleDoctor)
	geneticsDoctor.HandleFunc("/upload", r.geneticsHandler.Upload).Methods(http.MethodPost)

	genetics := r.protected("/genetics")
	genetics.HandleFunc("/mine", r.geneticsHandler.GetMyProfiles).Methods(http.MethodGet)
	genetics.HandleFunc("/{id:"+uuidPattern+"}", r.geneticsHandler.GetProfile).Methods(http.MethodGet)

	// AI evaluation routes
	aiDoctor := r.protected("/ai", entity.RoleDoctor)
	aiDoctor.HandleFunc("/analyze", r.aiHandler.Analyze).Methods(http.MethodPost)

	ai := r.protected("/ai")
	ai.HandleFunc("/mine", r.aiHandler.GetMyEvaluations).Methods(http.MethodGet)
	ai.HandleFunc("/patient/{patient_id:"+uuidPattern+"}", r.aiHandler.GetPatientEvaluations).Methods(http.MethodGet)

	// Report routes, also served under the Spanish prefix
	for _, prefix := range []string{"/reports", "/informes"} {
		reportsDoctor := r.protected(prefix, entity.RoleDoctor)
		reportsDoctor.HandleFunc("/generate", r.reportHandler.Generate).Methods(http.MethodGet)

		reports := r.protected(prefix)
		reports.HandleFunc("/mine", r.reportHandler.GetMyReports).Methods(http.MethodGet)
		reports.HandleFunc("/download/{id:"+uuidPattern+"}", r.reportHandler.Download).Methods(http.MethodGet)
		reports.HandleFunc("/paciente/{patient_id:"+uuidPattern+"}", r.reportHandler.GetPatientReports).Methods(http.MethodGet)
	}

	// Chat routes (rate limited per user)
	// any signed-in user may chat about their own records
	chat := r.protected("/chatbot")
	chat.Use(r.chatRateLimiter.Handle)
	chat.HandleFunc("/chat", r.chatHandler.PersonalChat).Methods(http.MethodPost)

	chatContextual := r.protected("/chatbot", entity.RoleDoctor)
	chatContextual.Use(r.chatRateLimiter.Handle)
	chatContextual.HandleFunc("/ai/contextual", r.chatHandler.ContextualQuestion).Methods(http.MethodPost)

	chatDoctor := r.protected("/chatbotmedico", entity.RoleDoctor)
	chatDoctor.Use(r.chatRateLimiter.Handle)
	chatDoctor.HandleFunc("/chat", r.chatHandler.DoctorChat).Methods(http.MethodPost)
	chatDoctor.HandleFunc("/chat_paciente", r.chatHandler.PatientContextChat).Methods(http.MethodPost)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
