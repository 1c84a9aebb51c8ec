package http_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliveryHttp "neuropharm-backend/internal/delivery/http"
	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/delivery/http/handler"
	"neuropharm-backend/internal/delivery/http/middleware"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/infrastructure/storage"
	"neuropharm-backend/internal/repository"
	"neuropharm-backend/internal/service"
	"neuropharm-backend/internal/testutil"
	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/jwt"
	"neuropharm-backend/pkg/validator"

	"gorm.io/gorm"
)

const frontendOrigin = "http://localhost:3000"

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	db      *gorm.DB
}

func newTestServer(t *testing.T, chatRatePerMinute int) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.Logger()
	cfg := testutil.Config()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	tokenStore := testutil.NewTokenStore()
	objects := storage.NewMemoryStorage()
	completer := &testutil.Completer{Response: "analysis ok"}
	renderer := &testutil.Renderer{}

	userRepo := repository.NewUserRepository()
	profileRepo := repository.NewGeneticProfileRepository()
	evaluationRepo := repository.NewEvaluationRepository()
	reportRepo := repository.NewReportRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	directory := service.NewUserDirectory(db, log, userRepo)
	registry := service.NewCareRegistry(db, log, repository.NewCareRelationshipRepository(), userRepo)
	policy := service.NewAccessPolicy(registry)
	auditService := service.NewAuditService(db, log, auditLogRepo)

	router := deliveryHttp.NewRouter(
		handler.NewAuthHandler(usecase.NewAuthUsecase(db, log, cfg, userRepo, jwtService, tokenStore, auditService), customValidator),
		handler.NewUserHandler(usecase.NewUserUsecase(db, log, cfg, userRepo, registry, policy, auditService), customValidator),
		handler.NewAdminHandler(usecase.NewAdminUsecase(db, log, cfg, userRepo, registry, policy, auditService), customValidator),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(db, log, auditLogRepo)),
		handler.NewGeneticsHandler(usecase.NewGeneticsUsecase(db, log, cfg, profileRepo, reportRepo, policy, auditService, objects, completer, renderer), customValidator, cfg.App.UploadMaxBytes),
		handler.NewAIHandler(usecase.NewEvaluationUsecase(db, log, cfg, profileRepo, evaluationRepo, policy, auditService, objects, completer), customValidator),
		handler.NewReportHandler(usecase.NewReportUsecase(db, log, cfg, userRepo, evaluationRepo, reportRepo, policy, auditService, objects, renderer)),
		handler.NewChatHandler(usecase.NewChatUsecase(db, log, cfg, userRepo, profileRepo, reportRepo, repository.NewChatHistoryRepository(), policy, completer), customValidator),
		middleware.NewAuthMiddleware(jwtService, tokenStore, directory, log),
		middleware.NewRoleMiddleware(policy),
		middleware.NewCORSMiddleware(frontendOrigin),
		middleware.NewLoggingMiddleware(log),
		middleware.NewRateLimiter(chatRatePerMinute),
	)

	return &testServer{t: t, handler: router.Setup(), db: db}
}

func (s *testServer) do(req *http.Request) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var body apiResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			s.t.Fatalf("decode %s %s: %v", req.Method, req.URL.Path, err)
		}
	}
	return rec, body
}

func (s *testServer) request(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			s.t.Fatalf("encode payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

func (s *testServer) login(user *entity.User) string {
	s.t.Helper()

	rec, body := s.request(http.MethodPost, "/users/login", "", dto.LoginRequest{Email: user.Email, Password: testutil.Password})
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login %s: status %d (%s)", user.Email, rec.Code, body.Message)
	}

	var tokens dto.TokenResponse
	if err := json.Unmarshal(body.Data, &tokens); err != nil {
		s.t.Fatalf("decode tokens: %v", err)
	}
	return tokens.AccessToken
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, 0)

	rec, _ := s.request(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, 0)
	patient := testutil.SeedUser(t, s.db, entity.RolePatient, "patient")

	rec, _ := s.request(http.MethodGet, "/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	rec, _ = s.request(http.MethodGet, "/users/me", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}

	token := s.login(patient)
	rec, body := s.request(http.MethodGet, "/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status = %d (%s)", rec.Code, body.Message)
	}
	var me dto.UserResponse
	if err := json.Unmarshal(body.Data, &me); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if me.ID != patient.ID {
		t.Errorf("me = %s, want %s", me.ID, patient.ID)
	}

	rec, _ = s.request(http.MethodPost, "/users/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status = %d", rec.Code)
	}
	rec, _ = s.request(http.MethodGet, "/users/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked token: status = %d, want 401", rec.Code)
	}
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t, 0)
	doctor := testutil.SeedUser(t, s.db, entity.RoleDoctor, "doctor")
	patient := testutil.SeedUser(t, s.db, entity.RolePatient, "patient")
	patientToken := s.login(patient)
	doctorToken := s.login(doctor)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"patient assigns", http.MethodPost, "/admin/assign_patient", patientToken, http.StatusForbidden},
		{"doctor lists audit logs", http.MethodGet, "/admin/audit_logs", doctorToken, http.StatusForbidden},
		{"patient lists all patients", http.MethodGet, "/users/all", patientToken, http.StatusForbidden},
		{"doctor lists all patients", http.MethodGet, "/users/all", doctorToken, http.StatusOK},
		{"doctor lists own doctors", http.MethodGet, "/users/mis_medicos", doctorToken, http.StatusForbidden},
		{"patient lists own doctors", http.MethodGet, "/users/mis_medicos", patientToken, http.StatusOK},
		{"patient uses doctor chat", http.MethodPost, "/chatbotmedico/chat", patientToken, http.StatusForbidden},
		{"doctor reads unassigned patient", http.MethodGet, "/users/" + patient.ID.String(), doctorToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := s.request(tt.method, tt.path, tt.token, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, body.Message)
			}
		})
	}
}

func TestAssignPatientTwice(t *testing.T) {
	s := newTestServer(t, 0)
	admin := testutil.SeedUser(t, s.db, entity.RoleAdmin, "admin")
	doctor := testutil.SeedUser(t, s.db, entity.RoleDoctor, "doctor")
	patient := testutil.SeedUser(t, s.db, entity.RolePatient, "patient")
	token := s.login(admin)
	payload := dto.AssignPatientRequest{DoctorID: doctor.ID.String(), PatientID: patient.ID.String()}

	for _, want := range []string{usecase.MsgPatientAssigned, usecase.MsgPatientAlreadyAssigned} {
		rec, body := s.request(http.MethodPost, "/admin/assign_patient", token, payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", rec.Code, body.Message)
		}
		if body.Message != want {
			t.Errorf("message = %q, want %q", body.Message, want)
		}
	}

	rec, body := s.request(http.MethodPost, "/admin/assign_patient", token, map[string]string{"doctor_id": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid body: status = %d (%s)", rec.Code, body.Message)
	}
}

func TestUploadAndDownloadReport(t *testing.T) {
	s := newTestServer(t, 0)
	doctor := testutil.SeedUser(t, s.db, entity.RoleDoctor, "doctor")
	patient := testutil.SeedUser(t, s.db, entity.RolePatient, "patient")
	testutil.Assign(t, s.db, doctor, patient, entity.CareStatusActive)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	if err := writer.WriteField("patient_id", patient.ID.String()); err != nil {
		t.Fatal(err)
	}
	part, err := writer.CreateFormFile("file", "sample.vcf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("##fileformat=VCFv4.2\n"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/genetics/upload", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.login(doctor))
	rec, body := s.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d (%s)", rec.Code, body.Message)
	}

	var result dto.UploadResult
	if err := json.Unmarshal(body.Data, &result); err != nil {
		t.Fatalf("decode upload result: %v", err)
	}
	if result.Report == nil || result.Report.PDFPath == nil {
		t.Fatalf("upload result has no report pdf: %+v", result)
	}

	patientToken := s.login(patient)
	for _, prefix := range []string{"/reports", "/informes"} {
		rec, _ = s.request(http.MethodGet, prefix+"/download/"+result.Report.ID.String(), patientToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s download: status = %d", prefix, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("content type = %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, result.Report.ID.String()+".pdf") {
			t.Errorf("content disposition = %q", cd)
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF") {
			t.Errorf("body = %q", rec.Body.String())
		}
	}

	other := testutil.SeedUser(t, s.db, entity.RolePatient, "other")
	rec, _ = s.request(http.MethodGet, "/reports/download/"+result.Report.ID.String(), s.login(other), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("other patient download: status = %d, want 403", rec.Code)
	}
}

func TestChatRateLimit(t *testing.T) {
	s := newTestServer(t, 1)
	doctor := testutil.SeedUser(t, s.db, entity.RoleDoctor, "doctor")
	token := s.login(doctor)
	payload := dto.ChatRequest{Message: "CYP2D6?"}

	rec, body := s.request(http.MethodPost, "/chatbotmedico/chat", token, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("first chat: status = %d (%s)", rec.Code, body.Message)
	}

	rec, _ = s.request(http.MethodPost, "/chatbotmedico/chat", token, payload)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second chat: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestPersonalChatForEveryRole(t *testing.T) {
	s := newTestServer(t, 0)
	payload := dto.ChatRequest{Message: "Is codeine safe for me?"}

	for _, role := range []entity.Role{entity.RolePatient, entity.RoleDoctor, entity.RoleAdmin} {
		user := testutil.SeedUser(t, s.db, role, string(role))
		rec, body := s.request(http.MethodPost, "/chatbot/chat", s.login(user), payload)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d (%s)", role, rec.Code, body.Message)
		}
	}

	rec, _ := s.request(http.MethodPost, "/chatbot/chat", "", payload)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodOptions, "/users/login", nil)
	req.Header.Set("Origin", frontendOrigin)
	rec, _ := s.do(req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != frontendOrigin {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/users/login", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec, _ = s.do(req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}
