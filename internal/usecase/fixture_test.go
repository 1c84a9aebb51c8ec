package usecase

import (
	"os"
	"testing"

	"neuropharm-backend/config"
	"neuropharm-backend/internal/domain/gateway"
	domainRepo "neuropharm-backend/internal/domain/repository"
	"neuropharm-backend/internal/infrastructure/storage"
	"neuropharm-backend/internal/repository"
	"neuropharm-backend/internal/service"
	"neuropharm-backend/internal/testutil"
	"neuropharm-backend/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	db        *gorm.DB
	log       *logrus.Logger
	cfg       *config.Config
	storage   *storage.MemoryStorage
	completer *testutil.Completer
	renderer  *testutil.Renderer
	tokens    *testutil.TokenStore
	jwt       *jwt.JWTService

	userRepo       domainRepo.UserRepository
	profileRepo    domainRepo.GeneticProfileRepository
	evaluationRepo domainRepo.EvaluationRepository
	reportRepo     domainRepo.ReportRepository
	historyRepo    domainRepo.ChatHistoryRepository
	auditLogRepo   domainRepo.AuditLogRepository

	registry service.CareRegistry
	policy   service.AccessPolicy
	audit    service.AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:             testutil.NewDB(t),
		log:            testutil.Logger(),
		cfg:            testutil.Config(),
		storage:        storage.NewMemoryStorage(),
		completer:      &testutil.Completer{Response: "analysis ok"},
		renderer:       &testutil.Renderer{},
		tokens:         testutil.NewTokenStore(),
		userRepo:       repository.NewUserRepository(),
		profileRepo:    repository.NewGeneticProfileRepository(),
		evaluationRepo: repository.NewEvaluationRepository(),
		reportRepo:     repository.NewReportRepository(),
		historyRepo:    repository.NewChatHistoryRepository(),
		auditLogRepo:   repository.NewAuditLogRepository(),
	}
	f.jwt = jwt.NewJWTService(f.cfg.JWT)
	f.registry = service.NewCareRegistry(f.db, f.log, repository.NewCareRelationshipRepository(), f.userRepo)
	f.policy = service.NewAccessPolicy(f.registry)
	f.audit = service.NewAuditService(f.db, f.log, f.auditLogRepo)
	return f
}

func (f *fixture) auth() AuthUsecase {
	return NewAuthUsecase(f.db, f.log, f.cfg, f.userRepo, f.jwt, f.tokens, f.audit)
}

func (f *fixture) users() UserUsecase {
	return NewUserUsecase(f.db, f.log, f.cfg, f.userRepo, f.registry, f.policy, f.audit)
}

func (f *fixture) admin() AdminUsecase {
	return NewAdminUsecase(f.db, f.log, f.cfg, f.userRepo, f.registry, f.policy, f.audit)
}

// genetics uses objects when given, the fixture's memory storage otherwise
func (f *fixture) genetics(objects gateway.ObjectStorage) GeneticsUsecase {
	if objects == nil {
		objects = f.storage
	}
	return NewGeneticsUsecase(f.db, f.log, f.cfg, f.profileRepo, f.reportRepo, f.policy, f.audit, objects, f.completer, f.renderer)
}

func (f *fixture) evaluations() EvaluationUsecase {
	return NewEvaluationUsecase(f.db, f.log, f.cfg, f.profileRepo, f.evaluationRepo, f.policy, f.audit, f.storage, f.completer)
}

func (f *fixture) reports() ReportUsecase {
	return NewReportUsecase(f.db, f.log, f.cfg, f.userRepo, f.evaluationRepo, f.reportRepo, f.policy, f.audit, f.storage, f.renderer)
}

func (f *fixture) chat() ChatUsecase {
	return NewChatUsecase(f.db, f.log, f.cfg, f.userRepo, f.profileRepo, f.reportRepo, f.historyRepo, f.policy, f.completer)
}
