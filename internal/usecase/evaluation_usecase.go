package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"neuropharm-backend/config"
	"neuropharm-backend/internal/converter"
	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/domain/gateway"
	"neuropharm-backend/internal/domain/repository"
	"neuropharm-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EvaluationUsecase interface {
	Analyze(ctx context.Context, actor *entity.User, req *dto.AnalyzeRequest) (*dto.EvaluationResponse, error)
	GetMyEvaluations(ctx context.Context, actor *entity.User) ([]dto.EvaluationResponse, error)
	GetPatientEvaluations(ctx context.Context, actor *entity.User, patientID uuid.UUID) ([]dto.EvaluationResponse, error)
}

type evaluationUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	cfg            *config.Config
	profileRepo    repository.GeneticProfileRepository
	evaluationRepo repository.EvaluationRepository
	policy         service.AccessPolicy
	auditService   service.AuditService
	storage        gateway.ObjectStorage
	completer      gateway.Completer
	upstream       upstream
}

func NewEvaluationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	profileRepo repository.GeneticProfileRepository,
	evaluationRepo repository.EvaluationRepository,
	policy service.AccessPolicy,
	auditService service.AuditService,
	storage gateway.ObjectStorage,
	completer gateway.Completer,
) EvaluationUsecase {
	return &evaluationUsecase{
		db:             db,
		log:            log,
		cfg:            cfg,
		profileRepo:    profileRepo,
		evaluationRepo: evaluationRepo,
		policy:         policy,
		auditService:   auditService,
		storage:        storage,
		completer:      completer,
		upstream:       upstream{timeout: cfg.Upstream.Timeout},
	}
}

// Analyze asks the language model for a structured assessment of one
// genetic profile of the patient and stores it as an Evaluation.
func (u *evaluationUsecase) Analyze(ctx context.Context, actor *entity.User, req *dto.AnalyzeRequest) (*dto.EvaluationResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrInvalidID
	}
	profileID, err := uuid.Parse(req.GeneticProfileID)
	if err != nil {
		return nil, ErrInvalidID
	}

	decision, err := u.policy.CanTreat(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	profile, err := u.profileRepo.FindByID(ctx, u.db, profileID)
	if err != nil {
		u.log.Warnf("Failed to find genetic profile: %+v", err)
		return nil, apperr.Upstream("find genetic profile", err)
	}
	if profile == nil || profile.GetUserID() != patientID {
		return nil, ErrGeneticProfileNotFound
	}

	content, err := u.download(ctx, profile.StoragePath)
	if err != nil {
		u.log.Warnf("Failed to download genetic file %s: %+v", profile.StoragePath, err)
		return nil, apperr.Upstream("download genetic file", err)
	}

	answer, err := u.complete(ctx, content)
	if err != nil {
		u.log.Warnf("Failed to evaluate genetic file %s: %+v", profile.StoragePath, err)
		return nil, apperr.Upstream("evaluate genetic file", err)
	}

	evaluation := &entity.Evaluation{
		UserID:           patientID,
		GeneticProfileID: &profileID,
		EvaluatedBy:      actor.ID,
		Result:           ParseEvaluationResult(answer),
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	if err := u.evaluationRepo.Create(ctx, tx, evaluation); err != nil {
		u.log.Warnf("Failed to create evaluation: %+v", err)
		return nil, apperr.Upstream("create evaluation", err)
	}

	if err := u.auditService.Record(ctx, tx, &actor.ID, entity.AuditActionEvaluationCreate, "evaluation", evaluation.ID.String(), map[string]interface{}{
		"patient_id":         patientID.String(),
		"genetic_profile_id": profileID.String(),
	}); err != nil {
		return nil, apperr.Upstream("record audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperr.Upstream("commit evaluation", err)
	}

	return converter.EvaluationToResponse(evaluation), nil
}

func (u *evaluationUsecase) download(ctx context.Context, path string) ([]byte, error) {
	callCtx, cancel := u.upstream.call(ctx)
	defer cancel()
	return u.storage.Download(callCtx, u.cfg.Storage.BucketGenetic, path)
}

func (u *evaluationUsecase) complete(ctx context.Context, content []byte) (string, error) {
	prefix := content
	if n := u.cfg.App.AnalysisPrefixSize; n > 0 && len(prefix) > n {
		prefix = prefix[:n]
	}

	callCtx, cancel := u.upstream.call(ctx)
	defer cancel()

	return u.completer.Complete(callCtx, gateway.CompletionRequest{
		Model:     u.cfg.OpenAI.ModelAnalysis,
		System:    evaluationSystem,
		Prompt:    fmt.Sprintf(evaluationPrompt, strings.ToValidUTF8(string(prefix), "")),
		MaxTokens: evaluationMaxTokens,
	})
}

// ParseEvaluationResult decodes the model's JSON answer, tolerating a
// surrounding markdown code fence. Anything that is not a non-empty JSON
// object is kept verbatim under ai_comment.
func ParseEvaluationResult(answer string) entity.JSON {
	text := strings.TrimSpace(answer)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(text), &result); err != nil || len(result) == 0 {
		return entity.JSON{entity.ResultKeyComment: strings.TrimSpace(answer)}
	}
	return entity.JSON(result)
}

func (u *evaluationUsecase) GetMyEvaluations(ctx context.Context, actor *entity.User) ([]dto.EvaluationResponse, error) {
	evaluations, err := u.evaluationRepo.FindByUserID(ctx, u.db, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find evaluations: %+v", err)
		return nil, apperr.Upstream("list evaluations", err)
	}
	return converter.EvaluationsToResponses(evaluations), nil
}

func (u *evaluationUsecase) GetPatientEvaluations(ctx context.Context, actor *entity.User, patientID uuid.UUID) ([]dto.EvaluationResponse, error) {
	decision, err := u.policy.CanAccessPatientResource(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	evaluations, err := u.evaluationRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find evaluations: %+v", err)
		return nil, apperr.Upstream("list evaluations", err)
	}
	return converter.EvaluationsToResponses(evaluations), nil
}
