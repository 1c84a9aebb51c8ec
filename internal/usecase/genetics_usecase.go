package usecase

import (
	"context"
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

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type GeneticsUsecase interface {
	Upload(ctx context.Context, actor *entity.User, in *dto.GeneticUploadInput) (*dto.UploadResult, error)
	GetMyProfiles(ctx context.Context, actor *entity.User) ([]dto.GeneticProfileResponse, error)
	GetProfile(ctx context.Context, actor *entity.User, id uuid.UUID) (*dto.GeneticProfileResponse, error)
}

type geneticsUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          *config.Config
	profileRepo  repository.GeneticProfileRepository
	reportRepo   repository.ReportRepository
	policy       service.AccessPolicy
	auditService service.AuditService
	storage      gateway.ObjectStorage
	completer    gateway.Completer
	renderer     gateway.ReportRenderer
	upstream     upstream
}

func NewGeneticsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	profileRepo repository.GeneticProfileRepository,
	reportRepo repository.ReportRepository,
	policy service.AccessPolicy,
	auditService service.AuditService,
	storage gateway.ObjectStorage,
	completer gateway.Completer,
	renderer gateway.ReportRenderer,
) GeneticsUsecase {
	return &geneticsUsecase{
		db:           db,
		log:          log,
		cfg:          cfg,
		profileRepo:  profileRepo,
		reportRepo:   reportRepo,
		policy:       policy,
		auditService: auditService,
		storage:      storage,
		completer:    completer,
		renderer:     renderer,
		upstream:     upstream{timeout: cfg.Upstream.Timeout},
	}
}

// Upload runs Received -> StoredRaw -> Analyzed -> ReportComposed -> Persisted.
// Only a storage failure of the raw file or a failed commit abort the upload;
// analysis and PDF failures produce a degraded report instead.
func (u *geneticsUsecase) Upload(ctx context.Context, actor *entity.User, in *dto.GeneticUploadInput) (*dto.UploadResult, error) {
	// Received
	patientID, err := uuid.Parse(in.PatientID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if len(in.Content) == 0 {
		return nil, ErrEmptyFile
	}
	if limit := u.cfg.App.UploadMaxBytes; limit > 0 && int64(len(in.Content)) > limit {
		return nil, ErrFileTooLarge
	}

	decision, err := u.policy.CanUploadFor(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	// StoredRaw
	profileID := uuid.New()
	rawPath := fmt.Sprintf("%s/%s.vcf", patientID, profileID)
	if err := u.store(ctx, u.cfg.Storage.BucketGenetic, rawPath, in.Content, mimetype.Detect(in.Content).String()); err != nil {
		u.log.Warnf("Failed to store genetic file for patient %s: %+v", patientID, err)
		return nil, apperr.Upstream("store genetic file", err)
	}

	// Analyzed
	analysis, analysisErr := u.analyze(ctx, in.Content)
	if analysisErr != nil {
		u.log.Warnf("Failed to analyze genetic file %s: %+v", rawPath, analysisErr)
		analysis = analysisFailurePrefix + analysisErr.Error()
	}

	// ReportComposed
	reportID := uuid.New()
	pdfPath := u.composeReport(ctx, patientID, reportID, analysis)

	status := entity.ReportStatusCompleted
	if analysisErr != nil || pdfPath == nil {
		status = entity.ReportStatusDegraded
	}

	// Persisted
	profile := &entity.GeneticProfile{
		ID:          profileID,
		UserID:      patientID,
		StoragePath: rawPath,
		FileName:    in.FileName,
		SizeBytes:   int64(len(in.Content)),
		UploadedBy:  actor.ID,
	}
	report := &entity.Report{
		ID:               reportID,
		UserID:           patientID,
		GeneticProfileID: &profileID,
		Description:      uploadReportDescription,
		Content:          analysis,
		PDFPath:          pdfPath,
		Status:           status,
		GeneratedBy:      &actor.ID,
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	if err := u.profileRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create genetic profile: %+v", err)
		return nil, apperr.Upstream("create genetic profile", err)
	}

	if err := u.reportRepo.Create(ctx, tx, report); err != nil {
		u.log.Warnf("Failed to create report: %+v", err)
		return nil, apperr.Upstream("create report", err)
	}

	if err := u.auditService.Record(ctx, tx, &actor.ID, entity.AuditActionGeneticUpload, "genetic_profile", profileID.String(), map[string]interface{}{
		"patient_id":    patientID.String(),
		"report_id":     reportID.String(),
		"report_status": status,
	}); err != nil {
		return nil, apperr.Upstream("record audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperr.Upstream("commit genetic upload", err)
	}

	return &dto.UploadResult{
		Profile:        converter.GeneticProfileToResponse(profile),
		Report:         converter.ReportToResponse(report),
		AnalysisFailed: analysisErr != nil,
	}, nil
}

func (u *geneticsUsecase) store(ctx context.Context, bucket, path string, content []byte, contentType string) error {
	callCtx, cancel := u.upstream.call(ctx)
	defer cancel()
	return u.storage.Upload(callCtx, bucket, path, content, contentType)
}

// analyze sends a bounded prefix of the raw file to the language model
func (u *geneticsUsecase) analyze(ctx context.Context, content []byte) (string, error) {
	prefix := content
	if n := u.cfg.App.AnalysisPrefixSize; n > 0 && len(prefix) > n {
		prefix = prefix[:n]
	}

	callCtx, cancel := u.upstream.call(ctx)
	defer cancel()

	return u.completer.Complete(callCtx, gateway.CompletionRequest{
		Model:     u.cfg.OpenAI.ModelAnalysis,
		System:    uploadAnalysisSystem,
		Prompt:    fmt.Sprintf(uploadAnalysisPrompt, strings.ToValidUTF8(string(prefix), "")),
		MaxTokens: uploadAnalysisMaxTokens,
	})
}

// composeReport renders and stores the analysis PDF. It returns nil when
// either step fails.
func (u *geneticsUsecase) composeReport(ctx context.Context, patientID, reportID uuid.UUID, analysis string) *string {
	pdfBytes, err := u.renderer.RenderAnalysis(gateway.AnalysisDocument{
		Title: uploadReportTitle,
		Text:  analysis,
	})
	if err != nil {
		u.log.Warnf("Failed to render analysis report: %+v", err)
		return nil
	}

	pdfPath := fmt.Sprintf("%s/%s.pdf", patientID, reportID)
	if err := u.store(ctx, u.cfg.Storage.BucketReports, pdfPath, pdfBytes, "application/pdf"); err != nil {
		u.log.Warnf("Failed to store analysis report: %+v", err)
		return nil
	}
	return &pdfPath
}

func (u *geneticsUsecase) GetMyProfiles(ctx context.Context, actor *entity.User) ([]dto.GeneticProfileResponse, error) {
	profiles, err := u.profileRepo.FindByUserID(ctx, u.db, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find genetic profiles: %+v", err)
		return nil, apperr.Upstream("list genetic profiles", err)
	}
	return converter.GeneticProfilesToResponses(profiles), nil
}

func (u *geneticsUsecase) GetProfile(ctx context.Context, actor *entity.User, id uuid.UUID) (*dto.GeneticProfileResponse, error) {
	profile, err := u.profileRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find genetic profile: %+v", err)
		return nil, apperr.Upstream("find genetic profile", err)
	}
	if profile == nil {
		return nil, ErrGeneticProfileNotFound
	}

	decision, err := u.policy.CanAccessPatientResource(ctx, actor, profile.GetUserID())
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return converter.GeneticProfileToResponse(profile), nil
}
