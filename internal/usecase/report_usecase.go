package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

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

type ReportUsecase interface {
	Generate(ctx context.Context, actor *entity.User, patientID, evaluationID string) (*dto.ReportResponse, error)
	GetMyReports(ctx context.Context, actor *entity.User) ([]dto.ReportResponse, error)
	Download(ctx context.Context, actor *entity.User, id uuid.UUID) (*dto.ReportFile, error)
	GetPatientReports(ctx context.Context, actor *entity.User, patientID uuid.UUID) ([]dto.ReportResponse, error)
}

type reportUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	cfg            *config.Config
	userRepo       repository.UserRepository
	evaluationRepo repository.EvaluationRepository
	reportRepo     repository.ReportRepository
	policy         service.AccessPolicy
	auditService   service.AuditService
	storage        gateway.ObjectStorage
	renderer       gateway.ReportRenderer
	upstream       upstream
	now            func() time.Time
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	userRepo repository.UserRepository,
	evaluationRepo repository.EvaluationRepository,
	reportRepo repository.ReportRepository,
	policy service.AccessPolicy,
	auditService service.AuditService,
	storage gateway.ObjectStorage,
	renderer gateway.ReportRenderer,
) ReportUsecase {
	return &reportUsecase{
		db:             db,
		log:            log,
		cfg:            cfg,
		userRepo:       userRepo,
		evaluationRepo: evaluationRepo,
		reportRepo:     reportRepo,
		policy:         policy,
		auditService:   auditService,
		storage:        storage,
		renderer:       renderer,
		upstream:       upstream{timeout: cfg.Upstream.Timeout},
		now:            time.Now,
	}
}

// Generate composes the PDF for one evaluation of the patient, stores it and
// records the report.
func (u *reportUsecase) Generate(ctx context.Context, actor *entity.User, patientIDParam, evaluationIDParam string) (*dto.ReportResponse, error) {
	patientID, err := uuid.Parse(patientIDParam)
	if err != nil {
		return nil, ErrInvalidID
	}
	evaluationID, err := uuid.Parse(evaluationIDParam)
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

	patient, err := u.userRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, apperr.Upstream("find patient", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	evaluation, err := u.evaluationRepo.FindByID(ctx, u.db, evaluationID)
	if err != nil {
		u.log.Warnf("Failed to find evaluation: %+v", err)
		return nil, apperr.Upstream("find evaluation", err)
	}
	if evaluation == nil || evaluation.GetUserID() != patientID {
		return nil, ErrEvaluationNotFound
	}

	pdfBytes, err := u.renderer.RenderEvaluation(gateway.EvaluationDocument{
		PatientName:  displayName(patient),
		PatientEmail: patient.Email,
		DoctorName:   displayName(actor),
		DoctorEmail:  actor.Email,
		GeneratedAt:  u.now(),
		Result:       evaluation.Result,
	})
	if err != nil {
		u.log.Warnf("Failed to render evaluation report: %+v", err)
		return nil, apperr.Upstream("render report", err)
	}

	reportID := uuid.New()
	pdfPath := fmt.Sprintf("%s/%s.pdf", patientID, reportID)

	callCtx, cancel := u.upstream.call(ctx)
	err = u.storage.Upload(callCtx, u.cfg.Storage.BucketReports, pdfPath, pdfBytes, "application/pdf")
	cancel()
	if err != nil {
		u.log.Warnf("Failed to store evaluation report: %+v", err)
		return nil, apperr.Upstream("store report", err)
	}

	content, err := json.Marshal(evaluation.Result)
	if err != nil {
		return nil, err
	}

	report := &entity.Report{
		ID:           reportID,
		UserID:       patientID,
		EvaluationID: &evaluationID,
		Description:  evaluationReportDescription,
		Content:      string(content),
		PDFPath:      &pdfPath,
		Status:       entity.ReportStatusCompleted,
		GeneratedBy:  &actor.ID,
	}
	if evaluation.GeneticProfileID != nil {
		report.GeneticProfileID = evaluation.GeneticProfileID
	}

	tx, cancel := u.upstream.begin(ctx, u.db)
	defer cancel()
	defer tx.Rollback()

	if err := u.reportRepo.Create(ctx, tx, report); err != nil {
		u.log.Warnf("Failed to create report: %+v", err)
		return nil, apperr.Upstream("create report", err)
	}

	if err := u.auditService.Record(ctx, tx, &actor.ID, entity.AuditActionReportGenerate, "report", reportID.String(), map[string]interface{}{
		"patient_id":    patientID.String(),
		"evaluation_id": evaluationID.String(),
	}); err != nil {
		return nil, apperr.Upstream("record audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperr.Upstream("commit report", err)
	}

	return converter.ReportToResponse(report), nil
}

func displayName(user *entity.User) string {
	return strings.TrimSpace(user.FullName + " " + user.LastName)
}

func (u *reportUsecase) GetMyReports(ctx context.Context, actor *entity.User) ([]dto.ReportResponse, error) {
	reports, err := u.reportRepo.FindByUserID(ctx, u.db, actor.ID, 0)
	if err != nil {
		u.log.Warnf("Failed to find reports: %+v", err)
		return nil, apperr.Upstream("list reports", err)
	}
	return converter.ReportsToResponses(reports), nil
}

func (u *reportUsecase) Download(ctx context.Context, actor *entity.User, id uuid.UUID) (*dto.ReportFile, error) {
	report, err := u.reportRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find report: %+v", err)
		return nil, apperr.Upstream("find report", err)
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	decision, err := u.policy.CanAccessPatientResource(ctx, actor, report.GetUserID())
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	if !report.HasPDF() {
		return nil, ErrReportHasNoPDF
	}

	callCtx, cancel := u.upstream.call(ctx)
	defer cancel()

	content, err := u.storage.Download(callCtx, u.cfg.Storage.BucketReports, *report.PDFPath)
	if err != nil {
		if errors.Is(err, gateway.ErrObjectNotFound) {
			return nil, ErrReportHasNoPDF
		}
		u.log.Warnf("Failed to download report %s: %+v", *report.PDFPath, err)
		return nil, apperr.Upstream("download report", err)
	}

	return &dto.ReportFile{
		FileName: path.Base(*report.PDFPath),
		Content:  content,
	}, nil
}

func (u *reportUsecase) GetPatientReports(ctx context.Context, actor *entity.User, patientID uuid.UUID) ([]dto.ReportResponse, error) {
	decision, err := u.policy.CanAccessPatientResource(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	reports, err := u.reportRepo.FindByUserID(ctx, u.db, patientID, 0)
	if err != nil {
		u.log.Warnf("Failed to find reports: %+v", err)
		return nil, apperr.Upstream("list reports", err)
	}
	return converter.ReportsToResponses(reports), nil
}
