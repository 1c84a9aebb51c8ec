package usecase

import (
	"context"
	"encoding/json"
	"fmt"

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
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// recentReportsInContext is how many of the newest reports seed a chat prompt
const recentReportsInContext = 3

type ChatUsecase interface {
	PersonalChat(ctx context.Context, actor *entity.User, req *dto.ChatRequest) (*dto.ChatResponse, error)
	DoctorChat(ctx context.Context, actor *entity.User, req *dto.ChatRequest) (*dto.ChatResponse, error)
	PatientContextChat(ctx context.Context, actor *entity.User, req *dto.PatientChatRequest) (*dto.ChatResponse, error)
	ContextualQuestion(ctx context.Context, actor *entity.User, req *dto.ContextualChatRequest) (*dto.ChatResponse, error)
}

type chatUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	cfg         *config.Config
	userRepo    repository.UserRepository
	profileRepo repository.GeneticProfileRepository
	reportRepo  repository.ReportRepository
	historyRepo repository.ChatHistoryRepository
	policy      service.AccessPolicy
	completer   gateway.Completer
	upstream    upstream
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg *config.Config,
	userRepo repository.UserRepository,
	profileRepo repository.GeneticProfileRepository,
	reportRepo repository.ReportRepository,
	historyRepo repository.ChatHistoryRepository,
	policy service.AccessPolicy,
	completer gateway.Completer,
) ChatUsecase {
	return &chatUsecase{
		db:          db,
		log:         log,
		cfg:         cfg,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		reportRepo:  reportRepo,
		historyRepo: historyRepo,
		policy:      policy,
		completer:   completer,
		upstream:    upstream{timeout: cfg.Upstream.Timeout},
	}
}

// patientContext is what the assistant is told about a patient
type patientContext struct {
	user     *entity.User
	profiles []entity.GeneticProfile
	reports  []entity.Report
}

// loadPatientContext reads the patient's profiles and newest reports
// concurrently. withUser also loads the user record.
func (u *chatUsecase) loadPatientContext(ctx context.Context, patientID uuid.UUID, withUser bool) (*patientContext, error) {
	pc := &patientContext{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profiles, err := u.profileRepo.FindByUserID(gctx, u.db, patientID)
		if err != nil {
			return apperr.Upstream("list genetic profiles", err)
		}
		pc.profiles = profiles
		return nil
	})

	g.Go(func() error {
		reports, err := u.reportRepo.FindByUserID(gctx, u.db, patientID, recentReportsInContext)
		if err != nil {
			return apperr.Upstream("list reports", err)
		}
		pc.reports = reports
		return nil
	})

	if withUser {
		g.Go(func() error {
			user, err := u.userRepo.FindByID(gctx, u.db, patientID)
			if err != nil {
				return apperr.Upstream("find patient", err)
			}
			if user == nil {
				return ErrPatientNotFound
			}
			pc.user = user
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load chat context for patient %s: %+v", patientID, err)
		return nil, err
	}
	return pc, nil
}

func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// PersonalChat answers any signed-in user from their own profiles and latest reports
func (u *chatUsecase) PersonalChat(ctx context.Context, actor *entity.User, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	pc, err := u.loadPatientContext(ctx, actor.ID, false)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(patientChatPrompt,
		toJSON(converter.GeneticProfilesToResponses(pc.profiles)),
		toJSON(converter.ReportsToResponses(pc.reports)),
		req.Message,
	)

	return u.answer(ctx, actor, nil, req.Message, gateway.CompletionRequest{
		Model:     u.cfg.OpenAI.ModelChat,
		System:    patientChatSystem,
		Prompt:    prompt,
		MaxTokens: patientChatMaxTokens,
	})
}

func (u *chatUsecase) DoctorChat(ctx context.Context, actor *entity.User, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	return u.answer(ctx, actor, nil, req.Message, gateway.CompletionRequest{
		Model:     u.cfg.OpenAI.ModelChat,
		System:    doctorChatSystem,
		Prompt:    fmt.Sprintf(doctorChatPrompt, req.Message),
		MaxTokens: doctorChatMaxTokens,
	})
}

// PatientContextChat answers a doctor's question with the patient's record,
// profiles and newest reports as context.
func (u *chatUsecase) PatientContextChat(ctx context.Context, actor *entity.User, req *dto.PatientChatRequest) (*dto.ChatResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrInvalidID
	}

	decision, err := u.policy.CanAccessPatientResource(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	pc, err := u.loadPatientContext(ctx, patientID, true)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(patientContextPrompt,
		toJSON(converter.UserToResponse(pc.user)),
		toJSON(converter.GeneticProfilesToResponses(pc.profiles)),
		toJSON(converter.ReportsToResponses(pc.reports)),
		req.Message,
	)

	return u.answer(ctx, actor, &patientID, req.Message, gateway.CompletionRequest{
		Model:     u.cfg.OpenAI.ModelChat,
		System:    patientContextSystem,
		Prompt:    prompt,
		MaxTokens: doctorChatMaxTokens,
	})
}

// ContextualQuestion answers a clinical question using the patient's newest
// report as the only context.
func (u *chatUsecase) ContextualQuestion(ctx context.Context, actor *entity.User, req *dto.ContextualChatRequest) (*dto.ChatResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrInvalidID
	}

	decision, err := u.policy.CanAccessPatientResource(ctx, actor, patientID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	summary := contextualNoReport
	reports, err := u.reportRepo.FindByUserID(ctx, u.db, patientID, 1)
	if err != nil {
		u.log.Warnf("Failed to find latest report: %+v", err)
		return nil, apperr.Upstream("find latest report", err)
	}
	if len(reports) > 0 && reports[0].Content != "" {
		summary = reports[0].Content
	}

	return u.answer(ctx, actor, &patientID, req.Question, gateway.CompletionRequest{
		Model:       u.cfg.OpenAI.ModelAnalysis,
		System:      contextualSystem,
		Prompt:      fmt.Sprintf(contextualPrompt, patientID, summary, req.Question),
		MaxTokens:   contextualMaxTokens,
		Temperature: contextualTemperature,
	})
}

// answer forwards the prompt and records the exchange in the chat history
func (u *chatUsecase) answer(ctx context.Context, actor *entity.User, patientID *uuid.UUID, message string, req gateway.CompletionRequest) (*dto.ChatResponse, error) {
	callCtx, cancel := u.upstream.call(ctx)
	reply, err := u.completer.Complete(callCtx, req)
	cancel()
	if err != nil {
		u.log.Warnf("Failed to get assistant answer: %+v", err)
		return nil, apperr.Upstream("assistant answer", err)
	}

	history := &entity.ChatHistory{
		UserID:    actor.ID,
		PatientID: patientID,
		Message:   message,
		Answer:    reply,
	}
	if err := u.historyRepo.Create(ctx, u.db, history); err != nil {
		u.log.Warnf("Failed to create chat history: %+v", err)
		return nil, apperr.Upstream("create chat history", err)
	}

	return &dto.ChatResponse{Answer: reply}, nil
}
