package handler

import (
	"net/http"

	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/response"
	"neuropharm-backend/pkg/validator"
)

type AIHandler struct {
	evaluationUsecase usecase.EvaluationUsecase
	validator         *validator.CustomValidator
}

func NewAIHandler(evaluationUsecase usecase.EvaluationUsecase, validator *validator.CustomValidator) *AIHandler {
	return &AIHandler{
		evaluationUsecase: evaluationUsecase,
		validator:         validator,
	}
}

// Analyze runs a structured AI evaluation of one of the patient's genetic profiles
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.AnalyzeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	evaluation, err := h.evaluationUsecase.Analyze(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to analyze genetic profile")
		return
	}

	response.Success(w, http.StatusCreated, "Evaluation created successfully", evaluation)
}

func (h *AIHandler) GetMyEvaluations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	evaluations, err := h.evaluationUsecase.GetMyEvaluations(r.Context(), user)
	if err != nil {
		handleError(w, err, "Failed to get evaluations")
		return
	}

	response.Success(w, http.StatusOK, "Evaluations retrieved successfully", evaluations)
}

func (h *AIHandler) GetPatientEvaluations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	patientID, ok := uuidVar(w, r, "patient_id")
	if !ok {
		return
	}

	evaluations, err := h.evaluationUsecase.GetPatientEvaluations(r.Context(), user, patientID)
	if err != nil {
		handleError(w, err, "Failed to get evaluations")
		return
	}

	response.Success(w, http.StatusOK, "Evaluations retrieved successfully", evaluations)
}
