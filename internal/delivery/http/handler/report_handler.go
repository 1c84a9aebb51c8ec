package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/response"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
	}
}

// Generate composes an evaluation report from ?patient_id= and ?evaluation_id=
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	patientID, evaluationID := query.Get("patient_id"), query.Get("evaluation_id")
	if patientID == "" || evaluationID == "" {
		response.BadRequest(w, "patient_id and evaluation_id are required")
		return
	}

	report, err := h.reportUsecase.Generate(r.Context(), user, patientID, evaluationID)
	if err != nil {
		handleError(w, err, "Failed to generate report")
		return
	}

	response.Success(w, http.StatusCreated, "Report generated successfully", report)
}

func (h *ReportHandler) GetMyReports(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	reports, err := h.reportUsecase.GetMyReports(r.Context(), user)
	if err != nil {
		handleError(w, err, "Failed to get reports")
		return
	}

	response.Success(w, http.StatusOK, "Reports retrieved successfully", reports)
}

func (h *ReportHandler) GetPatientReports(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	patientID, ok := uuidVar(w, r, "patient_id")
	if !ok {
		return
	}

	reports, err := h.reportUsecase.GetPatientReports(r.Context(), user, patientID)
	if err != nil {
		handleError(w, err, "Failed to get reports")
		return
	}

	response.Success(w, http.StatusOK, "Reports retrieved successfully", reports)
}

// Download streams the stored PDF of a report
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := uuidVar(w, r, "id")
	if !ok {
		return
	}

	file, err := h.reportUsecase.Download(r.Context(), user, id)
	if err != nil {
		handleError(w, err, "Failed to download report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Content)
}
