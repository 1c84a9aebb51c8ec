package handler

import (
	"errors"
	"io"
	"net/http"

	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/response"
	"neuropharm-backend/pkg/validator"
)

// multipartOverhead leaves room for the form boundaries and the patient_id field
const multipartOverhead = 1 << 20

type GeneticsHandler struct {
	geneticsUsecase usecase.GeneticsUsecase
	validator       *validator.CustomValidator
	maxUploadBytes  int64
}

func NewGeneticsHandler(geneticsUsecase usecase.GeneticsUsecase, validator *validator.CustomValidator, maxUploadBytes int64) *GeneticsHandler {
	return &GeneticsHandler{
		geneticsUsecase: geneticsUsecase,
		validator:       validator,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Upload accepts a multipart form with a "file" and a "patient_id" field
func (h *GeneticsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.BadRequest(w, usecase.ErrFileTooLarge.Error())
			return
		}
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read file")
		return
	}

	in := &dto.GeneticUploadInput{
		PatientID: r.FormValue("patient_id"),
		FileName:  header.Filename,
		Content:   content,
	}
	if err := h.validator.Validate(in); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.geneticsUsecase.Upload(r.Context(), user, in)
	if err != nil {
		handleError(w, err, "Failed to upload genetic file")
		return
	}

	message := "Genetic file uploaded successfully"
	if result.AnalysisFailed {
		message = "Genetic file uploaded, AI analysis failed"
	}
	response.Success(w, http.StatusCreated, message, result)
}

func (h *GeneticsHandler) GetMyProfiles(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profiles, err := h.geneticsUsecase.GetMyProfiles(r.Context(), user)
	if err != nil {
		handleError(w, err, "Failed to get genetic profiles")
		return
	}

	response.Success(w, http.StatusOK, "Genetic profiles retrieved successfully", profiles)
}

func (h *GeneticsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := uuidVar(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.geneticsUsecase.GetProfile(r.Context(), user, id)
	if err != nil {
		handleError(w, err, "Failed to get genetic profile")
		return
	}

	response.Success(w, http.StatusOK, "Genetic profile retrieved successfully", profile)
}
