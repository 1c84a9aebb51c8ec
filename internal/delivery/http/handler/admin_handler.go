package handler

import (
	"net/http"

	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/response"
	"neuropharm-backend/pkg/validator"
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	validator    *validator.CustomValidator
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

// AssignPatient links a patient to a doctor. Assigning an existing pair
// is not an error; the message says it was already assigned.
func (h *AdminHandler) AssignPatient(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.AssignPatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, message, err := h.adminUsecase.AssignPatient(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to assign patient")
		return
	}

	response.Success(w, http.StatusOK, message, result)
}
