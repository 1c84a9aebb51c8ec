package handler

import (
	"net/http"
	"strings"

	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/response"
	"neuropharm-backend/pkg/validator"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// GetCurrentUser returns the authenticated user
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", h.userUsecase.GetCurrentUser(r.Context(), user))
}

// UpdateCurrentUser changes the display fields of the authenticated user
func (h *UserHandler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	updated, err := h.userUsecase.UpdateCurrentUser(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", updated)
}

func (h *UserHandler) GetMyPatients(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	patients, err := h.userUsecase.GetMyPatients(r.Context(), user)
	if err != nil {
		handleError(w, err, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *UserHandler) GetMyDoctors(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	doctors, err := h.userUsecase.GetMyDoctors(r.Context(), user)
	if err != nil {
		handleError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *UserHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.userUsecase.GetAllPatients(r.Context())
	if err != nil {
		handleError(w, err, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *UserHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.userUsecase.CreateDoctor(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

// SearchUsers matches ?query= against first and last names
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		response.BadRequest(w, "Query parameter is required")
		return
	}

	users, err := h.userUsecase.SearchUsers(r.Context(), query)
	if err != nil {
		handleError(w, err, "Failed to search users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := uuidVar(w, r, "id")
	if !ok {
		return
	}

	found, err := h.userUsecase.GetUser(r.Context(), user, id)
	if err != nil {
		handleError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", found)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, ok := uuidVar(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	updated, err := h.userUsecase.UpdateUser(r.Context(), user, id, &req)
	if err != nil {
		handleError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", updated)
}
