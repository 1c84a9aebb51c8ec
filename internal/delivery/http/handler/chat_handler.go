package handler

import (
	"net/http"

	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/response"
	"neuropharm-backend/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

func (h *ChatHandler) PersonalChat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	answer, err := h.chatUsecase.PersonalChat(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to get chatbot answer")
		return
	}

	response.Success(w, http.StatusOK, "Answer generated successfully", answer)
}

func (h *ChatHandler) DoctorChat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	answer, err := h.chatUsecase.DoctorChat(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to get chatbot answer")
		return
	}

	response.Success(w, http.StatusOK, "Answer generated successfully", answer)
}

func (h *ChatHandler) PatientContextChat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.PatientChatRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	answer, err := h.chatUsecase.PatientContextChat(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to get chatbot answer")
		return
	}

	response.Success(w, http.StatusOK, "Answer generated successfully", answer)
}

func (h *ChatHandler) ContextualQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ContextualChatRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	answer, err := h.chatUsecase.ContextualQuestion(r.Context(), user, &req)
	if err != nil {
		handleError(w, err, "Failed to get chatbot answer")
		return
	}

	response.Success(w, http.StatusOK, "Answer generated successfully", answer)
}
