package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"neuropharm-backend/internal/delivery/http/middleware"
	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/pkg/response"
	"neuropharm-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// handleError writes the status code for err's kind. Upstream and unknown
// failures get the generic fallback message.
func handleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		response.BadRequest(w, apperr.Message(err))
	case errors.Is(err, apperr.ErrUnauthorized):
		response.Unauthorized(w, apperr.Message(err))
	case errors.Is(err, apperr.ErrForbidden):
		response.Forbidden(w, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		response.NotFound(w, apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		response.Conflict(w, apperr.Message(err))
	default:
		response.InternalServerError(w, fallback)
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (*entity.User, bool) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return nil, false
	}
	return user, true
}

// decodeAndValidate reads a JSON body into req and validates it.
// It writes the 400 response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func uuidVar(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
