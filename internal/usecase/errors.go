package usecase

import (
	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/service"
)

var (
	ErrEmailAlreadyExists = apperr.New(apperr.ErrConflict, "Email already exists")
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "Invalid email or password")
	ErrInvalidToken       = apperr.New(apperr.ErrUnauthorized, "Invalid or expired token")
	ErrTokenRevoked       = apperr.New(apperr.ErrUnauthorized, "Token has been revoked")
	ErrWrongPassword      = apperr.New(apperr.ErrUnauthorized, "Old password is incorrect")
	ErrUserNotFound       = service.ErrUserNotFound
	ErrNothingToUpdate    = apperr.New(apperr.ErrValidation, "No fields to update")
	ErrInvalidID          = apperr.New(apperr.ErrValidation, "Invalid ID format")

	ErrDoctorNotFound  = apperr.New(apperr.ErrNotFound, "Doctor not found")
	ErrPatientNotFound = apperr.New(apperr.ErrNotFound, "Patient not found")
	ErrNotADoctor      = apperr.New(apperr.ErrValidation, "User is not a doctor")
	ErrNotAPatient     = apperr.New(apperr.ErrValidation, "User is not a patient")

	ErrEmptyFile              = apperr.New(apperr.ErrValidation, "File is empty")
	ErrFileTooLarge           = apperr.New(apperr.ErrValidation, "File exceeds maximum allowed size")
	ErrGeneticProfileNotFound = apperr.New(apperr.ErrNotFound, "Genetic profile not found")
	ErrEvaluationNotFound     = apperr.New(apperr.ErrNotFound, "Evaluation not found")
	ErrReportNotFound         = apperr.New(apperr.ErrNotFound, "Report not found")
	ErrReportHasNoPDF         = apperr.New(apperr.ErrNotFound, "Report has no generated PDF")
	ErrAuditLogNotFound       = apperr.New(apperr.ErrNotFound, "Audit log not found")
)
