package converter

import (
	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/domain/entity"
)

func GeneticProfileToResponse(profile *entity.GeneticProfile) *dto.GeneticProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.GeneticProfileResponse{
		ID:          profile.ID,
		UserID:      profile.UserID,
		StoragePath: profile.StoragePath,
		FileName:    profile.FileName,
		SizeBytes:   profile.SizeBytes,
		UploadedBy:  profile.UploadedBy,
		UploadedAt:  profile.UploadedAt,
	}
}

func GeneticProfilesToResponses(profiles []entity.GeneticProfile) []dto.GeneticProfileResponse {
	responses := make([]dto.GeneticProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *GeneticProfileToResponse(&profiles[i])
	}
	return responses
}

func EvaluationToResponse(evaluation *entity.Evaluation) *dto.EvaluationResponse {
	if evaluation == nil {
		return nil
	}

	return &dto.EvaluationResponse{
		ID:               evaluation.ID,
		UserID:           evaluation.UserID,
		GeneticProfileID: evaluation.GeneticProfileID,
		EvaluatedBy:      evaluation.EvaluatedBy,
		Result:           evaluation.Result,
		EvaluatedAt:      evaluation.EvaluatedAt,
	}
}

func EvaluationsToResponses(evaluations []entity.Evaluation) []dto.EvaluationResponse {
	responses := make([]dto.EvaluationResponse, len(evaluations))
	for i := range evaluations {
		responses[i] = *EvaluationToResponse(&evaluations[i])
	}
	return responses
}
