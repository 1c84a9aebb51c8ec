package converter

import (
	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/domain/entity"
)

func ReportToResponse(report *entity.Report) *dto.ReportResponse {
	if report == nil {
		return nil
	}

	return &dto.ReportResponse{
		ID:               report.ID,
		UserID:           report.UserID,
		GeneticProfileID: report.GeneticProfileID,
		EvaluationID:     report.EvaluationID,
		Description:      report.Description,
		Content:          report.Content,
		PDFPath:          report.PDFPath,
		Status:           string(report.Status),
		GeneratedBy:      report.GeneratedBy,
		GeneratedAt:      report.GeneratedAt,
	}
}

func ReportsToResponses(reports []entity.Report) []dto.ReportResponse {
	responses := make([]dto.ReportResponse, len(reports))
	for i := range reports {
		responses[i] = *ReportToResponse(&reports[i])
	}
	return responses
}
