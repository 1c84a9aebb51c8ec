package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/testutil"
)

func seedEvaluation(t *testing.T, f *fixture, patient, doctor *entity.User) *entity.Evaluation {
	t.Helper()

	evaluation := &entity.Evaluation{
		UserID:      patient.ID,
		EvaluatedBy: doctor.ID,
		Result: entity.JSON{
			entity.ResultKeyNotRecommended: []interface{}{"codeine"},
			entity.ResultKeyComment:        "ok",
		},
	}
	if err := f.db.Create(evaluation).Error; err != nil {
		t.Fatalf("create evaluation: %v", err)
	}
	return evaluation
}

func TestGenerateAndDownloadReport(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	evaluation := seedEvaluation(t, f, c.patient, c.doctor)
	reports := f.reports()
	ctx := context.Background()

	report, err := reports.Generate(ctx, c.doctor, c.patient.ID.String(), evaluation.ID.String())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.PDFPath == nil || report.Status != string(entity.ReportStatusCompleted) {
		t.Fatalf("report = %+v", report)
	}
	if report.EvaluationID == nil || *report.EvaluationID != evaluation.ID {
		t.Error("report should reference the evaluation")
	}
	if !strings.Contains(report.Content, "codeine") {
		t.Errorf("content = %q", report.Content)
	}

	file, err := reports.Download(ctx, c.patient, report.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if file.FileName != report.ID.String()+".pdf" {
		t.Errorf("file name = %q", file.FileName)
	}
	if !strings.HasPrefix(string(file.Content), "%PDF-evaluation patient") {
		t.Errorf("content = %q", file.Content)
	}

	mine, err := reports.GetMyReports(ctx, c.patient)
	if err != nil {
		t.Fatalf("GetMyReports: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("reports = %d, want 1", len(mine))
	}
}

func TestGenerateReportRejections(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	evaluation := seedEvaluation(t, f, c.patient, c.doctor)
	stranger := testutil.SeedUser(t, f.db, entity.RoleDoctor, "stranger")
	other := testutil.SeedUser(t, f.db, entity.RolePatient, "other")
	testutil.Assign(t, f.db, c.doctor, other, entity.CareStatusActive)
	reports := f.reports()
	ctx := context.Background()

	if _, err := reports.Generate(ctx, stranger, c.patient.ID.String(), evaluation.ID.String()); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("unassigned doctor: got %v, want forbidden", err)
	}
	if _, err := reports.Generate(ctx, c.doctor, other.ID.String(), evaluation.ID.String()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("evaluation of another patient: got %v, want not found", err)
	}
	if _, err := reports.Generate(ctx, c.doctor, c.patient.ID.String(), "bad"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad id: got %v, want validation", err)
	}

	if n := testutil.Count(t, f.db, &entity.Report{}); n != 0 {
		t.Errorf("reports = %d, want 0", n)
	}
}

func TestDownloadReport(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	other := testutil.SeedUser(t, f.db, entity.RolePatient, "other")
	ctx := context.Background()

	missingPath := c.patient.ID.String() + "/gone.pdf"
	withoutPDF := &entity.Report{UserID: c.patient.ID, Content: "x", Status: entity.ReportStatusDegraded}
	lostPDF := &entity.Report{UserID: c.patient.ID, Content: "x", Status: entity.ReportStatusCompleted, PDFPath: &missingPath}
	for _, r := range []*entity.Report{withoutPDF, lostPDF} {
		if err := f.db.Create(r).Error; err != nil {
			t.Fatalf("create report: %v", err)
		}
	}
	reports := f.reports()

	if _, err := reports.Download(ctx, c.patient, withoutPDF.ID); !errors.Is(err, ErrReportHasNoPDF) {
		t.Errorf("report without pdf: got %v", err)
	}
	if _, err := reports.Download(ctx, c.doctor, lostPDF.ID); !errors.Is(err, ErrReportHasNoPDF) {
		t.Errorf("pdf missing from storage: got %v", err)
	}
	if _, err := reports.Download(ctx, other, withoutPDF.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("other patient: got %v, want forbidden", err)
	}
}
