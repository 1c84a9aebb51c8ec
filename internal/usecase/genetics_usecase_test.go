package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/testutil"

	"github.com/google/uuid"
)

const sampleVCF = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\n22\t42126611\trs3892097\tC\tT\n"

type uploadCase struct {
	f       *fixture
	doctor  *entity.User
	patient *entity.User
}

func newUploadCase(t *testing.T) *uploadCase {
	t.Helper()

	f := newFixture(t)
	doctor := testutil.SeedUser(t, f.db, entity.RoleDoctor, "doctor")
	patient := testutil.SeedUser(t, f.db, entity.RolePatient, "patient")
	testutil.Assign(t, f.db, doctor, patient, entity.CareStatusActive)
	return &uploadCase{f: f, doctor: doctor, patient: patient}
}

func (c *uploadCase) input(content string) *dto.GeneticUploadInput {
	return &dto.GeneticUploadInput{
		PatientID: c.patient.ID.String(),
		FileName:  "sample.vcf",
		Content:   []byte(content),
	}
}

func TestUploadByAssignedDoctor(t *testing.T) {
	c := newUploadCase(t)
	f := c.f

	result, err := f.genetics(nil).Upload(context.Background(), c.doctor, c.input(sampleVCF))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if result.AnalysisFailed {
		t.Error("analysis should have succeeded")
	}
	if result.Profile.UserID != c.patient.ID || result.Profile.UploadedBy != c.doctor.ID {
		t.Errorf("profile = %+v", result.Profile)
	}
	if !strings.HasPrefix(result.Profile.StoragePath, c.patient.ID.String()+"/") || !strings.HasSuffix(result.Profile.StoragePath, ".vcf") {
		t.Errorf("storage path = %q", result.Profile.StoragePath)
	}
	if result.Report.Status != string(entity.ReportStatusCompleted) || result.Report.PDFPath == nil {
		t.Errorf("report = %+v", result.Report)
	}
	if result.Report.Content != "analysis ok" {
		t.Errorf("report content = %q", result.Report.Content)
	}

	if _, err := f.storage.Download(context.Background(), f.cfg.Storage.BucketGenetic, result.Profile.StoragePath); err != nil {
		t.Errorf("raw file not stored: %v", err)
	}
	if f.storage.Count(f.cfg.Storage.BucketReports) != 1 {
		t.Errorf("report PDFs = %d, want 1", f.storage.Count(f.cfg.Storage.BucketReports))
	}

	req := f.completer.LastRequest()
	if req.Model != f.cfg.OpenAI.ModelAnalysis || req.MaxTokens != uploadAnalysisMaxTokens {
		t.Errorf("completion request = %+v", req)
	}
	if !strings.Contains(req.Prompt, "rs3892097") {
		t.Error("prompt should carry the file content")
	}

	if n := testutil.Count(t, f.db, &entity.GeneticProfile{}); n != 1 {
		t.Errorf("profiles = %d, want 1", n)
	}
	if n := testutil.Count(t, f.db, &entity.Report{}); n != 1 {
		t.Errorf("reports = %d, want 1", n)
	}
	if n := testutil.Count(t, f.db, &entity.AuditLog{}); n != 1 {
		t.Errorf("audit logs = %d, want 1", n)
	}
}

func TestUploadStatementsCarryDeadline(t *testing.T) {
	c := newUploadCase(t)
	unbounded := testutil.UnboundedStatements(t, c.f.db)

	if _, err := c.f.genetics(nil).Upload(context.Background(), c.doctor, c.input(sampleVCF)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if missing := unbounded(); len(missing) > 0 {
		t.Fatalf("statements without deadline: %v", missing)
	}
}

func TestUploadDeniedLeavesNoTrace(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	stranger := testutil.SeedUser(t, f.db, entity.RoleDoctor, "stranger")
	former := testutil.SeedUser(t, f.db, entity.RoleDoctor, "former")
	testutil.Assign(t, f.db, former, c.patient, entity.CareStatusInactive)

	for _, actor := range []*entity.User{stranger, former, c.patient} {
		_, err := f.genetics(nil).Upload(context.Background(), actor, c.input(sampleVCF))
		if !errors.Is(err, apperr.ErrForbidden) {
			t.Fatalf("%s: got %v, want forbidden", actor.FullName, err)
		}
	}

	if n := testutil.Count(t, f.db, &entity.GeneticProfile{}); n != 0 {
		t.Errorf("profiles = %d, want 0", n)
	}
	if n := testutil.Count(t, f.db, &entity.Report{}); n != 0 {
		t.Errorf("reports = %d, want 0", n)
	}
	if f.storage.Count(f.cfg.Storage.BucketGenetic) != 0 {
		t.Error("no raw file should be stored")
	}
	if f.completer.Calls() != 0 {
		t.Error("the model should not be called")
	}
}

func TestUploadValidation(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	f.cfg.App.UploadMaxBytes = 16

	_, err := f.genetics(nil).Upload(context.Background(), c.doctor, c.input(""))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty file: got %v", err)
	}

	_, err = f.genetics(nil).Upload(context.Background(), c.doctor, c.input(sampleVCF))
	if !errors.Is(err, ErrFileTooLarge) || !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("oversized file: got %v", err)
	}

	in := c.input(sampleVCF[:10])
	in.PatientID = "not-a-uuid"
	_, err = f.genetics(nil).Upload(context.Background(), c.doctor, in)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad patient id: got %v", err)
	}
}

func TestUploadAnalysisFailureIsDegraded(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	f.completer.Err = testutil.ErrFake

	result, err := f.genetics(nil).Upload(context.Background(), c.doctor, c.input(sampleVCF))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !result.AnalysisFailed {
		t.Error("AnalysisFailed should be set")
	}
	if result.Report.Status != string(entity.ReportStatusDegraded) {
		t.Errorf("status = %q, want degraded", result.Report.Status)
	}
	if !strings.HasPrefix(result.Report.Content, analysisFailurePrefix) {
		t.Errorf("content = %q", result.Report.Content)
	}
	if n := testutil.Count(t, f.db, &entity.GeneticProfile{}); n != 1 {
		t.Errorf("profiles = %d, want 1", n)
	}
}

func TestUploadRawStorageFailureWritesNothing(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	failing := &testutil.FailingStorage{ObjectStorage: f.storage, FailBucket: f.cfg.Storage.BucketGenetic}

	_, err := f.genetics(failing).Upload(context.Background(), c.doctor, c.input(sampleVCF))
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Fatalf("got %v, want upstream", err)
	}

	if n := testutil.Count(t, f.db, &entity.GeneticProfile{}); n != 0 {
		t.Errorf("profiles = %d, want 0", n)
	}
	if n := testutil.Count(t, f.db, &entity.Report{}); n != 0 {
		t.Errorf("reports = %d, want 0", n)
	}
	if f.completer.Calls() != 0 {
		t.Error("the model should not be called")
	}
}

func TestUploadReportFailureLeavesNoPDF(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture) *testutil.FailingStorage
	}{
		{
			name: "pdf storage fails",
			setup: func(f *fixture) *testutil.FailingStorage {
				return &testutil.FailingStorage{ObjectStorage: f.storage, FailBucket: f.cfg.Storage.BucketReports}
			},
		},
		{
			name: "rendering fails",
			setup: func(f *fixture) *testutil.FailingStorage {
				f.renderer.Err = testutil.ErrFake
				return &testutil.FailingStorage{ObjectStorage: f.storage}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newUploadCase(t)
			objects := tt.setup(c.f)

			result, err := c.f.genetics(objects).Upload(context.Background(), c.doctor, c.input(sampleVCF))
			if err != nil {
				t.Fatalf("Upload: %v", err)
			}
			if result.Report.PDFPath != nil {
				t.Errorf("pdf path = %q, want none", *result.Report.PDFPath)
			}
			if result.Report.Status != string(entity.ReportStatusDegraded) {
				t.Errorf("status = %q, want degraded", result.Report.Status)
			}
			if n := testutil.Count(t, c.f.db, &entity.Report{}); n != 1 {
				t.Errorf("reports = %d, want 1", n)
			}
		})
	}
}

func TestUploadSendsBoundedPrefix(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	f.cfg.App.AnalysisPrefixSize = 5000

	if _, err := f.genetics(nil).Upload(context.Background(), c.doctor, c.input(strings.Repeat("#", 6000))); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if n := strings.Count(f.completer.LastRequest().Prompt, "#"); n != 5000 {
		t.Errorf("prompt carries %d bytes of the file, want 5000", n)
	}
}

func TestGetProfile(t *testing.T) {
	c := newUploadCase(t)
	f := c.f
	other := testutil.SeedUser(t, f.db, entity.RolePatient, "other")
	genetics := f.genetics(nil)
	ctx := context.Background()

	result, err := genetics.Upload(ctx, c.doctor, c.input(sampleVCF))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := genetics.GetProfile(ctx, c.patient, result.Profile.ID); err != nil {
		t.Errorf("owner: %v", err)
	}
	if _, err := genetics.GetProfile(ctx, other, result.Profile.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("other patient: got %v, want forbidden", err)
	}
	if _, err := genetics.GetProfile(ctx, c.patient, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing profile: got %v, want not found", err)
	}

	mine, err := genetics.GetMyProfiles(ctx, c.patient)
	if err != nil {
		t.Fatalf("GetMyProfiles: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("profiles = %d, want 1", len(mine))
	}
}
