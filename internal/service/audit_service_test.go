package service

import (
	"context"
	"testing"

	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/repository"
	"neuropharm-backend/internal/testutil"
)

func TestAuditServiceStoresFlatMetadata(t *testing.T) {
	db := testutil.NewDB(t)
	auditRepo := repository.NewAuditLogRepository()
	audit := NewAuditService(db, testutil.Logger(), auditRepo)
	actor := testutil.SeedUser(t, db, entity.RoleAdmin, "admin")
	ctx := context.Background()

	err := audit.Record(ctx, nil, &actor.ID, entity.AuditActionPatientAssign, "care_relationship", "d:p", map[string]interface{}{
		"patient_id": "p",
		"entity":     "overridden",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	logs, total, err := auditRepo.FindAll(ctx, db, 10, 0)
	if err != nil || total != 1 {
		t.Fatalf("FindAll = %d, %v", total, err)
	}
	metadata := logs[0].Metadata
	if metadata["patient_id"] != "p" {
		t.Errorf("patient_id = %#v", metadata["patient_id"])
	}
	if metadata["entity"] != "care_relationship" || metadata["entity_id"] != "d:p" {
		t.Errorf("metadata = %#v", metadata)
	}
	if _, nested := metadata["details"]; nested {
		t.Error("details should not be nested")
	}
}

func TestAuditServiceWithoutDetails(t *testing.T) {
	db := testutil.NewDB(t)
	auditRepo := repository.NewAuditLogRepository()
	audit := NewAuditService(db, testutil.Logger(), auditRepo)
	actor := testutil.SeedUser(t, db, entity.RoleDoctor, "doctor")

	if err := audit.Record(context.Background(), nil, &actor.ID, entity.AuditActionPasswordChange, "user", actor.ID.String(), nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	logs, _, err := auditRepo.FindAll(context.Background(), db, 10, 0)
	if err != nil || len(logs) != 1 {
		t.Fatalf("FindAll = %d, %v", len(logs), err)
	}
	if len(logs[0].Metadata) != 2 {
		t.Errorf("metadata = %#v", logs[0].Metadata)
	}
}
