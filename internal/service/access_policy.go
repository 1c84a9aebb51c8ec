package service

import (
	"context"

	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// Decision is the outcome of a policy check. Reason explains a denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err returns nil for an allowed decision and a Forbidden error otherwise
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.New(apperr.ErrForbidden, d.Reason)
}

// AccessPolicy is the single place where roles and care relationships are
// turned into access decisions. Admin always wins, then self access, then
// the care relationship of a doctor.
type AccessPolicy interface {
	HasRole(actor *entity.User, roles ...entity.Role) bool
	RequireRole(actor *entity.User, roles ...entity.Role) Decision
	CanAccessPatientResource(ctx context.Context, actor *entity.User, patientID uuid.UUID) (Decision, error)
	CanTreat(ctx context.Context, actor *entity.User, patientID uuid.UUID) (Decision, error)
	CanUploadFor(ctx context.Context, actor *entity.User, patientID uuid.UUID) (Decision, error)
}

type accessPolicy struct {
	registry CareRegistry
}

func NewAccessPolicy(registry CareRegistry) AccessPolicy {
	return &accessPolicy{registry: registry}
}

func (p *accessPolicy) HasRole(actor *entity.User, roles ...entity.Role) bool {
	if actor == nil {
		return false
	}
	for _, role := range roles {
		if actor.Role == role {
			return true
		}
	}
	return false
}

func (p *accessPolicy) RequireRole(actor *entity.User, roles ...entity.Role) Decision {
	if p.HasRole(actor, roles...) {
		return allow()
	}
	return deny("You don't have permission to access this resource")
}

func (p *accessPolicy) CanAccessPatientResource(ctx context.Context, actor *entity.User, patientID uuid.UUID) (Decision, error) {
	if actor == nil {
		return deny("Access denied"), nil
	}
	if actor.Role == entity.RoleAdmin {
		return allow(), nil
	}
	if actor.ID == patientID {
		return allow(), nil
	}
	if actor.Role != entity.RoleDoctor {
		return deny("You can only access your own data"), nil
	}

	assigned, err := p.registry.IsAssigned(ctx, actor.ID, patientID)
	if err != nil {
		return Decision{}, err
	}
	if !assigned {
		return deny("Patient is not assigned to this doctor"), nil
	}
	return allow(), nil
}

// CanTreat allows clinical actions on a patient: doctor and actively assigned
func (p *accessPolicy) CanTreat(ctx context.Context, actor *entity.User, patientID uuid.UUID) (Decision, error) {
	return p.assignedDoctor(ctx, actor, patientID, "Only doctors can perform this action")
}

func (p *accessPolicy) CanUploadFor(ctx context.Context, actor *entity.User, patientID uuid.UUID) (Decision, error) {
	return p.assignedDoctor(ctx, actor, patientID, "Only doctors can upload genetic files")
}

func (p *accessPolicy) assignedDoctor(ctx context.Context, actor *entity.User, patientID uuid.UUID, roleReason string) (Decision, error) {
	if actor == nil || actor.Role != entity.RoleDoctor {
		return deny(roleReason), nil
	}

	assigned, err := p.registry.IsAssigned(ctx, actor.ID, patientID)
	if err != nil {
		return Decision{}, err
	}
	if !assigned {
		return deny("Patient is not assigned to this doctor"), nil
	}
	return allow(), nil
}
