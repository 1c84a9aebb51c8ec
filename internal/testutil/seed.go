package testutil

import (
	"testing"

	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain text password of every seeded user
const Password = "secret123"

var passwordHash []byte

// SeedUser inserts a user with the given role. The name is used for the
// email local part and the full name.
func SeedUser(t *testing.T, db *gorm.DB, role entity.Role, name string) *entity.User {
	t.Helper()

	if passwordHash == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		passwordHash = hash
	}

	user := &entity.User{
		ID:       uuid.New(),
		Email:    name + "@neuropharm.test",
		Password: string(passwordHash),
		FullName: name,
		LastName: "Test",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

// Assign links doctor and patient with the given status
func Assign(t *testing.T, db *gorm.DB, doctor, patient *entity.User, status entity.CareStatus) {
	t.Helper()

	rel := &entity.CareRelationship{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Status:    status,
	}
	if err := db.Create(rel).Error; err != nil {
		t.Fatalf("assign %s -> %s: %v", doctor.FullName, patient.FullName, err)
	}
}
