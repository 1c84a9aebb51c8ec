package dto

// UpdateUserRequest carries display fields only. Nil fields are left unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	LastName *string `json:"last_name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

// Empty reports whether the request updates nothing
func (r *UpdateUserRequest) Empty() bool {
	return r.FullName == nil && r.LastName == nil && r.Email == nil
}

type CreateDoctorRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	LastName string `json:"last_name" validate:"omitempty,max=255"`
}

type AssignPatientRequest struct {
	DoctorID  string `json:"doctor_id" validate:"required,uuid"`
	PatientID string `json:"patient_id" validate:"required,uuid"`
}

type AssignPatientResponse struct {
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	Created   bool   `json:"created"`
}
