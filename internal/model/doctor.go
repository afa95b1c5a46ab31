package model

import (
	"github.com/google/uuid"
)

// Doctor is a clinician who owns visit slots and may work at several facilities.
type Doctor struct {
	Base
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

type CreateDoctorRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateDoctorRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// DoctorResponse is the outward view of a doctor; the password never leaves the service.
type DoctorResponse struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FacilityIDs []uuid.UUID `json:"facility_ids"`
}
