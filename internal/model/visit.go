package model

import (
	"time"

	"github.com/google/uuid"
)

// Visit is one unit of clinic time owned by a doctor. A nil PatientID means
// the slot is open; once a patient books it the reference never changes again.
type Visit struct {
	Base
	DoctorID  uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   time.Time  `db:"end_time" json:"end_time"`
}

// IsAvailable reports whether the slot is still open for booking.
func (v *Visit) IsAvailable() bool {
	return v.PatientID == nil
}

type CreateVisitRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type BookVisitRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

// DoctorSummary is the doctor view embedded in a visit response.
type DoctorSummary struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FacilityIDs []uuid.UUID `json:"facility_ids"`
}

type VisitResponse struct {
	ID          uuid.UUID     `json:"id"`
	Doctor      DoctorSummary `json:"doctor"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	IsAvailable bool          `json:"is_available"`
}
