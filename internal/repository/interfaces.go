package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
)

// Sentinel errors the postgres implementations translate driver errors into.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrConflict      = errors.New("conflicting visit exists")
	ErrAlreadyBooked = errors.New("visit already booked")
)

// One interface per aggregate. The postgres package provides the real
// implementations; service tests substitute in-memory fakes.
type (
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, p model.Pagination) ([]*model.Doctor, int64, error)
		ListFacilityIDs(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error)
		AssignFacility(ctx context.Context, doctorID, facilityID uuid.UUID) error
		RemoveFacility(ctx context.Context, doctorID, facilityID uuid.UUID) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, p model.Pagination) ([]*model.Patient, int64, error)
	}

	FacilityRepository interface {
		Create(ctx context.Context, facility *model.Facility) error
		Get(ctx context.Context, id uuid.UUID) (*model.Facility, error)
		GetByName(ctx context.Context, name string) (*model.Facility, error)
		Update(ctx context.Context, facility *model.Facility) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, p model.Pagination) ([]*model.Facility, int64, error)
		ListDoctorIDs(ctx context.Context, facilityID uuid.UUID) ([]uuid.UUID, error)
		// CreateWithDoctors persists the facility and its doctors in one
		// transaction, reusing rows that already exist and linking them.
		CreateWithDoctors(ctx context.Context, facility *model.Facility, doctors []*model.Doctor) error
	}

	VisitRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Visit, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Visit, error)
		List(ctx context.Context, p model.Pagination) ([]*model.Visit, int64, error)
		// CreateSlot inserts an open visit. The doctor row is locked and the
		// doctor's visits re-read inside the same transaction, so two
		// overlapping slots can never both commit; returns ErrConflict on
		// overlap, ErrNotFound when the doctor row is gone.
		CreateSlot(ctx context.Context, visit *model.Visit) error
		// Book sets the patient on an open visit. The visit row is locked
		// before the open-check, so exactly one of two racing bookings
		// succeeds; returns ErrAlreadyBooked for the loser.
		Book(ctx context.Context, visitID, patientID uuid.UUID) (*model.Visit, error)
	}
)
