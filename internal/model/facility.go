package model

import (
	"github.com/google/uuid"
)

type Facility struct {
	Base
	Name           string `db:"name" json:"name"`
	City           string `db:"city" json:"city"`
	Postcode       string `db:"postcode" json:"postcode"`
	Street         string `db:"street" json:"street"`
	BuildingNumber string `db:"building_number" json:"building_number"`
}

type CreateFacilityRequest struct {
	Name           string `json:"name" binding:"required"`
	City           string `json:"city"`
	Postcode       string `json:"postcode"`
	Street         string `json:"street"`
	BuildingNumber string `json:"building_number"`
	// Doctors to create (or link, when the email already exists) together
	// with the facility, in one transaction.
	Doctors []CreateDoctorRequest `json:"doctors" binding:"omitempty,dive"`
}

type UpdateFacilityRequest struct {
	Name           *string `json:"name"`
	City           *string `json:"city"`
	Postcode       *string `json:"postcode"`
	Street         *string `json:"street"`
	BuildingNumber *string `json:"building_number"`
}

type FacilityResponse struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	City           string      `json:"city"`
	Postcode       string      `json:"postcode"`
	Street         string      `json:"street"`
	BuildingNumber string      `json:"building_number"`
	DoctorIDs      []uuid.UUID `json:"doctor_ids"`
}
