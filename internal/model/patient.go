package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	Email       string     `db:"email" json:"email"`
	Password    string     `db:"password" json:"-"`
	IDCardNo    string     `db:"id_card_no" json:"id_card_no"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	PhoneNumber string     `db:"phone_number" json:"phone_number"`
	Birthday    *time.Time `db:"birthday" json:"birthday,omitempty"`
}

type CreatePatientRequest struct {
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=8"`
	IDCardNo    string     `json:"id_card_no" binding:"required"`
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	PhoneNumber string     `json:"phone_number"`
	Birthday    *time.Time `json:"birthday"`
}

// UpdatePatientRequest carries partial updates; nil fields are left unchanged.
type UpdatePatientRequest struct {
	Email       *string    `json:"email" binding:"omitempty,email"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	PhoneNumber *string    `json:"phone_number"`
	Birthday    *time.Time `json:"birthday"`
}

type PatientResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	IDCardNo    string     `json:"id_card_no"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number"`
	Birthday    *time.Time `json:"birthday,omitempty"`
}

func (p *Patient) ToResponse() *PatientResponse {
	return &PatientResponse{
		ID:          p.ID,
		Email:       p.Email,
		IDCardNo:    p.IDCardNo,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		Birthday:    p.Birthday,
	}
}
