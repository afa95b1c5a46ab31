package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.PatientRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.PatientRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.PatientResponse, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid password: %v", err)
	}

	patient := &model.Patient{
		Email:       req.Email,
		Password:    hashed,
		IDCardNo:    req.IDCardNo,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Birthday:    req.Birthday,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(apperrors.CodeEmailInUse, "patient with email or id card already exists")
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient.ToResponse(), nil
}

func (s *Service) GetPatientByEmail(ctx context.Context, email string) (*model.PatientResponse, error) {
	patient, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return patient.ToResponse(), nil
}

func (s *Service) ListPatients(ctx context.Context, p model.Pagination) ([]*model.PatientResponse, int64, error) {
	if p.Page < 0 || p.PageSize < 0 {
		return nil, 0, apperrors.Validation(apperrors.CodeInvalidPageRequest, "page and page_size must not be negative")
	}
	p.Normalize()

	patients, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}

	responses := make([]*model.PatientResponse, 0, len(patients))
	for _, pt := range patients {
		responses = append(responses, pt.ToResponse())
	}
	return responses, total, nil
}

// UpdatePatientByEmail applies the non-nil fields of req; the id card number
// is immutable once issued.
func (s *Service) UpdatePatientByEmail(ctx context.Context, email string, req *model.UpdatePatientRequest) (*model.PatientResponse, error) {
	patient, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != patient.Email {
		patient.Email = *req.Email
	}
	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		patient.PhoneNumber = *req.PhoneNumber
	}
	if req.Birthday != nil {
		patient.Birthday = req.Birthday
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(apperrors.CodeEmailInUse, "email %s is already in use", patient.Email)
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient.ToResponse(), nil
}

func (s *Service) ChangePassword(ctx context.Context, email, password string) error {
	patient, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Validation(apperrors.CodeInvalidRequest, "invalid password: %v", err)
	}
	patient.Password = hashed

	if err := s.repo.Update(ctx, patient); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *Service) DeletePatientByEmail(ctx context.Context, email string) error {
	patient, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, patient.ID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*model.Patient, error) {
	patient, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodePatientNotFound, "patient with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}
