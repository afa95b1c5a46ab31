package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.FacilityRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.FacilityRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// CreateFacility persists a facility; when the request carries nested doctors
// they are created (or reused by email) and linked in the same transaction.
func (s *Service) CreateFacility(ctx context.Context, req *model.CreateFacilityRequest) (*model.FacilityResponse, error) {
	facility := &model.Facility{
		Name:           req.Name,
		City:           req.City,
		Postcode:       req.Postcode,
		Street:         req.Street,
		BuildingNumber: req.BuildingNumber,
	}

	if len(req.Doctors) == 0 {
		if err := s.repo.Create(ctx, facility); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperrors.Conflict(apperrors.CodeFacilityNameInUse, "facility with name %s already exists", req.Name)
			}
			return nil, fmt.Errorf("failed to create facility: %w", err)
		}
		return s.toResponse(ctx, facility)
	}

	doctors := make([]*model.Doctor, 0, len(req.Doctors))
	for _, d := range req.Doctors {
		hashed, err := s.hasher.Hash(d.Password)
		if err != nil {
			return nil, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid password for doctor %s: %v", d.Email, err)
		}
		doctors = append(doctors, &model.Doctor{Email: d.Email, Password: hashed})
	}

	if err := s.repo.CreateWithDoctors(ctx, facility, doctors); err != nil {
		return nil, fmt.Errorf("failed to create facility with doctors: %w", err)
	}
	return s.toResponse(ctx, facility)
}

func (s *Service) GetFacilityByName(ctx context.Context, name string) (*model.FacilityResponse, error) {
	facility, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, facility)
}

func (s *Service) ListFacilities(ctx context.Context, p model.Pagination) ([]*model.FacilityResponse, int64, error) {
	if p.Page < 0 || p.PageSize < 0 {
		return nil, 0, apperrors.Validation(apperrors.CodeInvalidPageRequest, "page and page_size must not be negative")
	}
	p.Normalize()

	facilities, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list facilities: %w", err)
	}

	responses := make([]*model.FacilityResponse, 0, len(facilities))
	for _, f := range facilities {
		resp, err := s.toResponse(ctx, f)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *Service) UpdateFacilityByName(ctx context.Context, name string, req *model.UpdateFacilityRequest) (*model.FacilityResponse, error) {
	facility, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		facility.Name = *req.Name
	}
	if req.City != nil {
		facility.City = *req.City
	}
	if req.Postcode != nil {
		facility.Postcode = *req.Postcode
	}
	if req.Street != nil {
		facility.Street = *req.Street
	}
	if req.BuildingNumber != nil {
		facility.BuildingNumber = *req.BuildingNumber
	}

	if err := s.repo.Update(ctx, facility); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(apperrors.CodeFacilityNameInUse, "facility with name %s already exists", facility.Name)
		}
		return nil, fmt.Errorf("failed to update facility: %w", err)
	}
	return s.toResponse(ctx, facility)
}

func (s *Service) DeleteFacilityByName(ctx context.Context, name string) error {
	facility, err := s.findByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, facility.ID); err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}
	return nil
}

func (s *Service) findByName(ctx context.Context, name string) (*model.Facility, error) {
	facility, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeFacilityNotFound, "facility with name %s not found", name)
		}
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}
	return facility, nil
}

func (s *Service) toResponse(ctx context.Context, facility *model.Facility) (*model.FacilityResponse, error) {
	doctorIDs, err := s.repo.ListDoctorIDs(ctx, facility.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list facility doctors: %w", err)
	}
	if doctorIDs == nil {
		doctorIDs = []uuid.UUID{}
	}
	return &model.FacilityResponse{
		ID:             facility.ID,
		Name:           facility.Name,
		City:           facility.City,
		Postcode:       facility.Postcode,
		Street:         facility.Street,
		BuildingNumber: facility.BuildingNumber,
		DoctorIDs:      doctorIDs,
	}, nil
}
