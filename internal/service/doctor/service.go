package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/cache"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

const cacheTTL = 5 * time.Minute

type Service struct {
	repo       repository.DoctorRepository
	facilities repository.FacilityRepository
	hasher     security.PasswordHasher
	cache      cache.Cache
	log        *logger.Logger
}

func NewService(
	repo repository.DoctorRepository,
	facilities repository.FacilityRepository,
	hasher security.PasswordHasher,
	c cache.Cache,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		facilities: facilities,
		hasher:     hasher,
		cache:      c,
		log:        log,
	}
}

func cacheKey(email string) string {
	return "doctor:email:" + email
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.DoctorResponse, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid password: %v", err)
	}

	doctor := &model.Doctor{
		Email:    req.Email,
		Password: hashed,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(apperrors.CodeEmailInUse, "doctor with email %s already exists", req.Email)
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return s.toResponse(ctx, doctor)
}

func (s *Service) GetDoctorByEmail(ctx context.Context, email string) (*model.DoctorResponse, error) {
	if s.cache != nil {
		var cached model.DoctorResponse
		if err := s.cache.Get(ctx, cacheKey(email), &cached); err == nil {
			return &cached, nil
		}
	}

	doctor, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	resp, err := s.toResponse(ctx, doctor)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(email), resp, cacheTTL); err != nil {
			s.log.Warn("failed to cache doctor", "email", email)
		}
	}
	return resp, nil
}

func (s *Service) ListDoctors(ctx context.Context, p model.Pagination) ([]*model.DoctorResponse, int64, error) {
	if p.Page < 0 || p.PageSize < 0 {
		return nil, 0, apperrors.Validation(apperrors.CodeInvalidPageRequest, "page and page_size must not be negative")
	}
	p.Normalize()

	doctors, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}

	responses := make([]*model.DoctorResponse, 0, len(doctors))
	for _, d := range doctors {
		resp, err := s.toResponse(ctx, d)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *Service) UpdateDoctorByEmail(ctx context.Context, email string, req *model.UpdateDoctorRequest) (*model.DoctorResponse, error) {
	doctor, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != doctor.Email {
		doctor.Email = *req.Email
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(apperrors.CodeEmailInUse, "email %s is already in use", *req.Email)
		}
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.invalidate(ctx, email, doctor.Email)
	return s.toResponse(ctx, doctor)
}

func (s *Service) ChangePassword(ctx context.Context, email, password string) error {
	doctor, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Validation(apperrors.CodeInvalidRequest, "invalid password: %v", err)
	}
	doctor.Password = hashed

	if err := s.repo.Update(ctx, doctor); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *Service) DeleteDoctorByEmail(ctx context.Context, email string) error {
	doctor, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, doctor.ID); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	s.invalidate(ctx, email)
	return nil
}

// AssignFacility links a doctor to a facility; repeating the call is a no-op.
func (s *Service) AssignFacility(ctx context.Context, email string, facilityID uuid.UUID) (*model.DoctorResponse, error) {
	doctor, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if _, err := s.facilities.Get(ctx, facilityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeFacilityNotFound, "facility %s not found", facilityID)
		}
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}

	if err := s.repo.AssignFacility(ctx, doctor.ID, facilityID); err != nil {
		return nil, fmt.Errorf("failed to assign facility: %w", err)
	}

	s.invalidate(ctx, doctor.Email)
	return s.toResponse(ctx, doctor)
}

func (s *Service) RemoveFacility(ctx context.Context, email string, facilityID uuid.UUID) error {
	doctor, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveFacility(ctx, doctor.ID, facilityID); err != nil {
		return fmt.Errorf("failed to remove facility: %w", err)
	}
	s.invalidate(ctx, doctor.Email)
	return nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	doctor, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeDoctorNotFound, "doctor with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) toResponse(ctx context.Context, doctor *model.Doctor) (*model.DoctorResponse, error) {
	facilityIDs, err := s.repo.ListFacilityIDs(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor facilities: %w", err)
	}
	if facilityIDs == nil {
		facilityIDs = []uuid.UUID{}
	}
	return &model.DoctorResponse{
		ID:          doctor.ID,
		Email:       doctor.Email,
		FacilityIDs: facilityIDs,
	}, nil
}

func (s *Service) invalidate(ctx context.Context, emails ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(emails))
	for _, e := range emails {
		keys = append(keys, cacheKey(e))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate doctor cache")
	}
}
