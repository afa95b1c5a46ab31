package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/auth"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type Service struct {
	doctors repository.DoctorRepository
	hasher  security.PasswordHasher
	jwt     auth.JWTService
}

func NewService(doctors repository.DoctorRepository, hasher security.PasswordHasher, jwt auth.JWTService) *Service {
	return &Service{doctors: doctors, hasher: hasher, jwt: jwt}
}

// Login authenticates a doctor and returns a signed access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	doctor, err := s.doctors.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	if err := s.hasher.Compare(doctor.Password, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.jwt.GenerateAccessToken(doctor.ID, doctor.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.LoginResponse{AccessToken: token}, nil
}
