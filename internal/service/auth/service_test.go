package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	pkgauth "github.com/clinicdesk/clinic-api/pkg/auth"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type fakeDoctorRepo struct {
	byEmail map[string]*model.Doctor
}

func (f *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	d, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) Create(context.Context, *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Get(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeDoctorRepo) Update(context.Context, *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Delete(context.Context, uuid.UUID) error     { return nil }
func (f *fakeDoctorRepo) List(context.Context, model.Pagination) ([]*model.Doctor, int64, error) {
	return nil, 0, nil
}
func (f *fakeDoctorRepo) ListFacilityIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) AssignFacility(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakeDoctorRepo) RemoveFacility(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func TestLogin(t *testing.T) {
	hasher := security.NewBcryptHasher(4)
	hashed, err := hasher.Hash("correct-pass")
	require.NoError(t, err)

	doctorID := uuid.New()
	repo := &fakeDoctorRepo{byEmail: map[string]*model.Doctor{
		"doc@clinic.test": {Base: model.Base{ID: doctorID}, Email: "doc@clinic.test", Password: hashed},
	}}
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	svc := NewService(repo, hasher, jwtSvc)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: "doc@clinic.test", Password: "correct-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := jwtSvc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, doctorID, claims.DoctorID)
	assert.Equal(t, "doc@clinic.test", claims.Email)

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "doc@clinic.test", Password: "wrong-pass"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "nobody@clinic.test", Password: "correct-pass"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials))
}
