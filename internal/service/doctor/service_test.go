package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/cache"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

type fakeDoctorRepo struct {
	byID       map[uuid.UUID]*model.Doctor
	byEmail    map[string]*model.Doctor
	facilities map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		byID:       make(map[uuid.UUID]*model.Doctor),
		byEmail:    make(map[string]*model.Doctor),
		facilities: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	if _, ok := f.byEmail[d.Email]; ok {
		return repository.ErrDuplicate
	}
	d.ID = uuid.New()
	f.byID[d.ID] = d
	f.byEmail[d.Email] = d
	return nil
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	d, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	if _, ok := f.byID[d.ID]; !ok {
		return repository.ErrNotFound
	}
	if other, ok := f.byEmail[d.Email]; ok && other.ID != d.ID {
		return repository.ErrDuplicate
	}
	// The service mutates the shared pointer before calling Update, so the
	// stored record's Email already holds the new value; drop any key still
	// pointing at this doctor instead of trusting existing.Email.
	for email, doc := range f.byEmail {
		if doc.ID == d.ID {
			delete(f.byEmail, email)
		}
	}
	f.byID[d.ID] = d
	f.byEmail[d.Email] = d
	return nil
}

func (f *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	d, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(f.byEmail, d.Email)
	delete(f.byID, id)
	return nil
}

func (f *fakeDoctorRepo) List(_ context.Context, _ model.Pagination) ([]*model.Doctor, int64, error) {
	out := make([]*model.Doctor, 0, len(f.byID))
	for _, d := range f.byID {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDoctorRepo) ListFacilityIDs(_ context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range f.facilities[doctorID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeDoctorRepo) AssignFacility(_ context.Context, doctorID, facilityID uuid.UUID) error {
	if f.facilities[doctorID] == nil {
		f.facilities[doctorID] = make(map[uuid.UUID]bool)
	}
	f.facilities[doctorID][facilityID] = true
	return nil
}

func (f *fakeDoctorRepo) RemoveFacility(_ context.Context, doctorID, facilityID uuid.UUID) error {
	delete(f.facilities[doctorID], facilityID)
	return nil
}

type fakeFacilityRepo struct {
	byID map[uuid.UUID]*model.Facility
}

func (f *fakeFacilityRepo) Get(_ context.Context, id uuid.UUID) (*model.Facility, error) {
	fac, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return fac, nil
}

func (f *fakeFacilityRepo) Create(context.Context, *model.Facility) error { return nil }
func (f *fakeFacilityRepo) GetByName(context.Context, string) (*model.Facility, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeFacilityRepo) Update(context.Context, *model.Facility) error { return nil }
func (f *fakeFacilityRepo) Delete(context.Context, uuid.UUID) error       { return nil }
func (f *fakeFacilityRepo) List(context.Context, model.Pagination) ([]*model.Facility, int64, error) {
	return nil, 0, nil
}
func (f *fakeFacilityRepo) ListDoctorIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (f *fakeFacilityRepo) CreateWithDoctors(context.Context, *model.Facility, []*model.Doctor) error {
	return nil
}

func newTestService() (*Service, *fakeDoctorRepo, *fakeFacilityRepo) {
	doctors := newFakeDoctorRepo()
	facilities := &fakeFacilityRepo{byID: make(map[uuid.UUID]*model.Facility)}
	svc := NewService(
		doctors,
		facilities,
		security.NewBcryptHasher(4),
		cache.NewMemoryCache(time.Minute, time.Minute),
		logger.NewLogger(nil),
	)
	return svc, doctors, facilities
}

func TestCreateDoctor(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		Email:    "doc@clinic.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc@clinic.test", resp.Email)
	assert.Empty(t, resp.FacilityIDs)

	// Stored password is hashed, never the plaintext.
	stored := repo.byEmail["doc@clinic.test"]
	assert.NotEqual(t, "s3cret-pass", stored.Password)

	_, err = svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		Email:    "doc@clinic.test",
		Password: "another-pass",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeEmailInUse))
}

func TestGetDoctorByEmailCaches(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		Email:    "doc@clinic.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	first, err := svc.GetDoctorByEmail(context.Background(), "doc@clinic.test")
	require.NoError(t, err)

	// Serve from cache even after the backing row disappears.
	delete(repo.byEmail, "doc@clinic.test")
	cached, err := svc.GetDoctorByEmail(context.Background(), "doc@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, first.ID, cached.ID)
}

func TestGetDoctorByEmailNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetDoctorByEmail(context.Background(), "nobody@clinic.test")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDoctorNotFound))
}

func TestUpdateDoctorEmailUniqueness(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{Email: "a@clinic.test", Password: "password-a"})
	require.NoError(t, err)
	_, err = svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{Email: "b@clinic.test", Password: "password-b"})
	require.NoError(t, err)

	taken := "b@clinic.test"
	_, err = svc.UpdateDoctorByEmail(context.Background(), "a@clinic.test", &model.UpdateDoctorRequest{Email: &taken})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeEmailInUse))

	fresh := "c@clinic.test"
	resp, err := svc.UpdateDoctorByEmail(context.Background(), "a@clinic.test", &model.UpdateDoctorRequest{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, fresh, resp.Email)

	_, err = svc.GetDoctorByEmail(context.Background(), "a@clinic.test")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDoctorNotFound))
}

func TestAssignFacilityIdempotent(t *testing.T) {
	svc, repo, facilities := newTestService()

	created, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{Email: "doc@clinic.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	facility := &model.Facility{Base: model.Base{ID: uuid.New()}, Name: "Main Clinic"}
	facilities.byID[facility.ID] = facility

	for i := 0; i < 2; i++ {
		resp, err := svc.AssignFacility(context.Background(), created.Email, facility.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{facility.ID}, resp.FacilityIDs)
	}
	assert.Len(t, repo.facilities[created.ID], 1)

	require.NoError(t, svc.RemoveFacility(context.Background(), created.Email, facility.ID))
	assert.Empty(t, repo.facilities[created.ID])
}

func TestAssignFacilityNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{Email: "doc@clinic.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.AssignFacility(context.Background(), created.Email, uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFacilityNotFound))

	_, err = svc.AssignFacility(context.Background(), "ghost@clinic.test", uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDoctorNotFound))
}

func TestChangePassword(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{Email: "doc@clinic.test", Password: "original-pass"})
	require.NoError(t, err)
	before := repo.byEmail["doc@clinic.test"].Password

	require.NoError(t, svc.ChangePassword(context.Background(), "doc@clinic.test", "replacement-pass"))
	assert.NotEqual(t, before, repo.byEmail["doc@clinic.test"].Password)

	err = svc.ChangePassword(context.Background(), "nobody@clinic.test", "whatever-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDoctorNotFound))
}

func TestDeleteDoctorByEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{Email: "doc@clinic.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDoctorByEmail(context.Background(), "doc@clinic.test"))
	err = svc.DeleteDoctorByEmail(context.Background(), "doc@clinic.test")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDoctorNotFound))
}
