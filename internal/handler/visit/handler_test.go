package visit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/schedule"
	visitService "github.com/clinicdesk/clinic-api/internal/service/visit"
	"github.com/clinicdesk/clinic-api/pkg/logger"
)

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) Create(context.Context, *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) GetByEmail(context.Context, string) (*model.Doctor, error) {
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

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) GetByEmail(context.Context, string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}
func (f *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(context.Context, uuid.UUID) error      { return nil }
func (f *fakePatientRepo) List(context.Context, model.Pagination) ([]*model.Patient, int64, error) {
	return nil, 0, nil
}

type fakeVisitRepo struct {
	visits []*model.Visit
}

func (f *fakeVisitRepo) Get(_ context.Context, id uuid.UUID) (*model.Visit, error) {
	for _, v := range f.visits {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVisitRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, v := range f.visits {
		if v.DoctorID == doctorID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVisitRepo) List(_ context.Context, p model.Pagination) ([]*model.Visit, int64, error) {
	return f.visits, int64(len(f.visits)), nil
}

func (f *fakeVisitRepo) CreateSlot(_ context.Context, visit *model.Visit) error {
	for _, v := range f.visits {
		if v.DoctorID == visit.DoctorID && schedule.Overlaps(v.StartTime, v.EndTime, visit.StartTime, visit.EndTime) {
			return repository.ErrConflict
		}
	}
	visit.ID = uuid.New()
	f.visits = append(f.visits, visit)
	return nil
}

func (f *fakeVisitRepo) Book(_ context.Context, visitID, patientID uuid.UUID) (*model.Visit, error) {
	for _, v := range f.visits {
		if v.ID == visitID {
			if v.PatientID != nil {
				return nil, repository.ErrAlreadyBooked
			}
			pid := patientID
			v.PatientID = &pid
			return v, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fixture struct {
	engine   *gin.Engine
	doctorID uuid.UUID
	visits   *fakeVisitRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	doctorID := uuid.New()
	doctors := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		doctorID: {Base: model.Base{ID: doctorID}, Email: "doc@clinic.test"},
	}}
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{}}
	visits := &fakeVisitRepo{}

	svc := visitService.NewService(visits, doctors, patients, nil, nil, logger.NewLogger(nil))

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)

	return &fixture{engine: engine, doctorID: doctorID, visits: visits}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func slot(start time.Time) (time.Time, time.Time) {
	return start, start.Add(30 * time.Minute)
}

func futureSlot() (time.Time, time.Time) {
	return slot(time.Now().Add(24 * time.Hour).Truncate(time.Hour))
}

func TestCreateVisitEndpoint(t *testing.T) {
	f := newFixture(t)
	start, end := futureSlot()

	w := f.do(t, http.MethodPost, "/api/v1/visits", gin.H{
		"doctor_id":  f.doctorID,
		"start_time": start,
		"end_time":   end,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID          uuid.UUID `json:"id"`
			IsAvailable bool      `json:"is_available"`
			Doctor      struct {
				Email string `json:"email"`
			} `json:"doctor"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.IsAvailable)
	assert.Equal(t, "doc@clinic.test", resp.Data.Doctor.Email)
}

func TestCreateVisitEndpointErrors(t *testing.T) {
	f := newFixture(t)
	start, end := futureSlot()

	tests := []struct {
		name   string
		body   gin.H
		status int
		code   string
	}{
		{
			name:   "missing fields",
			body:   gin.H{"doctor_id": f.doctorID},
			status: http.StatusBadRequest,
			code:   "INVALID_REQUEST",
		},
		{
			name:   "unknown doctor",
			body:   gin.H{"doctor_id": uuid.New(), "start_time": start, "end_time": end},
			status: http.StatusNotFound,
			code:   "DOCTOR_NOT_FOUND",
		},
		{
			name:   "past slot",
			body:   gin.H{"doctor_id": f.doctorID, "start_time": start.Add(-48 * time.Hour), "end_time": end.Add(-48 * time.Hour)},
			status: http.StatusBadRequest,
			code:   "PAST_SLOT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/v1/visits", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestCreateVisitEndpointConflict(t *testing.T) {
	f := newFixture(t)
	start, end := futureSlot()
	body := gin.H{"doctor_id": f.doctorID, "start_time": start, "end_time": end}

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/v1/visits", body).Code)

	w := f.do(t, http.MethodPost, "/api/v1/visits", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SCHEDULING_CONFLICT")
}

func TestBookVisitEndpoint(t *testing.T) {
	f := newFixture(t)
	start, end := futureSlot()

	visit := &model.Visit{Base: model.Base{ID: uuid.New()}, DoctorID: f.doctorID, StartTime: start, EndTime: end}
	f.visits.visits = append(f.visits.visits, visit)

	w := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/visits/%s/book", visit.ID), gin.H{"patient_id": uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PATIENT_NOT_FOUND")

	w = f.do(t, http.MethodPost, "/api/v1/visits/not-a-uuid/book", gin.H{"patient_id": uuid.New()})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/visits/%s/book", uuid.New()), gin.H{"patient_id": uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "VISIT_NOT_FOUND")
}

func TestListVisitsEndpoint(t *testing.T) {
	f := newFixture(t)
	start, end := futureSlot()
	f.visits.visits = append(f.visits.visits, &model.Visit{
		Base: model.Base{ID: uuid.New()}, DoctorID: f.doctorID, StartTime: start, EndTime: end,
	})

	w := f.do(t, http.MethodGet, "/api/v1/visits?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Data       []json.RawMessage `json:"data"`
			Pagination struct {
				Page     int   `json:"page"`
				PageSize int   `json:"page_size"`
				Total    int64 `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Data, 1)
	assert.Equal(t, 1, resp.Data.Pagination.Page)
	assert.Equal(t, int64(1), resp.Data.Pagination.Total)

	w = f.do(t, http.MethodGet, "/api/v1/visits?page=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_PAGE_REQUEST")
}
