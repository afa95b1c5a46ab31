package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/schedule"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
)

// Notifier sends the booking confirmation to the patient. Failures are
// logged, never surfaced to the caller.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to string, visit *model.Visit) error
}

type Service struct {
	visits   repository.VisitRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	notifier Notifier
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time
}

func NewService(
	visits repository.VisitRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	notifier Notifier,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		visits:   visits,
		doctors:  doctors,
		patients: patients,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// CreateOpenSlot validates the interval, checks the doctor exists and
// persists a new open visit. The repository runs the conflict check and the
// insert in one transaction, so overlapping slots for a doctor cannot race in.
func (s *Service) CreateOpenSlot(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*model.VisitResponse, error) {
	if err := schedule.ValidateSlot(start, end, s.now()); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeDoctorNotFound, "doctor %s not found", doctorID)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	visit := &model.Visit{
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   end,
	}

	if err := s.visits.CreateSlot(ctx, visit); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			if s.metrics != nil {
				s.metrics.SchedulingConflicts.Inc()
			}
			return nil, apperrors.Conflict(apperrors.CodeSchedulingConflict, "doctor already has a visit at this time")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound(apperrors.CodeDoctorNotFound, "doctor %s not found", doctorID)
		default:
			return nil, fmt.Errorf("failed to create visit: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.SlotsCreated.Inc()
	}

	summary, err := s.doctorSummary(ctx, doctor)
	if err != nil {
		return nil, err
	}
	return toResponse(visit, summary), nil
}

// BookVisit claims an open visit for a patient. The repository re-checks the
// visit is still open under a row lock, so a retry after a successful booking
// always fails with AlreadyBooked.
func (s *Service) BookVisit(ctx context.Context, visitID, patientID uuid.UUID) (*model.VisitResponse, error) {
	visit, err := s.visits.Get(ctx, visitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeVisitNotFound, "visit %s not found", visitID)
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	if !visit.IsAvailable() {
		return nil, apperrors.Conflict(apperrors.CodeAlreadyBooked, "visit is already booked")
	}

	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(apperrors.CodePatientNotFound, "patient %s not found", patientID)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	booked, err := s.visits.Book(ctx, visitID, patientID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyBooked):
			return nil, apperrors.Conflict(apperrors.CodeAlreadyBooked, "visit is already booked")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound(apperrors.CodeVisitNotFound, "visit %s not found", visitID)
		default:
			return nil, fmt.Errorf("failed to book visit: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.VisitsBooked.Inc()
	}

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, patient.Email, booked); err != nil {
			s.log.Error(err, "failed to send booking confirmation", "visit_id", visitID.String())
		}
	}

	doctor, err := s.doctors.Get(ctx, booked.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	summary, err := s.doctorSummary(ctx, doctor)
	if err != nil {
		return nil, err
	}
	return toResponse(booked, summary), nil
}

// ListVisits returns one stable page of visit views plus the total count.
func (s *Service) ListVisits(ctx context.Context, p model.Pagination) ([]*model.VisitResponse, int64, error) {
	if p.Page < 0 || p.PageSize < 0 {
		return nil, 0, apperrors.Validation(apperrors.CodeInvalidPageRequest, "page and page_size must not be negative")
	}
	p.Normalize()

	visits, total, err := s.visits.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list visits: %w", err)
	}

	// One doctor summary per distinct doctor on the page.
	summaries := make(map[uuid.UUID]model.DoctorSummary)
	responses := make([]*model.VisitResponse, 0, len(visits))
	for _, v := range visits {
		summary, ok := summaries[v.DoctorID]
		if !ok {
			doctor, err := s.doctors.Get(ctx, v.DoctorID)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to get doctor: %w", err)
			}
			built, err := s.doctorSummary(ctx, doctor)
			if err != nil {
				return nil, 0, err
			}
			summary = built
			summaries[v.DoctorID] = summary
		}
		responses = append(responses, toResponse(v, summary))
	}
	return responses, total, nil
}

func (s *Service) doctorSummary(ctx context.Context, doctor *model.Doctor) (model.DoctorSummary, error) {
	facilityIDs, err := s.doctors.ListFacilityIDs(ctx, doctor.ID)
	if err != nil {
		return model.DoctorSummary{}, fmt.Errorf("failed to list doctor facilities: %w", err)
	}
	if facilityIDs == nil {
		facilityIDs = []uuid.UUID{}
	}
	return model.DoctorSummary{
		ID:          doctor.ID,
		Email:       doctor.Email,
		FacilityIDs: facilityIDs,
	}, nil
}

func toResponse(v *model.Visit, doctor model.DoctorSummary) *model.VisitResponse {
	return &model.VisitResponse{
		ID:          v.ID,
		Doctor:      doctor,
		StartTime:   v.StartTime,
		EndTime:     v.EndTime,
		IsAvailable: v.IsAvailable(),
	}
}
