package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/schedule"
)

const visitColumns = `id, doctor_id, patient_id, start_time, end_time, created_at, updated_at`

func (r *visitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE id = $1`, visitColumns)

	var visit model.Visit
	if err := r.db.GetContext(ctx, &visit, query, id); err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", translateErr(err))
	}
	return &visit, nil
}

func (r *visitRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE doctor_id = $1 ORDER BY start_time ASC`, visitColumns)

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) List(ctx context.Context, p model.Pagination) ([]*model.Visit, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM visits`); err != nil {
		return nil, 0, fmt.Errorf("failed to count visits: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM visits
		ORDER BY start_time ASC, id ASC
		LIMIT $1 OFFSET $2
	`, visitColumns)

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, p.PageSize, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, total, nil
}

// CreateSlot serializes slot creation per doctor: the doctor row is locked
// for the duration of the transaction, so the conflict check and the insert
// cannot interleave with a concurrent CreateSlot for the same doctor.
func (r *visitRepository) CreateSlot(ctx context.Context, visit *model.Visit) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var doctorID uuid.UUID
	if err := tx.GetContext(ctx, &doctorID, `SELECT id FROM doctors WHERE id = $1 FOR UPDATE`, visit.DoctorID); err != nil {
		return fmt.Errorf("failed to lock doctor row: %w", translateErr(err))
	}

	var existing []*model.Visit
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE doctor_id = $1`, visitColumns)
	if err := tx.SelectContext(ctx, &existing, query, visit.DoctorID); err != nil {
		return fmt.Errorf("failed to read doctor visits: %w", err)
	}

	if schedule.HasConflict(existing, visit.StartTime, visit.EndTime) {
		return repository.ErrConflict
	}

	visit.ID = uuid.New()
	visit.CreatedAt = time.Now()
	visit.UpdatedAt = visit.CreatedAt

	insert := `
		INSERT INTO visits (id, doctor_id, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, insert,
		visit.ID,
		visit.DoctorID,
		visit.StartTime,
		visit.EndTime,
		visit.CreatedAt,
		visit.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visit: %w", err)
	}
	return nil
}

// Book locks the visit row before re-checking it is still open, so of two
// racing bookings exactly one commits and the other sees ErrAlreadyBooked.
func (r *visitRepository) Book(ctx context.Context, visitID, patientID uuid.UUID) (*model.Visit, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var visit model.Visit
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE id = $1 FOR UPDATE`, visitColumns)
	if err := tx.GetContext(ctx, &visit, query, visitID); err != nil {
		return nil, fmt.Errorf("failed to lock visit row: %w", translateErr(err))
	}

	if visit.PatientID != nil {
		return nil, repository.ErrAlreadyBooked
	}

	visit.PatientID = &patientID
	visit.UpdatedAt = time.Now()

	update := `UPDATE visits SET patient_id = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, update, patientID, visit.UpdatedAt, visitID); err != nil {
		return nil, fmt.Errorf("failed to book visit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}
	return &visit, nil
}
