package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (id, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Email,
		doctor.Password,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", translateErr(err))
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT id, email, password, created_at, updated_at FROM doctors WHERE id = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", translateErr(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `SELECT id, email, password, created_at, updated_at FROM doctors WHERE email = $1`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, email); err != nil {
		return nil, fmt.Errorf("failed to get doctor by email: %w", translateErr(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `UPDATE doctors SET email = $1, password = $2, updated_at = $3 WHERE id = $4`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, doctor.Email, doctor.Password, doctor.UpdatedAt, doctor.ID)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", translateErr(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor %s: %w", doctor.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context, p model.Pagination) ([]*model.Doctor, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM doctors`); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	query := `
		SELECT id, email, password, created_at, updated_at
		FROM doctors
		ORDER BY email ASC
		LIMIT $1 OFFSET $2
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, p.PageSize, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, total, nil
}

func (r *doctorRepository) ListFacilityIDs(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT facility_id FROM doctor_facilities WHERE doctor_id = $1 ORDER BY facility_id`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor facilities: %w", err)
	}
	return ids, nil
}

// AssignFacility is idempotent: linking an already-linked pair is a no-op.
func (r *doctorRepository) AssignFacility(ctx context.Context, doctorID, facilityID uuid.UUID) error {
	query := `
		INSERT INTO doctor_facilities (doctor_id, facility_id)
		VALUES ($1, $2)
		ON CONFLICT (doctor_id, facility_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, doctorID, facilityID); err != nil {
		return fmt.Errorf("failed to assign doctor to facility: %w", err)
	}
	return nil
}

func (r *doctorRepository) RemoveFacility(ctx context.Context, doctorID, facilityID uuid.UUID) error {
	query := `DELETE FROM doctor_facilities WHERE doctor_id = $1 AND facility_id = $2`
	if _, err := r.db.ExecContext(ctx, query, doctorID, facilityID); err != nil {
		return fmt.Errorf("failed to remove doctor from facility: %w", err)
	}
	return nil
}
