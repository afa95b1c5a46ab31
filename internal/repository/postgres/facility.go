package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
)

const facilityColumns = `id, name, city, postcode, street, building_number, created_at, updated_at`

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	query := `
		INSERT INTO facilities (id, name, city, postcode, street, building_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	facility.ID = uuid.New()
	facility.CreatedAt = time.Now()
	facility.UpdatedAt = facility.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		facility.ID,
		facility.Name,
		facility.City,
		facility.Postcode,
		facility.Street,
		facility.BuildingNumber,
		facility.CreatedAt,
		facility.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create facility: %w", translateErr(err))
	}
	return nil
}

func (r *facilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	query := fmt.Sprintf(`SELECT %s FROM facilities WHERE id = $1`, facilityColumns)

	var facility model.Facility
	if err := r.db.GetContext(ctx, &facility, query, id); err != nil {
		return nil, fmt.Errorf("failed to get facility: %w", translateErr(err))
	}
	return &facility, nil
}

func (r *facilityRepository) GetByName(ctx context.Context, name string) (*model.Facility, error) {
	query := fmt.Sprintf(`SELECT %s FROM facilities WHERE name = $1`, facilityColumns)

	var facility model.Facility
	if err := r.db.GetContext(ctx, &facility, query, name); err != nil {
		return nil, fmt.Errorf("failed to get facility by name: %w", translateErr(err))
	}
	return &facility, nil
}

func (r *facilityRepository) Update(ctx context.Context, facility *model.Facility) error {
	query := `
		UPDATE facilities
		SET name = $1, city = $2, postcode = $3, street = $4, building_number = $5, updated_at = $6
		WHERE id = $7
	`
	facility.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		facility.Name,
		facility.City,
		facility.Postcode,
		facility.Street,
		facility.BuildingNumber,
		facility.UpdatedAt,
		facility.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update facility: %w", translateErr(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("facility %s: %w", facility.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *facilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("facility %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *facilityRepository) List(ctx context.Context, p model.Pagination) ([]*model.Facility, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM facilities`); err != nil {
		return nil, 0, fmt.Errorf("failed to count facilities: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM facilities
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`, facilityColumns)

	var facilities []*model.Facility
	if err := r.db.SelectContext(ctx, &facilities, query, p.PageSize, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list facilities: %w", err)
	}
	return facilities, total, nil
}

func (r *facilityRepository) ListDoctorIDs(ctx context.Context, facilityID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT doctor_id FROM doctor_facilities WHERE facility_id = $1 ORDER BY doctor_id`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, facilityID); err != nil {
		return nil, fmt.Errorf("failed to list facility doctors: %w", err)
	}
	return ids, nil
}

// CreateWithDoctors reuses existing facility/doctor rows by their natural keys
// and links everything inside one transaction.
func (r *facilityRepository) CreateWithDoctors(ctx context.Context, facility *model.Facility, doctors []*model.Doctor) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	insertFacility := `
		INSERT INTO facilities (id, name, city, postcode, street, building_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO NOTHING
	`
	facility.ID = uuid.New()
	facility.CreatedAt = now
	facility.UpdatedAt = now
	if _, err := tx.ExecContext(ctx, insertFacility,
		facility.ID, facility.Name, facility.City, facility.Postcode,
		facility.Street, facility.BuildingNumber, facility.CreatedAt, facility.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert facility: %w", err)
	}
	if err := tx.GetContext(ctx, &facility.ID, `SELECT id FROM facilities WHERE name = $1`, facility.Name); err != nil {
		return fmt.Errorf("failed to resolve facility id: %w", err)
	}

	insertDoctor := `
		INSERT INTO doctors (id, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`
	link := `
		INSERT INTO doctor_facilities (doctor_id, facility_id)
		VALUES ($1, $2)
		ON CONFLICT (doctor_id, facility_id) DO NOTHING
	`
	for _, doctor := range doctors {
		doctor.ID = uuid.New()
		doctor.CreatedAt = now
		doctor.UpdatedAt = now
		if _, err := tx.ExecContext(ctx, insertDoctor,
			doctor.ID, doctor.Email, doctor.Password, doctor.CreatedAt, doctor.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert doctor %s: %w", doctor.Email, err)
		}
		if err := tx.GetContext(ctx, &doctor.ID, `SELECT id FROM doctors WHERE email = $1`, doctor.Email); err != nil {
			return fmt.Errorf("failed to resolve doctor id: %w", err)
		}
		if _, err := tx.ExecContext(ctx, link, doctor.ID, facility.ID); err != nil {
			return fmt.Errorf("failed to link doctor to facility: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit facility: %w", err)
	}
	return nil
}
