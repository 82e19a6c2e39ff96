package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guardhq/internal/schedule/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// PostgresStore persists availability records in PostgreSQL, one row per
// (officer, date) enforced by the table's primary key.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed availability store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, record *models.Availability) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO availability (officer_id, date, available, start_time, end_time, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (officer_id, date) DO UPDATE SET
		   available = EXCLUDED.available,
		   start_time = EXCLUDED.start_time,
		   end_time = EXCLUDED.end_time,
		   notes = EXCLUDED.notes`,
		record.OfficerID.String(), record.Date, record.Available,
		record.StartTime, record.EndTime, record.Notes,
	)
	if err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, officerID id.OfficerID, date string) (*models.Availability, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT officer_id, date, available, start_time, end_time, notes
		 FROM availability WHERE officer_id = $1 AND date = $2`,
		officerID.String(), date,
	)
	record, err := scanAvailability(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "availability record not found")
		}
		return nil, fmt.Errorf("get availability: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*models.Availability, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT officer_id, date, available, start_time, end_time, notes
		 FROM availability WHERE officer_id = $1 ORDER BY date`,
		officerID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	var records []*models.Availability
	for rows.Next() {
		record, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("list availability: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAvailability(row rowScanner) (*models.Availability, error) {
	var (
		record models.Availability
		rawID  string
	)
	if err := row.Scan(&rawID, &record.Date, &record.Available,
		&record.StartTime, &record.EndTime, &record.Notes); err != nil {
		return nil, err
	}
	officerID, err := id.ParseOfficerID(rawID)
	if err != nil {
		return nil, err
	}
	record.OfficerID = officerID
	return &record, nil
}
