package shift

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guardhq/internal/schedule/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// PostgresStore persists shifts in PostgreSQL (see migrations/0001_init.sql).
// An unassigned shift is stored with a NULL officer_id and surfaces as the
// nil OfficerID.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed shift store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, shift *models.Shift) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shifts (id, site_id, officer_id, start_time, end_time, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		shift.ID.String(), shift.SiteID.String(), nullOfficer(shift.OfficerID),
		shift.StartTime, shift.EndTime, string(shift.Status),
	)
	if err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, site_id, officer_id, start_time, end_time, status
		 FROM shifts WHERE id = $1`,
		shiftID.String(),
	)
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "shift not found")
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	return shift, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Shift, error) {
	return s.query(ctx,
		`SELECT id, site_id, officer_id, start_time, end_time, status
		 FROM shifts ORDER BY start_time`)
}

func (s *PostgresStore) ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*models.Shift, error) {
	return s.query(ctx,
		`SELECT id, site_id, officer_id, start_time, end_time, status
		 FROM shifts WHERE officer_id = $1 ORDER BY start_time`,
		officerID.String())
}

func (s *PostgresStore) query(ctx context.Context, sqlText string, args ...any) ([]*models.Shift, error) {
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*models.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("list shifts: %w", err)
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, shift *models.Shift) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET site_id = $2, officer_id = $3, start_time = $4, end_time = $5, status = $6
		 WHERE id = $1`,
		shift.ID.String(), shift.SiteID.String(), nullOfficer(shift.OfficerID),
		shift.StartTime, shift.EndTime, string(shift.Status),
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	return requireRow(result, "shift not found")
}

func (s *PostgresStore) Delete(ctx context.Context, shiftID id.ShiftID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, shiftID.String())
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	return requireRow(result, "shift not found")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*models.Shift, error) {
	var (
		shift      models.Shift
		rawID      string
		rawSite    string
		rawOfficer sql.NullString
		status     string
	)
	if err := row.Scan(&rawID, &rawSite, &rawOfficer, &shift.StartTime, &shift.EndTime, &status); err != nil {
		return nil, err
	}
	shiftID, err := id.ParseShiftID(rawID)
	if err != nil {
		return nil, err
	}
	siteID, err := id.ParseSiteID(rawSite)
	if err != nil {
		return nil, err
	}
	shift.ID = shiftID
	shift.SiteID = siteID
	shift.Status = models.ShiftStatus(status)
	if rawOfficer.Valid {
		officerID, err := id.ParseOfficerID(rawOfficer.String)
		if err != nil {
			return nil, err
		}
		shift.OfficerID = officerID
	}
	return &shift, nil
}

func nullOfficer(officerID id.OfficerID) sql.NullString {
	if officerID.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: officerID.String(), Valid: true}
}

func requireRow(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	return nil
}
