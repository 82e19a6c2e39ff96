package officer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"guardhq/internal/roster/models"
	id "guardhq/pkg/domain"
	dErrors "guardhq/pkg/domain-errors"
)

// PostgresStore persists officers in PostgreSQL (see migrations/0001_init.sql).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed officer store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, officer *models.Officer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO officers (id, full_name, skills, base_rate, employment_status)
		 VALUES ($1, $2, $3, $4, $5)`,
		officer.ID.String(), officer.FullName, pq.Array(officer.Skills),
		officer.BaseRate, string(officer.EmploymentStatus),
	)
	if err != nil {
		return fmt.Errorf("create officer: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, officerID id.OfficerID) (*models.Officer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, skills, base_rate, employment_status
		 FROM officers WHERE id = $1`,
		officerID.String(),
	)
	officer, err := scanOfficer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "officer not found")
		}
		return nil, fmt.Errorf("get officer: %w", err)
	}
	return officer, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Officer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, full_name, skills, base_rate, employment_status
		 FROM officers ORDER BY full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}
	defer rows.Close()

	var officers []*models.Officer
	for rows.Next() {
		officer, err := scanOfficer(rows)
		if err != nil {
			return nil, fmt.Errorf("list officers: %w", err)
		}
		officers = append(officers, officer)
	}
	return officers, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, officer *models.Officer) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE officers SET full_name = $2, skills = $3, base_rate = $4, employment_status = $5
		 WHERE id = $1`,
		officer.ID.String(), officer.FullName, pq.Array(officer.Skills),
		officer.BaseRate, string(officer.EmploymentStatus),
	)
	if err != nil {
		return fmt.Errorf("update officer: %w", err)
	}
	return requireRow(result, "officer not found")
}

func (s *PostgresStore) Delete(ctx context.Context, officerID id.OfficerID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM officers WHERE id = $1`, officerID.String())
	if err != nil {
		return fmt.Errorf("delete officer: %w", err)
	}
	return requireRow(result, "officer not found")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOfficer(row rowScanner) (*models.Officer, error) {
	var (
		officer models.Officer
		rawID   string
		skills  pq.StringArray
		status  string
	)
	if err := row.Scan(&rawID, &officer.FullName, &skills, &officer.BaseRate, &status); err != nil {
		return nil, err
	}
	officerID, err := id.ParseOfficerID(rawID)
	if err != nil {
		return nil, err
	}
	officer.ID = officerID
	officer.Skills = skills
	officer.EmploymentStatus = models.EmploymentStatus(status)
	return &officer, nil
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
