package site

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

// PostgresStore persists sites in PostgreSQL (see migrations/0001_init.sql).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed site store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, site *models.Site) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sites (id, name, address, required_certifications)
		 VALUES ($1, $2, $3, $4)`,
		site.ID.String(), site.Name, site.Address, pq.Array(site.RequiredCertifications),
	)
	if err != nil {
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, siteID id.SiteID) (*models.Site, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, address, required_certifications FROM sites WHERE id = $1`,
		siteID.String(),
	)
	site, err := scanSite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "site not found")
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return site, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Site, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, required_certifications FROM sites ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("list sites: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, site *models.Site) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE sites SET name = $2, address = $3, required_certifications = $4 WHERE id = $1`,
		site.ID.String(), site.Name, site.Address, pq.Array(site.RequiredCertifications),
	)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	return requireRow(result, "site not found")
}

func (s *PostgresStore) Delete(ctx context.Context, siteID id.SiteID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = $1`, siteID.String())
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return requireRow(result, "site not found")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSite(row rowScanner) (*models.Site, error) {
	var (
		site  models.Site
		rawID string
		certs pq.StringArray
	)
	if err := row.Scan(&rawID, &site.Name, &site.Address, &certs); err != nil {
		return nil, err
	}
	siteID, err := id.ParseSiteID(rawID)
	if err != nil {
		return nil, err
	}
	site.ID = siteID
	site.RequiredCertifications = certs
	return &site, nil
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
