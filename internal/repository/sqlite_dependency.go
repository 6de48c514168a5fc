package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

const dependencyColumns = `id, project_id, source_id, target_id, type, created_at`

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	query := `INSERT INTO dependencies (` + dependencyColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ProjectID,
		d.SourceID,
		d.TargetID,
		string(d.Type),
		stampArg(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE id = ?`
	d, err := scanDependencyRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerrors.NotFound("dependency", id)
		}
		return nil, fmt.Errorf("scanning dependency: %w", err)
	}
	return d, nil
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE project_id = ? ORDER BY created_at, rowid`
	return r.queryDependencies(ctx, query, projectID)
}

func (r *SQLiteDependencyRepo) ListByActivity(ctx context.Context, activityID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies
		WHERE source_id = ? OR target_id = ? ORDER BY created_at, rowid`
	return r.queryDependencies(ctx, query, activityID, activityID)
}

func (r *SQLiteDependencyRepo) Update(ctx context.Context, d *domain.Dependency) error {
	query := `UPDATE dependencies SET source_id = ?, target_id = ?, type = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, d.SourceID, d.TargetID, string(d.Type), d.ID)
	if err != nil {
		return fmt.Errorf("updating dependency: %w", err)
	}
	return checkAffected(res, gerrors.NotFound("dependency", d.ID))
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dependencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return checkAffected(res, gerrors.NotFound("dependency", id))
}

func (r *SQLiteDependencyRepo) queryDependencies(ctx context.Context, query string, args ...any) ([]domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	var deps []domain.Dependency
	for rows.Next() {
		d, err := scanDependencyRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dependency row: %w", err)
		}
		deps = append(deps, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

func scanDependencyRow(s rowScanner) (*domain.Dependency, error) {
	var d domain.Dependency
	var typeStr, createdAtStr string
	if err := s.Scan(&d.ID, &d.ProjectID, &d.SourceID, &d.TargetID, &typeStr, &createdAtStr); err != nil {
		return nil, err
	}
	d.Type = domain.DependencyType(typeStr)
	var err error
	if d.CreatedAt, err = parseStampColumn("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &d, nil
}
