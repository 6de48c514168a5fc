package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	gerrors "github.com/alexanderramin/gantry/internal/errors"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, project_id, name, owner, status, start_date, end_date, created_at, updated_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		a.Name,
		a.Owner,
		string(a.Status),
		dayArg(a.StartDate),
		optionalDayArg(a.EndDate),
		stampArg(a.CreatedAt),
		stampArg(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	a, err := scanActivityRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerrors.NotFound("activity", id)
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}
	return a, nil
}

// ListByProject returns the project's activities in insertion order. Chart
// row order is applied later by the caller.
func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE project_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		a, err := scanActivityRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET name = ?, owner = ?, status = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Name,
		a.Owner,
		string(a.Status),
		dayArg(a.StartDate),
		optionalDayArg(a.EndDate),
		stampArg(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return checkAffected(res, gerrors.NotFound("activity", a.ID))
}

func (r *SQLiteActivityRepo) UpdateDates(ctx context.Context, id string, start time.Time, end *time.Time) error {
	query := `UPDATE activities SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		dayArg(start),
		optionalDayArg(end),
		stampArg(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating activity dates: %w", err)
	}
	return checkAffected(res, gerrors.NotFound("activity", id))
}

func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return checkAffected(res, gerrors.NotFound("activity", id))
}

func scanActivityRow(s rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var statusStr, startStr, createdAtStr, updatedAtStr string
	var endStr sql.NullString

	if err := s.Scan(
		&a.ID, &a.ProjectID, &a.Name, &a.Owner, &statusStr,
		&startStr, &endStr,
		&createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}

	a.Status = domain.ActivityStatus(statusStr)

	var err error
	if a.StartDate, err = parseDayColumn("start_date", startStr); err != nil {
		return nil, err
	}
	if a.EndDate, err = parseOptionalDayColumn("end_date", endStr); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseStampColumn("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseStampColumn("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &a, nil
}
