package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Calendar days are stored as YYYY-MM-DD text and audit stamps as RFC3339.
const (
	dayColumn   = domain.DateLayout
	stampColumn = time.RFC3339
)

type rowScanner interface {
	Scan(dest ...any) error
}

func dayArg(t time.Time) string { return t.Format(dayColumn) }

// optionalDayArg binds a milestone's missing end as NULL.
func optionalDayArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return dayArg(*t)
}

func stampArg(t time.Time) string { return t.UTC().Format(stampColumn) }

func parseDayColumn(col, s string) (time.Time, error) {
	t, err := time.Parse(dayColumn, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", col, err)
	}
	return t, nil
}

// parseOptionalDayColumn maps NULL or "" to nil. A malformed value is an
// error rather than a silent milestone.
func parseOptionalDayColumn(col string, s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseDayColumn(col, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseStampColumn(col, s string) (time.Time, error) {
	t, err := time.Parse(stampColumn, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", col, err)
	}
	return t, nil
}

// checkAffected reports notFound when an UPDATE or DELETE matched no row.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
