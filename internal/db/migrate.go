package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','in_progress','completed')),
		start_date  TEXT NOT NULL,
		end_date    TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(end_date IS NULL OR end_date >= start_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(project_id, start_date)`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		source_id   TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		target_id   TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		type        TEXT NOT NULL DEFAULT 'FS'
		            CHECK(type IN ('FS','SS','FF','SF')),
		created_at  TEXT NOT NULL,
		CHECK(source_id <> target_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_dependencies_project ON dependencies(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_source ON dependencies(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_target ON dependencies(target_id)`,

	// Add short_id column to projects
	`ALTER TABLE projects ADD COLUMN short_id TEXT NOT NULL DEFAULT ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	// Owner shown in chart labels
	`ALTER TABLE activities ADD COLUMN owner TEXT NOT NULL DEFAULT ''`,
}
