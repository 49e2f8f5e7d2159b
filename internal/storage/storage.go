package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
)

// IsPostgresConfig reports whether config is a PostgreSQL connection URL
func IsPostgresConfig(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// Open picks a provider from the config value. PostgreSQL URLs and SQLite
// files (.db, .sqlite, .sqlite3) are recognized; anything else is a JSON document.
// PostgreSQL URLs given this way may not carry a password.
func Open(config string) (Provider, error) {
	if IsPostgresConfig(config) {
		if HasEmbeddedCredentials(config) {
			return nil, ErrEmbeddedCredentials
		}
		return OpenPostgres(config)
	}

	switch strings.ToLower(filepath.Ext(config)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(config), nil
	default:
		return NewJSONStore(config), nil
	}
}

// OpenPostgres validates connStr and returns a PostgreSQL provider for it.
// Used directly for connection strings read from the OS keyring.
func OpenPostgres(connStr string) (Provider, error) {
	if err := ValidateConnString(connStr); err != nil {
		return nil, err
	}
	return NewPostgresStore(connStr), nil
}

const selectHabitsSQL = `
	SELECT id, name, start_date, duration_in_days, deadline, frequency, completed, timeout, completed_date
	FROM habits ORDER BY position`

const insertHabitSQL = `
	INSERT INTO habits (position, id, name, start_date, duration_in_days, deadline, frequency, completed, timeout, completed_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// rebind rewrites ? placeholders as $1..$n for PostgreSQL
func rebind(dialect migration.Dialect, query string) string {
	if dialect != migration.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// loadRecords reads every habit row in insertion order
func loadRecords(db *sql.DB) (models.Document, error) {
	rows, err := db.Query(selectHabitsSQL)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: failed to query habits: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	doc := models.EmptyDocument()
	for rows.Next() {
		var (
			rec           models.Record
			id            sql.NullInt64
			startDate     sql.NullString
			timeout       sql.NullBool
			completedDate sql.NullString
		)
		if err := rows.Scan(&id, &rec.Name, &startDate, &rec.DurationInDays, &rec.Deadline,
			&rec.Frequency, &rec.Completed, &timeout, &completedDate); err != nil {
			return models.Document{}, fmt.Errorf("%w: failed to scan habit: %v", ErrStorageUnavailable, err)
		}
		if id.Valid {
			v := int(id.Int64)
			rec.ID = &v
		}
		if startDate.Valid {
			rec.StartDate = &startDate.String
		}
		if timeout.Valid {
			rec.Timeout = &timeout.Bool
		}
		if completedDate.Valid {
			rec.CompletedDate = &completedDate.String
		}
		doc.Habits = append(doc.Habits, rec)
	}
	if err := rows.Err(); err != nil {
		return models.Document{}, fmt.Errorf("%w: failed to read habits: %v", ErrStorageUnavailable, err)
	}

	return doc, nil
}

// saveRecords replaces the habits table with doc in a single transaction
func saveRecords(db *sql.DB, dialect migration.Dialect, doc models.Document) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return fmt.Errorf("%w: failed to clear habits: %v", ErrStorageUnavailable, err)
	}

	stmt, err := tx.Prepare(rebind(dialect, insertHabitSQL))
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %v", ErrStorageUnavailable, err)
	}
	defer stmt.Close()

	for i, rec := range doc.Habits {
		if _, err := stmt.Exec(i, nullInt(rec.ID), rec.Name, nullString(rec.StartDate), rec.DurationInDays,
			rec.Deadline, rec.Frequency, rec.Completed, nullBool(rec.Timeout), nullString(rec.CompletedDate)); err != nil {
			return fmt.Errorf("%w: failed to insert habit %q: %v", ErrStorageUnavailable, rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit habits: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
