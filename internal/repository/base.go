// Package repository implements the data access layer for the application.
package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"tingle/internal/database"
	"tingle/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate marks a write rejected by a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const pgUniqueViolation = "23505"

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// isUniqueConstraintError recognises unique violations from Postgres and SQLite.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// duplicateError wraps ErrDuplicate in a Conflict-class AppError.
func duplicateError(message string) error {
	return &models.AppError{Code: models.CodeConflict, Message: message, Err: ErrDuplicate}
}

// notFoundOrInternal maps gorm.ErrRecordNotFound to a NotFound AppError.
func notFoundOrInternal(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// excludeIDs adds "column NOT IN ids" when ids is non-empty; an empty NOT IN
// list would otherwise filter every row.
func excludeIDs(db *gorm.DB, column string, ids []uint) *gorm.DB {
	if len(ids) == 0 {
		return db
	}
	return db.Where(column+" NOT IN ?", ids)
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// dbTime scans aggregate timestamps, which SQLite returns as text.
type dbTime struct {
	time.Time
}

var dbTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case nil:
		t.Time = time.Time{}
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

// Value implements driver.Valuer.
func (t dbTime) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *dbTime) parse(s string) error {
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}
