// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Terminal
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. The filter.Criteria predicate is pushed
// down to SQL here so list views and counts stay cheap on large tables.
//
// Error semantics:
//   - When a terminal is not found, functions return gorm.ErrRecordNotFound
//     (also exported in this package as ErrNotFound).
//   - Inserting a duplicate business terminal_id returns ErrDuplicate.
//   - On other DB errors (connectivity, constraint violations), the raw gorm
//     error is propagated; callers must treat those as gateway failures, not
//     as "record absent".
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-terminal-backend/internal/domain"
	"github.com/tbourn/go-terminal-backend/internal/filter"
)

// CreateTerminal inserts a new Terminal row. The record ID is a randomly
// generated UUID (string) and CreatedAt is set to UTC. The caller is expected
// to pass a record that already passed domain validation.
//
// Returns ErrDuplicate when the business terminal_id is already taken.
func CreateTerminal(ctx context.Context, db *gorm.DB, t *domain.Terminal) (*domain.Terminal, error) {
	rec := *t
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &rec, nil
}

// GetTerminal fetches a single terminal by its ID. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetTerminal(ctx context.Context, db *gorm.DB, id string) (*domain.Terminal, error) {
	var t domain.Terminal
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// TerminalIDTaken reports whether a terminal with the given business
// terminal_id already exists.
func TerminalIDTaken(ctx context.Context, db *gorm.DB, terminalID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Terminal{}).
		Where("terminal_id = ?", terminalID).
		Count(&n).Error
	return n > 0, err
}

// applyCriteria translates a filter.Criteria into WHERE clauses on q.
// The search term becomes a case-insensitive LIKE across name, terminal_id,
// and serial_number, mirroring filter.Criteria.Matches.
func applyCriteria(q *gorm.DB, c filter.Criteria) *gorm.DB {
	if c.Branch != nil {
		q = q.Where("branch = ?", string(*c.Branch))
	}
	if c.StartDate != nil {
		q = q.Where("dispatch_date >= ?", *c.StartDate)
	}
	if c.EndDate != nil {
		q = q.Where("dispatch_date <= ?", *c.EndDate)
	}
	if c.IsReturned != nil {
		q = q.Where("is_returned = ?", *c.IsReturned)
	}
	if term := strings.TrimSpace(c.SearchTerm); term != "" {
		pat := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		q = q.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(terminal_id) LIKE ? ESCAPE '\' OR LOWER(serial_number) LIKE ? ESCAPE '\'`,
			pat, pat, pat,
		)
	}
	return q
}

// likeEscaper neutralizes LIKE metacharacters in the search term so "100%"
// matches the literal text, the same way Criteria.Matches treats it.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListTerminals returns every terminal matching the criteria, ordered by
// dispatch date descending and creation time descending as a tiebreaker so
// pagination stays deterministic. It returns an empty slice when nothing
// matches.
func ListTerminals(ctx context.Context, db *gorm.DB, c filter.Criteria) ([]domain.Terminal, error) {
	var out []domain.Terminal
	err := applyCriteria(db.WithContext(ctx).Model(&domain.Terminal{}), c).
		Order("dispatch_date desc").
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListTerminalsPage returns one page of terminals matching the criteria.
// Use CountTerminals for pagination metadata.
func ListTerminalsPage(ctx context.Context, db *gorm.DB, c filter.Criteria, offset, limit int) ([]domain.Terminal, error) {
	var out []domain.Terminal
	err := applyCriteria(db.WithContext(ctx).Model(&domain.Terminal{}), c).
		Order("dispatch_date desc").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountTerminals returns the number of terminals matching the criteria.
func CountTerminals(ctx context.Context, db *gorm.DB, c filter.Criteria) (int64, error) {
	var total int64
	err := applyCriteria(db.WithContext(ctx).Model(&domain.Terminal{}), c).
		Count(&total).Error
	return total, err
}

// MarkReturned flips an active terminal to the returned state, recording the
// return instant and reason. The state precondition is part of the WHERE
// clause so the row transitions at most once; if no row was affected the
// caller distinguishes "missing" from "already returned" via GetTerminal.
func MarkReturned(ctx context.Context, db *gorm.DB, id, reason string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Terminal{}).
		Where("id = ? AND is_returned = ?", id, false).
		Updates(map[string]any{
			"is_returned":   true,
			"return_date":   at,
			"return_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearReturn reverses a return: the terminal goes back to active and both
// return fields are cleared. Only rows currently in the returned state are
// touched; zero rows affected maps to ErrNotFound.
func ClearReturn(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Terminal{}).
		Where("id = ? AND is_returned = ?", id, true).
		Updates(map[string]any{
			"is_returned":   false,
			"return_date":   nil,
			"return_reason": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTerminal physically removes a terminal row. There is no soft delete:
// the record is unrecoverable afterwards. Returns ErrNotFound when the id is
// already absent.
func DeleteTerminal(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Terminal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllTerminals physically removes every terminal row and reports how
// many were deleted. Deleting from an empty table is a no-op, not an error.
func DeleteAllTerminals(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Where("1 = 1").Delete(&domain.Terminal{})
	return res.RowsAffected, res.Error
}
