// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the dashboard counters and for conditional responses (ETag generation)
// in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-terminal-backend/internal/domain"
)

// Totals holds the dashboard counters: every terminal in the system, those
// currently out at a branch, and those already brought back.
type Totals struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Returned int64 `json:"returned"`
}

// TerminalTotals computes the dashboard counters with two queries: a full
// count and a returned count; active is derived. On DB error the zero value
// and the error are returned.
func TerminalTotals(ctx context.Context, db *gorm.DB) (Totals, error) {
	var t Totals
	if err := db.WithContext(ctx).Model(&domain.Terminal{}).Count(&t.Total).Error; err != nil {
		return Totals{}, err
	}
	if err := db.WithContext(ctx).
		Model(&domain.Terminal{}).
		Where("is_returned = ?", true).
		Count(&t.Returned).Error; err != nil {
		return Totals{}, err
	}
	t.Active = t.Total - t.Returned
	return t, nil
}

// TerminalsStats returns aggregate metadata for the terminals table: the
// total number of rows and the maximum UpdatedAt timestamp among them. The
// pair changes whenever any terminal is created, mutated, or deleted, which
// makes it a cheap ETag ingredient for list responses.
//
// When the table is empty, count is 0 and maxUpdatedAt is nil.
func TerminalsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Terminal{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
