// Package services – ImportService
//
// This file implements the bulk import pipeline that turns loosely-typed
// spreadsheet rows into persisted terminal records. The pipeline has two
// stages with different failure semantics:
//
//   - Mapping is all-or-nothing: a missing required column value or an
//     unknown terminal type anywhere in the batch rejects the whole batch
//     before anything touches the database.
//   - Insertion is row-at-a-time: the persistence gateway guarantees per-row
//     atomicity only, so a mid-batch failure leaves earlier rows committed.
//     That outcome is surfaced as a *PartialBatchError naming every failed
//     row rather than being papered over.
//
// Unparseable dispatch dates do not fail a row. The original operators import
// historical spreadsheets with wildly inconsistent date cells, so the mapper
// substitutes the current instant and tags the row DateDefaulted, logging a
// warning. The tag makes the leniency observable and testable instead of a
// silent catch-and-ignore.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-terminal-backend/internal/domain"
	"github.com/tbourn/go-terminal-backend/internal/spreadsheet"
)

// DateOutcome tags how a row's dispatch date was obtained.
type DateOutcome string

const (
	// DateParsed means the source cell parsed cleanly.
	DateParsed DateOutcome = "parsed"
	// DateDefaulted means the cell was blank or unparseable and the current
	// instant was substituted.
	DateDefaulted DateOutcome = "defaulted"
)

// dateLayouts are tried in order when parsing a dispatch date cell.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01-02-06", // excelize renders date cells in this layout by default
}

// MappedRow is one creation-ready payload produced by the mapper, together
// with the provenance of its dispatch date.
type MappedRow struct {
	Input       domain.TerminalInput
	DateOutcome DateOutcome
}

// RowFailure records one row that failed at the insertion stage.
type RowFailure struct {
	// Index is the zero-based position of the row in the uploaded batch.
	Index int `json:"index"`
	// TerminalID echoes the row's business ID for operator convenience.
	TerminalID string `json:"terminal_id"`
	// Reason is the human-readable failure description.
	Reason string `json:"reason"`
}

// PartialBatchError reports that a bulk insert succeeded for some rows and
// failed for others. Inserted counts the committed rows; Failures lists the
// rest. The committed rows stay committed; the gateway offers no
// cross-record atomicity to roll them back.
type PartialBatchError struct {
	Inserted int          `json:"inserted"`
	Failures []RowFailure `json:"failures"`
}

// Error implements the error interface.
func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("bulk import partially failed: %d inserted, %d failed", e.Inserted, len(e.Failures))
}

// ImportResult summarizes a completed import.
type ImportResult struct {
	// Terminals are the persisted records in input order (failed rows
	// omitted when the error is a *PartialBatchError).
	Terminals []domain.Terminal
	// DefaultedDates counts committed rows whose dispatch date was
	// substituted.
	DefaultedDates int
}

// ImportService runs spreadsheet batches through the mapper and the terminal
// lifecycle.
type ImportService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Terminals performs the per-row dispatch.
	Terminals *TerminalService
	// Now supplies the substitute for unparseable dates; overridable in tests.
	Now func() time.Time
}

// NewImportService constructs an ImportService bound to a TerminalService.
func NewImportService(db *gorm.DB, terminals *TerminalService) *ImportService {
	return &ImportService{DB: db, Terminals: terminals, Now: time.Now}
}

// MapRows validates and maps a batch of spreadsheet rows into creation-ready
// payloads, in input order. The whole batch is rejected (all-or-nothing) when
// any row misses a required field or carries an unknown terminal type; the
// returned *domain.ValidationError names every offending row and field.
//
// Oversized text fields are truncated to their maximum lengths, not rejected.
// Branch labels pass through to dispatch-time validation untouched.
func (s *ImportService) MapRows(rows []spreadsheet.Row) ([]MappedRow, *domain.ValidationError) {
	var violations []domain.FieldViolation
	out := make([]MappedRow, 0, len(rows))

	for i, row := range rows {
		rowField := func(name string) string { return fmt.Sprintf("row[%d].%s", i, name) }

		required := []struct{ name, value string }{
			{"name", row.Name},
			{"terminal_id", row.TerminalID},
			{"serial_number", row.SerialNumber},
			{"line_serial_number", row.LineSerialNumber},
			{"type", row.Type},
			{"branch", row.Branch},
		}
		missing := false
		for _, f := range required {
			if strings.TrimSpace(f.value) == "" {
				violations = append(violations, domain.FieldViolation{
					Field: rowField(f.name), Message: "is required",
				})
				missing = true
			}
		}
		if missing {
			continue
		}

		ttype, ok := domain.ParseTerminalType(strings.TrimSpace(row.Type))
		if !ok {
			violations = append(violations, domain.FieldViolation{
				Field: rowField("type"), Message: fmt.Sprintf("unknown terminal type %q", row.Type),
			})
			continue
		}

		date, outcome := s.parseDispatchDate(row.DispatchDate)
		if outcome == DateDefaulted {
			log.Warn().
				Int("row", i).
				Str("terminal_id", row.TerminalID).
				Str("raw_date", row.DispatchDate).
				Msg("import: dispatch date unparseable, defaulting to now")
		}

		out = append(out, MappedRow{
			Input: domain.TerminalInput{
				Name:                truncateRunes(row.Name, domain.NameMaxLen),
				TerminalID:          truncateRunes(row.TerminalID, domain.TerminalIDMaxLen),
				SerialNumber:        truncateRunes(row.SerialNumber, domain.SerialMaxLen),
				LineSerialNumber:    truncateRunes(row.LineSerialNumber, domain.LineSerialMaxLen),
				Type:                string(ttype),
				Branch:              row.Branch,
				DispatchDate:        date,
				FedexTrackingNumber: row.FedexTrackingNumber,
			},
			DateOutcome: outcome,
		})
	}

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}
	return out, nil
}

// Import maps a batch and dispatches each payload in order. Mapping failures
// reject the whole batch before any insert. Insert failures do not stop the
// batch; they are collected and reported via *PartialBatchError alongside the
// result for the rows that did commit.
func (s *ImportService) Import(ctx context.Context, rows []spreadsheet.Row) (ImportResult, error) {
	mapped, verr := s.MapRows(rows)
	if verr != nil {
		return ImportResult{}, verr
	}

	res := ImportResult{Terminals: make([]domain.Terminal, 0, len(mapped))}
	var failures []RowFailure

	for i, m := range mapped {
		rec, err := s.Terminals.Dispatch(ctx, m.Input)
		if err != nil {
			failures = append(failures, RowFailure{
				Index:      i,
				TerminalID: m.Input.TerminalID,
				Reason:     err.Error(),
			})
			continue
		}
		// Counted only for committed rows: a failed row's defaulted date never
		// reached the database.
		if m.DateOutcome == DateDefaulted {
			res.DefaultedDates++
		}
		res.Terminals = append(res.Terminals, *rec)
	}

	if len(failures) > 0 {
		return res, &PartialBatchError{Inserted: len(res.Terminals), Failures: failures}
	}
	return res, nil
}

// parseDispatchDate attempts the known layouts and tags the outcome.
func (s *ImportService) parseDispatchDate(raw string) (time.Time, DateOutcome) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, DateParsed
			}
		}
	}
	return s.Now(), DateDefaulted
}

// truncateRunes clips s to at most max runes.
func truncateRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
