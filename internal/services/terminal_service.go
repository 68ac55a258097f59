// Package services – TerminalService
//
// This file implements the TerminalService, which owns the terminal lifecycle:
// dispatch (create), return, reactivate, delete, delete-all, and the filtered
// list/stat reads behind the dashboard. The service is stateless: it holds no
// cache of the table, every read is a fresh snapshot, and every mutation goes
// straight to the persistence gateway.
//
// Service-level errors (ErrTerminalNotFound, ErrAlreadyReturned,
// ErrNotReturned, ErrDuplicateTerminalID) are returned for predictable cases
// so handlers can map them to HTTP results consistently; validation failures
// surface as *domain.ValidationError with the full violation list.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-terminal-backend/internal/domain"
	"github.com/tbourn/go-terminal-backend/internal/filter"
	"github.com/tbourn/go-terminal-backend/internal/repo"
)

// TerminalRepo defines the persistence contract required by TerminalService.
// The production implementation is the repo package; tests substitute fakes.
type TerminalRepo interface {
	// CreateTerminal inserts a validated record, assigning its UUID.
	CreateTerminal(ctx context.Context, db *gorm.DB, t *domain.Terminal) (*domain.Terminal, error)

	// GetTerminal fetches one terminal by record ID.
	GetTerminal(ctx context.Context, db *gorm.DB, id string) (*domain.Terminal, error)

	// TerminalIDTaken reports whether a business terminal ID is in use.
	TerminalIDTaken(ctx context.Context, db *gorm.DB, terminalID string) (bool, error)

	// ListTerminals returns every terminal matching the criteria.
	ListTerminals(ctx context.Context, db *gorm.DB, c filter.Criteria) ([]domain.Terminal, error)

	// ListTerminalsPage returns one page of matching terminals.
	ListTerminalsPage(ctx context.Context, db *gorm.DB, c filter.Criteria, offset, limit int) ([]domain.Terminal, error)

	// CountTerminals returns the number of matching terminals.
	CountTerminals(ctx context.Context, db *gorm.DB, c filter.Criteria) (int64, error)

	// MarkReturned performs the Active→Returned transition.
	MarkReturned(ctx context.Context, db *gorm.DB, id, reason string, at time.Time) error

	// ClearReturn performs the Returned→Active transition.
	ClearReturn(ctx context.Context, db *gorm.DB, id string) error

	// DeleteTerminal physically removes one record.
	DeleteTerminal(ctx context.Context, db *gorm.DB, id string) error

	// DeleteAllTerminals physically removes every record.
	DeleteAllTerminals(ctx context.Context, db *gorm.DB) (int64, error)

	// TerminalTotals computes the dashboard counters.
	TerminalTotals(ctx context.Context, db *gorm.DB) (repo.Totals, error)
}

// TerminalService provides the lifecycle operations over terminal records.
type TerminalService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the terminal repository used by this service.
	Repo TerminalRepo
	// Now supplies the current instant; overridable in tests.
	Now func() time.Time
}

// NewTerminalService constructs a TerminalService with the wall clock.
func NewTerminalService(db *gorm.DB, r TerminalRepo) *TerminalService {
	return &TerminalService{DB: db, Repo: r, Now: time.Now}
}

// Dispatch validates a submission and creates the terminal record in its
// initial active state.
//
// Errors:
//   - *domain.ValidationError when the input violates model constraints
//     (every violated field is listed).
//   - ErrDuplicateTerminalID when the business terminal ID is already
//     registered. The pre-check and the unique index both guard this; the
//     index has the last word under concurrent dispatches.
//   - The underlying DB error for gateway failures.
func (s *TerminalService) Dispatch(ctx context.Context, in domain.TerminalInput) (*domain.Terminal, error) {
	t, verr := domain.NewTerminal(in, s.Now())
	if verr != nil {
		return nil, verr
	}

	taken, err := s.Repo.TerminalIDTaken(ctx, s.DB, t.TerminalID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateTerminalID
	}

	rec, err := s.Repo.CreateTerminal(ctx, s.DB, t)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrDuplicateTerminalID
	}
	return rec, err
}

// Return transitions an active terminal to the returned state, stamping the
// return date with the current instant and recording the reason (3–255 chars).
//
// Errors: *domain.ValidationError for a bad reason, ErrTerminalNotFound for an
// unknown id, ErrAlreadyReturned when the terminal is not active.
func (s *TerminalService) Return(ctx context.Context, id, reason string) error {
	if verr := domain.ValidateReturnReason(reason); verr != nil {
		return verr
	}

	t, err := s.Repo.GetTerminal(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTerminalNotFound
		}
		return err
	}
	if t.IsReturned {
		return ErrAlreadyReturned
	}

	err = s.Repo.MarkReturned(ctx, s.DB, id, reason, s.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		// The row flipped between the read and the update.
		return ErrAlreadyReturned
	}
	return err
}

// Reactivate reverses a return: the terminal becomes active again and both
// return fields are cleared, leaving all other fields untouched.
//
// Errors: ErrTerminalNotFound for an unknown id, ErrNotReturned when the
// terminal is currently active.
func (s *TerminalService) Reactivate(ctx context.Context, id string) error {
	t, err := s.Repo.GetTerminal(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTerminalNotFound
		}
		return err
	}
	if !t.IsReturned {
		return ErrNotReturned
	}

	err = s.Repo.ClearReturn(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotReturned
	}
	return err
}

// Delete physically removes a terminal in either lifecycle state. A deleted
// record cannot be recovered; re-dispatching the same device creates an
// unrelated record. Returns ErrTerminalNotFound when the id is already absent.
func (s *TerminalService) Delete(ctx context.Context, id string) error {
	err := s.Repo.DeleteTerminal(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTerminalNotFound
	}
	return err
}

// DeleteAll physically removes every terminal record and reports the count.
// An empty table is a successful no-op.
func (s *TerminalService) DeleteAll(ctx context.Context) (int64, error) {
	return s.Repo.DeleteAllTerminals(ctx, s.DB)
}

// Get fetches one terminal by record ID, or ErrTerminalNotFound.
func (s *TerminalService) Get(ctx context.Context, id string) (*domain.Terminal, error) {
	t, err := s.Repo.GetTerminal(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrTerminalNotFound
	}
	return t, err
}

// List returns every terminal matching the criteria. The result is a
// snapshot: it is stale the moment any mutation lands and must be re-fetched
// rather than trusted across operations.
func (s *TerminalService) List(ctx context.Context, c filter.Criteria) ([]domain.Terminal, error) {
	return s.Repo.ListTerminals(ctx, s.DB, c)
}

// ListPage returns a page of matching terminals plus the total match count.
// It applies defaults for invalid page/pageSize values.
func (s *TerminalService) ListPage(ctx context.Context, c filter.Criteria, page, pageSize int) ([]domain.Terminal, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountTerminals(ctx, s.DB, c)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Terminal{}, 0, nil
	}

	items, err := s.Repo.ListTerminalsPage(ctx, s.DB, c, offset, pageSize)
	return items, total, err
}

// Totals computes the dashboard counters (total, active, returned).
func (s *TerminalService) Totals(ctx context.Context) (repo.Totals, error) {
	return s.Repo.TerminalTotals(ctx, s.DB)
}
