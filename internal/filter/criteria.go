// Package filter implements the composite query predicate used by terminal
// list views, reports, and the repository's SQL pushdown. It is intentionally
// small and side-effect free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Every criterion is independently optional; omission means "do not
//     filter on this axis"
//   - Criteria combine with logical AND; the search term is itself an OR
//     across name, terminal_id, and serial_number
//   - Apply preserves input order, so paginated views stay deterministic
//
// Date bounds are inclusive on the dispatch date and either bound may be
// supplied alone. Parsing raw date strings is a caller concern: the composer
// only ever sees well-formed time.Time values.
package filter

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-terminal-backend/internal/domain"
)

// folder performs Unicode-correct case folding for the substring search.
// cases.Fold is stateless and safe for concurrent use.
var folder = cases.Fold()

// Criteria is a set of independently optional restrictions on a terminal
// collection. The zero value matches everything.
type Criteria struct {
	// Branch restricts to an exact branch match when non-nil.
	Branch *domain.Branch
	// StartDate is the inclusive lower bound on the dispatch date.
	StartDate *time.Time
	// EndDate is the inclusive upper bound on the dispatch date.
	EndDate *time.Time
	// IsReturned restricts to the lifecycle flag when non-nil.
	IsReturned *bool
	// SearchTerm is a case-insensitive substring matched against name,
	// terminal_id, and serial_number (OR). Empty means no search filter.
	SearchTerm string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Branch == nil && c.StartDate == nil && c.EndDate == nil &&
		c.IsReturned == nil && strings.TrimSpace(c.SearchTerm) == ""
}

// Matches reports whether a single terminal satisfies every supplied
// criterion.
func (c Criteria) Matches(t domain.Terminal) bool {
	if c.Branch != nil && t.Branch != *c.Branch {
		return false
	}
	if c.StartDate != nil && t.DispatchDate.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && t.DispatchDate.After(*c.EndDate) {
		return false
	}
	if c.IsReturned != nil && t.IsReturned != *c.IsReturned {
		return false
	}
	if term := strings.TrimSpace(c.SearchTerm); term != "" {
		needle := folder.String(term)
		if !strings.Contains(folder.String(t.Name), needle) &&
			!strings.Contains(folder.String(t.TerminalID), needle) &&
			!strings.Contains(folder.String(t.SerialNumber), needle) {
			return false
		}
	}
	return true
}

// Apply returns the subset of terminals matching the criteria, in input
// order. An empty input yields an empty (non-nil) output regardless of the
// criteria.
func (c Criteria) Apply(terminals []domain.Terminal) []domain.Terminal {
	out := make([]domain.Terminal, 0, len(terminals))
	for _, t := range terminals {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
