// Terminal HTTP handlers.
//
// This file exposes REST endpoints for terminal records:
//   - POST   /terminals                   (dispatch a new terminal)
//   - GET    /terminals                   (list, filtered + paginated, ETag support)
//   - GET    /terminals/stats             (dashboard counters)
//   - GET    /terminals/{id}              (fetch one)
//   - POST   /terminals/{id}/return       (mark returned)
//   - POST   /terminals/{id}/reactivate   (clear the return)
//   - DELETE /terminals/{id}              (delete one)
//   - DELETE /terminals                   (delete all)
//
// Handlers are transport-thin: they parse and validate input, call the
// application services, and translate service errors into the stable error
// envelope (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-terminal-backend/internal/domain"
	"github.com/tbourn/go-terminal-backend/internal/filter"
	"github.com/tbourn/go-terminal-backend/internal/http/middleware"
	"github.com/tbourn/go-terminal-backend/internal/repo"
	"github.com/tbourn/go-terminal-backend/internal/services"
	"github.com/tbourn/go-terminal-backend/internal/spreadsheet"
	"github.com/tbourn/go-terminal-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// TerminalService defines the terminal lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type TerminalService interface {
	// Dispatch validates a submission and creates an active terminal.
	Dispatch(ctx context.Context, in domain.TerminalInput) (*domain.Terminal, error)
	// Get fetches one terminal by record ID.
	Get(ctx context.Context, id string) (*domain.Terminal, error)
	// List returns every terminal matching the criteria, in dispatch order.
	List(ctx context.Context, c filter.Criteria) ([]domain.Terminal, error)
	// ListPage returns a page of matching terminals and the total count.
	ListPage(ctx context.Context, c filter.Criteria, page, pageSize int) ([]domain.Terminal, int64, error)
	// Return marks an active terminal as returned with a reason.
	Return(ctx context.Context, id, reason string) error
	// Reactivate clears the return state of a returned terminal.
	Reactivate(ctx context.Context, id string) error
	// Delete removes one terminal record permanently.
	Delete(ctx context.Context, id string) error
	// DeleteAll removes every terminal record, returning the count.
	DeleteAll(ctx context.Context) (int64, error)
	// Totals computes the dashboard counters.
	Totals(ctx context.Context) (repo.Totals, error)
}

// ImportService defines the bulk import operation consumed by HTTP handlers.
type ImportService interface {
	// Import maps and persists a batch of spreadsheet rows.
	Import(ctx context.Context, rows []spreadsheet.Row) (services.ImportResult, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for terminal records, bulk import, and
// report downloads. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	termSvc   TerminalService
	importSvc ImportService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(termSvc TerminalService, importSvc ImportService) *Handlers {
	return &Handlers{termSvc: termSvc, importSvc: importSvc}
}

//
// DTOs
//

// DispatchTerminalRequest is the JSON payload for dispatching a terminal.
type DispatchTerminalRequest struct {
	// Name is the merchant name (max 25 chars).
	Name string `json:"name" binding:"required" example:"OK Mart Gweru"`
	// TerminalID is the business terminal ID (max 8 chars, NBS prefix).
	TerminalID string `json:"terminal_id" binding:"required" example:"NBS00042"`
	// SerialNumber is the device serial (5-11 chars).
	SerialNumber string `json:"serial_number" binding:"required" example:"SN1234567"`
	// LineSerialNumber is the SIM line serial (16-18 digits).
	LineSerialNumber string `json:"line_serial_number" binding:"required" example:"8926307001234567"`
	// Type is one of the supported terminal models.
	Type string `json:"type" binding:"required" example:"iPOS"`
	// Branch is the dispatching branch label.
	Branch string `json:"branch" binding:"required" example:"Gweru Branch"`
	// DispatchDate is the dispatch date (YYYY-MM-DD), not in the future.
	DispatchDate string `json:"dispatch_date" binding:"required" example:"2025-03-12"`
	// FedexTrackingNumber is the optional courier tracking reference.
	FedexTrackingNumber string `json:"fedex_tracking_number" example:"771234567890"`
}

// ReturnTerminalRequest is the JSON payload for marking a terminal returned.
type ReturnTerminalRequest struct {
	// Reason explains the return (3-255 chars).
	Reason string `json:"reason" binding:"required,min=3,max=255" example:"damaged keypad"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListTerminalsResponse wraps a page of terminals and pagination information.
type ListTerminalsResponse struct {
	Terminals  []domain.Terminal `json:"terminals"`
	Pagination Pagination        `json:"pagination"`
}

// StatsResponse reports the dashboard counters.
type StatsResponse struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Returned int64 `json:"returned"`
}

// DeleteAllResponse reports how many records a bulk delete removed.
type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// parseCriteria builds filter criteria from the request's query parameters.
// It writes a 400 response and returns false on a malformed parameter.
func parseCriteria(c *gin.Context) (filter.Criteria, bool) {
	var crit filter.Criteria

	if raw := strings.TrimSpace(c.Query("branch")); raw != "" {
		b, valid := domain.ParseBranch(raw)
		if !valid {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("unknown branch %q", raw))
			return filter.Criteria{}, false
		}
		crit.Branch = &b
	}
	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_date: "+err.Error())
			return filter.Criteria{}, false
		}
		crit.StartDate = &t
	}
	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "end_date: "+err.Error())
			return filter.Criteria{}, false
		}
		eod := utils.EndOfDay(t)
		crit.EndDate = &eod
	}
	if raw := strings.TrimSpace(c.Query("returned")); raw != "" {
		switch raw {
		case "true":
			v := true
			crit.IsReturned = &v
		case "false":
			v := false
			crit.IsReturned = &v
		default:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "returned must be true or false")
			return filter.Criteria{}, false
		}
	}
	crit.SearchTerm = strings.TrimSpace(c.Query("q"))

	return crit, true
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// idempotencyKey returns the request's idempotency key. It prefers the value
// stashed by IdempotencyValidator and falls back to reading the header
// directly when no dedicated middleware ran.
func idempotencyKey(c *gin.Context) (string, bool) {
	if k, okKey := middleware.GetIdempotencyKey(c); okKey {
		return k, true
	}
	if v := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey)); v != "" {
		return v, true
	}
	return "", false
}

// idempotencyTTL is how long a recorded POST result stays replayable.
const idempotencyTTL = 24 * time.Hour

// terminalID validates the :id path parameter. It writes a 400 response and
// returns "" when the value is not a UUID.
func terminalID(c *gin.Context) string {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "terminal id must be a UUID")
		return ""
	}
	return id
}

//
// Handlers
//

// DispatchTerminal godoc
// @ID          dispatchTerminal
// @Summary     Dispatch a new terminal
// @Description Validates the submission and registers a terminal in its active state.
// @Tags        Terminals
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Dedupe key; a repeat replays the stored result"
// @Param       X-User-ID        header  string  false  "Acting user id (defaults to demo-user)"
// @Param       body  body  handlers.DispatchTerminalRequest  true  "Dispatch payload"
//
// @Success     201  {object}  domain.Terminal
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse  "Terminal ID already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /terminals [post]
func (h *Handlers) DispatchTerminal(c *gin.Context) {
	var req DispatchTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	in := domain.TerminalInput{
		Name:                req.Name,
		TerminalID:          req.TerminalID,
		SerialNumber:        req.SerialNumber,
		LineSerialNumber:    req.LineSerialNumber,
		Type:                req.Type,
		Branch:              req.Branch,
		FedexTrackingNumber: req.FedexTrackingNumber,
	}
	if raw := strings.TrimSpace(req.DispatchDate); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dispatch_date: "+err.Error())
			return
		}
		in.DispatchDate = t
	}

	ctx := c.Request.Context()
	idemKey, hasKey := idempotencyKey(c)
	db := h.serviceDB()
	user := userID(c)

	if hasKey && db != nil {
		if prev, err := repo.GetIdempotency(ctx, db, user, middleware.ScopeDispatch, idemKey, h.now().UTC()); err == nil && prev != nil {
			replayed, err := h.termSvc.Get(ctx, prev.Ref)
			if err == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, prev.Status, replayed)
				return
			}
			// Stored result vanished (record deleted since). Fall through and
			// process the request fresh.
		}
	}

	rec, err := h.termSvc.Dispatch(ctx, in)
	if err != nil {
		writeLifecycleError(c, err, "dispatch failed")
		return
	}

	if hasKey && db != nil {
		// Best-effort: a failed write only loses replay protection.
		_, _ = repo.CreateIdempotency(ctx, db, user, middleware.ScopeDispatch, idemKey, rec.ID, http.StatusCreated, idempotencyTTL)
	}
	ok(c, http.StatusCreated, rec)
}

// ListTerminals godoc
// @ID          listTerminals
// @Summary     List terminals (filtered, paginated)
// @Description Returns a page of terminals matching the query filters. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Terminals
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       branch         query   string  false "Exact branch label"
// @Param       start_date     query   string  false "Inclusive dispatch date lower bound (YYYY-MM-DD)"
// @Param       end_date       query   string  false "Inclusive dispatch date upper bound (YYYY-MM-DD)"
// @Param       returned       query   bool    false "Lifecycle state filter"
// @Param       q              query   string  false "Case-insensitive search over name, terminal ID, serial"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListTerminalsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals [get]
func (h *Handlers) ListTerminals(c *gin.Context) {
	ctx := c.Request.Context()
	crit, valid := parseCriteria(c)
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort). Only the unfiltered collection is
	// cheap to fingerprint; filtered views always hit the table.
	if db := h.serviceDB(); db != nil && crit.IsZero() {
		count, maxTS, err := repo.TerminalsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"terminals:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.termSvc.ListPage(ctx, crit, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListTerminalsResponse{
		Terminals: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetTerminal godoc
// @ID          getTerminal
// @Summary     Fetch one terminal
// @Tags        Terminals
// @Produce     json
//
// @Param       id  path  string  true  "Terminal record ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Terminal
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Terminal not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals/{id} [get]
func (h *Handlers) GetTerminal(c *gin.Context) {
	id := terminalID(c)
	if id == "" {
		return
	}

	rec, err := h.termSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeLifecycleError(c, err, "fetch failed")
		return
	}
	ok(c, http.StatusOK, rec)
}

// TerminalStats godoc
// @ID          terminalStats
// @Summary     Dashboard counters
// @Description Returns the total, active, and returned terminal counts.
// @Tags        Terminals
// @Produce     json
//
// @Success     200  {object} handlers.StatsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals/stats [get]
func (h *Handlers) TerminalStats(c *gin.Context) {
	totals, err := h.termSvc.Totals(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, StatsResponse{
		Total:    totals.Total,
		Active:   totals.Active,
		Returned: totals.Returned,
	})
}

// ReturnTerminal godoc
// @ID          returnTerminal
// @Summary     Mark a terminal as returned
// @Description Transitions an active terminal to the returned state, recording the reason and stamping the return date.
// @Tags        Terminals
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Terminal record ID (UUID)"  format(uuid)
// @Param       body  body  handlers.ReturnTerminalRequest  true  "Return payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse "Terminal not found"
// @Failure     409  {object} handlers.ErrorResponse "Terminal already returned"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals/{id}/return [post]
func (h *Handlers) ReturnTerminal(c *gin.Context) {
	id := terminalID(c)
	if id == "" {
		return
	}

	var req ReturnTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reason required (3-255 chars)")
		return
	}

	if err := h.termSvc.Return(c.Request.Context(), id, req.Reason); err != nil {
		writeLifecycleError(c, err, "return failed")
		return
	}
	noContent(c)
}

// ReactivateTerminal godoc
// @ID          reactivateTerminal
// @Summary     Reactivate a returned terminal
// @Description Clears the return state, restoring the terminal to active.
// @Tags        Terminals
// @Produce     json
//
// @Param       id  path  string  true  "Terminal record ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Terminal not found"
// @Failure     409  {object} handlers.ErrorResponse "Terminal is not returned"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals/{id}/reactivate [post]
func (h *Handlers) ReactivateTerminal(c *gin.Context) {
	id := terminalID(c)
	if id == "" {
		return
	}

	if err := h.termSvc.Reactivate(c.Request.Context(), id); err != nil {
		writeLifecycleError(c, err, "reactivate failed")
		return
	}
	noContent(c)
}

// DeleteTerminal godoc
// @ID          deleteTerminal
// @Summary     Delete one terminal
// @Description Permanently removes a terminal record.
// @Tags        Terminals
// @Produce     json
//
// @Param       id  path  string  true  "Terminal record ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Terminal not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals/{id} [delete]
func (h *Handlers) DeleteTerminal(c *gin.Context) {
	id := terminalID(c)
	if id == "" {
		return
	}

	if err := h.termSvc.Delete(c.Request.Context(), id); err != nil {
		writeLifecycleError(c, err, "delete failed")
		return
	}
	noContent(c)
}

// DeleteAllTerminals godoc
// @ID          deleteAllTerminals
// @Summary     Delete every terminal
// @Description Permanently removes all terminal records and reports the count.
// @Tags        Terminals
// @Produce     json
//
// @Success     200  {object} handlers.DeleteAllResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals [delete]
func (h *Handlers) DeleteAllTerminals(c *gin.Context) {
	n, err := h.termSvc.DeleteAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, DeleteAllResponse{Deleted: n})
}

// serviceDB exposes the concrete service's DB handle for the ETag pre-check,
// or nil when the handler is wired to a fake.
func (h *Handlers) serviceDB() *gorm.DB {
	if svc, isConcrete := h.termSvc.(*services.TerminalService); isConcrete {
		return svc.DB
	}
	return nil
}

// now returns the concrete service clock when available, so report filenames
// stay deterministic under a fake clock in tests.
func (h *Handlers) now() time.Time {
	if svc, isConcrete := h.termSvc.(*services.TerminalService); isConcrete && svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// writeLifecycleError maps service-layer errors onto the error envelope.
func writeLifecycleError(c *gin.Context, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		failWith(c, http.StatusBadRequest, ErrCodeValidation, verr.Error(), verr.Violations)
	case errors.Is(err, services.ErrTerminalNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "terminal not found")
	case errors.Is(err, services.ErrDuplicateTerminalID):
		fail(c, http.StatusConflict, ErrCodeConflict, "terminal id already registered")
	case errors.Is(err, services.ErrAlreadyReturned):
		fail(c, http.StatusConflict, ErrCodeInvalidState, "terminal is already returned")
	case errors.Is(err, services.ErrNotReturned):
		fail(c, http.StatusConflict, ErrCodeInvalidState, "terminal is not returned")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, fallback+": "+err.Error())
	}
}
