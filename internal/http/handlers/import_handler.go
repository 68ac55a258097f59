// Bulk import endpoint.
//
// POST /terminals/import accepts a multipart upload of an .xlsx workbook and
// runs it through the import pipeline. The response distinguishes the three
// batch outcomes: full success (200), batch rejected before any insert (400),
// and partial success (207 with the per-row failure list).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-terminal-backend/internal/domain"
	"github.com/tbourn/go-terminal-backend/internal/http/middleware"
	"github.com/tbourn/go-terminal-backend/internal/repo"
	"github.com/tbourn/go-terminal-backend/internal/services"
	"github.com/tbourn/go-terminal-backend/internal/spreadsheet"
)

// maxImportBytes caps the uploaded workbook size.
const maxImportBytes = 10 << 20 // 10 MiB

// ImportResponse summarizes a bulk import.
type ImportResponse struct {
	// Imported counts the rows committed to the database.
	Imported int `json:"imported"`
	// DefaultedDates counts committed rows whose dispatch date cell was blank
	// or unparseable and was substituted with the upload time.
	DefaultedDates int `json:"defaulted_dates"`
	// Failures lists the rows that failed at the insertion stage. Present
	// only on a 207 response.
	Failures []services.RowFailure `json:"failures,omitempty"`
}

// ImportTerminals godoc
// @ID          importTerminals
// @Summary     Bulk import terminals from a spreadsheet
// @Description Uploads an .xlsx workbook and registers one terminal per data row. Mapping is all-or-nothing; insertion is per-row, so a mid-batch failure yields 207 with the committed count and the failed rows.
// @Tags        Terminals
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       Idempotency-Key  header    string  false  "Dedupe key; a repeat of a fully successful import replays its summary"
// @Param       X-User-ID        header    string  false  "Acting user id (defaults to demo-user)"
// @Param       file             formData  file    true   "Workbook (.xlsx) with the import template columns"
//
// @Success     200  {object} handlers.ImportResponse "All rows imported"
// @Success     207  {object} handlers.ImportResponse "Some rows imported, some failed"
// @Failure     400  {object} handlers.ErrorResponse  "Batch rejected before insertion"
// @Failure     413  {object} handlers.ErrorResponse  "Workbook too large"
// @Failure     500  {object} handlers.ErrorResponse  "Internal error"
// @Router      /terminals/import [post]
func (h *Handlers) ImportTerminals(c *gin.Context) {
	ctx := c.Request.Context()
	idemKey, hasKey := idempotencyKey(c)
	db := h.serviceDB()
	user := userID(c)

	if hasKey && db != nil {
		if prev, err := repo.GetIdempotency(ctx, db, user, middleware.ScopeImport, idemKey, h.now().UTC()); err == nil && prev != nil {
			var summary ImportResponse
			if json.Unmarshal([]byte(prev.Ref), &summary) == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, prev.Status, summary)
				return
			}
		}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `multipart field "file" required`)
		return
	}
	if fh.Size > maxImportBytes {
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "workbook exceeds the size limit")
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot read uploaded file")
		return
	}
	defer f.Close()

	rows, err := spreadsheet.Read(f)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrNoRows) {
			fail(c, http.StatusBadRequest, ErrCodeImportFailed, "spreadsheet contains no data rows")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeImportFailed, "cannot parse workbook: "+err.Error())
		return
	}

	res, err := h.importSvc.Import(ctx, rows)
	if err != nil {
		var verr *domain.ValidationError
		var perr *services.PartialBatchError
		switch {
		case errors.As(err, &verr):
			failWith(c, http.StatusBadRequest, ErrCodeImportFailed, verr.Error(), verr.Violations)
		case errors.As(err, &perr):
			ok(c, http.StatusMultiStatus, ImportResponse{
				Imported:       perr.Inserted,
				DefaultedDates: res.DefaultedDates,
				Failures:       perr.Failures,
			})
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	summary := ImportResponse{
		Imported:       len(res.Terminals),
		DefaultedDates: res.DefaultedDates,
	}
	if hasKey && db != nil {
		// Only a fully successful batch is replayable; partial or rejected
		// batches should reprocess on retry. Best-effort write.
		if raw, merr := json.Marshal(summary); merr == nil {
			_, _ = repo.CreateIdempotency(ctx, db, user, middleware.ScopeImport, idemKey, string(raw), http.StatusOK, idempotencyTTL)
		}
	}
	ok(c, http.StatusOK, summary)
}
