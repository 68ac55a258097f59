// Report download endpoint.
//
// GET /terminals/report streams an .xlsx workbook listing the terminals that
// match the request's filters. The type parameter picks the canonical
// active/returned/total views used by the dashboard; the remaining filter
// parameters compose with it the same way they do on the list endpoint.
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-terminal-backend/internal/spreadsheet"
)

// xlsxContentType is the MIME type for .xlsx downloads.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DownloadReport godoc
// @ID          downloadReport
// @Summary     Download a terminal report
// @Description Builds an .xlsx report of the terminals matching the filters and returns it as an attachment.
// @Tags        Terminals
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//
// @Param       type        query  string  false "Report type: total, active, or returned"  Enums(total, active, returned) default(total)
// @Param       branch      query  string  false "Exact branch label"
// @Param       start_date  query  string  false "Inclusive dispatch date lower bound (YYYY-MM-DD)"
// @Param       end_date    query  string  false "Inclusive dispatch date upper bound (YYYY-MM-DD)"
// @Param       q           query  string  false "Case-insensitive search over name, terminal ID, serial"
//
// @Success     200  {file}   file "Workbook attachment"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals/report [get]
func (h *Handlers) DownloadReport(c *gin.Context) {
	crit, valid := parseCriteria(c)
	if !valid {
		return
	}

	reportType := strings.ToLower(strings.TrimSpace(c.Query("type")))
	switch reportType {
	case "", "total":
		// No lifecycle restriction.
	case "active":
		v := false
		crit.IsReturned = &v
	case "returned":
		v := true
		crit.IsReturned = &v
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "type must be total, active, or returned")
		return
	}

	terminals, err := h.termSvc.List(c.Request.Context(), crit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteReport(&buf, terminals); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}

	name := spreadsheet.ReportFilename(reportType, h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
