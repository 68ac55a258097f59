package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-terminal-backend/internal/domain"
)

func TestFail_EnvelopeAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Writer.Header().Set("X-Request-ID", "req-42")

	Fail(c, http.StatusNotFound, ErrCodeNotFound, "terminal not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "req-42" || resp.Code != ErrCodeNotFound || resp.Message != "terminal not found" {
		t.Fatalf("envelope = %+v", resp)
	}
	if resp.Violations != nil {
		t.Fatalf("violations should be omitted: %+v", resp.Violations)
	}
}

func TestFailWith_Violations(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	failWith(c, http.StatusBadRequest, ErrCodeValidation, "validation failed",
		[]domain.FieldViolation{{Field: "name", Message: "is required"}})

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Violations) != 1 || resp.Violations[0].Field != "name" {
		t.Fatalf("violations = %+v", resp.Violations)
	}
}

func TestOkAndNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Served through an engine so the status line is actually flushed to the
	// recorder.
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { ok(c, http.StatusOK, gin.H{"x": 1}) })
	r.GET("/empty", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("ok -> %d body=%q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/empty", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("noContent -> %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("noContent body = %q", w.Body.String())
	}
}
