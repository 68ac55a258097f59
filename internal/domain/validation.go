// Package domain – terminal validation.
//
// This file implements the pure validation layer for terminal records: a
// constructor that takes raw field values and either produces a Terminal ready
// for persistence or fails with a ValidationError enumerating every violated
// constraint, not just the first. No I/O happens here.
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Field length bounds for terminal records. These are the canonical rules;
// looser variants observed in historical data (6–8 serial numbers, terminal
// IDs without the NBS prefix) are rejected.
const (
	NameMaxLen          = 25
	TerminalIDMaxLen    = 8
	TerminalIDPrefix    = "NBS"
	SerialMinLen        = 5
	SerialMaxLen        = 11
	LineSerialMinLen    = 16
	LineSerialMaxLen    = 18
	ReturnReasonMinLen  = 3
	ReturnReasonMaxLen  = 255
	FedexTrackingMaxLen = 64
)

// FieldViolation describes a single failed constraint on a named field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every constraint violated by an input payload.
// It is never returned partially applied: when non-nil, nothing was stored.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

// Error implements the error interface, joining violations into one line.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the error contains a violation for the given field.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// TerminalInput carries the raw field values of a dispatch submission.
// Type and Branch are uninterpreted labels at this point; NewTerminal
// resolves them against the closed enumerations.
type TerminalInput struct {
	Name                string
	TerminalID          string
	SerialNumber        string
	LineSerialNumber    string
	Type                string
	Branch              string
	DispatchDate        time.Time
	FedexTrackingNumber string
}

// NewTerminal validates raw input and assembles a Terminal in its initial
// lifecycle state (active, no return fields). The ID is left empty: the
// persistence layer assigns it at insert time.
//
// now is the submission instant used for the dispatch-date-in-future check;
// callers normally pass time.Now(). All violations are gathered before
// returning, so the caller sees the complete list.
func NewTerminal(in TerminalInput, now time.Time) (*Terminal, *ValidationError) {
	var vs []FieldViolation
	add := func(field, msg string) { vs = append(vs, FieldViolation{Field: field, Message: msg}) }

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		add("name", "is required")
	case utf8.RuneCountInString(name) > NameMaxLen:
		add("name", fmt.Sprintf("must be at most %d characters", NameMaxLen))
	}

	tid := strings.TrimSpace(in.TerminalID)
	switch {
	case tid == "":
		add("terminal_id", "is required")
	case utf8.RuneCountInString(tid) > TerminalIDMaxLen:
		add("terminal_id", fmt.Sprintf("must be at most %d characters", TerminalIDMaxLen))
	case !strings.HasPrefix(tid, TerminalIDPrefix):
		add("terminal_id", fmt.Sprintf("must start with %q", TerminalIDPrefix))
	}

	serial := strings.TrimSpace(in.SerialNumber)
	if n := utf8.RuneCountInString(serial); n < SerialMinLen || n > SerialMaxLen {
		add("serial_number", fmt.Sprintf("must be %d-%d characters", SerialMinLen, SerialMaxLen))
	}

	line := strings.TrimSpace(in.LineSerialNumber)
	switch {
	case utf8.RuneCountInString(line) < LineSerialMinLen || utf8.RuneCountInString(line) > LineSerialMaxLen:
		add("line_serial_number", fmt.Sprintf("must be %d-%d digits", LineSerialMinLen, LineSerialMaxLen))
	case !digitsOnly(line):
		add("line_serial_number", "must contain only digits")
	}

	ttype, okType := ParseTerminalType(strings.TrimSpace(in.Type))
	if !okType {
		add("type", "is not a known terminal type")
	}

	branch, okBranch := ParseBranch(strings.TrimSpace(in.Branch))
	if !okBranch {
		add("branch", "is not a known branch")
	}

	switch {
	case in.DispatchDate.IsZero():
		add("dispatch_date", "is required")
	case in.DispatchDate.After(now):
		add("dispatch_date", "must not be in the future")
	}

	fedex := strings.TrimSpace(in.FedexTrackingNumber)
	if utf8.RuneCountInString(fedex) > FedexTrackingMaxLen {
		add("fedex_tracking_number", fmt.Sprintf("must be at most %d characters", FedexTrackingMaxLen))
	}

	if len(vs) > 0 {
		return nil, &ValidationError{Violations: vs}
	}

	return &Terminal{
		Name:                name,
		TerminalID:          tid,
		SerialNumber:        serial,
		LineSerialNumber:    line,
		Type:                ttype,
		Branch:              branch,
		DispatchDate:        in.DispatchDate,
		FedexTrackingNumber: fedex,
		IsReturned:          false,
	}, nil
}

// ValidateReturnReason checks the free-text reason supplied with a return
// transition (3–255 characters after trimming).
func ValidateReturnReason(reason string) *ValidationError {
	r := strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(r); n < ReturnReasonMinLen || n > ReturnReasonMaxLen {
		return &ValidationError{Violations: []FieldViolation{{
			Field:   "return_reason",
			Message: fmt.Sprintf("must be %d-%d characters", ReturnReasonMinLen, ReturnReasonMaxLen),
		}}}
	}
	return nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
