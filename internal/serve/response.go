// Package serve provides the HTTP preview layer for darktalk, including
// response envelopes, DTOs with explicit JSON serialization, and request
// validation helpers.
package serve

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/marcus/darktalk/pkg/dialog"
)

// ============================================================================
// Response Envelope
// ============================================================================

// Envelope is the standard response wrapper for all API responses.
// Success: {"ok": true, "data": {...}}
// Error:   {"ok": false, "error": {"code": "...", "message": "...", "details": ...}}
type Envelope struct {
	OK    bool          `json:"ok"`
	Data  any           `json:"data,omitempty"`
	Error *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload holds structured error information.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// FieldError describes a single validation failure on a request field.
type FieldError struct {
	Field    string `json:"field"`
	Rule     string `json:"rule"`
	Value    any    `json:"value,omitempty"`
	Expected any    `json:"expected,omitempty"`
	Message  string `json:"message"`
}

// Standard error codes mapped to HTTP status codes.
const (
	ErrValidation   = "validation_error" // 400
	ErrNotFound     = "not_found"        // 404
	ErrConflict     = "conflict"         // 409
	ErrUnauthorized = "unauthorized"     // 401
	ErrInternal     = "internal"         // 500
)

// WriteSuccess writes a JSON success envelope with the given data and status.
func WriteSuccess(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{OK: true, Data: data}); err != nil {
		slog.Error("write success response", "err", err)
	}
}

// WriteError writes a JSON error envelope.
func WriteError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{
		OK: false,
		Error: &ErrorPayload{
			Code:    code,
			Message: message,
		},
	}); err != nil {
		slog.Error("write error response", "err", err)
	}
}

// WriteValidation writes a 400 validation_error response with field-level details.
func WriteValidation(w http.ResponseWriter, fields []FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(Envelope{
		OK: false,
		Error: &ErrorPayload{
			Code:    ErrValidation,
			Message: "Validation failed",
			Details: fields,
		},
	}); err != nil {
		slog.Error("write validation response", "err", err)
	}
}

// ============================================================================
// DTOs
// ============================================================================

// ButtonDTO is a mounted button.
type ButtonDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// InputDTO is a prompt's input field.
type InputDTO struct {
	Type           string `json:"type"`
	Value          string `json:"value"`
	SelectionStart int    `json:"selection_start"`
	SelectionEnd   int    `json:"selection_end"`
}

// ResultDTO is the outcome of a settled dialog.
type ResultDTO struct {
	Value *string `json:"value"`
	Error string  `json:"error,omitempty"`
}

// DialogDTO is the JSON view of a dialog.
type DialogDTO struct {
	ID         string      `json:"id"`
	Kind       string      `json:"kind"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	ZIndex     int         `json:"z_index"`
	State      string      `json:"state"`
	Mounted    bool        `json:"mounted"`
	Cancelable bool        `json:"cancelable"`
	Focus      string      `json:"focus"`
	FocusRing  []string    `json:"focus_ring"`
	Buttons    []ButtonDTO `json:"buttons"`
	Input      *InputDTO   `json:"input,omitempty"`
	Percent    *int        `json:"percent,omitempty"`
	Settled    bool        `json:"settled"`
	Result     *ResultDTO  `json:"result,omitempty"`
	HTML       string      `json:"html"`
}

// EventDTO is the response to an input event.
type EventDTO struct {
	Dialog          DialogDTO `json:"dialog"`
	PreventDefault  bool      `json:"prevent_default"`
	StopPropagation bool      `json:"stop_propagation"`
}

// DialogToDTO converts a dialog and its mount status.
func DialogToDTO(d *dialog.Dialog, mounted bool) DialogDTO {
	dto := DialogDTO{
		ID:         d.ID(),
		Kind:       string(d.Kind()),
		Title:      d.Title(),
		Message:    d.Message(),
		ZIndex:     d.ZIndex(),
		State:      d.State().String(),
		Mounted:    mounted,
		Cancelable: d.Cancelable(),
		Focus:      string(d.Focused()),
		FocusRing:  []string{},
		Buttons:    []ButtonDTO{},
		HTML:       d.HTML(),
	}
	for _, c := range d.FocusRing().Controls() {
		dto.FocusRing = append(dto.FocusRing, string(c))
	}
	for _, b := range d.Buttons() {
		dto.Buttons = append(dto.Buttons, ButtonDTO{ID: string(b.ID), Label: b.Label})
	}
	if in, ok := d.Input(); ok {
		dto.Input = &InputDTO{
			Type:           string(in.Type),
			Value:          in.Value,
			SelectionStart: in.SelectionStart,
			SelectionEnd:   in.SelectionEnd,
		}
	}
	if pct, ok := d.Percent(); ok {
		dto.Percent = &pct
	}

	res, settled, err := d.Handle().Outcome()
	dto.Settled = settled
	if settled {
		r := &ResultDTO{}
		if err != nil {
			r.Error = err.Error()
		} else if res.HasValue {
			v := res.Value
			r.Value = &v
		}
		dto.Result = r
	}
	return dto
}

// ============================================================================
// Request Bodies & Validation
// ============================================================================

// DialogCreateBody is the body of POST /v1/dialogs.
type DialogCreateBody struct {
	Kind       string          `json:"kind"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Value      string          `json:"value"`
	Buttons    []dialog.Button `json:"buttons"`
	Cancelable *bool           `json:"cancelable"`
	Type       string          `json:"type"`
}

// KeyBody is the body of POST /v1/dialogs/{id}/keys.
type KeyBody struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
}

// ClickBody is the body of POST /v1/dialogs/{id}/click. Button is "left"
// (default) or "right".
type ClickBody struct {
	Target string `json:"target"`
	Button string `json:"button"`
}

// InputBody is the body of POST /v1/dialogs/{id}/input.
type InputBody struct {
	Value string `json:"value"`
}

// ProgressBody is the body of POST /v1/dialogs/{id}/progress.
type ProgressBody struct {
	Percent *int `json:"percent"`
}

// ValidateDialogCreate validates a DialogCreateBody and returns any field errors.
func ValidateDialogCreate(body *DialogCreateBody) []FieldError {
	var errs []FieldError

	if body.Kind == "" {
		errs = append(errs, FieldError{
			Field:   "kind",
			Rule:    "required",
			Message: "kind is required",
		})
	} else if _, err := dialog.ParseKind(body.Kind); err != nil {
		errs = append(errs, FieldError{
			Field:    "kind",
			Rule:     "enum",
			Value:    body.Kind,
			Expected: []string{"alert", "confirm", "prompt", "progress"},
			Message:  fmt.Sprintf("invalid kind: %s", body.Kind),
		})
	}

	if body.Type != "" && body.Type != string(dialog.InputText) && body.Type != string(dialog.InputPassword) {
		errs = append(errs, FieldError{
			Field:    "type",
			Rule:     "enum",
			Value:    body.Type,
			Expected: []string{"text", "password"},
			Message:  fmt.Sprintf("invalid type: %s", body.Type),
		})
	}

	for i, b := range body.Buttons {
		if b.Key == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("buttons[%d].key", i),
				Rule:    "required",
				Message: "button key is required",
			})
		}
	}

	return errs
}

// ValidateClick validates a ClickBody.
func ValidateClick(body *ClickBody) []FieldError {
	switch body.Button {
	case "", "left", "right":
		return nil
	default:
		return []FieldError{{
			Field:    "button",
			Rule:     "enum",
			Value:    body.Button,
			Expected: []string{"left", "right"},
			Message:  fmt.Sprintf("invalid button: %s", body.Button),
		}}
	}
}
