package serve

import (
	"cmp"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/marcus/darktalk/pkg/dialog"
)

//go:embed static/darktalk.css
var stylesheet []byte

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>darktalk: %s</title>
<link rel="stylesheet" href="/darktalk.css">
</head>
<body>
%s
</body>
</html>
`

// decodeBody reads a JSON body into v. It writes a validation error and
// returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteValidation(w, []FieldError{{
			Field:   "body",
			Rule:    "json",
			Message: fmt.Sprintf("invalid JSON body: %v", err),
		}})
		return false
	}
	return true
}

// lookup returns the record for the path id. Called with s.mu held. It
// writes a 404 and returns nil when the dialog is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *record {
	id := r.PathValue("id")
	rec, ok := s.dialogs[id]
	if !ok {
		WriteError(w, ErrNotFound, fmt.Sprintf("dialog not found: %s", id), http.StatusNotFound)
		return nil
	}
	return rec
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	open := 0
	for _, rec := range s.dialogs {
		if rec.mounted {
			open++
		}
	}
	s.mu.Unlock()

	WriteSuccess(w, map[string]any{
		"status":  "ok",
		"mounted": open,
	}, http.StatusOK)
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(stylesheet)
}

func (s *Server) handleListDialogs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]*record, 0, len(s.dialogs))
	for _, rec := range s.dialogs {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b *record) int {
		return cmp.Compare(a.d.ZIndex(), b.d.ZIndex())
	})

	out := make([]DialogDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, DialogToDTO(rec.d, rec.mounted))
	}
	WriteSuccess(w, out, http.StatusOK)
}

func (s *Server) handleCreateDialog(w http.ResponseWriter, r *http.Request) {
	var body DialogCreateBody
	if !decodeBody(w, r, &body) {
		return
	}
	if errs := ValidateDialogCreate(&body); len(errs) > 0 {
		WriteValidation(w, errs)
		return
	}

	kind, _ := dialog.ParseKind(body.Kind)
	req := dialog.Request{
		Kind:    kind,
		Title:   body.Title,
		Message: body.Message,
		Value:   body.Value,
		Options: dialog.Options{
			Buttons:    body.Buttons,
			Cancelable: body.Cancelable,
			Type:       dialog.InputType(body.Type),
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.manager.Show(req)
	if err != nil {
		WriteError(w, ErrInternal, err.Error(), http.StatusInternalServerError)
		return
	}
	rec := s.dialogs[d.ID()]
	WriteSuccess(w, DialogToDTO(d, rec != nil && rec.mounted), http.StatusCreated)
}

func (s *Server) handleGetDialog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(w, r)
	if rec == nil {
		return
	}
	WriteSuccess(w, DialogToDTO(rec.d, rec.mounted), http.StatusOK)
}

// handleDeleteDialog removes an open dialog without settling it, then
// forgets it.
func (s *Server) handleDeleteDialog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(w, r)
	if rec == nil {
		return
	}
	rec.d.Remove()
	dto := DialogToDTO(rec.d, rec.mounted)
	delete(s.dialogs, rec.d.ID())
	WriteSuccess(w, dto, http.StatusOK)
}

func (s *Server) handleDialogPage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(w, r)
	if rec == nil {
		return
	}
	title := s.manager.Sanitizer().Sanitize(rec.d.Title())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, documentTemplate, title, rec.d.HTML())
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var body KeyBody
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(w, r)
	if rec == nil {
		return
	}
	res := rec.d.HandleKey(dialog.KeyEvent{Key: dialog.ParseKey(body.Key), Shift: body.Shift})
	writeEvent(w, rec, res)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var body ClickBody
	if !decodeBody(w, r, &body) {
		return
	}
	if errs := ValidateClick(&body); len(errs) > 0 {
		WriteValidation(w, errs)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(w, r)
	if rec == nil {
		return
	}
	var res dialog.EventResult
	if body.Button == "right" {
		res = rec.d.ContextMenu()
	} else {
		res = rec.d.Click(dialog.Control(body.Target))
	}
	writeEvent(w, rec, res)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var body InputBody
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(w, r)
	if rec == nil {
		return
	}
	if _, ok := rec.d.Input(); !ok {
		WriteError(w, ErrConflict, "dialog has no input field", http.StatusConflict)
		return
	}
	rec.d.SetInputValue(body.Value)
	WriteSuccess(w, DialogToDTO(rec.d, rec.mounted), http.StatusOK)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var body ProgressBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Percent == nil {
		WriteValidation(w, []FieldError{{
			Field:   "percent",
			Rule:    "required",
			Message: "percent is required",
		}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(w, r)
	if rec == nil {
		return
	}
	p, ok := rec.d.AsProgress()
	if !ok {
		WriteError(w, ErrConflict, "dialog is not a progress dialog", http.StatusConflict)
		return
	}
	p.SetProgress(*body.Percent)
	WriteSuccess(w, DialogToDTO(rec.d, rec.mounted), http.StatusOK)
}

func writeEvent(w http.ResponseWriter, rec *record, res dialog.EventResult) {
	WriteSuccess(w, EventDTO{
		Dialog:          DialogToDTO(rec.d, rec.mounted),
		PreventDefault:  res.PreventDefault,
		StopPropagation: res.StopPropagation,
	}, http.StatusOK)
}
