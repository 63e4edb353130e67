package tagger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/form"
	"github.com/goliatone/go-tagger/pkg/registry"
	"github.com/goliatone/go-tagger/pkg/renderers/vanilla"
	"github.com/goliatone/go-tagger/pkg/rows"
	"github.com/goliatone/go-tagger/pkg/submission"
)

// State is the JSON body returned by every API endpoint.
type State struct {
	Rows          []RowState     `json:"rows"`
	Deltas        []form.Delta   `json:"deltas,omitempty"`
	SubmitEnabled bool           `json:"submit_enabled"`
	Card          cards.Card     `json:"card"`
	Alert         *vanilla.Alert `json:"alert,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// RowState is one row with its rendered fields in display order.
type RowState struct {
	ID     uuid.UUID    `json:"id"`
	Verb   string       `json:"verb"`
	Fields []FieldState `json:"fields"`
}

// FieldState describes one input and its current value.
type FieldState struct {
	Name        string              `json:"name"`
	Key         string              `json:"key"`
	Placeholder string              `json:"placeholder"`
	Widget      registry.WidgetKind `json:"widget"`
	Options     []registry.Option   `json:"options"`
	Value       string              `json:"value"`
}

type rowRequest struct {
	Row uuid.UUID `json:"row"`
}

type verbRequest struct {
	Row  uuid.UUID `json:"row"`
	Verb string    `json:"verb"`
}

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type apiEvent func(r *http.Request, sess *session) ([]form.Delta, error)

// api adapts an event to a JSON endpoint. The alert raised by the event is
// returned once and then cleared.
func (h *handler) api(event apiEvent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)

		var state State
		status := http.StatusOK
		_ = h.sessions.With(w, r, func(sess *session) error {
			deltas, err := event(r, sess)
			if err != nil {
				status = statusOf(err)
				state.Error = err.Error()
			}
			state.Deltas = deltas
			state.Rows = rowStates(sess.form)
			state.SubmitEnabled = submission.Ready(sess.form, sess.card)
			state.Card = sess.card
			state.Alert = sess.alert
			sess.alert = nil
			return nil
		})
		writeJSON(w, status, state, h.logger)
	}
}

func (h *handler) apiState(_ *http.Request, _ *session) ([]form.Delta, error) {
	return nil, nil
}

func (h *handler) apiAddRow(_ *http.Request, sess *session) ([]form.Delta, error) {
	return h.addRow(sess), nil
}

func (h *handler) apiRemoveRow(r *http.Request, sess *session) ([]form.Delta, error) {
	var req rowRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return h.removeRow(sess, req.Row), nil
}

func (h *handler) apiSelectVerb(r *http.Request, sess *session) ([]form.Delta, error) {
	var req verbRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return h.selectVerb(sess, req.Row, req.Verb)
}

func (h *handler) apiSetField(r *http.Request, sess *session) ([]form.Delta, error) {
	var req fieldRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return nil, h.setField(sess, req.Field, req.Value)
}

func (h *handler) apiSubmit(r *http.Request, sess *session) ([]form.Delta, error) {
	return h.submit(r.Context(), sess, userFrom(r))
}

func (h *handler) apiNewCard(_ *http.Request, sess *session) ([]form.Delta, error) {
	return h.newCard(sess), nil
}

func rowStates(f *form.Form) []RowState {
	current := f.Rows()
	out := make([]RowState, 0, len(current))
	for _, row := range current {
		values := make(map[string]string, len(row.Fields))
		for _, field := range row.Fields {
			values[field.Name] = field.Value
		}
		state := RowState{ID: row.ID, Verb: row.Verb, Fields: []FieldState{}}
		for _, element := range row.Elements {
			if element.Kind != rows.ElementInput {
				continue
			}
			name := element.Field.String()
			state.Fields = append(state.Fields, FieldState{
				Name:        name,
				Key:         element.Field.Key(),
				Placeholder: element.Field.Placeholder,
				Widget:      element.Placeholder.Widget,
				Options:     element.Placeholder.Options,
				Value:       values[name],
			})
		}
		out = append(out, state)
	}
	return out
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return statusErrorf(http.StatusBadRequest, "tagger: empty request body")
		}
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("tagger: decode request: %w", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("write json response", zap.Error(err))
	}
}
