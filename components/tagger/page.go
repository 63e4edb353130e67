package tagger

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/pkg/renderers/vanilla"
	"github.com/goliatone/go-tagger/pkg/submission"
)

// Values of the "action" button on the HTML form.
const (
	actionUpdate  = "update"
	actionAdd     = "add"
	actionRemove  = "remove:"
	actionSubmit  = "submit"
	actionNewCard = "new-card"
)

func (h *handler) servePage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, nil)
}

// serveApply applies a posted form: every posted verb, then every posted
// field value, then the pressed button. Successful posts redirect back to the
// page; failures render the page directly with the error status.
func (h *handler) serveApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	h.renderPage(w, r, 0, func(sess *session) error {
		if err := h.applyPosted(sess, r.PostForm); err != nil {
			return err
		}
		return h.applyAction(r, sess, r.PostForm.Get("action"))
	})
}

// renderPage runs event (if any) against the session and writes the page.
// A zero status with a successful event redirects instead of rendering.
func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, event func(*session) error) {
	var (
		body     []byte
		redirect bool
	)
	err := h.sessions.With(w, r, func(sess *session) error {
		if event != nil {
			if err := event(sess); err != nil {
				status = statusOf(err)
				h.logger.Debug("event rejected", zap.String("session", sess.id), zap.Error(err))
			} else if status == 0 {
				redirect = true
				return nil
			}
		}
		page := h.page(r, sess)
		rendered, err := h.opts.Renderer.RenderPage(r.Context(), page)
		if err != nil {
			return fmt.Errorf("tagger: render page: %w", err)
		}
		sess.alert = nil
		body = rendered
		return nil
	})
	if err != nil {
		h.logger.Error("page render failed", zap.Error(err))
		http.Error(w, "Internal error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if redirect {
		http.Redirect(w, r, h.routes.Page, http.StatusSeeOther)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *handler) applyPosted(sess *session, values url.Values) error {
	for _, row := range sess.form.Rows() {
		vs, ok := values[vanilla.VerbFieldName(row.ID.String())]
		if !ok || len(vs) == 0 {
			continue
		}
		if _, err := h.selectVerb(sess, row.ID, vs[0]); err != nil {
			return err
		}
	}
	for _, row := range sess.form.Rows() {
		for _, field := range row.Fields {
			vs, ok := values[field.Name]
			if !ok || len(vs) == 0 || vs[0] == field.Value {
				continue
			}
			if err := h.setField(sess, field.Name, vs[0]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *handler) applyAction(r *http.Request, sess *session, action string) error {
	switch {
	case action == "" || action == actionUpdate:
		return nil
	case action == actionAdd:
		h.addRow(sess)
		return nil
	case strings.HasPrefix(action, actionRemove):
		id, err := uuid.Parse(strings.TrimPrefix(action, actionRemove))
		if err != nil {
			return statusErrorf(http.StatusBadRequest, "tagger: invalid row id in %q", action)
		}
		h.removeRow(sess, id)
		return nil
	case action == actionSubmit:
		_, err := h.submit(r.Context(), sess, userFrom(r))
		return err
	case action == actionNewCard:
		h.newCard(sess)
		return nil
	default:
		return statusErrorf(http.StatusBadRequest, "tagger: unknown action %q", action)
	}
}

func (h *handler) page(r *http.Request, sess *session) vanilla.Page {
	return vanilla.Page{
		BasePath:      h.routes.Page,
		HomePath:      h.routes.Home,
		Stylesheet:    h.stylesheet(),
		User:          userFrom(r),
		Card:          sess.card,
		Rows:          sess.form.Rows(),
		SubmitEnabled: submission.Ready(sess.form, sess.card),
		Alert:         sess.alert,
	}
}

func (h *handler) serveHome(w http.ResponseWriter, r *http.Request) {
	body, err := h.opts.Renderer.RenderHome(r.Context(), vanilla.Page{
		BasePath:   h.routes.Page,
		Stylesheet: h.stylesheet(),
	})
	if err != nil {
		h.logger.Error("home render failed", zap.Error(err))
		http.Error(w, "Internal error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (h *handler) stylesheet() string {
	if h.routes.Assets == "" {
		return ""
	}
	return h.routes.Assets + vanilla.StylesheetName
}

func (h *handler) assetHandler() http.Handler {
	return http.StripPrefix(h.routes.Assets, http.FileServerFS(vanilla.AssetsFS()))
}
