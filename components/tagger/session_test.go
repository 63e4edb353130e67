package tagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-tagger/pkg/testsupport"
)

func TestSessionStoreIssuesCookieAndReusesSession(t *testing.T) {
	store := newSessionStore(NewOptions(WithCards(&seqCards{}), WithIDSource(testsupport.SequentialIDs())))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tagger", nil)
	var first *session
	if err := store.With(rec, req, func(s *session) error { first = s; return nil }); err != nil {
		t.Fatalf("With: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "tagger_session" || !cookies[0].HttpOnly {
		t.Fatalf("expected one http-only session cookie, got %+v", cookies)
	}
	if first.card.ID != "sv1-1" || first.form.Len() != 1 {
		t.Fatalf("expected fresh session with a card and one row, got %+v", first)
	}

	again := httptest.NewRequest(http.MethodGet, "/tagger", nil)
	again.AddCookie(cookies[0])
	var second *session
	_ = store.With(httptest.NewRecorder(), again, func(s *session) error { second = s; return nil })
	if second != first {
		t.Fatalf("expected cookie to resolve to the same session")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one stored session, got %d", store.Len())
	}
}

func TestSessionStoreIgnoresForgedCookie(t *testing.T) {
	store := newSessionStore(NewOptions(WithCards(&seqCards{})))

	req := httptest.NewRequest(http.MethodGet, "/tagger", nil)
	req.AddCookie(&http.Cookie{Name: "tagger_session", Value: "../../etc/passwd"})
	var id string
	_ = store.With(httptest.NewRecorder(), req, func(s *session) error { id = s.id; return nil })
	if id == "../../etc/passwd" {
		t.Fatalf("expected forged cookie to be replaced")
	}
}

func TestSessionWithoutCardsShowsAlert(t *testing.T) {
	store := newSessionStore(NewOptions())

	var got *session
	_ = store.With(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tagger", nil), func(s *session) error {
		got = s
		return nil
	})
	if got.card.ID != "" || got.alert == nil {
		t.Fatalf("expected empty card with an alert, got %+v", got)
	}
}
