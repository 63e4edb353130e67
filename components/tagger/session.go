package tagger

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/internal/lock"
	"github.com/goliatone/go-tagger/pkg/cards"
	"github.com/goliatone/go-tagger/pkg/form"
	"github.com/goliatone/go-tagger/pkg/renderers/vanilla"
)

// session is the per-browser tagging state. Access is serialized through
// sessionStore.With.
type session struct {
	id    string
	form  *form.Form
	card  cards.Card
	alert *vanilla.Alert
}

// sessionStore keeps sessions in memory with a sliding expiry.
type sessionStore struct {
	cache  *gocache.Cache
	locks  *lock.MutexMap
	opts   Options
	logger *zap.Logger
}

func newSessionStore(opts Options) *sessionStore {
	return &sessionStore{
		cache:  gocache.New(opts.SessionTTL, opts.CleanupInterval),
		locks:  lock.NewMutexMap(),
		opts:   opts,
		logger: opts.Logger.Named("sessions"),
	}
}

// With runs fn against the session named by the request cookie, creating a
// session (and setting the cookie) when none exists. Calls for the same
// session run one at a time.
func (s *sessionStore) With(w http.ResponseWriter, r *http.Request, fn func(*session) error) error {
	id := s.cookieID(r)
	if id == "" {
		id = s.opts.NewID().String()
	}
	s.setCookie(w, id)

	var err error
	s.locks.WithLock(id, func() {
		sess := s.load(id)
		err = fn(sess)
		s.cache.Set(id, sess, gocache.DefaultExpiration)
	})
	return err
}

// Len reports the number of live sessions.
func (s *sessionStore) Len() int {
	return s.cache.ItemCount()
}

func (s *sessionStore) load(id string) *session {
	if cached, ok := s.cache.Get(id); ok {
		if sess, ok := cached.(*session); ok {
			return sess
		}
	}

	sess := &session{
		id:   id,
		form: form.New(s.opts.Registry, form.WithIDSource(s.opts.NewID), form.WithLogger(s.logger)),
	}
	card, err := s.draw()
	if err != nil {
		s.logger.Warn("no card for new session", zap.String("session", id), zap.Error(err))
		sess.alert = cardUnavailableAlert()
	} else {
		sess.card = card
	}
	s.logger.Debug("session created", zap.String("session", id), zap.String("card", sess.card.ID))
	return sess
}

func (s *sessionStore) draw() (cards.Card, error) {
	if s.opts.Cards == nil {
		return cards.Card{}, errors.New("tagger: no card provider configured")
	}
	return s.opts.Cards.DrawRandomCard()
}

func (s *sessionStore) cookieID(r *http.Request) string {
	cookie, err := r.Cookie(s.opts.CookieName)
	if err != nil {
		return ""
	}
	value := strings.TrimSpace(cookie.Value)
	if _, err := uuid.Parse(value); err != nil {
		return ""
	}
	return value
}

func (s *sessionStore) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.opts.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cardUnavailableAlert() *vanilla.Alert {
	return &vanilla.Alert{Level: vanilla.AlertWarning, Message: "No card is available right now"}
}
