// Package state wires the console's pieces into one application-state value
// that the views receive instead of reaching for globals.
package state

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/naveenspark/rxadmin/internal/cache"
	"github.com/naveenspark/rxadmin/internal/config"
	"github.com/naveenspark/rxadmin/internal/logging"
	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/internal/router"
	"github.com/naveenspark/rxadmin/internal/session"
	"github.com/naveenspark/rxadmin/internal/storage"
	"github.com/naveenspark/rxadmin/pkg/client"
)

// State is the application state shared by every view.
type State struct {
	Config  *config.Config
	Log     *logrus.Logger
	API     *client.Client
	Notes   notify.Notifier
	Session *session.Store
	Data    *cache.Cache
}

// New builds the state. The API client reads its bearer token from the
// session on every request, and logging out clears the cache.
func New(cfg *config.Config, log *logrus.Logger, kv storage.Store, notes notify.Notifier) *State {
	st := &State{Config: cfg, Log: log, Notes: notes}
	st.API = client.New(cfg.Backend.URL, "",
		client.WithTokenSource(func() string { return st.Session.Token() }),
		client.WithTimeout(cfg.Backend.Timeout),
		client.WithLogger(logging.Component(log, "client")),
	)
	st.Session = session.New(st.API, kv, notes, logging.Component(log, "session"))
	st.Data = cache.New(st.API, notes, logging.Component(log, "cache"))
	st.Session.OnLogout(st.Data.Clear)
	return st
}

// Bootstrap establishes the session for a launch location and returns where
// the console should open. An RXADMIN_TOKEN override wins; otherwise a doctor
// hand-off link, then a ?token= parameter, then the stored session are tried
// in that order.
func (s *State) Bootstrap(ctx context.Context, location string) router.Route {
	if location == "" {
		location = router.PathRoot
	}
	switch {
	case s.Config.Token != "":
		s.Session.UseToken(s.Config.Token)
	default:
		clean, ok := s.Session.VerifyDoctorLink(ctx, location)
		location = clean
		if !ok {
			location, ok = s.Session.CaptureTokenFromURL(location)
		}
		if !ok {
			s.Session.Restore()
		}
	}
	route := router.Resolve(location, s.Session.Authenticated())
	s.Log.WithFields(logrus.Fields{"component": "state", "route": route.Path}).Info("bootstrapped")
	return route
}

// Route resolves location against the current session.
func (s *State) Route(location string) router.Route {
	return router.Resolve(location, s.Session.Authenticated())
}
