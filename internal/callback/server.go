// Package callback runs the short-lived localhost server that receives the
// session token when logging in through the main site.
package callback

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const redirectGrace = 2 * time.Second

const donePage = "<html><body><h2>Logged in.</h2><p>You can close this tab and return to the terminal.</p></body></html>"

// Capture is what the callback received.
type Capture struct {
	Token string
	// Location is the callback URL with the token and state removed.
	Location string
}

// Server waits for one redirect carrying ?token= and the matching ?state=.
type Server struct {
	ln       net.Listener
	state    string
	srv      *http.Server
	log      *logrus.Entry
	result   chan Capture
	captured atomic.Bool
}

// Listen binds an ephemeral port on 127.0.0.1 and picks a random state that
// the redirect must echo back.
func Listen(log *logrus.Entry) (*Server, error) {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, fmt.Errorf("callback.Listen: generate state: %w", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("callback.Listen: %w", err)
	}
	s := &Server{ln: ln, state: hex.EncodeToString(stateBytes), log: log, result: make(chan Capture, 1)}
	s.srv = &http.Server{Handler: s.Handler()}
	return s, nil
}

// URL is the address the main site should redirect to. It carries the state,
// so the site only has to append ?token=.
func (s *Server) URL() string {
	return "http://" + s.ln.Addr().String() + "/?state=" + s.state
}

// State is the value a redirect must carry to be accepted.
func (s *Server) State() string {
	return s.state
}

// LoginURL points the main site's login page at this server.
func (s *Server) LoginURL(loginPage string) string {
	params := url.Values{}
	params.Set("redirect", s.URL())
	params.Set("state", s.state)
	return loginPage + "?" + params.Encode()
}

// Handler returns the gin engine. Any path accepts the token once, provided
// the state matches; the browser is then sent to the same location without
// either so the token does not linger in its history.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if s.captured.Load() {
				c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(donePage))
				return
			}
			c.String(http.StatusBadRequest, "missing token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.Query("state")), []byte(s.state)) != 1 {
			s.log.WithField("path", c.Request.URL.Path).Warn("callback state mismatch")
			c.String(http.StatusForbidden, "invalid state")
			return
		}
		u := *c.Request.URL
		q := u.Query()
		q.Del("token")
		q.Del("state")
		u.RawQuery = q.Encode()

		if s.captured.CompareAndSwap(false, true) {
			s.result <- Capture{Token: token, Location: u.RequestURI()}
			s.log.WithField("path", u.Path).Info("token received")
		}
		c.Redirect(http.StatusSeeOther, u.RequestURI())
	})
	return r
}

// Serve runs the server until Wait returns.
func (s *Server) Serve() {
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.WithError(err).Error("callback server stopped")
	}
}

// Wait blocks until a token arrives or ctx ends. After a token the server
// stays up for a moment so the browser can follow the redirect.
func (s *Server) Wait(ctx context.Context) (Capture, error) {
	select {
	case c := <-s.result:
		time.AfterFunc(redirectGrace, func() { s.Close() })
		return c, nil
	case <-ctx.Done():
		s.Close() //nolint:errcheck
		return Capture{}, fmt.Errorf("callback.Wait: %w", ctx.Err())
	}
}

// Close stops the server.
func (s *Server) Close() error {
	err := s.srv.Close()
	s.ln.Close() //nolint:errcheck // already closed once Serve ran
	return err
}
