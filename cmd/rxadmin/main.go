package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/naveenspark/rxadmin/internal/browser"
	"github.com/naveenspark/rxadmin/internal/callback"
	"github.com/naveenspark/rxadmin/internal/config"
	"github.com/naveenspark/rxadmin/internal/logging"
	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/internal/router"
	"github.com/naveenspark/rxadmin/internal/state"
	"github.com/naveenspark/rxadmin/internal/storage"
	"github.com/naveenspark/rxadmin/internal/tui"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// stdout is where subcommands print. Tests replace it.
var stdout io.Writer = os.Stdout

// loginTimeout bounds how long web-login waits for the browser.
const loginTimeout = 2 * time.Minute

// notifyBuffer is how many toasts may queue before the console drains them.
const notifyBuffer = 32

var errNotSignedIn = errors.New("not signed in: run rxadmin (or rxadmin web-login) first")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(stdout, "rxadmin "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(stdout)
		return nil
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "":
		return runConsole(ctx, cfg, "")
	case "open":
		if len(args) < 2 {
			return errors.New("usage: rxadmin open <url>")
		}
		return runConsole(ctx, cfg, args[1])
	case "web-login":
		return runWebLogin(ctx, cfg)
	case "logout":
		return runLogout(ctx, cfg)
	case "status":
		return runStatus(ctx, cfg)
	case "images":
		return runImages(ctx, cfg, args[1:])
	default:
		return fmt.Errorf("unknown command %q (see rxadmin help)", cmd)
	}
}

// console bundles what every subcommand needs.
type console struct {
	cfg    *config.Config
	log    *logrus.Logger
	st     *state.State
	queue  *notify.Queue
	closer io.Closer
}

// newConsole wires state for one run. Interactive consoles queue
// notifications for the TUI; the others print them as they happen.
func newConsole(cfg *config.Config, interactive bool) (*console, error) {
	log, closer, err := logging.OpenFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	c := &console{cfg: cfg, log: log, closer: closer}

	var notes notify.Notifier = notify.Printer(func(level notify.Level, text string) {
		printNotice(stdout, level, text)
	})
	if interactive {
		c.queue = notify.NewQueue(notifyBuffer, logging.Component(log, "notify"))
		notes = c.queue
	}
	c.st = state.New(cfg, log, storage.NewFile(cfg.StoragePath()), notes)
	log.WithFields(logrus.Fields{"version": version, "backend": cfg.Backend.URL}).Info("console started")
	return c, nil
}

func (c *console) Close() {
	c.closer.Close() //nolint:errcheck
}

// launch runs the TUI at route until the user quits.
func (c *console) launch(route router.Route) error {
	if c.st.Session.Authenticated() && c.st.Session.Expired() {
		c.log.Info("stored session expired")
		c.st.Session.Logout()
		route = c.st.Route(route.Path)
	}
	app := tui.NewApp(c.st, c.queue.C(), route, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runConsole opens the TUI at location, which may carry a ?token= or a
// doctor hand-off link.
func runConsole(ctx context.Context, cfg *config.Config, location string) error {
	c, err := newConsole(cfg, true)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.launch(c.st.Bootstrap(ctx, location))
}

// runWebLogin logs in through the main site. The site redirects back to a
// localhost callback with ?token=, which becomes the session.
func runWebLogin(ctx context.Context, cfg *config.Config) error {
	c, err := newConsole(cfg, true)
	if err != nil {
		return err
	}
	defer c.Close()

	srv, err := callback.Listen(logging.Component(c.log, "callback"))
	if err != nil {
		return err
	}
	go srv.Serve()

	loginURL := srv.LoginURL(cfg.LoginURL())
	fmt.Fprintln(stdout, "Opening browser to log in...")
	if err := browser.Open(loginURL); err != nil {
		fmt.Fprintf(stdout, "Could not open browser. Visit this URL manually:\n  %s\n", loginURL)
	}

	waitCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()
	got, err := srv.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("login timed out: no callback received within %s", loginTimeout)
		}
		return err
	}

	location, ok := c.st.Session.CaptureTokenFromURL(withToken(got.Location, got.Token))
	if !ok {
		return errors.New("login failed: token could not be stored")
	}
	fmt.Fprintln(stdout, "Logged in.")
	return c.launch(c.st.Route(location))
}

// withToken puts token back on location so it goes through the same capture
// path as a launch URL.
func withToken(location, token string) string {
	sep := "?"
	if strings.Contains(location, "?") {
		sep = "&"
	}
	return location + sep + "token=" + url.QueryEscape(token)
}

func runLogout(ctx context.Context, cfg *config.Config) error {
	c, err := newConsole(cfg, false)
	if err != nil {
		return err
	}
	defer c.Close()

	c.st.Bootstrap(ctx, "")
	if !c.st.Session.Authenticated() {
		fmt.Fprintln(stdout, "Already logged out.")
		return nil
	}
	c.st.Session.Logout()
	return nil
}

func runStatus(ctx context.Context, cfg *config.Config) error {
	c, err := newConsole(cfg, false)
	if err != nil {
		return err
	}
	defer c.Close()

	c.st.Bootstrap(ctx, "")
	printStatus(stdout, cfg, c.st)
	return nil
}

func runImages(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: rxadmin images check|fix|update")
	}
	c, err := newConsole(cfg, false)
	if err != nil {
		return err
	}
	defer c.Close()

	c.st.Bootstrap(ctx, "")
	if !c.st.Session.Authenticated() {
		return errNotSignedIn
	}

	data := c.st.Data
	switch args[0] {
	case "check":
		_, err = data.CheckImages(ctx)
	case "fix":
		err = data.FixAllImages(ctx)
	case "update":
		err = data.UpdateImages(ctx)
	default:
		return fmt.Errorf("unknown images command %q (want check, fix or update)", args[0])
	}
	if err != nil {
		// Already printed as a notification.
		return fmt.Errorf("images %s failed", args[0])
	}
	return nil
}
