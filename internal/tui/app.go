package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/rxadmin/internal/browser"
	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/internal/router"
	"github.com/naveenspark/rxadmin/internal/state"
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 4 * time.Second

// maxToasts caps how many notifications are stacked at once.
const maxToasts = 3

// openURL opens a link in the user's browser. Tests replace it.
var openURL = browser.Open

// notificationMsg delivers one notification from the queue.
type notificationMsg struct {
	n notify.Notification
}

// toastExpiredMsg removes a notification once its time is up.
type toastExpiredMsg struct {
	id string
}

// navigateMsg asks the root model to show another location.
type navigateMsg struct {
	location string
}

// loggedOutMsg is sent after the session has been dropped.
type loggedOutMsg struct{}

// App is the root Bubbletea model.
type App struct {
	st         *state.State
	notes      <-chan notify.Notification
	version    string
	route      router.Route
	login      loginModel
	dashboard  dashboardModel
	appts      appointmentsModel
	add        addDoctorModel
	doctors    doctorsModel
	toasts     []notify.Notification
	helpOpen   bool
	helpCursor int
	helpItems  []helpItem
	update     string // newer release tag, if any
	initCmd    tea.Cmd
	width      int
	height     int
	frame      int
}

// NewApp creates the console opened at route. notes may be nil when nothing
// feeds the toast stack.
func NewApp(st *state.State, notes <-chan notify.Notification, route router.Route, version string) App {
	a := App{
		st:        st,
		notes:     notes,
		version:   version,
		route:     route,
		login:     newLoginModel(st),
		dashboard: newDashboardModel(st),
		appts:     newAppointmentsModel(st),
		add:       newAddDoctorModel(st),
		doctors:   newDoctorsModel(st),
		helpItems: helpItemsFor(st.Config.Frontend.URL),
	}
	// Mount here rather than in Init so the page keeps its cancel func.
	a.initCmd = a.mountCmd()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), waitForNotification(a.notes), checkVersion(a.version), a.initCmd)
}

// mountCmd starts the current page's initial load.
func (a *App) mountCmd() tea.Cmd {
	var cmd tea.Cmd
	switch a.route.Page {
	case router.Dashboard:
		a.dashboard, cmd = a.dashboard.mount()
	case router.Appointments:
		a.appts, cmd = a.appts.mount()
	case router.DoctorList:
		a.doctors, cmd = a.doctors.mount()
	case router.AddDoctor:
		a.add = a.add.mount()
	case router.Login:
		a.login = a.login.mount()
	}
	return cmd
}

// unmount cancels whatever the current page has in flight.
func (a *App) unmount() {
	switch a.route.Page {
	case router.Dashboard:
		a.dashboard = a.dashboard.unmount()
	case router.Appointments:
		a.appts = a.appts.unmount()
	case router.DoctorList:
		a.doctors = a.doctors.unmount()
	}
}

// navigate resolves location against the session and switches pages.
func (a App) navigate(location string) (App, tea.Cmd) {
	next := a.st.Route(location)
	if next.Page == a.route.Page {
		a.route = next
		return a, nil
	}
	a.unmount()
	a.route = next
	return a, a.mountCmd()
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg{n: n}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + nav(1) + location(1) + toasts(maxToasts) + help(1)
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4 - maxToasts}
		a.login, _ = a.login.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.appts, _ = a.appts.Update(bodyMsg)
		a.add, _ = a.add.Update(bodyMsg)
		a.doctors, _ = a.doctors.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.update = msg.latestVersion
		}
		return a, nil

	case notificationMsg:
		a.toasts = append(a.toasts, msg.n)
		if len(a.toasts) > maxToasts {
			a.toasts = a.toasts[len(a.toasts)-maxToasts:]
		}
		id := msg.n.ID
		return a, tea.Batch(
			waitForNotification(a.notes),
			tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} }),
		)

	case toastExpiredMsg:
		for i, t := range a.toasts {
			if t.ID == msg.id {
				a.toasts = append(a.toasts[:i:i], a.toasts[i+1:]...)
				break
			}
		}
		return a, nil

	case navigateMsg:
		return a.navigate(msg.location)

	case loginResultMsg:
		a.login, _ = a.login.Update(msg)
		if msg.res.OK {
			return a.navigate(router.PathDashboard)
		}
		return a, nil

	// Mutation results belong to the page that started them, even when the
	// user has moved on.
	case availabilityToggledMsg, imageReportMsg, imagesRepairedMsg:
		var cmd tea.Cmd
		a.doctors, cmd = a.doctors.Update(msg)
		return a, cmd

	case doctorAddedMsg:
		var cmd tea.Cmd
		a.add, cmd = a.add.Update(msg)
		return a, cmd

	case loggedOutMsg:
		a.helpOpen = false
		return a.navigate(router.PathLogin)

	case tea.KeyMsg:
		if a.helpOpen {
			switch msg.String() {
			case "h", "?", "esc":
				a.helpOpen = false
			case "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(a.helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := a.helpItems[a.helpCursor]
				if item.url != "" {
					openURL(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.isEditing() {
			switch msg.String() {
			case "h", "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q":
				return a, tea.Quit
			case "L":
				if a.st.Session.Authenticated() {
					return a, a.logout()
				}
			case "1", "2", "3", "4":
				if a.st.Session.Authenticated() {
					idx := int(msg.String()[0] - '1')
					return a.navigate(router.Nav[idx].Path)
				}
			}
		} else if msg.String() == "esc" && a.route.Page == router.AddDoctor {
			return a.navigate(router.PathDashboard)
		}
	}

	var cmd tea.Cmd
	switch a.route.Page {
	case router.Login:
		a.login, cmd = a.login.Update(msg)
	case router.Dashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case router.Appointments:
		a.appts, cmd = a.appts.Update(msg)
	case router.AddDoctor:
		a.add, cmd = a.add.Update(msg)
	case router.DoctorList:
		a.doctors, cmd = a.doctors.Update(msg)
	}
	return a, cmd
}

func (a App) logout() tea.Cmd {
	sess := a.st.Session
	return func() tea.Msg {
		sess.Logout()
		return loggedOutMsg{}
	}
}

func (a App) isEditing() bool {
	switch a.route.Page {
	case router.Login, router.AddDoctor:
		return true
	case router.Appointments:
		return a.appts.searching
	}
	return false
}

func (a App) View() string {
	// Header: wordmark, then who is logged in
	header := " " + renderShimmerLogo(a.frame)
	if who := a.whoami(); who != "" {
		header += "  " + dimStyle.Render(who)
	}
	if a.update != "" {
		header += "  " + warnStyle.Render("update "+a.update+" available")
	}

	// Nav bar: 1 Dashboard  2 Appointments  3 Add Doctor  4 Doctors List
	var nav strings.Builder
	if a.route.Page == router.Login {
		nav.WriteString(" " + dimStyle.Render("Doctor Login"))
	} else {
		for i, r := range router.Nav {
			key := fmt.Sprintf("%d", i+1)
			var label string
			if r.Page == a.route.Page {
				label = accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(r.Title)
			} else {
				label = metaStyle.Render(key) + " " + dimStyle.Render(r.Title)
			}
			nav.WriteString(" " + label + "  ")
		}
	}

	location := " " + locationStyle.Render("rxadmin:"+a.route.Path)

	var body, help string
	switch a.route.Page {
	case router.Login:
		body = a.login.View()
		help = " " + a.login.helpKeys()
	case router.Dashboard:
		body = a.dashboard.View()
		help = " " + helpEntry("1-4", "pages") + "  " + a.dashboard.helpKeys() + "  " + a.globalKeys()
	case router.Appointments:
		body = a.appts.View()
		help = " " + helpEntry("1-4", "pages") + "  " + a.appts.helpKeys()
		if !a.appts.searching {
			help += "  " + a.globalKeys()
		}
	case router.AddDoctor:
		body = a.add.View()
		help = " " + a.add.helpKeys()
	case router.DoctorList:
		body = a.doctors.View()
		help = " " + helpEntry("1-4", "pages") + "  " + a.doctors.helpKeys() + "  " + a.globalKeys()
	}

	if a.helpOpen {
		body = helpView(a.helpItems, a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Toast stack, newest last, always maxToasts lines tall
	toastLines := make([]string, maxToasts)
	offset := maxToasts - len(a.toasts)
	for i, t := range a.toasts {
		toastLines[offset+i] = " " + toastStyle(t.Level).Render(truncStr(t.Text, max(a.width-2, 10)))
	}

	chrome := 4 + maxToasts
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		header,
		lipgloss.NewStyle().MaxWidth(max(a.width, 1)).Render(nav.String()),
		location,
		body,
		strings.Join(toastLines, "\n"),
		help,
	)
}

func (a App) globalKeys() string {
	return helpEntry("L", "logout") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
}

// whoami describes the session for the header.
func (a App) whoami() string {
	snap := a.st.Session.Snapshot()
	if !snap.Authenticated() {
		return ""
	}
	parts := []string{}
	if snap.Profile != nil && snap.Profile.Name != "" {
		parts = append(parts, snap.Profile.Name)
	}
	if snap.Role != "" {
		parts = append(parts, string(snap.Role))
	}
	if len(parts) == 0 {
		return "signed in"
	}
	return strings.Join(parts, " · ")
}
