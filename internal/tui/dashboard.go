package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/rxadmin/internal/cache"
	"github.com/naveenspark/rxadmin/internal/router"
	"github.com/naveenspark/rxadmin/internal/state"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

// latestCount is how many recent appointments the dashboard lists.
const latestCount = 5

type dashboardLoadedMsg struct{}

type dashboardModel struct {
	st      *state.State
	loading bool
	cancel  context.CancelFunc
	width   int
	height  int
}

func newDashboardModel(st *state.State) dashboardModel {
	return dashboardModel{st: st}
}

// mount refreshes all three collections at once; each fails on its own.
func (m dashboardModel) mount() (dashboardModel, tea.Cmd) {
	m = m.unmount()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true
	data := m.st.Data
	return m, func() tea.Msg {
		data.RefreshAll(ctx)
		return dashboardLoadedMsg{}
	}
}

func (m dashboardModel) unmount() dashboardModel {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
	return m
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case dashboardLoadedMsg:
		m.loading = false

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m.mount()
		case "enter", "a":
			return m, func() tea.Msg { return navigateMsg{location: router.PathAppointments} }
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	data := m.st.Data
	stats := data.Stats.Snapshot()
	doctors := data.Doctors.Snapshot()
	appts := data.Appointments.Snapshot()

	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Admin Dashboard"))
	if m.loading {
		b.WriteString("  " + dimStyle.Render("refreshing..."))
	}
	b.WriteString("\n\n")

	available := 0
	for _, d := range doctors.Value {
		if d.Available {
			available++
		}
	}
	upcoming := len(domain.FilterAppointments(appts.Value, domain.StatusUpcoming))

	cards := []string{
		statCard("Total Users", fmt.Sprint(stats.Value.TotalUsers), "", stats.State),
		statCard("Total Appointments", fmt.Sprint(stats.Value.TotalAppointments), fmt.Sprintf("%d upcoming", upcoming), stats.State),
		statCard("Doctors", fmt.Sprint(len(doctors.Value)), fmt.Sprintf("%d available", available), doctors.State),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if m.width > 0 && lipgloss.Width(row) > m.width {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	for _, line := range strings.Split(row, "\n") {
		b.WriteString(" " + line + "\n")
	}

	for _, failed := range []struct {
		name string
		err  error
	}{
		{"stats", stats.Err},
		{"doctors", doctors.Err},
		{"appointments", appts.Err},
	} {
		if failed.err != nil {
			b.WriteString(" " + errorStyle.Render("could not load "+failed.name) + "  " + dimStyle.Render("r to retry") + "\n")
		}
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("Latest Appointments") + "\n")
	latest := appts.Value
	if len(latest) > latestCount {
		latest = latest[len(latest)-latestCount:]
	}
	if len(latest) == 0 {
		b.WriteString(" " + dimStyle.Render("no appointments yet") + "\n")
	}
	for i := len(latest) - 1; i >= 0; i-- {
		a := latest[i]
		fmt.Fprintf(&b, " %s  %s  %s  %s\n",
			normalStyle.Render(padRight(orUnknown(a.Doctor.Name, "Unknown Doctor"), 22)),
			dimStyle.Render(padRight(orUnknown(a.Patient.Name, "Unknown"), 18)),
			metaStyle.Render(padRight(formatSlot(a), 22)),
			statusLabel(a.Status()),
		)
	}
	if appts.State == cache.Succeeded {
		b.WriteString(" " + metaStyle.Render("updated "+formatTime(appts.Updated)) + "\n")
	}
	return b.String()
}

func statCard(title, value, subtitle string, st cache.State) string {
	if st == cache.Idle || (st == cache.Loading && value == "0") {
		value = "…"
	}
	body := dimStyle.Render(title) + "\n" + statValueStyle.Render(value)
	if subtitle != "" {
		body += "\n" + metaStyle.Render(subtitle)
	}
	return statCardStyle.Render(body)
}

func (m dashboardModel) helpKeys() string {
	return helpEntry("r", "refresh") + "  " + helpEntry("enter", "appointments")
}
