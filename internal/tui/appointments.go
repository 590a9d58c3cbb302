package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/rxadmin/internal/state"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

// copyToClipboard writes text to the system clipboard. Tests replace it.
var copyToClipboard = clipboard.WriteAll

// statusFilters is the cycle order of the status filter; "" shows all.
var statusFilters = append([]domain.AppointmentStatus{""}, domain.AppointmentStatuses...)

type appointmentsLoadedMsg struct {
	err error
}

type appointmentsModel struct {
	st        *state.State
	loading   bool
	cancel    context.CancelFunc
	cursor    int
	offset    int
	filterIdx int
	search    string
	searching bool
	statusMsg string
	now       func() time.Time
	width     int
	height    int
}

func newAppointmentsModel(st *state.State) appointmentsModel {
	return appointmentsModel{st: st, now: time.Now}
}

func (m appointmentsModel) mount() (appointmentsModel, tea.Cmd) {
	m = m.unmount()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true
	m.statusMsg = ""
	appts := m.st.Data.Appointments
	return m, func() tea.Msg {
		_, err := appts.Refresh(ctx)
		return appointmentsLoadedMsg{err: err}
	}
}

func (m appointmentsModel) unmount() appointmentsModel {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
	m.searching = false
	return m
}

func (m appointmentsModel) filter() domain.AppointmentStatus {
	return statusFilters[m.filterIdx]
}

// visible applies the status filter and the search text.
func (m appointmentsModel) visible() []domain.Appointment {
	all := domain.FilterAppointments(m.st.Data.Appointments.Value(), m.filter())
	q := strings.ToLower(strings.TrimSpace(m.search))
	if q == "" {
		return all
	}
	out := make([]domain.Appointment, 0, len(all))
	for _, a := range all {
		hay := strings.ToLower(a.Patient.Name + " " + a.Doctor.Name + " " + a.Doctor.Speciality)
		if strings.Contains(hay, q) {
			out = append(out, a)
		}
	}
	return out
}

func (m appointmentsModel) Update(msg tea.Msg) (appointmentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case appointmentsLoadedMsg:
		m.loading = false
		m.clampCursor()

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appointmentsModel) handleSearchKey(msg tea.KeyMsg) (appointmentsModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
	case "esc":
		m.searching = false
		m.search = ""
	case "backspace":
		m.search = editRune(m.search, "backspace")
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.search = editRune(m.search, msg.String())
		}
	}
	m.cursor = 0
	m.offset = 0
	return m, nil
}

func (m appointmentsModel) handleKey(msg tea.KeyMsg) (appointmentsModel, tea.Cmd) {
	m.statusMsg = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(len(m.visible())-1, 0)
	case "f":
		m.filterIdx = (m.filterIdx + 1) % len(statusFilters)
		m.cursor = 0
		m.offset = 0
	case "/":
		m.searching = true
	case "c":
		rows := m.visible()
		if m.cursor < len(rows) {
			id := rows[m.cursor].ID
			if err := copyToClipboard(id); err != nil {
				m.statusMsg = "clipboard unavailable: " + id
			} else {
				m.statusMsg = "copied " + id
			}
		}
	case "r":
		return m.mount()
	}
	m.scroll()
	return m, nil
}

func (m *appointmentsModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.scroll()
}

// pageRows is how many table rows fit under the header lines.
func (m appointmentsModel) pageRows() int {
	rows := m.height - 6
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *appointmentsModel) scroll() {
	rows := m.pageRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m appointmentsModel) View() string {
	var b strings.Builder
	snap := m.st.Data.Appointments.Snapshot()

	// Title line with filter and search state
	filterLabel := "all"
	if f := m.filter(); f != "" {
		filterLabel = string(f)
	}
	b.WriteString("\n " + titleStyle.Render("All Appointments") + "  " + dimStyle.Render("status: ") + accentStyle.Render(filterLabel))
	switch {
	case m.searching:
		b.WriteString("  " + inputPromptStyle.Render("/") + m.search + accentStyle.Render("█"))
	case m.search != "":
		b.WriteString("  " + dimStyle.Render("search: "+m.search))
	}
	if m.loading {
		b.WriteString("  " + dimStyle.Render("loading..."))
	}
	b.WriteString("\n")

	if snap.Err != nil && len(snap.Value) == 0 {
		b.WriteString(" " + errorStyle.Render("could not load appointments") + "  " + dimStyle.Render("r to retry") + "\n")
		return b.String()
	}

	rows := m.visible()
	if len(rows) == 0 {
		if !m.loading {
			b.WriteString("\n " + dimStyle.Render("no appointments match") + "\n")
		}
		return b.String()
	}

	header := fmt.Sprintf("   %-4s %-20s %-4s %-22s %-24s %-10s %s", "#", "Patient", "Age", "Date & Time", "Doctor", "Fees", "Status")
	b.WriteString(sectionHeaderStyle.Render(header) + "\n")

	now := m.now()
	end := min(m.offset+m.pageRows(), len(rows))
	for i := m.offset; i < end; i++ {
		a := rows[i]
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		doctor := orUnknown(a.Doctor.Name, "Unknown Doctor")
		if a.Doctor.Speciality != "" {
			doctor += " (" + a.Doctor.Speciality + ")"
		}
		fees := domain.AgeUnknown
		if a.Amount > 0 {
			fees = formatFees(a.Amount)
		}
		line := fmt.Sprintf("%-4d %s %s %s %s %s",
			i+1,
			padRight(orUnknown(a.Patient.Name, "Unknown"), 20),
			padRight(domain.CalculateAge(a.Patient.DOB, now), 4),
			padRight(formatSlot(a), 22),
			padRight(doctor, 24),
			padRight(fees, 10),
		)
		if i == m.cursor {
			line = selectedRowBg.Render(normalStyle.Render(line))
		} else {
			line = dimStyle.Render(line)
		}
		b.WriteString(" " + cursor + " " + line + " " + statusLabel(a.Status()) + "\n")
	}

	footer := fmt.Sprintf("%d of %d", len(rows), len(snap.Value))
	if !snap.Updated.IsZero() {
		footer += " · updated " + formatTime(snap.Updated)
	}
	b.WriteString("\n " + metaStyle.Render(footer))
	if m.statusMsg != "" {
		b.WriteString("  " + accentStyle.Render(m.statusMsg))
	}
	b.WriteString("\n")
	return b.String()
}

func (m appointmentsModel) helpKeys() string {
	if m.searching {
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("f", "filter") + "  " + helpEntry("/", "search") + "  " + helpEntry("c", "copy id") + "  " + helpEntry("r", "refresh")
}
