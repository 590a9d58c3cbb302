package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/rxadmin/internal/state"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

// aboutPreview is how much of a doctor's bio a card shows.
const aboutPreview = 80

// cardHeight is the rendered height of one doctor card, borders included.
const cardHeight = 8

// -- messages --

type doctorsLoadedMsg struct {
	err error
}

type availabilityToggledMsg struct {
	docID string
	err   error
}

type imageReportMsg struct {
	report *domain.ImageReport
	err    error
}

type imagesRepairedMsg struct {
	err error
}

// -- model --

type doctorsModel struct {
	st        *state.State
	loading   bool
	busy      bool // a mutation is in flight
	cancel    context.CancelFunc
	cursor    int
	report    *domain.ImageReport
	statusMsg string
	width     int
	height    int
}

func newDoctorsModel(st *state.State) doctorsModel {
	return doctorsModel{st: st}
}

func (m doctorsModel) mount() (doctorsModel, tea.Cmd) {
	m = m.stopLoad()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true
	doctors := m.st.Data.Doctors
	return m, func() tea.Msg {
		_, err := doctors.Refresh(ctx)
		return doctorsLoadedMsg{err: err}
	}
}

func (m doctorsModel) stopLoad() doctorsModel {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
	return m
}

// unmount also forgets a mutation in flight; its result still arrives and
// refreshes the list, but the keys are live again on return.
func (m doctorsModel) unmount() doctorsModel {
	m = m.stopLoad()
	m.busy = false
	return m
}

func (m doctorsModel) Update(msg tea.Msg) (doctorsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case doctorsLoadedMsg:
		m.loading = false
		if n := len(m.st.Data.Doctors.Value()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}

	case availabilityToggledMsg:
		m.busy = false

	case imageReportMsg:
		m.busy = false
		if msg.err == nil {
			m.report = msg.report
		}

	case imagesRepairedMsg:
		m.busy = false
		if msg.err == nil {
			m.report = nil
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m doctorsModel) handleKey(msg tea.KeyMsg) (doctorsModel, tea.Cmd) {
	m.statusMsg = ""
	doctors := m.st.Data.Doctors.Value()
	data := m.st.Data

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(doctors)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "enter":
		if m.busy || m.cursor >= len(doctors) {
			return m, nil
		}
		id := doctors[m.cursor].ID
		m.busy = true
		return m, func() tea.Msg {
			err := data.ToggleAvailability(context.Background(), id)
			return availabilityToggledMsg{docID: id, err: err}
		}
	case "c":
		if m.cursor < len(doctors) {
			id := doctors[m.cursor].ID
			if err := copyToClipboard(id); err != nil {
				m.statusMsg = "clipboard unavailable: " + id
			} else {
				m.statusMsg = "copied " + id
			}
		}
	case "i":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			report, err := data.CheckImages(context.Background())
			return imageReportMsg{report: report, err: err}
		}
	case "F":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			return imagesRepairedMsg{err: data.FixAllImages(context.Background())}
		}
	case "U":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			return imagesRepairedMsg{err: data.UpdateImages(context.Background())}
		}
	case "r":
		return m.mount()
	}
	return m, nil
}

func (m doctorsModel) View() string {
	var b strings.Builder
	snap := m.st.Data.Doctors.Snapshot()

	b.WriteString("\n " + titleStyle.Render("Doctors List") + "  " + dimStyle.Render(fmt.Sprintf("%d doctors", len(snap.Value))))
	if m.loading {
		b.WriteString("  " + dimStyle.Render("loading..."))
	}
	if m.busy {
		b.WriteString("  " + dimStyle.Render("working..."))
	}
	if m.report != nil {
		line := fmt.Sprintf("images: %d/%d broken", m.report.BrokenImages, m.report.TotalDoctors)
		if m.report.BrokenImages > 0 {
			b.WriteString("  " + warnStyle.Render(line+" (F fix, U update)"))
		} else {
			b.WriteString("  " + successStyle.Render(line))
		}
	}
	b.WriteString("\n")

	if snap.Err != nil && len(snap.Value) == 0 {
		b.WriteString(" " + errorStyle.Render("could not load doctors") + "  " + dimStyle.Render("r to retry") + "\n")
		return b.String()
	}
	if len(snap.Value) == 0 {
		if !m.loading {
			b.WriteString("\n " + dimStyle.Render("no doctors yet, press 3 to add one") + "\n")
		}
		return b.String()
	}

	perPage := max((m.height-3)/cardHeight, 1)
	start := 0
	if m.cursor >= perPage {
		start = m.cursor - perPage + 1
	}
	end := min(start+perPage, len(snap.Value))
	for i := start; i < end; i++ {
		b.WriteString(m.renderCard(snap.Value[i], i == m.cursor) + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString(" " + accentStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

// renderCard renders one doctor the way the web panel's card did.
func (m doctorsModel) renderCard(d domain.Doctor, selected bool) string {
	about := d.About
	if len([]rune(about)) > aboutPreview {
		about = string([]rune(about)[:aboutPreview]) + "..."
	}

	name := selectedStyle.Render(d.Name) + "  " + SpecialityStyle(d.Speciality).Render(d.Speciality)
	lines := []string{
		name,
		dimStyle.Render("Email: ") + normalStyle.Render(d.Email),
		dimStyle.Render("Experience: ") + normalStyle.Render(d.Experience) + dimStyle.Render("   Degree: ") + normalStyle.Render(d.Degree),
		dimStyle.Render("Fees: ") + normalStyle.Render(formatFees(d.Fees)),
		metaStyle.Italic(true).Render(about),
		availabilityBadge(d.Available),
	}

	width := 60
	if m.width > 4 {
		width = min(m.width-4, 80)
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width)
	if selected {
		style = style.BorderForeground(lipgloss.Color("#5f6fff"))
	}

	card := style.Render(strings.Join(lines, "\n"))
	var out strings.Builder
	for i, line := range strings.Split(card, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(" " + line)
	}
	return out.String()
}

func (m doctorsModel) helpKeys() string {
	return helpEntry("j/k", "nav") + "  " + helpEntry("space", "availability") + "  " + helpEntry("c", "copy id") + "  " + helpEntry("i", "check images") + "  " + helpEntry("r", "refresh")
}
