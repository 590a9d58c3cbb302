package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/rxadmin/internal/session"
	"github.com/naveenspark/rxadmin/internal/state"
)

type loginField int

const (
	loginEmail loginField = iota
	loginPassword
	numLoginFields
)

type loginResultMsg struct {
	res session.Result
}

type loginModel struct {
	st         *state.State
	fields     [numLoginFields]string
	focus      loginField
	submitting bool
	statusMsg  string
	failed     bool
	width      int
	height     int
}

func newLoginModel(st *state.State) loginModel {
	return loginModel{st: st}
}

func (m loginModel) mount() loginModel {
	m.fields[loginPassword] = ""
	m.focus = loginEmail
	if m.fields[loginEmail] != "" {
		m.focus = loginPassword
	}
	m.submitting = false
	return m
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loginResultMsg:
		m.submitting = false
		m.statusMsg = msg.res.Message
		m.failed = !msg.res.OK
		m.fields[loginPassword] = ""
		if m.failed {
			m.focus = loginPassword
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down", "shift+tab", "up":
		m.focus = (m.focus + 1) % numLoginFields
	case "enter":
		if m.focus == loginEmail {
			m.focus = loginPassword
			return m, nil
		}
		return m.submit()
	case "ctrl+o":
		// Self sign-up lives on the patient site.
		if err := openURL(m.st.Config.SignupURL()); err != nil {
			m.statusMsg = "open " + m.st.Config.SignupURL() + " to register"
			m.failed = false
		}
	case "backspace":
		m.fields[m.focus] = editRune(m.fields[m.focus], "backspace")
	default:
		key := msg.String()
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[loginEmail])
	password := m.fields[loginPassword]
	m.submitting = true
	m.statusMsg = ""
	sess := m.st.Session
	return m, func() tea.Msg {
		return loginResultMsg{res: sess.Login(context.Background(), email, password)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString("\n " + titleStyle.Render("Doctor Login") + "\n")
	b.WriteString(" " + dimStyle.Render("Only doctor accounts can sign in to this panel.") + "\n\n")

	b.WriteString(" " + renderInput("Email", m.fields[loginEmail], "you@example.com", m.focus == loginEmail, false, 10) + "\n")
	b.WriteString(" " + renderInput("Password", m.fields[loginPassword], "password", m.focus == loginPassword, true, 10) + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.statusMsg != "" && m.failed:
		b.WriteString(" " + errorStyle.Render(m.statusMsg) + "\n")
	case m.statusMsg != "":
		b.WriteString(" " + successStyle.Render(m.statusMsg) + "\n")
	}

	b.WriteString("\n " + metaStyle.Render("No account? ctrl+o opens "+m.st.Config.SignupURL()) + "\n")
	b.WriteString(" " + metaStyle.Render("Logging in on the patient site instead? run: rxadmin web-login") + "\n")
	return b.String()
}

func (m loginModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("enter", "login") + "  " + helpEntry("ctrl+o", "register") + "  " + helpEntry("ctrl+c", "quit")
}
