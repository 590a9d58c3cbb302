package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/rxadmin/internal/cache"
	"github.com/naveenspark/rxadmin/internal/state"
	"github.com/naveenspark/rxadmin/pkg/client"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

type addField int

const (
	fieldImage addField = iota
	fieldName
	fieldEmail
	fieldPassword
	fieldExperience
	fieldFees
	fieldSpeciality
	fieldDegree
	fieldAddress1
	fieldAddress2
	fieldAbout
	numAddFields
)

// fieldKeys maps validation field names back to form inputs.
var fieldKeys = map[string]addField{
	"image":      fieldImage,
	"name":       fieldName,
	"email":      fieldEmail,
	"password":   fieldPassword,
	"experience": fieldExperience,
	"fees":       fieldFees,
	"speciality": fieldSpeciality,
	"degree":     fieldDegree,
	"address1":   fieldAddress1,
	"about":      fieldAbout,
}

var addLabels = [numAddFields]string{
	"Image file", "Name", "Email", "Password", "Experience", "Fees",
	"Speciality", "Degree", "Address 1", "Address 2", "About",
}

var addPlaceholders = [numAddFields]string{
	"/path/to/photo.png", "Doctor name", "doctor@example.com", "password", "",
	"Consultation fee", "", "e.g. MBBS", "Street", "City", "Write about the doctor",
}

type doctorAddedMsg struct {
	doc *domain.Doctor
	err error
}

type addDoctorModel struct {
	st         *state.State
	fields     [numAddFields]string
	focus      addField
	submitting bool
	statusMsg  string
	failed     bool
	width      int
	height     int
}

func newAddDoctorModel(st *state.State) addDoctorModel {
	m := addDoctorModel{st: st}
	m.reset()
	return m
}

// reset empties the form and restores the select defaults.
func (m *addDoctorModel) reset() {
	m.fields = [numAddFields]string{}
	m.fields[fieldExperience] = domain.ExperienceOptions()[0]
	m.fields[fieldSpeciality] = domain.Specialities[0]
	m.focus = fieldImage
}

func (m addDoctorModel) mount() addDoctorModel {
	m.submitting = false
	m.statusMsg = ""
	return m
}

func (m addDoctorModel) form() cache.DoctorForm {
	f := m.fields
	return cache.DoctorForm{
		ImagePath:    strings.TrimSpace(f[fieldImage]),
		Name:         strings.TrimSpace(f[fieldName]),
		Email:        strings.TrimSpace(f[fieldEmail]),
		Password:     f[fieldPassword],
		Experience:   f[fieldExperience],
		Fees:         strings.TrimSpace(f[fieldFees]),
		Speciality:   f[fieldSpeciality],
		Degree:       strings.TrimSpace(f[fieldDegree]),
		AddressLine1: strings.TrimSpace(f[fieldAddress1]),
		AddressLine2: strings.TrimSpace(f[fieldAddress2]),
		About:        strings.TrimSpace(f[fieldAbout]),
	}
}

func (m addDoctorModel) Update(msg tea.Msg) (addDoctorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case doctorAddedMsg:
		m.submitting = false
		if msg.err != nil {
			m.failed = true
			var verr *cache.ValidationError
			if errors.As(msg.err, &verr) {
				m.statusMsg = verr.Message
				if f, ok := fieldKeys[verr.Field]; ok {
					m.focus = f
				}
			} else {
				m.statusMsg = client.Message(msg.err)
			}
			return m, nil
		}
		m.failed = false
		m.statusMsg = "Doctor added"
		if msg.doc != nil && msg.doc.Name != "" {
			m.statusMsg = fmt.Sprintf("Doctor added: %s", msg.doc.Name)
		}
		m.reset()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m addDoctorModel) updateKeys(msg tea.KeyMsg) (addDoctorModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.statusMsg = ""
	m.failed = false

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % numAddFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numAddFields) % numAddFields
	case "left", "ctrl+h":
		m.cycle(-1)
	case "right", "ctrl+l":
		m.cycle(1)
	case "backspace":
		if !m.isSelect() {
			m.fields[m.focus] = editRune(m.fields[m.focus], "backspace")
		}
	default:
		if m.isSelect() {
			if k := msg.String(); k == "h" || k == "l" {
				m.cycle(map[string]int{"h": -1, "l": 1}[k])
			}
			return m, nil
		}
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m addDoctorModel) isSelect() bool {
	return m.focus == fieldExperience || m.focus == fieldSpeciality
}

// cycle steps a select field through its options.
func (m *addDoctorModel) cycle(step int) {
	var opts []string
	switch m.focus {
	case fieldExperience:
		opts = domain.ExperienceOptions()
	case fieldSpeciality:
		opts = domain.Specialities
	default:
		return
	}
	idx := 0
	for i, o := range opts {
		if o == m.fields[m.focus] {
			idx = i
			break
		}
	}
	idx = (idx + step + len(opts)) % len(opts)
	m.fields[m.focus] = opts[idx]
}

func (m addDoctorModel) submit() (addDoctorModel, tea.Cmd) {
	form := m.form()
	m.submitting = true
	data := m.st.Data
	return m, func() tea.Msg {
		doc, err := data.AddDoctor(context.Background(), form)
		return doctorAddedMsg{doc: doc, err: err}
	}
}

func (m addDoctorModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Add Doctor") + "\n\n")

	for i := addField(0); i < numAddFields; i++ {
		focused := i == m.focus
		if i == fieldExperience || i == fieldSpeciality {
			cursor := " "
			style := metaStyle
			if focused {
				cursor = inputPromptStyle.Render(">")
				style = selectedStyle
			}
			value := normalStyle.Render(m.fields[i])
			if i == fieldSpeciality {
				value = SpecialityStyle(m.fields[i]).Render(m.fields[i])
			}
			line := cursor + " " + style.Render(padRight(addLabels[i], 12)) + " " + value
			if focused {
				line += "  " + dimStyle.Render("(←/→ to cycle)")
			}
			b.WriteString(" " + line + "\n")
			continue
		}
		b.WriteString(" " + renderInput(addLabels[i], m.fields[i], addPlaceholders[i], focused, i == fieldPassword, 12) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("uploading...") + "\n")
	case m.statusMsg != "" && m.failed:
		b.WriteString(" " + errorStyle.Render(m.statusMsg) + "\n")
	case m.statusMsg != "":
		b.WriteString(" " + successStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m addDoctorModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("←/→", "select") + "  " + helpEntry("ctrl+s", "add doctor") + "  " + helpEntry("esc", "back")
}
