package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

// Shimmer animation for the header wordmark.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "PRESCRIPTO" as a slow wave of light running from
// deep indigo (#23296e) to the brand blue (#5f6fff).
func renderShimmerLogo(frame int) string {
	const text = "PRESCRIPTO"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep:   (35, 41, 110)  #23296e
		// Bright: (95, 111, 255) #5f6fff
		r := clampByte(35 + b*(95-35))
		g := clampByte(41 + b*(111-41))
		bl := clampByte(110 + b*(255-110))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out + "  " + metaStyle.Render("admin")
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Brand accent
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5f6fff"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	// Outcome styles
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	// Location bar
	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878")).
			Italic(true)

	// Surface colors
	borderColor = lipgloss.Color("#2a2e4a")

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5f6fff")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Dashboard stat cards
	statCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 2).
			Width(24)

	statValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5f6fff")).
			Bold(true)

	// Speciality colors
	specialityColors = map[string]lipgloss.Color{
		"General Physician":  lipgloss.Color("#60a0e0"),
		"Gynecologist":       lipgloss.Color("#c084e0"),
		"Dermatologist":      lipgloss.Color("#f0944a"),
		"Pediatrician":       lipgloss.Color("#34d474"),
		"Neurologist":        lipgloss.Color("#b080d0"),
		"Gastroenterologist": lipgloss.Color("#3ecce4"),
		"Cardiologist":       lipgloss.Color("#e06060"),
	}
)

// SpecialityStyle returns a bold style colored for the given speciality.
func SpecialityStyle(speciality string) lipgloss.Style {
	if c, ok := specialityColors[speciality]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// statusStyle colors an appointment status the way the web panel did:
// red cancelled, green completed, amber upcoming.
func statusStyle(s domain.AppointmentStatus) lipgloss.Style {
	switch s {
	case domain.StatusCancelled:
		return errorStyle
	case domain.StatusCompleted:
		return successStyle
	default:
		return warnStyle
	}
}

// statusLabel renders a status as a capitalized, colored word.
func statusLabel(s domain.AppointmentStatus) string {
	word := string(s)
	if word != "" {
		word = strings.ToUpper(word[:1]) + word[1:]
	}
	return statusStyle(s).Render(word)
}

// availabilityBadge renders a doctor's availability.
func availabilityBadge(available bool) string {
	if available {
		return successStyle.Render("● Available")
	}
	return errorStyle.Render("○ Unavailable")
}

// toastStyle returns the style for a notification level.
func toastStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelSuccess:
		return successStyle
	case notify.LevelError:
		return errorStyle
	default:
		return dimStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpItemsFor builds the help overlay links for the configured frontend.
func helpItemsFor(frontendURL string) []helpItem {
	host := strings.TrimPrefix(strings.TrimPrefix(frontendURL, "https://"), "http://")
	return []helpItem{
		{"Register", host + "/signup", frontendURL + "/signup"},
		{"Patient site", host, frontendURL},
		{"Web login", host + "/login", frontendURL + "/login"},
	}
}

// helpView renders the interactive help overlay with a cursor.
func helpView(items []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5f6fff")).
		Bold(true).
		Render("P R E S C R I P T O   A D M I N")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5f6fff"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"rxadmin", "Open the console"},
		{"rxadmin open <url>", "Open a panel link (token or doctor link)"},
		{"rxadmin web-login", "Log in through the patient site"},
		{"rxadmin logout", "Clear the stored session"},
		{"rxadmin status", "Show the stored session"},
		{"rxadmin images check", "Count broken doctor images"},
		{"rxadmin version", "Show version"},
	}

	keys := []struct{ key, desc string }{
		{"1-4", "Dashboard, Appointments, Add Doctor, Doctors List"},
		{"r", "Refresh the current page"},
		{"L", "Log out"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range items {
		label := cmdStyle.Render(fmt.Sprintf("%-22s", item.label))
		prefix := "    "
		if i == cursor {
			label = selectedStyle.Render(fmt.Sprintf("%-22s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
