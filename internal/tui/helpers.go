package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/rxadmin/pkg/domain"
)

// currency is the fee currency shown across the panel.
const currency = "PKR"

// formatTime renders a relative timestamp for "updated" lines.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads or truncates s to exactly width runes.
func padRight(s string, width int) string {
	s = truncStr(s, width)
	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// formatFees renders an amount without a trailing ".00".
func formatFees(v float64) string {
	return currency + " " + strconv.FormatFloat(v, 'f', -1, 64)
}

var monthAbbr = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// formatSlot renders an appointment slot. The backend stores slot dates as
// "day_month_year"; anything else is shown verbatim.
func formatSlot(a domain.Appointment) string {
	date := a.SlotDate
	if parts := strings.Split(date, "_"); len(parts) == 3 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
			date = parts[0] + " " + monthAbbr[m-1] + " " + parts[2]
		}
	}
	if date == "" {
		date = domain.AgeUnknown
	}
	if a.SlotTime == "" {
		return date
	}
	return date + ", " + a.SlotTime
}

// orUnknown returns s, or fallback when s is blank.
func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
