package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

func TestFormatSlot(t *testing.T) {
	tests := []struct {
		name string
		a    domain.Appointment
		want string
	}{
		{"underscore date", domain.Appointment{SlotDate: "15_8_2026", SlotTime: "10:30 AM"}, "15 Aug 2026, 10:30 AM"},
		{"no time", domain.Appointment{SlotDate: "1_12_2026"}, "1 Dec 2026"},
		{"bad month verbatim", domain.Appointment{SlotDate: "1_13_2026", SlotTime: "9:00"}, "1_13_2026, 9:00"},
		{"other format verbatim", domain.Appointment{SlotDate: "2026-08-15"}, "2026-08-15"},
		{"empty date", domain.Appointment{SlotTime: "9:00"}, domain.AgeUnknown + ", 9:00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatSlot(tc.a); got != tc.want {
				t.Errorf("formatSlot() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatFees(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{50, "PKR 50"},
		{0, "PKR 0"},
		{49.5, "PKR 49.5"},
	}
	for _, tc := range tests {
		if got := formatFees(tc.v); got != tc.want {
			t.Errorf("formatFees(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "never"},
		{"now", time.Now(), "just now"},
		{"minutes", time.Now().Add(-5 * time.Minute), "5m ago"},
		{"hours", time.Now().Add(-3 * time.Hour), "3h ago"},
		{"days", time.Now().Add(-50 * time.Hour), "2d ago"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatTime(tc.t); got != tc.want {
				t.Errorf("formatTime() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight short = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Errorf("padRight long = %q", got)
	}
}

func TestOrUnknown(t *testing.T) {
	if orUnknown("  ", "Unknown") != "Unknown" {
		t.Error("blank should fall back")
	}
	if orUnknown("Ali", "Unknown") != "Ali" {
		t.Error("value should be kept")
	}
}

func TestStatusLabel(t *testing.T) {
	for s, want := range map[domain.AppointmentStatus]string{
		domain.StatusUpcoming:  "Upcoming",
		domain.StatusCompleted: "Completed",
		domain.StatusCancelled: "Cancelled",
	} {
		if got := statusLabel(s); !strings.Contains(got, want) {
			t.Errorf("statusLabel(%q) = %q, want %q", s, got, want)
		}
	}
}

func TestSpecialityStyleKnownAndUnknown(t *testing.T) {
	for _, sp := range domain.Specialities {
		if _, ok := specialityColors[sp]; !ok {
			t.Errorf("speciality %q has no color", sp)
		}
	}
	// Unknown specialities still render.
	if got := SpecialityStyle("Surgeon").Render("Surgeon"); !strings.Contains(got, "Surgeon") {
		t.Errorf("unexpected render %q", got)
	}
}

func TestToastStyleRendersText(t *testing.T) {
	for _, l := range []notify.Level{notify.LevelInfo, notify.LevelSuccess, notify.LevelError} {
		if got := toastStyle(l).Render("hello"); !strings.Contains(got, "hello") {
			t.Errorf("toastStyle(%s) lost text: %q", l, got)
		}
	}
}

func TestHelpItemsFor(t *testing.T) {
	items := helpItemsFor("https://prescripto.example")
	if len(items) != 3 {
		t.Fatalf("expected 3 help items, got %d", len(items))
	}
	if items[0].url != "https://prescripto.example/signup" || items[0].desc != "prescripto.example/signup" {
		t.Errorf("unexpected register item %+v", items[0])
	}
}

func TestShimmerLogo(t *testing.T) {
	for _, frame := range []int{0, 7, 1000} {
		if got := renderShimmerLogo(frame); !strings.Contains(got, "admin") {
			t.Errorf("frame %d: expected wordmark, got %q", frame, got)
		}
	}
}
