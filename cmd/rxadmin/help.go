package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var signedOutGreetings = [...]string{
	"The waiting room is full. The doctor is not in.",
	"Appointments keep arriving whether you look at them or not.",
	"Somebody booked a 9:00 AM slot. Somebody should know about it.",
	"The stethoscope is on the desk. The desk is waiting for you.",
	"No session, no schedule. Sign in to see who's next.",
	"The doctors list is long and nobody has checked availability today.",
}

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5f6fff")).
		Bold(true).
		Render("P R E S C R I P T O   A D M I N")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"rxadmin", "Open the console (login view when signed out)"},
		{"rxadmin open <url>", "Open a panel link carrying ?token= or a doctor hand-off"},
		{"rxadmin web-login", "Log in through the patient site in your browser"},
		{"rxadmin logout", "Clear the stored session"},
		{"rxadmin status", "Show the stored session"},
		{"rxadmin images check", "Count broken doctor images"},
		{"rxadmin images fix", "Repair broken doctor images"},
		{"rxadmin images update", "Regenerate doctor image URLs"},
		{"rxadmin version", "Show version"},
		{"rxadmin help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  Commands:\n", title)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("Environment: RXADMIN_BACKEND_URL, RXADMIN_FRONTEND_URL, RXADMIN_HOME, RXADMIN_TOKEN, RXADMIN_LOG_LEVEL")
	fmt.Fprintf(w, "\n  %s\n\n", env)
}

// printSignedOut nudges a signed-out user toward logging in.
func printSignedOut(w io.Writer) {
	msg := signedOutGreetings[rand.IntN(len(signedOutGreetings))]

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: rxadmin   (or rxadmin web-login)")

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n", quote, hint)
}
