package main

import (
	"fmt"
	"io"
	"time"

	"github.com/naveenspark/rxadmin/internal/config"
	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/internal/state"
)

// ANSI color constants for plain terminal output (no lipgloss, runs outside the TUI).
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiItalic = "\033[3m"
	ansiBrand  = "\033[38;2;95;111;255m"  // #5f6fff
	ansiIndigo = "\033[38;2;35;41;110m"   // #23296e
	ansiGreen  = "\033[38;2;52;212;116m"  // #34d474
	ansiRed    = "\033[38;2;224;96;96m"   // #e06060
	ansiSlate  = "\033[38;2;136;144;160m" // #8890a0
)

// printLogo prints the spaced PRESCRIPTO wordmark in alternating blues.
func printLogo(w io.Writer) {
	letters := "PRESCRIPTO"
	colors := [2]string{ansiBrand, ansiIndigo}
	fmt.Fprint(w, "\n  ")
	for i, ch := range letters {
		fmt.Fprintf(w, "%s%s%c%s", colors[i%2], ansiBold, ch, ansiReset)
		if i < len(letters)-1 {
			fmt.Fprint(w, " ")
		}
	}
	fmt.Fprintf(w, "  %s%sadmin%s\n", ansiSlate, ansiItalic, ansiReset)
}

// printNotice prints one notification line.
func printNotice(w io.Writer, level notify.Level, text string) {
	mark, color := "•", ansiSlate
	switch level {
	case notify.LevelSuccess:
		mark, color = "✓", ansiGreen
	case notify.LevelError:
		mark, color = "✗", ansiRed
	}
	fmt.Fprintf(w, "  %s%s%s %s\n", color, mark, ansiReset, text)
}

// printStatus describes the stored session.
func printStatus(w io.Writer, cfg *config.Config, st *state.State) {
	printLogo(w)
	fmt.Fprintf(w, "\n  %sbackend%s   %s\n", ansiSlate, ansiReset, cfg.Backend.URL)

	snap := st.Session.Snapshot()
	if !snap.Authenticated() {
		fmt.Fprintf(w, "  %ssession%s   not signed in\n", ansiSlate, ansiReset)
		printSignedOut(w)
		return
	}

	who := "signed in"
	if snap.Profile != nil && snap.Profile.Name != "" {
		who = "signed in as " + snap.Profile.Name
	}
	role := string(snap.Role)
	if role == "" {
		role = "unknown role"
	}
	fmt.Fprintf(w, "  %ssession%s   %s%s%s (%s)\n", ansiSlate, ansiReset, ansiBold, who, ansiReset, role)

	if exp, ok := st.Session.ExpiresAt(); ok {
		note := ""
		if st.Session.Expired() {
			note = " " + ansiRed + "expired" + ansiReset
		}
		fmt.Fprintf(w, "  %sexpires%s   %s%s\n", ansiSlate, ansiReset, exp.Local().Format(time.RFC1123), note)
	}
	fmt.Fprintln(w)
}
