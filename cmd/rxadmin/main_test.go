package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/internal/session"
	"github.com/naveenspark/rxadmin/internal/storage"
)

// setupEnv points the console at a temp home and backend and captures output.
func setupEnv(t *testing.T, backend string) (home string, out *bytes.Buffer) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("RXADMIN_HOME", home)
	t.Setenv("RXADMIN_BACKEND_URL", backend)
	t.Setenv("RXADMIN_TOKEN", "")
	t.Setenv("RXADMIN_LOG_LEVEL", "debug")

	out = &bytes.Buffer{}
	orig := stdout
	stdout = out
	t.Cleanup(func() { stdout = orig })
	return home, out
}

func signIn(t *testing.T, home string) *storage.File {
	t.Helper()
	kv := storage.NewFile(filepath.Join(home, "storage.json"))
	for k, v := range map[string]string{
		session.KeyToken:    "tok",
		session.KeyRole:     "doctor",
		session.KeyUserData: `{"name":"Dr. Sara","role":"doctor"}`,
	} {
		if err := kv.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	return kv
}

func imagesBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/check-doctor-images":
			w.Write([]byte(`{"success":true,"totalDoctors":2,"brokenImages":1}`)) //nolint:errcheck
		case "/api/admin/fix-all-images":
			w.Write([]byte(`{"success":false,"message":"Not Authorized Login Again"}`)) //nolint:errcheck
		default:
			w.Write([]byte(`{"success":true,"doctors":[]}`)) //nolint:errcheck
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunVersionAndHelp(t *testing.T) {
	_, out := setupEnv(t, "http://127.0.0.1:1")

	if err := run([]string{"version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "rxadmin dev") {
		t.Errorf("expected version line, got %q", out.String())
	}

	out.Reset()
	if err := run([]string{"help"}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"rxadmin web-login", "rxadmin images check", "RXADMIN_BACKEND_URL"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in help", want)
		}
	}
}

func TestRunRejectsBadUsage(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	for _, args := range [][]string{{"frobnicate"}, {"open"}, {"images"}, {"images", "resize"}} {
		if err := run(args); err == nil {
			t.Errorf("run(%v): expected error", args)
		}
	}
}

func TestRunStatus(t *testing.T) {
	home, out := setupEnv(t, "http://127.0.0.1:1")

	if err := run([]string{"status"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "not signed in") {
		t.Errorf("expected signed-out status, got %q", out.String())
	}

	signIn(t, home)
	out.Reset()
	if err := run([]string{"status"}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"signed in as Dr. Sara", "(doctor)", "http://127.0.0.1:1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in status, got %q", want, out.String())
		}
	}
}

func TestRunLogout(t *testing.T) {
	home, out := setupEnv(t, "http://127.0.0.1:1")

	if err := run([]string{"logout"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Already logged out.") {
		t.Errorf("unexpected output %q", out.String())
	}

	kv := signIn(t, home)
	out.Reset()
	if err := run([]string{"logout"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Logged out successfully!") {
		t.Errorf("expected logout notice, got %q", out.String())
	}
	for _, k := range []string{session.KeyToken, session.KeyRole, session.KeyUserData} {
		if _, ok := kv.Get(k); ok {
			t.Errorf("expected %s removed", k)
		}
	}
}

func TestRunImages(t *testing.T) {
	srv := imagesBackend(t)
	home, out := setupEnv(t, srv.URL)

	if err := run([]string{"images", "check"}); !errors.Is(err, errNotSignedIn) {
		t.Fatalf("expected errNotSignedIn, got %v", err)
	}

	signIn(t, home)
	if err := run([]string{"images", "check"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1 of 2 doctor images are broken") {
		t.Errorf("expected image report, got %q", out.String())
	}

	out.Reset()
	if err := run([]string{"images", "fix"}); err == nil {
		t.Error("expected fix to fail")
	}
	if !strings.Contains(out.String(), "Not Authorized Login Again") {
		t.Errorf("expected backend message printed, got %q", out.String())
	}
}

func TestWithToken(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"/", "/?token=a%2Bb"},
		{"/doctor-list?tab=2", "/doctor-list?tab=2&token=a%2Bb"},
	}
	for _, tc := range tests {
		if got := withToken(tc.location, "a+b"); got != tc.want {
			t.Errorf("withToken(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}
}

func TestPrintNotice(t *testing.T) {
	tests := []struct {
		level notify.Level
		mark  string
	}{
		{notify.LevelSuccess, "✓"},
		{notify.LevelError, "✗"},
		{notify.LevelInfo, "•"},
	}
	for _, tc := range tests {
		var b bytes.Buffer
		printNotice(&b, tc.level, "hello")
		if !strings.Contains(b.String(), tc.mark) || !strings.Contains(b.String(), "hello") {
			t.Errorf("printNotice(%s) = %q", tc.level, b.String())
		}
	}
}
