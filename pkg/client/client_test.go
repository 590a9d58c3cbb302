package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/rxadmin/pkg/domain"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login sent Authorization header %q", r.Header.Get("Authorization"))
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if body["email"] != "doc@clinic.test" || body["password"] != "secret" {
			t.Errorf("body = %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"success":  true,
			"token":    "tok-1",
			"userData": map[string]string{"name": "Dr. Sana", "role": "doctor"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	resp, err := c.Login(context.Background(), "doc@clinic.test", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("Token = %q, want %q", resp.Token, "tok-1")
	}
	if resp.UserData.Role != domain.RoleDoctor {
		t.Errorf("Role = %q, want %q", resp.UserData.Role, domain.RoleDoctor)
	}
}

func TestLogin_UnsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Login(context.Background(), "a@b.c", "x")
	if err == nil {
		t.Fatal("expected error for success=false")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if got := Message(err); got != "Invalid credentials" {
		t.Errorf("Message() = %q, want %q", got, "Invalid credentials")
	}
}

func TestAllDoctors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/all-doctor" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Not Authorized"}) //nolint:errcheck
			return
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"success": true,
			"doctors": []map[string]any{
				{"_id": "d1", "name": "Dr. Ali", "speciality": "Cardiologist", "available": true},
				{"_id": "d2", "name": "Dr. Noor", "speciality": "Dermatologist", "available": false},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	docs, err := c.AllDoctors(context.Background())
	if err != nil {
		t.Fatalf("AllDoctors() error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d doctors, want 2", len(docs))
	}
	if docs[1].Name != "Dr. Noor" || docs[1].Available {
		t.Errorf("docs[1] = %+v", docs[1])
	}
}

func TestAllDoctors_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Not Authorized Login Again"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	_, err := c.AllDoctors(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(401) = false for %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
	if got := Message(err); got != "Not Authorized Login Again" {
		t.Errorf("Message() = %q", got)
	}
}

func TestTokenSource(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "totalUsers": 1}) //nolint:errcheck
	}))
	defer srv.Close()

	tok := "first"
	c := New(srv.URL, "", WithTokenSource(func() string { return tok }))
	if _, err := c.DashboardStats(context.Background()); err != nil {
		t.Fatalf("DashboardStats() error: %v", err)
	}
	tok = ""
	if _, err := c.DashboardStats(context.Background()); err != nil {
		t.Fatalf("DashboardStats() error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "Bearer first" || seen[1] != "" {
		t.Errorf("Authorization headers = %q", seen)
	}
}

func TestChangeAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if body["docId"] != "d7" {
			t.Errorf("docId = %q, want d7", body["docId"])
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Availability Changed"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	msg, err := c.ChangeAvailability(context.Background(), "d7")
	if err != nil {
		t.Fatalf("ChangeAvailability() error: %v", err)
	}
	if msg != "Availability Changed" {
		t.Errorf("message = %q", msg)
	}
}

func TestAppointmentListAndStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch r.URL.Path {
		case "/api/admin/appointment-list":
			io.WriteString(w, `{"success":true,"appointment":[{"_id":"a1","userId":{"name":"Hina"},"docId":"d1","cancelled":true}]}`) //nolint:errcheck
		case "/api/admin/dashboard-stats":
			io.WriteString(w, `{"success":true,"totalUsers":42,"totalAppointments":7}`) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	appts, err := c.AppointmentList(context.Background())
	if err != nil {
		t.Fatalf("AppointmentList() error: %v", err)
	}
	if len(appts) != 1 || appts[0].Patient.Name != "Hina" || appts[0].Status() != domain.StatusCancelled {
		t.Errorf("appts = %+v", appts)
	}

	stats, err := c.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats() error: %v", err)
	}
	if stats.TotalUsers != 42 || stats.TotalAppointments != 7 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAddDoctorMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		img, _ := io.ReadAll(f)
		if hdr.Filename != "doc.png" || string(img) != "PNGDATA" {
			t.Errorf("image = %q (%q)", hdr.Filename, img)
		}
		if got := r.FormValue("address"); got != `"Street 1, Block B"` {
			t.Errorf("address = %q", got)
		}
		if got := r.FormValue("speciality"); got != "Neurologist" {
			t.Errorf("speciality = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"success": true,
			"message": "Doctor Added",
			"doctor":  map[string]any{"_id": "d9", "name": r.FormValue("name")},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	resp, err := c.AddDoctor(context.Background(), AddDoctorRequest{
		Name:         "Dr. Zara",
		Email:        "zara@clinic.test",
		Password:     "pw123456",
		Experience:   "4 Years",
		Fees:         "1500",
		Speciality:   "Neurologist",
		Degree:       "MBBS",
		AddressLine1: "Street 1",
		AddressLine2: "Block B",
		About:        "Neuro",
		ImageName:    "doc.png",
		Image:        strings.NewReader("PNGDATA"),
	})
	if err != nil {
		t.Fatalf("AddDoctor() error: %v", err)
	}
	if resp.Message != "Doctor Added" || resp.Doctor == nil || resp.Doctor.Name != "Dr. Zara" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCheckDoctorImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"success":true,"totalDoctors":10,"brokenImages":3}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	report, err := c.CheckDoctorImages(context.Background())
	if err != nil {
		t.Fatalf("CheckDoctorImages() error: %v", err)
	}
	if report.TotalDoctors != 10 || report.BrokenImages != 3 {
		t.Errorf("report = %+v", report)
	}
}

func TestHTTPError_PlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream down") //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.AppointmentList(context.Background())
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if got := Message(err); got != "upstream down" {
		t.Errorf("Message() = %q, want %q", got, "upstream down")
	}
}

func TestMessage_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, "tok", WithTimeout(time.Second))
	_, err := c.AllDoctors(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	msg := Message(err)
	if msg == "" || strings.Contains(msg, "client.AllDoctors") {
		t.Errorf("Message() = %q, want the bare transport error", msg)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)
		io.WriteString(w, `{"success":true}`) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.AppointmentList(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if got := Message(err); got != "request canceled" {
		t.Errorf("Message() = %q, want %q", got, "request canceled")
	}
}
