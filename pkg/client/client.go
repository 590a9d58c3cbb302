package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/naveenspark/rxadmin/pkg/domain"
)

// maxBodySize caps how much of any response body is read.
const maxBodySize = 10 << 20

// Client is the admin API client.
type Client struct {
	baseURL    string
	token      func() string
	httpClient *http.Client
	log        *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource makes the client read the bearer token from fn on every
// request, so a session can log in and out without rebuilding the client.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the debug logger.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new API client. token may be empty for unauthenticated calls.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   func() string { return token },
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logrus.NewEntry(discardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// --- Auth ---

// LoginResponse is the result of a successful credential login.
type LoginResponse struct {
	Token    string          `json:"token"`
	UserData domain.UserData `json:"userData"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/user/login", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// VerifyToken checks a doctor token handed over by the main site and returns
// the profile it belongs to.
func (c *Client) VerifyToken(ctx context.Context, token, email string) (*domain.UserData, error) {
	var resp struct {
		UserData domain.UserData `json:"userData"`
	}
	body := map[string]string{"token": token, "email": email}
	if err := c.post(ctx, "/api/user/verify-token", body, &resp); err != nil {
		return nil, fmt.Errorf("client.VerifyToken: %w", err)
	}
	return &resp.UserData, nil
}

// --- Doctors ---

// AllDoctors returns every doctor profile.
func (c *Client) AllDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var resp struct {
		Doctors []domain.Doctor `json:"doctors"`
	}
	if err := c.post(ctx, "/api/admin/all-doctor", struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("client.AllDoctors: %w", err)
	}
	return resp.Doctors, nil
}

// ChangeAvailability flips a doctor's availability and returns the backend's message.
func (c *Client) ChangeAvailability(ctx context.Context, docID string) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/api/admin/change-availability", map[string]string{"docId": docID}, &resp); err != nil {
		return "", fmt.Errorf("client.ChangeAvailability: %w", err)
	}
	return resp.Message, nil
}

// AddDoctorRequest is the add-doctor form. Image is streamed as the "image" part.
type AddDoctorRequest struct {
	Name         string
	Email        string
	Password     string
	Experience   string
	Fees         string
	Speciality   string
	Degree       string
	AddressLine1 string
	AddressLine2 string
	About        string
	ImageName    string
	Image        io.Reader
}

// AddDoctorResponse is the created doctor plus the backend's message.
type AddDoctorResponse struct {
	Doctor  *domain.Doctor `json:"doctor"`
	Message string         `json:"message"`
}

// AddDoctor creates a doctor profile with a multipart upload.
func (c *Client) AddDoctor(ctx context.Context, req AddDoctorRequest) (*AddDoctorResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", req.ImageName)
	if err != nil {
		return nil, fmt.Errorf("client.AddDoctor: create image part: %w", err)
	}
	if req.Image != nil {
		if _, err := io.Copy(part, req.Image); err != nil {
			return nil, fmt.Errorf("client.AddDoctor: copy image: %w", err)
		}
	}

	// The backend JSON-decodes the address field.
	address, err := json.Marshal(req.AddressLine1 + ", " + req.AddressLine2)
	if err != nil {
		return nil, fmt.Errorf("client.AddDoctor: marshal address: %w", err)
	}
	fields := [][2]string{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
		{"experience", req.Experience},
		{"fees", req.Fees},
		{"speciality", req.Speciality},
		{"degree", req.Degree},
		{"address", string(address)},
		{"about", req.About},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("client.AddDoctor: write %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("client.AddDoctor: close form: %w", err)
	}

	var resp AddDoctorResponse
	if err := c.send(ctx, http.MethodPost, "/api/admin/add-doctor", w.FormDataContentType(), &buf, &resp); err != nil {
		return nil, fmt.Errorf("client.AddDoctor: %w", err)
	}
	return &resp, nil
}

// --- Appointments & stats ---

// AppointmentList returns every appointment.
func (c *Client) AppointmentList(ctx context.Context) ([]domain.Appointment, error) {
	var resp struct {
		Appointment []domain.Appointment `json:"appointment"`
	}
	if err := c.get(ctx, "/api/admin/appointment-list", &resp); err != nil {
		return nil, fmt.Errorf("client.AppointmentList: %w", err)
	}
	return resp.Appointment, nil
}

// DashboardStats returns the user and appointment totals.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "/api/admin/dashboard-stats", &stats); err != nil {
		return nil, fmt.Errorf("client.DashboardStats: %w", err)
	}
	return &stats, nil
}

// --- Image maintenance ---

// CheckDoctorImages reports how many doctor images are broken.
func (c *Client) CheckDoctorImages(ctx context.Context) (*domain.ImageReport, error) {
	var report domain.ImageReport
	if err := c.get(ctx, "/api/admin/check-doctor-images", &report); err != nil {
		return nil, fmt.Errorf("client.CheckDoctorImages: %w", err)
	}
	return &report, nil
}

// FixAllImages asks the backend to repair every broken doctor image.
func (c *Client) FixAllImages(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/api/admin/fix-all-images", struct{}{}, &resp); err != nil {
		return "", fmt.Errorf("client.FixAllImages: %w", err)
	}
	return resp.Message, nil
}

// UpdateDoctorImages asks the backend to regenerate doctor image URLs.
func (c *Client) UpdateDoctorImages(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, "/api/admin/update-doctor-images", struct{}{}, &resp); err != nil {
		return "", fmt.Errorf("client.UpdateDoctorImages: %w", err)
	}
	return resp.Message, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return c.send(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	log := c.log.WithFields(logrus.Fields{"request_id": reqID, "method": method, "path": path})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	log.WithFields(logrus.Fields{"status": resp.StatusCode, "duration": time.Since(start)}).Debug("request done")
	if err != nil {
		if resp.StatusCode >= 400 {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
		}
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &HTTPError{StatusCode: resp.StatusCode, Message: bodyMessage(respBody)}
	}

	if success := gjson.GetBytes(respBody, "success"); success.Exists() && !success.Bool() {
		msg := gjson.GetBytes(respBody, "message").String()
		if msg == "" {
			msg = "request was not successful"
		}
		return &APIError{Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// bodyMessage extracts a human-readable message from an error body.
func bodyMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "error"} {
			if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.Str != "" {
				return v.Str
			}
		}
	}
	return string(body)
}
