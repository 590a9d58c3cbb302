package domain

// Role classifies the authenticated principal.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// Valid reports whether r is a role this console accepts.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor
}

// UserData is the profile snapshot returned with a login.
type UserData struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
	Role  Role   `json:"role"`
}

// Session is the console's authentication state.
// Role and Profile are only meaningful while Token is set.
type Session struct {
	Token   string
	Role    Role
	Profile *UserData
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// DashboardStats is the aggregate shown on the dashboard.
type DashboardStats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalAppointments int `json:"totalAppointments"`
}

// ImageReport is the result of the doctor image health check.
type ImageReport struct {
	TotalDoctors int `json:"totalDoctors"`
	BrokenImages int `json:"brokenImages"`
}
