// Package router maps location paths to the console's pages and gates them
// on the session.
package router

import (
	"net/url"
	"strings"
)

// Page identifies a top-level view.
type Page int

const (
	Login Page = iota
	Dashboard
	Appointments
	AddDoctor
	DoctorList
)

// Route is a resolved location.
type Route struct {
	Page  Page
	Path  string
	Title string
}

// Canonical paths.
const (
	PathRoot         = "/"
	PathDashboard    = "/admin-dashboard"
	PathAppointments = "/all-appointment"
	PathAddDoctor    = "/add-doctor"
	PathDoctorList   = "/doctor-list"
	PathLogin        = "/login"
)

var routes = map[string]Route{
	PathRoot:         {Page: Dashboard, Path: PathDashboard, Title: "Dashboard"},
	PathDashboard:    {Page: Dashboard, Path: PathDashboard, Title: "Dashboard"},
	PathAppointments: {Page: Appointments, Path: PathAppointments, Title: "Appointments"},
	PathAddDoctor:    {Page: AddDoctor, Path: PathAddDoctor, Title: "Add Doctor"},
	PathDoctorList:   {Page: DoctorList, Path: PathDoctorList, Title: "Doctors List"},
}

var loginRoute = Route{Page: Login, Path: PathLogin, Title: "Login"}

// Nav is the sidebar order of the authenticated pages.
var Nav = []Route{
	routes[PathDashboard],
	routes[PathAppointments],
	routes[PathAddDoctor],
	routes[PathDoctorList],
}

// Resolve returns the route for location, which may be a bare path or a full
// URL. Without a session every location resolves to Login. With one, unknown
// locations and /login resolve to the dashboard.
func Resolve(location string, authenticated bool) Route {
	if !authenticated {
		return loginRoute
	}
	if r, ok := routes[normalize(location)]; ok {
		return r
	}
	return routes[PathDashboard]
}

// For returns the route that shows page.
func For(page Page) Route {
	if page == Login {
		return loginRoute
	}
	for _, r := range Nav {
		if r.Page == page {
			return r
		}
	}
	return routes[PathDashboard]
}

func normalize(location string) string {
	p := location
	if u, err := url.Parse(location); err == nil {
		p = u.Path
	}
	if p == "" {
		return PathRoot
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return strings.ToLower(p)
}

func (p Page) String() string {
	return For(p).Title
}
