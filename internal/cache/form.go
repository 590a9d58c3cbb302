package cache

import "strings"

// ValidationError is a form problem caught before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DoctorForm is the add-doctor form as typed by the user.
type DoctorForm struct {
	ImagePath    string
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
}

// Validate checks the image first, then the required fields in form order.
// Values are passed through as typed; the backend judges their content.
func (f DoctorForm) Validate() error {
	if strings.TrimSpace(f.ImagePath) == "" {
		return &ValidationError{Field: "image", Message: "Doctor image is required!"}
	}
	required := []struct {
		field, label, value string
	}{
		{"name", "Name", f.Name},
		{"email", "Email", f.Email},
		{"password", "Password", f.Password},
		{"experience", "Experience", f.Experience},
		{"fees", "Fees", f.Fees},
		{"speciality", "Speciality", f.Speciality},
		{"degree", "Degree", f.Degree},
		{"address1", "Address", f.AddressLine1},
		{"about", "About", f.About},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: r.label + " is required"}
		}
	}
	return nil
}
