package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor is a doctor profile as returned by the admin API.
type Doctor struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Image      string  `json:"image"`
	Speciality string  `json:"speciality"`
	Degree     string  `json:"degree"`
	Experience string  `json:"experience"`
	About      string  `json:"about"`
	Available  bool    `json:"available"`
	Fees       float64 `json:"fees"`
	Address    Address `json:"address"`
}

// CreatedAt returns the creation time embedded in the doctor's ObjectID.
// The zero time is returned when the ID is not an ObjectID.
func (d Doctor) CreatedAt() time.Time {
	oid, err := primitive.ObjectIDFromHex(d.ID)
	if err != nil {
		return time.Time{}
	}
	return oid.Timestamp()
}

// ValidDoctorID reports whether id is a well-formed backend document ID.
func ValidDoctorID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Address is a two-line postal address. The backend stores it either as an
// object or, for doctors created through the form, as a single string.
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
}

// String joins the non-empty lines.
func (a Address) String() string {
	parts := make([]string, 0, 2)
	for _, l := range []string{a.Line1, a.Line2} {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON accepts {"line1":..,"line2":..}, a plain string, or a
// JSON-encoded string (double-encoded by older form submissions).
func (a *Address) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var inner string
		if json.Unmarshal([]byte(s), &inner) == nil {
			s = inner
		}
		line1, line2, _ := strings.Cut(s, ",")
		a.Line1 = strings.TrimSpace(line1)
		a.Line2 = strings.TrimSpace(line2)
		return nil
	}
	type plain Address
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	*a = Address(p)
	return nil
}

// Specialities offered by the add-doctor form.
var Specialities = []string{
	"General Physician",
	"Gynecologist",
	"Dermatologist",
	"Pediatrician",
	"Neurologist",
	"Gastroenterologist",
	"Cardiologist",
}

// MaxExperienceYears bounds the experience selector.
const MaxExperienceYears = 30

// ExperienceOptions returns the selectable experience values, "1 Year" to "30 Years".
func ExperienceOptions() []string {
	opts := make([]string, 0, MaxExperienceYears)
	for i := 1; i <= MaxExperienceYears; i++ {
		if i == 1 {
			opts = append(opts, "1 Year")
			continue
		}
		opts = append(opts, fmt.Sprintf("%d Years", i))
	}
	return opts
}
