package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorFormValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*DoctorForm)
		field string
	}{
		{"valid", func(*DoctorForm) {}, ""},
		{"no image", func(f *DoctorForm) { f.ImagePath = " " }, "image"},
		{"no name", func(f *DoctorForm) { f.Name = "" }, "name"},
		{"no about", func(f *DoctorForm) { f.About = "" }, "about"},
		{"address line 2 optional", func(f *DoctorForm) { f.AddressLine2 = "" }, ""},
		{"blank fees", func(f *DoctorForm) { f.Fees = "  " }, "fees"},
		{"fees passed through", func(f *DoctorForm) { f.Fees = "fifty" }, ""},
		{"speciality passed through", func(f *DoctorForm) { f.Speciality = "Astrologer" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DoctorForm{
				ImagePath:    "/tmp/x.png",
				Name:         "Dr. A",
				Email:        "a@example.com",
				Password:     "pw123456",
				Experience:   "1 Year",
				Fees:         "10",
				Speciality:   "General Physician",
				Degree:       "MBBS",
				AddressLine1: "Line 1",
				About:        "About",
			}
			tt.edit(&f)
			err := f.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestImageCheckedFirst(t *testing.T) {
	err := DoctorForm{}.Validate()
	assert.EqualError(t, err, "Doctor image is required!")
}
