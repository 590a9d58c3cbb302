package domain

import (
	"strconv"
	"strings"
	"time"
)

// AgeUnknown is shown when a date of birth is missing or unparseable.
const AgeUnknown = "N/A"

var dobLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"02/01/2006",
}

// CalculateAge returns the number of whole years between dob and now, or
// AgeUnknown when dob is absent or not a date.
func CalculateAge(dob string, now time.Time) string {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return AgeUnknown
	}
	var birth time.Time
	var err error
	for _, layout := range dobLayouts {
		birth, err = time.Parse(layout, dob)
		if err == nil {
			break
		}
	}
	if err != nil || birth.After(now) {
		return AgeUnknown
	}
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return strconv.Itoa(years)
}
