// Package cache holds the in-memory mirrors of the backend's doctors,
// appointments and dashboard stats, and the mutations that change them.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/pkg/client"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

// API is the part of the backend client the cache needs.
type API interface {
	AllDoctors(ctx context.Context) ([]domain.Doctor, error)
	AppointmentList(ctx context.Context) ([]domain.Appointment, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	ChangeAvailability(ctx context.Context, docID string) (string, error)
	AddDoctor(ctx context.Context, req client.AddDoctorRequest) (*client.AddDoctorResponse, error)
	CheckDoctorImages(ctx context.Context) (*domain.ImageReport, error)
	FixAllImages(ctx context.Context) (string, error)
	UpdateDoctorImages(ctx context.Context) (string, error)
}

// Cache groups the three collections.
type Cache struct {
	api  API
	note notify.Notifier
	log  *logrus.Entry

	Doctors      *Collection[[]domain.Doctor]
	Appointments *Collection[[]domain.Appointment]
	Stats        *Collection[domain.DashboardStats]
}

// New returns a cache with every collection idle.
func New(api API, note notify.Notifier, log *logrus.Entry) *Cache {
	c := &Cache{api: api, note: note, log: log}
	c.Doctors = NewCollection("doctors", api.AllDoctors, note, log)
	c.Appointments = NewCollection("appointments", api.AppointmentList, note, log)
	c.Stats = NewCollection("stats", func(ctx context.Context) (domain.DashboardStats, error) {
		s, err := api.DashboardStats(ctx)
		if err != nil {
			return domain.DashboardStats{}, err
		}
		return *s, nil
	}, note, log)
	return c
}

// RefreshAll refreshes the three collections concurrently. Each refresh is
// independent: one failing neither blocks nor cancels the others.
func (c *Cache) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		c.Doctors.Refresh(ctx) //nolint:errcheck // failures are notified
	}()
	go func() {
		defer wg.Done()
		c.Appointments.Refresh(ctx) //nolint:errcheck // failures are notified
	}()
	go func() {
		defer wg.Done()
		c.Stats.Refresh(ctx) //nolint:errcheck // failures are notified
	}()
	wg.Wait()
}

// Clear drops every collection. The session calls it on logout.
func (c *Cache) Clear() {
	c.Doctors.Clear()
	c.Appointments.Clear()
	c.Stats.Clear()
	c.log.Debug("cache cleared")
}

// ToggleAvailability flips a doctor's availability and refreshes the doctors.
func (c *Cache) ToggleAvailability(ctx context.Context, docID string) error {
	if !domain.ValidDoctorID(docID) {
		err := &ValidationError{Field: "docId", Message: "Invalid doctor id"}
		c.note.Notify(notify.LevelError, err.Message)
		return err
	}
	msg, err := c.api.ChangeAvailability(ctx, docID)
	if err != nil {
		return c.mutationFailed("change availability", err)
	}
	c.succeeded(msg, "Availability updated")
	c.Doctors.Refresh(ctx) //nolint:errcheck // failures are notified
	return nil
}

// AddDoctor validates form, uploads it and refreshes the doctors. Invalid
// forms are reported as a *ValidationError without contacting the backend.
func (c *Cache) AddDoctor(ctx context.Context, form DoctorForm) (*domain.Doctor, error) {
	if err := form.Validate(); err != nil {
		c.note.Notify(notify.LevelError, err.Error())
		return nil, err
	}

	f, err := os.Open(form.ImagePath)
	if err != nil {
		verr := &ValidationError{Field: "image", Message: "Doctor image could not be read"}
		c.log.WithError(err).Warn("open doctor image")
		c.note.Notify(notify.LevelError, verr.Message)
		return nil, verr
	}
	defer f.Close()

	resp, err := c.api.AddDoctor(ctx, client.AddDoctorRequest{
		Name:         strings.TrimSpace(form.Name),
		Email:        strings.TrimSpace(form.Email),
		Password:     form.Password,
		Experience:   form.Experience,
		Fees:         strings.TrimSpace(form.Fees),
		Speciality:   form.Speciality,
		Degree:       strings.TrimSpace(form.Degree),
		AddressLine1: strings.TrimSpace(form.AddressLine1),
		AddressLine2: strings.TrimSpace(form.AddressLine2),
		About:        strings.TrimSpace(form.About),
		ImageName:    filepath.Base(form.ImagePath),
		Image:        f,
	})
	if err != nil {
		return nil, c.mutationFailed("add doctor", err)
	}
	c.succeeded(resp.Message, "Doctor added")
	c.Doctors.Refresh(ctx) //nolint:errcheck // failures are notified
	return resp.Doctor, nil
}

// CheckImages reports how many doctor images are broken.
func (c *Cache) CheckImages(ctx context.Context) (*domain.ImageReport, error) {
	report, err := c.api.CheckDoctorImages(ctx)
	if err != nil {
		return nil, c.mutationFailed("check images", err)
	}
	c.note.Notify(notify.LevelInfo, fmt.Sprintf("%d of %d doctor images are broken", report.BrokenImages, report.TotalDoctors))
	return report, nil
}

// FixAllImages repairs broken doctor images and refreshes the doctors.
func (c *Cache) FixAllImages(ctx context.Context) error {
	msg, err := c.api.FixAllImages(ctx)
	if err != nil {
		return c.mutationFailed("fix images", err)
	}
	c.succeeded(msg, "Doctor images fixed")
	c.Doctors.Refresh(ctx) //nolint:errcheck // failures are notified
	return nil
}

// UpdateImages regenerates doctor image URLs and refreshes the doctors.
func (c *Cache) UpdateImages(ctx context.Context) error {
	msg, err := c.api.UpdateDoctorImages(ctx)
	if err != nil {
		return c.mutationFailed("update images", err)
	}
	c.succeeded(msg, "Doctor images updated")
	c.Doctors.Refresh(ctx) //nolint:errcheck // failures are notified
	return nil
}

func (c *Cache) succeeded(msg, fallback string) {
	if msg == "" {
		msg = fallback
	}
	c.note.Notify(notify.LevelSuccess, msg)
}

func (c *Cache) mutationFailed(op string, err error) error {
	c.log.WithError(err).WithField("op", op).Warn("mutation failed")
	c.note.Notify(notify.LevelError, client.Message(err))
	return fmt.Errorf("cache: %s: %w", op, err)
}
