package scheduling

import (
	"context"
	"errors"

	"github.com/dentalportal/portal/internal/platform/lock"
	"github.com/dentalportal/portal/internal/platform/store"
)

// DefaultPrice is applied to every treatment by SetDefaultPrice.
const DefaultPrice = 99

type Service struct {
	treatments       TreatmentRepository
	bookings         BookingRepository
	locker           lock.Locker
	strictTreatments bool
}

type Option func(*Service)

// WithLocker serializes admissions per (email, date, treatment).
func WithLocker(l lock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithStrictTreatments rejects bookings whose treatment names no service.
func WithStrictTreatments(strict bool) Option {
	return func(s *Service) { s.strictTreatments = strict }
}

func NewService(treatments TreatmentRepository, bookings BookingRepository, opts ...Option) *Service {
	s := &Service{treatments: treatments, bookings: bookings, locker: lock.Noop{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) ListSpecialties(ctx context.Context) ([]*TreatmentName, error) {
	return s.treatments.ListNames(ctx)
}

// Availability returns every treatment with the slots booked on date removed.
func (s *Service) Availability(ctx context.Context, date string) ([]*Treatment, error) {
	treatments, err := s.treatments.List(ctx)
	if err != nil {
		return nil, err
	}
	var booked []*Booking
	if date != "" {
		booked, err = s.bookings.ListByDate(ctx, date)
		if err != nil {
			return nil, err
		}
	}
	return ComputeAvailability(date, treatments, booked), nil
}

func (s *Service) BookingsForEmail(ctx context.Context, email string) ([]*Booking, error) {
	return s.bookings.ListByEmail(ctx, email)
}

// GetBooking returns nil without error when no booking has that id.
func (s *Service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return b, err
}

func (s *Service) SetDefaultPrice(ctx context.Context) (*store.UpdateResult, error) {
	return s.treatments.SetPriceAll(ctx, DefaultPrice)
}

// SeedTreatments inserts each treatment whose name is not stored yet and
// returns how many were inserted.
func (s *Service) SeedTreatments(ctx context.Context, catalog []*Treatment) (int, error) {
	inserted := 0
	for _, t := range catalog {
		_, err := s.treatments.GetByName(ctx, t.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return inserted, err
		}
		if _, err := s.treatments.Create(ctx, t); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
