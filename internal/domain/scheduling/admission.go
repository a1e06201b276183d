package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/dentalportal/portal/internal/platform/lock"
	"github.com/dentalportal/portal/internal/platform/store"
)

var (
	ErrBookingInProgress = errors.New("booking in progress")
	ErrUnknownTreatment  = errors.New("unknown treatment")
)

// Admission is the outcome of a booking request. A rejected admission has a
// Reason and no Result.
type Admission struct {
	Admitted bool
	Reason   string
	Result   *store.InsertResult
}

// DuplicateReason is the message returned when the patient already holds a
// booking for the same treatment on date.
func DuplicateReason(date string) string {
	return fmt.Sprintf("you already have a booking on %s", date)
}

// Admit inserts b unless a booking with the same email, date and treatment
// exists. The count and the insert run under the service's locker; with the
// default no-op locker two concurrent identical requests can both be
// admitted.
func (s *Service) Admit(ctx context.Context, b *Booking) (*Admission, error) {
	if s.strictTreatments {
		if _, err := s.treatments.GetByName(ctx, b.Treatment); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTreatment, b.Treatment)
			}
			return nil, err
		}
	}

	var adm *Admission
	key := lock.Key("booking", b.Email, b.AppointmentDate, b.Treatment)
	err := s.locker.WithLock(ctx, key, func(ctx context.Context) error {
		n, err := s.bookings.CountMatching(ctx, b.Email, b.AppointmentDate, b.Treatment)
		if err != nil {
			return err
		}
		if n > 0 {
			adm = &Admission{Reason: DuplicateReason(b.AppointmentDate)}
			return nil
		}

		res, err := s.bookings.Create(ctx, b)
		if err != nil {
			return err
		}
		adm = &Admission{Admitted: true, Result: res}
		return nil
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, ErrBookingInProgress
	}
	if err != nil {
		return nil, err
	}
	return adm, nil
}
