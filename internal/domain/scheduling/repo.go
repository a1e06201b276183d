package scheduling

import (
	"context"

	"github.com/dentalportal/portal/internal/platform/store"
)

type TreatmentRepository interface {
	List(ctx context.Context) ([]*Treatment, error)
	ListNames(ctx context.Context) ([]*TreatmentName, error)
	// GetByName returns store.ErrNotFound when no treatment has that name.
	GetByName(ctx context.Context, name string) (*Treatment, error)
	Create(ctx context.Context, t *Treatment) (*store.InsertResult, error)
	// SetPriceAll sets price on every existing treatment. It never upserts:
	// an empty catalog stays empty and the result reports zero matches, not a
	// bare {price} document with upsertedCount 1.
	SetPriceAll(ctx context.Context, price float64) (*store.UpdateResult, error)
}

type BookingRepository interface {
	ListByDate(ctx context.Context, date string) ([]*Booking, error)
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)
	// GetByID returns store.ErrNotFound for unknown or unparseable ids.
	GetByID(ctx context.Context, id string) (*Booking, error)
	CountMatching(ctx context.Context, email, date, treatment string) (int64, error)
	Create(ctx context.Context, b *Booking) (*store.InsertResult, error)
}
