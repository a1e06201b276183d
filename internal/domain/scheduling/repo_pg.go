package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentalportal/portal/internal/platform/store"
)

// =========== Treatment Repository ===========

type treatmentRepoPG struct{ pool *pgxpool.Pool }

func NewTreatmentRepoPG(pool *pgxpool.Pool) TreatmentRepository { return &treatmentRepoPG{pool: pool} }

func (r *treatmentRepoPG) scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment
	var id uuid.UUID
	if err := row.Scan(&id, &t.Name, &t.Slots, &t.Price); err != nil {
		return nil, err
	}
	t.ID = id.String()
	return &t, nil
}

func (r *treatmentRepoPG) List(ctx context.Context) ([]*Treatment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slots, price FROM services ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var out []*Treatment
	for rows.Next() {
		t, err := r.scanTreatment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *treatmentRepoPG) ListNames(ctx context.Context) ([]*TreatmentName, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM services ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("query service names: %w", err)
	}
	defer rows.Close()

	var out []*TreatmentName
	for rows.Next() {
		var id uuid.UUID
		var n TreatmentName
		if err := rows.Scan(&id, &n.Name); err != nil {
			return nil, fmt.Errorf("scan service name: %w", err)
		}
		n.ID = id.String()
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *treatmentRepoPG) GetByName(ctx context.Context, name string) (*Treatment, error) {
	t, err := r.scanTreatment(r.pool.QueryRow(ctx,
		`SELECT id, name, slots, price FROM services WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service %q: %w", name, err)
	}
	return t, nil
}

func (r *treatmentRepoPG) Create(ctx context.Context, t *Treatment) (*store.InsertResult, error) {
	id := uuid.New()
	slots := t.Slots
	if slots == nil {
		slots = []string{}
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO services (id, name, slots, price) VALUES ($1, $2, $3, $4)`,
		id, t.Name, slots, t.Price)
	if err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}
	t.ID = id.String()
	return store.Inserted(t.ID), nil
}

func (r *treatmentRepoPG) SetPriceAll(ctx context.Context, price float64) (*store.UpdateResult, error) {
	var matched, modified int64
	err := r.pool.QueryRow(ctx, `
		WITH before AS (SELECT COUNT(*) AS n FROM services),
		     changed AS (
		         UPDATE services SET price = $1
		         WHERE price IS DISTINCT FROM $1
		         RETURNING 1
		     )
		SELECT (SELECT n FROM before), (SELECT COUNT(*) FROM changed)`, price).Scan(&matched, &modified)
	if err != nil {
		return nil, fmt.Errorf("update service prices: %w", err)
	}
	return &store.UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}, nil
}

// =========== Booking Repository ===========

type bookingRepoPG struct{ pool *pgxpool.Pool }

func NewBookingRepoPG(pool *pgxpool.Pool) BookingRepository { return &bookingRepoPG{pool: pool} }

const bookingCols = `id, email, appointment_date, treatment, slot, extra`

func (r *bookingRepoPG) scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var id uuid.UUID
	var extra map[string]interface{}
	err := row.Scan(&id, &b.Email, &b.AppointmentDate, &b.Treatment, &b.Slot, &extra)
	if err != nil {
		return nil, err
	}
	b.ID = id.String()
	if len(extra) > 0 {
		b.Extra = extra
	}
	return &b, nil
}

func (r *bookingRepoPG) list(ctx context.Context, where string, arg string) ([]*Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE `+where+` = $1 ORDER BY created_at`, arg)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *bookingRepoPG) ListByDate(ctx context.Context, date string) ([]*Booking, error) {
	return r.list(ctx, "appointment_date", date)
}

func (r *bookingRepoPG) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	return r.list(ctx, "email", email)
}

func (r *bookingRepoPG) GetByID(ctx context.Context, id string) (*Booking, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	b, err := r.scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

func (r *bookingRepoPG) CountMatching(ctx context.Context, email, date, treatment string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE email = $1 AND appointment_date = $2 AND treatment = $3`,
		email, date, treatment).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *bookingRepoPG) Create(ctx context.Context, b *Booking) (*store.InsertResult, error) {
	id := uuid.New()
	extra := b.Extra
	if extra == nil {
		extra = map[string]interface{}{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (id, email, appointment_date, treatment, slot, extra)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, b.Email, b.AppointmentDate, b.Treatment, b.Slot, extra)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id.String()
	return store.Inserted(b.ID), nil
}
