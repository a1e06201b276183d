package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentalportal/portal/internal/platform/store"
)

// =========== User Repository ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

const userCols = `id, name, email, role, extra`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	var id uuid.UUID
	var extra map[string]interface{}
	if err := row.Scan(&id, &u.Name, &u.Email, &u.Role, &extra); err != nil {
		return nil, err
	}
	u.ID = id.String()
	if len(extra) > 0 {
		u.Extra = extra
	}
	return &u, nil
}

func (r *userRepoPG) List(ctx context.Context) ([]*User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1 ORDER BY created_at LIMIT 1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) (*store.InsertResult, error) {
	id := uuid.New()
	extra := u.Extra
	if extra == nil {
		extra = map[string]interface{}{}
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, role, extra) VALUES ($1, $2, $3, $4, $5)`,
		id, u.Name, u.Email, u.Role, extra)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id.String()
	return store.Inserted(u.ID), nil
}

func (r *userRepoPG) PromoteToAdmin(ctx context.Context, id string) (*store.UpdateResult, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &store.UpdateResult{Acknowledged: true}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res := &store.UpdateResult{Acknowledged: true}
	var role string
	err = tx.QueryRow(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, uid).Scan(&role)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (id, role) VALUES ($1, 'admin') ON CONFLICT (id) DO NOTHING`, uid)
		if err != nil {
			return nil, fmt.Errorf("upsert admin %s: %w", id, err)
		}
		if tag.RowsAffected() == 1 {
			res.UpsertedCount = 1
			res.UpsertedID = uid.String()
		}
	case err != nil:
		return nil, fmt.Errorf("lock user %s: %w", id, err)
	default:
		res.MatchedCount = 1
		if role != "admin" {
			if _, err := tx.Exec(ctx, `UPDATE users SET role = 'admin' WHERE id = $1`, uid); err != nil {
				return nil, fmt.Errorf("promote user %s: %w", id, err)
			}
			res.ModifiedCount = 1
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, specialty, image FROM doctors ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		var d Doctor
		var id uuid.UUID
		if err := rows.Scan(&id, &d.Name, &d.Email, &d.Specialty, &d.Image); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		d.ID = id.String()
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) (*store.InsertResult, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO doctors (id, name, email, specialty, image) VALUES ($1, $2, $3, $4, $5)`,
		id, d.Name, d.Email, d.Specialty, d.Image)
	if err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	d.ID = id.String()
	return store.Inserted(d.ID), nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, id string) (*store.DeleteResult, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &store.DeleteResult{Acknowledged: true}, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, uid)
	if err != nil {
		return nil, fmt.Errorf("delete doctor %s: %w", id, err)
	}
	return &store.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}
