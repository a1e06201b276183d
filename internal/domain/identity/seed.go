package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/dentalportal/portal/internal/platform/store"
)

// FakeDoctors generates n doctors spread over specialties.
func FakeDoctors(f *gofakeit.Faker, n int, specialties []string) []*Doctor {
	out := make([]*Doctor, 0, n)
	for i := 0; i < n; i++ {
		first, last := f.FirstName(), f.LastName()
		email := strings.ToLower(fmt.Sprintf("%s.%s@%s", first, last, f.DomainName()))
		d := &Doctor{
			Name:  "Dr. " + first + " " + last,
			Email: email,
			Image: "https://i.pravatar.cc/300?u=" + email,
		}
		if len(specialties) > 0 {
			d.Specialty = specialties[f.Number(0, len(specialties)-1)]
		}
		out = append(out, d)
	}
	return out
}

// EnsureAdmin creates an admin account for email unless a user with that
// email exists, in which case it is promoted. It reports whether anything
// changed.
func (s *Service) EnsureAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		if _, err := s.users.Create(ctx, &User{Name: "Clinic Admin", Email: email, Role: "admin"}); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if u.Role == "admin" {
		return false, nil
	}
	res, err := s.users.PromoteToAdmin(ctx, u.ID)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
