package identity

import (
	"context"
	"errors"

	"github.com/dentalportal/portal/internal/platform/store"
)

var ErrUnknownUser = errors.New("no user with that email")

// TokenIssuer signs access tokens for an email.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

type Service struct {
	users   UserRepository
	doctors DoctorRepository
	tokens  TokenIssuer
}

func NewService(users UserRepository, doctors DoctorRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, doctors: doctors, tokens: tokens}
}

// -- Users --

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

func (s *Service) CreateUser(ctx context.Context, u *User) (*store.InsertResult, error) {
	return s.users.Create(ctx, u)
}

// RoleOf returns the stored role for email, or store.ErrNotFound.
func (s *Service) RoleOf(ctx context.Context, email string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// IsAdmin is false for unknown emails.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, err := s.RoleOf(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role == "admin", nil
}

func (s *Service) MakeAdmin(ctx context.Context, id string) (*store.UpdateResult, error) {
	return s.users.PromoteToAdmin(ctx, id)
}

// IssueToken signs a token for email if a user with that email exists.
func (s *Service) IssueToken(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrUnknownUser
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnknownUser
		}
		return "", err
	}
	return s.tokens.Issue(email)
}

// -- Doctors --

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) AddDoctor(ctx context.Context, d *Doctor) (*store.InsertResult, error) {
	return s.doctors.Create(ctx, d)
}

func (s *Service) RemoveDoctor(ctx context.Context, id string) (*store.DeleteResult, error) {
	return s.doctors.Delete(ctx, id)
}
