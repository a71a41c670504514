package app

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"travel_planner/internal/domain"
)

var ErrBadCredentials = domain.Errorf(domain.ErrForbidden, "Incorrect email or password.")

type AuthService struct {
	profiles domain.ProfileRepository
}

func NewAuthService(r domain.ProfileRepository) *AuthService { return &AuthService{profiles: r} }

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// Login checks the credentials of a live (not soft deleted) profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Profile, error) {
	p, err := s.profiles.GetProfileByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, ErrBadCredentials
	}
	if err != nil {
		return domain.Profile{}, err
	}
	if p.SoftDeleted {
		return domain.Profile{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return domain.Profile{}, ErrBadCredentials
	}
	return p, nil
}

// Current resolves a session's profile id, rejecting soft deleted profiles.
func (s *AuthService) Current(ctx context.Context, id int64) (domain.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	if p.SoftDeleted {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}
