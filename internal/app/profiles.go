package app

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

const TravellersPageSize = 12

type ProfileInput struct {
	FirstName      string
	MiddleName     string
	LastName       string
	Email          string
	Password       string
	BirthDate      time.Time
	Gender         string
	Nationalities  []string
	Passports      []string
	TravellerTypes []int64
}

func (in ProfileInput) validate(creating bool) error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return domain.Invalid("firstName", "First name is required")
	case strings.TrimSpace(in.LastName) == "":
		return domain.Invalid("lastName", "Last name is required")
	case creating && in.Password == "":
		return domain.Invalid("password", "Password is required")
	case in.BirthDate.IsZero():
		return domain.Invalid("birthDate", "Birth date is required")
	case in.BirthDate.After(time.Now()):
		return domain.Invalid("birthDate", "Birth date cannot be in the future")
	case len(in.Nationalities) == 0:
		return domain.Invalid("nationalities", "At least one nationality is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return domain.Invalid("email", "A valid email address is required")
	}
	return nil
}

func (in ProfileInput) profile() domain.Profile {
	return domain.Profile{
		FirstName:      strings.TrimSpace(in.FirstName),
		MiddleName:     strings.TrimSpace(in.MiddleName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		BirthDate:      in.BirthDate,
		Gender:         in.Gender,
		Nationalities:  in.Nationalities,
		Passports:      in.Passports,
		TravellerTypes: in.TravellerTypes,
	}
}

type ProfileService struct {
	repo      domain.ProfileRepository
	countries *CountryService
}

func NewProfileService(r domain.ProfileRepository, c *CountryService) *ProfileService {
	return &ProfileService{repo: r, countries: c}
}

func (s *ProfileService) checkCountries(ctx context.Context, in ProfileInput) error {
	if err := s.countries.Validate(ctx, "nationalities", in.Nationalities); err != nil {
		return err
	}
	return s.countries.Validate(ctx, "passports", in.Passports)
}

func (s *ProfileService) Create(ctx context.Context, in ProfileInput) (int64, error) {
	if err := in.validate(true); err != nil {
		return 0, err
	}
	if err := s.checkCountries(ctx, in); err != nil {
		return 0, err
	}
	p := in.profile()
	hash, err := HashPassword(in.Password)
	if err != nil {
		return 0, err
	}
	p.PasswordHash = hash
	id, err := s.repo.CreateProfile(ctx, p)
	if errors.Is(err, domain.ErrConflict) {
		return 0, domain.Errorf(domain.ErrConflict, "An account with the email %s already exists", p.Email)
	}
	return id, err
}

// Update edits a profile; only the owner or an admin may do so.
func (s *ProfileService) Update(ctx context.Context, actor domain.Profile, id int64, in ProfileInput) error {
	if actor.ID != id && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := in.validate(false); err != nil {
		return err
	}
	if err := s.checkCountries(ctx, in); err != nil {
		return err
	}
	p := in.profile()
	p.ID = id
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return err
		}
		p.PasswordHash = hash
	}
	err := s.repo.UpdateProfile(ctx, p)
	if errors.Is(err, domain.ErrConflict) {
		return domain.Errorf(domain.ErrConflict, "An account with the email %s already exists", p.Email)
	}
	return err
}

func (s *ProfileService) Get(ctx context.Context, id int64) (domain.Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

func (s *ProfileService) List(ctx context.Context, offset int) (domain.ProfilesPage, error) {
	items, err := s.repo.ListProfiles(ctx, domain.PageQuery{Limit: TravellersPageSize, Offset: offset})
	if err != nil {
		return domain.ProfilesPage{}, err
	}
	total, err := s.repo.CountProfiles(ctx)
	return domain.ProfilesPage{Items: items, Total: total}, err
}

func (s *ProfileService) Search(ctx context.Context, q domain.TravellerQuery) (domain.ProfilesPage, error) {
	if q.Empty() {
		return domain.ProfilesPage{}, domain.Invalid("search", "Please select at least one search filter")
	}
	if _, ok := domain.AgeRanges[q.AgeRange]; q.AgeRange != 0 && !ok {
		return domain.ProfilesPage{}, domain.Invalid("ageRange", "Unknown age range")
	}
	q.Limit = TravellersPageSize
	return s.repo.SearchProfiles(ctx, q, time.Now())
}

func (s *ProfileService) TravellerTypes(ctx context.Context) ([]domain.TravellerType, error) {
	return s.repo.ListTravellerTypes(ctx)
}

// EnsureGlobalAdmin creates the global admin account when it does not exist yet.
func (s *ProfileService) EnsureGlobalAdmin(ctx context.Context, email, password string) (int64, error) {
	p, err := s.repo.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		if password == "" {
			return 0, domain.Invalid("password", "Password is required")
		}
		hash, herr := HashPassword(password)
		if herr != nil {
			return 0, herr
		}
		p = domain.Profile{
			FirstName: "Global", LastName: "Admin", Email: email, PasswordHash: hash,
			BirthDate: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		if p.ID, err = s.repo.CreateProfile(ctx, p); err != nil {
			return 0, err
		}
		log.Info().Int64("id", p.ID).Str("email", email).Msg("global admin created")
	default:
		return 0, err
	}
	for _, role := range []string{domain.RoleAdmin, domain.RoleGlobalAdmin} {
		if p.HasRole(role) {
			continue
		}
		if err := s.repo.GrantRole(ctx, p.ID, role); err != nil && !errors.Is(err, domain.ErrConflict) {
			return 0, err
		}
	}
	return p.ID, nil
}

// globalAdminID returns the id of the global admin profile.
func globalAdminID(ctx context.Context, r domain.ProfileRepository) (int64, error) {
	ids, err := r.ProfileIDsWithRole(ctx, domain.RoleGlobalAdmin)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, domain.Errorf(domain.ErrNotFound, "No global admin is configured")
	}
	return ids[0], nil
}
