package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

const countriesKey = "countries:all"

type CountryService struct {
	client   domain.CountryClient
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewCountryService accepts a nil client (built-in list only) and a nil cache.
func NewCountryService(c domain.CountryClient, cache domain.Cache, ttl time.Duration) *CountryService {
	return &CountryService{client: c, cache: cache, cacheTTL: ttl}
}

func (s *CountryService) List(ctx context.Context) []string {
	if s.client == nil {
		return fallbackCountries
	}
	var out []string
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, countriesKey, &out); ok && len(out) > 0 {
			return out
		}
	}
	out, err := s.client.ListCountries(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("countries api unavailable, using built-in list")
		return fallbackCountries
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, countriesKey, out, int(s.cacheTTL.Seconds()))
	}
	return out
}

// Validate rejects any name that is not a known country.
func (s *CountryService) Validate(ctx context.Context, field string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	known := map[string]struct{}{}
	for _, c := range s.List(ctx) {
		known[strings.ToLower(c)] = struct{}{}
	}
	for _, n := range names {
		if _, ok := known[strings.ToLower(n)]; !ok {
			return domain.Invalid(field, fmt.Sprintf("%s is not a valid country", n))
		}
	}
	return nil
}
