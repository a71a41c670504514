package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin       = "admin"
	RoleGlobalAdmin = "global_admin"
)

type Profile struct {
	ID             int64
	FirstName      string
	MiddleName     string
	LastName       string
	Email          string
	PasswordHash   string `json:"-"`
	BirthDate      time.Time
	Gender         string
	Nationalities  []string
	Passports      []string
	TravellerTypes []int64
	Roles          []string
	SoftDeleted    bool
	CreatedAt      time.Time
}

func (p Profile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Profile) IsAdmin() bool { return p.HasRole(RoleAdmin) || p.HasRole(RoleGlobalAdmin) }

// Age in whole years at t.
func (p Profile) Age(t time.Time) int {
	years := t.Year() - p.BirthDate.Year()
	if t.Month() < p.BirthDate.Month() || (t.Month() == p.BirthDate.Month() && t.Day() < p.BirthDate.Day()) {
		years--
	}
	return years
}

type TravellerType struct {
	ID   int64
	Name string
}

// SplitList turns a comma separated form value into a trimmed, de-duplicated list.
func SplitList(s string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// AgeRange brackets used by the traveller search form. 0 means any age.
var AgeRanges = map[int][2]int{
	1: {0, 18},
	2: {18, 25},
	3: {25, 35},
	4: {35, 50},
	5: {50, 65},
	6: {65, 500},
}

type TravellerQuery struct {
	TravellerType int64
	AgeRange      int
	Gender        string
	Nationality   string
	Limit         int
	Offset        int
}

func (q TravellerQuery) Empty() bool {
	return q.TravellerType == 0 && q.AgeRange == 0 && q.Gender == "" && q.Nationality == ""
}

// BirthBounds returns the birth date window (exclusive lower, inclusive upper) for the age range.
func (q TravellerQuery) BirthBounds(now time.Time) (from, to time.Time) {
	r, ok := AgeRanges[q.AgeRange]
	if !ok {
		r = [2]int{0, 500}
	}
	return now.AddDate(-r[1], 0, 0), now.AddDate(-r[0], 0, 0)
}

type ProfilesPage struct {
	Items []Profile
	Total int
}
