package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"travel_planner/internal/domain"
)

func scanProfile(s scanner) (domain.Profile, error) {
	var p domain.Profile
	var nat, pass []byte
	err := s.Scan(&p.ID, &p.FirstName, &p.MiddleName, &p.LastName, &p.Email, &p.PasswordHash,
		&p.BirthDate, &p.Gender, &nat, &pass, &p.SoftDeleted, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	_ = json.Unmarshal(nat, &p.Nationalities)
	_ = json.Unmarshal(pass, &p.Passports)
	return p, nil
}

func (r *Repo) CreateProfile(ctx context.Context, p domain.Profile) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertProfileSQL,
			p.FirstName, p.MiddleName, p.LastName, p.Email, p.PasswordHash,
			p.BirthDate, p.Gender, jsonList(p.Nationalities), jsonList(p.Passports))
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertProfileTypes(ctx, tx, id, p.TravellerTypes)
	})
	return id, err
}

func insertProfileTypes(ctx context.Context, tx *sql.Tx, id int64, types []int64) error {
	for _, tt := range types {
		if _, err := tx.ExecContext(ctx, insertProfileTypeSQL, id, tt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, updateProfileSQL,
			p.FirstName, p.MiddleName, p.LastName, p.Email, p.PasswordHash,
			p.BirthDate, p.Gender, jsonList(p.Nationalities), jsonList(p.Passports), p.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteProfileTypesSQL, p.ID); err != nil {
			return err
		}
		return insertProfileTypes(ctx, tx, p.ID, p.TravellerTypes)
	})
}

func (r *Repo) getProfile(ctx context.Context, query string, arg any) (domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return domain.Profile{}, mapErr(err)
	}
	out := []domain.Profile{p}
	if err := r.hydrateProfiles(ctx, out); err != nil {
		return domain.Profile{}, err
	}
	return out[0], nil
}

func (r *Repo) GetProfile(ctx context.Context, id int64) (domain.Profile, error) {
	return r.getProfile(ctx, getProfileSQL, id)
}

func (r *Repo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	return r.getProfile(ctx, getProfileByEmailSQL, email)
}

// hydrateProfiles fills roles and traveller types for a batch of profiles.
func (r *Repo) hydrateProfiles(ctx context.Context, ps []domain.Profile) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]int64, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	in, args := inClause(ids)
	roles, err := pairs[string](ctx, r.db,
		`SELECT profile_id, role FROM profile_role WHERE profile_id IN (`+in+`) ORDER BY role`, args...)
	if err != nil {
		return err
	}
	types, err := pairs[int64](ctx, r.db,
		`SELECT profile_id, traveller_type_id FROM profile_traveller_type WHERE profile_id IN (`+in+`) ORDER BY traveller_type_id`, args...)
	if err != nil {
		return err
	}
	for i := range ps {
		ps[i].Roles = roles[ps[i].ID]
		ps[i].TravellerTypes = types[ps[i].ID]
	}
	return nil
}

func (r *Repo) queryProfiles(ctx context.Context, query string, args ...any) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.hydrateProfiles(ctx, out)
}

func (r *Repo) ListProfiles(ctx context.Context, pg domain.PageQuery) ([]domain.Profile, error) {
	return r.queryProfiles(ctx, listProfilesSQL, limitOf(pg.Limit), pg.Offset)
}

func (r *Repo) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profile WHERE soft_delete = 0`).Scan(&n)
	return n, err
}

func (r *Repo) SearchProfiles(ctx context.Context, q domain.TravellerQuery, now time.Time) (domain.ProfilesPage, error) {
	from, to := q.BirthBounds(now)
	where := []string{"p.soft_delete = 0", "p.birth_date > ?", "p.birth_date <= ?"}
	args := []any{from, to}
	if q.Gender != "" {
		where = append(where, "p.gender = ?")
		args = append(args, q.Gender)
	}
	if q.Nationality != "" {
		where = append(where, "JSON_CONTAINS(p.nationalities, JSON_QUOTE(?))")
		args = append(args, q.Nationality)
	}
	if q.TravellerType != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM profile_traveller_type t WHERE t.profile_id = p.id AND t.traveller_type_id = ?)")
		args = append(args, q.TravellerType)
	}
	cond := strings.Join(where, " AND ")

	var page domain.ProfilesPage
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profile p WHERE `+cond, args...).Scan(&page.Total); err != nil {
		return page, err
	}
	items, err := r.queryProfiles(ctx,
		`SELECT `+profileCols+` FROM profile p WHERE `+cond+` ORDER BY p.id LIMIT ? OFFSET ?`,
		append(args, limitOf(q.Limit), q.Offset)...)
	page.Items = items
	return page, err
}

func (r *Repo) SetProfileDeleted(ctx context.Context, id int64, deleted bool) error {
	return mustAffect(r.db.ExecContext(ctx, `UPDATE profile SET soft_delete = ? WHERE id = ?`, deleted, id))
}

func (r *Repo) ProfileRoles(ctx context.Context, id int64) ([]string, error) {
	m, err := pairs[string](ctx, r.db, `SELECT profile_id, role FROM profile_role WHERE profile_id = ? ORDER BY role`, id)
	return m[id], err
}

func (r *Repo) GrantRole(ctx context.Context, id int64, role string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profile_role (profile_id, role) VALUES (?, ?)`, id, role)
	return mapErr(err)
}

func (r *Repo) RevokeRole(ctx context.Context, id int64, role string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profile_role WHERE profile_id = ? AND role = ?`, id, role)
	return err
}

func (r *Repo) ProfileIDsWithRole(ctx context.Context, role string) ([]int64, error) {
	return queryIDs(ctx, r.db, `SELECT profile_id FROM profile_role WHERE role = ? ORDER BY profile_id`, role)
}

func (r *Repo) ListTravellerTypes(ctx context.Context) ([]domain.TravellerType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM traveller_type ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.TravellerType
	for rows.Next() {
		var tt domain.TravellerType
		if err := rows.Scan(&tt.ID, &tt.Name); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}
