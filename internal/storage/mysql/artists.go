package mysql

import (
	"context"
	"database/sql"
	"strings"

	"travel_planner/internal/domain"
)

func (r *Repo) queryArtists(ctx context.Context, query string, args ...any) ([]domain.Artist, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Artist
	for rows.Next() {
		var a domain.Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.Biography, &a.FacebookLink, &a.InstagramLink, &a.SpotifyLink,
			&a.TwitterLink, &a.WebsiteLink, &a.Members, &a.Verified, &a.SoftDeleted); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.hydrateArtists(ctx, out)
}

func (r *Repo) hydrateArtists(ctx context.Context, as []domain.Artist) error {
	if len(as) == 0 {
		return nil
	}
	ids := make([]int64, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	in, args := inClause(ids)
	countries, err := pairs[string](ctx, r.db,
		`SELECT artist_id, country FROM artist_country WHERE artist_id IN (`+in+`) ORDER BY country`, args...)
	if err != nil {
		return err
	}
	genres, err := pairs[string](ctx, r.db,
		`SELECT artist_id, genre FROM artist_genre WHERE artist_id IN (`+in+`) ORDER BY genre`, args...)
	if err != nil {
		return err
	}
	profiles, err := pairs[int64](ctx, r.db,
		`SELECT artist_id, profile_id FROM artist_profile WHERE artist_id IN (`+in+`) ORDER BY profile_id`, args...)
	if err != nil {
		return err
	}
	for i := range as {
		as[i].Countries = countries[as[i].ID]
		as[i].Genres = genres[as[i].ID]
		as[i].ProfileIDs = profiles[as[i].ID]
	}
	return nil
}

func replaceArtistLists(ctx context.Context, tx *sql.Tx, a domain.Artist) error {
	for _, q := range []string{
		`DELETE FROM artist_country WHERE artist_id = ?`,
		`DELETE FROM artist_genre WHERE artist_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, a.ID); err != nil {
			return err
		}
	}
	for _, c := range a.Countries {
		if _, err := tx.ExecContext(ctx, `INSERT IGNORE INTO artist_country (artist_id, country) VALUES (?, ?)`, a.ID, c); err != nil {
			return err
		}
	}
	for _, g := range a.Genres {
		if _, err := tx.ExecContext(ctx, `INSERT IGNORE INTO artist_genre (artist_id, genre) VALUES (?, ?)`, a.ID, g); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) CreateArtist(ctx context.Context, a domain.Artist) (int64, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertArtistSQL, a.Name, a.Biography, a.FacebookLink, a.InstagramLink,
			a.SpotifyLink, a.TwitterLink, a.WebsiteLink, a.Members)
		if err != nil {
			return err
		}
		if a.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, pid := range a.ProfileIDs {
			if _, err := tx.ExecContext(ctx, `INSERT IGNORE INTO artist_profile (artist_id, profile_id) VALUES (?, ?)`, a.ID, pid); err != nil {
				return err
			}
		}
		return replaceArtistLists(ctx, tx, a)
	})
	return a.ID, err
}

func (r *Repo) UpdateArtist(ctx context.Context, a domain.Artist) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, updateArtistSQL, a.Name, a.Biography, a.FacebookLink, a.InstagramLink,
			a.SpotifyLink, a.TwitterLink, a.WebsiteLink, a.Members, a.ID); err != nil {
			return err
		}
		return replaceArtistLists(ctx, tx, a)
	})
}

func (r *Repo) GetArtist(ctx context.Context, id int64) (domain.Artist, error) {
	as, err := r.queryArtists(ctx, `SELECT `+artistCols+` FROM artist a WHERE a.id = ?`, id)
	if err != nil {
		return domain.Artist{}, err
	}
	if len(as) == 0 {
		return domain.Artist{}, domain.ErrNotFound
	}
	return as[0], nil
}

func (r *Repo) ArtistNameExists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM artist WHERE name = ?)`, name).Scan(&ok)
	return ok, err
}

func (r *Repo) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	return r.queryArtists(ctx, `SELECT `+artistCols+` FROM artist a WHERE a.verified = 1 AND a.soft_delete = 0 ORDER BY a.id`)
}

func (r *Repo) ListUnverifiedArtists(ctx context.Context) ([]domain.Artist, error) {
	return r.queryArtists(ctx, `SELECT `+artistCols+` FROM artist a WHERE a.verified = 0 AND a.soft_delete = 0 ORDER BY a.id`)
}

func (r *Repo) ListArtistsByProfile(ctx context.Context, profileID int64) ([]domain.Artist, error) {
	return r.queryArtists(ctx, `
SELECT `+artistCols+`
FROM artist a
JOIN artist_profile ap ON ap.artist_id = a.id
WHERE ap.profile_id = ? AND a.soft_delete = 0
ORDER BY a.id`, profileID)
}

func (r *Repo) SearchArtists(ctx context.Context, q domain.ArtistQuery) ([]domain.Artist, error) {
	where := []string{"a.verified = 1", "a.soft_delete = 0"}
	var args []any
	if q.Name != "" {
		where = append(where, "a.name LIKE ?")
		args = append(args, escapeLike(q.Name)+"%")
	}
	if q.Genre != "" {
		where = append(where, "EXISTS (SELECT 1 FROM artist_genre g WHERE g.artist_id = a.id AND g.genre = ?)")
		args = append(args, q.Genre)
	}
	if q.Country != "" {
		where = append(where, "EXISTS (SELECT 1 FROM artist_country c WHERE c.artist_id = a.id AND c.country = ?)")
		args = append(args, q.Country)
	}
	return r.queryArtists(ctx, `SELECT `+artistCols+` FROM artist a WHERE `+strings.Join(where, " AND ")+` ORDER BY a.name`, args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repo) SetArtistVerified(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE artist SET verified = 1 WHERE id = ?`, id)
	return err
}

func (r *Repo) SetArtistDeleted(ctx context.Context, id int64, deleted bool) error {
	return mustAffect(r.db.ExecContext(ctx, `UPDATE artist SET soft_delete = ? WHERE id = ?`, deleted, id))
}

func (r *Repo) DeleteArtist(ctx context.Context, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM artist WHERE id = ?`, id))
}

func (r *Repo) LinkArtistProfile(ctx context.Context, artistID, profileID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO artist_profile (artist_id, profile_id) VALUES (?, ?)`, artistID, profileID)
	return err
}

func (r *Repo) UnlinkArtistProfile(ctx context.Context, artistID, profileID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM artist_profile WHERE artist_id = ? AND profile_id = ?`, artistID, profileID)
	return err
}
