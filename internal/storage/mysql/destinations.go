package mysql

import (
	"context"
	"database/sql"

	"travel_planner/internal/domain"
)

func scanDestination(s scanner) (domain.Destination, error) {
	var d domain.Destination
	err := s.Scan(&d.ID, &d.ProfileID, &d.Name, &d.Type, &d.Country, &d.District,
		&d.Latitude, &d.Longitude, &d.Public, &d.SoftDeleted)
	return d, err
}

func (r *Repo) queryDestinations(ctx context.Context, query string, args ...any) ([]domain.Destination, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.hydrateDestinations(ctx, out)
}

func (r *Repo) hydrateDestinations(ctx context.Context, ds []domain.Destination) error {
	if len(ds) == 0 {
		return nil
	}
	ids := make([]int64, len(ds))
	for i, d := range ds {
		ids[i] = d.ID
	}
	in, args := inClause(ids)
	tags, err := pairs[int64](ctx, r.db,
		`SELECT destination_id, traveller_type_id FROM destination_traveller_type WHERE destination_id IN (`+in+`) ORDER BY traveller_type_id`, args...)
	if err != nil {
		return err
	}
	for i := range ds {
		ds[i].TravellerTypes = tags[ds[i].ID]
	}
	return nil
}

func (r *Repo) CreateDestination(ctx context.Context, d domain.Destination) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertDestinationSQL,
			d.ProfileID, d.Name, d.Type, d.Country, d.District, d.Latitude, d.Longitude, d.Public)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertDestinationTypes(ctx, tx, id, d.TravellerTypes)
	})
	return id, err
}

func insertDestinationTypes(ctx context.Context, tx *sql.Tx, id int64, types []int64) error {
	for _, tt := range types {
		if _, err := tx.ExecContext(ctx, insertDestinationTypeSQL, id, tt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpdateDestination(ctx context.Context, d domain.Destination) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, updateDestinationSQL,
			d.ProfileID, d.Name, d.Type, d.Country, d.District, d.Latitude, d.Longitude, d.Public, d.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM destination_traveller_type WHERE destination_id = ?`, d.ID); err != nil {
			return err
		}
		return insertDestinationTypes(ctx, tx, d.ID, d.TravellerTypes)
	})
}

func (r *Repo) GetDestination(ctx context.Context, id int64) (domain.Destination, error) {
	d, err := scanDestination(r.db.QueryRowContext(ctx, getDestinationSQL, id))
	if err != nil {
		return domain.Destination{}, mapErr(err)
	}
	out := []domain.Destination{d}
	if err := r.hydrateDestinations(ctx, out); err != nil {
		return domain.Destination{}, err
	}
	return out[0], nil
}

func (r *Repo) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	return r.queryDestinations(ctx, `SELECT `+destinationCols+` FROM destination d WHERE d.soft_delete = 0 ORDER BY d.id`)
}

func (r *Repo) ListDestinationsByOwner(ctx context.Context, profileID int64) ([]domain.Destination, error) {
	return r.queryDestinations(ctx,
		`SELECT `+destinationCols+` FROM destination d WHERE d.profile_id = ? AND d.soft_delete = 0 ORDER BY d.id`, profileID)
}

func (r *Repo) ListPublicDestinations(ctx context.Context) ([]domain.Destination, error) {
	return r.queryDestinations(ctx,
		`SELECT `+destinationCols+` FROM destination d WHERE d.is_public = 1 AND d.soft_delete = 0 ORDER BY d.id`)
}

func (r *Repo) FindSameDestinations(ctx context.Context, key domain.DestinationKey) ([]domain.Destination, error) {
	return r.queryDestinations(ctx,
		`SELECT `+destinationCols+` FROM destination d WHERE d.name = ? AND d.type = ? AND d.country = ? ORDER BY d.id`,
		key.Name, key.Type, key.Country)
}

// DeleteDestination removes the row; follows, tags, hunts and requests cascade.
// A destination still referenced by a trip yields ErrInUse.
func (r *Repo) DeleteDestination(ctx context.Context, id int64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM destination WHERE id = ?`, id))
}

func (r *Repo) SetDestinationDeleted(ctx context.Context, id int64, deleted bool) error {
	return mustAffect(r.db.ExecContext(ctx, `UPDATE destination SET soft_delete = ? WHERE id = ?`, deleted, id))
}

func (r *Repo) SetDestinationOwner(ctx context.Context, id, profileID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE destination SET profile_id = ? WHERE id = ?`, profileID, id)
	return err
}

func (r *Repo) FollowDestination(ctx context.Context, destID, profileID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO follow_destination (destination_id, profile_id) VALUES (?, ?)`, destID, profileID)
	return err
}

func (r *Repo) UnfollowDestination(ctx context.Context, destID, profileID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follow_destination WHERE destination_id = ? AND profile_id = ?`, destID, profileID)
	return err
}

func (r *Repo) DestinationFollowers(ctx context.Context, destID int64) ([]int64, error) {
	return queryIDs(ctx, r.db,
		`SELECT profile_id FROM follow_destination WHERE destination_id = ? ORDER BY profile_id`, destID)
}

func (r *Repo) FollowedDestinations(ctx context.Context, profileID int64) ([]domain.Destination, error) {
	return r.queryDestinations(ctx, followedDestinationsSQL, profileID)
}

func (r *Repo) DestinationTravellerTypes(ctx context.Context, destID int64) ([]domain.TravellerType, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.id, t.name
FROM destination_traveller_type dt
JOIN traveller_type t ON t.id = dt.traveller_type_id
WHERE dt.destination_id = ?
ORDER BY t.id`, destID)
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

func (r *Repo) AddDestinationTravellerType(ctx context.Context, destID, travellerTypeID int64) error {
	_, err := r.db.ExecContext(ctx, insertDestinationTypeSQL, destID, travellerTypeID)
	return mapErr(err)
}

func (r *Repo) RemoveDestinationTravellerType(ctx context.Context, destID, travellerTypeID int64) error {
	_, err := r.db.ExecContext(ctx, deleteDestinationTypeSQL, destID, travellerTypeID)
	return err
}
