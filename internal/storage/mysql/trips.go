package mysql

import (
	"context"
	"database/sql"

	"travel_planner/internal/domain"
)

func (r *Repo) CreateTrip(ctx context.Context, t domain.Trip) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO trip (profile_id, name) VALUES (?, ?)`, t.ProfileID, t.Name)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for i, td := range t.Destinations {
			if _, err := tx.ExecContext(ctx, insertTripDestinationSQL,
				id, td.DestinationID, i, valTime(td.Arrival), valTime(td.Departure)); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

func (r *Repo) queryTrips(ctx context.Context, query string, args ...any) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Trip
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(&t.ID, &t.ProfileID, &t.Name, &t.SoftDeleted); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.loadStops(ctx, out)
}

func (r *Repo) loadStops(ctx context.Context, trips []domain.Trip) error {
	if len(trips) == 0 {
		return nil
	}
	ids := make([]int64, len(trips))
	idx := make(map[int64]int, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
		idx[t.ID] = i
	}
	in, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx, tripStopsPrefix+in+`) ORDER BY trip_id, list_order`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var td domain.TripDestination
		var arr, dep sql.NullTime
		if err := rows.Scan(&td.ID, &td.TripID, &td.DestinationID, &td.Order, &arr, &dep); err != nil {
			return err
		}
		if arr.Valid {
			a := arr.Time
			td.Arrival = &a
		}
		if dep.Valid {
			d := dep.Time
			td.Departure = &d
		}
		i := idx[td.TripID]
		trips[i].Destinations = append(trips[i].Destinations, td)
	}
	return rows.Err()
}

func (r *Repo) GetTrip(ctx context.Context, id int64) (domain.Trip, error) {
	trips, err := r.queryTrips(ctx, `SELECT id, profile_id, name, soft_delete FROM trip WHERE id = ?`, id)
	if err != nil {
		return domain.Trip{}, err
	}
	if len(trips) == 0 {
		return domain.Trip{}, domain.ErrNotFound
	}
	return trips[0], nil
}

func (r *Repo) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	return r.queryTrips(ctx, `SELECT id, profile_id, name, soft_delete FROM trip WHERE soft_delete = 0 ORDER BY id`)
}

func (r *Repo) ListTripsByOwner(ctx context.Context, profileID int64) ([]domain.Trip, error) {
	return r.queryTrips(ctx,
		`SELECT id, profile_id, name, soft_delete FROM trip WHERE profile_id = ? AND soft_delete = 0 ORDER BY id`, profileID)
}

func (r *Repo) SetTripDeleted(ctx context.Context, id int64, deleted bool) error {
	return mustAffect(r.db.ExecContext(ctx, `UPDATE trip SET soft_delete = ? WHERE id = ?`, deleted, id))
}

func (r *Repo) TripsUsingDestination(ctx context.Context, destID int64) ([]int64, error) {
	return queryIDs(ctx, r.db,
		`SELECT DISTINCT trip_id FROM trip_destination WHERE destination_id = ? ORDER BY trip_id`, destID)
}

// RepointTripDestinations moves every stop at fromDestID to toDestID. A stop
// that ends up repeating the one before it is folded into that stop.
func (r *Repo) RepointTripDestinations(ctx context.Context, fromDestID, toDestID int64) (int64, error) {
	var n int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE trip_destination SET destination_id = ? WHERE destination_id = ?`, toDestID, fromDestID)
		if err != nil {
			return err
		}
		if n, err = res.RowsAffected(); err != nil || n == 0 {
			return err
		}
		return collapseRepeatedStops(ctx, tx, toDestID)
	})
	return n, err
}

type stopRow struct {
	id, tripID, destID int64
	departure          sql.NullTime
}

func collapseRepeatedStops(ctx context.Context, tx *sql.Tx, destID int64) error {
	rows, err := tx.QueryContext(ctx, stopsOfTripsVisitingSQL, destID)
	if err != nil {
		return err
	}
	var stops []stopRow
	for rows.Next() {
		var s stopRow
		if err := rows.Scan(&s.id, &s.tripID, &s.destID, &s.departure); err != nil {
			rows.Close()
			return err
		}
		stops = append(stops, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	var (
		drop    []int64
		extends []stopRow
	)
	for i, kept := 0, 0; i < len(stops); i++ {
		s := stops[i]
		if i == 0 || s.tripID != stops[kept].tripID || s.destID != stops[kept].destID {
			kept = i
			continue
		}
		drop = append(drop, s.id)
		if s.departure.Valid {
			stops[kept].departure = s.departure
			extends = append(extends, stops[kept])
		}
	}
	for _, s := range extends {
		if _, err := tx.ExecContext(ctx,
			`UPDATE trip_destination SET departure_date = ? WHERE id = ?`, s.departure, s.id); err != nil {
			return err
		}
	}
	if len(drop) == 0 {
		return nil
	}
	in, args := inClause(drop)
	_, err = tx.ExecContext(ctx, `DELETE FROM trip_destination WHERE id IN (`+in+`)`, args...)
	return err
}
