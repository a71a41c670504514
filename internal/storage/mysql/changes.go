package mysql

import (
	"context"
	"database/sql"

	"travel_planner/internal/domain"
)

func (r *Repo) CreateChangeRequest(ctx context.Context, req domain.DestinationRequest, changes []domain.DestinationChange) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO destination_request (destination_id, profile_id) VALUES (?, ?)`, req.DestinationID, req.ProfileID)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, c := range changes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO destination_changes (request_id, traveller_type_id, action) VALUES (?, ?, ?)`,
				id, c.TravellerTypeID, int(c.Action)); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

func (r *Repo) GetChange(ctx context.Context, id int64) (domain.DestinationChange, error) {
	var c domain.DestinationChange
	var action int
	err := r.db.QueryRowContext(ctx, `
SELECT c.id, c.request_id, c.traveller_type_id, c.action, r.destination_id
FROM destination_changes c
JOIN destination_request r ON r.id = c.request_id
WHERE c.id = ?`, id).Scan(&c.ID, &c.RequestID, &c.TravellerTypeID, &action, &c.DestinationID)
	if err != nil {
		return domain.DestinationChange{}, mapErr(err)
	}
	c.Action = domain.ChangeAction(action)
	return c, nil
}

func (r *Repo) DeleteChange(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var reqID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT request_id FROM destination_changes WHERE id = ? FOR UPDATE`, id).Scan(&reqID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM destination_changes WHERE id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
DELETE FROM destination_request
WHERE id = ? AND NOT EXISTS (SELECT 1 FROM destination_changes WHERE request_id = ?)`, reqID, reqID)
		return err
	})
}

func (r *Repo) ListPendingChanges(ctx context.Context) ([]domain.PendingChange, error) {
	rows, err := r.db.QueryContext(ctx, pendingChangesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.PendingChange
	for rows.Next() {
		var pc domain.PendingChange
		var action int
		d := &pc.Destination
		if err := rows.Scan(&pc.ID, &pc.RequestID, &pc.TravellerTypeID, &action, &pc.DestinationChange.DestinationID,
			&pc.Email, &pc.TravellerType.Name,
			&d.ID, &d.ProfileID, &d.Name, &d.Type, &d.Country, &d.District,
			&d.Latitude, &d.Longitude, &d.Public, &d.SoftDeleted); err != nil {
			return nil, err
		}
		pc.Action = domain.ChangeAction(action)
		pc.TravellerType.ID = pc.TravellerTypeID
		out = append(out, pc)
	}
	return out, rows.Err()
}

func (r *Repo) RepointChangeRequests(ctx context.Context, fromDestID, toDestID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE destination_request SET destination_id = ? WHERE destination_id = ?`, toDestID, fromDestID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
