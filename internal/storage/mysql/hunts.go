package mysql

import (
	"context"

	"travel_planner/internal/domain"
)

func (r *Repo) queryHunts(ctx context.Context, query string, args ...any) ([]domain.TreasureHunt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.TreasureHunt
	for rows.Next() {
		var h domain.TreasureHunt
		if err := rows.Scan(&h.ID, &h.DestinationID, &h.ProfileID, &h.Riddle, &h.StartDate, &h.EndDate, &h.SoftDeleted); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) CreateHunt(ctx context.Context, h domain.TreasureHunt) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO treasure_hunt (destination_id, profile_id, riddle, start_date, end_date)
VALUES (?, ?, ?, ?, ?)`, h.DestinationID, h.ProfileID, h.Riddle, h.StartDate, h.EndDate)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateHunt(ctx context.Context, h domain.TreasureHunt) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE treasure_hunt SET destination_id = ?, riddle = ?, start_date = ?, end_date = ?
WHERE id = ?`, h.DestinationID, h.Riddle, h.StartDate, h.EndDate, h.ID)
	return mapErr(err)
}

func (r *Repo) GetHunt(ctx context.Context, id int64) (domain.TreasureHunt, error) {
	hs, err := r.queryHunts(ctx, `SELECT `+huntCols+` FROM treasure_hunt h WHERE h.id = ?`, id)
	if err != nil {
		return domain.TreasureHunt{}, err
	}
	if len(hs) == 0 {
		return domain.TreasureHunt{}, domain.ErrNotFound
	}
	return hs[0], nil
}

func (r *Repo) ListHunts(ctx context.Context) ([]domain.TreasureHunt, error) {
	return r.queryHunts(ctx, `SELECT `+huntCols+` FROM treasure_hunt h WHERE h.soft_delete = 0 ORDER BY h.id`)
}

func (r *Repo) ListHuntsByOwner(ctx context.Context, profileID int64) ([]domain.TreasureHunt, error) {
	return r.queryHunts(ctx,
		`SELECT `+huntCols+` FROM treasure_hunt h WHERE h.profile_id = ? AND h.soft_delete = 0 ORDER BY h.id`, profileID)
}

func (r *Repo) SetHuntDeleted(ctx context.Context, id int64, deleted bool) error {
	return mustAffect(r.db.ExecContext(ctx, `UPDATE treasure_hunt SET soft_delete = ? WHERE id = ?`, deleted, id))
}

func (r *Repo) RepointHunts(ctx context.Context, fromDestID, toDestID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE treasure_hunt SET destination_id = ? WHERE destination_id = ?`, toDestID, fromDestID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
