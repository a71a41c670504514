package mysql

import (
	"context"
	"database/sql"
	"time"

	"travel_planner/internal/domain"
)

func (r *Repo) PushUndo(ctx context.Context, e domain.UndoEntry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO undo_stack (entity_kind, entity_id, actor_id, created_at) VALUES (?, ?, ?, ?)`,
		string(e.Kind), e.EntityID, e.ActorID, e.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PopUndo locks the actor's newest row so two concurrent undos cannot restore the same entry.
func (r *Repo) PopUndo(ctx context.Context, actorID int64) (domain.UndoEntry, error) {
	var e domain.UndoEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var kind string
		if err := tx.QueryRowContext(ctx, `
SELECT id, entity_kind, entity_id, actor_id, created_at
FROM undo_stack
WHERE actor_id = ?
ORDER BY id DESC
LIMIT 1
FOR UPDATE`, actorID).Scan(&e.ID, &kind, &e.EntityID, &e.ActorID, &e.CreatedAt); err != nil {
			return err
		}
		e.Kind = domain.EntityKind(kind)
		_, err := tx.ExecContext(ctx, `DELETE FROM undo_stack WHERE id = ?`, e.ID)
		return err
	})
	return e, err
}

func (r *Repo) PurgeUndo(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM undo_stack WHERE created_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
