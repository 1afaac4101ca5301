package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jackc/pgx/v5"
)

var transformColumns = []string{
	"scene_name", "ord", "object_name",
	"tx", "ty", "tz",
	"rx", "ry", "rz",
	"sx", "sy", "sz",
}

// SnapshotInfo describes the last save of a scene.
type SnapshotInfo struct {
	Scene   string
	SavedAt time.Time
	Objects int
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// SaveSnapshot replaces the stored transforms of sceneName with states.
func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, sceneName string, states []scene.TransformState) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO scene_snapshots (scene_name, saved_at, object_count)
		 VALUES ($1, now(), $2)
		 ON CONFLICT (scene_name) DO UPDATE SET saved_at = now(), object_count = EXCLUDED.object_count`,
		sceneName, len(states),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM snapshot_transforms WHERE scene_name = $1`, sceneName); err != nil {
		return fmt.Errorf("clear transforms: %w", err)
	}

	rows := transformRows(sceneName, states)
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"snapshot_transforms"}, transformColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy transforms: %w", err)
	}
	return tx.Commit(ctx)
}

// LoadSnapshot returns the saved transforms of sceneName in save order, or
// nil if the scene was never saved.
func (r *SnapshotRepo) LoadSnapshot(ctx context.Context, sceneName string) ([]scene.TransformState, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT object_name, tx, ty, tz, rx, ry, rz, sx, sy, sz
		 FROM snapshot_transforms WHERE scene_name = $1 ORDER BY ord`, sceneName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scene.TransformState
	for rows.Next() {
		var (
			st      scene.TransformState
			t, rot  mgl32.Vec3
			scaling mgl32.Vec3
		)
		if err := rows.Scan(
			&st.Object,
			&t[0], &t[1], &t[2],
			&rot[0], &rot[1], &rot[2],
			&scaling[0], &scaling[1], &scaling[2],
		); err != nil {
			return nil, err
		}
		st.Translation, st.Rotation, st.Scale = t, rot, scaling
		out = append(out, st)
	}
	return out, rows.Err()
}

// Info returns the header of the last save of sceneName, or nil.
func (r *SnapshotRepo) Info(ctx context.Context, sceneName string) (*SnapshotInfo, error) {
	info := &SnapshotInfo{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT scene_name, saved_at, object_count FROM scene_snapshots WHERE scene_name = $1`, sceneName,
	).Scan(&info.Scene, &info.SavedAt, &info.Objects)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Delete drops the saved snapshot of sceneName. Transforms cascade.
func (r *SnapshotRepo) Delete(ctx context.Context, sceneName string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM scene_snapshots WHERE scene_name = $1`, sceneName)
	return err
}

func transformRows(sceneName string, states []scene.TransformState) [][]any {
	rows := make([][]any, 0, len(states))
	for i, st := range states {
		t, r, s := st.Translation, st.Rotation, st.Scale
		rows = append(rows, []any{
			sceneName, int32(i), st.Object,
			t[0], t[1], t[2],
			r[0], r[1], r[2],
			s[0], s[1], s[2],
		})
	}
	return rows
}
