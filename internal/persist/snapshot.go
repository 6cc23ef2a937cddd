package persist

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"
)

// ActorRow is the persisted state of one live actor at snapshot time.
type ActorRow struct {
	NodePath   string
	TemplateID int32
	Zone       string
	X          float64
	Y          float64
	Vitality   int32
}

// Snapshot is one consistent capture of the live world.
type Snapshot struct {
	ServerID int
	Frame    uint64
	WorldDay int
	Actors   []ActorRow
	Checksum string
}

// SnapshotInfo is the header row of a stored snapshot.
type SnapshotInfo struct {
	ID         int64
	ServerID   int
	Frame      int64
	WorldDay   int
	ActorCount int
	Checksum   string
	CreatedAt  time.Time
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Checksum computes a blake2b-256 digest over the actor rows.
// Rows must already be in a stable order for the digest to be reproducible.
func Checksum(rows []ActorRow) string {
	h, _ := blake2b.New256(nil)
	var buf [8]byte
	for _, r := range rows {
		h.Write([]byte(r.NodePath))
		binary.LittleEndian.PutUint32(buf[:4], uint32(r.TemplateID))
		h.Write(buf[:4])
		h.Write([]byte(r.Zone))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(r.X))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(r.Y))
		h.Write(buf[:])
		binary.LittleEndian.PutUint32(buf[:4], uint32(r.Vitality))
		h.Write(buf[:4])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WriteSnapshot atomically writes the snapshot header and all actor rows in a
// single transaction. A partial snapshot is never visible to readers.
// Returns the new snapshot id.
func (r *SnapshotRepo) WriteSnapshot(ctx context.Context, snap *Snapshot) (int64, error) {
	if snap.Checksum == "" {
		snap.Checksum = Checksum(snap.Actors)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO world_snapshots (server_id, frame, world_day, actor_count, checksum)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		snap.ServerID, int64(snap.Frame), snap.WorldDay, len(snap.Actors), snap.Checksum,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("snapshot insert: %w", err)
	}

	for _, a := range snap.Actors {
		if _, err := tx.Exec(ctx,
			`INSERT INTO snapshot_actors (snapshot_id, node_path, template_id, zone, x, y, vitality)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, a.NodePath, a.TemplateID, a.Zone, a.X, a.Y, a.Vitality,
		); err != nil {
			return 0, fmt.Errorf("snapshot actor insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("snapshot commit: %w", err)
	}
	return id, nil
}

// Latest returns the most recent snapshot header, or nil when none exist.
func (r *SnapshotRepo) Latest(ctx context.Context) (*SnapshotInfo, error) {
	var info SnapshotInfo
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, server_id, frame, world_day, actor_count, checksum, created_at
		 FROM world_snapshots
		 ORDER BY id DESC
		 LIMIT 1`,
	).Scan(
		&info.ID, &info.ServerID, &info.Frame, &info.WorldDay,
		&info.ActorCount, &info.Checksum, &info.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LoadActors loads the actor rows of one snapshot in node-path order.
func (r *SnapshotRepo) LoadActors(ctx context.Context, snapshotID int64) ([]ActorRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT node_path, template_id, zone, x, y, vitality
		 FROM snapshot_actors
		 WHERE snapshot_id = $1
		 ORDER BY node_path`, snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ActorRow
	for rows.Next() {
		var a ActorRow
		if err := rows.Scan(&a.NodePath, &a.TemplateID, &a.Zone, &a.X, &a.Y, &a.Vitality); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Prune deletes all but the newest keep snapshots. Actor rows cascade.
func (r *SnapshotRepo) Prune(ctx context.Context, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM world_snapshots
		 WHERE id NOT IN (SELECT id FROM world_snapshots ORDER BY id DESC LIMIT $1)`,
		keep,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
