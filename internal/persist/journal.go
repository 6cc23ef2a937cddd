package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// JournalEntry is one recorded world event.
type JournalEntry struct {
	ID        int64
	Kind      string
	Origin    string
	Detail    map[string]any
	CreatedAt time.Time
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Record appends one event to the journal. Detail may be nil.
func (r *JournalRepo) Record(ctx context.Context, kind, origin string, detail map[string]any) error {
	if detail == nil {
		detail = map[string]any{}
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("journal detail: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO event_journal (kind, origin, detail) VALUES ($1, $2, $3)`,
		kind, origin, data,
	)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	return nil
}

// Recent returns up to limit newest entries, newest first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, kind, origin, detail, created_at
		 FROM event_journal
		 ORDER BY id DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []JournalEntry
	for rows.Next() {
		var (
			e   JournalEntry
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.Origin, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &e.Detail); err != nil {
			return nil, fmt.Errorf("journal detail: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// PruneBefore deletes journal entries older than cutoff and reports how many.
func (r *JournalRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM event_journal WHERE created_at < $1`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
