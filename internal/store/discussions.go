package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DiscussionRecord is the persisted association between an RFD and the chat
// room hosting its discussion. Written exactly once per RFD, at the moment a
// discussion is first created; never mutated afterwards.
type DiscussionRecord struct {
	RFDID     string
	RoomID    string
	RoomURL   string
	CreatedAt time.Time
}

// DiscussionStore is the keyed rfd-id -> discussion association. It is the
// serialization point that makes discussion creation idempotent across
// retried or re-ordered webhook deliveries.
type DiscussionStore struct {
	db *sql.DB
}

func NewDiscussionStore(db *sql.DB) *DiscussionStore {
	return &DiscussionStore{db: db}
}

// Get returns the record for rfdID, or (nil, nil) if none exists.
func (s *DiscussionStore) Get(ctx context.Context, rfdID string) (*DiscussionRecord, error) {
	if rfdID == "" {
		return nil, fmt.Errorf("rfd id is empty")
	}

	var rec DiscussionRecord
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT rfd_id, room_id, room_url, created_at FROM discussion_records WHERE rfd_id = ?;",
		rfdID).Scan(&rec.RFDID, &rec.RoomID, &rec.RoomURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read discussion record: %w", err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for rfd=%q: %w", rfdID, err)
	}
	return &rec, nil
}

// Put upserts the association for rfdID. The created_at of the first write is
// preserved on conflict; room id and url take last-writer semantics, which is
// safe because the reconciler lets at most one create reach this point.
func (s *DiscussionStore) Put(ctx context.Context, rfdID, roomID, roomURL string) error {
	if rfdID == "" {
		return fmt.Errorf("rfd id is empty")
	}
	if roomID == "" {
		return fmt.Errorf("room id is empty")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO discussion_records(rfd_id, room_id, room_url, created_at)
VALUES(?, ?, ?, ?)
ON CONFLICT(rfd_id) DO UPDATE SET
  room_id  = excluded.room_id,
  room_url = excluded.room_url;
`, rfdID, roomID, roomURL, now)
	if err != nil {
		return fmt.Errorf("upsert discussion record: %w", err)
	}
	return nil
}

// Exists reports whether a discussion has been recorded for rfdID.
func (s *DiscussionStore) Exists(ctx context.Context, rfdID string) (bool, error) {
	rec, err := s.Get(ctx, rfdID)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// Count returns the number of recorded discussions.
func (s *DiscussionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM discussion_records;").Scan(&n); err != nil {
		return 0, fmt.Errorf("count discussion records: %w", err)
	}
	return n, nil
}

// Recent returns up to limit records, newest first. Used by the watch TUI.
func (s *DiscussionStore) Recent(ctx context.Context, limit int) ([]DiscussionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT rfd_id, room_id, room_url, created_at
FROM discussion_records
ORDER BY created_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list discussion records: %w", err)
	}
	defer rows.Close()

	var out []DiscussionRecord
	for rows.Next() {
		var rec DiscussionRecord
		var createdAt string
		if err := rows.Scan(&rec.RFDID, &rec.RoomID, &rec.RoomURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan discussion record: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
