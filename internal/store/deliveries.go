package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Delivery outcomes recorded in the delivery log.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeNoop    = "noop"
	OutcomeFailed  = "failed"
)

// Delivery is one processed webhook delivery, kept for the operator surfaces
// (watch TUI, doctor). Append-only.
type Delivery struct {
	ID         string
	Event      string
	RFDID      string
	Outcome    string
	Detail     string
	ReceivedAt time.Time
}

// DeliveryLog records processed webhook deliveries.
type DeliveryLog struct {
	db *sql.DB
}

func NewDeliveryLog(db *sql.DB) *DeliveryLog {
	return &DeliveryLog{db: db}
}

// Append records one delivery and returns its generated id.
func (l *DeliveryLog) Append(ctx context.Context, event, rfdID, outcome, detail string) (string, error) {
	if event == "" {
		return "", fmt.Errorf("event is empty")
	}
	if outcome == "" {
		return "", fmt.Errorf("outcome is empty")
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := l.db.ExecContext(ctx, `
INSERT INTO delivery_log(id, event, rfd_id, outcome, detail, received_at)
VALUES(?, ?, ?, ?, ?, ?);
`, id, event, rfdID, outcome, detail, now)
	if err != nil {
		return "", fmt.Errorf("append delivery log: %w", err)
	}
	return id, nil
}

// Recent returns up to limit deliveries, newest first.
func (l *DeliveryLog) Recent(ctx context.Context, limit int) ([]Delivery, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
SELECT id, event, rfd_id, outcome, detail, received_at
FROM delivery_log
ORDER BY received_at DESC, rowid DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var d Delivery
		var detail sql.NullString
		var receivedAt string
		if err := rows.Scan(&d.ID, &d.Event, &d.RFDID, &d.Outcome, &detail, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.Detail = detail.String
		d.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("parse received_at: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountByOutcome returns delivery counts keyed by outcome.
func (l *DeliveryLog) CountByOutcome(ctx context.Context) (map[string]int, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT outcome, COUNT(*) FROM delivery_log GROUP BY outcome;")
	if err != nil {
		return nil, fmt.Errorf("count deliveries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan delivery count: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
