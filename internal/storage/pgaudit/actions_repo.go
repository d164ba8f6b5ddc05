package pgaudit

import (
	"context"

	"github.com/BearBump/OrderConsole/internal/broker/messages"
	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/pkg/errors"
)

// Record implements auditlog.Sink. Replays of the same event are ignored.
func (s *Storage) Record(ctx context.Context, rec messages.ActionRecorded) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO console_actions (event_id, session_id, label, order_id, status, occurred_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (event_id) DO NOTHING
`, rec.EventID, rec.SessionID, rec.Label, rec.OrderID, rec.Status, rec.OccurredAt.UTC())
	if err != nil {
		return errors.Wrap(err, "insert console action")
	}
	return nil
}

// ListSessionActions returns a session's archived entries newest-first.
func (s *Storage) ListSessionActions(ctx context.Context, sessionID string, limit int) ([]models.ActionEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := s.db.Query(ctx, `
SELECT label, order_id, status, occurred_at
FROM console_actions
WHERE session_id = $1
ORDER BY occurred_at DESC, id DESC
LIMIT $2
`, sessionID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select actions")
	}
	defer rows.Close()

	var out []models.ActionEntry
	for rows.Next() {
		var e models.ActionEntry
		if err := rows.Scan(&e.Label, &e.OrderID, &e.Status, &e.Timestamp); err != nil {
			return nil, errors.Wrap(err, "scan action")
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
