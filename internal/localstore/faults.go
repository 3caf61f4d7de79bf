package localstore

import (
	"context"
	"database/sql"
	"time"
)

// FaultEntry is one row of the fault journal.
type FaultEntry struct {
	ID         string
	Subtree    string
	Message    string
	Stack      string
	OccurredAt time.Time
}

// FaultJournal persists contained render faults.
type FaultJournal struct {
	db *sql.DB
}

func NewFaultJournal(db *sql.DB) *FaultJournal { return &FaultJournal{db: db} }

func (r *FaultJournal) Insert(ctx context.Context, f FaultEntry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO fault_log(id, subtree, message, stack, occurred_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING;
	`, f.ID, f.Subtree, f.Message, f.Stack, f.OccurredAt.UTC())
	return err
}

// Recent lists the newest faults first.
func (r *FaultJournal) Recent(ctx context.Context, limit int) ([]FaultEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, subtree, message, stack, occurred_at
	FROM fault_log ORDER BY occurred_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FaultEntry
	for rows.Next() {
		var f FaultEntry
		if err := rows.Scan(&f.ID, &f.Subtree, &f.Message, &f.Stack, &f.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
