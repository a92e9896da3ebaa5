package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

// AssignmentRepository manages persistence for seat assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByEventChannel returns every assignment of one channel, ordered for
// deterministic snapshots.
func (r *AssignmentRepository) ListByEventChannel(ctx context.Context, eventID string, channel models.AssignmentChannel) ([]models.SeatAssignment, error) {
	const query = `SELECT id, event_id, table_id, guest_id, seats, channel, created_at
FROM seat_assignments WHERE event_id = $1 AND channel = $2 ORDER BY guest_id ASC, table_id ASC`
	var rows []models.SeatAssignment
	if err := r.db.SelectContext(ctx, &rows, query, eventID, channel); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return rows, nil
}

// BulkInsert writes a batch of assignment rows.
func (r *AssignmentRepository) BulkInsert(ctx context.Context, exec sqlx.ExtContext, rows []models.SeatAssignment) error {
	if len(rows) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `INSERT INTO seat_assignments (id, event_id, table_id, guest_id, seats, channel, created_at)
VALUES (:id, :event_id, :table_id, :guest_id, :seats, :channel, :created_at)`

	for i := range rows {
		row := &rows[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, row); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}

// Move relocates a guest's assignment rows from one table to another within a
// channel, keeping the seat count intact.
func (r *AssignmentRepository) Move(ctx context.Context, guestID, fromTableID, toTableID string, channel models.AssignmentChannel) error {
	const query = `UPDATE seat_assignments SET table_id = $1 WHERE guest_id = $2 AND table_id = $3 AND channel = $4`
	if _, err := r.db.ExecContext(ctx, query, toTableID, guestID, fromTableID, channel); err != nil {
		return fmt.Errorf("move assignment: %w", err)
	}
	return nil
}

// DeleteForUnlockedGuests clears a channel's assignments except those pinned
// by a seat lock or sitting on a locked table. Every run starts from this
// clean slate.
func (r *AssignmentRepository) DeleteForUnlockedGuests(ctx context.Context, eventID string, channel models.AssignmentChannel) error {
	const query = `DELETE FROM seat_assignments a USING guests g, seating_tables t
WHERE a.guest_id = g.id AND a.table_id = t.id
  AND a.event_id = $1 AND a.channel = $2
  AND g.locked_seat = false AND t.locked = false`
	if _, err := r.db.ExecContext(ctx, query, eventID, channel); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	return nil
}

// DeleteByGuests removes specific guests' assignment rows in a channel,
// sparing rows held on locked tables.
func (r *AssignmentRepository) DeleteByGuests(ctx context.Context, eventID string, channel models.AssignmentChannel, guestIDs []string) error {
	if len(guestIDs) == 0 {
		return nil
	}
	const query = `DELETE FROM seat_assignments a USING seating_tables t
WHERE a.table_id = t.id AND a.event_id = $1 AND a.channel = $2
  AND a.guest_id = ANY($3) AND t.locked = false`
	if _, err := r.db.ExecContext(ctx, query, eventID, channel, pq.StringArray(guestIDs)); err != nil {
		return fmt.Errorf("delete assignments by guest: %w", err)
	}
	return nil
}

// DeleteByTables removes assignment rows referencing the given tables.
func (r *AssignmentRepository) DeleteByTables(ctx context.Context, tableIDs []string, channel models.AssignmentChannel) error {
	if len(tableIDs) == 0 {
		return nil
	}
	const query = `DELETE FROM seat_assignments WHERE table_id = ANY($1) AND channel = $2`
	if _, err := r.db.ExecContext(ctx, query, pq.StringArray(tableIDs), channel); err != nil {
		return fmt.Errorf("delete assignments by table: %w", err)
	}
	return nil
}
