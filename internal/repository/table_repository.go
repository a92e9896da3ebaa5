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

const tableColumns = `id, event_id, name, number, capacity, type, mode, group_id, family_label, cluster_index, locked, zone, guest_ids, created_at, updated_at`

// TableRepository manages persistence for seating tables.
type TableRepository struct {
	db *sqlx.DB
}

// NewTableRepository constructs a TableRepository.
func NewTableRepository(db *sqlx.DB) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByEvent returns every table of an event ordered by number.
func (r *TableRepository) ListByEvent(ctx context.Context, eventID string) ([]models.SeatingTable, error) {
	query := fmt.Sprintf(`SELECT %s FROM seating_tables WHERE event_id = $1 ORDER BY number ASC`, tableColumns)
	var tables []models.SeatingTable
	if err := r.db.SelectContext(ctx, &tables, query, eventID); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// FindByID returns one table or sql.ErrNoRows.
func (r *TableRepository) FindByID(ctx context.Context, id string) (*models.SeatingTable, error) {
	query := fmt.Sprintf(`SELECT %s FROM seating_tables WHERE id = $1`, tableColumns)
	var table models.SeatingTable
	if err := r.db.GetContext(ctx, &table, query, id); err != nil {
		return nil, err
	}
	return &table, nil
}

// Create inserts a table row. The caller may pre-assign the id so in-memory
// assignments can reference the table before it is persisted.
func (r *TableRepository) Create(ctx context.Context, exec sqlx.ExtContext, table *models.SeatingTable) error {
	if table.ID == "" {
		table.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	table.CreatedAt = now
	table.UpdatedAt = now
	if table.GuestIDs == nil {
		table.GuestIDs = pq.StringArray{}
	}

	const query = `INSERT INTO seating_tables (id, event_id, name, number, capacity, type, mode, group_id, family_label, cluster_index, locked, zone, guest_ids, created_at, updated_at)
VALUES (:id, :event_id, :name, :number, :capacity, :type, :mode, :group_id, :family_label, :cluster_index, :locked, :zone, :guest_ids, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, table); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a table row.
func (r *TableRepository) Update(ctx context.Context, table *models.SeatingTable) error {
	table.UpdatedAt = time.Now().UTC()

	const query = `UPDATE seating_tables
SET name = :name,
    capacity = :capacity,
    type = :type,
    zone = :zone,
    locked = :locked,
    updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, table); err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	return nil
}

// UpdateNumber moves one table to a new sequential number.
func (r *TableRepository) UpdateNumber(ctx context.Context, exec sqlx.ExtContext, id string, number int) error {
	const query = `UPDATE seating_tables SET number = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.exec(exec).ExecContext(ctx, query, number, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update table number: %w", err)
	}
	return nil
}

// RenumberBatch applies a stable renumbering in one transaction. Every table
// is first parked on the negative of its final number, then flipped to the
// final value, so the unique index on (event_id, number) never sees a
// collision mid-flight.
func (r *TableRepository) RenumberBatch(ctx context.Context, changes []models.TableNumberChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin renumber tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	const query = `UPDATE seating_tables SET number = $1, updated_at = $2 WHERE id = $3`

	for _, change := range changes {
		if _, err := tx.ExecContext(ctx, query, -change.Number, now, change.TableID); err != nil {
			return fmt.Errorf("park table number: %w", err)
		}
	}
	for _, change := range changes {
		if _, err := tx.ExecContext(ctx, query, change.Number, now, change.TableID); err != nil {
			return fmt.Errorf("finalize table number: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit renumber tx: %w", err)
	}
	return nil
}

// SetGuestList rewrites the denormalized guest id array used by the UI.
func (r *TableRepository) SetGuestList(ctx context.Context, tableID string, guestIDs []string) error {
	const query = `UPDATE seating_tables SET guest_ids = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, pq.StringArray(guestIDs), time.Now().UTC(), tableID); err != nil {
		return fmt.Errorf("set table guest list: %w", err)
	}
	return nil
}

// DeleteBatch removes tables by id.
func (r *TableRepository) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `DELETE FROM seating_tables WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.StringArray(ids)); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	return nil
}
