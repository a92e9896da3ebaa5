package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

const guestColumns = `id, event_id, full_name, rsvp, adults_attending, children_attending, group_id, family_label, relation, locked_seat, locked_table_id, zone, created_at, updated_at`

// GuestRepository manages persistence for guest records.
type GuestRepository struct {
	db *sqlx.DB
}

// NewGuestRepository constructs a GuestRepository.
func NewGuestRepository(db *sqlx.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// ListByEvent returns every guest of an event ordered by name then id so
// repeated seating runs walk guests in the same order.
func (r *GuestRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE event_id = $1 ORDER BY full_name ASC, id ASC`, guestColumns)
	var guests []models.Guest
	if err := r.db.SelectContext(ctx, &guests, query, eventID); err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return guests, nil
}

// List returns guests matching the provided filters with a total count.
func (r *GuestRepository) List(ctx context.Context, filter models.GuestFilter) ([]models.Guest, int, error) {
	conditions := "event_id = $1"
	args := []interface{}{filter.EventID}

	if filter.RSVP != nil {
		args = append(args, *filter.RSVP)
		conditions += fmt.Sprintf(" AND rsvp = $%d", len(args))
	}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		conditions += fmt.Sprintf(" AND group_id = $%d", len(args))
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM guests WHERE %s`, conditions)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count guests: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}

	query := fmt.Sprintf(`SELECT %s FROM guests WHERE %s ORDER BY full_name ASC, id ASC LIMIT %d OFFSET %d`,
		guestColumns, conditions, size, (page-1)*size)
	var guests []models.Guest
	if err := r.db.SelectContext(ctx, &guests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list guests: %w", err)
	}
	return guests, total, nil
}

// FindByID returns one guest or sql.ErrNoRows.
func (r *GuestRepository) FindByID(ctx context.Context, id string) (*models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE id = $1`, guestColumns)
	var guest models.Guest
	if err := r.db.GetContext(ctx, &guest, query, id); err != nil {
		return nil, err
	}
	return &guest, nil
}

// Create inserts a guest row.
func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	guest.CreatedAt = now
	guest.UpdatedAt = now

	const query = `INSERT INTO guests (id, event_id, full_name, rsvp, adults_attending, children_attending, group_id, family_label, relation, locked_seat, locked_table_id, zone, created_at, updated_at)
VALUES (:id, :event_id, :full_name, :rsvp, :adults_attending, :children_attending, :group_id, :family_label, :relation, :locked_seat, :locked_table_id, :zone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, guest); err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a guest row.
func (r *GuestRepository) Update(ctx context.Context, guest *models.Guest) error {
	guest.UpdatedAt = time.Now().UTC()

	const query = `UPDATE guests
SET full_name = :full_name,
    rsvp = :rsvp,
    adults_attending = :adults_attending,
    children_attending = :children_attending,
    group_id = :group_id,
    family_label = :family_label,
    relation = :relation,
    locked_seat = :locked_seat,
    locked_table_id = :locked_table_id,
    zone = :zone,
    updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, guest); err != nil {
		return fmt.Errorf("update guest: %w", err)
	}
	return nil
}

// Delete removes a guest row.
func (r *GuestRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM guests WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}
