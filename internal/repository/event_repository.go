package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

// EventRepository reads event records.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// FindByID returns one event or sql.ErrNoRows.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT id, owner_id, name, venue, held_at, created_at, updated_at FROM events WHERE id = $1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}
