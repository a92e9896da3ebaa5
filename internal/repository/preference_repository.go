package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

// PreferenceRepository manages pairwise seating preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs a PreferenceRepository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListEnabledByEvent returns the enabled preferences of an event in stable
// order.
func (r *PreferenceRepository) ListEnabledByEvent(ctx context.Context, eventID string) ([]models.SeatingPreference, error) {
	const query = `SELECT id, event_id, guest_a_id, guest_b_id, type, scope, strength, enabled, created_at
FROM seating_preferences WHERE event_id = $1 AND enabled = true ORDER BY created_at ASC, id ASC`
	var prefs []models.SeatingPreference
	if err := r.db.SelectContext(ctx, &prefs, query, eventID); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// ListByEvent returns all preferences of an event, enabled or not.
func (r *PreferenceRepository) ListByEvent(ctx context.Context, eventID string) ([]models.SeatingPreference, error) {
	const query = `SELECT id, event_id, guest_a_id, guest_b_id, type, scope, strength, enabled, created_at
FROM seating_preferences WHERE event_id = $1 ORDER BY created_at ASC, id ASC`
	var prefs []models.SeatingPreference
	if err := r.db.SelectContext(ctx, &prefs, query, eventID); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// Create inserts a preference row.
func (r *PreferenceRepository) Create(ctx context.Context, pref *models.SeatingPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO seating_preferences (id, event_id, guest_a_id, guest_b_id, type, scope, strength, enabled, created_at)
VALUES (:id, :event_id, :guest_a_id, :guest_b_id, :type, :scope, :strength, :enabled, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("create preference: %w", err)
	}
	return nil
}

// SetEnabled toggles a preference without deleting it.
func (r *PreferenceRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	const query = `UPDATE seating_preferences SET enabled = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, enabled, id); err != nil {
		return fmt.Errorf("toggle preference: %w", err)
	}
	return nil
}

// Delete removes a preference row.
func (r *PreferenceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM seating_preferences WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

// AdjacencyRepository reads explicit table adjacency edges.
type AdjacencyRepository struct {
	db *sqlx.DB
}

// NewAdjacencyRepository constructs an AdjacencyRepository.
func NewAdjacencyRepository(db *sqlx.DB) *AdjacencyRepository {
	return &AdjacencyRepository{db: db}
}

// ListByEvent returns all adjacency edges for an event.
func (r *AdjacencyRepository) ListByEvent(ctx context.Context, eventID string) ([]models.TableAdjacency, error) {
	const query = `SELECT id, event_id, table_a_id, table_b_id FROM table_adjacencies WHERE event_id = $1 ORDER BY id ASC`
	var edges []models.TableAdjacency
	if err := r.db.SelectContext(ctx, &edges, query, eventID); err != nil {
		return nil, fmt.Errorf("list adjacencies: %w", err)
	}
	return edges, nil
}
