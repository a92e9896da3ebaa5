package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

// GroupRepository manages guest groups and their priorities.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// ListByEvent returns the event's groups ordered by name.
func (r *GroupRepository) ListByEvent(ctx context.Context, eventID string) ([]models.GuestGroup, error) {
	const query = `SELECT id, event_id, name, created_at FROM guest_groups WHERE event_id = $1 ORDER BY name ASC, id ASC`
	var groups []models.GuestGroup
	if err := r.db.SelectContext(ctx, &groups, query, eventID); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ListPriorities returns the event's group priority rows.
func (r *GroupRepository) ListPriorities(ctx context.Context, eventID string) ([]models.GroupPriority, error) {
	const query = `SELECT id, event_id, group_name, priority FROM group_priorities WHERE event_id = $1 ORDER BY priority ASC, group_name ASC`
	var priorities []models.GroupPriority
	if err := r.db.SelectContext(ctx, &priorities, query, eventID); err != nil {
		return nil, fmt.Errorf("list group priorities: %w", err)
	}
	return priorities, nil
}

// ReplacePriorities swaps the event's priority ranking in one transaction.
func (r *GroupRepository) ReplacePriorities(ctx context.Context, eventID string, priorities []models.GroupPriority) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin priorities tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_priorities WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("clear group priorities: %w", err)
	}

	const query = `INSERT INTO group_priorities (id, event_id, group_name, priority)
VALUES (:id, :event_id, :group_name, :priority)`
	for i := range priorities {
		row := &priorities[i]
		row.EventID = eventID
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if _, err := sqlx.NamedExecContext(ctx, tx, query, row); err != nil {
			return fmt.Errorf("insert group priority: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit priorities tx: %w", err)
	}
	return nil
}

// SettingsRepository reads per-event seating settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByEvent returns the event's seating settings row or sql.ErrNoRows.
func (r *SettingsRepository) GetByEvent(ctx context.Context, eventID string) (*models.SeatingSettings, error) {
	const query = `SELECT event_id, seats_per_table, adjacency_policy, children_table_enabled, children_table_min_count, avoid_lonely_singles, zone_placement, updated_at
FROM seating_settings WHERE event_id = $1`
	var settings models.SeatingSettings
	if err := r.db.GetContext(ctx, &settings, query, eventID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert stores the event's seating settings.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.SeatingSettings) error {
	settings.UpdatedAt = time.Now().UTC()

	const query = `INSERT INTO seating_settings (event_id, seats_per_table, adjacency_policy, children_table_enabled, children_table_min_count, avoid_lonely_singles, zone_placement, updated_at)
VALUES (:event_id, :seats_per_table, :adjacency_policy, :children_table_enabled, :children_table_min_count, :avoid_lonely_singles, :zone_placement, :updated_at)
ON CONFLICT (event_id) DO UPDATE
SET seats_per_table = EXCLUDED.seats_per_table,
    adjacency_policy = EXCLUDED.adjacency_policy,
    children_table_enabled = EXCLUDED.children_table_enabled,
    children_table_min_count = EXCLUDED.children_table_min_count,
    avoid_lonely_singles = EXCLUDED.avoid_lonely_singles,
    zone_placement = EXCLUDED.zone_placement,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert seating settings: %w", err)
	}
	return nil
}
