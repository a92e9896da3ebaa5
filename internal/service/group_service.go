package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

type groupRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.GuestGroup, error)
	ListPriorities(ctx context.Context, eventID string) ([]models.GroupPriority, error)
	ReplacePriorities(ctx context.Context, eventID string, priorities []models.GroupPriority) error
}

type settingsRepository interface {
	GetByEvent(ctx context.Context, eventID string) (*models.SeatingSettings, error)
	Upsert(ctx context.Context, settings *models.SeatingSettings) error
}

// GroupService manages guest groups, their processing priorities, and the
// event's seating settings.
type GroupService struct {
	groups    groupRepository
	settings  settingsRepository
	cache     PlanCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroupService constructs a GroupService. Cache may be nil.
func NewGroupService(groups groupRepository, settings settingsRepository, cache PlanCache, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{groups: groups, settings: settings, cache: cache, validator: validator.New(), logger: logger}
}

func (s *GroupService) invalidatePlans(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("seating:%s:*", eventID)); err != nil {
		s.logger.Warn("seating cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
	}
}

// ListGroups returns an event's named guest groups.
func (s *GroupService) ListGroups(ctx context.Context, eventID string) ([]models.GuestGroup, error) {
	groups, err := s.groups.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	return groups, nil
}

// ListPriorities returns the event's group ranking.
func (s *GroupService) ListPriorities(ctx context.Context, eventID string) ([]models.GroupPriority, error) {
	priorities, err := s.groups.ListPriorities(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group priorities")
	}
	return priorities, nil
}

// ReplacePriorities swaps the event's entire group ranking in one shot.
func (s *GroupService) ReplacePriorities(ctx context.Context, eventID string, req dto.PutGroupPrioritiesRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid priorities payload")
	}

	rows := make([]models.GroupPriority, 0, len(req.Priorities))
	for _, entry := range req.Priorities {
		rows = append(rows, models.GroupPriority{
			ID:        uuid.NewString(),
			EventID:   eventID,
			GroupName: entry.GroupName,
			Priority:  entry.Priority,
		})
	}
	if err := s.groups.ReplacePriorities(ctx, eventID, rows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace group priorities")
	}
	s.invalidatePlans(ctx, eventID)
	return nil
}

// GetSettings returns the event's seating settings or nil when none are
// stored yet; callers fall back to config defaults.
func (s *GroupService) GetSettings(ctx context.Context, eventID string) (*models.SeatingSettings, error) {
	settings, err := s.settings.GetByEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "seating settings not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch seating settings")
	}
	return settings, nil
}

// PutSettings stores the event's seating settings.
func (s *GroupService) PutSettings(ctx context.Context, eventID string, settings models.SeatingSettings) (*models.SeatingSettings, error) {
	settings.EventID = eventID
	if settings.SeatsPerTable < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "seats per table must be positive")
	}
	if settings.AdjacencyPolicy != models.PolicySameAndAdjacent {
		settings.AdjacencyPolicy = models.PolicySameTable
	}
	if err := s.settings.Upsert(ctx, &settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store seating settings")
	}
	s.invalidatePlans(ctx, eventID)
	return &settings, nil
}
