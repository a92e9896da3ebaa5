package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

type tableRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.SeatingTable, error)
	FindByID(ctx context.Context, id string) (*models.SeatingTable, error)
	Create(ctx context.Context, exec sqlx.ExtContext, table *models.SeatingTable) error
	Update(ctx context.Context, table *models.SeatingTable) error
	DeleteBatch(ctx context.Context, ids []string) error
}

type tableAssignmentCleaner interface {
	DeleteByTables(ctx context.Context, tableIDs []string, channel models.AssignmentChannel) error
}

// TableService manages the floor plan's tables. Tables created here are
// manual: the engine never renumbers or deletes them.
type TableService struct {
	tables      tableRepository
	assignments tableAssignmentCleaner
	cache       PlanCache
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTableService constructs a TableService. Cache may be nil.
func NewTableService(tables tableRepository, assignments tableAssignmentCleaner, cache PlanCache, logger *zap.Logger) *TableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableService{tables: tables, assignments: assignments, cache: cache, validator: validator.New(), logger: logger}
}

func (s *TableService) invalidatePlans(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("seating:%s:*", eventID)); err != nil {
		s.logger.Warn("seating cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
	}
}

// List returns an event's tables ordered by number.
func (s *TableService) List(ctx context.Context, eventID string) ([]models.SeatingTable, error) {
	tables, err := s.tables.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tables")
	}
	return tables, nil
}

// Get returns one table.
func (s *TableService) Get(ctx context.Context, id string) (*models.SeatingTable, error) {
	table, err := s.tables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "table not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch table")
	}
	return table, nil
}

// Create adds a manual table after the event's highest number.
func (s *TableService) Create(ctx context.Context, eventID string, req dto.CreateTableRequest) (*models.SeatingTable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid table payload")
	}

	existing, err := s.tables.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tables")
	}
	number := 0
	for _, t := range existing {
		if t.Number > number {
			number = t.Number
		}
	}

	table := &models.SeatingTable{
		ID:          uuid.NewString(),
		EventID:     eventID,
		Name:        req.Name,
		Number:      number + 1,
		Capacity:    req.Capacity,
		Type:        models.TableType(req.Type),
		Mode:        models.TableModeManual,
		GroupID:     req.GroupID,
		FamilyLabel: req.FamilyLabel,
		Zone:        models.TableZone(req.Zone),
	}
	if table.Type == "" {
		table.Type = models.TableMixed
	}
	if table.Zone == "" {
		table.Zone = models.TableZoneGeneral
	}
	if err := s.tables.Create(ctx, nil, table); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create table")
	}
	s.invalidatePlans(ctx, eventID)
	return table, nil
}

// Update applies a partial update to a table.
func (s *TableService) Update(ctx context.Context, id string, req dto.UpdateTableRequest) (*models.SeatingTable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid table payload")
	}

	table, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Type != nil {
		table.Type = models.TableType(*req.Type)
	}
	if req.Zone != nil {
		table.Zone = models.TableZone(*req.Zone)
	}
	if req.Locked != nil {
		table.Locked = *req.Locked
	}

	if err := s.tables.Update(ctx, table); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update table")
	}
	s.invalidatePlans(ctx, table.EventID)
	return table, nil
}

// Delete removes a table and its assignment rows on both channels. Locked
// tables must be unlocked first.
func (s *TableService) Delete(ctx context.Context, id string) error {
	table, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if table.Locked {
		return appErrors.Clone(appErrors.ErrLocked, "unlock the table before deleting it")
	}

	for _, channel := range []models.AssignmentChannel{models.ChannelReal, models.ChannelSimulation} {
		if err := s.assignments.DeleteByTables(ctx, []string{id}, channel); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear table assignments")
		}
	}
	if err := s.tables.DeleteBatch(ctx, []string{id}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete table")
	}
	s.invalidatePlans(ctx, table.EventID)
	return nil
}
