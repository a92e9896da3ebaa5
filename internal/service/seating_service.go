package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/pkg/config"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

type seatingEventReader interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

type seatingGuestReader interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.Guest, error)
}

type seatingTableStore interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.SeatingTable, error)
	Create(ctx context.Context, exec sqlx.ExtContext, table *models.SeatingTable) error
	RenumberBatch(ctx context.Context, changes []models.TableNumberChange) error
	SetGuestList(ctx context.Context, tableID string, guestIDs []string) error
	DeleteBatch(ctx context.Context, ids []string) error
}

type seatAssignmentStore interface {
	ListByEventChannel(ctx context.Context, eventID string, channel models.AssignmentChannel) ([]models.SeatAssignment, error)
	BulkInsert(ctx context.Context, exec sqlx.ExtContext, rows []models.SeatAssignment) error
	Move(ctx context.Context, guestID, fromTableID, toTableID string, channel models.AssignmentChannel) error
	DeleteForUnlockedGuests(ctx context.Context, eventID string, channel models.AssignmentChannel) error
	DeleteByGuests(ctx context.Context, eventID string, channel models.AssignmentChannel, guestIDs []string) error
	DeleteByTables(ctx context.Context, tableIDs []string, channel models.AssignmentChannel) error
}

type seatingPreferenceReader interface {
	ListEnabledByEvent(ctx context.Context, eventID string) ([]models.SeatingPreference, error)
}

type tableAdjacencyReader interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.TableAdjacency, error)
}

type seatingGroupReader interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.GuestGroup, error)
	ListPriorities(ctx context.Context, eventID string) ([]models.GroupPriority, error)
}

type seatingSettingsReader interface {
	GetByEvent(ctx context.Context, eventID string) (*models.SeatingSettings, error)
}

// PlanCache is the subset of the redis cache repository the services use for
// plan caching and invalidation.
type PlanCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type seatingRunObserver interface {
	ObserveSeatingRun(channel string, success bool, tablesCreated, conflicts int)
}

// SeatingService runs the auto-seating engine and serves the resulting plan.
type SeatingService struct {
	events      seatingEventReader
	guests      seatingGuestReader
	tables      seatingTableStore
	assignments seatAssignmentStore
	preferences seatingPreferenceReader
	adjacencies tableAdjacencyReader
	groups      seatingGroupReader
	settings    seatingSettingsReader
	cache       PlanCache
	metrics     seatingRunObserver
	tuning      config.SeatingConfig
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSeatingService constructs a SeatingService. Cache and metrics may be nil.
func NewSeatingService(
	events seatingEventReader,
	guests seatingGuestReader,
	tables seatingTableStore,
	assignments seatAssignmentStore,
	preferences seatingPreferenceReader,
	adjacencies tableAdjacencyReader,
	groups seatingGroupReader,
	settings seatingSettingsReader,
	cache PlanCache,
	metrics seatingRunObserver,
	tuning config.SeatingConfig,
	logger *zap.Logger,
) *SeatingService {
	return &SeatingService{
		events:      events,
		guests:      guests,
		tables:      tables,
		assignments: assignments,
		preferences: preferences,
		adjacencies: adjacencies,
		groups:      groups,
		settings:    settings,
		cache:       cache,
		metrics:     metrics,
		tuning:      tuning,
		validator:   validator.New(),
		logger:      logger,
	}
}

func seatingRunCacheKey(eventID string, channel models.AssignmentChannel) string {
	return fmt.Sprintf("seating:%s:run:%s", eventID, channel)
}

func seatingPlanCacheKey(eventID string, channel models.AssignmentChannel) string {
	return fmt.Sprintf("seating:%s:plan:%s", eventID, channel)
}

// Run executes one auto-seating computation and persists its delta. Constraint
// failures ride back as conflicts on the result; only unusable input or a
// missing event comes back as an error. A storage failure during persistence
// flips the success flag and fills the result's error message, because the
// computation itself already happened and partial state may exist.
func (s *SeatingService) Run(ctx context.Context, req dto.RunSeatingRequest) (*dto.SeatingRunResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seating run request")
	}
	channel := models.AssignmentChannel(req.Channel)

	event, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	snap, err := s.loadSnapshot(ctx, event, channel)
	if err != nil {
		return nil, err
	}

	var scope *groupKey
	if req.Strategy == "group_only" {
		if _, ok := snap.groupsByID[req.GroupID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		scope = &groupKey{kind: keyGroup, value: req.GroupID}
	}

	start := time.Now()
	engine := newSeatingEngine(snap, s.tuning, s.logger, scope)
	delta := engine.run()

	s.logger.Info("seating run computed",
		zap.String("event_id", event.ID),
		zap.String("channel", string(channel)),
		zap.String("strategy", req.Strategy),
		zap.Bool("success", delta.Success),
		zap.Int("tables_created", delta.TablesCreated),
		zap.Int("assignments_created", delta.AssignmentsCreated),
		zap.Int("conflicts", len(delta.Conflicts)),
		zap.Duration("elapsed", time.Since(start)))

	result := &dto.SeatingRunResult{
		Success:            delta.Success,
		AssignmentsCreated: delta.AssignmentsCreated,
		TablesCreated:      delta.TablesCreated,
		Conflicts:          delta.Conflicts,
	}
	if result.Conflicts == nil {
		result.Conflicts = []models.SeatingConflict{}
	}

	if err := s.persistRun(ctx, event.ID, channel, scope != nil, delta); err != nil {
		s.logger.Error("seating run persistence failed", zap.String("event_id", event.ID), zap.Error(err))
		result.Success = false
		result.Error = "failed to store the seating plan"
		return result, nil
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("seating:%s:*", event.ID)); err != nil {
			s.logger.Warn("seating cache invalidation failed", zap.String("event_id", event.ID), zap.Error(err))
		}
		if err := s.cache.Set(ctx, seatingRunCacheKey(event.ID, channel), result, s.tuning.ResultCacheTTL); err != nil {
			s.logger.Warn("seating run cache write failed", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveSeatingRun(string(channel), result.Success, delta.TablesCreated, len(delta.Conflicts))
	}
	return result, nil
}

// RecalculateGroupSeating reruns the pipeline for a single group, leaving
// every other group's tables untouched.
func (s *SeatingService) RecalculateGroupSeating(ctx context.Context, eventID, groupID string, channel models.AssignmentChannel) (*dto.SeatingRunResult, error) {
	return s.Run(ctx, dto.RunSeatingRequest{
		EventID:  eventID,
		Channel:  string(channel),
		Strategy: "group_only",
		GroupID:  groupID,
	})
}

// loadSnapshot batch-reads everything one engine invocation needs.
func (s *SeatingService) loadSnapshot(ctx context.Context, event *models.Event, channel models.AssignmentChannel) (*seatingSnapshot, error) {
	guests, err := s.guests.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guests")
	}
	tables, err := s.tables.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tables")
	}
	assignments, err := s.assignments.ListByEventChannel(ctx, event.ID, channel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	preferences, err := s.preferences.ListEnabledByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	adjacencies, err := s.adjacencies.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load adjacencies")
	}
	groups, err := s.groups.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load groups")
	}
	priorities, err := s.groups.ListPriorities(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group priorities")
	}
	settings, err := s.settings.GetByEvent(ctx, event.ID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seating settings")
		}
		settings = nil
	}

	return buildSnapshot(snapshotInput{
		Event:       event,
		Channel:     channel,
		Settings:    settings,
		Defaults:    s.tuning,
		Guests:      guests,
		Tables:      tables,
		Assignments: assignments,
		Preferences: preferences,
		Adjacencies: adjacencies,
		Groups:      groups,
		Priorities:  priorities,
	}), nil
}

// persistRun applies the delta in dependency order: clear, renumber, create
// tables, insert assignments, relocate moved rows, drop emptied tables, then
// refresh the denormalized guest lists.
func (s *SeatingService) persistRun(ctx context.Context, eventID string, channel models.AssignmentChannel, scoped bool, delta *runDelta) error {
	if scoped {
		if err := s.assignments.DeleteByGuests(ctx, eventID, channel, delta.ClearedGuestIDs); err != nil {
			return err
		}
	} else {
		if err := s.assignments.DeleteForUnlockedGuests(ctx, eventID, channel); err != nil {
			return err
		}
	}

	if err := s.tables.RenumberBatch(ctx, delta.NumberChanges); err != nil {
		return err
	}

	for _, t := range delta.NewTables {
		if err := s.tables.Create(ctx, nil, t); err != nil {
			return err
		}
	}

	rows := make([]models.SeatAssignment, len(delta.NewAssignments))
	for i, a := range delta.NewAssignments {
		rows[i] = *a
	}
	if err := s.assignments.BulkInsert(ctx, nil, rows); err != nil {
		return err
	}

	for _, m := range delta.Moves {
		if err := s.assignments.Move(ctx, m.GuestID, m.FromTableID, m.ToTableID, channel); err != nil {
			return err
		}
	}

	if len(delta.DeletedTableIDs) > 0 {
		if err := s.assignments.DeleteByTables(ctx, delta.DeletedTableIDs, channel); err != nil {
			return err
		}
		if err := s.tables.DeleteBatch(ctx, delta.DeletedTableIDs); err != nil {
			return err
		}
	}

	tableIDs := make([]string, 0, len(delta.GuestLists))
	for id := range delta.GuestLists {
		tableIDs = append(tableIDs, id)
	}
	sort.Strings(tableIDs)
	for _, id := range tableIDs {
		if err := s.tables.SetGuestList(ctx, id, delta.GuestLists[id]); err != nil {
			return err
		}
	}
	return nil
}

// LastRunResult returns the cached outcome of the channel's most recent run.
// The cache is the only source; once the entry expires the planner reruns.
func (s *SeatingService) LastRunResult(ctx context.Context, eventID string, channel models.AssignmentChannel) (*dto.SeatingRunResult, error) {
	if s.cache == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no recent seating run")
	}
	var cached dto.SeatingRunResult
	if err := s.cache.Get(ctx, seatingRunCacheKey(eventID, channel), &cached); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no recent seating run")
	}
	return &cached, nil
}

// GetPlan returns the denormalized table-by-table view of one channel,
// served from cache when possible.
func (s *SeatingService) GetPlan(ctx context.Context, eventID string, channel models.AssignmentChannel) (*dto.SeatingPlan, error) {
	key := seatingPlanCacheKey(eventID, channel)
	if s.cache != nil {
		var cached dto.SeatingPlan
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	guests, err := s.guests.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guests")
	}
	tables, err := s.tables.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tables")
	}
	assignments, err := s.assignments.ListByEventChannel(ctx, event.ID, channel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	groups, err := s.groups.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load groups")
	}

	guestsByID := make(map[string]*models.Guest, len(guests))
	for i := range guests {
		guestsByID[guests[i].ID] = &guests[i]
	}
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}
	byTable := make(map[string][]models.SeatAssignment)
	for _, a := range assignments {
		byTable[a.TableID] = append(byTable[a.TableID], a)
	}

	plan := &dto.SeatingPlan{EventID: event.ID, Channel: string(channel), Tables: []dto.PlanTable{}}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	for _, t := range tables {
		pt := dto.PlanTable{
			TableID:  t.ID,
			Name:     t.Name,
			Number:   t.Number,
			Capacity: t.Capacity,
			Type:     string(t.Type),
			Mode:     string(t.Mode),
			Locked:   t.Locked,
			Zone:     string(t.Zone),
			Guests:   []dto.SeatedGuest{},
		}
		if t.GroupID != nil {
			pt.GroupName = groupNames[*t.GroupID]
		} else if t.FamilyLabel != "" {
			pt.GroupName = t.FamilyLabel
		}
		rows := byTable[t.ID]
		sort.Slice(rows, func(i, j int) bool { return rows[i].GuestID < rows[j].GuestID })
		for _, a := range rows {
			sg := dto.SeatedGuest{GuestID: a.GuestID, Seats: a.Seats}
			if g := guestsByID[a.GuestID]; g != nil {
				sg.GuestName = g.FullName
				sg.Locked = g.LockedSeat
			}
			pt.Occupied += a.Seats
			pt.Guests = append(pt.Guests, sg)
		}
		plan.Tables = append(plan.Tables, pt)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, plan, s.tuning.ResultCacheTTL); err != nil {
			s.logger.Warn("seating plan cache write failed", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	return plan, nil
}
