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

type guestRepository interface {
	List(ctx context.Context, filter models.GuestFilter) ([]models.Guest, int, error)
	FindByID(ctx context.Context, id string) (*models.Guest, error)
	Create(ctx context.Context, guest *models.Guest) error
	Update(ctx context.Context, guest *models.Guest) error
	Delete(ctx context.Context, id string) error
}

type guestTableReader interface {
	FindByID(ctx context.Context, id string) (*models.SeatingTable, error)
}

// GuestService manages the invited guest list of an event.
type GuestService struct {
	guests    guestRepository
	tables    guestTableReader
	cache     PlanCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuestService constructs a GuestService. Cache may be nil.
func NewGuestService(guests guestRepository, tables guestTableReader, cache PlanCache, logger *zap.Logger) *GuestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuestService{guests: guests, tables: tables, cache: cache, validator: validator.New(), logger: logger}
}

func (s *GuestService) invalidatePlans(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("seating:%s:*", eventID)); err != nil {
		s.logger.Warn("seating cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
	}
}

// List returns one page of an event's guests.
func (s *GuestService) List(ctx context.Context, filter models.GuestFilter) ([]models.Guest, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	guests, total, err := s.guests.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guests")
	}
	return guests, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns one guest.
func (s *GuestService) Get(ctx context.Context, id string) (*models.Guest, error) {
	guest, err := s.guests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guest not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch guest")
	}
	return guest, nil
}

// Create adds a guest unit to an event.
func (s *GuestService) Create(ctx context.Context, eventID string, req dto.CreateGuestRequest) (*models.Guest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guest payload")
	}

	guest := &models.Guest{
		ID:                uuid.NewString(),
		EventID:           eventID,
		FullName:          req.FullName,
		RSVP:              models.RSVPStatus(req.RSVP),
		AdultsAttending:   req.AdultsAttending,
		ChildrenAttending: req.ChildrenAttending,
		GroupID:           req.GroupID,
		FamilyLabel:       req.FamilyLabel,
		Relation:          models.RelationType(req.Relation),
		Zone:              models.ZonePreference(req.Zone),
	}
	if guest.RSVP == "" {
		guest.RSVP = models.RSVPPending
	}
	if err := s.guests.Create(ctx, guest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create guest")
	}
	s.invalidatePlans(ctx, eventID)
	return guest, nil
}

// Update applies a partial update to a guest.
func (s *GuestService) Update(ctx context.Context, id string, req dto.UpdateGuestRequest) (*models.Guest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guest payload")
	}

	guest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		guest.FullName = *req.FullName
	}
	if req.RSVP != nil {
		guest.RSVP = models.RSVPStatus(*req.RSVP)
	}
	if req.AdultsAttending != nil {
		guest.AdultsAttending = *req.AdultsAttending
	}
	if req.ChildrenAttending != nil {
		guest.ChildrenAttending = *req.ChildrenAttending
	}
	if req.GroupID != nil {
		guest.GroupID = req.GroupID
	}
	if req.FamilyLabel != nil {
		guest.FamilyLabel = *req.FamilyLabel
	}
	if req.Relation != nil {
		guest.Relation = models.RelationType(*req.Relation)
	}
	if req.Zone != nil {
		guest.Zone = models.ZonePreference(*req.Zone)
	}

	if err := s.guests.Update(ctx, guest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update guest")
	}
	s.invalidatePlans(ctx, guest.EventID)
	return guest, nil
}

// Lock pins a guest to a table so auto-seating never moves them.
func (s *GuestService) Lock(ctx context.Context, id string, req dto.LockGuestRequest) (*models.Guest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lock payload")
	}

	guest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	table, err := s.tables.FindByID(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "table not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch table")
	}
	if table.EventID != guest.EventID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "table belongs to another event")
	}

	guest.LockedSeat = true
	guest.LockedTableID = &table.ID
	if err := s.guests.Update(ctx, guest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock guest")
	}
	s.invalidatePlans(ctx, guest.EventID)
	return guest, nil
}

// Unlock releases a guest's seat lock.
func (s *GuestService) Unlock(ctx context.Context, id string) (*models.Guest, error) {
	guest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	guest.LockedSeat = false
	guest.LockedTableID = nil
	if err := s.guests.Update(ctx, guest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlock guest")
	}
	s.invalidatePlans(ctx, guest.EventID)
	return guest, nil
}

// Delete removes a guest and, via the schema's cascades, their assignments.
func (s *GuestService) Delete(ctx context.Context, id string) error {
	guest, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guests.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete guest")
	}
	s.invalidatePlans(ctx, guest.EventID)
	return nil
}
