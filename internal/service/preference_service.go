package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

type preferenceRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.SeatingPreference, error)
	Create(ctx context.Context, pref *models.SeatingPreference) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

type preferenceGuestReader interface {
	FindByID(ctx context.Context, id string) (*models.Guest, error)
}

// PreferenceService manages pairwise together/apart rules.
type PreferenceService struct {
	preferences preferenceRepository
	guests      preferenceGuestReader
	cache       PlanCache
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPreferenceService constructs a PreferenceService. Cache may be nil.
func NewPreferenceService(preferences preferenceRepository, guests preferenceGuestReader, cache PlanCache, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{preferences: preferences, guests: guests, cache: cache, validator: validator.New(), logger: logger}
}

func (s *PreferenceService) invalidatePlans(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("seating:%s:*", eventID)); err != nil {
		s.logger.Warn("seating cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
	}
}

// List returns an event's rules, enabled or not.
func (s *PreferenceService) List(ctx context.Context, eventID string) ([]models.SeatingPreference, error) {
	prefs, err := s.preferences.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preferences")
	}
	return prefs, nil
}

// Create records a rule between two guests of the same event.
func (s *PreferenceService) Create(ctx context.Context, eventID string, req dto.CreatePreferenceRequest) (*models.SeatingPreference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	for _, id := range []string{req.GuestAID, req.GuestBID} {
		guest, err := s.guests.FindByID(ctx, id)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guest not found")
		}
		if guest.EventID != eventID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "guest belongs to another event")
		}
	}

	pref := &models.SeatingPreference{
		ID:       uuid.NewString(),
		EventID:  eventID,
		GuestAID: req.GuestAID,
		GuestBID: req.GuestBID,
		Type:     models.PreferenceType(req.Type),
		Scope:    models.PreferenceScope(req.Scope),
		Strength: models.PreferenceStrength(req.Strength),
		Enabled:  true,
	}
	if pref.Scope == "" {
		pref.Scope = models.ScopeSameTable
	}
	if pref.Strength == "" {
		pref.Strength = models.StrengthPrefer
	}
	if err := s.preferences.Create(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create preference")
	}
	s.invalidatePlans(ctx, eventID)
	return pref, nil
}

// SetEnabled toggles a rule without deleting its history.
func (s *PreferenceService) SetEnabled(ctx context.Context, eventID, id string, enabled bool) error {
	if err := s.preferences.SetEnabled(ctx, id, enabled); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle preference")
	}
	s.invalidatePlans(ctx, eventID)
	return nil
}

// Delete removes a rule.
func (s *PreferenceService) Delete(ctx context.Context, eventID, id string) error {
	if err := s.preferences.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preference")
	}
	s.invalidatePlans(ctx, eventID)
	return nil
}
