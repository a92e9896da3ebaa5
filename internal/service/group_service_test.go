package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lironamy/wedding-us-sub001/internal/dto"
	"github.com/lironamy/wedding-us-sub001/internal/models"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

type groupRepoStub struct {
	groups     []models.GuestGroup
	priorities []models.GroupPriority
	replaced   []models.GroupPriority
}

func (s *groupRepoStub) ListByEvent(_ context.Context, _ string) ([]models.GuestGroup, error) {
	return s.groups, nil
}

func (s *groupRepoStub) ListPriorities(_ context.Context, _ string) ([]models.GroupPriority, error) {
	return s.priorities, nil
}

func (s *groupRepoStub) ReplacePriorities(_ context.Context, _ string, priorities []models.GroupPriority) error {
	s.replaced = priorities
	return nil
}

type settingsRepoStub struct {
	settings *models.SeatingSettings
	upserted *models.SeatingSettings
}

func (s *settingsRepoStub) GetByEvent(_ context.Context, _ string) (*models.SeatingSettings, error) {
	if s.settings == nil {
		return nil, sql.ErrNoRows
	}
	return s.settings, nil
}

func (s *settingsRepoStub) Upsert(_ context.Context, settings *models.SeatingSettings) error {
	s.upserted = settings
	return nil
}

func TestGroupReplacePriorities(t *testing.T) {
	groups := &groupRepoStub{}
	cache := newPlanCacheStub()
	svc := NewGroupService(groups, &settingsRepoStub{}, cache, nil)

	err := svc.ReplacePriorities(context.Background(), "event-1", dto.PutGroupPrioritiesRequest{
		Priorities: []dto.GroupPriorityEntry{
			{GroupName: "משפחה", Priority: 1},
			{GroupName: "חברים", Priority: 2},
		},
	})

	require.NoError(t, err)
	require.Len(t, groups.replaced, 2)
	assert.Equal(t, "משפחה", groups.replaced[0].GroupName)
	assert.NotEmpty(t, groups.replaced[0].ID)
	assert.Equal(t, "event-1", groups.replaced[0].EventID)
	assert.Equal(t, []string{"seating:event-1:*"}, cache.deletedPatterns)
}

func TestGroupGetSettingsNotFound(t *testing.T) {
	svc := NewGroupService(&groupRepoStub{}, &settingsRepoStub{}, nil, nil)

	_, err := svc.GetSettings(context.Background(), "event-1")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGroupPutSettingsNormalizesPolicy(t *testing.T) {
	settingsRepo := &settingsRepoStub{}
	svc := NewGroupService(&groupRepoStub{}, settingsRepo, nil, nil)

	stored, err := svc.PutSettings(context.Background(), "event-1", models.SeatingSettings{
		SeatsPerTable:   12,
		AdjacencyPolicy: "diagonal",
	})

	require.NoError(t, err)
	assert.Equal(t, models.PolicySameTable, stored.AdjacencyPolicy)
	assert.Equal(t, "event-1", stored.EventID)
	require.NotNil(t, settingsRepo.upserted)
}

func TestGroupPutSettingsRejectsZeroSeats(t *testing.T) {
	svc := NewGroupService(&groupRepoStub{}, &settingsRepoStub{}, nil, nil)

	_, err := svc.PutSettings(context.Background(), "event-1", models.SeatingSettings{SeatsPerTable: 0})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
