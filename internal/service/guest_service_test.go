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

type guestRepoStub struct {
	guests  map[string]*models.Guest
	updated []*models.Guest
	deleted []string
}

func newGuestRepoStub(guests ...*models.Guest) *guestRepoStub {
	s := &guestRepoStub{guests: make(map[string]*models.Guest)}
	for _, g := range guests {
		s.guests[g.ID] = g
	}
	return s
}

func (s *guestRepoStub) List(_ context.Context, _ models.GuestFilter) ([]models.Guest, int, error) {
	var out []models.Guest
	for _, g := range s.guests {
		out = append(out, *g)
	}
	return out, len(out), nil
}

func (s *guestRepoStub) FindByID(_ context.Context, id string) (*models.Guest, error) {
	g, ok := s.guests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *g
	return &copied, nil
}

func (s *guestRepoStub) Create(_ context.Context, guest *models.Guest) error {
	s.guests[guest.ID] = guest
	return nil
}

func (s *guestRepoStub) Update(_ context.Context, guest *models.Guest) error {
	s.guests[guest.ID] = guest
	s.updated = append(s.updated, guest)
	return nil
}

func (s *guestRepoStub) Delete(_ context.Context, id string) error {
	delete(s.guests, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type guestTableReaderStub struct {
	table *models.SeatingTable
}

func (s *guestTableReaderStub) FindByID(_ context.Context, _ string) (*models.SeatingTable, error) {
	if s.table == nil {
		return nil, sql.ErrNoRows
	}
	return s.table, nil
}

func TestGuestCreateDefaultsToPending(t *testing.T) {
	repo := newGuestRepoStub()
	cache := newPlanCacheStub()
	svc := NewGuestService(repo, &guestTableReaderStub{}, cache, nil)

	guest, err := svc.Create(context.Background(), "event-1", dto.CreateGuestRequest{
		FullName: "אורח חדש", AdultsAttending: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, models.RSVPPending, guest.RSVP)
	assert.NotEmpty(t, guest.ID)
	assert.Equal(t, []string{"seating:event-1:*"}, cache.deletedPatterns)
}

func TestGuestCreateRejectsBadRSVP(t *testing.T) {
	svc := NewGuestService(newGuestRepoStub(), &guestTableReaderStub{}, nil, nil)

	_, err := svc.Create(context.Background(), "event-1", dto.CreateGuestRequest{
		FullName: "אורח", RSVP: "maybe",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestGuestUpdatePartial(t *testing.T) {
	existing := confirmedGuest("g-1", "אורח", 2, 0)
	svc := NewGuestService(newGuestRepoStub(&existing), &guestTableReaderStub{}, nil, nil)

	rsvp := "declined"
	guest, err := svc.Update(context.Background(), "g-1", dto.UpdateGuestRequest{RSVP: &rsvp})

	require.NoError(t, err)
	assert.Equal(t, models.RSVPDeclined, guest.RSVP)
	assert.Equal(t, "אורח", guest.FullName, "unset fields stay as they were")
	assert.Equal(t, 2, guest.AdultsAttending)
}

func TestGuestLockChecksTableEvent(t *testing.T) {
	existing := confirmedGuest("g-1", "אורח", 2, 0)
	foreign := &models.SeatingTable{ID: "t-1", EventID: "other-event", Name: "שולחן 1", Number: 1, Capacity: 10}
	svc := NewGuestService(newGuestRepoStub(&existing), &guestTableReaderStub{table: foreign}, nil, nil)

	_, err := svc.Lock(context.Background(), "g-1", dto.LockGuestRequest{TableID: "t-1"})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "table belongs to another event", appErr.Message)
}

func TestGuestLockAndUnlock(t *testing.T) {
	existing := confirmedGuest("g-1", "סבתא", 2, 0)
	table := &models.SeatingTable{ID: "t-1", EventID: "event-1", Name: "שולחן 1", Number: 1, Capacity: 10}
	cache := newPlanCacheStub()
	svc := NewGuestService(newGuestRepoStub(&existing), &guestTableReaderStub{table: table}, cache, nil)

	locked, err := svc.Lock(context.Background(), "g-1", dto.LockGuestRequest{TableID: "t-1"})
	require.NoError(t, err)
	assert.True(t, locked.LockedSeat)
	require.NotNil(t, locked.LockedTableID)
	assert.Equal(t, "t-1", *locked.LockedTableID)

	unlocked, err := svc.Unlock(context.Background(), "g-1")
	require.NoError(t, err)
	assert.False(t, unlocked.LockedSeat)
	assert.Nil(t, unlocked.LockedTableID)
	assert.Len(t, cache.deletedPatterns, 2, "both transitions invalidate cached plans")
}

func TestGuestGetNotFound(t *testing.T) {
	svc := NewGuestService(newGuestRepoStub(), &guestTableReaderStub{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGuestListClampsPaging(t *testing.T) {
	existing := confirmedGuest("g-1", "אורח", 1, 0)
	svc := NewGuestService(newGuestRepoStub(&existing), &guestTableReaderStub{}, nil, nil)

	_, page, err := svc.List(context.Background(), models.GuestFilter{EventID: "event-1", Page: -3, PageSize: 9999})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)
}
