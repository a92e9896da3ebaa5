package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/pkg/config"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

func engineTuning() config.SeatingConfig {
	return config.SeatingConfig{
		SeatsPerTableDefault:  10,
		AdjacencyPolicy:       "same_table",
		ChildrenTableMinCount: 6,
		CoupleHeavyRatio:      0.5,
		CoupleHeavyMaxSingles: 1,
		MaxTablesPerRun:       200,
	}
}

func testEvent() *models.Event {
	return &models.Event{ID: "event-1", Name: "חתונה של דנה ויוסי"}
}

func confirmedGuest(id, name string, adults, children int) models.Guest {
	return models.Guest{
		ID:                id,
		EventID:           "event-1",
		FullName:          name,
		RSVP:              models.RSVPConfirmed,
		AdultsAttending:   adults,
		ChildrenAttending: children,
	}
}

func groupedGuest(id, name, groupID string, adults int) models.Guest {
	g := confirmedGuest(id, name, adults, 0)
	g.GroupID = &groupID
	return g
}

func runEngine(t *testing.T, in snapshotInput, scope *groupKey) (*seatingEngine, *runDelta) {
	t.Helper()
	if in.Event == nil {
		in.Event = testEvent()
	}
	if in.Channel == "" {
		in.Channel = models.ChannelReal
	}
	if in.Defaults.SeatsPerTableDefault == 0 {
		in.Defaults = engineTuning()
	}
	engine := newSeatingEngine(buildSnapshot(in), engineTuning(), zap.NewNop(), scope)
	return engine, engine.run()
}

func tableSeats(snap *seatingSnapshot, tableID string) int {
	return snap.occupiedSeats(tableID)
}

func TestEngineSeatsEveryoneAcrossTwoTables(t *testing.T) {
	var guests []models.Guest
	for i := 1; i <= 13; i++ {
		guests = append(guests, confirmedGuest(fmt.Sprintf("g-%02d", i), fmt.Sprintf("אורח %02d", i), 1, 0))
	}

	engine, delta := runEngine(t, snapshotInput{Guests: guests}, nil)

	assert.True(t, delta.Success)
	assert.Empty(t, delta.Conflicts)
	assert.Equal(t, 2, delta.TablesCreated)
	assert.Equal(t, 13, delta.AssignmentsCreated)

	total := 0
	for _, table := range engine.snap.tables {
		occupied := tableSeats(engine.snap, table.ID)
		assert.LessOrEqual(t, occupied, table.Capacity)
		total += occupied
	}
	assert.Equal(t, 13, total)
}

func TestEngineChannelRequirements(t *testing.T) {
	pending := confirmedGuest("g-1", "מתלבט", 0, 0)
	pending.RSVP = models.RSVPPending
	declined := confirmedGuest("g-2", "לא מגיע", 2, 0)
	declined.RSVP = models.RSVPDeclined

	assert.Equal(t, 0, seatRequirement(&pending, models.ChannelReal))
	assert.Equal(t, 1, seatRequirement(&pending, models.ChannelSimulation))
	assert.Equal(t, 0, seatRequirement(&declined, models.ChannelReal))
	assert.Equal(t, 0, seatRequirement(&declined, models.ChannelSimulation))

	couple := confirmedGuest("g-3", "זוג", 2, 1)
	assert.Equal(t, 3, seatRequirement(&couple, models.ChannelReal))
}

func TestClassifyGuestFallbacks(t *testing.T) {
	single := confirmedGuest("g-1", "רווק", 1, 0)
	couple := confirmedGuest("g-2", "זוג", 2, 0)
	family := confirmedGuest("g-3", "משפחה", 2, 3)
	explicit := confirmedGuest("g-4", "מוצהר", 1, 0)
	explicit.Relation = models.RelationGroup

	assert.Equal(t, models.RelationSingle, classifyGuest(&single))
	assert.Equal(t, models.RelationCouple, classifyGuest(&couple))
	assert.Equal(t, models.RelationFamily, classifyGuest(&family))
	assert.Equal(t, models.RelationGroup, classifyGuest(&explicit))
}

func TestEngineApartPairSeparatedWithoutConflict(t *testing.T) {
	guests := []models.Guest{
		confirmedGuest("g-1", "אבי", 2, 0),
		confirmedGuest("g-2", "בני", 2, 0),
	}
	prefs := []models.SeatingPreference{{
		ID: "p-1", EventID: "event-1",
		GuestAID: "g-1", GuestBID: "g-2",
		Type: models.PreferenceApart, Scope: models.ScopeSameTable,
		Strength: models.StrengthMust, Enabled: true,
	}}

	engine, delta := runEngine(t, snapshotInput{Guests: guests, Preferences: prefs}, nil)

	assert.True(t, delta.Success)
	assert.Empty(t, delta.Conflicts, "separated apart pair must not be reported")
	assert.Equal(t, "", engine.sharedTable("g-1", "g-2"))
	assert.Equal(t, 2, delta.TablesCreated)
}

func TestEngineApartAdjacentPolicyKeepsNeighboursClear(t *testing.T) {
	a := confirmedGuest("g-1", "אבי", 2, 0)
	a.LockedSeat = true
	b := confirmedGuest("g-2", "בני", 2, 0)

	tables := []models.SeatingTable{
		{ID: "t-1", EventID: "event-1", Name: "שולחן 1", Number: 1, Capacity: 10, Mode: models.TableModeManual},
		{ID: "t-2", EventID: "event-1", Name: "שולחן 2", Number: 2, Capacity: 10, Mode: models.TableModeAuto},
	}
	assignments := []models.SeatAssignment{
		{ID: "a-1", EventID: "event-1", TableID: "t-1", GuestID: "g-1", Seats: 2, Channel: models.ChannelReal},
	}
	prefs := []models.SeatingPreference{{
		ID: "p-1", EventID: "event-1",
		GuestAID: "g-1", GuestBID: "g-2",
		Type: models.PreferenceApart, Scope: models.ScopeSameAndAdjacent,
		Strength: models.StrengthMust, Enabled: true,
	}}
	settings := &models.SeatingSettings{
		EventID: "event-1", SeatsPerTable: 10,
		AdjacencyPolicy: models.PolicySameAndAdjacent,
	}

	engine, delta := runEngine(t, snapshotInput{
		Guests:      []models.Guest{a, b},
		Tables:      tables,
		Assignments: assignments,
		Preferences: prefs,
		Settings:    settings,
	}, nil)

	assert.True(t, delta.Success)
	assert.Empty(t, delta.Conflicts)
	assert.False(t, engine.snap.guestAt("g-2", "t-1"), "same table refused")
	assert.False(t, engine.snap.guestAt("g-2", "t-2"), "neighbouring table refused under the adjacency policy")
	require.Len(t, engine.snap.assignmentsByGuest["g-2"], 1, "still seated, just further away")
}

func TestEngineZonePlacementPrefersMatchingTable(t *testing.T) {
	stage := confirmedGuest("g-1", "אבי", 1, 0)
	stage.Zone = models.ZoneStage
	anywhere := confirmedGuest("g-2", "בני", 1, 0)
	anywhere.Zone = models.ZoneAny

	tables := []models.SeatingTable{
		{ID: "t-1", EventID: "event-1", Name: "שולחן 1", Number: 1, Capacity: 10, Mode: models.TableModeAuto, Zone: models.TableZoneQuiet},
		{ID: "t-2", EventID: "event-1", Name: "שולחן 2", Number: 2, Capacity: 10, Mode: models.TableModeAuto, Zone: models.TableZoneGeneral},
		{ID: "t-3", EventID: "event-1", Name: "שולחן 3", Number: 3, Capacity: 10, Mode: models.TableModeAuto, Zone: models.TableZoneStage},
	}
	settings := &models.SeatingSettings{
		EventID: "event-1", SeatsPerTable: 10,
		AdjacencyPolicy: models.PolicySameTable,
		ZonePlacement:   true,
	}

	engine, delta := runEngine(t, snapshotInput{
		Guests:   []models.Guest{stage, anywhere},
		Tables:   tables,
		Settings: settings,
	}, nil)

	assert.True(t, delta.Success)
	assert.True(t, engine.snap.guestAt("g-1", "t-3"), "exact zone beats lower-numbered general tables")
	assert.False(t, engine.snap.guestAt("g-1", "t-1"), "mismatched zone filtered out")
	assert.True(t, engine.snap.guestAt("g-2", "t-1"), "zone-agnostic guest fills the lowest number")
}

func TestTogetherAffinityScoreWeights(t *testing.T) {
	partner := confirmedGuest("g-2", "בני", 1, 0)
	friend := confirmedGuest("g-3", "גדי", 1, 0)

	in := snapshotInput{
		Event:   testEvent(),
		Channel: models.ChannelReal,
		Guests: []models.Guest{
			confirmedGuest("g-1", "אבי", 1, 0), partner, friend,
		},
		Tables: []models.SeatingTable{
			{ID: "t-1", EventID: "event-1", Name: "שולחן 1", Number: 1, Capacity: 10, Mode: models.TableModeAuto},
			{ID: "t-2", EventID: "event-1", Name: "שולחן 2", Number: 2, Capacity: 10, Mode: models.TableModeAuto},
			{ID: "t-3", EventID: "event-1", Name: "שולחן 3", Number: 5, Capacity: 10, Mode: models.TableModeAuto},
		},
		Assignments: []models.SeatAssignment{
			{ID: "a-1", EventID: "event-1", TableID: "t-1", GuestID: "g-2", Seats: 1, Channel: models.ChannelReal},
			{ID: "a-2", EventID: "event-1", TableID: "t-3", GuestID: "g-3", Seats: 1, Channel: models.ChannelReal},
		},
		Preferences: []models.SeatingPreference{
			{
				ID: "p-1", EventID: "event-1", GuestAID: "g-1", GuestBID: "g-2",
				Type: models.PreferenceTogether, Scope: models.ScopeSameAndAdjacent,
				Strength: models.StrengthMust, Enabled: true,
			},
			{
				ID: "p-2", EventID: "event-1", GuestAID: "g-1", GuestBID: "g-3",
				Type: models.PreferenceTogether, Scope: models.ScopeSameTable,
				Strength: models.StrengthPrefer, Enabled: true,
			},
		},
		Defaults: engineTuning(),
	}
	engine := newSeatingEngine(buildSnapshot(in), engineTuning(), zap.NewNop(), nil)

	g := engine.snap.guestsByID["g-1"]
	require.NotNil(t, g)

	assert.Equal(t, 200, engine.score(g, engine.snap.tablesByID["t-1"]), "must strength doubles the same-table credit")
	assert.Equal(t, 100, engine.score(g, engine.snap.tablesByID["t-2"]), "adjacency credit is half, doubled by must")
	assert.Equal(t, 100, engine.score(g, engine.snap.tablesByID["t-3"]), "prefer strength leaves the same-table credit as is")
}

func TestEngineApartConflictWhenLockedTogether(t *testing.T) {
	a := confirmedGuest("g-1", "אבי", 1, 0)
	a.LockedSeat = true
	b := confirmedGuest("g-2", "בני", 1, 0)
	b.LockedSeat = true
	table := models.SeatingTable{
		ID: "t-1", EventID: "event-1", Name: "שולחן 1", Number: 1,
		Capacity: 10, Type: models.TableMixed, Mode: models.TableModeManual,
	}
	assignments := []models.SeatAssignment{
		{ID: "a-1", EventID: "event-1", TableID: "t-1", GuestID: "g-1", Seats: 1, Channel: models.ChannelReal},
		{ID: "a-2", EventID: "event-1", TableID: "t-1", GuestID: "g-2", Seats: 1, Channel: models.ChannelReal},
	}
	prefs := []models.SeatingPreference{{
		ID: "p-1", EventID: "event-1",
		GuestAID: "g-1", GuestBID: "g-2",
		Type: models.PreferenceApart, Scope: models.ScopeSameTable,
		Strength: models.StrengthMust, Enabled: true,
	}}

	_, delta := runEngine(t, snapshotInput{
		Guests:      []models.Guest{a, b},
		Tables:      []models.SeatingTable{table},
		Assignments: assignments,
		Preferences: prefs,
	}, nil)

	assert.True(t, delta.Success, "locked pair sharing a table is a conflict, not a failure")
	require.Len(t, delta.Conflicts, 1)
	conflict := delta.Conflicts[0]
	assert.Equal(t, models.ConflictApartCannotSatisfy, conflict.Type)
	assert.Equal(t, "t-1", conflict.TableID)
	assert.Contains(t, conflict.Message, "אבי")
	assert.Contains(t, conflict.Message, "בני")
}

func TestEngineTogetherPrePassCrossesGroups(t *testing.T) {
	guests := []models.Guest{
		groupedGuest("g-1", "אבי", "grp-1", 1),
		groupedGuest("g-2", "בני", "grp-2", 1),
	}
	groups := []models.GuestGroup{
		{ID: "grp-1", EventID: "event-1", Name: "חברים של החתן"},
		{ID: "grp-2", EventID: "event-1", Name: "חברים של הכלה"},
	}
	prefs := []models.SeatingPreference{{
		ID: "p-1", EventID: "event-1",
		GuestAID: "g-1", GuestBID: "g-2",
		Type: models.PreferenceTogether, Scope: models.ScopeSameTable,
		Strength: models.StrengthMust, Enabled: true,
	}}

	engine, delta := runEngine(t, snapshotInput{Guests: guests, Groups: groups, Preferences: prefs}, nil)

	assert.True(t, delta.Success)
	assert.Empty(t, delta.Conflicts)
	shared := engine.sharedTable("g-1", "g-2")
	require.NotEmpty(t, shared, "must-together pair should land on one table")
	assert.Equal(t, groupKey{kind: keyUngrouped}, tableGroupKey(engine.snap.tablesByID[shared]))
}

func TestEngineMustTogetherConflictWhenSplit(t *testing.T) {
	a := confirmedGuest("g-1", "אבי", 1, 0)
	a.LockedSeat = true
	b := confirmedGuest("g-2", "בני", 1, 0)
	b.LockedSeat = true
	tables := []models.SeatingTable{
		{ID: "t-1", EventID: "event-1", Name: "שולחן 1", Number: 1, Capacity: 2, Mode: models.TableModeManual},
		{ID: "t-2", EventID: "event-1", Name: "שולחן 2", Number: 2, Capacity: 2, Mode: models.TableModeManual},
	}
	assignments := []models.SeatAssignment{
		{ID: "a-1", EventID: "event-1", TableID: "t-1", GuestID: "g-1", Seats: 1, Channel: models.ChannelReal},
		{ID: "a-2", EventID: "event-1", TableID: "t-2", GuestID: "g-2", Seats: 1, Channel: models.ChannelReal},
	}
	prefs := []models.SeatingPreference{{
		ID: "p-1", EventID: "event-1",
		GuestAID: "g-1", GuestBID: "g-2",
		Type: models.PreferenceTogether, Scope: models.ScopeSameTable,
		Strength: models.StrengthMust, Enabled: true,
	}}

	_, delta := runEngine(t, snapshotInput{
		Guests:      []models.Guest{a, b},
		Tables:      tables,
		Assignments: assignments,
		Preferences: prefs,
	}, nil)

	require.Len(t, delta.Conflicts, 1)
	assert.Equal(t, models.ConflictTogetherCannotSatisfy, delta.Conflicts[0].Type)
	assert.True(t, delta.Success)
}

func TestEngineShortfallReportsConflictAndFails(t *testing.T) {
	guest := confirmedGuest("g-1", "משפחה גדולה", 2, 2)
	locked := models.SeatingTable{
		ID: "t-1", EventID: "event-1", Name: "שולחן נעול", Number: 1,
		Capacity: 2, Mode: models.TableModeAuto, Locked: true,
	}
	tuningNoCreate := engineTuning()
	tuningNoCreate.MaxTablesPerRun = 0

	in := snapshotInput{
		Event:    testEvent(),
		Channel:  models.ChannelReal,
		Defaults: engineTuning(),
		Guests:   []models.Guest{guest},
		Tables:   []models.SeatingTable{locked},
	}
	engine := newSeatingEngine(buildSnapshot(in), tuningNoCreate, zap.NewNop(), nil)
	delta := engine.run()

	assert.False(t, delta.Success)
	require.NotEmpty(t, delta.Conflicts)
	found := false
	for _, c := range delta.Conflicts {
		if c.Type == models.ConflictNoAvailableTable && c.GuestAID == "g-1" {
			found = true
			assert.Contains(t, c.Message, "משפחה גדולה")
		}
	}
	assert.True(t, found, "shortfall conflict for the unseated guest")
	var appErr *appErrors.Error
	require.ErrorAs(t, engine.fatal, &appErr)
	assert.Equal(t, appErrors.ErrTableBudget.Code, appErr.Code)
}

func TestEngineLockedGuestNeverMoves(t *testing.T) {
	locked := confirmedGuest("g-1", "סבתא", 2, 0)
	locked.LockedSeat = true
	free := confirmedGuest("g-2", "אורח", 1, 0)

	table := models.SeatingTable{
		ID: "t-1", EventID: "event-1", Name: "שולחן 1", Number: 1,
		Capacity: 10, Mode: models.TableModeAuto,
	}
	assignments := []models.SeatAssignment{
		{ID: "a-1", EventID: "event-1", TableID: "t-1", GuestID: "g-1", Seats: 2, Channel: models.ChannelReal},
	}

	engine, delta := runEngine(t, snapshotInput{
		Guests:      []models.Guest{locked, free},
		Tables:      []models.SeatingTable{table},
		Assignments: assignments,
	}, nil)

	assert.True(t, delta.Success)
	assert.NotContains(t, delta.ClearedGuestIDs, "g-1")
	assert.True(t, engine.snap.guestAt("g-1", "t-1"), "locked guest stays put")
	assert.True(t, engine.snap.guestAt("g-2", "t-1"), "free guest fills remaining seats")
}

func TestEngineChildrenTablePass(t *testing.T) {
	families := []models.Guest{
		confirmedGuest("g-1", "משפחת כהן", 2, 2),
		confirmedGuest("g-2", "משפחת לוי", 2, 2),
		confirmedGuest("g-3", "משפחת מזרחי", 2, 2),
	}
	families[0].FamilyLabel = "כהן"
	families[1].FamilyLabel = "לוי"
	families[2].FamilyLabel = "מזרחי"

	settings := &models.SeatingSettings{
		EventID:               "event-1",
		SeatsPerTable:         10,
		AdjacencyPolicy:       models.PolicySameTable,
		ChildrenTableEnabled:  true,
		ChildrenTableMinCount: 6,
	}

	engine, delta := runEngine(t, snapshotInput{Guests: families, Settings: settings}, nil)

	assert.True(t, delta.Success)
	assert.Empty(t, delta.Conflicts)

	var kids *models.SeatingTable
	for _, table := range engine.snap.tables {
		if table.Type == models.TableKids {
			kids = table
		}
	}
	require.NotNil(t, kids, "children table should exist")
	assert.Equal(t, "שולחן ילדים", kids.Name)
	assert.Equal(t, 6, tableSeats(engine.snap, kids.ID))

	for _, g := range families {
		assert.Equal(t, 4, engine.snap.guestSeats(g.ID), "adults seated at the family table, children at the kids table")
	}
}

func TestEngineChildrenTableSkippedBelowThreshold(t *testing.T) {
	family := confirmedGuest("g-1", "משפחת כהן", 2, 2)
	settings := &models.SeatingSettings{
		EventID: "event-1", SeatsPerTable: 10,
		AdjacencyPolicy:      models.PolicySameTable,
		ChildrenTableEnabled: true, ChildrenTableMinCount: 6,
	}

	engine, delta := runEngine(t, snapshotInput{Guests: []models.Guest{family}, Settings: settings}, nil)

	assert.True(t, delta.Success)
	for _, table := range engine.snap.tables {
		assert.NotEqual(t, models.TableKids, table.Type)
	}
}

func TestEnginePriorityRenumbering(t *testing.T) {
	grpFriends, grpFamily := "grp-1", "grp-2"
	guests := []models.Guest{
		groupedGuest("g-1", "חבר", grpFriends, 1),
		groupedGuest("g-2", "דוד", grpFamily, 1),
	}
	groups := []models.GuestGroup{
		{ID: grpFriends, EventID: "event-1", Name: "חברים"},
		{ID: grpFamily, EventID: "event-1", Name: "משפחה"},
	}
	priorities := []models.GroupPriority{
		{ID: "pr-1", EventID: "event-1", GroupName: "משפחה", Priority: 1},
		{ID: "pr-2", EventID: "event-1", GroupName: "חברים", Priority: 2},
	}
	tables := []models.SeatingTable{
		{ID: "t-locked", EventID: "event-1", Name: "במה", Number: 1, Capacity: 10, Mode: models.TableModeManual, Locked: true},
		{ID: "t-friends", EventID: "event-1", Name: "חברים 1", Number: 2, Capacity: 10, Mode: models.TableModeAuto, GroupID: &grpFriends, ClusterIndex: 1},
		{ID: "t-family", EventID: "event-1", Name: "משפחה 1", Number: 3, Capacity: 10, Mode: models.TableModeAuto, GroupID: &grpFamily, ClusterIndex: 1},
	}

	engine, delta := runEngine(t, snapshotInput{
		Guests: guests, Groups: groups, Priorities: priorities, Tables: tables,
	}, nil)

	assert.Equal(t, 1, engine.snap.tablesByID["t-locked"].Number, "locked table keeps its number")
	assert.Equal(t, 2, engine.snap.tablesByID["t-family"].Number, "priority 1 group numbered first")
	assert.Equal(t, 3, engine.snap.tablesByID["t-friends"].Number)
	assert.Len(t, delta.NumberChanges, 2)
}

func TestEngineCoupleHeavySingleAvoidance(t *testing.T) {
	couples := []models.Guest{
		confirmedGuest("g-1", "זוג א", 2, 0),
		confirmedGuest("g-2", "זוג ב", 2, 0),
	}
	single := confirmedGuest("g-3", "רווק", 1, 0)
	settings := &models.SeatingSettings{
		EventID: "event-1", SeatsPerTable: 10,
		AdjacencyPolicy:    models.PolicySameTable,
		AvoidLonelySingles: true,
	}

	engine, delta := runEngine(t, snapshotInput{
		Guests:   append(couples, single),
		Settings: settings,
	}, nil)

	assert.True(t, delta.Success)
	assert.Empty(t, delta.Conflicts, "the heuristic must never produce conflicts")
	singleTable := engine.snap.assignmentsByGuest["g-3"][0].TableID
	assert.Equal(t, "", func() string {
		for _, id := range []string{"g-1", "g-2"} {
			if engine.snap.guestAt(id, singleTable) {
				return id
			}
		}
		return ""
	}(), "single seated away from the couple-heavy table")
}

func TestEngineOverflowRepairMovesUnlockedBlocks(t *testing.T) {
	a := confirmedGuest("g-1", "אבי", 3, 0)
	b := confirmedGuest("g-2", "בני", 3, 0)
	locked := models.SeatingTable{
		ID: "t-1", EventID: "event-1", Name: "שולחן צפוף", Number: 1,
		Capacity: 4, Mode: models.TableModeManual, Locked: true,
	}
	assignments := []models.SeatAssignment{
		{ID: "a-1", EventID: "event-1", TableID: "t-1", GuestID: "g-1", Seats: 3, Channel: models.ChannelReal},
		{ID: "a-2", EventID: "event-1", TableID: "t-1", GuestID: "g-2", Seats: 3, Channel: models.ChannelReal},
	}

	engine, delta := runEngine(t, snapshotInput{
		Guests:      []models.Guest{a, b},
		Tables:      []models.SeatingTable{locked},
		Assignments: assignments,
	}, nil)

	assert.True(t, delta.Success)
	assert.LessOrEqual(t, tableSeats(engine.snap, "t-1"), 4, "over-capacity table repaired")
	require.Len(t, delta.Moves, 1, "one pre-existing block relocated")
	assert.Equal(t, "t-1", delta.Moves[0].FromTableID)
	assert.Equal(t, 1, delta.TablesCreated)
}

func TestEngineOverCapacityConflictNamesPinningGuest(t *testing.T) {
	a := confirmedGuest("g-1", "אבי", 2, 0)
	a.LockedSeat = true
	b := confirmedGuest("g-2", "בני", 2, 0)
	b.LockedSeat = true
	table := models.SeatingTable{
		ID: "t-1", EventID: "event-1", Name: "שולחן צפוף", Number: 1,
		Capacity: 2, Mode: models.TableModeManual, Locked: true,
	}
	assignments := []models.SeatAssignment{
		{ID: "a-1", EventID: "event-1", TableID: "t-1", GuestID: "g-1", Seats: 2, Channel: models.ChannelReal},
		{ID: "a-2", EventID: "event-1", TableID: "t-1", GuestID: "g-2", Seats: 2, Channel: models.ChannelReal},
	}

	_, delta := runEngine(t, snapshotInput{
		Guests:      []models.Guest{a, b},
		Tables:      []models.SeatingTable{table},
		Assignments: assignments,
	}, nil)

	assert.True(t, delta.Success, "locked excess is reported, not treated as a shortfall")
	require.Len(t, delta.Conflicts, 1)
	conflict := delta.Conflicts[0]
	assert.Equal(t, models.ConflictNoAvailableTable, conflict.Type)
	assert.Equal(t, "t-1", conflict.TableID)
	assert.Equal(t, "g-1", conflict.GuestAID)
	assert.Equal(t, "אבי", conflict.GuestAName)
	assert.Contains(t, conflict.Message, "אבי")
}

func TestEngineGroupScopedRun(t *testing.T) {
	grp := "grp-1"
	inGroup := groupedGuest("g-1", "חבר", grp, 2)
	outside := confirmedGuest("g-2", "זר", 2, 0)
	outsideTable := models.SeatingTable{
		ID: "t-out", EventID: "event-1", Name: "שולחן 1", Number: 1,
		Capacity: 10, Mode: models.TableModeAuto,
	}
	assignments := []models.SeatAssignment{
		{ID: "a-1", EventID: "event-1", TableID: "t-out", GuestID: "g-2", Seats: 2, Channel: models.ChannelReal},
	}
	groups := []models.GuestGroup{{ID: grp, EventID: "event-1", Name: "חברים"}}

	scope := &groupKey{kind: keyGroup, value: grp}
	engine, delta := runEngine(t, snapshotInput{
		Guests:      []models.Guest{inGroup, outside},
		Tables:      []models.SeatingTable{outsideTable},
		Assignments: assignments,
		Groups:      groups,
	}, scope)

	assert.True(t, delta.Success)
	assert.True(t, engine.snap.guestAt("g-2", "t-out"), "out-of-scope assignment untouched")
	assert.NotContains(t, delta.ClearedGuestIDs, "g-2")
	assert.Equal(t, 2, engine.snap.guestSeats("g-1"))
	newTable := engine.snap.assignmentsByGuest["g-1"][0].TableID
	assert.Equal(t, groupKey{kind: keyGroup, value: grp}, tableGroupKey(engine.snap.tablesByID[newTable]))
	assert.Empty(t, delta.NumberChanges, "scoped runs never renumber")
}

func TestEngineEmptyAutoTableCleanup(t *testing.T) {
	stale := models.SeatingTable{
		ID: "t-stale", EventID: "event-1", Name: "שולחן ריק", Number: 1,
		Capacity: 10, Mode: models.TableModeAuto,
	}
	guest := confirmedGuest("g-1", "אורח", 1, 0)

	engine, delta := runEngine(t, snapshotInput{
		Guests: []models.Guest{guest},
		Tables: []models.SeatingTable{stale},
	}, nil)

	assert.True(t, delta.Success)
	// the stale table is reused, not deleted, because the guest fills it
	assert.True(t, engine.snap.guestAt("g-1", "t-stale"))
	assert.Empty(t, delta.DeletedTableIDs)

	// a second run with no guests drops it
	engine2, delta2 := runEngine(t, snapshotInput{
		Tables: []models.SeatingTable{stale},
	}, nil)
	assert.Contains(t, delta2.DeletedTableIDs, "t-stale")
	assert.Equal(t, -1, delta2.TablesCreated)
	assert.Nil(t, engine2.snap.tablesByID["t-stale"])
}

func TestEngineDeterministicAcrossRuns(t *testing.T) {
	build := func() snapshotInput {
		var guests []models.Guest
		for i := 1; i <= 8; i++ {
			guests = append(guests, confirmedGuest(fmt.Sprintf("g-%02d", i), fmt.Sprintf("אורח %02d", i), 2, 0))
		}
		return snapshotInput{Guests: guests}
	}

	engine1, _ := runEngine(t, build(), nil)
	engine2, _ := runEngine(t, build(), nil)

	placement := func(e *seatingEngine) map[string]int {
		result := make(map[string]int)
		for guestID, rows := range e.snap.assignmentsByGuest {
			for _, a := range rows {
				result[guestID] = e.snap.tablesByID[a.TableID].Number
			}
		}
		return result
	}
	assert.Equal(t, placement(engine1), placement(engine2))
}

func TestAdjacencyExplicitEdgesOverrideNumbers(t *testing.T) {
	snap := buildSnapshot(snapshotInput{
		Event:    testEvent(),
		Channel:  models.ChannelReal,
		Defaults: engineTuning(),
		Tables: []models.SeatingTable{
			{ID: "t-1", EventID: "event-1", Number: 1, Capacity: 10},
			{ID: "t-2", EventID: "event-1", Number: 2, Capacity: 10},
			{ID: "t-9", EventID: "event-1", Number: 9, Capacity: 10},
		},
		Adjacencies: []models.TableAdjacency{
			{ID: "e-1", EventID: "event-1", TableAID: "t-1", TableBID: "t-9"},
		},
	})

	t1, t2, t9 := snap.tablesByID["t-1"], snap.tablesByID["t-2"], snap.tablesByID["t-9"]
	assert.True(t, snap.adjacent(t1, t9), "explicit edge wins")
	assert.False(t, snap.adjacent(t1, t2), "explicit edges suppress the number fallback")
	assert.False(t, snap.adjacent(t2, t9))
}
