package service

import (
	"sort"

	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/pkg/config"
)

// groupKeyKind tags the three ways a guest or table resolves to a seating
// pool.
type groupKeyKind int

const (
	keyUngrouped groupKeyKind = iota
	keyGroup
	keyFamily
)

// groupKey is the resolved seating pool of a guest or table: an explicit
// group id, a free-text family label, or the ungrouped pool. The group id
// wins when both are present.
type groupKey struct {
	kind  groupKeyKind
	value string
}

func guestGroupKey(g *models.Guest) groupKey {
	if g.GroupID != nil && *g.GroupID != "" {
		return groupKey{kind: keyGroup, value: *g.GroupID}
	}
	if g.FamilyLabel != "" {
		return groupKey{kind: keyFamily, value: g.FamilyLabel}
	}
	return groupKey{kind: keyUngrouped}
}

func tableGroupKey(t *models.SeatingTable) groupKey {
	if t.GroupID != nil && *t.GroupID != "" {
		return groupKey{kind: keyGroup, value: *t.GroupID}
	}
	if t.FamilyLabel != "" {
		return groupKey{kind: keyFamily, value: t.FamilyLabel}
	}
	return groupKey{kind: keyUngrouped}
}

// seatRequirement derives how many seats a guest unit needs on the given
// channel. The real channel counts confirmed guests only; simulation also
// counts pending guests, giving undecided units a single placeholder seat.
func seatRequirement(g *models.Guest, channel models.AssignmentChannel) int {
	switch channel {
	case models.ChannelReal:
		if g.RSVP != models.RSVPConfirmed {
			return 0
		}
	case models.ChannelSimulation:
		if g.RSVP == models.RSVPDeclined {
			return 0
		}
	}

	seats := g.AdultsAttending + g.ChildrenAttending
	if seats == 0 && channel == models.ChannelSimulation && g.RSVP == models.RSVPPending {
		return 1
	}
	return seats
}

// classifyGuest resolves a guest's relational type, preferring the stored
// value and falling back to attendance counts.
func classifyGuest(g *models.Guest) models.RelationType {
	if g.Relation != "" {
		return g.Relation
	}
	if g.ChildrenAttending > 0 {
		return models.RelationFamily
	}
	total := g.AdultsAttending + g.ChildrenAttending
	if g.AdultsAttending == 1 || total == 1 {
		return models.RelationSingle
	}
	if g.AdultsAttending == 2 {
		return models.RelationCouple
	}
	return models.RelationGroup
}

// seatingSnapshot is the fully indexed, single-owner working set of one
// engine invocation. It is built once from a batch read and mutated only by
// that invocation.
type seatingSnapshot struct {
	event    *models.Event
	channel  models.AssignmentChannel
	settings models.SeatingSettings

	guests     []*models.Guest
	guestsByID map[string]*models.Guest

	tables     []*models.SeatingTable
	tablesByID map[string]*models.SeatingTable

	assignmentsByTable map[string][]*models.SeatAssignment
	assignmentsByGuest map[string][]*models.SeatAssignment

	apartByGuest    map[string][]*models.SeatingPreference
	togetherByGuest map[string][]*models.SeatingPreference
	togetherPrefs   []*models.SeatingPreference
	apartPrefs      []*models.SeatingPreference

	adjacency map[string]map[string]bool

	groupsByID          map[string]*models.GuestGroup
	priorityByGroupName map[string]int

	maxTableNumber      int
	clusterIndexByGroup map[groupKey]int
}

// snapshotInput carries the raw batch read the snapshot is indexed from.
type snapshotInput struct {
	Event       *models.Event
	Channel     models.AssignmentChannel
	Settings    *models.SeatingSettings
	Defaults    config.SeatingConfig
	Guests      []models.Guest
	Tables      []models.SeatingTable
	Assignments []models.SeatAssignment
	Preferences []models.SeatingPreference
	Adjacencies []models.TableAdjacency
	Groups      []models.GuestGroup
	Priorities  []models.GroupPriority
}

// buildSnapshot indexes the batch read. Settings defaults are resolved here,
// once, so no later step needs inline fallbacks.
func buildSnapshot(in snapshotInput) *seatingSnapshot {
	snap := &seatingSnapshot{
		event:               in.Event,
		channel:             in.Channel,
		settings:            resolveSettings(in.Event.ID, in.Settings, in.Defaults),
		guestsByID:          make(map[string]*models.Guest, len(in.Guests)),
		tablesByID:          make(map[string]*models.SeatingTable, len(in.Tables)),
		assignmentsByTable:  make(map[string][]*models.SeatAssignment),
		assignmentsByGuest:  make(map[string][]*models.SeatAssignment),
		apartByGuest:        make(map[string][]*models.SeatingPreference),
		togetherByGuest:     make(map[string][]*models.SeatingPreference),
		adjacency:           make(map[string]map[string]bool),
		groupsByID:          make(map[string]*models.GuestGroup, len(in.Groups)),
		priorityByGroupName: make(map[string]int, len(in.Priorities)),
		clusterIndexByGroup: make(map[groupKey]int),
	}

	for i := range in.Guests {
		g := &in.Guests[i]
		snap.guests = append(snap.guests, g)
		snap.guestsByID[g.ID] = g
	}
	sort.Slice(snap.guests, func(i, j int) bool {
		if snap.guests[i].FullName == snap.guests[j].FullName {
			return snap.guests[i].ID < snap.guests[j].ID
		}
		return snap.guests[i].FullName < snap.guests[j].FullName
	})

	for i := range in.Tables {
		t := &in.Tables[i]
		snap.tables = append(snap.tables, t)
		snap.tablesByID[t.ID] = t
		if t.Number > snap.maxTableNumber {
			snap.maxTableNumber = t.Number
		}
		key := tableGroupKey(t)
		if t.ClusterIndex > snap.clusterIndexByGroup[key] {
			snap.clusterIndexByGroup[key] = t.ClusterIndex
		}
	}
	snap.sortTables()

	for i := range in.Assignments {
		a := &in.Assignments[i]
		snap.assignmentsByTable[a.TableID] = append(snap.assignmentsByTable[a.TableID], a)
		snap.assignmentsByGuest[a.GuestID] = append(snap.assignmentsByGuest[a.GuestID], a)
	}

	for i := range in.Preferences {
		p := &in.Preferences[i]
		if !p.Enabled {
			continue
		}
		switch p.Type {
		case models.PreferenceApart:
			snap.apartByGuest[p.GuestAID] = append(snap.apartByGuest[p.GuestAID], p)
			snap.apartByGuest[p.GuestBID] = append(snap.apartByGuest[p.GuestBID], p)
			snap.apartPrefs = append(snap.apartPrefs, p)
		case models.PreferenceTogether:
			snap.togetherByGuest[p.GuestAID] = append(snap.togetherByGuest[p.GuestAID], p)
			snap.togetherByGuest[p.GuestBID] = append(snap.togetherByGuest[p.GuestBID], p)
			snap.togetherPrefs = append(snap.togetherPrefs, p)
		}
	}

	for i := range in.Adjacencies {
		edge := &in.Adjacencies[i]
		snap.addAdjacency(edge.TableAID, edge.TableBID)
	}

	for i := range in.Groups {
		grp := &in.Groups[i]
		snap.groupsByID[grp.ID] = grp
	}
	for _, p := range in.Priorities {
		if p.Priority > 0 {
			snap.priorityByGroupName[p.GroupName] = p.Priority
		}
	}

	return snap
}

func resolveSettings(eventID string, stored *models.SeatingSettings, defaults config.SeatingConfig) models.SeatingSettings {
	if stored != nil {
		return *stored
	}
	policy := models.AdjacencyPolicy(defaults.AdjacencyPolicy)
	if policy != models.PolicySameAndAdjacent {
		policy = models.PolicySameTable
	}
	return models.SeatingSettings{
		EventID:               eventID,
		SeatsPerTable:         defaults.SeatsPerTableDefault,
		AdjacencyPolicy:       policy,
		ChildrenTableEnabled:  defaults.ChildrenTableEnabled,
		ChildrenTableMinCount: defaults.ChildrenTableMinCount,
		AvoidLonelySingles:    defaults.AvoidLonelySingles,
		ZonePlacement:         defaults.ZonePlacement,
	}
}

func (s *seatingSnapshot) sortTables() {
	sort.Slice(s.tables, func(i, j int) bool {
		return s.tables[i].Number < s.tables[j].Number
	})
}

func (s *seatingSnapshot) addAdjacency(a, b string) {
	if s.adjacency[a] == nil {
		s.adjacency[a] = make(map[string]bool)
	}
	if s.adjacency[b] == nil {
		s.adjacency[b] = make(map[string]bool)
	}
	s.adjacency[a][b] = true
	s.adjacency[b][a] = true
}

// adjacent reports whether two tables count as neighbours: an explicit edge
// if any exist for either table, otherwise table numbers one apart.
func (s *seatingSnapshot) adjacent(a, b *models.SeatingTable) bool {
	if a.ID == b.ID {
		return false
	}
	if s.adjacency[a.ID] != nil || s.adjacency[b.ID] != nil {
		return s.adjacency[a.ID][b.ID]
	}
	diff := a.Number - b.Number
	return diff == 1 || diff == -1
}

// tablesForKey returns the tables of one seating pool ordered by number.
func (s *seatingSnapshot) tablesForKey(key groupKey) []*models.SeatingTable {
	var result []*models.SeatingTable
	for _, t := range s.tables {
		if tableGroupKey(t) == key {
			result = append(result, t)
		}
	}
	return result
}

// occupiedSeats sums assignment seats at a table. Assignment rows, not the
// table's guest list, are authoritative.
func (s *seatingSnapshot) occupiedSeats(tableID string) int {
	total := 0
	for _, a := range s.assignmentsByTable[tableID] {
		total += a.Seats
	}
	return total
}

func (s *seatingSnapshot) freeSeats(t *models.SeatingTable) int {
	return t.Capacity - s.occupiedSeats(t.ID)
}

// guestSeats sums a guest's assigned seats across every table.
func (s *seatingSnapshot) guestSeats(guestID string) int {
	total := 0
	for _, a := range s.assignmentsByGuest[guestID] {
		total += a.Seats
	}
	return total
}

// guestAt reports whether the guest holds any seats at the table.
func (s *seatingSnapshot) guestAt(guestID, tableID string) bool {
	for _, a := range s.assignmentsByTable[tableID] {
		if a.GuestID == guestID {
			return true
		}
	}
	return false
}

func (s *seatingSnapshot) addTable(t *models.SeatingTable) {
	s.tables = append(s.tables, t)
	s.tablesByID[t.ID] = t
	if t.Number > s.maxTableNumber {
		s.maxTableNumber = t.Number
	}
	s.sortTables()
}

func (s *seatingSnapshot) addAssignment(a *models.SeatAssignment) {
	s.assignmentsByTable[a.TableID] = append(s.assignmentsByTable[a.TableID], a)
	s.assignmentsByGuest[a.GuestID] = append(s.assignmentsByGuest[a.GuestID], a)
}

// moveAssignment repoints one assignment row to another table in the indexes.
func (s *seatingSnapshot) moveAssignment(a *models.SeatAssignment, toTableID string) {
	rows := s.assignmentsByTable[a.TableID]
	for i, row := range rows {
		if row == a {
			s.assignmentsByTable[a.TableID] = append(rows[:i], rows[i+1:]...)
			break
		}
	}
	a.TableID = toTableID
	s.assignmentsByTable[toTableID] = append(s.assignmentsByTable[toTableID], a)
}

// dropAssignments removes a guest's assignment rows from the indexes and
// returns them.
func (s *seatingSnapshot) dropAssignments(guestID string) []*models.SeatAssignment {
	rows := s.assignmentsByGuest[guestID]
	delete(s.assignmentsByGuest, guestID)
	for _, a := range rows {
		tableRows := s.assignmentsByTable[a.TableID]
		for i, row := range tableRows {
			if row == a {
				s.assignmentsByTable[a.TableID] = append(tableRows[:i], tableRows[i+1:]...)
				break
			}
		}
	}
	return rows
}

func (s *seatingSnapshot) groupName(key groupKey) string {
	switch key.kind {
	case keyGroup:
		if grp, ok := s.groupsByID[key.value]; ok {
			return grp.Name
		}
		return ""
	case keyFamily:
		return key.value
	default:
		return ""
	}
}

// groupPriority returns the rank of a pool. Only explicit groups can carry a
// priority; 0 means unranked.
func (s *seatingSnapshot) groupPriority(key groupKey) int {
	if key.kind == keyUngrouped {
		return 0
	}
	return s.priorityByGroupName[s.groupName(key)]
}
