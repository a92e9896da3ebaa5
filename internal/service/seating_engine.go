package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lironamy/wedding-us-sub001/internal/models"
	"github.com/lironamy/wedding-us-sub001/pkg/config"
	appErrors "github.com/lironamy/wedding-us-sub001/pkg/errors"
)

// assignmentMove records a persisted assignment row relocated by the
// overflow resolver.
type assignmentMove struct {
	GuestID     string
	FromTableID string
	ToTableID   string
}

// runDelta is everything one engine invocation wants persisted, plus the
// structured conflicts it could not seat around.
type runDelta struct {
	ClearedGuestIDs    []string
	NewTables          []*models.SeatingTable
	NewAssignments     []*models.SeatAssignment
	NumberChanges      []models.TableNumberChange
	Moves              []assignmentMove
	DeletedTableIDs    []string
	GuestLists         map[string][]string
	Conflicts          []models.SeatingConflict
	TablesCreated      int
	AssignmentsCreated int
	Success            bool
}

// seatingEngine executes one synchronous auto-seating computation against an
// exclusively owned snapshot. Nothing here touches storage; the service
// persists the resulting delta afterwards.
type seatingEngine struct {
	snap   *seatingSnapshot
	tuning config.SeatingConfig
	logger *zap.Logger

	// scope restricts a group_only run to a single pool; nil means the full
	// event.
	scope *groupKey

	processed map[string]bool
	cleared   []string

	created     []*models.SeatingTable
	createdIDs  map[string]bool
	inserted    []*models.SeatAssignment
	renumbered  map[string]int
	moves       []assignmentMove
	deleted     []string
	conflicts   []models.SeatingConflict
	fatal       error
	collator    *collate.Collator
	spillTables []*models.SeatingTable
}

func newSeatingEngine(snap *seatingSnapshot, tuning config.SeatingConfig, logger *zap.Logger, scope *groupKey) *seatingEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &seatingEngine{
		snap:       snap,
		tuning:     tuning,
		logger:     logger,
		scope:      scope,
		processed:  make(map[string]bool),
		createdIDs: make(map[string]bool),
		renumbered: make(map[string]int),
		collator:   collate.New(language.Hebrew),
	}
}

// run walks the whole pipeline: clear, children pre-pass, sequencing and
// renumbering, the cross-group together pre-pass, per-group placement,
// overflow resolution, cleanup, verification.
func (e *seatingEngine) run() *runDelta {
	e.clearUnlockedAssignments()
	e.childrenPass()

	order := e.sequenceGroups()
	e.renumberForPriorities(order)
	e.togetherPrePass()

	for _, key := range order {
		e.processGroup(key)
		if e.fatal != nil {
			break
		}
	}

	if e.fatal == nil {
		e.resolveOverflow()
	}
	e.cleanupEmptyTables()
	return e.verify()
}

// inScope reports whether a guest belongs to this run.
func (e *seatingEngine) inScope(g *models.Guest) bool {
	if e.scope == nil {
		return true
	}
	return guestGroupKey(g) == *e.scope
}

func (e *seatingEngine) remaining(g *models.Guest) int {
	return seatRequirement(g, e.snap.channel) - e.snap.guestSeats(g.ID)
}

// clearUnlockedAssignments drops prior automatic placements so the run
// starts from its stable pin points: locked guests keep everything, and
// locked tables are never cleared even for unlocked guests.
func (e *seatingEngine) clearUnlockedAssignments() {
	for _, g := range e.snap.guests {
		if g.LockedSeat || !e.inScope(g) {
			continue
		}
		rows := e.snap.assignmentsByGuest[g.ID]
		var keep []*models.SeatAssignment
		dropped := false
		for _, a := range rows {
			t := e.snap.tablesByID[a.TableID]
			if t != nil && t.Locked {
				keep = append(keep, a)
				continue
			}
			tableRows := e.snap.assignmentsByTable[a.TableID]
			for i, row := range tableRows {
				if row == a {
					e.snap.assignmentsByTable[a.TableID] = append(tableRows[:i], tableRows[i+1:]...)
					break
				}
			}
			dropped = true
		}
		if dropped {
			e.cleared = append(e.cleared, g.ID)
		}
		if keep == nil {
			delete(e.snap.assignmentsByGuest, g.ID)
		} else {
			e.snap.assignmentsByGuest[g.ID] = keep
		}
	}
}

// sequenceGroups orders the pools for processing: priority-ranked groups
// first (lowest number first), then unranked groups by locale-aware name,
// then the ungrouped pool last.
func (e *seatingEngine) sequenceGroups() []groupKey {
	if e.scope != nil {
		return []groupKey{*e.scope}
	}

	seen := make(map[groupKey]bool)
	var keys []groupKey
	for _, g := range e.snap.guests {
		if seatRequirement(g, e.snap.channel) <= 0 {
			continue
		}
		key := guestGroupKey(g)
		if key.kind == keyUngrouped || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}

	var ranked, unranked []groupKey
	for _, key := range keys {
		if e.snap.groupPriority(key) > 0 {
			ranked = append(ranked, key)
		} else {
			unranked = append(unranked, key)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := e.snap.groupPriority(ranked[i]), e.snap.groupPriority(ranked[j])
		if pi == pj {
			return e.collator.CompareString(e.snap.groupName(ranked[i]), e.snap.groupName(ranked[j])) < 0
		}
		return pi < pj
	})
	sort.SliceStable(unranked, func(i, j int) bool {
		ni, nj := e.snap.groupName(unranked[i]), e.snap.groupName(unranked[j])
		if ni == nj {
			return unranked[i].value < unranked[j].value
		}
		return e.collator.CompareString(ni, nj) < 0
	})

	ordered := append(ranked, unranked...)
	ordered = append(ordered, groupKey{kind: keyUngrouped})
	return ordered
}

// renumberForPriorities rewrites auto table numbers so they ascend in group
// processing order. Locked and manual tables keep their numbers and act as
// reserved slots. The two-phase shape (scratch namespace first, final values
// second) is what keeps the unique number invariant intact mid-rewrite.
func (e *seatingEngine) renumberForPriorities(order []groupKey) {
	if e.scope != nil || len(e.snap.priorityByGroupName) == 0 {
		return
	}

	reserved := make(map[int]bool)
	for _, t := range e.snap.tables {
		if t.Locked || t.Mode != models.TableModeAuto {
			reserved[t.Number] = true
		}
	}

	original := make(map[string]int)
	taken := make(map[string]bool)
	var moving []*models.SeatingTable
	appendMovable := func(t *models.SeatingTable) {
		if t.Locked || t.Mode != models.TableModeAuto || taken[t.ID] {
			return
		}
		taken[t.ID] = true
		original[t.ID] = t.Number
		moving = append(moving, t)
	}
	for _, key := range order {
		group := e.snap.tablesForKey(key)
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].ClusterIndex == group[j].ClusterIndex {
				return group[i].Number < group[j].Number
			}
			return group[i].ClusterIndex < group[j].ClusterIndex
		})
		for _, t := range group {
			appendMovable(t)
		}
	}
	for _, t := range e.snap.tables {
		appendMovable(t)
	}

	// Phase one: park every affected table on a scratch number.
	for i, t := range moving {
		t.Number = -(i + 1)
	}

	// Phase two: hand out final numbers, skipping reserved slots.
	next := 1
	for _, t := range moving {
		for reserved[next] {
			next++
		}
		t.Number = next
		reserved[next] = true
		if original[t.ID] != next {
			e.markRenumbered(t)
		}
		next++
	}

	e.snap.maxTableNumber = 0
	for _, t := range e.snap.tables {
		if t.Number > e.snap.maxTableNumber {
			e.snap.maxTableNumber = t.Number
		}
	}
	e.snap.sortTables()
}

func (e *seatingEngine) markRenumbered(t *models.SeatingTable) {
	if e.createdIDs[t.ID] {
		return
	}
	e.renumbered[t.ID] = t.Number
}

// togetherPrePass gives cross-group "together" pairs one early chance to
// land on a shared table in the ungrouped pool, before either guest is
// claimed by their own group's pass.
func (e *seatingEngine) togetherPrePass() {
	if e.scope != nil || e.fatal != nil {
		return
	}
	pool := groupKey{kind: keyUngrouped}
	for _, pref := range e.snap.togetherPrefs {
		a := e.snap.guestsByID[pref.GuestAID]
		b := e.snap.guestsByID[pref.GuestBID]
		if a == nil || b == nil || a.LockedSeat || b.LockedSeat {
			continue
		}
		if e.processed[a.ID] || e.processed[b.ID] {
			continue
		}
		ra, rb := e.remaining(a), e.remaining(b)
		if ra <= 0 || rb <= 0 {
			continue
		}
		e.placeGuest(a, pool, ra)
		e.processed[a.ID] = true
		if e.fatal != nil {
			return
		}
		e.placeGuest(b, pool, rb)
		e.processed[b.ID] = true
		if e.fatal != nil {
			return
		}
	}
}

// processGroup seats every pending guest of one pool.
func (e *seatingEngine) processGroup(key groupKey) {
	for _, g := range e.snap.guests {
		if e.fatal != nil {
			return
		}
		if g.LockedSeat || e.processed[g.ID] || !e.inScope(g) {
			continue
		}
		if guestGroupKey(g) != key {
			continue
		}
		need := e.remaining(g)
		e.processed[g.ID] = true
		if need <= 0 {
			continue
		}
		e.placeGuest(g, key, need)
	}
}

// placeGuest seats one guest's remaining requirement inside a pool, splitting
// across tables when no single table has room, and growing the pool with a
// fresh table when nothing fits.
func (e *seatingEngine) placeGuest(g *models.Guest, key groupKey, remaining int) {
	for remaining > 0 && e.fatal == nil {
		placed := false
		for _, t := range e.rankedCandidates(g, key) {
			free := e.snap.freeSeats(t)
			if free <= 0 {
				// stale candidate filled earlier in this same pass
				continue
			}
			take := free
			if remaining < take {
				take = remaining
			}
			e.assign(g, t, take)
			remaining -= take
			placed = true
			break
		}
		if placed {
			continue
		}
		if _, err := e.createTable(key, e.snap.settings.SeatsPerTable, models.TableMixed); err != nil {
			e.fatal = err
			return
		}
	}
}

// rankedCandidates filters the pool through the zone filter and the oracle,
// then ranks survivors: zone match first when zone placement is on, then
// ascending table number so earlier group tables fill first, then descending
// together-affinity.
func (e *seatingEngine) rankedCandidates(g *models.Guest, key groupKey) []*models.SeatingTable {
	var candidates []*models.SeatingTable
	for _, t := range e.snap.tablesForKey(key) {
		if t.Locked {
			continue
		}
		if e.snap.freeSeats(t) <= 0 {
			continue
		}
		if !e.zoneMatches(g, t) {
			continue
		}
		if denial := e.canPlace(g, t); denial != nil {
			continue
		}
		candidates = append(candidates, t)
	}

	zoneExact := func(t *models.SeatingTable) bool {
		return e.snap.settings.ZonePlacement && g.Zone != "" && g.Zone != models.ZoneAny && string(t.Zone) == string(g.Zone)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		zi, zj := zoneExact(candidates[i]), zoneExact(candidates[j])
		if zi != zj {
			return zi
		}
		if candidates[i].Number != candidates[j].Number {
			return candidates[i].Number < candidates[j].Number
		}
		return e.score(g, candidates[i]) > e.score(g, candidates[j])
	})
	return candidates
}

func (e *seatingEngine) assign(g *models.Guest, t *models.SeatingTable, seats int) {
	a := &models.SeatAssignment{
		ID:      uuid.NewString(),
		EventID: e.snap.event.ID,
		TableID: t.ID,
		GuestID: g.ID,
		Seats:   seats,
		Channel: e.snap.channel,
	}
	e.snap.addAssignment(a)
	e.inserted = append(e.inserted, a)
}

// createTable grows a pool with a fresh auto table, numbered immediately
// after the pool's highest table so a group's tables stay numerically
// adjacent. Colliding unlocked auto tables shift up one slot, cascading past
// locked and manual numbers which never move.
func (e *seatingEngine) createTable(key groupKey, capacity int, typ models.TableType) (*models.SeatingTable, error) {
	if len(e.created) >= e.tuning.MaxTablesPerRun {
		return nil, appErrors.Clone(appErrors.ErrTableBudget,
			fmt.Sprintf("seating run would create more than %d tables", e.tuning.MaxTablesPerRun))
	}

	var number int
	if group := e.snap.tablesForKey(key); len(group) > 0 {
		number = e.grantNumber(group[len(group)-1].Number + 1)
	} else {
		number = e.snap.maxTableNumber + 1
	}

	cluster := e.snap.clusterIndexByGroup[key] + 1
	e.snap.clusterIndexByGroup[key] = cluster

	table := &models.SeatingTable{
		ID:           uuid.NewString(),
		EventID:      e.snap.event.ID,
		Number:       number,
		Capacity:     capacity,
		Type:         typ,
		Mode:         models.TableModeAuto,
		ClusterIndex: cluster,
		Zone:         models.TableZoneGeneral,
	}
	switch key.kind {
	case keyGroup:
		id := key.value
		table.GroupID = &id
		table.Name = fmt.Sprintf("%s %d", e.snap.groupName(key), cluster)
	case keyFamily:
		table.FamilyLabel = key.value
		table.Name = fmt.Sprintf("%s %d", key.value, cluster)
	default:
		table.Name = fmt.Sprintf("שולחן %d", number)
	}

	e.snap.addTable(table)
	e.created = append(e.created, table)
	e.createdIDs[table.ID] = true
	e.logger.Debug("seating table created",
		zap.String("table_id", table.ID),
		zap.Int("number", number),
		zap.String("name", table.Name))
	return table, nil
}

// grantNumber frees up the requested slot, skipping numbers pinned by locked
// or manual tables and shifting movable colliders up recursively.
func (e *seatingEngine) grantNumber(number int) int {
	for e.pinnedNumber(number) {
		number++
	}
	e.shiftFrom(number)
	return number
}

func (e *seatingEngine) pinnedNumber(number int) bool {
	for _, t := range e.snap.tables {
		if t.Number == number && (t.Locked || t.Mode != models.TableModeAuto) {
			return true
		}
	}
	return false
}

func (e *seatingEngine) movableTableAt(number int) *models.SeatingTable {
	for _, t := range e.snap.tables {
		if t.Number == number && !t.Locked && t.Mode == models.TableModeAuto {
			return t
		}
	}
	return nil
}

func (e *seatingEngine) shiftFrom(number int) {
	occupant := e.movableTableAt(number)
	if occupant == nil {
		return
	}
	target := number + 1
	for e.pinnedNumber(target) {
		target++
	}
	e.shiftFrom(target)
	occupant.Number = target
	e.markRenumbered(occupant)
	if target > e.snap.maxTableNumber {
		e.snap.maxTableNumber = target
	}
	e.snap.sortTables()
}
