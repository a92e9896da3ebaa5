package service

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

// resolveOverflow repairs tables whose assignments exceed capacity, which
// happens when locked placements or a shrunk capacity predate the run.
// Non-locked occupants are moved, largest blocks first, to an overflow table
// with room. Locked occupants never move even if that leaves the table over
// capacity; verification reports what remains.
func (e *seatingEngine) resolveOverflow() {
	tables := make([]*models.SeatingTable, len(e.snap.tables))
	copy(tables, e.snap.tables)

	for _, t := range tables {
		if e.fatal != nil {
			return
		}
		if e.scope != nil && tableGroupKey(t) != *e.scope {
			continue
		}
		over := e.snap.occupiedSeats(t.ID) - t.Capacity
		if over <= 0 {
			continue
		}

		rows := make([]*models.SeatAssignment, len(e.snap.assignmentsByTable[t.ID]))
		copy(rows, e.snap.assignmentsByTable[t.ID])
		sort.SliceStable(rows, func(i, j int) bool {
			gi, gj := e.snap.guestsByID[rows[i].GuestID], e.snap.guestsByID[rows[j].GuestID]
			li := gi != nil && gi.LockedSeat
			lj := gj != nil && gj.LockedSeat
			if li != lj {
				return !li
			}
			if rows[i].Seats != rows[j].Seats {
				return rows[i].Seats > rows[j].Seats
			}
			return rows[i].GuestID < rows[j].GuestID
		})

		for _, a := range rows {
			if over <= 0 {
				break
			}
			g := e.snap.guestsByID[a.GuestID]
			if g == nil || g.LockedSeat {
				continue
			}
			dest := e.overflowDestination(g, a.Seats)
			if dest == nil {
				return
			}
			e.relocate(a, t, dest)
			over -= a.Seats
		}

		if over > 0 {
			e.logger.Warn("table remains over capacity, locked occupants hold the excess",
				zap.String("table_id", t.ID),
				zap.Int("excess", over))
		}
	}
}

// overflowDestination finds or creates a table the whole assignment fits on
// without violating an apart rule. Returns nil only on a fatal table-budget
// error.
func (e *seatingEngine) overflowDestination(g *models.Guest, seats int) *models.SeatingTable {
	for _, t := range e.spillTables {
		if e.snap.freeSeats(t) < seats {
			continue
		}
		if denial := e.canPlace(g, t); denial != nil && denial.Hard {
			continue
		}
		return t
	}

	capacity := e.snap.settings.SeatsPerTable
	if capacity < seats {
		capacity = seats
	}
	key := groupKey{kind: keyUngrouped}
	if e.scope != nil {
		key = *e.scope
	}
	table, err := e.createTable(key, capacity, models.TableMixed)
	if err != nil {
		e.fatal = err
		return nil
	}
	e.spillTables = append(e.spillTables, table)
	return table
}

// relocate repoints an assignment at its new table. Rows created this run
// are simply updated before insert; pre-existing rows record a move for the
// persistence phase.
func (e *seatingEngine) relocate(a *models.SeatAssignment, from, to *models.SeatingTable) {
	isNew := false
	for _, row := range e.inserted {
		if row == a {
			isNew = true
			break
		}
	}
	e.snap.moveAssignment(a, to.ID)
	if !isNew {
		e.moves = append(e.moves, assignmentMove{
			GuestID:     a.GuestID,
			FromTableID: from.ID,
			ToTableID:   to.ID,
		})
	}
}

// cleanupEmptyTables drops automatic tables the run left with no occupants.
// Tables created this run simply vanish from the delta; pre-existing ones
// are scheduled for deletion and count negative against the created tally.
func (e *seatingEngine) cleanupEmptyTables() {
	var kept []*models.SeatingTable
	deletedNew := make(map[string]bool)
	for _, t := range e.snap.tables {
		if t.Locked || t.Mode != models.TableModeAuto {
			kept = append(kept, t)
			continue
		}
		if e.scope != nil && tableGroupKey(t) != *e.scope {
			kept = append(kept, t)
			continue
		}
		if e.snap.occupiedSeats(t.ID) > 0 {
			kept = append(kept, t)
			continue
		}
		delete(e.snap.tablesByID, t.ID)
		if e.createdIDs[t.ID] {
			deletedNew[t.ID] = true
		} else {
			e.deleted = append(e.deleted, t.ID)
		}
	}
	e.snap.tables = kept

	if len(deletedNew) > 0 {
		var created []*models.SeatingTable
		for _, t := range e.created {
			if !deletedNew[t.ID] {
				created = append(created, t)
			}
		}
		e.created = created
	}
}

// verify audits the finished plan and assembles the delta. Conflicts report
// what placement could not satisfy: guests short of seats, apart pairs that
// ended up sharing a table, must-strength together pairs that did not, and
// tables still over capacity because of locked occupants. Only seat
// shortfalls and a fatal error flip the success flag.
func (e *seatingEngine) verify() *runDelta {
	delta := &runDelta{
		ClearedGuestIDs: e.cleared,
		NewTables:       e.created,
		NewAssignments:  e.inserted,
		Moves:           e.moves,
		DeletedTableIDs: e.deleted,
		Success:         e.fatal == nil,
	}
	for id, number := range e.renumbered {
		delta.NumberChanges = append(delta.NumberChanges, models.TableNumberChange{TableID: id, Number: number})
	}
	sort.Slice(delta.NumberChanges, func(i, j int) bool {
		return delta.NumberChanges[i].Number < delta.NumberChanges[j].Number
	})
	delta.TablesCreated = len(e.created) - len(e.deleted)
	delta.AssignmentsCreated = len(e.inserted)

	delta.GuestLists = make(map[string][]string, len(e.snap.tables))
	for _, t := range e.snap.tables {
		ids := make([]string, 0, len(e.snap.assignmentsByTable[t.ID]))
		seen := make(map[string]bool)
		for _, a := range e.snap.assignmentsByTable[t.ID] {
			if !seen[a.GuestID] {
				seen[a.GuestID] = true
				ids = append(ids, a.GuestID)
			}
		}
		sort.Strings(ids)
		delta.GuestLists[t.ID] = ids
	}

	for _, g := range e.snap.guests {
		if g.LockedSeat || !e.inScope(g) {
			continue
		}
		need := seatRequirement(g, e.snap.channel)
		if need <= 0 {
			continue
		}
		got := e.snap.guestSeats(g.ID)
		if got >= need {
			continue
		}
		delta.Success = false
		e.conflicts = append(e.conflicts, models.SeatingConflict{
			Type:            models.ConflictNoAvailableTable,
			GuestAID:        g.ID,
			GuestAName:      g.FullName,
			Message:         fmt.Sprintf("%s still needs %d of %d seats", g.FullName, need-got, need),
			SuggestedAction: "add a table or raise seats per table",
		})
	}

	for _, pref := range e.snap.apartPrefs {
		a := e.snap.guestsByID[pref.GuestAID]
		b := e.snap.guestsByID[pref.GuestBID]
		if a == nil || b == nil {
			continue
		}
		shared := e.sharedTable(a.ID, b.ID)
		if shared == "" {
			continue
		}
		table := e.snap.tablesByID[shared]
		name := shared
		if table != nil {
			name = table.Name
		}
		e.conflicts = append(e.conflicts, models.SeatingConflict{
			Type:            models.ConflictApartCannotSatisfy,
			GuestAID:        a.ID,
			GuestBID:        b.ID,
			GuestAName:      a.FullName,
			GuestBName:      b.FullName,
			TableID:         shared,
			Message:         fmt.Sprintf("%s and %s must stay apart but both sit at %s", a.FullName, b.FullName, name),
			SuggestedAction: "move one of them manually or relax the rule",
		})
	}

	for _, pref := range e.snap.togetherPrefs {
		if pref.Strength != models.StrengthMust {
			continue
		}
		a := e.snap.guestsByID[pref.GuestAID]
		b := e.snap.guestsByID[pref.GuestBID]
		if a == nil || b == nil {
			continue
		}
		if e.snap.guestSeats(a.ID) == 0 || e.snap.guestSeats(b.ID) == 0 {
			continue
		}
		if e.sharedTable(a.ID, b.ID) != "" {
			continue
		}
		e.conflicts = append(e.conflicts, models.SeatingConflict{
			Type:            models.ConflictTogetherCannotSatisfy,
			GuestAID:        a.ID,
			GuestBID:        b.ID,
			GuestAName:      a.FullName,
			GuestBName:      b.FullName,
			Message:         fmt.Sprintf("%s and %s must sit together but ended up at different tables", a.FullName, b.FullName),
			SuggestedAction: "seat them at the same table manually",
		})
	}

	for _, t := range e.snap.tables {
		over := e.snap.occupiedSeats(t.ID) - t.Capacity
		if over <= 0 {
			continue
		}
		conflict := models.SeatingConflict{
			Type:            models.ConflictNoAvailableTable,
			TableID:         t.ID,
			Message:         fmt.Sprintf("%s holds %d seats over capacity", t.Name, over),
			SuggestedAction: "unlock a guest at this table or raise its capacity",
		}
		if pinned := e.lockedOccupant(t.ID); pinned != nil {
			conflict.GuestAID = pinned.ID
			conflict.GuestAName = pinned.FullName
			conflict.Message = fmt.Sprintf("%s holds %d seats over capacity, %s's locked seat pins the excess", t.Name, over, pinned.FullName)
		}
		e.conflicts = append(e.conflicts, conflict)
	}

	delta.Conflicts = e.conflicts
	return delta
}

// lockedOccupant returns the first guest holding a locked seat at the table,
// or nil when only movable guests sit there.
func (e *seatingEngine) lockedOccupant(tableID string) *models.Guest {
	for _, a := range e.snap.assignmentsByTable[tableID] {
		g := e.snap.guestsByID[a.GuestID]
		if g != nil && g.LockedSeat {
			return g
		}
	}
	return nil
}

// sharedTable returns the id of a table both guests hold seats at, or "".
func (e *seatingEngine) sharedTable(guestA, guestB string) string {
	for _, a := range e.snap.assignmentsByGuest[guestA] {
		if e.snap.guestAt(guestB, a.TableID) {
			return a.TableID
		}
	}
	return ""
}
