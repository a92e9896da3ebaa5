package service

import (
	"go.uber.org/zap"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

// childrenPass seats attending children at a shared kids table before any
// group is processed, when the feature is on and enough children attend.
// Adults of the same guest unit are seated later by the normal pass, so a
// family's seats split between its own table and the kids table.
func (e *seatingEngine) childrenPass() {
	if e.scope != nil || e.fatal != nil {
		return
	}
	if !e.snap.settings.ChildrenTableEnabled {
		return
	}

	total := 0
	for _, g := range e.snap.guests {
		if g.LockedSeat || seatRequirement(g, e.snap.channel) <= 0 {
			continue
		}
		total += g.ChildrenAttending
	}
	if total < e.snap.settings.ChildrenTableMinCount {
		return
	}

	kids := e.kidsTable(total)
	if kids == nil {
		return
	}

	room := e.snap.freeSeats(kids)
	for _, key := range e.sequenceGroups() {
		for _, g := range e.snap.guests {
			if room <= 0 {
				return
			}
			if g.LockedSeat || g.ChildrenAttending == 0 {
				continue
			}
			if guestGroupKey(g) != key {
				continue
			}
			need := e.remaining(g)
			if need <= 0 {
				continue
			}
			take := g.ChildrenAttending
			if need < take {
				take = need
			}
			if room < take {
				take = room
			}
			e.assign(g, kids, take)
			room -= take
		}
	}
}

// kidsTable returns an unlocked kids table, reusing the lowest-numbered one
// or creating a fresh one sized for every child plus a little slack.
func (e *seatingEngine) kidsTable(totalChildren int) *models.SeatingTable {
	for _, t := range e.snap.tables {
		if t.Type == models.TableKids && !t.Locked {
			return t
		}
	}

	capacity := totalChildren + 2
	if capacity < e.snap.settings.SeatsPerTable {
		capacity = e.snap.settings.SeatsPerTable
	}
	table, err := e.createTable(groupKey{kind: keyUngrouped}, capacity, models.TableKids)
	if err != nil {
		e.fatal = err
		return nil
	}
	table.Name = "שולחן ילדים"
	e.logger.Debug("children table allocated",
		zap.String("table_id", table.ID),
		zap.Int("children", totalChildren))
	return table
}
