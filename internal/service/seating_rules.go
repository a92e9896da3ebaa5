package service

import (
	"github.com/lironamy/wedding-us-sub001/internal/models"
)

// denialReason explains why the oracle refused a (guest, table) pair.
type denialReason string

const (
	denialAdultsInKidsTable denialReason = "adults_in_kids_table"
	denialSinglesAlone      denialReason = "singles_alone"
	denialApartConflict     denialReason = "apart_conflict"
)

// placementDenial is a rejected (guest, table) verdict. Hard denials are
// final for this pair; soft denials (the lonely-single heuristic) only steer
// the candidate ranking and are retried on other tables without ever being
// reported. Keeping the two apart is what keeps conflict reporting quiet.
type placementDenial struct {
	Reason          denialReason
	Hard            bool
	BlockingGuestID string
}

// canPlace is the constraint oracle: nil means the guest may take seats at
// the table.
func (e *seatingEngine) canPlace(g *models.Guest, t *models.SeatingTable) *placementDenial {
	if t.Type == models.TableKids && g.ChildrenAttending == 0 {
		return &placementDenial{Reason: denialAdultsInKidsTable, Hard: true}
	}

	if e.snap.settings.AvoidLonelySingles && classifyGuest(g) == models.RelationSingle {
		if e.coupleHeavy(t) {
			return &placementDenial{Reason: denialSinglesAlone}
		}
	}

	for _, pref := range e.snap.apartByGuest[g.ID] {
		other := pref.Other(g.ID)
		if e.snap.guestAt(other, t.ID) {
			return &placementDenial{Reason: denialApartConflict, Hard: true, BlockingGuestID: other}
		}
		if e.snap.settings.AdjacencyPolicy == models.PolicySameAndAdjacent && pref.Scope == models.ScopeSameAndAdjacent {
			for _, neighbour := range e.snap.tables {
				if e.snap.adjacent(t, neighbour) && e.snap.guestAt(other, neighbour.ID) {
					return &placementDenial{Reason: denialApartConflict, Hard: true, BlockingGuestID: other}
				}
			}
		}
	}

	return nil
}

// coupleHeavy applies the lonely-single heuristic's table test: mostly
// couples, hardly any singles, and no single seated yet.
func (e *seatingEngine) coupleHeavy(t *models.SeatingTable) bool {
	var occupants, couples, singles int
	for _, a := range e.snap.assignmentsByTable[t.ID] {
		occupant := e.snap.guestsByID[a.GuestID]
		if occupant == nil {
			continue
		}
		occupants++
		switch classifyGuest(occupant) {
		case models.RelationCouple:
			couples++
		case models.RelationSingle:
			singles++
		}
	}
	if occupants == 0 {
		return false
	}
	ratio := float64(couples) / float64(occupants)
	return ratio >= e.tuning.CoupleHeavyRatio && singles < e.tuning.CoupleHeavyMaxSingles
}

// Affinity weights for "together" scoring. A must-strength preference doubles
// the credit; adjacency credit is granted only when the preference's scope
// allows it.
const (
	sameTableAffinity     = 100
	adjacentTableAffinity = 50
)

// score computes the non-binding together-affinity of a (guest, table) pair.
// It is a tie-breaker only and never overrides a hard denial.
func (e *seatingEngine) score(g *models.Guest, t *models.SeatingTable) int {
	total := 0
	for _, pref := range e.snap.togetherByGuest[g.ID] {
		multiplier := 1
		if pref.Strength == models.StrengthMust {
			multiplier = 2
		}
		other := pref.Other(g.ID)
		if e.snap.guestAt(other, t.ID) {
			total += sameTableAffinity * multiplier
			continue
		}
		if pref.Scope != models.ScopeSameAndAdjacent {
			continue
		}
		for _, neighbour := range e.snap.tables {
			if e.snap.adjacent(t, neighbour) && e.snap.guestAt(other, neighbour.ID) {
				total += adjacentTableAffinity * multiplier
				break
			}
		}
	}
	return total
}

// zoneMatches applies the zone filter: only meaningful when zone placement is
// on and the guest states a specific preference; general tables always pass.
func (e *seatingEngine) zoneMatches(g *models.Guest, t *models.SeatingTable) bool {
	if !e.snap.settings.ZonePlacement {
		return true
	}
	if g.Zone == "" || g.Zone == models.ZoneAny {
		return true
	}
	if t.Zone == models.TableZoneGeneral || t.Zone == "" {
		return true
	}
	return string(t.Zone) == string(g.Zone)
}
