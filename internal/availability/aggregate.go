// Package availability turns stored time slots into the aggregation map
// and the best-slot / best-range results a poll's heatmap is built from.
package availability

import (
	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/schedule"
)

// Aggregate groups a poll's time slots by slot key and resolves each to
// its participant. The result maps slot key to the participants available
// at that key, in slot-encounter order; keys nobody is available at are
// absent, never present with an empty list. Slots whose participant no
// longer resolves are dropped silently.
//
// Aggregation is a pure fold over the slot set: the order slots were saved
// in does not affect the key set or the per-key counts.
func Aggregate(poll *models.Poll, participants []models.Participant, slots []models.TimeSlot) map[string][]models.Participant {
	byID := make(map[string]models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	agg := make(map[string][]models.Participant)
	for _, slot := range slots {
		p, ok := byID[slot.ParticipantID]
		if !ok {
			continue // orphaned slot
		}
		key := slotKeyFor(poll, slot)
		agg[key] = append(agg[key], p)
	}
	return agg
}

// slotKeyFor derives the aggregation key for one stored slot. Whole-day
// polls store exact UTC midnights, so truncating to the UTC date is
// lossless there; sub-day slots are keyed by their wall-clock position in
// the poll's zone so every participant's submission lands on the same
// grid.
func slotKeyFor(poll *models.Poll, slot models.TimeSlot) string {
	if poll.WholeDay() {
		return schedule.FormatDateKey(slot.DateTime.UTC())
	}
	key, err := schedule.SlotKeyFromUTC(slot.DateTime, poll.Timezone)
	if err != nil {
		// Unresolvable zone: fall back to the UTC wall clock.
		local := slot.DateTime.UTC()
		return schedule.SlotKey(schedule.FormatDateKey(local), local.Hour(), local.Minute())
	}
	return key
}
