package availability

import (
	"sort"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/schedule"
)

// SlotCount is one slot key with its availability.
type SlotCount struct {
	Key          string               `json:"key"`
	Count        int                  `json:"count"`
	Participants []models.Participant `json:"participants"`
}

// DateRange is a maximal run of calendar-consecutive best dates.
//
// Participants is taken from the range's first key as a representative:
// every key in the range shares the same count by construction, but not
// necessarily identical identities.
type DateRange struct {
	Start        string               `json:"start"`
	End          string               `json:"end"`
	Days         int                  `json:"days"`
	Count        int                  `json:"count"`
	Participants []models.Participant `json:"participants"`
}

// BestSlotKeys returns every slot key tied at the maximum availability
// count, sorted ascending by key, together with that maximum. An empty
// aggregate yields a nil list and max 0. Ties are all kept; there is no
// single-winner tie-break.
func BestSlotKeys(agg map[string][]models.Participant) ([]SlotCount, int) {
	maxCount := 0
	for _, parts := range agg {
		if len(parts) > maxCount {
			maxCount = len(parts)
		}
	}
	if maxCount == 0 {
		return nil, 0
	}
	var best []SlotCount
	for key, parts := range agg {
		if len(parts) == maxCount {
			best = append(best, SlotCount{Key: key, Count: maxCount, Participants: parts})
		}
	}
	// Lexicographic order is chronological for zero-padded keys.
	sort.Slice(best, func(i, j int) bool { return best[i].Key < best[j].Key })
	return best, maxCount
}

// BestDateRanges resolves a whole-day aggregate into maximal runs of
// calendar-consecutive dates sharing the maximum count, in ascending
// start-date order. Consecutiveness uses calendar-day arithmetic, so the
// merge is correct across DST transitions.
func BestDateRanges(agg map[string][]models.Participant) []DateRange {
	best, maxCount := BestSlotKeys(agg)
	if maxCount == 0 {
		return nil
	}

	var ranges []DateRange
	var runStart, runEnd string
	var runParts []models.Participant

	flush := func() {
		ranges = append(ranges, DateRange{
			Start:        runStart,
			End:          runEnd,
			Days:         daySpan(runStart, runEnd),
			Count:        maxCount,
			Participants: runParts,
		})
	}

	for _, slot := range best {
		if runStart == "" {
			runStart, runEnd, runParts = slot.Key, slot.Key, slot.Participants
			continue
		}
		if slot.Key == nextDateKey(runEnd) {
			runEnd = slot.Key
			continue
		}
		flush()
		runStart, runEnd, runParts = slot.Key, slot.Key, slot.Participants
	}
	if runStart != "" {
		flush()
	}
	return ranges
}

// nextDateKey returns the date key one calendar day after key, or "" when
// key does not parse (a non-date key can then never merge).
func nextDateKey(key string) string {
	day, err := schedule.ParseDateKey(key)
	if err != nil {
		return ""
	}
	return schedule.FormatDateKey(day.AddDate(0, 0, 1))
}

// daySpan is the inclusive day count between two date keys.
func daySpan(startKey, endKey string) int {
	start, err := schedule.ParseDateKey(startKey)
	if err != nil {
		return 1
	}
	end, err := schedule.ParseDateKey(endKey)
	if err != nil {
		return 1
	}
	d := end.Sub(start)
	if d < 0 {
		d = -d
	}
	return int(d.Hours()/24) + 1
}
