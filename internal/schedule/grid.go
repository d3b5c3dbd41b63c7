package schedule

import (
	"fmt"

	"github.com/timesync/backend/internal/models"
)

// GridKeys returns the full ordered sequence of slot keys for a poll:
// one key per date for whole-day polls, (endHour-startHour)*(60/duration)
// keys per date otherwise, ordered by date then time-of-day ascending.
// An equal start and end hour yields an empty grid, not an error.
func GridKeys(p *models.Poll) ([]string, error) {
	if p.WholeDay() {
		return append([]string(nil), p.Dates...), nil
	}
	if p.SlotDuration <= 0 || 60%p.SlotDuration != 0 {
		return nil, fmt.Errorf("slot duration %d does not divide 60", p.SlotDuration)
	}
	if p.StartHour < 0 || p.EndHour > 24 || p.StartHour > p.EndHour {
		return nil, fmt.Errorf("invalid hour window %d-%d", p.StartHour, p.EndHour)
	}
	slotsPerHour := 60 / p.SlotDuration
	keys := make([]string, 0, len(p.Dates)*(p.EndHour-p.StartHour)*slotsPerHour)
	for _, dateKey := range p.Dates {
		for hour := p.StartHour; hour < p.EndHour; hour++ {
			for i := 0; i < slotsPerHour; i++ {
				keys = append(keys, SlotKey(dateKey, hour, i*p.SlotDuration))
			}
		}
	}
	return keys, nil
}
