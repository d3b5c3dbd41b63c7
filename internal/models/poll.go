package models

import "time"

// DayDuration is the slot duration (in minutes) marking a whole-day poll:
// one slot per candidate date, no time-of-day grid.
const DayDuration = 1440

// Poll is a scheduling poll: a titled set of candidate dates that
// participants mark their availability against.
type Poll struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// HeroImage is either an object URL (S3 upload) or a bounded inline
	// data URL; advisory, never interpreted by the core.
	HeroImage   string `json:"heroImage,omitempty"`
	CreatorName string `json:"creatorName"`
	// Dates holds the candidate calendar dates as YYYY-MM-DD keys,
	// stored sorted ascending and duplicate-free.
	Dates []string `json:"dates"`
	// SlotDuration is minutes per slot: 30 or 60 for sub-day grids,
	// DayDuration for whole-day polls.
	SlotDuration int `json:"timeSlotDuration"`
	// StartHour/EndHour bound the time-of-day window (0-24) for sub-day
	// grids; unused in whole-day mode. Invariant: StartHour < EndHour.
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
	// Timezone is the creator's IANA zone at creation time, advisory only.
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
}

// WholeDay reports whether the poll schedules whole days rather than
// sub-day time slots.
func (p *Poll) WholeDay() bool {
	return p.SlotDuration >= DayDuration
}
