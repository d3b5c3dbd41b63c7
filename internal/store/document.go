package store

import "github.com/timesync/backend/internal/models"

// Document is the entire persisted state: three keyed collections
// serialized as one JSON blob. It is read in full and rewritten in full on
// every mutation; there are no per-entity writes and no isolation.
type Document struct {
	Polls        map[string]models.Poll        `json:"polls"`
	Participants map[string]models.Participant `json:"participants"`
	TimeSlots    map[string]models.TimeSlot    `json:"timeSlots"`
}

// NewDocument returns an empty document with all collections allocated.
func NewDocument() *Document {
	return &Document{
		Polls:        make(map[string]models.Poll),
		Participants: make(map[string]models.Participant),
		TimeSlots:    make(map[string]models.TimeSlot),
	}
}

// normalize allocates any collection a decoded blob left nil, so callers
// can index without nil checks.
func (d *Document) normalize() {
	if d.Polls == nil {
		d.Polls = make(map[string]models.Poll)
	}
	if d.Participants == nil {
		d.Participants = make(map[string]models.Participant)
	}
	if d.TimeSlots == nil {
		d.TimeSlots = make(map[string]models.TimeSlot)
	}
}
