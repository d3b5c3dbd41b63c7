package models

import "time"

// Participant is someone who joined a poll by name. Names are unique per
// poll case-insensitively; joining with an existing name resolves to the
// existing participant instead of creating a second one.
type Participant struct {
	ID     string `json:"id"`
	PollID string `json:"pollId"`
	Name   string `json:"name"`
	// Color is assigned from the palette by join order and never changes.
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// TimeSlot is one schedulable unit a participant marked as available.
// A participant's full slot set is deleted and recreated on every save;
// slots are never edited individually.
type TimeSlot struct {
	ID            string `json:"id"`
	ParticipantID string `json:"participantId"`
	// PollID is denormalized from the participant for query convenience.
	PollID string `json:"pollId"`
	// DateTime is the UTC instant of the slot: the exact slot start for
	// sub-day polls, midnight UTC of the chosen day for whole-day polls.
	DateTime time.Time `json:"dateTime"`
}

// palette cycles by join order when a poll has more participants than colors.
var palette = []string{
	"#3B82F6", // blue
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#F97316", // orange
	"#14B8A6", // teal
	"#EAB308", // yellow
	"#EF4444", // red
	"#22C55E", // green
	"#6366F1", // indigo
	"#06B6D4", // cyan
}

// ParticipantColor returns the palette color for the nth participant to
// join a poll (zero-based).
func ParticipantColor(joinIndex int) string {
	if joinIndex < 0 {
		joinIndex = 0
	}
	return palette[joinIndex%len(palette)]
}
