package availability

import (
	"context"
	"sort"
	"time"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/store"
)

// Repository handles time-slot persistence on the shared document.
type Repository struct {
	store *store.Store
}

// NewRepository creates a time-slot repository.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

// ReplaceForParticipant deletes every slot the participant owns and
// recreates one slot per distinct instant, in a single document rewrite.
// The selection is a set: a repeated instant in the input yields one stored
// slot, never two, so a participant can count at most once per slot key.
// Saving is a full-replacement operation keyed by participant id, so
// repeating the same save is idempotent.
func (r *Repository) ReplaceForParticipant(ctx context.Context, participantID, pollID string, instants []time.Time) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(instants))
	seen := make(map[int64]struct{}, len(instants))
	for _, at := range instants {
		at = at.UTC()
		if _, dup := seen[at.UnixNano()]; dup {
			continue
		}
		seen[at.UnixNano()] = struct{}{}
		slots = append(slots, models.TimeSlot{
			ID:            models.NewID(),
			ParticipantID: participantID,
			PollID:        pollID,
			DateTime:      at,
		})
	}
	r.store.Update(ctx, func(doc *store.Document) {
		for id, slot := range doc.TimeSlots {
			if slot.ParticipantID == participantID {
				delete(doc.TimeSlots, id)
			}
		}
		for _, slot := range slots {
			doc.TimeSlots[slot.ID] = slot
		}
	})
	return slots
}

// ListByPoll returns every slot belonging to a poll, ordered by instant.
func (r *Repository) ListByPoll(ctx context.Context, pollID string) []models.TimeSlot {
	return r.list(ctx, func(s models.TimeSlot) bool { return s.PollID == pollID })
}

// ListByParticipant returns a participant's slots ordered by instant, for
// reloading a previously saved selection.
func (r *Repository) ListByParticipant(ctx context.Context, participantID string) []models.TimeSlot {
	return r.list(ctx, func(s models.TimeSlot) bool { return s.ParticipantID == participantID })
}

func (r *Repository) list(ctx context.Context, keep func(models.TimeSlot) bool) []models.TimeSlot {
	doc := r.store.Read(ctx)
	var slots []models.TimeSlot
	for _, slot := range doc.TimeSlots {
		if keep(slot) {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].DateTime.Equal(slots[j].DateTime) {
			return slots[i].DateTime.Before(slots[j].DateTime)
		}
		return slots[i].ID < slots[j].ID
	})
	return slots
}
