package polls

import (
	"context"
	"sort"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/store"
)

// Repository handles poll persistence on the shared document.
type Repository struct {
	store *store.Store
}

// NewRepository creates a polls repository.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

// Save writes a poll, replacing any stored version with the same id.
func (r *Repository) Save(ctx context.Context, p *models.Poll) {
	r.store.Update(ctx, func(doc *store.Document) {
		doc.Polls[p.ID] = *p
	})
}

// GetByID returns a poll or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id string) *models.Poll {
	doc := r.store.Read(ctx)
	if p, ok := doc.Polls[id]; ok {
		return &p
	}
	return nil
}

// List returns all polls, newest first.
func (r *Repository) List(ctx context.Context) []models.Poll {
	doc := r.store.Read(ctx)
	list := make([]models.Poll, 0, len(doc.Polls))
	for _, p := range doc.Polls {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Delete removes a poll and cascade-deletes its participants and their
// time slots in the same document rewrite, so no orphans survive.
func (r *Repository) Delete(ctx context.Context, id string) {
	r.store.Update(ctx, func(doc *store.Document) {
		delete(doc.Polls, id)
		for pid, p := range doc.Participants {
			if p.PollID == id {
				delete(doc.Participants, pid)
			}
		}
		for sid, s := range doc.TimeSlots {
			if s.PollID == id {
				delete(doc.TimeSlots, sid)
			}
		}
	})
}
