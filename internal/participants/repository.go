package participants

import (
	"context"
	"sort"
	"strings"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/store"
)

// Repository handles participant persistence on the shared document.
type Repository struct {
	store *store.Store
}

// NewRepository creates a participants repository.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

// Save writes a participant.
func (r *Repository) Save(ctx context.Context, p *models.Participant) {
	r.store.Update(ctx, func(doc *store.Document) {
		doc.Participants[p.ID] = *p
	})
}

// GetByID returns a participant or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id string) *models.Participant {
	doc := r.store.Read(ctx)
	if p, ok := doc.Participants[id]; ok {
		return &p
	}
	return nil
}

// ListByPoll returns a poll's participants in join order.
func (r *Repository) ListByPoll(ctx context.Context, pollID string) []models.Participant {
	doc := r.store.Read(ctx)
	var list []models.Participant
	for _, p := range doc.Participants {
		if p.PollID == pollID {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// GetByName returns the poll's participant with the given name, matched
// case-insensitively, or nil. Joining twice as "Alice" and "alice"
// resolves to one participant.
func (r *Repository) GetByName(ctx context.Context, pollID, name string) *models.Participant {
	doc := r.store.Read(ctx)
	for _, p := range doc.Participants {
		if p.PollID == pollID && strings.EqualFold(p.Name, name) {
			return &p
		}
	}
	return nil
}
