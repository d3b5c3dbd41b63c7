package participants

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/polls"
	"github.com/timesync/backend/pkg/response"
)

// MaxPerPoll caps new joins per poll. Rejoins by an existing name are
// always allowed.
const MaxPerPoll = 10

// JoinRequest is the body for POST /polls/:id/participants.
type JoinRequest struct {
	Name string `json:"name" binding:"required"`
}

// Handler handles participant HTTP endpoints.
type Handler struct {
	repo     *Repository
	pollRepo *polls.Repository
}

// NewHandler creates a participants handler.
func NewHandler(repo *Repository, pollRepo *polls.Repository) *Handler {
	return &Handler{repo: repo, pollRepo: pollRepo}
}

// Join handles POST /polls/:id/participants. Submitting a name that
// already exists for the poll (case-insensitive) is a rejoin, not an
// error: the existing participant comes back with 200. A new name gets a
// palette color by join order and 201.
func (h *Handler) Join(c *gin.Context) {
	pollID := c.Param("id")
	poll := h.pollRepo.GetByID(c.Request.Context(), pollID)
	if poll == nil {
		response.NotFound(c, "poll not found")
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		response.BadRequest(c, "name must not be blank")
		return
	}

	if existing := h.repo.GetByName(c.Request.Context(), pollID, name); existing != nil {
		response.OK(c, existing)
		return
	}

	current := h.repo.ListByPoll(c.Request.Context(), pollID)
	if len(current) >= MaxPerPoll {
		response.Conflict(c, "poll is full")
		return
	}

	p := &models.Participant{
		ID:        models.NewID(),
		PollID:    pollID,
		Name:      name,
		Color:     models.ParticipantColor(len(current)),
		CreatedAt: time.Now().UTC(),
	}
	h.repo.Save(c.Request.Context(), p)
	response.Created(c, p)
}

// ListByPoll handles GET /polls/:id/participants, in join order.
func (h *Handler) ListByPoll(c *gin.Context) {
	pollID := c.Param("id")
	if h.pollRepo.GetByID(c.Request.Context(), pollID) == nil {
		response.NotFound(c, "poll not found")
		return
	}
	response.OK(c, h.repo.ListByPoll(c.Request.Context(), pollID))
}
