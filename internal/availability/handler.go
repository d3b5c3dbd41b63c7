package availability

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/participants"
	"github.com/timesync/backend/internal/polls"
	"github.com/timesync/backend/internal/schedule"
	"github.com/timesync/backend/pkg/response"
)

// ReplaceSlotsRequest is the body for PUT /participants/:id/slots: the
// participant's complete selection as slot keys, plus the timezone the
// keys were picked in (falls back to the poll's zone).
type ReplaceSlotsRequest struct {
	SlotKeys []string `json:"slotKeys"`
	Timezone string   `json:"timezone"`
}

// Handler handles availability HTTP endpoints.
type Handler struct {
	repo            *Repository
	pollRepo        *polls.Repository
	participantRepo *participants.Repository
}

// NewHandler creates an availability handler.
func NewHandler(repo *Repository, pollRepo *polls.Repository, participantRepo *participants.Repository) *Handler {
	return &Handler{repo: repo, pollRepo: pollRepo, participantRepo: participantRepo}
}

// ReplaceSlots handles PUT /participants/:id/slots. The participant's
// entire slot set is replaced; saving the same selection twice is
// idempotent. An empty slotKeys list clears the selection.
func (h *Handler) ReplaceSlots(c *gin.Context) {
	participant := h.participantRepo.GetByID(c.Request.Context(), c.Param("id"))
	if participant == nil {
		response.NotFound(c, "participant not found")
		return
	}
	poll := h.pollRepo.GetByID(c.Request.Context(), participant.PollID)
	if poll == nil {
		response.NotFound(c, "poll not found")
		return
	}

	var req ReplaceSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	tz := req.Timezone
	if tz == "" {
		tz = poll.Timezone
	}

	instants, err := instantsFromKeys(poll, req.SlotKeys, tz)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	slots := h.repo.ReplaceForParticipant(c.Request.Context(), participant.ID, poll.ID, instants)
	response.OK(c, gin.H{
		"participantId": participant.ID,
		"saved":         len(slots),
		"slotKeys":      keysFromSlots(poll, slots, tz),
	})
}

// ListSlots handles GET /participants/:id/slots. Returns the keys of the
// participant's stored selection, resolved in the requested timezone for
// sub-day polls (?timezone=..., default the poll's zone).
func (h *Handler) ListSlots(c *gin.Context) {
	participant := h.participantRepo.GetByID(c.Request.Context(), c.Param("id"))
	if participant == nil {
		response.NotFound(c, "participant not found")
		return
	}
	poll := h.pollRepo.GetByID(c.Request.Context(), participant.PollID)
	if poll == nil {
		response.NotFound(c, "poll not found")
		return
	}
	tz := c.Query("timezone")
	if tz == "" {
		tz = poll.Timezone
	}
	slots := h.repo.ListByParticipant(c.Request.Context(), participant.ID)
	response.OK(c, gin.H{
		"participantId": participant.ID,
		"slotKeys":      keysFromSlots(poll, slots, tz),
	})
}

// GetAvailability handles GET /polls/:id/availability: the raw
// aggregation map from slot key to the participants available there.
func (h *Handler) GetAvailability(c *gin.Context) {
	poll := h.pollRepo.GetByID(c.Request.Context(), c.Param("id"))
	if poll == nil {
		response.NotFound(c, "poll not found")
		return
	}
	agg := h.aggregate(c, poll)
	response.OK(c, gin.H{"pollId": poll.ID, "availability": agg})
}

// slotSummary is one heatmap cell in the results payload.
type slotSummary struct {
	Count        int                  `json:"count"`
	Participants []models.Participant `json:"participants"`
}

// GetResults handles GET /polls/:id/results: the heatmap payload plus the
// best slots (sub-day) or merged best date ranges (whole-day).
func (h *Handler) GetResults(c *gin.Context) {
	poll := h.pollRepo.GetByID(c.Request.Context(), c.Param("id"))
	if poll == nil {
		response.NotFound(c, "poll not found")
		return
	}
	parts := h.participantRepo.ListByPoll(c.Request.Context(), poll.ID)
	agg := h.aggregate(c, poll)

	heatmap := make(map[string]slotSummary, len(agg))
	for key, available := range agg {
		heatmap[key] = slotSummary{Count: len(available), Participants: available}
	}

	result := gin.H{
		"pollId":            poll.ID,
		"totalParticipants": len(parts),
		"availability":      heatmap,
	}
	if poll.WholeDay() {
		ranges := BestDateRanges(agg)
		maxCount := 0
		if len(ranges) > 0 {
			maxCount = ranges[0].Count
		}
		result["maxCount"] = maxCount
		result["bestRanges"] = ranges
	} else {
		best, maxCount := BestSlotKeys(agg)
		result["maxCount"] = maxCount
		result["bestSlots"] = best
	}
	response.OK(c, result)
}

func (h *Handler) aggregate(c *gin.Context, poll *models.Poll) map[string][]models.Participant {
	parts := h.participantRepo.ListByPoll(c.Request.Context(), poll.ID)
	slots := h.repo.ListByPoll(c.Request.Context(), poll.ID)
	return Aggregate(poll, parts, slots)
}

// instantsFromKeys converts selected slot keys to the UTC instants stored
// on TimeSlots: midnight UTC of the date for whole-day polls, the
// DST-correct converted wall-clock instant otherwise.
func instantsFromKeys(poll *models.Poll, keys []string, tz string) ([]time.Time, error) {
	instants := make([]time.Time, 0, len(keys))
	for _, key := range keys {
		if poll.WholeDay() {
			day, err := schedule.ParseDateKey(key)
			if err != nil {
				return nil, err
			}
			instants = append(instants, day)
			continue
		}
		dateKey, hour, minute, err := schedule.ParseSlotKey(key)
		if err != nil {
			return nil, err
		}
		at, err := schedule.LocalToUTC(dateKey, hour, minute, tz)
		if err != nil {
			return nil, err
		}
		instants = append(instants, at)
	}
	return instants, nil
}

// keysFromSlots is the inverse of instantsFromKeys for display: stored
// instants back to slot keys in the given zone.
func keysFromSlots(poll *models.Poll, slots []models.TimeSlot, tz string) []string {
	keys := make([]string, 0, len(slots))
	for _, slot := range slots {
		if poll.WholeDay() {
			keys = append(keys, schedule.FormatDateKey(slot.DateTime.UTC()))
			continue
		}
		key, err := schedule.SlotKeyFromUTC(slot.DateTime, tz)
		if err != nil {
			local := slot.DateTime.UTC()
			key = schedule.SlotKey(schedule.FormatDateKey(local), local.Hour(), local.Minute())
		}
		keys = append(keys, key)
	}
	return keys
}
