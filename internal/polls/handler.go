package polls

import (
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/schedule"
	"github.com/timesync/backend/pkg/response"
)

// MaxInlineImageBytes bounds an inline data-URL hero image. Larger images
// go through the upload endpoint instead of the document blob.
const MaxInlineImageBytes = 256 * 1024

// CreateRequest is the body for POST /polls.
type CreateRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	HeroImage    string   `json:"heroImage"`
	CreatorName  string   `json:"creatorName" binding:"required"`
	Dates        []string `json:"dates" binding:"required,min=1"`
	SlotDuration int      `json:"timeSlotDuration"`
	StartHour    int      `json:"startHour"`
	EndHour      int      `json:"endHour"`
	Timezone     string   `json:"timezone"`
}

// UpdateRequest is the body for PATCH /polls/:id. Only provided fields
// change.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	HeroImage   *string `json:"heroImage"`
}

// Handler handles poll HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a polls handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /polls.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.CreatorName) == "" {
		response.BadRequest(c, "title and creatorName must not be blank")
		return
	}

	dates, err := normalizeDates(req.Dates)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	duration := req.SlotDuration
	if duration == 0 {
		duration = models.DayDuration
	}
	if duration < models.DayDuration {
		if duration != 30 && duration != 60 {
			response.BadRequest(c, "timeSlotDuration must be 30, 60, or 1440")
			return
		}
		if req.StartHour < 0 || req.EndHour > 24 || req.StartHour >= req.EndHour {
			response.BadRequest(c, "startHour must be before endHour within 0-24")
			return
		}
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		response.BadRequest(c, "unknown timezone "+tz)
		return
	}

	if msg, ok := validateHeroImage(req.HeroImage); !ok {
		response.BadRequest(c, msg)
		return
	}

	p := &models.Poll{
		ID:           models.NewID(),
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		HeroImage:    req.HeroImage,
		CreatorName:  strings.TrimSpace(req.CreatorName),
		Dates:        dates,
		SlotDuration: duration,
		StartHour:    req.StartHour,
		EndHour:      req.EndHour,
		Timezone:     tz,
		CreatedAt:    time.Now().UTC(),
	}
	h.repo.Save(c.Request.Context(), p)
	response.Created(c, p)
}

// List handles GET /polls (newest first).
func (h *Handler) List(c *gin.Context) {
	response.OK(c, h.repo.List(c.Request.Context()))
}

// GetByID handles GET /polls/:id, returning the poll and its full ordered
// slot-key grid.
func (h *Handler) GetByID(c *gin.Context) {
	p := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if p == nil {
		response.NotFound(c, "poll not found")
		return
	}
	grid, err := schedule.GridKeys(p)
	if err != nil {
		response.Internal(c, "failed to build slot grid")
		return
	}
	response.OK(c, gin.H{"poll": p, "gridKeys": grid})
}

// Update handles PATCH /polls/:id.
func (h *Handler) Update(c *gin.Context) {
	p := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if p == nil {
		response.NotFound(c, "poll not found")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			response.BadRequest(c, "title must not be blank")
			return
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.HeroImage != nil {
		if msg, ok := validateHeroImage(*req.HeroImage); !ok {
			response.BadRequest(c, msg)
			return
		}
		p.HeroImage = *req.HeroImage
	}
	h.repo.Save(c.Request.Context(), p)
	response.OK(c, p)
}

// Delete handles DELETE /polls/:id, cascading to participants and slots.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if h.repo.GetByID(c.Request.Context(), id) == nil {
		response.NotFound(c, "poll not found")
		return
	}
	h.repo.Delete(c.Request.Context(), id)
	response.NoContent(c)
}

// normalizeDates validates, dedupes, and sorts candidate date keys
// ascending, the form polls always store them in.
func normalizeDates(dates []string) ([]string, error) {
	seen := make(map[string]struct{}, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, err := schedule.ParseDateKey(d); err != nil {
			return nil, err
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

func validateHeroImage(v string) (string, bool) {
	if strings.HasPrefix(v, "data:") && len(v) > MaxInlineImageBytes {
		return "inline hero image exceeds 256KiB; upload it instead", false
	}
	return "", true
}
