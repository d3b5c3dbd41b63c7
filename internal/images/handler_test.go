package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/polls"
	"github.com/timesync/backend/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *polls.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	doc := store.New(store.NewMemory(), nil)
	pollRepo := polls.NewRepository(doc)
	h := NewHandler(pollRepo, nil, zap.NewNop())

	r := gin.New()
	r.POST("/polls/:id/hero-image", h.Upload)
	r.GET("/polls/:id/hero-image", h.Download)
	return r, pollRepo
}

func seedPoll(t *testing.T, repo *polls.Repository, heroImage string) *models.Poll {
	t.Helper()
	p := &models.Poll{
		ID:           models.NewID(),
		Title:        "Trip",
		CreatorName:  "Alice",
		HeroImage:    heroImage,
		Dates:        []string{"2025-06-01"},
		SlotDuration: models.DayDuration,
		Timezone:     "UTC",
		CreatedAt:    time.Now().UTC(),
	}
	repo.Save(context.Background(), p)
	return p
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDownload_RedirectsToExternalURL(t *testing.T) {
	r, repo := newTestRouter(t)
	p := seedPoll(t, repo, "https://images.example.com/banner.png")

	w := get(t, r, "/polls/"+p.ID+"/hero-image")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://images.example.com/banner.png" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestDownload_InlineDataURLInBody(t *testing.T) {
	r, repo := newTestRouter(t)
	inline := "data:image/png;base64,iVBORw0KGgo="
	p := seedPoll(t, repo, inline)

	w := get(t, r, "/polls/"+p.ID+"/hero-image")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var envelope struct {
		Data struct {
			HeroImage string `json:"heroImage"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.HeroImage != inline {
		t.Fatalf("unexpected body image %q", envelope.Data.HeroImage)
	}
}

func TestDownload_NoImage(t *testing.T) {
	r, repo := newTestRouter(t)
	p := seedPoll(t, repo, "")

	if w := get(t, r, "/polls/"+p.ID+"/hero-image"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDownload_UnknownPoll(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := get(t, r, "/polls/missing/hero-image"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpload_WithoutStorageConfigured(t *testing.T) {
	r, repo := newTestRouter(t)
	p := seedPoll(t, repo, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/polls/"+p.ID+"/hero-image", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with no storage, got %d", w.Code)
	}
}
