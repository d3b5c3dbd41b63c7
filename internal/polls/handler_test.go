package polls

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timesync/backend/internal/models"
	"github.com/timesync/backend/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Repository, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	doc := store.New(store.NewMemory(), nil)
	repo := NewRepository(doc)
	h := NewHandler(repo)

	r := gin.New()
	r.POST("/polls", h.Create)
	r.GET("/polls", h.List)
	r.GET("/polls/:id", h.GetByID)
	r.PATCH("/polls/:id", h.Update)
	r.DELETE("/polls/:id", h.Delete)
	return r, repo, doc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pollFrom(t *testing.T, w *httptest.ResponseRecorder) models.Poll {
	t.Helper()
	var envelope struct {
		Data models.Poll `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCreate_SortsAndDedupesDates(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/polls", CreateRequest{
		Title:       "Trip",
		CreatorName: "Alice",
		Dates:       []string{"2025-06-03", "2025-06-01", "2025-06-03", "2025-06-02"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	p := pollFrom(t, w)
	want := []string{"2025-06-01", "2025-06-02", "2025-06-03"}
	if len(p.Dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, p.Dates)
	}
	for i := range want {
		if p.Dates[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, p.Dates)
		}
	}
	if p.SlotDuration != models.DayDuration {
		t.Fatalf("expected whole-day default, got %d", p.SlotDuration)
	}
}

func TestCreate_Validation(t *testing.T) {
	r, _, _ := newTestRouter(t)
	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"blank title", CreateRequest{Title: "  ", CreatorName: "A", Dates: []string{"2025-06-01"}}},
		{"no dates", CreateRequest{Title: "T", CreatorName: "A"}},
		{"bad date", CreateRequest{Title: "T", CreatorName: "A", Dates: []string{"06/01/2025"}}},
		{"bad duration", CreateRequest{Title: "T", CreatorName: "A", Dates: []string{"2025-06-01"}, SlotDuration: 45, StartHour: 9, EndHour: 17}},
		{"start equals end", CreateRequest{Title: "T", CreatorName: "A", Dates: []string{"2025-06-01"}, SlotDuration: 60, StartHour: 9, EndHour: 9}},
		{"start after end", CreateRequest{Title: "T", CreatorName: "A", Dates: []string{"2025-06-01"}, SlotDuration: 30, StartHour: 17, EndHour: 9}},
		{"bad timezone", CreateRequest{Title: "T", CreatorName: "A", Dates: []string{"2025-06-01"}, Timezone: "Mars/Olympus"}},
	}
	for _, c := range cases {
		if w := doJSON(t, r, http.MethodPost, "/polls", c.req); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", c.name, w.Code, w.Body)
		}
	}
}

func TestCreate_SubDayPoll(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/polls", CreateRequest{
		Title:        "Standup time",
		CreatorName:  "Alice",
		Dates:        []string{"2025-06-02"},
		SlotDuration: 30,
		StartHour:    9,
		EndHour:      11,
		Timezone:     "Europe/Berlin",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	p := pollFrom(t, w)

	// GetByID returns the poll with its ordered grid keys.
	got := doJSON(t, r, http.MethodGet, "/polls/"+p.ID, nil)
	var envelope struct {
		Data struct {
			GridKeys []string `json:"gridKeys"`
		} `json:"data"`
	}
	if err := json.Unmarshal(got.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.GridKeys) != 4 {
		t.Fatalf("expected 4 grid keys, got %v", envelope.Data.GridKeys)
	}
	if envelope.Data.GridKeys[0] != "2025-06-02-09:00" {
		t.Fatalf("unexpected first key %q", envelope.Data.GridKeys[0])
	}
}

func TestCreate_OversizedInlineImage(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/polls", CreateRequest{
		Title:       "T",
		CreatorName: "A",
		Dates:       []string{"2025-06-01"},
		HeroImage:   "data:image/png;base64," + strings.Repeat("A", MaxInlineImageBytes),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if w := doJSON(t, r, http.MethodGet, "/polls/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestList_NewestFirst(t *testing.T) {
	r, repo, _ := newTestRouter(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		repo.Save(ctx, &models.Poll{
			ID:           models.NewID(),
			Title:        title,
			CreatorName:  "A",
			Dates:        []string{"2025-06-01"},
			SlotDuration: models.DayDuration,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}

	w := doJSON(t, r, http.MethodGet, "/polls", nil)
	var envelope struct {
		Data []models.Poll `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 3 || envelope.Data[0].Title != "newest" || envelope.Data[2].Title != "oldest" {
		t.Fatalf("expected newest first, got %v", envelope.Data)
	}
}

func TestUpdate_PatchesOnlyProvidedFields(t *testing.T) {
	r, repo, _ := newTestRouter(t)
	ctx := context.Background()
	p := &models.Poll{
		ID:           models.NewID(),
		Title:        "Before",
		Description:  "keep me",
		CreatorName:  "A",
		Dates:        []string{"2025-06-01"},
		SlotDuration: models.DayDuration,
		CreatedAt:    time.Now().UTC(),
	}
	repo.Save(ctx, p)

	title := "After"
	w := doJSON(t, r, http.MethodPatch, "/polls/"+p.ID, UpdateRequest{Title: &title})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	got := repo.GetByID(ctx, p.ID)
	if got.Title != "After" || got.Description != "keep me" {
		t.Fatalf("unexpected poll after patch: %+v", got)
	}
}

func TestDelete_CascadesToParticipantsAndSlots(t *testing.T) {
	r, repo, doc := newTestRouter(t)
	ctx := context.Background()
	p := &models.Poll{ID: "p1", Title: "T", CreatorName: "A", Dates: []string{"2025-06-01"}, SlotDuration: models.DayDuration, CreatedAt: time.Now().UTC()}
	repo.Save(ctx, p)
	doc.Update(ctx, func(d *store.Document) {
		d.Participants["a"] = models.Participant{ID: "a", PollID: "p1", Name: "Alice"}
		d.Participants["z"] = models.Participant{ID: "z", PollID: "other", Name: "Zoe"}
		d.TimeSlots["s1"] = models.TimeSlot{ID: "s1", ParticipantID: "a", PollID: "p1"}
		d.TimeSlots["s2"] = models.TimeSlot{ID: "s2", ParticipantID: "z", PollID: "other"}
	})

	if w := doJSON(t, r, http.MethodDelete, "/polls/p1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	after := doc.Read(ctx)
	if _, ok := after.Polls["p1"]; ok {
		t.Fatal("poll survived delete")
	}
	if _, ok := after.Participants["a"]; ok {
		t.Fatal("participant survived cascade")
	}
	if _, ok := after.TimeSlots["s1"]; ok {
		t.Fatal("slot survived cascade")
	}
	if _, ok := after.Participants["z"]; !ok {
		t.Fatal("cascade deleted another poll's participant")
	}
	if _, ok := after.TimeSlots["s2"]; !ok {
		t.Fatal("cascade deleted another poll's slot")
	}
}
