package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/habitdeck/habitdeck/internal/client"
	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/session"
	"github.com/habitdeck/habitdeck/internal/timeline"
)

// fakeService is an in-memory habit backend speaking the same wire format
// as the real one. Score is the number of active days on record.
type fakeService struct {
	mu         sync.Mutex
	habits     map[string]models.Habit
	activities map[string][]models.Activity // habitID -> ascending by day
	nextID     int
}

func newFakeService() *fakeService {
	return &fakeService{
		habits:     make(map[string]models.Habit),
		activities: make(map[string][]models.Activity),
	}
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /my/habits", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var out []models.Habit
		for _, h := range f.habits {
			if !h.Archived {
				out = append(out, h)
			}
		}
		// deliberately not name-sorted; clients re-sort
		sort.Slice(out, func(i, j int) bool { return out[i].Id > out[j].Id })
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("GET /shared/habits", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Habit{})
	})

	mux.HandleFunc("GET /habit/{id}/activities", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		after := r.URL.Query().Get("after")
		var out []models.Activity
		for _, a := range f.activities[r.PathValue("id")] {
			if after == "" || a.Logged > after {
				out = append(out, a)
			}
		}
		json.NewEncoder(w).Encode(client.ActivityPage{Activities: out})
	})

	mux.HandleFunc("GET /habit/{id}/score", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		score := 0
		for _, a := range f.activities[r.PathValue("id")] {
			if a.Status.Active() {
				score++
			}
		}
		fmt.Fprintf(w, "%d", score)
	})

	mux.HandleFunc("POST /habit/{id}/activities", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		habitID := r.PathValue("id")
		var body struct {
			Logged string
			Status models.Status
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.nextID++
		id := fmt.Sprintf("act-%d", f.nextID)
		list := f.activities[habitID]
		replaced := false
		for i, a := range list {
			if a.Logged == body.Logged {
				list[i].Status = body.Status
				id = a.Id
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, models.Activity{Id: id, HabitId: habitID, Logged: body.Logged, Status: body.Status})
			sort.Slice(list, func(i, j int) bool { return list[i].Logged < list[j].Logged })
		}
		f.activities[habitID] = list
		fmt.Fprint(w, id)
	})

	mux.HandleFunc("POST /my/habits", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var h models.Habit
		if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.nextID++
		h.Id = fmt.Sprintf("habit-%d", f.nextID)
		f.habits[h.Id] = h
		fmt.Fprint(w, h.Id)
	})

	mux.HandleFunc("DELETE /habit/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		h, ok := f.habits[r.PathValue("id")]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.Archived = true
		f.habits[h.Id] = h
	})

	return mux
}

// The full client workflow against a live (fake) server: create habits,
// load the session, toggle a couple of days, confirm the writes, and check
// that the weekly count and score land where the server says they should.
func TestClientWorkflow(t *testing.T) {
	svc := newFakeService()
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	api := client.NewHTTPClient(server.URL, "test-token")
	ctx := context.Background()
	today := "2025-03-12" // a Wednesday

	exerciseID, err := api.CreateHabit(ctx, "exercise", 3)
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	if _, err := api.CreateHabit(ctx, "reading", 5); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	habits, err := api.MyHabits(ctx)
	if err != nil {
		t.Fatalf("MyHabits: %v", err)
	}

	list := session.NewHabitList()
	list.Load(habits)
	if got := list.Habits(); got[0].Name != "exercise" || got[1].Name != "reading" {
		t.Fatalf("habit order = %q, %q; want exercise, reading", got[0].Name, got[1].Name)
	}

	i := list.IndexOf(exerciseID)
	if i < 0 {
		t.Fatalf("exercise habit missing from list")
	}
	card, err := session.NewCard(list.Habits()[i], session.Options{Today: today})
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}

	q, err := card.FetchQuery()
	if err != nil {
		t.Fatalf("FetchQuery: %v", err)
	}
	page, err := api.Activities(ctx, exerciseID, q)
	if err != nil {
		t.Fatalf("Activities: %v", err)
	}
	if err := card.Load(page); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Toggle Monday and today, pushing each write through the service and
	// confirming it like the UI event loop does.
	for _, day := range []string{"2025-03-10", today} {
		w, err := card.Toggle(day)
		if err != nil {
			t.Fatalf("Toggle(%s): %v", day, err)
		}
		id, err := api.LogActivity(ctx, w.HabitID, w.Day, w.Status)
		if err != nil {
			t.Fatalf("LogActivity(%s): %v", day, err)
		}
		if !card.ConfirmWrite(w, id) {
			t.Fatalf("ConfirmWrite(%s) rejected", day)
		}
		score, err := api.Score(ctx, exerciseID)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if !card.ApplyScore(w.Seq, score) {
			t.Fatalf("ApplyScore(%d) dropped", w.Seq)
		}
	}

	if card.WeekCount() != 2 {
		t.Errorf("WeekCount = %d, want 2", card.WeekCount())
	}
	if card.Score() != 2 {
		t.Errorf("Score = %d, want 2", card.Score())
	}

	// A fresh load must agree with the incrementally maintained state.
	page, err = api.Activities(ctx, exerciseID, q)
	if err != nil {
		t.Fatalf("Activities reload: %v", err)
	}
	fresh, err := session.NewCard(list.Habits()[i], session.Options{Today: today})
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}
	if err := fresh.Load(page); err != nil {
		t.Fatalf("Load reload: %v", err)
	}
	if fresh.WeekCount() != card.WeekCount() {
		t.Errorf("reloaded WeekCount = %d, incremental = %d", fresh.WeekCount(), card.WeekCount())
	}
	for _, a := range fresh.Activities() {
		if a.Local() {
			t.Errorf("server returned a local id for %s", a.Logged)
		}
	}

	window, err := fresh.Window()
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	var glyphs []string
	for _, ds := range window {
		glyphs = append(glyphs, string(ds.Status))
	}
	joined := strings.Join(glyphs, ",")
	if !strings.Contains(joined, string(models.StatusSuccess)) {
		t.Errorf("window shows no successes: %s", joined)
	}

	// Archive drops the habit from the next listing.
	if err := api.ArchiveHabit(ctx, exerciseID); err != nil {
		t.Fatalf("ArchiveHabit: %v", err)
	}
	habits, err = api.MyHabits(ctx)
	if err != nil {
		t.Fatalf("MyHabits after archive: %v", err)
	}
	if list.Refresh(habits); list.IndexOf(exerciseID) != -1 {
		t.Errorf("archived habit still listed")
	}
}

// A failed write keeps the optimistic state and is re-sent on retry.
func TestWriteRetryWorkflow(t *testing.T) {
	svc := newFakeService()
	server := httptest.NewServer(svc.handler())

	api := client.NewHTTPClient(server.URL, "test-token")
	ctx := context.Background()
	today := "2025-03-12"

	if _, err := api.CreateHabit(ctx, "meditate", 7); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	habits, err := api.MyHabits(ctx)
	if err != nil {
		t.Fatalf("MyHabits: %v", err)
	}

	card, err := session.NewCard(habits[0], session.Options{Today: today, Anchor: timeline.AnchorToday})
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}
	if err := card.Load(client.ActivityPage{}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Take the server down, toggle, and watch the write fail.
	server.Close()
	w, err := card.Toggle(today)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if _, err := api.LogActivity(ctx, w.HabitID, w.Day, w.Status); err == nil {
		t.Fatalf("LogActivity succeeded against a closed server")
	} else {
		card.WriteFailed(w, err)
	}

	if card.StatusOn(today) != models.StatusSuccess {
		t.Errorf("optimistic state lost after failure")
	}
	if len(card.Pending()) != 1 {
		t.Fatalf("Pending = %d, want 1", len(card.Pending()))
	}
	if card.LastWriteError() == nil {
		t.Errorf("LastWriteError = nil after failure")
	}

	// Bring a server back up at the same state and retry.
	server2 := httptest.NewServer(svc.handler())
	defer server2.Close()
	api2 := client.NewHTTPClient(server2.URL, "test-token")

	for _, rw := range card.RetryFailed() {
		id, err := api2.LogActivity(ctx, rw.HabitID, rw.Day, rw.Status)
		if err != nil {
			t.Fatalf("retry LogActivity: %v", err)
		}
		if !card.ConfirmWrite(rw, id) {
			t.Fatalf("retry ConfirmWrite rejected")
		}
	}
	if len(card.Pending()) != 0 {
		t.Errorf("Pending = %d after retry, want 0", len(card.Pending()))
	}
	if card.LastWriteError() != nil {
		t.Errorf("LastWriteError = %v after retry, want nil", card.LastWriteError())
	}
}
