package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/habitdeck/habitdeck/internal/models"
)

func TestMyHabits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/my/habits" {
			t.Errorf("path = %s, want /my/habits", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		json.NewEncoder(w).Encode([]models.Habit{
			{Id: "1", Owner: "self", Name: "beta", Frequency: 3},
			{Id: "2", Owner: "self", Name: "alpha", Frequency: 5},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok")
	habits, err := c.MyHabits(context.Background())
	if err != nil {
		t.Fatalf("MyHabits failed: %v", err)
	}
	// server order is preserved; sorting is the session's job
	if len(habits) != 2 || habits[0].Name != "beta" {
		t.Errorf("habits = %+v", habits)
	}
}

func TestActivities_QueryAndContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/habit/h1/activities" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("after") != "2025-03-08" || q.Get("limit") != "9" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(ActivityPage{
			Activities: []models.Activity{
				{Id: "a1", HabitId: "h1", Logged: "2025-03-10", Status: models.StatusSuccess},
				{Id: "a2", HabitId: "h1", Logged: "2025-03-12", Status: models.StatusMinimum},
			},
			HasMore: true,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	page, err := c.Activities(context.Background(), "h1", ActivityQuery{After: "2025-03-08", Limit: 9})
	if err != nil {
		t.Fatalf("Activities failed: %v", err)
	}
	if len(page.Activities) != 2 || !page.HasMore {
		t.Errorf("page = %+v", page)
	}
}

func TestActivities_RejectsUnsortedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ActivityPage{
			Activities: []models.Activity{
				{Id: "a2", HabitId: "h1", Logged: "2025-03-12", Status: models.StatusSuccess},
				{Id: "a1", HabitId: "h1", Logged: "2025-03-10", Status: models.StatusSuccess},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.Activities(context.Background(), "h1", ActivityQuery{})
	if !errors.Is(err, models.ErrUnorderedActivities) {
		t.Errorf("Activities error = %v, want ErrUnorderedActivities", err)
	}
}

func TestActivities_RejectsUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Activities":[{"Id":"a1","HabitId":"h1","Logged":"2025-03-10","Status":"PARTIAL"}],"HasMore":false}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if _, err := c.Activities(context.Background(), "h1", ActivityQuery{}); err == nil {
		t.Error("Activities accepted an unknown status")
	}
}

func TestScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/habit/h1/score" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, "42\n")
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	score, err := c.Score(context.Background(), "h1")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 42 {
		t.Errorf("Score = %d, want 42", score)
	}
}

func TestLogActivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/habit/h1/activities" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("write missing request id")
		}
		var body struct {
			Logged string
			Status models.Status
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body.Logged != "2025-03-12" || body.Status != models.StatusSuccess {
			t.Errorf("body = %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, "act-77")
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	id, err := c.LogActivity(context.Background(), "h1", "2025-03-12", models.StatusSuccess)
	if err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}
	if id != "act-77" {
		t.Errorf("id = %q, want act-77", id)
	}
}

func TestLogActivity_ValidatesBeforeSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if _, err := c.LogActivity(context.Background(), "h1", "13/03/2025", models.StatusSuccess); err == nil {
		t.Error("accepted malformed day")
	}
	if _, err := c.LogActivity(context.Background(), "h1", "2025-03-12", "PARTIAL"); err == nil {
		t.Error("accepted unknown status")
	}
	if called {
		t.Error("invalid input reached the server")
	}
}

func TestCreateHabit_FrequencyValidation(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		fmt.Fprint(w, "h-new")
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	for _, freq := range []int{0, 8, -1} {
		if _, err := c.CreateHabit(context.Background(), "habit", freq); !errors.Is(err, models.ErrFrequencyRange) {
			t.Errorf("CreateHabit(freq=%d) error = %v, want ErrFrequencyRange", freq, err)
		}
	}
	if called {
		t.Error("invalid frequency reached the server")
	}

	id, err := c.CreateHabit(context.Background(), "habit", 7)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if id != "h-new" {
		t.Errorf("id = %q, want h-new", id)
	}
}

func TestShareAndUnshare(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if err := c.ShareHabit(context.Background(), "h1", "friend@example.com"); err != nil {
		t.Fatalf("ShareHabit failed: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/user/friend@example.com/habit/h1" {
		t.Errorf("share request = %s %s", gotMethod, gotPath)
	}

	if err := c.UnshareHabit(context.Background(), "h1", "friend@example.com"); err != nil {
		t.Fatalf("UnshareHabit failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("unshare method = %s, want DELETE", gotMethod)
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusConflict, ErrConflict},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusForbidden, ErrDenied},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.code)
		}))
		c := NewHTTPClient(srv.URL, "")
		_, err := c.Score(context.Background(), "h1")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d error = %v, want %v", tt.code, err, tt.want)
		}
		srv.Close()
	}
}

func TestTransportFailureWrapsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewHTTPClient(srv.URL, "")
	_, err := c.MyHabits(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
