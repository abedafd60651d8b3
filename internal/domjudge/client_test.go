package domjudge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetchesContestTeamsAndGroups(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.RequestURI())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v4/contests/dj-6":
			_, _ = w.Write([]byte(`{"id":"dj-6","name":"Week 8","start_time":"2025-12-05T13:30:00+08:00","end_time":"2025-12-05T18:30:00+08:00","scoreboard_freeze_duration":"1:00:00"}`))
		case "/api/v4/contests/dj-6/teams":
			_, _ = w.Write([]byte(`[{"id":"7","name":"101: Team Rocket","hidden":false,"group_ids":["3"]}]`))
		case "/api/v4/contests/dj-6/groups":
			_, _ = w.Write([]byte(`[{"id":3,"name":"ABC University"}]`))
		default:
			http.NotFound(w, r)
		}
	})
	client := NewClient(Settings{BaseURL: srv.URL + "/api/v4/", ContestID: "dj-6"})
	ctx := context.Background()

	contest, err := client.Contest(ctx)
	if err != nil {
		t.Fatalf("contest: %v", err)
	}
	if contest.Name != "Week 8" || contest.ScoreboardFreezeDuration != "1:00:00" {
		t.Fatalf("unexpected contest %+v", contest)
	}
	teams, err := client.Teams(ctx)
	if err != nil {
		t.Fatalf("teams: %v", err)
	}
	if len(teams) != 1 || teams[0].GroupIDs[0].String() != "3" {
		t.Fatalf("unexpected teams %+v", teams)
	}
	groups, err := client.Groups(ctx)
	if err != nil {
		t.Fatalf("groups: %v", err)
	}
	if got := GroupNames(groups)["3"]; got != "ABC University" {
		t.Fatalf("group lookup = %q", got)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{
		"/api/v4/contests/dj-6",
		"/api/v4/contests/dj-6/teams?strict=false",
		"/api/v4/contests/dj-6/groups?strict=false",
	}
	if len(seen) != len(want) {
		t.Fatalf("requests = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestClientReportsStatusErrors(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "contest not found", http.StatusNotFound)
	})
	client := NewClient(Settings{BaseURL: srv.URL, ContestID: "missing"})
	_, err := client.Contest(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", statusErr.StatusCode)
	}
}

func TestClientRejectsOversizedBodies(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","name":"a very long team name"}]`))
	})
	client := NewClient(Settings{BaseURL: srv.URL, ContestID: "c", MaxBodyBytes: 8})
	if _, err := client.Teams(context.Background()); err == nil {
		t.Fatalf("expected size limit error")
	}
}

func TestClientRequiresSettings(t *testing.T) {
	client := NewClient(Settings{ContestID: "c"})
	if _, err := client.Contest(context.Background()); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL, got %v", err)
	}
	client = NewClient(Settings{BaseURL: "http://127.0.0.1:1"})
	if _, err := client.Groups(context.Background()); !errors.Is(err, ErrNoContestID) {
		t.Fatalf("expected ErrNoContestID, got %v", err)
	}
}

func TestStatusErrorBodyIsCutOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("é", 300)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, body, http.StatusBadGateway)
	})
	client := NewClient(Settings{BaseURL: srv.URL, ContestID: "c"})
	_, err := client.Contest(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !utf8.ValidString(statusErr.Body) {
		t.Fatalf("body snippet is not valid UTF-8: %q", statusErr.Body)
	}
	want := "x" + strings.Repeat("é", 199) + "..."
	if statusErr.Body != want {
		t.Fatalf("body = %q, want %q", statusErr.Body, want)
	}
}
