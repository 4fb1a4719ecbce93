package jellyfin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jellytui/jellyfin-tui/internal/jferrors"
)

func TestAuthenticate_ReturnsAuthClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Users/AuthenticateByName" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"User":        map[string]any{"Id": "user-1"},
			"AccessToken": "tok-abc",
		})
	}))
	defer srv.Close()

	c := NewUnauthenticated(srv.URL, "dev-1", "test-device", "jellyfin-tui", "0.1.0", nil)
	authed, err := c.Authenticate(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authed.Credentials().UserID != "user-1" || authed.Credentials().AccessToken != "tok-abc" {
		t.Fatalf("unexpected credentials: %+v", authed.Credentials())
	}
}

func TestItems_BuildsQueryAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("startIndex") != "10" {
			t.Fatalf("expected startIndex=10, got %q", r.URL.Query().Get("startIndex"))
		}
		_ = json.NewEncoder(w).Encode(ItemsPage{
			Items:            []MediaItem{{ID: "i1", Name: "Episode 1", Kind: KindEpisode}},
			TotalRecordCount: 1,
		})
	}))
	defer srv.Close()

	c := FromCredentials(srv.URL, "dev-1", "test-device", "jellyfin-tui", "0.1.0", Credentials{UserID: "u1", AccessToken: "t1"}, nil)
	page, err := c.Items(context.Background(), ItemQuery{ParentID: "parent-1", StartIndex: 10, Limit: 50})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "i1" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestDo_ServerErrorIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := FromCredentials(srv.URL, "dev-1", "test-device", "jellyfin-tui", "0.1.0", Credentials{UserID: "u1"}, nil)
	_, err := c.Libraries(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if jferrors.KindOf(err) != jferrors.KindServerSignaled {
		t.Fatalf("got kind %v, want KindServerSignaled", jferrors.KindOf(err))
	}
}

func TestPositionTicks(t *testing.T) {
	if got := PositionTicks(1.5); got != 15_000_000 {
		t.Fatalf("got %d, want 15000000", got)
	}
}

func TestPlaybackProgress_SendsPascalCaseBody(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
	}))
	defer srv.Close()

	c := FromCredentials(srv.URL, "dev-1", "test-device", "jellyfin-tui", "0.1.0", Credentials{UserID: "u1"}, nil)
	if err := c.PlaybackProgress(context.Background(), "item-1", 2.0, true); err != nil {
		t.Fatalf("PlaybackProgress: %v", err)
	}
	if received["ItemId"] != "item-1" {
		t.Fatalf("unexpected body: %+v", received)
	}
	if received["IsPaused"] != true {
		t.Fatalf("unexpected body: %+v", received)
	}
}
