package nav

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/player"
	"github.com/jellytui/jellyfin-tui/internal/spawn"
)

// fakeRenderer records which Run* method fired and what screen it was
// handed, standing in for the terminal UI that this package only
// references through the Renderer interface.
type fakeRenderer struct {
	home     *HomeScreen
	userView *UserView
	details  *ItemDetails
	list     *ItemListDetails
	play     *Play
	next     Navigation
}

func (f *fakeRenderer) RunHome(ctx context.Context, s HomeScreen) Navigation {
	f.home = &s
	return f.next
}
func (f *fakeRenderer) RunUserView(ctx context.Context, s UserView) Navigation {
	f.userView = &s
	return f.next
}
func (f *fakeRenderer) RunItemDetails(ctx context.Context, s ItemDetails) Navigation {
	f.details = &s
	return f.next
}
func (f *fakeRenderer) RunItemListDetails(ctx context.Context, s ItemListDetails) Navigation {
	f.list = &s
	return f.next
}
func (f *fakeRenderer) RunPlay(ctx context.Context, s Play) Navigation {
	f.play = &s
	return f.next
}

// testClient spins up an httptest server and an AuthClient bound to it.
func testClient(t *testing.T, handler http.HandlerFunc) *jellyfin.AuthClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return jellyfin.FromCredentials(srv.URL, "dev-1", "test-device", "jellyfin-tui", "0.1.0",
		jellyfin.Credentials{UserID: "user-1", AccessToken: "tok"}, nil)
}

// testPlayerHandle returns a PlayerHandle backed by a real Controller
// whose media-engine start will fail in a test sandbox (no mpv binary) —
// harmless here since Send is a non-blocking write into a buffered
// channel and these tests only assert on the Navigation returned, not on
// anything actually reaching an engine.
func testPlayerHandle(t *testing.T) *player.PlayerHandle {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	pool, poolCancel := spawn.New(ctx)
	t.Cleanup(func() {
		poolCancel()
		cancel()
	})
	go pool.Run()
	_, handle, err := player.New(ctx, pool.Spawner(), player.Options{}, nil)
	if err != nil {
		t.Fatalf("player.New: %v", err)
	}
	return handle
}

func TestLoadHomeScreen_FetchesLibrariesResumeAndNextUp(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Users/user-1/Views":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"Items": []jellyfin.Library{{ID: "lib-1", Name: "Movies"}},
			})
		case "/Users/user-1/Items/Resume":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"Items": []jellyfin.MediaItem{{ID: "r1", Name: "Resume Item"}},
			})
		case "/Shows/NextUp":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"Items": []jellyfin.MediaItem{{ID: "n1", Name: "Next Up Item"}},
			})
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	})

	d := &Deps{Client: client}
	nav := LoadHomeScreen{}.run(context.Background(), d)

	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace, got %T", nav)
	}
	home, ok := replace.Next.(HomeScreen)
	if !ok {
		t.Fatalf("expected HomeScreen, got %T", replace.Next)
	}
	if len(home.Libraries) != 1 || home.Libraries[0].ID != "lib-1" {
		t.Fatalf("unexpected libraries: %+v", home.Libraries)
	}
	if len(home.Resume) != 1 || home.Resume[0].ID != "r1" {
		t.Fatalf("unexpected resume: %+v", home.Resume)
	}
	if len(home.NextUp) != 1 || home.NextUp[0].ID != "n1" {
		t.Fatalf("unexpected next-up: %+v", home.NextUp)
	}
}

func TestLoadHomeScreen_ResumeFailureDegradesToEmpty(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Users/user-1/Views":
			_ = json.NewEncoder(w).Encode(map[string]any{"Items": []jellyfin.Library{}})
		case "/Users/user-1/Items/Resume":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/Shows/NextUp":
			_ = json.NewEncoder(w).Encode(map[string]any{"Items": []jellyfin.MediaItem{}})
		}
	})

	d := &Deps{Client: client}
	nav := LoadHomeScreen{}.run(context.Background(), d)

	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace despite resume failure, got %T", nav)
	}
	home := replace.Next.(HomeScreen)
	if home.Resume != nil {
		t.Fatalf("expected nil resume after a failed fetch, got %+v", home.Resume)
	}
}

func TestLoadHomeScreen_LibraryFailureIsFatal(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})

	nav := LoadHomeScreen{}.run(context.Background(), &Deps{Client: client})
	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace, got %T", nav)
	}
	if _, ok := replace.Next.(ErrorScreen); !ok {
		t.Fatalf("expected ErrorScreen when the load-bearing library fetch fails, got %T", replace.Next)
	}
}

func TestHomeScreen_DelegatesToRenderer(t *testing.T) {
	r := &fakeRenderer{next: Pop{}}
	d := &Deps{Renderer: r}
	s := HomeScreen{Libraries: []jellyfin.Library{{ID: "l1"}}}

	nav := s.run(context.Background(), d)
	if r.home == nil || r.home.Libraries[0].ID != "l1" {
		t.Fatalf("expected renderer to receive the HomeScreen, got %+v", r.home)
	}
	if _, ok := nav.(Pop); !ok {
		t.Fatalf("expected the renderer's Navigation to pass through, got %T", nav)
	}
}

func TestLoadUserView_FetchesItems(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("parentId") != "view-1" {
			t.Fatalf("expected parentId=view-1, got %q", r.URL.Query().Get("parentId"))
		}
		_ = json.NewEncoder(w).Encode(jellyfin.ItemsPage{
			Items:            []jellyfin.MediaItem{{ID: "i1"}},
			TotalRecordCount: 1,
		})
	})

	nav := LoadUserView{ViewID: "view-1"}.run(context.Background(), &Deps{Client: client})
	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace, got %T", nav)
	}
	uv, ok := replace.Next.(UserView)
	if !ok {
		t.Fatalf("expected UserView, got %T", replace.Next)
	}
	if uv.ViewID != "view-1" || len(uv.Items.Items) != 1 {
		t.Fatalf("unexpected UserView: %+v", uv)
	}
}

func TestFetchItemListDetails_ErrorRoutesToErrorScreen(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	nav := FetchItemListDetails{ParentID: "p1"}.run(context.Background(), &Deps{Client: client})
	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace, got %T", nav)
	}
	if _, ok := replace.Next.(ErrorScreen); !ok {
		t.Fatalf("expected ErrorScreen on fetch failure, got %T", replace.Next)
	}
}

func TestLoadItemDetails_FetchesSingleItem(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "item-7" {
			t.Fatalf("expected ids=item-7, got %q", r.URL.Query().Get("ids"))
		}
		_ = json.NewEncoder(w).Encode(jellyfin.ItemsPage{
			Items: []jellyfin.MediaItem{{ID: "item-7", Name: "Episode 7"}},
		})
	})

	nav := LoadItemDetails{ItemID: "item-7"}.run(context.Background(), &Deps{Client: client})
	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace, got %T", nav)
	}
	details, ok := replace.Next.(ItemDetails)
	if !ok {
		t.Fatalf("expected ItemDetails, got %T", replace.Next)
	}
	if details.Item.ID != "item-7" {
		t.Fatalf("unexpected item: %+v", details.Item)
	}
}

func TestLoadPlay_EmptyResolvedPlaylistPops(t *testing.T) {
	handle := testPlayerHandle(t)
	nav := LoadPlay{Request: PlayRequest{Items: nil}}.run(context.Background(), &Deps{Player: handle})
	if _, ok := nav.(Pop); !ok {
		t.Fatalf("expected Pop when the resolved playlist is empty, got %T", nav)
	}
}

func TestLoadPlay_ClampsOutOfRangeStartIndex(t *testing.T) {
	handle := testPlayerHandle(t)
	items := []jellyfin.MediaItem{{ID: "a"}, {ID: "b"}}
	nav := LoadPlay{Request: PlayRequest{Items: items, StartIndex: 99}}.run(context.Background(), &Deps{Player: handle})

	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace, got %T", nav)
	}
	play, ok := replace.Next.(Play)
	if !ok {
		t.Fatalf("expected Play, got %T", replace.Next)
	}
	if play.StartIndex != 0 {
		t.Fatalf("expected out-of-range start index clamped to 0, got %d", play.StartIndex)
	}
}

func TestLoadPlay_ExpandsParentIDViaItems(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("parentId") != "season-1" {
			t.Fatalf("expected parentId=season-1, got %q", r.URL.Query().Get("parentId"))
		}
		_ = json.NewEncoder(w).Encode(jellyfin.ItemsPage{
			Items: []jellyfin.MediaItem{{ID: "e1"}, {ID: "e2"}},
		})
	})
	handle := testPlayerHandle(t)

	nav := LoadPlay{Request: PlayRequest{ParentID: "season-1", StartIndex: 1}}.run(context.Background(), &Deps{Client: client, Player: handle})
	replace, ok := nav.(Replace)
	if !ok {
		t.Fatalf("expected Replace, got %T", nav)
	}
	play := replace.Next.(Play)
	if len(play.Items) != 2 || play.StartIndex != 1 {
		t.Fatalf("unexpected Play: %+v", play)
	}
}

func TestPlay_DelegatesToRenderer(t *testing.T) {
	r := &fakeRenderer{next: Exit{}}
	s := Play{Items: []jellyfin.MediaItem{{ID: "a"}}, StartIndex: 0}
	nav := s.run(context.Background(), &Deps{Renderer: r})
	if r.play == nil || len(r.play.Items) != 1 {
		t.Fatalf("expected renderer to receive the Play screen, got %+v", r.play)
	}
	if _, ok := nav.(Exit); !ok {
		t.Fatalf("expected the renderer's Navigation to pass through, got %T", nav)
	}
}
