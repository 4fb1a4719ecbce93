package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jellytui/jellyfin-tui/internal/cache"
	"github.com/jellytui/jellyfin-tui/internal/spawn"
)

func openTestStore(t *testing.T) *cache.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite")
	pool, cancel := spawn.New(context.Background())
	t.Cleanup(cancel)
	s, err := cache.Open(context.Background(), pool.Spawner(), path, nil)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeLoginFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "login.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing login file: %v", err)
	}
	return path
}

func TestLoadLoginFile_RequiresServerURL(t *testing.T) {
	path := writeLoginFile(t, "username: bob\npassword: hunter2\n")
	if _, err := loadLoginFile(path); err == nil {
		t.Fatal("expected an error for a login file with no server_url")
	}
}

func TestLoadLoginFile_MissingFile(t *testing.T) {
	if _, err := loadLoginFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing login file")
	}
}

func TestAuthenticate_PrefersCachedToken(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.SaveCredentials(ctx, "https://js.example", "user-1", "cached-token"); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}

	client, err := authenticate(ctx, loginDeps{store: store, deviceID: "dev", deviceName: "test"},
		loginFile{ServerURL: "https://js.example", UserID: "user-1", AccessToken: "stale-file-token"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if client.Credentials().AccessToken != "cached-token" {
		t.Fatalf("expected the cached token to win over the login file's, got %q", client.Credentials().AccessToken)
	}
}

func TestAuthenticate_FallsBackToLoginFileToken(t *testing.T) {
	store := openTestStore(t)
	client, err := authenticate(context.Background(), loginDeps{store: store, deviceID: "dev", deviceName: "test"},
		loginFile{ServerURL: "https://js.example", UserID: "user-1", AccessToken: "file-token"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if client.Credentials().AccessToken != "file-token" {
		t.Fatalf("expected the login file's token, got %q", client.Credentials().AccessToken)
	}

	saved, err := store.LoadCredentials(context.Background(), "https://js.example", "user-1")
	if err != nil {
		t.Fatalf("expected the file token to have been persisted: %v", err)
	}
	if saved != "file-token" {
		t.Fatalf("unexpected persisted token: %q", saved)
	}
}

func TestAuthenticate_ExchangesUsernamePassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Users/AuthenticateByName" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"User":{"Id":"user-9"},"AccessToken":"fresh-token"}`))
	}))
	defer srv.Close()

	store := openTestStore(t)
	client, err := authenticate(context.Background(), loginDeps{store: store, deviceID: "dev", deviceName: "test"},
		loginFile{ServerURL: srv.URL, Username: "bob", Password: "hunter2"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if client.Credentials().UserID != "user-9" || client.Credentials().AccessToken != "fresh-token" {
		t.Fatalf("unexpected credentials: %+v", client.Credentials())
	}

	saved, err := store.LoadCredentials(context.Background(), srv.URL, "user-9")
	if err != nil || saved != "fresh-token" {
		t.Fatalf("expected the exchanged token to be persisted, got %q err %v", saved, err)
	}
}

func TestAuthenticate_NoCredentialsIsAnError(t *testing.T) {
	store := openTestStore(t)
	_, err := authenticate(context.Background(), loginDeps{store: store, deviceID: "dev", deviceName: "test"},
		loginFile{ServerURL: "https://js.example"})
	if err == nil {
		t.Fatal("expected an error when the login file has neither a token nor a username/password")
	}
}
