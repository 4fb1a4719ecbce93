package main

import (
	"context"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jellytui/jellyfin-tui/internal/cache"
	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/jferrors"
)

// loginDeps bundles what authenticate needs beyond the parsed login file:
// the credentials cache and the client identity fields sent on every
// request.
type loginDeps struct {
	store      *cache.Store
	deviceID   string
	deviceName string
	log        *slog.Logger
}

// loginFile is the on-disk shape of the config's optional login_file: a
// small credentials file someone else placed there, read rather than
// collected through an interactive dialog.
type loginFile struct {
	ServerURL   string `yaml:"server_url"`
	UserID      string `yaml:"user_id,omitempty"`
	AccessToken string `yaml:"access_token,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

func loadLoginFile(path string) (loginFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loginFile{}, jferrors.New(jferrors.KindConfigParse, "reading login file", err)
	}
	var lf loginFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return loginFile{}, jferrors.New(jferrors.KindConfigParse, "parsing login file", err)
	}
	if lf.ServerURL == "" {
		return loginFile{}, jferrors.New(jferrors.KindConfigParse, "login file missing server_url", nil)
	}
	return lf, nil
}

// authenticate resolves an AuthClient one of three ways, cheapest first:
// a cached access token for (serverURL, userID), the login file's own
// access_token, or a username/password exchange against the server. A
// successful password exchange is persisted to store so later runs skip
// straight to the cache hit.
func authenticate(ctx context.Context, deps loginDeps, lf loginFile) (*jellyfin.AuthClient, error) {
	if lf.UserID != "" {
		if tok, err := deps.store.LoadCredentials(ctx, lf.ServerURL, lf.UserID); err == nil {
			return jellyfin.FromCredentials(lf.ServerURL, deps.deviceID, deps.deviceName, appName, appVersion,
				jellyfin.Credentials{UserID: lf.UserID, AccessToken: tok}, deps.log), nil
		}
	}

	if lf.UserID != "" && lf.AccessToken != "" {
		client := jellyfin.FromCredentials(lf.ServerURL, deps.deviceID, deps.deviceName, appName, appVersion,
			jellyfin.Credentials{UserID: lf.UserID, AccessToken: lf.AccessToken}, deps.log)
		_ = deps.store.SaveCredentials(ctx, lf.ServerURL, lf.UserID, lf.AccessToken)
		return client, nil
	}

	if lf.Username == "" || lf.Password == "" {
		return nil, jferrors.New(jferrors.KindConfigParse,
			"login file has neither a cached session nor username/password to authenticate with", nil)
	}

	unauth := jellyfin.NewUnauthenticated(lf.ServerURL, deps.deviceID, deps.deviceName, appName, appVersion, deps.log)
	client, err := unauth.Authenticate(ctx, lf.Username, lf.Password)
	if err != nil {
		return nil, err
	}
	creds := client.Credentials()
	_ = deps.store.SaveCredentials(ctx, lf.ServerURL, creds.UserID, creds.AccessToken)
	return client, nil
}
