// Package jellyfin is a typed HTTP+WebSocket client for a Jellyfin media
// server. Auth state is encoded in the client's static type: an
// UnauthClient exposes only Authenticate, while an AuthClient (reachable
// only by calling Authenticate or FromCredentials) exposes the library,
// item, image, and session builders. This is the Go realization of the
// original's auth-state marker type (see DESIGN.md) — Go cannot
// specialize a method to one instantiation of a generic receiver, so the
// phantom-type-parameter approach doesn't compile; two structs sharing an
// embedded core give the same "can't call authenticated methods before
// logging in" guarantee at compile time.
package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jellytui/jellyfin-tui/internal/jferrors"
)

// Credentials is what Authenticate returns and what a client persists to
// skip the login round trip on the next run.
type Credentials struct {
	UserID      string
	AccessToken string
}

// core holds everything both auth states need: the HTTP transport and
// client identity sent on every request.
type core struct {
	baseURL    string
	httpClient *http.Client
	deviceID   string
	deviceName string
	appName    string
	appVersion string
	log        *slog.Logger
}

// UnauthClient is bound to a server but has not logged in yet.
type UnauthClient struct {
	*core
}

// AuthClient is bound to a server and logged-in credentials.
type AuthClient struct {
	*core
	creds Credentials
}

// NewUnauthenticated constructs a client bound to baseURL, ready to
// authenticate. deviceID should be stable across restarts (see
// config.DeviceID).
func NewUnauthenticated(baseURL, deviceID, deviceName, appName, appVersion string, log *slog.Logger) *UnauthClient {
	if log == nil {
		log = slog.Default()
	}
	return &UnauthClient{core: &core{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		deviceID:   deviceID,
		deviceName: deviceName,
		appName:    appName,
		appVersion: appVersion,
		log:        log,
	}}
}

// authHeader builds the "X-Emby-Authorization" header value carrying
// client identity and, when present, the access token.
func (c *core) authHeader(token string) string {
	h := fmt.Sprintf(
		`MediaBrowser Client=%q, Device=%q, DeviceId=%q, Version=%q`,
		c.appName, c.deviceName, c.deviceID, c.appVersion,
	)
	if token != "" {
		h += fmt.Sprintf(`, Token=%q`, token)
	}
	return h
}

// Authenticate exchanges a username/password for an access token, returning
// an AuthClient bound to the resulting credentials.
func (c *UnauthClient) Authenticate(ctx context.Context, username, password string) (*AuthClient, error) {
	body := struct {
		Username string `json:"Username"`
		Pw       string `json:"Pw"`
	}{Username: username, Pw: password}

	var resp struct {
		User struct {
			ID string `json:"Id"`
		} `json:"User"`
		AccessToken string `json:"AccessToken"`
	}

	if err := c.core.doJSON(ctx, http.MethodPost, "/Users/AuthenticateByName", nil, body, c.authHeader(""), &resp); err != nil {
		return nil, err
	}

	return &AuthClient{
		core: c.core,
		creds: Credentials{
			UserID:      resp.User.ID,
			AccessToken: resp.AccessToken,
		},
	}, nil
}

// FromCredentials builds an already-authenticated client from a
// previously-persisted token, skipping the login round trip.
func FromCredentials(baseURL, deviceID, deviceName, appName, appVersion string, creds Credentials, log *slog.Logger) *AuthClient {
	if log == nil {
		log = slog.Default()
	}
	return &AuthClient{
		core: &core{
			baseURL:    baseURL,
			httpClient: &http.Client{Timeout: 30 * time.Second},
			deviceID:   deviceID,
			deviceName: deviceName,
			appName:    appName,
			appVersion: appVersion,
			log:        log,
		},
		creds: creds,
	}
}

// Credentials returns the token pair this client was built with, so the
// caller can persist it.
func (c *AuthClient) Credentials() Credentials { return c.creds }

func (c *AuthClient) authHeaderForSelf() string { return c.authHeader(c.creds.AccessToken) }

// doJSON performs an HTTP round trip with a PascalCase JSON body (if any),
// decoding a JSON response into out (if non-nil). authHeader is sent as
// X-Emby-Authorization.
func (c *core) doJSON(ctx context.Context, method, path string, query url.Values, body any, authHeader string, out any) error {
	data, err := c.do(ctx, method, path, query, body, authHeader)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return jferrors.New(jferrors.KindJSON, "decoding response body", err)
	}
	return nil
}

// do performs the HTTP round trip and returns the raw response body,
// translating failures into the package's error taxonomy.
func (c *core) do(ctx context.Context, method, path string, query url.Values, body any, authHeader string) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, jferrors.New(jferrors.KindURL, "parsing request URL", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, jferrors.New(jferrors.KindJSON, "encoding request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, jferrors.New(jferrors.KindNetwork, "building request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Emby-Authorization", authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, jferrors.New(jferrors.KindNetwork, fmt.Sprintf("%s %s", method, path), err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, jferrors.New(jferrors.KindNetwork, "reading response body", err)
	}

	if resp.StatusCode >= 400 {
		msg := string(data)
		if len(msg) > 256 {
			msg = msg[:256]
		}
		return nil, jferrors.New(jferrors.KindServerSignaled,
			fmt.Sprintf("%s %s: status %d: %s", method, path, resp.StatusCode, msg), nil)
	}

	return data, nil
}

// PositionTicks converts a position in seconds to Jellyfin's 100ns-tick
// unit.
func PositionTicks(seconds float64) int64 {
	return int64(seconds * 10_000_000)
}

// camelQuery builds url.Values from pairs of (camelCase key, value),
// skipping empty strings, zero ints, and nil values; bools are always set,
// false included. Supported value types: string, int, bool.
func camelQuery(pairs ...any) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		switch val := pairs[i+1].(type) {
		case string:
			if val != "" {
				v.Set(key, val)
			}
		case int:
			if val != 0 {
				v.Set(key, strconv.Itoa(val))
			}
		case bool:
			v.Set(key, strconv.FormatBool(val))
		case nil:
			// omitted
		}
	}
	return v
}
