package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jellytui/jellyfin-tui/internal/jferrors"
)

// Libraries fetches the user's top-level library views (GET user views).
func (c *AuthClient) Libraries(ctx context.Context) ([]Library, error) {
	var resp struct {
		Items []Library `json:"Items"`
	}
	path := fmt.Sprintf("/Users/%s/Views", c.creds.UserID)
	if err := c.core.doJSON(ctx, http.MethodGet, path, nil, nil, c.authHeaderForSelf(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Items fetches items under a view/series/season/playlist with the
// configurable paging, image, and sort query options.
func (c *AuthClient) Items(ctx context.Context, q ItemQuery) (ItemsPage, error) {
	query := camelQuery(
		"parentId", q.ParentID,
		"startIndex", q.StartIndex,
		"limit", q.Limit,
		"imageTypeLimit", q.ImageTypeLimit,
		"enableUserData", q.EnableUserData,
		"sortBy", q.SortBy,
		"sortOrder", q.SortOrder,
	)
	path := fmt.Sprintf("/Users/%s/Items", c.creds.UserID)
	var page ItemsPage
	if err := c.core.doJSON(ctx, http.MethodGet, path, query, nil, c.authHeaderForSelf(), &page); err != nil {
		return ItemsPage{}, err
	}
	return page, nil
}

// ItemDetails fetches a single item by id.
func (c *AuthClient) ItemDetails(ctx context.Context, itemID string) (MediaItem, error) {
	query := camelQuery("ids", itemID)
	path := fmt.Sprintf("/Users/%s/Items", c.creds.UserID)
	var page ItemsPage
	if err := c.core.doJSON(ctx, http.MethodGet, path, query, nil, c.authHeaderForSelf(), &page); err != nil {
		return MediaItem{}, err
	}
	if len(page.Items) == 0 {
		return MediaItem{}, jferrors.New(jferrors.KindServerSignaled, "item not found: "+itemID, nil)
	}
	return page.Items[0], nil
}

// Image fetches the raw bytes of an item's image, for the given type and
// tag (the cache key), at maxWidth pixels wide.
// maxWidth <= 0 requests the server's default size.
func (c *AuthClient) Image(ctx context.Context, itemID string, kind ImageType, tag string, maxWidth int) ([]byte, error) {
	query := camelQuery("tag", tag, "maxWidth", maxWidth)
	path := fmt.Sprintf("/Items/%s/Images/%s", itemID, kind)
	return c.core.do(ctx, http.MethodGet, path, query, nil, c.authHeaderForSelf())
}

// Resume fetches the user's in-progress items (GET
// /Users/{id}/Items/Resume), used to populate the home screen's
// "Continue Watching" row.
func (c *AuthClient) Resume(ctx context.Context, limit int) ([]MediaItem, error) {
	query := camelQuery("limit", limit, "enableUserData", true)
	path := fmt.Sprintf("/Users/%s/Items/Resume", c.creds.UserID)
	var resp struct {
		Items []MediaItem `json:"Items"`
	}
	if err := c.core.doJSON(ctx, http.MethodGet, path, query, nil, c.authHeaderForSelf(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// NextUp fetches the user's next-episode-to-watch list (GET
// /Shows/NextUp), used to populate the home screen's "Next Up" row.
func (c *AuthClient) NextUp(ctx context.Context, limit int) ([]MediaItem, error) {
	query := camelQuery("userId", c.creds.UserID, "limit", limit, "enableUserData", true)
	var resp struct {
		Items []MediaItem `json:"Items"`
	}
	if err := c.core.doJSON(ctx, http.MethodGet, "/Shows/NextUp", query, nil, c.authHeaderForSelf(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ImageURL builds the public URL for an item's image without fetching
// it, for collaborators that only need a URL string (the desktop-bus
// adapter's track metadata art field). Mirrors the path Image() fetches.
func (c *AuthClient) ImageURL(itemID string, kind ImageType, tag string, maxWidth int) string {
	u, err := url.Parse(fmt.Sprintf("%s/Items/%s/Images/%s", c.baseURL, itemID, kind))
	if err != nil {
		return ""
	}
	u.RawQuery = camelQuery("tag", tag, "maxWidth", maxWidth).Encode()
	return u.String()
}

// StreamURL builds the direct-play media URL for an item (GET
// /Videos/{id}/stream or /Audio/{id}/stream, static=true to skip
// transcoding), the URL the player controller's media engine loads.
// audio selects the audio route; otherwise the video route is used,
// matching the item's MediaItem.Kind at the call site.
func (c *AuthClient) StreamURL(itemID string, audio bool) string {
	route := "Videos"
	if audio {
		route = "Audio"
	}
	u, err := url.Parse(fmt.Sprintf("%s/%s/%s/stream", c.baseURL, route, itemID))
	if err != nil {
		return ""
	}
	q := camelQuery("static", true, "deviceId", c.deviceID, "api_key", c.creds.AccessToken)
	u.RawQuery = q.Encode()
	return u.String()
}

// PlaybackStart reports the start of playback for an item (POST
// /Sessions/Playing).
func (c *AuthClient) PlaybackStart(ctx context.Context, itemID string, positionSeconds float64, paused bool) error {
	body := sessionPlaybackBody(itemID, positionSeconds, paused)
	return c.core.doJSON(ctx, http.MethodPost, "/Sessions/Playing", nil, body, c.authHeaderForSelf(), nil)
}

// PlaybackProgress reports an in-progress playback position (POST
// /Sessions/Playing/Progress).
func (c *AuthClient) PlaybackProgress(ctx context.Context, itemID string, positionSeconds float64, paused bool) error {
	body := sessionPlaybackBody(itemID, positionSeconds, paused)
	return c.core.doJSON(ctx, http.MethodPost, "/Sessions/Playing/Progress", nil, body, c.authHeaderForSelf(), nil)
}

// PlaybackStopped reports the end of playback (POST
// /Sessions/Playing/Stopped).
func (c *AuthClient) PlaybackStopped(ctx context.Context, itemID string, positionSeconds float64) error {
	body := sessionPlaybackBody(itemID, positionSeconds, false)
	return c.core.doJSON(ctx, http.MethodPost, "/Sessions/Playing/Stopped", nil, body, c.authHeaderForSelf(), nil)
}

// sessionPlaybackBody builds the PascalCase body shared by the three
// session playback endpoints: item id, position-ticks, paused flag.
func sessionPlaybackBody(itemID string, positionSeconds float64, paused bool) any {
	return struct {
		ItemID        string `json:"ItemId"`
		PositionTicks int64  `json:"PositionTicks"`
		IsPaused      bool   `json:"IsPaused"`
	}{
		ItemID:        itemID,
		PositionTicks: PositionTicks(positionSeconds),
		IsPaused:      paused,
	}
}
