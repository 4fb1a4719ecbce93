package image

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
)

// Fetch resolves (key, targetWidth) through memory (re-encoding if the
// cached protocol's width doesn't match) → disk → server, storing
// progressively more specific forms as it goes. Concurrent Fetch calls
// for the same key collapse into a single disk/server round trip via
// c.group.
func (c *Cache) Fetch(ctx context.Context, key Key, targetWidth int, itemID string, kind jellyfin.ImageType) (*ProtocolHandle, error) {
	if img, ok := c.memLookup(key); ok {
		if img.Protocol != nil && img.Protocol.Width == targetWidth {
			return img.Protocol, nil
		}
		if img.Decoded != nil {
			handle, err := c.decoder.Encode(img.Decoded, targetWidth)
			if err != nil {
				return nil, err
			}
			c.StoreProtocol(key, handle)
			return handle, nil
		}
		// A protocol handle at the wrong width with no decoded buffer
		// behind it falls through to the disk/server path below.
	}

	v, err, _ := c.group.Do(singleflightKey(key), func() (any, error) {
		return c.fetchLocked(ctx, key, targetWidth, itemID, kind)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ProtocolHandle), nil
}

func singleflightKey(key Key) string {
	return fmt.Sprintf("%s/%s/%s", key.Type, key.ItemID, key.Tag)
}

func (c *Cache) fetchLocked(ctx context.Context, key Key, targetWidth int, itemID string, kind jellyfin.ImageType) (*ProtocolHandle, error) {
	if c.disk != nil {
		if data, err := c.disk.LoadImage(ctx, key); err == nil {
			decoded, derr := c.decoder.Decode(data)
			if derr != nil {
				return nil, derr
			}
			c.StoreImage(key, decoded)
			handle, eerr := c.decoder.Encode(decoded, targetWidth)
			if eerr != nil {
				return nil, eerr
			}
			c.StoreProtocol(key, handle)
			return handle, nil
		}
	}

	data, err := c.server.Image(ctx, itemID, kind, key.Tag, targetWidth)
	if err != nil {
		return nil, err
	}
	if c.disk != nil {
		if err := c.disk.SaveImage(ctx, key, data); err != nil {
			return nil, err
		}
	}
	decoded, err := c.decoder.Decode(data)
	if err != nil {
		return nil, err
	}
	c.StoreImage(key, decoded)
	handle, err := c.decoder.Encode(decoded, targetWidth)
	if err != nil {
		return nil, err
	}
	c.StoreProtocol(key, handle)
	return handle, nil
}
