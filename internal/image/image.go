// Package image is the two-tier (memory + on-disk) image cache and fetch
// pipeline: a mutex-guarded memory tier, single-flight-per-key fetch
// dedup so concurrent requests for the same image share one disk/server
// round trip, and a wake-on-ready signal built on a non-blocking-send,
// size-1 buffered channel.
package image

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jellytui/jellyfin-tui/internal/cache"
	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
)

// Key identifies an image variant. Aliased to cache.ImageKey so the disk
// tier needs no conversion at the boundary.
type Key = cache.ImageKey

// CachedImage is one of: a terminal-graphics protocol handle tagged with
// the width it was encoded for, or a decoded pixel buffer awaiting first
// encoding. Exactly one of Protocol/Decoded is set.
type CachedImage struct {
	// Protocol holds the encoded terminal-graphics payload, non-nil once
	// this entry has been rendered at least once.
	Protocol *ProtocolHandle
	// Decoded holds a raw pixel buffer awaiting first encoding.
	Decoded *DecodedImage
}

// ProtocolHandle is an encoded terminal-graphics payload bound to the
// column width it was rendered for. If an entry holds a ProtocolHandle,
// Width equals the width last requested for that key.
type ProtocolHandle struct {
	Payload []byte
	Width   int
}

// DecodedImage is a raw, not-yet-encoded pixel buffer plus its natural
// dimensions.
type DecodedImage struct {
	Pixels []byte
	Width  int
	Height int
}

// Decoder turns raw server image bytes into a DecodedImage, and encodes a
// DecodedImage at a target column width into a terminal-graphics
// ProtocolHandle. Implemented by the terminal-graphics backend, which sits
// outside this package; Cache depends only on this narrow interface.
type Decoder interface {
	Decode(raw []byte) (*DecodedImage, error)
	Encode(img *DecodedImage, width int) (*ProtocolHandle, error)
}

// ServerFetcher fetches the raw bytes for an image key from the Jellyfin
// server (C5).
type ServerFetcher interface {
	Image(ctx context.Context, itemID string, kind jellyfin.ImageType, tag string, maxWidth int) ([]byte, error)
}

// memEntry is the mutex-guarded map value. The width a cached protocol
// handle was encoded for lives on the ProtocolHandle itself, which is how
// Fetch tells a cached handle is stale.
type memEntry struct {
	image CachedImage
}

// Cache is the two-tier image cache plus fetch pipeline.
type Cache struct {
	mu  sync.Mutex
	mem map[Key]memEntry

	// group collapses concurrent Fetch calls for the same key into one
	// disk/server round trip: concurrent requests attach to the same
	// in-flight fetch rather than issuing duplicate ones.
	group singleflight.Group

	disk    *cache.Store
	server  ServerFetcher
	decoder Decoder

	avail *AvailabilitySignal
}

// New constructs a Cache. disk and server may be nil only in tests that
// exercise the memory tier alone.
func New(disk *cache.Store, server ServerFetcher, decoder Decoder) *Cache {
	return &Cache{
		mem:     make(map[Key]memEntry),
		disk:    disk,
		server:  server,
		decoder: decoder,
		avail:   NewAvailabilitySignal(),
	}
}

// Available returns the cross-task wake-on-ready signal a render loop
// awaits.
func (c *Cache) Available() *AvailabilitySignal { return c.avail }

// StoreProtocol inserts or overwrites the protocol-encoded form for key in
// the memory tier; it always overwrites whatever was cached before.
func (c *Cache) StoreProtocol(key Key, handle *ProtocolHandle) {
	c.mu.Lock()
	c.mem[key] = memEntry{image: CachedImage{Protocol: handle}}
	c.mu.Unlock()
	c.avail.Wake()
}

// StoreImage inserts the decoded form for key if no entry exists yet; it
// never overwrites an existing protocol-encoded entry with a raw image.
func (c *Cache) StoreImage(key Key, decoded *DecodedImage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.mem[key]; exists {
		return
	}
	c.mem[key] = memEntry{image: CachedImage{Decoded: decoded}}
}

// Remove evicts key from the memory tier.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()
}

// memLookup returns the memory-tier entry for key, if any.
func (c *Cache) memLookup(key Key) (CachedImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.mem[key]
	return e.image, ok
}
