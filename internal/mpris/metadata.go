package mpris

import (
	"github.com/godbus/dbus/v5"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/player"
)

// metadataFor synthesizes the MPRIS xesam:* metadata map for a playlist
// entry: title, length in microseconds, and an art URL built by the
// server client's image URL builder (s.art), when one is configured.
func (s *Server) metadataFor(item *player.PlaylistItem) map[string]dbus.Variant {
	meta := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackIDToPath(item.ID)),
		"xesam:title":   dbus.MakeVariant(item.Item.Name),
	}
	if item.Item.RunTimeTicks > 0 {
		meta["mpris:length"] = dbus.MakeVariant(item.Item.RunTimeTicks / 10) // 100ns ticks -> microseconds
	}
	if s.art != nil {
		if tag, ok := item.Item.ImageTags[jellyfin.ImagePrimary]; ok && tag != "" {
			if url := s.art.ImageURL(item.Item.ID, jellyfin.ImagePrimary, tag, 0); url != "" {
				meta["mpris:artUrl"] = dbus.MakeVariant(url)
			}
		}
	}
	return meta
}
