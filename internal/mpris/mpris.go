// Package mpris exposes a running player.Controller on the session D-Bus
// as a standard org.mpris.MediaPlayer2 player, so any desktop shell's
// media-key/notification integration controls this client the same way
// it controls any other media app. Built on github.com/godbus/dbus/v5.
package mpris

import (
	"context"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/player"
)

const objectPath = dbus.ObjectPath("/org/mpris/MediaPlayer2")

// ArtResolver builds a public URL for an item's primary image, used to
// populate MPRIS metadata's mpris:artUrl. Narrowed from *jellyfin.AuthClient
// so this package doesn't depend on the HTTP client's full surface.
type ArtResolver interface {
	ImageURL(itemID string, kind jellyfin.ImageType, tag string, maxWidth int) string
}

// Server owns the exported D-Bus object and the observer goroutine that
// keeps its properties and track list in sync with the player.
type Server struct {
	conn  *dbus.Conn
	props *prop.Properties

	handle *player.PlayerHandle
	art    ArtResolver
	log    *slog.Logger

	identity string
}

// Options configures the exported identity.
type Options struct {
	// Identity is the human-readable app name (MPRIS "Identity" property).
	Identity string
	// DesktopEntry is the desktop file basename, sans ".desktop".
	DesktopEntry string
}

// New connects to the session bus, exports the MediaPlayer2/Player/TrackList
// interfaces, requests a well-known MPRIS name, and starts the observer
// goroutine that mirrors player state onto D-Bus properties and signals.
// Call Close to release the bus connection; the observer goroutine stops
// when ctx is cancelled or the player's watch channel closes.
func New(ctx context.Context, handle *player.PlayerHandle, art ArtResolver, opts Options, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	s := &Server{
		conn:     conn,
		handle:   handle,
		art:      art,
		log:      log,
		identity: opts.Identity,
	}

	if err := conn.Export(mediaPlayer2Adapter{s}, objectPath, "org.mpris.MediaPlayer2"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := conn.Export(playerAdapter{s}, objectPath, "org.mpris.MediaPlayer2.Player"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := conn.Export(trackListAdapter{s}, objectPath, "org.mpris.MediaPlayer2.TrackList"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	initial := handle.State().Borrow()
	propsSpec := s.propSpec(opts, initial)
	props, err := prop.Export(conn, objectPath, propsSpec)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	s.props = props

	if err := conn.Export(introspect.NewIntrospectable(s.introspectNode()), objectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	busName := "org.mpris.MediaPlayer2." + sanitizeBusNameSuffix(opts.Identity)
	reply, err := conn.RequestName(busName, dbus.NameFlagReplaceExisting)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		log.Warn("mpris: did not become primary owner of bus name", "name", busName, "reply", reply)
	}

	go s.observe(ctx)

	return s, nil
}

// Close releases the D-Bus connection. The observer goroutine exits on its
// own once the player's watch channel closes or ctx is cancelled.
func (s *Server) Close() error {
	return s.conn.Close()
}

// observe mirrors every PlayerState update onto D-Bus properties and
// TrackList signals until the receiver's channel closes.
func (s *Server) observe(ctx context.Context) {
	recv := s.handle.State()
	differ := player.NewDiffer(recv.Borrow())

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-recv.C():
			if !ok {
				return
			}
			changed := differ.Diff(state)
			s.applyChange(state, changed)
		}
	}
}

func (s *Server) applyChange(state player.PlayerState, changed player.StateChanged) {
	if changed.Paused != nil || changed.Idle != nil {
		s.props.SetMust("org.mpris.MediaPlayer2.Player", "PlaybackStatus", playbackStatus(state))
	}
	if changed.Current != nil {
		cur := state.CurrentItem()
		var meta map[string]dbus.Variant
		if cur != nil {
			meta = s.metadataFor(cur)
		} else {
			meta = map[string]dbus.Variant{"mpris:trackid": dbus.MakeVariant(noTrackPath)}
		}
		s.props.SetMust("org.mpris.MediaPlayer2.Player", "Metadata", meta)
	}
	if changed.Fullscreen != nil {
		s.props.SetMust("org.mpris.MediaPlayer2", "Fullscreen", state.Fullscreen)
	}
	if changed.Position != nil {
		// Position is a read-on-demand property in MPRIS (no change
		// signal expected); emit the Seeked signal instead so clients
		// that care about scrubbing can resync.
		_ = s.conn.Emit(objectPath, "org.mpris.MediaPlayer2.Player.Seeked", positionMicros(state.Position))
	}
	if changed.PlaylistOK {
		tracks := trackPaths(state.Playlist)
		current := currentTrackPath(state)
		s.props.SetMust("org.mpris.MediaPlayer2.Player", "CanGoNext", state.Current+1 < len(state.Playlist))
		s.props.SetMust("org.mpris.MediaPlayer2.Player", "CanGoPrevious", state.Current > 0)
		s.props.SetMust("org.mpris.MediaPlayer2.TrackList", "Tracks", tracks)
		_ = s.conn.Emit(objectPath, "org.mpris.MediaPlayer2.TrackList.TrackListReplaced", tracks, current)
	}
}

func playbackStatus(state player.PlayerState) string {
	switch {
	case state.Idle:
		return "Stopped"
	case state.Paused:
		return "Paused"
	default:
		return "Playing"
	}
}

func positionMicros(seconds float64) int64 {
	return int64(seconds * 1_000_000)
}

// sanitizeBusNameSuffix lower-cases letters and replaces anything but
// alphanumerics with '_', since D-Bus well-known names are restricted to
// [A-Za-z0-9_] segments.
func sanitizeBusNameSuffix(identity string) string {
	out := make([]byte, 0, len(identity))
	for i := 0; i < len(identity); i++ {
		c := identity[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			out = append(out, c-'A'+'a')
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "jellyfintui"
	}
	return string(out)
}
