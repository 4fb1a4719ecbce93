// Package jferrors defines the error taxonomy shared across the client and
// the diagnostic-chain rendering the navigation core uses for its Error
// screen.
package jferrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for routing and for the user-visible chain.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindURL
	KindJSON
	KindWebsocket
	KindServerSignaled
	KindCacheOpen
	KindCacheCorrupt
	KindConfigParse
	KindKeybindParse
	KindMediaEngine
	KindFFIString
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindURL:
		return "url"
	case KindJSON:
		return "json"
	case KindWebsocket:
		return "websocket"
	case KindServerSignaled:
		return "server"
	case KindCacheOpen:
		return "cache-open"
	case KindCacheCorrupt:
		return "cache-corrupt"
	case KindConfigParse:
		return "config-parse"
	case KindKeybindParse:
		return "keybind-parse"
	case KindMediaEngine:
		return "media-engine"
	case KindFFIString:
		return "ffi-string"
	default:
		return "unknown"
	}
}

// Diagnostic is a classified, wrapped error. It satisfies the standard
// Unwrap contract so errors.Is/errors.As keep working across a chain of
// Diagnostics and plain wrapped errors.
type Diagnostic struct {
	Kind Kind
	Msg  string
	Err  error
}

func (d *Diagnostic) Error() string {
	if d.Err == nil {
		return d.Msg
	}
	return fmt.Sprintf("%s: %v", d.Msg, d.Err)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// New wraps err with a classification and message. err may be nil, in which
// case the Diagnostic is a leaf.
func New(kind Kind, msg string, err error) *Diagnostic {
	return &Diagnostic{Kind: kind, Msg: msg, Err: err}
}

// Newf is New with a formatted message.
func Newf(kind Kind, err error, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf walks the chain looking for the first *Diagnostic and returns its
// Kind, or KindUnknown if none is found.
func KindOf(err error) Kind {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d.Kind
	}
	return KindUnknown
}

// Chain walks err's Unwrap chain and returns one line per error in the
// chain, outermost first. Used by the navigation core's Error screen to
// render the full diagnostic chain.
func Chain(err error) []string {
	var lines []string
	for err != nil {
		lines = append(lines, err.Error())
		err = errors.Unwrap(err)
	}
	return lines
}
