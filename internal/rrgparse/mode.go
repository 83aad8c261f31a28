package rrgparse

import (
	"strings"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

// Mode selects which of the two supported dump grammars Parse reads.
type Mode uint8

const (
	// VPR is the full multi-line block grammar of spec §6.
	VPR Mode = iota
	// Simple is a one-line-per-node grammar for hand-authored fixtures.
	Simple
)

// ParseMode maps the -rr_structs_mode flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "vpr":
		return VPR, nil
	case "simple":
		return Simple, nil
	default:
		return 0, rrgraph.Wrap(rrgraph.KindInit, "rrgparse.ParseMode", ErrUnknownMode)
	}
}

func parseKind(token string) (rrgraph.Kind, bool) {
	switch strings.ToUpper(token) {
	case "SOURCE":
		return rrgraph.Source, true
	case "SINK":
		return rrgraph.Sink, true
	case "IPIN":
		return rrgraph.IPin, true
	case "OPIN":
		return rrgraph.OPin, true
	case "CHANX":
		return rrgraph.ChanX, true
	case "CHANY":
		return rrgraph.ChanY, true
	default:
		return 0, false
	}
}
