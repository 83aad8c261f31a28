package rrgparse

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/wotanest/internal/rrgraph"
)

var (
	// ErrMalformedLine indicates a line matched no known directive or
	// record pattern for the active grammar.
	ErrMalformedLine = errors.New("rrgparse: malformed line")

	// ErrIndexOutOfOrder indicates a section's index column did not
	// strictly increase, violating spec §6's ascending-index invariant.
	ErrIndexOutOfOrder = errors.New("rrgparse: index out of ascending order")

	// ErrUnknownRRType indicates an rr_type(...) token did not match any
	// of SOURCE/SINK/IPIN/OPIN/CHANX/CHANY.
	ErrUnknownRRType = errors.New("rrgparse: unknown rr_type")

	// ErrUnclosedSection indicates a .rr_node/.edges block was never
	// closed with its matching .end directive before EOF.
	ErrUnclosedSection = errors.New("rrgparse: unclosed section")

	// ErrUnknownMode indicates -rr_structs_mode named neither VPR nor simple.
	ErrUnknownMode = errors.New("rrgparse: unknown rr_structs_mode")
)

// lineError annotates a sentinel with the 1-based source line number and
// wraps it as a KindInit WotanError, per spec §7 ("I/O errors, malformed
// RRG dumps: abort before analysis begins").
func lineError(op string, lineNo int, text string, cause error) error {
	return rrgraph.Wrap(rrgraph.KindInit, op, fmt.Errorf("line %d %q: %w", lineNo, text, cause))
}
