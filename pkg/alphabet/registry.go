// Package alphabet provides the static mode-to-charset registry used by the
// derivation engine. The registry is initialized once and read-only for the
// process lifetime; it is passed into the engine explicitly rather than
// accessed as ambient global state.
package alphabet

import (
	"errors"
	"fmt"
)

// Recognized mode names.
const (
	ModeNumeric      = "numeric"
	ModeAlphabetic   = "alphabetic"
	ModeAlphanumeric = "alphanumeric"
	ModeSymbolic     = "symbolic"
)

// ErrInvalidMode is returned when a requested mode name is unrecognized.
var ErrInvalidMode = errors.New("unrecognized alphabet mode")

// ErrEmptyModeSet is returned when no modes are requested.
var ErrEmptyModeSet = errors.New("no alphabet modes selected")

const (
	digits    = "0123456789"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	// The symbolic set is fixed and documented: shifted digits first, then
	// the remaining ASCII punctuation in keyboard order.
	symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Registry maps mode names to their character sets. Construct one with New
// (or use Default) and treat it as immutable afterwards.
type Registry struct {
	modes map[string][]rune
	// order fixes the canonical iteration order for union resolution so the
	// combined alphabet is stable across calls and processes.
	order []string
}

// New builds the standard registry.
func New() *Registry {
	return &Registry{
		modes: map[string][]rune{
			ModeNumeric:      []rune(digits),
			ModeAlphabetic:   []rune(uppercase + lowercase),
			ModeAlphanumeric: []rune(digits + uppercase + lowercase),
			ModeSymbolic:     []rune(symbols),
		},
		order: []string{ModeNumeric, ModeAlphabetic, ModeAlphanumeric, ModeSymbolic},
	}
}

var std = New()

// Default returns the process-wide standard registry. It is never mutated
// after initialization and is safe for concurrent use.
func Default() *Registry {
	return std
}

// Modes lists the recognized mode names in canonical order.
func (r *Registry) Modes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the union of the requested modes' character sets as an
// ordered, deduplicated rune sequence. Order is canonical (digits, uppercase,
// lowercase, symbols) regardless of the order modes were requested in, so
// alphabet-size-dependent calculations are reproducible.
//
// Returns ErrEmptyModeSet when modes is empty and ErrInvalidMode (wrapped
// with the offending name) when any mode is unrecognized.
func (r *Registry) Resolve(modes []string) ([]rune, error) {
	if len(modes) == 0 {
		return nil, ErrEmptyModeSet
	}

	requested := make(map[string]bool, len(modes))
	for _, m := range modes {
		if _, ok := r.modes[m]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMode, m)
		}
		requested[m] = true
	}

	seen := make(map[rune]bool)
	var combined []rune
	for _, name := range r.order {
		if !requested[name] {
			continue
		}
		for _, c := range r.modes[name] {
			if seen[c] {
				continue
			}
			seen[c] = true
			combined = append(combined, c)
		}
	}
	return combined, nil
}
