// Package cerrors carries the ceremony's error taxonomy as wrapped
// sentinel values, so callers can distinguish failure classes
// with errors.Is while still getting a human-readable, array/window
// qualified message for the CLI's one-line report.
package cerrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every error this module returns from a
// verification or deserialization path wraps exactly one of these.
var (
	ErrSizeMismatch     = errors.New("declared size does not match expected size")
	ErrDeserialization  = errors.New("malformed point encoding")
	ErrSubgroupCheck    = errors.New("point is not in the prime-order subgroup")
	ErrInvalidGenerator = errors.New("array does not start with the fixed generator")
	ErrPoKFailure       = errors.New("proof-of-knowledge pairing check failed")
	ErrRatioCheck       = errors.New("power-ratio pairing check failed")
	ErrInvalidChunk     = errors.New("invalid chunk or window bounds")
	ErrInvalidLength    = errors.New("batch read under-ran the expected length")
)

// Array names used to qualify RatioCheck/SubgroupCheck/InvalidGenerator
// errors.
const (
	ArrayTauG1   = "tau_g1"
	ArrayTauG2   = "tau_g2"
	ArrayAlphaG1 = "alpha_tau_g1"
	ArrayBetaG1  = "beta_tau_g1"
	ArrayBetaG2  = "beta_g2"
	ArrayAQuery   = "a_query"
	ArrayBG1Query = "b_g1_query"
	ArrayBG2Query = "b_g2_query"
	ArrayHQuery   = "h_query"
	ArrayLQuery   = "l_query"
)

// Located wraps a sentinel error with the array name and window/index it
// was found at.
type Located struct {
	Kind   error
	Array  string
	Window int
	Detail string
}

func (e *Located) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: array %s window %d: %s", e.Kind, e.Array, e.Window, e.Detail)
	}
	return fmt.Sprintf("%s: array %s window %d", e.Kind, e.Array, e.Window)
}

func (e *Located) Unwrap() error { return e.Kind }

// At constructs a Located error.
func At(kind error, array string, window int, detailFmt string, args ...any) error {
	return &Located{Kind: kind, Array: array, Window: window, Detail: fmt.Sprintf(detailFmt, args...)}
}
