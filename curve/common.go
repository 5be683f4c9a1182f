package curve

import "github.com/consensys/gnark-crypto/ecc"

// multiExpConfig returns the shared gnark-crypto multi-exponentiation
// tuning knob (number of parallel tasks); zero value lets gnark-crypto pick
// runtime.NumCPU() tasks, which is what every curve's MultiExp wants here
// since the caller (phase1/exponent.go) already distributes work across
// windows with its own errgroup.
func multiExpConfig() ecc.MultiExpConfig {
	return ecc.MultiExpConfig{}
}
