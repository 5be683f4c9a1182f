package phase1

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/giuliop/tauceremony/curve"
)

// TranscriptHash returns the fixed 64-byte BLAKE2b digest of the given
// challenge bytes. Every contribution hashes the prior
// challenge file and binds its PoK to the resulting digest.
func TranscriptHash(challenge []byte) ([HashSize]byte, error) {
	var out [HashSize]byte
	h, err := blake2b.New(HashSize, nil)
	if err != nil {
		return out, fmt.Errorf("transcript hash: %w", err)
	}
	h.Write(challenge)
	copy(out[:], h.Sum(nil))
	return out, nil
}

// index personalizes compute_g2_s for each of τ, α, β (phase 1) and is
// reused, with value 3, for phase 2's δ.
const (
	IndexTau   = 0
	IndexAlpha = 1
	IndexBeta  = 2
	IndexDelta = 3
)

// ComputeG2S hashes digest‖s_bytes‖sx_bytes‖index_byte to a G2 point using
// the curve's standard hash-to-curve. This is the transcript-bound PoK
// personalization: the exact domain-separation layout is part of the wire
// contract and must match byte-for-byte across reimplementations.
func ComputeG2S(e curve.Engine, digest [HashSize]byte, s, sx []byte, index byte) (curve.G2, error) {
	msg := make([]byte, 0, HashSize+len(s)+len(sx)+1)
	msg = append(msg, digest[:]...)
	msg = append(msg, s...)
	msg = append(msg, sx...)
	msg = append(msg, index)
	p, err := e.HashToG2(msg)
	if err != nil {
		return nil, fmt.Errorf("compute g2_s (index %d): %w", index, err)
	}
	return p, nil
}
