// Package tauceremony wires the phase-1 accumulator engine and phase-2
// MPC parameter builder into the ceremony-level entry points: new
// challenge, contribute, verify, and combine, including the chunk loops a
// large power-of-tau ceremony needs so the full accumulator never has to
// live in memory at once.
package tauceremony

import (
	"crypto/rand"
	"fmt"

	"github.com/consensys/gnark/logger"

	"github.com/giuliop/tauceremony/cerrors"
	"github.com/giuliop/tauceremony/curve"
	"github.com/giuliop/tauceremony/phase1"
	"github.com/giuliop/tauceremony/phase2"
)

// NewChallenge allocates and initializes a fresh phase-1 challenge file:
// a zero 64-byte digest prefix (a fresh file has no previous state to
// hash) followed by the generator-filled element arrays.
func NewChallenge(p *phase1.Parameters, compressed bool) ([]byte, error) {
	buf := make([]byte, int64(phase1.HashSize)+p.PayloadSize(compressed))
	if err := phase1.Init(buf[phase1.HashSize:], p, compressed); err != nil {
		return nil, fmt.Errorf("new challenge: %w", err)
	}
	l := logger.Logger()
	l.Debug().Str("params", p.String()).Msg("new challenge initialized")
	return buf, nil
}

// Contribute runs one participant's contribution over a challenge,
// sampling a fresh private key, returning the response buffer and the
// public key a verifier needs.
func Contribute(challenge []byte, p *phase1.Parameters, progress phase1.ProgressFunc) (response []byte, pub *phase1.PublicKey, err error) {
	priv, err := phase1.GeneratePrivateKey(p.Engine, rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("contribute: %w", err)
	}
	return contributeWithKey(challenge, priv, p, progress)
}

// BeaconContribute is Contribute seeded from public beacon randomness,
// so anyone holding the same public randomness can recompute and check
// the contribution.
func BeaconContribute(challenge []byte, beacon []byte, p *phase1.Parameters, progress phase1.ProgressFunc) (response []byte, pub *phase1.PublicKey, err error) {
	priv, err := phase1.DerivePrivateKeyFromSeed(p.Engine, beacon)
	if err != nil {
		return nil, nil, fmt.Errorf("beacon contribute: %w", err)
	}
	return contributeWithKey(challenge, priv, p, progress)
}

func contributeWithKey(challenge []byte, priv *phase1.PrivateKey, p *phase1.Parameters, progress phase1.ProgressFunc) ([]byte, *phase1.PublicKey, error) {
	if len(challenge) < phase1.HashSize {
		return nil, nil, cerrors.At(cerrors.ErrSizeMismatch, "challenge", 0,
			"file shorter than the %d-byte digest prefix", phase1.HashSize)
	}
	// The whole challenge file, digest prefix included, is hashed; the
	// resulting digest both personalizes the PoK and becomes the
	// response's own prefix.
	digest, err := phase1.TranscriptHash(challenge)
	if err != nil {
		return nil, nil, err
	}
	pub, err := phase1.GeneratePublicKey(p.Engine, priv, digest)
	if err != nil {
		return nil, nil, fmt.Errorf("contribute: %w", err)
	}

	response := make([]byte, len(challenge))
	copy(response[:phase1.HashSize], digest[:])
	if err := phase1.Contribute(challenge[phase1.HashSize:], response[phase1.HashSize:], priv, p, progress); err != nil {
		return nil, nil, fmt.Errorf("contribute: %w", err)
	}
	l := logger.Logger()
	l.Debug().Str("params", p.String()).Msg("contribution applied")
	return response, pub, nil
}

// VerifyContribution checks one (challenge, response) pair: PoK and
// correctness for chunk 0, subgroup membership as subgroupMode selects
// (see phase1.VerifyPoKAndCorrectness).
func VerifyContribution(challenge, response []byte, pub *phase1.PublicKey, p *phase1.Parameters, subgroupMode phase1.SubgroupCheckMode) error {
	if len(challenge) < phase1.HashSize || len(response) < phase1.HashSize {
		return cerrors.At(cerrors.ErrSizeMismatch, "challenge", 0,
			"file shorter than the %d-byte digest prefix", phase1.HashSize)
	}
	digest, err := phase1.TranscriptHash(challenge)
	if err != nil {
		return err
	}
	var prefix [phase1.HashSize]byte
	copy(prefix[:], response)
	if prefix != digest {
		return cerrors.At(cerrors.ErrPoKFailure, "transcript", 0,
			"response digest prefix does not match the challenge hash")
	}
	if err := phase1.VerifyPoKAndCorrectness(challenge[phase1.HashSize:], response[phase1.HashSize:], pub, digest, p, subgroupMode); err != nil {
		l := logger.Logger()
		l.Warn().Err(err).Msg("contribution verification failed")
		return err
	}
	return nil
}

// VerifyFull re-verifies a fully assembled accumulator's ratio structure
// (the CLI's verify-and-transform-ratios and verify-and-transform-full
// subcommands).
func VerifyFull(accumulator []byte, p *phase1.Parameters, rng phase1.RandScalarFunc) error {
	if len(accumulator) < phase1.HashSize {
		return cerrors.At(cerrors.ErrSizeMismatch, "accumulator", 0,
			"file shorter than the %d-byte digest prefix", phase1.HashSize)
	}
	if err := phase1.VerifyRatios(accumulator[phase1.HashSize:], p, rng); err != nil {
		l := logger.Logger()
		l.Warn().Err(err).Msg("ratio verification failed")
		return err
	}
	return nil
}

// CombineChunks stitches chunk-view response files into one full-mode
// accumulator file. Every chunk of a response carries the same
// prior-state digest prefix; the combined file inherits it from chunk 0,
// so the digest field is always populated rather than left blank.
func CombineChunks(chunks [][]byte, p *phase1.Parameters, inputCompressed, outputCompressed bool) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, cerrors.At(cerrors.ErrInvalidChunk, "combine", 0, "no chunks to combine")
	}
	payloads := make([][]byte, len(chunks))
	for i, c := range chunks {
		if len(c) < phase1.HashSize {
			return nil, cerrors.At(cerrors.ErrSizeMismatch, "combine", i,
				"chunk file shorter than the %d-byte digest prefix", phase1.HashSize)
		}
		payloads[i] = c[phase1.HashSize:]
	}
	out := make([]byte, int64(phase1.HashSize)+p.PayloadSize(outputCompressed))
	copy(out[:phase1.HashSize], chunks[0][:phase1.HashSize])
	if err := phase1.Combine(payloads, out[phase1.HashSize:], p, inputCompressed, outputCompressed); err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}
	return out, nil
}

// NewPhase2 builds the initial phase-2 MPC parameters from a fully
// assembled phase-1 accumulator and an R1CS circuit.
func NewPhase2(e curve.Engine, r *phase2.R1CS, accumulator []byte, p *phase1.Parameters) (*phase2.MPCParameters, error) {
	if len(accumulator) < phase1.HashSize {
		return nil, cerrors.At(cerrors.ErrSizeMismatch, "accumulator", 0,
			"file shorter than the %d-byte digest prefix", phase1.HashSize)
	}
	layout, err := phase1.SplitFull(accumulator[phase1.HashSize:], p, phase1.Uncompressed)
	if err != nil {
		return nil, fmt.Errorf("phase2 new: %w", err)
	}
	L := p.PowersLength()
	G := p.PowersG1Length()

	tauG1, err := phase1.ReadG1Batch(e, layout.TauG1, e.SizeG1Uncompressed(), G, cerrors.ArrayTauG1, 0, false)
	if err != nil {
		return nil, fmt.Errorf("phase2 new: %w", err)
	}
	tauG2, err := phase1.ReadG2Batch(e, layout.TauG2, e.SizeG2Uncompressed(), L, cerrors.ArrayTauG2, 0, false)
	if err != nil {
		return nil, fmt.Errorf("phase2 new: %w", err)
	}
	alphaTauG1, err := phase1.ReadG1Batch(e, layout.AlphaG1, e.SizeG1Uncompressed(), L, cerrors.ArrayAlphaG1, 0, false)
	if err != nil {
		return nil, fmt.Errorf("phase2 new: %w", err)
	}
	betaTauG1, err := phase1.ReadG1Batch(e, layout.BetaG1, e.SizeG1Uncompressed(), L, cerrors.ArrayBetaG1, 0, false)
	if err != nil {
		return nil, fmt.Errorf("phase2 new: %w", err)
	}
	betaG2Pts, err := phase1.ReadG2Batch(e, layout.BetaG2, e.SizeG2Uncompressed(), 1, cerrors.ArrayBetaG2, 0, false)
	if err != nil {
		return nil, fmt.Errorf("phase2 new: %w", err)
	}

	params, err := phase2.NewFromBufferChunked(e, r, tauG1, tauG2, alphaTauG1, betaTauG1, betaG2Pts[0])
	if err != nil {
		return nil, fmt.Errorf("phase2 new: %w", err)
	}
	l := logger.Logger()
	l.Debug().Int("p", r.DomainSize()).Msg("phase2 parameters initialized")
	return params, nil
}

// ContributePhase2 samples a fresh delta' and applies it to before.
func ContributePhase2(before *phase2.MPCParameters) (*phase2.MPCParameters, error) {
	priv, err := phase2.GenerateDeltaPrivateKey(before.Engine, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("phase2 contribute: %w", err)
	}
	after, err := phase2.Contribute(before, priv)
	if err != nil {
		return nil, fmt.Errorf("phase2 contribute: %w", err)
	}
	return after, nil
}

// VerifyPhase2 is phase2.Verify, wired through the ceremony logger.
// forceCorrectness additionally subgroup-checks every point of the
// incoming response.
func VerifyPhase2(before, after *phase2.MPCParameters, forceCorrectness bool) ([][phase1.HashSize]byte, error) {
	hashes, err := phase2.Verify(before, after, forceCorrectness)
	if err != nil {
		l := logger.Logger()
		l.Warn().Err(err).Msg("phase2 contribution verification failed")
		return nil, err
	}
	return hashes, nil
}

// CombinePhase2 is phase2.Combine, producing the final Groth16 parameters.
func CombinePhase2(initialQuery *phase2.MPCParameters, responses []*phase2.MPCParameters) (*phase2.MPCParameters, error) {
	return phase2.Combine(initialQuery, responses)
}

// RandScalar is the default phase1.RandScalarFunc used by ceremony-level
// verification, drawing from crypto/rand.
func RandScalar(e curve.Engine) ([]byte, error) {
	return e.RandomScalar(rand.Reader)
}
