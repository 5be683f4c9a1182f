package phase1

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/giuliop/tauceremony/curve"
	"github.com/giuliop/tauceremony/internal/zero"
)

// PrivateKey holds the three secret scalars a contribution samples.
// Contribute zeroizes it before returning, so a key serves a single
// contribution.
type PrivateKey struct {
	Tau, Alpha, Beta []byte
}

// Zeroize scrubs all three scalars. Safe to call more than once.
func (k *PrivateKey) Zeroize() {
	zero.All(k.Tau, k.Alpha, k.Beta)
}

// PublicKey is a participant's proof-of-knowledge material: for each of
// τ, α, β a (s, s·x) pair in G1 plus the corresponding G2 element derived
// via hash-to-G2.
type PublicKey struct {
	TauG1, TauSG1          curve.G1
	AlphaG1, AlphaSG1      curve.G1
	BetaG1, BetaSG1        curve.G1
	TauG2, AlphaG2, BetaG2 curve.G2
}

// GeneratePrivateKey samples τ, α, β uniformly from the scalar field.
func GeneratePrivateKey(e curve.Engine, r io.Reader) (*PrivateKey, error) {
	tau, err := e.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("sample tau: %w", err)
	}
	alpha, err := e.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("sample alpha: %w", err)
	}
	beta, err := e.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("sample beta: %w", err)
	}
	return &PrivateKey{Tau: tau, Alpha: alpha, Beta: beta}, nil
}

// DerivePrivateKeyFromSeed derives τ, α, β deterministically from a seed,
// by hashing the seed with a per-scalar domain tag through the curve's
// scalar-field reduction. Used both for reproducible test ceremonies and
// for beacon contributions, where the "seed" is public beacon randomness.
func DerivePrivateKeyFromSeed(e curve.Engine, seed []byte) (*PrivateKey, error) {
	digest, err := TranscriptHash(append([]byte("tauceremony-seed-tau"), seed...))
	if err != nil {
		return nil, err
	}
	tau := e.ScalarFromDigest(digest[:])

	digest, err = TranscriptHash(append([]byte("tauceremony-seed-alpha"), seed...))
	if err != nil {
		return nil, err
	}
	alpha := e.ScalarFromDigest(digest[:])

	digest, err = TranscriptHash(append([]byte("tauceremony-seed-beta"), seed...))
	if err != nil {
		return nil, err
	}
	beta := e.ScalarFromDigest(digest[:])

	return &PrivateKey{Tau: tau, Alpha: alpha, Beta: beta}, nil
}

// GeneratePublicKey builds the PoK public key for the given private key,
// bound to the transcript digest of the prior challenge.
func GeneratePublicKey(e curve.Engine, k *PrivateKey, digest [HashSize]byte) (*PublicKey, error) {
	g1 := e.G1Generator()

	mk := func(scalar []byte, index byte) (curve.G1, curve.G1, curve.G2, error) {
		s, err := e.RandomScalar(rand.Reader)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sample s: %w", err)
		}
		sPoint := e.ScalarMulG1(g1, s)
		sx := e.ScalarMulG1(sPoint, scalar)

		sBytes := e.EncodeG1(sPoint, true)
		sxBytes := e.EncodeG1(sx, true)
		g2s, err := ComputeG2S(e, digest, sBytes, sxBytes, index)
		if err != nil {
			return nil, nil, nil, err
		}
		xG2 := e.ScalarMulG2(g2s, scalar)
		zero.Bytes(s)
		return sPoint, sx, xG2, nil
	}

	tauS, tauSX, tauG2, err := mk(k.Tau, IndexTau)
	if err != nil {
		return nil, fmt.Errorf("tau pok: %w", err)
	}
	alphaS, alphaSX, alphaG2, err := mk(k.Alpha, IndexAlpha)
	if err != nil {
		return nil, fmt.Errorf("alpha pok: %w", err)
	}
	betaS, betaSX, betaG2, err := mk(k.Beta, IndexBeta)
	if err != nil {
		return nil, fmt.Errorf("beta pok: %w", err)
	}

	return &PublicKey{
		TauG1: tauS, TauSG1: tauSX, TauG2: tauG2,
		AlphaG1: alphaS, AlphaSG1: alphaSX, AlphaG2: alphaG2,
		BetaG1: betaS, BetaSG1: betaSX, BetaG2: betaG2,
	}, nil
}

// EncodePublicKey serializes a public key as 3×|G2|+6×|G1| uncompressed
// bytes, in the fixed field order
// (τ_g1, τ_sg1, α_g1, α_sg1, β_g1, β_sg1, τ_g2, α_g2, β_g2).
func EncodePublicKey(e curve.Engine, pk *PublicKey) []byte {
	out := make([]byte, 0, 6*e.SizeG1Uncompressed()+3*e.SizeG2Uncompressed())
	out = append(out, e.EncodeG1(pk.TauG1, false)...)
	out = append(out, e.EncodeG1(pk.TauSG1, false)...)
	out = append(out, e.EncodeG1(pk.AlphaG1, false)...)
	out = append(out, e.EncodeG1(pk.AlphaSG1, false)...)
	out = append(out, e.EncodeG1(pk.BetaG1, false)...)
	out = append(out, e.EncodeG1(pk.BetaSG1, false)...)
	out = append(out, e.EncodeG2(pk.TauG2, false)...)
	out = append(out, e.EncodeG2(pk.AlphaG2, false)...)
	out = append(out, e.EncodeG2(pk.BetaG2, false)...)
	return out
}

// DecodePublicKey parses the format EncodePublicKey writes.
func DecodePublicKey(e curve.Engine, buf []byte) (*PublicKey, error) {
	g1sz, g2sz := e.SizeG1Uncompressed(), e.SizeG2Uncompressed()
	want := 6*g1sz + 3*g2sz
	if len(buf) < want {
		return nil, fmt.Errorf("public key: need %d bytes, have %d", want, len(buf))
	}
	var off int
	nextG1 := func() (curve.G1, error) {
		p, err := e.DecodeG1(buf[off : off+g1sz])
		off += g1sz
		return p, err
	}
	nextG2 := func() (curve.G2, error) {
		p, err := e.DecodeG2(buf[off : off+g2sz])
		off += g2sz
		return p, err
	}
	pk := &PublicKey{}
	var err error
	if pk.TauG1, err = nextG1(); err != nil {
		return nil, err
	}
	if pk.TauSG1, err = nextG1(); err != nil {
		return nil, err
	}
	if pk.AlphaG1, err = nextG1(); err != nil {
		return nil, err
	}
	if pk.AlphaSG1, err = nextG1(); err != nil {
		return nil, err
	}
	if pk.BetaG1, err = nextG1(); err != nil {
		return nil, err
	}
	if pk.BetaSG1, err = nextG1(); err != nil {
		return nil, err
	}
	if pk.TauG2, err = nextG2(); err != nil {
		return nil, err
	}
	if pk.AlphaG2, err = nextG2(); err != nil {
		return nil, err
	}
	if pk.BetaG2, err = nextG2(); err != nil {
		return nil, err
	}
	return pk, nil
}
