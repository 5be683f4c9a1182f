package phase2

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/giuliop/tauceremony/curve"
	"github.com/giuliop/tauceremony/internal/zero"
	"github.com/giuliop/tauceremony/phase1"
)

// DeltaPrivateKey holds the single secret scalar delta' a phase-2
// contribution samples. Like phase1.PrivateKey it must be created, used,
// and zeroized within a single Contribute call.
type DeltaPrivateKey struct {
	Delta []byte
}

// Zeroize scrubs delta'. Safe to call more than once.
func (k *DeltaPrivateKey) Zeroize() {
	zero.Bytes(k.Delta)
}

// GenerateDeltaPrivateKey samples delta' uniformly from the scalar field.
func GenerateDeltaPrivateKey(e curve.Engine, r io.Reader) (*DeltaPrivateKey, error) {
	delta, err := e.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("sample delta: %w", err)
	}
	return &DeltaPrivateKey{Delta: delta}, nil
}

// DeriveDeltaPrivateKeyFromSeed derives delta' deterministically from a
// seed, mirroring phase1.DerivePrivateKeyFromSeed -- used for
// BeaconContribute and for reproducible tests.
func DeriveDeltaPrivateKeyFromSeed(e curve.Engine, seed []byte) (*DeltaPrivateKey, error) {
	digest, err := phase1.TranscriptHash(append([]byte("tauceremony-seed-delta"), seed...))
	if err != nil {
		return nil, err
	}
	return &DeltaPrivateKey{Delta: e.ScalarFromDigest(digest[:])}, nil
}

// TranscriptHash hashes a canonical byte encoding of the parameter set's
// delta-dependent and delta-independent state -- the digest every
// contribution's delta PoK is bound to. It covers every field so a
// contribution can only be replayed against the exact state it claims to
// follow.
func TranscriptHash(params *MPCParameters) ([phase1.HashSize]byte, error) {
	var out [phase1.HashSize]byte
	e := params.Engine
	h, err := blake2b.New(phase1.HashSize, nil)
	if err != nil {
		return out, fmt.Errorf("phase2 transcript hash: %w", err)
	}
	h.Write(e.EncodeG1(params.AlphaG1, true))
	h.Write(e.EncodeG1(params.BetaG1, true))
	h.Write(e.EncodeG2(params.BetaG2, true))
	h.Write(e.EncodeG1(params.DeltaG1, true))
	h.Write(e.EncodeG2(params.DeltaG2, true))
	h.Write(EncodeG1Vector(e, params.AQuery, true))
	h.Write(EncodeG1Vector(e, params.BG1Query, true))
	h.Write(EncodeG2Vector(e, params.BG2Query, true))
	h.Write(EncodeG1Vector(e, params.HQuery, true))
	h.Write(EncodeG1Vector(e, params.LQuery, true))
	h.Write(params.CSHash[:])
	for _, c := range params.Contributions {
		h.Write(EncodeDeltaPublicKey(e, c.PublicKey))
		h.Write(c.TranscriptHash[:])
	}
	copy(out[:], h.Sum(nil))
	return out, nil
}

// EncodeDeltaPublicKey serializes a DeltaPublicKey as 2*|G1|+|G2|
// uncompressed bytes, in field order (s, s_delta, delta_g2).
func EncodeDeltaPublicKey(e curve.Engine, pk *DeltaPublicKey) []byte {
	out := make([]byte, 0, 2*e.SizeG1Uncompressed()+e.SizeG2Uncompressed())
	out = append(out, e.EncodeG1(pk.S, false)...)
	out = append(out, e.EncodeG1(pk.SDelta, false)...)
	out = append(out, e.EncodeG2(pk.DeltaG2, false)...)
	return out
}

// DecodeDeltaPublicKey parses the format EncodeDeltaPublicKey writes.
func DecodeDeltaPublicKey(e curve.Engine, buf []byte) (*DeltaPublicKey, error) {
	g1sz, g2sz := e.SizeG1Uncompressed(), e.SizeG2Uncompressed()
	want := 2*g1sz + g2sz
	if len(buf) < want {
		return nil, fmt.Errorf("delta public key: need %d bytes, have %d", want, len(buf))
	}
	s, err := e.DecodeG1(buf[0:g1sz])
	if err != nil {
		return nil, err
	}
	sDelta, err := e.DecodeG1(buf[g1sz : 2*g1sz])
	if err != nil {
		return nil, err
	}
	deltaG2, err := e.DecodeG2(buf[2*g1sz : 2*g1sz+g2sz])
	if err != nil {
		return nil, err
	}
	return &DeltaPublicKey{S: s, SDelta: sDelta, DeltaG2: deltaG2}, nil
}

// Contribute applies a fresh delta' to before, returning the resulting
// parameters: delta_new = delta * delta', l_query and h_query scaled by
// delta'^-1, delta_g1/delta_g2 scaled by delta', and a new PoK record
// appended proving knowledge of delta' bound to before's transcript
// hash.
func Contribute(before *MPCParameters, priv *DeltaPrivateKey) (after *MPCParameters, err error) {
	defer priv.Zeroize()

	e := before.Engine
	digest, err := TranscriptHash(before)
	if err != nil {
		return nil, err
	}

	deltaInv, err := e.InvertScalar(priv.Delta)
	if err != nil {
		return nil, fmt.Errorf("invert delta: %w", err)
	}

	hQuery := make([]curve.G1, len(before.HQuery))
	for i, p := range before.HQuery {
		hQuery[i] = e.ScalarMulG1(p, deltaInv)
	}
	lQuery := make([]curve.G1, len(before.LQuery))
	for i, p := range before.LQuery {
		lQuery[i] = e.ScalarMulG1(p, deltaInv)
	}

	deltaG1 := e.ScalarMulG1(before.DeltaG1, priv.Delta)
	deltaG2 := e.ScalarMulG2(before.DeltaG2, priv.Delta)

	s, err := e.RandomScalar(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("sample s: %w", err)
	}
	sPoint := e.ScalarMulG1(e.G1Generator(), s)
	sDelta := e.ScalarMulG1(sPoint, priv.Delta)
	sBytes := e.EncodeG1(sPoint, true)
	sDeltaBytes := e.EncodeG1(sDelta, true)
	g2s, err := phase1.ComputeG2S(e, digest, sBytes, sDeltaBytes, phase1.IndexDelta)
	if err != nil {
		return nil, err
	}
	deltaG2Pub := e.ScalarMulG2(g2s, priv.Delta)
	zero.Bytes(s)

	record := ContributionRecord{
		PublicKey:      &DeltaPublicKey{S: sPoint, SDelta: sDelta, DeltaG2: deltaG2Pub},
		TranscriptHash: digest,
	}

	contributions := make([]ContributionRecord, len(before.Contributions), len(before.Contributions)+1)
	copy(contributions, before.Contributions)
	contributions = append(contributions, record)

	return &MPCParameters{
		Engine:        e,
		AlphaG1:       before.AlphaG1,
		BetaG1:        before.BetaG1,
		DeltaG1:       deltaG1,
		BetaG2:        before.BetaG2,
		DeltaG2:       deltaG2,
		AQuery:        before.AQuery,
		BG1Query:      before.BG1Query,
		BG2Query:      before.BG2Query,
		HQuery:        hQuery,
		LQuery:        lQuery,
		CSHash:        before.CSHash,
		Contributions: contributions,
	}, nil
}

// BeaconContribute is Contribute seeded from public beacon randomness
// instead of a CSPRNG draw, so any verifier can recompute it and confirm
// it was not biased by a participant who knew the randomness in advance.
func BeaconContribute(before *MPCParameters, beacon []byte) (*MPCParameters, error) {
	priv, err := DeriveDeltaPrivateKeyFromSeed(before.Engine, beacon)
	if err != nil {
		return nil, err
	}
	return Contribute(before, priv)
}
