package phase2

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/giuliop/tauceremony/curve"
	"github.com/giuliop/tauceremony/phase1"
)

// ContributionRecord is one entry in a parameters file's PoK list: the
// public key proving knowledge of that round's delta' plus the transcript
// hash it was bound to.
type ContributionRecord struct {
	PublicKey      *DeltaPublicKey
	TranscriptHash [phase1.HashSize]byte
}

// DeltaPublicKey is phase-2's single-scalar analogue of phase1.PublicKey:
// a Schnorr-style (s, s*delta') pair in G1 plus its G2 counterpart, bound
// to the transcript digest via phase1.ComputeG2S with IndexDelta.
type DeltaPublicKey struct {
	S, SDelta curve.G1
	DeltaG2   curve.G2
}

// MPCParameters is the Groth16-specific SRS produced by phase 2: the
// query vectors a circuit's prover needs, plus the running delta and the
// chain of contributions that shaped it.
type MPCParameters struct {
	Engine curve.Engine

	AlphaG1, BetaG1, DeltaG1 curve.G1
	BetaG2, DeltaG2          curve.G2

	AQuery   []curve.G1
	BG1Query []curve.G1
	BG2Query []curve.G2
	HQuery   []curve.G1
	LQuery   []curve.G1

	CSHash        [phase1.HashSize]byte
	Contributions []ContributionRecord
}

// CircuitHash computes cs_hash = BLAKE2b(A||B||C) over a canonical byte
// encoding of the R1CS matrices.
func CircuitHash(r *R1CS) ([phase1.HashSize]byte, error) {
	var out [phase1.HashSize]byte
	h, err := blake2b.New(phase1.HashSize, nil)
	if err != nil {
		return out, fmt.Errorf("circuit hash: %w", err)
	}
	for _, rows := range [][][]Term{r.A, r.B, r.C} {
		for _, row := range rows {
			var lenBuf [8]byte
			binary.BigEndian.PutUint64(lenBuf[:], uint64(len(row)))
			h.Write(lenBuf[:])
			for _, t := range row {
				var idxBuf [8]byte
				binary.BigEndian.PutUint64(idxBuf[:], uint64(t.Index))
				h.Write(idxBuf[:])
				h.Write(t.Coeff)
			}
		}
	}
	copy(out[:], h.Sum(nil))
	return out, nil
}

// EncodeG1Vector serializes a slice of G1 points back to back, compressed
// or uncompressed per compressed.
func EncodeG1Vector(e curve.Engine, points []curve.G1, compressed bool) []byte {
	elemSize := e.SizeG1Compressed()
	if !compressed {
		elemSize = e.SizeG1Uncompressed()
	}
	out := make([]byte, len(points)*elemSize)
	for i, p := range points {
		copy(out[i*elemSize:(i+1)*elemSize], e.EncodeG1(p, compressed))
	}
	return out
}

// EncodeG2Vector is EncodeG1Vector's G2 counterpart.
func EncodeG2Vector(e curve.Engine, points []curve.G2, compressed bool) []byte {
	elemSize := e.SizeG2Compressed()
	if !compressed {
		elemSize = e.SizeG2Uncompressed()
	}
	out := make([]byte, len(points)*elemSize)
	for i, p := range points {
		copy(out[i*elemSize:(i+1)*elemSize], e.EncodeG2(p, compressed))
	}
	return out
}

// DecodeG1Vector parses EncodeG1Vector's format, decoding exactly count
// elements from buf.
func DecodeG1Vector(e curve.Engine, buf []byte, count int, compressed bool) ([]curve.G1, error) {
	elemSize := e.SizeG1Compressed()
	if !compressed {
		elemSize = e.SizeG1Uncompressed()
	}
	if len(buf) < elemSize*count {
		return nil, fmt.Errorf("g1 vector: need %d bytes for %d elements, have %d", elemSize*count, count, len(buf))
	}
	out := make([]curve.G1, count)
	for i := 0; i < count; i++ {
		p, err := e.DecodeG1(buf[i*elemSize : (i+1)*elemSize])
		if err != nil {
			return nil, fmt.Errorf("g1 vector[%d]: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// DecodeG2Vector is DecodeG1Vector's G2 counterpart.
func DecodeG2Vector(e curve.Engine, buf []byte, count int, compressed bool) ([]curve.G2, error) {
	elemSize := e.SizeG2Compressed()
	if !compressed {
		elemSize = e.SizeG2Uncompressed()
	}
	if len(buf) < elemSize*count {
		return nil, fmt.Errorf("g2 vector: need %d bytes for %d elements, have %d", elemSize*count, count, len(buf))
	}
	out := make([]curve.G2, count)
	for i := 0; i < count; i++ {
		p, err := e.DecodeG2(buf[i*elemSize : (i+1)*elemSize])
		if err != nil {
			return nil, fmt.Errorf("g2 vector[%d]: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
