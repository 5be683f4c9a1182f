// Package phase1 implements the powers-of-tau accumulator engine: the
// buffer layout, batch (de)serialization, batch exponentiation, the
// proof-of-knowledge keypair, the transcript digest, and the
// init/contribute/verify/decompress/combine operations built on top of
// them.
package phase1

import (
	"fmt"

	"github.com/giuliop/tauceremony/cerrors"
	"github.com/giuliop/tauceremony/curve"
)

// Mode selects whether a ceremony operation runs against the full
// accumulator or a single chunk of it.
type Mode int

const (
	Full Mode = iota
	Chunked
)

// HashSize is the fixed transcript digest width.
const HashSize = 64

// Parameters is the ceremony descriptor: (curve, power, batch_size,
// chunk_index, chunk_size, mode). Everything else in this file is derived
// from it.
type Parameters struct {
	Engine     curve.Engine
	Power      uint8 // s: powers_length = 2^s
	BatchSize  int
	ChunkIndex int
	ChunkSize  int
	Mode       Mode
	BatchExp   BatchExpMode
}

// PowersLength returns L = 2^s, the length of the τG2/αG1/βG1 arrays.
func (p *Parameters) PowersLength() int { return 1 << p.Power }

// PowersG1Length returns G = 2L-1, the length of the τG1 array. Derived
// once here; every other size computation calls this method rather than
// rederiving 2L-1 inline, so a contribution and the combine that stitches
// it can never disagree about the array length.
func (p *Parameters) PowersG1Length() int { return 2*p.PowersLength() - 1 }

// AccumulatorSize returns the byte size of a full, uncompressed
// accumulator file: a 64-byte digest prefix, G τG1 elements, L elements
// each of τG2/αG1/βG1, the βG2 singleton, and the trailing τ-single
// region (one (s, s·τ) G1 pair and one G2 pair) the wire format reserves
// after the element arrays.
func (p *Parameters) AccumulatorSize() int64 {
	return int64(HashSize) + p.PayloadSize(false)
}

// PayloadSize returns AccumulatorSize minus the digest prefix, at the
// given compression. The last 2·|G1|+2·|G2| bytes are the reserved
// τ-single region; the five-array split never touches it, but it is part
// of the file's declared length and stays in place across contribute,
// decompress and combine.
func (p *Parameters) PayloadSize(compressed bool) int64 {
	g1sz, g2sz := elemSizes(p, compressionOf(compressed))
	L := int64(p.PowersLength())
	G := int64(p.PowersG1Length())
	return G*int64(g1sz) +
		L*int64(g2sz) +
		L*int64(g1sz) +
		L*int64(g1sz) +
		int64(g2sz) +
		2*int64(g1sz) +
		2*int64(g2sz)
}

// PublicKeySize returns the byte size of a participant's public key blob.
func (p *Parameters) PublicKeySize() int {
	e := p.Engine
	return 3*e.SizeG2Uncompressed() + 6*e.SizeG1Uncompressed()
}

// ContributionSize returns the byte size of a (compressed) response file:
// the compressed accumulator plus the trailing public key.
func (p *Parameters) ContributionSize() int64 {
	return int64(HashSize) + p.PayloadSize(true) + int64(p.PublicKeySize())
}

// Validate checks the descriptor's basic invariants: batch_size must be
// at least 2 so a sliding window has somewhere to slide, and in chunked
// mode chunk_size must be positive and chunk_index non-negative.
// chunk_index is not checked against the number of chunks.
func (p *Parameters) Validate() error {
	if p.BatchSize < 2 {
		return cerrors.At(cerrors.ErrInvalidChunk, "params", p.ChunkIndex,
			"batch_size must be >= 2, got %d", p.BatchSize)
	}
	if p.Mode == Chunked {
		if p.ChunkSize <= 0 {
			return cerrors.At(cerrors.ErrInvalidChunk, "params", p.ChunkIndex,
				"chunk_size must be > 0 in chunked mode, got %d", p.ChunkSize)
		}
		if p.ChunkIndex < 0 {
			return cerrors.At(cerrors.ErrInvalidChunk, "params", p.ChunkIndex,
				"negative chunk_index")
		}
	}
	return nil
}

// ChunkBounds computes, for chunk index k of size c, the [start, end)
// element range within the full-length τG1 array and within the shared
// L-length arrays (τG2/αG1/βG1).
type ChunkBounds struct {
	Start        int
	End          int
	G1InChunk    int // element count in this chunk for the G-length array
	OtherInChunk int // element count in this chunk for the L-length arrays
}

// Bounds computes the chunk bounds for chunk k of c elements; a c of 0 or
// less falls back to this Parameters' chunk_size.
func (p *Parameters) Bounds(k int, c int) ChunkBounds {
	if c <= 0 {
		c = p.ChunkSize
	}
	G := p.PowersG1Length()
	L := p.PowersLength()
	start := k * c
	end := (k + 1) * c

	g1InChunk := min(end, G) - start
	if g1InChunk < 0 {
		g1InChunk = 0
	}
	otherInChunk := min(end, L) - min(start, L)
	if otherInChunk < 0 {
		otherInChunk = 0
	}
	return ChunkBounds{Start: start, End: end, G1InChunk: g1InChunk, OtherInChunk: otherInChunk}
}

// Window describes one batch window in the sliding-window ratio check: a
// half-open element range [Start, End) that overlaps the next window by
// exactly one element.
type Window struct {
	Start, End int
}

// Windows partitions [0, length) into windows of size (batchSize-1) with a
// trailing +1 overlap between consecutive windows, so the verifier's
// sliding ratio checks cover every adjacent element pair.
func Windows(length, batchSize int) []Window {
	if length <= 1 {
		return nil
	}
	step := batchSize - 1
	if step < 1 {
		step = 1
	}
	var out []Window
	for start := 0; start < length-1; start += step {
		end := start + step + 1
		if end > length {
			end = length
		}
		out = append(out, Window{Start: start, End: end})
		if end == length {
			break
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// String renders the descriptor for log lines.
func (p *Parameters) String() string {
	return fmt.Sprintf("curve=%s power=%d L=%d G=%d batch=%d mode=%v chunk=%d/%d",
		p.Engine.Kind(), p.Power, p.PowersLength(), p.PowersG1Length(),
		p.BatchSize, p.Mode, p.ChunkIndex, p.ChunkSize)
}
