package phase1

import "github.com/giuliop/tauceremony/cerrors"

// Layout is the five disjoint sub-slices of a serialized accumulator
// buffer, in fixed order: τG1, τG2, αG1, βG1, βG2. Each sub-slice is owned, borrowed, and non-overlapping with
// the others by construction -- the parallel batch tasks in accumulator.go
// write to these directly without further synchronization.
type Layout struct {
	TauG1   []byte
	TauG2   []byte
	AlphaG1 []byte
	BetaG1  []byte
	BetaG2  []byte
}

// Compression selects the per-element byte width used when slicing a
// buffer.
type Compression int

const (
	Compressed Compression = iota
	Uncompressed
)

func elemSizes(p *Parameters, c Compression) (g1, g2 int) {
	if c == Compressed {
		return p.Engine.SizeG1Compressed(), p.Engine.SizeG2Compressed()
	}
	return p.Engine.SizeG1Uncompressed(), p.Engine.SizeG2Uncompressed()
}

// SplitFull slices a full-length accumulator buffer (minus its leading
// 64-byte digest) into the five arrays, spanning the entire SRS.
func SplitFull(buf []byte, p *Parameters, c Compression) (Layout, error) {
	g1sz, g2sz := elemSizes(p, c)
	L, G := p.PowersLength(), p.PowersG1Length()

	want := int64(G)*int64(g1sz) + int64(L)*int64(g2sz) + int64(L)*int64(g1sz) +
		int64(L)*int64(g1sz) + int64(g2sz)
	if int64(len(buf)) < want {
		return Layout{}, cerrors.At(cerrors.ErrSizeMismatch, "layout", 0,
			"full buffer too small: have %d want >= %d", len(buf), want)
	}

	var off int
	next := func(n int) []byte {
		s := buf[off : off+n]
		off += n
		return s
	}

	out := Layout{
		TauG1:   next(G * g1sz),
		TauG2:   next(L * g2sz),
		AlphaG1: next(L * g1sz),
		BetaG1:  next(L * g1sz),
		BetaG2:  next(g2sz),
	}
	return out, nil
}

// SplitChunk slices a chunk-sized buffer (the bytes for chunk k alone,
// already stripped of any digest prefix) into the five arrays, each sized
// to exactly that chunk's element count (the "chunk view"). τG2/αG1/βG1
// may be empty when start >= L while τG1 is still non-empty, since G > L.
func SplitChunk(buf []byte, p *Parameters, c Compression) (Layout, error) {
	g1sz, g2sz := elemSizes(p, c)
	b := p.Bounds(p.ChunkIndex, p.ChunkSize)

	g1Count := b.G1InChunk
	otherCount := b.OtherInChunk
	// βG2 is only ever present in chunk 0.
	betaG2Count := 0
	if p.ChunkIndex == 0 {
		betaG2Count = 1
	}

	want := int64(g1Count)*int64(g1sz) + int64(otherCount)*int64(g2sz) +
		int64(otherCount)*int64(g1sz) + int64(otherCount)*int64(g1sz) +
		int64(betaG2Count)*int64(g2sz)
	if int64(len(buf)) < want {
		return Layout{}, cerrors.At(cerrors.ErrSizeMismatch, "layout", p.ChunkIndex,
			"chunk buffer too small: have %d want >= %d", len(buf), want)
	}

	var off int
	next := func(n int) []byte {
		s := buf[off : off+n]
		off += n
		return s
	}

	out := Layout{
		TauG1:   next(g1Count * g1sz),
		TauG2:   next(otherCount * g2sz),
		AlphaG1: next(otherCount * g1sz),
		BetaG1:  next(otherCount * g1sz),
		BetaG2:  next(betaG2Count * g2sz),
	}
	return out, nil
}

// Split picks SplitFull or SplitChunk based on p.Mode.
func Split(buf []byte, p *Parameters, c Compression) (Layout, error) {
	if p.Mode == Chunked {
		return SplitChunk(buf, p, c)
	}
	return SplitFull(buf, p, c)
}
