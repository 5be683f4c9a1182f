package phase1

import "testing"

func TestSplitFullSizesAndOrder(t *testing.T) {
	p := testParams(t, 3, 4)
	buf := make([]byte, p.AccumulatorSize())
	layout, err := SplitFull(buf[HashSize:], p, Uncompressed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := p.Engine
	L, G := p.PowersLength(), p.PowersG1Length()
	if got, want := len(layout.TauG1), G*e.SizeG1Uncompressed(); got != want {
		t.Errorf("TauG1 len: got %d, want %d", got, want)
	}
	if got, want := len(layout.TauG2), L*e.SizeG2Uncompressed(); got != want {
		t.Errorf("TauG2 len: got %d, want %d", got, want)
	}
	if got, want := len(layout.AlphaG1), L*e.SizeG1Uncompressed(); got != want {
		t.Errorf("AlphaG1 len: got %d, want %d", got, want)
	}
	if got, want := len(layout.BetaG1), L*e.SizeG1Uncompressed(); got != want {
		t.Errorf("BetaG1 len: got %d, want %d", got, want)
	}
	if got, want := len(layout.BetaG2), e.SizeG2Uncompressed(); got != want {
		t.Errorf("BetaG2 len: got %d, want %d", got, want)
	}
}

func TestSplitFullTooSmallFails(t *testing.T) {
	p := testParams(t, 3, 4)
	buf := make([]byte, 10)
	if _, err := SplitFull(buf, p, Uncompressed); err == nil {
		t.Error("expected size-mismatch error for undersized buffer")
	}
}

// start >= L leaves τG2/αG1/βG1 empty for a chunk while τG1 is still
// non-empty, since G = 2L-1 > L.
func TestSplitChunkEdgeCaseGGreaterThanL(t *testing.T) {
	p := testParams(t, 3, 4) // L=8, G=15
	p.Mode = Chunked
	p.ChunkSize = 8
	p.ChunkIndex = 1 // start=8, end=16: other_in_chunk=0, g1_in_chunk=7

	e := p.Engine
	g1sz := e.SizeG1Uncompressed()
	buf := make([]byte, 7*g1sz)
	layout, err := SplitChunk(buf, p, Uncompressed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layout.TauG1) != 7*g1sz {
		t.Errorf("TauG1 len: got %d, want %d", len(layout.TauG1), 7*g1sz)
	}
	if len(layout.TauG2) != 0 || len(layout.AlphaG1) != 0 || len(layout.BetaG1) != 0 {
		t.Errorf("expected empty L-arrays past L: tauG2=%d alphaG1=%d betaG1=%d",
			len(layout.TauG2), len(layout.AlphaG1), len(layout.BetaG1))
	}
	if len(layout.BetaG2) != 0 {
		t.Errorf("betaG2 must only appear in chunk 0, got %d bytes", len(layout.BetaG2))
	}
}

func TestSplitChunkZeroHasBetaG2(t *testing.T) {
	p := testParams(t, 3, 4)
	p.Mode = Chunked
	p.ChunkSize = 8
	p.ChunkIndex = 0

	e := p.Engine
	g1sz, g2sz := e.SizeG1Uncompressed(), e.SizeG2Uncompressed()
	buf := make([]byte, 8*g1sz+8*g2sz+8*g1sz+8*g1sz+g2sz)
	layout, err := SplitChunk(buf, p, Uncompressed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layout.BetaG2) != g2sz {
		t.Errorf("expected betaG2 singleton in chunk 0, got %d bytes", len(layout.BetaG2))
	}
}

func TestElemSizesCompressedVsUncompressed(t *testing.T) {
	p := testParams(t, 3, 4)
	g1c, g2c := elemSizes(p, Compressed)
	g1u, g2u := elemSizes(p, Uncompressed)
	if g1c >= g1u || g2c >= g2u {
		t.Errorf("compressed sizes should be smaller: g1 %d/%d g2 %d/%d", g1c, g1u, g2c, g2u)
	}
}
