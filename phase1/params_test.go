package phase1

import (
	"testing"

	"github.com/giuliop/tauceremony/curve"
)

func testParams(t *testing.T, power uint8, batch int) *Parameters {
	t.Helper()
	e, ok := curve.Lookup(curve.BLS12_377)
	if !ok {
		t.Fatal("bls12_377 engine not registered")
	}
	return &Parameters{Engine: e, Power: power, BatchSize: batch, Mode: Full}
}

// power=3 gives L=8 and G=15.
func TestParametersDerivedSizes(t *testing.T) {
	p := testParams(t, 3, 4)
	if got, want := p.PowersLength(), 8; got != want {
		t.Errorf("PowersLength: got %d, want %d", got, want)
	}
	if got, want := p.PowersG1Length(), 15; got != want {
		t.Errorf("PowersG1Length: got %d, want %d", got, want)
	}
	// 64 + 15*96 + 8*192 + 8*96 + 8*96 + 192, plus the reserved tau-single
	// region 2*96 + 2*192 = 5,344 bytes.
	if got, want := p.AccumulatorSize(), int64(5_344); got != want {
		t.Errorf("AccumulatorSize: got %d, want %d", got, want)
	}
	wantContribution := int64(HashSize) +
		15*48 + 8*(96+2*48) + 96 + 2*48 + 2*96 +
		int64(p.PublicKeySize())
	if got := p.ContributionSize(); got != wantContribution {
		t.Errorf("ContributionSize: got %d, want %d", got, wantContribution)
	}
}

func TestParametersValidate(t *testing.T) {
	p := testParams(t, 3, 1)
	if err := p.Validate(); err == nil {
		t.Error("expected error for batch_size < 2")
	}

	p = testParams(t, 3, 4)
	p.Mode = Chunked
	p.ChunkSize = 0
	if err := p.Validate(); err == nil {
		t.Error("expected error for zero chunk_size in chunked mode")
	}

	p.ChunkSize = 4
	p.ChunkIndex = -1
	if err := p.Validate(); err == nil {
		t.Error("expected error for negative chunk_index")
	}

	p.ChunkIndex = 0
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// g1_in_chunk / other_in_chunk behavior at the L boundary.
func TestParametersBounds(t *testing.T) {
	p := testParams(t, 3, 4) // L=8, G=15
	p.Mode = Chunked
	p.ChunkSize = 8

	b0 := p.Bounds(0, 8)
	if b0.Start != 0 || b0.End != 8 || b0.G1InChunk != 8 || b0.OtherInChunk != 8 {
		t.Errorf("chunk 0 bounds: %+v", b0)
	}

	b1 := p.Bounds(1, 8)
	// start=8 == L, so other_in_chunk=0, but g1_in_chunk covers [8,15) -> 7.
	if b1.Start != 8 || b1.End != 16 || b1.G1InChunk != 7 || b1.OtherInChunk != 0 {
		t.Errorf("chunk 1 bounds: %+v", b1)
	}
}

func TestWindowsOverlapByOneElement(t *testing.T) {
	ws := Windows(8, 4)
	if len(ws) == 0 {
		t.Fatal("expected at least one window")
	}
	for i := 1; i < len(ws); i++ {
		if ws[i].Start != ws[i-1].End-1 {
			t.Errorf("window %d does not overlap previous by exactly one element: prev=%+v cur=%+v",
				i, ws[i-1], ws[i])
		}
	}
	if ws[len(ws)-1].End != 8 {
		t.Errorf("last window must reach length: %+v", ws[len(ws)-1])
	}
}

func TestWindowsShortLengthIsNil(t *testing.T) {
	if ws := Windows(1, 4); ws != nil {
		t.Errorf("expected no windows for length <= 1, got %+v", ws)
	}
	if ws := Windows(0, 4); ws != nil {
		t.Errorf("expected no windows for length <= 1, got %+v", ws)
	}
}
