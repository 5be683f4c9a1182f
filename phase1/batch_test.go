package phase1

import (
	"testing"

	"github.com/giuliop/tauceremony/curve"
)

func TestG1BatchRoundtrip(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine
	g1 := e.G1Generator()
	points := []curve.G1{g1, g1, g1}

	elemSize := e.SizeG1Uncompressed()
	buf := make([]byte, elemSize*len(points))
	WriteG1Batch(e, buf, points, false)

	read, err := ReadG1Batch(e, buf, elemSize, len(points), "tau_g1", 0, false)
	if err != nil {
		t.Fatalf("ReadG1Batch: %v", err)
	}
	for i, p2 := range read {
		if !e.EqualG1(p2, points[i]) {
			t.Errorf("point %d did not roundtrip", i)
		}
	}
}

func TestReadG1BatchRejectsShortBuffer(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine
	elemSize := e.SizeG1Uncompressed()
	buf := make([]byte, elemSize-1)
	if _, err := ReadG1Batch(e, buf, elemSize, 1, "tau_g1", 0, false); err == nil {
		t.Error("expected InvalidLength error for a short buffer")
	}
}

func TestReadG1BatchSubgroupCheckRejectsIdentity(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine
	elemSize := e.SizeG1Uncompressed()
	buf := make([]byte, elemSize)
	// The all-zero uncompressed encoding is not guaranteed to decode to the
	// identity for every curve backend, but Init's generator-fill (tested
	// elsewhere) never produces identity points; this buffer construction
	// here only exercises that a decode failure or identity rejection
	// surfaces as an error rather than a silently accepted point.
	_, err := ReadG1Batch(e, buf, elemSize, 1, "tau_g1", 0, true)
	if err == nil {
		t.Skip("zero buffer happened to decode to a valid non-identity point for this curve")
	}
}

func TestShouldCheckSubgroupAutoResolvesToFirstChunk(t *testing.T) {
	if !shouldCheckSubgroup(SubgroupCheckAuto, true) {
		t.Error("auto should check on the first chunk")
	}
	if shouldCheckSubgroup(SubgroupCheckAuto, false) {
		t.Error("auto should skip non-first chunks")
	}
	if !shouldCheckSubgroup(SubgroupCheckYes, false) {
		t.Error("yes should always check")
	}
	if shouldCheckSubgroup(SubgroupCheckNo, true) {
		t.Error("no should never check")
	}
}
