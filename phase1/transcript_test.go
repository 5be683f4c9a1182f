package phase1

import (
	"bytes"
	"testing"
)

func TestTranscriptHashIsFixedSizeAndDeterministic(t *testing.T) {
	a, err := TranscriptHash([]byte("challenge-one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != HashSize {
		t.Errorf("digest length: got %d, want %d", len(a), HashSize)
	}
	b, err := TranscriptHash([]byte("challenge-one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Error("hashing the same bytes twice produced different digests")
	}

	c, err := TranscriptHash([]byte("challenge-two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == c {
		t.Error("different challenges hashed to the same digest")
	}
}

func TestComputeG2SVariesByIndex(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine
	digest, err := TranscriptHash([]byte("some challenge"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := []byte{1, 2, 3}
	sx := []byte{4, 5, 6}

	tau, err := ComputeG2S(e, digest, s, sx, IndexTau)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alpha, err := ComputeG2S(e, digest, s, sx, IndexAlpha)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.EqualG2(tau, alpha) {
		t.Error("compute_g2_s must be personalized by index: tau and alpha collided")
	}

	tauAgain, err := ComputeG2S(e, digest, s, sx, IndexTau)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.EqualG2(tau, tauAgain) {
		t.Error("compute_g2_s is not deterministic for identical inputs")
	}
}

func TestComputeG2SChangesWithDigest(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine
	d1, _ := TranscriptHash([]byte("a"))
	d2, _ := TranscriptHash([]byte("b"))
	if bytes.Equal(d1[:], d2[:]) {
		t.Fatal("test digests should differ")
	}
	s, sx := []byte{1}, []byte{2}
	g1, err := ComputeG2S(e, d1, s, sx, IndexBeta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g2, err := ComputeG2S(e, d2, s, sx, IndexBeta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.EqualG2(g1, g2) {
		t.Error("compute_g2_s must bind to the transcript digest")
	}
}
