package phase2

import (
	"testing"

	"github.com/giuliop/tauceremony/curve"
)

// trivialPhase1SRS builds the p=1 phase-1 commitments a trivial circuit
// needs directly (rather than by running phase1.Contribute), since a
// domain of size 1 only ever touches index 0 of every array.
func trivialPhase1SRS(t *testing.T, e curve.Engine) (tauG1, tauG2 any, alphaTauG1, betaTauG1 curve.G1, betaG2 curve.G2) {
	t.Helper()
	alphaScalar := e.ScalarFromDigest([]byte("phase2-test-alpha"))
	betaScalar := e.ScalarFromDigest([]byte("phase2-test-beta"))
	g1 := e.G1Generator()
	g2 := e.G2Generator()
	return g1, g2, e.ScalarMulG1(g1, alphaScalar), e.ScalarMulG1(g1, betaScalar), e.ScalarMulG2(g2, betaScalar)
}

// Trivial R1CS (A=B=C=I_1, n=m=1, p=1): new -> contribute(delta) ->
// combine; verify reports a single contribution hash and the final
// delta_g1 equals delta*g1.
func TestPhase2NewContributeVerifyCombineTrivialCircuit(t *testing.T) {
	e := testEngine(t)
	r := trivialR1CS(e)

	tauG1, tauG2, alphaTauG1, betaTauG1, betaG2 := trivialPhase1SRS(t, e)

	initial, err := NewFromBufferChunked(e, r, []curve.G1{tauG1}, []curve.G2{tauG2}, []curve.G1{alphaTauG1}, []curve.G1{betaTauG1}, betaG2)
	if err != nil {
		t.Fatalf("NewFromBufferChunked: %v", err)
	}
	if len(initial.HQuery) != 0 {
		t.Errorf("h_query length = %d, want 0 for p=1", len(initial.HQuery))
	}
	if len(initial.AQuery) != 1 || len(initial.LQuery) != 1 {
		t.Fatalf("expected length-1 query vectors for m=1, got a=%d l=%d", len(initial.AQuery), len(initial.LQuery))
	}
	if len(initial.Contributions) != 0 {
		t.Errorf("fresh parameters should carry no contributions yet")
	}
	if !e.EqualG1(initial.AlphaG1, alphaTauG1) {
		t.Error("alpha_g1 must carry over from phase 1's alphaTauG1[0]")
	}
	if !e.EqualG1(initial.BetaG1, betaTauG1) {
		t.Error("beta_g1 must carry over from phase 1's betaTauG1[0]")
	}

	deltaScalar := e.ScalarFromDigest([]byte("phase2-test-delta"))
	priv := &DeltaPrivateKey{Delta: append([]byte(nil), deltaScalar...)}
	response, err := Contribute(initial, priv)
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if len(response.Contributions) != 1 {
		t.Fatalf("response should carry exactly one contribution, got %d", len(response.Contributions))
	}

	wantDeltaG1 := e.ScalarMulG1(e.G1Generator(), deltaScalar)
	if !e.EqualG1(response.DeltaG1, wantDeltaG1) {
		t.Error("delta_g1 after contribute does not equal delta*g1")
	}

	hashes, err := Verify(initial, response, true)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("Verify returned %d contribution hashes, want 1", len(hashes))
	}

	final, err := Combine(initial, []*MPCParameters{response})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !e.EqualG1(final.DeltaG1, wantDeltaG1) {
		t.Error("combined delta_g1 does not equal delta*g1")
	}
	if len(final.Contributions) != 1 {
		t.Errorf("combined parameters should carry exactly 1 contribution record, got %d", len(final.Contributions))
	}
	if final.CSHash != initial.CSHash {
		t.Error("combine must preserve cs_hash")
	}
}

func TestSplitChunksCarriesQuerySlices(t *testing.T) {
	e := testEngine(t)
	r := trivialR1CS(e)
	tauG1, tauG2, alphaTauG1, betaTauG1, betaG2 := trivialPhase1SRS(t, e)
	initial, err := NewFromBufferChunked(e, r, []curve.G1{tauG1}, []curve.G2{tauG2}, []curve.G1{alphaTauG1}, []curve.G1{betaTauG1}, betaG2)
	if err != nil {
		t.Fatalf("NewFromBufferChunked: %v", err)
	}

	chunks, err := SplitChunks(initial, 1)
	if err != nil {
		t.Fatalf("SplitChunks: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for length-1 queries, got %d", len(chunks))
	}
	if len(chunks[0].LQuery) != 1 || len(chunks[0].HQuery) != 0 {
		t.Errorf("chunk 0 queries: l=%d h=%d, want l=1 h=0", len(chunks[0].LQuery), len(chunks[0].HQuery))
	}
	if chunks[0].CSHash != initial.CSHash {
		t.Error("chunk must carry the parent cs_hash")
	}
	if len(chunks[0].AQuery) != 0 {
		t.Error("chunks must not duplicate the delta-independent a_query")
	}

	if _, err := SplitChunks(initial, 0); err == nil {
		t.Error("expected error for chunk_size 0")
	}
}

func TestVerifyRejectsWrongContributionCount(t *testing.T) {
	e := testEngine(t)
	r := trivialR1CS(e)
	tauG1, tauG2, alphaTauG1, betaTauG1, betaG2 := trivialPhase1SRS(t, e)
	initial, err := NewFromBufferChunked(e, r, []curve.G1{tauG1}, []curve.G2{tauG2}, []curve.G1{alphaTauG1}, []curve.G1{betaTauG1}, betaG2)
	if err != nil {
		t.Fatalf("NewFromBufferChunked: %v", err)
	}
	if _, err := Verify(initial, initial, false); err == nil {
		t.Error("Verify(before, before) should fail: same contribution count")
	}
}
