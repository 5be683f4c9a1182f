package phase2

import (
	"testing"

	"github.com/giuliop/tauceremony/curve"
)

func buildTrivialInitial(t *testing.T) (*MPCParameters, curve.Engine) {
	t.Helper()
	e := testEngine(t)
	r := trivialR1CS(e)
	tauG1, tauG2, alphaTauG1, betaTauG1, betaG2 := trivialPhase1SRS(t, e)
	initial, err := NewFromBufferChunked(e, r, []curve.G1{tauG1}, []curve.G2{tauG2}, []curve.G1{alphaTauG1}, []curve.G1{betaTauG1}, betaG2)
	if err != nil {
		t.Fatalf("NewFromBufferChunked: %v", err)
	}
	return initial, e
}

// Tamper: re-scale one l_query entry by a factor the contribution does
// not account for, so the batched scaling check must catch the mismatch.
func TestVerifyRejectsTamperedQueryScaling(t *testing.T) {
	initial, e := buildTrivialInitial(t)
	priv, err := GenerateDeltaPrivateKey(e, deterministicReader{})
	if err != nil {
		t.Fatalf("GenerateDeltaPrivateKey: %v", err)
	}
	response, err := Contribute(initial, priv)
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}

	// Corrupt l_query[0] by re-scaling it by an extra, unaccounted factor.
	extra := e.ScalarFromDigest([]byte("tamper"))
	response.LQuery[0] = e.ScalarMulG1(response.LQuery[0], extra)

	if _, err := Verify(initial, response, false); err == nil {
		t.Error("Verify should reject a tampered l_query entry")
	}
}

// Tamper: replace after.delta_g2 with an unrelated scaling of
// before.delta_g2, so it is no longer delta_g2^delta' for the delta'
// proven by the contribution's PoK.
func TestVerifyRejectsTamperedDeltaG2(t *testing.T) {
	initial, e := buildTrivialInitial(t)
	priv, err := GenerateDeltaPrivateKey(e, deterministicReader{})
	if err != nil {
		t.Fatalf("GenerateDeltaPrivateKey: %v", err)
	}
	response, err := Contribute(initial, priv)
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}

	wrongScalar := e.ScalarFromDigest([]byte("wrong-delta-g2-scaling"))
	response.DeltaG2 = e.ScalarMulG2(initial.DeltaG2, wrongScalar)

	if _, err := Verify(initial, response, false); err == nil {
		t.Error("Verify should reject a delta_g2 not scaled by the contribution's delta'")
	}
}

func TestVerifyRejectsMismatchedCSHash(t *testing.T) {
	initial, e := buildTrivialInitial(t)
	priv, err := GenerateDeltaPrivateKey(e, deterministicReader{})
	if err != nil {
		t.Fatalf("GenerateDeltaPrivateKey: %v", err)
	}
	response, err := Contribute(initial, priv)
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	response.CSHash[0] ^= 0xff

	if _, err := Verify(initial, response, false); err == nil {
		t.Error("Verify should reject a response with a different cs_hash")
	}
}

// deterministicReader supplies a fixed, non-zero byte stream, avoiding a
// dependency on crypto/rand for a reproducible unit test.
type deterministicReader struct{}

func (deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(i + 7)
	}
	return len(p), nil
}
