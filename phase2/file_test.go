package phase2

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	initial, e := buildTrivialInitial(t)
	priv, err := GenerateDeltaPrivateKey(e, deterministicReader{})
	if err != nil {
		t.Fatalf("GenerateDeltaPrivateKey: %v", err)
	}
	response, err := Contribute(initial, priv)
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}

	buf, err := Encode(response, false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !e.EqualG1(got.DeltaG1, response.DeltaG1) {
		t.Error("decoded delta_g1 does not match")
	}
	if !e.EqualG2(got.DeltaG2, response.DeltaG2) {
		t.Error("decoded delta_g2 does not match")
	}
	if got.CSHash != response.CSHash {
		t.Error("decoded cs_hash does not match")
	}
	if len(got.Contributions) != len(response.Contributions) {
		t.Fatalf("decoded contribution count = %d, want %d", len(got.Contributions), len(response.Contributions))
	}
	if got.Contributions[0].TranscriptHash != response.Contributions[0].TranscriptHash {
		t.Error("decoded contribution transcript hash does not match")
	}
}

func TestR1CSJSONRoundTrip(t *testing.T) {
	e := testEngine(t)
	r := trivialR1CS(e)
	buf, err := EncodeR1CSJSON(r)
	if err != nil {
		t.Fatalf("EncodeR1CSJSON: %v", err)
	}
	got, err := DecodeR1CSJSON(buf)
	if err != nil {
		t.Fatalf("DecodeR1CSJSON: %v", err)
	}
	if got.NumConstraints() != r.NumConstraints() || got.NumVariables() != r.NumVariables() {
		t.Errorf("round trip shape mismatch: got n=%d m=%d, want n=%d m=%d",
			got.NumConstraints(), got.NumVariables(), r.NumConstraints(), r.NumVariables())
	}
}
