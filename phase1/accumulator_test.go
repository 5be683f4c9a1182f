package phase1

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/giuliop/tauceremony/curve"
)

func testRNG(e curve.Engine) ([]byte, error) {
	return e.RandomScalar(rand.Reader)
}

func payloadBuf(t *testing.T, p *Parameters) []byte {
	t.Helper()
	return make([]byte, p.PayloadSize(false))
}

func TestInitThenVerifyRatiosSucceeds(t *testing.T) {
	p := testParams(t, 3, 4)
	buf := payloadBuf(t, p)
	if err := Init(buf, p, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	layout, err := SplitFull(buf, p, Uncompressed)
	if err != nil {
		t.Fatalf("SplitFull: %v", err)
	}
	tauG1, err := ReadG1Batch(p.Engine, layout.TauG1, p.Engine.SizeG1Uncompressed(), 1, "tau_g1", 0, false)
	if err != nil {
		t.Fatalf("ReadG1Batch: %v", err)
	}
	if !p.Engine.EqualG1(tauG1[0], p.Engine.G1Generator()) {
		t.Error("tauG1[0] is not the generator after Init")
	}

	if err := VerifyRatios(buf, p, testRNG); err != nil {
		t.Errorf("VerifyRatios after Init: %v", err)
	}
}

// Contributing with a key derived from seed 0x01..01 must apply tau to
// the second tauG1 element, reproducibly.
func TestContributeWithSeedAppliesTau(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine
	input := payloadBuf(t, p)
	if err := Init(input, p, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	seed := bytes.Repeat([]byte{0x01}, 32)
	priv, err := DerivePrivateKeyFromSeed(e, seed)
	if err != nil {
		t.Fatalf("DerivePrivateKeyFromSeed: %v", err)
	}
	tau := append([]byte(nil), priv.Tau...)

	digest, err := TranscriptHash(input)
	if err != nil {
		t.Fatalf("TranscriptHash: %v", err)
	}
	pub, err := GeneratePublicKey(e, priv, digest)
	if err != nil {
		t.Fatalf("GeneratePublicKey: %v", err)
	}

	output := payloadBuf(t, p)
	if err := Contribute(input, output, priv, p, nil); err != nil {
		t.Fatalf("Contribute: %v", err)
	}

	outLayout, err := SplitFull(output, p, Uncompressed)
	if err != nil {
		t.Fatalf("SplitFull output: %v", err)
	}
	points, err := ReadG1Batch(e, outLayout.TauG1, e.SizeG1Uncompressed(), 2, "tau_g1", 0, false)
	if err != nil {
		t.Fatalf("ReadG1Batch: %v", err)
	}
	want := e.ScalarMulG1(e.G1Generator(), tau)
	if !e.EqualG1(points[1], want) {
		t.Error("tauG1[1] != g1^tau after contributing with the derived key")
	}

	if err := VerifyPoKAndCorrectness(input, output, pub, digest, p, SubgroupCheckYes); err != nil {
		t.Errorf("VerifyPoKAndCorrectness: %v", err)
	}
}

// After two contributions, betaG2 must equal g2^(beta1*beta2).
func TestChainedContributionsComposeBeta(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine

	buf0 := payloadBuf(t, p)
	if err := Init(buf0, p, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	priv1, err := DerivePrivateKeyFromSeed(e, bytes.Repeat([]byte{0x01}, 32))
	if err != nil {
		t.Fatalf("derive 1: %v", err)
	}
	beta1 := append([]byte(nil), priv1.Beta...)
	buf1 := payloadBuf(t, p)
	if err := Contribute(buf0, buf1, priv1, p, nil); err != nil {
		t.Fatalf("Contribute 1: %v", err)
	}

	priv2, err := DerivePrivateKeyFromSeed(e, bytes.Repeat([]byte{0x02}, 32))
	if err != nil {
		t.Fatalf("derive 2: %v", err)
	}
	beta2 := append([]byte(nil), priv2.Beta...)
	buf2 := payloadBuf(t, p)
	if err := Contribute(buf1, buf2, priv2, p, nil); err != nil {
		t.Fatalf("Contribute 2: %v", err)
	}

	layout2, err := SplitFull(buf2, p, Uncompressed)
	if err != nil {
		t.Fatalf("SplitFull: %v", err)
	}
	betaG2Points, err := ReadG2Batch(e, layout2.BetaG2, e.SizeG2Uncompressed(), 1, "beta_g2", 0, false)
	if err != nil {
		t.Fatalf("ReadG2Batch: %v", err)
	}

	combinedBeta := e.MulScalars(beta1, beta2)
	want := e.ScalarMulG2(e.G2Generator(), combinedBeta)
	if !e.EqualG2(betaG2Points[0], want) {
		t.Error("betaG2 after two contributions != g2^(beta1*beta2)")
	}
}

// A single flipped byte in a response must be caught, either as a
// malformed point or as a ratio-check failure.
func TestTamperedTauG1IsDetected(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine

	input := payloadBuf(t, p)
	if err := Init(input, p, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	priv, err := GeneratePrivateKey(e, rand.Reader)
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	output := payloadBuf(t, p)
	if err := Contribute(input, output, priv, p, nil); err != nil {
		t.Fatalf("Contribute: %v", err)
	}

	layout, err := SplitFull(output, p, Uncompressed)
	if err != nil {
		t.Fatalf("SplitFull: %v", err)
	}
	elemSize := e.SizeG1Uncompressed()
	// Flip a byte inside tauG1[5], which participates in the sliding
	// window starting at element 3.
	idx := 5
	layout.TauG1[idx*elemSize] ^= 0xFF

	if err := VerifyRatios(output, p, testRNG); err == nil {
		t.Error("expected VerifyRatios to fail after tampering with tauG1[5]")
	}
}

// Combining chunked output must be byte-identical to a full-mode run
// over the same contribution.
func TestCombineMatchesFullModeOutput(t *testing.T) {
	p := testParams(t, 3, 4) // L=8, G=15
	e := p.Engine

	full := payloadBuf(t, p)
	if err := Init(full, p, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	priv, err := GeneratePrivateKey(e, rand.Reader)
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	contributed := payloadBuf(t, p)
	if err := Contribute(full, contributed, priv, p, nil); err != nil {
		t.Fatalf("Contribute: %v", err)
	}

	fullLayout, err := SplitFull(contributed, p, Uncompressed)
	if err != nil {
		t.Fatalf("SplitFull: %v", err)
	}

	const chunkSize = 4
	g1sz, g2sz := e.SizeG1Uncompressed(), e.SizeG2Uncompressed()
	var chunks [][]byte
	for k := 0; k*chunkSize < p.PowersG1Length(); k++ {
		cp := *p
		cp.Mode = Chunked
		cp.ChunkSize = chunkSize
		cp.ChunkIndex = k
		b := cp.Bounds(k, chunkSize)

		lStart, lEnd := min(b.Start, p.PowersLength()), min(b.End, p.PowersLength())
		var chunk []byte
		chunk = append(chunk, fullLayout.TauG1[b.Start*g1sz:(b.Start+b.G1InChunk)*g1sz]...)
		chunk = append(chunk, fullLayout.TauG2[lStart*g2sz:lEnd*g2sz]...)
		chunk = append(chunk, fullLayout.AlphaG1[lStart*g1sz:lEnd*g1sz]...)
		chunk = append(chunk, fullLayout.BetaG1[lStart*g1sz:lEnd*g1sz]...)
		if k == 0 {
			chunk = append(chunk, fullLayout.BetaG2...)
		}
		chunks = append(chunks, chunk)
	}

	combined := payloadBuf(t, p)
	combineParams := *p
	combineParams.Mode = Full
	combineParams.ChunkSize = chunkSize
	if err := Combine(chunks, combined, &combineParams, false, false); err != nil {
		t.Fatalf("Combine: %v", err)
	}

	if !bytes.Equal(combined, contributed) {
		t.Error("Combine(chunked) != full-mode contribution output")
	}
}

func TestDecompressRoundtrip(t *testing.T) {
	p := testParams(t, 3, 4)
	uncompressed := payloadBuf(t, p)
	if err := Init(uncompressed, p, false); err != nil {
		t.Fatalf("Init uncompressed: %v", err)
	}

	compressed := make([]byte, p.PayloadSize(true))
	if err := Init(compressed, p, true); err != nil {
		t.Fatalf("Init compressed: %v", err)
	}

	decompressed := payloadBuf(t, p)
	if err := Decompress(compressed, decompressed, p); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decompressed, uncompressed) {
		t.Error("decompressing an init'd accumulator did not match an uncompressed Init")
	}
}
