package phase1

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestGeneratePrivateKeyScalarsAreIndependent(t *testing.T) {
	p := testParams(t, 3, 4)
	k, err := GeneratePrivateKey(p.Engine, rand.Reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(k.Tau, k.Alpha) || bytes.Equal(k.Alpha, k.Beta) || bytes.Equal(k.Tau, k.Beta) {
		t.Error("tau, alpha, beta should not collide")
	}
	k.Zeroize()
	for _, s := range [][]byte{k.Tau, k.Alpha, k.Beta} {
		for _, b := range s {
			if b != 0 {
				t.Error("Zeroize left a non-zero byte")
			}
		}
	}
}

func TestDerivePrivateKeyFromSeedIsDeterministic(t *testing.T) {
	p := testParams(t, 3, 4)
	seed := bytes.Repeat([]byte{0x01}, 32)

	k1, err := DerivePrivateKeyFromSeed(p.Engine, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k2, err := DerivePrivateKeyFromSeed(p.Engine, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(k1.Tau, k2.Tau) || !bytes.Equal(k1.Alpha, k2.Alpha) || !bytes.Equal(k1.Beta, k2.Beta) {
		t.Error("deriving from the same seed twice gave different scalars")
	}

	other, err := DerivePrivateKeyFromSeed(p.Engine, bytes.Repeat([]byte{0x02}, 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(k1.Tau, other.Tau) {
		t.Error("different seeds derived the same tau")
	}
}

func TestPublicKeyEncodeDecodeRoundtrip(t *testing.T) {
	p := testParams(t, 3, 4)
	e := p.Engine
	k, err := GeneratePrivateKey(e, rand.Reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	digest, err := TranscriptHash([]byte("prior challenge"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pub, err := GeneratePublicKey(e, k, digest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := EncodePublicKey(e, pub)
	if len(buf) != p.PublicKeySize() {
		t.Errorf("encoded public key size: got %d, want %d", len(buf), p.PublicKeySize())
	}

	decoded, err := DecodePublicKey(e, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.EqualG1(pub.TauG1, decoded.TauG1) || !e.EqualG1(pub.TauSG1, decoded.TauSG1) {
		t.Error("tau PoK pair did not roundtrip")
	}
	if !e.EqualG2(pub.TauG2, decoded.TauG2) || !e.EqualG2(pub.AlphaG2, decoded.AlphaG2) || !e.EqualG2(pub.BetaG2, decoded.BetaG2) {
		t.Error("G2 components did not roundtrip")
	}
}

func TestDecodePublicKeyRejectsShortBuffer(t *testing.T) {
	p := testParams(t, 3, 4)
	if _, err := DecodePublicKey(p.Engine, make([]byte, 4)); err == nil {
		t.Error("expected error decoding an undersized public key buffer")
	}
}
