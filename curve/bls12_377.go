package curve

import (
	"fmt"
	"io"
	"math/big"

	bls12377 "github.com/consensys/gnark-crypto/ecc/bls12-377"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr/fft"
)

func init() {
	register(BLS12_377, bls12377Engine{})
}

// bls12377Engine implements Engine over gnark-crypto's bls12-377 package.
// BLS12-377 is the curve whose base field is BW6-761's scalar field,
// enabling one-layer-of-recursion SNARKs (see bw6_761.go).
type bls12377Engine struct{}

func (bls12377Engine) Kind() Kind { return BLS12_377 }

func (bls12377Engine) SizeFr() int             { return fr.Bytes }
func (bls12377Engine) SizeG1Compressed() int   { return bls12377.SizeOfG1AffineCompressed }
func (bls12377Engine) SizeG1Uncompressed() int { return bls12377.SizeOfG1AffineUncompressed }
func (bls12377Engine) SizeG2Compressed() int   { return bls12377.SizeOfG2AffineCompressed }
func (bls12377Engine) SizeG2Uncompressed() int { return bls12377.SizeOfG2AffineUncompressed }

func (bls12377Engine) G1Generator() G1 {
	_, _, g1, _ := bls12377.Generators()
	return g1
}

func (bls12377Engine) G2Generator() G2 {
	_, _, _, g2 := bls12377.Generators()
	return g2
}

func (bls12377Engine) EncodeG1(p G1, compressed bool) []byte {
	a := p.(bls12377.G1Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bls12377Engine) EncodeG2(p G2, compressed bool) []byte {
	a := p.(bls12377.G2Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bls12377Engine) DecodeG1(buf []byte) (G1, error) {
	var a bls12377.G1Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g1: %w", err)
	}
	return a, nil
}

func (bls12377Engine) DecodeG2(buf []byte) (G2, error) {
	var a bls12377.G2Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g2: %w", err)
	}
	return a, nil
}

func (bls12377Engine) IsIdentityG1(p G1) bool { a := p.(bls12377.G1Affine); return a.IsInfinity() }
func (bls12377Engine) IsIdentityG2(p G2) bool { a := p.(bls12377.G2Affine); return a.IsInfinity() }

func (bls12377Engine) EqualG1(x, y G1) bool {
	a, b := x.(bls12377.G1Affine), y.(bls12377.G1Affine)
	return a.Equal(&b)
}

func (bls12377Engine) EqualG2(x, y G2) bool {
	a, b := x.(bls12377.G2Affine), y.(bls12377.G2Affine)
	return a.Equal(&b)
}

func (bls12377Engine) InSubgroupG1(p G1) bool {
	a := p.(bls12377.G1Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bls12377.G1Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bls12377Engine) InSubgroupG2(p G2) bool {
	a := p.(bls12377.G2Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bls12377.G2Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bls12377Engine) ScalarMulG1(p G1, scalar []byte) G1 {
	a := p.(bls12377.G1Affine)
	var res bls12377.G1Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bls12377Engine) ScalarMulG2(p G2, scalar []byte) G2 {
	a := p.(bls12377.G2Affine)
	var res bls12377.G2Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bls12377Engine) MultiExpG1(points []G1, scalars [][]byte) (G1, error) {
	affs := make([]bls12377.G1Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bls12377.G1Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bls12377.G1Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g1: %w", err)
	}
	return res, nil
}

func (bls12377Engine) MultiExpG2(points []G2, scalars [][]byte) (G2, error) {
	affs := make([]bls12377.G2Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bls12377.G2Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bls12377.G2Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g2: %w", err)
	}
	return res, nil
}

func (bls12377Engine) SameRatio(a1, a2 G1, b1, b2 G2) (bool, error) {
	x1 := a1.(bls12377.G1Affine)
	x2 := a2.(bls12377.G1Affine)
	y1 := b1.(bls12377.G2Affine)
	y2 := b2.(bls12377.G2Affine)

	var negX2 bls12377.G1Affine
	negX2.Neg(&x2)

	ok, err := bls12377.PairingCheck(
		[]bls12377.G1Affine{x1, negX2},
		[]bls12377.G2Affine{y2, y1},
	)
	if err != nil {
		return false, fmt.Errorf("pairing check: %w", err)
	}
	return ok, nil
}

func (bls12377Engine) HashToG2(msg []byte) (G2, error) {
	p, err := bls12377.HashToG2(msg, []byte("tauceremony-bls12377-g2"))
	if err != nil {
		return nil, fmt.Errorf("hash to g2: %w", err)
	}
	return p, nil
}

func (bls12377Engine) RandomScalar(r io.Reader) ([]byte, error) {
	var buf [fr.Bytes]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("random scalar: %w", err)
	}
	var e fr.Element
	e.SetBytes(buf[:])
	out := e.Bytes()
	return out[:], nil
}

func (bls12377Engine) ScalarFromDigest(digest []byte) []byte {
	var e fr.Element
	e.SetBigInt(new(big.Int).SetBytes(digest))
	out := e.Bytes()
	return out[:]
}

func (bls12377Engine) MulScalars(a, b []byte) []byte {
	var x, y, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	y.SetBigInt(new(big.Int).SetBytes(b))
	z.Mul(&x, &y)
	out := z.Bytes()
	return out[:]
}

func (bls12377Engine) ScalarOne() []byte {
	var e fr.Element
	e.SetOne()
	out := e.Bytes()
	return out[:]
}


func (bls12377Engine) InvertScalar(a []byte) ([]byte, error) {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	if x.IsZero() {
		return nil, fmt.Errorf("invert scalar: zero has no inverse")
	}
	z.Inverse(&x)
	out := z.Bytes()
	return out[:], nil
}

func (bls12377Engine) ScalarZero() []byte {
	var e fr.Element
	e.SetZero()
	out := e.Bytes()
	return out[:]
}

func (bls12377Engine) NegateScalar(a []byte) []byte {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	z.Neg(&x)
	out := z.Bytes()
	return out[:]
}

func (bls12377Engine) DomainGenerator(size int) ([]byte, []byte, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, nil, fmt.Errorf("domain generator: size %d is not a power of two", size)
	}
	d := fft.NewDomain(uint64(size))
	gen := d.Generator.Bytes()
	genInv := d.GeneratorInv.Bytes()
	return gen[:], genInv[:], nil
}
