package curve

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
)

func init() {
	register(BLS12_381, bls12381Engine{})
}

// bls12381Engine implements Engine over gnark-crypto's bls12-381 package.
type bls12381Engine struct{}

func (bls12381Engine) Kind() Kind { return BLS12_381 }

func (bls12381Engine) SizeFr() int              { return fr.Bytes }
func (bls12381Engine) SizeG1Compressed() int    { return bls12381.SizeOfG1AffineCompressed }
func (bls12381Engine) SizeG1Uncompressed() int  { return bls12381.SizeOfG1AffineUncompressed }
func (bls12381Engine) SizeG2Compressed() int    { return bls12381.SizeOfG2AffineCompressed }
func (bls12381Engine) SizeG2Uncompressed() int  { return bls12381.SizeOfG2AffineUncompressed }

func (bls12381Engine) G1Generator() G1 {
	_, _, g1, _ := bls12381.Generators()
	return g1
}

func (bls12381Engine) G2Generator() G2 {
	_, _, _, g2 := bls12381.Generators()
	return g2
}

func (bls12381Engine) EncodeG1(p G1, compressed bool) []byte {
	a := p.(bls12381.G1Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bls12381Engine) EncodeG2(p G2, compressed bool) []byte {
	a := p.(bls12381.G2Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bls12381Engine) DecodeG1(buf []byte) (G1, error) {
	var a bls12381.G1Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g1: %w", err)
	}
	return a, nil
}

func (bls12381Engine) DecodeG2(buf []byte) (G2, error) {
	var a bls12381.G2Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g2: %w", err)
	}
	return a, nil
}

func (bls12381Engine) IsIdentityG1(p G1) bool { a := p.(bls12381.G1Affine); return a.IsInfinity() }
func (bls12381Engine) IsIdentityG2(p G2) bool { a := p.(bls12381.G2Affine); return a.IsInfinity() }

func (bls12381Engine) EqualG1(x, y G1) bool {
	a, b := x.(bls12381.G1Affine), y.(bls12381.G1Affine)
	return a.Equal(&b)
}

func (bls12381Engine) EqualG2(x, y G2) bool {
	a, b := x.(bls12381.G2Affine), y.(bls12381.G2Affine)
	return a.Equal(&b)
}

func (bls12381Engine) InSubgroupG1(p G1) bool {
	a := p.(bls12381.G1Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bls12381.G1Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bls12381Engine) InSubgroupG2(p G2) bool {
	a := p.(bls12381.G2Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bls12381.G2Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bls12381Engine) ScalarMulG1(p G1, scalar []byte) G1 {
	a := p.(bls12381.G1Affine)
	var res bls12381.G1Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bls12381Engine) ScalarMulG2(p G2, scalar []byte) G2 {
	a := p.(bls12381.G2Affine)
	var res bls12381.G2Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bls12381Engine) MultiExpG1(points []G1, scalars [][]byte) (G1, error) {
	affs := make([]bls12381.G1Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bls12381.G1Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bls12381.G1Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g1: %w", err)
	}
	return res, nil
}

func (bls12381Engine) MultiExpG2(points []G2, scalars [][]byte) (G2, error) {
	affs := make([]bls12381.G2Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bls12381.G2Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bls12381.G2Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g2: %w", err)
	}
	return res, nil
}

func (bls12381Engine) SameRatio(a1, a2 G1, b1, b2 G2) (bool, error) {
	x1 := a1.(bls12381.G1Affine)
	x2 := a2.(bls12381.G1Affine)
	y1 := b1.(bls12381.G2Affine)
	y2 := b2.(bls12381.G2Affine)

	var negX2 bls12381.G1Affine
	negX2.Neg(&x2)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{x1, negX2},
		[]bls12381.G2Affine{y2, y1},
	)
	if err != nil {
		return false, fmt.Errorf("pairing check: %w", err)
	}
	return ok, nil
}

func (bls12381Engine) HashToG2(msg []byte) (G2, error) {
	p, err := bls12381.HashToG2(msg, []byte("tauceremony-bls12381-g2"))
	if err != nil {
		return nil, fmt.Errorf("hash to g2: %w", err)
	}
	return p, nil
}

func (bls12381Engine) RandomScalar(r io.Reader) ([]byte, error) {
	var buf [fr.Bytes]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("random scalar: %w", err)
	}
	var e fr.Element
	e.SetBytes(buf[:])
	out := e.Bytes()
	return out[:], nil
}

func (bls12381Engine) ScalarFromDigest(digest []byte) []byte {
	var e fr.Element
	e.SetBigInt(new(big.Int).SetBytes(digest))
	out := e.Bytes()
	return out[:]
}

func (bls12381Engine) MulScalars(a, b []byte) []byte {
	var x, y, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	y.SetBigInt(new(big.Int).SetBytes(b))
	z.Mul(&x, &y)
	out := z.Bytes()
	return out[:]
}

func (bls12381Engine) ScalarOne() []byte {
	var e fr.Element
	e.SetOne()
	out := e.Bytes()
	return out[:]
}


func (bls12381Engine) InvertScalar(a []byte) ([]byte, error) {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	if x.IsZero() {
		return nil, fmt.Errorf("invert scalar: zero has no inverse")
	}
	z.Inverse(&x)
	out := z.Bytes()
	return out[:], nil
}

func (bls12381Engine) ScalarZero() []byte {
	var e fr.Element
	e.SetZero()
	out := e.Bytes()
	return out[:]
}

func (bls12381Engine) NegateScalar(a []byte) []byte {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	z.Neg(&x)
	out := z.Bytes()
	return out[:]
}

func (bls12381Engine) DomainGenerator(size int) ([]byte, []byte, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, nil, fmt.Errorf("domain generator: size %d is not a power of two", size)
	}
	d := fft.NewDomain(uint64(size))
	gen := d.Generator.Bytes()
	genInv := d.GeneratorInv.Bytes()
	return gen[:], genInv[:], nil
}
