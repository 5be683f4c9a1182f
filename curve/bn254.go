package curve

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
)

func init() {
	register(BN254, bn254Engine{})
}

// bn254Engine implements Engine over gnark-crypto's bn254 package. This is
// the curve of the Perpetual Powers of Tau ceremony and the circuits built
// on its output (Semaphore, Hermez, Tornado Cash).
type bn254Engine struct{}

func (bn254Engine) Kind() Kind { return BN254 }

func (bn254Engine) SizeFr() int             { return fr.Bytes }
func (bn254Engine) SizeG1Compressed() int   { return bn254.SizeOfG1AffineCompressed }
func (bn254Engine) SizeG1Uncompressed() int { return bn254.SizeOfG1AffineUncompressed }
func (bn254Engine) SizeG2Compressed() int   { return bn254.SizeOfG2AffineCompressed }
func (bn254Engine) SizeG2Uncompressed() int { return bn254.SizeOfG2AffineUncompressed }

func (bn254Engine) G1Generator() G1 {
	_, _, g1, _ := bn254.Generators()
	return g1
}

func (bn254Engine) G2Generator() G2 {
	_, _, _, g2 := bn254.Generators()
	return g2
}

func (bn254Engine) EncodeG1(p G1, compressed bool) []byte {
	a := p.(bn254.G1Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bn254Engine) EncodeG2(p G2, compressed bool) []byte {
	a := p.(bn254.G2Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bn254Engine) DecodeG1(buf []byte) (G1, error) {
	var a bn254.G1Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g1: %w", err)
	}
	return a, nil
}

func (bn254Engine) DecodeG2(buf []byte) (G2, error) {
	var a bn254.G2Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g2: %w", err)
	}
	return a, nil
}

func (bn254Engine) IsIdentityG1(p G1) bool { a := p.(bn254.G1Affine); return a.IsInfinity() }
func (bn254Engine) IsIdentityG2(p G2) bool { a := p.(bn254.G2Affine); return a.IsInfinity() }

func (bn254Engine) EqualG1(x, y G1) bool {
	a, b := x.(bn254.G1Affine), y.(bn254.G1Affine)
	return a.Equal(&b)
}

func (bn254Engine) EqualG2(x, y G2) bool {
	a, b := x.(bn254.G2Affine), y.(bn254.G2Affine)
	return a.Equal(&b)
}

func (bn254Engine) InSubgroupG1(p G1) bool {
	a := p.(bn254.G1Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bn254.G1Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bn254Engine) InSubgroupG2(p G2) bool {
	a := p.(bn254.G2Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bn254.G2Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bn254Engine) ScalarMulG1(p G1, scalar []byte) G1 {
	a := p.(bn254.G1Affine)
	var res bn254.G1Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bn254Engine) ScalarMulG2(p G2, scalar []byte) G2 {
	a := p.(bn254.G2Affine)
	var res bn254.G2Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bn254Engine) MultiExpG1(points []G1, scalars [][]byte) (G1, error) {
	affs := make([]bn254.G1Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bn254.G1Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bn254.G1Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g1: %w", err)
	}
	return res, nil
}

func (bn254Engine) MultiExpG2(points []G2, scalars [][]byte) (G2, error) {
	affs := make([]bn254.G2Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bn254.G2Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bn254.G2Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g2: %w", err)
	}
	return res, nil
}

func (bn254Engine) SameRatio(a1, a2 G1, b1, b2 G2) (bool, error) {
	x1 := a1.(bn254.G1Affine)
	x2 := a2.(bn254.G1Affine)
	y1 := b1.(bn254.G2Affine)
	y2 := b2.(bn254.G2Affine)

	var negX2 bn254.G1Affine
	negX2.Neg(&x2)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{x1, negX2},
		[]bn254.G2Affine{y2, y1},
	)
	if err != nil {
		return false, fmt.Errorf("pairing check: %w", err)
	}
	return ok, nil
}

func (bn254Engine) HashToG2(msg []byte) (G2, error) {
	p, err := bn254.HashToG2(msg, []byte("tauceremony-bn254-g2"))
	if err != nil {
		return nil, fmt.Errorf("hash to g2: %w", err)
	}
	return p, nil
}

func (bn254Engine) RandomScalar(r io.Reader) ([]byte, error) {
	var buf [fr.Bytes]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("random scalar: %w", err)
	}
	var e fr.Element
	e.SetBytes(buf[:])
	out := e.Bytes()
	return out[:], nil
}

func (bn254Engine) ScalarFromDigest(digest []byte) []byte {
	var e fr.Element
	e.SetBigInt(new(big.Int).SetBytes(digest))
	out := e.Bytes()
	return out[:]
}

func (bn254Engine) MulScalars(a, b []byte) []byte {
	var x, y, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	y.SetBigInt(new(big.Int).SetBytes(b))
	z.Mul(&x, &y)
	out := z.Bytes()
	return out[:]
}

func (bn254Engine) ScalarOne() []byte {
	var e fr.Element
	e.SetOne()
	out := e.Bytes()
	return out[:]
}


func (bn254Engine) InvertScalar(a []byte) ([]byte, error) {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	if x.IsZero() {
		return nil, fmt.Errorf("invert scalar: zero has no inverse")
	}
	z.Inverse(&x)
	out := z.Bytes()
	return out[:], nil
}

func (bn254Engine) ScalarZero() []byte {
	var e fr.Element
	e.SetZero()
	out := e.Bytes()
	return out[:]
}

func (bn254Engine) NegateScalar(a []byte) []byte {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	z.Neg(&x)
	out := z.Bytes()
	return out[:]
}

func (bn254Engine) DomainGenerator(size int) ([]byte, []byte, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, nil, fmt.Errorf("domain generator: size %d is not a power of two", size)
	}
	d := fft.NewDomain(uint64(size))
	gen := d.Generator.Bytes()
	genInv := d.GeneratorInv.Bytes()
	return gen[:], genInv[:], nil
}
