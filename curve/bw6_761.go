package curve

import (
	"fmt"
	"io"
	"math/big"

	bw6761 "github.com/consensys/gnark-crypto/ecc/bw6-761"
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr"
	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr/fft"
)

func init() {
	register(BW6_761, bw6761Engine{})
}

// bw6761Engine implements Engine over gnark-crypto's bw6-761 package.
// BW6-761 is unusual among the four: G1 and G2 are both defined over the
// same base field (no quadratic twist), so their compressed/uncompressed
// sizes are equal, and its scalar field Fr is BLS12-377's (377-bit) base
// field, not a ~254-bit field like the other three curves.
type bw6761Engine struct{}

func (bw6761Engine) Kind() Kind { return BW6_761 }

func (bw6761Engine) SizeFr() int             { return fr.Bytes }
func (bw6761Engine) SizeG1Compressed() int   { return bw6761.SizeOfG1AffineCompressed }
func (bw6761Engine) SizeG1Uncompressed() int { return bw6761.SizeOfG1AffineUncompressed }
func (bw6761Engine) SizeG2Compressed() int   { return bw6761.SizeOfG2AffineCompressed }
func (bw6761Engine) SizeG2Uncompressed() int { return bw6761.SizeOfG2AffineUncompressed }

func (bw6761Engine) G1Generator() G1 {
	_, _, g1, _ := bw6761.Generators()
	return g1
}

func (bw6761Engine) G2Generator() G2 {
	_, _, _, g2 := bw6761.Generators()
	return g2
}

func (bw6761Engine) EncodeG1(p G1, compressed bool) []byte {
	a := p.(bw6761.G1Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bw6761Engine) EncodeG2(p G2, compressed bool) []byte {
	a := p.(bw6761.G2Affine)
	if compressed {
		b := a.Bytes()
		return b[:]
	}
	b := a.RawBytes()
	return b[:]
}

func (bw6761Engine) DecodeG1(buf []byte) (G1, error) {
	var a bw6761.G1Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g1: %w", err)
	}
	return a, nil
}

func (bw6761Engine) DecodeG2(buf []byte) (G2, error) {
	var a bw6761.G2Affine
	if _, err := a.SetBytes(buf); err != nil {
		return nil, fmt.Errorf("decode g2: %w", err)
	}
	return a, nil
}

func (bw6761Engine) IsIdentityG1(p G1) bool { a := p.(bw6761.G1Affine); return a.IsInfinity() }
func (bw6761Engine) IsIdentityG2(p G2) bool { a := p.(bw6761.G2Affine); return a.IsInfinity() }

func (bw6761Engine) EqualG1(x, y G1) bool {
	a, b := x.(bw6761.G1Affine), y.(bw6761.G1Affine)
	return a.Equal(&b)
}

func (bw6761Engine) EqualG2(x, y G2) bool {
	a, b := x.(bw6761.G2Affine), y.(bw6761.G2Affine)
	return a.Equal(&b)
}

func (bw6761Engine) InSubgroupG1(p G1) bool {
	a := p.(bw6761.G1Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bw6761.G1Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bw6761Engine) InSubgroupG2(p G2) bool {
	a := p.(bw6761.G2Affine)
	if !a.IsOnCurve() {
		return false
	}
	var r bw6761.G2Affine
	r.ScalarMultiplication(&a, fr.Modulus())
	return r.IsInfinity()
}

func (bw6761Engine) ScalarMulG1(p G1, scalar []byte) G1 {
	a := p.(bw6761.G1Affine)
	var res bw6761.G1Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bw6761Engine) ScalarMulG2(p G2, scalar []byte) G2 {
	a := p.(bw6761.G2Affine)
	var res bw6761.G2Affine
	res.ScalarMultiplication(&a, new(big.Int).SetBytes(scalar))
	return res
}

func (bw6761Engine) MultiExpG1(points []G1, scalars [][]byte) (G1, error) {
	affs := make([]bw6761.G1Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bw6761.G1Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bw6761.G1Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g1: %w", err)
	}
	return res, nil
}

func (bw6761Engine) MultiExpG2(points []G2, scalars [][]byte) (G2, error) {
	affs := make([]bw6761.G2Affine, len(points))
	elems := make([]fr.Element, len(points))
	for i := range points {
		affs[i] = points[i].(bw6761.G2Affine)
		elems[i].SetBigInt(new(big.Int).SetBytes(scalars[i]))
	}
	var res bw6761.G2Affine
	if _, err := res.MultiExp(affs, elems, multiExpConfig()); err != nil {
		return nil, fmt.Errorf("multiexp g2: %w", err)
	}
	return res, nil
}

func (bw6761Engine) SameRatio(a1, a2 G1, b1, b2 G2) (bool, error) {
	x1 := a1.(bw6761.G1Affine)
	x2 := a2.(bw6761.G1Affine)
	y1 := b1.(bw6761.G2Affine)
	y2 := b2.(bw6761.G2Affine)

	var negX2 bw6761.G1Affine
	negX2.Neg(&x2)

	ok, err := bw6761.PairingCheck(
		[]bw6761.G1Affine{x1, negX2},
		[]bw6761.G2Affine{y2, y1},
	)
	if err != nil {
		return false, fmt.Errorf("pairing check: %w", err)
	}
	return ok, nil
}

func (bw6761Engine) HashToG2(msg []byte) (G2, error) {
	p, err := bw6761.HashToG2(msg, []byte("tauceremony-bw6761-g2"))
	if err != nil {
		return nil, fmt.Errorf("hash to g2: %w", err)
	}
	return p, nil
}

func (bw6761Engine) RandomScalar(r io.Reader) ([]byte, error) {
	var buf [fr.Bytes]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("random scalar: %w", err)
	}
	var e fr.Element
	e.SetBytes(buf[:])
	out := e.Bytes()
	return out[:], nil
}

func (bw6761Engine) ScalarFromDigest(digest []byte) []byte {
	var e fr.Element
	e.SetBigInt(new(big.Int).SetBytes(digest))
	out := e.Bytes()
	return out[:]
}

func (bw6761Engine) MulScalars(a, b []byte) []byte {
	var x, y, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	y.SetBigInt(new(big.Int).SetBytes(b))
	z.Mul(&x, &y)
	out := z.Bytes()
	return out[:]
}

func (bw6761Engine) ScalarOne() []byte {
	var e fr.Element
	e.SetOne()
	out := e.Bytes()
	return out[:]
}


func (bw6761Engine) InvertScalar(a []byte) ([]byte, error) {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	if x.IsZero() {
		return nil, fmt.Errorf("invert scalar: zero has no inverse")
	}
	z.Inverse(&x)
	out := z.Bytes()
	return out[:], nil
}

func (bw6761Engine) ScalarZero() []byte {
	var e fr.Element
	e.SetZero()
	out := e.Bytes()
	return out[:]
}

func (bw6761Engine) NegateScalar(a []byte) []byte {
	var x, z fr.Element
	x.SetBigInt(new(big.Int).SetBytes(a))
	z.Neg(&x)
	out := z.Bytes()
	return out[:]
}

func (bw6761Engine) DomainGenerator(size int) ([]byte, []byte, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, nil, fmt.Errorf("domain generator: size %d is not a power of two", size)
	}
	d := fft.NewDomain(uint64(size))
	gen := d.Generator.Bytes()
	genInv := d.GeneratorInv.Bytes()
	return gen[:], genInv[:], nil
}
