// Package curve provides the pairing-engine capability the rest of the
// ceremony is parametric over: group generators, scalar multiplication,
// pairings, and compressed/uncompressed point (de)serialization for each
// supported curve.
//
// gnark-crypto does not expose a shared interface across its curve
// subpackages (each of bls12-377, bls12-381, bn254 and bw6-761 has its own
// concrete G1Affine/G2Affine types), so points are carried here as opaque
// `any` values and every Engine method type-asserts internally: a dispatch
// table keyed by curve kind, with a per-curve vtable for serialization,
// pairing and scalar multiplication.
package curve

import "io"

// Kind identifies one of the four pairing-friendly curves the ceremony
// supports.
type Kind int

const (
	BLS12_377 Kind = iota
	BLS12_381
	BW6_761
	BN254
)

func (k Kind) String() string {
	switch k {
	case BLS12_377:
		return "bls12_377"
	case BLS12_381:
		return "bls12_381"
	case BW6_761:
		return "bw6"
	case BN254:
		return "bn254"
	default:
		return "unknown"
	}
}

// ParseKind maps the --curve-kind CLI flag value to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{BLS12_377, BLS12_381, BW6_761, BN254} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// G1, G2 are opaque curve points. Concrete type is whatever the underlying
// gnark-crypto curve package uses (e.g. bls12-381.G1Affine); only the
// Engine that produced the point knows how to act on it.
type G1 = any
type G2 = any

// Engine is the per-curve capability table. All of phase1 and phase2
// operate exclusively through this interface; nothing outside this
// package imports a concrete gnark-crypto curve subpackage.
type Engine interface {
	Kind() Kind

	SizeFr() int
	SizeG1Compressed() int
	SizeG1Uncompressed() int
	SizeG2Compressed() int
	SizeG2Uncompressed() int

	G1Generator() G1
	G2Generator() G2

	// EncodeG1/EncodeG2 serialize a point; compressed selects the size.
	EncodeG1(p G1, compressed bool) []byte
	EncodeG2(p G2, compressed bool) []byte

	// DecodeG1/DecodeG2 parse a point. The encoding (compressed vs.
	// uncompressed) is self-describing from len(buf) and from the
	// curve's standard flag bits.
	DecodeG1(buf []byte) (G1, error)
	DecodeG2(buf []byte) (G2, error)

	IsIdentityG1(p G1) bool
	IsIdentityG2(p G2) bool
	EqualG1(a, b G1) bool
	EqualG2(a, b G2) bool

	// InSubgroupG1/InSubgroupG2 check prime-order subgroup membership by
	// scalar-multiplying by the group order and asserting the identity,
	// rather than relying on a curve-specific fast check.
	InSubgroupG1(p G1) bool
	InSubgroupG2(p G2) bool

	ScalarMulG1(p G1, scalar []byte) G1
	ScalarMulG2(p G2, scalar []byte) G2

	// MultiExpG1/MultiExpG2 evaluate sum(scalars[i] * points[i]), used by
	// the randomized sliding-window ratio check in verify_ratios.
	MultiExpG1(points []G1, scalars [][]byte) (G1, error)
	MultiExpG2(points []G2, scalars [][]byte) (G2, error)

	// SameRatio checks e(a1, b2) == e(a2, b1), i.e. that b2/b1 applies the
	// same scalar to the G1 side as a2/a1 does, without learning the
	// scalar. This is the pairing-based ratio test used throughout 4.E
	// and 4.F.
	SameRatio(a1, a2 G1, b1, b2 G2) (bool, error)

	// HashToG2 hashes digest||index-personalized bytes to a G2 point
	// using the curve's standard hash-to-curve. The byte layout of msg is
	// part of the wire contract shared with other implementations.
	HashToG2(msg []byte) (G2, error)

	// Scalar helpers. Scalars are big-endian byte slices of SizeFr() length.
	RandomScalar(r io.Reader) ([]byte, error)
	ScalarFromDigest(digest []byte) []byte
	MulScalars(a, b []byte) []byte
	InvertScalar(a []byte) ([]byte, error)
	NegateScalar(a []byte) []byte
	ScalarOne() []byte
	ScalarZero() []byte

	// DomainGenerator returns a primitive size-th root of unity of the
	// scalar field (size must be a power of two) and its inverse, used by
	// phase2's Lagrange-basis evaluation over the evaluation domain of
	// size p = next_pow_of_2(max(n, m)).
	DomainGenerator(size int) (gen, genInv []byte, err error)
}

// byKind is the dispatch table. Populated by each curve file's init().
var byKind = map[Kind]Engine{}

// register registers a curve implementation under its Kind. Called from each
// curve file's init().
func register(k Kind, e Engine) {
	byKind[k] = e
}

// Lookup returns the Engine for a curve kind.
func Lookup(k Kind) (Engine, bool) {
	e, ok := byKind[k]
	return e, ok
}
