package phase2

import (
	"fmt"

	"github.com/giuliop/tauceremony/curve"
)

// scalarPow computes base^exp by binary exponentiation, duplicated in
// miniature from phase1/accumulator.go's helper of the same name: each
// domain index needs its own power of the (inverse) domain generator
// independent of any other index, so every basis element can be formed by
// its own multi-exponentiation.
func scalarPow(e curve.Engine, base []byte, exp int) []byte {
	result := e.ScalarOne()
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result = e.MulScalars(result, b)
		}
		b = e.MulScalars(b, b)
		exp >>= 1
	}
	return result
}

// intToScalar reduces a non-negative machine int into the scalar field by
// big-endian byte encoding plus the curve's standard reduction -- the
// domain size p itself needs to be available as a field element to invert.
func intToScalar(e curve.Engine, n int) []byte {
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	return e.ScalarFromDigest(buf)
}

// LagrangeBasisG1 evaluates the Lagrange basis {L_i(tau)} at the secret tau
// committed to by powersG1 (powersG1[k] = tau^k * g1, k=0..domainSize-1),
// returning L_i(tau)*g1 for each i. This is the inverse-FFT-then-evaluate
// identity: L_i(tau) = (1/p) * sum_k omega^{-i*k} * tau^k, applied directly
// to the group elements via one multi-exponentiation per basis index
// instead of a true point-domain FFT. O(p^2) group scalar
// multiplications; acceptable here since
// gnark-crypto's fft package transforms field-element slices, not curve
// points, and phase2 ceremonies run this once per circuit, not per window.
func LagrangeBasisG1(e curve.Engine, powersG1 []curve.G1, domainSize int) ([]curve.G1, error) {
	if len(powersG1) < domainSize {
		return nil, fmt.Errorf("lagrange basis g1: need >= %d powers, have %d", domainSize, len(powersG1))
	}
	_, genInv, err := e.DomainGenerator(domainSize)
	if err != nil {
		return nil, err
	}
	sizeInv, err := e.InvertScalar(intToScalar(e, domainSize))
	if err != nil {
		return nil, err
	}
	points := powersG1[:domainSize]

	out := make([]curve.G1, domainSize)
	for i := 0; i < domainSize; i++ {
		leading := scalarPow(e, genInv, i) // omega^{-i}
		scalars := make([][]byte, domainSize)
		cur := sizeInv
		for k := 0; k < domainSize; k++ {
			scalars[k] = cur
			cur = e.MulScalars(cur, leading)
		}
		p, err := e.MultiExpG1(points, scalars)
		if err != nil {
			return nil, fmt.Errorf("lagrange basis g1[%d]: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// LagrangeBasisG2 is LagrangeBasisG1's G2 counterpart, used for b_g2_query.
func LagrangeBasisG2(e curve.Engine, powersG2 []curve.G2, domainSize int) ([]curve.G2, error) {
	if len(powersG2) < domainSize {
		return nil, fmt.Errorf("lagrange basis g2: need >= %d powers, have %d", domainSize, len(powersG2))
	}
	_, genInv, err := e.DomainGenerator(domainSize)
	if err != nil {
		return nil, err
	}
	sizeInv, err := e.InvertScalar(intToScalar(e, domainSize))
	if err != nil {
		return nil, err
	}
	points := powersG2[:domainSize]

	out := make([]curve.G2, domainSize)
	for i := 0; i < domainSize; i++ {
		leading := scalarPow(e, genInv, i)
		scalars := make([][]byte, domainSize)
		cur := sizeInv
		for k := 0; k < domainSize; k++ {
			scalars[k] = cur
			cur = e.MulScalars(cur, leading)
		}
		p, err := e.MultiExpG2(points, scalars)
		if err != nil {
			return nil, fmt.Errorf("lagrange basis g2[%d]: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// HQueryFromPowers computes h_query[i] = tau^i * (tau^p - 1) * g1 for
// 0 <= i < p-1, directly from the phase-1 power commitments without ever
// recovering tau as a scalar: tau^i*(tau^p-1) = tau^(i+p) - tau^i, so each
// entry is the multi-exponentiation (1*powersG1[i+p] + (-1)*powersG1[i]).
func HQueryFromPowers(e curve.Engine, powersG1 []curve.G1, domainSize int) ([]curve.G1, error) {
	need := 2*domainSize - 1
	if len(powersG1) < need {
		return nil, fmt.Errorf("h_query: need >= %d powers of tau, have %d", need, len(powersG1))
	}
	negOne := e.NegateScalar(e.ScalarOne())
	out := make([]curve.G1, domainSize-1)
	for i := 0; i < domainSize-1; i++ {
		p, err := e.MultiExpG1(
			[]curve.G1{powersG1[i+domainSize], powersG1[i]},
			[][]byte{e.ScalarOne(), negOne},
		)
		if err != nil {
			return nil, fmt.Errorf("h_query[%d]: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
