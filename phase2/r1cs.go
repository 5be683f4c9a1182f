// Package phase2 implements the Groth16-specific second half of the
// ceremony: building query vectors from the phase-1 powers-of-tau SRS and
// an R1CS circuit description, and the contribute/verify/combine
// operations over the resulting MPC parameters.
package phase2

import (
	"fmt"

	"github.com/giuliop/tauceremony/curve"
)

// Term is one (coefficient, variable index) entry of a sparse R1CS row.
type Term struct {
	Coeff []byte
	Index int
}

// R1CS is the rank-1 constraint system M = (A, B, C): n rows, one per
// constraint, each a sparse linear combination over the m instance and
// witness variables.
type R1CS struct {
	A, B, C     [][]Term
	NumInstance int
	NumWitness  int
}

// NumConstraints returns n, the row count (identical across A, B, C).
func (r *R1CS) NumConstraints() int { return len(r.A) }

// NumVariables returns m = num_instance_variables + num_witness_variables.
func (r *R1CS) NumVariables() int { return r.NumInstance + r.NumWitness }

// DomainSize returns p = next_pow_of_2(max(n, m)), the phase-2 evaluation
// domain size.
func (r *R1CS) DomainSize() int {
	n := r.NumConstraints()
	m := r.NumVariables()
	size := n
	if m > size {
		size = m
	}
	return nextPowerOfTwo(size)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// evalRowG1 computes sum(term.Coeff * basis[term.Index]) in G1 via a
// single multi-exponentiation.
func evalRowG1(e curve.Engine, row []Term, basis []curve.G1) (curve.G1, error) {
	if len(row) == 0 {
		return e.ScalarMulG1(e.G1Generator(), e.ScalarZero()), nil
	}
	points := make([]curve.G1, len(row))
	scalars := make([][]byte, len(row))
	for i, t := range row {
		if t.Index < 0 || t.Index >= len(basis) {
			return nil, fmt.Errorf("row term index %d out of range (domain size %d)", t.Index, len(basis))
		}
		points[i] = basis[t.Index]
		scalars[i] = t.Coeff
	}
	return e.MultiExpG1(points, scalars)
}

func evalRowG2(e curve.Engine, row []Term, basis []curve.G2) (curve.G2, error) {
	if len(row) == 0 {
		return e.ScalarMulG2(e.G2Generator(), e.ScalarZero()), nil
	}
	points := make([]curve.G2, len(row))
	scalars := make([][]byte, len(row))
	for i, t := range row {
		if t.Index < 0 || t.Index >= len(basis) {
			return nil, fmt.Errorf("row term index %d out of range (domain size %d)", t.Index, len(basis))
		}
		points[i] = basis[t.Index]
		scalars[i] = t.Coeff
	}
	return e.MultiExpG2(points, scalars)
}
