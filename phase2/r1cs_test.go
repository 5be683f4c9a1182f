package phase2

import (
	"testing"

	"github.com/giuliop/tauceremony/curve"
)

func trivialR1CS(e curve.Engine) *R1CS {
	one := e.ScalarOne()
	return &R1CS{
		A:           [][]Term{{{Index: 0, Coeff: one}}},
		B:           [][]Term{{{Index: 0, Coeff: one}}},
		C:           [][]Term{{{Index: 0, Coeff: one}}},
		NumInstance: 1,
		NumWitness:  0,
	}
}

// A=B=C=I_1 means n=m=1, so the domain collapses to p=1.
func TestR1CSDomainSizeTrivialCircuit(t *testing.T) {
	e := testEngine(t)
	r := trivialR1CS(e)
	if got := r.NumConstraints(); got != 1 {
		t.Errorf("NumConstraints() = %d, want 1", got)
	}
	if got := r.NumVariables(); got != 1 {
		t.Errorf("NumVariables() = %d, want 1", got)
	}
	if got := r.DomainSize(); got != 1 {
		t.Errorf("DomainSize() = %d, want 1", got)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1000: 1024}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
