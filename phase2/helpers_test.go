package phase2

import (
	"testing"

	"github.com/giuliop/tauceremony/curve"
)

func testEngine(t *testing.T) curve.Engine {
	t.Helper()
	e, ok := curve.Lookup(curve.BLS12_381)
	if !ok {
		t.Fatal("bls12-381 engine not registered")
	}
	return e
}
