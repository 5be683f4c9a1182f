package phase1

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/giuliop/tauceremony/curve"
)

// BatchExpMode mirrors the --batch-exp-mode CLI flag. "naive" raises the
// base independently for every index; "batched" computes a window's
// leading power once and extends it with one field multiplication per
// step. "auto" resolves to batched. Both modes produce identical bytes.
type BatchExpMode int

const (
	BatchExpAuto BatchExpMode = iota
	BatchExpNaive
	BatchExpBatched
)

// ScalarPowers returns [coeff*base^0, coeff*base^1, ..., coeff*base^(n-1)]
// as a vector of scalar byte strings, computed by repeated multiplication
// from a single leading power.
func ScalarPowers(e curve.Engine, base []byte, coeff []byte, n int) [][]byte {
	out := make([][]byte, n)
	cur := coeff
	if cur == nil {
		cur = e.ScalarOne()
	} else {
		cur = append([]byte(nil), cur...)
	}
	for i := 0; i < n; i++ {
		out[i] = append([]byte(nil), cur...)
		cur = e.MulScalars(cur, base)
	}
	return out
}

// WindowScalars produces the scalar vector [coeff*base^start, ...,
// coeff*base^(start+n-1)] for one window, resolving the batch-exp mode:
// batched computes the window's leading power once and extends it by one
// multiplication per step, naive raises base independently for every
// index. "auto" resolves to batched.
func WindowScalars(e curve.Engine, base, coeff []byte, start, n int, mode BatchExpMode) [][]byte {
	if mode == BatchExpNaive {
		out := make([][]byte, n)
		for i := 0; i < n; i++ {
			s := scalarPow(e, base, start+i)
			if coeff != nil {
				s = e.MulScalars(coeff, s)
			}
			out[i] = s
		}
		return out
	}
	leading := scalarPow(e, base, start)
	if coeff != nil {
		leading = e.MulScalars(coeff, leading)
	}
	return ScalarPowers(e, base, leading, n)
}

// ExponentiateG1 raises each points[i] to scalars[i], writing the result
// in place into out (out may alias points).
func ExponentiateG1(e curve.Engine, points []curve.G1, scalars [][]byte, out []curve.G1) {
	for i := range points {
		out[i] = e.ScalarMulG1(points[i], scalars[i])
	}
}

// ExponentiateG2 is ExponentiateG1's G2 counterpart.
func ExponentiateG2(e curve.Engine, points []curve.G2, scalars [][]byte, out []curve.G2) {
	for i := range points {
		out[i] = e.ScalarMulG2(points[i], scalars[i])
	}
}

// ParallelWindows runs fn once per window in windows, fork-join style: all
// tasks are spawned, the call blocks until every task has joined, and it
// returns the first error any task reported; the other tasks still run to
// completion. Each window writes only to its own
// disjoint byte range, so no further synchronization is required between
// tasks.
func ParallelWindows(windows []Window, fn func(w Window) error) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, w := range windows {
		w := w
		g.Go(func() error { return fn(w) })
	}
	return g.Wait()
}

// ParallelArrays runs fn once per array name, fork-join style: one task
// per sub-array, for init, decompress and the subgroup sweep of
// VerifyPoKAndCorrectness (which do not window within an array the way
// contribute and VerifyRatios do).
func ParallelArrays(arrays []string, fn func(array string) error) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, a := range arrays {
		a := a
		g.Go(func() error { return fn(a) })
	}
	return g.Wait()
}
