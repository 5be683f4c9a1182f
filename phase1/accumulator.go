package phase1

import (
	"sync/atomic"

	"github.com/giuliop/tauceremony/cerrors"
	"github.com/giuliop/tauceremony/curve"
)

// ProgressFunc is invoked after each unit of work (one window, one array)
// completes, for CLI progress reporting. A nil ProgressFunc disables
// reporting.
type ProgressFunc func(stage string, done, total int)

func report(fn ProgressFunc, stage string, done, total int) {
	if fn != nil {
		fn(stage, done, total)
	}
}

// scalarPow computes base^exp in the scalar field by binary exponentiation,
// using only the Engine's MulScalars primitive. Each contribute window
// needs its own leading power τ^start independent of any other window, so
// that windows can run concurrently without handing scalars between
// goroutines.
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

// partitions splits [0, length) into non-overlapping [start, end) ranges
// of size batchSize (the last one possibly shorter). Unlike Windows, these
// do not overlap: they are used for contribute's read/modify/write passes,
// where each element's new value only depends on data already present in
// the read-only input buffer, so disjoint output ranges are sufficient and
// avoid writing the same output byte from two goroutines. The one-element
// overlap convention is specific to the *verifier's* sliding-window ratio
// check (VerifyRatios below), which does use Windows.
func partitions(length, batchSize int) []Window {
	if length <= 0 {
		return nil
	}
	var out []Window
	for start := 0; start < length; start += batchSize {
		end := start + batchSize
		if end > length {
			end = length
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out
}

// Init writes the generator into every slot of a fresh accumulator: g1
// into every τG1/αG1/βG1 element, g2 into every τG2 element and the βG2
// singleton. The prior-state digest prefix is left zero. All five arrays
// are processed in parallel.
func Init(out []byte, p *Parameters, compressed bool) error {
	if err := p.Validate(); err != nil {
		return err
	}
	layout, err := SplitFull(out, p, compressionOf(compressed))
	if err != nil {
		return err
	}
	e := p.Engine
	g1 := e.G1Generator()
	g2 := e.G2Generator()

	arrays := []string{cerrors.ArrayTauG1, cerrors.ArrayTauG2, cerrors.ArrayAlphaG1, cerrors.ArrayBetaG1, cerrors.ArrayBetaG2}
	return ParallelArrays(arrays, func(array string) error {
		switch array {
		case cerrors.ArrayTauG1:
			fillG1(e, layout.TauG1, g1, compressed)
		case cerrors.ArrayTauG2:
			fillG2(e, layout.TauG2, g2, compressed)
		case cerrors.ArrayAlphaG1:
			fillG1(e, layout.AlphaG1, g1, compressed)
		case cerrors.ArrayBetaG1:
			fillG1(e, layout.BetaG1, g1, compressed)
		case cerrors.ArrayBetaG2:
			fillG2(e, layout.BetaG2, g2, compressed)
		}
		return nil
	})
}

func compressionOf(compressed bool) Compression {
	if compressed {
		return Compressed
	}
	return Uncompressed
}

func fillG1(e curve.Engine, buf []byte, p curve.G1, compressed bool) {
	elemSize := e.SizeG1Uncompressed()
	if compressed {
		elemSize = e.SizeG1Compressed()
	}
	enc := e.EncodeG1(p, compressed)
	for off := 0; off+elemSize <= len(buf); off += elemSize {
		copy(buf[off:off+elemSize], enc)
	}
}

func fillG2(e curve.Engine, buf []byte, p curve.G2, compressed bool) {
	elemSize := e.SizeG2Uncompressed()
	if compressed {
		elemSize = e.SizeG2Compressed()
	}
	enc := e.EncodeG2(p, compressed)
	for off := 0; off+elemSize <= len(buf); off += elemSize {
		copy(buf[off:off+elemSize], enc)
	}
}

// Contribute raises the full accumulator in `input` to a fresh private
// key and writes the result to `output`, both laid out as full-mode
// uncompressed buffers. `input` and `output` may be the same buffer only
// if the caller accepts in-place overwrite ordering hazards; typically
// output is a separate response buffer.
//
// The private key's scalars are zeroized before Contribute returns,
// whether it succeeds or fails.
func Contribute(input, output []byte, priv *PrivateKey, p *Parameters, progress ProgressFunc) (err error) {
	defer priv.Zeroize()

	if err := p.Validate(); err != nil {
		return err
	}
	e := p.Engine

	in, err := SplitFull(input, p, Uncompressed)
	if err != nil {
		return err
	}
	out, err := SplitFull(output, p, Uncompressed)
	if err != nil {
		return err
	}

	// Step 1: βG2 singleton.
	betaG2Points, err := ReadG2Batch(e, in.BetaG2, e.SizeG2Uncompressed(), 1, cerrors.ArrayBetaG2, 0, false)
	if err != nil {
		return err
	}
	newBetaG2 := e.ScalarMulG2(betaG2Points[0], priv.Beta)
	WriteG2Batch(e, out.BetaG2, []curve.G2{newBetaG2}, false)

	L, G := p.PowersLength(), p.PowersG1Length()
	tauG1Windows := partitions(G, p.BatchSize)
	total := len(tauG1Windows)

	var done atomic.Int64
	err = ParallelWindows(tauG1Windows, func(w Window) error {
		defer func() { report(progress, "contribute", int(done.Add(1)), total) }()

		n := w.End - w.Start
		// Each window is processed independently (so it can run in its own
		// goroutine), so the scalar vector cannot be carried over from the
		// previous window's last value: WindowScalars recomputes each
		// window's leading power τ^start by binary exponentiation.
		tauScalars := WindowScalars(e, priv.Tau, nil, w.Start, n, p.BatchExp)

		elemSize := e.SizeG1Uncompressed()
		inBuf := in.TauG1[w.Start*elemSize : w.End*elemSize]
		outBuf := out.TauG1[w.Start*elemSize : w.End*elemSize]
		points, err := ReadG1Batch(e, inBuf, elemSize, n, cerrors.ArrayTauG1, w.Start, false)
		if err != nil {
			return err
		}
		res := make([]curve.G1, n)
		ExponentiateG1(e, points, tauScalars, res)
		WriteG1Batch(e, outBuf, res, false)

		if w.Start >= L {
			return nil
		}
		lEnd := w.End
		if lEnd > L {
			lEnd = L
		}
		ln := lEnd - w.Start
		lTau := WindowScalars(e, priv.Tau, nil, w.Start, ln, p.BatchExp)

		g2ElemSize := e.SizeG2Uncompressed()
		g1ElemSize := e.SizeG1Uncompressed()

		tauG2In := in.TauG2[w.Start*g2ElemSize : lEnd*g2ElemSize]
		tauG2Out := out.TauG2[w.Start*g2ElemSize : lEnd*g2ElemSize]
		tg2Points, err := ReadG2Batch(e, tauG2In, g2ElemSize, ln, cerrors.ArrayTauG2, w.Start, false)
		if err != nil {
			return err
		}
		tg2Res := make([]curve.G2, ln)
		ExponentiateG2(e, tg2Points, lTau, tg2Res)
		WriteG2Batch(e, tauG2Out, tg2Res, false)

		alphaTau := WindowScalars(e, priv.Tau, priv.Alpha, w.Start, ln, p.BatchExp)
		alphaIn := in.AlphaG1[w.Start*g1ElemSize : lEnd*g1ElemSize]
		alphaOut := out.AlphaG1[w.Start*g1ElemSize : lEnd*g1ElemSize]
		aPoints, err := ReadG1Batch(e, alphaIn, g1ElemSize, ln, cerrors.ArrayAlphaG1, w.Start, false)
		if err != nil {
			return err
		}
		aRes := make([]curve.G1, ln)
		ExponentiateG1(e, aPoints, alphaTau, aRes)
		WriteG1Batch(e, alphaOut, aRes, false)

		betaTau := WindowScalars(e, priv.Tau, priv.Beta, w.Start, ln, p.BatchExp)
		betaIn := in.BetaG1[w.Start*g1ElemSize : lEnd*g1ElemSize]
		betaOut := out.BetaG1[w.Start*g1ElemSize : lEnd*g1ElemSize]
		bPoints, err := ReadG1Batch(e, betaIn, g1ElemSize, ln, cerrors.ArrayBetaG1, w.Start, false)
		if err != nil {
			return err
		}
		bRes := make([]curve.G1, ln)
		ExponentiateG1(e, bPoints, betaTau, bRes)
		WriteG1Batch(e, betaOut, bRes, false)

		return nil
	})
	return err
}

// VerifyPoKAndCorrectness checks a single contribution's proof of
// knowledge and that it was applied consistently to the first two
// elements of each array (only performed for the first chunk), and, when
// subgroupMode calls for it (SubgroupCheckYes: every chunk;
// SubgroupCheckAuto: the first chunk only; SubgroupCheckNo: never), that
// every output point is non-zero and in the prime-order subgroup.
func VerifyPoKAndCorrectness(input, output []byte, pub *PublicKey, digest [HashSize]byte, p *Parameters, subgroupMode SubgroupCheckMode) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e := p.Engine

	out, err := Split(output, p, Uncompressed)
	if err != nil {
		return err
	}

	isFirstChunk := p.Mode == Full || p.ChunkIndex == 0
	if isFirstChunk {
		in, err := Split(input, p, Uncompressed)
		if err != nil {
			return err
		}
		if err := verifyPoKAndStep(e, in, out, pub, digest); err != nil {
			return err
		}
	}

	check := shouldCheckSubgroup(subgroupMode, isFirstChunk)
	if !check {
		return nil
	}
	return verifySubgroups(e, out, p)
}

// verifyPoKAndStep checks, for each of τ, α, β: the Schnorr-style PoK
// pairing equality binding the committed scalar to the transcript digest,
// and that the corresponding array element was raised to exactly that
// scalar going from `in` to `out`. τ is checked via index 1 (index 0 is
// the untouched generator); α and β via index 0 (their first element
// already carries every prior contributor's coefficient, with no
// unmultiplied generator preceding it). β additionally checks its G2
// singleton the same way, mirrored through the β G1 PoK pair.
func verifyPoKAndStep(e curve.Engine, in, out Layout, pub *PublicKey, digest [HashSize]byte) error {
	tauG2s, err := ComputeG2S(e, digest, e.EncodeG1(pub.TauG1, true), e.EncodeG1(pub.TauSG1, true), IndexTau)
	if err != nil {
		return err
	}
	alphaG2s, err := ComputeG2S(e, digest, e.EncodeG1(pub.AlphaG1, true), e.EncodeG1(pub.AlphaSG1, true), IndexAlpha)
	if err != nil {
		return err
	}
	betaG2s, err := ComputeG2S(e, digest, e.EncodeG1(pub.BetaG1, true), e.EncodeG1(pub.BetaSG1, true), IndexBeta)
	if err != nil {
		return err
	}

	for _, c := range []struct {
		name    string
		s, sx   curve.G1
		g2s, x2 curve.G2
	}{
		{cerrors.ArrayTauG1, pub.TauG1, pub.TauSG1, tauG2s, pub.TauG2},
		{cerrors.ArrayAlphaG1, pub.AlphaG1, pub.AlphaSG1, alphaG2s, pub.AlphaG2},
		{cerrors.ArrayBetaG1, pub.BetaG1, pub.BetaSG1, betaG2s, pub.BetaG2},
	} {
		ok, err := e.SameRatio(c.s, c.sx, c.g2s, c.x2)
		if err != nil {
			return cerrors.At(cerrors.ErrPoKFailure, c.name, 0, "%v", err)
		}
		if !ok {
			return cerrors.At(cerrors.ErrPoKFailure, c.name, 0, "pairing equality failed")
		}
	}

	g1 := e.G1Generator()
	g2 := e.G2Generator()

	beforeTauG1, err := ReadG1Batch(e, in.TauG1, e.SizeG1Uncompressed(), 2, cerrors.ArrayTauG1, 0, false)
	if err != nil {
		return err
	}
	afterTauG1, err := ReadG1Batch(e, out.TauG1, e.SizeG1Uncompressed(), 2, cerrors.ArrayTauG1, 0, false)
	if err != nil {
		return err
	}
	if !e.EqualG1(afterTauG1[0], g1) {
		return cerrors.At(cerrors.ErrInvalidGenerator, cerrors.ArrayTauG1, 0, "index 0 is not the G1 generator")
	}

	beforeTauG2, err := ReadG2Batch(e, in.TauG2, e.SizeG2Uncompressed(), 2, cerrors.ArrayTauG2, 0, false)
	if err != nil {
		return err
	}
	afterTauG2, err := ReadG2Batch(e, out.TauG2, e.SizeG2Uncompressed(), 2, cerrors.ArrayTauG2, 0, false)
	if err != nil {
		return err
	}
	if !e.EqualG2(afterTauG2[0], g2) {
		return cerrors.At(cerrors.ErrInvalidGenerator, cerrors.ArrayTauG2, 0, "index 0 is not the G2 generator")
	}

	if err := stepCheckG1(e, beforeTauG1[1], afterTauG1[1], tauG2s, pub.TauG2, cerrors.ArrayTauG1); err != nil {
		return err
	}
	if err := stepCheckG2(e, pub.TauG1, pub.TauSG1, beforeTauG2[1], afterTauG2[1], cerrors.ArrayTauG2); err != nil {
		return err
	}

	beforeAlpha, err := ReadG1Batch(e, in.AlphaG1, e.SizeG1Uncompressed(), 1, cerrors.ArrayAlphaG1, 0, false)
	if err != nil {
		return err
	}
	afterAlpha, err := ReadG1Batch(e, out.AlphaG1, e.SizeG1Uncompressed(), 1, cerrors.ArrayAlphaG1, 0, false)
	if err != nil {
		return err
	}
	if err := stepCheckG1(e, beforeAlpha[0], afterAlpha[0], alphaG2s, pub.AlphaG2, cerrors.ArrayAlphaG1); err != nil {
		return err
	}

	beforeBeta, err := ReadG1Batch(e, in.BetaG1, e.SizeG1Uncompressed(), 1, cerrors.ArrayBetaG1, 0, false)
	if err != nil {
		return err
	}
	afterBeta, err := ReadG1Batch(e, out.BetaG1, e.SizeG1Uncompressed(), 1, cerrors.ArrayBetaG1, 0, false)
	if err != nil {
		return err
	}
	if err := stepCheckG1(e, beforeBeta[0], afterBeta[0], betaG2s, pub.BetaG2, cerrors.ArrayBetaG1); err != nil {
		return err
	}

	beforeBetaG2, err := ReadG2Batch(e, in.BetaG2, e.SizeG2Uncompressed(), 1, cerrors.ArrayBetaG2, 0, false)
	if err != nil {
		return err
	}
	afterBetaG2, err := ReadG2Batch(e, out.BetaG2, e.SizeG2Uncompressed(), 1, cerrors.ArrayBetaG2, 0, false)
	if err != nil {
		return err
	}
	if err := stepCheckG2(e, pub.BetaG1, pub.BetaSG1, beforeBetaG2[0], afterBetaG2[0], cerrors.ArrayBetaG2); err != nil {
		return err
	}
	return nil
}

// stepCheckG1 confirms a G1 array element was raised to the scalar
// committed to by the PoK pair (g2s, x2): e(before, x2) == e(after, g2s).
func stepCheckG1(e curve.Engine, before, after curve.G1, g2s, x2 curve.G2, array string) error {
	ok, err := e.SameRatio(before, after, g2s, x2)
	if err != nil {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "%v", err)
	}
	if !ok {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "before/after step check failed")
	}
	return nil
}

// stepCheckG2 is stepCheckG1's mirror for a G2 array whose step is
// checked against a G1 PoK pair (s, sx): e(s, after) == e(sx, before).
func stepCheckG2(e curve.Engine, s, sx curve.G1, before, after curve.G2, array string) error {
	ok, err := e.SameRatio(s, sx, before, after)
	if err != nil {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "%v", err)
	}
	if !ok {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "before/after step check failed")
	}
	return nil
}

// verifySubgroups re-reads every output array in windows, checking each
// point is non-zero and in the prime-order subgroup.
func verifySubgroups(e curve.Engine, out Layout, p *Parameters) error {
	type arr struct {
		name string
		buf  []byte
		isG2 bool
		size int
	}
	arrays := []arr{
		{cerrors.ArrayTauG1, out.TauG1, false, e.SizeG1Uncompressed()},
		{cerrors.ArrayTauG2, out.TauG2, true, e.SizeG2Uncompressed()},
		{cerrors.ArrayAlphaG1, out.AlphaG1, false, e.SizeG1Uncompressed()},
		{cerrors.ArrayBetaG1, out.BetaG1, false, e.SizeG1Uncompressed()},
	}
	if len(out.BetaG2) > 0 {
		arrays = append(arrays, arr{cerrors.ArrayBetaG2, out.BetaG2, true, e.SizeG2Uncompressed()})
	}
	names := make([]string, len(arrays))
	for i, a := range arrays {
		names[i] = a.name
	}
	byName := make(map[string]arr, len(arrays))
	for _, a := range arrays {
		byName[a.name] = a
	}

	return ParallelArrays(names, func(name string) error {
		a := byName[name]
		count := len(a.buf) / a.size
		windows := partitions(count, p.BatchSize)
		for _, w := range windows {
			n := w.End - w.Start
			buf := a.buf[w.Start*a.size : w.End*a.size]
			if a.isG2 {
				if _, err := ReadG2Batch(e, buf, a.size, n, a.name, w.Start, true); err != nil {
					return err
				}
			} else {
				if _, err := ReadG1Batch(e, buf, a.size, n, a.name, w.Start, true); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// VerifyRatios confirms the consecutive-power structure of a fully
// assembled accumulator via randomized sliding-window pairing checks.
func VerifyRatios(buf []byte, p *Parameters, rng RandScalarFunc) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e := p.Engine
	layout, err := SplitFull(buf, p, Uncompressed)
	if err != nil {
		return err
	}

	g1 := e.G1Generator()
	g2 := e.G2Generator()

	tauG1, err := ReadG1Batch(e, layout.TauG1, e.SizeG1Uncompressed(), 2, cerrors.ArrayTauG1, 0, false)
	if err != nil {
		return err
	}
	tauG2, err := ReadG2Batch(e, layout.TauG2, e.SizeG2Uncompressed(), 2, cerrors.ArrayTauG2, 0, false)
	if err != nil {
		return err
	}
	if !e.EqualG1(tauG1[0], g1) {
		return cerrors.At(cerrors.ErrInvalidGenerator, cerrors.ArrayTauG1, 0, "index 0 is not the G1 generator")
	}
	if !e.EqualG2(tauG2[0], g2) {
		return cerrors.At(cerrors.ErrInvalidGenerator, cerrors.ArrayTauG2, 0, "index 0 is not the G2 generator")
	}

	G, L := p.PowersG1Length(), p.PowersLength()

	// τG1 against (τG2[0], τG2[1]): proves Pi+1 = Pi^τ across the window.
	if err := ratioWindowCheck(e, layout.TauG1, e.SizeG1Uncompressed(), G, p.BatchSize,
		cerrors.ArrayTauG1, rng, func(a1, a2 curve.G1) (bool, error) {
			return e.SameRatio(a1, a2, tauG2[0], tauG2[1])
		}); err != nil {
		return err
	}

	// τG2 against (τG1[0], τG1[1]).
	if err := ratioWindowCheckG2(e, layout.TauG2, e.SizeG2Uncompressed(), L, p.BatchSize,
		cerrors.ArrayTauG2, rng, func(b1, b2 curve.G2) (bool, error) {
			return e.SameRatio(tauG1[0], tauG1[1], b1, b2)
		}); err != nil {
		return err
	}

	// αG1, βG1 against the same τG2 initial pair.
	if err := ratioWindowCheck(e, layout.AlphaG1, e.SizeG1Uncompressed(), L, p.BatchSize,
		cerrors.ArrayAlphaG1, rng, func(a1, a2 curve.G1) (bool, error) {
			return e.SameRatio(a1, a2, tauG2[0], tauG2[1])
		}); err != nil {
		return err
	}
	if err := ratioWindowCheck(e, layout.BetaG1, e.SizeG1Uncompressed(), L, p.BatchSize,
		cerrors.ArrayBetaG1, rng, func(a1, a2 curve.G1) (bool, error) {
			return e.SameRatio(a1, a2, tauG2[0], tauG2[1])
		}); err != nil {
		return err
	}
	return nil
}

// RandScalarFunc supplies the random field elements used to form the
// random linear combination in the sliding-window ratio check. Exists as
// a function type so callers can plug in a deterministic RNG for tests.
type RandScalarFunc func(e curve.Engine) ([]byte, error)

func ratioWindowCheck(e curve.Engine, buf []byte, elemSize, length, batchSize int, array string, rng RandScalarFunc, check func(a1, a2 curve.G1) (bool, error)) error {
	windows := Windows(length, batchSize)
	return ParallelWindows(windows, func(w Window) error {
		n := w.End - w.Start
		points, err := ReadG1Batch(e, buf[w.Start*elemSize:w.End*elemSize], elemSize, n, array, w.Start, false)
		if err != nil {
			return err
		}
		left, right, err := randomLinearCombinationG1(e, points, rng)
		if err != nil {
			return cerrors.At(cerrors.ErrRatioCheck, array, w.Start, "%v", err)
		}
		ok, err := check(left, right)
		if err != nil {
			return cerrors.At(cerrors.ErrRatioCheck, array, w.Start, "%v", err)
		}
		if !ok {
			return cerrors.At(cerrors.ErrRatioCheck, array, w.Start, "power progression failed")
		}
		return nil
	})
}

func ratioWindowCheckG2(e curve.Engine, buf []byte, elemSize, length, batchSize int, array string, rng RandScalarFunc, check func(b1, b2 curve.G2) (bool, error)) error {
	windows := Windows(length, batchSize)
	return ParallelWindows(windows, func(w Window) error {
		n := w.End - w.Start
		points, err := ReadG2Batch(e, buf[w.Start*elemSize:w.End*elemSize], elemSize, n, array, w.Start, false)
		if err != nil {
			return err
		}
		left, right, err := randomLinearCombinationG2(e, points, rng)
		if err != nil {
			return cerrors.At(cerrors.ErrRatioCheck, array, w.Start, "%v", err)
		}
		ok, err := check(left, right)
		if err != nil {
			return cerrors.At(cerrors.ErrRatioCheck, array, w.Start, "%v", err)
		}
		if !ok {
			return cerrors.At(cerrors.ErrRatioCheck, array, w.Start, "power progression failed")
		}
		return nil
	})
}

// randomLinearCombinationG1 computes (Σ rᵢ·Pᵢ, Σ rᵢ·Pᵢ₊₁) over a window
// of n+1 points P0..Pn, for i in [0,n) -- the batched power-pair
// construction behind the sliding-window ratio check.
func randomLinearCombinationG1(e curve.Engine, points []curve.G1, rng RandScalarFunc) (curve.G1, curve.G1, error) {
	n := len(points) - 1
	if n < 1 {
		return nil, nil, cerrors.At(cerrors.ErrInvalidChunk, "ratio", 0, "window too small for a pair check")
	}
	scalars := make([][]byte, n)
	for i := 0; i < n; i++ {
		s, err := rng(e)
		if err != nil {
			return nil, nil, err
		}
		scalars[i] = s
	}
	left, err := e.MultiExpG1(points[:n], scalars)
	if err != nil {
		return nil, nil, err
	}
	right, err := e.MultiExpG1(points[1:], scalars)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func randomLinearCombinationG2(e curve.Engine, points []curve.G2, rng RandScalarFunc) (curve.G2, curve.G2, error) {
	n := len(points) - 1
	if n < 1 {
		return nil, nil, cerrors.At(cerrors.ErrInvalidChunk, "ratio", 0, "window too small for a pair check")
	}
	scalars := make([][]byte, n)
	for i := 0; i < n; i++ {
		s, err := rng(e)
		if err != nil {
			return nil, nil, err
		}
		scalars[i] = s
	}
	left, err := e.MultiExpG2(points[:n], scalars)
	if err != nil {
		return nil, nil, err
	}
	right, err := e.MultiExpG2(points[1:], scalars)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// Decompress reads compressed points and re-serializes them uncompressed.
// The βG2 singleton is done once; the G1/G2 arrays run in parallel
// scopes.
func Decompress(input, output []byte, p *Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e := p.Engine
	in, err := SplitFull(input, p, Compressed)
	if err != nil {
		return err
	}
	out, err := SplitFull(output, p, Uncompressed)
	if err != nil {
		return err
	}

	names := []string{cerrors.ArrayTauG1, cerrors.ArrayTauG2, cerrors.ArrayAlphaG1, cerrors.ArrayBetaG1, cerrors.ArrayBetaG2}
	return ParallelArrays(names, func(name string) error {
		switch name {
		case cerrors.ArrayTauG1:
			return decompressG1(e, in.TauG1, out.TauG1, name)
		case cerrors.ArrayTauG2:
			return decompressG2(e, in.TauG2, out.TauG2, name)
		case cerrors.ArrayAlphaG1:
			return decompressG1(e, in.AlphaG1, out.AlphaG1, name)
		case cerrors.ArrayBetaG1:
			return decompressG1(e, in.BetaG1, out.BetaG1, name)
		case cerrors.ArrayBetaG2:
			return decompressG2(e, in.BetaG2, out.BetaG2, name)
		}
		return nil
	})
}

func decompressG1(e curve.Engine, in, out []byte, array string) error {
	inSize := e.SizeG1Compressed()
	count := len(in) / inSize
	points, err := ReadG1Batch(e, in, inSize, count, array, 0, false)
	if err != nil {
		return err
	}
	WriteG1Batch(e, out, points, false)
	return nil
}

func decompressG2(e curve.Engine, in, out []byte, array string) error {
	inSize := e.SizeG2Compressed()
	count := len(in) / inSize
	points, err := ReadG2Batch(e, in, inSize, count, array, 0, false)
	if err != nil {
		return err
	}
	WriteG2Batch(e, out, points, false)
	return nil
}

// Combine re-slices each chunk's input by chunk view and copies it into
// the full-length output at offset k*chunk_size, re-serializing each
// batch at the output compression (chunk responses are typically
// compressed while the combined accumulator is not). The βG2 singleton is
// written from chunk 0 only. The caller-owned digest prefix is always
// initialized to the BLAKE2b of the previous state -- zero for a fresh
// file -- never left blank.
func Combine(chunks [][]byte, output []byte, p *Parameters, inputCompressed, outputCompressed bool) error {
	base := *p
	base.Mode = Full
	if err := base.Validate(); err != nil {
		return err
	}
	if p.ChunkSize <= 0 {
		return cerrors.At(cerrors.ErrInvalidChunk, "combine", 0,
			"chunk_size must be > 0 to combine, got %d", p.ChunkSize)
	}
	e := base.Engine
	out, err := SplitFull(output, &base, compressionOf(outputCompressed))
	if err != nil {
		return err
	}

	inG1sz, inG2sz := elemSizes(&base, compressionOf(inputCompressed))
	outG1sz, outG2sz := elemSizes(&base, compressionOf(outputCompressed))

	for k, chunkBuf := range chunks {
		cp := base
		cp.Mode = Chunked
		cp.ChunkIndex = k
		cp.ChunkSize = p.ChunkSize
		bounds := cp.Bounds(k, cp.ChunkSize)

		in, err := SplitChunk(chunkBuf, &cp, compressionOf(inputCompressed))
		if err != nil {
			return cerrors.At(cerrors.ErrInvalidChunk, "combine", k, "%v", err)
		}

		nG1 := bounds.G1InChunk
		tauG1, err := ReadG1Batch(e, in.TauG1, inG1sz, nG1, cerrors.ArrayTauG1, bounds.Start, false)
		if err != nil {
			return err
		}
		WriteG1Batch(e, out.TauG1[bounds.Start*outG1sz:(bounds.Start+nG1)*outG1sz], tauG1, outputCompressed)

		lStart := min(bounds.Start, base.PowersLength())
		n := bounds.OtherInChunk
		if n > 0 {
			tauG2, err := ReadG2Batch(e, in.TauG2, inG2sz, n, cerrors.ArrayTauG2, lStart, false)
			if err != nil {
				return err
			}
			WriteG2Batch(e, out.TauG2[lStart*outG2sz:(lStart+n)*outG2sz], tauG2, outputCompressed)

			alphaG1, err := ReadG1Batch(e, in.AlphaG1, inG1sz, n, cerrors.ArrayAlphaG1, lStart, false)
			if err != nil {
				return err
			}
			WriteG1Batch(e, out.AlphaG1[lStart*outG1sz:(lStart+n)*outG1sz], alphaG1, outputCompressed)

			betaG1, err := ReadG1Batch(e, in.BetaG1, inG1sz, n, cerrors.ArrayBetaG1, lStart, false)
			if err != nil {
				return err
			}
			WriteG1Batch(e, out.BetaG1[lStart*outG1sz:(lStart+n)*outG1sz], betaG1, outputCompressed)
		}

		if k == 0 {
			betaG2, err := ReadG2Batch(e, in.BetaG2, inG2sz, 1, cerrors.ArrayBetaG2, 0, false)
			if err != nil {
				return err
			}
			WriteG2Batch(e, out.BetaG2, betaG2, outputCompressed)
		}
	}
	return nil
}
