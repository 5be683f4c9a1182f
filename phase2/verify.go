package phase2

import (
	"crypto/rand"
	"fmt"

	"github.com/giuliop/tauceremony/cerrors"
	"github.com/giuliop/tauceremony/curve"
	"github.com/giuliop/tauceremony/phase1"
)

// Verify checks that after is a valid single contribution on top of
// before: the new contribution record's PoK pairs with before's
// transcript hash, delta_g1/delta_g2 scaled consistently, and h_query/
// l_query scaled by the same delta'^-1 -- checked in batch via a random
// linear combination rather than element by element. When
// forceCorrectness is set (the --force-correctness-checks flag), every
// point of the incoming response is additionally checked for prime-order
// subgroup membership before any pairing runs. Returns the accumulated
// list of every contribution's transcript hash, oldest first.
func Verify(before, after *MPCParameters, forceCorrectness bool) ([][phase1.HashSize]byte, error) {
	if forceCorrectness {
		if err := checkParameterSubgroups(after); err != nil {
			return nil, err
		}
	}
	if len(after.Contributions) != len(before.Contributions)+1 {
		return nil, cerrors.At(cerrors.ErrInvalidChunk, "phase2-contributions", len(after.Contributions),
			"after must carry exactly one more contribution than before")
	}
	if before.CSHash != after.CSHash {
		return nil, cerrors.At(cerrors.ErrSizeMismatch, "cs_hash", 0, "before/after circuit hash mismatch")
	}

	e := before.Engine
	digest, err := TranscriptHash(before)
	if err != nil {
		return nil, err
	}
	record := after.Contributions[len(after.Contributions)-1]
	if record.TranscriptHash != digest {
		return nil, cerrors.At(cerrors.ErrPoKFailure, "phase2-delta", 0,
			"contribution not bound to before's transcript hash")
	}

	g2s, err := phase1.ComputeG2S(e, digest,
		e.EncodeG1(record.PublicKey.S, true), e.EncodeG1(record.PublicKey.SDelta, true), phase1.IndexDelta)
	if err != nil {
		return nil, err
	}

	ok, err := e.SameRatio(record.PublicKey.S, record.PublicKey.SDelta, g2s, record.PublicKey.DeltaG2)
	if err != nil {
		return nil, cerrors.At(cerrors.ErrPoKFailure, "phase2-delta", 0, "%v", err)
	}
	if !ok {
		return nil, cerrors.At(cerrors.ErrPoKFailure, "phase2-delta", 0, "delta PoK pairing equality failed")
	}

	// (before.delta_g1, after.delta_g1) must scale by the same factor as
	// (g2_s_delta, the PoK's delta_g2), tying delta_g1's transformation to
	// the delta' proven in the PoK above.
	ok, err = e.SameRatio(before.DeltaG1, after.DeltaG1, g2s, record.PublicKey.DeltaG2)
	if err != nil {
		return nil, cerrors.At(cerrors.ErrRatioCheck, "delta_g1", 0, "%v", err)
	}
	if !ok {
		return nil, cerrors.At(cerrors.ErrRatioCheck, "delta_g1", 0, "delta_g1 ratio check failed")
	}

	// delta_g2 must scale by that same delta', not an independently
	// chosen one: e(before.delta_g1, after.delta_g2) == e(after.delta_g1,
	// before.delta_g2). Without this, after.delta_g2 could be scaled by
	// any factor and the query-scaling check below would verify against
	// that wrong factor instead of the PoK'd delta'.
	ok, err = e.SameRatio(before.DeltaG1, after.DeltaG1, before.DeltaG2, after.DeltaG2)
	if err != nil {
		return nil, cerrors.At(cerrors.ErrRatioCheck, "delta_g2", 0, "%v", err)
	}
	if !ok {
		return nil, cerrors.At(cerrors.ErrRatioCheck, "delta_g2", 0, "delta_g2 ratio check failed")
	}

	if err := verifyQueryScaling(e, before.HQuery, after.HQuery, before.DeltaG2, after.DeltaG2, cerrors.ArrayHQuery); err != nil {
		return nil, err
	}
	if err := verifyQueryScaling(e, before.LQuery, after.LQuery, before.DeltaG2, after.DeltaG2, cerrors.ArrayLQuery); err != nil {
		return nil, err
	}

	hashes := make([][phase1.HashSize]byte, len(after.Contributions))
	for i, c := range after.Contributions {
		hashes[i] = c.TranscriptHash
	}
	return hashes, nil
}

// checkParameterSubgroups sweeps every point of a parameter set and
// confirms prime-order subgroup membership, qualifying failures by the
// vector they were found in.
func checkParameterSubgroups(params *MPCParameters) error {
	e := params.Engine
	checkG1 := func(array string, points []curve.G1) error {
		for i, p := range points {
			if !e.InSubgroupG1(p) {
				return cerrors.At(cerrors.ErrSubgroupCheck, array, i, "not in prime-order subgroup")
			}
		}
		return nil
	}
	if err := checkG1(cerrors.ArrayAQuery, params.AQuery); err != nil {
		return err
	}
	if err := checkG1(cerrors.ArrayBG1Query, params.BG1Query); err != nil {
		return err
	}
	if err := checkG1(cerrors.ArrayHQuery, params.HQuery); err != nil {
		return err
	}
	if err := checkG1(cerrors.ArrayLQuery, params.LQuery); err != nil {
		return err
	}
	for i, p := range params.BG2Query {
		if !e.InSubgroupG2(p) {
			return cerrors.At(cerrors.ErrSubgroupCheck, cerrors.ArrayBG2Query, i, "not in prime-order subgroup")
		}
	}
	for _, single := range []struct {
		name string
		ok   bool
	}{
		{"alpha_g1", e.InSubgroupG1(params.AlphaG1)},
		{"beta_g1", e.InSubgroupG1(params.BetaG1)},
		{"delta_g1", e.InSubgroupG1(params.DeltaG1)},
		{"beta_g2", e.InSubgroupG2(params.BetaG2)},
		{"delta_g2", e.InSubgroupG2(params.DeltaG2)},
	} {
		if !single.ok {
			return cerrors.At(cerrors.ErrSubgroupCheck, single.name, 0, "not in prime-order subgroup")
		}
	}
	for i, c := range params.Contributions {
		pk := c.PublicKey
		if !e.InSubgroupG1(pk.S) || !e.InSubgroupG1(pk.SDelta) || !e.InSubgroupG2(pk.DeltaG2) {
			return cerrors.At(cerrors.ErrSubgroupCheck, "contributions", i, "public key not in prime-order subgroup")
		}
	}
	return nil
}

// verifyQueryScaling checks, via one random linear combination over the
// whole vector, that after[i] = before[i]^(delta'^-1) for every i, where
// delta' is the scalar taking deltaG2Before to deltaG2After.
func verifyQueryScaling(e curve.Engine, before, after []curve.G1, deltaG2Before, deltaG2After curve.G2, array string) error {
	if len(before) != len(after) {
		return cerrors.At(cerrors.ErrSizeMismatch, array, 0, "before/after length mismatch: %d vs %d", len(before), len(after))
	}
	if len(before) == 0 {
		return nil
	}
	scalars := make([][]byte, len(before))
	for i := range scalars {
		s, err := e.RandomScalar(rand.Reader)
		if err != nil {
			return fmt.Errorf("%s: random scalar: %w", array, err)
		}
		scalars[i] = s
	}
	beforeComb, err := e.MultiExpG1(before, scalars)
	if err != nil {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "%v", err)
	}
	afterComb, err := e.MultiExpG1(after, scalars)
	if err != nil {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "%v", err)
	}

	// after = before^(delta'^-1) means before/after carries the same
	// ratio as deltaG2After/deltaG2Before, so pair (before, after)
	// against (deltaG2After, deltaG2Before) in that order.
	ok, err := e.SameRatio(beforeComb, afterComb, deltaG2After, deltaG2Before)
	if err != nil {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "%v", err)
	}
	if !ok {
		return cerrors.At(cerrors.ErrRatioCheck, array, 0, "query scaling does not match delta'^-1")
	}
	return nil
}
