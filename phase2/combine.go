package phase2

import (
	"github.com/giuliop/tauceremony/cerrors"
)

// Combine starts from initialQuery (the untouched, delta-independent
// query vectors from NewFromBufferChunked) and replaces the
// delta-dependent fields -- h_query, l_query, delta_g1, delta_g2 -- with
// the last response's values, appending every response's contribution
// record to the transcript.
//
// Every response must share initialQuery's cs_hash, or Combine rejects
// the set: accepting responses computed against different R1CS systems
// would silently produce parameters for no circuit at all.
func Combine(initialQuery *MPCParameters, responses []*MPCParameters) (*MPCParameters, error) {
	if len(responses) == 0 {
		return nil, cerrors.At(cerrors.ErrInvalidChunk, "phase2-combine", 0, "no responses to combine")
	}
	for i, r := range responses {
		if r.CSHash != initialQuery.CSHash {
			return nil, cerrors.At(cerrors.ErrSizeMismatch, "cs_hash", i,
				"response %d was computed against a different circuit", i)
		}
	}

	last := responses[len(responses)-1]

	var contributions []ContributionRecord
	for _, r := range responses {
		if len(r.Contributions) == 0 {
			return nil, cerrors.At(cerrors.ErrInvalidChunk, "phase2-combine", 0, "response carries no contribution record")
		}
		contributions = append(contributions, r.Contributions[len(r.Contributions)-1])
	}

	return &MPCParameters{
		Engine:        initialQuery.Engine,
		AlphaG1:       initialQuery.AlphaG1,
		BetaG1:        initialQuery.BetaG1,
		DeltaG1:       last.DeltaG1,
		BetaG2:        initialQuery.BetaG2,
		DeltaG2:       last.DeltaG2,
		AQuery:        initialQuery.AQuery,
		BG1Query:      initialQuery.BG1Query,
		BG2Query:      initialQuery.BG2Query,
		HQuery:        last.HQuery,
		LQuery:        last.LQuery,
		CSHash:        initialQuery.CSHash,
		Contributions: contributions,
	}, nil
}
