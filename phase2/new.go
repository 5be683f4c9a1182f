package phase2

import (
	"fmt"

	"github.com/giuliop/tauceremony/cerrors"
	"github.com/giuliop/tauceremony/curve"
)

// NewFromBufferChunked builds the initial phase-2 MPC parameters from a
// phase-1 SRS and an R1CS circuit description. tauPowersG1/tauPowersG2
// must hold at least 2*p-1 and p elements respectively (h_query needs the
// doubled range); alphaTauG1/betaTauG1 need p elements each.
func NewFromBufferChunked(
	e curve.Engine,
	r *R1CS,
	tauPowersG1 []curve.G1,
	tauPowersG2 []curve.G2,
	alphaTauG1 []curve.G1,
	betaTauG1 []curve.G1,
	betaG2 curve.G2,
) (*MPCParameters, error) {
	p := r.DomainSize()

	// Step 1: Lagrange basis {L_i(tau)} over the size-p domain, in both
	// groups -- the b_g1/b_g2 queries need both, a_query only G1.
	basisG1, err := LagrangeBasisG1(e, tauPowersG1, p)
	if err != nil {
		return nil, fmt.Errorf("lagrange basis g1: %w", err)
	}
	basisG2, err := LagrangeBasisG2(e, tauPowersG2, p)
	if err != nil {
		return nil, fmt.Errorf("lagrange basis g2: %w", err)
	}

	// The alpha/beta-scaled tau-power commitments share the plain powers'
	// domain layout, so the same IFFT combination yields the scaled
	// Lagrange bases directly; l_query's beta*A(tau)/alpha*B(tau) terms
	// are then evaluated against these without any secret scalar ever
	// being reconstructed.
	alphaBasis, err := LagrangeBasisG1(e, alphaTauG1, p)
	if err != nil {
		return nil, fmt.Errorf("lagrange basis alpha: %w", err)
	}
	betaBasis, err := LagrangeBasisG1(e, betaTauG1, p)
	if err != nil {
		return nil, fmt.Errorf("lagrange basis beta: %w", err)
	}

	// Step 2: h_query[i] = tau^i * (tau^p - 1) * g1, 0 <= i < p-1.
	hQuery, err := HQueryFromPowers(e, tauPowersG1, p)
	if err != nil {
		return nil, fmt.Errorf("h_query: %w", err)
	}

	// Step 3: a_query, b_g1_query, b_g2_query, l_query from the R1CS
	// matrices via linear combinations of the Lagrange basis. l_query is
	// Groth16's (beta*A_i(tau) + alpha*B_i(tau) + C_i(tau)) / delta, with
	// delta = 1 at this point, so the numerators are stored as-is;
	// Contribute divides them by each round's delta'.
	m := r.NumVariables()
	aQuery := make([]curve.G1, m)
	bG1Query := make([]curve.G1, m)
	bG2Query := make([]curve.G2, m)

	rowsAt := func(col int) (aRow, bRow, cRow []Term) {
		for i, row := range r.A {
			for _, t := range row {
				if t.Index == col {
					aRow = append(aRow, Term{Coeff: t.Coeff, Index: i})
				}
			}
		}
		for i, row := range r.B {
			for _, t := range row {
				if t.Index == col {
					bRow = append(bRow, Term{Coeff: t.Coeff, Index: i})
				}
			}
		}
		for i, row := range r.C {
			for _, t := range row {
				if t.Index == col {
					cRow = append(cRow, Term{Coeff: t.Coeff, Index: i})
				}
			}
		}
		return
	}

	lNumerators := make([]curve.G1, m)
	for col := 0; col < m; col++ {
		aRow, bRow, cRow := rowsAt(col)

		aVal, err := evalRowG1(e, aRow, basisG1)
		if err != nil {
			return nil, fmt.Errorf("a_query[%d]: %w", col, err)
		}
		aQuery[col] = aVal

		bValG1, err := evalRowG1(e, bRow, basisG1)
		if err != nil {
			return nil, fmt.Errorf("b_g1_query[%d]: %w", col, err)
		}
		bG1Query[col] = bValG1

		bValG2, err := evalRowG2(e, bRow, basisG2)
		if err != nil {
			return nil, fmt.Errorf("b_g2_query[%d]: %w", col, err)
		}
		bG2Query[col] = bValG2

		// l_query numerator = beta*A_i(tau) + alpha*B_i(tau) + C_i(tau).
		betaA, err := evalRowG1(e, aRow, betaBasis)
		if err != nil {
			return nil, fmt.Errorf("l_query[%d] beta*A: %w", col, err)
		}
		alphaB, err := evalRowG1(e, bRow, alphaBasis)
		if err != nil {
			return nil, fmt.Errorf("l_query[%d] alpha*B: %w", col, err)
		}
		cVal, err := evalRowG1(e, cRow, basisG1)
		if err != nil {
			return nil, fmt.Errorf("l_query[%d] C: %w", col, err)
		}
		sum, err := e.MultiExpG1(
			[]curve.G1{betaA, alphaB, cVal},
			[][]byte{e.ScalarOne(), e.ScalarOne(), e.ScalarOne()},
		)
		if err != nil {
			return nil, fmt.Errorf("l_query[%d] sum: %w", col, err)
		}
		lNumerators[col] = sum
	}

	// Step 4: delta = 1, public-key list empty, cs_hash = BLAKE2b(A||B||C).
	csHash, err := CircuitHash(r)
	if err != nil {
		return nil, err
	}

	// alpha_g1/beta_g1 carry over straight from phase 1's accumulated
	// alpha/beta commitments (alphaTauG1[0] = g1^alpha, betaTauG1[0] =
	// g1^beta); only delta starts fresh at 1, since no participant has
	// contributed to it yet.
	return &MPCParameters{
		Engine:        e,
		AlphaG1:       alphaTauG1[0],
		BetaG1:        betaTauG1[0],
		DeltaG1:       e.G1Generator(),
		BetaG2:        betaG2,
		DeltaG2:       e.G2Generator(),
		AQuery:        aQuery,
		BG1Query:      bG1Query,
		BG2Query:      bG2Query,
		HQuery:        hQuery,
		LQuery:        lNumerators,
		CSHash:        csHash,
		Contributions: nil,
	}, nil
}

// SplitChunks carves the delta-dependent query vectors into chunk-sized
// parameter sets, one per chunk: each carries the shared header fields
// plus its own slice of h_query and l_query, so a chunked ceremony can
// hand every participant just the piece it will transform. The
// delta-independent vectors (a_query and the b queries) stay with the
// initial query set and are not duplicated into the chunks.
func SplitChunks(params *MPCParameters, chunkSize int) ([]*MPCParameters, error) {
	if chunkSize <= 0 {
		return nil, cerrors.At(cerrors.ErrInvalidChunk, "phase2-chunks", 0,
			"chunk_size must be > 0, got %d", chunkSize)
	}
	longest := len(params.HQuery)
	if len(params.LQuery) > longest {
		longest = len(params.LQuery)
	}
	numChunks := (longest + chunkSize - 1) / chunkSize
	if numChunks == 0 {
		numChunks = 1
	}

	slice := func(v []curve.G1, k int) []curve.G1 {
		start := k * chunkSize
		if start > len(v) {
			start = len(v)
		}
		end := start + chunkSize
		if end > len(v) {
			end = len(v)
		}
		return v[start:end]
	}

	out := make([]*MPCParameters, numChunks)
	for k := range out {
		out[k] = &MPCParameters{
			Engine:        params.Engine,
			AlphaG1:       params.AlphaG1,
			BetaG1:        params.BetaG1,
			DeltaG1:       params.DeltaG1,
			BetaG2:        params.BetaG2,
			DeltaG2:       params.DeltaG2,
			HQuery:        slice(params.HQuery, k),
			LQuery:        slice(params.LQuery, k),
			CSHash:        params.CSHash,
			Contributions: params.Contributions,
		}
	}
	return out, nil
}
