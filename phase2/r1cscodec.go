package phase2

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// jsonTerm and jsonR1CS are R1CS's wire format for the CLI: building a
// constraint system belongs to whatever compiled the circuit, but
// cmd/phase2 still needs some concrete way to read a circuit description
// from disk, so this mirrors gnark's JSON-friendly sparse-matrix
// conventions closely enough for a toolkit fixture.
type jsonTerm struct {
	Index int    `json:"index"`
	Coeff string `json:"coeff"` // hex-encoded scalar field element
}

type jsonR1CS struct {
	A           [][]jsonTerm `json:"a"`
	B           [][]jsonTerm `json:"b"`
	C           [][]jsonTerm `json:"c"`
	NumInstance int          `json:"num_instance"`
	NumWitness  int          `json:"num_witness"`
}

// EncodeR1CSJSON serializes an R1CS to the CLI's JSON fixture format.
func EncodeR1CSJSON(r *R1CS) ([]byte, error) {
	toRows := func(rows [][]Term) [][]jsonTerm {
		out := make([][]jsonTerm, len(rows))
		for i, row := range rows {
			jr := make([]jsonTerm, len(row))
			for j, t := range row {
				jr[j] = jsonTerm{Index: t.Index, Coeff: hex.EncodeToString(t.Coeff)}
			}
			out[i] = jr
		}
		return out
	}
	doc := jsonR1CS{
		A:           toRows(r.A),
		B:           toRows(r.B),
		C:           toRows(r.C),
		NumInstance: r.NumInstance,
		NumWitness:  r.NumWitness,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeR1CSJSON parses EncodeR1CSJSON's format.
func DecodeR1CSJSON(buf []byte) (*R1CS, error) {
	var doc jsonR1CS
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("decode r1cs: %w", err)
	}
	fromRows := func(rows [][]jsonTerm) ([][]Term, error) {
		out := make([][]Term, len(rows))
		for i, row := range rows {
			tr := make([]Term, len(row))
			for j, t := range row {
				coeff, err := hex.DecodeString(t.Coeff)
				if err != nil {
					return nil, fmt.Errorf("row %d term %d: %w", i, j, err)
				}
				tr[j] = Term{Index: t.Index, Coeff: coeff}
			}
			out[i] = tr
		}
		return out, nil
	}
	a, err := fromRows(doc.A)
	if err != nil {
		return nil, err
	}
	b, err := fromRows(doc.B)
	if err != nil {
		return nil, err
	}
	c, err := fromRows(doc.C)
	if err != nil {
		return nil, err
	}
	return &R1CS{A: a, B: b, C: c, NumInstance: doc.NumInstance, NumWitness: doc.NumWitness}, nil
}
