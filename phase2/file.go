package phase2

import (
	"encoding/binary"
	"fmt"

	"github.com/giuliop/tauceremony/curve"
	"github.com/giuliop/tauceremony/phase1"
)

// Phase-2 parameters file format: a header with circuit metadata, then
// the serialized query vectors, then the list of contribution records. Both compressed and
// uncompressed point encodings are supported; the choice is recorded in
// the header.
const fileMagic = "TZC2"

// Encode serializes a full MPCParameters set to the wire format.
func Encode(params *MPCParameters, compressed bool) ([]byte, error) {
	e := params.Engine
	var out []byte
	out = append(out, fileMagic...)
	out = append(out, byte(e.Kind()))
	if compressed {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = append(out, params.CSHash[:]...)

	var u64 [8]byte
	putU64 := func(n int) {
		binary.BigEndian.PutUint64(u64[:], uint64(n))
		out = append(out, u64[:]...)
	}
	putU64(len(params.HQuery))
	putU64(len(params.AQuery))
	putU64(len(params.LQuery))
	putU64(len(params.Contributions))

	out = append(out, e.EncodeG1(params.AlphaG1, compressed)...)
	out = append(out, e.EncodeG1(params.BetaG1, compressed)...)
	out = append(out, e.EncodeG1(params.DeltaG1, compressed)...)
	out = append(out, e.EncodeG2(params.BetaG2, compressed)...)
	out = append(out, e.EncodeG2(params.DeltaG2, compressed)...)

	out = append(out, EncodeG1Vector(e, params.AQuery, compressed)...)
	out = append(out, EncodeG1Vector(e, params.BG1Query, compressed)...)
	out = append(out, EncodeG2Vector(e, params.BG2Query, compressed)...)
	out = append(out, EncodeG1Vector(e, params.HQuery, compressed)...)
	out = append(out, EncodeG1Vector(e, params.LQuery, compressed)...)

	for _, c := range params.Contributions {
		out = append(out, EncodeDeltaPublicKey(e, c.PublicKey)...)
		out = append(out, c.TranscriptHash[:]...)
	}
	return out, nil
}

// Decode parses Encode's format.
func Decode(buf []byte) (*MPCParameters, error) {
	if len(buf) < len(fileMagic)+1+1+phase1.HashSize+32 {
		return nil, fmt.Errorf("phase2 file: too short")
	}
	off := 0
	if string(buf[off:off+len(fileMagic)]) != fileMagic {
		return nil, fmt.Errorf("phase2 file: bad magic")
	}
	off += len(fileMagic)

	kind := curve.Kind(buf[off])
	off++
	compressed := buf[off] == 1
	off++

	e, ok := curve.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("phase2 file: unknown curve kind %d", kind)
	}

	var csHash [phase1.HashSize]byte
	copy(csHash[:], buf[off:off+phase1.HashSize])
	off += phase1.HashSize

	readU64 := func() int {
		n := int(binary.BigEndian.Uint64(buf[off : off+8]))
		off += 8
		return n
	}
	hLen := readU64()
	m := readU64()
	lLen := readU64()
	numContrib := readU64()

	g1sz := e.SizeG1Compressed()
	g2sz := e.SizeG2Compressed()
	if !compressed {
		g1sz = e.SizeG1Uncompressed()
		g2sz = e.SizeG2Uncompressed()
	}

	readG1 := func() (curve.G1, error) {
		p, err := e.DecodeG1(buf[off : off+g1sz])
		off += g1sz
		return p, err
	}
	readG2 := func() (curve.G2, error) {
		p, err := e.DecodeG2(buf[off : off+g2sz])
		off += g2sz
		return p, err
	}

	alphaG1, err := readG1()
	if err != nil {
		return nil, err
	}
	betaG1, err := readG1()
	if err != nil {
		return nil, err
	}
	deltaG1, err := readG1()
	if err != nil {
		return nil, err
	}
	betaG2, err := readG2()
	if err != nil {
		return nil, err
	}
	deltaG2, err := readG2()
	if err != nil {
		return nil, err
	}

	readG1Vec := func(count int) ([]curve.G1, error) {
		v, err := DecodeG1Vector(e, buf[off:], count, compressed)
		off += count * g1sz
		return v, err
	}
	readG2Vec := func(count int) ([]curve.G2, error) {
		v, err := DecodeG2Vector(e, buf[off:], count, compressed)
		off += count * g2sz
		return v, err
	}

	aQuery, err := readG1Vec(m)
	if err != nil {
		return nil, err
	}
	bG1Query, err := readG1Vec(m)
	if err != nil {
		return nil, err
	}
	bG2Query, err := readG2Vec(m)
	if err != nil {
		return nil, err
	}
	hQuery, err := readG1Vec(hLen)
	if err != nil {
		return nil, err
	}
	lQuery, err := readG1Vec(lLen)
	if err != nil {
		return nil, err
	}

	contributions := make([]ContributionRecord, numContrib)
	for i := 0; i < numContrib; i++ {
		pk, err := DecodeDeltaPublicKey(e, buf[off:])
		if err != nil {
			return nil, fmt.Errorf("contribution %d: %w", i, err)
		}
		off += 2*e.SizeG1Uncompressed() + e.SizeG2Uncompressed()
		var th [phase1.HashSize]byte
		copy(th[:], buf[off:off+phase1.HashSize])
		off += phase1.HashSize
		contributions[i] = ContributionRecord{PublicKey: pk, TranscriptHash: th}
	}

	return &MPCParameters{
		Engine:        e,
		AlphaG1:       alphaG1,
		BetaG1:        betaG1,
		DeltaG1:       deltaG1,
		BetaG2:        betaG2,
		DeltaG2:       deltaG2,
		AQuery:        aQuery,
		BG1Query:      bG1Query,
		BG2Query:      bG2Query,
		HQuery:        hQuery,
		LQuery:        lQuery,
		CSHash:        csHash,
		Contributions: contributions,
	}, nil
}
