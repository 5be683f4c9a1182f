package phase1

import (
	"github.com/giuliop/tauceremony/cerrors"
	"github.com/giuliop/tauceremony/curve"
)

// SubgroupCheckMode mirrors the --subgroup-check-mode CLI flag.
type SubgroupCheckMode int

const (
	SubgroupCheckAuto SubgroupCheckMode = iota
	SubgroupCheckNo
	SubgroupCheckYes
)

// ReadG1Batch deserializes count consecutive G1 elements from buf
// (each elemSize bytes, compressed or uncompressed), optionally checking each is in the
// prime-order subgroup and non-zero.
func ReadG1Batch(e curve.Engine, buf []byte, elemSize, count int, array string, windowStart int, check bool) ([]curve.G1, error) {
	if len(buf) < elemSize*count {
		return nil, cerrors.At(cerrors.ErrInvalidLength, array, windowStart,
			"need %d bytes for %d elements, have %d", elemSize*count, count, len(buf))
	}
	out := make([]curve.G1, count)
	for i := 0; i < count; i++ {
		chunk := buf[i*elemSize : (i+1)*elemSize]
		p, err := e.DecodeG1(chunk)
		if err != nil {
			return nil, cerrors.At(cerrors.ErrDeserialization, array, windowStart+i, "%v", err)
		}
		if check {
			if e.IsIdentityG1(p) {
				return nil, cerrors.At(cerrors.ErrSubgroupCheck, array, windowStart+i, "identity element")
			}
			if !e.InSubgroupG1(p) {
				return nil, cerrors.At(cerrors.ErrSubgroupCheck, array, windowStart+i, "not in prime-order subgroup")
			}
		}
		out[i] = p
	}
	return out, nil
}

// ReadG2Batch is ReadG1Batch's G2 counterpart.
func ReadG2Batch(e curve.Engine, buf []byte, elemSize, count int, array string, windowStart int, check bool) ([]curve.G2, error) {
	if len(buf) < elemSize*count {
		return nil, cerrors.At(cerrors.ErrInvalidLength, array, windowStart,
			"need %d bytes for %d elements, have %d", elemSize*count, count, len(buf))
	}
	out := make([]curve.G2, count)
	for i := 0; i < count; i++ {
		chunk := buf[i*elemSize : (i+1)*elemSize]
		p, err := e.DecodeG2(chunk)
		if err != nil {
			return nil, cerrors.At(cerrors.ErrDeserialization, array, windowStart+i, "%v", err)
		}
		if check {
			if e.IsIdentityG2(p) {
				return nil, cerrors.At(cerrors.ErrSubgroupCheck, array, windowStart+i, "identity element")
			}
			if !e.InSubgroupG2(p) {
				return nil, cerrors.At(cerrors.ErrSubgroupCheck, array, windowStart+i, "not in prime-order subgroup")
			}
		}
		out[i] = p
	}
	return out, nil
}

// WriteG1Batch serializes points into buf at the given compression.
func WriteG1Batch(e curve.Engine, buf []byte, points []curve.G1, compressed bool) {
	elemSize := e.SizeG1Compressed()
	if !compressed {
		elemSize = e.SizeG1Uncompressed()
	}
	for i, p := range points {
		copy(buf[i*elemSize:(i+1)*elemSize], e.EncodeG1(p, compressed))
	}
}

// WriteG2Batch serializes points into buf at the given compression.
func WriteG2Batch(e curve.Engine, buf []byte, points []curve.G2, compressed bool) {
	elemSize := e.SizeG2Compressed()
	if !compressed {
		elemSize = e.SizeG2Uncompressed()
	}
	for i, p := range points {
		copy(buf[i*elemSize:(i+1)*elemSize], e.EncodeG2(p, compressed))
	}
}

// shouldCheckSubgroup resolves --subgroup-check-mode=auto to "check on
// chunk 0 / first chunk only" the way --batch-exp-mode=auto resolves
// itself in exponent.go: cheap defaults for interactive use, explicit
// yes/no for scripted ceremonies.
func shouldCheckSubgroup(mode SubgroupCheckMode, isFirstChunk bool) bool {
	switch mode {
	case SubgroupCheckYes:
		return true
	case SubgroupCheckNo:
		return false
	default:
		return isFirstChunk
	}
}
