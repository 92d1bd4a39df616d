package onnxgraph

import (
	"github.com/zerfoo/zonnxopt/internal/graphapi"
	"github.com/zerfoo/zonnxopt/internal/permute"
)

// valueInfo is the side-table record graphapi.ValueInfo operations read
// and mutate. zmf has no per-edge value-info message, so this table is
// the sole source of truth for every value's shape/dtype once loaded.
type valueInfo struct {
	shape    []int64
	hasShape bool
	dtype    graphapi.DataType
}

func (v *valueInfo) Shape() ([]int64, bool) {
	if !v.hasShape {
		return nil, false
	}
	out := make([]int64, len(v.shape))
	copy(out, v.shape)
	return out, true
}

func (v *valueInfo) DType() graphapi.DataType {
	return v.dtype
}

func (v *valueInfo) SetShape(shape []int64) {
	if shape == nil {
		v.hasShape = false
		v.shape = nil
		return
	}
	v.shape = append([]int64(nil), shape...)
	v.hasShape = true
}

func (v *valueInfo) PermuteDims(perm []int64) {
	if !v.hasShape {
		return
	}
	newShape := make([]int64, len(perm))
	for i, p := range perm {
		newShape[i] = v.shape[p]
	}
	v.shape = newShape
}

func (v *valueInfo) UnsqueezeDims(axes []int64) {
	if !v.hasShape {
		return
	}
	v.shape = permute.UnsqueezeShape(v.shape, axes)
}
