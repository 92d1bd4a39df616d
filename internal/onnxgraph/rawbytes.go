package onnxgraph

import "github.com/zerfoo/zmf"

// elemSize returns the width in bytes of one element of dtype, or 0 for a
// type this package does not know how to move by raw bytes.
func elemSize(dtype zmf.Tensor_DataType) int {
	switch dtype {
	case zmf.Tensor_FLOAT32, zmf.Tensor_INT32:
		return 4
	case zmf.Tensor_FLOAT64, zmf.Tensor_INT64:
		return 8
	case zmf.Tensor_FLOAT16, zmf.Tensor_BFLOAT16:
		return 2
	case zmf.Tensor_INT8, zmf.Tensor_UINT8, zmf.Tensor_BOOL:
		return 1
	default:
		return 0
	}
}

// transposeBytes reorders the flat element buffer data (shaped by shape) the
// same way a Transpose(perm) node would at runtime, moving whole elemSize-
// wide elements rather than interpreting their value. Used to fold a
// Transpose into a constant initializer instead of leaving it in the graph.
func transposeBytes(data []byte, shape, perm []int64, elemSize int) []byte {
	rank := len(shape)
	if rank == 0 {
		return append([]byte(nil), data...)
	}

	oldStrides := make([]int64, rank)
	oldStrides[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		oldStrides[i] = oldStrides[i+1] * shape[i+1]
	}

	newShape := make([]int64, rank)
	for i, p := range perm {
		newShape[i] = shape[p]
	}
	newStrides := make([]int64, rank)
	newStrides[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		newStrides[i] = newStrides[i+1] * newShape[i+1]
	}

	total := int64(1)
	for _, d := range shape {
		total *= d
	}

	out := make([]byte, len(data))
	idx := make([]int64, rank)
	for newFlat := int64(0); newFlat < total; newFlat++ {
		rem := newFlat
		for d := 0; d < rank; d++ {
			idx[d] = rem / newStrides[d]
			rem %= newStrides[d]
		}
		var oldFlat int64
		for d := 0; d < rank; d++ {
			oldFlat += idx[d] * oldStrides[perm[d]]
		}
		srcOff := oldFlat * int64(elemSize)
		dstOff := newFlat * int64(elemSize)
		copy(out[dstOff:dstOff+int64(elemSize)], data[srcOff:srcOff+int64(elemSize)])
	}
	return out
}
