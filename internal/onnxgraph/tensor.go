package onnxgraph

import (
	"encoding/binary"

	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/graphapi"
)

// tensor adapts zmf.Tensor (a Parameters-table entry) to graphapi.Tensor.
// Integer data is decoded from the raw little-endian bytes the same way
// pkg/converter decodes ONNX TensorProto raw_data.
type tensor struct {
	t *zmf.Tensor
}

func (t *tensor) Shape() []int64 {
	return append([]int64(nil), t.t.GetShape()...)
}

func (t *tensor) DType() graphapi.DataType {
	return fromZmfDtype(t.t.GetDtype())
}

func (t *tensor) DataInt64() []int64 {
	switch t.t.GetDtype() {
	case zmf.Tensor_INT64:
		return decodeInt64(t.t.GetData())
	case zmf.Tensor_INT32:
		raw := decodeInt32(t.t.GetData())
		out := make([]int64, len(raw))
		for i, v := range raw {
			out[i] = int64(v)
		}
		return out
	default:
		return nil
	}
}

func (t *tensor) DataInt32() []int32 {
	switch t.t.GetDtype() {
	case zmf.Tensor_INT32:
		return decodeInt32(t.t.GetData())
	case zmf.Tensor_INT64:
		raw := decodeInt64(t.t.GetData())
		out := make([]int32, len(raw))
		for i, v := range raw {
			out[i] = int32(v)
		}
		return out
	default:
		return nil
	}
}

func decodeInt64(raw []byte) []int64 {
	n := len(raw) / 8
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(binary.LittleEndian.Uint64(raw[i*8 : (i+1)*8]))
	}
	return out
}

func decodeInt32(raw []byte) []int32 {
	n := len(raw) / 4
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4 : (i+1)*4]))
	}
	return out
}

func encodeInt64(vals []int64) []byte {
	out := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[i*8:(i+1)*8], uint64(v))
	}
	return out
}

func encodeInt32(vals []int32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:(i+1)*4], uint32(v))
	}
	return out
}

func fromZmfDtype(d zmf.Tensor_DataType) graphapi.DataType {
	switch d {
	case zmf.Tensor_FLOAT32:
		return graphapi.DTypeFloat32
	case zmf.Tensor_FLOAT16:
		return graphapi.DTypeFloat16
	case zmf.Tensor_BFLOAT16:
		return graphapi.DTypeBFloat16
	case zmf.Tensor_FLOAT64:
		return graphapi.DTypeFloat64
	case zmf.Tensor_INT32:
		return graphapi.DTypeInt32
	case zmf.Tensor_INT64:
		return graphapi.DTypeInt64
	case zmf.Tensor_INT8:
		return graphapi.DTypeInt8
	case zmf.Tensor_UINT8:
		return graphapi.DTypeUInt8
	case zmf.Tensor_BOOL:
		return graphapi.DTypeBool
	default:
		return graphapi.DTypeUnknown
	}
}
