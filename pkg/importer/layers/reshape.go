package layers

import (
	"encoding/binary"
	"fmt"

	"github.com/zerfoo/zerfoo/compute"
	"github.com/zerfoo/zerfoo/graph"
	"github.com/zerfoo/zerfoo/numeric"
	"github.com/zerfoo/zerfoo/tensor"
	"github.com/zerfoo/zonnxopt/internal/onnx"
	"github.com/zerfoo/zonnxopt/pkg/registry"
)

func init() {
	registry.Register("Reshape", BuildReshape[float32])
}

// BuildReshape validates an ONNX Reshape node and parses its constant INT64
// shape input. It builds no layer: on success it returns a nil graph.Node
// and a nil error.
func BuildReshape[T tensor.Numeric](
	_ compute.Engine[T],
	_ numeric.Arithmetic[T],
	node *onnx.NodeProto,
	ctx *registry.ConversionContext,
) (graph.Node[T], error) {
	if len(node.GetInput()) != 2 {
		return nil, fmt.Errorf("ONNX Reshape node %s must have 2 inputs (data, shape)", node.GetName())
	}
	shapeTensorName := node.GetInput()[1]

	shapeTensor, ok := ctx.Initializers[shapeTensorName]
	if !ok {
		return nil, fmt.Errorf("could not find shape initializer tensor '%s' for Reshape node %s", shapeTensorName, node.GetName())
	}

	// Parse the shape tensor data
	if onnx.TensorProto_DataType(shapeTensor.GetDataType()) != onnx.TensorProto_INT64 {
		return nil, fmt.Errorf("shape tensor %s must be of type INT64", shapeTensorName)
	}

	rawData := shapeTensor.GetRawData()
	if len(rawData)%8 != 0 {
		return nil, fmt.Errorf("invalid raw data length for INT64 tensor %s", shapeTensorName)
	}

	numElements := len(rawData) / 8
	targetShape := make([]int64, numElements)
	for i := 0; i < numElements; i++ {
		val := binary.LittleEndian.Uint64(rawData[i*8 : (i+1)*8])
		targetShape[i] = int64(val)
	}

	// TODO: no zerfoo Reshape layer exists yet to wrap targetShape in.
	return nil, nil
}
