package onnx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func int32Ptr(v int32) *int32 { return &v }
func strPtr(v string) *string { return &v }
func attrTypePtr(v AttributeProto_AttributeType) *AttributeProto_AttributeType { return &v }

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	elemType := int32(TensorProto_FLOAT)
	model := &ModelProto{
		IrVersion:       int64Ptr(9),
		ProducerName:    strPtr("zonnxopt-test"),
		ProducerVersion: strPtr("1.0"),
		OpsetImport: []*OperatorSetIdProto{
			{Version: int64Ptr(17)},
		},
		Graph: &GraphProto{
			Name: strPtr("g"),
			Node: []*NodeProto{
				{
					Name:   strPtr("transpose0"),
					OpType: strPtr("Transpose"),
					Input:  []string{"x"},
					Output: []string{"y"},
					Attribute: []*AttributeProto{
						{
							Name:  strPtr("perm"),
							Type:  attrTypePtr(AttributeProto_INTS),
							Ints:  []int64{0, 2, 3, 1},
						},
					},
				},
			},
			Input: []*ValueInfoProto{
				{
					Name: strPtr("x"),
					Type: &TypeProto{
						Value: &TypeProto_TensorType{
							TensorType: &TypeProto_Tensor{
								ElemType: &elemType,
								Shape: &TensorShapeProto{
									Dim: []*TensorShapeProto_Dimension{
										{Value: &TensorShapeProto_Dimension_DimValue{DimValue: 1}},
										{Value: &TensorShapeProto_Dimension_DimParam{DimParam: "batch"}},
									},
								},
							},
						},
					},
				},
			},
			Initializer: []*TensorProto{
				{
					Name:     strPtr("w"),
					DataType: int32Ptr(int32(TensorProto_FLOAT)),
					Dims:     []int64{2, 2},
					RawData:  []byte{0, 0, 0, 0, 0, 0, 128, 63},
				},
			},
		},
	}

	data, err := Marshal(model)
	require.NoError(t, err)

	got := &ModelProto{}
	require.NoError(t, Unmarshal(data, got))

	require.Equal(t, int64(9), got.GetIrVersion())
	require.Equal(t, "zonnxopt-test", got.GetProducerName())
	require.Len(t, got.GetOpsetImport(), 1)
	require.Equal(t, int64(17), got.GetOpsetImport()[0].GetVersion())

	require.NotNil(t, got.GetGraph())
	require.Equal(t, "g", got.GetGraph().GetName())
	require.Len(t, got.GetGraph().GetNode(), 1)

	node := got.GetGraph().GetNode()[0]
	require.Equal(t, "transpose0", node.GetName())
	require.Equal(t, "Transpose", node.GetOpType())
	require.Equal(t, []string{"x"}, node.GetInput())
	require.Equal(t, []string{"y"}, node.GetOutput())
	require.Len(t, node.GetAttribute(), 1)
	require.Equal(t, "perm", node.GetAttribute()[0].GetName())
	require.Equal(t, AttributeProto_INTS, node.GetAttribute()[0].GetType())
	require.Equal(t, []int64{0, 2, 3, 1}, node.GetAttribute()[0].GetInts())

	require.Len(t, got.GetGraph().GetInput(), 1)
	input := got.GetGraph().GetInput()[0]
	require.Equal(t, "x", input.GetName())
	dims := input.GetType().GetTensorType().GetShape().GetDim()
	require.Len(t, dims, 2)
	require.Equal(t, int64(1), dims[0].GetDimValue())
	require.Equal(t, "batch", dims[1].GetDimParam())
	require.Equal(t, int32(TensorProto_FLOAT), input.GetType().GetTensorType().GetElemType())

	require.Len(t, got.GetGraph().GetInitializer(), 1)
	tensor := got.GetGraph().GetInitializer()[0]
	require.Equal(t, "w", tensor.GetName())
	require.Equal(t, []int64{2, 2}, tensor.GetDims())
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 128, 63}, tensor.GetRawData())
}

func TestUnmarshalEmpty(t *testing.T) {
	model := &ModelProto{}
	require.NoError(t, Unmarshal(nil, model))
	require.Nil(t, model.GetGraph())
}

func TestTensorProtoDataTypeString(t *testing.T) {
	require.Equal(t, "FLOAT", TensorProto_FLOAT.String())
	require.Equal(t, "INT64", TensorProto_INT64.String())
	require.Equal(t, "UNKNOWN", TensorProto_DataType(99).String())
}
