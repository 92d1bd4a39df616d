package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/onnx"
)

func strPtr(s string) *string { return &s }
func i32Ptr(v int32) *int32   { return &v }
func i64Ptr(v int64) *int64   { return &v }

func TestONNXToZMF_ConvertsAddNode(t *testing.T) {
	dt := int32(onnx.TensorProto_FLOAT)
	model := &onnx.ModelProto{
		OpsetImport: []*onnx.OperatorSetIdProto{{Version: i64Ptr(17)}},
		Graph: &onnx.GraphProto{
			Node: []*onnx.NodeProto{
				{Name: strPtr("add0"), OpType: strPtr("Add"), Input: []string{"x", "y"}, Output: []string{"z"}},
			},
			Input: []*onnx.ValueInfoProto{
				{Name: strPtr("x"), Type: tensorType(dt)},
				{Name: strPtr("y"), Type: tensorType(dt)},
			},
			Output: []*onnx.ValueInfoProto{
				{Name: strPtr("z"), Type: tensorType(dt)},
			},
		},
	}

	zmfModel, err := ONNXToZMF(model)
	require.NoError(t, err)
	require.Len(t, zmfModel.GetGraph().GetNodes(), 1)
	node := zmfModel.GetGraph().GetNodes()[0]
	assert.Equal(t, "Add", node.GetOpType())
	assert.Equal(t, []string{"x", "y"}, node.GetInputs())
	assert.Equal(t, int64(17), zmfModel.GetMetadata().GetOpsetVersion())
}

func TestONNXToZMF_PromotesTransposePermInput(t *testing.T) {
	model := &onnx.ModelProto{
		Graph: &onnx.GraphProto{
			Node: []*onnx.NodeProto{
				{
					Name:   strPtr("t0"),
					OpType: strPtr("Transpose"),
					Input:  []string{"x", "perm_const"},
					Output: []string{"y"},
				},
			},
			Initializer: []*onnx.TensorProto{
				{
					Name:      strPtr("perm_const"),
					DataType:  i32Ptr(int32(onnx.TensorProto_INT64)),
					Dims:      []int64{4},
					Int64Data: []int64{0, 2, 3, 1},
				},
			},
		},
	}

	zmfModel, err := ONNXToZMF(model)
	require.NoError(t, err)
	node := zmfModel.GetGraph().GetNodes()[0]
	permAttr, ok := node.GetAttributes()["perm"].GetValue().(*zmf.Attribute_Ints)
	require.True(t, ok, "perm attribute should hold a packed int list")
	assert.Equal(t, []int64{0, 2, 3, 1}, permAttr.Ints.GetVal())
	assert.NotContains(t, node.GetInputs(), "perm_const")
}

func TestONNXToZMF_SkipsUnconvertedInitializerDtype(t *testing.T) {
	model := &onnx.ModelProto{
		Graph: &onnx.GraphProto{
			Initializer: []*onnx.TensorProto{
				{
					Name:     strPtr("ids"),
					DataType: i32Ptr(int32(onnx.TensorProto_STRING)),
					Dims:     []int64{1},
				},
			},
		},
	}

	zmfModel, err := ONNXToZMF(model)
	require.NoError(t, err)
	_, ok := zmfModel.GetGraph().GetParameters()["ids"]
	assert.False(t, ok, "STRING-typed initializers have no ZMF dtype mapping and should be skipped, not error")
}

func TestONNXToZMF_NilGraphErrors(t *testing.T) {
	_, err := ONNXToZMF(&onnx.ModelProto{})
	assert.Error(t, err)
}

func tensorType(elemType int32) *onnx.TypeProto {
	return &onnx.TypeProto{
		Value: &onnx.TypeProto_TensorType{
			TensorType: &onnx.TypeProto_Tensor{ElemType: &elemType},
		},
	}
}
