package onnxgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zmf"
)

func newTestModel() *zmf.Model {
	return &zmf.Model{
		Graph: &zmf.Graph{
			Nodes: []*zmf.Node{
				{Name: "t0", OpType: "Transpose", Inputs: []string{"x"}, Outputs: []string{"y"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 2, 3, 1}}}},
					}},
				{Name: "r0", OpType: "Relu", Inputs: []string{"y"}, Outputs: []string{"z"}},
			},
			Parameters: map[string]*zmf.Tensor{},
			Inputs:     []*zmf.ValueInfo{{Name: "x", Shape: []int64{1, 3, 4, 4}}},
			Outputs:    []*zmf.ValueInfo{{Name: "z", Shape: []int64{1, 4, 4, 3}}},
		},
		Metadata: &zmf.Metadata{OpsetVersion: 13},
	}
}

func TestNewGraphBasics(t *testing.T) {
	g := NewGraph(newTestModel())
	require.Len(t, g.Nodes(), 2)

	opset, ok := g.Opset("")
	require.True(t, ok)
	assert.Equal(t, int64(13), opset)

	_, ok = g.Opset("com.microsoft")
	assert.False(t, ok)
}

func TestGraphValueConsumers(t *testing.T) {
	g := NewGraph(newTestModel())

	cons := g.GetValueConsumers("y")
	require.Len(t, cons.Nodes, 1)
	assert.Equal(t, "Relu", cons.Nodes[0].OpType())
	assert.True(t, cons.Comprehensive)

	out := g.GetValueConsumers("z")
	assert.Empty(t, out.Nodes)
	assert.False(t, out.Comprehensive, "z is a graph output, so its consumers are not comprehensive")
}

func TestGraphNodeProducingOutput(t *testing.T) {
	g := NewGraph(newTestModel())

	n, ok := g.GetNodeProducingOutput("y")
	require.True(t, ok)
	assert.Equal(t, "Transpose", n.OpType())

	_, ok = g.GetNodeProducingOutput("x")
	assert.False(t, ok, "x is a graph input, not produced by any node")
}

func TestGraphAddRemoveNode(t *testing.T) {
	g := NewGraph(newTestModel())

	added := g.AddNode("Squeeze", []string{"z"}, 1, "")
	require.Len(t, g.Nodes(), 3)
	assert.Equal(t, "Squeeze", added.OpType())
	assert.Len(t, added.Outputs(), 1)

	g.RemoveNode(added)
	assert.Len(t, g.Nodes(), 2)
}

func TestGraphMoveOutput(t *testing.T) {
	g := NewGraph(newTestModel())
	nodes := g.Nodes()
	transposeNode := nodes[0]

	replacement := g.AddNode("Identity", []string{"x"}, 1, "")
	g.MoveOutput(transposeNode, 0, replacement, 0)

	assert.Equal(t, "y", replacement.Outputs()[0])
	assert.NotEqual(t, "y", transposeNode.Outputs()[0])
}

func TestGraphInitializers(t *testing.T) {
	g := NewGraph(newTestModel())

	name := g.AddInitializerInt64([]int64{3}, []int64{1, 2, 3})
	tn, ok := g.GetConstant(name)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, tn.DataInt64())
	assert.Equal(t, []int64{3}, tn.Shape())

	g.ReshapeInitializer(name, []int64{1, 3})
	tn, ok = g.GetConstant(name)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 3}, tn.Shape())

	g.RemoveInitializer(name)
	_, ok = g.GetConstant(name)
	assert.False(t, ok)
}

func TestGraphTransposeInitializer(t *testing.T) {
	g := NewGraph(newTestModel())
	name := g.AddInitializerInt32([]int64{2, 3}, []int32{1, 2, 3, 4, 5, 6})

	g.TransposeInitializer(name, []int64{1, 0})

	tn, ok := g.GetConstant(name)
	require.True(t, ok)
	assert.Equal(t, []int64{3, 2}, tn.Shape())
	assert.Equal(t, []int32{1, 4, 2, 5, 3, 6}, tn.DataInt32())
}

func TestExtendedDomainOpsetGate(t *testing.T) {
	model := newTestModel()
	model.Graph.Nodes = append(model.Graph.Nodes, &zmf.Node{
		Name: "qlA", OpType: "com.microsoft.QLinearAdd", Inputs: []string{"z"}, Outputs: []string{"q"},
	})
	g := NewGraph(model)

	opset, ok := g.Opset("com.microsoft")
	require.True(t, ok)
	assert.Equal(t, int64(1), opset)

	for _, n := range g.Nodes() {
		if n.OpType() == "QLinearAdd" {
			assert.Equal(t, "com.microsoft", n.Domain())
		}
	}
}
