package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/graphapi"
	"github.com/zerfoo/zonnxopt/internal/onnxgraph"
)

func reluAfterTransposeModel() *zmf.Model {
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

func TestOptimizePushesTransposeThroughRelu(t *testing.T) {
	g := onnxgraph.NewGraph(reluAfterTransposeModel())

	changed := Optimize(g, false)
	require.True(t, changed)

	var relu, transpose graphapi.Node
	for _, n := range g.Nodes() {
		switch n.OpType() {
		case "Relu":
			relu = n
		case "Transpose":
			transpose = n
		}
	}
	require.NotNil(t, relu)
	require.NotNil(t, transpose)

	assert.Equal(t, "x", relu.Inputs()[0])
	assert.Equal(t, relu.Outputs()[0], transpose.Inputs()[0])
	assert.Equal(t, "z", transpose.Outputs()[0])
}

func cancellingTransposesModel() *zmf.Model {
	return &zmf.Model{
		Graph: &zmf.Graph{
			Nodes: []*zmf.Node{
				{Name: "t0", OpType: "Transpose", Inputs: []string{"x"}, Outputs: []string{"y"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 2, 3, 1}}}},
					}},
				{Name: "t1", OpType: "Transpose", Inputs: []string{"y"}, Outputs: []string{"z"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 3, 1, 2}}}},
					}},
			},
			Parameters: map[string]*zmf.Tensor{},
			Inputs:     []*zmf.ValueInfo{{Name: "x", Shape: []int64{1, 3, 4, 4}}},
			Outputs:    []*zmf.ValueInfo{{Name: "z", Shape: []int64{1, 3, 4, 4}}},
		},
		Metadata: &zmf.Metadata{OpsetVersion: 13},
	}
}

func TestOptimizeCancelsBackToBackTransposes(t *testing.T) {
	g := onnxgraph.NewGraph(cancellingTransposesModel())

	changed := Optimize(g, false)
	require.True(t, changed)

	for _, n := range g.Nodes() {
		assert.NotEqual(t, "Transpose", n.OpType())
	}
}

func TestMakeOptimizerContextRejectsOutOfRangeOpset(t *testing.T) {
	model := cancellingTransposesModel()
	model.Metadata.OpsetVersion = 3
	g := onnxgraph.NewGraph(model)

	_, ok := MakeOptimizerContext(g, false)
	assert.False(t, ok)
}
