package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/onnxgraph"
)

func transposeThenConcatModel() *zmf.Model {
	return &zmf.Model{
		Graph: &zmf.Graph{
			Nodes: []*zmf.Node{
				{Name: "t0", OpType: "Transpose", Inputs: []string{"x"}, Outputs: []string{"y"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 2, 3, 1}}}},
					}},
				{Name: "c0", OpType: "Concat", Inputs: []string{"y", "w"}, Outputs: []string{"z"},
					Attributes: map[string]*zmf.Attribute{
						"axis": {Value: &zmf.Attribute_I{I: 3}},
					}},
			},
			Parameters: map[string]*zmf.Tensor{
				"w": {Dtype: zmf.Tensor_FLOAT32, Shape: []int64{1, 4, 4, 2}, Data: make([]byte, 1*4*4*2*4)},
			},
			Inputs: []*zmf.ValueInfo{
				{Name: "x", Shape: []int64{1, 3, 4, 4}},
			},
			Outputs: []*zmf.ValueInfo{{Name: "z", Shape: []int64{1, 4, 4, 5}}},
		},
		Metadata: &zmf.Metadata{OpsetVersion: 13},
	}
}

func TestHandleConcatRewritesAxis(t *testing.T) {
	g := onnxgraph.NewGraph(transposeThenConcatModel())

	changed := Optimize(g, false)
	require.True(t, changed)

	for _, n := range g.Nodes() {
		if n.OpType() == "Concat" {
			axis, ok := n.GetAttributeInt("axis")
			require.True(t, ok)
			assert.Equal(t, int64(1), axis, "axis 3 under perm [0,2,3,1] maps back to axis 1")
			assert.Equal(t, "x", n.Inputs()[0])
		}
	}
}

func squeezeAfterTransposeModel() *zmf.Model {
	return &zmf.Model{
		Graph: &zmf.Graph{
			Nodes: []*zmf.Node{
				{Name: "t0", OpType: "Transpose", Inputs: []string{"x"}, Outputs: []string{"y"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 2, 3, 1}}}},
					}},
				{Name: "sq0", OpType: "Squeeze", Inputs: []string{"y"}, Outputs: []string{"z"},
					Attributes: map[string]*zmf.Attribute{
						"axes": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0}}}},
					}},
			},
			Parameters: map[string]*zmf.Tensor{},
			Inputs:     []*zmf.ValueInfo{{Name: "x", Shape: []int64{1, 3, 4, 4}}},
			Outputs:    []*zmf.ValueInfo{{Name: "z", Shape: []int64{4, 4, 3}}},
		},
		Metadata: &zmf.Metadata{OpsetVersion: 12},
	}
}

func TestHandleSqueezeAdjustsAxes(t *testing.T) {
	g := onnxgraph.NewGraph(squeezeAfterTransposeModel())

	changed := Optimize(g, false)
	require.True(t, changed)

	for _, n := range g.Nodes() {
		if n.OpType() == "Squeeze" {
			axes, ok := n.GetAttributeInts("axes")
			require.True(t, ok)
			assert.Equal(t, []int64{0}, axes, "axis 0 is untouched by perm [0,2,3,1]")
		}
	}
}
