package semcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zmf"
)

func TestEvalPushesTransposeThroughReluSameAsOriginal(t *testing.T) {
	before := &zmf.Model{
		Graph: &zmf.Graph{
			Nodes: []*zmf.Node{
				{Name: "t0", OpType: "Transpose", Inputs: []string{"x"}, Outputs: []string{"y"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{1, 0}}}},
					}},
				{Name: "r0", OpType: "Relu", Inputs: []string{"y"}, Outputs: []string{"z"}},
			},
			Outputs: []*zmf.ValueInfo{{Name: "z"}},
		},
	}

	// Equivalent to pushing the Transpose below Relu: Relu first, then
	// Transpose, should produce identical values.
	after := &zmf.Model{
		Graph: &zmf.Graph{
			Nodes: []*zmf.Node{
				{Name: "r0", OpType: "Relu", Inputs: []string{"x"}, Outputs: []string{"y2"}},
				{Name: "t0", OpType: "Transpose", Inputs: []string{"y2"}, Outputs: []string{"z"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{1, 0}}}},
					}},
			},
			Outputs: []*zmf.ValueInfo{{Name: "z"}},
		},
	}

	x := Tensor{Shape: []int64{2, 3}, Data: []float32{-1, 2, -3, 4, -5, 6}}

	gotBefore, err := Eval(before, map[string]Tensor{"x": x})
	require.NoError(t, err)
	gotAfter, err := Eval(after, map[string]Tensor{"x": x})
	require.NoError(t, err)

	assert.Equal(t, gotBefore["z"].Shape, gotAfter["z"].Shape)
	assert.InDeltaSlice(t, gotBefore["z"].Data, gotAfter["z"].Data, 1e-6)
}

func TestCheckShapesWithEngine(t *testing.T) {
	err := CheckShapesWithEngine(map[string]Tensor{
		"z": {Shape: []int64{2, 3}, Data: make([]float32, 6)},
	})
	assert.NoError(t, err)
}
