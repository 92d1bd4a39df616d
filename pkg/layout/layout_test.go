package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/onnxgraph"
)

func convModel() *zmf.Model {
	return &zmf.Model{
		Graph: &zmf.Graph{
			Nodes: []*zmf.Node{
				{Name: "c0", OpType: "Conv", Inputs: []string{"x", "w"}, Outputs: []string{"y"}},
			},
			Parameters: map[string]*zmf.Tensor{},
			Inputs: []*zmf.ValueInfo{
				{Name: "x", Shape: []int64{1, 3, 8, 8}},
				{Name: "w", Shape: []int64{4, 3, 3, 3}},
			},
			Outputs: []*zmf.ValueInfo{{Name: "y", Shape: []int64{1, 4, 6, 6}}},
		},
		Metadata: &zmf.Metadata{OpsetVersion: 13},
	}
}

func TestChannelFirstToChannelLastPromotesConv(t *testing.T) {
	g := onnxgraph.NewGraph(convModel())

	changed := ChannelFirstToChannelLast(g)
	require.True(t, changed)

	var found bool
	for _, n := range g.Nodes() {
		if n.OpType() == "NhwcConv" {
			found = true
			assert.Equal(t, "com.microsoft", n.Domain())
		}
	}
	assert.True(t, found, "Conv should be promoted to com.microsoft NhwcConv")
}

func TestChangeLayoutSkipsUnknownRank(t *testing.T) {
	model := convModel()
	model.Graph.Inputs[0].Shape = nil
	g := onnxgraph.NewGraph(model)

	changed := ChangeLayout(g, true)
	assert.False(t, changed)
}
