package onnxgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zmf"
)

func TestNodeAttributeAccess(t *testing.T) {
	n := &node{n: &zmf.Node{
		OpType: "Unsqueeze",
		Attributes: map[string]*zmf.Attribute{
			"axes": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 2}}}},
			"mode": {Value: &zmf.Attribute_I{I: 3}},
		},
	}}

	axes, ok := n.GetAttributeInts("axes")
	require.True(t, ok)
	assert.Equal(t, []int64{0, 2}, axes)

	v, ok := n.GetAttributeInt("mode")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	assert.Equal(t, int64(7), n.GetAttributeIntDefault("missing", 7))

	_, ok = n.GetAttributeInt("axes")
	assert.False(t, ok, "axes is an Ints attribute, not an Int")
}

func TestNodeSetAndClearAttribute(t *testing.T) {
	n := &node{n: &zmf.Node{OpType: "Squeeze"}}

	n.SetAttributeInts("axes", []int64{1})
	axes, ok := n.GetAttributeInts("axes")
	require.True(t, ok)
	assert.Equal(t, []int64{1}, axes)

	n.ClearAttribute("axes")
	_, ok = n.GetAttributeInts("axes")
	assert.False(t, ok)
}

func TestNodeCopyAttributes(t *testing.T) {
	src := &node{n: &zmf.Node{
		OpType:     "Squeeze",
		Attributes: map[string]*zmf.Attribute{"axes": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{2}}}}},
	}}
	dst := &node{n: &zmf.Node{OpType: "Squeeze"}}

	dst.CopyAttributes(src)

	axes, ok := dst.GetAttributeInts("axes")
	require.True(t, ok)
	assert.Equal(t, []int64{2}, axes)
}

func TestNodeDomainEncoding(t *testing.T) {
	extended := &node{n: &zmf.Node{OpType: "com.microsoft.QLinearAdd"}}
	assert.Equal(t, "QLinearAdd", extended.OpType())
	assert.Equal(t, "com.microsoft", extended.Domain())
	assert.True(t, extended.IsOp("QLinearAdd"))

	plain := &node{n: &zmf.Node{OpType: "Add"}}
	assert.Equal(t, "Add", plain.OpType())
	assert.Equal(t, "", plain.Domain())
}

func TestDomainOpType(t *testing.T) {
	assert.Equal(t, "com.microsoft.QLinearAdd", domainOpType("com.microsoft", "QLinearAdd"))
	assert.Equal(t, "Add", domainOpType("", "Add"))
}
