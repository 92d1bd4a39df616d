package optimizer

import (
	"github.com/zerfoo/zonnxopt/internal/graphapi"
	"github.com/zerfoo/zonnxopt/internal/permute"
)

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetPermAttrIfValid returns node's "perm" attribute if present and a
// valid permutation.
func GetPermAttrIfValid(node graphapi.Node) ([]int64, bool) {
	perm, ok := node.GetAttributeInts("perm")
	if !ok {
		return nil, false
	}
	if !permute.IsValidPerm(perm) {
		return nil, false
	}
	return perm, true
}

// ReplaceValueReferences rewrites every input of every node in nodes
// that equals oldValue to newValue. Used when a consumer list is
// comprehensive and a value is being renamed without going through
// Graph.MoveOutput (for example, when the value is an initializer).
func ReplaceValueReferences(nodes []graphapi.Node, oldValue, newValue string) {
	for _, n := range nodes {
		for i, in := range n.Inputs() {
			if in == oldValue {
				n.SetInput(i, newValue)
			}
		}
	}
}

// ReadFromAttrOrInput reads int64 data from an attribute (pre-opset
// graphs) or a constant input (opset and later), matching the dual
// encoding ONNX switched several ops to starting at a given opset.
func ReadFromAttrOrInput(ctx Ctx, node graphapi.Node, attrName string, inpIndex int, opset int64) ([]int64, bool) {
	if ctx.Opset < opset {
		return node.GetAttributeInts(attrName)
	}
	inputs := node.Inputs()
	if inpIndex >= len(inputs) || inputs[inpIndex] == "" {
		return nil, false
	}
	constant, ok := ctx.Graph.GetConstant(inputs[inpIndex])
	if !ok {
		return nil, false
	}
	return constant.DataInt64(), true
}
