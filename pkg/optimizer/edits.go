package optimizer

import (
	"github.com/zerfoo/zonnxopt/internal/graphapi"
	"github.com/zerfoo/zonnxopt/internal/permute"
)

// MakeNode1Attr creates a single-input node with one int64-list attribute.
func MakeNode1Attr(ctx Ctx, opType, input, attrName string, attrVal []int64) graphapi.Node {
	n := ctx.Graph.AddNode(opType, []string{input}, 1, "")
	n.SetAttributeInts(attrName, attrVal)
	return n
}

// MakeTranspose creates a Transpose node. It does not set the output's
// ValueInfo; callers do that afterward since the new shape depends on
// context (CopyValueInfo + PermuteDims, or a fresh SetShape).
func MakeTranspose(ctx Ctx, input string, perm []int64) graphapi.Node {
	return MakeNode1Attr(ctx, "Transpose", input, "perm", perm)
}

// MakeSqueezeOrUnsqueeze creates a Squeeze or Unsqueeze node, using the
// opset-appropriate encoding for axes: an attribute before opset 13, a
// second (constant) input from opset 13 on.
func MakeSqueezeOrUnsqueeze(ctx Ctx, opType, input string, axes []int64) graphapi.Node {
	if ctx.Opset < 13 {
		return MakeNode1Attr(ctx, opType, input, "axes", axes)
	}
	axesConst := ctx.Graph.AddInitializerInt64([]int64{int64(len(axes))}, axes)
	return ctx.Graph.AddNode(opType, []string{input, axesConst}, 1, "")
}

// UnsqueezeInput replaces node's ith input with an unsqueezed version of
// it, reusing an existing Squeeze with matching axes or reshaping a
// constant in place where possible instead of always inserting a new
// Unsqueeze node.
func UnsqueezeInput(ctx Ctx, node graphapi.Node, i int, axes []int64) {
	input := node.Inputs()[i]
	node.SetInput(i, "")

	constant, hasConst := ctx.Graph.GetConstant(input)
	consumers := ctx.Graph.GetValueConsumers(input)

	// Case 1: input is a constant with a fully known consumer list.
	if hasConst && consumers.Comprehensive {
		if len(consumers.Nodes) > 0 {
			squeeze := MakeSqueezeOrUnsqueeze(ctx, "Squeeze", input, axes)
			sqOut := squeeze.Outputs()[0]
			ctx.Graph.CopyValueInfo(input, sqOut)
			ReplaceValueReferences(consumers.Nodes, input, sqOut)
		}
		newShape := permute.UnsqueezeShape(constant.Shape(), axes)
		ctx.Graph.ReshapeInitializer(input, newShape)
		node.SetInput(i, input)
		return
	}

	// Case 2: input is a Squeeze node with exactly matching axes.
	inpNode, hasInpNode := ctx.Graph.GetNodeProducingOutput(input)
	if hasInpNode && inpNode.IsOp("Squeeze") {
		squeezeAxes, ok := ReadFromAttrOrInput(ctx, inpNode, "axes", 1, 13)
		if ok && int64SliceEqual(squeezeAxes, axes) {
			if consumers.Comprehensive && len(consumers.Nodes) == 0 {
				ctx.Graph.RemoveNode(inpNode)
				if ctx.Opset >= 13 && len(inpNode.Inputs()) > 1 && !ctx.Graph.HasValueConsumers(inpNode.Inputs()[1]) {
					ctx.Graph.RemoveInitializer(inpNode.Inputs()[1])
				}
			}
			node.SetInput(i, inpNode.Inputs()[0])
			return
		}
		// Axes don't match; fall through to case 3.
	}

	// Case 3: add an Unsqueeze node.
	unsq := MakeSqueezeOrUnsqueeze(ctx, "Unsqueeze", input, axes)
	sqOut := unsq.Outputs()[0]
	ctx.Graph.CopyValueInfo(input, sqOut)
	ctx.Graph.GetValueInfo(sqOut).UnsqueezeDims(axes)

	// Pushing a transpose through a freshly inserted Unsqueeze happens
	// right here, out of normal traversal order, because the transpose's
	// original position (as this Unsqueeze's input) will never be
	// revisited by the node-order loop in OptimizeImpl.
	if hasInpNode && inpNode.IsOp("Transpose") {
		if perm, ok := GetPermAttrIfValid(inpNode); ok {
			newInput := helpHandleUnsqueeze(ctx, unsq, perm, axes)
			node.SetInput(i, newInput)
			return
		}
	}

	node.SetInput(i, sqOut)
}

// TransposeInput replaces node's ith input with input transposed by
// perm, reusing an existing cancelling/matching Transpose or folding
// into a constant where possible instead of always inserting a new
// Transpose node.
func TransposeInput(ctx Ctx, node graphapi.Node, i int, perm, permInv []int64) {
	input := node.Inputs()[i]
	node.SetInput(i, "")

	_, hasConst := ctx.Graph.GetConstant(input)
	consumers := ctx.Graph.GetValueConsumers(input)

	// Case 1: input is a constant with a fully known consumer list.
	if hasConst && consumers.Comprehensive {
		if len(consumers.Nodes) > 0 {
			transposeInv := MakeTranspose(ctx, input, permInv)
			transposeOut := transposeInv.Outputs()[0]
			ctx.Graph.CopyValueInfo(input, transposeOut)
			ReplaceValueReferences(consumers.Nodes, input, transposeOut)
		}
		ctx.Graph.TransposeInitializer(input, perm)
		node.SetInput(i, input)
		return
	}

	// Case 2: input is a Transpose node.
	inpNode, hasInpNode := ctx.Graph.GetNodeProducingOutput(input)
	if hasInpNode && inpNode.IsOp("Transpose") {
		if perm2, ok := GetPermAttrIfValid(inpNode); ok {
			if int64SliceEqual(perm2, permInv) {
				preTransposeValue := inpNode.Inputs()[0]
				if consumers.Comprehensive && len(consumers.Nodes) == 0 {
					ctx.Graph.RemoveNode(inpNode)
				}
				node.SetInput(i, preTransposeValue)
				return
			}

			permCombined := permute.ComposePerm(perm2, perm)
			transpose := MakeTranspose(ctx, inpNode.Inputs()[0], permCombined)
			transposeOut := transpose.Outputs()[0]
			ctx.Graph.CopyValueInfo(input, transposeOut)
			ctx.Graph.GetValueInfo(transposeOut).PermuteDims(perm)
			if consumers.Comprehensive && len(consumers.Nodes) == 0 {
				ctx.Graph.RemoveNode(inpNode)
			}
			node.SetInput(i, transposeOut)
			return
		}
	}

	// Case 3: a matching Transpose may already exist among input's consumers.
	for _, consumer := range consumers.Nodes {
		if consumer.IsOp("Transpose") {
			if p, ok := GetPermAttrIfValid(consumer); ok && int64SliceEqual(p, perm) {
				node.SetInput(i, consumer.Outputs()[0])
				return
			}
		}
	}

	// Case 4: add a new Transpose node.
	transpose := MakeTranspose(ctx, input, perm)
	transposeOut := transpose.Outputs()[0]
	ctx.Graph.CopyValueInfo(input, transposeOut)
	ctx.Graph.GetValueInfo(transposeOut).PermuteDims(perm)
	node.SetInput(i, transposeOut)
}

// NormalizeInputRanks unsqueezes node's inputs at inputIndices so they
// all reach targetRank, returning false (without mutating anything) if
// any input's rank is unknown or already exceeds targetRank.
func NormalizeInputRanks(ctx Ctx, node graphapi.Node, targetRank int, inputIndices []int) bool {
	inputs := node.Inputs()

	ranks := make([]int, len(inputIndices))
	for k, i := range inputIndices {
		shape, ok := ctx.Graph.GetValueInfo(inputs[i]).Shape()
		if !ok || len(shape) > targetRank {
			return false
		}
		ranks[k] = len(shape)
	}

	for k, i := range inputIndices {
		rankDiff := targetRank - ranks[k]
		if rankDiff > 0 {
			axes := make([]int64, rankDiff)
			for j := range axes {
				axes[j] = int64(j)
			}
			UnsqueezeInput(ctx, node, i, axes)
		}
	}
	return true
}

// TransposeInputs transposes node's inputs at inputIndices by perm. If a
// Transpose is expected above one of these inputs, pass perm as that
// transpose's inverse so TransposeInput can cancel it.
func TransposeInputs(ctx Ctx, node graphapi.Node, perm []int64, inputIndices []int) {
	permInv := permute.InvertPerm(perm)
	for _, j := range inputIndices {
		TransposeInput(ctx, node, j, perm, permInv)
	}
}

// TransposeFirstInput transposes only node's 0th input by perm.
func TransposeFirstInput(ctx Ctx, node graphapi.Node, perm []int64) {
	TransposeInputs(ctx, node, perm, []int{0})
}

// TransposeOutput inserts a Transpose on node's ith output and returns
// the new output name that callers downstream of node should reference.
// The node's own output slot i keeps producing the untransposed value
// under a fresh name; the Transpose produces the original output name
// so every existing consumer of it keeps working unchanged.
func TransposeOutput(ctx Ctx, node graphapi.Node, i int, perm, permInv []int64) string {
	transpose := MakeTranspose(ctx, "", perm)

	ctx.Graph.MoveOutput(node, i, transpose, 0)
	newOutput := node.Outputs()[i]

	transpose.SetInput(0, newOutput)

	oldOutput := transpose.Outputs()[0]
	ctx.Graph.CopyValueInfo(oldOutput, newOutput)
	ctx.Graph.GetValueInfo(newOutput).PermuteDims(permInv)
	return oldOutput
}

// TransposeOutputs inserts a Transpose on every output of node, unless
// perm is the identity permutation.
func TransposeOutputs(ctx Ctx, node graphapi.Node, perm []int64) {
	if permute.IsIdentityPerm(perm) {
		return
	}
	permInv := permute.InvertPerm(perm)
	for j := range node.Outputs() {
		TransposeOutput(ctx, node, j, perm, permInv)
	}
}

// helpHandleUnsqueeze pushes a transpose through a freshly created
// Unsqueeze node and returns the value downstream code should consume.
// perm is the (valid) perm attribute of the Transpose producing unsq's
// input.
func helpHandleUnsqueeze(ctx Ctx, unsq graphapi.Node, perm, axes []int64) string {
	permInv := permute.InvertPerm(perm)
	TransposeFirstInput(ctx, unsq, permInv)
	newPerm := permute.UnsqueezePerm(axes, perm)
	return TransposeOutput(ctx, unsq, 0, newPerm, permute.InvertPerm(newPerm))
}
