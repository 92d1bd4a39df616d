package optimizer

import (
	"github.com/zerfoo/zonnxopt/internal/graphapi"
)

// EstimateValueRank returns the rank of input excluding dimensions of
// value 1, or 5 if the shape is unknown. The pessimistic default keeps
// an unknown-shape input from looking artificially cheap to transpose.
func EstimateValueRank(graph graphapi.Graph, input string) int {
	shape, ok := graph.GetValueInfo(input).Shape()
	if !ok {
		return 5
	}
	rank := 0
	for _, d := range shape {
		if d != 1 {
			rank++
		}
	}
	return rank
}

// CanLikelyRemoveTranspose reports whether transpose's output is only
// consumed by nodes this package can also push a transpose through.
func CanLikelyRemoveTranspose(ctx Ctx, transpose graphapi.Node) bool {
	consumers := ctx.Graph.GetValueConsumers(transpose.Outputs()[0])
	if !consumers.Comprehensive {
		return false
	}
	for _, n := range consumers.Nodes {
		if GetHandler(n, true) == nil {
			return false
		}
	}
	return true
}

// EstimateTransposeValueCost estimates the cost of transposing input by
// the inverse of permInv (permInv plays the same role as in
// TransposeInput). Negative means pushing the transpose there removes a
// transpose rather than adding one.
func EstimateTransposeValueCost(ctx Ctx, input string, permInv []int64) int {
	// Case 1: transposing a constant is free.
	if _, ok := ctx.Graph.GetConstant(input); ok {
		return 0
	}

	// Case 2: transposing a Transpose either cancels it or composes perms.
	producer, ok := ctx.Graph.GetNodeProducingOutput(input)
	if ok && producer.IsOp("Transpose") {
		if perm2, ok := GetPermAttrIfValid(producer); ok {
			if int64SliceEqual(perm2, permInv) && CanLikelyRemoveTranspose(ctx, producer) {
				return -EstimateValueRank(ctx.Graph, input)
			}
			return 0
		}
	}

	// Case 3: we will likely need to add a transpose.
	return EstimateValueRank(ctx.Graph, input)
}

// EstimateTransposeInputsCost sums EstimateTransposeValueCost over
// node's inputs at inputIndices.
func EstimateTransposeInputsCost(ctx Ctx, node graphapi.Node, permInv []int64, inputIndices []int) int {
	inputs := node.Inputs()
	cost := 0
	for _, j := range inputIndices {
		cost += EstimateTransposeValueCost(ctx, inputs[j], permInv)
	}
	return cost
}
