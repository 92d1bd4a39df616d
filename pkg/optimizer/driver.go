package optimizer

import (
	"github.com/zerfoo/zonnxopt/internal/graphapi"
	"github.com/zerfoo/zonnxopt/internal/permute"
)

// ProcessTranspose considers pushing transpose (which produces input)
// through node. It returns true if it rewrote the graph, in which case
// node (and possibly transpose) may have been removed.
func ProcessTranspose(ctx Ctx, transpose, node graphapi.Node, input string, outputsLeadingToTranspose map[string]bool) bool {
	perm, ok := GetPermAttrIfValid(transpose)
	if !ok {
		return false
	}

	info := GetHandler(node, ctx.AllowExtendedOps)
	if info == nil {
		return false
	}

	transposibleInputs := info.TransposibleInputsFn(ctx, node)
	nodeInputs := node.Inputs()

	eligible := false
	for _, idx := range transposibleInputs {
		if idx < len(nodeInputs) && nodeInputs[idx] == input {
			eligible = true
			break
		}
	}
	if !eligible {
		return false
	}
	inputIndices := transposibleInputs

	// Transpose and MaxPool always proceed: cancelling two Transposes, or
	// promoting MaxPool to NhwcMaxPool, is never worse than leaving the
	// graph unchanged.
	if !ctx.SkipCostCheck && !node.IsOp("Transpose") && !node.IsOp("MaxPool") {
		cost := EstimateTransposeInputsCost(ctx, node, perm, inputIndices)
		if info.TransposesOutputs && cost < 0 {
			// Only charge for the outputs if none of them already feeds a
			// Transpose downstream; in that case the output transpose we'd
			// be adding just cancels one that's waiting there anyway, so it
			// costs nothing (an output-side analogue of the input case
			// above). Use the worst single output, not the sum, since the
			// transpose we add is shared by every consumer of that output.
			hasOutputLeadingToTranspose := false
			for _, o := range node.Outputs() {
				if outputsLeadingToTranspose[o] {
					hasOutputLeadingToTranspose = true
					break
				}
			}
			if !hasOutputLeadingToTranspose {
				var outCost int
				for _, o := range node.Outputs() {
					if r := EstimateValueRank(ctx.Graph, o); r > outCost {
						outCost = r
					}
				}
				cost += outCost
			}
		}
		if cost >= 0 {
			return false
		}
	}

	permInv := permute.InvertPerm(perm)
	args := HandlerArgs{
		Ctx:                ctx,
		Transpose:          transpose,
		Node:               node,
		Perm:               perm,
		PermInv:            permInv,
		TransposibleInputs: inputIndices,
	}
	return info.HandlerFn(args)
}

// OptimizeImpl runs one pass of the transpose-elimination loop over
// ctx.Graph and reports whether it changed anything.
func OptimizeImpl(ctx Ctx) bool {
	changed := false

	// Reverse pass: propagate, backward through the graph, which values
	// eventually feed a Transpose's input. ProcessTranspose uses this to
	// avoid charging cost for an output transpose that would just cancel
	// a transpose already waiting downstream.
	outputsLeadingToTranspose := map[string]bool{}
	nodes := ctx.Graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		leads := n.IsOp("Transpose")
		if !leads {
			for _, o := range n.Outputs() {
				if outputsLeadingToTranspose[o] {
					leads = true
					break
				}
			}
		}
		if !leads {
			continue
		}
		if n.IsOp("Transpose") {
			// n's input feeds the Transpose directly, regardless of any
			// handler — that's the base case the rest of this pass
			// propagates from.
			for _, in := range n.Inputs() {
				if in != "" {
					outputsLeadingToTranspose[in] = true
				}
			}
			continue
		}
		// For every other node, only its eligible inputs (the ones a
		// rewrite could actually push a transpose onto) count as leading
		// to a transpose — and only if its handler would add an output
		// transpose in the first place.
		info := GetHandler(n, ctx.AllowExtendedOps)
		if info == nil || !info.TransposesOutputs {
			continue
		}
		inputs := n.Inputs()
		for _, i := range info.TransposibleInputsFn(ctx, n) {
			if i < len(inputs) && inputs[i] != "" {
				outputsLeadingToTranspose[inputs[i]] = true
			}
		}
	}

	// Forward pass: for each node, look for an input produced by a
	// Transpose and try to push that transpose through. Break out of the
	// input loop on success since node (or its inputs/position) may have
	// changed.
	nodes = ctx.Graph.Nodes()
	for idx := 0; idx < len(nodes); idx++ {
		node := nodes[idx]
		inputs := node.Inputs()
		for i := 0; i < len(inputs); i++ {
			input := inputs[i]
			if input == "" {
				continue
			}
			producer, ok := ctx.Graph.GetNodeProducingOutput(input)
			if !ok || !producer.IsOp("Transpose") {
				continue
			}
			if ProcessTranspose(ctx, producer, node, input, outputsLeadingToTranspose) {
				changed = true
				break
			}
		}
		nodes = ctx.Graph.Nodes()
	}

	return changed
}

// Optimize derives an optimizer context from graph and runs one pass of
// transpose elimination, reporting whether it changed anything. It is a
// no-op (returns false) if graph's opset is outside the supported band.
func Optimize(graph graphapi.Graph, allowExtendedOps bool) bool {
	ctx, ok := MakeOptimizerContext(graph, allowExtendedOps)
	if !ok {
		return false
	}
	return OptimizeImpl(ctx)
}
