// Package layout converts a graph between channel-first (NCHW) and
// channel-last (NHWC) layouts for the ops that care about spatial
// dimension order, promoting selected ops to their com.microsoft NHWC
// counterparts along the way, then runs the transpose-elimination
// optimizer once to clean up the Transposes the conversion introduced.
package layout

import (
	"github.com/zerfoo/zonnxopt/internal/graphapi"
	"github.com/zerfoo/zonnxopt/internal/permute"
	"github.com/zerfoo/zonnxopt/pkg/optimizer"
)

// Handler describes how one op type participates in a layout change.
// NewOpType/NewDomain, when set, replace the node with an equivalent op
// that expects the new layout directly (for example Conv -> NhwcConv);
// left empty, the op itself is layout-agnostic and only its surrounding
// Transposes change.
type Handler struct {
	NewOpType string
	NewDomain string
}

// handlerMap lists the ops this package knows how to relayout. Ops not
// listed are left untouched by ChangeLayout.
var handlerMap = map[string]Handler{
	"Conv":               {"NhwcConv", "com.microsoft"},
	"ConvTranspose":       {"NhwcConvTranspose", "com.microsoft"},
	"MaxPool":            {"NhwcMaxPool", "com.microsoft"},
	"AveragePool":        {"NhwcAveragePool", "com.microsoft"},
	"GlobalAveragePool":  {"NhwcGlobalAveragePool", "com.microsoft"},
	"BatchNormalization": {},
	"InstanceNormalization": {},
	"GroupNorm":          {},
	"DepthToSpace":       {},
	"SpaceToDepth":       {},
}

// ChangeLayout transposes every handled node's first input and outputs
// between channel-first and channel-last layout, optionally promoting
// the node to a layout-specific op, then runs the optimizer once to let
// Transpose-elimination clean up the rest of the graph. It reports
// whether anything changed.
func ChangeLayout(graph graphapi.Graph, lastToFirst bool) bool {
	ctx, ok := optimizer.MakeOptimizerContext(graph, true)
	if !ok {
		return false
	}

	changed := false

	for _, node := range graph.Nodes() {
		handler, ok := handlerMap[node.OpType()]
		if node.Domain() != "" && node.Domain() != "ai.onnx" {
			continue
		}
		if !ok {
			continue
		}

		inputs := node.Inputs()
		if len(inputs) == 0 {
			continue
		}
		shape, hasShape := graph.GetValueInfo(inputs[0]).Shape()
		if !hasShape || len(shape) < 2 {
			continue
		}
		rank := len(shape)

		channelLastToFirst := permute.ChannelLastToFirstPerm(rank)
		var perm, permInv []int64
		if lastToFirst {
			perm = channelLastToFirst
			permInv = permute.InvertPerm(perm)
		} else {
			permInv = channelLastToFirst
			perm = permute.InvertPerm(permInv)
		}

		target := node
		if handler.NewOpType != "" {
			newNode := graph.AddNode(handler.NewOpType, inputs, len(node.Outputs()), handler.NewDomain)
			for i, o := range node.Outputs() {
				if o != "" {
					graph.MoveOutput(node, i, newNode, i)
				}
			}
			newNode.CopyAttributes(node)
			graph.RemoveNode(node)
			target = newNode
		}

		optimizer.TransposeFirstInput(ctx, target, perm)
		optimizer.TransposeOutputs(ctx, target, permInv)
		changed = true
	}

	if changed {
		optimizer.OptimizeImpl(ctx)
	}
	return changed
}

// ChannelFirstToChannelLast converts graph from NCHW-style layout to
// NHWC-style layout in place.
func ChannelFirstToChannelLast(graph graphapi.Graph) bool {
	return ChangeLayout(graph, false)
}

// ChannelLastToChannelFirst converts graph from NHWC-style layout back
// to NCHW-style layout in place.
func ChannelLastToChannelFirst(graph graphapi.Graph) bool {
	return ChangeLayout(graph, true)
}
