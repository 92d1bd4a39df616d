// Package optimizer implements a transpose-elimination pass over a
// graphapi.Graph: it walks nodes looking for a Transpose feeding an
// op with a registered handler, and pushes the transpose through the
// op (or cancels it against another Transpose) whenever that is
// estimated to reduce the total number of transposes in the graph.
package optimizer

import "github.com/zerfoo/zonnxopt/internal/graphapi"

// kMinSupportedOpset and kMaxSupportedOpset bound the default-domain
// opsets this package's handler catalog has been written against; a
// graph outside this band is left untouched by Optimize/ChangeLayout.
const (
	kMinSupportedOpset = 7
	kMaxSupportedOpset = 21
)

// Ctx carries the state every op handler needs: the model opset (used to
// pick between attribute- and input-encoded variants of an op), the
// graph being mutated, and whether extended (com.microsoft) ops may be
// rewritten.
type Ctx struct {
	Opset            int64
	Graph            graphapi.Graph
	AllowExtendedOps bool
	SkipCostCheck    bool
}

// MakeOptimizerContext derives a Ctx from graph, or reports ok=false if
// the graph's default-domain opset falls outside the supported band.
// When allowExtendedOps is requested but the graph's com.microsoft opset
// isn't exactly 1, extended ops are silently disabled rather than
// failing the whole pass.
func MakeOptimizerContext(graph graphapi.Graph, allowExtendedOps bool) (Ctx, bool) {
	opset, ok := graph.Opset("")
	if !ok {
		opset, ok = graph.Opset("ai.onnx")
	}
	if !ok || opset > kMaxSupportedOpset || opset < kMinSupportedOpset {
		return Ctx{}, false
	}

	if allowExtendedOps {
		msOpset, ok := graph.Opset("com.microsoft")
		if !ok || msOpset != 1 {
			allowExtendedOps = false
		}
	}

	return Ctx{Opset: opset, Graph: graph, AllowExtendedOps: allowExtendedOps}, true
}
