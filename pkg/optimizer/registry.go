package optimizer

import "github.com/zerfoo/zonnxopt/internal/graphapi"

// handlerMap covers the default ("", "ai.onnx") domain.
var handlerMap = map[string]*HandlerInfo{
	"Cast":        &simpleNodeHandler,
	"Exp":         &simpleNodeHandler,
	"Identity":    &simpleNodeHandler,
	"LeakyRelu":   &simpleNodeHandler,
	"Log":         &simpleNodeHandler,
	"Reciprocal":  &simpleNodeHandler,
	"Relu":        &simpleNodeHandler,
	"Sigmoid":     &simpleNodeHandler,
	"Sqrt":        &simpleNodeHandler,
	"Tanh":        &simpleNodeHandler,
	"Abs":         &simpleNodeHandler,
	"Neg":         &simpleNodeHandler,
	"Not":         &simpleNodeHandler,
	"Clip":        &node1InpHandler,
	"Erf":         &simpleNodeHandler,
	"Floor":       &simpleNodeHandler,
	"Round":       &simpleNodeHandler,
	"IsNaN":       &simpleNodeHandler,
	"IsInf":       &simpleNodeHandler,
	"Ceil":            &simpleNodeHandler,
	"HardSigmoid":     &simpleNodeHandler,
	"Selu":            &simpleNodeHandler,
	"Shrink":          &simpleNodeHandler,
	"Sign":            &simpleNodeHandler,
	"Softplus":        &simpleNodeHandler,
	"Softsign":        &simpleNodeHandler,
	"ThresholdedRelu": &simpleNodeHandler,
	"Celu":            &simpleNodeHandler,
	"HardSwish":       &simpleNodeHandler,
	"Sin":             &simpleNodeHandler,
	"Cos":             &simpleNodeHandler,
	"Tan":             &simpleNodeHandler,
	"Sinh":            &simpleNodeHandler,
	"Cosh":            &simpleNodeHandler,
	"Asin":            &simpleNodeHandler,
	"Acos":            &simpleNodeHandler,
	"Atan":            &simpleNodeHandler,
	"Asinh":           &simpleNodeHandler,
	"Acosh":           &simpleNodeHandler,
	"Atanh":           &simpleNodeHandler,
	"CastLike":        &node1InpHandler,

	"Add":           &broadcastNodeHandler,
	"Sub":           &broadcastNodeHandler,
	"Mul":           &broadcastNodeHandler,
	"Div":           &broadcastNodeHandler,
	"Pow":           &broadcastNodeHandler,
	"Min":           &broadcastNodeHandler,
	"Max":           &broadcastNodeHandler,
	"Equal":         &broadcastNodeHandler,
	"Greater":       &broadcastNodeHandler,
	"GreaterOrEqual": &broadcastNodeHandler,
	"Less":          &broadcastNodeHandler,
	"LessOrEqual":   &broadcastNodeHandler,
	"And":           &broadcastNodeHandler,
	"Or":            &broadcastNodeHandler,
	"Xor":           &broadcastNodeHandler,
	"Mean":          &broadcastNodeHandler,
	"Sum":           &broadcastNodeHandler,
	"PRelu":         &broadcastNodeHandler,
	"Where":         &broadcastNodeHandler,
	"Mod":           &broadcastNodeHandler,
	"BitShift":      &broadcastNodeHandler,

	"Split":  &splitHandler,
	"Concat": &concatHandler,

	"Softmax":     &softHardMaxHandler,
	"Hardmax":     &softHardMaxHandler,
	"LogSoftmax":  &softHardMaxHandler,

	"Shape": &shapeHandler,
	"Pad":   &padHandler,

	"ReduceMax":    &reduceOpHandler,
	"ReduceMin":    &reduceOpHandler,
	"ReduceMean":   &reduceOpHandler,
	"ReduceProd":   &reduceOpHandler,
	"ReduceLogSum": &reduceOpHandler,
	"ReduceLogSumExp": &reduceOpHandler,
	"ReduceSumSquare": &reduceOpHandler,
	"ReduceL1":     &reduceOpHandler,
	"ReduceL2":     &reduceOpHandler,
	"ReduceSum":    &reduceSumHandler,

	"Squeeze":   &squeezeHandler,
	"Unsqueeze": &unsqueezeHandler,

	"QuantizeLinear":   &quantizeDequantizeLinearHandler,
	"DequantizeLinear": &quantizeDequantizeLinearHandler,

	"ArgMin": &argMinMaxHandler,
	"ArgMax": &argMinMaxHandler,

	"Slice": &sliceHandler,
	"Tile":  &tileHandler,

	"Transpose": &transposeHandler,
}

// extendedHandlerMap covers the com.microsoft domain, enabled only when
// Ctx.AllowExtendedOps is set. Its MaxPool entry is the one handler here
// for a default-domain op: it promotes MaxPool to NhwcMaxPool.
var extendedHandlerMap = map[string]*HandlerInfo{
	"QLinearConcat":      &qLinearConcatHandler,
	"QLinearAdd":         &qLinearBinaryOpHandler,
	"QLinearMul":         &qLinearBinaryOpHandler,
	"QLinearAveragePool": &qLinearPoolOpHandler,
	"QLinearGlobalAveragePool": &qLinearPoolOpHandler,
	"MaxPool":            &maxPoolOpHandler,
	"QLinearReduceMean":  &reduceOpHandler,
	"QLinearSigmoid":     &node1InpHandler,
	"QLinearLeakyRelu":   &node1InpHandler,
}

// GetHandler looks up the HandlerInfo for node, mirroring onnxruntime's
// domain-keyed handler registry: the default domain ("" or "ai.onnx")
// looks up handlerMap by bare op type, falling back to extendedHandlerMap's
// MaxPool entry for MaxPool when allowExtendedOps is set; "com.microsoft"
// looks up extendedHandlerMap, gated by allowExtendedOps.
func GetHandler(node graphapi.Node, allowExtendedOps bool) *HandlerInfo {
	domain := node.Domain()
	switch domain {
	case "", "ai.onnx":
		if info, ok := handlerMap[node.OpType()]; ok {
			return info
		}
		if allowExtendedOps && node.OpType() == "MaxPool" {
			return extendedHandlerMap["MaxPool"]
		}
		return nil
	case "com.microsoft":
		if !allowExtendedOps {
			return nil
		}
		return extendedHandlerMap[node.OpType()]
	default:
		return nil
	}
}
