package optimizer

import (
	"github.com/zerfoo/zonnxopt/internal/graphapi"
	"github.com/zerfoo/zonnxopt/internal/permute"
)

// TransposibleInputsFn returns the indices of node's inputs that this
// handler is willing to transpose. Usually static (AllInputs, FirstInput)
// but dynamic for variadic ops like Concat/QLinearConcat.
type TransposibleInputsFn func(ctx Ctx, node graphapi.Node) []int

// HandlerFunction performs the rewrite for one op once ProcessTranspose
// has decided it is worth doing. It returns false if it turns out, after
// closer inspection, that nothing can be done — in which case it must
// not have mutated the graph yet.
type HandlerFunction func(args HandlerArgs) bool

// HandlerArgs bundles everything a handler needs, including the already
// inverted perm, so the cost-estimation and rewrite logic share one
// perm/permInv pair.
type HandlerArgs struct {
	Ctx                Ctx
	Transpose           graphapi.Node
	Node                graphapi.Node
	Perm                []int64
	PermInv             []int64
	TransposibleInputs  []int
}

// HandlerInfo registers one op's handler alongside the function that
// decides which inputs it is eligible to push a transpose through, and
// whether it is known to transpose its outputs (used by the cost model).
type HandlerInfo struct {
	TransposibleInputsFn TransposibleInputsFn
	HandlerFn            HandlerFunction
	TransposesOutputs    bool
}

func AllInputs(_ Ctx, node graphapi.Node) []int {
	n := len(node.Inputs())
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func FirstInput(_ Ctx, _ graphapi.Node) []int {
	return []int{0}
}

// NonScalarInputs returns the indices of node's inputs whose shape is
// unknown or has rank > 0, for ops (Add, Mul, ...) where a scalar input should never
// itself be transposed.
func NonScalarInputs(ctx Ctx, node graphapi.Node) []int {
	inputs := node.Inputs()
	idx := make([]int, 0, len(inputs))
	for i, in := range inputs {
		shape, ok := ctx.Graph.GetValueInfo(in).Shape()
		if !ok || len(shape) != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func handleSimpleNodeBase(args HandlerArgs, broadcastInputs bool) bool {
	rank := len(args.Perm)
	if broadcastInputs && !NormalizeInputRanks(args.Ctx, args.Node, rank, args.TransposibleInputs) {
		return false
	}
	TransposeInputs(args.Ctx, args.Node, args.PermInv, args.TransposibleInputs)
	TransposeOutputs(args.Ctx, args.Node, args.Perm)
	return true
}

func handleSimpleNode(args HandlerArgs) bool {
	return handleSimpleNodeBase(args, false)
}

var simpleNodeHandler = HandlerInfo{AllInputs, handleSimpleNode, true}

func handleSimpleNodeBroadcast(args HandlerArgs) bool {
	return handleSimpleNodeBase(args, true)
}

var broadcastNodeHandler = HandlerInfo{NonScalarInputs, handleSimpleNodeBroadcast, true}

func handleSimpleNode1Inp(args HandlerArgs) bool {
	return handleSimpleNodeBase(args, false)
}

var node1InpHandler = HandlerInfo{FirstInput, handleSimpleNode1Inp, true}

func handleSimpleNodeWithAxis(args HandlerArgs, hasDefault bool, defaultAxis int64) bool {
	rank := len(args.Perm)
	axis, ok := args.Node.GetAttributeInt("axis")
	if !ok {
		if !hasDefault {
			return false
		}
		axis = defaultAxis
	}

	if !permute.NormalizeAndValidateAxis(&axis, rank) {
		return false
	}

	if !handleSimpleNodeBase(args, false) {
		return false
	}

	args.Node.SetAttributeInt("axis", args.Perm[axis])
	return true
}

func handleSplit(args HandlerArgs) bool {
	return handleSimpleNodeWithAxis(args, true, 0)
}

var splitHandler = HandlerInfo{FirstInput, handleSplit, true}

func handleConcat(args HandlerArgs) bool {
	return handleSimpleNodeWithAxis(args, false, 0)
}

var concatHandler = HandlerInfo{AllInputs, handleConcat, true}

// handleSoftHardMax handles Softmax, Hardmax and LogSoftmax.
func handleSoftHardMax(args HandlerArgs) bool {
	if args.Ctx.Opset >= 13 {
		return handleSimpleNodeWithAxis(args, true, -1)
	}

	rank := len(args.Perm)
	axis := args.Node.GetAttributeIntDefault("axis", 1)
	if !permute.NormalizeAndValidateAxis(&axis, rank) {
		return false
	}

	// Opset < 13 coerces the input into 2D at axis before running, so the
	// transpose must not move any dimension across that boundary.
	for i := 0; i < rank; i++ {
		toLHS := int64(i) < axis
		fromLHS := args.Perm[i] < axis
		if toLHS != fromLHS {
			return false
		}
	}

	return handleSimpleNode1Inp(args)
}

var softHardMaxHandler = HandlerInfo{FirstInput, handleSoftHardMax, true}

func handleShape(args HandlerArgs) bool {
	TransposeInputs(args.Ctx, args.Node, args.PermInv, args.TransposibleInputs)
	rank := len(args.Perm)

	newPerm := args.Perm
	if args.Ctx.Opset >= 15 {
		start := args.Node.GetAttributeIntDefault("start", 0)
		end := args.Node.GetAttributeIntDefault("end", int64(rank))
		if start < 0 {
			start += int64(rank)
		}
		if end < 0 {
			end += int64(rank)
		}
		startIdx := clampInt64(start, 0, int64(rank))
		endIdx := clampInt64(end, 0, int64(rank))
		newPerm = append([]int64(nil), args.Perm[startIdx:endIdx]...)
		args.Node.ClearAttribute("start")
		args.Node.ClearAttribute("end")
	}

	permConst := args.Ctx.Graph.AddInitializerInt64([]int64{int64(len(newPerm))}, newPerm)

	gather := args.Ctx.Graph.AddNode("Gather", []string{"", permConst}, 1, "")
	gather.SetAttributeInt("axis", 0)

	args.Ctx.Graph.MoveOutput(args.Node, 0, gather, 0)
	newOutput := args.Node.Outputs()[0]
	gather.SetInput(0, newOutput)

	args.Ctx.Graph.CopyValueInfo(gather.Outputs()[0], newOutput)
	if len(newPerm) != rank {
		args.Ctx.Graph.GetValueInfo(newOutput).SetShape([]int64{int64(rank)})
	}
	return true
}

var shapeHandler = HandlerInfo{FirstInput, handleShape, false}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func handlePad(args HandlerArgs) bool {
	rank := len(args.Perm)
	opset := args.Ctx.Opset

	if opset < 11 {
		pads, ok := args.Node.GetAttributeInts("pads")
		if !ok {
			return false
		}
		newPads := permute.PermutePads(pads, args.PermInv)
		args.Node.SetAttributeInts("pads", newPads)
	}

	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
	TransposeOutputs(args.Ctx, args.Node, args.Perm)

	if opset < 11 {
		return true
	}

	padsInput := args.Node.Inputs()[1]
	padsShape := []int64{int64(rank * 2)}

	if padsConst, ok := args.Ctx.Graph.GetConstant(padsInput); ok {
		newPads := permute.PermutePads(padsConst.DataInt64(), args.PermInv)
		newPadsConst := args.Ctx.Graph.AddInitializerInt64(padsShape, newPads)
		args.Node.SetInput(1, newPadsConst)
		if !args.Ctx.Graph.HasValueConsumers(padsInput) {
			args.Ctx.Graph.RemoveInitializer(padsInput)
		}
		return true
	}

	gatherIndices := append([]int64(nil), args.PermInv...)
	for _, p := range args.PermInv {
		gatherIndices = append(gatherIndices, p+int64(rank))
	}
	gatherIndicesConst := args.Ctx.Graph.AddInitializerInt64(padsShape, gatherIndices)

	gather := args.Ctx.Graph.AddNode("Gather", []string{padsInput, gatherIndicesConst}, 1, "")
	gatherOutput := gather.Outputs()[0]
	args.Ctx.Graph.CopyValueInfo(padsInput, gatherOutput)
	gather.SetAttributeInt("axis", 0)
	args.Node.SetInput(1, gatherOutput)

	return true
}

var padHandler = HandlerInfo{FirstInput, handlePad, true}

func handleReduceOp(args HandlerArgs) bool {
	keepdims := args.Node.GetAttributeIntDefault("keepdims", 1)
	axes, hasAxes := args.Node.GetAttributeInts("axes")

	var outPerm []int64
	if !hasAxes {
		if keepdims == 0 {
			outPerm = []int64{}
		} else {
			outPerm = args.Perm
		}
	} else {
		if !permute.NormalizeAndValidateAxes(axes, len(args.Perm)) {
			return false
		}
		newAxes := permute.SortedAxesForTransposedInput(axes, args.Perm)
		args.Node.SetAttributeInts("axes", newAxes)
		if keepdims == 0 {
			outPerm = permute.SqueezePerm(newAxes, args.Perm)
		} else {
			outPerm = args.Perm
		}
	}

	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
	TransposeOutputs(args.Ctx, args.Node, outPerm)
	return true
}

var reduceOpHandler = HandlerInfo{FirstInput, handleReduceOp, true}

func handleReduceSum(args HandlerArgs) bool {
	if args.Ctx.Opset < 13 {
		return handleReduceOp(args)
	}

	keepdims := args.Node.GetAttributeIntDefault("keepdims", 1) != 0
	inputs := args.Node.Inputs()

	var axesConst graphapi.Tensor
	emptyAxes := false
	if len(inputs) < 2 || inputs[1] == "" {
		emptyAxes = true
	} else {
		if c, ok := args.Ctx.Graph.GetConstant(inputs[1]); ok {
			axesConst = c
			if len(c.DataInt64()) == 0 {
				emptyAxes = true
			}
		}
	}

	if emptyAxes {
		noopWithEmptyAxes := args.Node.GetAttributeIntDefault("noop_with_empty_axes", 0) != 0
		TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
		if noopWithEmptyAxes || keepdims {
			TransposeOutputs(args.Ctx, args.Node, args.Perm)
		}
		return true
	}

	if axesConst == nil {
		return false
	}

	axes := axesConst.DataInt64()
	if !permute.NormalizeAndValidateAxes(axes, len(args.Perm)) {
		return false
	}

	newAxes := permute.SortedAxesForTransposedInput(axes, args.Perm)
	newAxesConst := args.Ctx.Graph.AddInitializerInt64([]int64{int64(len(newAxes))}, newAxes)
	axesInp := inputs[1]
	args.Node.SetInput(1, newAxesConst)
	if !args.Ctx.Graph.HasValueConsumers(axesInp) {
		args.Ctx.Graph.RemoveInitializer(axesInp)
	}

	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)

	if keepdims {
		TransposeOutputs(args.Ctx, args.Node, args.Perm)
	} else {
		TransposeOutputs(args.Ctx, args.Node, permute.SqueezePerm(newAxes, args.Perm))
	}
	return true
}

var reduceSumHandler = HandlerInfo{FirstInput, handleReduceSum, true}

func handleSqueeze(args HandlerArgs) bool {
	axes, ok := ReadFromAttrOrInput(args.Ctx, args.Node, "axes", 1, 13)
	if !ok || !permute.NormalizeAndValidateAxes(axes, len(args.Perm)) {
		return false
	}

	newAxes := permute.SortedAxesForTransposedInput(axes, args.Perm)

	if args.Ctx.Opset < 13 {
		args.Node.SetAttributeInts("axes", newAxes)
	} else {
		axesInp := args.Node.Inputs()[1]
		newAxesConst := args.Ctx.Graph.AddInitializerInt64([]int64{int64(len(newAxes))}, newAxes)
		args.Node.SetInput(1, newAxesConst)
		if !args.Ctx.Graph.HasValueConsumers(axesInp) {
			args.Ctx.Graph.RemoveInitializer(axesInp)
		}
	}

	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
	newPerm := permute.SqueezePerm(newAxes, args.Perm)
	TransposeOutputs(args.Ctx, args.Node, newPerm)
	return true
}

var squeezeHandler = HandlerInfo{FirstInput, handleSqueeze, true}

func handleUnsqueeze(args HandlerArgs) bool {
	axes, ok := ReadFromAttrOrInput(args.Ctx, args.Node, "axes", 1, 13)
	if !ok || !permute.NormalizeAndValidateAxes(axes, len(args.Perm)+len(axes)) {
		return false
	}
	helpHandleUnsqueezeTop(args.Ctx, args.Node, args.Perm, args.PermInv, axes)
	return true
}

// helpHandleUnsqueezeTop is the top-level counterpart of
// helpHandleUnsqueeze in edits.go: it runs when Unsqueeze is the "node"
// being processed directly by ProcessTranspose, rather than a node this
// package inserted itself while handling some other op's UnsqueezeInput.
func helpHandleUnsqueezeTop(ctx Ctx, node graphapi.Node, perm, permInv, axes []int64) {
	TransposeFirstInput(ctx, node, permInv)
	newPerm := permute.UnsqueezePerm(axes, perm)
	TransposeOutput(ctx, node, 0, newPerm, permute.InvertPerm(newPerm))
}

var unsqueezeHandler = HandlerInfo{FirstInput, handleUnsqueeze, true}

func handleQuantizeDequantizeLinear(args HandlerArgs) bool {
	rank := len(args.Perm)

	if args.Ctx.Opset >= 13 {
		inputs := args.Node.Inputs()
		shape, hasShape := args.Ctx.Graph.GetValueInfo(inputs[1]).Shape()
		scalarParams := hasShape && len(shape) == 0

		if !scalarParams {
			axis := args.Node.GetAttributeIntDefault("axis", 1)
			if !permute.NormalizeAndValidateAxis(&axis, rank) {
				return false
			}
			args.Node.SetAttributeInt("axis", args.Perm[axis])
		}
	}

	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
	TransposeOutputs(args.Ctx, args.Node, args.Perm)
	return true
}

var quantizeDequantizeLinearHandler = HandlerInfo{FirstInput, handleQuantizeDequantizeLinear, true}

func handleArgMinMax(args HandlerArgs) bool {
	rank := len(args.Perm)

	keepdims := args.Node.GetAttributeIntDefault("keepdims", 1)
	axis := args.Node.GetAttributeIntDefault("axis", 0)
	if !permute.NormalizeAndValidateAxis(&axis, rank) {
		return false
	}
	newAxis := args.Perm[axis]
	args.Node.SetAttributeInt("axis", newAxis)

	TransposeInputs(args.Ctx, args.Node, args.PermInv, args.TransposibleInputs)
	if keepdims != 0 {
		TransposeOutputs(args.Ctx, args.Node, args.Perm)
	} else {
		TransposeOutputs(args.Ctx, args.Node, permute.SqueezePerm([]int64{newAxis}, args.Perm))
	}
	return true
}

var argMinMaxHandler = HandlerInfo{FirstInput, handleArgMinMax, true}

func addIntInitializerMatchingDtype(ctx Ctx, values []int64, dtype graphapi.DataType) string {
	shape := []int64{int64(len(values))}
	if dtype == graphapi.DTypeInt32 {
		v32 := make([]int32, len(values))
		for i, v := range values {
			v32[i] = int32(v)
		}
		return ctx.Graph.AddInitializerInt32(shape, v32)
	}
	return ctx.Graph.AddInitializerInt64(shape, values)
}

func tensorIntData(t graphapi.Tensor, dtype graphapi.DataType) []int64 {
	if dtype == graphapi.DTypeInt32 {
		v32 := t.DataInt32()
		out := make([]int64, len(v32))
		for i, v := range v32 {
			out[i] = int64(v)
		}
		return out
	}
	return t.DataInt64()
}

func handleSlice(args HandlerArgs) bool {
	rank := len(args.Perm)

	if args.Ctx.Opset < 10 {
		axes, ok := args.Node.GetAttributeInts("axes")
		if !ok {
			starts, ok := args.Node.GetAttributeInts("starts")
			if !ok {
				return false
			}
			axes = make([]int64, len(starts))
			for i := range axes {
				axes[i] = int64(i)
			}
		}

		if !permute.NormalizeAndValidateAxes(axes, rank) {
			return false
		}

		newAxes := permute.AxesForTransposedInput(axes, args.Perm)
		args.Node.SetAttributeInts("axes", newAxes)
		TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
		TransposeOutputs(args.Ctx, args.Node, args.Perm)
		return true
	}

	inputs := args.Node.Inputs()
	var newAxes []int64

	if len(inputs) < 4 || inputs[3] == "" {
		startsInfo := args.Ctx.Graph.GetValueInfo(inputs[1])
		startsShape, hasShape := startsInfo.Shape()
		intDtype := startsInfo.DType()

		if !hasShape || len(startsShape) != 1 || startsShape[0] < 0 {
			return false
		}

		ndims := int(startsShape[0])
		newAxes = make([]int64, ndims)
		for i := 0; i < ndims; i++ {
			newAxes[i] = args.Perm[i]
		}

		newAxesConst := addIntInitializerMatchingDtype(args.Ctx, newAxes, intDtype)
		args.Node.SetInput(3, newAxesConst)
	} else {
		axesInp := inputs[3]
		axesConst, ok := args.Ctx.Graph.GetConstant(axesInp)
		if !ok {
			return false
		}

		intDtype := axesConst.DType()
		axes := tensorIntData(axesConst, intDtype)
		if !permute.NormalizeAndValidateAxes(axes, rank) {
			return false
		}

		newAxes = permute.AxesForTransposedInput(axes, args.Perm)
		newAxesConst := addIntInitializerMatchingDtype(args.Ctx, newAxes, intDtype)
		args.Node.SetInput(3, newAxesConst)
		if !args.Ctx.Graph.HasValueConsumers(axesInp) {
			args.Ctx.Graph.RemoveInitializer(axesInp)
		}
	}

	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
	TransposeOutputs(args.Ctx, args.Node, args.Perm)
	return true
}

var sliceHandler = HandlerInfo{FirstInput, handleSlice, true}

func handleTile(args HandlerArgs) bool {
	rank := len(args.Perm)
	permShape := []int64{int64(rank)}

	repeatsInp := args.Node.Inputs()[1]
	if repeatsConst, ok := args.Ctx.Graph.GetConstant(repeatsInp); ok {
		repeats := repeatsConst.DataInt64()
		newRepeats := make([]int64, rank)
		for i, p := range args.PermInv {
			newRepeats[i] = repeats[p]
		}

		newRepeatsConst := args.Ctx.Graph.AddInitializerInt64(permShape, newRepeats)
		args.Node.SetInput(1, newRepeatsConst)
		if !args.Ctx.Graph.HasValueConsumers(repeatsInp) {
			args.Ctx.Graph.RemoveInitializer(repeatsInp)
		}
	} else {
		permInvConst := args.Ctx.Graph.AddInitializerInt64(permShape, args.PermInv)
		gather := args.Ctx.Graph.AddNode("Gather", []string{repeatsInp, permInvConst}, 1, "")
		gatherOutput := gather.Outputs()[0]
		args.Ctx.Graph.CopyValueInfo(repeatsInp, gatherOutput)
		args.Node.SetInput(1, gatherOutput)
	}

	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
	TransposeOutputs(args.Ctx, args.Node, args.Perm)
	return true
}

var tileHandler = HandlerInfo{FirstInput, handleTile, true}

// handleTranspose cancels or composes two adjacent Transpose nodes.
// args.Transpose is the upstream transpose, args.Node the downstream one.
func handleTranspose(args HandlerArgs) bool {
	nodePerm, ok := GetPermAttrIfValid(args.Node)
	if !ok {
		return false
	}

	transposeInput := args.Transpose.Inputs()[0]
	nodeOutput := args.Node.Outputs()[0]

	if int64SliceEqual(args.PermInv, nodePerm) {
		consumers := args.Ctx.Graph.GetValueConsumers(args.Node.Outputs()[0])
		if consumers.Comprehensive {
			ReplaceValueReferences(consumers.Nodes, nodeOutput, transposeInput)
		} else {
			transposeInpConsumers := args.Ctx.Graph.GetValueConsumers(transposeInput)
			transposeInpNode, hasTransposeInpNode := args.Ctx.Graph.GetNodeProducingOutput(transposeInput)

			if hasTransposeInpNode && transposeInpConsumers.Comprehensive {
				args.Node.SetInput(0, "")
				ReplaceValueReferences(transposeInpConsumers.Nodes, transposeInput, nodeOutput)

				outputs := transposeInpNode.Outputs()
				idx := -1
				for i, o := range outputs {
					if o == transposeInput {
						idx = i
						break
					}
				}
				args.Ctx.Graph.MoveOutput(args.Node, 0, transposeInpNode, idx)
			} else {
				identity := args.Ctx.Graph.AddNode("Identity", []string{""}, 1, "")
				args.Ctx.Graph.MoveOutput(args.Node, 0, identity, 0)
				identity.SetInput(0, transposeInput)
			}
		}

		args.Ctx.Graph.RemoveNode(args.Node)
	} else {
		newPerm := permute.ComposePerm(args.Perm, nodePerm)
		args.Node.SetAttributeInts("perm", newPerm)
		args.Node.SetInput(0, transposeInput)
	}

	if !args.Ctx.Graph.HasValueConsumers(args.Transpose.Outputs()[0]) {
		args.Ctx.Graph.RemoveNode(args.Transpose)
	}

	return true
}

var transposeHandler = HandlerInfo{FirstInput, handleTranspose, false}

func handleQLinearConcat(args HandlerArgs) bool {
	return handleSimpleNodeWithAxis(args, false, 0)
}

// QLinearConcatInputs returns the data-tensor inputs among QLinearConcat's
// [Y_scale, Y_zero_point, (data, scale, zero_point)*N] input list.
func QLinearConcatInputs(_ Ctx, node graphapi.Node) []int {
	n := len(node.Inputs())
	idx := make([]int, 0, n/3)
	for i := 2; i < n; i += 3 {
		idx = append(idx, i)
	}
	return idx
}

var qLinearConcatHandler = HandlerInfo{QLinearConcatInputs, handleQLinearConcat, true}

func handleQLinearBinaryOp(args HandlerArgs) bool {
	return handleSimpleNodeBase(args, true)
}

// QLinearBinaryOpInputs picks the two data tensors (A, B) out of
// QLinearAdd/QLinearMul's 8-input [A, A_scale, A_zero_point, B, B_scale,
// B_zero_point, C_scale, C_zero_point] signature.
func QLinearBinaryOpInputs(_ Ctx, _ graphapi.Node) []int {
	return []int{0, 3}
}

var qLinearBinaryOpHandler = HandlerInfo{QLinearBinaryOpInputs, handleQLinearBinaryOp, true}

func handleQLinearPoolOp(args HandlerArgs) bool {
	channelsLast := args.Node.GetAttributeIntDefault("channels_last", 1)
	rank := len(args.Perm)
	if rank < 2 {
		return false
	}
	p := permute.ChannelLastToFirstPerm(rank)
	matches := (channelsLast == 0 && int64SliceEqual(args.Perm, p)) ||
		(channelsLast != 0 && int64SliceEqual(args.PermInv, p))
	if !matches {
		return false
	}
	newChannelsLast := int64(1)
	if channelsLast != 0 {
		newChannelsLast = 0
	}
	args.Node.SetAttributeInt("channels_last", newChannelsLast)
	TransposeFirstInput(args.Ctx, args.Node, args.PermInv)
	TransposeOutputs(args.Ctx, args.Node, args.Perm)
	return true
}

var qLinearPoolOpHandler = HandlerInfo{FirstInput, handleQLinearPoolOp, true}

func handleMaxPool(args HandlerArgs) bool {
	outputs := args.Node.Outputs()
	if len(outputs) == 2 && outputs[1] != "" {
		return false
	}

	dtype := args.Ctx.Graph.GetValueInfo(outputs[0]).DType()
	if dtype != graphapi.DTypeUInt8 && dtype != graphapi.DTypeInt8 {
		return false
	}

	rank := len(args.Perm)
	if !int64SliceEqual(args.Perm, permute.ChannelLastToFirstPerm(rank)) {
		return false
	}

	inputs := args.Node.Inputs()
	newNode := args.Ctx.Graph.AddNode("NhwcMaxPool", inputs, 1, "com.microsoft")
	newNode.CopyAttributes(args.Node)
	newNode.ClearAttribute("storage_order")
	args.Ctx.Graph.MoveOutput(args.Node, 0, newNode, 0)
	args.Ctx.Graph.RemoveNode(args.Node)
	TransposeFirstInput(args.Ctx, newNode, args.PermInv)
	TransposeOutputs(args.Ctx, newNode, args.Perm)
	return true
}

var maxPoolOpHandler = HandlerInfo{FirstInput, handleMaxPool, true}
