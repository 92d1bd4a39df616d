package onnxgraph

import (
	"fmt"

	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/graphapi"
)

const msOpset = "com.microsoft"

// Graph adapts a *zmf.Model to graphapi.Graph. zmf carries no per-edge
// value-info, no domain-keyed opset map and no consumer index, so Graph
// keeps all three as side tables rebuilt from the wire message at load
// time and kept in sync as nodes and initializers are mutated.
type Graph struct {
	model *zmf.Model

	nodes      []*node
	byRawNode  map[*zmf.Node]*node
	opsets     map[string]int64
	valueInfos map[string]*valueInfo

	idx   *consumerIndex
	dirty bool

	nextID int
}

// NewGraph wraps model, deriving its opset and value-info side tables from
// Metadata.OpsetVersion and the graph's declared Inputs/Outputs.
func NewGraph(model *zmf.Model) *Graph {
	g := &Graph{
		model:      model,
		byRawNode:  make(map[*zmf.Node]*node),
		opsets:     make(map[string]int64),
		valueInfos: make(map[string]*valueInfo),
	}

	g.opsets[""] = model.GetMetadata().GetOpsetVersion()
	for _, n := range model.GetGraph().GetNodes() {
		if (&node{n: n}).Domain() == msOpset {
			g.opsets[msOpset] = 1
			break
		}
	}

	for _, vi := range model.GetGraph().GetInputs() {
		g.valueInfos[vi.GetName()] = &valueInfo{shape: append([]int64(nil), vi.GetShape()...), hasShape: vi.GetShape() != nil}
	}
	for _, vi := range model.GetGraph().GetOutputs() {
		if _, ok := g.valueInfos[vi.GetName()]; !ok {
			g.valueInfos[vi.GetName()] = &valueInfo{shape: append([]int64(nil), vi.GetShape()...), hasShape: vi.GetShape() != nil}
		}
	}
	for name, t := range model.GetGraph().GetParameters() {
		g.valueInfos[name] = &valueInfo{
			shape:    append([]int64(nil), t.GetShape()...),
			hasShape: true,
			dtype:    fromZmfDtype(t.GetDtype()),
		}
	}

	g.rebuildNodes()
	return g
}

func (g *Graph) rebuildNodes() {
	raw := g.model.GetGraph().GetNodes()
	g.nodes = make([]*node, len(raw))
	g.byRawNode = make(map[*zmf.Node]*node, len(raw))
	for i, rn := range raw {
		nd := &node{n: rn}
		g.nodes[i] = nd
		g.byRawNode[rn] = nd
	}
	g.idx = buildConsumerIndex(g.nodes)
	g.dirty = false
}

func (g *Graph) ensureFresh() {
	if g.dirty {
		g.idx.rebuild(g.nodes)
		g.dirty = false
	}
}

func (g *Graph) Nodes() []graphapi.Node {
	out := make([]graphapi.Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n
	}
	return out
}

func (g *Graph) Opset(domain string) (int64, bool) {
	v, ok := g.opsets[domain]
	return v, ok
}

func (g *Graph) GetConstant(name string) (graphapi.Tensor, bool) {
	t, ok := g.model.GetGraph().GetParameters()[name]
	if !ok {
		return nil, false
	}
	return &tensor{t: t}, true
}

// GetValueInfo returns the side-table record for name, creating an empty
// one (unknown shape and dtype) on first reference the way onnxruntime's
// api::GraphRef lazily materializes a ValueInfo for any edge it is asked
// about.
func (g *Graph) GetValueInfo(name string) graphapi.ValueInfo {
	vi, ok := g.valueInfos[name]
	if !ok {
		vi = &valueInfo{}
		g.valueInfos[name] = vi
	}
	return vi
}

func (g *Graph) isGraphOutput(name string) bool {
	for _, o := range g.model.GetGraph().GetOutputs() {
		if o.GetName() == name {
			return true
		}
	}
	return false
}

func (g *Graph) HasValueConsumers(name string) bool {
	g.ensureFresh()
	return len(g.idx.consumers[name]) > 0
}

// GetValueConsumers reports every node consuming name plus whether that
// list is exhaustive. It is not exhaustive when name is also a graph
// output, since callers outside this graph may consume it too.
func (g *Graph) GetValueConsumers(name string) *graphapi.Consumers {
	g.ensureFresh()
	raw := g.idx.consumers[name]
	out := make([]graphapi.Node, len(raw))
	for i, n := range raw {
		out[i] = n
	}
	return &graphapi.Consumers{
		Nodes:         out,
		Comprehensive: !g.isGraphOutput(name),
	}
}

func (g *Graph) GetNodeProducingOutput(name string) (graphapi.Node, bool) {
	g.ensureFresh()
	n, ok := g.idx.producers[name]
	if !ok {
		return nil, false
	}
	return n, true
}

func (g *Graph) genName(prefix string) string {
	g.nextID++
	return fmt.Sprintf("%s_opt_%d", prefix, g.nextID)
}

// AddNode appends a new node of opType with numOutputs freshly named
// outputs and returns it. domain == "com.microsoft" encodes an extended op
// by prefixing the stored OpType with msDomainPrefix.
func (g *Graph) AddNode(opType string, inputs []string, numOutputs int, domain string) graphapi.Node {
	outputs := make([]string, numOutputs)
	for i := range outputs {
		outputs[i] = g.genName(opType + "_out")
	}
	rn := &zmf.Node{
		Name:    g.genName(opType),
		OpType:  domainOpType(domain, opType),
		Inputs:  append([]string(nil), inputs...),
		Outputs: outputs,
	}
	g.model.Graph.Nodes = append(g.model.Graph.Nodes, rn)
	nd := &node{n: rn}
	g.nodes = append(g.nodes, nd)
	g.byRawNode[rn] = nd
	g.dirty = true
	return nd
}

func (g *Graph) RemoveNode(n graphapi.Node) {
	nd, ok := n.(*node)
	if !ok {
		return
	}
	nodes := g.model.Graph.Nodes
	for i, rn := range nodes {
		if rn == nd.n {
			g.model.Graph.Nodes = append(nodes[:i], nodes[i+1:]...)
			break
		}
	}
	for i, x := range g.nodes {
		if x == nd {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
	delete(g.byRawNode, nd.n)
	g.dirty = true
}

// MoveOutput transfers production of src's output slot i to dst's output
// slot j: dst's output becomes src's old output name, and src's slot is
// rewritten to a fresh name so the two nodes never briefly share one
// output name while src is still in the graph awaiting RemoveNode.
func (g *Graph) MoveOutput(src graphapi.Node, i int, dst graphapi.Node, j int) {
	s, ok1 := src.(*node)
	d, ok2 := dst.(*node)
	if !ok1 || !ok2 {
		return
	}
	movedName := s.n.Outputs[i]
	s.n.Outputs[i] = g.genName(s.n.GetOpType() + "_displaced")
	d.n.Outputs[j] = movedName
	g.dirty = true
}

// CopyValueInfo copies src's side-table record to dst, overwriting
// whatever dst already had.
func (g *Graph) CopyValueInfo(src, dst string) {
	s, ok := g.valueInfos[src]
	if !ok {
		return
	}
	cp := &valueInfo{dtype: s.dtype}
	if s.hasShape {
		cp.SetShape(s.shape)
	}
	g.valueInfos[dst] = cp
}

func (g *Graph) addInitializer(dtype zmf.Tensor_DataType, shape []int64, data []byte) string {
	name := g.genName("const")
	g.model.Graph.Parameters[name] = &zmf.Tensor{
		Dtype: dtype,
		Shape: append([]int64(nil), shape...),
		Data:  data,
	}
	g.valueInfos[name] = &valueInfo{shape: append([]int64(nil), shape...), hasShape: true, dtype: fromZmfDtype(dtype)}
	return name
}

func (g *Graph) AddInitializerInt64(shape []int64, data []int64) string {
	return g.addInitializer(zmf.Tensor_INT64, shape, encodeInt64(data))
}

func (g *Graph) AddInitializerInt32(shape []int64, data []int32) string {
	return g.addInitializer(zmf.Tensor_INT32, shape, encodeInt32(data))
}

func (g *Graph) ReshapeInitializer(name string, shape []int64) {
	t, ok := g.model.Graph.Parameters[name]
	if !ok {
		return
	}
	t.Shape = append([]int64(nil), shape...)
	if vi, ok := g.valueInfos[name]; ok {
		vi.SetShape(shape)
	}
}

// TransposeInitializer permutes the constant named name in place the way
// the runtime Transpose node it replaces would have, folding the transpose
// into the weight instead of leaving it in the graph.
func (g *Graph) TransposeInitializer(name string, perm []int64) {
	t, ok := g.model.Graph.Parameters[name]
	if !ok {
		return
	}
	es := elemSize(t.GetDtype())
	if es == 0 {
		return
	}
	newShape := make([]int64, len(perm))
	for i, p := range perm {
		newShape[i] = t.Shape[p]
	}
	t.Data = transposeBytes(t.Data, t.Shape, perm, es)
	t.Shape = newShape
	if vi, ok := g.valueInfos[name]; ok {
		vi.PermuteDims(perm)
	}
}

func (g *Graph) RemoveInitializer(name string) {
	delete(g.model.Graph.Parameters, name)
	delete(g.valueInfos, name)
}
