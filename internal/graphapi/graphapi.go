// Package graphapi defines the narrow abstraction through which the
// transpose-elimination optimizer touches a computation graph. It mirrors
// onnxruntime's separation between the optimizer core and its concrete
// graph implementation: pkg/optimizer and pkg/layout depend only on these
// interfaces, never on a concrete wire format.
package graphapi

// DataType is the element type of a Tensor or ValueInfo, restricted to
// the subset the optimizer's handlers inspect directly.
type DataType int32

const (
	DTypeUnknown DataType = iota
	DTypeFloat32
	DTypeFloat16
	DTypeBFloat16
	DTypeFloat64
	DTypeInt32
	DTypeInt64
	DTypeInt8
	DTypeUInt8
	DTypeBool
)

// Consumers describes the set of nodes that consume a named value.
// Comprehensive is false when the graph cannot enumerate every consumer
// (for example, the value is also a graph output whose external uses are
// unknown) — callers must then avoid destructive rewrites of that value.
type Consumers struct {
	Nodes         []Node
	Comprehensive bool
}

// Tensor is a concrete constant (an initializer).
type Tensor interface {
	Shape() []int64
	DType() DataType
	DataInt64() []int64
	DataInt32() []int32
}

// ValueInfo is the dtype/shape record associated with a named tensor edge.
type ValueInfo interface {
	Shape() ([]int64, bool)
	DType() DataType
	SetShape(shape []int64)
	PermuteDims(perm []int64)
	UnsqueezeDims(axes []int64)
}

// Node is a single graph operation.
type Node interface {
	OpType() string
	Domain() string
	IsOp(opType string) bool
	Inputs() []string
	SetInput(i int, name string)
	Outputs() []string
	GetAttributeInt(name string) (int64, bool)
	GetAttributeIntDefault(name string, def int64) int64
	GetAttributeInts(name string) ([]int64, bool)
	SetAttributeInt(name string, v int64)
	SetAttributeInts(name string, v []int64)
	ClearAttribute(name string)
	CopyAttributes(from Node)
}

// Graph is the abstraction the optimizer core mutates.
type Graph interface {
	Nodes() []Node
	Opset(domain string) (int64, bool)
	GetConstant(name string) (Tensor, bool)
	GetValueInfo(name string) ValueInfo
	HasValueConsumers(name string) bool
	GetValueConsumers(name string) *Consumers
	GetNodeProducingOutput(name string) (Node, bool)
	AddNode(opType string, inputs []string, numOutputs int, domain string) Node
	RemoveNode(n Node)
	MoveOutput(src Node, i int, dst Node, j int)
	CopyValueInfo(src, dst string)
	AddInitializerInt64(shape []int64, data []int64) string
	AddInitializerInt32(shape []int64, data []int32) string
	ReshapeInitializer(name string, shape []int64)
	TransposeInitializer(name string, perm []int64)
	RemoveInitializer(name string)
}
