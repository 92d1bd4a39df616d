// Package onnx defines the subset of the ONNX protobuf schema (onnx.proto)
// that the converter and importer need, plus a hand-written wire-format
// codec for it. There is no protoc-generated onnx.pb.go anywhere in the
// supply chain this module draws on, so the message shapes below are
// written by hand in the same style protoc-gen-go would have produced:
// pointer fields for optional scalars, Get* accessors that are nil-safe,
// and oneof fields modeled as a private interface with one wrapper struct
// per case.
package onnx

// ModelProto is the top-level container for an ONNX model.
type ModelProto struct {
	IrVersion       *int64
	OpsetImport     []*OperatorSetIdProto
	ProducerName    *string
	ProducerVersion *string
	Domain          *string
	ModelVersion    *int64
	DocString       *string
	Graph           *GraphProto
	MetadataProps   []*StringStringEntryProto
}

func (x *ModelProto) GetIrVersion() int64 {
	if x != nil && x.IrVersion != nil {
		return *x.IrVersion
	}
	return 0
}

func (x *ModelProto) GetOpsetImport() []*OperatorSetIdProto {
	if x != nil {
		return x.OpsetImport
	}
	return nil
}

func (x *ModelProto) GetProducerName() string {
	if x != nil && x.ProducerName != nil {
		return *x.ProducerName
	}
	return ""
}

func (x *ModelProto) GetProducerVersion() string {
	if x != nil && x.ProducerVersion != nil {
		return *x.ProducerVersion
	}
	return ""
}

func (x *ModelProto) GetDomain() string {
	if x != nil && x.Domain != nil {
		return *x.Domain
	}
	return ""
}

func (x *ModelProto) GetModelVersion() int64 {
	if x != nil && x.ModelVersion != nil {
		return *x.ModelVersion
	}
	return 0
}

func (x *ModelProto) GetGraph() *GraphProto {
	if x != nil {
		return x.Graph
	}
	return nil
}

func (x *ModelProto) GetMetadataProps() []*StringStringEntryProto {
	if x != nil {
		return x.MetadataProps
	}
	return nil
}

// GraphProto holds the nodes, inputs, outputs and initializers that make up
// a computation graph.
type GraphProto struct {
	Node        []*NodeProto
	Name        *string
	Initializer []*TensorProto
	DocString   *string
	Input       []*ValueInfoProto
	Output      []*ValueInfoProto
	ValueInfo   []*ValueInfoProto
}

func (x *GraphProto) GetNode() []*NodeProto {
	if x != nil {
		return x.Node
	}
	return nil
}

func (x *GraphProto) GetName() string {
	if x != nil && x.Name != nil {
		return *x.Name
	}
	return ""
}

func (x *GraphProto) GetInitializer() []*TensorProto {
	if x != nil {
		return x.Initializer
	}
	return nil
}

func (x *GraphProto) GetInput() []*ValueInfoProto {
	if x != nil {
		return x.Input
	}
	return nil
}

func (x *GraphProto) GetOutput() []*ValueInfoProto {
	if x != nil {
		return x.Output
	}
	return nil
}

func (x *GraphProto) GetValueInfo() []*ValueInfoProto {
	if x != nil {
		return x.ValueInfo
	}
	return nil
}

// NodeProto is a single operator invocation in a GraphProto.
type NodeProto struct {
	Input     []string
	Output    []string
	Name      *string
	OpType    *string
	Domain    *string
	Attribute []*AttributeProto
	DocString *string
}

func (x *NodeProto) GetInput() []string {
	if x != nil {
		return x.Input
	}
	return nil
}

func (x *NodeProto) GetOutput() []string {
	if x != nil {
		return x.Output
	}
	return nil
}

func (x *NodeProto) GetName() string {
	if x != nil && x.Name != nil {
		return *x.Name
	}
	return ""
}

func (x *NodeProto) GetOpType() string {
	if x != nil && x.OpType != nil {
		return *x.OpType
	}
	return ""
}

func (x *NodeProto) GetDomain() string {
	if x != nil && x.Domain != nil {
		return *x.Domain
	}
	return ""
}

func (x *NodeProto) GetAttribute() []*AttributeProto {
	if x != nil {
		return x.Attribute
	}
	return nil
}

// TensorProto_DataType mirrors onnx.proto's TensorProto.DataType enum.
type TensorProto_DataType int32

const (
	TensorProto_UNDEFINED TensorProto_DataType = 0
	TensorProto_FLOAT     TensorProto_DataType = 1
	TensorProto_UINT8     TensorProto_DataType = 2
	TensorProto_INT8      TensorProto_DataType = 3
	TensorProto_UINT16    TensorProto_DataType = 4
	TensorProto_INT16     TensorProto_DataType = 5
	TensorProto_INT32     TensorProto_DataType = 6
	TensorProto_INT64     TensorProto_DataType = 7
	TensorProto_STRING    TensorProto_DataType = 8
	TensorProto_BOOL      TensorProto_DataType = 9
	TensorProto_FLOAT16   TensorProto_DataType = 10
	TensorProto_DOUBLE    TensorProto_DataType = 11
	TensorProto_UINT32    TensorProto_DataType = 12
	TensorProto_UINT64    TensorProto_DataType = 13
	TensorProto_BFLOAT16  TensorProto_DataType = 16
)

// TensorProto_DataType_name mirrors the protoc-gen-go enum name map, used by
// code that wants to print an unsupported dtype in error messages.
var TensorProto_DataType_name = map[int32]string{
	0:  "UNDEFINED",
	1:  "FLOAT",
	2:  "UINT8",
	3:  "INT8",
	4:  "UINT16",
	5:  "INT16",
	6:  "INT32",
	7:  "INT64",
	8:  "STRING",
	9:  "BOOL",
	10: "FLOAT16",
	11: "DOUBLE",
	12: "UINT32",
	13: "UINT64",
	16: "BFLOAT16",
}

func (d TensorProto_DataType) String() string {
	if name, ok := TensorProto_DataType_name[int32(d)]; ok {
		return name
	}
	return "UNKNOWN"
}

// TensorProto carries a tensor's shape, dtype and either raw or typed data.
type TensorProto struct {
	Dims         []int64
	DataType     *int32
	Name         *string
	DocString    *string
	RawData      []byte
	FloatData    []float32
	Int32Data    []int32
	Int64Data    []int64
	ExternalData []*StringStringEntryProto
}

func (x *TensorProto) GetDims() []int64 {
	if x != nil {
		return x.Dims
	}
	return nil
}

func (x *TensorProto) GetDataType() int32 {
	if x != nil && x.DataType != nil {
		return *x.DataType
	}
	return 0
}

func (x *TensorProto) GetName() string {
	if x != nil && x.Name != nil {
		return *x.Name
	}
	return ""
}

func (x *TensorProto) GetRawData() []byte {
	if x != nil {
		return x.RawData
	}
	return nil
}

func (x *TensorProto) GetFloatData() []float32 {
	if x != nil {
		return x.FloatData
	}
	return nil
}

func (x *TensorProto) GetInt32Data() []int32 {
	if x != nil {
		return x.Int32Data
	}
	return nil
}

func (x *TensorProto) GetInt64Data() []int64 {
	if x != nil {
		return x.Int64Data
	}
	return nil
}

func (x *TensorProto) GetExternalData() []*StringStringEntryProto {
	if x != nil {
		return x.ExternalData
	}
	return nil
}

// ValueInfoProto names and types a graph input, output or intermediate
// value.
type ValueInfoProto struct {
	Name      *string
	Type      *TypeProto
	DocString *string
}

func (x *ValueInfoProto) GetName() string {
	if x != nil && x.Name != nil {
		return *x.Name
	}
	return ""
}

func (x *ValueInfoProto) GetType() *TypeProto {
	if x != nil {
		return x.Type
	}
	return nil
}

// TypeProto is a oneof over the kinds of type ONNX supports; only the
// tensor case is modeled since the converter never sees sequence or map
// typed values.
type TypeProto struct {
	Value isTypeProto_Value
}

type isTypeProto_Value interface {
	isTypeProto_Value()
}

type TypeProto_TensorType struct {
	TensorType *TypeProto_Tensor
}

func (*TypeProto_TensorType) isTypeProto_Value() {}

func (x *TypeProto) GetValue() isTypeProto_Value {
	if x != nil {
		return x.Value
	}
	return nil
}

func (x *TypeProto) GetTensorType() *TypeProto_Tensor {
	if v, ok := x.GetValue().(*TypeProto_TensorType); ok {
		return v.TensorType
	}
	return nil
}

// TypeProto_Tensor describes the element type and shape of a tensor-typed
// value.
type TypeProto_Tensor struct {
	ElemType *int32
	Shape    *TensorShapeProto
}

func (x *TypeProto_Tensor) GetElemType() int32 {
	if x != nil && x.ElemType != nil {
		return *x.ElemType
	}
	return 0
}

func (x *TypeProto_Tensor) GetShape() *TensorShapeProto {
	if x != nil {
		return x.Shape
	}
	return nil
}

// TensorShapeProto is an ordered list of dimensions.
type TensorShapeProto struct {
	Dim []*TensorShapeProto_Dimension
}

func (x *TensorShapeProto) GetDim() []*TensorShapeProto_Dimension {
	if x != nil {
		return x.Dim
	}
	return nil
}

// TensorShapeProto_Dimension is a oneof of a static dim_value or a symbolic
// dim_param; only dim_value is modeled since the converter treats symbolic
// dims as unknown (rank-only) shapes.
type TensorShapeProto_Dimension struct {
	Value isTensorShapeProto_Dimension_Value
}

type isTensorShapeProto_Dimension_Value interface {
	isTensorShapeProto_Dimension_Value()
}

type TensorShapeProto_Dimension_DimValue struct {
	DimValue int64
}

func (*TensorShapeProto_Dimension_DimValue) isTensorShapeProto_Dimension_Value() {}

type TensorShapeProto_Dimension_DimParam struct {
	DimParam string
}

func (*TensorShapeProto_Dimension_DimParam) isTensorShapeProto_Dimension_Value() {}

func (x *TensorShapeProto_Dimension) GetValue() isTensorShapeProto_Dimension_Value {
	if x != nil {
		return x.Value
	}
	return nil
}

func (x *TensorShapeProto_Dimension) GetDimValue() int64 {
	if v, ok := x.GetValue().(*TensorShapeProto_Dimension_DimValue); ok {
		return v.DimValue
	}
	return 0
}

func (x *TensorShapeProto_Dimension) GetDimParam() string {
	if v, ok := x.GetValue().(*TensorShapeProto_Dimension_DimParam); ok {
		return v.DimParam
	}
	return ""
}

// AttributeProto_AttributeType mirrors onnx.proto's AttributeProto.AttributeType enum.
type AttributeProto_AttributeType int32

const (
	AttributeProto_UNDEFINED AttributeProto_AttributeType = 0
	AttributeProto_FLOAT     AttributeProto_AttributeType = 1
	AttributeProto_INT       AttributeProto_AttributeType = 2
	AttributeProto_STRING    AttributeProto_AttributeType = 3
	AttributeProto_TENSOR    AttributeProto_AttributeType = 4
	AttributeProto_GRAPH     AttributeProto_AttributeType = 5
	AttributeProto_FLOATS    AttributeProto_AttributeType = 6
	AttributeProto_INTS      AttributeProto_AttributeType = 7
	AttributeProto_STRINGS   AttributeProto_AttributeType = 8
	AttributeProto_TENSORS   AttributeProto_AttributeType = 9
	AttributeProto_GRAPHS    AttributeProto_AttributeType = 10
)

// AttributeProto is a named node attribute; exactly one of the typed value
// fields is populated, selected by Type.
type AttributeProto struct {
	Name    *string
	Type    *AttributeProto_AttributeType
	F       *float32
	I       *int64
	S       []byte
	T       *TensorProto
	G       *GraphProto
	Floats  []float32
	Ints    []int64
	Strings [][]byte
	Tensors []*TensorProto
	Graphs  []*GraphProto
}

func (x *AttributeProto) GetName() string {
	if x != nil && x.Name != nil {
		return *x.Name
	}
	return ""
}

func (x *AttributeProto) GetType() AttributeProto_AttributeType {
	if x != nil && x.Type != nil {
		return *x.Type
	}
	return AttributeProto_UNDEFINED
}

func (x *AttributeProto) GetF() float32 {
	if x != nil && x.F != nil {
		return *x.F
	}
	return 0
}

func (x *AttributeProto) GetI() int64 {
	if x != nil && x.I != nil {
		return *x.I
	}
	return 0
}

func (x *AttributeProto) GetS() []byte {
	if x != nil {
		return x.S
	}
	return nil
}

func (x *AttributeProto) GetT() *TensorProto {
	if x != nil {
		return x.T
	}
	return nil
}

func (x *AttributeProto) GetFloats() []float32 {
	if x != nil {
		return x.Floats
	}
	return nil
}

func (x *AttributeProto) GetInts() []int64 {
	if x != nil {
		return x.Ints
	}
	return nil
}

func (x *AttributeProto) GetStrings() [][]byte {
	if x != nil {
		return x.Strings
	}
	return nil
}

// OperatorSetIdProto pins a domain to an opset version.
type OperatorSetIdProto struct {
	Domain  *string
	Version *int64
}

func (x *OperatorSetIdProto) GetDomain() string {
	if x != nil && x.Domain != nil {
		return *x.Domain
	}
	return ""
}

func (x *OperatorSetIdProto) GetVersion() int64 {
	if x != nil && x.Version != nil {
		return *x.Version
	}
	return 0
}

// StringStringEntryProto is a generic key/value pair, used for both
// ModelProto.metadata_props and TensorProto.external_data.
type StringStringEntryProto struct {
	Key   *string
	Value *string
}

func (x *StringStringEntryProto) GetKey() string {
	if x != nil && x.Key != nil {
		return *x.Key
	}
	return ""
}

func (x *StringStringEntryProto) GetValue() string {
	if x != nil && x.Value != nil {
		return *x.Value
	}
	return ""
}
