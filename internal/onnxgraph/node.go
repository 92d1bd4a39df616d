package onnxgraph

import (
	"strings"

	"github.com/zerfoo/zmf"
	"github.com/zerfoo/zonnxopt/internal/graphapi"
)

// msDomainPrefix is how this package spells an extended-domain op type:
// zmf.Node carries no separate domain field, so a "com.microsoft" op is
// stored as "com.microsoft.<OpType>". pkg/converter does not add this
// prefix; it copies the ONNX op type as is.
const msDomainPrefix = "com.microsoft."

const msDomain = "com.microsoft"

// node adapts a *zmf.Node to graphapi.Node.
type node struct {
	n *zmf.Node
}

func (nd *node) raw() *zmf.Node { return nd.n }

func (nd *node) OpType() string {
	if rest, ok := strings.CutPrefix(nd.n.GetOpType(), msDomainPrefix); ok {
		return rest
	}
	return nd.n.GetOpType()
}

func (nd *node) Domain() string {
	if strings.HasPrefix(nd.n.GetOpType(), msDomainPrefix) {
		return msDomain
	}
	return ""
}

func (nd *node) IsOp(opType string) bool {
	return nd.OpType() == opType
}

func (nd *node) Inputs() []string {
	return nd.n.GetInputs()
}

func (nd *node) SetInput(i int, name string) {
	nd.n.Inputs[i] = name
}

func (nd *node) Outputs() []string {
	return nd.n.GetOutputs()
}

func (nd *node) GetAttributeInt(name string) (int64, bool) {
	attr, ok := nd.n.GetAttributes()[name]
	if !ok {
		return 0, false
	}
	v, ok := attr.GetValue().(*zmf.Attribute_I)
	if !ok {
		return 0, false
	}
	return v.I, true
}

func (nd *node) GetAttributeIntDefault(name string, def int64) int64 {
	if v, ok := nd.GetAttributeInt(name); ok {
		return v
	}
	return def
}

func (nd *node) GetAttributeInts(name string) ([]int64, bool) {
	attr, ok := nd.n.GetAttributes()[name]
	if !ok {
		return nil, false
	}
	v, ok := attr.GetValue().(*zmf.Attribute_Ints)
	if !ok {
		return nil, false
	}
	return v.Ints.GetVal(), true
}

func (nd *node) SetAttributeInt(name string, v int64) {
	nd.ensureAttributes()
	nd.n.Attributes[name] = &zmf.Attribute{Value: &zmf.Attribute_I{I: v}}
}

func (nd *node) SetAttributeInts(name string, v []int64) {
	nd.ensureAttributes()
	nd.n.Attributes[name] = &zmf.Attribute{
		Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: v}},
	}
}

func (nd *node) ClearAttribute(name string) {
	delete(nd.n.GetAttributes(), name)
}

// CopyAttributes copies each of from's attributes onto nd, overwriting any
// of nd's attributes with the same name and keeping the rest, the way the
// MaxPool handler and pkg/layout hand a replacement node the attributes of
// the one it replaces.
func (nd *node) CopyAttributes(from graphapi.Node) {
	src, ok := from.(*node)
	if !ok {
		return
	}
	nd.ensureAttributes()
	for k, v := range src.n.GetAttributes() {
		nd.n.Attributes[k] = v
	}
}

func (nd *node) ensureAttributes() {
	if nd.n.Attributes == nil {
		nd.n.Attributes = make(map[string]*zmf.Attribute)
	}
}

func domainOpType(domain, opType string) string {
	if domain == msDomain {
		return msDomainPrefix + opType
	}
	return opType
}
