package importer

import (
	"github.com/zerfoo/zerfoo/compute"
	"github.com/zerfoo/zerfoo/graph"
	"github.com/zerfoo/zerfoo/numeric"
	"github.com/zerfoo/zerfoo/tensor"
	"github.com/zerfoo/zmf"
)

// LayerConstructor builds a zerfoo graph.Node from a ZMF node and its
// resolved parameters. Unlike pkg/registry's onnx.NodeProto-keyed
// constructors (used while still reading raw ONNX), this registry
// operates on the already-converted ZMF representation, the input
// internal/semcheck and any future ZMF-to-zerfoo loader actually has
// in hand.
type LayerConstructor[T tensor.Numeric] func(
	engine compute.Engine[T],
	ops numeric.Arithmetic[T],
	node *zmf.Node,
	params map[string]*graph.Parameter[T],
) (graph.Node[T], error)

var layerRegistry = make(map[string]any)

// Register adds a new layer constructor to the ZMF-op-type registry.
func Register[T tensor.Numeric](opType string, constructor LayerConstructor[T]) {
	layerRegistry[opType] = constructor
}

// Get returns the constructor registered for a given ZMF op type.
func Get(opType string) (any, bool) {
	constructor, ok := layerRegistry[opType]
	return constructor, ok
}
