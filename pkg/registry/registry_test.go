package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerfoo/zerfoo/compute"
	"github.com/zerfoo/zerfoo/graph"
	"github.com/zerfoo/zerfoo/numeric"
	"github.com/zerfoo/zonnxopt/internal/onnx"
	_ "github.com/zerfoo/zonnxopt/pkg/importer/layers"
	"github.com/zerfoo/zonnxopt/pkg/registry"
)

func TestRegisterAndGet(t *testing.T) {
	name := "ZonnxoptTestOp"

	registry.Register(name, registry.LayerConstructor[float32](func(
		_ compute.Engine[float32],
		_ numeric.Arithmetic[float32],
		_ *onnx.NodeProto,
		_ *registry.ConversionContext,
	) (graph.Node[float32], error) {
		return nil, nil
	}))

	got, ok := registry.Get(name)
	require.True(t, ok)
	assert.NotNil(t, got)

	constructor, ok := got.(registry.LayerConstructor[float32])
	require.True(t, ok, "registered constructor should keep its concrete LayerConstructor[float32] type")

	node, err := constructor(nil, nil, &onnx.NodeProto{}, &registry.ConversionContext{})
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestGetUnknownOpType(t *testing.T) {
	_, ok := registry.Get("NoSuchOpTypeAtAll")
	assert.False(t, ok)
}

func TestLayerPackageInitRegistersKnownOps(t *testing.T) {
	for _, opType := range []string{"Transpose", "Relu", "Reshape"} {
		_, ok := registry.Get(opType)
		assert.True(t, ok, "expected %s to self-register via pkg/importer/layers' init()", opType)
	}
}
