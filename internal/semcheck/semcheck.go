// Package semcheck is a small test-only oracle for checking that an
// optimizer or layout rewrite did not change a graph's observable
// behavior. It is not imported by pkg/optimizer, pkg/layout or their
// _test.go files; only its own tests use it, so it has no bearing on
// the production import graph.
package semcheck

import (
	"fmt"

	"github.com/zerfoo/zerfoo/tensor"
	"github.com/zerfoo/zmf"
)

// Tensor is a plain float32 buffer with a shape, the oracle's own value
// representation for the tiny interpreter in eval.go.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// CheckShapesWithEngine constructs a zerfoo tensor.TensorNumeric[float32]
// for every entry in outputs, the same tensor.New[T](shape, data)
// constructor importer_test.go's mockEngine harness builds its operands
// with, and reports an error if any declared shape does not round-trip.
// This is a shape sanity check only: like the teacher's own mockEngine,
// it never reads a value back out of the tensor it builds, since this
// module observed no such accessor on tensor.TensorNumeric in the
// retrieved corpus.
func CheckShapesWithEngine(outputs map[string]Tensor) error {
	for name, out := range outputs {
		shape := make([]int, len(out.Shape))
		for i, d := range out.Shape {
			shape[i] = int(d)
		}
		t, err := tensor.New[float32](shape, out.Data)
		if err != nil {
			return fmt.Errorf("semcheck: %s: building oracle tensor: %w", name, err)
		}
		if got, want := t.Shape(), shape; !intSliceEqual(got, want) {
			return fmt.Errorf("semcheck: %s: tensor.New round-tripped shape %v as %v", name, want, got)
		}
	}
	return nil
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GraphModel is the minimal view Eval needs of a *zmf.Model.
type GraphModel = zmf.Model
