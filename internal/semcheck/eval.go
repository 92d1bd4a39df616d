package semcheck

import (
	"fmt"
	"math"

	"github.com/zerfoo/zmf"
)

// Eval runs the small op subset this oracle understands over model,
// given concrete values for every graph input, and returns every graph
// output by name. It exists to check that a transpose-elimination or
// layout rewrite produced a graph computing the same function as the
// one it replaced — not to be a general ONNX interpreter.
func Eval(model *zmf.Model, inputs map[string]Tensor) (map[string]Tensor, error) {
	values := map[string]Tensor{}
	for name, t := range inputs {
		values[name] = t
	}
	for name, p := range model.GetGraph().GetParameters() {
		values[name] = tensorFromParam(p)
	}

	for _, n := range model.GetGraph().GetNodes() {
		out, err := evalNode(n, values)
		if err != nil {
			return nil, fmt.Errorf("semcheck: node %s (%s): %w", n.GetName(), n.GetOpType(), err)
		}
		for i, o := range n.GetOutputs() {
			if o != "" && i < len(out) {
				values[o] = out[i]
			}
		}
	}

	result := map[string]Tensor{}
	for _, o := range model.GetGraph().GetOutputs() {
		v, ok := values[o.GetName()]
		if !ok {
			return nil, fmt.Errorf("semcheck: graph output %s was never produced", o.GetName())
		}
		result[o.GetName()] = v
	}
	return result, nil
}

func tensorFromParam(p *zmf.Tensor) Tensor {
	return Tensor{Shape: append([]int64(nil), p.GetShape()...), Data: decodeFloat32(p)}
}

func decodeFloat32(p *zmf.Tensor) []float32 {
	if p.GetDtype() != zmf.Tensor_FLOAT32 {
		return nil
	}
	n := len(p.GetData()) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		b := p.GetData()[i*4 : i*4+4]
		bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}

func evalNode(n *zmf.Node, values map[string]Tensor) ([]Tensor, error) {
	in := func(i int) (Tensor, error) {
		if i >= len(n.GetInputs()) {
			return Tensor{}, fmt.Errorf("missing input %d", i)
		}
		v, ok := values[n.GetInputs()[i]]
		if !ok {
			return Tensor{}, fmt.Errorf("input %d (%s) not yet produced", i, n.GetInputs()[i])
		}
		return v, nil
	}

	switch n.GetOpType() {
	case "Identity":
		x, err := in(0)
		if err != nil {
			return nil, err
		}
		return []Tensor{x}, nil

	case "Relu":
		x, err := in(0)
		if err != nil {
			return nil, err
		}
		out := make([]float32, len(x.Data))
		for i, v := range x.Data {
			if v > 0 {
				out[i] = v
			}
		}
		return []Tensor{{Shape: x.Shape, Data: out}}, nil

	case "Transpose":
		x, err := in(0)
		if err != nil {
			return nil, err
		}
		perm, ok := getPermAttr(n)
		if !ok {
			perm = reversePerm(len(x.Shape))
		}
		return []Tensor{transposeTensor(x, perm)}, nil

	case "Add", "Sub", "Mul", "Div":
		a, err := in(0)
		if err != nil {
			return nil, err
		}
		b, err := in(1)
		if err != nil {
			return nil, err
		}
		return []Tensor{elementwiseBroadcast(n.GetOpType(), a, b)}, nil

	case "Squeeze", "Unsqueeze":
		x, err := in(0)
		if err != nil {
			return nil, err
		}
		return []Tensor{x}, nil

	case "Concat":
		axis := getIntAttr(n, "axis", 0)
		var parts []Tensor
		for i := range n.GetInputs() {
			t, err := in(i)
			if err != nil {
				return nil, err
			}
			parts = append(parts, t)
		}
		return []Tensor{concatTensors(parts, int(axis))}, nil

	default:
		return nil, fmt.Errorf("unsupported op for semantic checking")
	}
}

func getPermAttr(n *zmf.Node) ([]int64, bool) {
	a, ok := n.GetAttributes()["perm"]
	if !ok {
		return nil, false
	}
	ints, ok := a.GetValue().(*zmf.Attribute_Ints)
	if !ok {
		return nil, false
	}
	return ints.Ints.GetVal(), true
}

func getIntAttr(n *zmf.Node, name string, def int64) int64 {
	a, ok := n.GetAttributes()[name]
	if !ok {
		return def
	}
	i, ok := a.GetValue().(*zmf.Attribute_I)
	if !ok {
		return def
	}
	return i.I
}

func reversePerm(rank int) []int64 {
	p := make([]int64, rank)
	for i := range p {
		p[i] = int64(rank - 1 - i)
	}
	return p
}

func strides(shape []int64) []int64 {
	s := make([]int64, len(shape))
	acc := int64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

func transposeTensor(x Tensor, perm []int64) Tensor {
	rank := len(x.Shape)
	newShape := make([]int64, rank)
	for i, p := range perm {
		newShape[i] = x.Shape[p]
	}
	oldStrides := strides(x.Shape)
	total := int64(1)
	for _, d := range newShape {
		total *= d
	}
	out := make([]float32, total)
	idx := make([]int64, rank)
	for i := int64(0); i < total; i++ {
		rem := i
		for d := 0; d < rank; d++ {
			newStride := int64(1)
			for k := d + 1; k < rank; k++ {
				newStride *= newShape[k]
			}
			idx[d] = rem / newStride
			rem %= newStride
		}
		oldOffset := int64(0)
		for d := 0; d < rank; d++ {
			oldOffset += idx[d] * oldStrides[perm[d]]
		}
		out[i] = x.Data[oldOffset]
	}
	return Tensor{Shape: newShape, Data: out}
}

func elementwiseBroadcast(op string, a, b Tensor) Tensor {
	n := len(a.Data)
	if len(b.Data) < n {
		n = len(b.Data)
	}
	out := make([]float32, len(a.Data))
	for i := range a.Data {
		bv := a.Data[i]
		if len(b.Data) == 1 {
			bv = b.Data[0]
		} else if i < len(b.Data) {
			bv = b.Data[i]
		}
		switch op {
		case "Add":
			out[i] = a.Data[i] + bv
		case "Sub":
			out[i] = a.Data[i] - bv
		case "Mul":
			out[i] = a.Data[i] * bv
		case "Div":
			out[i] = a.Data[i] / bv
		}
	}
	return Tensor{Shape: a.Shape, Data: out}
}

func concatTensors(parts []Tensor, axis int) Tensor {
	if len(parts) == 0 {
		return Tensor{}
	}
	if axis < 0 {
		axis += len(parts[0].Shape)
	}
	newShape := append([]int64(nil), parts[0].Shape...)
	var axisSum int64
	for _, p := range parts {
		axisSum += p.Shape[axis]
	}
	newShape[axis] = axisSum

	outer := int64(1)
	for i := 0; i < axis; i++ {
		outer *= newShape[i]
	}
	inner := int64(1)
	for i := axis + 1; i < len(newShape); i++ {
		inner *= newShape[i]
	}

	out := make([]float32, 0, outer*axisSum*inner)
	chunks := make([][]float32, len(parts))
	for pi, p := range parts {
		chunks[pi] = p.Data
	}
	offsets := make([]int64, len(parts))
	for o := int64(0); o < outer; o++ {
		for pi, p := range parts {
			size := p.Shape[axis] * inner
			out = append(out, chunks[pi][offsets[pi]:offsets[pi]+size]...)
			offsets[pi] += size
		}
	}
	return Tensor{Shape: newShape, Data: out}
}
