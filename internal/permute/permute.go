// Package permute implements the pure permutation and axes algebra that
// every op handler in pkg/optimizer builds on: validating, inverting and
// composing perm vectors, and reindexing axes lists across squeeze,
// unsqueeze, and transpose boundaries.
package permute


// IsValidPerm reports whether p contains each value in [0, len(p)) exactly
// once.
func IsValidPerm(p []int64) bool {
	rank := len(p)
	seen := make([]bool, rank)
	for _, x := range p {
		if x < 0 || x >= int64(rank) || seen[x] {
			return false
		}
		seen[x] = true
	}
	return true
}

// InvertPerm computes the inverse permutation. Unsafe if p is not a valid
// permutation.
func InvertPerm(p []int64) []int64 {
	inv := make([]int64, len(p))
	for i, x := range p {
		inv[x] = int64(i)
	}
	return inv
}

// ComposePerm computes the permutation equivalent to applying perm1 then
// perm2: result[i] = perm1[perm2[i]]. Unsafe if perm1 or perm2 are not
// valid permutations.
func ComposePerm(perm1, perm2 []int64) []int64 {
	out := make([]int64, len(perm2))
	for i, p := range perm2 {
		out[i] = perm1[p]
	}
	return out
}

// IsIdentityPerm reports whether p[i] == i for every i.
func IsIdentityPerm(p []int64) bool {
	for i, x := range p {
		if x != int64(i) {
			return false
		}
	}
	return true
}

// ChannelLastToFirstPerm computes the permutation moving a channel-last
// layout's last dimension to position 1 (channel-first). rank must be >= 1.
func ChannelLastToFirstPerm(rank int) []int64 {
	p := make([]int64, rank)
	p[0] = 0
	if rank > 1 {
		p[1] = int64(rank - 1)
	}
	for i := 2; i < rank; i++ {
		p[i] = int64(i - 1)
	}
	return p
}

// NormalizeAndValidateAxes adds rank to negative entries of axes in place
// and reports whether the result is within [0, rank) with no duplicates.
func NormalizeAndValidateAxes(axes []int64, rank int) bool {
	rankInt := int64(rank)
	used := make([]bool, rank)
	for i, a := range axes {
		if a < 0 {
			a += rankInt
			axes[i] = a
		}
		if a < 0 || a >= rankInt || used[a] {
			return false
		}
		used[a] = true
	}
	return true
}

// NormalizeAndValidateAxis adds rank to a negative axis and reports whether
// the result lies in [0, rank).
func NormalizeAndValidateAxis(axis *int64, rank int) bool {
	rankInt := int64(rank)
	if *axis < 0 {
		*axis += rankInt
	}
	return *axis >= 0 && *axis < rankInt
}

// UnsqueezeShape inserts 1s into shape at each position named in axes.
// Unsafe if axes has negative or duplicate entries.
func UnsqueezeShape(shape, axes []int64) []int64 {
	newRank := len(shape) + len(axes)
	newShape := make([]int64, newRank)
	for _, a := range axes {
		newShape[a] = 1
	}
	j := 0
	for i := 0; i < newRank; i++ {
		if newShape[i] != 1 {
			newShape[i] = shape[j]
			j++
		}
	}
	return newShape
}

// UnsqueezePerm computes the perm for the unsqueezed version of a tensor:
// added positions map to themselves, existing positions keep their
// relative order remapped through the added-axis sparsity. Unsafe if
// axes/perm are invalid or contain negative values.
func UnsqueezePerm(axes, perm []int64) []int64 {
	oldRank := len(perm)
	newRank := oldRank + len(axes)

	isAdded := make([]bool, newRank)
	for _, a := range axes {
		isAdded[a] = true
	}

	axesMap := make([]int64, 0, newRank-len(axes))
	for i := 0; i < newRank; i++ {
		if !isAdded[i] {
			axesMap = append(axesMap, int64(i))
		}
	}

	newPerm := make([]int64, 0, newRank)
	j := 0
	for i := 0; i < newRank; i++ {
		if isAdded[i] {
			newPerm = append(newPerm, int64(i))
		} else {
			newPerm = append(newPerm, axesMap[perm[j]])
			j++
		}
	}
	return newPerm
}

// SqueezePerm computes the perm for the squeezed version of a tensor: drop
// removed axes from perm, renumber remaining indices to the compacted
// range. Unsafe if axes/perm are invalid or contain negative values.
func SqueezePerm(axes, perm []int64) []int64 {
	isRemoved := make([]bool, len(perm))
	for _, a := range axes {
		isRemoved[a] = true
	}

	axesMap := make([]int64, len(perm))
	var j int64
	for i := range perm {
		if !isRemoved[i] {
			axesMap[i] = j
			j++
		}
	}

	newPerm := make([]int64, 0, len(perm))
	for _, p := range perm {
		if !isRemoved[p] {
			newPerm = append(newPerm, axesMap[p])
		}
	}
	return newPerm
}

// AxesForTransposedInput remaps axes through perm, preserving order.
// Unsafe if axes/perm are invalid or contain negative values.
func AxesForTransposedInput(axes, perm []int64) []int64 {
	newAxes := make([]int64, len(axes))
	for i, a := range axes {
		newAxes[i] = perm[a]
	}
	return newAxes
}

// SortedAxesForTransposedInput remaps axes through perm and sorts the
// result ascending. Unsafe if axes/perm are invalid or contain negative
// values.
func SortedAxesForTransposedInput(axes, perm []int64) []int64 {
	rank := len(perm)
	include := make([]bool, rank)
	for _, a := range axes {
		include[perm[a]] = true
	}
	newAxes := make([]int64, 0, len(axes))
	for a := 0; a < rank; a++ {
		if include[a] {
			newAxes = append(newAxes, int64(a))
		}
	}
	return newAxes
}

// PermutePads reorders a pads vector (length 2*len(perm), all starts
// followed by all ends) according to perm.
func PermutePads(pads, perm []int64) []int64 {
	rank := int64(len(perm))
	newPads := make([]int64, 0, rank*2)
	for _, i := range perm {
		newPads = append(newPads, pads[i])
	}
	for _, i := range perm {
		newPads = append(newPads, pads[i+rank])
	}
	return newPads
}
