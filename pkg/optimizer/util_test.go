package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64SliceEqual(t *testing.T) {
	assert.True(t, int64SliceEqual([]int64{0, 2, 3, 1}, []int64{0, 2, 3, 1}))
	assert.False(t, int64SliceEqual([]int64{0, 2, 3, 1}, []int64{0, 1, 2, 3}))
	assert.False(t, int64SliceEqual([]int64{0, 1}, []int64{0, 1, 2}))
}
