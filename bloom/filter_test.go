package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/wxrport/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/post/a"))

	f.Add("https://example.com/post/a")

	assert.True(t, f.Test("https://example.com/post/a"))
	assert.False(t, f.Test("https://example.com/post/b"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("https://example.com/es/post/hola"), "first sighting")
	assert.True(t, f.TestAndAdd("https://example.com/es/post/hola"), "second sighting")
	assert.True(t, f.Test("https://example.com/es/post/hola"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("https://example.com/post/a")
	f.Add("https://example.com/post/b")
	f.Add("https://example.com/post/c")
	f.Add("https://example.com/post/a")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_NoFalseNegatives(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(500, 0.01)

	for i := range 500 {
		f.Add(fmt.Sprintf("https://example.com/post/%d", i))
	}
	for i := range 500 {
		assert.True(t, f.Test(fmt.Sprintf("https://example.com/post/%d", i)))
	}
}
