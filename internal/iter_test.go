package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeqFilter(t *testing.T) {
	assert := assert.New(t)

	odd := IterSeqFilter(slices.Values([]int{1, 2, 3, 4, 5}), func(v int) bool {
		return v%2 == 1
	})
	assert.Equal([]int{1, 3, 5}, slices.Collect(odd))

	// Early stop.
	for v := range odd {
		assert.Equal(1, v)
		break
	}
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]string{"a": "1"})
	b := maps.All(map[string]string{"b": "2", "c": "3"})

	got := maps.Collect(IterSeq2Concat(a, b))
	assert.Equal(map[string]string{"a": "1", "b": "2", "c": "3"}, got)

	count := 0
	for range IterSeq2Concat(a, b) {
		count++
		break
	}
	assert.Equal(1, count)
}
