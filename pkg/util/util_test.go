package util

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertList(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, ConvertList([]int{1, 2}, strconv.Itoa))
	assert.Empty(t, ConvertList(nil, strconv.Itoa))
}

func TestGetHistogramVec(t *testing.T) {
	first, err := GetHistogramVec("util_test_seconds", "test histogram", "op")
	require.NoError(t, err)
	second, err := GetHistogramVec("util_test_seconds", "test histogram", "op")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = GetHistogramVec("util_test_seconds", "test histogram", "op", "status")
	assert.Error(t, err)
}
