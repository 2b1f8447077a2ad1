package dicot

import (
	"testing"

	"github.com/pbanos/dicot/dataset"
	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {

	type test struct {
		ds        dataset.Dataset
		feature   int
		threshold float64
		left      dataset.Dataset
		right     dataset.Dataset
	}

	tests := map[string]test{
		"splits below and above preserving order": {
			ds:        dataset.Dataset{{3, 1}, {1, 0}, {4, 1}, {2, 0}},
			feature:   0,
			threshold: 2.5,
			left:      dataset.Dataset{{1, 0}, {2, 0}},
			right:     dataset.Dataset{{3, 1}, {4, 1}},
		},
		"threshold value itself goes right": {
			ds:        dataset.Dataset{{1, 0}, {2, 0}, {3, 1}},
			feature:   0,
			threshold: 2,
			left:      dataset.Dataset{{1, 0}},
			right:     dataset.Dataset{{2, 0}, {3, 1}},
		},
		"everything below goes left": {
			ds:        dataset.Dataset{{1, 0}, {2, 1}},
			feature:   0,
			threshold: 10,
			left:      dataset.Dataset{{1, 0}, {2, 1}},
			right:     dataset.Dataset{},
		},
		"everything at or above goes right": {
			ds:        dataset.Dataset{{1, 0}, {2, 1}},
			feature:   0,
			threshold: 1,
			left:      dataset.Dataset{},
			right:     dataset.Dataset{{1, 0}, {2, 1}},
		},
		"partitions on a later feature column": {
			ds:        dataset.Dataset{{1, 9, 0}, {2, 3, 1}},
			feature:   1,
			threshold: 5,
			left:      dataset.Dataset{{2, 3, 1}},
			right:     dataset.Dataset{{1, 9, 0}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			left, right := Partition(tt.ds, tt.feature, tt.threshold)
			assert.Equal(t, tt.left, left)
			assert.Equal(t, tt.right, right)
		})
	}

}

func TestPartitionIndependence(t *testing.T) {

	ds := dataset.Dataset{{1, 0}, {2, 0}, {3, 1}}
	left, right := Partition(ds, 0, 2.5)

	left = append(left, dataset.Sample{9, 9})
	right = append(right, dataset.Sample{8, 8})

	assert.Equal(t, dataset.Dataset{{1, 0}, {2, 0}, {3, 1}}, ds)
	assert.Equal(t, dataset.Dataset{{1, 0}, {2, 0}, {9, 9}}, left)
	assert.Equal(t, dataset.Dataset{{3, 1}, {8, 8}}, right)

}
