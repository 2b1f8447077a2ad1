package dicot

import "github.com/pbanos/dicot/dataset"

/*
Partition splits the given dataset in two on the feature at the given
column index: samples whose value for the feature is below the threshold
go to the left dataset, all others go to the right one. Sample order is
preserved on both sides and the returned datasets are independent
collections that can be appended to without affecting each other or the
source.

The feature index must be a valid feature column for every sample in the
dataset; Grow and BestSplit validate indices before partitioning.
*/
func Partition(ds dataset.Dataset, feature int, threshold float64) (left, right dataset.Dataset) {
	left = dataset.Dataset{}
	right = dataset.Dataset{}
	for _, s := range ds {
		if s[feature] < threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return left, right
}
