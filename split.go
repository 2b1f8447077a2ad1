package dicot

import (
	"math"
	"sort"
	"sync"

	"github.com/pbanos/dicot/dataset"
)

/*
Split represents a decision rule: the samples of a dataset whose value
for the feature at the given column index is below the threshold are
separated from all others.
*/
type Split struct {
	Feature   int
	Threshold float64
}

type featureSplit struct {
	threshold float64
	score     float64
	found     bool
	err       error
}

/*
BestSplit runs an exhaustive search for the split that minimizes the
weighted Gini impurity of the two subsets it partitions the dataset
into:

	|left|/n * Impurity(left) + |right|/n * Impurity(right)

For every candidate feature the dataset's values for the feature are
sorted and every midpoint between two adjacent sorted values is
evaluated as a threshold, equal adjacent values included. Features are
swept in the order given and thresholds in ascending order, and the
minimum is kept under strict comparison, so on exact objective ties the
first candidate evaluated wins. Candidates that fail to separate the
dataset into two non-empty subsets are evaluated but never selected;
when no candidate separates the dataset BestSplit returns
ErrNoSplitFound.

BestSplit returns ErrEmptyDataset when the dataset has no samples and an
error wrapping ErrFeatureOutOfRange when a candidate feature index is
not a feature column of the dataset.
*/
func BestSplit(ds dataset.Dataset, features []int) (Split, error) {
	return (&Grower{}).BestSplit(ds, features)
}

/*
BestSplit runs the same search as the package-level BestSplit, sweeping
up to g.Workers candidate features concurrently when g.Workers is above
1. Each feature's sweep is an independent read-only pass and results are
reduced in feature order, so the selected split is the same whatever the
number of workers.
*/
func (g *Grower) BestSplit(ds dataset.Dataset, features []int) (Split, error) {
	if ds.Count() == 0 {
		return Split{}, ErrEmptyDataset
	}
	if err := checkFeatures(ds, features); err != nil {
		return Split{}, err
	}
	results := make([]featureSplit, len(features))
	if g.Workers > 1 {
		sem := make(chan struct{}, g.Workers)
		var wg sync.WaitGroup
		for i, f := range features {
			wg.Add(1)
			go func(i, f int) {
				defer wg.Done()
				sem <- struct{}{}
				results[i] = bestFeatureSplit(ds, f)
				<-sem
			}(i, f)
		}
		wg.Wait()
	} else {
		for i, f := range features {
			results[i] = bestFeatureSplit(ds, f)
		}
	}
	var (
		found     bool
		best      Split
		bestScore = math.Inf(1)
	)
	for i, r := range results {
		if r.err != nil {
			return Split{}, r.err
		}
		if r.found && r.score < bestScore {
			found = true
			bestScore = r.score
			best = Split{Feature: features[i], Threshold: r.threshold}
		}
	}
	if !found {
		return Split{}, ErrNoSplitFound
	}
	return best, nil
}

func bestFeatureSplit(ds dataset.Dataset, feature int) featureSplit {
	values := ds.FeatureValues(feature)
	sort.Float64s(values)
	fs := featureSplit{score: math.Inf(1)}
	for i := 1; i < len(values); i++ {
		threshold := (values[i-1] + values[i]) / 2
		left, right := Partition(ds, feature, threshold)
		if left.Count() == 0 || right.Count() == 0 {
			// a midpoint between equal values separates nothing
			continue
		}
		score, err := splitScore(ds.Count(), left, right)
		if err != nil {
			fs.err = err
			return fs
		}
		if score < fs.score {
			fs.found = true
			fs.score = score
			fs.threshold = threshold
		}
	}
	return fs
}

func splitScore(n int, left, right dataset.Dataset) (float64, error) {
	leftImpurity, err := Impurity(left.Labels())
	if err != nil {
		return 0, err
	}
	rightImpurity, err := Impurity(right.Labels())
	if err != nil {
		return 0, err
	}
	leftWeight := float64(left.Count()) / float64(n)
	rightWeight := float64(right.Count()) / float64(n)
	return leftWeight*leftImpurity + rightWeight*rightImpurity, nil
}
