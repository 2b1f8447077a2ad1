/*
Package dicot grows binary classification decision trees from labeled
numeric datasets. Like the dicotyledon seedlings it is named after, every
node of a dicot tree sprouts exactly two leaves: a decision sends a
sample left when its value for the decision feature falls below a
threshold and right otherwise.

Trees are grown with Grow from a dataset.Dataset whose samples carry
their class label, 0 or 1, as their trailing value, plus the list of
feature column indices the tree may decide on. Growing follows CART:
every step selects the split minimizing the weighted Gini impurity of
the two subsets it produces, partitions the dataset with it and recurses
on both sides with the same candidate features, closing pure datasets
and datasets no split can separate as leaves. The grown tree classifies
new feature vectors with its Classify method.
*/
package dicot

import (
	"errors"
	"fmt"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/tree"
)

// GrowError represents an error preventing a tree from being grown
type GrowError string

/*
ErrEmptyDataset is the error returned when trying to grow a tree or
select a split from a dataset with no samples.
*/
const ErrEmptyDataset = GrowError("cannot grow a tree from an empty dataset")

/*
ErrInvalidLabel is the error returned, wrapped with the offending sample,
when a sample's trailing class label is not exactly 0 or 1. Labels are
never truncated to a class: 0.9 is an invalid label, not class 0.
*/
const ErrInvalidLabel = GrowError("invalid sample label: class labels must be 0 or 1")

/*
ErrRaggedDataset is the error returned, wrapped with the offending
sample, when the samples of a dataset do not all have the same non-zero
length.
*/
const ErrRaggedDataset = GrowError("dataset samples must all have the same non-zero length")

/*
ErrFeatureOutOfRange is the error returned, wrapped with the offending
index, when a candidate feature index does not name a feature column of
the dataset.
*/
const ErrFeatureOutOfRange = GrowError("candidate feature index is not a feature column of the dataset")

/*
ErrNoSplitFound is the error returned by BestSplit when no candidate
threshold on any candidate feature separates the dataset into two
non-empty subsets: the dataset has a single sample, or identical
candidate feature values on every sample, or no candidate features at
all. Grow does not surface it, closing such datasets with a
majority-class leaf instead.
*/
const ErrNoSplitFound = GrowError("no candidate split separates the dataset")

func (ge GrowError) Error() string {
	return string(ge)
}

/*
Grower grows trees. Its zero value is ready to use and searches splits
serially; a Grower with Workers above 1 sweeps up to that many candidate
features concurrently during split selection. The grown tree is the same
either way.
*/
type Grower struct {
	Workers int
}

/*
Grow grows a tree from the given dataset and candidate feature column
indices with a zero-value Grower.
*/
func Grow(ds dataset.Dataset, features []int) (*tree.Tree, error) {
	return (&Grower{}).Grow(ds, features)
}

/*
Grow grows a binary classification decision tree from the given dataset
and candidate feature column indices.

The dataset is validated up front: it must have at least one sample, all
samples must have the same non-zero length and carry a 0 or 1 class
label as their trailing value, and every candidate feature index must
name one of the feature columns. Violations are reported as
ErrEmptyDataset, ErrRaggedDataset, ErrInvalidLabel and
ErrFeatureOutOfRange errors respectively, before anything is grown.

Growing then recurses: a dataset whose samples all share one label
becomes a leaf with that class; a dataset with no candidate features, or
one no candidate split separates, becomes a leaf with its majority
class, ties favoring class 0; any other dataset is partitioned on the
best split and grown into a decision over the two subtrees grown from
its halves, with the same candidate features on both sides.
*/
func (g *Grower) Grow(ds dataset.Dataset, features []int) (*tree.Tree, error) {
	if err := checkDataset(ds, features); err != nil {
		return nil, err
	}
	root, err := g.grow(ds, features)
	if err != nil {
		return nil, err
	}
	return tree.New(root), nil
}

func (g *Grower) grow(ds dataset.Dataset, features []int) (tree.Node, error) {
	counts, err := countClasses(ds.Labels())
	if err != nil {
		return nil, err
	}
	if counts[0] == 0 {
		return &tree.Leaf{Class: 1}, nil
	}
	if counts[1] == 0 {
		return &tree.Leaf{Class: 0}, nil
	}
	if len(features) == 0 {
		return &tree.Leaf{Class: majorityClass(counts)}, nil
	}
	split, err := g.BestSplit(ds, features)
	if err != nil {
		if errors.Is(err, ErrNoSplitFound) {
			// identical samples with mixed labels: close the branch
			return &tree.Leaf{Class: majorityClass(counts)}, nil
		}
		return nil, err
	}
	left, right := Partition(ds, split.Feature, split.Threshold)
	leftNode, err := g.grow(left, features)
	if err != nil {
		return nil, err
	}
	rightNode, err := g.grow(right, features)
	if err != nil {
		return nil, err
	}
	return &tree.Branch{
		Feature:   split.Feature,
		Threshold: split.Threshold,
		Left:      leftNode,
		Right:     rightNode,
	}, nil
}

// majorityClass breaks ties towards class 0, the smaller label.
func majorityClass(counts [2]int) int {
	if counts[1] > counts[0] {
		return 1
	}
	return 0
}

func checkDataset(ds dataset.Dataset, features []int) error {
	if ds.Count() == 0 {
		return ErrEmptyDataset
	}
	width := len(ds[0])
	if width == 0 {
		return ErrRaggedDataset
	}
	for i, s := range ds {
		if len(s) != width {
			return fmt.Errorf("sample %d has %d values, want %d: %w", i, len(s), width, ErrRaggedDataset)
		}
	}
	if _, err := countClasses(ds.Labels()); err != nil {
		return err
	}
	return checkFeatures(ds, features)
}

func checkFeatures(ds dataset.Dataset, features []int) error {
	featureColumns := len(ds[0]) - 1
	for _, f := range features {
		if f < 0 || f >= featureColumns {
			return fmt.Errorf("feature %d of %d feature columns: %w", f, featureColumns, ErrFeatureOutOfRange)
		}
	}
	return nil
}
