package tree

import (
	"fmt"
	"strings"

	"github.com/pbanos/dicot/dataset"
)

// ClassificationError represents an error related with classifying
// samples with a tree
type ClassificationError string

/*
ErrSampleOutOfRange is the error returned, wrapped with the decision
that could not be taken, when a point being classified has no value for
the feature a visited decision node requires.
*/
const ErrSampleOutOfRange = ClassificationError("cannot classify point: it has no value for a decision feature")

/*
ErrEmptyTree is the error returned when trying to classify with a tree
that has no root node.
*/
const ErrEmptyTree = ClassificationError("cannot classify with a tree that has no root node")

/*
ErrCannotTestWithoutSamples is the error returned when testing a tree
against a dataset with no samples.
*/
const ErrCannotTestWithoutSamples = ClassificationError("cannot test a tree against an empty dataset")

func (ce ClassificationError) Error() string {
	return string(ce)
}

// Tree represents a grown binary classification decision tree: the
// root of a strict ownership tree of Branch decisions ending in class
// Leaf nodes. A tree is built once by growing and never mutated
// afterwards.
//
// Names optionally carries the feature column names of the dataset the
// tree was grown from; it is presentation metadata used only by the
// String rendering and ignored by classification.
type Tree struct {
	Root  Node
	Names []string
}

// New takes the root node of a grown tree and returns the Tree that
// owns it.
func New(root Node) *Tree {
	return &Tree{Root: root}
}

// ValueSource supplies the feature values of a point being classified
// on demand. Implementations can compute or request a value only when
// a decision node consults its feature.
type ValueSource interface {
	ValueFor(feature int) (float64, error)
}

type pointSource []float64

func (ps pointSource) ValueFor(feature int) (float64, error) {
	if feature < 0 || feature >= len(ps) {
		return 0, fmt.Errorf("deciding on feature %d of a %d-value point: %w", feature, len(ps), ErrSampleOutOfRange)
	}
	return ps[feature], nil
}

// Classify takes a point, its feature values in column order, and walks
// the tree from the root: at every Branch it descends left when the
// point's value for the branch feature is below the branch threshold
// and right otherwise, until a Leaf returns its class.
//
// Classify returns an error wrapping ErrSampleOutOfRange when the point
// has no value for the feature of a visited branch, and ErrEmptyTree
// when the tree has no root node.
func (t *Tree) Classify(point []float64) (int, error) {
	return t.ClassifyFrom(pointSource(point))
}

// ClassifyFrom works like Classify but obtains the feature values of
// the point from the given ValueSource as decision nodes consult them,
// so a source backed by an interactive input only has to produce
// values for the features on the decision path.
func (t *Tree) ClassifyFrom(vs ValueSource) (int, error) {
	if t == nil || t.Root == nil {
		return 0, ErrEmptyTree
	}
	n := t.Root
	for {
		switch node := n.(type) {
		case *Leaf:
			return node.Class, nil
		case *Branch:
			value, err := vs.ValueFor(node.Feature)
			if err != nil {
				return 0, err
			}
			if value < node.Threshold {
				n = node.Left
			} else {
				n = node.Right
			}
		default:
			return 0, fmt.Errorf("classifying point: unknown node %T", n)
		}
	}
}

/*
Test takes a dataset of labeled samples and returns three values:
  - the classification success rate of the tree over the dataset
  - the number of samples of the dataset the tree misclassifies
  - an error if the dataset has no samples or a sample could not be
    classified at all; the other values are 0.0 and 0 then
*/
func (t *Tree) Test(ds dataset.Dataset) (float64, int, error) {
	if ds.Count() == 0 {
		return 0.0, 0, ErrCannotTestWithoutSamples
	}
	var result float64
	var failures int
	for i, s := range ds {
		if len(s) == 0 {
			return 0.0, 0, fmt.Errorf("testing sample %d has no values", i)
		}
		class, err := t.Classify(s.Features())
		if err != nil {
			return 0.0, 0, fmt.Errorf("classifying testing sample %d: %v", i, err)
		}
		if float64(class) == s.Label() {
			result += 1.0
		} else {
			failures++
		}
	}
	result = result / float64(ds.Count())
	return result, failures, nil
}

// Nodes returns the number of nodes in the tree, branches and leaves
// both.
func (t *Tree) Nodes() int {
	return countNodes(t.Root)
}

// Leaves returns the number of leaf nodes in the tree.
func (t *Tree) Leaves() int {
	return countLeaves(t.Root)
}

// Depth returns the number of decisions on the longest path from the
// root to a leaf. A tree that is a single leaf has depth 0.
func (t *Tree) Depth() int {
	return depth(t.Root)
}

func countNodes(n Node) int {
	b, ok := n.(*Branch)
	if !ok {
		if n == nil {
			return 0
		}
		return 1
	}
	return 1 + countNodes(b.Left) + countNodes(b.Right)
}

func countLeaves(n Node) int {
	switch node := n.(type) {
	case *Leaf:
		return 1
	case *Branch:
		return countLeaves(node.Left) + countLeaves(node.Right)
	}
	return 0
}

func depth(n Node) int {
	b, ok := n.(*Branch)
	if !ok {
		return 0
	}
	left := depth(b.Left)
	right := depth(b.Right)
	if left > right {
		return left + 1
	}
	return right + 1
}

func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return " \n"
	}
	return t.subtreeString("", t.Root)
}

func (t *Tree) subtreeString(criterion string, n Node) string {
	var result string
	if criterion != "" {
		result = fmt.Sprintf("{ %s }\n", criterion)
	}
	switch node := n.(type) {
	case *Leaf:
		result = fmt.Sprintf("%s{ class %d }\n \n", result, node.Class)
	case *Branch:
		name := t.featureName(node.Feature)
		result = fmt.Sprintf("%s|\n", result)
		subtrees := []string{
			t.subtreeString(fmt.Sprintf("%s < %v", name, node.Threshold), node.Left),
			t.subtreeString(fmt.Sprintf("%s >= %v", name, node.Threshold), node.Right),
		}
		for i, subtree := range subtrees {
			for j, line := range strings.Split(subtree, "\n") {
				if len(line) > 0 {
					if j == 0 {
						result = fmt.Sprintf("%s|__%s\n", result, line)
					} else {
						if i == len(subtrees)-1 {
							result = fmt.Sprintf("%s   %s\n", result, line)
						} else {
							result = fmt.Sprintf("%s|  %s\n", result, line)
						}
					}
				}
			}
		}
	default:
		result = fmt.Sprintf("%sERROR: missing node\n", result)
	}
	return result
}

func (t *Tree) featureName(i int) string {
	if i >= 0 && i < len(t.Names) {
		return t.Names[i]
	}
	return fmt.Sprintf("f%d", i)
}
