package tree

// Node represents a node of a grown tree. It is a tagged variant with
// exactly two shapes: a Branch deciding on a feature against a
// threshold, or a Leaf holding a predicted class. Nothing else
// implements it.
type Node interface {
	node()
}

// Branch is a decision node. It owns its two children exclusively: Left
// receives the samples whose value for the feature at column index
// Feature is below Threshold, Right receives all others. Both children
// are always non-nil in a grown tree.
type Branch struct {
	Feature   int
	Threshold float64
	Left      Node
	Right     Node
}

// Leaf is a terminal node predicting the class of every sample that
// reaches it, 0 or 1.
type Leaf struct {
	Class int
}

func (b *Branch) node() {}

func (l *Leaf) node() {}
