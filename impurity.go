package dicot

import "fmt"

/*
Impurity returns the Gini impurity of the given multiset of class labels:
1 minus the sum over both classes of the squared proportion of samples in
the class. It is 0 for a pure multiset, 0.5 for an evenly mixed one and,
as a defined edge case, 0 for an empty one.

Every label must be exactly 0 or 1; any other value makes Impurity return
an error wrapping ErrInvalidLabel.
*/
func Impurity(labels []float64) (float64, error) {
	counts, err := countClasses(labels)
	if err != nil {
		return 0, err
	}
	return impurityFromCounts(counts), nil
}

func impurityFromCounts(counts [2]int) float64 {
	n := counts[0] + counts[1]
	if n == 0 {
		return 0
	}
	p0 := float64(counts[0]) / float64(n)
	p1 := float64(counts[1]) / float64(n)
	return 1 - p0*p0 - p1*p1
}

func countClasses(labels []float64) ([2]int, error) {
	var counts [2]int
	for i, label := range labels {
		switch label {
		case 0:
			counts[0]++
		case 1:
			counts[1]++
		default:
			return counts, fmt.Errorf("sample %d has label %v: %w", i, label, ErrInvalidLabel)
		}
	}
	return counts, nil
}
