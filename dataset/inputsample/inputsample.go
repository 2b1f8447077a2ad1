/*
Package inputsample provides a tree.ValueSource whose feature values are
read from an io.Reader.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pbanos/dicot/feature"
	"github.com/pbanos/dicot/tree"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

/*
readSample represents a point whose feature values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type readSample struct {
	obtainedValues        map[int]float64
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              []feature.Feature
}

/*
New takes an io.Reader, a slice with the tree's decision features in
column order and a FeatureValueRequester, and returns a
tree.ValueSource.

The returned source's ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and then parsing
the values from the reader, so only the features decision nodes consult
are ever requested.

The parsing expects each value to be presented ending with the '\n'
character, that is in new lines. Lines will be read from the reader
until one containing a valid value for the feature is found; lines that
cannot be parsed or are not valid for the feature are rejected with the
FeatureValueRequester's RejectValueFor method.

Values are remembered, so consulting the same feature again does not
read from the reader. Attempting to obtain a value for a feature not in
the given features slice will return an error.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester) tree.ValueSource {
	scanner := bufio.NewScanner(r)
	return &readSample{make(map[int]float64), scanner, featureValueRequester, features}
}

func (rs *readSample) ValueFor(f int) (float64, error) {
	value, ok := rs.obtainedValues[f]
	if ok {
		return value, nil
	}
	if f < 0 || f >= len(rs.features) {
		return 0, fmt.Errorf("have no information about feature %d, do not know how to read its value", f)
	}
	featureWithInfo := rs.features[f]
	err := rs.featureValueRequester.RequestValueFor(featureWithInfo)
	if err != nil {
		return 0, err
	}
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		value, err := strconv.ParseFloat(line, 64)
		if err == nil {
			if ok, _ := featureWithInfo.Valid(value); ok {
				rs.obtainedValues[f] = value
				return value, nil
			}
		}
		err = rs.featureValueRequester.RejectValueFor(featureWithInfo, line)
		if err != nil {
			return 0, err
		}
	}
	err = rs.scanner.Err()
	if err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("EOF when requesting value")
}
