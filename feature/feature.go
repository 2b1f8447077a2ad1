package feature

import (
	"fmt"
	"math"
)

/*
Feature represents a numeric property that can be observed on every
sample of a dataset.
*/
type Feature interface {
	Name() string
	Valid(float64) (bool, error)
}

/*
ContinuousFeature represents a property that can be observed and that can
take any real value. Trees split on continuous features.
*/
type ContinuousFeature struct {
	name string
}

/*
ClassFeature represents the property a tree predicts: a class that can
only take the values 0 and 1.
*/
type ClassFeature struct {
	name string
}

/*
NewContinuousFeature takes a name string and returns a continuous feature
with the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
NewClassFeature takes a name string and returns a class feature with the
given name.
*/
func NewClassFeature(name string) *ClassFeature {
	return &ClassFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

/*
Valid receives a float64 value and returns a boolean and an error. When
the value is a real number it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (cf *ContinuousFeature) Valid(value float64) (bool, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false, fmt.Errorf("continuous feature %s expects a real value, got %v", cf.Name(), value)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

/*
Name returns a string with the name of the feature
*/
func (lf *ClassFeature) Name() string {
	return lf.name
}

/*
Valid receives a float64 value and returns a boolean and an error. When
the value is exactly 0 or 1 it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (lf *ClassFeature) Valid(value float64) (bool, error) {
	if value != 0 && value != 1 {
		return false, fmt.Errorf("class feature %s can only take the values 0 and 1, got %v", lf.Name(), value)
	}
	return true, nil
}

func (lf *ClassFeature) String() string {
	return lf.name
}
