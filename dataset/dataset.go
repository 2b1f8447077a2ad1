/*
Package dataset defines the sample and dataset values dicot trees are
grown from, together with the interfaces its storage backends implement.
*/
package dataset

import "context"

/*
Sample represents a single observed data point: its feature values in
column order followed by its class label as the trailing value.

Samples are immutable once read. Accessing the label of a zero-length
sample is invalid; dataset producers and the grower validate sample
lengths before handing samples to anything that reads them.
*/
type Sample []float64

/*
Features returns the feature values of the sample, excluding the trailing
class label.
*/
func (s Sample) Features() []float64 {
	if len(s) == 0 {
		return nil
	}
	return s[:len(s)-1]
}

/*
Label returns the trailing class label of the sample.
*/
func (s Sample) Label() float64 {
	return s[len(s)-1]
}

/*
Dataset represents an ordered collection of samples.
*/
type Dataset []Sample

/*
Count returns the number of samples in the dataset.
*/
func (ds Dataset) Count() int {
	return len(ds)
}

/*
Labels returns the class labels of the samples in the dataset, in dataset
order.
*/
func (ds Dataset) Labels() []float64 {
	labels := make([]float64, len(ds))
	for i, s := range ds {
		labels[i] = s.Label()
	}
	return labels
}

/*
FeatureValues returns the values the samples in the dataset have for the
feature at the given column index, in dataset order. The index must be a
valid feature column for every sample.
*/
func (ds Dataset) FeatureValues(index int) []float64 {
	values := make([]float64, len(ds))
	for i, s := range ds {
		values[i] = s[index]
	}
	return values
}

/*
Reader represents a source of samples: a parsed file or a storage backend
samples can be loaded from.

Its Read method materializes every available sample into a Dataset.

Its BySample method yields samples one by one to the given lambda
together with their position, stopping early when the lambda returns
false or an error. Readers backed by a stream can only be consumed once.
*/
type Reader interface {
	Read(ctx context.Context) (Dataset, error)
	BySample(ctx context.Context, lambda func(int, Sample) (bool, error)) error
}

/*
Writer represents a destination samples can be dumped to: a file being
written or a storage backend.

Its Write method adds a sample to the destination. Its Flush method
ensures every written sample has reached the destination and must be
called once after the last Write. Its Count method returns the number of
samples written so far.
*/
type Writer interface {
	Write(ctx context.Context, s Sample) error
	Flush(ctx context.Context) error
	Count() int
}
