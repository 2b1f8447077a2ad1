package sqldataset

import "context"

/*
Adapter is an interface providing the methods
needed to implement a Dataset with a SQL database backend.
*/
type Adapter interface {
	ColumnName(string) (string, error)

	CreateSampleTable(ctx context.Context, featureColumns []string, classColumn string) error

	AddSamples(ctx context.Context, rows [][]float64, featureColumns []string, classColumn string) (int, error)
	IterateOnSamples(ctx context.Context, featureColumns []string, classColumn string, lambda func(int, []float64) (bool, error)) error
	CountSamples(ctx context.Context) (int, error)
}
