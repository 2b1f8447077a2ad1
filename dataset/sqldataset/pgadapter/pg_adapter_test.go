package pgadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnName(t *testing.T) {

	a := &adapter{}

	column, err := a.ColumnName("size")
	assert.NoError(t, err)
	assert.Equal(t, "size", column)

	column, err = a.ColumnName("id")
	assert.Error(t, err)
	assert.Equal(t, "", column)

	column, err = a.ColumnName(`we"ird`)
	assert.Error(t, err)
	assert.Equal(t, "", column)

}

func TestSampleTableCreateStmt(t *testing.T) {

	stmt := sampleTableCreateStmt([]string{"size", "weight"}, "poisonous")
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS samples("size" REAL NOT NULL, "weight" REAL NOT NULL, "poisonous" INTEGER NOT NULL, "id" SERIAL PRIMARY KEY)`, stmt)

}

func TestSampleInsertStmt(t *testing.T) {

	type test struct {
		columns  []string
		n        int
		expected string
	}

	tests := map[string]test{
		"single sample": {
			columns:  []string{"size", "weight", "poisonous"},
			n:        1,
			expected: `INSERT INTO samples ("size", "weight", "poisonous") VALUES ($1, $2, $3)`,
		},
		"several samples": {
			columns:  []string{"size", "poisonous"},
			n:        3,
			expected: `INSERT INTO samples ("size", "poisonous") VALUES ($1, $2), ($3, $4), ($5, $6)`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sampleInsertStmt(tt.columns, tt.n))
		})
	}

}

func TestSamplesSelectStmt(t *testing.T) {

	stmt := samplesSelectStmt([]string{"size", "weight"}, "poisonous")
	assert.Equal(t, `SELECT "size", "weight", "poisonous" FROM samples`, stmt)

}

func TestSampleInsertArgs(t *testing.T) {

	args := sampleInsertArgs([][]float64{{1.5, 10, 1}, {2, 20, 0}})
	assert.Equal(t, []interface{}{1.5, 10.0, 1, 2.0, 20.0, 0}, args)

}
