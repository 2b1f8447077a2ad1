/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database.
*/
package sqlite3adapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/dicot/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

/*
MaxSampleInsertionsPerStatement is the maximum number
of samples that are allowed to be added with a single
insert command with the AddSamples method of the adapter.
Trying to add more will result in making more insertion commands
*/
const MaxSampleInsertionsPerStatement = 10

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, featureColumns []string, classColumn string) error {
	createStmt, err := a.db.PrepareContext(ctx, sampleTableCreateStmt(featureColumns, classColumn))
	if err != nil {
		return fmt.Errorf("preparing samples creation statement: %v", err)
	}
	defer createStmt.Close()
	_, err = createStmt.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddSamples(ctx context.Context, rows [][]float64, featureColumns []string, classColumn string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	columns := append(append([]string{}, featureColumns...), classColumn)
	added := 0
	if len(rows) > MaxSampleInsertionsPerStatement {
		insertStmt, err := a.db.PrepareContext(ctx, sampleInsertStmt(columns, MaxSampleInsertionsPerStatement))
		if err != nil {
			return 0, fmt.Errorf("preparing insert command for %d samples: %v", MaxSampleInsertionsPerStatement, err)
		}
		for c := 0; c < len(rows)/MaxSampleInsertionsPerStatement; c++ {
			chunk := rows[added : added+MaxSampleInsertionsPerStatement]
			_, err = insertStmt.ExecContext(ctx, sampleInsertArgs(chunk)...)
			if err != nil {
				return added, fmt.Errorf("inserting the %dth %d samples: %v", c+1, MaxSampleInsertionsPerStatement, err)
			}
			added += MaxSampleInsertionsPerStatement
		}
		err = insertStmt.Close()
		if err != nil {
			return added, fmt.Errorf("closing insert command for %d samples: %v", MaxSampleInsertionsPerStatement, err)
		}
	}
	lastRows := rows[added:]
	if len(lastRows) > 0 {
		insertStmt, err := a.db.PrepareContext(ctx, sampleInsertStmt(columns, len(lastRows)))
		if err != nil {
			return added, fmt.Errorf("preparing insert command for %d samples: %v", len(lastRows), err)
		}
		_, err = insertStmt.ExecContext(ctx, sampleInsertArgs(lastRows)...)
		if err != nil {
			return added, fmt.Errorf("inserting the last %d samples: %v", len(lastRows), err)
		}
		added += len(lastRows)
		err = insertStmt.Close()
		if err != nil {
			return added, fmt.Errorf("closing insert command for %d samples: %v", len(lastRows), err)
		}
	}
	return added, nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, featureColumns []string, classColumn string, lambda func(int, []float64) (bool, error)) error {
	rows, err := a.db.QueryContext(ctx, samplesSelectStmt(featureColumns, classColumn))
	if err != nil {
		return err
	}
	for j := 0; rows.Next(); j++ {
		row := make([]float64, len(featureColumns)+1)
		var class int
		values := make([]interface{}, 0, len(row))
		for i := 0; i < len(featureColumns); i++ {
			values = append(values, &row[i])
		}
		values = append(values, &class)
		err = rows.Scan(values...)
		if err != nil {
			return err
		}
		row[len(row)-1] = float64(class)
		ok, err := lambda(j, row)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	err = rows.Err()
	if err != nil {
		return err
	}
	err = rows.Close()
	return err
}

func (a *adapter) CountSamples(ctx context.Context) (int, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT COUNT(*) FROM samples`)
	if err != nil {
		return 0, err
	}
	if !rows.Next() {
		return 0, rows.Err()
	}
	var count int
	err = rows.Scan(&count)
	if err != nil {
		return 0, err
	}
	err = rows.Close()
	return count, err
}

func sampleTableCreateStmt(featureColumns []string, classColumn string) string {
	var buf bytes.Buffer
	buf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range featureColumns {
		buf.WriteString(fmt.Sprintf(`"%s" REAL NOT NULL, `, c))
	}
	buf.WriteString(fmt.Sprintf(`"%s" INTEGER NOT NULL, `, classColumn))
	buf.WriteString(`"id" INTEGER PRIMARY KEY AUTOINCREMENT)`)
	return buf.String()
}

func sampleInsertStmt(columns []string, n int) string {
	var buf bytes.Buffer
	buf.WriteString(`INSERT INTO samples ("`)
	buf.WriteString(strings.Join(columns, `", "`))
	buf.WriteString(`") VALUES `)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(?")
		for j := 1; j < len(columns); j++ {
			buf.WriteString(", ?")
		}
		buf.WriteString(")")
	}
	return buf.String()
}

func samplesSelectStmt(featureColumns []string, classColumn string) string {
	var buf bytes.Buffer
	buf.WriteString(`SELECT "`)
	buf.WriteString(strings.Join(append(append([]string{}, featureColumns...), classColumn), `", "`))
	buf.WriteString(`" FROM samples`)
	return buf.String()
}

func sampleInsertArgs(rows [][]float64) []interface{} {
	args := make([]interface{}, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		for _, v := range row[:len(row)-1] {
			args = append(args, v)
		}
		args = append(args, int(row[len(row)-1]))
	}
	return args
}
