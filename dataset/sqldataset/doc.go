/*
Package sqldataset provides a dataset reader and writer implementation
that uses a SQL database as backend.

The dataset uses a single samples table, with one REAL column per
continuous feature and an INTEGER column for the trailing class
feature of the samples.
*/
package sqldataset
