// Package schema defines declared column schemas for tabular datasets and the
// validator that checks a realized Arrow table against a declaration.
//
// A Schema is an ordered, immutable mapping from column name to a semantic
// element type (ColType). Validation compares the column set and per-column
// element types of any Table view against the declaration and reports every
// offending column in one error, so a caller debugging a bad input sees the
// whole diff at once.
package schema
