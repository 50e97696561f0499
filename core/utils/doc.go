// Package utils provides scalar conversion helpers shared across the
// application, mainly for turning loosely-typed spreadsheet cell values
// into the concrete types the reconciliation core works with.
package utils
