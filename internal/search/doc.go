// Package search evaluates tag and attribute filters against an index
// snapshot. Queries are read-only: a search captures one snapshot reference
// and never observes a rebuild mid-flight.
package search
