// Package index defines the in-memory media index: the MediaFile record,
// the immutable Snapshot, and the inverted-index builder.
//
// A Snapshot is built once from a list of MediaFile records and never
// mutated afterwards. Readers borrow a snapshot reference for the duration
// of a single query; rebuilds publish a whole new snapshot instead of
// updating one in place.
package index
