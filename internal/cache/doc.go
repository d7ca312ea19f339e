// Package cache persists index snapshots to a versioned JSON file.
//
// The durable format holds only the schema version, generation time and the
// flattened media array. Inverted indices are deliberately not persisted:
// they are rebuilt from the media array on load, keeping the file format
// simple and the indices always consistent with the data they index.
package cache
