// Package indexer builds and maintains the media index.
//
// The Walker traverses the media root and produces one MediaFile record per
// regular file, delegating tag extraction to the tags package. Per-file
// errors (permission denied, broken symlinks) are skipped with a warning so
// one bad file never blocks the whole index; only an unreadable root fails
// a walk.
//
// The Coordinator orchestrates walker -> builder -> store. It enforces
// single-flight rebuilds, publishes new snapshots by atomic pointer swap,
// and keeps the previous snapshot authoritative when a rebuild fails or is
// cancelled. Readers obtain the published snapshot via Current() and are
// never blocked by an in-progress rebuild.
package indexer
