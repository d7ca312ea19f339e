// Package tags parses the tag grammar encoded in media filenames.
//
// Filenames carry their tags in the stem, delimited by underscores or plus
// signs, e.g. "sunset_coast+location-okinawa_rating-5.png". Tokens of the
// form key-value or key:value become key/value tags; everything else is a
// simple keyword tag. Parsing is a pure, total function: malformed tokens
// are skipped and reported, never fatal, so one bad filename cannot abort
// indexing of the rest of the tree.
package tags
