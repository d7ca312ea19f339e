// Package mediatypes provides media type classification from file extensions.
//
// Classification is a fixed table lookup; unrecognized extensions map to
// MediaTypeUnknown rather than being rejected, so that every file under the
// media root can be indexed and searched by tag.
package mediatypes
