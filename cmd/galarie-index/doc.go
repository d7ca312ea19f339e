// Command galarie-index builds a media index snapshot offline, without
// starting the server. Useful for pre-warming the snapshot cache in a build
// pipeline or inspecting what a walk of a media tree would produce.
package main
