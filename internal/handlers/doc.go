// Package handlers implements the HTTP API surface: media search, rebuild
// triggering, tag and stats inventories, thumbnail and stream delivery, and
// the health and version endpoints. All error responses share one JSON
// envelope with a stable machine-readable code.
package handlers
