// Package workers calculates worker pool sizes from available CPU resources.
package workers
