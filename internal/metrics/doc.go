// Package metrics tracks frame timings and rates them as good, needs
// improvement or poor against fixed thresholds.
package metrics
