// Package kernel contains shared value objects used across all aggregates:
// validated identifiers and geographic locations. Every type here is immutable
// after construction and must be created through its constructor functions.
package kernel
