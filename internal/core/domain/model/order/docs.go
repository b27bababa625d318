// Package order contains the delivery order aggregate and its lifecycle state
// machine. The status graph is the single authority on which transitions are
// legal; every accepted transition is paired with an append-only
// StatusHistoryEntry produced by the aggregate itself.
package order
