// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the route synchronization system. It
// implements workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - RoutePlanner: A domain service that sequences a driver's open orders into
//     a visiting plan using iterative nearest-neighbor selection
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
