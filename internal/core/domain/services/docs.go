// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the delivery system.
//
// The package includes:
//   - OrderDispatcher: owns the courier pool and its shared delivery gate,
//     distributes orders round-robin under the backlog capacity rule and
//     launches the couriers' drain routines
//
// Domain services coordinate between aggregates, implementing business logic that
// does not naturally belong to a single aggregate root.
package services
