// Package services provides domain services that implement business logic
// spanning multiple domain entities in the fulfillment system.
//
// The package includes:
//   - BoxAllocator: A pure domain service that packs shipped units into
//     billable standard containers using a greedy heuristic over the
//     rate card's container SKUs
//
// Domain services hold no state beyond their configuration and perform no
// I/O, following Domain-Driven Design principles.
package services
