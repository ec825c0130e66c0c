// Package inventory provides the domain model for the inventory reservation
// ledger: per (product, location, stage) balances of physical and reserved
// stock, and the append-only transaction log that records every mutation.
//
// The package includes:
//   - Record: The aggregate holding qtyOnHand and qtyReserved for one key
//   - Stage: A value object naming the handling stage of a balance
//   - Transaction: An immutable ledger entry paired with each mutation
//   - Availability: The result shape of availability checks
//
// Key business rules:
//   - 0 <= qtyReserved <= qtyOnHand after every operation
//   - Reservations fail rather than clamp when stock is insufficient
//   - The ship path releases the hold and deducts the physical count in one
//     operation; the cancel path only frees the hold
//   - Every mutation appends exactly one transaction, enabling point-in-time
//     balance reconstruction by replay
package inventory
