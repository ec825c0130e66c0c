// Package billing provides the domain model for usage-based billing of
// fulfillment work: the rate card of billable codes and container SKUs,
// and the usage records emitted for each billable event.
//
// Key business rules:
//   - Usage totals are computed from the rate card at emission time
//   - (client, rate code, reference type, reference id) identifies a natural
//     billable event; storage enforces uniqueness on that key
//   - Records are created uninvoiced; the billing cycle marks them invoiced
package billing
