// Package kernel provides the value objects shared by the ordering domain.
//
// The package includes:
//   - UUID: identifiers for menu items, staff members and realtime sessions
//   - Money: exact decimal amounts for prices and totals
//   - OrderNumber: the human-facing, unique order identifier
//
// All values are immutable and safe for concurrent use.
package kernel
