// Package order contains the Order aggregate and its lifecycle.
//
// An order is created Pending from a table's submission and then advanced by
// staff along a fixed pipeline:
//
//	pending -> confirmed -> preparing -> ready -> completed
//
// Pending and confirmed orders may also be cancelled. Completed and cancelled
// orders are final.
//
// Line items carry a snapshot of name and unit price, so the order total never
// depends on the current menu.
package order
