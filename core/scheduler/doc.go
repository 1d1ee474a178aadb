// Package scheduler runs registered maintenance tasks on a fixed cadence.
// The contract is that every task runs at least once per interval; the exact
// tick mechanism is an implementation detail.
package scheduler
