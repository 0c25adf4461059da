// Package domain contains the records the scheduling core works on: cards,
// review log entries, daily counters and the calendar date type they share.
// Subpackages hold the pure logic (srs, scoring, queue, throttle, reviewlog,
// stats); nothing here performs I/O.
package domain
