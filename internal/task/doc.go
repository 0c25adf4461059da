// Package task runs the periodic housekeeping of the trainer: pruning the
// review log past its retention window and reporting the review backlog.
// Jobs are plain functions scheduled daily by gocron, so each one can be
// run directly in tests or from the command line.
package task
