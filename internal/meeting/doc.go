// Package meeting defines the core data model shared by the extraction,
// scheduling and calendar gateway packages.
//
// A Request is owned exclusively by the scheduling turn that created it and
// is discarded once the calendar outcome has been produced; nothing in this
// package is persisted across process restarts.
package meeting
