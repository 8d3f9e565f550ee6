// Package session holds the per-test typing telemetry: text buffers,
// per-second keypress buckets, accuracy counters, speed histories and the
// keystroke timing trackers.
//
// A State is owned by one test at a time and is not safe for concurrent use.
// Every operation is total: out-of-order or duplicate input is ignored rather
// than reported.
package session
