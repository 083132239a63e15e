// Package types defines the data exchanged between the hive header engine
// and its callers: the parsed FileInfo snapshot, validation issues with their
// proposed fixes, analysis and fix results, and the typed error kinds.
//
// Every value produced by an analysis is read-only; a fresh analysis builds
// fresh values instead of mutating old ones.
package types
