// Package mmfile reads the leading bytes of a hive file. On unix systems the
// head is memory-mapped and copied out; elsewhere it is read directly.
package mmfile
