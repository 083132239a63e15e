/*
Package hive provides the public API for registry hive header analysis and
repair.

# Quick Start

Analyze a hive and print what is wrong with its base block:

	result, err := hive.Analyze("SYSTEM")
	if err != nil {
	    log.Fatal(err)
	}
	for _, issue := range result.Issues {
	    fmt.Printf("[%s] %s\n", issue.Severity, issue.Message)
	}

# Features

  - Parses the 4096-byte REGF base block at fixed offsets
  - Recomputes the XOR header checksum
  - Eight ordered validation rules, each reported as an Issue
  - In-place 4-byte patches for the fixable issues
  - Automatic .backup copy before the first write
  - Checksum rewritten last whenever a fix changed checksummed bytes

# Applying Fixes

Fixes are selected by type and resolved against a previous analysis. Types
the analysis does not offer are skipped:

	result, _ := hive.Analyze("SYSTEM")
	res, err := hive.ApplyFixes("SYSTEM", result.FixTypes(), result)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println("backup written to", res.BackupPath)

Undo a repair:

	err := hive.RestoreBackup("SYSTEM")

# Error Handling

Validation problems are never errors; they are Issues in the result. Errors
are either *types.IOError (matches types.ErrIO) or *types.ParseError (matches
types.ErrParse):

	_, err := hive.Analyze(path)
	switch {
	case errors.Is(err, types.ErrParse):
	    // not a hive header
	case errors.Is(err, types.ErrIO):
	    // could not read the file
	}

# Concurrency

Analyze and ApplyFixes are synchronous and keep no state between calls.
Callers must not run two ApplyFixes on the same path at the same time; the
worker package serializes them per path.
*/
package hive
