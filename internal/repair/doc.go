// Package repair validates REGF base block fields and patches the ones that
// can be corrected in place.
//
// The package is split along the two halves of the fix workflow:
//
//   - Validator runs a fixed, ordered battery of rules over a parsed
//     types.FileInfo and returns one types.Issue per violated rule. Rules
//     never short-circuit each other.
//   - Engine turns a set of selected fix types into on-disk patches: it
//     creates a verbatim backup, writes each fix through the Patcher and,
//     when a patched field lies inside the checksummed region, recomputes
//     and rewrites the header checksum as the final step.
//
// Nothing here is transactional. A failed patch leaves earlier patches on
// disk; the backup is the recovery path.
package repair
