// Package file holds the generated-file data model and the merge engine that
// turns repeated, possibly conflicting declarations into a resolved file.
//
// # Model
//
// A File is identified by its Path. Callers describe its body as Sources and
// its module surface as Imports and Exports. CreateFile resolves a File into a
// ResolvedFile: sources, imports and exports are de-duplicated and ordered so
// that resolving the same input twice yields identical output.
//
// # Merge rules
//
//   - Sources are unique per (name or value, exportable, type-only); the first wins.
//   - Imports and exports are sorted, then folded: type-only declarations
//     suppress value-form duplicates of the same path and name, exact
//     duplicates are dropped, and list-valued names on the same path (and
//     type-only flag) are unioned into one declaration.
//   - Imports whose names never occur in the file body (or among its exported
//     names) are stripped, and self-imports (Root == Path) are dropped.
package file
