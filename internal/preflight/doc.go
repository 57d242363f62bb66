// Package preflight provides readiness checks for the paths and tools a
// rename run depends on.
//
// These checks run in two contexts:
//   - The workflow calls CheckDirectoryAccess on the target directory before
//     scanning, so an unwritable directory fails before any metadata is read.
//   - The CLI "check" command uses RunAll and CheckSystemDeps to display
//     readiness.
package preflight
