// Package resolver picks one capture timestamp per file.
//
// The file extension selects an ordered chain of metadata sources: images try
// the embedded EXIF block first, videos go straight to the exiftool tags, and
// anything else is rejected before any metadata is read. The first source that
// succeeds wins and determines the target file name.
package resolver
