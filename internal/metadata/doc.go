// Package metadata extracts capture timestamps from media files.
//
// Each Source reads one metadata field and returns a canonical Timestamp or a
// *Warning describing why it could not. ExifOriginal decodes the embedded EXIF
// container directly; ExifToolTag shells out to exiftool for the QuickTime
// CreationDate and CreateDate tags. The resolver composes Sources into an
// ordered fallback chain, so nothing here knows about priorities.
package metadata
