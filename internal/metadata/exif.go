package metadata

import (
	"context"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"chrononame/internal/scan"
)

// ExifOriginalName identifies ExifOriginal results.
const ExifOriginalName = "exif:DateTimeOriginal"

// ExifOriginal reads DateTimeOriginal from the primary image directories of an
// embedded EXIF block.
//
// goexif only loads IFD0 and the sub-IFDs it points to into the tag table; the
// thumbnail directory (IFD1) contributes nothing but its JPEG offsets, so a
// DateTimeOriginal stored there is never returned. DateTime (0x0132) is not
// consulted because editors rewrite it on every save.
//
// goexif trusts declared value counts when it allocates, so the block is
// bounds-checked by exifBlock before it is decoded.
type ExifOriginal struct{}

// NewExifOriginal returns the embedded-EXIF source.
func NewExifOriginal() ExifOriginal {
	return ExifOriginal{}
}

func (ExifOriginal) Name() string { return ExifOriginalName }

func (ExifOriginal) Ambiguous() bool { return false }

func (s ExifOriginal) Resolve(ctx context.Context, file scan.SourceFile) (Timestamp, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return "", newWarning(KindUnreadable, s.Name(), file.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", newWarning(KindUnreadable, s.Name(), file.Path, err)
	}
	block, err := exifBlock(f, info.Size())
	if err != nil {
		return "", newWarning(KindNoMetadata, s.Name(), file.Path, err)
	}

	x, err := exif.Decode(block)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return "", newWarning(KindNoMetadata, s.Name(), file.Path, err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return "", newWarning(KindMissingTag, s.Name(), file.Path, err)
		}
		return "", newWarning(KindDecode, s.Name(), file.Path, err)
	}

	raw, err := tag.StringVal()
	if err != nil {
		return "", newWarning(KindDecode, s.Name(), file.Path, err)
	}
	ts, err := Normalize(raw)
	if err != nil {
		return "", newWarning(KindDecode, s.Name(), file.Path, err)
	}
	return ts, nil
}
