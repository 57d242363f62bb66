package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// ExifFields selects which date tags a synthetic JPEG carries. Empty values
// are omitted.
type ExifFields struct {
	// DateTimeOriginal lands in the Exif sub-IFD of the primary image.
	DateTimeOriginal string
	// DateTime lands in IFD0 (the "modified" time).
	DateTime string
	// ThumbnailDateTimeOriginal lands in IFD1, the thumbnail directory.
	ThumbnailDateTimeOriginal string
}

const (
	tagDateTime         = 0x0132
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeLong  = 4
)

type ifdEntry struct {
	tag    uint16
	typ    uint16
	count  uint32
	inline uint32
	data   []byte
}

func asciiEntry(tag uint16, value string) ifdEntry {
	data := append([]byte(value), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(data)), data: data}
}

func ifdSize(entries int) uint32 {
	return uint32(2 + 12*entries + 4)
}

// BuildTIFF returns a little-endian TIFF/EXIF block holding fields.
func BuildTIFF(fields ExifFields) []byte {
	var ifd0, exifIFD, ifd1 []ifdEntry
	if fields.DateTime != "" {
		ifd0 = append(ifd0, asciiEntry(tagDateTime, fields.DateTime))
	}
	hasExif := fields.DateTimeOriginal != ""
	if hasExif {
		ifd0 = append(ifd0, ifdEntry{tag: tagExifIFDPointer, typ: typeLong, count: 1})
		exifIFD = append(exifIFD, asciiEntry(tagDateTimeOriginal, fields.DateTimeOriginal))
	}
	if fields.ThumbnailDateTimeOriginal != "" {
		ifd1 = append(ifd1, asciiEntry(tagDateTimeOriginal, fields.ThumbnailDateTimeOriginal))
	}

	offIFD0 := uint32(8)
	offExif := offIFD0 + ifdSize(len(ifd0))
	offIFD1 := offExif
	if hasExif {
		offIFD1 += ifdSize(len(exifIFD))
		ifd0[len(ifd0)-1].inline = offExif
	}
	dataStart := offIFD1
	if len(ifd1) > 0 {
		dataStart += ifdSize(len(ifd1))
	}

	le := binary.LittleEndian
	var buf, data bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, le, uint16(42))
	_ = binary.Write(&buf, le, offIFD0)

	writeIFD := func(entries []ifdEntry, next uint32) {
		_ = binary.Write(&buf, le, uint16(len(entries)))
		for _, e := range entries {
			_ = binary.Write(&buf, le, e.tag)
			_ = binary.Write(&buf, le, e.typ)
			_ = binary.Write(&buf, le, e.count)
			switch {
			case len(e.data) > 4:
				_ = binary.Write(&buf, le, dataStart+uint32(data.Len()))
				data.Write(e.data)
				if data.Len()%2 == 1 {
					data.WriteByte(0)
				}
			case e.data != nil:
				padded := make([]byte, 4)
				copy(padded, e.data)
				buf.Write(padded)
			default:
				_ = binary.Write(&buf, le, e.inline)
			}
		}
		_ = binary.Write(&buf, le, next)
	}

	var nextAfterIFD0 uint32
	if len(ifd1) > 0 {
		nextAfterIFD0 = offIFD1
	}
	writeIFD(ifd0, nextAfterIFD0)
	if hasExif {
		writeIFD(exifIFD, 0)
	}
	if len(ifd1) > 0 {
		writeIFD(ifd1, 0)
	}
	buf.Write(data.Bytes())
	return buf.Bytes()
}

// BuildJPEG wraps BuildTIFF(fields) in an APP1 segment between SOI and EOI.
// The result carries no image data but decodes as an EXIF container.
func BuildJPEG(fields ExifFields) []byte {
	payload := append([]byte("Exif\x00\x00"), BuildTIFF(fields)...)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// WriteJPEG writes BuildJPEG(fields) to path and returns path.
func WriteJPEG(t testing.TB, path string, fields ExifFields) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, BuildJPEG(fields), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
