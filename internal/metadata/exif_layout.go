package metadata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCorruptExif reports an EXIF block whose directories point outside it.
var ErrCorruptExif = errors.New("exif layout exceeds its payload")

// ErrNoExifContainer reports a file that is neither a JPEG nor a bare TIFF.
var ErrNoExifContainer = errors.New("no JPEG or TIFF header")

var errNoExifSegment = errors.New("no EXIF APP1 segment")

const (
	exifHeader = "Exif\x00\x00"
	// maxIFDs bounds the directory walk; real files carry four or five.
	maxIFDs = 32

	tagExifIFD    = 0x8769
	tagGPSIFD     = 0x8825
	tagInteropIFD = 0xA005
)

// exifBlock returns the TIFF-structured EXIF data of f once every directory,
// entry and out-of-line value it declares has been checked to fit inside it.
// JPEG files yield the APP1 payload; TIFF-based raw formats yield the file.
func exifBlock(f *os.File, size int64) (io.Reader, error) {
	var magic [4]byte
	if n, _ := f.ReadAt(magic[:], 0); n < len(magic) {
		return nil, ErrNoExifContainer
	}

	switch {
	case tiffOrder(magic[:]) != nil:
		if err := checkTIFF(f, size); err != nil {
			return nil, err
		}
		return io.NewSectionReader(f, 0, size), nil
	case magic[0] == 0xFF && magic[1] == 0xD8:
		payload, err := jpegExifPayload(bufio.NewReader(io.NewSectionReader(f, 0, size)))
		if err != nil {
			return nil, err
		}
		if err := checkTIFF(bytes.NewReader(payload), int64(len(payload))); err != nil {
			return nil, err
		}
		return bytes.NewReader(payload), nil
	default:
		return nil, ErrNoExifContainer
	}
}

func tiffOrder(header []byte) binary.ByteOrder {
	if len(header) < 4 {
		return nil
	}
	switch string(header[:4]) {
	case "II*\x00":
		return binary.LittleEndian
	case "MM\x00*":
		return binary.BigEndian
	}
	return nil
}

// jpegExifPayload walks JPEG marker segments up to the first scan and returns
// the body of the first APP1 segment carrying the Exif header.
func jpegExifPayload(r *bufio.Reader) ([]byte, error) {
	var soi [2]byte
	if _, err := io.ReadFull(r, soi[:]); err != nil || soi != [2]byte{0xFF, 0xD8} {
		return nil, ErrNoExifContainer
	}

	for {
		b, err := r.ReadByte()
		if err != nil || b != 0xFF {
			return nil, errNoExifSegment
		}
		marker, err := r.ReadByte()
		for err == nil && marker == 0xFF {
			marker, err = r.ReadByte()
		}
		if err != nil {
			return nil, errNoExifSegment
		}

		switch {
		case marker == 0xD9 || marker == 0xDA:
			return nil, errNoExifSegment
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			continue
		}

		var length [2]byte
		if _, err := io.ReadFull(r, length[:]); err != nil {
			return nil, errNoExifSegment
		}
		n := int(binary.BigEndian.Uint16(length[:]))
		if n < 2 {
			return nil, fmt.Errorf("%w: segment 0x%02x length %d", ErrCorruptExif, marker, n)
		}
		n -= 2

		if marker == 0xE1 && n >= len(exifHeader) {
			body := make([]byte, n)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("%w: truncated APP1 segment", ErrCorruptExif)
			}
			if bytes.HasPrefix(body, []byte(exifHeader)) {
				payload := body[len(exifHeader):]
				if tiffOrder(payload) == nil {
					return nil, fmt.Errorf("%w: APP1 payload lacks a TIFF header", ErrCorruptExif)
				}
				return payload, nil
			}
			continue
		}
		if _, err := r.Discard(n); err != nil {
			return nil, errNoExifSegment
		}
	}
}

// checkTIFF walks the IFD chain and every Exif, GPS and interop sub-directory,
// rejecting any entry whose declared value would not fit in size bytes.
func checkTIFF(r io.ReaderAt, size int64) error {
	var header [8]byte
	w := ifdWalker{r: r, size: size, seen: make(map[uint32]bool)}
	if err := w.read(header[:], 0); err != nil {
		return err
	}
	w.order = tiffOrder(header[:])
	if w.order == nil {
		return ErrNoExifContainer
	}

	next := w.order.Uint32(header[4:])
	for next != 0 {
		var err error
		if next, err = w.dir(next); err != nil {
			return err
		}
	}
	return nil
}

type ifdWalker struct {
	r     io.ReaderAt
	size  int64
	order binary.ByteOrder
	seen  map[uint32]bool
}

func (w *ifdWalker) read(p []byte, off int64) error {
	if off < 0 || off+int64(len(p)) > w.size {
		return fmt.Errorf("%w: %d bytes at offset %d of %d", ErrCorruptExif, len(p), off, w.size)
	}
	if n, err := w.r.ReadAt(p, off); n < len(p) {
		return fmt.Errorf("%w: %v", ErrCorruptExif, err)
	}
	return nil
}

// dir checks the directory at offset, descends into the sub-directories it
// points to and returns the offset of the next directory in its chain.
func (w *ifdWalker) dir(offset uint32) (uint32, error) {
	if w.seen[offset] {
		return 0, fmt.Errorf("%w: directory at offset %d referenced twice", ErrCorruptExif, offset)
	}
	if len(w.seen) >= maxIFDs {
		return 0, fmt.Errorf("%w: more than %d directories", ErrCorruptExif, maxIFDs)
	}
	w.seen[offset] = true

	var count [2]byte
	if err := w.read(count[:], int64(offset)); err != nil {
		return 0, err
	}
	entries := int(w.order.Uint16(count[:]))
	table := make([]byte, entries*12+4)
	if err := w.read(table, int64(offset)+2); err != nil {
		return 0, err
	}

	var subDirs []uint32
	for i := range entries {
		entry := table[i*12 : i*12+12]
		tag := w.order.Uint16(entry[0:])
		typ := w.order.Uint16(entry[2:])
		n := w.order.Uint32(entry[4:])

		length := uint64(n) * tiffTypeSize(typ)
		if length > uint64(w.size) {
			return 0, fmt.Errorf("%w: tag 0x%04x declares %d values", ErrCorruptExif, tag, n)
		}
		value := entry[8:12]
		if length > 4 {
			valueOffset := uint64(w.order.Uint32(value))
			if valueOffset+length > uint64(w.size) {
				return 0, fmt.Errorf("%w: tag 0x%04x value at offset %d", ErrCorruptExif, tag, valueOffset)
			}
			if isSubDirTag(tag) && isIntegerType(typ) {
				value = make([]byte, 4)
				if err := w.read(value[:tiffTypeSize(typ)], int64(valueOffset)); err != nil {
					return 0, err
				}
			}
		}

		if !isSubDirTag(tag) || !isIntegerType(typ) {
			continue
		}
		if n == 0 {
			return 0, fmt.Errorf("%w: tag 0x%04x has no offset", ErrCorruptExif, tag)
		}
		subDirs = append(subDirs, w.firstInt(typ, value))
	}

	for _, sub := range subDirs {
		if _, err := w.dir(sub); err != nil {
			return 0, err
		}
	}
	return w.order.Uint32(table[entries*12:]), nil
}

func (w *ifdWalker) firstInt(typ uint16, value []byte) uint32 {
	switch tiffTypeSize(typ) {
	case 1:
		return uint32(value[0])
	case 2:
		return uint32(w.order.Uint16(value))
	default:
		return w.order.Uint32(value)
	}
}

func isSubDirTag(tag uint16) bool {
	return tag == tagExifIFD || tag == tagGPSIFD || tag == tagInteropIFD
}

// isIntegerType matches the TIFF types goexif exposes through Int64.
func isIntegerType(typ uint16) bool {
	switch typ {
	case 1, 3, 4, 6, 8, 9:
		return true
	}
	return false
}

// tiffTypeSize returns the byte width of a TIFF field type. Unknown types count
// as one byte so their declared count is still bounded.
func tiffTypeSize(typ uint16) uint64 {
	switch typ {
	case 3, 8:
		return 2
	case 4, 9, 11:
		return 4
	case 5, 10, 12:
		return 8
	default:
		return 1
	}
}
