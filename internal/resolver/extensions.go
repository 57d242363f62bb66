package resolver

import "chrononame/internal/scan"

// Class groups extensions that share a source chain.
type Class int

const (
	ClassUnsupported Class = iota
	ClassImage
	ClassVideo
	// ClassUntyped covers names without an extension. They get the image chain
	// because the EXIF decoder identifies containers by content.
	ClassUntyped
)

func (c Class) String() string {
	switch c {
	case ClassImage:
		return "image"
	case ClassVideo:
		return "video"
	case ClassUntyped:
		return "untyped"
	default:
		return "unsupported"
	}
}

var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"heic": {},
	"heif": {},
	"webp": {},
	"dng":  {},
	"cr2":  {},
	"cr3":  {},
	"nef":  {},
	"arw":  {},
	"orf":  {},
	"rw2":  {},
	"raf":  {},
}

var videoExtensions = map[string]struct{}{
	"mov":  {},
	"mp4":  {},
	"m4v":  {},
	"3gp":  {},
	"3g2":  {},
	"avi":  {},
	"mts":  {},
	"m2ts": {},
}

// Classify returns the class for file's extension.
func Classify(file scan.SourceFile) Class {
	if !file.HasExt() {
		return ClassUntyped
	}
	if _, ok := imageExtensions[file.Ext]; ok {
		return ClassImage
	}
	if _, ok := videoExtensions[file.Ext]; ok {
		return ClassVideo
	}
	return ClassUnsupported
}
