package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExifTool describes the exiftool binary used for the CreationDate and
// CreateDate fallbacks. It is optional: files whose EXIF block carries
// DateTimeOriginal resolve without it, and a missing binary only turns the
// fallback lookups into per-file warnings.
func ExifTool(binary string) Requirement {
	return Requirement{
		Name:        "ExifTool",
		Command:     binary,
		Description: "Reads CreationDate and CreateDate when embedded EXIF has no capture time",
		Optional:    true,
	}
}

// ExifToolVersion runs "<binary> -ver" and returns the trimmed version string.
func ExifToolVersion(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "-ver").Output()
	if err != nil {
		return "", fmt.Errorf("%s -ver: %w", binary, err)
	}
	version := strings.TrimSpace(string(output))
	if version == "" {
		return "", fmt.Errorf("%s -ver: empty output", binary)
	}
	return version, nil
}
