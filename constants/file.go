package constants

import "strings"

// Image batch limits.
const (
	MaxImages     = 5
	MaxImageMB    = 4
	MaxImageBytes = MaxImageMB * 1024 * 1024
)

// AllowedExtensions holds the file extensions picked up when loading product photos from a directory.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
	"gif":  {},
	"heic": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageMIME reports whether a media type belongs to the image/* family.
func IsImageMIME(mime string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
}
