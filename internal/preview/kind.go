package preview

import "strings"

// MediaKind classifies a scene's media source. Only video activates the
// bridge; every other kind leaves it inactive.
type MediaKind string

const (
	MediaKindVideo   MediaKind = "video"
	MediaKindImage   MediaKind = "image"
	MediaKindGallery MediaKind = "gallery"
	MediaKindNone    MediaKind = "none"
)

// ParseMediaKind converts a string into a known MediaKind, defaulting to
// MediaKindNone for unknown values.
func ParseMediaKind(value string) MediaKind {
	switch MediaKind(strings.ToLower(strings.TrimSpace(value))) {
	case MediaKindVideo:
		return MediaKindVideo
	case MediaKindImage:
		return MediaKindImage
	case MediaKindGallery:
		return MediaKindGallery
	default:
		return MediaKindNone
	}
}
