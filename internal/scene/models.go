package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// MediaKind categorizes a scene's media target.
type MediaKind string

const (
	KindVideo   MediaKind = "video"
	KindImage   MediaKind = "image"
	KindGallery MediaKind = "gallery"
)

var allKinds = []MediaKind{KindVideo, KindImage, KindGallery}

var kindSet = func() map[MediaKind]struct{} {
	set := make(map[MediaKind]struct{}, len(allKinds))
	for _, kind := range allKinds {
		set[kind] = struct{}{}
	}
	return set
}()

// ParseKind normalizes a user-supplied kind string.
func ParseKind(value string) (MediaKind, error) {
	kind := MediaKind(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := kindSet[kind]; !ok {
		return "", fmt.Errorf("unknown media kind %q", value)
	}
	return kind, nil
}

// Scene is one scene row persisted in SQLite. TrimStart and TrimEnd are
// seconds into the media; a TrimEnd of zero means the window is unbounded.
type Scene struct {
	ID                string
	Position          int
	Title             string
	MediaURL          string
	MediaKind         MediaKind
	NarrationText     string
	NarrationVoice    string
	NarrationLanguage string
	NarrationAudio    string
	TrimStart         float64
	TrimEnd           float64
	Duration          float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the fields persisted rows must satisfy.
func (s *Scene) Validate() error {
	if s == nil {
		return errors.New("scene is nil")
	}
	if strings.TrimSpace(s.MediaURL) == "" {
		return errors.New("media url is required")
	}
	if _, ok := kindSet[s.MediaKind]; !ok {
		return fmt.Errorf("unknown media kind %q", s.MediaKind)
	}
	if math.IsNaN(s.TrimStart) || math.IsNaN(s.TrimEnd) {
		return errors.New("trim boundaries must be numbers")
	}
	if s.TrimStart < 0 {
		return errors.New("trim start must not be negative")
	}
	if s.TrimEnd != 0 && s.TrimEnd < s.TrimStart {
		return errors.New("trim end must not precede trim start")
	}
	return nil
}

// TrimWindow returns the effective playable window for a known duration.
// An unset or overshooting trim end collapses to the duration itself.
func (s *Scene) TrimWindow(duration float64) (start, end float64) {
	start = s.TrimStart
	if start > duration {
		start = duration
	}
	end = s.TrimEnd
	if end == 0 || end > duration {
		end = duration
	}
	if end < start {
		end = start
	}
	return start, end
}

// HealthSummary aggregates scene counts for diagnostic output.
type HealthSummary struct {
	Total        int
	Videos       int
	Images       int
	Galleries    int
	WithAudio    int
	WithOutTitle int
}
