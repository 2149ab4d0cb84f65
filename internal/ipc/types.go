package ipc

import (
	"time"

	"reelcut/internal/scene"
)

// Scene is the wire representation of a stored scene.
type Scene struct {
	ID                string  `json:"id"`
	Position          int     `json:"position"`
	Title             string  `json:"title"`
	MediaURL          string  `json:"media_url"`
	MediaKind         string  `json:"media_kind"`
	NarrationText     string  `json:"narration_text"`
	NarrationVoice    string  `json:"narration_voice"`
	NarrationLanguage string  `json:"narration_language"`
	NarrationAudio    string  `json:"narration_audio"`
	TrimStart         float64 `json:"trim_start"`
	TrimEnd           float64 `json:"trim_end"`
	Duration          float64 `json:"duration"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// FromScene converts a stored scene into its wire representation.
func FromScene(sc *scene.Scene) Scene {
	if sc == nil {
		return Scene{}
	}
	return Scene{
		ID:                sc.ID,
		Position:          sc.Position,
		Title:             sc.Title,
		MediaURL:          sc.MediaURL,
		MediaKind:         string(sc.MediaKind),
		NarrationText:     sc.NarrationText,
		NarrationVoice:    sc.NarrationVoice,
		NarrationLanguage: sc.NarrationLanguage,
		NarrationAudio:    sc.NarrationAudio,
		TrimStart:         sc.TrimStart,
		TrimEnd:           sc.TrimEnd,
		Duration:          sc.Duration,
		CreatedAt:         sc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         sc.UpdatedAt.Format(time.RFC3339),
	}
}

// DependencyStatus describes availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail"`
}

// SessionStatus is the wire representation of the active preview session.
type SessionStatus struct {
	Active      bool    `json:"active"`
	SceneID     string  `json:"scene_id"`
	Title       string  `json:"title"`
	MediaURL    string  `json:"media_url"`
	MediaKind   string  `json:"media_kind"`
	Ready       bool    `json:"ready"`
	Duration    float64 `json:"duration"`
	CurrentTime float64 `json:"current_time"`
	TrimStart   float64 `json:"trim_start"`
	TrimEnd     float64 `json:"trim_end"`
	AspectRatio float64 `json:"aspect_ratio"`
	LastError   string  `json:"last_error"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon status information.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	LockPath     string             `json:"lock_path"`
	SceneDBPath  string             `json:"scene_db_path"`
	Session      SessionStatus      `json:"session"`
	SceneTotal   int                `json:"scene_total"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// SceneListRequest lists all scenes.
type SceneListRequest struct{}

// SceneListResponse contains scenes in project order.
type SceneListResponse struct {
	Scenes []Scene `json:"scenes"`
}

// SceneDescribeRequest fetches a single scene by id.
type SceneDescribeRequest struct {
	ID string `json:"id"`
}

// SceneDescribeResponse contains a single scene.
type SceneDescribeResponse struct {
	Scene Scene `json:"scene"`
}

// SceneAddRequest appends a scene to the project.
type SceneAddRequest struct {
	Title             string  `json:"title"`
	MediaURL          string  `json:"media_url"`
	MediaKind         string  `json:"media_kind"`
	NarrationText     string  `json:"narration_text"`
	NarrationVoice    string  `json:"narration_voice"`
	NarrationLanguage string  `json:"narration_language"`
	TrimStart         float64 `json:"trim_start"`
	TrimEnd           float64 `json:"trim_end"`
}

// SceneAddResponse returns the stored scene.
type SceneAddResponse struct {
	Scene Scene `json:"scene"`
}

// SceneUpdateRequest modifies fields of an existing scene. Nil fields keep
// their stored values.
type SceneUpdateRequest struct {
	ID            string   `json:"id"`
	Title         *string  `json:"title,omitempty"`
	MediaURL      *string  `json:"media_url,omitempty"`
	MediaKind     *string  `json:"media_kind,omitempty"`
	NarrationText *string  `json:"narration_text,omitempty"`
	TrimStart     *float64 `json:"trim_start,omitempty"`
	TrimEnd       *float64 `json:"trim_end,omitempty"`
}

// SceneUpdateResponse returns the updated scene.
type SceneUpdateResponse struct {
	Scene Scene `json:"scene"`
}

// SceneRemoveRequest deletes a scene.
type SceneRemoveRequest struct {
	ID string `json:"id"`
}

// SceneRemoveResponse indicates removal result.
type SceneRemoveResponse struct {
	Removed bool `json:"removed"`
}

// SceneReorderRequest rewrites project order. IDs must cover every scene.
type SceneReorderRequest struct {
	IDs []string `json:"ids"`
}

// SceneReorderResponse indicates reorder result.
type SceneReorderResponse struct {
	Reordered bool `json:"reordered"`
}

// SceneHealthRequest fetches aggregate scene diagnostics.
type SceneHealthRequest struct{}

// SceneHealthResponse reports aggregate scene counts.
type SceneHealthResponse struct {
	Total        int `json:"total"`
	Videos       int `json:"videos"`
	Images       int `json:"images"`
	Galleries    int `json:"galleries"`
	WithAudio    int `json:"with_audio"`
	WithoutTitle int `json:"without_title"`
}

// PreviewOpenRequest starts a preview session for a scene.
type PreviewOpenRequest struct {
	SceneID string `json:"scene_id"`
}

// PreviewOpenResponse indicates the session was opened.
type PreviewOpenResponse struct {
	Opened bool `json:"opened"`
}

// PreviewCloseRequest ends the active preview session.
type PreviewCloseRequest struct{}

// PreviewCloseResponse indicates close result.
type PreviewCloseResponse struct {
	Closed bool `json:"closed"`
}

// PreviewPlayRequest starts playback.
type PreviewPlayRequest struct{}

// PreviewPlayResponse indicates the play command was accepted.
type PreviewPlayResponse struct {
	Playing bool `json:"playing"`
}

// PreviewPauseRequest pauses playback.
type PreviewPauseRequest struct{}

// PreviewPauseResponse indicates the pause command was accepted.
type PreviewPauseResponse struct {
	Paused bool `json:"paused"`
}

// PreviewSeekRequest moves playback to a position in seconds.
type PreviewSeekRequest struct {
	Seconds float64 `json:"seconds"`
}

// PreviewSeekResponse indicates the seek command was accepted.
type PreviewSeekResponse struct {
	Accepted bool `json:"accepted"`
}

// PreviewStateRequest fetches the active session snapshot.
type PreviewStateRequest struct{}

// PreviewStateResponse contains the active session snapshot.
type PreviewStateResponse struct {
	Session SessionStatus `json:"session"`
}

// NarrationGenerateRequest synthesizes narration audio for a scene.
type NarrationGenerateRequest struct {
	SceneID string `json:"scene_id"`
}

// NarrationGenerateResponse returns the written audio path.
type NarrationGenerateResponse struct {
	AudioPath string `json:"audio_path"`
}
