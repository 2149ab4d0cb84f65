package scene

import (
	"database/sql"
	"errors"
	"time"
)

const sceneColumns = "id, position, title, media_url, media_kind, narration_text, narration_voice, narration_language, narration_audio, trim_start, trim_end, duration, created_at, updated_at"

func scanScene(scanner interface{ Scan(dest ...any) error }) (*Scene, error) {
	var (
		id                string
		position          int
		title             sql.NullString
		mediaURL          string
		mediaKind         string
		narrationText     sql.NullString
		narrationVoice    sql.NullString
		narrationLanguage sql.NullString
		narrationAudio    sql.NullString
		trimStart         float64
		trimEnd           float64
		duration          float64
		createdRaw        sql.NullString
		updatedRaw        sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&position,
		&title,
		&mediaURL,
		&mediaKind,
		&narrationText,
		&narrationVoice,
		&narrationLanguage,
		&narrationAudio,
		&trimStart,
		&trimEnd,
		&duration,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	sc := &Scene{
		ID:                id,
		Position:          position,
		Title:             title.String,
		MediaURL:          mediaURL,
		MediaKind:         MediaKind(mediaKind),
		NarrationText:     narrationText.String,
		NarrationVoice:    narrationVoice.String,
		NarrationLanguage: narrationLanguage.String,
		NarrationAudio:    narrationAudio.String,
		TrimStart:         trimStart,
		TrimEnd:           trimEnd,
		Duration:          duration,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		sc.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		sc.UpdatedAt = updated
	}
	return sc, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
