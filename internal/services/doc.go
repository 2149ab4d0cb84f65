// Package services holds the shared error taxonomy used when talking to
// external collaborators (the compositing engine, ffprobe, the narration
// service). Errors are tagged with sentinel markers so callers can classify
// failures without string matching.
package services
