// Package scene persists the editor's scene list in SQLite. A scene is one
// entry of a short-video project: a media target plus its trim window and
// optional narration settings.
package scene
