// Package ipc exposes daemon control over JSON-RPC on a Unix domain socket:
// scene CRUD, preview session control, narration, and daemon lifecycle.
package ipc
