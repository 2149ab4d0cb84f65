// Package daemon hosts the long-running reelcut process: it enforces
// single-instance execution, owns the scene store and the preview session
// manager, and exposes the operations the IPC layer serves.
package daemon
