// Package editor is the shell-facing surface of the save manager. It
// composes the container codec, the save model, and the backup repository
// into the operations a frontend calls: list/create/restore/duplicate/
// delete/annotate plus the open-edit-commit cycle.
//
// Nothing here spawns goroutines or touches the network. Callers run the
// operations on whatever worker suits them and serialize repository
// mutations themselves.
package editor
