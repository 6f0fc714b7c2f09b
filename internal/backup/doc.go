// Package backup manages a directory of save container backups.
//
// Each entry is one container file plus one JSON sidecar holding its
// metadata and a cached summary (day, currency, lives, players) computed
// once when the entry is created. Listing reads sidecars only and never
// decrypts a container, so it stays O(entries) no matter how large the
// saves are.
//
// Every mutating operation is independently crash-safe: containers are
// copied before metadata is committed, sidecars are written through a temp
// file and rename, and restore stages its copy beside the destination
// before atomically swapping it into place. The repository performs no
// locking of its own; callers serialize mutations (the CLI shell holds a
// file lock across every mutating command).
package backup
