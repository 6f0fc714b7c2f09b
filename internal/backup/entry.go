package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"reposave/internal/fileutil"
)

// containerExt matches the extension the game uses for its own save files.
const (
	containerExt = ".es3"
	sidecarExt   = ".json"

	idPrefix     = "REPO_SAVE_"
	idTimeLayout = "2006_01_02_15_04_05"
)

// PlayerSummary is the per-player slice of a cached summary: just enough for
// a listing row and for the shell to resolve avatars.
type PlayerSummary struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
}

// EntrySummary is the decoded-once view cached in the sidecar so listings
// never have to decrypt the container again.
type EntrySummary struct {
	Level    int             `json:"level"`
	Currency int             `json:"currency"`
	Lives    int             `json:"lives"`
	Players  []PlayerSummary `json:"players"`
}

// Entry is one managed backup: a stored container plus sidecar metadata.
// Summary is nil when the container could not be decoded at creation time;
// such entries are kept, since a raw copy of a corrupt save is still worth
// having.
type Entry struct {
	ID             string        `json:"id"`
	SourceFileName string        `json:"source_file_name"`
	CreatedAt      time.Time     `json:"created_at"`
	Notes          string        `json:"notes"`
	Summary        *EntrySummary `json:"summary"`
}

// SummarizeFunc decodes the container at path into a cached summary. It is
// injected so the repository itself never depends on the codec, and so tests
// can count how often listing-adjacent paths decode.
type SummarizeFunc func(path string) (*EntrySummary, error)

func (r *Repository) containerPath(id string) string {
	return r.entryPath(id, containerExt)
}

func (r *Repository) sidecarPath(id string) string {
	return r.entryPath(id, sidecarExt)
}

func (r *Repository) readSidecar(id string) (Entry, error) {
	data, err := os.ReadFile(r.sidecarPath(id))
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("parse sidecar for %s: %w", id, err)
	}
	return entry, nil
}

func (r *Repository) writeSidecar(entry Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sidecar for %s: %w", entry.ID, err)
	}
	if err := fileutil.WriteFileAtomic(r.sidecarPath(entry.ID), data, 0o644); err != nil {
		return fmt.Errorf("write sidecar for %s: %w", entry.ID, err)
	}
	return nil
}
