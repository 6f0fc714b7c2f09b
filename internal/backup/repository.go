package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"reposave/internal/fileutil"
	"reposave/internal/logging"
)

var (
	// ErrNotFound reports an entry id the repository does not contain.
	ErrNotFound = errors.New("backup entry not found")

	// ErrDestinationLocked reports a restore destination that cannot be
	// replaced, typically because the running game holds it open.
	ErrDestinationLocked = errors.New("destination cannot be replaced")
)

// Repository owns one backup storage directory. It is safe to call from any
// single goroutine; concurrent mutation of the same entry requires external
// serialization.
type Repository struct {
	dir       string
	summarize SummarizeFunc
	logger    *slog.Logger

	now func() time.Time
	// beforeRename is a crash-injection seam between restore's staging copy
	// and its final rename. Nil outside tests.
	beforeRename func() error
}

// New opens (creating if needed) the repository rooted at dir. summarize may
// be nil, in which case every created entry records an unavailable summary.
func New(dir string, summarize SummarizeFunc, logger *slog.Logger) (*Repository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("backup directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory %q: %w", dir, err)
	}
	return &Repository{
		dir:       dir,
		summarize: summarize,
		logger:    logging.NewComponentLogger(logger, "backup"),
		now:       time.Now,
	}, nil
}

// Dir returns the storage directory the repository owns.
func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) entryPath(id, ext string) string {
	return filepath.Join(r.dir, id+ext)
}

func (r *Repository) newID() string {
	stamp := r.now().UTC().Format(idTimeLayout)
	return idPrefix + stamp + "_" + uuid.NewString()[:8]
}

// Create copies the container at sourcePath into the repository, decodes the
// copy once for the cached summary, and commits the sidecar last. A source
// that fails to decode still becomes an entry, just without a summary.
func (r *Repository) Create(sourcePath string) (Entry, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return Entry{}, fmt.Errorf("source container: %w", err)
	}

	id := r.newID()
	containerPath := r.containerPath(id)
	if err := fileutil.CopyFileVerified(sourcePath, containerPath); err != nil {
		_ = os.Remove(containerPath)
		return Entry{}, fmt.Errorf("copy container for %s: %w", id, err)
	}

	entry := Entry{
		ID:             id,
		SourceFileName: filepath.Base(sourcePath),
		CreatedAt:      r.now().UTC().Truncate(time.Second),
	}
	if r.summarize != nil {
		summary, err := r.summarize(containerPath)
		if err != nil {
			// Keep the raw copy: the user may want a backup of an
			// already-corrupt save.
			r.logger.Warn("backup created without summary",
				logging.String("id", id),
				logging.Error(err))
		} else {
			entry.Summary = summary
		}
	}

	if err := r.writeSidecar(entry); err != nil {
		_ = os.Remove(containerPath)
		return Entry{}, err
	}

	r.logger.Info("backup created",
		logging.String("id", id),
		logging.String("source", entry.SourceFileName),
		logging.Bool("summarized", entry.Summary != nil))
	return entry, nil
}

// List returns all entries newest first. It reads sidecars only; containers
// are never decoded here. Containers missing their sidecar are reported with
// a nil summary rather than hidden.
func (r *Repository) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	seen := make(map[string]bool)
	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, sidecarExt) {
			continue
		}
		id := strings.TrimSuffix(name, sidecarExt)
		entry, err := r.readSidecar(id)
		if err != nil {
			r.logger.Warn("skipping unreadable sidecar",
				logging.String("id", id),
				logging.Error(err))
			continue
		}
		seen[entry.ID] = true
		entries = append(entries, entry)
	}

	// Orphaned containers (sidecar lost) still show up, just undescribed.
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, containerExt) {
			continue
		}
		id := strings.TrimSuffix(name, containerExt)
		if seen[id] {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{ID: id, CreatedAt: info.ModTime().UTC()})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

// Get returns the entry for id.
func (r *Repository) Get(id string) (Entry, error) {
	entry, err := r.readSidecar(id)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Entry{}, err
	}
	// Sidecar gone but the container may still exist.
	info, statErr := os.Stat(r.containerPath(id))
	if statErr != nil {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return Entry{ID: id, CreatedAt: info.ModTime().UTC()}, nil
}

// ReadContainer returns the stored container bytes for id.
func (r *Repository) ReadContainer(id string) ([]byte, error) {
	data, err := os.ReadFile(r.containerPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("read container for %s: %w", id, err)
	}
	return data, nil
}

// CommitContainer atomically rewrites the stored container for id and
// refreshes the sidecar summary in the same commit. Used by the editor after
// a successful edit.
func (r *Repository) CommitContainer(id string, data []byte, summary *EntrySummary) error {
	entry, err := r.Get(id)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(r.containerPath(id), data, 0o644); err != nil {
		return fmt.Errorf("rewrite container for %s: %w", id, err)
	}
	entry.Summary = summary
	if err := r.writeSidecar(entry); err != nil {
		return err
	}
	r.logger.Info("backup rewritten", logging.String("id", id))
	return nil
}

// Restore copies the stored container over destPath via a staging file
// beside the destination and an atomic rename, so a crash mid-copy never
// leaves destPath partially written.
func (r *Repository) Restore(id, destPath string) error {
	containerPath := r.containerPath(id)
	if _, err := os.Stat(containerPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("stat container for %s: %w", id, err)
	}

	dir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".restore-*")
	if err != nil {
		return fmt.Errorf("stage restore of %s: %w", id, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	in, err := os.Open(containerPath)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("open container for %s: %w", id, err)
	}
	if _, err := io.Copy(tmp, in); err != nil {
		_ = in.Close()
		_ = tmp.Close()
		return fmt.Errorf("stage restore of %s: %w", id, err)
	}
	_ = in.Close()
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("stage restore of %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage restore of %s: %w", id, err)
	}

	if r.beforeRename != nil {
		if err := r.beforeRename(); err != nil {
			return fmt.Errorf("restore %s: %w", id, err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("restore %s to %s: %w: %w", id, destPath, ErrDestinationLocked, err)
	}

	r.logger.Info("backup restored",
		logging.String("id", id),
		logging.String("destination", destPath))
	return nil
}

// Duplicate byte-copies an entry's container and metadata under a new id.
// The container is never re-decoded; the cached summary is carried over.
func (r *Repository) Duplicate(id string) (Entry, error) {
	source, err := r.Get(id)
	if err != nil {
		return Entry{}, err
	}
	if _, err := os.Stat(r.containerPath(id)); err != nil {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	dup := Entry{
		ID:             r.newID(),
		SourceFileName: source.SourceFileName,
		CreatedAt:      r.now().UTC().Truncate(time.Second),
		Notes:          "Copy of " + id,
		Summary:        source.Summary,
	}
	if err := fileutil.CopyFile(r.containerPath(id), r.containerPath(dup.ID)); err != nil {
		_ = os.Remove(r.containerPath(dup.ID))
		return Entry{}, fmt.Errorf("duplicate container %s: %w", id, err)
	}
	if err := r.writeSidecar(dup); err != nil {
		_ = os.Remove(r.containerPath(dup.ID))
		return Entry{}, err
	}

	r.logger.Info("backup duplicated",
		logging.String("source_id", id),
		logging.String("id", dup.ID))
	return dup, nil
}

// Delete removes an entry's container and sidecar. Deleting an already
// deleted entry is a no-op.
func (r *Repository) Delete(id string) error {
	for _, path := range []string{r.containerPath(id), r.sidecarPath(id)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	r.logger.Info("backup deleted", logging.String("id", id))
	return nil
}

// Annotate rewrites only the sidecar's notes field.
func (r *Repository) Annotate(id, notes string) error {
	entry, err := r.Get(id)
	if err != nil {
		return err
	}
	entry.Notes = notes
	return r.writeSidecar(entry)
}
