package editor

import (
	"fmt"
	"log/slog"
	"os"

	"reposave/internal/backup"
	"reposave/internal/container"
	"reposave/internal/logging"
	"reposave/internal/savegame"
)

// Service exposes the full shell-facing API over one backup repository.
type Service struct {
	repo   *backup.Repository
	logger *slog.Logger
}

// NewService wraps repo. logger may be nil.
func NewService(repo *backup.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logging.NewComponentLogger(logger, "editor"),
	}
}

// Summarize decodes the container at path and reduces it to the cached
// summary the repository stores in sidecars. It is the SummarizeFunc the
// shell wires into backup.New.
func Summarize(path string) (*backup.EntrySummary, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	doc, err := container.Decode(fileBytes)
	if err != nil {
		return nil, err
	}
	model, err := savegame.Parse(doc)
	if err != nil {
		return nil, err
	}
	return summaryFromModel(model), nil
}

func summaryFromModel(m *savegame.Model) *backup.EntrySummary {
	summary := &backup.EntrySummary{
		Level:    m.World.Level,
		Currency: m.World.Currency,
		Lives:    m.World.Lives,
	}
	for _, p := range m.Players {
		summary.Players = append(summary.Players, backup.PlayerSummary{
			Identity:    string(p.Identity),
			DisplayName: p.DisplayName,
		})
	}
	return summary
}

// ListBackups returns all entries, newest first, without decoding any
// container.
func (s *Service) ListBackups() ([]backup.Entry, error) {
	return s.repo.List()
}

// GetBackup returns a single entry by id.
func (s *Service) GetBackup(id string) (backup.Entry, error) {
	return s.repo.Get(id)
}

// CreateBackup copies the container at sourcePath into the repository.
func (s *Service) CreateBackup(sourcePath string) (backup.Entry, error) {
	return s.repo.Create(sourcePath)
}

// RestoreBackup atomically copies the stored container over destPath.
func (s *Service) RestoreBackup(id, destPath string) error {
	return s.repo.Restore(id, destPath)
}

// DuplicateBackup byte-copies an entry under a new id.
func (s *Service) DuplicateBackup(id string) (backup.Entry, error) {
	return s.repo.Duplicate(id)
}

// DeleteBackup removes an entry; deleting twice is a no-op.
func (s *Service) DeleteBackup(id string) error {
	return s.repo.Delete(id)
}

// AnnotateBackup rewrites an entry's notes.
func (s *Service) AnnotateBackup(id, notes string) error {
	return s.repo.Annotate(id, notes)
}

// OpenForEdit decodes the stored container for id into an editable model.
// Decode failures surface as-is; a save that cannot be decoded is never
// guessed at.
func (s *Service) OpenForEdit(id string) (*savegame.Model, error) {
	fileBytes, err := s.repo.ReadContainer(id)
	if err != nil {
		return nil, err
	}
	doc, err := container.Decode(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	model, err := savegame.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	if len(model.Warnings) > 0 {
		s.logger.Warn("save opened with clamped fields",
			logging.String("id", id),
			logging.Any("warnings", model.Warnings))
	}
	return model, nil
}

// CommitEdit serializes the model, re-encodes the container, and rewrites
// the stored entry atomically, refreshing the cached summary in the same
// commit. The edit is all-or-nothing: a failure at any step leaves the
// stored backup as it was.
func (s *Service) CommitEdit(id string, model *savegame.Model) error {
	doc, err := model.Serialize()
	if err != nil {
		return fmt.Errorf("commit %s: %w", id, err)
	}
	fileBytes, err := container.Encode(doc)
	if err != nil {
		return fmt.Errorf("commit %s: %w", id, err)
	}
	if err := s.repo.CommitContainer(id, fileBytes, summaryFromModel(model)); err != nil {
		return err
	}
	s.logger.Info("edit committed", logging.String("id", id))
	return nil
}
