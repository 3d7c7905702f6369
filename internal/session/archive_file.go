package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileArchive stores the history snapshot as a JSON file. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// half-written history behind.
type FileArchive struct {
	path string
}

// NewFileArchive creates an archive backed by the file at path. The
// file does not need to exist yet.
func NewFileArchive(path string) *FileArchive {
	return &FileArchive{path: path}
}

func (a *FileArchive) Load(_ context.Context) (snapshot, error) {
	data, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		return snapshot{}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("read history file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt file is not worth refusing to start over.
		slog.Warn("history file is corrupt, starting empty", "path", a.path, "error", err)
		return snapshot{}, nil
	}
	return snap, nil
}

func (a *FileArchive) Save(_ context.Context, snap snapshot) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := a.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
