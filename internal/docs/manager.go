// Package docs manages uploaded course material: upload against a
// unit, trigger processing into the retrieval index, and follow the
// progress stream while the service chunks and embeds the file.
package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/notify"
)

// ErrNoUnit means an upload was attempted without a unit.
var ErrNoUnit = errors.New("no unit selected")

// Confirmer asks the user to confirm before a delete proceeds.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Manager wraps the document endpoints and keeps a per-document log
// of processing progress lines.
type Manager struct {
	client   *api.Client
	notifier notify.Notifier
	confirm  Confirmer

	mu       sync.Mutex
	docs     []api.Document
	progress map[int][]string
}

// New creates a manager. A nil confirmer means deletes proceed
// without asking.
func New(client *api.Client, notifier notify.Notifier, confirm Confirmer) *Manager {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Manager{
		client:   client,
		notifier: notifier,
		confirm:  confirm,
		progress: make(map[int][]string),
	}
}

// Refresh refetches the document list.
func (m *Manager) Refresh(ctx context.Context) error {
	docs, err := m.client.ListDocuments(ctx)
	if err != nil {
		m.notifier.Notify(notify.Error, "Failed to fetch documents")
		return fmt.Errorf("list documents: %w", err)
	}
	m.mu.Lock()
	m.docs = docs
	m.mu.Unlock()
	return nil
}

// Documents returns the last fetched list.
func (m *Manager) Documents() []api.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.Document{}, m.docs...)
}

// Upload sends a file against a unit and returns the new document ID.
// Both a unit and a file are required.
func (m *Manager) Upload(ctx context.Context, unitID int, filename string, r io.Reader) (int, error) {
	if unitID <= 0 {
		m.notifier.Notify(notify.Warning, "Select a unit before uploading")
		return 0, ErrNoUnit
	}
	if strings.TrimSpace(filename) == "" {
		m.notifier.Notify(notify.Warning, "Choose a file to upload")
		return 0, fmt.Errorf("no file chosen")
	}

	id, err := m.client.UploadDocument(ctx, unitID, filename, r)
	if err != nil {
		slog.Error("upload failed", "unit_id", unitID, "filename", filename, "error", err)
		m.notifier.Notify(notify.Error, "Upload failed")
		return 0, fmt.Errorf("upload %s: %w", filename, err)
	}

	m.notifier.Notify(notify.Success, fmt.Sprintf("Uploaded %s", filename))
	if err := m.Refresh(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// Process runs the document through the service's indexing pipeline,
// appending each progress line to the document's log as it streams
// in. Blocks until the stream ends.
func (m *Manager) Process(ctx context.Context, id int) error {
	m.mu.Lock()
	m.progress[id] = nil
	m.mu.Unlock()

	events, err := m.client.ProcessDocument(ctx, id)
	if err != nil {
		m.notifier.Notify(notify.Error, "Failed to start processing")
		return fmt.Errorf("process document %d: %w", id, err)
	}

	for ev := range events {
		if ev.Err != nil {
			slog.Error("progress stream broke", "document_id", id, "error", ev.Err)
			m.notifier.Notify(notify.Error, "Processing stream interrupted")
			return fmt.Errorf("process document %d: %w", id, ev.Err)
		}
		m.mu.Lock()
		m.progress[id] = append(m.progress[id], ev.Data)
		m.mu.Unlock()
		m.notifier.Notify(notify.Info, ev.Data)
	}
	return nil
}

// Progress returns the accumulated progress lines for a document.
func (m *Manager) Progress(id int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.progress[id]...)
}

// Download writes a document's bytes to w.
func (m *Manager) Download(ctx context.Context, id int, w io.Writer) error {
	if err := m.client.DownloadDocument(ctx, id, w); err != nil {
		m.notifier.Notify(notify.Error, "Download failed")
		return fmt.Errorf("download document %d: %w", id, err)
	}
	return nil
}

// Delete removes a document after confirmation. A declined
// confirmation is not an error.
func (m *Manager) Delete(ctx context.Context, id int) error {
	if m.confirm != nil && !m.confirm.Confirm("Delete this document?") {
		return nil
	}

	if err := m.client.DeleteDocument(ctx, id); err != nil {
		slog.Error("delete failed", "document_id", id, "error", err)
		m.notifier.Notify(notify.Error, "Failed to delete document")
		return fmt.Errorf("delete document %d: %w", id, err)
	}

	m.mu.Lock()
	delete(m.progress, id)
	m.mu.Unlock()
	m.notifier.Notify(notify.Success, "Document deleted")
	return m.Refresh(ctx)
}
