// Package qa drives the question-answer flow: a question asked under
// the selected unit is appended to the current session immediately,
// then answered by the service, with the answer appended when it
// arrives.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/notify"
	"github.com/coursedesk/coursedesk/internal/session"
)

var (
	// ErrBusy means a question is already in flight.
	ErrBusy = errors.New("a question is already being answered")
	// ErrNoUnit means no unit is selected.
	ErrNoUnit = errors.New("no unit selected")
	// ErrEmptyQuestion means the question was blank.
	ErrEmptyQuestion = errors.New("question is empty")
)

// Asker answers a question scoped to a unit; satisfied by *api.Client.
type Asker interface {
	Ask(ctx context.Context, unitID int, question string) (string, error)
}

// UnitSource reports the currently selected unit and its ancestry;
// satisfied by *selector.State.
type UnitSource interface {
	Unit() (api.NamedItem, bool)
	Breadcrumb() string
}

// Flow ties the selector, the session store, and the service
// together. One question at a time.
type Flow struct {
	asker    Asker
	units    UnitSource
	store    *session.Store
	notifier notify.Notifier

	mu   sync.Mutex
	busy bool
}

// New creates a flow. A nil notifier is replaced with a no-op.
func New(asker Asker, units UnitSource, store *session.Store, notifier notify.Notifier) *Flow {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Flow{asker: asker, units: units, store: store, notifier: notifier}
}

// Busy reports whether a question is in flight.
func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// NewSession detaches from the current session so the next question
// starts a fresh one.
func (f *Flow) NewSession(ctx context.Context) error {
	return f.store.Deselect(ctx)
}

// Submit asks a question under the selected unit. The user message is
// recorded before the service is called and stays recorded even if
// the call fails, so a failed question can be retried without losing
// history. Returns the assistant's message on success.
func (f *Flow) Submit(ctx context.Context, question string) (session.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return session.Message{}, ErrEmptyQuestion
	}

	unit, ok := f.units.Unit()
	if !ok {
		f.notifier.Notify(notify.Warning, "Select a unit before asking")
		return session.Message{}, ErrNoUnit
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return session.Message{}, ErrBusy
	}
	f.busy = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	sess, ok := f.store.Current()
	if !ok {
		id, err := f.store.Create(ctx, unit.ID, unit.Name, f.units.Breadcrumb())
		if err != nil {
			return session.Message{}, fmt.Errorf("start session: %w", err)
		}
		sess, _ = f.store.Get(id)
	}

	if err := f.store.Append(ctx, sess.ID, session.Message{Role: session.RoleUser, Content: question}); err != nil {
		return session.Message{}, fmt.Errorf("record question: %w", err)
	}

	answer, err := f.asker.Ask(ctx, unit.ID, question)
	if err != nil {
		slog.Error("ask failed", "unit_id", unit.ID, "error", err)
		f.notifier.Notify(notify.Error, "Failed to get an answer")
		return session.Message{}, fmt.Errorf("ask: %w", err)
	}

	msg := session.Message{Role: session.RoleAssistant, Content: answer}
	if err := f.store.Append(ctx, sess.ID, msg); err != nil {
		return session.Message{}, fmt.Errorf("record answer: %w", err)
	}

	cur, _ := f.store.Get(sess.ID)
	return cur.Messages[len(cur.Messages)-1], nil
}
