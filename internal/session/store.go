// Package session keeps the chat history: an ordered collection of
// question-answer sessions, each pinned to the unit it was asked
// under. Every mutation is written through to a pluggable archive so
// history survives restarts.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Saved     bool      `json:"saved,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one conversation, bound to the unit that was selected
// when it started. CoursePath is the human-readable ancestry of that
// unit, e.g. "CS101 > 2024 > Fall".
type Session struct {
	ID         string    `json:"id"`
	UnitID     int       `json:"unit_id"`
	UnitName   string    `json:"unit_name"`
	CoursePath string    `json:"course_path"`
	Messages   []Message `json:"messages"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// snapshot is the unit of persistence: the whole collection plus the
// current-session pointer, written as one document on every mutation.
type snapshot struct {
	Sessions []Session `json:"sessions"`
	Current  string    `json:"current,omitempty"`
}

// Archive persists the full history snapshot.
type Archive interface {
	Load(ctx context.Context) (snapshot, error)
	Save(ctx context.Context, snap snapshot) error
}

// Store holds the session collection in memory, newest first, and
// writes through to its archive on every mutation. At most one
// session is current at a time.
type Store struct {
	mu       sync.Mutex
	archive  Archive
	sessions []Session
	current  string
}

// NewStore loads existing history from the archive. A missing archive
// yields an empty store; a failing one is an error.
func NewStore(ctx context.Context, archive Archive) (*Store, error) {
	snap, err := archive.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	s := &Store{archive: archive, sessions: snap.Sessions, current: snap.Current}
	if _, ok := s.find(s.current); !ok {
		s.current = ""
	}
	return s, nil
}

// Create starts a new empty session for the given unit, makes it
// current, and returns its ID.
func (s *Store) Create(ctx context.Context, unitID int, unitName, coursePath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{
		ID:         uuid.NewString(),
		UnitID:     unitID,
		UnitName:   unitName,
		CoursePath: coursePath,
		Messages:   []Message{},
		UpdatedAt:  time.Now(),
	}
	s.sessions = append([]Session{sess}, s.sessions...)
	s.current = sess.ID

	if err := s.save(ctx); err != nil {
		return "", err
	}
	return sess.ID, nil
}

// Append adds a message to a session, stamps it, and moves the
// session to the front of the collection.
func (s *Store) Append(ctx context.Context, sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(sessionID)
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	sess := s.sessions[i]
	sess.Messages = append(sess.Messages, msg)
	sess.UpdatedAt = msg.CreatedAt
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	s.sessions = append([]Session{sess}, s.sessions...)

	return s.save(ctx)
}

// SetSaved flags or unflags a single message within a session.
func (s *Store) SetSaved(ctx context.Context, sessionID, messageID string, saved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(sessionID)
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	for j := range s.sessions[i].Messages {
		if s.sessions[i].Messages[j].ID == messageID {
			s.sessions[i].Messages[j].Saved = saved
			return s.save(ctx)
		}
	}
	return fmt.Errorf("message not found: %s", messageID)
}

// Select makes an existing session the current one.
func (s *Store) Select(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(sessionID); !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	s.current = sessionID
	return s.save(ctx)
}

// Deselect clears the current-session pointer without touching the
// collection, so the next question starts a fresh session.
func (s *Store) Deselect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	return s.save(ctx)
}

// Delete removes a session. Deleting the current session leaves no
// session current.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(sessionID)
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	if s.current == sessionID {
		s.current = ""
	}
	return s.save(ctx)
}

// Current returns the current session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(s.current)
	if !ok {
		return Session{}, false
	}
	return copySession(s.sessions[i]), true
}

// Get returns a session by ID.
func (s *Store) Get(sessionID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(sessionID)
	if !ok {
		return Session{}, false
	}
	return copySession(s.sessions[i]), true
}

// All returns every session, newest first.
func (s *Store) All() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = copySession(sess)
	}
	return out
}

// save writes the whole collection through to the archive. Callers
// hold s.mu.
func (s *Store) save(ctx context.Context) error {
	snap := snapshot{Sessions: s.sessions, Current: s.current}
	if err := s.archive.Save(ctx, snap); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *Store) find(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func copySession(sess Session) Session {
	out := sess
	out.Messages = append([]Message{}, sess.Messages...)
	return out
}
