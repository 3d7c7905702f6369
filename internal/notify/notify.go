// Package notify surfaces transient user-visible notifications, the
// terminal equivalent of the toast banners in the web client.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Level classifies a notification.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier delivers a notification to the user. Implementations must
// never block the caller on user input.
type Notifier interface {
	Notify(level Level, message string)
}

// Console writes notifications to a writer, one per line.
type Console struct {
	W io.Writer
}

func (c Console) Notify(level Level, message string) {
	fmt.Fprintf(c.W, "[%s] %s\n", level, message)
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is one recorded notification.
type Entry struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
	r.mu.Unlock()
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry{}, r.entries...)
}

// Last returns the most recent entry, if any.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Notify(Level, string) {}
