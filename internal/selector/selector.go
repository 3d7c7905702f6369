// Package selector implements the four-level dependent selection over
// the course hierarchy: course, year, semester, unit. Choosing a value
// at one level invalidates everything below it and loads the next
// level's options.
package selector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/notify"
)

// Level identifies one tier of the hierarchy.
type Level int

const (
	LevelCourse Level = iota
	LevelYear
	LevelSemester
	LevelUnit
)

func (l Level) String() string {
	switch l {
	case LevelCourse:
		return "course"
	case LevelYear:
		return "year"
	case LevelSemester:
		return "semester"
	case LevelUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// Source lists the options for each level; satisfied by *api.Client.
type Source interface {
	ListCourses(ctx context.Context) ([]api.NamedItem, error)
	ListYears(ctx context.Context, courseID int) ([]api.NamedItem, error)
	ListSemesters(ctx context.Context, yearID int) ([]api.NamedItem, error)
	ListUnits(ctx context.Context, semesterID int) ([]api.NamedItem, error)
}

type levelState struct {
	selected *api.NamedItem
	options  []api.NamedItem
}

// State is the selector state machine. Each Select bumps a generation
// counter; an option fetch only lands if no newer selection was made
// while it was in flight, so the most recent selection always wins.
type State struct {
	source   Source
	notifier notify.Notifier

	mu     sync.Mutex
	levels [4]levelState
	gen    uint64
}

// New creates an empty selector backed by source.
func New(source Source, notifier notify.Notifier) *State {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &State{source: source, notifier: notifier}
}

// LoadCourses populates the top level. Called once before any Select.
func (s *State) LoadCourses(ctx context.Context) error {
	courses, err := s.source.ListCourses(ctx)
	if err != nil {
		s.notifier.Notify(notify.Error, "Failed to fetch courses")
		return fmt.Errorf("load courses: %w", err)
	}
	s.mu.Lock()
	s.levels[LevelCourse] = levelState{options: courses}
	s.gen++
	s.mu.Unlock()
	return nil
}

// Select records the choice at level, clears every level below it, and
// fetches the next level's options. A fetch failure is surfaced as a
// notification and leaves the child level empty and re-selectable.
func (s *State) Select(ctx context.Context, level Level, id int) {
	s.mu.Lock()
	item, ok := findItem(s.levels[level].options, id)
	if !ok {
		s.mu.Unlock()
		s.notifier.Notify(notify.Error, fmt.Sprintf("Unknown %s selection", level))
		return
	}

	s.levels[level].selected = &item
	for l := level + 1; l <= LevelUnit; l++ {
		s.levels[l] = levelState{}
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if level == LevelUnit {
		return
	}

	child := level + 1
	options, err := s.fetchOptions(ctx, child, item.ID)
	if err != nil {
		slog.Error("selector fetch failed", "level", child.String(), "parent_id", item.ID, "error", err)
		s.notifier.Notify(notify.Error, fmt.Sprintf("Failed to fetch %ss", child))
		return
	}

	s.mu.Lock()
	if s.gen == gen {
		s.levels[child].options = options
	} else {
		slog.Debug("discarding stale selector fetch", "level", child.String(), "parent_id", item.ID)
	}
	s.mu.Unlock()
}

func (s *State) fetchOptions(ctx context.Context, level Level, parentID int) ([]api.NamedItem, error) {
	switch level {
	case LevelYear:
		return s.source.ListYears(ctx, parentID)
	case LevelSemester:
		return s.source.ListSemesters(ctx, parentID)
	case LevelUnit:
		return s.source.ListUnits(ctx, parentID)
	default:
		return nil, fmt.Errorf("level %s has no parent-scoped options", level)
	}
}

// Options returns the loaded options for a level.
func (s *State) Options(level Level) []api.NamedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.NamedItem{}, s.levels[level].options...)
}

// Selected returns the current selection at a level.
func (s *State) Selected(level Level) (api.NamedItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.levels[level].selected == nil {
		return api.NamedItem{}, false
	}
	return *s.levels[level].selected, true
}

// Enabled reports whether a level is selectable: the top level always
// is, lower levels only once their parent has a selection.
func (s *State) Enabled(level Level) bool {
	if level == LevelCourse {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[level-1].selected != nil
}

// Unit returns the selected unit, the precondition for asking
// questions and taking quizzes.
func (s *State) Unit() (api.NamedItem, bool) {
	return s.Selected(LevelUnit)
}

// Breadcrumb renders the ancestor names of the current unit selection,
// e.g. "CS101 > 2024 > Fall".
func (s *State) Breadcrumb() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var parts []string
	for _, level := range []Level{LevelCourse, LevelYear, LevelSemester} {
		if sel := s.levels[level].selected; sel != nil {
			parts = append(parts, sel.Name)
		}
	}
	return strings.Join(parts, " > ")
}

// Reset clears every selection and all loaded options below the course
// list.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	courses := s.levels[LevelCourse].options
	s.levels = [4]levelState{}
	s.levels[LevelCourse].options = courses
	s.gen++
}

func findItem(items []api.NamedItem, id int) (api.NamedItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return api.NamedItem{}, false
}
