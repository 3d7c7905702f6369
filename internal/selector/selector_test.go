package selector_test

import (
	"context"
	"errors"
	"testing"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/notify"
	"github.com/coursedesk/coursedesk/internal/selector"
)

// fakeSource returns canned options per level, keyed by parent ID.
type fakeSource struct {
	courses   []api.NamedItem
	years     map[int][]api.NamedItem
	semesters map[int][]api.NamedItem
	units     map[int][]api.NamedItem

	listYears func(ctx context.Context, courseID int) ([]api.NamedItem, error)
}

func (f *fakeSource) ListCourses(context.Context) ([]api.NamedItem, error) {
	return f.courses, nil
}

func (f *fakeSource) ListYears(ctx context.Context, courseID int) ([]api.NamedItem, error) {
	if f.listYears != nil {
		return f.listYears(ctx, courseID)
	}
	return f.years[courseID], nil
}

func (f *fakeSource) ListSemesters(_ context.Context, yearID int) ([]api.NamedItem, error) {
	return f.semesters[yearID], nil
}

func (f *fakeSource) ListUnits(_ context.Context, semesterID int) ([]api.NamedItem, error) {
	return f.units[semesterID], nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		courses: []api.NamedItem{{ID: 1, Name: "CS101"}, {ID: 2, Name: "MA201"}},
		years: map[int][]api.NamedItem{
			1: {{ID: 10, Name: "2024"}},
			2: {{ID: 11, Name: "2023"}},
		},
		semesters: map[int][]api.NamedItem{10: {{ID: 20, Name: "Fall"}}},
		units:     map[int][]api.NamedItem{20: {{ID: 30, Name: "Intro"}}},
	}
}

func selectPath(t *testing.T, s *selector.State) {
	t.Helper()
	ctx := t.Context()
	if err := s.LoadCourses(ctx); err != nil {
		t.Fatalf("LoadCourses() error = %v", err)
	}
	s.Select(ctx, selector.LevelCourse, 1)
	s.Select(ctx, selector.LevelYear, 10)
	s.Select(ctx, selector.LevelSemester, 20)
	s.Select(ctx, selector.LevelUnit, 30)
}

func TestSelect_CascadeLoads(t *testing.T) {
	s := selector.New(newFakeSource(), notify.Nop{})
	selectPath(t, s)

	unit, ok := s.Unit()
	if !ok {
		t.Fatal("Unit() should be selected")
	}
	if unit.Name != "Intro" {
		t.Errorf("unit.Name = %q", unit.Name)
	}
	if got := s.Breadcrumb(); got != "CS101 > 2024 > Fall" {
		t.Errorf("Breadcrumb() = %q", got)
	}
}

func TestSelect_UpstreamChangeClearsDownstream(t *testing.T) {
	s := selector.New(newFakeSource(), notify.Nop{})
	selectPath(t, s)

	// Re-selecting the course must empty every lower level.
	s.Select(t.Context(), selector.LevelCourse, 2)

	for _, level := range []selector.Level{selector.LevelSemester, selector.LevelUnit} {
		if _, ok := s.Selected(level); ok {
			t.Errorf("%s selection should be cleared", level)
		}
		if opts := s.Options(level); len(opts) != 0 {
			t.Errorf("%s options should be empty, got %v", level, opts)
		}
	}
	if _, ok := s.Selected(selector.LevelYear); ok {
		t.Error("year selection should be cleared")
	}
	// The new course's years replace the old ones.
	years := s.Options(selector.LevelYear)
	if len(years) != 1 || years[0].Name != "2023" {
		t.Errorf("year options = %v", years)
	}
}

func TestSelect_FetchFailureNotifiesAndLeavesEmpty(t *testing.T) {
	src := newFakeSource()
	src.listYears = func(context.Context, int) ([]api.NamedItem, error) {
		return nil, errors.New("boom")
	}
	rec := &notify.Recorder{}
	s := selector.New(src, rec)

	ctx := t.Context()
	if err := s.LoadCourses(ctx); err != nil {
		t.Fatalf("LoadCourses() error = %v", err)
	}
	s.Select(ctx, selector.LevelCourse, 1)

	// The course selection sticks; the year level stays empty.
	if _, ok := s.Selected(selector.LevelCourse); !ok {
		t.Error("course selection should stick")
	}
	if opts := s.Options(selector.LevelYear); len(opts) != 0 {
		t.Errorf("year options = %v, want empty", opts)
	}
	last, ok := rec.Last()
	if !ok || last.Level != notify.Error {
		t.Errorf("expected an error notification, got %+v", last)
	}
}

func TestSelect_StaleFetchDiscarded(t *testing.T) {
	src := newFakeSource()
	started := make(chan struct{})
	release := make(chan struct{})
	src.listYears = func(_ context.Context, courseID int) ([]api.NamedItem, error) {
		if courseID == 1 {
			close(started)
			<-release
			return []api.NamedItem{{ID: 10, Name: "2024"}}, nil
		}
		return []api.NamedItem{{ID: 11, Name: "2023"}}, nil
	}

	s := selector.New(src, notify.Nop{})
	ctx := t.Context()
	if err := s.LoadCourses(ctx); err != nil {
		t.Fatalf("LoadCourses() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Select(ctx, selector.LevelCourse, 1)
	}()

	<-started
	// A newer selection lands while the first fetch is in flight.
	s.Select(ctx, selector.LevelCourse, 2)
	close(release)
	<-done

	// The late response for course 1 must not clobber course 2's years.
	years := s.Options(selector.LevelYear)
	if len(years) != 1 || years[0].ID != 11 {
		t.Errorf("year options = %v, want the newer selection's", years)
	}
}

func TestEnabled(t *testing.T) {
	s := selector.New(newFakeSource(), notify.Nop{})
	ctx := t.Context()
	if err := s.LoadCourses(ctx); err != nil {
		t.Fatal(err)
	}

	if !s.Enabled(selector.LevelCourse) {
		t.Error("course level should always be enabled")
	}
	if s.Enabled(selector.LevelYear) {
		t.Error("year level should be disabled before a course is chosen")
	}

	s.Select(ctx, selector.LevelCourse, 1)
	if !s.Enabled(selector.LevelYear) {
		t.Error("year level should be enabled after course selection")
	}
	if s.Enabled(selector.LevelUnit) {
		t.Error("unit level should stay disabled without a semester")
	}
}

func TestSelect_UnknownID(t *testing.T) {
	rec := &notify.Recorder{}
	s := selector.New(newFakeSource(), rec)
	ctx := t.Context()
	if err := s.LoadCourses(ctx); err != nil {
		t.Fatal(err)
	}

	s.Select(ctx, selector.LevelCourse, 999)
	if _, ok := s.Selected(selector.LevelCourse); ok {
		t.Error("unknown id should not select")
	}
	if len(rec.Entries()) == 0 {
		t.Error("unknown id should notify")
	}
}

func TestReset(t *testing.T) {
	s := selector.New(newFakeSource(), notify.Nop{})
	selectPath(t, s)

	s.Reset()
	if _, ok := s.Selected(selector.LevelCourse); ok {
		t.Error("Reset() should clear the course selection")
	}
	if opts := s.Options(selector.LevelCourse); len(opts) != 2 {
		t.Errorf("Reset() should keep the course options, got %v", opts)
	}
	if opts := s.Options(selector.LevelYear); len(opts) != 0 {
		t.Errorf("Reset() should drop year options, got %v", opts)
	}
}
