// Package hierarchy manages the course structure: courses contain
// years, years contain semesters, semesters contain units. Each level
// is edited through a Panel that refetches its list after every
// mutation so the view never drifts from the service.
package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/notify"
)

// Confirmer asks the user to confirm a destructive action. Deletes do
// not proceed until it returns.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Panel manages the item list at one level of the hierarchy, bound to
// its parent item.
type Panel struct {
	label    string
	notifier notify.Notifier
	confirm  Confirmer

	list   func(ctx context.Context) ([]api.NamedItem, error)
	create func(ctx context.Context, name string) (api.NamedItem, error)
	rename func(ctx context.Context, id int, name string) (api.NamedItem, error)
	remove func(ctx context.Context, id int) error

	mu    sync.Mutex
	items []api.NamedItem
}

// CoursePanel edits the top-level course list.
func CoursePanel(client *api.Client, notifier notify.Notifier, confirm Confirmer) *Panel {
	return newPanel("course", notifier, confirm,
		client.ListCourses, client.CreateCourse, client.UpdateCourse, client.DeleteCourse)
}

// YearPanel edits the years of one course.
func YearPanel(client *api.Client, courseID int, notifier notify.Notifier, confirm Confirmer) *Panel {
	return newPanel("year", notifier, confirm,
		func(ctx context.Context) ([]api.NamedItem, error) {
			return client.ListYears(ctx, courseID)
		},
		func(ctx context.Context, name string) (api.NamedItem, error) {
			return client.CreateYear(ctx, courseID, name)
		},
		client.UpdateYear, client.DeleteYear)
}

// SemesterPanel edits the semesters of one year.
func SemesterPanel(client *api.Client, yearID int, notifier notify.Notifier, confirm Confirmer) *Panel {
	return newPanel("semester", notifier, confirm,
		func(ctx context.Context) ([]api.NamedItem, error) {
			return client.ListSemesters(ctx, yearID)
		},
		func(ctx context.Context, name string) (api.NamedItem, error) {
			return client.CreateSemester(ctx, yearID, name)
		},
		client.UpdateSemester, client.DeleteSemester)
}

// UnitPanel edits the units of one semester.
func UnitPanel(client *api.Client, semesterID int, notifier notify.Notifier, confirm Confirmer) *Panel {
	return newPanel("unit", notifier, confirm,
		func(ctx context.Context) ([]api.NamedItem, error) {
			return client.ListUnits(ctx, semesterID)
		},
		func(ctx context.Context, name string) (api.NamedItem, error) {
			return client.CreateUnit(ctx, semesterID, name)
		},
		client.UpdateUnit, client.DeleteUnit)
}

func newPanel(
	label string,
	notifier notify.Notifier,
	confirm Confirmer,
	list func(context.Context) ([]api.NamedItem, error),
	create func(context.Context, string) (api.NamedItem, error),
	rename func(context.Context, int, string) (api.NamedItem, error),
	remove func(context.Context, int) error,
) *Panel {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if confirm == nil {
		confirm = ConfirmFunc(func(string) bool { return true })
	}
	return &Panel{
		label:    label,
		notifier: notifier,
		confirm:  confirm,
		list:     list,
		create:   create,
		rename:   rename,
		remove:   remove,
	}
}

// Refresh refetches the item list.
func (p *Panel) Refresh(ctx context.Context) error {
	items, err := p.list(ctx)
	if err != nil {
		p.notifier.Notify(notify.Error, fmt.Sprintf("Failed to fetch %ss", p.label))
		return fmt.Errorf("list %ss: %w", p.label, err)
	}
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return nil
}

// Items returns the last fetched list.
func (p *Panel) Items() []api.NamedItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.NamedItem{}, p.items...)
}

// Create adds a new item and refetches the list.
func (p *Panel) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		p.notifier.Notify(notify.Warning, fmt.Sprintf("The %s name cannot be empty", p.label))
		return fmt.Errorf("%s name is empty", p.label)
	}

	if _, err := p.create(ctx, name); err != nil {
		slog.Error("create failed", "level", p.label, "name", name, "error", err)
		p.notifier.Notify(notify.Error, fmt.Sprintf("Failed to create %s", p.label))
		return fmt.Errorf("create %s: %w", p.label, err)
	}
	p.notifier.Notify(notify.Success, fmt.Sprintf("Created %s %q", p.label, name))
	return p.Refresh(ctx)
}

// Rename changes an item's name and refetches the list.
func (p *Panel) Rename(ctx context.Context, id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		p.notifier.Notify(notify.Warning, fmt.Sprintf("The %s name cannot be empty", p.label))
		return fmt.Errorf("%s name is empty", p.label)
	}

	if _, err := p.rename(ctx, id, name); err != nil {
		slog.Error("rename failed", "level", p.label, "id", id, "error", err)
		p.notifier.Notify(notify.Error, fmt.Sprintf("Failed to rename %s", p.label))
		return fmt.Errorf("rename %s: %w", p.label, err)
	}
	p.notifier.Notify(notify.Success, fmt.Sprintf("Renamed %s to %q", p.label, name))
	return p.Refresh(ctx)
}

// Delete removes an item after confirmation, then refetches the list.
// Deleting cascades on the service side, taking everything beneath
// the item with it. A declined confirmation is not an error.
func (p *Panel) Delete(ctx context.Context, id int) error {
	prompt := fmt.Sprintf("Delete this %s and everything under it?", p.label)
	if !p.confirm.Confirm(prompt) {
		return nil
	}

	if err := p.remove(ctx, id); err != nil {
		slog.Error("delete failed", "level", p.label, "id", id, "error", err)
		p.notifier.Notify(notify.Error, fmt.Sprintf("Failed to delete %s", p.label))
		return fmt.Errorf("delete %s: %w", p.label, err)
	}
	p.notifier.Notify(notify.Success, fmt.Sprintf("Deleted %s", p.label))
	return p.Refresh(ctx)
}
