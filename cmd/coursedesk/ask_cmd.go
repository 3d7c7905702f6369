package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/qa"
	"github.com/coursedesk/coursedesk/internal/selector"
	"github.com/coursedesk/coursedesk/internal/session"
)

// fixedUnit satisfies qa.UnitSource when the unit is given on the
// command line instead of picked interactively.
type fixedUnit struct {
	unit api.NamedItem
	path string
}

func (f fixedUnit) Unit() (api.NamedItem, bool) { return f.unit, true }
func (f fixedUnit) Breadcrumb() string          { return f.path }

func (cli *commandLine) runAsk(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	unitID := fs.Int("unit", 0, "unit ID to ask about (otherwise picked interactively)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reader := bufio.NewReader(cli.in)

	units, err := cli.unitSource(ctx, *unitID, reader)
	if err != nil {
		return err
	}

	flow := qa.New(cli.client, units, cli.store, cli.notifier)
	unit, _ := units.Unit()
	if path := units.Breadcrumb(); path != "" {
		fmt.Fprintf(cli.out, "Asking about %s (%s). Empty line quits, /new starts a fresh session.\n", unit.Name, path)
	} else {
		fmt.Fprintf(cli.out, "Asking about %s. Empty line quits, /new starts a fresh session.\n", unit.Name)
	}

	for {
		fmt.Fprint(cli.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		if line == "/new" {
			if err := flow.NewSession(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cli.out, "Started a new session.")
			continue
		}

		answer, err := flow.Submit(ctx, line)
		if err != nil {
			// The flow already notified; keep the loop alive.
			continue
		}
		fmt.Fprintln(cli.out, answer.Content)
	}
}

// unitSource resolves where questions are aimed: either the -unit
// flag or a walk down the hierarchy.
func (cli *commandLine) unitSource(ctx context.Context, unitID int, reader *bufio.Reader) (qa.UnitSource, error) {
	if unitID > 0 {
		return fixedUnit{unit: api.NamedItem{ID: unitID, Name: fmt.Sprintf("unit %d", unitID)}}, nil
	}
	return cli.pickUnit(ctx, reader)
}

// pickUnit walks course, year, semester, unit, prompting at each
// level.
func (cli *commandLine) pickUnit(ctx context.Context, reader *bufio.Reader) (*selector.State, error) {
	sel := selector.New(cli.client, cli.notifier)
	if err := sel.LoadCourses(ctx); err != nil {
		return nil, err
	}

	for _, level := range []selector.Level{selector.LevelCourse, selector.LevelYear, selector.LevelSemester, selector.LevelUnit} {
		options := sel.Options(level)
		if len(options) == 0 {
			return nil, fmt.Errorf("no %ss to choose from", level)
		}
		fmt.Fprintf(cli.out, "%ss:\n", level)
		for _, opt := range options {
			fmt.Fprintf(cli.out, "%4d  %s\n", opt.ID, opt.Name)
		}

		id, err := cli.readID(reader, fmt.Sprintf("Select %s: ", level))
		if err != nil {
			return nil, err
		}
		sel.Select(ctx, level, id)
		if _, ok := sel.Selected(level); !ok {
			return nil, fmt.Errorf("no such %s: %d", level, id)
		}
	}
	return sel, nil
}

func (cli *commandLine) readID(reader *bufio.Reader, prompt string) (int, error) {
	fmt.Fprint(cli.out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("read selection: %w", err)
	}
	id, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", strings.TrimSpace(line))
	}
	return id, nil
}

// sessionLabel is how a session shows up in lists.
func sessionLabel(sess session.Session) string {
	if sess.CoursePath != "" {
		return fmt.Sprintf("%s (%s)", sess.UnitName, sess.CoursePath)
	}
	return sess.UnitName
}
