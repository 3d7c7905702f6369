package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coursedesk/coursedesk/internal/export"
	"github.com/coursedesk/coursedesk/internal/quiz"
)

func (cli *commandLine) runQuiz(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	unitID := fs.Int("unit", 0, "unit ID to quiz on (otherwise picked interactively)")
	exportSheet := fs.Bool("export", false, "write a score sheet when the quiz ends")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reader := bufio.NewReader(cli.in)

	id := *unitID
	if id == 0 {
		sel, err := cli.pickUnit(ctx, reader)
		if err != nil {
			return err
		}
		unit, _ := sel.Unit()
		id = unit.ID
	}

	questions, err := cli.client.UnitQuestions(ctx, id)
	if err != nil {
		return err
	}
	run, err := quiz.NewRun(questions, cli.notifier)
	if err != nil {
		return err
	}

	for !run.Finished() {
		q := run.Current()
		n, total := run.Progress()
		fmt.Fprintf(cli.out, "\nQuestion %d of %d: %s\n", n, total, q.Question)

		keys := make([]string, 0, len(q.Options))
		for k := range q.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cli.out, "  %s) %s\n", k, q.Options[k])
		}

		fmt.Fprint(cli.out, "Answer: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		key := strings.ToUpper(strings.TrimSpace(line))
		if err := run.SelectAnswer(key); err != nil {
			fmt.Fprintln(cli.out, err)
			continue
		}
		if err := run.CheckAnswer(); err != nil {
			return err
		}
		if err := run.Next(); err != nil {
			return err
		}
	}

	_, total := run.Progress()
	fmt.Fprintf(cli.out, "\nFinal score: %d/%d\n", run.Score(), total)

	if *exportSheet {
		f, err := export.QuizReport(run.Results())
		if err != nil {
			return err
		}
		defer f.Close()
		path := filepath.Join(cli.exportDir, fmt.Sprintf("quiz-unit-%d.xlsx", id))
		if err := f.SaveAs(path); err != nil {
			return fmt.Errorf("write score sheet: %w", err)
		}
		fmt.Fprintf(cli.out, "Score sheet written to %s\n", path)
	}
	return nil
}
